package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kapu/chess-learn-go/internal/auth"
)

const claimsKey = "auth_claims"

// requireAuth enforces bearer token auth and stores the claims on the
// gin context.
func requireAuth(tokens *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			writeError(c, http.StatusUnauthorized, "missing authorization header")
			return
		}
		token, ok := extractBearerToken(header)
		if !ok {
			writeError(c, http.StatusUnauthorized, "invalid authorization header")
			return
		}
		claims, err := tokens.ValidateToken(token)
		if err != nil {
			writeError(c, http.StatusUnauthorized, "invalid or expired token")
			return
		}
		c.Set(claimsKey, claims)
		c.Next()
	}
}

func extractBearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

func currentClaims(c *gin.Context) *auth.Claims {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*auth.Claims)
	return claims
}
