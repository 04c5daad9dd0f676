package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kapu/chess-learn-go/internal/auth"
	"github.com/kapu/chess-learn-go/internal/platform"
	"github.com/kapu/chess-learn-go/internal/service/accounts"
	"github.com/kapu/chess-learn-go/internal/service/games"
	"github.com/kapu/chess-learn-go/internal/store"
	"github.com/kapu/chess-learn-go/pkg/gamedto"
)

func writeError(c *gin.Context, status int, detail string) {
	c.AbortWithStatusJSON(status, gamedto.ErrorResponse{Detail: detail})
}

// writeServiceError maps service sentinel errors onto HTTP statuses. Anything
// unrecognized is a 500 with a generic body; the real error goes to the log.
func writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrUserExists):
		writeError(c, http.StatusConflict, err.Error())
	case errors.Is(err, store.ErrUserNotFound):
		writeError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, store.ErrLinkNotFound),
		errors.Is(err, games.ErrNoLinkedAccount):
		writeError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeError(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, auth.ErrUsernameTooShort),
		errors.Is(err, auth.ErrUsernameCharset),
		errors.Is(err, auth.ErrPasswordTooShort),
		errors.Is(err, auth.ErrPasswordNoLower),
		errors.Is(err, auth.ErrPasswordNoUpper),
		errors.Is(err, auth.ErrPasswordNoExtra),
		errors.Is(err, accounts.ErrUnknownPlatform):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, platform.ErrAccountNotFound):
		writeError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, platform.ErrUpstream):
		writeError(c, http.StatusBadGateway, err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "internal server error")
	}
}
