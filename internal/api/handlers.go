package api

import (
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kapu/chess-learn-go/internal/board"
	"github.com/kapu/chess-learn-go/internal/domain"
	"github.com/kapu/chess-learn-go/internal/normalize"
	"github.com/kapu/chess-learn-go/pkg/gamedto"
)

func (r *Router) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"service": "chess-learn", "status": "ok"})
}

func (r *Router) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func (r *Router) handleRegister(c *gin.Context) {
	var req gamedto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	user, err := r.accounts.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, userResponse(user))
}

func (r *Router) handleLogin(c *gin.Context) {
	var req gamedto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	token, err := r.accounts.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gamedto.TokenResponse{AccessToken: token, TokenType: "bearer"})
}

func (r *Router) handleMe(c *gin.Context) {
	claims := currentClaims(c)
	user, err := r.accounts.Me(c.Request.Context(), claims.UserID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, userResponse(user))
}

func (r *Router) handleLink(c *gin.Context) {
	claims := currentClaims(c)
	var req gamedto.LinkAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	link, err := r.accounts.Link(c.Request.Context(), claims.UserID, req.Platform, req.Username)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gamedto.LinkAccountResponse{
		Platform: link.Platform,
		Username: link.Username,
		Verified: link.Verified,
		Message:  "account linked",
	})
}

func (r *Router) handleUnlink(c *gin.Context) {
	claims := currentClaims(c)
	if err := r.accounts.Unlink(c.Request.Context(), claims.UserID, c.Param("platform")); err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "account unlinked"})
}

func (r *Router) handleGames(c *gin.Context) {
	claims := currentClaims(c)
	limit, _ := strconv.Atoi(c.Query("limit"))
	filter := normalize.Filter{
		TimeClass: c.Query("time_class"),
		Result:    c.Query("result"),
		Color:     c.Query("color"),
		Search:    c.Query("search"),
	}
	res, err := r.games.FetchHistory(c.Request.Context(), claims.UserID, c.Param("platform"), limit, filter)
	if err != nil {
		r.logger.Warn("game history fetch failed",
			zap.String("platform", c.Param("platform")),
			zap.Error(err))
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (r *Router) handleNewGame(c *gin.Context) {
	c.JSON(http.StatusOK, board.NewGame())
}

// handleOpening labels a line of play with its ECO book entry. Moves arrive
// as a comma-separated UCI list; an unlisted line yields empty fields.
func (r *Router) handleOpening(c *gin.Context) {
	raw := strings.TrimSpace(c.Query("moves"))
	if raw == "" {
		writeError(c, http.StatusBadRequest, "moves query parameter is required")
		return
	}
	code, name := board.OpeningLabel(strings.Split(raw, ","))
	c.JSON(http.StatusOK, gin.H{"eco": code, "name": name})
}

func (r *Router) handleMakeMove(c *gin.Context) {
	var req gamedto.MoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	res, err := board.MakeMove(req.FEN, req.Move)
	if err != nil {
		writeError(c, http.StatusBadRequest, "invalid FEN")
		return
	}
	c.JSON(http.StatusOK, res)
}

func userResponse(u *domain.User) gamedto.UserResponse {
	entries := make([]gamedto.LinkedAccountEntry, 0, len(u.Accounts))
	for _, link := range u.Accounts {
		entries = append(entries, gamedto.LinkedAccountEntry{
			Platform: link.Platform,
			Username: link.Username,
			Verified: link.Verified,
			LinkedAt: link.LinkedAt,
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Platform < entries[j].Platform })
	return gamedto.UserResponse{
		ID:            u.ID,
		Username:      u.Username,
		Email:         u.Email,
		GamesImported: u.GamesImported,
		EmailVerified: u.EmailVerified,
		CreatedAt:     u.CreatedAt,
		Accounts:      entries,
	}
}
