// Package api mounts the HTTP surface: auth, account linking, game history,
// and the live board.
package api

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kapu/chess-learn-go/internal/auth"
	"github.com/kapu/chess-learn-go/internal/service/accounts"
	"github.com/kapu/chess-learn-go/internal/service/games"
)

type Router struct {
	accounts *accounts.Service
	games    *games.Service
	tokens   *auth.Service
	logger   *zap.Logger
}

// NewRouter builds the gin engine with all routes mounted.
func NewRouter(acc *accounts.Service, gs *games.Service, tokens *auth.Service, corsOrigins []string, logger *zap.Logger) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Router{accounts: acc, games: gs, tokens: tokens, logger: logger}

	engine := gin.New()
	engine.Use(gin.Recovery())

	if len(corsOrigins) == 0 {
		corsOrigins = []string{"*"}
	}
	engine.Use(cors.New(cors.Config{
		AllowOrigins: corsOrigins,
		AllowMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		MaxAge:       12 * time.Hour,
	}))

	engine.GET("/", r.handleRoot)
	engine.GET("/health", r.handleHealth)

	api := engine.Group("/api")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", r.handleRegister)
			authGroup.POST("/login", r.handleLogin)
			authGroup.GET("/me", requireAuth(tokens), r.handleMe)
		}

		accountsGroup := api.Group("/chess-accounts", requireAuth(tokens))
		{
			accountsGroup.POST("/link", r.handleLink)
			accountsGroup.DELETE("/unlink/:platform", r.handleUnlink)
			accountsGroup.GET("/games/:platform", r.handleGames)
		}

		boardGroup := api.Group("/chess")
		{
			boardGroup.GET("/new-game", r.handleNewGame)
			boardGroup.POST("/make-move", r.handleMakeMove)
			boardGroup.GET("/opening", r.handleOpening)
		}
	}

	return engine
}
