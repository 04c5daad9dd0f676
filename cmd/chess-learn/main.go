package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kapu/chess-learn-go/internal/api"
	"github.com/kapu/chess-learn-go/internal/auth"
	"github.com/kapu/chess-learn-go/internal/cache"
	appcfg "github.com/kapu/chess-learn-go/internal/config"
	"github.com/kapu/chess-learn-go/internal/domain"
	"github.com/kapu/chess-learn-go/internal/obslog"
	"github.com/kapu/chess-learn-go/internal/platform"
	"github.com/kapu/chess-learn-go/internal/service/accounts"
	"github.com/kapu/chess-learn-go/internal/service/games"
	"github.com/kapu/chess-learn-go/internal/store"
)

func main() {
	cfg, err := appcfg.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if err := obslog.InitFromEnv(); err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	logger := obslog.L()
	defer func() { _ = logger.Sync() }()

	// Persistence: Postgres when DATABASE_URL is set, in-memory otherwise.
	var st store.Store
	if cfg.DatabaseURL != "" {
		st, err = store.NewPostgresStore(cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("postgres init failed", zap.Error(err))
		}
	} else {
		logger.Warn("DATABASE_URL not set, using in-memory store")
		st = store.NewMemoryStore()
	}
	defer func() { _ = st.Close() }()

	gameCache, err := cache.New(cfg.RedisURL, logger)
	if err != nil {
		logger.Fatal("redis init failed", zap.Error(err))
	}
	defer func() { _ = gameCache.Close() }()

	httpClient := platform.NewClient(
		platform.WithTimeout(cfg.FetchTimeout()),
		platform.WithRetry(cfg.FetchRetries),
	)
	chessCom := platform.NewChessCom(httpClient, cfg.ChessComBaseURL, logger)
	lichess := platform.NewLichess(httpClient, cfg.LichessBaseURL, logger)

	tokens := auth.NewService(cfg.JWTSecret, cfg.TokenExpiry())

	accountsSvc, err := accounts.NewService(st, tokens, map[string]accounts.Verifier{
		domain.PlatformChessCom: chessCom,
		domain.PlatformLichess:  lichess,
	}, logger)
	if err != nil {
		logger.Fatal("accounts service init failed", zap.Error(err))
	}

	gamesSvc, err := games.NewService(st, gameCache, map[string]games.Fetcher{
		domain.PlatformChessCom: chessCom,
		domain.PlatformLichess:  lichess,
	}, cfg.FetchCacheTTL(), logger)
	if err != nil {
		logger.Fatal("games service init failed", zap.Error(err))
	}

	engine := api.NewRouter(accountsSvc, gamesSvc, tokens, cfg.CORSOrigins, logger)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server error", zap.Error(err))
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}
}
