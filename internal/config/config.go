package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type AppConfig struct {
	HTTPAddr string `yaml:"http_addr" validate:"required"`

	JWTSecret      string `yaml:"jwt_secret" validate:"required,min=16"`
	TokenExpiryMin int    `yaml:"token_expiry_min" validate:"gt=0"`

	RedisURL    string `yaml:"redis_url" validate:"required"`
	DatabaseURL string `yaml:"database_url"`

	ChessComBaseURL string `yaml:"chesscom_base_url" validate:"required,url"`
	LichessBaseURL  string `yaml:"lichess_base_url" validate:"required,url"`

	FetchCacheTTLSec int `yaml:"fetch_cache_ttl_sec" validate:"gt=0"`
	FetchTimeoutSec  int `yaml:"fetch_timeout_sec" validate:"gt=0"`
	FetchRetries     int `yaml:"fetch_retries" validate:"gte=0"`

	CORSOrigins []string `yaml:"cors_origins"`
}

func (c *AppConfig) TokenExpiry() time.Duration {
	return time.Duration(c.TokenExpiryMin) * time.Minute
}

func (c *AppConfig) FetchCacheTTL() time.Duration {
	return time.Duration(c.FetchCacheTTLSec) * time.Second
}

func (c *AppConfig) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutSec) * time.Second
}

// Load reads configuration from the environment, with an optional YAML file
// (CONFIG_FILE) applied first so env vars win.
func Load() (*AppConfig, error) {
	cfg := &AppConfig{
		HTTPAddr:         ":8000",
		TokenExpiryMin:   30,
		ChessComBaseURL:  "https://api.chess.com",
		LichessBaseURL:   "https://lichess.org",
		FetchCacheTTLSec: 600,
		FetchTimeoutSec:  15,
		FetchRetries:     2,
	}

	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	if v := strings.TrimSpace(os.Getenv("HTTP_ADDR")); v != "" {
		cfg.HTTPAddr = v
	}
	cfg.JWTSecret = firstNonEmpty(strings.TrimSpace(os.Getenv("JWT_SECRET")), cfg.JWTSecret)
	if v := strings.TrimSpace(os.Getenv("TOKEN_EXPIRY_MIN")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TokenExpiryMin = n
		}
	}

	cfg.RedisURL = firstNonEmpty(strings.TrimSpace(os.Getenv("REDIS_URL")), cfg.RedisURL)
	cfg.DatabaseURL = firstNonEmpty(strings.TrimSpace(os.Getenv("DATABASE_URL")), cfg.DatabaseURL)

	if v := strings.TrimSpace(os.Getenv("CHESSCOM_BASE_URL")); v != "" {
		cfg.ChessComBaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv("LICHESS_BASE_URL")); v != "" {
		cfg.LichessBaseURL = v
	}

	if v := strings.TrimSpace(os.Getenv("FETCH_CACHE_TTL")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.FetchCacheTTLSec = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("FETCH_TIMEOUT")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.FetchTimeoutSec = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("FETCH_RETRIES")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.FetchRetries = n
		}
	}

	if v := strings.TrimSpace(os.Getenv("CORS_ORIGINS")); v != "" {
		cfg.CORSOrigins = nil
		for _, p := range strings.Split(v, ",") {
			if s := strings.TrimSpace(p); s != "" {
				cfg.CORSOrigins = append(cfg.CORSOrigins, s)
			}
		}
	}

	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}
	if cfg.RedisURL == "" {
		return nil, errors.New("REDIS_URL is required")
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation error: %w", err)
	}

	return cfg, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
