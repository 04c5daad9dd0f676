package store

import (
	"context"
	"errors"

	"github.com/kapu/chess-learn-go/internal/domain"
)

var (
	ErrUserExists   = errors.New("username or email already registered")
	ErrUserNotFound = errors.New("user not found")
	ErrLinkNotFound = errors.New("no linked account for platform")
)

// Store persists users and their linked platform accounts.
type Store interface {
	CreateUser(ctx context.Context, user *domain.User) error
	GetUserByID(ctx context.Context, id string) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	UpsertLink(ctx context.Context, userID string, link *domain.LinkedAccount) error
	DeleteLink(ctx context.Context, userID, platform string) error
	AddGamesImported(ctx context.Context, userID string, n int) error
	Close() error
}
