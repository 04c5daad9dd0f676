// Package accounts implements user registration, login, and platform
// account linking.
package accounts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kapu/chess-learn-go/internal/auth"
	"github.com/kapu/chess-learn-go/internal/domain"
	"github.com/kapu/chess-learn-go/internal/store"
)

var ErrUnknownPlatform = errors.New("unsupported platform")

// Verifier checks that a handle exists on a platform.
type Verifier interface {
	VerifyAccount(ctx context.Context, username string) (json.RawMessage, error)
}

type Service struct {
	store     store.Store
	tokens    *auth.Service
	verifiers map[string]Verifier
	logger    *zap.Logger
}

func NewService(st store.Store, tokens *auth.Service, verifiers map[string]Verifier, logger *zap.Logger) (*Service, error) {
	if st == nil {
		return nil, fmt.Errorf("store is required")
	}
	if tokens == nil {
		return nil, fmt.Errorf("token service is required")
	}
	if len(verifiers) == 0 {
		return nil, fmt.Errorf("at least one platform verifier is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: st, tokens: tokens, verifiers: verifiers, logger: logger}, nil
}

// Register validates credentials, hashes the password, and stores the user.
func (s *Service) Register(ctx context.Context, username, email, password string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	if err := auth.ValidateUsername(username); err != nil {
		return nil, err
	}
	if err := auth.ValidatePassword(password); err != nil {
		return nil, err
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
		Accounts:     make(map[string]*domain.LinkedAccount),
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info("user registered", zap.String("username", username))
	return user, nil
}

// Login verifies credentials and issues a bearer token.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.store.GetUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return "", auth.ErrInvalidCredentials
		}
		return "", err
	}
	if !auth.CheckPassword(password, user.PasswordHash) {
		return "", auth.ErrInvalidCredentials
	}
	return s.tokens.GenerateToken(user.ID, user.Username)
}

// Me returns the user's profile.
func (s *Service) Me(ctx context.Context, userID string) (*domain.User, error) {
	return s.store.GetUserByID(ctx, userID)
}

// Link verifies the handle against the platform and stores it. Linking the
// same platform again replaces the previous handle.
func (s *Service) Link(ctx context.Context, userID, platformName, handle string) (*domain.LinkedAccount, error) {
	platformName = strings.ToLower(strings.TrimSpace(platformName))
	handle = strings.TrimSpace(handle)
	if !domain.KnownPlatform(platformName) {
		return nil, ErrUnknownPlatform
	}
	verifier, ok := s.verifiers[platformName]
	if !ok {
		return nil, ErrUnknownPlatform
	}
	if _, err := verifier.VerifyAccount(ctx, handle); err != nil {
		return nil, err
	}

	link := &domain.LinkedAccount{
		Platform: platformName,
		Username: handle,
		Verified: true,
		LinkedAt: time.Now().UTC(),
	}
	if err := s.store.UpsertLink(ctx, userID, link); err != nil {
		return nil, err
	}
	s.logger.Info("account linked",
		zap.String("user_id", userID),
		zap.String("platform", platformName),
		zap.String("handle", handle))
	return link, nil
}

// Unlink removes a linked account.
func (s *Service) Unlink(ctx context.Context, userID, platformName string) error {
	platformName = strings.ToLower(strings.TrimSpace(platformName))
	if !domain.KnownPlatform(platformName) {
		return ErrUnknownPlatform
	}
	return s.store.DeleteLink(ctx, userID, platformName)
}
