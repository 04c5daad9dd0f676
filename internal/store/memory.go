package store

import (
	"context"
	"strings"
	"sync"

	"github.com/kapu/chess-learn-go/internal/domain"
)

// memstore is a development-only in-memory store used when no DB is configured.
type memstore struct {
	mu sync.RWMutex

	byID       map[string]*domain.User
	byUsername map[string]string // lowercase username -> id
	byEmail    map[string]string // lowercase email -> id
}

func NewMemoryStore() Store {
	return &memstore{
		byID:       make(map[string]*domain.User),
		byUsername: make(map[string]string),
		byEmail:    make(map[string]string),
	}
}

func (m *memstore) CreateUser(ctx context.Context, user *domain.User) error {
	uname := strings.ToLower(user.Username)
	email := strings.ToLower(user.Email)

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.byUsername[uname]; exists {
		return ErrUserExists
	}
	if email != "" {
		if _, exists := m.byEmail[email]; exists {
			return ErrUserExists
		}
	}

	cp := cloneUser(user)
	m.byID[cp.ID] = cp
	m.byUsername[uname] = cp.ID
	if email != "" {
		m.byEmail[email] = cp.ID
	}
	return nil
}

func (m *memstore) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.byID[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (m *memstore) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.byUsername[strings.ToLower(username)]
	if !ok {
		return nil, ErrUserNotFound
	}
	return cloneUser(m.byID[id]), nil
}

func (m *memstore) UpsertLink(ctx context.Context, userID string, link *domain.LinkedAccount) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[userID]
	if !ok {
		return ErrUserNotFound
	}
	if u.Accounts == nil {
		u.Accounts = make(map[string]*domain.LinkedAccount)
	}
	cp := *link
	u.Accounts[link.Platform] = &cp
	return nil
}

func (m *memstore) DeleteLink(ctx context.Context, userID, platform string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[userID]
	if !ok {
		return ErrUserNotFound
	}
	if _, ok := u.Accounts[platform]; !ok {
		return ErrLinkNotFound
	}
	delete(u.Accounts, platform)
	return nil
}

func (m *memstore) AddGamesImported(ctx context.Context, userID string, n int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[userID]
	if !ok {
		return ErrUserNotFound
	}
	u.GamesImported += n
	return nil
}

func (m *memstore) Close() error { return nil }

func cloneUser(u *domain.User) *domain.User {
	cp := *u
	if u.Accounts != nil {
		cp.Accounts = make(map[string]*domain.LinkedAccount, len(u.Accounts))
		for k, v := range u.Accounts {
			link := *v
			cp.Accounts[k] = &link
		}
	}
	return &cp
}
