package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"github.com/kapu/chess-learn-go/internal/domain"
)

type postgresStore struct {
	db *sql.DB
}

// NewPostgresStore opens a connection pool against databaseURL and ensures
// the schema exists.
func NewPostgresStore(databaseURL string) (Store, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(16)
	db.SetMaxIdleConns(8)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	s := &postgresStore{db: db}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate schema: %w", err)
	}
	return s, nil
}

func (s *postgresStore) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			username TEXT NOT NULL,
			email TEXT NOT NULL DEFAULT '',
			password_hash TEXT NOT NULL,
			games_imported INTEGER NOT NULL DEFAULT 0,
			email_verified BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS users_username_lower ON users (lower(username))`,
		`CREATE UNIQUE INDEX IF NOT EXISTS users_email_lower ON users (lower(email)) WHERE email <> ''`,
		`CREATE TABLE IF NOT EXISTS linked_accounts (
			user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			platform TEXT NOT NULL,
			username TEXT NOT NULL,
			verified BOOLEAN NOT NULL DEFAULT FALSE,
			linked_at TIMESTAMPTZ NOT NULL,
			PRIMARY KEY (user_id, platform)
		)`,
	}
	for _, q := range stmts {
		if _, err := s.db.ExecContext(ctx, q); err != nil {
			return err
		}
	}
	return nil
}

func (s *postgresStore) CreateUser(ctx context.Context, user *domain.User) error {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE lower(username) = lower($1) OR (email <> '' AND lower(email) = lower($2)))`,
		user.Username, user.Email,
	).Scan(&exists)
	if err != nil {
		return err
	}
	if exists {
		return ErrUserExists
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO users (id, username, email, password_hash, games_imported, email_verified, created_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		user.ID, user.Username, user.Email, user.PasswordHash,
		user.GamesImported, user.EmailVerified, user.CreatedAt,
	)
	return err
}

func (s *postgresStore) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	return s.getUser(ctx, `WHERE id = $1`, id)
}

func (s *postgresStore) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.getUser(ctx, `WHERE lower(username) = lower($1)`, username)
}

func (s *postgresStore) getUser(ctx context.Context, where string, arg any) (*domain.User, error) {
	u := &domain.User{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, username, email, password_hash, games_imported, email_verified, created_at FROM users `+where,
		arg,
	).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.GamesImported, &u.EmailVerified, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT platform, username, verified, linked_at FROM linked_accounts WHERE user_id = $1`, u.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	u.Accounts = make(map[string]*domain.LinkedAccount)
	for rows.Next() {
		link := &domain.LinkedAccount{}
		if err := rows.Scan(&link.Platform, &link.Username, &link.Verified, &link.LinkedAt); err != nil {
			return nil, err
		}
		u.Accounts[link.Platform] = link
	}
	return u, rows.Err()
}

func (s *postgresStore) UpsertLink(ctx context.Context, userID string, link *domain.LinkedAccount) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO linked_accounts (user_id, platform, username, verified, linked_at)
		 VALUES ($1,$2,$3,$4,$5)
		 ON CONFLICT (user_id, platform) DO UPDATE SET
			username=EXCLUDED.username,
			verified=EXCLUDED.verified,
			linked_at=EXCLUDED.linked_at`,
		userID, link.Platform, link.Username, link.Verified, link.LinkedAt,
	)
	return err
}

func (s *postgresStore) DeleteLink(ctx context.Context, userID, platform string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM linked_accounts WHERE user_id = $1 AND platform = $2`, userID, platform)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrLinkNotFound
	}
	return nil
}

func (s *postgresStore) AddGamesImported(ctx context.Context, userID string, n int) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET games_imported = games_imported + $2 WHERE id = $1`, userID, n)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (s *postgresStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
