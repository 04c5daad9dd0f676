package gamedto

import (
	"time"

	"github.com/kapu/chess-learn-go/internal/domain"
	"github.com/kapu/chess-learn-go/internal/normalize"
)

// TokenResponse carries a freshly issued bearer token.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// UserResponse is the authenticated user's profile view.
type UserResponse struct {
	ID            string               `json:"id"`
	Username      string               `json:"username"`
	Email         string               `json:"email,omitempty"`
	GamesImported int                  `json:"games_imported"`
	EmailVerified bool                 `json:"email_verified"`
	CreatedAt     time.Time            `json:"created_at"`
	Accounts      []LinkedAccountEntry `json:"linked_accounts"`
}

type LinkedAccountEntry struct {
	Platform string    `json:"platform"`
	Username string    `json:"username"`
	Verified bool      `json:"verified"`
	LinkedAt time.Time `json:"linked_at"`
}

// LinkAccountResponse confirms a platform link.
type LinkAccountResponse struct {
	Platform string `json:"platform"`
	Username string `json:"username"`
	Verified bool   `json:"verified"`
	Message  string `json:"message"`
}

// HistoryResponse is the normalized game batch for one platform account.
type HistoryResponse struct {
	Platform      string           `json:"platform"`
	Username      string           `json:"username"`
	Games         []domain.Game    `json:"games"`
	TotalFound    int              `json:"total_found"`
	Requested     int              `json:"requested"`
	MonthsChecked int              `json:"months_checked,omitempty"`
	Message       string           `json:"message"`
	Stats         *normalize.Stats `json:"stats,omitempty"`
	Cached        bool             `json:"cached"`
}

// ErrorResponse is the uniform error envelope.
type ErrorResponse struct {
	Detail string `json:"detail"`
}
