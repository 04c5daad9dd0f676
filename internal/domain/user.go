package domain

import "time"

// Supported external chess platforms.
const (
	PlatformChessCom = "chess.com"
	PlatformLichess  = "lichess.org"
)

// KnownPlatform reports whether name is one of the linkable platforms.
func KnownPlatform(name string) bool {
	return name == PlatformChessCom || name == PlatformLichess
}

// User is a registered account on the learning platform.
type User struct {
	ID            string
	Username      string
	Email         string
	PasswordHash  string
	GamesImported int
	EmailVerified bool
	CreatedAt     time.Time
	Accounts      map[string]*LinkedAccount // platform -> linked handle
}

// LinkedAccount binds a user to a handle on an external chess platform.
// The handle is verified against the platform's public API at link time.
type LinkedAccount struct {
	Platform string
	Username string
	Verified bool
	LinkedAt time.Time
}
