package gamedto

// RegisterRequest creates a new user account.
type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email"`
	Password string `json:"password" binding:"required"`
}

// LoginRequest exchanges credentials for a token.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LinkAccountRequest attaches a platform handle to the authenticated user.
type LinkAccountRequest struct {
	Platform string `json:"platform" binding:"required"`
	Username string `json:"username" binding:"required"`
}

// MoveRequest applies a single move to the given position.
type MoveRequest struct {
	FEN  string `json:"fen" binding:"required"`
	Move string `json:"move" binding:"required"`
}
