package auth

import (
	"errors"
	"regexp"
)

var (
	ErrUsernameTooShort = errors.New("username must be at least 3 characters long")
	ErrUsernameCharset  = errors.New("username can only contain letters, numbers, and underscores")
	ErrPasswordTooShort = errors.New("password must be at least 8 characters long")
	ErrPasswordNoLower  = errors.New("password must contain at least one lowercase letter")
	ErrPasswordNoUpper  = errors.New("password must contain at least one uppercase letter")
	ErrPasswordNoExtra  = errors.New("password must contain at least one number or symbol")
)

var (
	usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	lowerRe    = regexp.MustCompile(`[a-z]`)
	upperRe    = regexp.MustCompile(`[A-Z]`)
	extraRe    = regexp.MustCompile(`[0-9!@#$%^&*()_+\-=\[\]{};':"\\|,.<>\/?]`)
)

// ValidateUsername enforces the registration username rules.
func ValidateUsername(username string) error {
	if len(username) < 3 {
		return ErrUsernameTooShort
	}
	if !usernameRe.MatchString(username) {
		return ErrUsernameCharset
	}
	return nil
}

// ValidatePassword enforces the registration password rules: length plus
// lowercase, uppercase, and a digit or symbol.
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return ErrPasswordTooShort
	}
	if !lowerRe.MatchString(password) {
		return ErrPasswordNoLower
	}
	if !upperRe.MatchString(password) {
		return ErrPasswordNoUpper
	}
	if !extraRe.MatchString(password) {
		return ErrPasswordNoExtra
	}
	return nil
}
