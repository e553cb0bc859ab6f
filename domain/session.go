package domain

import "time"

// Session represents a cached authentication session stored in Redis.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *Session) IsExpired(reference time.Time) bool {
	if s == nil {
		return true
	}
	if reference.IsZero() {
		reference = time.Now()
	}
	return !s.ExpiresAt.After(reference)
}

// TokenKind classifies one-shot account tokens.
type TokenKind string

const (
	TokenVerifyEmail   TokenKind = "verify_email"
	TokenResetPassword TokenKind = "reset_password"
	TokenChangeEmail   TokenKind = "change_email"
)

// Token is a single-use account action token (email verification, password
// reset, email change). Consumed atomically on first use.
type Token struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Kind      TokenKind `json:"kind"`
	NewEmail  string    `json:"new_email,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}
