package domain

import "time"

// User represents an authenticated identity.
type User struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	EmailVerified bool      `json:"email_verified"`
	PasswordHash  string    `json:"-"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// CanSignIn reports whether the account has completed email verification.
func (u *User) CanSignIn() bool {
	return u != nil && u.EmailVerified
}
