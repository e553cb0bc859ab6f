package usecase

import (
	"unicode"

	"golang.org/x/crypto/bcrypt"

	"github.com/focusflow/backend/domain"
)

// ValidatePassword enforces the account password policy: at least six
// characters including an upper-case letter, a lower-case letter, a digit and
// a special character.
func ValidatePassword(password string) error {
	if len(password) < 6 {
		return domain.ErrWeakPassword
	}
	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			hasSpecial = true
		}
	}
	if !hasUpper || !hasLower || !hasDigit || !hasSpecial {
		return domain.ErrWeakPassword
	}
	return nil
}

// HashPassword derives the stored bcrypt hash for a plaintext password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether the plaintext matches the stored hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
