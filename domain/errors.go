package domain

import (
	"errors"
	"fmt"
)

// ErrorCode represents a semantic classification shared across transport layers.
type ErrorCode string

const (
	ErrCodeNotFound     ErrorCode = "NOT_FOUND"
	ErrCodeInvalid      ErrorCode = "INVALID"
	ErrCodeConflict     ErrorCode = "CONFLICT"
	ErrCodeForbidden    ErrorCode = "FORBIDDEN"
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrCodeUnavailable  ErrorCode = "UNAVAILABLE"
	ErrCodeInternal     ErrorCode = "INTERNAL"
)

// Error represents a domain-level error.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewError builds a domain error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WrapError wraps an existing error with a domain classification.
func WrapError(code ErrorCode, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common domain errors.
var (
	ErrUserNotFound    = NewError(ErrCodeNotFound, "user not found")
	ErrTaskNotFound    = NewError(ErrCodeNotFound, "task not found")
	ErrSessionNotFound = NewError(ErrCodeNotFound, "session not found")
	ErrTokenNotFound   = NewError(ErrCodeNotFound, "token not found or already used")
	ErrUnauthorized    = NewError(ErrCodeUnauthorized, "unauthorized")
	ErrInvalidPayload  = NewError(ErrCodeInvalid, "invalid payload")

	// Auth sub-kinds surfaced to the client per message.
	ErrEmailInUse       = NewError(ErrCodeConflict, "email already in use")
	ErrInvalidEmail     = NewError(ErrCodeInvalid, "invalid email address")
	ErrWeakPassword     = NewError(ErrCodeInvalid, "password does not meet the minimum requirements")
	ErrWrongCredentials = NewError(ErrCodeUnauthorized, "wrong email or password")
	ErrEmailNotVerified = NewError(ErrCodeForbidden, "email address not verified")

	// Task lifecycle.
	ErrTaskCompleted = NewError(ErrCodeConflict, "task already completed")
	ErrSubItemIndex  = NewError(ErrCodeInvalid, "sub-item index out of range")

	// StoreUnavailable: the single failure kind for document store calls.
	ErrStoreUnavailable = NewError(ErrCodeUnavailable, "task store unavailable")
)

// IsDomainError helps checking error codes.
func IsDomainError(err error, code ErrorCode) bool {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Code == code
	}
	return false
}
