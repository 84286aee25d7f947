package domain

import (
	"errors"
	"strings"
)

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrUserExists          = errors.New("user already exists with this email")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrTooManyAttempts     = errors.New("too many failed login attempts")
	ErrAlreadyFavorite     = errors.New("movie is already a favorite")
	ErrNoToken             = errors.New("no token provided")
	ErrInvalidToken        = errors.New("invalid token")
	ErrTokenExpired        = expiredTokenError{}
	ErrTokenUserGone       = errors.New("no user found with this token")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
)

// expiredTokenError matches both ErrTokenExpired and ErrInvalidToken so callers
// that only care about validity need a single check.
type expiredTokenError struct{}

func (expiredTokenError) Error() string { return "token expired" }

func (expiredTokenError) Is(target error) bool {
	return target == ErrInvalidToken
}

// FieldViolation describes one rejected input field.
type FieldViolation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries every violated field of a request.
type ValidationError struct {
	Fields []FieldViolation
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldViolation{{Field: field, Message: message}}}
}
