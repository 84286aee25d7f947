package ports

import (
	"context"

	"github.com/cinefav/favorites-api/internal/core/domain"
)

// RegisterInput is the raw registration payload; the service normalises it.
type RegisterInput struct {
	Name     string `validate:"required,min=2,max=50"`
	Email    string `validate:"required,email_shape"`
	Password string `validate:"required,min=6,max_bytes=72"`
}

// LoginInput is the raw login payload.
type LoginInput struct {
	Email    string `validate:"required,email_shape"`
	Password string `validate:"required"`
}

// AuthResult is returned by register and login.
type AuthResult struct {
	Tokens domain.TokenPair
	User   domain.PublicUser
}

// AuthService implements the account lifecycle.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, in LoginInput) (*AuthResult, error)
	Me(ctx context.Context, userID string) (*domain.PublicUser, error)
	Logout(ctx context.Context, userID string) error
	Refresh(ctx context.Context, refreshToken string) (string, error)
}

// LoginThrottle limits repeated failed logins per email.
type LoginThrottle interface {
	Blocked(ctx context.Context, email string) (bool, error)
	RecordFailure(ctx context.Context, email string) error
	Reset(ctx context.Context, email string) error
}
