package middleware

import (
	"context"

	"github.com/cinefav/favorites-api/internal/core/domain"
)

type userKey struct{}

// WithUser returns a copy of ctx carrying the user resolved by Protect.
func WithUser(ctx context.Context, user *domain.User) context.Context {
	return context.WithValue(ctx, userKey{}, user)
}

// UserFromContext returns the user resolved by Protect, if any.
func UserFromContext(ctx context.Context) (*domain.User, bool) {
	u, ok := ctx.Value(userKey{}).(*domain.User)
	return u, ok && u != nil
}
