package ports

import (
	"context"

	"github.com/cinefav/favorites-api/internal/core/domain"
)

// UserRepository is the credential store. Every read except
// FindByEmailWithPassword leaves User.PasswordHash empty.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByEmailWithPassword(ctx context.Context, email string) (*domain.User, error)

	// AddFavorite inserts movieID into the set in one atomic update; adding a
	// present id leaves the set unchanged.
	AddFavorite(ctx context.Context, userID string, movieID int) (*domain.User, error)
	// AddFavoriteIfAbsent inserts movieID only when absent and returns
	// domain.ErrAlreadyFavorite otherwise.
	AddFavoriteIfAbsent(ctx context.Context, userID string, movieID int) (*domain.User, error)
	// RemoveFavorite pulls movieID from the set; removing an absent id is not an error.
	RemoveFavorite(ctx context.Context, userID string, movieID int) (*domain.User, error)
}
