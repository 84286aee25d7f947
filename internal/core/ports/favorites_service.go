package ports

import "context"

// FavoritesService mutates and queries the authenticated user's favorites.
type FavoritesService interface {
	List(ctx context.Context, userID string) ([]int, error)
	Add(ctx context.Context, userID string, movieID int) ([]int, error)
	Remove(ctx context.Context, userID string, movieID int) ([]int, error)
	Check(ctx context.Context, userID string, movieID int) (bool, error)
}
