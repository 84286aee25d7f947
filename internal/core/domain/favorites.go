package domain

import "fmt"

// DuplicateFavoritePolicy decides what adding an already-favorited movie does.
type DuplicateFavoritePolicy string

const (
	// DuplicateIgnore makes add idempotent: the call succeeds and the set is unchanged.
	DuplicateIgnore DuplicateFavoritePolicy = "ignore"
	// DuplicateReject fails the call with ErrAlreadyFavorite.
	DuplicateReject DuplicateFavoritePolicy = "reject"
)

// ParseDuplicateFavoritePolicy maps a config value to a policy.
func ParseDuplicateFavoritePolicy(s string) (DuplicateFavoritePolicy, error) {
	switch DuplicateFavoritePolicy(s) {
	case DuplicateIgnore, "":
		return DuplicateIgnore, nil
	case DuplicateReject:
		return DuplicateReject, nil
	default:
		return "", fmt.Errorf("unknown duplicate favorite policy %q", s)
	}
}

// ValidateMovieID rejects anything that is not a positive catalog identifier.
func ValidateMovieID(movieID int) error {
	if movieID <= 0 {
		return NewValidationError("movieId", "movieId must be a positive integer")
	}
	return nil
}
