package domain

import (
	"slices"
	"strings"
	"time"
)

// User models a registered account together with its favorite movie set.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Favorites    []int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PublicUser is the only user shape that is ever serialised to a client.
type PublicUser struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Favorites []int     `json:"favorites"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Public strips the password hash and guarantees a non-nil favorites slice.
func (u *User) Public() PublicUser {
	favs := make([]int, len(u.Favorites))
	copy(favs, u.Favorites)
	return PublicUser{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Favorites: favs,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// HasFavorite reports whether movieID is in the user's favorites.
func (u *User) HasFavorite(movieID int) bool {
	return slices.Contains(u.Favorites, movieID)
}

// NormalizeEmail trims and lower-cases an email so lookups and the unique
// index agree regardless of how the client typed it.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
