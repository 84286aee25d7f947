package handler

import "github.com/cinefav/favorites-api/internal/core/domain"

// envelope fields shared by every response.
type baseResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// ErrorResponse is the envelope rendered for every failed request.
type ErrorResponse struct {
	Success bool                    `json:"success"`
	Message string                  `json:"message"`
	Errors  []domain.FieldViolation `json:"errors,omitempty"`
	Error   string                  `json:"error,omitempty"`
}

// --- Auth ---

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// authResponse is returned by register and login. Token mirrors AccessToken
// for clients that only know a single token.
type authResponse struct {
	baseResponse
	Token        string            `json:"token"`
	AccessToken  string            `json:"accessToken"`
	RefreshToken string            `json:"refreshToken"`
	User         domain.PublicUser `json:"user"`
}

type userResponse struct {
	baseResponse
	User domain.PublicUser `json:"user"`
}

type refreshResponse struct {
	baseResponse
	Token       string `json:"token"`
	AccessToken string `json:"accessToken"`
}

// --- Favorites ---

type addFavoriteRequest struct {
	MovieID int `json:"movieId" validate:"required,gt=0"`
}

type favoritesResponse struct {
	baseResponse
	Favorites []int `json:"favorites"`
}

type checkFavoriteResponse struct {
	baseResponse
	IsFavorite bool `json:"isFavorite"`
}

// --- Messages ---

const (
	msgUserRegistered  = "User registered successfully"
	msgLoginSuccess    = "Login successful"
	msgLogoutSuccess   = "Logout successful"
	msgFavoriteAdded   = "Movie added to favorites"
	msgFavoriteRemoved = "Movie removed from favorites"
)
