package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/cinefav/favorites-api/internal/core/domain"
	"github.com/cinefav/favorites-api/internal/core/ports"
)

// FavoritesHandler serves the authenticated user's favorite movie set.
type FavoritesHandler struct {
	service ports.FavoritesService
}

func NewFavoritesHandler(service ports.FavoritesService) *FavoritesHandler {
	return &FavoritesHandler{service: service}
}

// List handles GET /favorites.
//
// @Summary      List favorite movie ids
// @Tags         favorites
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  favoritesResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /favorites [get]
func (h *FavoritesHandler) List(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	favs, err := h.service.List(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, favoritesResponse{
		baseResponse: baseResponse{Success: true},
		Favorites:    favs,
	})
}

// Add handles POST /favorites.
//
// @Summary      Add a movie to favorites
// @Tags         favorites
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      addFavoriteRequest  true  "Movie id"
// @Success      200   {object}  favoritesResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Router       /favorites [post]
func (h *FavoritesHandler) Add(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req addFavoriteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	favs, err := h.service.Add(c.Request().Context(), user.ID, req.MovieID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, favoritesResponse{
		baseResponse: baseResponse{Success: true, Message: msgFavoriteAdded},
		Favorites:    favs,
	})
}

// Remove handles DELETE /favorites/:movieId.
//
// @Summary      Remove a movie from favorites
// @Tags         favorites
// @Produce      json
// @Security     BearerAuth
// @Param        movieId  path      int  true  "Movie id"
// @Success      200      {object}  favoritesResponse
// @Failure      400      {object}  ErrorResponse
// @Failure      401      {object}  ErrorResponse
// @Failure      404      {object}  ErrorResponse
// @Router       /favorites/{movieId} [delete]
func (h *FavoritesHandler) Remove(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	movieID, err := movieIDParam(c)
	if err != nil {
		return err
	}

	favs, err := h.service.Remove(c.Request().Context(), user.ID, movieID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, favoritesResponse{
		baseResponse: baseResponse{Success: true, Message: msgFavoriteRemoved},
		Favorites:    favs,
	})
}

// Check handles GET /favorites/check/:movieId.
//
// @Summary      Check whether a movie is a favorite
// @Tags         favorites
// @Produce      json
// @Security     BearerAuth
// @Param        movieId  path      int  true  "Movie id"
// @Success      200      {object}  checkFavoriteResponse
// @Failure      400      {object}  ErrorResponse
// @Failure      401      {object}  ErrorResponse
// @Failure      404      {object}  ErrorResponse
// @Router       /favorites/check/{movieId} [get]
func (h *FavoritesHandler) Check(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	movieID, err := movieIDParam(c)
	if err != nil {
		return err
	}

	ok, err := h.service.Check(c.Request().Context(), user.ID, movieID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, checkFavoriteResponse{
		baseResponse: baseResponse{Success: true},
		IsFavorite:   ok,
	})
}

func movieIDParam(c echo.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("movieId"))
	if err != nil {
		return 0, domain.NewValidationError("movieId", "movieId must be a positive integer")
	}
	if err := domain.ValidateMovieID(id); err != nil {
		return 0, err
	}
	return id, nil
}
