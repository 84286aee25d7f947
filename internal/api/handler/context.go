package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/cinefav/favorites-api/internal/api/middleware"
	"github.com/cinefav/favorites-api/internal/core/domain"
)

// currentUser returns the user attached by middleware.Protect. Reaching a
// protected handler without one means the route was wired without the gate.
func currentUser(c echo.Context) (*domain.User, error) {
	user, ok := middleware.UserFromContext(c.Request().Context())
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}
