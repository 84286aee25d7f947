package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/cinefav/favorites-api/internal/api/handler"
	"github.com/cinefav/favorites-api/internal/api/middleware"
	"github.com/cinefav/favorites-api/internal/core/domain"
)

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their HTTP status codes and client messages.
//   - Logs unexpected errors; their text reaches the client only when exposeDetail is set.
//   - Renders the {"success": false, "message": ...} envelope.
func NewHTTPErrorHandler(log zerolog.Logger, exposeDetail bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err, log, exposeDetail, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, body)
	}
}

func resolveError(err error, log zerolog.Logger, exposeDetail bool, c echo.Context) (int, handler.ErrorResponse) {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		msg := "Validation failed"
		if len(ve.Fields) == 1 {
			msg = ve.Fields[0].Message
		}
		return http.StatusBadRequest, handler.ErrorResponse{Message: msg, Errors: ve.Fields}
	}

	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, handler.ErrorResponse{Message: fmt.Sprintf("%v", he.Message)}
	}

	switch {
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusBadRequest, failure("User already exists with this email")
	case errors.Is(err, domain.ErrAlreadyFavorite):
		return http.StatusBadRequest, failure("Movie already in favorites")
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, failure("Invalid credentials")
	case errors.Is(err, domain.ErrNoToken):
		return http.StatusUnauthorized, failure("Not authorized to access this route (No token provided)")
	case errors.Is(err, domain.ErrInvalidToken):
		return http.StatusUnauthorized, failure("Not authorized to access this route (Invalid token)")
	case errors.Is(err, domain.ErrTokenUserGone):
		return http.StatusUnauthorized, failure("No user found with this token")
	case errors.Is(err, domain.ErrInvalidRefreshToken):
		return http.StatusUnauthorized, failure("Invalid refresh token")
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, failure("User not found")
	case errors.Is(err, domain.ErrTooManyAttempts):
		return http.StatusTooManyRequests, failure("Too many failed login attempts, try again later")
	}

	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
		Msg("unhandled error")

	body := failure("Server error")
	var gate *middleware.AuthGateError
	if errors.As(err, &gate) {
		body = failure("Server error during authentication process")
	}
	if exposeDetail {
		body.Error = err.Error()
	}
	return http.StatusInternalServerError, body
}

func failure(msg string) handler.ErrorResponse {
	return handler.ErrorResponse{Message: msg}
}
