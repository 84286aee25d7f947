package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/cinefav/favorites-api/internal/api/metrics"
	"github.com/cinefav/favorites-api/internal/core/domain"
	"github.com/cinefav/favorites-api/internal/core/ports"
)

// UserFinder is the slice of the credential store the gate needs.
type UserFinder interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
}

// Protect resolves the bearer access token to a stored user and attaches it
// to the request context. Each failure ends the request:
//   - missing or non-bearer header → domain.ErrNoToken
//   - bad signature, malformed or expired token → domain.ErrInvalidToken
//   - token subject no longer stored → domain.ErrTokenUserGone
//   - store fault → wrapped error, rendered as 500
func Protect(tokens ports.TokenManager, users UserFinder, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				metrics.TokenVerificationsTotal.WithLabelValues("missing").Inc()
				return domain.ErrNoToken
			}

			userID, err := tokens.Verify(token, domain.TokenAccess)
			if err != nil {
				result := "invalid"
				if errors.Is(err, domain.ErrTokenExpired) {
					result = "expired"
				}
				metrics.TokenVerificationsTotal.WithLabelValues(result).Inc()
				return err
			}

			ctx := c.Request().Context()
			user, err := users.FindByID(ctx, userID)
			if err != nil {
				if errors.Is(err, domain.ErrUserNotFound) {
					metrics.TokenVerificationsTotal.WithLabelValues("user_gone").Inc()
					return domain.ErrTokenUserGone
				}
				metrics.TokenVerificationsTotal.WithLabelValues("error").Inc()
				log.Error().Err(err).Str("user_id", userID).Msg("auth gate user lookup failed")
				return &AuthGateError{Err: err}
			}

			metrics.TokenVerificationsTotal.WithLabelValues("ok").Inc()
			c.SetRequest(c.Request().WithContext(WithUser(ctx, user)))
			return next(c)
		}
	}
}

// AuthGateError marks an unexpected fault inside the gate so it can be told
// apart from ordinary handler failures.
type AuthGateError struct {
	Err error
}

func (e *AuthGateError) Error() string { return "auth gate: " + e.Err.Error() }

func (e *AuthGateError) Unwrap() error { return e.Err }

// bearerToken extracts the token from an "Authorization: Bearer <token>" value.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
