package api

import (
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/cinefav/favorites-api/docs"
	"github.com/cinefav/favorites-api/internal/api/handler"
	"github.com/cinefav/favorites-api/internal/api/middleware"
	"github.com/cinefav/favorites-api/internal/core/ports"
	"github.com/cinefav/favorites-api/internal/pkg/validation"
)

// apiPrefix mirrors every route for clients that expect the /api base path.
const apiPrefix = "/api"

// Deps carries everything the HTTP layer needs. Nil metric registries fall
// back to the Prometheus defaults.
type Deps struct {
	Log       zerolog.Logger
	Auth      ports.AuthService
	Favorites ports.FavoritesService
	Tokens    ports.TokenManager
	Users     middleware.UserFinder
	Readiness map[string]handler.Pinger

	// ExposeErrors returns unexpected error text to clients (development only).
	ExposeErrors bool

	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = validation.New()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log, d.ExposeErrors)

	registerer, gatherer := d.Registerer, d.Gatherer
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(requestLogger(d.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "favorites_api",
		Registerer: registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics" || strings.HasPrefix(c.Path(), "/swagger")
		},
	}))

	// --- Operational endpoints ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	readiness := handler.NewReadinessHandler(d.Readiness)
	e.GET("/health", handler.Liveness)
	e.GET("/health/ready", readiness.Readiness)

	// --- Application routes, at the root and under /api ---
	authHandler := handler.NewAuthHandler(d.Auth)
	favoritesHandler := handler.NewFavoritesHandler(d.Favorites)
	protect := middleware.Protect(d.Tokens, d.Users, d.Log)

	for _, prefix := range []string{"", apiPrefix} {
		g := e.Group(prefix)

		g.POST("/auth/register", authHandler.Register)
		g.POST("/auth/login", authHandler.Login)
		g.POST("/auth/refresh", authHandler.Refresh)
		g.GET("/auth/me", authHandler.Me, protect)
		g.POST("/auth/logout", authHandler.Logout, protect)

		g.GET("/favorites", favoritesHandler.List, protect)
		g.POST("/favorites", favoritesHandler.Add, protect)
		g.GET("/favorites/check/:movieId", favoritesHandler.Check, protect)
		g.DELETE("/favorites/:movieId", favoritesHandler.Remove, protect)
	}

	return e
}

// requestLogger emits one zerolog line per request after the error handler ran.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Status >= 500 {
				ev = log.Error().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
