// @title                       Favorites API
// @version                     1.0
// @description                 User accounts, JWT sessions and favorite movie lists.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the access token.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/cinefav/favorites-api/internal/api"
	"github.com/cinefav/favorites-api/internal/api/handler"
	"github.com/cinefav/favorites-api/internal/core/domain"
	"github.com/cinefav/favorites-api/internal/core/service"
	mongostore "github.com/cinefav/favorites-api/internal/infrastructure/db/mongo"
	redisstore "github.com/cinefav/favorites-api/internal/infrastructure/db/redis"
	"github.com/cinefav/favorites-api/internal/infrastructure/queue"
	"github.com/cinefav/favorites-api/internal/infrastructure/security"
	"github.com/cinefav/favorites-api/internal/pkg/config"
	"github.com/cinefav/favorites-api/internal/pkg/validation"
	"github.com/cinefav/favorites-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	envFile := pflag.String("env-file", ".env", "optional dotenv file loaded before reading the environment")
	pretty := pflag.Bool("pretty", false, "human-readable console logs")
	pflag.Parse()

	if err := run(*envFile, *pretty); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(envFile string, pretty bool) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.New(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  pretty,
		Service: "favorites-api",
	})

	mongoClient, db, err := mongostore.Connect(ctx, mongostore.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		AppName:  "favorites-api",
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("mongo disconnect")
		}
	}()

	rdb, err := redisstore.Connect(ctx, redisstore.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return err
	}
	defer rdb.Close()

	users := mongostore.NewUserRepository(db)
	auditRepo := mongostore.NewAuditRepository(db)
	if err := mongostore.EnsureIndexes(ctx, users, auditRepo); err != nil {
		return err
	}

	tokens, err := security.NewJWTManager(cfg.Tokens())
	if err != nil {
		return err
	}
	policy, err := domain.ParseDuplicateFavoritePolicy(cfg.Favorites.DuplicatePolicy)
	if err != nil {
		return err
	}

	// The dispatcher outlives request handling so queued events are flushed
	// after the server stops accepting connections.
	auditCtx, stopAudit := context.WithCancel(context.Background())
	audit := queue.NewDispatcher(cfg.Audit.Workers, auditRepo, log)
	audit.Start(auditCtx)
	defer func() {
		stopAudit()
		audit.Wait()
	}()

	authService := service.NewAuthService(
		users,
		security.NewBcryptHasher(cfg.Auth.BcryptCost),
		tokens,
		redisstore.NewLoginThrottle(rdb, cfg.Auth.LoginMaxAttempts, cfg.Auth.LoginLockoutWindow),
		audit,
		validation.New(),
		log,
	)
	favoritesService := service.NewFavoritesService(users, policy, audit, log)

	e := api.NewRouter(api.Deps{
		Log:          log,
		ExposeErrors: cfg.IsDevelopment(),
		Auth:         authService,
		Favorites:    favoritesService,
		Tokens:       tokens,
		Users:        users,
		Readiness: map[string]handler.Pinger{
			"mongodb": handler.PingFunc(func(ctx context.Context) error {
				return mongoClient.Ping(ctx, readpref.Primary())
			}),
			"redis": handler.PingFunc(func(ctx context.Context) error {
				return rdb.Ping(ctx).Err()
			}),
		},
	})

	return serve(ctx, e, ":"+cfg.Port, log)
}

type server interface {
	Start(address string) error
	Shutdown(ctx context.Context) error
}

func serve(ctx context.Context, srv server, addr string, log zerolog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("http server listening")
		if err := srv.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
