package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"

	"github.com/cinefav/favorites-api/internal/core/domain"
	"github.com/cinefav/favorites-api/internal/infrastructure/security"
)

type Config struct {
	Port     string `env:"PORT,      default=5000"`
	Env      string `env:"ENV,       default=production"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	JWT       JWTConfig
	Auth      AuthConfig
	Favorites FavoritesConfig
	Audit     AuditConfig
	Mongo     MongoConfig
	Redis     RedisConfig
}

// JWTConfig has no defaults: a missing secret or TTL must stop the process.
type JWTConfig struct {
	AccessSecret  string        `env:"JWT_ACCESS_SECRET,  required"`
	AccessTTL     time.Duration `env:"JWT_ACCESS_TTL,     required"`
	RefreshSecret string        `env:"JWT_REFRESH_SECRET, required"`
	RefreshTTL    time.Duration `env:"JWT_REFRESH_TTL,    required"`
}

type AuthConfig struct {
	BcryptCost         int           `env:"BCRYPT_COST,          default=12"`
	LoginMaxAttempts   int           `env:"LOGIN_MAX_ATTEMPTS,   default=5"`
	LoginLockoutWindow time.Duration `env:"LOGIN_LOCKOUT_WINDOW, default=15m"`
}

type FavoritesConfig struct {
	DuplicatePolicy string `env:"FAVORITES_DUPLICATE_POLICY, default=ignore"`
}

type AuditConfig struct {
	Workers int `env:"AUDIT_WORKERS, default=4"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=cinefav"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

// Load reads configuration from the process environment.
func Load(ctx context.Context) (*Config, error) {
	return LoadFrom(ctx, envconfig.OsLookuper())
}

// LoadFrom reads configuration through an arbitrary lookuper and validates it.
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: l,
	}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

// Validate checks cross-field rules that struct tags cannot express.
func (c *Config) Validate() error {
	var errs []error
	if err := c.Tokens().Validate(); err != nil {
		errs = append(errs, err)
	}
	if _, err := domain.ParseDuplicateFavoritePolicy(c.Favorites.DuplicatePolicy); err != nil {
		errs = append(errs, err)
	}
	if c.Auth.LoginMaxAttempts <= 0 {
		errs = append(errs, errors.New("LOGIN_MAX_ATTEMPTS must be positive"))
	}
	if c.Auth.LoginLockoutWindow <= 0 {
		errs = append(errs, errors.New("LOGIN_LOCKOUT_WINDOW must be positive"))
	}
	if c.Audit.Workers <= 0 {
		errs = append(errs, errors.New("AUDIT_WORKERS must be positive"))
	}
	return errors.Join(errs...)
}

// Tokens maps the JWT settings onto the token manager configuration.
func (c *Config) Tokens() security.TokenConfig {
	return security.TokenConfig{
		AccessSecret:  c.JWT.AccessSecret,
		AccessTTL:     c.JWT.AccessTTL,
		RefreshSecret: c.JWT.RefreshSecret,
		RefreshTTL:    c.JWT.RefreshTTL,
	}
}

// IsDevelopment reports whether error details may be returned to clients.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}
