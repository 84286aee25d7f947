package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseEnv() map[string]string {
	return map[string]string{
		"JWT_ACCESS_SECRET":  "access-secret",
		"JWT_ACCESS_TTL":     "15m",
		"JWT_REFRESH_SECRET": "refresh-secret",
		"JWT_REFRESH_TTL":    "168h",
	}
}

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(baseEnv()))
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, "production", cfg.Env)
	assert.False(t, cfg.IsDevelopment(), "error detail must stay hidden unless ENV is set")
	assert.Equal(t, 12, cfg.Auth.BcryptCost)
	assert.Equal(t, 5, cfg.Auth.LoginMaxAttempts)
	assert.Equal(t, 15*time.Minute, cfg.Auth.LoginLockoutWindow)
	assert.Equal(t, "ignore", cfg.Favorites.DuplicatePolicy)
	assert.Equal(t, 4, cfg.Audit.Workers)
	assert.Equal(t, "mongodb://localhost:27017", cfg.Mongo.URI)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)

	tokens := cfg.Tokens()
	assert.Equal(t, 15*time.Minute, tokens.AccessTTL)
	assert.Equal(t, 168*time.Hour, tokens.RefreshTTL)
}

func TestLoadFrom_RequiresEveryTokenSetting(t *testing.T) {
	for _, key := range []string{"JWT_ACCESS_SECRET", "JWT_ACCESS_TTL", "JWT_REFRESH_SECRET", "JWT_REFRESH_TTL"} {
		t.Run(key, func(t *testing.T) {
			env := baseEnv()
			delete(env, key)

			_, err := LoadFrom(context.Background(), envconfig.MapLookuper(env))
			assert.Error(t, err)
		})
	}
}

func TestLoadFrom_RejectsInvalidValues(t *testing.T) {
	tests := map[string]map[string]string{
		"same secrets":   {"JWT_REFRESH_SECRET": "access-secret"},
		"zero ttl":       {"JWT_ACCESS_TTL": "0s"},
		"unknown policy": {"FAVORITES_DUPLICATE_POLICY": "merge"},
		"no attempts":    {"LOGIN_MAX_ATTEMPTS": "0"},
		"no workers":     {"AUDIT_WORKERS": "0"},
	}

	for name, overrides := range tests {
		t.Run(name, func(t *testing.T) {
			env := baseEnv()
			for k, v := range overrides {
				env[k] = v
			}
			_, err := LoadFrom(context.Background(), envconfig.MapLookuper(env))
			assert.Error(t, err)
		})
	}
}

func TestLoadFrom_Overrides(t *testing.T) {
	env := baseEnv()
	env["ENV"] = "development"
	env["FAVORITES_DUPLICATE_POLICY"] = "reject"
	env["REDIS_DB"] = "2"

	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(env))
	require.NoError(t, err)

	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, "reject", cfg.Favorites.DuplicatePolicy)
	assert.Equal(t, 2, cfg.Redis.DB)
}
