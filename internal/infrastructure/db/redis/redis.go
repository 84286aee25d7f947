// Package redis holds the Redis-backed pieces of the service: the shared
// client and the failed-login throttle built on it.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// dialTimeout bounds connect, read and write when Config.Timeout is unset.
const dialTimeout = 5 * time.Second

// Config addresses the instance that stores login throttle counters.
type Config struct {
	Addr     string
	Password string
	DB       int
	Timeout  time.Duration
}

// Connect returns a client whose every socket operation is bounded by the
// configured timeout. The server must answer PING before the API starts.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = dialTimeout
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		ClientName:   "favorites-api",
		DialTimeout:  timeout,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
	})

	startupCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(startupCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis %s unreachable: %w", cfg.Addr, err)
	}
	return client, nil
}
