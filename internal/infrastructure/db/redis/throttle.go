package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/cinefav/favorites-api/internal/core/domain"
)

// LoginThrottle counts failed logins per email in a fixed window.
// Key format: login:fail:<normalized email>
type LoginThrottle struct {
	client      redis.Cmdable
	maxAttempts int64
	window      time.Duration
}

// NewLoginThrottle locks an email out once maxAttempts failures accumulate
// within window. The window restarts with the first failure after expiry.
func NewLoginThrottle(client redis.Cmdable, maxAttempts int, window time.Duration) *LoginThrottle {
	return &LoginThrottle{client: client, maxAttempts: int64(maxAttempts), window: window}
}

// Blocked reports whether email has exhausted its attempts.
func (l *LoginThrottle) Blocked(ctx context.Context, email string) (bool, error) {
	n, err := l.client.Get(ctx, l.key(email)).Int64()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("login throttle check: %w", err)
	}
	return n >= l.maxAttempts, nil
}

// recordFailure increments the counter and arms the window TTL on the first
// failure only, so later failures never extend the lockout.
var recordFailure = redis.NewScript(`
local n = redis.call("INCR", KEYS[1])
if n == 1 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return n
`)

// RecordFailure increments the counter, starting the window on the first failure.
func (l *LoginThrottle) RecordFailure(ctx context.Context, email string) error {
	err := recordFailure.Run(ctx, l.client, []string{l.key(email)}, l.window.Milliseconds()).Err()
	if err != nil {
		return fmt.Errorf("login throttle record: %w", err)
	}
	return nil
}

// Reset clears the counter after a successful login.
func (l *LoginThrottle) Reset(ctx context.Context, email string) error {
	if err := l.client.Del(ctx, l.key(email)).Err(); err != nil {
		return fmt.Errorf("login throttle reset: %w", err)
	}
	return nil
}

func (l *LoginThrottle) key(email string) string {
	return "login:fail:" + domain.NormalizeEmail(email)
}
