package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

const testWindow = 15 * time.Minute

func newTestThrottle(t *testing.T, maxAttempts int) (*LoginThrottle, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewLoginThrottle(client, maxAttempts, testWindow), mr
}

func mustBlocked(t *testing.T, l *LoginThrottle, email string, want bool) {
	t.Helper()
	got, err := l.Blocked(context.Background(), email)
	if err != nil {
		t.Fatalf("Blocked(%q): %v", email, err)
	}
	if got != want {
		t.Fatalf("Blocked(%q) = %v, want %v", email, got, want)
	}
}

func recordFailures(t *testing.T, l *LoginThrottle, email string, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		if err := l.RecordFailure(context.Background(), email); err != nil {
			t.Fatalf("RecordFailure #%d: %v", i+1, err)
		}
	}
}

func TestLoginThrottle_KeyIsCaseInsensitive(t *testing.T) {
	l := NewLoginThrottle(nil, 5, time.Minute)

	if got := l.key("  Alice@Example.COM "); got != "login:fail:alice@example.com" {
		t.Fatalf("unexpected key %q", got)
	}
	if l.key("alice@example.com") != l.key("ALICE@example.com") {
		t.Fatalf("keys must match regardless of case")
	}
}

func TestLoginThrottle_LocksAfterMaxAttempts(t *testing.T) {
	l, _ := newTestThrottle(t, 3)

	mustBlocked(t, l, "alice@example.com", false)
	recordFailures(t, l, "alice@example.com", 2)
	mustBlocked(t, l, "alice@example.com", false)

	recordFailures(t, l, "Alice@Example.com", 1)
	mustBlocked(t, l, "alice@example.com", true)
	mustBlocked(t, l, "bob@example.com", false)
}

func TestLoginThrottle_FirstFailureArmsWindow(t *testing.T) {
	l, mr := newTestThrottle(t, 3)

	recordFailures(t, l, "alice@example.com", 1)
	if ttl := mr.TTL("login:fail:alice@example.com"); ttl != testWindow {
		t.Fatalf("expected ttl %v after first failure, got %v", testWindow, ttl)
	}

	mr.FastForward(10 * time.Minute)
	recordFailures(t, l, "alice@example.com", 2)
	if ttl := mr.TTL("login:fail:alice@example.com"); ttl != 5*time.Minute {
		t.Fatalf("later failures must not extend the window, ttl %v", ttl)
	}
	mustBlocked(t, l, "alice@example.com", true)

	mr.FastForward(5 * time.Minute)
	mustBlocked(t, l, "alice@example.com", false)
	if mr.Exists("login:fail:alice@example.com") {
		t.Fatal("counter must expire with the window")
	}
}

func TestLoginThrottle_ResetClearsCounter(t *testing.T) {
	l, mr := newTestThrottle(t, 2)

	recordFailures(t, l, "alice@example.com", 2)
	mustBlocked(t, l, "alice@example.com", true)

	if err := l.Reset(context.Background(), "ALICE@example.com"); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	mustBlocked(t, l, "alice@example.com", false)
	if mr.Exists("login:fail:alice@example.com") {
		t.Fatal("reset must delete the counter")
	}

	recordFailures(t, l, "alice@example.com", 1)
	if ttl := mr.TTL("login:fail:alice@example.com"); ttl != testWindow {
		t.Fatalf("a failure after reset must start a fresh window, ttl %v", ttl)
	}
}

func TestLoginThrottle_ServerDown(t *testing.T) {
	l, mr := newTestThrottle(t, 2)
	mr.Close()

	if _, err := l.Blocked(context.Background(), "alice@example.com"); err == nil {
		t.Fatal("Blocked must surface connection errors")
	}
	if err := l.RecordFailure(context.Background(), "alice@example.com"); err == nil {
		t.Fatal("RecordFailure must surface connection errors")
	}
}
