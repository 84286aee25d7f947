package domain

import "time"

// AuthEventType names an account-lifecycle occurrence worth keeping.
type AuthEventType string

const (
	EventRegistered      AuthEventType = "registered"
	EventLoginSucceeded  AuthEventType = "login_succeeded"
	EventLoginFailed     AuthEventType = "login_failed"
	EventLoginThrottled  AuthEventType = "login_throttled"
	EventTokenRefreshed  AuthEventType = "token_refreshed"
	EventLoggedOut       AuthEventType = "logged_out"
	EventFavoriteAdded   AuthEventType = "favorite_added"
	EventFavoriteRemoved AuthEventType = "favorite_removed"
)

// AuthEvent is an append-only audit record. UserID is empty when the actor
// could not be resolved (e.g. a failed login for an unknown email).
type AuthEvent struct {
	ID      string
	Type    AuthEventType
	UserID  string
	Email   string
	MovieID int
	At      time.Time
}

// Key is the value events are sharded on, keeping one actor's events ordered.
func (e AuthEvent) Key() string {
	if e.UserID != "" {
		return e.UserID
	}
	return e.Email
}
