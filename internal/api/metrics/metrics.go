// Package metrics defines and registers the custom Prometheus metrics of the
// favorites API. HTTP request metrics come from echoprometheus; everything
// here describes auth and favorites outcomes.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "favorites_api"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthAttemptsTotal counts account operations by outcome.
// Labels:
//   - operation: register, login, refresh
//   - result: success, invalid, exists, throttled, error
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of register/login/refresh attempts by result.",
	},
	[]string{"operation", "result"},
)

// TokenVerificationsTotal counts bearer token checks at the auth gate.
// Label:
//   - result: ok, missing, invalid, expired, user_gone, error
var TokenVerificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_verifications_total",
		Help:      "Total number of access token verifications at the auth gate.",
	},
	[]string{"result"},
)

// PasswordHashDuration measures bcrypt hashing time, which dominates register latency.
var PasswordHashDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "password_hash_duration_seconds",
		Help:      "Duration of password hashing during registration.",
		Buckets:   []float64{.05, .1, .2, .3, .5, .75, 1, 2},
	},
)

// ── Favorites metrics ─────────────────────────────────────────────────────────

// FavoritesMutationsTotal counts favorites changes.
// Labels:
//   - operation: add, remove
//   - result: success, duplicate, invalid, not_found, error
var FavoritesMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "favorites_mutations_total",
		Help:      "Total number of favorites add/remove operations by result.",
	},
	[]string{"operation", "result"},
)

// ── Audit metrics ─────────────────────────────────────────────────────────────

// AuditQueueDepth tracks events waiting in each audit worker channel.
// Label:
//   - worker_id: numeric worker index
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of audit events pending in each worker channel.",
	},
	[]string{"worker_id"},
)

// AuditEventsDroppedTotal counts events discarded because a worker buffer was full.
var AuditEventsDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_events_dropped_total",
		Help:      "Total number of audit events dropped due to a full queue.",
	},
)

// AuditEventsFailedTotal counts events the store refused.
var AuditEventsFailedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_events_failed_total",
		Help:      "Total number of audit events that failed to persist.",
	},
)
