package ports

import (
	"context"

	"github.com/cinefav/favorites-api/internal/core/domain"
)

// AuditRepository persists audit events.
type AuditRepository interface {
	InsertEvent(ctx context.Context, event *domain.AuthEvent) error
}

// AuditSink accepts events for asynchronous persistence. Enqueue must not block
// the request path.
type AuditSink interface {
	Enqueue(event domain.AuthEvent)
}
