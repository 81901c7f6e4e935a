package ports

import (
	"context"

	"github.com/nsqtech/record-tracker/internal/core/domain"
)

// AuditPublisher accepts audit events for asynchronous persistence.
type AuditPublisher interface {
	Publish(event domain.AuditEvent)
}

// AuditRepository persists audit events.
type AuditRepository interface {
	Insert(ctx context.Context, event *domain.AuditEvent) error
}
