package service

import (
	"errors"
	"time"

	"github.com/nsqtech/record-tracker/internal/api/metrics"
	"github.com/nsqtech/record-tracker/internal/core/domain"
	"github.com/nsqtech/record-tracker/internal/core/ports"
)

const (
	resourceUser   = "user"
	resourceRecord = "record"
)

type noopAudit struct{}

func (noopAudit) Publish(domain.AuditEvent) {}

func auditOrNoop(p ports.AuditPublisher) ports.AuditPublisher {
	if p == nil {
		return noopAudit{}
	}
	return p
}

// DeniedUserAccess audits a denial on a user-management route that was
// rejected before reaching UserService.
func DeniedUserAccess(audit ports.AuditPublisher, p domain.Principal, userID string, err error) error {
	return denied(auditOrNoop(audit), p, resourceUser, userID, err)
}

// denied counts and audits an authorization denial, then returns err as is.
// Unauthenticated principals are not audited; the gate already rejected them.
func denied(audit ports.AuditPublisher, p domain.Principal, resource, resourceID string, err error) error {
	if errors.Is(err, domain.ErrUnauthenticated) {
		return err
	}

	reason := "forbidden"
	if errors.Is(err, domain.ErrInvalidOperation) {
		reason = "invalid_operation"
	}
	metrics.AccessDeniedTotal.WithLabelValues(resource, reason).Inc()
	audit.Publish(domain.AuditEvent{
		Action:     domain.AuditAccessDenied,
		ActorID:    p.ID,
		ActorRole:  p.Role,
		Resource:   resource,
		ResourceID: resourceID,
		Reason:     reason,
		At:         time.Now().UTC(),
	})
	return err
}
