package domain

import "time"

// AuditAction names what happened in an AuditEvent.
type AuditAction string

const (
	AuditLoginSucceeded AuditAction = "login.succeeded"
	AuditLoginFailed    AuditAction = "login.failed"
	AuditPasswordChange AuditAction = "password.changed"
	AuditUserCreated    AuditAction = "user.created"
	AuditUserUpdated    AuditAction = "user.updated"
	AuditUserDeleted    AuditAction = "user.deleted"
	AuditRecordCreated  AuditAction = "record.created"
	AuditRecordUpdated  AuditAction = "record.updated"
	AuditRecordDeleted  AuditAction = "record.deleted"
	AuditAccessDenied   AuditAction = "access.denied"
)

// AuditEvent is an append-only trace of a security-relevant action.
type AuditEvent struct {
	Action     AuditAction
	ActorID    string
	ActorRole  Role
	Resource   string // "user" or "record"
	ResourceID string
	Reason     string // optional
	At         time.Time
}
