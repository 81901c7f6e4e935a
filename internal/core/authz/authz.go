// Package authz holds the access decisions for users and records. Every
// function is a pure function of the principal and the target resource; none
// touches storage.
//
// Role and ownership are the whole authorization surface. A record's
// Classification is not consulted.
package authz

import (
	"github.com/nsqtech/record-tracker/internal/core/domain"
	"github.com/nsqtech/record-tracker/internal/core/ports"
)

// RequireAuthenticated rejects a principal that carries no identity or an
// unknown role.
func RequireAuthenticated(p domain.Principal) error {
	if p.ID == "" || !p.Role.Valid() {
		return domain.ErrUnauthenticated
	}
	return nil
}

// RequireAdmin gates every operation on user accounts.
func RequireAdmin(p domain.Principal) error {
	if err := RequireAuthenticated(p); err != nil {
		return err
	}
	if !p.IsAdmin() {
		return domain.ErrForbidden
	}
	return nil
}

// CanDeleteUser allows an Admin to delete any account except its own.
func CanDeleteUser(p domain.Principal, targetID string) error {
	if err := RequireAdmin(p); err != nil {
		return err
	}
	if targetID == p.ID {
		return domain.ErrSelfDeletion
	}
	return nil
}

// ScopeRecords narrows a record query to what p may see. Admins keep the
// filter as given; general users are pinned to their own records regardless
// of any owner the caller put in the filter.
func ScopeRecords(p domain.Principal, filter ports.RecordFilter) ports.RecordFilter {
	if p.IsAdmin() {
		return filter
	}
	filter.OwnerID = p.ID
	return filter
}

// CanAccessRecord decides read, update and delete on an existing record.
func CanAccessRecord(p domain.Principal, r *domain.Record) error {
	if err := RequireAuthenticated(p); err != nil {
		return err
	}
	if p.IsAdmin() || r.OwnerID == p.ID {
		return nil
	}
	return domain.ErrForbidden
}
