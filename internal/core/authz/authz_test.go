package authz

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nsqtech/record-tracker/internal/core/domain"
	"github.com/nsqtech/record-tracker/internal/core/ports"
)

var (
	admin = domain.Principal{ID: "admin001", Role: domain.RoleAdmin, Email: "admin@example.com"}
	u1    = domain.Principal{ID: "user001", Role: domain.RoleGeneralUser, Email: "u1@example.com"}
	u2    = domain.Principal{ID: "user002", Role: domain.RoleGeneralUser, Email: "u2@example.com"}
)

func TestRequireAdmin(t *testing.T) {
	require.NoError(t, RequireAdmin(admin))
	require.ErrorIs(t, RequireAdmin(u1), domain.ErrForbidden)
	require.ErrorIs(t, RequireAdmin(domain.Principal{}), domain.ErrUnauthenticated)
	require.ErrorIs(t, RequireAdmin(domain.Principal{ID: "x", Role: "root"}), domain.ErrUnauthenticated)
}

func TestCanDeleteUser(t *testing.T) {
	require.NoError(t, CanDeleteUser(admin, "user001"))
	require.ErrorIs(t, CanDeleteUser(u1, "user002"), domain.ErrForbidden)

	err := CanDeleteUser(admin, admin.ID)
	require.ErrorIs(t, err, domain.ErrSelfDeletion)
	require.ErrorIs(t, err, domain.ErrInvalidOperation)
	require.False(t, errors.Is(err, domain.ErrForbidden))
}

func TestScopeRecords(t *testing.T) {
	in := ports.RecordFilter{Status: domain.StatusPending}

	got := ScopeRecords(admin, in)
	require.Equal(t, "", got.OwnerID)
	require.Equal(t, domain.StatusPending, got.Status)

	got = ScopeRecords(u1, in)
	require.Equal(t, u1.ID, got.OwnerID)
	require.Equal(t, domain.StatusPending, got.Status)

	// A general user cannot widen the scope by naming another owner.
	got = ScopeRecords(u1, ports.RecordFilter{OwnerID: u2.ID})
	require.Equal(t, u1.ID, got.OwnerID)
}

func TestCanAccessRecord(t *testing.T) {
	rec := &domain.Record{ID: "REC-1", OwnerID: u1.ID, Classification: domain.ClassificationRestricted}

	require.NoError(t, CanAccessRecord(u1, rec))
	require.NoError(t, CanAccessRecord(admin, rec))
	require.ErrorIs(t, CanAccessRecord(u2, rec), domain.ErrForbidden)
}

func TestCanAccessRecord_IgnoresClassification(t *testing.T) {
	for _, c := range []domain.Classification{
		domain.ClassificationPublic,
		domain.ClassificationPrivate,
		domain.ClassificationRestricted,
	} {
		rec := &domain.Record{ID: "REC-1", OwnerID: u1.ID, Classification: c}
		require.ErrorIs(t, CanAccessRecord(u2, rec), domain.ErrForbidden, "classification %s", c)
		require.NoError(t, CanAccessRecord(u1, rec), "classification %s", c)
	}
}
