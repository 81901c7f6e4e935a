package ports

import (
	"context"

	"github.com/nsqtech/record-tracker/internal/core/domain"
)

// RecordFilter narrows a record listing. OwnerID is set by the authorization
// scope, never by the client; empty means unrestricted.
type RecordFilter struct {
	OwnerID  string
	Status   domain.RecordStatus // optional
	Priority domain.Priority     // optional
	Category string              // optional
}

// RecordRepository defines persistence operations for records.
type RecordRepository interface {
	// Create fails with domain.ErrRecordExists on a duplicate record id.
	Create(ctx context.Context, r *domain.Record) error
	FindByID(ctx context.Context, id string) (*domain.Record, error)
	// List returns matching records, newest first.
	List(ctx context.Context, filter RecordFilter) ([]*domain.Record, error)
	Update(ctx context.Context, r *domain.Record) error
	Delete(ctx context.Context, id string) error
}
