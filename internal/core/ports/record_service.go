package ports

import (
	"context"

	"github.com/nsqtech/record-tracker/internal/core/domain"
)

// CreateRecordInput carries client-supplied record fields. The owner is always
// the calling principal and is not part of the input.
type CreateRecordInput struct {
	Title          string
	Description    string
	Status         domain.RecordStatus   // defaults to Pending
	Priority       domain.Priority       // defaults to Medium
	Category       string
	Classification domain.Classification // defaults to Public
	AssignedTo     string
	Metadata       map[string]any
}

// ListRecordsInput carries the optional client filters for a listing.
type ListRecordsInput struct {
	Status   domain.RecordStatus
	Priority domain.Priority
	Category string
}

type RecordService interface {
	List(ctx context.Context, principal domain.Principal, input ListRecordsInput) ([]*domain.Record, error)
	Get(ctx context.Context, principal domain.Principal, id string) (*domain.Record, error)
	Create(ctx context.Context, principal domain.Principal, input CreateRecordInput) (*domain.Record, error)
	Update(ctx context.Context, principal domain.Principal, id string, patch domain.RecordPatch) (*domain.Record, error)
	Delete(ctx context.Context, principal domain.Principal, id string) error
}
