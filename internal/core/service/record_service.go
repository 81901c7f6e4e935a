package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/nsqtech/record-tracker/internal/api/metrics"
	"github.com/nsqtech/record-tracker/internal/core/authz"
	"github.com/nsqtech/record-tracker/internal/core/domain"
	"github.com/nsqtech/record-tracker/internal/core/ports"
)

// maxCreateAttempts bounds retries when a generated record id collides.
const maxCreateAttempts = 3

type RecordService struct {
	repo   ports.RecordRepository
	audit  ports.AuditPublisher
	logger zerolog.Logger

	now   func() time.Time
	newID func(time.Time) string
}

var _ ports.RecordService = (*RecordService)(nil)

func NewRecordService(repo ports.RecordRepository, audit ports.AuditPublisher, logger zerolog.Logger) *RecordService {
	return &RecordService{
		repo:   repo,
		audit:  auditOrNoop(audit),
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
		newID:  generateRecordID,
	}
}

// List returns the records visible to p. The ownership scope is part of the
// query handed to the repository.
func (s *RecordService) List(ctx context.Context, p domain.Principal, in ports.ListRecordsInput) ([]*domain.Record, error) {
	if err := authz.RequireAuthenticated(p); err != nil {
		return nil, err
	}
	if in.Status != "" && !in.Status.Valid() {
		return nil, domain.Validationf("invalid status filter %q", in.Status)
	}
	if in.Priority != "" && !in.Priority.Valid() {
		return nil, domain.Validationf("invalid priority filter %q", in.Priority)
	}

	filter := authz.ScopeRecords(p, ports.RecordFilter{
		Status:   in.Status,
		Priority: in.Priority,
		Category: strings.TrimSpace(in.Category),
	})
	return s.repo.List(ctx, filter)
}

// Get loads a record, then checks ownership: a missing record is NotFound for
// everyone, an existing one is Forbidden for non-owners.
func (s *RecordService) Get(ctx context.Context, p domain.Principal, id string) (*domain.Record, error) {
	return s.load(ctx, p, id)
}

func (s *RecordService) load(ctx context.Context, p domain.Principal, id string) (*domain.Record, error) {
	if err := authz.RequireAuthenticated(p); err != nil {
		return nil, err
	}
	rec, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authz.CanAccessRecord(p, rec); err != nil {
		return nil, denied(s.audit, p, resourceRecord, id, err)
	}
	return rec, nil
}

// Create stores a new record owned by p. A colliding generated id is retried
// up to maxCreateAttempts times before the conflict is returned.
func (s *RecordService) Create(ctx context.Context, p domain.Principal, in ports.CreateRecordInput) (*domain.Record, error) {
	if err := authz.RequireAuthenticated(p); err != nil {
		return nil, err
	}
	if err := normalizeCreateRecord(&in); err != nil {
		return nil, err
	}

	now := s.now()
	rec := &domain.Record{
		OwnerID:        p.ID,
		Title:          in.Title,
		Description:    in.Description,
		Status:         in.Status,
		Priority:       in.Priority,
		Category:       in.Category,
		Classification: in.Classification,
		AssignedTo:     in.AssignedTo,
		Metadata:       in.Metadata,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	var err error
	for attempt := 1; attempt <= maxCreateAttempts; attempt++ {
		rec.ID = s.newID(now)
		err = s.repo.Create(ctx, rec)
		if !errors.Is(err, domain.ErrRecordExists) {
			break
		}
		metrics.RecordIDCollisionsTotal.Inc()
		s.logger.Warn().Str("record_id", rec.ID).Int("attempt", attempt).Msg("record id collision")
	}
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to create record")
		return nil, err
	}

	metrics.RecordsCreatedTotal.WithLabelValues(string(rec.Priority)).Inc()
	s.audit.Publish(domain.AuditEvent{
		Action:     domain.AuditRecordCreated,
		ActorID:    p.ID,
		ActorRole:  p.Role,
		Resource:   resourceRecord,
		ResourceID: rec.ID,
		At:         now,
	})
	s.logger.Info().Str("record_id", rec.ID).Str("owner_id", p.ID).Msg("record created")

	return rec, nil
}

// Update applies patch to a record p may access. The owner never changes.
func (s *RecordService) Update(ctx context.Context, p domain.Principal, id string, patch domain.RecordPatch) (*domain.Record, error) {
	if err := normalizeRecordPatch(&patch); err != nil {
		return nil, err
	}
	rec, err := s.load(ctx, p, id)
	if err != nil {
		return nil, err
	}

	patch.Apply(rec)
	rec.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, rec); err != nil {
		return nil, err
	}

	s.audit.Publish(domain.AuditEvent{
		Action:     domain.AuditRecordUpdated,
		ActorID:    p.ID,
		ActorRole:  p.Role,
		Resource:   resourceRecord,
		ResourceID: id,
		At:         rec.UpdatedAt,
	})
	return rec, nil
}

func (s *RecordService) Delete(ctx context.Context, p domain.Principal, id string) error {
	if _, err := s.load(ctx, p, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.audit.Publish(domain.AuditEvent{
		Action:     domain.AuditRecordDeleted,
		ActorID:    p.ID,
		ActorRole:  p.Role,
		Resource:   resourceRecord,
		ResourceID: id,
		At:         s.now(),
	})
	s.logger.Info().Str("record_id", id).Str("by", p.ID).Msg("record deleted")
	return nil
}

func normalizeCreateRecord(in *ports.CreateRecordInput) error {
	in.Title = strings.TrimSpace(in.Title)
	in.Category = strings.TrimSpace(in.Category)
	if in.Title == "" || strings.TrimSpace(in.Description) == "" || in.Category == "" {
		return domain.Validationf("title, description and category are required")
	}

	if in.Status == "" {
		in.Status = domain.StatusPending
	}
	if in.Priority == "" {
		in.Priority = domain.PriorityMedium
	}
	if in.Classification == "" {
		in.Classification = domain.ClassificationPublic
	}
	return validateEnums(&in.Status, &in.Priority, &in.Classification)
}

// normalizeRecordPatch trims title and category the way create does.
func normalizeRecordPatch(p *domain.RecordPatch) error {
	p.Title = trimmed(p.Title)
	p.Category = trimmed(p.Category)

	if p.Title != nil && *p.Title == "" {
		return domain.Validationf("title cannot be empty")
	}
	if p.Description != nil && strings.TrimSpace(*p.Description) == "" {
		return domain.Validationf("description cannot be empty")
	}
	if p.Category != nil && *p.Category == "" {
		return domain.Validationf("category cannot be empty")
	}
	return validateEnums(p.Status, p.Priority, p.Classification)
}

// trimmed returns a trimmed copy of s, leaving the caller's string alone.
func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}

func validateEnums(status *domain.RecordStatus, priority *domain.Priority, class *domain.Classification) error {
	if status != nil && !status.Valid() {
		return domain.Validationf("invalid status %q", *status)
	}
	if priority != nil && !priority.Valid() {
		return domain.Validationf("invalid priority %q", *priority)
	}
	if class != nil && !class.Valid() {
		return domain.Validationf("invalid classification %q", *class)
	}
	return nil
}

// generateRecordID returns an id in the format REC-<unix-millis>-XXXXXXXX.
func generateRecordID(now time.Time) string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		// fallback: use current nanoseconds
		return fmt.Sprintf("REC-%d-%08X", now.UnixMilli(), time.Now().UnixNano()&0xFFFFFFFF)
	}
	return fmt.Sprintf("REC-%d-%08X", now.UnixMilli(), b)
}
