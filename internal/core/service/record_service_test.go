package service

import (
	"context"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nsqtech/record-tracker/internal/core/domain"
	"github.com/nsqtech/record-tracker/internal/core/ports"
)

func newRecordFixture() (*RecordService, *stubRecordRepo, *recordingAudit) {
	repo := newStubRecordRepo()
	audit := &recordingAudit{}
	svc := NewRecordService(repo, audit, zerolog.Nop())

	fixed := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	seq := 0
	svc.now = func() time.Time { return fixed }
	svc.newID = func(time.Time) string {
		seq++
		return fmt.Sprintf("REC-TEST-%03d", seq)
	}
	return svc, repo, audit
}

func recordInput(title string) ports.CreateRecordInput {
	return ports.CreateRecordInput{
		Title:       title,
		Description: "Verify employment history",
		Category:    "Employment",
	}
}

func mustCreate(t *testing.T, svc *RecordService, p domain.Principal, title string) *domain.Record {
	t.Helper()
	rec, err := svc.Create(context.Background(), p, recordInput(title))
	require.NoError(t, err)
	return rec
}

func TestRecordService_Create_Defaults(t *testing.T) {
	svc, repo, audit := newRecordFixture()

	rec := mustCreate(t, svc, u1Principal, "  Background check  ")

	assert.Equal(t, "REC-TEST-001", rec.ID)
	assert.Equal(t, "user001", rec.OwnerID)
	assert.Equal(t, "Background check", rec.Title)
	assert.Equal(t, domain.StatusPending, rec.Status)
	assert.Equal(t, domain.PriorityMedium, rec.Priority)
	assert.Equal(t, domain.ClassificationPublic, rec.Classification)
	assert.Equal(t, rec.CreatedAt, rec.UpdatedAt)
	assert.Contains(t, repo.byID, rec.ID)
	assert.Equal(t, []domain.AuditAction{domain.AuditRecordCreated}, audit.actions())
}

func TestRecordService_Create_Validation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*ports.CreateRecordInput)
	}{
		{"missing title", func(in *ports.CreateRecordInput) { in.Title = "" }},
		{"missing description", func(in *ports.CreateRecordInput) { in.Description = "   " }},
		{"missing category", func(in *ports.CreateRecordInput) { in.Category = "" }},
		{"bad status", func(in *ports.CreateRecordInput) { in.Status = "Archived" }},
		{"bad priority", func(in *ports.CreateRecordInput) { in.Priority = "Urgent" }},
		{"bad classification", func(in *ports.CreateRecordInput) { in.Classification = "Secret" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, repo, _ := newRecordFixture()
			in := recordInput("Check")
			tc.mutate(&in)

			_, err := svc.Create(context.Background(), u1Principal, in)
			assert.ErrorIs(t, err, domain.ErrValidation)
			assert.Empty(t, repo.byID)
		})
	}
}

func TestRecordService_Create_RetriesOnCollision(t *testing.T) {
	svc, repo, _ := newRecordFixture()
	repo.createErrs = []error{domain.ErrRecordExists, domain.ErrRecordExists}

	rec := mustCreate(t, svc, u1Principal, "Check")
	assert.Equal(t, "REC-TEST-003", rec.ID)
	assert.Len(t, repo.byID, 1)
}

func TestRecordService_Create_CollisionExhausted(t *testing.T) {
	svc, repo, _ := newRecordFixture()
	repo.createErrs = []error{domain.ErrRecordExists, domain.ErrRecordExists, domain.ErrRecordExists}

	_, err := svc.Create(context.Background(), u1Principal, recordInput("Check"))
	assert.ErrorIs(t, err, domain.ErrRecordExists)
	assert.Empty(t, repo.byID)
}

func TestRecordService_Create_Unauthenticated(t *testing.T) {
	svc, repo, _ := newRecordFixture()

	_, err := svc.Create(context.Background(), domain.Principal{ID: "user001", Role: "Guest"}, recordInput("Check"))
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	assert.Empty(t, repo.byID)
}

func TestRecordService_List_Scoping(t *testing.T) {
	svc, repo, _ := newRecordFixture()
	mustCreate(t, svc, u1Principal, "first")
	mustCreate(t, svc, u2Principal, "second")
	mustCreate(t, svc, u1Principal, "third")

	mine, err := svc.List(context.Background(), u1Principal, ports.ListRecordsInput{})
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, "third", mine[0].Title)
	assert.Equal(t, "first", mine[1].Title)
	assert.Equal(t, "user001", repo.lastFilter.OwnerID)

	all, err := svc.List(context.Background(), adminPrincipal, ports.ListRecordsInput{})
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Empty(t, repo.lastFilter.OwnerID)
}

func TestRecordService_List_Filters(t *testing.T) {
	svc, repo, _ := newRecordFixture()
	mustCreate(t, svc, u1Principal, "a")
	high := domain.PriorityHigh
	_, err := svc.Update(context.Background(), u1Principal, "REC-TEST-001", domain.RecordPatch{Priority: &high})
	require.NoError(t, err)
	mustCreate(t, svc, u1Principal, "b")

	got, err := svc.List(context.Background(), u1Principal, ports.ListRecordsInput{Priority: domain.PriorityHigh, Category: " Employment "})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].Title)
	assert.Equal(t, "Employment", repo.lastFilter.Category)

	_, err = svc.List(context.Background(), u1Principal, ports.ListRecordsInput{Status: "Closed"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestRecordService_Get_NotFoundBeforeForbidden(t *testing.T) {
	svc, _, audit := newRecordFixture()
	rec := mustCreate(t, svc, u1Principal, "Check")

	_, err := svc.Get(context.Background(), u2Principal, "REC-MISSING")
	assert.ErrorIs(t, err, domain.ErrRecordNotFound)

	_, err = svc.Get(context.Background(), u2Principal, rec.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Equal(t, []domain.AuditAction{domain.AuditRecordCreated, domain.AuditAccessDenied}, audit.actions())
}

func TestRecordService_ClassificationDoesNotGateAccess(t *testing.T) {
	svc, _, _ := newRecordFixture()
	in := recordInput("Restricted check")
	in.Classification = domain.ClassificationRestricted
	rec, err := svc.Create(context.Background(), u1Principal, in)
	require.NoError(t, err)

	got, err := svc.Get(context.Background(), u1Principal, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ClassificationRestricted, got.Classification)

	_, err = svc.Get(context.Background(), u2Principal, rec.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestRecordService_Update(t *testing.T) {
	svc, repo, _ := newRecordFixture()
	rec := mustCreate(t, svc, u1Principal, "Check")

	later := rec.CreatedAt.Add(time.Hour)
	svc.now = func() time.Time { return later }

	status := domain.StatusInProgress
	assignee := "user002"
	updated, err := svc.Update(context.Background(), u1Principal, rec.ID, domain.RecordPatch{
		Status:     &status,
		AssignedTo: &assignee,
		Metadata:   map[string]any{"source": "hr"},
	})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusInProgress, updated.Status)
	assert.Equal(t, "user002", updated.AssignedTo)
	assert.Equal(t, "user001", updated.OwnerID)
	assert.Equal(t, later, updated.UpdatedAt)
	assert.Equal(t, rec.CreatedAt, updated.CreatedAt)
	assert.Equal(t, domain.StatusInProgress, repo.byID[rec.ID].Status)
}

func TestRecordService_Update_TrimsLikeCreate(t *testing.T) {
	svc, repo, _ := newRecordFixture()
	rec := mustCreate(t, svc, u1Principal, "Check")

	title := "  Employment check  "
	category := "\tEmployment\n"
	updated, err := svc.Update(context.Background(), u1Principal, rec.ID, domain.RecordPatch{Title: &title, Category: &category})
	require.NoError(t, err)

	assert.Equal(t, "Employment check", updated.Title)
	assert.Equal(t, "Employment", updated.Category)
	assert.Equal(t, "Employment check", repo.byID[rec.ID].Title)
	assert.Equal(t, "  Employment check  ", title, "caller's value must not be modified")

	blank := "   "
	_, err = svc.Update(context.Background(), u1Principal, rec.ID, domain.RecordPatch{Title: &blank})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestRecordService_Update_AnyStatusTransition(t *testing.T) {
	svc, _, _ := newRecordFixture()
	rec := mustCreate(t, svc, u1Principal, "Check")

	for _, s := range []domain.RecordStatus{domain.StatusCompleted, domain.StatusPending, domain.StatusRejected, domain.StatusInProgress} {
		status := s
		got, err := svc.Update(context.Background(), u1Principal, rec.ID, domain.RecordPatch{Status: &status})
		require.NoError(t, err)
		assert.Equal(t, s, got.Status)
	}
}

func TestRecordService_Update_Denied(t *testing.T) {
	svc, repo, _ := newRecordFixture()
	rec := mustCreate(t, svc, u1Principal, "Check")

	title := "Taken over"
	_, err := svc.Update(context.Background(), u2Principal, rec.ID, domain.RecordPatch{Title: &title})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Equal(t, "Check", repo.byID[rec.ID].Title)

	empty := " "
	_, err = svc.Update(context.Background(), u1Principal, rec.ID, domain.RecordPatch{Title: &empty})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.Update(context.Background(), u1Principal, "REC-MISSING", domain.RecordPatch{Title: &title})
	assert.ErrorIs(t, err, domain.ErrRecordNotFound)
}

func TestRecordService_AdminOverride(t *testing.T) {
	svc, repo, _ := newRecordFixture()
	rec := mustCreate(t, svc, u1Principal, "Check")

	priority := domain.PriorityHigh
	updated, err := svc.Update(context.Background(), adminPrincipal, rec.ID, domain.RecordPatch{Priority: &priority})
	require.NoError(t, err)
	assert.Equal(t, "user001", updated.OwnerID)

	require.NoError(t, svc.Delete(context.Background(), adminPrincipal, rec.ID))
	assert.Empty(t, repo.byID)
}

// A general user creates a record, a peer is refused, an admin reads it, the
// owner deletes it and nobody can read it afterwards.
func TestRecordService_OwnershipLifecycle(t *testing.T) {
	svc, _, _ := newRecordFixture()
	ctx := context.Background()

	r1 := mustCreate(t, svc, u1Principal, "R1")

	_, err := svc.Get(ctx, u2Principal, r1.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	got, err := svc.Get(ctx, adminPrincipal, r1.ID)
	require.NoError(t, err)
	assert.Equal(t, r1.ID, got.ID)

	err = svc.Delete(ctx, u2Principal, r1.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	require.NoError(t, svc.Delete(ctx, u1Principal, r1.ID))

	for _, p := range []domain.Principal{u1Principal, u2Principal, adminPrincipal} {
		_, err := svc.Get(ctx, p, r1.ID)
		assert.ErrorIs(t, err, domain.ErrRecordNotFound, "principal %s", p.ID)
	}
}

func TestGenerateRecordID_Format(t *testing.T) {
	now := time.UnixMilli(1767225600123)
	id := generateRecordID(now)

	assert.Regexp(t, regexp.MustCompile(`^REC-1767225600123-[0-9A-F]{8}$`), id)
	assert.NotEqual(t, id, generateRecordID(now))
}
