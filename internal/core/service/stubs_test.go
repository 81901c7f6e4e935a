package service

import (
	"context"
	"sort"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/nsqtech/record-tracker/internal/core/domain"
	"github.com/nsqtech/record-tracker/internal/core/ports"
	"github.com/nsqtech/record-tracker/internal/infrastructure/security"
)

// ---------------------------------------------------------------------------
// In-memory user repository
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	users     map[string]*domain.User
	findCalls int
	createErr error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.findCalls++
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByIDOrEmail(_ context.Context, id, email string) (*domain.User, error) {
	r.findCalls++
	for _, u := range r.users {
		if u.ID == id || u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) List(_ context.Context) ([]*domain.User, error) {
	out := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, cloneUser(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) error {
	if r.createErr != nil {
		return r.createErr
	}
	for _, u := range r.users {
		if u.ID == user.ID || u.Email == user.Email {
			return domain.ErrUserExists
		}
	}
	r.users[user.ID] = cloneUser(user)
	return nil
}

func (r *stubUserRepo) Update(_ context.Context, id string, up ports.UserUpdate) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if up.Email != nil {
		for _, other := range r.users {
			if other.ID != id && other.Email == *up.Email {
				return nil, domain.ErrUserExists
			}
		}
		u.Email = *up.Email
	}
	if up.Name != nil {
		u.Name = *up.Name
	}
	if up.Role != nil {
		u.Role = *up.Role
	}
	if up.Department != nil {
		u.Department = *up.Department
	}
	if up.PasswordHash != nil {
		u.PasswordHash = *up.PasswordHash
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

// ---------------------------------------------------------------------------
// In-memory record repository
// ---------------------------------------------------------------------------

type stubRecordRepo struct {
	byID       map[string]*domain.Record
	order      []string
	lastFilter *ports.RecordFilter
	createErrs []error // popped one per Create call
}

func newStubRecordRepo() *stubRecordRepo {
	return &stubRecordRepo{byID: make(map[string]*domain.Record)}
}

func cloneRecord(r *domain.Record) *domain.Record {
	clone := *r
	return &clone
}

func (r *stubRecordRepo) Create(_ context.Context, rec *domain.Record) error {
	if len(r.createErrs) > 0 {
		err := r.createErrs[0]
		r.createErrs = r.createErrs[1:]
		if err != nil {
			return err
		}
	}
	if _, exists := r.byID[rec.ID]; exists {
		return domain.ErrRecordExists
	}
	r.byID[rec.ID] = cloneRecord(rec)
	r.order = append(r.order, rec.ID)
	return nil
}

func (r *stubRecordRepo) FindByID(_ context.Context, id string) (*domain.Record, error) {
	rec, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}
	return cloneRecord(rec), nil
}

// List applies the same filters the real Mongo repo would use.
func (r *stubRecordRepo) List(_ context.Context, f ports.RecordFilter) ([]*domain.Record, error) {
	r.lastFilter = &f
	var out []*domain.Record
	for i := len(r.order) - 1; i >= 0; i-- {
		rec, ok := r.byID[r.order[i]]
		if !ok {
			continue
		}
		if f.OwnerID != "" && rec.OwnerID != f.OwnerID {
			continue
		}
		if f.Status != "" && rec.Status != f.Status {
			continue
		}
		if f.Priority != "" && rec.Priority != f.Priority {
			continue
		}
		if f.Category != "" && rec.Category != f.Category {
			continue
		}
		out = append(out, cloneRecord(rec))
	}
	return out, nil
}

func (r *stubRecordRepo) Update(_ context.Context, rec *domain.Record) error {
	existing, ok := r.byID[rec.ID]
	if !ok {
		return domain.ErrRecordNotFound
	}
	updated := cloneRecord(rec)
	updated.OwnerID = existing.OwnerID
	updated.CreatedAt = existing.CreatedAt
	r.byID[rec.ID] = updated
	return nil
}

func (r *stubRecordRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrRecordNotFound
	}
	delete(r.byID, id)
	return nil
}

// ---------------------------------------------------------------------------
// Audit, throttle and security helpers
// ---------------------------------------------------------------------------

type recordingAudit struct {
	mu     sync.Mutex
	events []domain.AuditEvent
}

func (a *recordingAudit) Publish(e domain.AuditEvent) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.events = append(a.events, e)
}

func (a *recordingAudit) actions() []domain.AuditAction {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]domain.AuditAction, len(a.events))
	for i, e := range a.events {
		out[i] = e.Action
	}
	return out
}

type stubLimiter struct {
	blocked  bool
	checkErr error
	failures map[string]int
	resets   []string
}

func newStubLimiter() *stubLimiter {
	return &stubLimiter{failures: make(map[string]int)}
}

func (l *stubLimiter) Allowed(_ context.Context, id string) (bool, error) {
	return !l.blocked, l.checkErr
}

func (l *stubLimiter) RecordFailure(_ context.Context, id string) error {
	l.failures[id]++
	return nil
}

func (l *stubLimiter) Reset(_ context.Context, id string) error {
	l.resets = append(l.resets, id)
	return nil
}

// countingHasher delegates to a real hasher and records every Verify call.
type countingHasher struct {
	inner        ports.PasswordHasher
	hashErr      error
	verifyHashes []string
}

func (h *countingHasher) Hash(plaintext string) (string, error) {
	if h.hashErr != nil {
		return "", h.hashErr
	}
	return h.inner.Hash(plaintext)
}

func (h *countingHasher) Verify(plaintext, hash string) bool {
	h.verifyHashes = append(h.verifyHashes, hash)
	return h.inner.Verify(plaintext, hash)
}

const testSecret = "service-test-secret-0123456789abcdef"

var testHasher = security.NewBcryptHasher(bcrypt.MinCost)

func mustHash(password string) string {
	h, err := testHasher.Hash(password)
	if err != nil {
		panic(err)
	}
	return h
}

var (
	adminPrincipal = domain.Principal{ID: "admin001", Role: domain.RoleAdmin, Email: "admin@example.com"}
	u1Principal    = domain.Principal{ID: "user001", Role: domain.RoleGeneralUser, Email: "john@example.com"}
	u2Principal    = domain.Principal{ID: "user002", Role: domain.RoleGeneralUser, Email: "jane@example.com"}
)
