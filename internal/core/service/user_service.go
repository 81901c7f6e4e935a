package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/nsqtech/record-tracker/internal/core/authz"
	"github.com/nsqtech/record-tracker/internal/core/domain"
	"github.com/nsqtech/record-tracker/internal/core/ports"
)

// UserService implements administrative user management.
type UserService struct {
	users  ports.UserRepository
	hasher ports.PasswordHasher
	audit  ports.AuditPublisher
	logger zerolog.Logger
}

var _ ports.UserService = (*UserService)(nil)

func NewUserService(users ports.UserRepository, hasher ports.PasswordHasher, audit ports.AuditPublisher, logger zerolog.Logger) *UserService {
	return &UserService{users: users, hasher: hasher, audit: auditOrNoop(audit), logger: logger}
}

func (s *UserService) List(ctx context.Context, p domain.Principal) ([]*domain.User, error) {
	if err := authz.RequireAdmin(p); err != nil {
		return nil, denied(s.audit, p, resourceUser, "", err)
	}
	return s.users.List(ctx)
}

func (s *UserService) Get(ctx context.Context, p domain.Principal, id string) (*domain.User, error) {
	if err := authz.RequireAdmin(p); err != nil {
		return nil, denied(s.audit, p, resourceUser, id, err)
	}
	return s.users.FindByID(ctx, id)
}

// Create adds a principal. A taken identifier or email yields
// domain.ErrUserExists and nothing is written.
func (s *UserService) Create(ctx context.Context, p domain.Principal, in ports.CreateUserInput) (*domain.User, error) {
	if err := authz.RequireAdmin(p); err != nil {
		return nil, denied(s.audit, p, resourceUser, in.UserID, err)
	}
	if err := validateCreateUser(&in); err != nil {
		return nil, err
	}

	if _, err := s.users.FindByIDOrEmail(ctx, in.UserID, in.Email); err == nil {
		return nil, domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	user, err := s.create(ctx, in)
	if err != nil {
		return nil, err
	}

	s.audit.Publish(domain.AuditEvent{
		Action:     domain.AuditUserCreated,
		ActorID:    p.ID,
		ActorRole:  p.Role,
		Resource:   resourceUser,
		ResourceID: user.ID,
		At:         user.CreatedAt,
	})
	s.logger.Info().Str("user_id", user.ID).Str("role", string(user.Role)).Str("by", p.ID).Msg("user created")
	return user, nil
}

func (s *UserService) create(ctx context.Context, in ports.CreateUserInput) (*domain.User, error) {
	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           in.UserID,
		Role:         in.Role,
		Name:         in.Name,
		Email:        in.Email,
		Department:   in.Department,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Update applies patch to the user. A new password is re-hashed.
func (s *UserService) Update(ctx context.Context, p domain.Principal, id string, patch domain.UserPatch) (*domain.User, error) {
	if err := authz.RequireAdmin(p); err != nil {
		return nil, denied(s.audit, p, resourceUser, id, err)
	}
	if err := normalizeUserPatch(&patch); err != nil {
		return nil, err
	}

	update := ports.UserUpdate{
		Name:       patch.Name,
		Email:      patch.Email,
		Role:       patch.Role,
		Department: patch.Department,
	}
	if patch.Password != nil {
		hash, err := s.hasher.Hash(*patch.Password)
		if err != nil {
			return nil, err
		}
		update.PasswordHash = &hash
	}

	user, err := s.users.Update(ctx, id, update)
	if err != nil {
		return nil, err
	}

	s.audit.Publish(domain.AuditEvent{
		Action:     domain.AuditUserUpdated,
		ActorID:    p.ID,
		ActorRole:  p.Role,
		Resource:   resourceUser,
		ResourceID: id,
		At:         time.Now().UTC(),
	})
	return user, nil
}

// Delete removes a user. An admin deleting itself gets domain.ErrSelfDeletion
// before the store is touched.
func (s *UserService) Delete(ctx context.Context, p domain.Principal, id string) error {
	if err := authz.CanDeleteUser(p, id); err != nil {
		return denied(s.audit, p, resourceUser, id, err)
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}

	s.audit.Publish(domain.AuditEvent{
		Action:     domain.AuditUserDeleted,
		ActorID:    p.ID,
		ActorRole:  p.Role,
		Resource:   resourceUser,
		ResourceID: id,
		At:         time.Now().UTC(),
	})
	s.logger.Info().Str("user_id", id).Str("by", p.ID).Msg("user deleted")
	return nil
}

// EnsureAdmin bootstraps an Admin account at startup. It bypasses the admin
// gate and does nothing when the identifier already exists.
func (s *UserService) EnsureAdmin(ctx context.Context, in ports.CreateUserInput) (bool, error) {
	in.Role = domain.RoleAdmin
	if err := validateCreateUser(&in); err != nil {
		return false, err
	}

	if _, err := s.users.FindByIDOrEmail(ctx, in.UserID, in.Email); err == nil {
		return false, nil
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return false, err
	}

	if _, err := s.create(ctx, in); err != nil {
		return false, err
	}
	return true, nil
}

func validateCreateUser(in *ports.CreateUserInput) error {
	in.UserID = strings.TrimSpace(in.UserID)
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)

	if in.UserID == "" || in.Password == "" || in.Role == "" || in.Name == "" || in.Email == "" {
		return domain.Validationf("user_id, password, role, name and email are required")
	}
	if !in.Role.Valid() {
		return domain.Validationf("role must be one of: %s, %s", domain.RoleGeneralUser, domain.RoleAdmin)
	}
	if len(in.Password) > maxPasswordBytes {
		return domain.Validationf("password must be at most %d bytes", maxPasswordBytes)
	}
	return nil
}

// normalizeUserPatch trims name and email the way create does.
func normalizeUserPatch(p *domain.UserPatch) error {
	p.Name = trimmed(p.Name)
	p.Email = trimmed(p.Email)

	if p.Name != nil && *p.Name == "" {
		return domain.Validationf("name cannot be empty")
	}
	if p.Email != nil && *p.Email == "" {
		return domain.Validationf("email cannot be empty")
	}
	if p.Role != nil && !p.Role.Valid() {
		return domain.Validationf("role must be one of: %s, %s", domain.RoleGeneralUser, domain.RoleAdmin)
	}
	if p.Password != nil && (*p.Password == "" || len(*p.Password) > maxPasswordBytes) {
		return domain.Validationf("password must be between 1 and %d bytes", maxPasswordBytes)
	}
	return nil
}
