package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/nsqtech/record-tracker/internal/api/metrics"
	"github.com/nsqtech/record-tracker/internal/core/domain"
	"github.com/nsqtech/record-tracker/internal/core/ports"
)

// maxPasswordBytes is bcrypt's input limit.
const maxPasswordBytes = 72

// fallbackDummyHash is a well-formed cost-10 bcrypt hash compared against
// when building the per-service dummy hash fails.
const fallbackDummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// AuthService implements login, the current-user view and self password change.
type AuthService struct {
	users   ports.UserRepository
	hasher  ports.PasswordHasher
	tokens  ports.TokenIssuer
	limiter ports.LoginLimiter
	audit   ports.AuditPublisher
	log     zerolog.Logger

	// dummyHash is verified against for unknown identifiers so every failed
	// login spends one bcrypt comparison.
	dummyHash string
}

var _ ports.AuthService = (*AuthService)(nil)

// NewAuthService wires the login flow. limiter and audit may be nil.
func NewAuthService(
	users ports.UserRepository,
	hasher ports.PasswordHasher,
	tokens ports.TokenIssuer,
	limiter ports.LoginLimiter,
	audit ports.AuditPublisher,
	log zerolog.Logger,
) *AuthService {
	dummy, err := hasher.Hash("record-tracker-timing-equalizer")
	if err != nil || dummy == "" {
		log.Error().Err(err).Msg("failed to build dummy password hash, using fallback")
		dummy = fallbackDummyHash
	}
	return &AuthService{
		users:     users,
		hasher:    hasher,
		tokens:    tokens,
		limiter:   limiter,
		audit:     auditOrNoop(audit),
		log:       log,
		dummyHash: dummy,
	}
}

// Login verifies the (identifier, password, role) tuple and issues a token.
// Unknown identifier, wrong password and role mismatch all return
// domain.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, in ports.LoginInput) (*ports.LoginResult, error) {
	in.UserID = strings.TrimSpace(in.UserID)
	if in.UserID == "" || in.Password == "" || in.Role == "" {
		return nil, domain.Validationf("user_id, password and role are required")
	}

	if !s.allowed(ctx, in.UserID) {
		metrics.LoginAttemptsTotal.WithLabelValues("throttled").Inc()
		return nil, domain.ErrTooManyAttempts
	}

	user, err := s.users.FindByID(ctx, in.UserID)
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		// Spend the same bcrypt work as a real comparison.
		s.hasher.Verify(in.Password, s.dummyHash)
		return nil, s.loginFailed(ctx, in.UserID, "unknown_user")
	case err != nil:
		metrics.LoginAttemptsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	passwordOK := s.hasher.Verify(in.Password, user.PasswordHash)
	if !passwordOK {
		return nil, s.loginFailed(ctx, in.UserID, "bad_password")
	}
	if user.Role != in.Role {
		return nil, s.loginFailed(ctx, in.UserID, "role_mismatch")
	}

	issued, err := s.tokens.Issue(user)
	if err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	if s.limiter != nil {
		if err := s.limiter.Reset(ctx, user.ID); err != nil {
			s.log.Warn().Err(err).Str("user_id", user.ID).Msg("failed to reset login throttle")
		}
	}

	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	s.audit.Publish(domain.AuditEvent{
		Action:     domain.AuditLoginSucceeded,
		ActorID:    user.ID,
		ActorRole:  user.Role,
		Resource:   resourceUser,
		ResourceID: user.ID,
		At:         time.Now().UTC(),
	})
	s.log.Info().Str("user_id", user.ID).Str("role", string(user.Role)).Msg("login succeeded")

	return &ports.LoginResult{Token: issued.Token, ExpiresAt: issued.ExpiresAt, User: user}, nil
}

// allowed fails open: a throttle backend error never blocks a login.
func (s *AuthService) allowed(ctx context.Context, id string) bool {
	if s.limiter == nil {
		return true
	}
	ok, err := s.limiter.Allowed(ctx, id)
	if err != nil {
		s.log.Warn().Err(err).Str("user_id", id).Msg("login throttle check failed, allowing attempt")
		return true
	}
	return ok
}

// loginFailed records the failure under its internal reason and returns the
// single opaque error the client sees.
func (s *AuthService) loginFailed(ctx context.Context, id, reason string) error {
	if s.limiter != nil {
		if err := s.limiter.RecordFailure(ctx, id); err != nil {
			s.log.Warn().Err(err).Str("user_id", id).Msg("failed to record login failure")
		}
	}
	metrics.LoginAttemptsTotal.WithLabelValues("invalid_credentials").Inc()
	s.audit.Publish(domain.AuditEvent{
		Action:     domain.AuditLoginFailed,
		ActorID:    id,
		Resource:   resourceUser,
		ResourceID: id,
		Reason:     reason,
		At:         time.Now().UTC(),
	})
	s.log.Info().Str("user_id", id).Str("reason", reason).Msg("login failed")
	return domain.ErrInvalidCredentials
}

// CurrentUser returns the stored profile of the authenticated principal.
func (s *AuthService) CurrentUser(ctx context.Context, p domain.Principal) (*domain.User, error) {
	return s.users.FindByID(ctx, p.ID)
}

// ChangePassword lets any principal replace its own password after proving
// the current one.
func (s *AuthService) ChangePassword(ctx context.Context, p domain.Principal, current, next string) error {
	if current == "" || next == "" {
		return domain.Validationf("current_password and new_password are required")
	}
	if len(next) > maxPasswordBytes {
		return domain.Validationf("new_password must be at most %d bytes", maxPasswordBytes)
	}

	user, err := s.users.FindByID(ctx, p.ID)
	if err != nil {
		return err
	}
	if !s.hasher.Verify(current, user.PasswordHash) {
		return domain.Validationf("current password is incorrect")
	}

	hash, err := s.hasher.Hash(next)
	if err != nil {
		return err
	}
	if _, err := s.users.Update(ctx, p.ID, ports.UserUpdate{PasswordHash: &hash}); err != nil {
		return err
	}

	s.audit.Publish(domain.AuditEvent{
		Action:     domain.AuditPasswordChange,
		ActorID:    p.ID,
		ActorRole:  p.Role,
		Resource:   resourceUser,
		ResourceID: p.ID,
		At:         time.Now().UTC(),
	})
	return nil
}
