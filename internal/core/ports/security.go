package ports

import (
	"context"
	"time"

	"github.com/nsqtech/record-tracker/internal/core/domain"
)

// PasswordHasher hashes and verifies passwords with a slow salted function.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) bool
}

// IssuedToken is a signed credential and the instant it stops being valid.
type IssuedToken struct {
	Token     string
	ExpiresAt time.Time
}

// TokenIssuer signs credentials for authenticated users.
type TokenIssuer interface {
	Issue(user *domain.User) (IssuedToken, error)
}

// TokenVerifier checks a presented credential. It returns domain.ErrTokenExpired
// or domain.ErrTokenInvalid on failure.
type TokenVerifier interface {
	Verify(token string) (*domain.Principal, error)
}

// LoginLimiter tracks failed login attempts per identifier.
type LoginLimiter interface {
	Allowed(ctx context.Context, identifier string) (bool, error)
	RecordFailure(ctx context.Context, identifier string) error
	Reset(ctx context.Context, identifier string) error
}
