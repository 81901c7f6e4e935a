package ports

import (
	"context"

	"github.com/nsqtech/record-tracker/internal/core/domain"
)

// UserUpdate is the persisted form of a user patch. PasswordHash is already
// hashed; repositories never see plaintext.
type UserUpdate struct {
	Name         *string
	Email        *string
	Role         *domain.Role
	Department   *string
	PasswordHash *string
}

// UserRepository is the credential store.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// FindByIDOrEmail returns the first user whose id or email matches, or
	// domain.ErrUserNotFound.
	FindByIDOrEmail(ctx context.Context, id, email string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	// Create fails with domain.ErrUserExists when the id or email is taken.
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, id string, update UserUpdate) (*domain.User, error)
	// Delete fails with domain.ErrUserNotFound when no such user exists.
	Delete(ctx context.Context, id string) error
}
