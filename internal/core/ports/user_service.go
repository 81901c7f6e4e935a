package ports

import (
	"context"

	"github.com/nsqtech/record-tracker/internal/core/domain"
)

// CreateUserInput carries the fields of a new principal. Password is plaintext.
type CreateUserInput struct {
	UserID     string
	Password   string
	Role       domain.Role
	Name       string
	Email      string
	Department string
}

// UserService is the administrative user-management surface. Every method
// requires an Admin principal.
type UserService interface {
	List(ctx context.Context, principal domain.Principal) ([]*domain.User, error)
	Get(ctx context.Context, principal domain.Principal, id string) (*domain.User, error)
	Create(ctx context.Context, principal domain.Principal, input CreateUserInput) (*domain.User, error)
	Update(ctx context.Context, principal domain.Principal, id string, patch domain.UserPatch) (*domain.User, error)
	Delete(ctx context.Context, principal domain.Principal, id string) error
}
