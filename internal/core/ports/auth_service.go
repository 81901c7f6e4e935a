package ports

import (
	"context"
	"time"

	"github.com/nsqtech/record-tracker/internal/core/domain"
)

// LoginInput is the credential tuple presented at login.
type LoginInput struct {
	UserID   string
	Password string
	Role     domain.Role
}

// LoginResult carries the issued token and the public view of the user.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

type AuthService interface {
	Login(ctx context.Context, input LoginInput) (*LoginResult, error)
	CurrentUser(ctx context.Context, principal domain.Principal) (*domain.User, error)
	ChangePassword(ctx context.Context, principal domain.Principal, currentPassword, newPassword string) error
}
