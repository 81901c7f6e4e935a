package domain

import (
	"errors"
	"fmt"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTooManyAttempts    = errors.New("too many login attempts")
	ErrForbidden          = errors.New("access forbidden")
	ErrInvalidOperation   = errors.New("invalid operation")

	ErrUserNotFound   = errors.New("user not found")
	ErrUserExists     = errors.New("user id or email already exists")
	ErrRecordNotFound = errors.New("record not found")
	ErrRecordExists   = errors.New("record already exists")

	ErrTokenExpired = fmt.Errorf("%w: token expired", ErrUnauthenticated)
	ErrTokenInvalid = fmt.Errorf("%w: invalid token", ErrUnauthenticated)

	ErrSelfDeletion = fmt.Errorf("%w: cannot delete your own account", ErrInvalidOperation)
)

// Validationf builds an ErrValidation carrying a client-safe message.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
