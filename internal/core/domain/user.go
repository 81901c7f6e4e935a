package domain

import "time"

// Role is the closed set of principal roles.
type Role string

const (
	RoleGeneralUser Role = "General User"
	RoleAdmin       Role = "Admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleGeneralUser || r == RoleAdmin
}

// User models a principal account held by the credential store.
type User struct {
	ID           string    `json:"user_id"`
	Role         Role      `json:"role"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Department   string    `json:"department,omitempty"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UserPatch carries the mutable fields of a user. Nil fields are left untouched.
// Password is plaintext and is hashed by the service before it reaches a repository.
type UserPatch struct {
	Name       *string
	Email      *string
	Role       *Role
	Department *string
	Password   *string
}

// Principal is the authenticated identity decoded from a verified token.
type Principal struct {
	ID    string `json:"user_id"`
	Role  Role   `json:"role"`
	Email string `json:"email"`
}

// IsAdmin reports whether the principal holds the Admin role.
func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}
