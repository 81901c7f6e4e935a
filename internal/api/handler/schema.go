package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Auth ---

type loginRequest struct {
	UserID   string `json:"user_id"  validate:"required"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role"     validate:"required,oneof='General User' Admin"`
}

type loginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      userResponse `json:"user"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password"     validate:"required,min=6,max=72"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// --- Users ---

type createUserRequest struct {
	UserID     string `json:"user_id"    validate:"required"`
	Password   string `json:"password"   validate:"required,min=6,max=72"`
	Role       string `json:"role"       validate:"required,oneof='General User' Admin"`
	Name       string `json:"name"       validate:"required"`
	Email      string `json:"email"      validate:"required,email"`
	Department string `json:"department"`
}

type updateUserRequest struct {
	Name       *string `json:"name"       validate:"omitempty,min=1"`
	Email      *string `json:"email"      validate:"omitempty,email"`
	Role       *string `json:"role"       validate:"omitempty,oneof='General User' Admin"`
	Department *string `json:"department"`
	Password   *string `json:"password"   validate:"omitempty,min=6,max=72"`
}

type userResponse struct {
	UserID     string    `json:"user_id"`
	Role       string    `json:"role"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Department string    `json:"department,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type listUsersResponse struct {
	Data  []userResponse `json:"data"`
	Count int            `json:"count"`
}

// --- Records ---

type createRecordRequest struct {
	Title          string         `json:"title"          validate:"required"`
	Description    string         `json:"description"    validate:"required"`
	Category       string         `json:"category"       validate:"required"`
	Status         string         `json:"status"         validate:"omitempty,oneof=Pending 'In Progress' Completed Rejected"`
	Priority       string         `json:"priority"       validate:"omitempty,oneof=Low Medium High"`
	Classification string         `json:"classification" validate:"omitempty,oneof=Public Private Restricted"`
	AssignedTo     string         `json:"assigned_to"`
	Metadata       map[string]any `json:"metadata"`
}

type updateRecordRequest struct {
	Title          *string        `json:"title"          validate:"omitempty,min=1"`
	Description    *string        `json:"description"    validate:"omitempty,min=1"`
	Category       *string        `json:"category"       validate:"omitempty,min=1"`
	Status         *string        `json:"status"         validate:"omitempty,oneof=Pending 'In Progress' Completed Rejected"`
	Priority       *string        `json:"priority"       validate:"omitempty,oneof=Low Medium High"`
	Classification *string        `json:"classification" validate:"omitempty,oneof=Public Private Restricted"`
	AssignedTo     *string        `json:"assigned_to"`
	Metadata       map[string]any `json:"metadata"`
}

type recordResponse struct {
	RecordID       string         `json:"record_id"`
	OwnerID        string         `json:"owner_id"`
	Title          string         `json:"title"`
	Description    string         `json:"description"`
	Status         string         `json:"status"`
	Priority       string         `json:"priority"`
	Category       string         `json:"category"`
	Classification string         `json:"classification"`
	AssignedTo     string         `json:"assigned_to,omitempty"`
	Metadata       map[string]any `json:"metadata,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

type listRecordsResponse struct {
	Data  []recordResponse `json:"data"`
	Count int              `json:"count"`
}
