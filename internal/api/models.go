package api

// Common request structures. Successful responses carry domain entities
// directly in the envelope's data field; the entities' JSON tags already
// hide password material.

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Name     string `json:"name"     validate:"required,min=3,max=50"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// UpdateProfileRequest defines the payload for profile updates.
// All fields are optional; absent fields are left unchanged.
type UpdateProfileRequest struct {
	Name     *string `json:"name,omitempty"     validate:"omitempty,min=3,max=50"`
	Email    *string `json:"email,omitempty"    validate:"omitempty,email"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=6,max=72"`
}

// DeleteAccountRequest defines the payload for account deletion.
// The caller must re-prove their password.
type DeleteAccountRequest struct {
	Password string `json:"password"`
}

// CategoryRequest defines the payload for category creation and update.
type CategoryRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}

// CreateTaskRequest defines the payload for task creation.
// Category carries the ID of one of the caller's categories, if any.
// Deadline accepts YYYY-MM-DD or RFC 3339.
type CreateTaskRequest struct {
	Title       string `json:"title"       validate:"required,min=5,max=150"`
	Description string `json:"description" validate:"required,min=10,max=1000"`
	Category    string `json:"category,omitempty"`
	Deadline    string `json:"deadline,omitempty"`
	Status      string `json:"status,omitempty"   validate:"omitempty,oneof=pending in-progress completed"`
	Priority    string `json:"priority,omitempty" validate:"omitempty,oneof=low medium high"`
}

// UpdateTaskRequest defines the payload for partial task updates.
// Only present fields are applied.
type UpdateTaskRequest struct {
	Title       *string `json:"title,omitempty"       validate:"omitempty,min=5,max=150"`
	Description *string `json:"description,omitempty" validate:"omitempty,min=10,max=1000"`
	Category    *string `json:"category,omitempty"`
	Deadline    *string `json:"deadline,omitempty"`
	Status      *string `json:"status,omitempty"   validate:"omitempty,oneof=pending in-progress completed"`
	Priority    *string `json:"priority,omitempty" validate:"omitempty,oneof=low medium high"`
}
