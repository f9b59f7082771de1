package user

import "io"

// Photo is an uploaded profile photo.
type Photo struct {
	Filename string    // original client filename
	Content  io.Reader // file body
}

// CreateUserRequest represents the request payload for registering a user.
type CreateUserRequest struct {
	FullName string `validate:"required,max=100"`
	Email    string `validate:"required,email,max=255"`
	Password string `validate:"required,max=255"`
	PlaceID  string `validate:"required"`
	Photo    *Photo `validate:"-"`
}

// CreateUserResponse represents the response payload after registering a user.
type CreateUserResponse struct {
	ID    string
	Photo string
}

// GetUserRequest represents the request payload for retrieving a user.
type GetUserRequest struct {
	ID string
}

// UpdateUserRequest represents a partial update. Nil fields are left unchanged.
type UpdateUserRequest struct {
	ID       string  `validate:"required"`
	FullName *string `validate:"omitempty,max=100"`
	Email    *string `validate:"omitempty,email,max=255"`
	PlaceID  *string `validate:"omitempty,min=1"`
}

// ChangePasswordRequest represents the request payload for a password change.
type ChangePasswordRequest struct {
	ID          string `validate:"required"`
	OldPassword string `validate:"required"`
	NewPassword string `validate:"required,max=255"`
}

// LoginRequest represents the request payload for logging in.
type LoginRequest struct {
	Email    string `validate:"required"`
	Password string `validate:"required"`
}

// LoginResponse is the minimal profile returned after a successful login.
type LoginResponse struct {
	ID       string
	FullName string
	Email    string
	Status   string
}
