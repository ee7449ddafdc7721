package model

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a registered account
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // Never leaves the server
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsKnownRole reports whether role is one the API issues tokens for
func IsKnownRole(role string) bool {
	return role == RoleUser || role == RoleAdmin
}

// SignUpRequest is the body of POST /users/sign-up
type SignUpRequest struct {
	Username string `json:"username" validate:"required,alphanum,min=3,max=30"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// SignInRequest is the body of POST /users/sign-in
type SignInRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UpdateUserRequest is the body of PUT /users/:id. Nil fields are left unchanged.
type UpdateUserRequest struct {
	Username *string `json:"username,omitempty" validate:"omitempty,alphanum,min=3,max=30"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=6,max=72"`
}
