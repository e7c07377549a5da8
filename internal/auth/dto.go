package auth

import (
	"github.com/replyhub/replyhub-backend/internal/users"
	"github.com/replyhub/replyhub-backend/pkg/types"
)

// SigninRequest captures the credentials sent to the signin endpoint.
type SigninRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SignupRequest captures the fields accepted by the signup endpoint. Role is
// the wire-level role label; store owners get a store code allocated.
type SignupRequest struct {
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=8"`
	Name     string  `json:"name" validate:"required"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,min=9"`
	Role     string  `json:"role" validate:"required"`
}

// RefreshRequest carries the refresh token for the explicit refresh endpoint.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// UpdateProfileRequest is the partial profile patch for PUT /api/user.
type UpdateProfileRequest struct {
	Name  *string `json:"name,omitempty" validate:"omitempty,min=1"`
	Phone *string `json:"phone,omitempty"`
}

// AuthResult bundles the session material and user returned by signin,
// signup, and refresh.
type AuthResult struct {
	Session types.Session  `json:"session"`
	User    *users.UserDTO `json:"user"`
}
