package auth

import (
	"github.com/google/uuid"

	"github.com/poiu748/cafe-alya/internal/users"
	"github.com/poiu748/cafe-alya/pkg/enums"
)

// LoginRequest captures the credentials sent to the login endpoint.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest carries the refresh token issued at login.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// RegisterRequest creates a back-office account.
type RegisterRequest struct {
	Username   string         `json:"username" validate:"required,min=3,max=64"`
	Email      string         `json:"email" validate:"required,email"`
	Password   string         `json:"password" validate:"required,min=8"`
	Role       enums.UserRole `json:"role" validate:"required"`
	EmployeeID *uuid.UUID     `json:"employeeId,omitempty"`
}

// TokenPair is the access and refresh token pair handed to clients.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// LoginResponse contains the tokens and the authenticated user.
type LoginResponse struct {
	TokenPair
	User *users.UserDTO `json:"user"`
}
