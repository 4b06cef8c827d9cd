package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/poiu748/cafe-alya/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID     uuid.UUID
	Username   string
	Role       enums.UserRole
	EmployeeID *uuid.UUID
	JTI        string
}

// AccessTokenClaims represents the typed JWT issued to back-office users.
type AccessTokenClaims struct {
	UserID     uuid.UUID      `json:"user_id"`
	Username   string         `json:"username"`
	Role       enums.UserRole `json:"role"`
	EmployeeID *uuid.UUID     `json:"employee_id,omitempty"`
	jwt.RegisteredClaims
}
