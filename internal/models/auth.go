package models

import "github.com/golang-jwt/jwt/v5"

// JWTClaims represents the access token payload issued by the identity provider.
type JWTClaims struct {
	UserID   string   `json:"user_id"`
	Role     UserRole `json:"role"`
	Email    string   `json:"email"`
	FullName string   `json:"full_name"`
	// ProgramPIDs restricts coordinators to their own programs.
	ProgramPIDs []string `json:"program_pids,omitempty"`
	jwt.RegisteredClaims
}
