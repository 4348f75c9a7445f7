package model

import "fmt"

// Role gates which panel a logged-in user can reach.
type Role string

const (
	RoleStudent  Role = "student"
	RoleEducator Role = "educator"
)

// Valid reports whether the role is one of the two known values.
func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleEducator
}

// CredentialKey builds the registered-users map key. Registration and login
// must agree on role AND user ID, so both go into the key.
func CredentialKey(role Role, userID string) string {
	return fmt.Sprintf("%s:%s", role, userID)
}

// RegisterRequest is the payload for account registration.
type RegisterRequest struct {
	Role     Role   `json:"role" binding:"required,oneof=student educator"`
	UserID   string `json:"user_id" binding:"required,min=1,max=64"`
	Password string `json:"password" binding:"required,min=1,max=128"`
}

// LoginRequest is the payload for authentication.
type LoginRequest struct {
	Role     Role   `json:"role" binding:"required,oneof=student educator"`
	UserID   string `json:"user_id" binding:"required,min=1,max=64"`
	Password string `json:"password" binding:"required,min=1,max=128"`
}
