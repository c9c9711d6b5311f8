package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// Role identifies the closed set of principals the API recognises.
type Role string

const (
	RoleStudent Role = "student"
	RoleAdmin   Role = "admin"
)

// Valid reports whether the role belongs to the closed set. Tokens with
// any other role value are rejected at the authorization gate.
func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleAdmin
}

// JWTClaims represents the JWT payload for access tokens. Exactly one of
// RegistrationID or StaffID is set depending on the role.
type JWTClaims struct {
	Role           Role   `json:"role"`
	RegistrationID string `json:"registration_id,omitempty"`
	StaffID        string `json:"staff_id,omitempty"`
	jwt.RegisteredClaims
}

// Identity returns the identifying field relevant to the claim's role.
func (c *JWTClaims) Identity() string {
	if c.Role == RoleAdmin {
		return c.StaffID
	}
	return c.RegistrationID
}

// StudentLoginRequest holds credentials for authenticating a student.
type StudentLoginRequest struct {
	RegistrationID string `json:"registration_id" validate:"required"`
	Password       string `json:"password" validate:"required"`
}

// AdminLoginRequest holds credentials for authenticating an admin.
type AdminLoginRequest struct {
	StaffID  string `json:"staff_id" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse returns the issued token and the authenticated profile.
type LoginResponse struct {
	Token     string   `json:"token"`
	ExpiresIn int64    `json:"expires_in"`
	Role      Role     `json:"role"`
	Student   *Student `json:"student,omitempty"`
	Admin     *Admin   `json:"admin,omitempty"`
}
