package models

import "github.com/golang-jwt/jwt/v5"

// UserRole identifies the caller's position in the verification chain.
type UserRole string

const (
	RoleStudent         UserRole = "siswa"
	RoleElementaryAdmin UserRole = "adminSD"
	RoleMiddleAdmin     UserRole = "adminSMP"
	RoleDistrictAdmin   UserRole = "adminDisdik"
)

// Valid reports whether the role is one of the known values.
func (r UserRole) Valid() bool {
	switch r {
	case RoleStudent, RoleElementaryAdmin, RoleMiddleAdmin, RoleDistrictAdmin:
		return true
	}
	return false
}

// JWTClaims represents the JWT payload for access tokens.
type JWTClaims struct {
	UserID string   `json:"user_id"`
	Role   UserRole `json:"role"`
	jwt.RegisteredClaims
}
