package domain

import (
	"strings"
	"time"
)

// Role is the coarse permission class attached to a user.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// ParseRole maps a stored role string onto the closed enum. Unknown values
// resolve to RoleUser so that a corrupted row never grants admin.
func ParseRole(s string) Role {
	if r := Role(strings.ToLower(strings.TrimSpace(s))); r.Valid() {
		return r
	}
	return RoleUser
}

// User models a registered account.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NormalizeEmail is the canonical form used for uniqueness and lookups.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
