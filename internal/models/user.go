package models

import (
	"time"
)

// Role represents a user's permission level.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleDeveloper Role = "developer"
	RoleTester    Role = "tester"
)

// User represents a registered account with RBAC.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never expose in JSON
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewUser creates a new User with initialized timestamps.
func NewUser(name, email string, role Role) *User {
	now := time.Now()
	return &User{
		Name:      name,
		Email:     email,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsAdmin returns true if user has admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Summary returns the populated-reference projection of the user.
func (u *User) Summary() *UserSummary {
	return &UserSummary{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
	}
}

// UserSummary is the shape a stored user reference is populated with
// at read time (name/email/role, never the password hash).
type UserSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// ParseRole converts a string to a Role. Unknown values are rejected.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleAdmin, RoleDeveloper, RoleTester:
		return Role(s), true
	}
	return "", false
}
