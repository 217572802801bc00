// Package domain defines the principal (user) and role entities.
package domain

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// User is a registered principal. Password holds the one-way hash, never the plaintext.
// Roles holds role names (e.g. ROLE_PATIENT); order is irrelevant.
type User struct {
	ID              uuid.UUID
	Username        string
	Email           string
	Password        string
	FirstName       string
	LastName        string
	PhoneNumber     string
	IsActive        bool
	IsEmailVerified bool
	IsPhoneVerified bool
	IsAdmin         bool
	Roles           []string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	LastLoginAt     *time.Time
}

// HasRole reports whether the user currently holds the named role.
func (u *User) HasRole(name string) bool {
	return slices.Contains(u.Roles, name)
}

// AddRole adds a role name, reporting false when the user already holds it.
func (u *User) AddRole(name string) bool {
	if u.HasRole(name) {
		return false
	}
	u.Roles = append(u.Roles, name)
	return true
}

// RemoveRole removes a role name, reporting false when the user did not hold it.
func (u *User) RemoveRole(name string) bool {
	idx := slices.Index(u.Roles, name)
	if idx < 0 {
		return false
	}
	u.Roles = slices.Delete(u.Roles, idx, idx+1)
	return true
}

// RoleNames returns a copy of the user's role names in a stable order.
func (u *User) RoleNames() []string {
	names := slices.Clone(u.Roles)
	slices.Sort(names)
	return names
}

// UserFilter narrows user listings. Zero value matches every user.
type UserFilter struct {
	ActiveOnly    bool
	AdminsOnly    bool
	EmailVerified *bool
	RoleName      string
}
