package domain

import (
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// RolePrefix is prepended to a user type to form its role name.
const RolePrefix = "ROLE_"

// Well-known role names.
const (
	RolePatient = "ROLE_PATIENT"
	RoleDoctor  = "ROLE_DOCTOR"
	RoleAdmin   = "ROLE_ADMIN"
	RoleNGO     = "ROLE_NGO"
	RoleDonor   = "ROLE_DONOR"
)

// DefaultRoleNames is the role catalog every deployment must carry.
var DefaultRoleNames = []string{RolePatient, RoleDoctor, RoleAdmin, RoleNGO, RoleDonor}

// SelfRegisterableRoleNames are the roles public sign-up may grant. Every other role,
// ROLE_ADMIN included, is granted only by an administrator.
var SelfRegisterableRoleNames = []string{RolePatient, RoleDoctor, RoleNGO, RoleDonor}

// IsSelfRegisterable reports whether public sign-up may grant roleName.
func IsSelfRegisterable(roleName string) bool {
	return slices.Contains(SelfRegisterableRoleNames, roleName)
}

// Role is a named permission grouping. Names are immutable once created because
// issued tokens embed them.
type Role struct {
	ID          uuid.UUID
	Name        string
	Description string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// RoleNameForType maps a user type such as "patient" to its role name "ROLE_PATIENT".
// Names that already carry the prefix are only upper-cased.
func RoleNameForType(userType string) string {
	name := strings.ToUpper(strings.TrimSpace(userType))
	if strings.HasPrefix(name, RolePrefix) {
		return name
	}
	return RolePrefix + name
}

// RoleType is the inverse of RoleNameForType: "ROLE_DOCTOR" becomes "DOCTOR".
func RoleType(roleName string) string {
	return strings.TrimPrefix(roleName, RolePrefix)
}

// DefaultRoleDescription returns the description seeded for a default role.
func DefaultRoleDescription(roleName string) string {
	return "Role for " + strings.ToLower(RoleType(roleName)) + " users"
}
