package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/allisson/authgate/internal/errors"
)

func TestUser_Roles(t *testing.T) {
	u := &User{Username: "alice", Roles: []string{RolePatient}}

	assert.True(t, u.HasRole(RolePatient))
	assert.False(t, u.HasRole(RoleAdmin))

	assert.True(t, u.AddRole(RoleDonor))
	assert.False(t, u.AddRole(RoleDonor), "duplicate role must not be added twice")
	assert.Equal(t, []string{RoleDonor, RolePatient}, u.RoleNames())

	assert.True(t, u.RemoveRole(RolePatient))
	assert.False(t, u.RemoveRole(RolePatient))
	assert.False(t, u.HasRole(RolePatient))
	assert.Equal(t, []string{RoleDonor}, u.Roles)
}

func TestUser_RoleNamesIsACopy(t *testing.T) {
	u := &User{Roles: []string{RoleNGO}}

	names := u.RoleNames()
	names[0] = RoleAdmin

	assert.Equal(t, []string{RoleNGO}, u.Roles)
}

func TestRoleNameForType(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{input: "PATIENT", expected: "ROLE_PATIENT"},
		{input: "doctor", expected: "ROLE_DOCTOR"},
		{input: "  ngo ", expected: "ROLE_NGO"},
		{input: "ROLE_ADMIN", expected: "ROLE_ADMIN"},
		{input: "role_donor", expected: "ROLE_DONOR"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, RoleNameForType(tt.input))
		})
	}
}

func TestIsSelfRegisterable(t *testing.T) {
	for _, userType := range []string{"patient", "DOCTOR", "ngo", "Donor"} {
		assert.True(t, IsSelfRegisterable(RoleNameForType(userType)), userType)
	}
	for _, userType := range []string{"ADMIN", "role_admin", "ROLE_ADMIN", "PILOT", ""} {
		assert.False(t, IsSelfRegisterable(RoleNameForType(userType)), userType)
	}
	assert.NotContains(t, SelfRegisterableRoleNames, RoleAdmin)
}

func TestDefaultRoleDescription(t *testing.T) {
	assert.Equal(t, "Role for patient users", DefaultRoleDescription(RolePatient))
	assert.Equal(t, "Role for ngo users", DefaultRoleDescription(RoleNGO))
	assert.Equal(t, "DOCTOR", RoleType(RoleDoctor))
}

func TestErrors_Taxonomy(t *testing.T) {
	assert.ErrorIs(t, ErrUsernameTaken, apperrors.ErrConflict)
	assert.ErrorIs(t, ErrEmailTaken, apperrors.ErrConflict)
	assert.ErrorIs(t, ErrUserNotFound, apperrors.ErrNotFound)
	assert.ErrorIs(t, ErrRoleNotConfigured, apperrors.ErrConfiguration)
	assert.ErrorIs(t, ErrPasswordMismatch, apperrors.ErrInvalidInput)
	assert.ErrorIs(t, ErrRoleNotSelfRegisterable, apperrors.ErrInvalidInput)
}
