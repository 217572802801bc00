// Package dto provides data transfer objects for the user and admin HTTP layer.
package dto

import (
	"strings"

	validation "github.com/jellydator/validation"

	"github.com/allisson/authgate/internal/user/domain"
	customValidation "github.com/allisson/authgate/internal/validation"
)

// UpdateProfileRequest changes profile fields. Omitted fields are left untouched.
type UpdateProfileRequest struct {
	FirstName   *string `json:"firstName"`
	LastName    *string `json:"lastName"`
	PhoneNumber *string `json:"phoneNumber"`
}

// ToInput converts the request to the domain input, trimming present fields.
func (r *UpdateProfileRequest) ToInput() *domain.UpdateProfileInput {
	return &domain.UpdateProfileInput{
		FirstName:   trimmed(r.FirstName),
		LastName:    trimmed(r.LastName),
		PhoneNumber: trimmed(r.PhoneNumber),
	}
}

// ChangePasswordRequest carries the current and the new password.
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword"` //nolint:gosec // request input
	NewPassword string `json:"newPassword"` //nolint:gosec // request input
}

// ToInput converts the request to the domain input.
func (r *ChangePasswordRequest) ToInput() *domain.ChangePasswordInput {
	return &domain.ChangePasswordInput{
		OldPassword: r.OldPassword,
		NewPassword: r.NewPassword,
	}
}

// AssignRoleRequest names the role to grant, as "ROLE_DOCTOR" or "doctor".
type AssignRoleRequest struct {
	RoleName string `json:"roleName"`
}

// Validate checks that a role name was supplied.
func (r *AssignRoleRequest) Validate() error {
	err := validation.ValidateStruct(r,
		validation.Field(&r.RoleName,
			validation.Required.Error("Role name is required"),
			customValidation.NotBlank,
			customValidation.RoleType,
		),
	)
	return customValidation.WrapValidationError(err)
}

// CreateRoleRequest names a new role.
type CreateRoleRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ToInput converts the request to the domain input.
func (r *CreateRoleRequest) ToInput() *domain.CreateRoleInput {
	return &domain.CreateRoleInput{
		Name:        strings.TrimSpace(r.Name),
		Description: strings.TrimSpace(r.Description),
	}
}

// UpdateRoleRequest changes a role's description or active flag.
type UpdateRoleRequest struct {
	Description *string `json:"description"`
	IsActive    *bool   `json:"isActive"`
}

// ToInput converts the request to the domain input.
func (r *UpdateRoleRequest) ToInput() *domain.UpdateRoleInput {
	return &domain.UpdateRoleInput{
		Description: trimmed(r.Description),
		IsActive:    r.IsActive,
	}
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
