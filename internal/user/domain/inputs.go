package domain

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/allisson/authgate/internal/validation"
)

// UpdateProfileInput changes profile fields. Nil fields are left untouched.
type UpdateProfileInput struct {
	FirstName   *string
	LastName    *string
	PhoneNumber *string
}

// Validate checks the fields that are present.
func (u *UpdateProfileInput) Validate() error {
	err := validation.ValidateStruct(u,
		validation.Field(&u.FirstName,
			validation.NilOrNotEmpty.Error("First name cannot be blank"),
			validation.Length(2, 100).Error("First name must be between 2 and 100 characters"),
		),
		validation.Field(&u.LastName,
			validation.NilOrNotEmpty.Error("Last name cannot be blank"),
			validation.Length(2, 100).Error("Last name must be between 2 and 100 characters"),
		),
		validation.Field(&u.PhoneNumber,
			customValidation.Phone,
		),
	)
	return customValidation.WrapValidationError(err)
}

// ChangePasswordInput carries the current and the new plaintext password.
type ChangePasswordInput struct {
	OldPassword string //nolint:gosec // transient plaintext input
	NewPassword string //nolint:gosec // transient plaintext input
}

// Validate checks both passwords are present and the new one has an acceptable length.
func (c *ChangePasswordInput) Validate() error {
	err := validation.ValidateStruct(c,
		validation.Field(&c.OldPassword,
			validation.Required.Error("Old password is required"),
		),
		validation.Field(&c.NewPassword,
			validation.Required.Error("New password is required"),
			validation.Length(8, 255).Error("Password must be between 8 and 255 characters"),
		),
	)
	return customValidation.WrapValidationError(err)
}

// CreateRoleInput names a new role. Name is normalised with RoleNameForType.
type CreateRoleInput struct {
	Name        string
	Description string
}

// Validate checks the name grammar and description length.
func (c *CreateRoleInput) Validate() error {
	err := validation.ValidateStruct(c,
		validation.Field(&c.Name,
			validation.Required.Error("Role name is required"),
			validation.Length(1, 45).Error("Role name must be at most 45 characters"),
			customValidation.RoleType,
		),
		validation.Field(&c.Description,
			validation.Length(0, 255),
		),
	)
	return customValidation.WrapValidationError(err)
}

// UpdateRoleInput changes a role's description or active flag. Names are immutable.
type UpdateRoleInput struct {
	Description *string
	IsActive    *bool
}

// Validate checks the description length.
func (u *UpdateRoleInput) Validate() error {
	err := validation.ValidateStruct(u,
		validation.Field(&u.Description,
			validation.Length(0, 255),
		),
	)
	return customValidation.WrapValidationError(err)
}

// AdminSeed describes the default administrator created on first start.
type AdminSeed struct {
	Username string
	Email    string
	Password string //nolint:gosec // operator supplied bootstrap secret
}

// Validate checks the seed the same way sign-up input is checked, with the admin
// password policy.
func (a *AdminSeed) Validate() error {
	err := validation.ValidateStruct(a,
		validation.Field(&a.Username,
			validation.Required,
			validation.Length(3, 50),
			customValidation.Username,
		),
		validation.Field(&a.Email,
			validation.Required,
			customValidation.Email,
		),
		validation.Field(&a.Password,
			validation.Required,
			customValidation.AdminPasswordStrength,
		),
	)
	return customValidation.WrapValidationError(err)
}

// Statistics summarises the user base for administrators.
type Statistics struct {
	TotalActiveUsers int64
	TotalAdmins      int64
	TotalRoles       int64
}
