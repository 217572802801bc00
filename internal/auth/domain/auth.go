// Package domain defines the authentication and authorization model: token kinds
// and claims, the request-scoped SecurityContext, the declarative AccessPolicy and
// the inputs and outputs of sign-up, login and refresh.
package domain

import (
	validation "github.com/jellydator/validation"

	userDomain "github.com/allisson/authgate/internal/user/domain"
	customValidation "github.com/allisson/authgate/internal/validation"
)

// RegisterInput carries a sign-up request. Password and ConfirmPassword are
// plaintext and must never be logged or persisted.
type RegisterInput struct {
	Username        string
	Email           string
	Password        string //nolint:gosec // transient plaintext input
	ConfirmPassword string //nolint:gosec // transient plaintext input
	FirstName       string
	LastName        string
	PhoneNumber     string
	UserType        string
}

// Validate checks field formats. Cross-field and uniqueness checks belong to the use case.
func (r *RegisterInput) Validate() error {
	err := validation.ValidateStruct(r,
		validation.Field(&r.Username,
			validation.Required.Error("Username is required"),
			customValidation.NotBlank,
			validation.Length(3, 50).Error("Username must be between 3 and 50 characters"),
			customValidation.Username,
		),
		validation.Field(&r.Email,
			validation.Required.Error("Email is required"),
			validation.Length(0, 100),
			customValidation.Email.Error("Email should be valid"),
		),
		validation.Field(&r.Password,
			validation.Required.Error("Password is required"),
			validation.Length(8, 255).Error("Password must be between 8 and 255 characters"),
		),
		validation.Field(&r.ConfirmPassword,
			validation.Required.Error("Confirm password is required"),
		),
		validation.Field(&r.FirstName,
			validation.Required.Error("First name is required"),
			customValidation.NotBlank,
			validation.Length(2, 100).Error("First name must be between 2 and 100 characters"),
		),
		validation.Field(&r.LastName,
			validation.Required.Error("Last name is required"),
			customValidation.NotBlank,
			validation.Length(2, 100).Error("Last name must be between 2 and 100 characters"),
		),
		validation.Field(&r.PhoneNumber,
			customValidation.Phone,
		),
		validation.Field(&r.UserType,
			validation.Required.Error("User type is required"),
			customValidation.RoleType,
		),
	)
	return customValidation.WrapValidationError(err)
}

// LoginInput carries a login request.
type LoginInput struct {
	UsernameOrEmail string
	Password        string //nolint:gosec // transient plaintext input
}

// Validate checks that both fields are present.
func (l *LoginInput) Validate() error {
	err := validation.ValidateStruct(l,
		validation.Field(&l.UsernameOrEmail,
			validation.Required.Error("Username or email is required"),
			customValidation.NotBlank,
		),
		validation.Field(&l.Password,
			validation.Required.Error("Password is required"),
		),
	)
	return customValidation.WrapValidationError(err)
}

// AuthOutput is the result of a successful login or refresh. RefreshToken is nil
// after a refresh because refresh tokens are not rotated.
type AuthOutput struct {
	AccessToken  *IssuedToken
	RefreshToken *IssuedToken
	User         *userDomain.User
}
