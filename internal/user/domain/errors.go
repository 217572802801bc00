package domain

import (
	"github.com/allisson/authgate/internal/errors"
)

// User and role errors.
var (
	// ErrUserNotFound indicates the requested user does not exist.
	ErrUserNotFound = errors.Wrap(errors.ErrNotFound, "user not found")

	// ErrUsernameTaken indicates another user already claimed the username.
	ErrUsernameTaken = errors.Wrap(errors.ErrConflict, "username is already taken")

	// ErrEmailTaken indicates another user already claimed the email.
	ErrEmailTaken = errors.Wrap(errors.ErrConflict, "email is already in use")

	// ErrRoleNotFound indicates the requested role does not exist.
	ErrRoleNotFound = errors.Wrap(errors.ErrNotFound, "role not found")

	// ErrRoleAlreadyExists indicates a role with the same name already exists.
	ErrRoleAlreadyExists = errors.Wrap(errors.ErrConflict, "role already exists")

	// ErrRoleNotConfigured indicates a role required by the system is missing from the catalog.
	ErrRoleNotConfigured = errors.Wrap(errors.ErrConfiguration, "role is not configured")

	// ErrIncorrectPassword indicates the current password supplied for a change is wrong.
	ErrIncorrectPassword = errors.Wrap(errors.ErrInvalidInput, "old password is incorrect")

	// ErrPasswordMismatch indicates the password and its confirmation differ.
	ErrPasswordMismatch = errors.Wrap(errors.ErrInvalidInput, "passwords do not match")

	// ErrRoleNotSelfRegisterable indicates a sign-up asked for a role only an
	// administrator may grant.
	ErrRoleNotSelfRegisterable = errors.Wrap(errors.ErrInvalidInput, "user type is not available for sign-up")

	// ErrRoleNotAssigned indicates the user does not hold the role being removed.
	ErrRoleNotAssigned = errors.Wrap(errors.ErrInvalidInput, "role is not assigned to the user")
)
