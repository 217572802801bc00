package domain

import (
	"github.com/allisson/authgate/internal/errors"
)

// Authentication and authorization errors.
var (
	// ErrInvalidCredentials is the single outcome of a failed login or refresh. It
	// does not reveal whether the account is missing, inactive or the secret is wrong.
	ErrInvalidCredentials = errors.Wrap(errors.ErrUnauthorized, "invalid username or password")

	// ErrAuthenticationRequired indicates no principal is bound to the request.
	ErrAuthenticationRequired = errors.Wrap(errors.ErrUnauthorized, "authentication required")

	// ErrInsufficientPrivilege indicates the bound principal lacks the required role.
	ErrInsufficientPrivilege = errors.Wrap(errors.ErrForbidden, "insufficient privilege")

	// ErrTokenSignature indicates the token signature, algorithm or encoding is invalid.
	ErrTokenSignature = errors.Wrap(errors.ErrUnauthorized, "token signature is invalid")

	// ErrTokenExpired indicates the token expiry has passed.
	ErrTokenExpired = errors.Wrap(errors.ErrUnauthorized, "token has expired")

	// ErrTokenMalformed indicates a correctly signed token with missing or unknown claims.
	ErrTokenMalformed = errors.Wrap(errors.ErrUnauthorized, "token claims are malformed")

	// ErrTokenKindMismatch indicates a token of the wrong kind, such as a refresh token
	// presented where an access token is required.
	ErrTokenKindMismatch = errors.Wrap(errors.ErrUnauthorized, "token kind mismatch")

	// ErrAccountInactive indicates the principal behind a token has been deactivated.
	ErrAccountInactive = errors.Wrap(errors.ErrUnauthorized, "account is inactive")
)
