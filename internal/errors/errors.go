// Package errors provides standardized domain errors that express business intent
// rather than infrastructure details. Use cases and domain packages wrap these
// sentinels; the HTTP boundary maps them to status codes in one place.
package errors

import (
	"errors"
	"fmt"
)

// Sentinels shared by the auth and user modules. Module errors wrap one of these so
// the status mapping never needs to know module-specific errors.
var (
	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a uniqueness violation with existing data.
	ErrConflict = errors.New("conflict")

	// ErrInvalidInput indicates malformed or conflicting input the caller can correct.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized indicates bad credentials or an invalid, expired or wrong-kind token.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates a valid identity lacking the required privilege.
	ErrForbidden = errors.New("forbidden")

	// ErrConfiguration indicates operator misconfiguration, such as a referenced role
	// that does not exist. It is never the caller's fault.
	ErrConfiguration = errors.New("configuration error")

	// ErrTooManyRequests indicates the caller exceeded a rate limit.
	ErrTooManyRequests = errors.New("too many requests")
)

// New returns a plain error, for errors that map to no sentinel.
func New(message string) error {
	return errors.New(message)
}

// Wrap prefixes err with message, keeping err in the chain. A nil err stays nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf is like Wrap but formats the message.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is is errors.Is.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As is errors.As.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// Join returns an error that wraps the given errors, discarding nils.
func Join(errs ...error) error {
	return errors.Join(errs...)
}
