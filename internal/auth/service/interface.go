// Package service provides the credential and token primitives of authentication:
// one-way password hashing and signed, self-describing access and refresh tokens.
package service

import (
	authDomain "github.com/allisson/authgate/internal/auth/domain"
)

// PasswordService hashes and verifies user passwords.
type PasswordService interface {
	// Hash returns a salted one-way hash of plain in PHC string format.
	Hash(plain string) (string, error)

	// Verify reports whether plain matches hash. A malformed or empty hash yields
	// false, exactly like a wrong password.
	Verify(plain, hash string) bool
}

// TokenCodec issues and verifies signed access and refresh tokens.
type TokenCodec interface {
	// IssueAccess signs an access token for subject that embeds roles.
	IssueAccess(subject string, roles []string) (*authDomain.IssuedToken, error)

	// IssueRefresh signs a refresh token for subject.
	IssueRefresh(subject string) (*authDomain.IssuedToken, error)

	// Verify checks signature, then expiry, then claim structure, and accepts either kind.
	Verify(token string) (*authDomain.Claims, error)

	// VerifyKind is Verify plus a check that the token is of the expected kind.
	VerifyKind(token string, kind authDomain.TokenKind) (*authDomain.Claims, error)

	// SubjectOf returns the subject of a verified token, or the verification error.
	SubjectOf(token string) (string, error)
}
