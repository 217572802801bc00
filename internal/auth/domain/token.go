package domain

import (
	"time"
)

// TokenKind distinguishes access tokens from refresh tokens.
type TokenKind string

const (
	// TokenKindAccess authorizes resource access for a short TTL.
	TokenKindAccess TokenKind = "access"

	// TokenKindRefresh can only mint new access tokens.
	TokenKindRefresh TokenKind = "refresh"
)

// Valid reports whether k is a known token kind.
func (k TokenKind) Valid() bool {
	return k == TokenKindAccess || k == TokenKindRefresh
}

// Claims is the verified content of a token.
type Claims struct {
	ID        string
	Subject   string
	Issuer    string
	Kind      TokenKind
	Roles     []string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// RemainingTime returns how long the token stays valid after now, or zero once expired.
func (c *Claims) RemainingTime(now time.Time) time.Duration {
	remaining := c.ExpiresAt.Sub(now)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// IssuedToken is a freshly signed token ready to hand to a client.
type IssuedToken struct {
	Value     string
	Kind      TokenKind
	ExpiresAt time.Time
}
