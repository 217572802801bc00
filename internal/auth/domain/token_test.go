package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/allisson/authgate/internal/errors"
)

func TestTokenKind_Valid(t *testing.T) {
	assert.True(t, TokenKindAccess.Valid())
	assert.True(t, TokenKindRefresh.Valid())
	assert.False(t, TokenKind("id").Valid())
	assert.False(t, TokenKind("").Valid())
}

func TestClaims_RemainingTime(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	claims := &Claims{ExpiresAt: now.Add(15 * time.Minute)}

	assert.Equal(t, 15*time.Minute, claims.RemainingTime(now))
	assert.Equal(t, time.Duration(0), claims.RemainingTime(now.Add(20*time.Minute)))
}

func TestTokenErrors_AreUnauthorized(t *testing.T) {
	for _, err := range []error{
		ErrInvalidCredentials,
		ErrAuthenticationRequired,
		ErrTokenSignature,
		ErrTokenExpired,
		ErrTokenMalformed,
		ErrTokenKindMismatch,
		ErrAccountInactive,
	} {
		assert.ErrorIs(t, err, apperrors.ErrUnauthorized, err.Error())
	}
	assert.ErrorIs(t, ErrInsufficientPrivilege, apperrors.ErrForbidden)
}
