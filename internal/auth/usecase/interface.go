// Package usecase defines business logic interfaces for authentication operations.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/authgate/internal/auth/domain"
	userDomain "github.com/allisson/authgate/internal/user/domain"
)

// PrincipalStore is the subset of user persistence that authentication depends on.
// Implementations must support transaction-aware operations via context propagation.
type PrincipalStore interface {
	// FindByUsernameOrEmail returns ErrUserNotFound when neither field matches.
	FindByUsernameOrEmail(ctx context.Context, identifier string) (*userDomain.User, error)

	// FindByUsername returns ErrUserNotFound when no user has the username.
	FindByUsername(ctx context.Context, username string) (*userDomain.User, error)

	ExistsByUsername(ctx context.Context, username string) (bool, error)

	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// Create persists a new user together with its role assignments.
	Create(ctx context.Context, user *userDomain.User) error

	// UpdateLastLogin writes only the last login timestamp. Concurrent writers are
	// last-write-wins.
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

// RoleCatalog resolves role names to roles.
type RoleCatalog interface {
	// FindByName returns ErrRoleNotFound when the role does not exist.
	FindByName(ctx context.Context, name string) (*userDomain.Role, error)

	ExistsByName(ctx context.Context, name string) (bool, error)
}

// AuthUseCase defines sign-up, login, token refresh and principal resolution.
type AuthUseCase interface {
	// Register creates an active, unverified principal holding exactly the default
	// role for the requested user type. The returned user never carries the password hash.
	//
	// Returns a validation error for malformed input or mismatched passwords,
	// ErrRoleNotSelfRegisterable when the user type maps to a role sign-up may not
	// grant, ErrUsernameTaken or ErrEmailTaken on conflicts, and ErrRoleNotConfigured
	// when the role for the user type is missing from the catalog.
	Register(ctx context.Context, input *authDomain.RegisterInput) (*userDomain.User, error)

	// Login authenticates by username or email and issues an access and a refresh token.
	//
	// An unknown account, an inactive account and a wrong password all return
	// ErrInvalidCredentials. So does a store or signing failure, with the cause
	// joined for logging.
	Login(ctx context.Context, input *authDomain.LoginInput) (*authDomain.AuthOutput, error)

	// Refresh verifies a refresh token, re-resolves its principal and issues a new
	// access token. The refresh token itself is not rotated.
	Refresh(ctx context.Context, refreshToken string) (*authDomain.AuthOutput, error)

	// CurrentPrincipal returns the principal bound to ctx, or ErrAuthenticationRequired.
	CurrentPrincipal(ctx context.Context) (*userDomain.User, error)

	// ResolvePrincipal verifies an access token and loads its principal with the
	// roles it holds now.
	ResolvePrincipal(ctx context.Context, accessToken string) (*userDomain.User, error)
}
