// Package usecase implements business logic orchestration for authentication operations.
package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/authgate/internal/auth/domain"
	authService "github.com/allisson/authgate/internal/auth/service"
	"github.com/allisson/authgate/internal/database"
	userDomain "github.com/allisson/authgate/internal/user/domain"

	apperrors "github.com/allisson/authgate/internal/errors"
)

// dummyPassword is hashed once and verified against when a login names an unknown
// account, so that lookups of missing accounts cost as much as real ones.
const dummyPassword = "authgate-timing-equalizer" //nolint:gosec // not a credential

// authUseCase implements AuthUseCase.
type authUseCase struct {
	txManager       database.TxManager
	principals      PrincipalStore
	roles           RoleCatalog
	passwordService authService.PasswordService
	tokenCodec      authService.TokenCodec
	now             func() time.Time

	dummyOnce sync.Once
	dummyHash string
}

// Register validates input, checks uniqueness and the role catalog, and persists the
// new principal inside a single transaction.
func (a *authUseCase) Register(
	ctx context.Context,
	input *authDomain.RegisterInput,
) (*userDomain.User, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	if input.Password != input.ConfirmPassword {
		return nil, userDomain.ErrPasswordMismatch
	}

	roleName := userDomain.RoleNameForType(input.UserType)
	if !userDomain.IsSelfRegisterable(roleName) {
		return nil, apperrors.Wrapf(userDomain.ErrRoleNotSelfRegisterable, "user type %s", input.UserType)
	}

	var user *userDomain.User
	err := a.txManager.WithTx(ctx, func(ctx context.Context) error {
		exists, err := a.principals.ExistsByUsername(ctx, input.Username)
		if err != nil {
			return err
		}
		if exists {
			return userDomain.ErrUsernameTaken
		}

		exists, err = a.principals.ExistsByEmail(ctx, input.Email)
		if err != nil {
			return err
		}
		if exists {
			return userDomain.ErrEmailTaken
		}

		role, err := a.roles.FindByName(ctx, roleName)
		if err != nil {
			if errors.Is(err, userDomain.ErrRoleNotFound) {
				return apperrors.Wrapf(userDomain.ErrRoleNotConfigured, "role %s", roleName)
			}
			return err
		}
		if !role.IsActive {
			return apperrors.Wrapf(userDomain.ErrRoleNotConfigured, "role %s is inactive", roleName)
		}

		hash, err := a.passwordService.Hash(input.Password)
		if err != nil {
			return apperrors.Wrap(err, "failed to hash password")
		}

		now := a.now().UTC()
		user = &userDomain.User{
			ID:          uuid.Must(uuid.NewV7()),
			Username:    input.Username,
			Email:       input.Email,
			Password:    hash,
			FirstName:   input.FirstName,
			LastName:    input.LastName,
			PhoneNumber: input.PhoneNumber,
			IsActive:    true,
			Roles:       []string{role.Name},
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		return a.principals.Create(ctx, user)
	})
	if err != nil {
		return nil, err
	}

	created := *user
	created.Password = ""
	return &created, nil
}

// Login resolves the principal by username or email and issues both tokens.
//
// The password is verified before the active flag is consulted so that the three
// failure cases take comparable time and collapse into ErrInvalidCredentials.
func (a *authUseCase) Login(
	ctx context.Context,
	input *authDomain.LoginInput,
) (*authDomain.AuthOutput, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	user, err := a.principals.FindByUsernameOrEmail(ctx, input.UsernameOrEmail)
	if err != nil {
		if errors.Is(err, userDomain.ErrUserNotFound) {
			a.passwordService.Verify(input.Password, a.getDummyHash())
			return nil, authDomain.ErrInvalidCredentials
		}
		return nil, credentialFailure(err)
	}

	if !a.passwordService.Verify(input.Password, user.Password) || !user.IsActive {
		return nil, authDomain.ErrInvalidCredentials
	}

	now := a.now().UTC()
	if err := a.principals.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return nil, credentialFailure(err)
	}
	user.LastLoginAt = &now

	accessToken, err := a.tokenCodec.IssueAccess(user.Username, user.RoleNames())
	if err != nil {
		return nil, credentialFailure(err)
	}
	refreshToken, err := a.tokenCodec.IssueRefresh(user.Username)
	if err != nil {
		return nil, credentialFailure(err)
	}

	return &authDomain.AuthOutput{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
	}, nil
}

// Refresh issues a new access token for the principal behind a refresh token. Role
// changes and deactivation since the refresh token was issued take effect here.
func (a *authUseCase) Refresh(ctx context.Context, refreshToken string) (*authDomain.AuthOutput, error) {
	claims, err := a.tokenCodec.VerifyKind(refreshToken, authDomain.TokenKindRefresh)
	if err != nil {
		return nil, err
	}

	user, err := a.principals.FindByUsername(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, userDomain.ErrUserNotFound) {
			return nil, authDomain.ErrInvalidCredentials
		}
		return nil, credentialFailure(err)
	}
	if !user.IsActive {
		return nil, authDomain.ErrInvalidCredentials
	}

	accessToken, err := a.tokenCodec.IssueAccess(user.Username, user.RoleNames())
	if err != nil {
		return nil, credentialFailure(err)
	}

	return &authDomain.AuthOutput{
		AccessToken: accessToken,
		User:        user,
	}, nil
}

// CurrentPrincipal reads the SecurityContext bound to ctx.
func (a *authUseCase) CurrentPrincipal(ctx context.Context) (*userDomain.User, error) {
	principal, ok := authDomain.SecurityContextFrom(ctx).Principal()
	if !ok {
		return nil, authDomain.ErrAuthenticationRequired
	}
	return principal, nil
}

// ResolvePrincipal verifies an access token and loads the principal it names.
func (a *authUseCase) ResolvePrincipal(ctx context.Context, accessToken string) (*userDomain.User, error) {
	claims, err := a.tokenCodec.VerifyKind(accessToken, authDomain.TokenKindAccess)
	if err != nil {
		return nil, err
	}

	user, err := a.principals.FindByUsername(ctx, claims.Subject)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, authDomain.ErrAccountInactive
	}
	return user, nil
}

// credentialFailure reports an internal failure of login or refresh as
// ErrInvalidCredentials. The cause stays in the chain for server-side logging.
func credentialFailure(err error) error {
	return errors.Join(authDomain.ErrInvalidCredentials, err)
}

func (a *authUseCase) getDummyHash() string {
	a.dummyOnce.Do(func() {
		hash, err := a.passwordService.Hash(dummyPassword)
		if err == nil {
			a.dummyHash = hash
		}
	})
	return a.dummyHash
}

// NewAuthUseCase creates a new AuthUseCase with the provided dependencies.
func NewAuthUseCase(
	txManager database.TxManager,
	principals PrincipalStore,
	roles RoleCatalog,
	passwordService authService.PasswordService,
	tokenCodec authService.TokenCodec,
) AuthUseCase {
	return &authUseCase{
		txManager:       txManager,
		principals:      principals,
		roles:           roles,
		passwordService: passwordService,
		tokenCodec:      tokenCodec,
		now:             time.Now,
	}
}
