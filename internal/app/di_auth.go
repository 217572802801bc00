package app

import (
	"fmt"
	"log/slog"
	"sync"

	authDomain "github.com/allisson/authgate/internal/auth/domain"
	authHTTP "github.com/allisson/authgate/internal/auth/http"
	authService "github.com/allisson/authgate/internal/auth/service"
	authUseCase "github.com/allisson/authgate/internal/auth/usecase"
	apperrors "github.com/allisson/authgate/internal/errors"
)

// authComponents holds the lazily built authentication dependencies.
type authComponents struct {
	passwordService authService.PasswordService
	tokenCodec      authService.TokenCodec
	authUseCase     authUseCase.AuthUseCase
	authHandler     *authHTTP.AuthHandler
	accessPolicy    *authDomain.AccessPolicy

	passwordServiceInit sync.Once
	tokenCodecInit      sync.Once
	authUseCaseInit     sync.Once
	authHandlerInit     sync.Once
	accessPolicyInit    sync.Once
}

// PasswordService returns the Argon2id password hasher.
func (c *Container) PasswordService() authService.PasswordService {
	c.passwordServiceInit.Do(func() {
		c.passwordService = authService.NewPasswordService()
	})
	return c.passwordService
}

// TokenCodec returns the signer and verifier for access and refresh tokens.
func (c *Container) TokenCodec() (authService.TokenCodec, error) {
	var err error
	c.tokenCodecInit.Do(func() {
		c.tokenCodec, err = c.initTokenCodec()
		if err != nil {
			c.setInitError("tokenCodec", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("tokenCodec"); storedErr != nil {
		return nil, storedErr
	}
	return c.tokenCodec, nil
}

// AuthUseCase returns the authentication use case, decorated with metrics when enabled.
func (c *Container) AuthUseCase() (authUseCase.AuthUseCase, error) {
	var err error
	c.authUseCaseInit.Do(func() {
		c.authUseCase, err = c.initAuthUseCase()
		if err != nil {
			c.setInitError("authUseCase", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("authUseCase"); storedErr != nil {
		return nil, storedErr
	}
	return c.authUseCase, nil
}

// AuthHandler returns the HTTP handler for /api/auth.
func (c *Container) AuthHandler() (*authHTTP.AuthHandler, error) {
	var err error
	c.authHandlerInit.Do(func() {
		c.authHandler, err = c.initAuthHandler()
		if err != nil {
			c.setInitError("authHandler", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("authHandler"); storedErr != nil {
		return nil, storedErr
	}
	return c.authHandler, nil
}

// AccessPolicy returns the route rule table.
func (c *Container) AccessPolicy() *authDomain.AccessPolicy {
	c.accessPolicyInit.Do(func() {
		c.accessPolicy = authDomain.NewDefaultAccessPolicy()
	})
	return c.accessPolicy
}

func (c *Container) initTokenCodec() (authService.TokenCodec, error) {
	accessTTL, err := authService.ParseExpiry(c.config.JWTAccessTokenExpiry)
	if err != nil {
		return nil, fmt.Errorf("invalid access token expiry: %w", err)
	}
	refreshTTL, err := authService.ParseExpiry(c.config.JWTRefreshTokenExpiry)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token expiry: %w", err)
	}

	if c.config.UsesDefaultJWTSecret() {
		if !c.config.IsDevelopment() {
			return nil, apperrors.Wrapf(
				apperrors.ErrConfiguration,
				"refusing to sign tokens with the default jwt secret in %q, set JWT_SECRET",
				c.config.AppEnv,
			)
		}
		c.Logger().Warn("using the default jwt secret", slog.String("app_env", c.config.AppEnv))
	}

	codec, err := authService.NewTokenCodec(
		c.config.JWTSecret,
		authService.WithIssuer(c.config.JWTIssuer),
		authService.WithTTLs(accessTTL, refreshTTL),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create token codec: %w", err)
	}

	c.Logger().Debug("token codec configured",
		slog.Duration("access_ttl", accessTTL),
		slog.Duration("refresh_ttl", refreshTTL),
	)
	return codec, nil
}

func (c *Container) initAuthUseCase() (authUseCase.AuthUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for auth use case: %w", err)
	}

	userRepository, err := c.UserRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get user repository for auth use case: %w", err)
	}

	roleRepository, err := c.RoleRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get role repository for auth use case: %w", err)
	}

	tokenCodec, err := c.TokenCodec()
	if err != nil {
		return nil, fmt.Errorf("failed to get token codec for auth use case: %w", err)
	}

	useCase := authUseCase.NewAuthUseCase(
		txManager,
		userRepository,
		roleRepository,
		c.PasswordService(),
		tokenCodec,
	)

	if !c.config.MetricsEnabled {
		return useCase, nil
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for auth use case: %w", err)
	}
	return authUseCase.NewAuthUseCaseWithMetrics(useCase, businessMetrics), nil
}

func (c *Container) initAuthHandler() (*authHTTP.AuthHandler, error) {
	useCase, err := c.AuthUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get auth use case for auth handler: %w", err)
	}
	return authHTTP.NewAuthHandler(useCase, c.Logger()), nil
}
