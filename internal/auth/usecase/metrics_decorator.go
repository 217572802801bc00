package usecase

import (
	"context"
	"time"

	authDomain "github.com/allisson/authgate/internal/auth/domain"
	"github.com/allisson/authgate/internal/metrics"
	userDomain "github.com/allisson/authgate/internal/user/domain"
)

const metricsDomain = "auth"

// authUseCaseWithMetrics decorates AuthUseCase with metrics instrumentation.
type authUseCaseWithMetrics struct {
	next    AuthUseCase
	metrics metrics.BusinessMetrics
}

// NewAuthUseCaseWithMetrics wraps an AuthUseCase with metrics recording.
func NewAuthUseCaseWithMetrics(useCase AuthUseCase, m metrics.BusinessMetrics) AuthUseCase {
	return &authUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Register records metrics for sign-up operations.
func (a *authUseCaseWithMetrics) Register(
	ctx context.Context,
	input *authDomain.RegisterInput,
) (*userDomain.User, error) {
	start := time.Now()
	user, err := a.next.Register(ctx, input)
	metrics.Observe(ctx, a.metrics, metricsDomain, "register", start, err)
	return user, err
}

// Login records metrics for login operations.
func (a *authUseCaseWithMetrics) Login(
	ctx context.Context,
	input *authDomain.LoginInput,
) (*authDomain.AuthOutput, error) {
	start := time.Now()
	output, err := a.next.Login(ctx, input)
	metrics.Observe(ctx, a.metrics, metricsDomain, "login", start, err)
	return output, err
}

// Refresh records metrics for token refresh operations.
func (a *authUseCaseWithMetrics) Refresh(ctx context.Context, refreshToken string) (*authDomain.AuthOutput, error) {
	start := time.Now()
	output, err := a.next.Refresh(ctx, refreshToken)
	metrics.Observe(ctx, a.metrics, metricsDomain, "refresh", start, err)
	return output, err
}

// CurrentPrincipal only reads the request context and is not instrumented.
func (a *authUseCaseWithMetrics) CurrentPrincipal(ctx context.Context) (*userDomain.User, error) {
	return a.next.CurrentPrincipal(ctx)
}

// ResolvePrincipal records metrics for per-request principal resolution.
func (a *authUseCaseWithMetrics) ResolvePrincipal(
	ctx context.Context,
	accessToken string,
) (*userDomain.User, error) {
	start := time.Now()
	user, err := a.next.ResolvePrincipal(ctx, accessToken)
	metrics.Observe(ctx, a.metrics, metricsDomain, "resolve_principal", start, err)
	return user, err
}
