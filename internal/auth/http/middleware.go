package http

import (
	"context"
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"

	authDomain "github.com/allisson/authgate/internal/auth/domain"
	apperrors "github.com/allisson/authgate/internal/errors"
	"github.com/allisson/authgate/internal/httputil"
	"github.com/allisson/authgate/internal/metrics"
	userDomain "github.com/allisson/authgate/internal/user/domain"
)

const bearerPrefix = "bearer "

// PrincipalResolver turns a verified access token into its principal.
type PrincipalResolver interface {
	ResolvePrincipal(ctx context.Context, accessToken string) (*userDomain.User, error)
}

// AuthenticationMiddleware binds a SecurityContext to every request.
//
// A request without a bearer credential gets an anonymous context. So does a
// credential that fails verification, names a missing or inactive principal, or
// makes resolution panic. Rejecting such requests is left to AccessPolicyMiddleware,
// so this middleware never aborts.
//
// Token failures are logged at debug level. Store faults are logged at error level.
//
// Usage:
//
//	router.Use(AuthenticationMiddleware(authUseCase, securityMetrics, logger))
//	router.Use(AccessPolicyMiddleware(policy, securityMetrics, logger))
func AuthenticationMiddleware(
	resolver PrincipalResolver,
	securityMetrics metrics.SecurityMetrics,
	logger *slog.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		sc, outcome := authenticate(c, resolver, logger)
		securityMetrics.RecordAuthentication(c.Request.Context(), outcome)
		bindSecurityContext(c, sc)
		c.Next()
	}
}

func authenticate(
	c *gin.Context,
	resolver PrincipalResolver,
	logger *slog.Logger,
) (sc *authDomain.SecurityContext, outcome string) {
	token, ok := extractBearerToken(c.GetHeader("Authorization"))
	if !ok {
		return authDomain.Anonymous(), metrics.AuthOutcomeAnonymous
	}

	defer func() {
		if r := recover(); r != nil {
			logger.Error("recovered panic while resolving principal",
				slog.String("path", c.Request.URL.Path),
				slog.Any("panic", r))
			sc, outcome = authDomain.Anonymous(), metrics.AuthOutcomeDegraded
		}
	}()

	principal, err := resolver.ResolvePrincipal(c.Request.Context(), token)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrUnauthorized) || apperrors.Is(err, apperrors.ErrNotFound) {
			logger.Debug("bearer token not accepted",
				slog.String("path", c.Request.URL.Path),
				slog.String("reason", err.Error()))
		} else {
			logger.Error("failed to resolve principal",
				slog.String("path", c.Request.URL.Path),
				slog.Any("error", err))
		}
		return authDomain.Anonymous(), metrics.AuthOutcomeDegraded
	}
	if principal == nil {
		return authDomain.Anonymous(), metrics.AuthOutcomeDegraded
	}

	return authDomain.NewSecurityContext(principal), metrics.AuthOutcomeAuthenticated
}

// extractBearerToken parses "Bearer <token>" with a case-insensitive scheme.
func extractBearerToken(header string) (string, bool) {
	if len(header) < len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(bearerPrefix):])
	if token == "" {
		return "", false
	}
	return token, true
}

// AccessPolicyMiddleware enforces policy against the SecurityContext bound by
// AuthenticationMiddleware. An unauthenticated request to a protected path gets 401
// and a principal lacking the required role gets 403.
func AccessPolicyMiddleware(
	policy *authDomain.AccessPolicy,
	securityMetrics metrics.SecurityMetrics,
	logger *slog.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		method, path := c.Request.Method, c.Request.URL.Path
		requirement := policy.RequirementFor(method, path)
		decision := requirement.Check(GetSecurityContext(c))

		securityMetrics.RecordAccessDecision(c.Request.Context(), requirement.String(), decision.String())

		if err := decision.Err(); err != nil {
			logger.Debug("access denied",
				slog.String("method", method),
				slog.String("path", path),
				slog.String("requirement", requirement.String()),
				slog.String("decision", decision.String()))
			httputil.AbortWithErrorGin(c, err, logger)
			return
		}

		c.Next()
	}
}
