package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	authDomain "github.com/allisson/authgate/internal/auth/domain"
	"github.com/allisson/authgate/internal/auth/http/mocks"
	"github.com/allisson/authgate/internal/httputil"
	"github.com/allisson/authgate/internal/metrics"
	userDomain "github.com/allisson/authgate/internal/user/domain"
)

// recordingSecurityMetrics captures recorded labels.
type recordingSecurityMetrics struct {
	outcomes  []string
	decisions []string
}

func (r *recordingSecurityMetrics) RecordAuthentication(_ context.Context, outcome string) {
	r.outcomes = append(r.outcomes, outcome)
}

func (r *recordingSecurityMetrics) RecordAccessDecision(_ context.Context, requirement, decision string) {
	r.decisions = append(r.decisions, requirement+":"+decision)
}

type panickingResolver struct{}

func (panickingResolver) ResolvePrincipal(context.Context, string) (*userDomain.User, error) {
	panic("boom")
}

// setupSecuredRouter wires both middlewares in front of echo handlers that report
// the bound principal.
func setupSecuredRouter(resolver PrincipalResolver, sm metrics.SecurityMetrics) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := createTestLogger()

	router := gin.New()
	router.Use(AuthenticationMiddleware(resolver, sm, logger))
	router.Use(AccessPolicyMiddleware(authDomain.NewDefaultAccessPolicy(), sm, logger))

	echo := func(c *gin.Context) {
		principal, ok := GetPrincipal(c)
		if !ok {
			c.String(http.StatusOK, "anonymous")
			return
		}
		c.String(http.StatusOK, principal.Username)
	}
	router.GET("/api/auth/health", echo)
	router.GET("/api/users/me", echo)
	router.GET("/api/admin/users", echo)

	return router
}

func performRequest(router http.Handler, path, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthenticationMiddleware(t *testing.T) {
	t.Run("Success_NoHeaderIsAnonymous", func(t *testing.T) {
		resolver := &mocks.MockAuthUseCase{}
		sm := &recordingSecurityMetrics{}
		router := setupSecuredRouter(resolver, sm)

		w := performRequest(router, "/api/auth/health", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "anonymous", w.Body.String())
		assert.Equal(t, []string{metrics.AuthOutcomeAnonymous}, sm.outcomes)
		resolver.AssertNotCalled(t, "ResolvePrincipal")
	})

	t.Run("Success_CaseInsensitiveScheme", func(t *testing.T) {
		for _, header := range []string{"Bearer tok", "bearer tok", "BEARER   tok"} {
			resolver := &mocks.MockAuthUseCase{}
			resolver.On("ResolvePrincipal", mock.Anything, "tok").
				Return(newTestPrincipal(userDomain.RolePatient), nil).Once()
			router := setupSecuredRouter(resolver, metrics.NewNoOpSecurityMetrics())

			w := performRequest(router, "/api/users/me", header)

			assert.Equal(t, http.StatusOK, w.Code, header)
			assert.Equal(t, "alice", w.Body.String(), header)
			resolver.AssertExpectations(t)
		}
	})

	t.Run("Success_NonBearerSchemeIsIgnored", func(t *testing.T) {
		resolver := &mocks.MockAuthUseCase{}
		router := setupSecuredRouter(resolver, metrics.NewNoOpSecurityMetrics())

		w := performRequest(router, "/api/auth/health", "Basic YWxpY2U6c2VjcmV0")

		assert.Equal(t, "anonymous", w.Body.String())
		resolver.AssertNotCalled(t, "ResolvePrincipal")
	})

	t.Run("Success_InvalidTokenDegradesOnPublicPath", func(t *testing.T) {
		for _, cause := range []error{
			authDomain.ErrTokenExpired,
			authDomain.ErrTokenSignature,
			authDomain.ErrTokenKindMismatch,
			authDomain.ErrAccountInactive,
			userDomain.ErrUserNotFound,
			errors.New("database is down"),
		} {
			resolver := &mocks.MockAuthUseCase{}
			resolver.On("ResolvePrincipal", mock.Anything, "tok").Return(nil, cause).Once()
			sm := &recordingSecurityMetrics{}
			router := setupSecuredRouter(resolver, sm)

			w := performRequest(router, "/api/auth/health", "Bearer tok")

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, "anonymous", w.Body.String())
			assert.Equal(t, []string{metrics.AuthOutcomeDegraded}, sm.outcomes)
		}
	})

	t.Run("Success_PanicDegradesToAnonymous", func(t *testing.T) {
		sm := &recordingSecurityMetrics{}
		router := setupSecuredRouter(panickingResolver{}, sm)

		w := performRequest(router, "/api/auth/health", "Bearer tok")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "anonymous", w.Body.String())
		assert.Equal(t, []string{metrics.AuthOutcomeDegraded}, sm.outcomes)
	})

	t.Run("Error_InvalidTokenOnProtectedPath", func(t *testing.T) {
		resolver := &mocks.MockAuthUseCase{}
		resolver.On("ResolvePrincipal", mock.Anything, "expired").
			Return(nil, authDomain.ErrTokenExpired).Once()
		router := setupSecuredRouter(resolver, metrics.NewNoOpSecurityMetrics())

		w := performRequest(router, "/api/users/me", "Bearer expired")

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		resp := decodeErrorResponse(t, w)
		assert.Equal(t, httputil.MessageUnauthenticated, resp.Message)
		assert.Equal(t, "/api/users/me", resp.Path)
	})
}

func TestAccessPolicyMiddleware(t *testing.T) {
	t.Run("Error_AnonymousOnAdminPath", func(t *testing.T) {
		sm := &recordingSecurityMetrics{}
		router := setupSecuredRouter(&mocks.MockAuthUseCase{}, sm)

		w := performRequest(router, "/api/admin/users", "")

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, []string{"requires_role:deny_unauthenticated"}, sm.decisions)
	})

	t.Run("Error_PatientOnAdminPath", func(t *testing.T) {
		resolver := &mocks.MockAuthUseCase{}
		resolver.On("ResolvePrincipal", mock.Anything, "tok").
			Return(newTestPrincipal(userDomain.RolePatient), nil).Once()
		router := setupSecuredRouter(resolver, metrics.NewNoOpSecurityMetrics())

		w := performRequest(router, "/api/admin/users", "Bearer tok")

		assert.Equal(t, http.StatusForbidden, w.Code)
		resp := decodeErrorResponse(t, w)
		assert.Equal(t, http.StatusForbidden, resp.Status)
		assert.Equal(t, httputil.MessageForbidden, resp.Message)
	})

	t.Run("Success_AdminOnAdminPath", func(t *testing.T) {
		resolver := &mocks.MockAuthUseCase{}
		resolver.On("ResolvePrincipal", mock.Anything, "tok").
			Return(newTestPrincipal(userDomain.RoleAdmin), nil).Once()
		sm := &recordingSecurityMetrics{}
		router := setupSecuredRouter(resolver, sm)

		w := performRequest(router, "/api/admin/users", "Bearer tok")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, []string{"requires_role:allow"}, sm.decisions)
	})

	t.Run("Success_PublicPathNeedsNoPrincipal", func(t *testing.T) {
		router := setupSecuredRouter(&mocks.MockAuthUseCase{}, metrics.NewNoOpSecurityMetrics())

		w := performRequest(router, "/api/auth/health", "")

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		header string
		token  string
		ok     bool
	}{
		{"Bearer abc", "abc", true},
		{"bEaReR abc", "abc", true},
		{"Bearer ", "", false},
		{"Bearer", "", false},
		{"Token abc", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		token, ok := extractBearerToken(tt.header)
		assert.Equal(t, tt.ok, ok, tt.header)
		assert.Equal(t, tt.token, token, tt.header)
	}
}
