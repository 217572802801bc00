// Package http provides the authentication endpoints and the middlewares that bind
// a SecurityContext to every request and enforce the access policy.
package http

import (
	"github.com/gin-gonic/gin"

	authDomain "github.com/allisson/authgate/internal/auth/domain"
	userDomain "github.com/allisson/authgate/internal/user/domain"
)

// GetSecurityContext returns the SecurityContext bound to the request, or an
// anonymous one when AuthenticationMiddleware did not run.
func GetSecurityContext(c *gin.Context) *authDomain.SecurityContext {
	return authDomain.SecurityContextFrom(c.Request.Context())
}

// GetPrincipal returns the authenticated principal of the request.
func GetPrincipal(c *gin.Context) (*userDomain.User, bool) {
	return GetSecurityContext(c).Principal()
}

func bindSecurityContext(c *gin.Context, sc *authDomain.SecurityContext) {
	c.Request = c.Request.WithContext(authDomain.WithSecurityContext(c.Request.Context(), sc))
}
