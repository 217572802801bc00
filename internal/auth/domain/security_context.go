package domain

import (
	"context"
	"slices"

	"github.com/google/uuid"

	userDomain "github.com/allisson/authgate/internal/user/domain"
)

// SecurityContext binds the authenticated principal, if any, to a single request.
// Roles are the principal's roles as resolved at request time, not the roles
// embedded in the token. A SecurityContext is immutable once built.
type SecurityContext struct {
	principal *userDomain.User
	roles     []string
}

// Anonymous returns a SecurityContext with no bound principal.
func Anonymous() *SecurityContext {
	return &SecurityContext{}
}

// NewSecurityContext binds principal and a snapshot of its current roles.
// A nil principal yields an anonymous context.
func NewSecurityContext(principal *userDomain.User) *SecurityContext {
	if principal == nil {
		return Anonymous()
	}
	return &SecurityContext{
		principal: principal,
		roles:     slices.Clone(principal.Roles),
	}
}

// Principal returns the bound principal.
func (s *SecurityContext) Principal() (*userDomain.User, bool) {
	if s == nil || s.principal == nil {
		return nil, false
	}
	return s.principal, true
}

// IsAuthenticated reports whether a principal is bound.
func (s *SecurityContext) IsAuthenticated() bool {
	_, ok := s.Principal()
	return ok
}

// Username returns the bound principal's username, or "" when anonymous.
func (s *SecurityContext) Username() string {
	if p, ok := s.Principal(); ok {
		return p.Username
	}
	return ""
}

// Roles returns a copy of the resolved role names.
func (s *SecurityContext) Roles() []string {
	if s == nil {
		return nil
	}
	return slices.Clone(s.roles)
}

// HasRole reports whether the bound principal currently holds role.
func (s *SecurityContext) HasRole(role string) bool {
	if !s.IsAuthenticated() {
		return false
	}
	return slices.Contains(s.roles, role)
}

// Require checks a Requirement against this context. It returns nil,
// ErrAuthenticationRequired or ErrInsufficientPrivilege.
func (s *SecurityContext) Require(r Requirement) error {
	switch r.Check(s) {
	case DecisionDenyUnauthenticated:
		return ErrAuthenticationRequired
	case DecisionDenyForbidden:
		return ErrInsufficientPrivilege
	default:
		return nil
	}
}

// RequireSelfOrRole allows the principal identified by userID, or any principal
// holding role.
func (s *SecurityContext) RequireSelfOrRole(userID uuid.UUID, role string) error {
	p, ok := s.Principal()
	if !ok {
		return ErrAuthenticationRequired
	}
	if p.ID == userID || s.HasRole(role) {
		return nil
	}
	return ErrInsufficientPrivilege
}

type securityContextKey struct{}

// WithSecurityContext returns a copy of ctx carrying sc.
func WithSecurityContext(ctx context.Context, sc *SecurityContext) context.Context {
	return context.WithValue(ctx, securityContextKey{}, sc)
}

// SecurityContextFrom returns the SecurityContext carried by ctx, or an anonymous
// context when none was bound.
func SecurityContextFrom(ctx context.Context) *SecurityContext {
	if sc, ok := ctx.Value(securityContextKey{}).(*SecurityContext); ok && sc != nil {
		return sc
	}
	return Anonymous()
}
