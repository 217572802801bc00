package domain

import (
	"strings"

	userDomain "github.com/allisson/authgate/internal/user/domain"
)

// RequirementKind tags the variants of Requirement.
type RequirementKind int

const (
	// RequirementPublic admits anonymous requests.
	RequirementPublic RequirementKind = iota
	// RequirementAuthenticated admits any bound principal.
	RequirementAuthenticated
	// RequirementRole admits principals holding a specific role.
	RequirementRole
)

// Requirement is one of Public, AuthenticatedOnly or RequiresRole(name).
type Requirement struct {
	kind RequirementKind
	role string
}

// Public returns a requirement satisfied by every request.
func Public() Requirement {
	return Requirement{kind: RequirementPublic}
}

// AuthenticatedOnly returns a requirement satisfied by any authenticated principal.
func AuthenticatedOnly() Requirement {
	return Requirement{kind: RequirementAuthenticated}
}

// RequiresRole returns a requirement satisfied by principals currently holding role.
func RequiresRole(role string) Requirement {
	return Requirement{kind: RequirementRole, role: role}
}

// Kind returns the variant tag.
func (r Requirement) Kind() RequirementKind {
	return r.kind
}

// Role returns the required role name for RequiresRole, or "".
func (r Requirement) Role() string {
	return r.role
}

// String renders the requirement for logs and metrics labels.
func (r Requirement) String() string {
	switch r.kind {
	case RequirementPublic:
		return "public"
	case RequirementAuthenticated:
		return "authenticated"
	default:
		return "requires_role"
	}
}

// Check evaluates the requirement against sc.
func (r Requirement) Check(sc *SecurityContext) Decision {
	switch r.kind {
	case RequirementPublic:
		return DecisionAllow
	case RequirementAuthenticated:
		if !sc.IsAuthenticated() {
			return DecisionDenyUnauthenticated
		}
		return DecisionAllow
	default:
		if !sc.IsAuthenticated() {
			return DecisionDenyUnauthenticated
		}
		if !sc.HasRole(r.role) {
			return DecisionDenyForbidden
		}
		return DecisionAllow
	}
}

// Decision is the outcome of an access policy evaluation.
type Decision int

const (
	// DecisionAllow lets the request through.
	DecisionAllow Decision = iota
	// DecisionDenyUnauthenticated rejects a request that needs a principal and has none.
	DecisionDenyUnauthenticated
	// DecisionDenyForbidden rejects a principal lacking the required role.
	DecisionDenyForbidden
)

// String renders the decision for logs and metrics labels.
func (d Decision) String() string {
	switch d {
	case DecisionAllow:
		return "allow"
	case DecisionDenyUnauthenticated:
		return "deny_unauthenticated"
	default:
		return "deny_forbidden"
	}
}

// Err converts a deny decision to its error, or nil for DecisionAllow.
func (d Decision) Err() error {
	switch d {
	case DecisionDenyUnauthenticated:
		return ErrAuthenticationRequired
	case DecisionDenyForbidden:
		return ErrInsufficientPrivilege
	default:
		return nil
	}
}

// Rule maps a method and path pattern to a requirement. An empty Method matches
// every method. Pattern supports three wildcard forms:
//  1. "*" matches any path
//  2. "/prefix/*" matches "/prefix" and anything below it
//  3. "/api/users/*/roles" matches exactly one segment in place of each "*"
type Rule struct {
	Method      string
	Pattern     string
	Requirement Requirement
}

// Matches reports whether the rule applies to method and path.
func (r Rule) Matches(method, path string) bool {
	if r.Method != "" && !strings.EqualFold(r.Method, method) {
		return false
	}
	return matchPath(r.Pattern, path)
}

// AccessPolicy is an ordered, immutable rule list evaluated first-match-wins.
// Requests matching no rule fall back to AuthenticatedOnly.
type AccessPolicy struct {
	rules []Rule
}

// NewAccessPolicy builds a policy from rules, in order.
func NewAccessPolicy(rules ...Rule) *AccessPolicy {
	return &AccessPolicy{rules: append([]Rule(nil), rules...)}
}

// NewDefaultAccessPolicy builds the policy from DefaultRules.
func NewDefaultAccessPolicy() *AccessPolicy {
	return NewAccessPolicy(DefaultRules()...)
}

// Rules returns a copy of the rule list.
func (p *AccessPolicy) Rules() []Rule {
	return append([]Rule(nil), p.rules...)
}

// RequirementFor returns the requirement of the first matching rule, or
// AuthenticatedOnly when nothing matches.
func (p *AccessPolicy) RequirementFor(method, path string) Requirement {
	for _, rule := range p.rules {
		if rule.Matches(method, path) {
			return rule.Requirement
		}
	}
	return AuthenticatedOnly()
}

// Evaluate decides whether sc may access method and path.
func (p *AccessPolicy) Evaluate(method, path string, sc *SecurityContext) Decision {
	return p.RequirementFor(method, path).Check(sc)
}

// DefaultRules is the route table of the service.
func DefaultRules() []Rule {
	return []Rule{
		{Pattern: "/api/auth/*", Requirement: Public()},
		{Pattern: "/api/public/*", Requirement: Public()},
		{Pattern: "/health", Requirement: Public()},
		{Pattern: "/ready", Requirement: Public()},
		{Pattern: "/api/health", Requirement: Public()},
		{Pattern: "/api/admin/*", Requirement: RequiresRole(userDomain.RoleAdmin)},
		{Pattern: "/api/users/*", Requirement: AuthenticatedOnly()},
	}
}

// matchPath checks if the request path matches the rule pattern.
//
// Examples:
//   - "*" matches any path
//   - "/api/admin/*" matches "/api/admin", "/api/admin/users" and "/api/admin/users/1/roles"
//   - "/api/users/*/roles" matches "/api/users/42/roles" but NOT "/api/users/roles"
func matchPath(pattern, requestPath string) bool {
	if pattern == "*" {
		return true
	}

	if !strings.Contains(pattern, "*") {
		return pattern == requestPath
	}

	if strings.HasSuffix(pattern, "/*") {
		prefix := strings.TrimSuffix(pattern, "/*")
		if !strings.Contains(prefix, "*") {
			return requestPath == prefix || strings.HasPrefix(requestPath, prefix+"/")
		}
	}

	patternParts := strings.Split(pattern, "/")
	requestParts := strings.Split(requestPath, "/")

	if len(patternParts) != len(requestParts) {
		return false
	}

	for i := range patternParts {
		if patternParts[i] == "*" {
			continue
		}
		if patternParts[i] != requestParts[i] {
			return false
		}
	}

	return true
}
