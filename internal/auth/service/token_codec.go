package service

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"

	authDomain "github.com/allisson/authgate/internal/auth/domain"
	apperrors "github.com/allisson/authgate/internal/errors"
)

// MinSecretLength is the minimum signing key size in bytes for HS512.
const MinSecretLength = 32

const (
	defaultIssuer     = "authgate"
	defaultAccessTTL  = 15 * time.Minute
	defaultRefreshTTL = 7 * 24 * time.Hour
)

// jwtClaims is the wire form of a token.
type jwtClaims struct {
	Type  string   `json:"type"`
	Roles []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

// tokenCodec implements TokenCodec with HS512 JWTs. All fields are set at
// construction and only read afterwards, so one codec serves concurrent requests.
type tokenCodec struct {
	secret     []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
	parser     *jwt.Parser
}

// CodecOption configures a TokenCodec.
type CodecOption func(*tokenCodec) error

// WithIssuer sets the "iss" claim written to and required from tokens.
func WithIssuer(issuer string) CodecOption {
	return func(c *tokenCodec) error {
		issuer = strings.TrimSpace(issuer)
		if issuer == "" {
			return apperrors.Wrap(apperrors.ErrConfiguration, "token issuer is empty")
		}
		c.issuer = issuer
		return nil
	}
}

// WithTTLs sets the access and refresh token lifetimes. The refresh lifetime must
// be longer than the access lifetime.
func WithTTLs(access, refresh time.Duration) CodecOption {
	return func(c *tokenCodec) error {
		if access <= 0 || refresh <= 0 {
			return apperrors.Wrap(apperrors.ErrConfiguration, "token lifetimes must be positive")
		}
		if refresh <= access {
			return apperrors.Wrap(
				apperrors.ErrConfiguration,
				"refresh token lifetime must be longer than access token lifetime",
			)
		}
		c.accessTTL = access
		c.refreshTTL = refresh
		return nil
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) CodecOption {
	return func(c *tokenCodec) error {
		if now == nil {
			return apperrors.Wrap(apperrors.ErrConfiguration, "clock is nil")
		}
		c.now = now
		return nil
	}
}

// NewTokenCodec creates a TokenCodec signing with secret. The secret is copied and
// must be at least MinSecretLength bytes.
func NewTokenCodec(secret string, opts ...CodecOption) (TokenCodec, error) {
	if len(secret) < MinSecretLength {
		return nil, apperrors.Wrapf(
			apperrors.ErrConfiguration,
			"token secret must be at least %d bytes",
			MinSecretLength,
		)
	}

	c := &tokenCodec{
		secret:     []byte(secret),
		issuer:     defaultIssuer,
		accessTTL:  defaultAccessTTL,
		refreshTTL: defaultRefreshTTL,
		now:        time.Now,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}),
			// Expiry is checked against the codec clock after the signature.
			jwt.WithoutClaimsValidation(),
		),
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	return c, nil
}

func (c *tokenCodec) IssueAccess(subject string, roles []string) (*authDomain.IssuedToken, error) {
	return c.issue(subject, authDomain.TokenKindAccess, roles, c.accessTTL)
}

func (c *tokenCodec) IssueRefresh(subject string) (*authDomain.IssuedToken, error) {
	return c.issue(subject, authDomain.TokenKindRefresh, nil, c.refreshTTL)
}

func (c *tokenCodec) issue(
	subject string,
	kind authDomain.TokenKind,
	roles []string,
	ttl time.Duration,
) (*authDomain.IssuedToken, error) {
	if strings.TrimSpace(subject) == "" {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "token subject is required")
	}

	// NumericDate has second precision
	now := c.now().UTC().Truncate(time.Second)
	expiresAt := now.Add(ttl)

	claims := jwtClaims{
		Type:  string(kind),
		Roles: roles,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        ulid.MustNew(ulid.Timestamp(now), ulid.DefaultEntropy()).String(),
			Issuer:    c.issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(c.secret)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to sign token")
	}

	return &authDomain.IssuedToken{
		Value:     signed,
		Kind:      kind,
		ExpiresAt: expiresAt,
	}, nil
}

func (c *tokenCodec) Verify(token string) (*authDomain.Claims, error) {
	var claims jwtClaims
	_, err := c.parser.ParseWithClaims(strings.TrimSpace(token), &claims, func(*jwt.Token) (any, error) {
		return c.secret, nil
	})
	if err != nil {
		// Any parse failure, including a bad encoding or algorithm, is reported as a
		// signature failure so nothing downstream trusts the unverified claims.
		return nil, errors.Join(authDomain.ErrTokenSignature, err)
	}

	if claims.ExpiresAt == nil {
		return nil, apperrors.Wrap(authDomain.ErrTokenMalformed, "missing exp claim")
	}
	if !c.now().Before(claims.ExpiresAt.Time) {
		return nil, authDomain.ErrTokenExpired
	}

	return c.toDomain(&claims)
}

func (c *tokenCodec) VerifyKind(token string, kind authDomain.TokenKind) (*authDomain.Claims, error) {
	claims, err := c.Verify(token)
	if err != nil {
		return nil, err
	}
	if claims.Kind != kind {
		return nil, apperrors.Wrapf(authDomain.ErrTokenKindMismatch, "expected %s token, got %s", kind, claims.Kind)
	}
	return claims, nil
}

func (c *tokenCodec) SubjectOf(token string) (string, error) {
	claims, err := c.Verify(token)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

// toDomain checks the structure of signed, unexpired claims.
func (c *tokenCodec) toDomain(claims *jwtClaims) (*authDomain.Claims, error) {
	kind := authDomain.TokenKind(claims.Type)
	switch {
	case strings.TrimSpace(claims.Subject) == "":
		return nil, apperrors.Wrap(authDomain.ErrTokenMalformed, "missing sub claim")
	case !kind.Valid():
		return nil, apperrors.Wrapf(authDomain.ErrTokenMalformed, "unknown token type %q", claims.Type)
	case claims.IssuedAt == nil:
		return nil, apperrors.Wrap(authDomain.ErrTokenMalformed, "missing iat claim")
	case claims.Issuer != c.issuer:
		return nil, apperrors.Wrapf(authDomain.ErrTokenMalformed, "unexpected issuer %q", claims.Issuer)
	case kind == authDomain.TokenKindRefresh && len(claims.Roles) > 0:
		return nil, apperrors.Wrap(authDomain.ErrTokenMalformed, "refresh token carries roles")
	}

	return &authDomain.Claims{
		ID:        claims.ID,
		Subject:   claims.Subject,
		Issuer:    claims.Issuer,
		Kind:      kind,
		Roles:     claims.Roles,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
