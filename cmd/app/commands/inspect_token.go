package commands

import (
	"fmt"
	"io"
	"strings"
	"time"

	authService "github.com/allisson/authgate/internal/auth/service"
)

// tokenReport is the json form of an inspected token.
type tokenReport struct {
	Subject          string   `json:"subject"`
	Kind             string   `json:"kind"`
	Issuer           string   `json:"issuer"`
	Roles            []string `json:"roles"`
	IssuedAt         string   `json:"issued_at"`
	ExpiresAt        string   `json:"expires_at"`
	RemainingSeconds int64    `json:"remaining_seconds"`
}

// RunInspectToken verifies a token with the configured signing secret and prints its
// claims. Expired, tampered and malformed tokens are reported as errors.
func RunInspectToken(
	codec authService.TokenCodec,
	writer io.Writer,
	token string,
	format string,
	now time.Time,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return fmt.Errorf("token is required")
	}

	claims, err := codec.Verify(token)
	if err != nil {
		return fmt.Errorf("token rejected: %w", err)
	}

	roles := claims.Roles
	if roles == nil {
		roles = []string{}
	}
	remaining := claims.RemainingTime(now)

	if format == "json" {
		return writeJSON(writer, tokenReport{
			Subject:          claims.Subject,
			Kind:             string(claims.Kind),
			Issuer:           claims.Issuer,
			Roles:            roles,
			IssuedAt:         claims.IssuedAt.UTC().Format(time.RFC3339),
			ExpiresAt:        claims.ExpiresAt.UTC().Format(time.RFC3339),
			RemainingSeconds: int64(remaining.Seconds()),
		})
	}

	_, _ = fmt.Fprintf(writer, "Subject:    %s\n", claims.Subject)
	_, _ = fmt.Fprintf(writer, "Kind:       %s\n", claims.Kind)
	_, _ = fmt.Fprintf(writer, "Issuer:     %s\n", claims.Issuer)
	_, _ = fmt.Fprintf(writer, "Roles:      %s\n", strings.Join(roles, ", "))
	_, _ = fmt.Fprintf(writer, "Issued at:  %s\n", claims.IssuedAt.UTC().Format(time.RFC3339))
	_, _ = fmt.Fprintf(writer, "Expires at: %s\n", claims.ExpiresAt.UTC().Format(time.RFC3339))
	_, _ = fmt.Fprintf(writer, "Remaining:  %s\n", remaining.Truncate(time.Second))
	return nil
}
