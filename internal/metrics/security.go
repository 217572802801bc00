package metrics

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Authentication outcomes recorded by the request authenticator.
const (
	AuthOutcomeAnonymous     = "anonymous"
	AuthOutcomeAuthenticated = "authenticated"
	AuthOutcomeDegraded      = "degraded"
)

// SecurityMetrics records per-request authentication outcomes and access decisions.
type SecurityMetrics interface {
	// RecordAuthentication counts how a request's credential was resolved.
	RecordAuthentication(ctx context.Context, outcome string)

	// RecordAccessDecision counts access policy decisions by requirement kind.
	RecordAccessDecision(ctx context.Context, requirement, decision string)
}

type securityMetrics struct {
	authCounter     metric.Int64Counter
	decisionCounter metric.Int64Counter
}

// NewSecurityMetrics creates a SecurityMetrics implementation using the provided meter provider.
func NewSecurityMetrics(meterProvider metric.MeterProvider, namespace string) (SecurityMetrics, error) {
	meter := meterProvider.Meter(namespace)

	authCounter, err := meter.Int64Counter(
		fmt.Sprintf("%s_request_authentications_total", namespace),
		metric.WithDescription("Total number of request authentication outcomes"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create authentication counter: %w", err)
	}

	decisionCounter, err := meter.Int64Counter(
		fmt.Sprintf("%s_access_decisions_total", namespace),
		metric.WithDescription("Total number of access policy decisions"),
		metric.WithUnit("{decision}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create access decision counter: %w", err)
	}

	return &securityMetrics{authCounter: authCounter, decisionCounter: decisionCounter}, nil
}

func (s *securityMetrics) RecordAuthentication(ctx context.Context, outcome string) {
	s.authCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

func (s *securityMetrics) RecordAccessDecision(ctx context.Context, requirement, decision string) {
	s.decisionCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("requirement", requirement),
		attribute.String("decision", decision),
	))
}

// NoOpSecurityMetrics discards all security metrics.
type NoOpSecurityMetrics struct{}

// NewNoOpSecurityMetrics creates a no-op SecurityMetrics implementation.
func NewNoOpSecurityMetrics() SecurityMetrics {
	return &NoOpSecurityMetrics{}
}

// RecordAuthentication does nothing.
func (n *NoOpSecurityMetrics) RecordAuthentication(ctx context.Context, outcome string) {}

// RecordAccessDecision does nothing.
func (n *NoOpSecurityMetrics) RecordAccessDecision(ctx context.Context, requirement, decision string) {}
