package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds the control plane's domain instruments: call volume,
// active-session concurrency, barge-in frequency, and provider error
// rates by category (SPEC_FULL.md DOMAIN STACK).
type Metrics struct {
	callsStarted    metric.Int64Counter
	callsEnded      metric.Int64Counter
	activeSessions  metric.Int64UpDownCounter
	bargeIns        metric.Int64Counter
	providerErrors  metric.Int64Counter
}

// NewMetrics creates every instrument against meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	callsStarted, err := meter.Int64Counter("callcontrol.calls.started",
		metric.WithDescription("calls that entered the session registry"))
	if err != nil {
		return nil, newSetupError("new_metrics", err)
	}
	callsEnded, err := meter.Int64Counter("callcontrol.calls.ended",
		metric.WithDescription("calls that reached a terminal state, by reason"))
	if err != nil {
		return nil, newSetupError("new_metrics", err)
	}
	activeSessions, err := meter.Int64UpDownCounter("callcontrol.sessions.active",
		metric.WithDescription("sessions currently not in a terminal state"))
	if err != nil {
		return nil, newSetupError("new_metrics", err)
	}
	bargeIns, err := meter.Int64Counter("callcontrol.voice.barge_ins",
		metric.WithDescription("user speech detected while the agent was speaking"))
	if err != nil {
		return nil, newSetupError("new_metrics", err)
	}
	providerErrors, err := meter.Int64Counter("callcontrol.provider.errors",
		metric.WithDescription("classified provider errors, by category"))
	if err != nil {
		return nil, newSetupError("new_metrics", err)
	}

	return &Metrics{
		callsStarted:   callsStarted,
		callsEnded:     callsEnded,
		activeSessions: activeSessions,
		bargeIns:       bargeIns,
		providerErrors: providerErrors,
	}, nil
}

func (m *Metrics) CallStarted(ctx context.Context, direction string) {
	m.callsStarted.Add(ctx, 1, metric.WithAttributes(attribute.String("direction", direction)))
	m.activeSessions.Add(ctx, 1)
}

func (m *Metrics) CallEnded(ctx context.Context, reason string) {
	m.callsEnded.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
	m.activeSessions.Add(ctx, -1)
}

func (m *Metrics) BargeIn(ctx context.Context) {
	m.bargeIns.Add(ctx, 1)
}

func (m *Metrics) ProviderError(ctx context.Context, category string) {
	m.providerErrors.Add(ctx, 1, metric.WithAttributes(attribute.String("category", category)))
}
