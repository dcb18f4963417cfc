package telemetry

import (
	"context"

	"github.com/voxbridge/callcontrol/pkg/events"
)

// InstrumentedEmitter wraps an events.Emitter so CallStarted, CallEnded,
// ProviderEvent and Emit calls for barge_in.detected/provider.event also
// update the matching OpenTelemetry instrument, keeping the structured
// event log and the metrics it is sampled from in one place. Embedding
// the emitter means InstrumentedEmitter satisfies every narrow
// EventEmitter interface the webhook/controlapi/observer packages
// declare without restating their method sets here.
type InstrumentedEmitter struct {
	*events.Emitter
	metrics *Metrics
}

// NewInstrumentedEmitter binds emitter and metrics together.
func NewInstrumentedEmitter(emitter *events.Emitter, metrics *Metrics) *InstrumentedEmitter {
	return &InstrumentedEmitter{Emitter: emitter, metrics: metrics}
}

func (e *InstrumentedEmitter) CallStarted(sessionID, direction, room, participant string) events.Event {
	e.metrics.CallStarted(context.Background(), direction)
	return e.Emitter.CallStarted(sessionID, direction, room, participant)
}

func (e *InstrumentedEmitter) CallEnded(sessionID, reason, room, participant string) events.Event {
	e.metrics.CallEnded(context.Background(), reason)
	return e.Emitter.CallEnded(sessionID, reason, room, participant)
}

func (e *InstrumentedEmitter) ProviderEvent(sessionID, category, direction, providerName, detail string) events.Event {
	e.metrics.ProviderError(context.Background(), category)
	return e.Emitter.ProviderEvent(sessionID, category, direction, providerName, detail)
}

func (e *InstrumentedEmitter) Emit(eventType, sessionID string, severity events.Severity, correlationID string, pii *events.PII, fields map[string]any) events.Event {
	switch eventType {
	case "barge_in.detected":
		e.metrics.BargeIn(context.Background())
	case "provider.event":
		if category, ok := fields["category"].(string); ok {
			e.metrics.ProviderError(context.Background(), category)
		}
	}
	return e.Emitter.Emit(eventType, sessionID, severity, correlationID, pii, fields)
}
