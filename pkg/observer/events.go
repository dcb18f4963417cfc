package observer

import "github.com/voxbridge/callcontrol/pkg/events"

// EventEmitter is the narrow slice of events.Emitter the Observer needs,
// kept as an interface so tests can substitute a recording fake.
type EventEmitter interface {
	Emit(eventType, sessionID string, severity events.Severity, correlationID string, pii *events.PII, fields map[string]any) events.Event
}
