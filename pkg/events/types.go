// Package events implements the canonical event envelope, a bounded FIFO
// event store, and filtered query over it (OBS-00).
package events

import "time"

// Component identifies which part of the platform produced an event.
type Component string

const (
	ComponentControlPlane Component = "control_plane"
	ComponentVoicePipeline Component = "voice_pipeline"
	ComponentAdapter       Component = "adapter"
	ComponentActionRunner  Component = "action_runner"
)

// Severity is the event's log level.
type Severity string

const (
	SeverityDebug Severity = "debug"
	SeverityInfo  Severity = "info"
	SeverityWarn  Severity = "warn"
	SeverityError Severity = "error"
)

// PII describes whether and how an event carries personally identifiable
// information. The zero value is not a valid PII block; use NoPII().
type PII struct {
	ContainsPII bool     `json:"contains_pii"`
	Fields      []string `json:"fields"`
	Handling    string   `json:"handling"`
}

// NoPII is the default PII block for events that carry none.
func NoPII() PII {
	return PII{ContainsPII: false, Fields: []string{}, Handling: "none"}
}

// WithPII builds a PII block flagging the named fields for audit-only use.
func WithPII(fields ...string) PII {
	return PII{ContainsPII: true, Fields: fields, Handling: "none"}
}

// Event is the flat, append-only record stored and queried by this package.
// The seven envelope fields are mandatory; Fields carries everything else
// (latency_ms, reason, nested livekit/provider/call objects, ...).
type Event struct {
	Ts            time.Time      `json:"ts"`
	SessionID     string         `json:"session_id"`
	Component     Component      `json:"component"`
	EventType     string         `json:"event_type"`
	Severity      Severity       `json:"severity"`
	CorrelationID string         `json:"correlation_id"`
	PII           PII            `json:"pii"`
	Fields        map[string]any `json:"-"`
}
