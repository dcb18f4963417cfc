package events

import (
	"strings"
	"time"
)

// Now is overridable in tests so emitted timestamps are deterministic.
var Now = func() time.Time { return time.Now().UTC() }

// Emitter builds and emits canonical event records for one component,
// feeding both a rendering sink and the query store (SPEC_FULL.md §4.2).
type Emitter struct {
	component Component
	sink      Sink
	store     *Store
}

// NewEmitter binds an emitter to its component, sink, and store.
func NewEmitter(component Component, sink Sink, store *Store) *Emitter {
	return &Emitter{component: component, sink: sink, store: store}
}

// Emit is the one primitive every other helper routes through: it stamps
// ts, defaults correlation_id/pii, renders to the sink, and feeds the
// store.
func (em *Emitter) Emit(eventType, sessionID string, severity Severity, correlationID string, pii *PII, fields map[string]any) Event {
	if correlationID == "" {
		correlationID = sessionID
	}
	p := NoPII()
	if pii != nil {
		p = *pii
	}
	e := Event{
		Ts:            Now(),
		SessionID:     sessionID,
		Component:     em.component,
		EventType:     eventType,
		Severity:      severity,
		CorrelationID: correlationID,
		PII:           p,
		Fields:        fields,
	}
	if em.sink != nil {
		em.sink.Write(e)
	}
	if em.store != nil {
		em.store.Append(e)
	}
	return e
}

// EmitInfo is shorthand for the overwhelmingly common case.
func (em *Emitter) EmitInfo(eventType, sessionID string, fields map[string]any) Event {
	return em.Emit(eventType, sessionID, SeverityInfo, "", nil, fields)
}

// --- Sugar constructors (control_plane/events.py taxonomy) ---

// CallStarted emits call.started.
func (em *Emitter) CallStarted(sessionID, direction string, room, participant string) Event {
	livekit := map[string]any{}
	if room != "" {
		livekit["room"] = room
	}
	if participant != "" {
		livekit["participant"] = participant
	}
	fields := map[string]any{"call": map[string]any{"direction": direction}}
	if len(livekit) > 0 {
		fields["livekit"] = livekit
	}
	return em.EmitInfo("call.started", sessionID, fields)
}

// CallAnswered emits call.answered.
func (em *Emitter) CallAnswered(sessionID, room, participant string) Event {
	return em.EmitInfo("call.answered", sessionID, livekitFields(room, participant))
}

// CallEnded emits call.ended{reason}.
func (em *Emitter) CallEnded(sessionID, reason, room, participant string) Event {
	fields := livekitFields(room, participant)
	fields["reason"] = reason
	return em.EmitInfo("call.ended", sessionID, fields)
}

// SessionStateChanged emits session.state_changed{from,to}.
func (em *Emitter) SessionStateChanged(sessionID, from, to string) Event {
	return em.EmitInfo("session.state_changed", sessionID, map[string]any{
		"from": from,
		"to":   to,
	})
}

// LiveKitRoomCreated emits livekit.room.created.
func (em *Emitter) LiveKitRoomCreated(sessionID, room string) Event {
	return em.EmitInfo("livekit.room.created", sessionID, map[string]any{
		"livekit": map[string]any{"room": room},
	})
}

// LiveKitParticipantJoined emits livekit.participant.joined.
func (em *Emitter) LiveKitParticipantJoined(sessionID, room, participant string) Event {
	return em.EmitInfo("livekit.participant.joined", sessionID, map[string]any{
		"livekit": map[string]any{"room": room, "participant": participant},
	})
}

// LiveKitParticipantLeft emits livekit.participant.left.
func (em *Emitter) LiveKitParticipantLeft(sessionID, room, participant string) Event {
	return em.EmitInfo("livekit.participant.left", sessionID, map[string]any{
		"livekit": map[string]any{"room": room, "participant": participant},
	})
}

// LiveKitTrackPublished emits livekit.track.published.
func (em *Emitter) LiveKitTrackPublished(sessionID, room, participant, track string) Event {
	return em.EmitInfo("livekit.track.published", sessionID, map[string]any{
		"livekit": map[string]any{"room": room, "participant": participant, "track": track},
	})
}

// ProviderEvent emits provider.event{category,...}, escalating to warn
// when the category names an error or a limit (SPEC_FULL.md §4.6).
func (em *Emitter) ProviderEvent(sessionID, category, direction, providerName, detail string) Event {
	severity := SeverityInfo
	if containsAny(category, "error", "limited") {
		severity = SeverityWarn
	}
	fields := map[string]any{"category": category}
	if direction != "" {
		fields["direction"] = direction
	}
	if providerName != "" {
		fields["provider"] = map[string]any{"name": providerName}
	}
	if detail != "" {
		fields["detail"] = detail
	}
	return em.Emit("provider.event", sessionID, severity, "", nil, fields)
}

func livekitFields(room, participant string) map[string]any {
	livekit := map[string]any{}
	if room != "" {
		livekit["room"] = room
	}
	if participant != "" {
		livekit["participant"] = participant
	}
	if len(livekit) == 0 {
		return map[string]any{}
	}
	return map[string]any{"livekit": livekit}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
