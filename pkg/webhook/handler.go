// Package webhook ingests LiveKit room/participant/track webhook
// deliveries and drives the session registry's state machine from them
// (C4), grounded on
// original_source/control_plane/webhook_handler.py.
package webhook

import (
	"encoding/json"
	"strings"

	"github.com/livekit/protocol/livekit"

	"github.com/voxbridge/callcontrol/pkg/session"
)

type webhookEvent = livekit.WebhookEvent

const (
	eventRoomStarted     = "room_started"
	eventParticipantJoin = "participant_joined"
	eventParticipantLeft = "participant_left"
	eventTrackPublished  = "track_published"
	eventRoomFinished    = "room_finished"
)

// Handler dispatches verified webhook deliveries onto the session
// registry and event stream.
type Handler struct {
	receiver Receiver
	sessions SessionRegistry
	emitter  EventEmitter
}

// NewHandler builds a webhook Handler.
func NewHandler(receiver Receiver, sessions SessionRegistry, emitter EventEmitter) *Handler {
	return &Handler{receiver: receiver, sessions: sessions, emitter: emitter}
}

// Handle verifies body/authHeader and routes the decoded event. An
// unrecognized event type is accepted and ignored, matching the
// original handler's behavior of always replying {"status": "ok"}.
func (h *Handler) Handle(body []byte, authHeader string) error {
	event, err := h.receiver.Receive(body, authHeader)
	if err != nil {
		return NewInvalidSignatureError("handle", err)
	}
	if event == nil {
		return NewInvalidPayloadError("handle", nil)
	}

	switch event.GetEvent() {
	case eventRoomStarted:
		h.handleRoomStarted(event)
	case eventParticipantJoin:
		h.handleParticipantJoined(event)
	case eventParticipantLeft:
		h.handleParticipantLeft(event)
	case eventTrackPublished:
		h.handleTrackPublished(event)
	case eventRoomFinished:
		h.handleRoomFinished(event)
	}
	return nil
}

func (h *Handler) handleRoomStarted(event *webhookEvent) {
	room := event.GetRoom().GetName()
	if room == "" {
		return
	}

	s, ok := h.sessions.GetByRoom(room)
	if !ok {
		created, err := h.sessions.Create(session.DirectionInbound, "", "", nil)
		if err != nil {
			return
		}
		if err := h.sessions.AssignRoom(created.SessionID, room); err != nil {
			return
		}
		h.emitter.LiveKitRoomCreated(created.SessionID, room)
		h.emitter.CallStarted(created.SessionID, string(session.DirectionInbound), room, "")
		return
	}
	h.emitter.LiveKitRoomCreated(s.SessionID, room)
}

func (h *Handler) handleParticipantJoined(event *webhookEvent) {
	room := event.GetRoom().GetName()
	participant := event.GetParticipant()
	sid := participant.GetSid()
	identity := participant.GetIdentity()
	if room == "" || sid == "" {
		return
	}

	s, ok := h.sessions.GetByRoom(room)
	if !ok {
		created, err := h.sessions.Create(session.DirectionInbound, "", "", nil)
		if err != nil {
			return
		}
		if err := h.sessions.AssignRoom(created.SessionID, room); err != nil {
			return
		}
		s = created
		h.emitter.CallStarted(s.SessionID, string(session.DirectionInbound), room, "")
	}

	if isSIPParticipant(identity) && s.Participant == "" {
		_ = h.sessions.SetParticipant(s.SessionID, sid)
		if number := callerNumberFromMetadata(participant.GetMetadata()); number != "" {
			_ = h.sessions.SetCallerNumber(s.SessionID, number)
		}

		if s.State == session.StateInboundRinging {
			if err := h.sessions.Transition(s.SessionID, session.StateConnected); err == nil {
				h.emitter.SessionStateChanged(s.SessionID, string(session.StateInboundRinging), string(session.StateConnected))
				h.emitter.CallAnswered(s.SessionID, room, sid)
			}
		}
	}

	h.emitter.LiveKitParticipantJoined(s.SessionID, room, sid)
}

func (h *Handler) handleParticipantLeft(event *webhookEvent) {
	room := event.GetRoom().GetName()
	sid := event.GetParticipant().GetSid()
	if room == "" || sid == "" {
		return
	}

	s, ok := h.sessions.GetByRoom(room)
	if !ok {
		return
	}

	h.emitter.LiveKitParticipantLeft(s.SessionID, room, sid)

	if s.Participant == sid && s.State != session.StateEnded {
		_ = h.sessions.End(s.SessionID, "participant_left")
		h.emitter.CallEnded(s.SessionID, "participant_left", room, sid)
	}
}

func (h *Handler) handleTrackPublished(event *webhookEvent) {
	room := event.GetRoom().GetName()
	if room == "" {
		return
	}
	s, ok := h.sessions.GetByRoom(room)
	if !ok {
		return
	}
	h.emitter.LiveKitTrackPublished(s.SessionID, room, event.GetParticipant().GetSid(), event.GetTrack().GetSid())
}

func (h *Handler) handleRoomFinished(event *webhookEvent) {
	room := event.GetRoom().GetName()
	if room == "" {
		return
	}
	s, ok := h.sessions.GetByRoom(room)
	if !ok {
		return
	}
	if s.State == session.StateEnded {
		return
	}
	_ = h.sessions.End(s.SessionID, "room_finished")
	h.emitter.CallEnded(s.SessionID, "room_finished", room, "")
}

func isSIPParticipant(identity string) bool {
	lower := strings.ToLower(identity)
	return strings.HasPrefix(identity, "sip:") || strings.Contains(lower, "phone")
}

// callerNumberFromMetadata extracts phone_number from a participant's
// JSON metadata, tolerating absent or malformed metadata.
func callerNumberFromMetadata(metadata string) string {
	if metadata == "" {
		return ""
	}
	var fields map[string]any
	if err := json.Unmarshal([]byte(metadata), &fields); err != nil {
		return ""
	}
	number, _ := fields["phone_number"].(string)
	return number
}
