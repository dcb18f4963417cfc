package webhook

import "github.com/voxbridge/callcontrol/pkg/events"

// EventEmitter is the slice of events.Emitter's LiveKit/call sugar
// constructors the webhook handler needs.
type EventEmitter interface {
	LiveKitRoomCreated(sessionID, room string) events.Event
	LiveKitParticipantJoined(sessionID, room, participant string) events.Event
	LiveKitParticipantLeft(sessionID, room, participant string) events.Event
	LiveKitTrackPublished(sessionID, room, participant, track string) events.Event
	CallStarted(sessionID, direction, room, participant string) events.Event
	CallAnswered(sessionID, room, participant string) events.Event
	CallEnded(sessionID, reason, room, participant string) events.Event
	SessionStateChanged(sessionID, from, to string) events.Event
}
