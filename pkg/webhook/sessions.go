package webhook

import "github.com/voxbridge/callcontrol/pkg/session"

// SessionRegistry is the slice of session.Registry the webhook handler
// needs, kept narrow so tests can fake it.
type SessionRegistry interface {
	GetByRoom(room string) (*session.Session, bool)
	Create(direction session.Direction, caller, callee string, config map[string]any) (*session.Session, error)
	AssignRoom(sessionID, room string) error
	SetParticipant(sessionID, participant string) error
	SetCallerNumber(sessionID, number string) error
	Transition(sessionID string, newState session.State) error
	End(sessionID, reason string) error
}
