// Package session implements the session registry (C3): the monotonic
// call-lifecycle state machine and its in-memory index.
package session

import "time"

// State is one point in the session lifecycle DAG (SPEC_FULL.md §4.1).
type State string

const (
	StateCreated        State = "created"
	StateDialing        State = "dialing"
	StateRinging        State = "ringing"
	StateInboundRinging State = "inbound_ringing"
	StateConnected      State = "connected"
	StateEnding         State = "ending"
	StateEnded          State = "ended"
)

// Direction is which side originated the call.
type Direction string

const (
	DirectionInbound  Direction = "inbound"
	DirectionOutbound Direction = "outbound"
)

// forward holds the legal next states for each state, encoding the DAG:
// inbound enters at inbound_ringing; outbound enters at created -> dialing
// -> ringing; both converge at connected; termination goes * -> ending ->
// ended.
var forward = map[State][]State{
	StateCreated:        {StateDialing, StateConnected, StateEnding},
	StateDialing:        {StateRinging, StateConnected, StateEnding},
	StateRinging:        {StateConnected, StateEnding},
	StateInboundRinging: {StateConnected, StateEnding},
	StateConnected:      {StateEnding},
	StateEnding:         {StateEnded},
	StateEnded:          {},
}

// CanTransition reports whether from -> to is a legal, forward-only move.
func CanTransition(from, to State) bool {
	for _, s := range forward[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Session represents one call (SPEC_FULL.md §3).
type Session struct {
	SessionID     string
	Direction     Direction
	State         State
	CreatedAt     time.Time
	EndedAt       *time.Time
	EndReason     string
	Room          string
	Participant   string
	CallerNumber  string
	CalleeNumber  string
	Config        map[string]any
}

// IsTerminal reports whether the session has reached its final state.
func (s *Session) IsTerminal() bool {
	return s.State == StateEnded
}

// Summary is the reduced projection returned by List.
type Summary struct {
	SessionID string
	Direction Direction
	State     State
	Room      string
	CreatedAt time.Time
}

func (s *Session) Summary() Summary {
	return Summary{SessionID: s.SessionID, Direction: s.Direction, State: s.State, Room: s.Room, CreatedAt: s.CreatedAt}
}
