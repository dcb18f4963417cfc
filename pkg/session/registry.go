package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Now is overridable in tests.
var Now = func() time.Time { return time.Now().UTC() }

// Registry holds every session, indexed by id and by room, guarded by one
// mutex (SPEC_FULL.md §4.1 — "the registry is shared mutable state;
// mutations must be serialized").
type Registry struct {
	mu        sync.RWMutex
	byID      map[string]*Session
	byRoom    map[string]string // room -> session_id
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byID:   make(map[string]*Session),
		byRoom: make(map[string]string),
	}
}

// Create allocates a fresh session_id and sets the initial state per
// direction: inbound enters at inbound_ringing, outbound at created.
func (r *Registry) Create(direction Direction, caller, callee string, config map[string]any) (*Session, error) {
	if direction != DirectionInbound && direction != DirectionOutbound {
		return nil, NewInvalidArgumentError("create", "direction must be inbound or outbound")
	}
	initial := StateCreated
	if direction == DirectionInbound {
		initial = StateInboundRinging
	}
	if config == nil {
		config = make(map[string]any)
	}
	s := &Session{
		SessionID:    uuid.NewString(),
		Direction:    direction,
		State:        initial,
		CreatedAt:    Now(),
		CallerNumber: caller,
		CalleeNumber: callee,
		Config:       config,
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[s.SessionID] = s
	return s, nil
}

// Get looks up a session by id.
func (r *Registry) Get(sessionID string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.byID[sessionID]
	return s, ok
}

// GetByRoom looks up a session by its assigned room name.
func (r *Registry) GetByRoom(room string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byRoom[room]
	if !ok {
		return nil, false
	}
	s, ok := r.byID[id]
	return s, ok
}

// AssignRoom sets the session<->room binding. Once assigned it is 1:1
// (SPEC_FULL.md §3 invariant i); re-assigning the same room to the same
// session is a no-op, assigning a different room is rejected.
func (r *Registry) AssignRoom(sessionID, room string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.byID[sessionID]
	if !ok {
		return NewNotFoundError("assign_room", sessionID)
	}
	if s.Room != "" && s.Room != room {
		return &SessionError{Op: "assign_room", Code: ErrCodeInvalidArgument, Message: "session already bound to a different room"}
	}
	s.Room = room
	r.byRoom[room] = sessionID
	return nil
}

// SetParticipant records the caller participant id, once per session
// (invariant iv).
func (r *Registry) SetParticipant(sessionID, participant string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.byID[sessionID]
	if !ok {
		return NewNotFoundError("set_participant", sessionID)
	}
	if s.Participant == "" {
		s.Participant = participant
	}
	return nil
}

// SetCallerNumber records the caller's phone number, once per session, if
// it was not already supplied at session creation.
func (r *Registry) SetCallerNumber(sessionID, number string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.byID[sessionID]
	if !ok {
		return NewNotFoundError("set_caller_number", sessionID)
	}
	if s.CallerNumber == "" {
		s.CallerNumber = number
	}
	return nil
}

// ListFilter restricts List to matching sessions; empty fields match all.
type ListFilter struct {
	State     State
	Direction Direction
}

// List returns session summaries filtered by AND-combined state/direction.
func (r *Registry) List(filter ListFilter) []Summary {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Summary, 0, len(r.byID))
	for _, s := range r.byID {
		if filter.State != "" && s.State != filter.State {
			continue
		}
		if filter.Direction != "" && s.Direction != filter.Direction {
			continue
		}
		out = append(out, s.Summary())
	}
	return out
}

// Transition moves a session forward in the state DAG. A non-monotonic
// request is a programming error, returned as SessionError so tests can
// assert on it (SPEC_FULL.md §4.1).
func (r *Registry) Transition(sessionID string, newState State) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.byID[sessionID]
	if !ok {
		return NewNotFoundError("transition", sessionID)
	}
	if !CanTransition(s.State, newState) {
		return NewInvalidTransitionError("transition", s.State, newState)
	}
	s.State = newState
	if newState == StateEnded {
		now := Now()
		s.EndedAt = &now
	}
	return nil
}

// End is an idempotent transition to ending -> ended with a reason; a
// no-op if the session is already ended.
func (r *Registry) End(sessionID, reason string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.byID[sessionID]
	if !ok {
		return NewNotFoundError("end", sessionID)
	}
	if s.State == StateEnded {
		return nil
	}
	if CanTransition(s.State, StateEnding) {
		s.State = StateEnding
	}
	s.State = StateEnded
	now := Now()
	s.EndedAt = &now
	s.EndReason = reason
	return nil
}
