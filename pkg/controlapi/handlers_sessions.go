package controlapi

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/voxbridge/callcontrol/pkg/events"
	"github.com/voxbridge/callcontrol/pkg/session"
)

var validStates = map[session.State]bool{
	session.StateCreated:        true,
	session.StateDialing:        true,
	session.StateRinging:        true,
	session.StateInboundRinging: true,
	session.StateConnected:      true,
	session.StateEnding:         true,
	session.StateEnded:          true,
}

var validDirections = map[session.Direction]bool{
	session.DirectionInbound:  true,
	session.DirectionOutbound: true,
}

// handleListSessions implements GET /control/sessions?state=&direction=.
func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := session.ListFilter{}

	if raw := q.Get("state"); raw != "" {
		st := session.State(raw)
		if !validStates[st] {
			writeError(w, http.StatusBadRequest, "unknown state filter value")
			return
		}
		filter.State = st
	}
	if raw := q.Get("direction"); raw != "" {
		dir := session.Direction(raw)
		if !validDirections[dir] {
			writeError(w, http.StatusBadRequest, "unknown direction filter value")
			return
		}
		filter.Direction = dir
	}

	writeJSON(w, http.StatusOK, s.sessions.List(filter))
}

type sessionDetail struct {
	SessionID    string            `json:"session_id"`
	Direction    session.Direction `json:"direction"`
	State        session.State     `json:"state"`
	Room         string            `json:"room"`
	Participant  string            `json:"participant"`
	CallerNumber string            `json:"caller_number,omitempty"`
	CalleeNumber string            `json:"callee_number,omitempty"`
	CreatedAt    string            `json:"created_at"`
	EndedAt      *string           `json:"ended_at,omitempty"`
	EndReason    string            `json:"end_reason,omitempty"`
}

// handleSessionDetail implements GET /control/sessions/{session_id}.
func (s *Server) handleSessionDetail(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["session_id"]
	sess, ok := s.sessions.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}

	detail := sessionDetail{
		SessionID:    sess.SessionID,
		Direction:    sess.Direction,
		State:        sess.State,
		Room:         sess.Room,
		Participant:  sess.Participant,
		CallerNumber: sess.CallerNumber,
		CalleeNumber: sess.CalleeNumber,
		CreatedAt:    sess.CreatedAt.Format(rfc3339Nano),
		EndReason:    sess.EndReason,
	}
	if sess.EndedAt != nil {
		formatted := sess.EndedAt.Format(rfc3339Nano)
		detail.EndedAt = &formatted
	}
	writeJSON(w, http.StatusOK, detail)
}

const rfc3339Nano = "2006-01-02T15:04:05.999999999Z07:00"

// handleSessionEvents implements
// GET /control/sessions/{session_id}/events?event_type=&component=&since=&until=&limit=.
func (s *Server) handleSessionEvents(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["session_id"]
	if _, ok := s.sessions.Get(id); !ok {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}

	q := r.URL.Query()
	query := events.Query{SessionID: id}
	if v := q.Get("event_type"); v != "" {
		query.EventType = v
	}
	if v := q.Get("component"); v != "" {
		query.Component = events.Component(v)
	}
	if v := q.Get("since"); v != "" {
		ts, err := events.ParseBoundary("since", v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid since timestamp")
			return
		}
		query.Since = &ts
	}
	if v := q.Get("until"); v != "" {
		ts, err := events.ParseBoundary("until", v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid until timestamp")
			return
		}
		query.Until = &ts
	}
	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		query.Limit = limit
	}

	writeJSON(w, http.StatusOK, s.store.Query(query))
}

// handleHealth implements GET /health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "component": "control_plane"})
}
