// Package controlapi implements the control plane's HTTP write/read
// surface (C5): the hangup command, session/event read endpoints, and a
// liveness probe. Grounded on
// original_source/control_plane/control_api.py and
// original_source/control_plane/webhook_server.py, routed with a
// gorilla/mux router.
package controlapi

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/voxbridge/callcontrol/pkg/events"
	"github.com/voxbridge/callcontrol/pkg/roomclient"
	"github.com/voxbridge/callcontrol/pkg/session"
)

// Now is overridable in tests so correlation ids are deterministic.
var Now = func() time.Time { return time.Now().UTC() }

// SessionRegistry is the slice of session.Registry the control API reads.
type SessionRegistry interface {
	Get(sessionID string) (*session.Session, bool)
	List(filter session.ListFilter) []session.Summary
}

// EventStore is the slice of events.Store the control API queries.
type EventStore interface {
	Query(q events.Query) []events.Event
}

// EventEmitter is the control-plane-component emitter used for
// control.command_received/applied.
type EventEmitter interface {
	Emit(eventType, sessionID string, severity events.Severity, correlationID string, pii *events.PII, fields map[string]any) events.Event
}

// Server wires every control-plane HTTP endpoint onto one router.
type Server struct {
	router   *mux.Router
	sessions SessionRegistry
	store    EventStore
	emitter  EventEmitter
	rooms    roomclient.RoomService

	webhookHandler http.HandlerFunc
}

// Option configures a Server at construction time.
type Option func(*Server)

// WithWebhookHandler mounts handler at POST /webhook (C4's entry point).
func WithWebhookHandler(handler http.HandlerFunc) Option {
	return func(s *Server) { s.webhookHandler = handler }
}

// NewServer builds the control plane's HTTP server.
func NewServer(sessions SessionRegistry, store EventStore, emitter EventEmitter, rooms roomclient.RoomService, opts ...Option) *Server {
	s := &Server{
		router:   mux.NewRouter(),
		sessions: sessions,
		store:    store,
		emitter:  emitter,
		rooms:    rooms,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	if s.webhookHandler != nil {
		s.router.HandleFunc("/webhook", s.webhookHandler).Methods(http.MethodPost)
	}
	s.router.HandleFunc("/control/call/hangup", s.handleHangup).Methods(http.MethodPost)
	s.router.HandleFunc("/control/sessions", s.handleListSessions).Methods(http.MethodGet)
	s.router.HandleFunc("/control/sessions/{session_id}", s.handleSessionDetail).Methods(http.MethodGet)
	s.router.HandleFunc("/control/sessions/{session_id}/events", s.handleSessionEvents).Methods(http.MethodGet)
	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
