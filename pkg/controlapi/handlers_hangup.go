package controlapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/voxbridge/callcontrol/pkg/events"
)

type hangupRequest struct {
	SessionID string `json:"session_id"`
}

type hangupResponse struct {
	Status string `json:"status"`
}

func newCorrelationID() string {
	return fmt.Sprintf("cmd_%d", Now().UnixMilli())
}

// handleHangup implements POST /control/call/hangup. For inbound calls
// session_id is conventionally the LiveKit room name; the provider's
// delete-room call ends the session for every participant
// (SPEC_FULL.md §6).
func (s *Server) handleHangup(w http.ResponseWriter, r *http.Request) {
	var req hangupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.SessionID == "" {
		writeError(w, http.StatusBadRequest, "session_id is required")
		return
	}

	correlationID := newCorrelationID()
	s.emitter.Emit("control.command_received", req.SessionID, events.SeverityInfo, correlationID, nil, map[string]any{
		"command": "call.hangup",
	})

	if err := s.rooms.DeleteRoom(context.Background(), req.SessionID); err != nil {
		s.emitter.Emit("control.command_applied", req.SessionID, events.SeverityError, correlationID, nil, map[string]any{
			"command":     "call.hangup",
			"result":      "error",
			"error_class": fmt.Sprintf("%T", err),
		})
		writeError(w, http.StatusBadGateway, "hangup_failed")
		return
	}

	s.emitter.Emit("control.command_applied", req.SessionID, events.SeverityInfo, correlationID, nil, map[string]any{
		"command": "call.hangup",
		"result":  "ok",
	})
	writeJSON(w, http.StatusOK, hangupResponse{Status: "ok"})
}
