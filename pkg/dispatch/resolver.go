// Package dispatch resolves a live agent session's context (C8): which
// session_id and flow it belongs to, from the room name, freeform dispatch
// metadata, and participant attributes.
package dispatch

import "encoding/json"

// Context is the resolved identity of a dispatched agent session.
type Context struct {
	SessionID string
	Flow      string
}

// Resolve derives a Context per SPEC_FULL.md §4.8. session_id priority:
// (1) metadata JSON key "session_id"; (2) attribute "session_id"; (3) the
// room name. flow comes from metadata "flow" when present and a string.
// Invalid metadata JSON is tolerated silently.
func Resolve(room, dispatchMetadata string, attrs map[string]string) Context {
	var meta map[string]any
	_ = json.Unmarshal([]byte(dispatchMetadata), &meta) // invalid JSON -> meta stays nil, tolerated

	ctx := Context{}

	if v, ok := meta["session_id"].(string); ok && v != "" {
		ctx.SessionID = v
	} else if v, ok := attrs["session_id"]; ok && v != "" {
		ctx.SessionID = v
	} else {
		ctx.SessionID = room
	}

	if v, ok := meta["flow"].(string); ok {
		ctx.Flow = v
	}

	return ctx
}
