package observer

import "context"

// AgentSession is the narrow slice of the telephony/voice SDK's live
// session object the Observer depends on (SPEC_FULL.md §6). The actual
// SDK is an out-of-scope external collaborator; this interface is every
// operation the Observer calls or registers against.
type AgentSession interface {
	// On registers handler for the named event. The Observer registers
	// once per event kind during Attach; handlers receive the payload as
	// any (a Transcription or an AgentStoppedReason from types.go, or a
	// plain string for agent/user state changes).
	On(event string, handler func(payload any))
	Say(ctx context.Context, text string, allowInterruptions bool) error
	AClose(ctx context.Context) error
}

// HangupRequester is how the Observer asks the control plane to end a
// call — normally an HTTP POST to /control/call/hangup
// (SPEC_FULL.md §9 "graceful-close back-pressure").
type HangupRequester interface {
	RequestHangup(ctx context.Context, sessionID string) bool
}
