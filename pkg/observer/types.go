package observer

import "time"

// Transcription is the single documented shape the Observer accepts for
// user_input_transcribed, rather than the duck-typed multi-shape event
// payloads the original voice pipeline tolerated.
type Transcription struct {
	Text  string
	Language string
	// Delay is the SDK-reported gap between end-of-speech and the
	// transcript becoming available, when the SDK reports one.
	Delay *time.Duration
}

// AgentStoppedReason is why agent playback stopped.
type AgentStoppedReason string

const (
	AgentStoppedCompleted AgentStoppedReason = "completed"
	AgentStoppedBargeIn   AgentStoppedReason = "barge_in"
)

const (
	agentStateThinking = "thinking"
	userStateSpeaking  = "speaking"
)
