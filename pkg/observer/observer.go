// Package observer implements the per-call conversational timing engine
// (C7): turn accounting, barge-in detection, the processing-delay
// acknowledgement prompt, the user-silence reprompt/close sequence, and
// the maximum-call-duration guard. It is grounded on
// original_source/voice_pipeline/observability.py, pinned to a single
// documented event shape per SPEC_FULL.md's Open Question (c) rather
// than that file's duck-typed multi-shape event parsing.
package observer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/voxbridge/callcontrol/pkg/events"
)

const (
	messageProcessingDelayAck = "Momentje, ik denk even mee."
	messageSilenceReprompt    = "Ben je er nog?"
	messageSilenceClose       = "Oké, ik hoor even niks. Ik hang op. Fijne dag!"
	messageMaxDurationWarning = "De maximale gesprekduur is bijna bereikt, het gesprek wordt over 15 seconde afgebroken"
)

// Observer tracks one call's conversational state. It is not safe to
// share across calls; create one per session.
type Observer struct {
	mu sync.Mutex

	sessionID string
	emitter   EventEmitter
	hangup    HangupRequester
	timings   Timings
	now       func() time.Time
	sleep     SleepFunc

	session AgentSession

	baseCtx    context.Context
	baseCancel context.CancelFunc
	closed     bool

	turnID  string
	turnSeq int

	ttsPlaying bool

	hasUserActivity    bool
	lastUserActivityTs time.Time
	userLastAudioTs    time.Time
	hasUserLastAudio   bool

	hasBargeIn      bool
	bargeInDetected time.Time

	sttFinalEmittedForTurn bool
	delayAckSentForTurn    bool

	hasLastTranscription bool
	lastTranscription     Transcription

	processingCancel context.CancelFunc
	silenceCancel    context.CancelFunc
	maxDurWarnCancel context.CancelFunc
	maxDurEndCancel  context.CancelFunc
}

// New builds an Observer for sessionID. hangup may be nil only in tests
// that never exercise the silence-close or max-duration paths.
func New(sessionID string, emitter EventEmitter, hangup HangupRequester, timings Timings) *Observer {
	ctx, cancel := context.WithCancel(context.Background())
	return &Observer{
		sessionID:  sessionID,
		emitter:    emitter,
		hangup:     hangup,
		timings:    timings,
		now:        func() time.Time { return time.Now().UTC() },
		sleep:      ctxSleep,
		baseCtx:    ctx,
		baseCancel: cancel,
	}
}

// WithClock overrides the now/sleep primitives, for deterministic tests.
func (o *Observer) WithClock(now func() time.Time, sleep SleepFunc) *Observer {
	o.now = now
	o.sleep = sleep
	return o
}

// Attach wires the Observer's handlers onto a live session, including the
// backward-compatible event-name aliases the original pipeline accepted.
func (o *Observer) Attach(session AgentSession) {
	o.mu.Lock()
	o.session = session
	o.mu.Unlock()

	session.On("agent_state_changed", func(payload any) {
		if s, ok := payload.(string); ok {
			o.OnAgentStateChanged(s)
		}
	})
	session.On("user_state_changed", func(payload any) {
		if s, ok := payload.(string); ok {
			o.OnUserStateChanged(s)
		}
	})
	session.On("user_input_transcribed", func(payload any) {
		if t, ok := payload.(Transcription); ok {
			o.OnUserInputTranscribed(t)
		}
	})
	session.On("close", func(any) { o.Close() })

	session.On("user_started_speaking", func(any) { o.OnUserStartedSpeaking() })
	session.On("vad_state_changed", func(any) { o.OnUserStartedSpeaking() })
	session.On("user_stopped_speaking", func(any) { o.OnUserStoppedSpeaking() })
	session.On("user_speech_committed", func(any) { o.OnUserSpeechCommitted() })
	session.On("agent_started_speaking", func(any) { o.OnAgentStartedSpeaking() })
	session.On("agent_stopped_speaking", func(payload any) {
		reason := AgentStoppedCompleted
		if r, ok := payload.(AgentStoppedReason); ok {
			reason = r
		}
		o.OnAgentStoppedSpeaking(reason)
	})
}

// Start arms the maximum-call-duration guard. Call it once the session
// reaches the connected state; a non-positive MaxCallDuration disables it.
func (o *Observer) Start() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.timings.MaxCallDuration <= 0 {
		return
	}
	o.startMaxDurationGuardLocked()
}

// Close cancels every outstanding timer. Idempotent.
func (o *Observer) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return
	}
	o.closed = true
	o.cancelProcessingTimerLocked()
	o.cancelUserSilenceTimerLocked()
	o.cancelMaxDurationGuardLocked()
	o.baseCancel()
}

func (o *Observer) emit(eventType string, severity events.Severity, fields map[string]any) {
	o.emitter.Emit(eventType, o.sessionID, severity, o.turnID, nil, fields)
}

// --- turn model ---

func (o *Observer) newTurnLocked() {
	o.turnSeq++
	o.turnID = fmt.Sprintf("turn_%d_%d", o.now().UnixMilli(), o.turnSeq)
	o.sttFinalEmittedForTurn = false
	o.delayAckSentForTurn = false
}

func (o *Observer) emitTurnStartedLocked() {
	fields := map[string]any{"transcript_length": o.transcriptLengthLocked()}
	if o.hasUserLastAudio {
		fields["user_last_audio_ts_ms"] = o.userLastAudioTs.UnixMilli()
	}
	o.emit("turn.started", events.SeverityInfo, fields)
	o.emit("llm.request", events.SeverityInfo, map[string]any{})
}

func (o *Observer) emitLLMResponseLocked() {
	o.emit("llm.response", events.SeverityInfo, map[string]any{})
}

func (o *Observer) emitSTTFinalLocked() {
	if o.sttFinalEmittedForTurn {
		return
	}
	o.sttFinalEmittedForTurn = true
	language := ""
	if o.hasLastTranscription {
		language = o.lastTranscription.Language
	}
	o.emit("stt.final", events.SeverityInfo, map[string]any{
		"transcript_length": o.transcriptLengthLocked(),
		"language":          language,
	})
}

func (o *Observer) transcriptLengthLocked() int {
	if !o.hasLastTranscription {
		return 0
	}
	return len([]rune(o.lastTranscription.Text))
}

// OnUserInputTranscribed records the latest transcription; the stt.final
// event itself fires from OnUserSpeechCommitted, matching the original
// pipeline's separation between "heard text" and "turn committed".
func (o *Observer) OnUserInputTranscribed(t Transcription) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.lastTranscription = t
	o.hasLastTranscription = true
}

// OnUserSpeechCommitted starts a new turn from committed user speech.
func (o *Observer) OnUserSpeechCommitted() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.recordUserActivityLocked()
	o.newTurnLocked()
	o.emitSTTFinalLocked()
	o.emitTurnStartedLocked()
	o.startProcessingTimerLocked()
}

// OnAgentStateChanged handles the alternate turn-start trigger: the agent
// entering "thinking" starts a turn even without a committed utterance
// (e.g. a proactive agent turn).
func (o *Observer) OnAgentStateChanged(state string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if state != agentStateThinking {
		return
	}
	o.newTurnLocked()
	o.emitTurnStartedLocked()
	o.startProcessingTimerLocked()
}

func (o *Observer) OnUserStateChanged(state string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if state == userStateSpeaking {
		o.recordUserActivityLocked()
	}
}

// --- barge-in ---

func (o *Observer) OnUserStartedSpeaking() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.recordUserActivityLocked()
	if o.ttsPlaying && !o.hasBargeIn {
		o.hasBargeIn = true
		o.bargeInDetected = o.now()
		o.emit("barge_in.detected", events.SeverityInfo, map[string]any{})
	}
}

func (o *Observer) OnUserStoppedSpeaking() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.recordUserActivityLocked()
	o.userLastAudioTs = o.now()
	o.hasUserLastAudio = true
}

func (o *Observer) OnAgentStartedSpeaking() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.ttsPlaying = true
	o.emitLLMResponseLocked()
	o.cancelProcessingTimerLocked()
	o.emit("tts.started", events.SeverityInfo, map[string]any{})
}

func (o *Observer) OnAgentStoppedSpeaking(reason AgentStoppedReason) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.ttsPlaying = false
	if reason == "" {
		reason = AgentStoppedCompleted
	}
	fields := map[string]any{"cause": string(reason)}
	if reason == AgentStoppedBargeIn && o.hasBargeIn {
		fields["time_to_tts_stop_ms"] = o.now().Sub(o.bargeInDetected).Milliseconds()
		o.hasBargeIn = false
	}
	o.emit("tts.stopped", events.SeverityInfo, fields)
	o.startUserSilenceTimerLocked()
}

// --- user activity / silence bookkeeping ---

func (o *Observer) recordUserActivityLocked() {
	o.hasUserActivity = true
	o.lastUserActivityTs = o.now()
	o.cancelUserSilenceTimerLocked()
}

func (o *Observer) isUserSilentSinceLocked(since time.Time) bool {
	if !o.hasUserActivity {
		return true
	}
	return !o.lastUserActivityTs.After(since)
}

// --- processing-delay acknowledgement timer ---

func (o *Observer) cancelProcessingTimerLocked() {
	if o.processingCancel != nil {
		o.processingCancel()
		o.processingCancel = nil
	}
}

func (o *Observer) startProcessingTimerLocked() {
	o.cancelProcessingTimerLocked()
	ctx, cancel := context.WithCancel(o.baseCtx)
	o.processingCancel = cancel
	turnAtStart := o.turnID
	o.emit("silence.timer_started", events.SeverityDebug, map[string]any{"kind": "processing"})

	delay := o.timings.ProcessingDelayAck
	go func() {
		if err := o.sleep(ctx, delay); err != nil {
			return
		}
		o.mu.Lock()
		if o.turnID != turnAtStart || o.delayAckSentForTurn || o.ttsPlaying {
			o.mu.Unlock()
			return
		}
		o.delayAckSentForTurn = true
		o.emit("silence.timer_fired", events.SeverityDebug, map[string]any{
			"kind": "processing", "threshold_ms": delay.Milliseconds(),
		})
		o.emit("ux.delay_acknowledged", events.SeverityInfo, map[string]any{"message_key": "delay_ack.thinking"})
		session := o.session
		o.mu.Unlock()

		if session == nil {
			return
		}
		if err := session.Say(ctx, messageProcessingDelayAck, true); err != nil {
			o.mu.Lock()
			o.emit("ux.prompt_failed", events.SeverityWarn, map[string]any{"message_key": "delay_ack.thinking"})
			o.mu.Unlock()
		}
	}()
}

// --- user-silence reprompt / close timer ---

func (o *Observer) cancelUserSilenceTimerLocked() {
	if o.silenceCancel != nil {
		o.silenceCancel()
		o.silenceCancel = nil
	}
}

func (o *Observer) startUserSilenceTimerLocked() {
	o.cancelUserSilenceTimerLocked()
	ctx, cancel := context.WithCancel(o.baseCtx)
	o.silenceCancel = cancel
	startedAt := o.now()
	o.emit("silence.timer_started", events.SeverityDebug, map[string]any{"kind": "user"})

	reprompt := o.timings.UserSilenceReprompt
	closeMS := o.timings.UserSilenceClose

	go func() {
		if closeMS <= reprompt {
			if err := o.sleep(ctx, closeMS); err != nil {
				return
			}
			o.mu.Lock()
			silent := o.isUserSilentSinceLocked(startedAt)
			o.mu.Unlock()
			if silent {
				o.closeDueToUserSilence()
			}
			return
		}

		if err := o.sleep(ctx, reprompt); err != nil {
			return
		}
		o.mu.Lock()
		silent := o.isUserSilentSinceLocked(startedAt)
		if silent {
			o.emit("silence.timer_fired", events.SeverityDebug, map[string]any{
				"kind": "user", "threshold_ms": reprompt.Milliseconds(),
			})
		}
		session := o.session
		o.mu.Unlock()
		if silent && session != nil {
			_ = session.Say(ctx, messageSilenceReprompt, true)
		}

		remaining := closeMS - reprompt
		if remaining > 0 {
			if err := o.sleep(ctx, remaining); err != nil {
				return
			}
		}
		o.mu.Lock()
		silent = o.isUserSilentSinceLocked(startedAt)
		o.mu.Unlock()
		if silent {
			o.closeDueToUserSilence()
		}
	}()
}

func (o *Observer) closeDueToUserSilence() {
	o.mu.Lock()
	session := o.session
	hangup := o.hangup
	sessionID := o.sessionID
	o.mu.Unlock()

	if session != nil {
		_ = session.Say(o.baseCtx, messageSilenceClose, false)
	}

	o.mu.Lock()
	o.emit("call.ended", events.SeverityInfo, map[string]any{"reason": "user_silence_timeout"})
	o.mu.Unlock()

	var hungUp bool
	if hangup != nil {
		hungUp = hangup.RequestHangup(o.baseCtx, sessionID)
	}
	if !hungUp && session != nil {
		_ = session.AClose(o.baseCtx)
	}
}

// --- maximum call duration guard (no original_source equivalent) ---

func (o *Observer) cancelMaxDurationGuardLocked() {
	if o.maxDurWarnCancel != nil {
		o.maxDurWarnCancel()
		o.maxDurWarnCancel = nil
	}
	if o.maxDurEndCancel != nil {
		o.maxDurEndCancel()
		o.maxDurEndCancel = nil
	}
}

func (o *Observer) startMaxDurationGuardLocked() {
	ctx, cancel := context.WithCancel(o.baseCtx)
	o.maxDurWarnCancel = cancel
	warnAt := o.timings.maxDurationWarnAt()
	go func() {
		if err := o.sleep(ctx, warnAt); err != nil {
			return
		}
		o.mu.Lock()
		session := o.session
		o.emit("call.duration_warning", events.SeverityWarn, map[string]any{"remaining_seconds": 15})
		o.mu.Unlock()
		if session != nil {
			_ = session.Say(ctx, messageMaxDurationWarning, true)
		}
	}()

	endCtx, endCancel := context.WithCancel(o.baseCtx)
	o.maxDurEndCancel = endCancel
	go func() {
		if err := o.sleep(endCtx, o.timings.MaxCallDuration); err != nil {
			return
		}
		o.mu.Lock()
		o.emit("call.ended", events.SeverityInfo, map[string]any{"reason": "max_duration_reached"})
		hangup := o.hangup
		session := o.session
		sessionID := o.sessionID
		o.mu.Unlock()

		var hungUp bool
		if hangup != nil {
			hungUp = hangup.RequestHangup(endCtx, sessionID)
		}
		if !hungUp && session != nil {
			_ = session.AClose(endCtx)
		}
	}()
}
