package observer

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxbridge/callcontrol/pkg/events"
)

type recordingEmitter struct {
	mu         sync.Mutex
	events     []string
	lastFields map[string]map[string]any
}

func (r *recordingEmitter) Emit(eventType, sessionID string, severity events.Severity, correlationID string, pii *events.PII, fields map[string]any) events.Event {
	r.mu.Lock()
	r.events = append(r.events, eventType)
	if r.lastFields == nil {
		r.lastFields = map[string]map[string]any{}
	}
	r.lastFields[eventType] = fields
	r.mu.Unlock()
	return events.Event{EventType: eventType, SessionID: sessionID, Severity: severity}
}

func (r *recordingEmitter) fieldsOf(eventType string) map[string]any {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastFields[eventType]
}

func (r *recordingEmitter) has(eventType string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.events {
		if e == eventType {
			return true
		}
	}
	return false
}

type fakeSession struct {
	mu        sync.Mutex
	sayCalls  []string
	closed    bool
	sayErr    error
}

func (f *fakeSession) On(event string, handler func(any)) {}
func (f *fakeSession) Say(ctx context.Context, text string, allowInterruptions bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sayCalls = append(f.sayCalls, text)
	return f.sayErr
}
func (f *fakeSession) AClose(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

type fakeHangup struct {
	mu      sync.Mutex
	called  bool
	succeed bool
}

func (f *fakeHangup) RequestHangup(ctx context.Context, sessionID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.called = true
	return f.succeed
}

// instantSleep never blocks; used so silence-timer goroutines race to
// completion deterministically under a fixed virtual clock instead.
func instantSleep(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	return nil
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	require.FailNow(t, "condition not met before deadline")
}

func TestUserSilenceClosesCallAfterRepromptWindow(t *testing.T) {
	emitter := &recordingEmitter{}
	hangup := &fakeHangup{succeed: true}
	timings := Timings{
		ProcessingDelayAck:  time.Millisecond,
		UserSilenceReprompt: time.Millisecond,
		UserSilenceClose:    2 * time.Millisecond,
	}
	o := New("sess-1", emitter, hangup, timings).WithClock(func() time.Time { return time.Unix(0, 0).UTC() }, instantSleep)
	session := &fakeSession{}
	o.Attach(session)

	o.OnAgentStoppedSpeaking(AgentStoppedCompleted)

	waitFor(t, func() bool { return emitter.has("call.ended") })
	assert.True(t, emitter.has("silence.timer_fired"))

	hangup.mu.Lock()
	called := hangup.called
	hangup.mu.Unlock()
	assert.True(t, called)
}

func TestUserSilenceShortCircuitsWhenCloseBeforeReprompt(t *testing.T) {
	emitter := &recordingEmitter{}
	hangup := &fakeHangup{succeed: true}
	timings := Timings{
		ProcessingDelayAck:  time.Millisecond,
		UserSilenceReprompt: 10 * time.Millisecond,
		UserSilenceClose:    time.Millisecond,
	}
	o := New("sess-2", emitter, hangup, timings).WithClock(func() time.Time { return time.Unix(0, 0).UTC() }, instantSleep)
	session := &fakeSession{}
	o.Attach(session)

	o.OnAgentStoppedSpeaking(AgentStoppedCompleted)

	waitFor(t, func() bool { return emitter.has("call.ended") })
	session.mu.Lock()
	defer session.mu.Unlock()
	for _, call := range session.sayCalls {
		assert.NotEqual(t, messageSilenceReprompt, call)
	}
}

func TestBargeInRecordsDetectionAndTimeToStop(t *testing.T) {
	var clock time.Time = time.Unix(100, 0).UTC()
	timings := DefaultTimings()
	timings.UserSilenceClose = time.Hour
	timings.UserSilenceReprompt = time.Hour
	emitter := &recordingEmitter{}
	o := New("sess-3", emitter, nil, timings).WithClock(func() time.Time { return clock }, instantSleep)
	session := &fakeSession{}
	o.Attach(session)

	o.OnAgentStartedSpeaking()
	assert.True(t, emitter.has("tts.started"))

	clock = clock.Add(250 * time.Millisecond)
	o.OnUserStartedSpeaking()
	assert.True(t, emitter.has("barge_in.detected"))

	clock = clock.Add(50 * time.Millisecond)
	o.OnAgentStoppedSpeaking(AgentStoppedBargeIn)
	assert.True(t, emitter.has("tts.stopped"))
	assert.Equal(t, int64(50), emitter.fieldsOf("tts.stopped")["time_to_tts_stop_ms"])

	o.Close()
}

func TestProcessingDelayAckFiresOnlyWhenStillThinking(t *testing.T) {
	emitter := &recordingEmitter{}
	timings := DefaultTimings()
	timings.UserSilenceClose = time.Hour
	timings.UserSilenceReprompt = time.Hour
	o := New("sess-4", emitter, nil, timings).WithClock(func() time.Time { return time.Unix(0, 0).UTC() }, instantSleep)
	session := &fakeSession{}
	o.Attach(session)

	o.OnUserSpeechCommitted()
	assert.True(t, emitter.has("turn.started"))
	assert.True(t, emitter.has("llm.request"))

	waitFor(t, func() bool { return emitter.has("ux.delay_acknowledged") })

	session.mu.Lock()
	found := false
	for _, c := range session.sayCalls {
		if c == messageProcessingDelayAck {
			found = true
		}
	}
	session.mu.Unlock()
	assert.True(t, found)

	o.Close()
}

func TestMaxDurationGuardEndsCallWhenCeilingReached(t *testing.T) {
	emitter := &recordingEmitter{}
	hangup := &fakeHangup{succeed: true}
	timings := DefaultTimings()
	timings.MaxCallDuration = time.Millisecond
	o := New("sess-5", emitter, hangup, timings).WithClock(func() time.Time { return time.Unix(0, 0).UTC() }, instantSleep)
	session := &fakeSession{}
	o.Attach(session)

	o.Start()

	waitFor(t, func() bool { return emitter.has("call.ended") })
	waitFor(t, func() bool { return emitter.has("call.duration_warning") })

	hangup.mu.Lock()
	called := hangup.called
	hangup.mu.Unlock()
	assert.True(t, called)

	session.mu.Lock()
	defer session.mu.Unlock()
	found := false
	for _, c := range session.sayCalls {
		if c == messageMaxDurationWarning {
			found = true
		}
	}
	assert.True(t, found)
}
