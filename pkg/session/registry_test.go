package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateSetsInitialStateByDirection(t *testing.T) {
	r := NewRegistry()

	in, err := r.Create(DirectionInbound, "", "", nil)
	require.NoError(t, err)
	assert.Equal(t, StateInboundRinging, in.State)

	out, err := r.Create(DirectionOutbound, "", "", nil)
	require.NoError(t, err)
	assert.Equal(t, StateCreated, out.State)
}

func TestRoomBindingIsOneToOne(t *testing.T) {
	r := NewRegistry()
	s, _ := r.Create(DirectionInbound, "", "", nil)

	require.NoError(t, r.AssignRoom(s.SessionID, "call-abc"))
	got, ok := r.GetByRoom("call-abc")
	require.True(t, ok)
	assert.Equal(t, s.SessionID, got.SessionID)

	err := r.AssignRoom(s.SessionID, "call-xyz")
	assert.Error(t, err)
}

func TestTransitionRejectsNonMonotonicMove(t *testing.T) {
	r := NewRegistry()
	s, _ := r.Create(DirectionInbound, "", "", nil)

	require.NoError(t, r.Transition(s.SessionID, StateConnected))

	err := r.Transition(s.SessionID, StateInboundRinging)
	require.Error(t, err)
	var sessErr *SessionError
	require.ErrorAs(t, err, &sessErr)
	assert.Equal(t, ErrCodeInvalidTransition, sessErr.Code)
}

func TestEndedAtSetIffStateEnded(t *testing.T) {
	r := NewRegistry()
	s, _ := r.Create(DirectionOutbound, "", "", nil)
	assert.Nil(t, s.EndedAt)

	require.NoError(t, r.End(s.SessionID, "room_finished"))
	got, _ := r.Get(s.SessionID)
	require.NotNil(t, got.EndedAt)
	assert.Equal(t, StateEnded, got.State)
	assert.Equal(t, "room_finished", got.EndReason)
}

func TestEndIsIdempotent(t *testing.T) {
	r := NewRegistry()
	s, _ := r.Create(DirectionOutbound, "", "", nil)
	require.NoError(t, r.End(s.SessionID, "first"))
	first, _ := r.Get(s.SessionID)
	firstEndedAt := *first.EndedAt

	time.Sleep(time.Millisecond)
	require.NoError(t, r.End(s.SessionID, "second"))
	second, _ := r.Get(s.SessionID)
	assert.Equal(t, "first", second.EndReason)
	assert.Equal(t, firstEndedAt, *second.EndedAt)
}

func TestListFiltersAreANDed(t *testing.T) {
	r := NewRegistry()
	a, _ := r.Create(DirectionInbound, "", "", nil)
	_, _ = r.Create(DirectionOutbound, "", "", nil)
	require.NoError(t, r.Transition(a.SessionID, StateConnected))

	got := r.List(ListFilter{State: StateConnected, Direction: DirectionInbound})
	require.Len(t, got, 1)
	assert.Equal(t, a.SessionID, got[0].SessionID)

	got = r.List(ListFilter{State: StateConnected, Direction: DirectionOutbound})
	assert.Empty(t, got)
}
