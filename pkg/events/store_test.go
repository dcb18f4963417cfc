package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreEvictsOldestOnOverflow(t *testing.T) {
	s := NewStore(3)
	for i := 0; i < 5; i++ {
		s.Append(Event{SessionID: "sess", EventType: "x", Ts: time.Unix(int64(i), 0)})
	}
	require.Equal(t, 3, s.Len())
	got := s.Query(Query{})
	require.Len(t, got, 3)
	assert.Equal(t, int64(2), got[0].Ts.Unix())
	assert.Equal(t, int64(4), got[2].Ts.Unix())
}

func TestQueryFiltersAreANDedAndOldestFirst(t *testing.T) {
	s := NewStore(100)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s.Append(Event{SessionID: "sess_A", EventType: "call.started", Component: ComponentControlPlane, Ts: base})
	s.Append(Event{SessionID: "sess_A", EventType: "call.ended", Component: ComponentControlPlane, Ts: base.Add(time.Minute)})
	s.Append(Event{SessionID: "sess_B", EventType: "call.started", Component: ComponentControlPlane, Ts: base.Add(2 * time.Minute)})

	got := s.Query(Query{SessionID: "sess_A", EventType: "call.started", Limit: 10})
	require.Len(t, got, 1)
	assert.Equal(t, "call.started", got[0].EventType)

	future := base.Add(time.Hour)
	got = s.Query(Query{SessionID: "sess_A", Since: &future})
	assert.Empty(t, got)
}

func TestParseBoundaryTolerantOfSpaceForPlus(t *testing.T) {
	t1, err := ParseBoundary("query", "2026-01-01T10:00:00+02:00")
	require.NoError(t, err)

	t2, err := ParseBoundary("query", "2026-01-01T10:00:00 02:00")
	require.NoError(t, err)
	assert.True(t, t1.Equal(t2))

	t3, err := ParseBoundary("query", "2026-01-01T10:00:00")
	require.NoError(t, err)
	assert.Equal(t, time.UTC, t3.Location())

	_, err = ParseBoundary("query", "not-a-date")
	assert.Error(t, err)
}
