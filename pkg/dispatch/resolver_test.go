package dispatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolvePriorityMetadataBeatsAttrsBeatsRoom(t *testing.T) {
	ctx := Resolve("room-1", `{"session_id":"sess_meta","flow":"onboarding"}`, map[string]string{"session_id": "sess_attr"})
	assert.Equal(t, "sess_meta", ctx.SessionID)
	assert.Equal(t, "onboarding", ctx.Flow)
}

func TestResolveFallsBackToAttrThenRoom(t *testing.T) {
	ctx := Resolve("room-1", `{}`, map[string]string{"session_id": "sess_attr"})
	assert.Equal(t, "sess_attr", ctx.SessionID)

	ctx = Resolve("room-1", `{}`, nil)
	assert.Equal(t, "room-1", ctx.SessionID)
}

func TestResolveToleratesInvalidJSON(t *testing.T) {
	ctx := Resolve("room-1", `not json {{{`, nil)
	assert.Equal(t, "room-1", ctx.SessionID)
	assert.Empty(t, ctx.Flow)
}
