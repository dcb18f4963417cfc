package classify

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/voxbridge/callcontrol/pkg/events"
)

func TestClassifyScenarioSix(t *testing.T) {
	assert.Equal(t, CategoryRateLimited, ClassifyString("429 Too Many Requests"))
	assert.Equal(t, CategoryBusy, ClassifyString("486 Busy Here"))
	assert.Equal(t, CategoryUnknownError, ClassifyString("random nonsense"))
}

func TestClassifyIsTotalAndNeverPanics(t *testing.T) {
	assert.Equal(t, CategoryUnknownError, Classify(nil))
	assert.NotPanics(t, func() {
		Classify(errors.New(""))
	})
}

type fakeEmitter struct {
	lastDetail string
}

func (f *fakeEmitter) ProviderEvent(sessionID, category, direction, providerName, detail string) events.Event {
	f.lastDetail = detail
	return events.Event{EventType: "provider.event"}
}

func TestHandleRedactsSecretsBeforeEmitting(t *testing.T) {
	fe := &fakeEmitter{}
	h := NewHandler(fe)

	category := h.Handle("sess_1", errors.New("API secret abc123xyz leaked"), "outbound", "livekit")

	assert.Equal(t, CategoryUnknownError, category)
	assert.NotContains(t, fe.lastDetail, "abc123xyz")
	assert.Equal(t, redactionMarker, fe.lastDetail)
}

func TestUserMessageFallsBackToGeneric(t *testing.T) {
	assert.Contains(t, UserMessage(CategoryBusy), "in gesprek")
	assert.Equal(t, defaultUserMessage, UserMessage(CategoryNetworkError))
}
