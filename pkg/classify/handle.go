package classify

import (
	"strings"

	"github.com/voxbridge/callcontrol/pkg/events"
)

// redactionMarker replaces a detail string that looks like it might
// contain a secret (SPEC_FULL.md §4.6, scenario 6).
const redactionMarker = "[redacted: potential secret]"

var secretTokens = []string{"secret", "password", "key"}

// Redact returns detail unchanged, unless it contains a token that looks
// like a credential, in which case it returns a fixed marker instead.
func Redact(detail string) string {
	lower := strings.ToLower(detail)
	for _, tok := range secretTokens {
		if strings.Contains(lower, tok) {
			return redactionMarker
		}
	}
	return detail
}

// EventEmitter is the narrow slice of *events.Emitter this package needs.
type EventEmitter interface {
	ProviderEvent(sessionID, category, direction, providerName, detail string) events.Event
}

// Handler classifies provider errors and emits the corresponding
// provider.event (SPEC_FULL.md §4.6's Handle operation).
type Handler struct {
	emitter EventEmitter
}

// NewHandler binds a Handler to the emitter it reports through.
func NewHandler(emitter EventEmitter) *Handler {
	return &Handler{emitter: emitter}
}

// Handle classifies err, redacts its detail, emits a provider.event, and
// always returns a category — callers use it as the session end_reason.
func (h *Handler) Handle(sessionID string, err error, direction, providerName string) Category {
	category := Classify(err)
	detail := Redact(errString(err))
	if h.emitter != nil {
		h.emitter.ProviderEvent(sessionID, string(category), direction, providerName, detail)
	}
	return category
}
