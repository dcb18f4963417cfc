package webhook

import (
	"github.com/livekit/protocol/auth"
	"github.com/livekit/protocol/livekit"
	lkwebhook "github.com/livekit/protocol/webhook"
)

// Receiver verifies and decodes one inbound webhook delivery. It is an
// interface so tests can substitute a fake that skips JWT verification.
type Receiver interface {
	Receive(body []byte, authHeader string) (*livekit.WebhookEvent, error)
}

// LiveKitReceiver verifies the webhook's JWT signature (sha256 body hash,
// signed with the room-service API key/secret) via the LiveKit SDK's
// WebhookReceiver, per the config's WebhookSecret.
type LiveKitReceiver struct {
	keyProvider auth.KeyProvider
}

// NewLiveKitReceiver builds a Receiver keyed on the LiveKit API key and
// the given secret (cmd/callcontrold passes Config.WebhookSecret, which
// defaults to the room-management API secret when unset).
func NewLiveKitReceiver(apiKey, apiSecret string) *LiveKitReceiver {
	return &LiveKitReceiver{keyProvider: auth.NewSimpleKeyProvider(apiKey, apiSecret)}
}

func (r *LiveKitReceiver) Receive(body []byte, authHeader string) (*livekit.WebhookEvent, error) {
	return lkwebhook.Receive(body, authHeader, r.keyProvider)
}
