package roomclient

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

var _ RoomService = (*LiveKitClient)(nil)

func TestNewLiveKitClientBuildsARoomServiceClient(t *testing.T) {
	c := NewLiveKitClient("https://example.livekit.cloud", "key", "secret", nil)
	assert.NotNil(t, c)
	assert.NotNil(t, c.rs)
}

func TestNewLiveKitClientAcceptsACustomHTTPClient(t *testing.T) {
	c := NewLiveKitClient("https://example.livekit.cloud", "key", "secret", http.DefaultClient)
	assert.NotNil(t, c)
	assert.NotNil(t, c.rs)
}
