package observer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxbridge/callcontrol/pkg/httpclient"
)

func TestHTTPHangupRequesterPostsSessionIDAndReturnsTrueOn2xx(t *testing.T) {
	var gotPath string
	var gotBody hangupRequestBody
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	requester := NewHTTPHangupRequester(httpclient.New(httpclient.DefaultConfig()), server.URL)
	ok := requester.RequestHangup(context.Background(), "sess_1")

	assert.True(t, ok)
	assert.Equal(t, "/control/call/hangup", gotPath)
	assert.Equal(t, "sess_1", gotBody.SessionID)
}

func TestHTTPHangupRequesterReturnsFalseOnNon2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	requester := NewHTTPHangupRequester(httpclient.New(httpclient.DefaultConfig()), server.URL)
	ok := requester.RequestHangup(context.Background(), "sess_2")

	assert.False(t, ok)
}
