package observer

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/voxbridge/callcontrol/pkg/httpclient"
)

// HTTPHangupRequester is the concrete HangupRequester: it POSTs to the
// control plane's POST /control/call/hangup over the bounded,
// rate-limited pool (pkg/httpclient, C10), as SPEC_FULL.md §4.10
// describes for C7's call into C5's hangup endpoint.
type HTTPHangupRequester struct {
	client  *httpclient.Client
	baseURL string
}

// NewHTTPHangupRequester builds a requester that posts to baseURL +
// "/control/call/hangup" through client.
func NewHTTPHangupRequester(client *httpclient.Client, baseURL string) *HTTPHangupRequester {
	return &HTTPHangupRequester{client: client, baseURL: baseURL}
}

type hangupRequestBody struct {
	SessionID string `json:"session_id"`
}

// RequestHangup reports whether the control API acknowledged the hangup
// with a 2xx response.
func (h *HTTPHangupRequester) RequestHangup(ctx context.Context, sessionID string) bool {
	body, err := json.Marshal(hangupRequestBody{SessionID: sessionID})
	if err != nil {
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.baseURL+"/control/call/hangup", bytes.NewReader(body))
	if err != nil {
		return false
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode >= 200 && resp.StatusCode < 300
}
