package httpclient

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoIssuesRequestThroughBoundedClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := New(Config{RateLimitPerSecond: 1000, Burst: 1000})
	req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
	require.NoError(t, err)

	resp, err := c.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestDefaultConfigFillsZeroFields(t *testing.T) {
	c := New(Config{})
	assert.NotNil(t, c.HTTPClient())
	assert.Equal(t, DefaultConfig().Timeout, c.HTTPClient().Timeout)
	assert.Equal(t, DefaultConfig().MaxIdleConnsPerHost, c.HTTPClient().Transport.(*http.Transport).MaxIdleConnsPerHost)
	assert.Equal(t, DefaultConfig().Burst, c.limiter.Burst())
	assert.Equal(t, DefaultConfig().RateLimitPerSecond, float64(c.limiter.Limit()))
}
