// Package httpclient provides the one bounded, rate-limited HTTP client
// used for every outbound provider/control call (C10): the Observer's
// HTTPHangupRequester posts through it to the control API, and
// cmd/callcontrold hands its *http.Client to pkg/roomclient's
// LiveKit room-service client.
package httpclient

import (
	"fmt"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// Config bounds the pool: connection reuse per host, request timeout, and
// a token-bucket rate limit.
type Config struct {
	MaxIdleConnsPerHost int
	Timeout             time.Duration
	RateLimitPerSecond  float64
	Burst               int
}

// DefaultConfig holds conservative defaults for outbound provider calls.
func DefaultConfig() Config {
	return Config{
		MaxIdleConnsPerHost: 10,
		Timeout:             5 * time.Second,
		RateLimitPerSecond:  20,
		Burst:               10,
	}
}

// Client wraps *http.Client with a rate limiter so a misbehaving timer
// storm (e.g. many sessions hitting max-duration at once) cannot open an
// unbounded number of outbound requests.
type Client struct {
	http    *http.Client
	limiter *rate.Limiter
}

// New builds a Client from cfg, falling back to DefaultConfig's zero
// fields.
func New(cfg Config) *Client {
	if cfg.MaxIdleConnsPerHost <= 0 {
		cfg.MaxIdleConnsPerHost = DefaultConfig().MaxIdleConnsPerHost
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}
	if cfg.RateLimitPerSecond <= 0 {
		cfg.RateLimitPerSecond = DefaultConfig().RateLimitPerSecond
	}
	if cfg.Burst <= 0 {
		cfg.Burst = DefaultConfig().Burst
	}

	transport := &http.Transport{MaxIdleConnsPerHost: cfg.MaxIdleConnsPerHost}
	return &Client{
		http:    &http.Client{Transport: transport, Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(rate.Limit(cfg.RateLimitPerSecond), cfg.Burst),
	}
}

// Do waits for a rate-limiter token (respecting ctx cancellation) and then
// issues req through the bounded client.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if err := c.limiter.Wait(req.Context()); err != nil {
		return nil, fmt.Errorf("httpclient: rate limit wait: %w", err)
	}
	return c.http.Do(req)
}

// HTTPClient exposes the underlying *http.Client for collaborators (e.g.
// pkg/roomclient) that need to hand one to a provider SDK constructor.
func (c *Client) HTTPClient() *http.Client {
	return c.http
}
