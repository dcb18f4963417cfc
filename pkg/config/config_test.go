package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimingDefaultsMatchSpec(t *testing.T) {
	var cfg Config
	assert.Equal(t, 900*time.Millisecond, cfg.ProcessingDelayAck())
	assert.Equal(t, 7000*time.Millisecond, cfg.UserSilenceReprompt())
	assert.Equal(t, 14000*time.Millisecond, cfg.UserSilenceClose())
}

func TestMaxCallDurationZeroOrNegativeDisablesGuard(t *testing.T) {
	cfg := Config{MaxCallDurationSeconds: 0}
	assert.Equal(t, time.Duration(0), cfg.MaxCallDuration())

	cfg.MaxCallDurationSeconds = -5
	assert.Equal(t, time.Duration(0), cfg.MaxCallDuration())

	cfg.MaxCallDurationSeconds = 600
	assert.Equal(t, 600*time.Second, cfg.MaxCallDuration())
}

func TestLoadFailsValidationWhenRequiredFieldsMissing(t *testing.T) {
	t.Setenv("LIVEKIT_URL", "")
	t.Setenv("LIVEKIT_API_KEY", "")
	t.Setenv("LIVEKIT_API_SECRET", "")
	t.Setenv("WEBHOOK_SECRET", "")

	_, err := Load("/nonexistent/path/for/test")
	assert.Error(t, err)
	var cfgErr *ConfigError
	assert.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, ErrCodeValidation, cfgErr.Code)
}

func TestLoadDefaultsWebhookSecretToAPISecret(t *testing.T) {
	t.Setenv("LIVEKIT_URL", "wss://example.livekit.cloud")
	t.Setenv("LIVEKIT_API_KEY", "key")
	t.Setenv("LIVEKIT_API_SECRET", "secretvalue")
	t.Setenv("WEBHOOK_SECRET", "")

	cfg, err := Load("/nonexistent/path/for/test")
	assert.NoError(t, err)
	assert.Equal(t, "secretvalue", cfg.WebhookSecret)
}
