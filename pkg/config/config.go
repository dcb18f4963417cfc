// Package config loads the control plane's environment-driven
// configuration (C11): automatic env-var binding, a "." -> "_" key
// replacer, and struct-tag validation.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config is every environment-sourced setting the control plane needs
// (SPEC_FULL.md §6).
type Config struct {
	LiveKitURL       string `mapstructure:"livekit_url" validate:"required"`
	LiveKitAPIKey    string `mapstructure:"livekit_api_key" validate:"required"`
	LiveKitAPISecret string `mapstructure:"livekit_api_secret" validate:"required"`
	WebhookSecret    string `mapstructure:"webhook_secret" validate:"required"`
	CallerID         string `mapstructure:"caller_id"`

	ControlPlaneURL string `mapstructure:"control_plane_url"`

	ProcessingDelayAckMS    int `mapstructure:"vp_processing_delay_ack_ms"`
	UserSilenceRepromptMS   int `mapstructure:"vp_user_silence_reprompt_ms"`
	UserSilenceCloseMS      int `mapstructure:"vp_user_silence_close_ms"`
	MaxCallDurationSeconds  int `mapstructure:"max_call_duration_seconds"`

	MaxEvents int `mapstructure:"max_events"`

	NoColor   bool `mapstructure:"no_color"`
	ForceColor bool `mapstructure:"force_color"`

	ListenAddr string `mapstructure:"listen_addr"`
}

// ProcessingDelayAck returns the configured processing-delay acknowledgement
// timer duration, defaulting to PROC_MS=900 per SPEC_FULL.md §4.5.
func (c Config) ProcessingDelayAck() time.Duration {
	return durationOrDefault(c.ProcessingDelayAckMS, 900)
}

// UserSilenceReprompt returns REPROMPT_MS, default 7000.
func (c Config) UserSilenceReprompt() time.Duration {
	return durationOrDefault(c.UserSilenceRepromptMS, 7000)
}

// UserSilenceClose returns CLOSE_MS, default 14000.
func (c Config) UserSilenceClose() time.Duration {
	return durationOrDefault(c.UserSilenceCloseMS, 14000)
}

// MaxCallDuration returns MAX_S as a duration; <= 0 disables the guard.
func (c Config) MaxCallDuration() time.Duration {
	if c.MaxCallDurationSeconds <= 0 {
		return 0
	}
	return time.Duration(c.MaxCallDurationSeconds) * time.Second
}

func durationOrDefault(ms, def int) time.Duration {
	if ms <= 0 {
		ms = def
	}
	return time.Duration(ms) * time.Millisecond
}

// Load reads configuration from the environment (with an optional
// .env_local-equivalent config file via configPaths), applies defaults,
// defaults WebhookSecret to LiveKitAPISecret when unset (matching
// original_source/control_plane/config.py), and validates required
// fields.
func Load(configPaths ...string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	// AutomaticEnv alone does not make env-only keys visible to Unmarshal;
	// bind every key so the environment reaches the Config struct.
	for _, key := range []string{
		"livekit_url", "livekit_api_key", "livekit_api_secret", "webhook_secret", "caller_id",
		"control_plane_url", "vp_processing_delay_ack_ms", "vp_user_silence_reprompt_ms",
		"vp_user_silence_close_ms", "max_call_duration_seconds", "max_events",
		"no_color", "force_color", "listen_addr",
	} {
		_ = v.BindEnv(key)
	}

	v.SetConfigName(".env_local")
	v.SetConfigType("env")
	for _, p := range configPaths {
		v.AddConfigPath(p)
	}
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, NewLoadError("load", "failed to read config file", err)
		}
	}

	v.SetDefault("caller_id", "+3197010206472")
	v.SetDefault("max_events", 10000)
	v.SetDefault("listen_addr", ":8080")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, NewLoadError("load", "failed to unmarshal config", err)
	}

	if cfg.WebhookSecret == "" {
		cfg.WebhookSecret = cfg.LiveKitAPISecret
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func validateConfig(cfg *Config) error {
	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return NewValidationError("load", fmt.Sprintf("missing required configuration: %v", err), err)
	}
	return nil
}
