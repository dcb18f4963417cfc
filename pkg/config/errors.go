package config

import "fmt"

// ConfigError is the package's Op/Err/Code wrapped-error type. Load
// failures are fatal at startup per SPEC_FULL.md §7 — the entrypoint logs
// and exits rather than recovering.
type ConfigError struct {
	Op      string
	Code    string
	Message string
	Err     error
}

func (e *ConfigError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("config %s: %s (code: %s)", e.Op, e.Message, e.Code)
	}
	if e.Err != nil {
		return fmt.Sprintf("config %s: %v (code: %s)", e.Op, e.Err, e.Code)
	}
	return fmt.Sprintf("config %s: unknown error (code: %s)", e.Op, e.Code)
}

func (e *ConfigError) Unwrap() error { return e.Err }

const (
	ErrCodeLoad       = "load_failed"
	ErrCodeValidation = "validation_failed"
)

// NewLoadError reports a failure to read/parse the configuration source.
func NewLoadError(op, message string, err error) *ConfigError {
	return &ConfigError{Op: op, Code: ErrCodeLoad, Message: message, Err: err}
}

// NewValidationError reports missing/invalid required configuration.
func NewValidationError(op, message string, err error) *ConfigError {
	return &ConfigError{Op: op, Code: ErrCodeValidation, Message: message, Err: err}
}
