package telemetry

import "fmt"

// TelemetryError is the package's Op/Err/Code wrapped-error type.
type TelemetryError struct {
	Op      string
	Code    string
	Message string
	Err     error
}

func (e *TelemetryError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("telemetry %s: %s (code: %s)", e.Op, e.Message, e.Code)
	}
	if e.Err != nil {
		return fmt.Sprintf("telemetry %s: %v (code: %s)", e.Op, e.Err, e.Code)
	}
	return fmt.Sprintf("telemetry %s: unknown error (code: %s)", e.Op, e.Code)
}

func (e *TelemetryError) Unwrap() error { return e.Err }

const ErrCodeSetup = "setup_failed"

func newSetupError(op string, err error) *TelemetryError {
	return &TelemetryError{Op: op, Code: ErrCodeSetup, Message: "failed to initialize telemetry provider", Err: err}
}
