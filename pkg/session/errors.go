package session

import "fmt"

// SessionError is the package's Op/Err/Code wrapped-error type.
type SessionError struct {
	Op      string
	Code    string
	Message string
	Err     error
}

func (e *SessionError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("session %s: %s (code: %s)", e.Op, e.Message, e.Code)
	}
	if e.Err != nil {
		return fmt.Sprintf("session %s: %v (code: %s)", e.Op, e.Err, e.Code)
	}
	return fmt.Sprintf("session %s: unknown error (code: %s)", e.Op, e.Code)
}

func (e *SessionError) Unwrap() error { return e.Err }

const (
	ErrCodeNotFound           = "not_found"
	ErrCodeInvalidTransition  = "invalid_transition"
	ErrCodeInvalidFilter      = "invalid_filter"
	ErrCodeInvalidArgument    = "invalid_argument"
)

// NewNotFoundError reports a missing session.
func NewNotFoundError(op, sessionID string) *SessionError {
	return &SessionError{Op: op, Code: ErrCodeNotFound, Message: "session not found: " + sessionID}
}

// NewInvalidTransitionError reports a non-monotonic state transition
// attempt — a programming error, not a user error (SPEC_FULL.md §4.1).
func NewInvalidTransitionError(op string, from, to State) *SessionError {
	return &SessionError{
		Op:      op,
		Code:    ErrCodeInvalidTransition,
		Message: fmt.Sprintf("illegal transition %s -> %s", from, to),
	}
}

// NewInvalidFilterError reports an unknown state/direction filter value.
func NewInvalidFilterError(op, message string) *SessionError {
	return &SessionError{Op: op, Code: ErrCodeInvalidFilter, Message: message}
}

// NewInvalidArgumentError reports a bad Create argument (e.g. unknown direction).
func NewInvalidArgumentError(op, message string) *SessionError {
	return &SessionError{Op: op, Code: ErrCodeInvalidArgument, Message: message}
}
