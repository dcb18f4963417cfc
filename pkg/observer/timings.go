package observer

import "time"

// Timings holds every timer duration the Observer schedules
// (SPEC_FULL.md §4.5). Callers normally populate this from
// pkg/config.Config's ProcessingDelayAck/UserSilenceReprompt/
// UserSilenceClose/MaxCallDuration accessors.
type Timings struct {
	ProcessingDelayAck time.Duration
	UserSilenceReprompt time.Duration
	UserSilenceClose    time.Duration
	// MaxCallDuration is the hard call ceiling. Zero disables the guard.
	MaxCallDuration time.Duration
}

// DefaultTimings mirrors the original voice pipeline's SilenceConfig
// defaults, with the max-duration guard disabled.
func DefaultTimings() Timings {
	return Timings{
		ProcessingDelayAck:  900 * time.Millisecond,
		UserSilenceReprompt: 7000 * time.Millisecond,
		UserSilenceClose:    14000 * time.Millisecond,
		MaxCallDuration:     0,
	}
}

// maxDurationWarnAt returns how long into the call the warning fires,
// 20 seconds before the hard ceiling. A ceiling shorter than 20s warns
// immediately.
func (t Timings) maxDurationWarnAt() time.Duration {
	warn := t.MaxCallDuration - 20*time.Second
	if warn < 0 {
		warn = 0
	}
	return warn
}
