package events

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
)

// Sink writes a rendered event line somewhere — stdout in production, a
// buffer in tests.
type Sink interface {
	Write(e Event)
}

// JSONSink writes one JSON object per line, exactly the stored record —
// the "machine" rendering from SPEC_FULL.md's event sink contract.
type JSONSink struct {
	mu sync.Mutex
	w  io.Writer
}

// NewJSONSink wraps w (os.Stdout by default) for machine-readable output.
func NewJSONSink(w io.Writer) *JSONSink {
	if w == nil {
		w = os.Stdout
	}
	return &JSONSink{w: w}
}

func (s *JSONSink) Write(e Event) {
	data, err := json.Marshal(e)
	if err != nil {
		// Observability side failures must never propagate (SPEC_FULL.md §7).
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.w.Write(data)
	s.w.Write([]byte("\n"))
}

// HumanSink renders events for an operator's terminal: latency_ms becomes
// "<N> ms", and each line is ANSI-coloured by severity unless
// github.com/fatih/color's global NoColor is set (fatih/color sets it when
// NO_COLOR is present or stdout is not a terminal; cmd/callcontrold also
// sets it from configuration).
type HumanSink struct {
	mu sync.Mutex
	w  io.Writer
}

// NewHumanSink wraps w for operator-facing rendering.
func NewHumanSink(w io.Writer) *HumanSink {
	if w == nil {
		w = os.Stdout
	}
	return &HumanSink{w: w}
}

var severityColor = map[Severity]*color.Color{
	SeverityDebug: color.New(color.FgWhite),
	SeverityInfo:  color.New(color.FgGreen),
	SeverityWarn:  color.New(color.FgYellow),
	SeverityError: color.New(color.FgRed),
}

func (s *HumanSink) Write(e Event) {
	line := fmt.Sprintf("[%s] %-5s %-12s %s session=%s corr=%s",
		e.Ts.UTC().Format(rfc3339Nano), e.Severity, e.Component, e.EventType, e.SessionID, e.CorrelationID)

	if latency, ok := e.Fields["latency_ms"]; ok {
		line += fmt.Sprintf(" latency=%v ms", latency)
	}
	for k, v := range e.Fields {
		if k == "latency_ms" {
			continue
		}
		line += fmt.Sprintf(" %s=%v", k, v)
	}

	c, ok := severityColor[e.Severity]
	s.mu.Lock()
	defer s.mu.Unlock()
	if ok {
		c.Fprintln(s.w, line)
		return
	}
	fmt.Fprintln(s.w, line)
}

// MultiSink fans writes out to several sinks; used to drive both the
// machine JSON sink and a human TTY sink from one emitter.
type MultiSink struct {
	sinks []Sink
}

// NewMultiSink combines sinks, skipping any nil entries.
func NewMultiSink(sinks ...Sink) *MultiSink {
	filtered := make([]Sink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			filtered = append(filtered, s)
		}
	}
	return &MultiSink{sinks: filtered}
}

func (m *MultiSink) Write(e Event) {
	for _, s := range m.sinks {
		s.Write(e)
	}
}
