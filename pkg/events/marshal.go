package events

import (
	"bytes"
	"encoding/json"
	"sort"
)

// envelopeKeys is the mandatory key order for the on-wire record. Extra
// fields follow, sorted, so the record is deterministic for tests and for
// diffing log lines.
var envelopeKeys = []string{"ts", "session_id", "component", "event_type", "severity", "correlation_id", "pii"}

// MarshalJSON renders the envelope fields first, in a stable order, followed
// by the extension fields sorted by key.
func (e Event) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	write := func(key string, value any, first bool) error {
		if !first {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return err
		}
		v, err := json.Marshal(value)
		if err != nil {
			return err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
		return nil
	}

	if err := write("ts", e.Ts.UTC().Format(rfc3339Nano), true); err != nil {
		return nil, err
	}
	if err := write("session_id", e.SessionID, false); err != nil {
		return nil, err
	}
	if err := write("component", e.Component, false); err != nil {
		return nil, err
	}
	if err := write("event_type", e.EventType, false); err != nil {
		return nil, err
	}
	if err := write("severity", e.Severity, false); err != nil {
		return nil, err
	}
	if err := write("correlation_id", e.CorrelationID, false); err != nil {
		return nil, err
	}
	if err := write("pii", e.PII, false); err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if isEnvelopeKey(k) {
			continue
		}
		if err := write(k, e.Fields[k], false); err != nil {
			return nil, err
		}
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

const rfc3339Nano = "2006-01-02T15:04:05.999999999Z07:00"

func isEnvelopeKey(k string) bool {
	for _, e := range envelopeKeys {
		if e == k {
			return true
		}
	}
	return false
}
