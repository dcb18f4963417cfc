package events

import (
	"strings"
	"time"
)

// ParseBoundary parses a since/until query parameter. It accepts RFC3339
// with a "Z" or "±HH:MM" offset; a timestamp with no zone is treated as
// UTC; a literal space where a "+" offset sign was URL-decoded away is
// tolerated by re-inserting the sign before the last colon-bearing offset
// segment, per SPEC_FULL.md §4.3.
func ParseBoundary(op, raw string) (time.Time, error) {
	candidates := []string{raw, restorePlus(raw)}
	layouts := []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05"}

	for _, c := range candidates {
		for _, layout := range layouts {
			if t, err := time.Parse(layout, c); err == nil {
				if layout == "2006-01-02T15:04:05" {
					return t.UTC(), nil
				}
				return t, nil
			}
		}
	}
	return time.Time{}, NewInvalidFilterError(op, "invalid timestamp: "+raw, nil)
}

// restorePlus turns "2024-01-01T10:00:00 02:00" back into
// "2024-01-01T10:00:00+02:00" — transports commonly decode a query-string
// "+" into a literal space.
func restorePlus(s string) string {
	idx := strings.LastIndex(s, " ")
	if idx < 0 {
		return s
	}
	rest := s[idx+1:]
	if !strings.Contains(rest, ":") {
		return s
	}
	return s[:idx] + "+" + rest
}
