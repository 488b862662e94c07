package model

import (
	"strings"
	"time"
)

// Layouts the backend has been seen to emit. Python's isoformat() omits the zone for naive
// datetimes; those are treated as local time.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ParseTimestamp parses a backend ISO-8601 timestamp.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// LocalTime renders a backend timestamp for display. Empty input renders as "-",
// unparseable input is shown verbatim.
func LocalTime(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	t, ok := ParseTimestamp(s)
	if !ok {
		return s
	}
	return t.Local().Format("2006-01-02 15:04:05")
}

// FormatDuration renders a recording duration in seconds.
func FormatDuration(secs *int64) string {
	if secs == nil {
		return "-"
	}
	return (time.Duration(*secs) * time.Second).String()
}
