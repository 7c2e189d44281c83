package models

import (
	"errors"
	"strings"
	"time"
)

// TimestampLayout is the external rendering of event times. It carries no
// zone; all times are UTC wall clock.
const TimestampLayout = "2006-01-02T15:04:05"

var parseLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999",
}

// ErrEmptyTimestamp is returned by ParseTimestamp for blank input.
var ErrEmptyTimestamp = errors.New("timestamp is empty")

// ParseTimestamp accepts zone-less "YYYY-MM-DDTHH:MM:SS[.frac]" (read as UTC)
// or RFC3339 (converted to UTC). Results are truncated to microseconds, the
// precision both stores keep.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrEmptyTimestamp
	}
	var firstErr error
	for _, layout := range parseLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return NormalizeTimestamp(t), nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, firstErr
}

// NormalizeTimestamp converts t to UTC at microsecond precision.
func NormalizeTimestamp(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}

// FormatTimestamp renders t as YYYY-MM-DDTHH:MM:SS in UTC.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}
