package util

import (
	"strconv"
	"strings"
	"time"
)

const (
	// LayoutEnUS mirrors the en-US toLocaleString rendering.
	LayoutEnUS = "1/2/2006, 3:04:05 PM"
	// LayoutEnIN mirrors the en-IN toLocaleString rendering with hour12.
	LayoutEnIN = "2/1/2006, 3:04:05 pm"
	// LayoutISOMillis is an ISO-8601 UTC timestamp with millisecond precision.
	LayoutISOMillis = "2006-01-02T15:04:05.000Z"
)

var candleLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02",
}

// ParseTime tries provider datetime layouts, RFC3339 and unix seconds.
// Zone-less values are taken as UTC. Returns (t, true) if any worked.
func ParseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range candleLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, true
		}
	}
	if ts, err := strconv.ParseInt(s, 10, 64); err == nil && ts > 0 {
		return time.Unix(ts, 0).UTC(), true
	}
	return time.Time{}, false
}

// FormatIn renders t in loc using layout. A nil loc means UTC.
func FormatIn(t time.Time, loc *time.Location, layout string) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(layout)
}

// ISOMillis renders t the way JavaScript's Date.toISOString does.
func ISOMillis(t time.Time) string {
	return t.UTC().Format(LayoutISOMillis)
}
