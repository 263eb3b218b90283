package util

import (
	"strconv"
	"testing"
	"time"
)

func TestParseTimeProviderLayout(t *testing.T) {
	got, ok := ParseTime("2024-10-10 10:10:10")
	if !ok {
		t.Fatalf("expected ok")
	}
	want := time.Date(2024, 10, 10, 10, 10, 10, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("unexpected time %v", got)
	}
}

func TestParseTimeRFC3339(t *testing.T) {
	s := "2024-10-10T10:10:10Z"
	got, ok := ParseTime(s)
	if !ok {
		t.Fatalf("expected ok")
	}
	if got.UTC().Format(time.RFC3339) != s {
		t.Fatalf("unexpected time %v", got)
	}
}

func TestParseTimeDateOnly(t *testing.T) {
	got, ok := ParseTime("2024-10-10")
	if !ok || got.Day() != 10 || got.Hour() != 0 {
		t.Fatalf("unexpected %v %v", got, ok)
	}
}

func TestParseTimeUnix(t *testing.T) {
	ts := time.Date(2024, 10, 10, 10, 10, 10, 0, time.UTC).Unix()
	got, ok := ParseTime(strconv.FormatInt(ts, 10))
	if !ok {
		t.Fatalf("expected ok")
	}
	if got.Unix() != ts {
		t.Fatalf("unexpected unix %v", got.Unix())
	}
}

func TestParseTimeGarbage(t *testing.T) {
	if _, ok := ParseTime("yesterday"); ok {
		t.Fatalf("expected failure")
	}
}

func TestFormatIn(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)
	ts := time.Date(2024, 3, 5, 13, 4, 5, 0, time.UTC)
	if got := FormatIn(ts, loc, LayoutEnIN); got != "5/3/2024, 6:34:05 pm" {
		t.Fatalf("unexpected %q", got)
	}
	if got := FormatIn(ts, nil, LayoutEnUS); got != "3/5/2024, 1:04:05 PM" {
		t.Fatalf("unexpected %q", got)
	}
}

func TestISOMillis(t *testing.T) {
	ts := time.Date(2024, 3, 5, 13, 4, 5, 123456789, time.FixedZone("X", 3600))
	if got := ISOMillis(ts); got != "2024-03-05T12:04:05.123Z" {
		t.Fatalf("unexpected %q", got)
	}
}
