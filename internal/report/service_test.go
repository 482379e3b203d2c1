package report

import (
	"testing"
	"time"
)

func TestPeriodKey(t *testing.T) {
	tests := []struct {
		at   string
		want string
	}{
		// Monday of week 35.
		{"2026-08-24T09:00:00Z", "2026-W35"},
		// Sunday still belongs to the same ISO week as the preceding Monday.
		{"2026-08-30T23:59:59Z", "2026-W35"},
		// Jan 1 2027 falls in ISO week 53 of 2026.
		{"2027-01-01T09:00:00Z", "2026-W53"},
		// Single-digit weeks are zero padded for stable lexical ordering.
		{"2026-01-05T09:00:00Z", "2026-W02"},
	}

	for _, tt := range tests {
		at, err := time.Parse(time.RFC3339, tt.at)
		if err != nil {
			t.Fatalf("parse %s: %v", tt.at, err)
		}
		if got := PeriodKey(at); got != tt.want {
			t.Errorf("PeriodKey(%s) = %q, want %q", tt.at, got, tt.want)
		}
	}
}

func TestPeriodKeySameWeekSameKey(t *testing.T) {
	mon, _ := time.Parse(time.RFC3339, "2026-08-24T09:00:00Z")
	fri, _ := time.Parse(time.RFC3339, "2026-08-28T17:30:00Z")
	if PeriodKey(mon) != PeriodKey(fri) {
		t.Errorf("two firings in one week must share a key: %q vs %q", PeriodKey(mon), PeriodKey(fri))
	}
}

func TestWindow(t *testing.T) {
	firedAt, _ := time.Parse(time.RFC3339, "2026-08-24T09:00:00Z")
	start, end := Window(firedAt)

	if !end.Equal(firedAt) {
		t.Errorf("end = %s, want %s", end, firedAt)
	}
	if want := firedAt.Add(-7 * 24 * time.Hour); !start.Equal(want) {
		t.Errorf("start = %s, want %s", start, want)
	}
}
