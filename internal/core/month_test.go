package core

import (
	"testing"
	"time"
)

func TestMonthKeyAddMonths(t *testing.T) {
	cases := []struct {
		from MonthKey
		n    int
		want MonthKey
	}{
		{"2025-11", 0, "2025-11"},
		{"2025-11", 1, "2025-12"},
		{"2025-11", 2, "2026-01"},
		{"2025-11", 14, "2027-01"},
		{"2026-01", -1, "2025-12"},
		{"2026-03", -15, "2024-12"},
	}
	for _, tc := range cases {
		if got := tc.from.AddMonths(tc.n); got != tc.want {
			t.Fatalf("%s+%d expected %s, got %s", tc.from, tc.n, tc.want, got)
		}
	}
}

func TestMonthKeyEndOfMonthOrigin(t *testing.T) {
	// Jan 31 + 1 month must be February, not March.
	k := DateOf(time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)).MonthKey()
	if got := k.AddMonths(1); got != "2026-02" {
		t.Fatalf("expected 2026-02, got %s", got)
	}
}

func TestMonthKeyParts(t *testing.T) {
	k := NewMonthKey(2026, 3)
	if k != "2026-03" || k.Year() != 2026 || k.Month() != 3 {
		t.Fatalf("unexpected key %q", k)
	}
	if got := MonthKey("2026-03").MonthsSince("2025-11"); got != 4 {
		t.Fatalf("expected 4 months, got %d", got)
	}
	if _, err := ParseMonthKey("2026-13"); err == nil {
		t.Fatalf("expected error for month 13")
	}
	if got, err := ParseMonthKey("2026-07"); err != nil || got != "2026-07" {
		t.Fatalf("unexpected parse %q err=%v", got, err)
	}
}

func TestMonthLabel(t *testing.T) {
	if got := MonthLabel("2026-01"); got != "Jan/26" {
		t.Fatalf("unexpected label %q", got)
	}
	if got := MonthLabel("2025-12"); got != "Dez/25" {
		t.Fatalf("unexpected label %q", got)
	}
}
