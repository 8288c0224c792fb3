package core

import (
	"testing"
	"time"
)

func TestParseMonthLabel(t *testing.T) {
	now := time.Date(2025, time.August, 15, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"2025-07", "2025-07", true},
		{"202507", "2025-07", true},
		{"july", "2025-07", true},
		{"Jul", "2025-07", true},
		{"march", "2025-03", true},
		{"sept", "2025-09", true},
		{"june 2024", "2024-06", true},
		{" 2025-07 ", "2025-07", true},
		{"", "", false},
		{"notamonth", "", false},
	}
	for i, tc := range cases {
		got, err := ParseMonthLabel(tc.in, now)
		if tc.ok && (err != nil || got != tc.want) {
			t.Fatalf("case %d: ParseMonthLabel(%q) = %q, %v; want %q", i, tc.in, got, err, tc.want)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d: expected error for %q", i, tc.in)
		}
	}
}

func TestMonthFromFilename(t *testing.T) {
	got, err := MonthFromFilename("out_june.csv", 2025)
	if err != nil || got != "2025-06" {
		t.Fatalf("got %q, %v", got, err)
	}
	if _, err := MonthFromFilename("report.csv", 2025); err == nil {
		t.Fatalf("expected error for unpatterned filename")
	}
}

func TestMonthDisplayName(t *testing.T) {
	if got := MonthDisplayName("2025-01"); got != "January 2025" {
		t.Fatalf("got %q", got)
	}
	if got := MonthDisplayName("weird"); got != "weird" {
		t.Fatalf("unparseable label should pass through, got %q", got)
	}
}

func TestTrendSeriesOrderingAndImmutability(t *testing.T) {
	points := []TrendPoint{
		{Month: "2025-03", TubeType: "blue", Sent: 1},
		{Month: "2025-01", TubeType: "sst", Sent: 2},
		{Month: "2025-01", TubeType: "acd", Sent: 3},
	}
	s := NewTrendSeries(points)

	months := s.Months()
	if len(months) != 2 || months[0] != "2025-01" || months[1] != "2025-03" {
		t.Fatalf("months = %v", months)
	}
	got := s.Points()
	if got[0].TubeType != "acd" || got[1].TubeType != "sst" || got[2].TubeType != "blue" {
		t.Fatalf("points not ordered: %+v", got)
	}

	// Mutating returned slices must not leak into the series.
	got[0].Sent = 999
	months[0] = "mutated"
	if s.Points()[0].Sent == 999 || s.Months()[0] == "mutated" {
		t.Fatalf("series exposed internal state")
	}
}
