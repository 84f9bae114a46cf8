package scheduling_test

import (
	"errors"
	"testing"
	"time"

	"github.com/jdmdude62/SimpleProjectResourceManager-sub006/scheduling"
)

// =============================================================================
// PATTERN PARSING
// =============================================================================

func TestParseRecurrencePattern_Weekly(t *testing.T) {
	tests := []struct {
		in   string
		want time.Weekday
	}{
		{"WEEKLY:FRIDAY", time.Friday},
		{"weekly:friday", time.Friday},
		{"Weekly:Monday", time.Monday},
		{" WEEKLY:SUNDAY ", time.Sunday},
	}
	for _, tt := range tests {
		p, err := scheduling.ParseRecurrencePattern(tt.in)
		if err != nil {
			t.Fatalf("ParseRecurrencePattern(%q): %v", tt.in, err)
		}
		weekly, ok := p.(scheduling.WeeklyPattern)
		if !ok {
			t.Fatalf("ParseRecurrencePattern(%q) = %T, want WeeklyPattern", tt.in, p)
		}
		if weekly.Day != tt.want {
			t.Errorf("ParseRecurrencePattern(%q).Day = %v, want %v", tt.in, weekly.Day, tt.want)
		}
	}
}

func TestParseRecurrencePattern_Malformed(t *testing.T) {
	for _, in := range []string{"", "WEEKLY", "WEEKLY:", "WEEKLY:FRIDAYS", "MONTHLY:15", "DAILY:FRIDAY", "FRIDAY"} {
		if _, err := scheduling.ParseRecurrencePattern(in); !errors.Is(err, scheduling.ErrUnsupportedRecurrencePattern) {
			t.Errorf("ParseRecurrencePattern(%q) = %v, want ErrUnsupportedRecurrencePattern", in, err)
		}
	}
}

func TestWeeklyPattern_RoundTripsString(t *testing.T) {
	p, err := scheduling.ParseRecurrencePattern("WEEKLY:THURSDAY")
	if err != nil {
		t.Fatal(err)
	}
	if got := p.String(); got != "WEEKLY:THURSDAY" {
		t.Fatalf("String() = %q, want WEEKLY:THURSDAY", got)
	}
}

// =============================================================================
// EXPANSION
// =============================================================================

func TestWeeklyPattern_Occurrences_EveryFridayInYear(t *testing.T) {
	// Active window Jan 1 - Dec 31 2025; query the whole year.
	active := interval(t, date(2025, time.January, 1), date(2025, time.December, 31))
	p := scheduling.WeeklyPattern{Day: time.Friday}

	occ := p.Occurrences(active, active)
	if len(occ) != 52 {
		t.Fatalf("2025 has 52 Fridays, got %d", len(occ))
	}
	// First Friday of 2025 is Jan 3.
	if !occ[0].Start.Equal(date(2025, time.January, 3)) {
		t.Fatalf("first occurrence = %s, want 2025-01-03", occ[0].Start)
	}
	for _, iv := range occ {
		if iv.Start.Weekday() != time.Friday {
			t.Fatalf("occurrence %s is a %v", iv.Start, iv.Start.Weekday())
		}
		if !iv.Start.Equal(iv.End) {
			t.Fatalf("occurrence %s is not a single day", iv)
		}
	}
}

func TestWeeklyPattern_Occurrences_ClippedByQueryWindow(t *testing.T) {
	active := interval(t, date(2025, time.January, 1), date(2025, time.December, 31))
	p := scheduling.WeeklyPattern{Day: time.Friday}

	// Mon Jan 6 - Thu Jan 9 contains no Friday.
	week := interval(t, date(2025, time.January, 6), date(2025, time.January, 9))
	if occ := p.Occurrences(active, week); len(occ) != 0 {
		t.Fatalf("Mon-Thu window expanded to %v, want none", occ)
	}

	// Fri Jan 10 alone.
	friday := interval(t, date(2025, time.January, 10), date(2025, time.January, 10))
	occ := p.Occurrences(active, friday)
	if len(occ) != 1 || !occ[0].Start.Equal(date(2025, time.January, 10)) {
		t.Fatalf("single-Friday window expanded to %v", occ)
	}
}

func TestWeeklyPattern_Occurrences_ClippedByActiveWindow(t *testing.T) {
	// Pattern only active in March; querying the year must not leak out.
	active := interval(t, date(2025, time.March, 1), date(2025, time.March, 31))
	year := interval(t, date(2025, time.January, 1), date(2025, time.December, 31))
	p := scheduling.WeeklyPattern{Day: time.Friday}

	occ := p.Occurrences(active, year)
	if len(occ) != 4 {
		t.Fatalf("March 2025 has 4 Fridays (7, 14, 21, 28), got %d: %v", len(occ), occ)
	}
	for _, iv := range occ {
		if !active.Contains(iv.Start) {
			t.Fatalf("occurrence %s outside active window", iv.Start)
		}
	}
}

func TestWeeklyPattern_Occurrences_DisjointWindows(t *testing.T) {
	active := interval(t, date(2025, time.March, 1), date(2025, time.March, 31))
	query := interval(t, date(2025, time.June, 1), date(2025, time.June, 30))
	p := scheduling.WeeklyPattern{Day: time.Friday}
	if occ := p.Occurrences(active, query); occ != nil {
		t.Fatalf("disjoint windows expanded to %v", occ)
	}
}

func TestWeeklyPattern_Occurrences_Restartable(t *testing.T) {
	// Expansion is recomputed from the window bounds each call.
	active := interval(t, date(2025, time.January, 1), date(2025, time.December, 31))
	query := interval(t, date(2025, time.May, 1), date(2025, time.May, 31))
	p := scheduling.WeeklyPattern{Day: time.Wednesday}

	first := p.Occurrences(active, query)
	second := p.Occurrences(active, query)
	if len(first) != len(second) {
		t.Fatalf("repeat expansion differs: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if !first[i].Start.Equal(second[i].Start) {
			t.Fatalf("repeat expansion differs at %d: %s vs %s", i, first[i].Start, second[i].Start)
		}
	}
}
