package scheduling_test

import (
	"errors"
	"testing"
	"time"

	"github.com/jdmdude62/SimpleProjectResourceManager-sub006/scheduling"
)

// =============================================================================
// TEST HELPERS (shared across this package's tests)
// =============================================================================

func date(year int, month time.Month, day int) scheduling.Date {
	return scheduling.NewDate(year, month, day)
}

func interval(t *testing.T, start, end scheduling.Date) scheduling.Interval {
	t.Helper()
	iv, err := scheduling.NewInterval(start, end)
	if err != nil {
		t.Fatalf("NewInterval(%s, %s): %v", start, end, err)
	}
	return iv
}

// =============================================================================
// INTERVAL CONSTRUCTION
// =============================================================================

func TestNewInterval_StartAfterEnd_Rejected(t *testing.T) {
	_, err := scheduling.NewInterval(date(2025, time.July, 20), date(2025, time.July, 10))
	if !errors.Is(err, scheduling.ErrInvalidInterval) {
		t.Fatalf("expected ErrInvalidInterval, got %v", err)
	}
}

func TestNewInterval_SingleDay_Valid(t *testing.T) {
	iv := interval(t, date(2025, time.July, 10), date(2025, time.July, 10))
	if got := iv.DurationDays(); got != 1 {
		t.Fatalf("single-day interval duration = %d, want 1", got)
	}
}

// =============================================================================
// OVERLAP SEMANTICS
// =============================================================================

func TestInterval_Overlaps_BoundaryInclusive(t *testing.T) {
	// Two intervals sharing exactly one boundary day DO overlap.
	tests := []struct {
		name string
		a    [4]int // aStartDay, aEndDay, bStartDay, bEndDay (all July 2025)
		want bool
	}{
		{"shared end/start boundary day", [4]int{10, 20, 20, 25}, true},
		{"adjacent, one day apart", [4]int{1, 14, 15, 20}, false},
		{"identical", [4]int{10, 20, 10, 20}, true},
		{"contained", [4]int{10, 20, 12, 15}, true},
		{"containing", [4]int{12, 15, 10, 20}, true},
		{"partial front overlap", [4]int{10, 20, 5, 12}, true},
		{"disjoint before", [4]int{1, 5, 10, 20}, false},
		{"disjoint after", [4]int{25, 30, 10, 20}, false},
		{"single shared day both single", [4]int{15, 15, 15, 15}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := interval(t, date(2025, time.July, tt.a[0]), date(2025, time.July, tt.a[1]))
			b := interval(t, date(2025, time.July, tt.a[2]), date(2025, time.July, tt.a[3]))
			if got := a.Overlaps(b); got != tt.want {
				t.Errorf("%s.Overlaps(%s) = %v, want %v", a, b, got, tt.want)
			}
			// Overlap is symmetric.
			if got := b.Overlaps(a); got != tt.want {
				t.Errorf("%s.Overlaps(%s) = %v, want %v (symmetry)", b, a, got, tt.want)
			}
		})
	}
}

// =============================================================================
// DURATION AND INTERSECTION
// =============================================================================

func TestInterval_DurationDays_Inclusive(t *testing.T) {
	tests := []struct {
		startDay, endDay int
		want             int
	}{
		{1, 30, 30},
		{10, 20, 11},
		{15, 15, 1},
	}
	for _, tt := range tests {
		iv := interval(t, date(2025, time.June, tt.startDay), date(2025, time.June, tt.endDay))
		if got := iv.DurationDays(); got != tt.want {
			t.Errorf("%s.DurationDays() = %d, want %d", iv, got, tt.want)
		}
	}
}

func TestInterval_Intersect(t *testing.T) {
	a := interval(t, date(2025, time.March, 1), date(2025, time.March, 20))
	b := interval(t, date(2025, time.March, 15), date(2025, time.March, 31))

	clipped, ok := a.Intersect(b)
	if !ok {
		t.Fatal("expected overlap")
	}
	if !clipped.Start.Equal(date(2025, time.March, 15)) || !clipped.End.Equal(date(2025, time.March, 20)) {
		t.Fatalf("Intersect = %s, want [2025-03-15, 2025-03-20]", clipped)
	}

	c := interval(t, date(2025, time.April, 1), date(2025, time.April, 5))
	if _, ok := a.Intersect(c); ok {
		t.Fatal("disjoint intervals must not intersect")
	}
}

func TestInterval_Days_CoversWholeRange(t *testing.T) {
	iv := interval(t, date(2025, time.February, 27), date(2025, time.March, 2))
	days := iv.Days()
	if len(days) != 4 {
		t.Fatalf("len(Days()) = %d, want 4 (Feb 27, 28, Mar 1, 2)", len(days))
	}
	if !days[1].Equal(date(2025, time.February, 28)) || !days[2].Equal(date(2025, time.March, 1)) {
		t.Fatalf("month boundary crossing wrong: %v", days)
	}
}

func TestParseDate(t *testing.T) {
	d, err := scheduling.ParseDate("2025-07-20")
	if err != nil {
		t.Fatal(err)
	}
	if !d.Equal(date(2025, time.July, 20)) {
		t.Fatalf("ParseDate = %s", d)
	}
	if _, err := scheduling.ParseDate("20/07/2025"); err == nil {
		t.Fatal("expected error for non-ISO format")
	}
}
