package scheduling

import (
	"fmt"
	"time"
)

// =============================================================================
// DATE - Day-granular time point
// =============================================================================

// Date is a calendar day. All scheduling in this system happens at day
// granularity; hours and time zones are normalized away at construction.
type Date struct {
	Time time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates an arbitrary time.Time to its UTC calendar day.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

func Today() Date {
	return DateOf(time.Now().UTC())
}

// ParseDate parses "YYYY-MM-DD".
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q (use YYYY-MM-DD): %w", s, err)
	}
	return DateOf(t), nil
}

// Comparison
func (d Date) Before(other Date) bool        { return d.Time.Before(other.Time) }
func (d Date) After(other Date) bool         { return d.Time.After(other.Time) }
func (d Date) Equal(other Date) bool         { return d.Time.Equal(other.Time) }
func (d Date) BeforeOrEqual(other Date) bool { return !d.After(other) }
func (d Date) AfterOrEqual(other Date) bool  { return !d.Before(other) }

// Arithmetic
func (d Date) AddDays(n int) Date { return Date{Time: d.Time.AddDate(0, 0, n)} }

// Properties
func (d Date) Year() int             { return d.Time.Year() }
func (d Date) Month() time.Month     { return d.Time.Month() }
func (d Date) Day() int              { return d.Time.Day() }
func (d Date) Weekday() time.Weekday { return d.Time.Weekday() }
func (d Date) IsZero() bool          { return d.Time.IsZero() }

func (d Date) String() string { return d.Time.Format("2006-01-02") }

// DaysBetween returns the number of whole days from 'from' to 'to'.
// Exclusive of 'from': DaysBetween(d, d) == 0.
func DaysBetween(from, to Date) int {
	return int(to.Time.Sub(from.Time).Hours() / 24)
}

// =============================================================================
// INTERVAL - Closed date range [Start, End]
// =============================================================================

// Interval is a closed date range. Both endpoints are part of the interval:
// an assignment ending Jul 20 still occupies Jul 20.
type Interval struct {
	Start Date
	End   Date
}

// NewInterval constructs a validated interval. Start after End is the one
// malformed shape callers produce in practice (swapped date pickers), and it
// is rejected here rather than in every consumer.
func NewInterval(start, end Date) (Interval, error) {
	if start.After(end) {
		return Interval{}, fmt.Errorf("%w: start %s after end %s", ErrInvalidInterval, start, end)
	}
	return Interval{Start: start, End: end}, nil
}

// Overlaps is boundary-inclusive: two intervals sharing exactly one day
// overlap. [Jul 10, Jul 20] overlaps [Jul 20, Jul 25].
func (iv Interval) Overlaps(other Interval) bool {
	return iv.Start.BeforeOrEqual(other.End) && other.Start.BeforeOrEqual(iv.End)
}

// Contains returns true if the date falls within [Start, End].
func (iv Interval) Contains(d Date) bool {
	return d.AfterOrEqual(iv.Start) && d.BeforeOrEqual(iv.End)
}

// DurationDays is the inclusive day count: a single-day interval has duration 1.
func (iv Interval) DurationDays() int {
	return DaysBetween(iv.Start, iv.End) + 1
}

// Intersect clips this interval against another.
// Returns (zero, false) when they do not overlap.
func (iv Interval) Intersect(other Interval) (Interval, bool) {
	if !iv.Overlaps(other) {
		return Interval{}, false
	}
	start := iv.Start
	if other.Start.After(start) {
		start = other.Start
	}
	end := iv.End
	if other.End.Before(end) {
		end = other.End
	}
	return Interval{Start: start, End: end}, true
}

// Days returns every day in the interval in order.
func (iv Interval) Days() []Date {
	var days []Date
	for d := iv.Start; d.BeforeOrEqual(iv.End); d = d.AddDays(1) {
		days = append(days, d)
	}
	return days
}

func (iv Interval) String() string {
	return "[" + iv.Start.String() + ", " + iv.End.String() + "]"
}
