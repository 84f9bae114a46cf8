package scheduling

import (
	"fmt"
	"strings"
	"time"
)

// =============================================================================
// RECURRENCE PATTERNS
// =============================================================================

// RecurrencePattern is a closed set of recurrence shapes, parsed once at
// creation time so a malformed pattern fails fast instead of at every
// expansion. The only shape in production use is weekly-by-day; the
// interface leaves room for monthly variants without reopening callers.
type RecurrencePattern interface {
	// Occurrences returns the concrete single-day intervals inside both the
	// record's active window and the query window, in order. The result is
	// recomputed from the two windows each call; there is no cached state.
	Occurrences(active, query Interval) []Interval

	// String renders the canonical wire form, e.g. "WEEKLY:FRIDAY".
	String() string
}

// WeeklyPattern repeats on one weekday, e.g. every Friday.
type WeeklyPattern struct {
	Day time.Weekday
}

func (p WeeklyPattern) Occurrences(active, query Interval) []Interval {
	window, ok := active.Intersect(query)
	if !ok {
		return nil
	}

	// Advance to the first matching weekday, then step a week at a time.
	first := window.Start
	offset := (int(p.Day) - int(first.Weekday()) + 7) % 7
	first = first.AddDays(offset)

	var out []Interval
	for d := first; d.BeforeOrEqual(window.End); d = d.AddDays(7) {
		out = append(out, Interval{Start: d, End: d})
	}
	return out
}

func (p WeeklyPattern) String() string {
	return "WEEKLY:" + strings.ToUpper(p.Day.String())
}

// =============================================================================
// PATTERN PARSING
// =============================================================================

var weekdayNames = map[string]time.Weekday{
	"SUNDAY":    time.Sunday,
	"MONDAY":    time.Monday,
	"TUESDAY":   time.Tuesday,
	"WEDNESDAY": time.Wednesday,
	"THURSDAY":  time.Thursday,
	"FRIDAY":    time.Friday,
	"SATURDAY":  time.Saturday,
}

// ParseRecurrencePattern parses the pattern grammar. Supported:
//
//	WEEKLY:<DAY_NAME>   every occurrence of the named weekday
//
// Day names are full English names, case-insensitive. Anything else fails
// with ErrUnsupportedRecurrencePattern.
func ParseRecurrencePattern(s string) (RecurrencePattern, error) {
	freq, arg, found := strings.Cut(strings.TrimSpace(s), ":")
	if !found {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedRecurrencePattern, s)
	}

	switch strings.ToUpper(freq) {
	case "WEEKLY":
		day, ok := weekdayNames[strings.ToUpper(strings.TrimSpace(arg))]
		if !ok {
			return nil, fmt.Errorf("%w: unknown weekday %q", ErrUnsupportedRecurrencePattern, arg)
		}
		return WeeklyPattern{Day: day}, nil
	default:
		return nil, fmt.Errorf("%w: unknown frequency %q", ErrUnsupportedRecurrencePattern, freq)
	}
}
