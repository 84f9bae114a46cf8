package scheduling

import "context"

// =============================================================================
// AVAILABILITY RESOLUTION
// =============================================================================

// Resolver answers "can this resource take work in this period". It combines
// direct assignments with approved unavailability, expanding recurring
// patterns against the queried period.
type Resolver struct {
	store Store
}

func NewResolver(store Store) *Resolver {
	return &Resolver{store: store}
}

// IsAvailable returns true when the resource has no assignment and no
// approved unavailability anywhere in the period. Unapproved unavailability
// never blocks: a pending vacation request must not silently freeze
// scheduling before anyone signs off on it.
func (r *Resolver) IsAvailable(ctx context.Context, id ResourceID, period Interval) (bool, error) {
	assignments, err := r.store.FindOverlappingAssignments(ctx, id, period)
	if err != nil {
		return false, err
	}
	if len(assignments) > 0 {
		return false, nil
	}

	unavailability, err := r.store.FindOverlappingUnavailability(ctx, id, period, true)
	if err != nil {
		return false, err
	}
	for _, u := range unavailability {
		if u.Blocks(period) {
			return false, nil
		}
	}
	return true, nil
}

// UnavailableDays materializes every blocked day for the resource inside
// the period: assignment days, plain unavailability days, and expanded
// recurring occurrences. Used by reporting and calendar views.
func (r *Resolver) UnavailableDays(ctx context.Context, id ResourceID, period Interval) ([]Date, error) {
	blocked := make(map[Date]bool)

	assignments, err := r.store.FindOverlappingAssignments(ctx, id, period)
	if err != nil {
		return nil, err
	}
	for _, a := range assignments {
		if clipped, ok := a.Window.Intersect(period); ok {
			for _, d := range clipped.Days() {
				blocked[d] = true
			}
		}
	}

	unavailability, err := r.store.FindOverlappingUnavailability(ctx, id, period, true)
	if err != nil {
		return nil, err
	}
	for _, u := range unavailability {
		if u.Recurring() {
			for _, occ := range u.Pattern.Occurrences(u.Window, period) {
				blocked[occ.Start] = true
			}
			continue
		}
		if clipped, ok := u.Window.Intersect(period); ok {
			for _, d := range clipped.Days() {
				blocked[d] = true
			}
		}
	}

	var days []Date
	for d := period.Start; d.BeforeOrEqual(period.End); d = d.AddDays(1) {
		if blocked[d] {
			days = append(days, d)
		}
	}
	return days, nil
}
