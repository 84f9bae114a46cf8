package scheduling

import (
	"context"
	"fmt"
)

// =============================================================================
// CONFLICT DETECTION
// =============================================================================

// ConflictKind tags which entity kind collided with a candidate assignment.
type ConflictKind string

const (
	ConflictAssignment     ConflictKind = "assignment"
	ConflictUnavailability ConflictKind = "unavailability"
)

// Conflict is one record colliding with a candidate assignment. Exactly one
// of Assignment/Unavailability is set, per Kind.
type Conflict struct {
	Kind           ConflictKind
	Assignment     *Assignment
	Unavailability *Unavailability
}

// Window returns the offending record's stated interval.
func (c Conflict) Window() Interval {
	if c.Kind == ConflictAssignment {
		return c.Assignment.Window
	}
	return c.Unavailability.Window
}

func (c Conflict) String() string {
	switch c.Kind {
	case ConflictAssignment:
		return fmt.Sprintf("assignment %s %s", c.Assignment.ID, c.Assignment.Window)
	case ConflictUnavailability:
		return fmt.Sprintf("%s %s %s", c.Unavailability.Type, c.Unavailability.ID, c.Unavailability.Window)
	default:
		return string(c.Kind)
	}
}

// Detector finds every record that collides with a candidate assignment.
// It reads through a Store so the same logic runs inside a transaction
// (engine mutations) and outside one (advisory re-checks).
type Detector struct {
	store Store
}

func NewDetector(store Store) *Detector {
	return &Detector{store: store}
}

// FindConflicts returns the full list of conflicting records for the
// candidate, not just the first, so a caller can report and remediate all
// of them in one failure.
//
// Rules:
//   - A candidate with no resource never conflicts (unassigned placeholder).
//   - The candidate's own ID is excluded: updating an assignment must not
//     report the prior version of itself.
//   - Assignments for other resources are invisible here; the store query
//     is already scoped to the candidate's resource.
//   - Only approved unavailability counts. Recurring records conflict only
//     when the pattern expands to at least one day inside the candidate.
func (d *Detector) FindConflicts(ctx context.Context, candidate Assignment) ([]Conflict, error) {
	if candidate.ResourceID == nil {
		return nil, nil
	}
	resourceID := *candidate.ResourceID

	assignments, err := d.store.FindOverlappingAssignments(ctx, resourceID, candidate.Window)
	if err != nil {
		return nil, err
	}

	var conflicts []Conflict
	for i := range assignments {
		if assignments[i].ID == candidate.ID {
			continue
		}
		conflicts = append(conflicts, Conflict{Kind: ConflictAssignment, Assignment: &assignments[i]})
	}

	unavailability, err := d.store.FindOverlappingUnavailability(ctx, resourceID, candidate.Window, true)
	if err != nil {
		return nil, err
	}
	for i := range unavailability {
		if !unavailability[i].Blocks(candidate.Window) {
			continue
		}
		conflicts = append(conflicts, Conflict{Kind: ConflictUnavailability, Unavailability: &unavailability[i]})
	}

	return conflicts, nil
}
