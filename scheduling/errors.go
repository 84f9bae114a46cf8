/*
errors.go - Centralized error types for the scheduling engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  Callers branch on these with errors.Is / errors.As.

ERROR CATEGORIES:
  1. Validation errors - Malformed input, detected before any write
  2. Business outcomes - Conflicts and gating rules; expected, recoverable
  3. Store errors - Persistence failures, possibly transient

CONFLICTS ARE NOT FAILURES:
  A ConflictError is a normal scheduling outcome. It carries the complete
  list of conflicting records so a scheduler can split the requested range
  or pick another resource in a single round trip. Only ErrStoreUnavailable
  and unexpected store errors are operational failures.

SEE ALSO:
  - conflict.go: Produces ConflictError contents
  - engine.go: Returns these from every operation
*/
package scheduling

import (
	"errors"
	"fmt"
	"strings"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidInterval is returned when a date range has start after end.
	ErrInvalidInterval = errors.New("invalid interval: start after end")

	// ErrInvalidEmail is returned when a resource email is malformed.
	ErrInvalidEmail = errors.New("invalid email address")

	// ErrInvalidArgument is returned for malformed input outside the more
	// specific categories: blank required fields, unknown enum values,
	// negative rates or budgets.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrResourceConflict is returned when a candidate assignment overlaps
	// existing assignments or approved unavailability for the same resource.
	// Always wrapped in a ConflictError carrying the offending records.
	ErrResourceConflict = errors.New("resource conflict")

	// ErrAlreadyApproved is returned when approving an unavailability record
	// twice. Approval is a one-way transition.
	ErrAlreadyApproved = errors.New("unavailability already approved")

	// ErrUnsupportedRecurrencePattern is returned at creation time for a
	// recurrence grammar the engine does not understand.
	ErrUnsupportedRecurrencePattern = errors.New("unsupported recurrence pattern")

	// ErrReferentialConflict is returned when deleting an entity that other
	// records still reference.
	ErrReferentialConflict = errors.New("referenced by existing records")

	// ErrNotFound is returned when a referenced entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrStoreUnavailable is returned when the persistence layer times out
	// or is unreachable. Read-only operations are safe to retry; mutations
	// are not, until the store confirms the transaction rolled back.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ConflictError reports every record that collides with a candidate
// assignment, not just the first, so the caller can remediate all of them
// in one pass.
type ConflictError struct {
	ResourceID ResourceID
	Candidate  Interval
	Conflicts  []Conflict
}

func (e *ConflictError) Error() string {
	parts := make([]string, len(e.Conflicts))
	for i, c := range e.Conflicts {
		parts[i] = c.String()
	}
	return fmt.Sprintf("resource %s conflicts on %s: %s",
		e.ResourceID, e.Candidate, strings.Join(parts, "; "))
}

func (e *ConflictError) Unwrap() error { return ErrResourceConflict }

// ReferentialConflictError reports what still references the entity a
// caller tried to delete.
type ReferentialConflictError struct {
	Entity     string // "resource" or "project"
	ID         string
	References int
}

func (e *ReferentialConflictError) Error() string {
	return fmt.Sprintf("%s %s is %v (%d references)", e.Entity, e.ID, ErrReferentialConflict, e.References)
}

func (e *ReferentialConflictError) Unwrap() error { return ErrReferentialConflict }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid input or a
// recoverable business outcome rather than a system fault.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidInterval) ||
		errors.Is(err, ErrInvalidEmail) ||
		errors.Is(err, ErrInvalidArgument) ||
		errors.Is(err, ErrResourceConflict) ||
		errors.Is(err, ErrAlreadyApproved) ||
		errors.Is(err, ErrUnsupportedRecurrencePattern) ||
		errors.Is(err, ErrReferentialConflict)
}

// IsNotFound returns true if the error indicates a missing entity.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsRetryable returns true if the error might succeed on retry.
// Only meaningful for read-only operations.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrStoreUnavailable)
}
