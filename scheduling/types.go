/*
Package scheduling provides the core project/resource scheduling engine.

PURPOSE:
  This package contains the domain model and algorithms for assigning
  human and material resources to time-bounded projects while honoring
  resource unavailability (vacation, sick leave, training, recurring
  days off). It decides whether a proposed assignment is legal given the
  existing assignments and approved unavailability for a resource, and
  derives the financial impact of the resulting allocation.

KEY CONCEPTS IN THIS FILE (types.go):
  - Project: A time-bounded engagement with a business code and budget
  - Resource: A person or asset with a category and daily rate
  - Assignment: A binding of one resource to one project for a date range
  - Unavailability: A period (or recurring pattern) blocking a resource

DESIGN PRINCIPLES:
  1. Precision: Uses decimal.Decimal for rates, budgets, and costs
  2. Type Safety: Strong typing for IDs prevents mixing entity kinds
  3. No back-pointers: Assignment and Unavailability hold foreign keys;
     reverse lookups are always computed by query, never cached in memory
  4. Closed enums: status, category, and unavailability type are closed
     sets rejected at the boundary, not free-form strings

SEE ALSO:
  - date.go: Date and Interval (closed range) value types
  - engine.go: The orchestrator that creates and mutates these entities
  - store.go: Persistence interfaces over these entities
*/
package scheduling

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type ProjectID string
type ResourceID string
type AssignmentID string
type UnavailabilityID string

// =============================================================================
// PROJECT
// =============================================================================

type ProjectStatus string

const (
	ProjectActive    ProjectStatus = "active"
	ProjectCompleted ProjectStatus = "completed"
	ProjectCancelled ProjectStatus = "cancelled"
	ProjectOnHold    ProjectStatus = "on_hold"
)

// ValidProjectStatus reports whether s is one of the closed status values.
func ValidProjectStatus(s ProjectStatus) bool {
	switch s {
	case ProjectActive, ProjectCompleted, ProjectCancelled, ProjectOnHold:
		return true
	}
	return false
}

// Project is a time-bounded engagement resources are assigned to.
// Window is inclusive on both ends. Projects are never physically deleted
// while assignments reference them; Deleted marks a soft delete.
type Project struct {
	ID          ProjectID
	Code        string // unique business code, e.g. "CH-2025-034"
	Description string
	Window      Interval
	Status      ProjectStatus
	Budget      *decimal.Decimal // optional, >= 0
	Deleted     bool
	CreatedAt   Date
}

// =============================================================================
// RESOURCE
// =============================================================================

type ResourceCategory string

const (
	CategoryInternal   ResourceCategory = "internal"
	CategoryThirdParty ResourceCategory = "third_party"
)

func ValidResourceCategory(c ResourceCategory) bool {
	return c == CategoryInternal || c == CategoryThirdParty
}

// Resource is a schedulable person or asset. DailyRate is optional; a
// resource with no rate contributes zero to cost calculations.
type Resource struct {
	ID        ResourceID
	Name      string
	Email     string // well-formed if present
	Category  ResourceCategory
	DailyRate *decimal.Decimal // optional, >= 0
	CreatedAt Date
}

// Rate returns the daily rate, or zero when none is set.
func (r Resource) Rate() decimal.Decimal {
	if r.DailyRate == nil {
		return decimal.Zero
	}
	return *r.DailyRate
}

// =============================================================================
// ASSIGNMENT
// =============================================================================

// Assignment binds a resource to a project for a closed date range.
// ResourceID is nil for an unassigned placeholder: the slot is planned but
// nobody fills it yet, and no conflict rules apply until a resource is set.
type Assignment struct {
	ID             AssignmentID
	ProjectID      ProjectID
	ResourceID     *ResourceID
	Window         Interval
	TravelOutDays  int // travel days before Window.Start, billable
	TravelBackDays int // travel days after Window.End, billable
	Notes          string
	Deleted        bool // soft delete preserves audit and cost history
	CreatedAt      Date
}

// BillableDays is the inclusive working span plus travel days on each side.
func (a Assignment) BillableDays() int {
	return a.Window.DurationDays() + a.TravelOutDays + a.TravelBackDays
}

// =============================================================================
// UNAVAILABILITY
// =============================================================================

type UnavailabilityType string

const (
	UnavailabilityVacation     UnavailabilityType = "vacation"
	UnavailabilityTraining     UnavailabilityType = "training"
	UnavailabilitySickLeave    UnavailabilityType = "sick_leave"
	UnavailabilityPersonalTime UnavailabilityType = "personal_time"
	UnavailabilityRecurring    UnavailabilityType = "recurring"
	UnavailabilityOther        UnavailabilityType = "other"
)

func ValidUnavailabilityType(t UnavailabilityType) bool {
	switch t {
	case UnavailabilityVacation, UnavailabilityTraining, UnavailabilitySickLeave,
		UnavailabilityPersonalTime, UnavailabilityRecurring, UnavailabilityOther:
		return true
	}
	return false
}

// Unavailability is a period during which a resource must not be assigned.
// For recurring records, Window is the active window bounding the pattern,
// not a single occurrence. Only approved records affect availability and
// conflict checks; a pending request is informational until approved.
type Unavailability struct {
	ID         UnavailabilityID
	ResourceID ResourceID
	Type       UnavailabilityType
	Window     Interval
	Reason     string
	Approved   bool
	ApprovedBy string            // set iff Approved
	Pattern    RecurrencePattern // non-nil iff recurring
	Deleted    bool
	CreatedAt  Date
}

// Recurring reports whether this record expands to a pattern of occurrences.
func (u Unavailability) Recurring() bool { return u.Pattern != nil }

// Blocks reports whether this record makes the resource unavailable anywhere
// in the candidate interval. Recurring records block only on concrete
// occurrences inside their active window.
func (u Unavailability) Blocks(candidate Interval) bool {
	if !u.Approved || u.Deleted {
		return false
	}
	if !u.Window.Overlaps(candidate) {
		return false
	}
	if u.Recurring() {
		return len(u.Pattern.Occurrences(u.Window, candidate)) > 0
	}
	return true
}
