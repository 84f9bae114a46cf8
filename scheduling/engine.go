/*
engine.go - Scheduling orchestrator

PURPOSE:
  The facade external callers use. Creates and mutates projects,
  resources, assignments, and unavailability records while enforcing
  conflict rules and approval gating. Every mutation is atomic: the
  conflict scan and the write run inside one store transaction, so two
  concurrent creates for the same resource cannot both slip past
  validation and commit overlapping intervals.

OPERATION SHAPE:
  1. Validate input (intervals, enums, email, pattern grammar)
  2. Open a store transaction
  3. Scan for conflicts / load referenced entities
  4. Write, or return the business outcome without writing
  Validation always completes before any persistence write; a rejected
  request leaves no state behind.

REMEDIATION IS THE CALLER'S JOB:
  The engine never auto-cancels or auto-reassigns. A ConflictError hands
  the caller everything needed to split the range or substitute a
  resource; HasConflicts flags an existing assignment invalidated by
  late-arriving unavailability and leaves the decision to the caller.

SEE ALSO:
  - conflict.go: Conflict scan used before each assignment write
  - availability.go: Read-side availability resolution
  - cost.go: Cost impact over committed assignments
*/
package scheduling

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Engine orchestrates all scheduling operations over a transactional store.
// Construct one per store; it holds no state of its own.
type Engine struct {
	store TxStore
}

func NewEngine(store TxStore) *Engine {
	return &Engine{store: store}
}

func newID() string { return uuid.NewString() }

// =============================================================================
// PROJECTS
// =============================================================================

// CreateProject validates the window and registers a new active project.
func (e *Engine) CreateProject(ctx context.Context, code, description string, start, end Date, budget *decimal.Decimal) (*Project, error) {
	window, err := NewInterval(start, end)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(code) == "" {
		return nil, fmt.Errorf("%w: project code is required", ErrInvalidArgument)
	}
	if budget != nil && budget.IsNegative() {
		return nil, fmt.Errorf("%w: budget must be >= 0, got %s", ErrInvalidArgument, budget)
	}

	project := Project{
		ID:          ProjectID(newID()),
		Code:        code,
		Description: description,
		Window:      window,
		Status:      ProjectActive,
		Budget:      budget,
		CreatedAt:   Today(),
	}

	err = e.store.WithTx(ctx, func(s Store) error {
		existing, err := s.GetProjectByCode(ctx, code)
		if err != nil {
			return err
		}
		if existing != nil {
			return fmt.Errorf("%w: project code %q already in use", ErrInvalidArgument, code)
		}
		return s.SaveProject(ctx, project)
	})
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (e *Engine) GetProject(ctx context.Context, id ProjectID) (*Project, error) {
	p, err := e.store.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil || p.Deleted {
		return nil, fmt.Errorf("project %s: %w", id, ErrNotFound)
	}
	return p, nil
}

func (e *Engine) ListProjects(ctx context.Context) ([]Project, error) {
	return e.store.ListProjects(ctx)
}

// UpdateProjectStatus moves a project through its lifecycle.
func (e *Engine) UpdateProjectStatus(ctx context.Context, id ProjectID, status ProjectStatus) (*Project, error) {
	if !ValidProjectStatus(status) {
		return nil, fmt.Errorf("%w: unknown project status %q", ErrInvalidArgument, status)
	}

	var updated *Project
	err := e.store.WithTx(ctx, func(s Store) error {
		p, err := s.GetProject(ctx, id)
		if err != nil {
			return err
		}
		if p == nil || p.Deleted {
			return fmt.Errorf("project %s: %w", id, ErrNotFound)
		}
		p.Status = status
		updated = p
		return s.SaveProject(ctx, *p)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// SetProjectBudget replaces the project budget. Pass nil to clear it.
func (e *Engine) SetProjectBudget(ctx context.Context, id ProjectID, budget *decimal.Decimal) (*Project, error) {
	if budget != nil && budget.IsNegative() {
		return nil, fmt.Errorf("%w: budget must be >= 0, got %s", ErrInvalidArgument, budget)
	}

	var updated *Project
	err := e.store.WithTx(ctx, func(s Store) error {
		p, err := s.GetProject(ctx, id)
		if err != nil {
			return err
		}
		if p == nil || p.Deleted {
			return fmt.Errorf("project %s: %w", id, ErrNotFound)
		}
		p.Budget = budget
		updated = p
		return s.SaveProject(ctx, *p)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteProject soft-deletes a project. Blocked while live assignments
// still reference it.
func (e *Engine) DeleteProject(ctx context.Context, id ProjectID) error {
	return e.store.WithTx(ctx, func(s Store) error {
		p, err := s.GetProject(ctx, id)
		if err != nil {
			return err
		}
		if p == nil || p.Deleted {
			return fmt.Errorf("project %s: %w", id, ErrNotFound)
		}
		assignments, err := s.FindAssignmentsByProject(ctx, id, false)
		if err != nil {
			return err
		}
		if len(assignments) > 0 {
			return &ReferentialConflictError{Entity: "project", ID: string(id), References: len(assignments)}
		}
		p.Deleted = true
		return s.SaveProject(ctx, *p)
	})
}

// =============================================================================
// RESOURCES
// =============================================================================

// CreateResource registers a schedulable resource. Email is optional but
// must parse when present.
func (e *Engine) CreateResource(ctx context.Context, name, email string, category ResourceCategory, dailyRate *decimal.Decimal) (*Resource, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: resource name is required", ErrInvalidArgument)
	}
	if !ValidResourceCategory(category) {
		return nil, fmt.Errorf("%w: unknown resource category %q", ErrInvalidArgument, category)
	}
	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidEmail, email)
		}
	}
	if dailyRate != nil && dailyRate.IsNegative() {
		return nil, fmt.Errorf("%w: daily rate must be >= 0, got %s", ErrInvalidArgument, dailyRate)
	}

	resource := Resource{
		ID:        ResourceID(newID()),
		Name:      name,
		Email:     email,
		Category:  category,
		DailyRate: dailyRate,
		CreatedAt: Today(),
	}
	if err := e.store.SaveResource(ctx, resource); err != nil {
		return nil, err
	}
	return &resource, nil
}

func (e *Engine) GetResource(ctx context.Context, id ResourceID) (*Resource, error) {
	r, err := e.store.GetResource(ctx, id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, fmt.Errorf("resource %s: %w", id, ErrNotFound)
	}
	return r, nil
}

func (e *Engine) ListResources(ctx context.Context) ([]Resource, error) {
	return e.store.ListResources(ctx)
}

// UpdateResource changes the mutable resource fields: rate and category.
func (e *Engine) UpdateResource(ctx context.Context, id ResourceID, category ResourceCategory, dailyRate *decimal.Decimal) (*Resource, error) {
	if !ValidResourceCategory(category) {
		return nil, fmt.Errorf("%w: unknown resource category %q", ErrInvalidArgument, category)
	}
	if dailyRate != nil && dailyRate.IsNegative() {
		return nil, fmt.Errorf("%w: daily rate must be >= 0, got %s", ErrInvalidArgument, dailyRate)
	}

	var updated *Resource
	err := e.store.WithTx(ctx, func(s Store) error {
		r, err := s.GetResource(ctx, id)
		if err != nil {
			return err
		}
		if r == nil {
			return fmt.Errorf("resource %s: %w", id, ErrNotFound)
		}
		r.Category = category
		r.DailyRate = dailyRate
		updated = r
		return s.SaveResource(ctx, *r)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteResource removes a resource. Fails with ReferentialConflict while
// any assignment or unavailability record still references it; those must
// be deleted or reassigned first.
func (e *Engine) DeleteResource(ctx context.Context, id ResourceID) error {
	return e.store.WithTx(ctx, func(s Store) error {
		r, err := s.GetResource(ctx, id)
		if err != nil {
			return err
		}
		if r == nil {
			return fmt.Errorf("resource %s: %w", id, ErrNotFound)
		}
		refs, err := s.CountResourceReferences(ctx, id)
		if err != nil {
			return err
		}
		if refs > 0 {
			return &ReferentialConflictError{Entity: "resource", ID: string(id), References: refs}
		}
		return s.DeleteResource(ctx, id)
	})
}

// =============================================================================
// ASSIGNMENTS
// =============================================================================

// AssignmentParams carries the optional assignment fields.
type AssignmentParams struct {
	TravelOutDays  int
	TravelBackDays int
	Notes          string
}

// CreateAssignment validates the window, scans for conflicts, and persists
// the assignment - all inside one transaction. A nil resourceID creates an
// unassigned placeholder that skips conflict rules. On conflict the error
// carries every offending record so the caller can split the range and
// retry (the schedule-around-vacation pattern).
func (e *Engine) CreateAssignment(ctx context.Context, projectID ProjectID, resourceID *ResourceID, start, end Date, params AssignmentParams) (*Assignment, error) {
	window, err := NewInterval(start, end)
	if err != nil {
		return nil, err
	}
	if params.TravelOutDays < 0 || params.TravelBackDays < 0 {
		return nil, fmt.Errorf("%w: travel day counts must be >= 0", ErrInvalidArgument)
	}

	assignment := Assignment{
		ID:             AssignmentID(newID()),
		ProjectID:      projectID,
		ResourceID:     resourceID,
		Window:         window,
		TravelOutDays:  params.TravelOutDays,
		TravelBackDays: params.TravelBackDays,
		Notes:          params.Notes,
		CreatedAt:      Today(),
	}

	err = e.store.WithTx(ctx, func(s Store) error {
		if err := e.checkAssignmentTargets(ctx, s, assignment); err != nil {
			return err
		}
		conflicts, err := NewDetector(s).FindConflicts(ctx, assignment)
		if err != nil {
			return err
		}
		if len(conflicts) > 0 {
			return &ConflictError{ResourceID: *resourceID, Candidate: window, Conflicts: conflicts}
		}
		return s.SaveAssignment(ctx, assignment)
	})
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

// UpdateAssignment re-validates and re-scans with the new window and
// resource. The assignment's own prior version never counts as a conflict.
func (e *Engine) UpdateAssignment(ctx context.Context, id AssignmentID, resourceID *ResourceID, start, end Date, params AssignmentParams) (*Assignment, error) {
	window, err := NewInterval(start, end)
	if err != nil {
		return nil, err
	}
	if params.TravelOutDays < 0 || params.TravelBackDays < 0 {
		return nil, fmt.Errorf("%w: travel day counts must be >= 0", ErrInvalidArgument)
	}

	var updated *Assignment
	err = e.store.WithTx(ctx, func(s Store) error {
		existing, err := s.GetAssignment(ctx, id)
		if err != nil {
			return err
		}
		if existing == nil || existing.Deleted {
			return fmt.Errorf("assignment %s: %w", id, ErrNotFound)
		}

		candidate := *existing
		candidate.ResourceID = resourceID
		candidate.Window = window
		candidate.TravelOutDays = params.TravelOutDays
		candidate.TravelBackDays = params.TravelBackDays
		candidate.Notes = params.Notes

		if err := e.checkAssignmentTargets(ctx, s, candidate); err != nil {
			return err
		}
		conflicts, err := NewDetector(s).FindConflicts(ctx, candidate)
		if err != nil {
			return err
		}
		if len(conflicts) > 0 {
			return &ConflictError{ResourceID: *resourceID, Candidate: window, Conflicts: conflicts}
		}
		updated = &candidate
		return s.SaveAssignment(ctx, candidate)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteAssignment soft-deletes, keeping the row for audit and cost history.
func (e *Engine) DeleteAssignment(ctx context.Context, id AssignmentID) error {
	return e.store.WithTx(ctx, func(s Store) error {
		a, err := s.GetAssignment(ctx, id)
		if err != nil {
			return err
		}
		if a == nil || a.Deleted {
			return fmt.Errorf("assignment %s: %w", id, ErrNotFound)
		}
		a.Deleted = true
		return s.SaveAssignment(ctx, *a)
	})
}

func (e *Engine) AssignmentsByProject(ctx context.Context, id ProjectID) ([]Assignment, error) {
	return e.store.FindAssignmentsByProject(ctx, id, false)
}

func (e *Engine) AssignmentsByResource(ctx context.Context, id ResourceID) ([]Assignment, error) {
	return e.store.FindAssignmentsByResource(ctx, id)
}

// checkAssignmentTargets verifies the project and resource an assignment
// points at exist and are live.
func (e *Engine) checkAssignmentTargets(ctx context.Context, s Store, a Assignment) error {
	project, err := s.GetProject(ctx, a.ProjectID)
	if err != nil {
		return err
	}
	if project == nil || project.Deleted {
		return fmt.Errorf("project %s: %w", a.ProjectID, ErrNotFound)
	}
	if a.ResourceID != nil {
		resource, err := s.GetResource(ctx, *a.ResourceID)
		if err != nil {
			return err
		}
		if resource == nil {
			return fmt.Errorf("resource %s: %w", *a.ResourceID, ErrNotFound)
		}
	}
	return nil
}

// =============================================================================
// UNAVAILABILITY
// =============================================================================

// UnavailabilityParams carries the optional creation fields.
type UnavailabilityParams struct {
	Reason string
	// RecurrencePattern holds the wire form ("WEEKLY:FRIDAY") when the
	// record repeats. Parsed here, once; malformed grammar fails the whole
	// creation without touching other validation.
	RecurrencePattern string
	// Approved pre-approves the record at creation, with ApprovedBy naming
	// the approver. Normal flow leaves this false and approves later.
	Approved   bool
	ApprovedBy string
}

// CreateUnavailability records a period (or recurring pattern of periods)
// during which the resource must not be assigned. Records start unapproved
// unless explicitly approved at creation, and do not affect scheduling
// until approved.
func (e *Engine) CreateUnavailability(ctx context.Context, resourceID ResourceID, utype UnavailabilityType, start, end Date, params UnavailabilityParams) (*Unavailability, error) {
	window, err := NewInterval(start, end)
	if err != nil {
		return nil, err
	}
	if !ValidUnavailabilityType(utype) {
		return nil, fmt.Errorf("%w: unknown unavailability type %q", ErrInvalidArgument, utype)
	}

	var pattern RecurrencePattern
	if params.RecurrencePattern != "" {
		pattern, err = ParseRecurrencePattern(params.RecurrencePattern)
		if err != nil {
			return nil, err
		}
	}
	// Type and pattern must agree: a recurring record with no pattern would
	// silently block its entire window, and a pattern on a plain record
	// would never expand.
	if utype == UnavailabilityRecurring && pattern == nil {
		return nil, fmt.Errorf("%w: recurring unavailability requires a recurrence pattern", ErrInvalidArgument)
	}
	if pattern != nil && utype != UnavailabilityRecurring {
		return nil, fmt.Errorf("%w: recurrence pattern requires type %q, got %q", ErrInvalidArgument, UnavailabilityRecurring, utype)
	}
	if params.Approved && strings.TrimSpace(params.ApprovedBy) == "" {
		return nil, fmt.Errorf("%w: approved unavailability requires an approver name", ErrInvalidArgument)
	}

	record := Unavailability{
		ID:         UnavailabilityID(newID()),
		ResourceID: resourceID,
		Type:       utype,
		Window:     window,
		Reason:     params.Reason,
		Approved:   params.Approved,
		Pattern:    pattern,
		CreatedAt:  Today(),
	}
	if params.Approved {
		record.ApprovedBy = params.ApprovedBy
	}

	err = e.store.WithTx(ctx, func(s Store) error {
		resource, err := s.GetResource(ctx, resourceID)
		if err != nil {
			return err
		}
		if resource == nil {
			return fmt.Errorf("resource %s: %w", resourceID, ErrNotFound)
		}
		return s.SaveUnavailability(ctx, record)
	})
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// ApproveUnavailability performs the one-way approval transition. From this
// point the record blocks availability and conflicts; there is no
// unapprove.
func (e *Engine) ApproveUnavailability(ctx context.Context, id UnavailabilityID, approverName string) (*Unavailability, error) {
	if strings.TrimSpace(approverName) == "" {
		return nil, fmt.Errorf("%w: approver name is required", ErrInvalidArgument)
	}

	var approved *Unavailability
	err := e.store.WithTx(ctx, func(s Store) error {
		u, err := s.GetUnavailability(ctx, id)
		if err != nil {
			return err
		}
		if u == nil || u.Deleted {
			return fmt.Errorf("unavailability %s: %w", id, ErrNotFound)
		}
		if u.Approved {
			return fmt.Errorf("unavailability %s: %w", id, ErrAlreadyApproved)
		}
		u.Approved = true
		u.ApprovedBy = approverName
		approved = u
		return s.SaveUnavailability(ctx, *u)
	})
	if err != nil {
		return nil, err
	}
	return approved, nil
}

// DeleteUnavailability soft-deletes. Unlike resources, unavailability is
// deletable regardless of assignments.
func (e *Engine) DeleteUnavailability(ctx context.Context, id UnavailabilityID) error {
	return e.store.WithTx(ctx, func(s Store) error {
		u, err := s.GetUnavailability(ctx, id)
		if err != nil {
			return err
		}
		if u == nil || u.Deleted {
			return fmt.Errorf("unavailability %s: %w", id, ErrNotFound)
		}
		u.Deleted = true
		return s.SaveUnavailability(ctx, *u)
	})
}

// PendingUnavailability lists records awaiting approval.
func (e *Engine) PendingUnavailability(ctx context.Context) ([]Unavailability, error) {
	return e.store.FindPendingApproval(ctx)
}

// =============================================================================
// AVAILABILITY & CONFLICT QUERIES (read-only)
// =============================================================================

// IsResourceAvailable reports whether the resource is free for the whole
// period. Reads a consistent snapshot; safe to run concurrently with
// unrelated mutations.
func (e *Engine) IsResourceAvailable(ctx context.Context, id ResourceID, start, end Date) (bool, error) {
	period, err := NewInterval(start, end)
	if err != nil {
		return false, err
	}
	return NewResolver(e.store).IsAvailable(ctx, id, period)
}

// HasConflicts re-evaluates an existing assignment against current records.
// Used when unavailability lands after the assignment was created, e.g.
// emergency sick leave: a true result is an advisory, not a failure, and
// remediation (reassign, split, cancel) is a deliberate follow-up call.
func (e *Engine) HasConflicts(ctx context.Context, id AssignmentID) (bool, error) {
	a, err := e.store.GetAssignment(ctx, id)
	if err != nil {
		return false, err
	}
	if a == nil || a.Deleted {
		return false, fmt.Errorf("assignment %s: %w", id, ErrNotFound)
	}
	conflicts, err := NewDetector(e.store).FindConflicts(ctx, *a)
	if err != nil {
		return false, err
	}
	return len(conflicts) > 0, nil
}

// FindConflicts exposes the full conflict scan for an arbitrary candidate
// without persisting anything. Presentation layers use this for what-if
// checks before submitting.
func (e *Engine) FindConflicts(ctx context.Context, candidate Assignment) ([]Conflict, error) {
	return NewDetector(e.store).FindConflicts(ctx, candidate)
}

// =============================================================================
// COST REPORTS (read-only)
// =============================================================================

// ProjectCostImpact computes planned vs. actual cost for a project's live
// assignments. The planned baseline is reconstructed from the committed
// allocation: the union of covered days priced at the primary resource's
// rate, so splits around unavailability and substitute coverage show up as
// overrun (or underrun) against the original plan.
func (e *Engine) ProjectCostImpact(ctx context.Context, id ProjectID) (CostImpact, error) {
	project, err := e.store.GetProject(ctx, id)
	if err != nil {
		return CostImpact{}, err
	}
	if project == nil || project.Deleted {
		return CostImpact{}, fmt.Errorf("project %s: %w", id, ErrNotFound)
	}

	assignments, err := e.store.FindAssignmentsByProject(ctx, id, false)
	if err != nil {
		return CostImpact{}, err
	}

	rates := make(Rates)
	for _, a := range assignments {
		if a.ResourceID == nil {
			continue
		}
		if _, ok := rates[*a.ResourceID]; ok {
			continue
		}
		r, err := e.store.GetResource(ctx, *a.ResourceID)
		if err != nil {
			return CostImpact{}, err
		}
		if r != nil {
			rates[*a.ResourceID] = r.Rate()
		}
	}

	planned := PlannedBaseline(assignments, rates)
	return ComputeCostImpact(planned, assignments, rates), nil
}
