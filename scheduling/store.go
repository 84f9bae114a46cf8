/*
store.go - Persistence interfaces for the scheduling engine

PURPOSE:
  Defines the interface between the engine and the database. The engine
  consumes and produces plain records; how they reach disk is up to the
  implementation (SQLite in production, in-memory for tests).

KEY INTERFACES:
  Store:   CRUD + range queries over the four entities
  TxStore: Store plus WithTx for atomic scan-and-write sequences

TRANSACTION CONTRACT:
  Every mutating engine operation runs its conflict scan and its write
  inside a single WithTx call. Implementations must serialize WithTx
  bodies against each other so two concurrent createAssignment calls for
  the same resource cannot both pass validation and both commit.

SOFT DELETES:
  Assignments, unavailability, and projects are soft-deleted: the row
  keeps its data with a deleted flag so cost and audit history survive.
  Query methods exclude deleted rows unless the method says otherwise.

IMPLEMENTATIONS:
  - store/sqlite: Production SQLite store
  - scheduling/store: In-memory store for testing

SEE ALSO:
  - engine.go: The only writer through these interfaces
*/
package scheduling

import "context"

// =============================================================================
// STORE - CRUD + range queries over the four entities
// =============================================================================

type Store interface {
	// Projects
	SaveProject(ctx context.Context, p Project) error
	GetProject(ctx context.Context, id ProjectID) (*Project, error)
	GetProjectByCode(ctx context.Context, code string) (*Project, error)
	ListProjects(ctx context.Context) ([]Project, error)

	// Resources
	SaveResource(ctx context.Context, r Resource) error
	GetResource(ctx context.Context, id ResourceID) (*Resource, error)
	ListResources(ctx context.Context) ([]Resource, error)
	// DeleteResource removes the resource row. Referential checks are the
	// engine's job; implementations just delete.
	DeleteResource(ctx context.Context, id ResourceID) error
	// CountResourceReferences returns how many live assignments and
	// unavailability records point at the resource.
	CountResourceReferences(ctx context.Context, id ResourceID) (int, error)

	// Assignments
	SaveAssignment(ctx context.Context, a Assignment) error
	GetAssignment(ctx context.Context, id AssignmentID) (*Assignment, error)
	// FindAssignmentsByProject returns live assignments for the project.
	// includeDeleted adds soft-deleted rows for audit and cost history.
	FindAssignmentsByProject(ctx context.Context, id ProjectID, includeDeleted bool) ([]Assignment, error)
	FindAssignmentsByResource(ctx context.Context, id ResourceID) ([]Assignment, error)
	// FindOverlappingAssignments returns live assignments for the resource
	// whose window overlaps the interval (boundary-inclusive).
	FindOverlappingAssignments(ctx context.Context, id ResourceID, window Interval) ([]Assignment, error)

	// Unavailability
	SaveUnavailability(ctx context.Context, u Unavailability) error
	GetUnavailability(ctx context.Context, id UnavailabilityID) (*Unavailability, error)
	FindUnavailabilityByResource(ctx context.Context, id ResourceID, approvedOnly bool) ([]Unavailability, error)
	// FindOverlappingUnavailability returns live records for the resource
	// whose stated window overlaps the interval. For recurring records the
	// stated window is the pattern's active window; expansion is the
	// caller's job.
	FindOverlappingUnavailability(ctx context.Context, id ResourceID, window Interval, approvedOnly bool) ([]Unavailability, error)
	FindPendingApproval(ctx context.Context) ([]Unavailability, error)
}

// =============================================================================
// TRANSACTIONAL STORE
// =============================================================================

// TxStore wraps Store with transaction support. WithTx executes fn against
// a transactional view; an error from fn rolls everything back. WithTx
// bodies are mutually exclusive.
type TxStore interface {
	Store
	WithTx(ctx context.Context, fn func(Store) error) error
}
