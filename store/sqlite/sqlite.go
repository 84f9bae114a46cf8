/*
Package sqlite provides a SQLite-backed implementation of the storage
interfaces.

PURPOSE:
  Implements scheduling.Store and scheduling.TxStore using SQLite. In
  production the same patterns apply to PostgreSQL - only minor SQL
  dialect differences.

KEY TABLES:
  projects:       Engagements with window, status, budget (soft delete)
  resources:      Schedulable people/assets with category and daily rate
  assignments:    Resource-to-project bindings over closed date ranges
  unavailability: Blocking periods, plain or recurring, approval-gated

INDEXES:
  Hot paths are the overlap scans run before every assignment write:
  - idx_assignments_resource_dates
  - idx_unavailability_resource_dates

SOFT DELETES:
  Assignments, unavailability, and projects carry a deleted flag instead
  of being removed, so cost reports and audit history survive
  remediation. Resources are hard-deleted, but only after the engine
  confirms nothing references them.

CONCURRENCY:
  A sync.RWMutex serializes WithTx bodies against each other and against
  plain writes, closing the check-then-act window between conflict scan
  and insert. SQLite is opened in WAL mode so readers don't block.

ERROR MAPPING:
  Context deadline/cancelation and SQLITE_BUSY surface as
  scheduling.ErrStoreUnavailable so callers can tell a transient store
  fault from a business outcome.

SEE ALSO:
  - scheduling/store.go: Interface definitions
  - scheduling/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/jdmdude62/SimpleProjectResourceManager-sub006/scheduling"
)

// Store implements scheduling.TxStore using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a SQLite store at the given path. Use ":memory:" for an
// in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS projects (
		id TEXT PRIMARY KEY,
		code TEXT NOT NULL,
		description TEXT,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		status TEXT NOT NULL,
		budget TEXT,
		deleted BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TEXT NOT NULL
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_projects_code_live
		ON projects(code) WHERE deleted = FALSE;

	CREATE TABLE IF NOT EXISTS resources (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT,
		category TEXT NOT NULL,
		daily_rate TEXT,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS assignments (
		id TEXT PRIMARY KEY,
		project_id TEXT NOT NULL REFERENCES projects(id),
		resource_id TEXT REFERENCES resources(id),
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		travel_out_days INTEGER NOT NULL DEFAULT 0,
		travel_back_days INTEGER NOT NULL DEFAULT 0,
		notes TEXT,
		deleted BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TEXT NOT NULL
	);

	-- Hot path: overlap scan before every assignment write
	CREATE INDEX IF NOT EXISTS idx_assignments_resource_dates
		ON assignments(resource_id, start_date, end_date) WHERE deleted = FALSE;
	CREATE INDEX IF NOT EXISTS idx_assignments_project
		ON assignments(project_id);

	CREATE TABLE IF NOT EXISTS unavailability (
		id TEXT PRIMARY KEY,
		resource_id TEXT NOT NULL REFERENCES resources(id),
		type TEXT NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		reason TEXT,
		approved BOOLEAN NOT NULL DEFAULT FALSE,
		approved_by TEXT,
		recurrence_pattern TEXT,
		deleted BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_unavailability_resource_dates
		ON unavailability(resource_id, start_date, end_date) WHERE deleted = FALSE;
	CREATE INDEX IF NOT EXISTS idx_unavailability_pending
		ON unavailability(approved) WHERE deleted = FALSE;
	`

	_, err := s.db.Exec(schema)
	return err
}

// querier abstracts *sql.DB and *sql.Tx so the same statement helpers run
// inside and outside transactions.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// mapErr folds transient database failures into ErrStoreUnavailable.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %v", scheduling.ErrStoreUnavailable, err)
	}
	msg := err.Error()
	if strings.Contains(msg, "database is locked") || strings.Contains(msg, "SQLITE_BUSY") {
		return fmt.Errorf("%w: %v", scheduling.ErrStoreUnavailable, err)
	}
	return err
}

// =============================================================================
// PROJECTS
// =============================================================================

func (s *Store) SaveProject(ctx context.Context, p scheduling.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return saveProject(ctx, s.db, p)
}

func saveProject(ctx context.Context, q querier, p scheduling.Project) error {
	query := `
		INSERT INTO projects (id, code, description, start_date, end_date, status, budget, deleted, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			code = excluded.code,
			description = excluded.description,
			start_date = excluded.start_date,
			end_date = excluded.end_date,
			status = excluded.status,
			budget = excluded.budget,
			deleted = excluded.deleted
	`
	_, err := q.ExecContext(ctx, query,
		p.ID, p.Code, p.Description,
		p.Window.Start.String(), p.Window.End.String(),
		p.Status, decimalOrNull(p.Budget), p.Deleted, p.CreatedAt.String(),
	)
	return mapErr(err)
}

func (s *Store) GetProject(ctx context.Context, id scheduling.ProjectID) (*scheduling.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return getProject(ctx, s.db, id)
}

func getProject(ctx context.Context, q querier, id scheduling.ProjectID) (*scheduling.Project, error) {
	rows, err := q.QueryContext(ctx, projectSelect+` WHERE id = ?`, id)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()
	return scanOneProject(rows)
}

func (s *Store) GetProjectByCode(ctx context.Context, code string) (*scheduling.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return getProjectByCode(ctx, s.db, code)
}

func getProjectByCode(ctx context.Context, q querier, code string) (*scheduling.Project, error) {
	rows, err := q.QueryContext(ctx, projectSelect+` WHERE code = ? AND deleted = FALSE`, code)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()
	return scanOneProject(rows)
}

func (s *Store) ListProjects(ctx context.Context) ([]scheduling.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return listProjects(ctx, s.db)
}

func listProjects(ctx context.Context, q querier) ([]scheduling.Project, error) {
	rows, err := q.QueryContext(ctx, projectSelect+` WHERE deleted = FALSE ORDER BY code`)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var out []scheduling.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

const projectSelect = `
	SELECT id, code, description, start_date, end_date, status, budget, deleted, created_at
	FROM projects`

func scanOneProject(rows *sql.Rows) (*scheduling.Project, error) {
	if !rows.Next() {
		return nil, rows.Err()
	}
	p, err := scanProject(rows)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func scanProject(rows *sql.Rows) (scheduling.Project, error) {
	var (
		p           scheduling.Project
		description sql.NullString
		start, end  string
		budget      sql.NullString
		createdAt   string
	)
	if err := rows.Scan(&p.ID, &p.Code, &description, &start, &end, &p.Status, &budget, &p.Deleted, &createdAt); err != nil {
		return p, fmt.Errorf("failed to scan project: %w", err)
	}
	p.Description = description.String
	var err error
	if p.Window, err = parseWindow(start, end); err != nil {
		return p, err
	}
	if p.Budget, err = parseDecimalPtr(budget); err != nil {
		return p, err
	}
	p.CreatedAt, _ = scheduling.ParseDate(createdAt)
	return p, nil
}

// =============================================================================
// RESOURCES
// =============================================================================

func (s *Store) SaveResource(ctx context.Context, r scheduling.Resource) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return saveResource(ctx, s.db, r)
}

func saveResource(ctx context.Context, q querier, r scheduling.Resource) error {
	query := `
		INSERT INTO resources (id, name, email, category, daily_rate, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			email = excluded.email,
			category = excluded.category,
			daily_rate = excluded.daily_rate
	`
	_, err := q.ExecContext(ctx, query,
		r.ID, r.Name, nullString(r.Email), r.Category, decimalOrNull(r.DailyRate), r.CreatedAt.String(),
	)
	return mapErr(err)
}

func (s *Store) GetResource(ctx context.Context, id scheduling.ResourceID) (*scheduling.Resource, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return getResource(ctx, s.db, id)
}

func getResource(ctx context.Context, q querier, id scheduling.ResourceID) (*scheduling.Resource, error) {
	rows, err := q.QueryContext(ctx, resourceSelect+` WHERE id = ?`, id)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()
	if !rows.Next() {
		return nil, rows.Err()
	}
	r, err := scanResource(rows)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *Store) ListResources(ctx context.Context) ([]scheduling.Resource, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return listResources(ctx, s.db)
}

func listResources(ctx context.Context, q querier) ([]scheduling.Resource, error) {
	rows, err := q.QueryContext(ctx, resourceSelect+` ORDER BY name`)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var out []scheduling.Resource
	for rows.Next() {
		r, err := scanResource(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) DeleteResource(ctx context.Context, id scheduling.ResourceID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return deleteResource(ctx, s.db, id)
}

func deleteResource(ctx context.Context, q querier, id scheduling.ResourceID) error {
	_, err := q.ExecContext(ctx, `DELETE FROM resources WHERE id = ?`, id)
	return mapErr(err)
}

func (s *Store) CountResourceReferences(ctx context.Context, id scheduling.ResourceID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return countResourceReferences(ctx, s.db, id)
}

func countResourceReferences(ctx context.Context, q querier, id scheduling.ResourceID) (int, error) {
	var count int
	err := q.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM assignments WHERE resource_id = ? AND deleted = FALSE) +
			(SELECT COUNT(*) FROM unavailability WHERE resource_id = ? AND deleted = FALSE)
	`, id, id).Scan(&count)
	return count, mapErr(err)
}

const resourceSelect = `
	SELECT id, name, email, category, daily_rate, created_at
	FROM resources`

func scanResource(rows *sql.Rows) (scheduling.Resource, error) {
	var (
		r         scheduling.Resource
		email     sql.NullString
		rate      sql.NullString
		createdAt string
	)
	if err := rows.Scan(&r.ID, &r.Name, &email, &r.Category, &rate, &createdAt); err != nil {
		return r, fmt.Errorf("failed to scan resource: %w", err)
	}
	r.Email = email.String
	var err error
	if r.DailyRate, err = parseDecimalPtr(rate); err != nil {
		return r, err
	}
	r.CreatedAt, _ = scheduling.ParseDate(createdAt)
	return r, nil
}

// =============================================================================
// ASSIGNMENTS
// =============================================================================

func (s *Store) SaveAssignment(ctx context.Context, a scheduling.Assignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return saveAssignment(ctx, s.db, a)
}

func saveAssignment(ctx context.Context, q querier, a scheduling.Assignment) error {
	query := `
		INSERT INTO assignments
		(id, project_id, resource_id, start_date, end_date, travel_out_days, travel_back_days, notes, deleted, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			project_id = excluded.project_id,
			resource_id = excluded.resource_id,
			start_date = excluded.start_date,
			end_date = excluded.end_date,
			travel_out_days = excluded.travel_out_days,
			travel_back_days = excluded.travel_back_days,
			notes = excluded.notes,
			deleted = excluded.deleted
	`
	var resourceID any
	if a.ResourceID != nil {
		resourceID = string(*a.ResourceID)
	}
	_, err := q.ExecContext(ctx, query,
		a.ID, a.ProjectID, resourceID,
		a.Window.Start.String(), a.Window.End.String(),
		a.TravelOutDays, a.TravelBackDays, nullString(a.Notes), a.Deleted, a.CreatedAt.String(),
	)
	return mapErr(err)
}

func (s *Store) GetAssignment(ctx context.Context, id scheduling.AssignmentID) (*scheduling.Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return getAssignment(ctx, s.db, id)
}

func getAssignment(ctx context.Context, q querier, id scheduling.AssignmentID) (*scheduling.Assignment, error) {
	rows, err := q.QueryContext(ctx, assignmentSelect+` WHERE id = ?`, id)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()
	if !rows.Next() {
		return nil, rows.Err()
	}
	a, err := scanAssignment(rows)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *Store) FindAssignmentsByProject(ctx context.Context, id scheduling.ProjectID, includeDeleted bool) ([]scheduling.Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return findAssignmentsByProject(ctx, s.db, id, includeDeleted)
}

func findAssignmentsByProject(ctx context.Context, q querier, id scheduling.ProjectID, includeDeleted bool) ([]scheduling.Assignment, error) {
	query := assignmentSelect + ` WHERE project_id = ?`
	if !includeDeleted {
		query += ` AND deleted = FALSE`
	}
	query += ` ORDER BY start_date, id`
	return queryAssignments(ctx, q, query, id)
}

func (s *Store) FindAssignmentsByResource(ctx context.Context, id scheduling.ResourceID) ([]scheduling.Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return findAssignmentsByResource(ctx, s.db, id)
}

func findAssignmentsByResource(ctx context.Context, q querier, id scheduling.ResourceID) ([]scheduling.Assignment, error) {
	query := assignmentSelect + ` WHERE resource_id = ? AND deleted = FALSE ORDER BY start_date, id`
	return queryAssignments(ctx, q, query, id)
}

func (s *Store) FindOverlappingAssignments(ctx context.Context, id scheduling.ResourceID, window scheduling.Interval) ([]scheduling.Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return findOverlappingAssignments(ctx, s.db, id, window)
}

func findOverlappingAssignments(ctx context.Context, q querier, id scheduling.ResourceID, window scheduling.Interval) ([]scheduling.Assignment, error) {
	// Boundary-inclusive overlap: a.start <= w.end AND w.start <= a.end.
	// ISO date strings compare correctly as text.
	query := assignmentSelect + `
		WHERE resource_id = ? AND deleted = FALSE
		  AND start_date <= ? AND ? <= end_date
		ORDER BY start_date, id`
	return queryAssignments(ctx, q, query, id, window.End.String(), window.Start.String())
}

func queryAssignments(ctx context.Context, q querier, query string, args ...any) ([]scheduling.Assignment, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var out []scheduling.Assignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

const assignmentSelect = `
	SELECT id, project_id, resource_id, start_date, end_date,
	       travel_out_days, travel_back_days, notes, deleted, created_at
	FROM assignments`

func scanAssignment(rows *sql.Rows) (scheduling.Assignment, error) {
	var (
		a          scheduling.Assignment
		resourceID sql.NullString
		start, end string
		notes      sql.NullString
		createdAt  string
	)
	if err := rows.Scan(&a.ID, &a.ProjectID, &resourceID, &start, &end,
		&a.TravelOutDays, &a.TravelBackDays, &notes, &a.Deleted, &createdAt); err != nil {
		return a, fmt.Errorf("failed to scan assignment: %w", err)
	}
	if resourceID.Valid {
		rid := scheduling.ResourceID(resourceID.String)
		a.ResourceID = &rid
	}
	a.Notes = notes.String
	var err error
	if a.Window, err = parseWindow(start, end); err != nil {
		return a, err
	}
	a.CreatedAt, _ = scheduling.ParseDate(createdAt)
	return a, nil
}

// =============================================================================
// UNAVAILABILITY
// =============================================================================

func (s *Store) SaveUnavailability(ctx context.Context, u scheduling.Unavailability) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return saveUnavailability(ctx, s.db, u)
}

func saveUnavailability(ctx context.Context, q querier, u scheduling.Unavailability) error {
	query := `
		INSERT INTO unavailability
		(id, resource_id, type, start_date, end_date, reason, approved, approved_by, recurrence_pattern, deleted, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			type = excluded.type,
			start_date = excluded.start_date,
			end_date = excluded.end_date,
			reason = excluded.reason,
			approved = excluded.approved,
			approved_by = excluded.approved_by,
			recurrence_pattern = excluded.recurrence_pattern,
			deleted = excluded.deleted
	`
	var pattern any
	if u.Pattern != nil {
		pattern = u.Pattern.String()
	}
	_, err := q.ExecContext(ctx, query,
		u.ID, u.ResourceID, u.Type,
		u.Window.Start.String(), u.Window.End.String(),
		nullString(u.Reason), u.Approved, nullString(u.ApprovedBy), pattern, u.Deleted, u.CreatedAt.String(),
	)
	return mapErr(err)
}

func (s *Store) GetUnavailability(ctx context.Context, id scheduling.UnavailabilityID) (*scheduling.Unavailability, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return getUnavailability(ctx, s.db, id)
}

func getUnavailability(ctx context.Context, q querier, id scheduling.UnavailabilityID) (*scheduling.Unavailability, error) {
	rows, err := q.QueryContext(ctx, unavailabilitySelect+` WHERE id = ?`, id)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()
	if !rows.Next() {
		return nil, rows.Err()
	}
	u, err := scanUnavailability(rows)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Store) FindUnavailabilityByResource(ctx context.Context, id scheduling.ResourceID, approvedOnly bool) ([]scheduling.Unavailability, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return findUnavailabilityByResource(ctx, s.db, id, approvedOnly)
}

func findUnavailabilityByResource(ctx context.Context, q querier, id scheduling.ResourceID, approvedOnly bool) ([]scheduling.Unavailability, error) {
	query := unavailabilitySelect + ` WHERE resource_id = ? AND deleted = FALSE`
	if approvedOnly {
		query += ` AND approved = TRUE`
	}
	query += ` ORDER BY start_date, id`
	return queryUnavailability(ctx, q, query, id)
}

func (s *Store) FindOverlappingUnavailability(ctx context.Context, id scheduling.ResourceID, window scheduling.Interval, approvedOnly bool) ([]scheduling.Unavailability, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return findOverlappingUnavailability(ctx, s.db, id, window, approvedOnly)
}

func findOverlappingUnavailability(ctx context.Context, q querier, id scheduling.ResourceID, window scheduling.Interval, approvedOnly bool) ([]scheduling.Unavailability, error) {
	query := unavailabilitySelect + `
		WHERE resource_id = ? AND deleted = FALSE
		  AND start_date <= ? AND ? <= end_date`
	if approvedOnly {
		query += ` AND approved = TRUE`
	}
	query += ` ORDER BY start_date, id`
	return queryUnavailability(ctx, q, query, id, window.End.String(), window.Start.String())
}

func (s *Store) FindPendingApproval(ctx context.Context) ([]scheduling.Unavailability, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return findPendingApproval(ctx, s.db)
}

func findPendingApproval(ctx context.Context, q querier) ([]scheduling.Unavailability, error) {
	query := unavailabilitySelect + ` WHERE approved = FALSE AND deleted = FALSE ORDER BY created_at, id`
	return queryUnavailability(ctx, q, query)
}

func queryUnavailability(ctx context.Context, q querier, query string, args ...any) ([]scheduling.Unavailability, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var out []scheduling.Unavailability
	for rows.Next() {
		u, err := scanUnavailability(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

const unavailabilitySelect = `
	SELECT id, resource_id, type, start_date, end_date, reason,
	       approved, approved_by, recurrence_pattern, deleted, created_at
	FROM unavailability`

func scanUnavailability(rows *sql.Rows) (scheduling.Unavailability, error) {
	var (
		u          scheduling.Unavailability
		start, end string
		reason     sql.NullString
		approvedBy sql.NullString
		pattern    sql.NullString
		createdAt  string
	)
	if err := rows.Scan(&u.ID, &u.ResourceID, &u.Type, &start, &end, &reason,
		&u.Approved, &approvedBy, &pattern, &u.Deleted, &createdAt); err != nil {
		return u, fmt.Errorf("failed to scan unavailability: %w", err)
	}
	u.Reason = reason.String
	u.ApprovedBy = approvedBy.String
	var err error
	if u.Window, err = parseWindow(start, end); err != nil {
		return u, err
	}
	if pattern.Valid && pattern.String != "" {
		// Patterns were validated at creation time; a parse failure here
		// means the row was corrupted outside the engine.
		if u.Pattern, err = scheduling.ParseRecurrencePattern(pattern.String); err != nil {
			return u, fmt.Errorf("stored pattern for %s: %w", u.ID, err)
		}
	}
	u.CreatedAt, _ = scheduling.ParseDate(createdAt)
	return u, nil
}

// =============================================================================
// TRANSACTIONAL STORE (scheduling.TxStore interface)
// =============================================================================

// WithTx executes fn within a database transaction. The store mutex is held
// for the whole body, serializing scan-and-write sequences against each
// other.
func (s *Store) WithTx(ctx context.Context, fn func(scheduling.Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return mapErr(fmt.Errorf("failed to begin transaction: %w", err))
	}
	defer sqlTx.Rollback()

	if err := fn(&txStore{tx: sqlTx}); err != nil {
		return err
	}
	return mapErr(sqlTx.Commit())
}

// txStore routes every Store call through the open *sql.Tx.
type txStore struct {
	tx *sql.Tx
}

func (ts *txStore) SaveProject(ctx context.Context, p scheduling.Project) error {
	return saveProject(ctx, ts.tx, p)
}

func (ts *txStore) GetProject(ctx context.Context, id scheduling.ProjectID) (*scheduling.Project, error) {
	return getProject(ctx, ts.tx, id)
}

func (ts *txStore) GetProjectByCode(ctx context.Context, code string) (*scheduling.Project, error) {
	return getProjectByCode(ctx, ts.tx, code)
}

func (ts *txStore) ListProjects(ctx context.Context) ([]scheduling.Project, error) {
	return listProjects(ctx, ts.tx)
}

func (ts *txStore) SaveResource(ctx context.Context, r scheduling.Resource) error {
	return saveResource(ctx, ts.tx, r)
}

func (ts *txStore) GetResource(ctx context.Context, id scheduling.ResourceID) (*scheduling.Resource, error) {
	return getResource(ctx, ts.tx, id)
}

func (ts *txStore) ListResources(ctx context.Context) ([]scheduling.Resource, error) {
	return listResources(ctx, ts.tx)
}

func (ts *txStore) DeleteResource(ctx context.Context, id scheduling.ResourceID) error {
	return deleteResource(ctx, ts.tx, id)
}

func (ts *txStore) CountResourceReferences(ctx context.Context, id scheduling.ResourceID) (int, error) {
	return countResourceReferences(ctx, ts.tx, id)
}

func (ts *txStore) SaveAssignment(ctx context.Context, a scheduling.Assignment) error {
	return saveAssignment(ctx, ts.tx, a)
}

func (ts *txStore) GetAssignment(ctx context.Context, id scheduling.AssignmentID) (*scheduling.Assignment, error) {
	return getAssignment(ctx, ts.tx, id)
}

func (ts *txStore) FindAssignmentsByProject(ctx context.Context, id scheduling.ProjectID, includeDeleted bool) ([]scheduling.Assignment, error) {
	return findAssignmentsByProject(ctx, ts.tx, id, includeDeleted)
}

func (ts *txStore) FindAssignmentsByResource(ctx context.Context, id scheduling.ResourceID) ([]scheduling.Assignment, error) {
	return findAssignmentsByResource(ctx, ts.tx, id)
}

func (ts *txStore) FindOverlappingAssignments(ctx context.Context, id scheduling.ResourceID, window scheduling.Interval) ([]scheduling.Assignment, error) {
	return findOverlappingAssignments(ctx, ts.tx, id, window)
}

func (ts *txStore) SaveUnavailability(ctx context.Context, u scheduling.Unavailability) error {
	return saveUnavailability(ctx, ts.tx, u)
}

func (ts *txStore) GetUnavailability(ctx context.Context, id scheduling.UnavailabilityID) (*scheduling.Unavailability, error) {
	return getUnavailability(ctx, ts.tx, id)
}

func (ts *txStore) FindUnavailabilityByResource(ctx context.Context, id scheduling.ResourceID, approvedOnly bool) ([]scheduling.Unavailability, error) {
	return findUnavailabilityByResource(ctx, ts.tx, id, approvedOnly)
}

func (ts *txStore) FindOverlappingUnavailability(ctx context.Context, id scheduling.ResourceID, window scheduling.Interval, approvedOnly bool) ([]scheduling.Unavailability, error) {
	return findOverlappingUnavailability(ctx, ts.tx, id, window, approvedOnly)
}

func (ts *txStore) FindPendingApproval(ctx context.Context) ([]scheduling.Unavailability, error) {
	return findPendingApproval(ctx, ts.tx)
}

// =============================================================================
// HELPERS
// =============================================================================

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func decimalOrNull(d *decimal.Decimal) any {
	if d == nil {
		return nil
	}
	return d.String()
}

func parseDecimalPtr(ns sql.NullString) (*decimal.Decimal, error) {
	if !ns.Valid || ns.String == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(ns.String)
	if err != nil {
		return nil, fmt.Errorf("failed to parse stored decimal %q: %w", ns.String, err)
	}
	return &d, nil
}

func parseWindow(start, end string) (scheduling.Interval, error) {
	s, err := scheduling.ParseDate(start)
	if err != nil {
		return scheduling.Interval{}, err
	}
	e, err := scheduling.ParseDate(end)
	if err != nil {
		return scheduling.Interval{}, err
	}
	return scheduling.Interval{Start: s, End: e}, nil
}
