// Package store provides an in-memory scheduling.Store for tests and dev.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/jdmdude62/SimpleProjectResourceManager-sub006/scheduling"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu             sync.RWMutex
	projects       map[scheduling.ProjectID]scheduling.Project
	resources      map[scheduling.ResourceID]scheduling.Resource
	assignments    map[scheduling.AssignmentID]scheduling.Assignment
	unavailability map[scheduling.UnavailabilityID]scheduling.Unavailability
}

func NewMemory() *Memory {
	return &Memory{
		projects:       make(map[scheduling.ProjectID]scheduling.Project),
		resources:      make(map[scheduling.ResourceID]scheduling.Resource),
		assignments:    make(map[scheduling.AssignmentID]scheduling.Assignment),
		unavailability: make(map[scheduling.UnavailabilityID]scheduling.Unavailability),
	}
}

// -----------------------------------------------------------------------------
// Projects
// -----------------------------------------------------------------------------

func (m *Memory) SaveProject(_ context.Context, p scheduling.Project) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.projects[p.ID] = p
	return nil
}

func (m *Memory) GetProject(_ context.Context, id scheduling.ProjectID) (*scheduling.Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if p, ok := m.projects[id]; ok {
		cp := p
		return &cp, nil
	}
	return nil, nil
}

func (m *Memory) GetProjectByCode(_ context.Context, code string) (*scheduling.Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.projects {
		if p.Code == code && !p.Deleted {
			cp := p
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *Memory) ListProjects(_ context.Context) ([]scheduling.Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []scheduling.Project
	for _, p := range m.projects {
		if !p.Deleted {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

// -----------------------------------------------------------------------------
// Resources
// -----------------------------------------------------------------------------

func (m *Memory) SaveResource(_ context.Context, r scheduling.Resource) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resources[r.ID] = r
	return nil
}

func (m *Memory) GetResource(_ context.Context, id scheduling.ResourceID) (*scheduling.Resource, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if r, ok := m.resources[id]; ok {
		cp := r
		return &cp, nil
	}
	return nil, nil
}

func (m *Memory) ListResources(_ context.Context) ([]scheduling.Resource, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []scheduling.Resource
	for _, r := range m.resources {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *Memory) DeleteResource(_ context.Context, id scheduling.ResourceID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.resources, id)
	return nil
}

func (m *Memory) CountResourceReferences(_ context.Context, id scheduling.ResourceID) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := 0
	for _, a := range m.assignments {
		if !a.Deleted && a.ResourceID != nil && *a.ResourceID == id {
			count++
		}
	}
	for _, u := range m.unavailability {
		if !u.Deleted && u.ResourceID == id {
			count++
		}
	}
	return count, nil
}

// -----------------------------------------------------------------------------
// Assignments
// -----------------------------------------------------------------------------

func (m *Memory) SaveAssignment(_ context.Context, a scheduling.Assignment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.assignments[a.ID] = a
	return nil
}

func (m *Memory) GetAssignment(_ context.Context, id scheduling.AssignmentID) (*scheduling.Assignment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if a, ok := m.assignments[id]; ok {
		cp := a
		return &cp, nil
	}
	return nil, nil
}

func (m *Memory) FindAssignmentsByProject(_ context.Context, id scheduling.ProjectID, includeDeleted bool) ([]scheduling.Assignment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []scheduling.Assignment
	for _, a := range m.assignments {
		if a.ProjectID != id {
			continue
		}
		if a.Deleted && !includeDeleted {
			continue
		}
		out = append(out, a)
	}
	sortAssignments(out)
	return out, nil
}

func (m *Memory) FindAssignmentsByResource(_ context.Context, id scheduling.ResourceID) ([]scheduling.Assignment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []scheduling.Assignment
	for _, a := range m.assignments {
		if a.Deleted || a.ResourceID == nil || *a.ResourceID != id {
			continue
		}
		out = append(out, a)
	}
	sortAssignments(out)
	return out, nil
}

func (m *Memory) FindOverlappingAssignments(_ context.Context, id scheduling.ResourceID, window scheduling.Interval) ([]scheduling.Assignment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []scheduling.Assignment
	for _, a := range m.assignments {
		if a.Deleted || a.ResourceID == nil || *a.ResourceID != id {
			continue
		}
		if a.Window.Overlaps(window) {
			out = append(out, a)
		}
	}
	sortAssignments(out)
	return out, nil
}

func sortAssignments(as []scheduling.Assignment) {
	sort.Slice(as, func(i, j int) bool {
		if !as[i].Window.Start.Equal(as[j].Window.Start) {
			return as[i].Window.Start.Before(as[j].Window.Start)
		}
		return as[i].ID < as[j].ID
	})
}

// -----------------------------------------------------------------------------
// Unavailability
// -----------------------------------------------------------------------------

func (m *Memory) SaveUnavailability(_ context.Context, u scheduling.Unavailability) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.unavailability[u.ID] = u
	return nil
}

func (m *Memory) GetUnavailability(_ context.Context, id scheduling.UnavailabilityID) (*scheduling.Unavailability, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if u, ok := m.unavailability[id]; ok {
		cp := u
		return &cp, nil
	}
	return nil, nil
}

func (m *Memory) FindUnavailabilityByResource(_ context.Context, id scheduling.ResourceID, approvedOnly bool) ([]scheduling.Unavailability, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []scheduling.Unavailability
	for _, u := range m.unavailability {
		if u.Deleted || u.ResourceID != id {
			continue
		}
		if approvedOnly && !u.Approved {
			continue
		}
		out = append(out, u)
	}
	sortUnavailability(out)
	return out, nil
}

func (m *Memory) FindOverlappingUnavailability(_ context.Context, id scheduling.ResourceID, window scheduling.Interval, approvedOnly bool) ([]scheduling.Unavailability, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []scheduling.Unavailability
	for _, u := range m.unavailability {
		if u.Deleted || u.ResourceID != id {
			continue
		}
		if approvedOnly && !u.Approved {
			continue
		}
		if u.Window.Overlaps(window) {
			out = append(out, u)
		}
	}
	sortUnavailability(out)
	return out, nil
}

func (m *Memory) FindPendingApproval(_ context.Context) ([]scheduling.Unavailability, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []scheduling.Unavailability
	for _, u := range m.unavailability {
		if !u.Deleted && !u.Approved {
			out = append(out, u)
		}
	}
	sortUnavailability(out)
	return out, nil
}

func sortUnavailability(us []scheduling.Unavailability) {
	sort.Slice(us, func(i, j int) bool {
		if !us[i].Window.Start.Equal(us[j].Window.Start) {
			return us[i].Window.Start.Before(us[j].Window.Start)
		}
		return us[i].ID < us[j].ID
	})
}

// =============================================================================
// TRANSACTIONAL MEMORY STORE
// =============================================================================

// TxMemory wraps Memory with transaction support: snapshot on entry,
// restore on error. The store mutex is held for the whole body, which
// also gives the serialization WithTx requires.
type TxMemory struct {
	*Memory
	txMu sync.Mutex
}

func NewTxMemory() *TxMemory {
	return &TxMemory{Memory: NewMemory()}
}

func (tm *TxMemory) WithTx(_ context.Context, fn func(scheduling.Store) error) error {
	tm.txMu.Lock()
	defer tm.txMu.Unlock()

	snapshot := tm.snapshot()
	if err := fn(tm.Memory); err != nil {
		tm.restore(snapshot)
		return err
	}
	return nil
}

type memorySnapshot struct {
	projects       map[scheduling.ProjectID]scheduling.Project
	resources      map[scheduling.ResourceID]scheduling.Resource
	assignments    map[scheduling.AssignmentID]scheduling.Assignment
	unavailability map[scheduling.UnavailabilityID]scheduling.Unavailability
}

func (tm *TxMemory) snapshot() memorySnapshot {
	tm.mu.RLock()
	defer tm.mu.RUnlock()
	s := memorySnapshot{
		projects:       make(map[scheduling.ProjectID]scheduling.Project, len(tm.projects)),
		resources:      make(map[scheduling.ResourceID]scheduling.Resource, len(tm.resources)),
		assignments:    make(map[scheduling.AssignmentID]scheduling.Assignment, len(tm.assignments)),
		unavailability: make(map[scheduling.UnavailabilityID]scheduling.Unavailability, len(tm.unavailability)),
	}
	for k, v := range tm.projects {
		s.projects[k] = v
	}
	for k, v := range tm.resources {
		s.resources[k] = v
	}
	for k, v := range tm.assignments {
		s.assignments[k] = v
	}
	for k, v := range tm.unavailability {
		s.unavailability[k] = v
	}
	return s
}

func (tm *TxMemory) restore(s memorySnapshot) {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	tm.projects = s.projects
	tm.resources = s.resources
	tm.assignments = s.assignments
	tm.unavailability = s.unavailability
}
