/*
handlers.go - HTTP API handlers for the scheduling engine

PURPOSE:
  Exposes the scheduling engine via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to the engine.

ENDPOINTS:
  Projects:
    GET    /api/projects                    List projects
    POST   /api/projects                    Create project
    GET    /api/projects/{id}               Get project
    POST   /api/projects/{id}/status        Update status
    PUT    /api/projects/{id}/budget        Set budget
    DELETE /api/projects/{id}               Soft-delete project
    GET    /api/projects/{id}/assignments   Assignments for project
    GET    /api/projects/{id}/cost          Planned vs. actual cost

  Resources:
    GET    /api/resources                   List resources
    POST   /api/resources                   Create resource
    GET    /api/resources/{id}              Get resource
    PUT    /api/resources/{id}              Update category/rate
    DELETE /api/resources/{id}              Delete (409 if referenced)
    GET    /api/resources/{id}/availability Availability for a range
    GET    /api/resources/{id}/assignments  Assignments for resource

  Assignments:
    POST   /api/assignments                 Create (409 with conflicts)
    PUT    /api/assignments/{id}            Update (self excluded)
    DELETE /api/assignments/{id}            Soft-delete
    GET    /api/assignments/{id}/conflicts  Re-check existing assignment

  Unavailability:
    POST   /api/unavailability              Create (pending by default)
    GET    /api/unavailability/pending      Records awaiting approval
    POST   /api/unavailability/{id}/approve Approve (one-way)
    DELETE /api/unavailability/{id}         Soft-delete

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors (intervals, enums, email, pattern grammar)
  - 404: Entity not found
  - 409: Conflicts (resource conflict, already approved, referential)
  - 503: Store unavailable (transient)
  - 500: Internal errors
  409 resource-conflict responses carry the full conflicting-record list.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/jdmdude62/SimpleProjectResourceManager-sub006/scheduling"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Engine *scheduling.Engine
}

// NewHandler creates a new handler around the engine.
func NewHandler(engine *scheduling.Engine) *Handler {
	return &Handler{Engine: engine}
}

// =============================================================================
// PROJECT HANDLERS
// =============================================================================

// ListProjects returns all live projects.
func (h *Handler) ListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.Engine.ListProjects(r.Context())
	if err != nil {
		writeEngineError(w, err)
		return
	}
	dtos := make([]ProjectDTO, len(projects))
	for i, p := range projects {
		dtos[i] = toProjectDTO(p)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateProject creates a new project.
func (h *Handler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req CreateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	start, end, ok := parseRange(w, req.StartDate, req.EndDate)
	if !ok {
		return
	}
	budget, ok := parseOptionalDecimal(w, req.Budget, "budget")
	if !ok {
		return
	}

	project, err := h.Engine.CreateProject(r.Context(), req.Code, req.Description, start, end, budget)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toProjectDTO(*project))
}

// GetProject returns a single project.
func (h *Handler) GetProject(w http.ResponseWriter, r *http.Request) {
	id := scheduling.ProjectID(chi.URLParam(r, "id"))
	project, err := h.Engine.GetProject(r.Context(), id)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProjectDTO(*project))
}

// UpdateProjectStatus moves a project through its lifecycle.
func (h *Handler) UpdateProjectStatus(w http.ResponseWriter, r *http.Request) {
	id := scheduling.ProjectID(chi.URLParam(r, "id"))
	var req UpdateProjectStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	project, err := h.Engine.UpdateProjectStatus(r.Context(), id, scheduling.ProjectStatus(req.Status))
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProjectDTO(*project))
}

// SetProjectBudget replaces the project budget.
func (h *Handler) SetProjectBudget(w http.ResponseWriter, r *http.Request) {
	id := scheduling.ProjectID(chi.URLParam(r, "id"))
	var req SetProjectBudgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	budget, ok := parseOptionalDecimal(w, req.Budget, "budget")
	if !ok {
		return
	}

	project, err := h.Engine.SetProjectBudget(r.Context(), id, budget)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProjectDTO(*project))
}

// DeleteProject soft-deletes a project.
func (h *Handler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	id := scheduling.ProjectID(chi.URLParam(r, "id"))
	if err := h.Engine.DeleteProject(r.Context(), id); err != nil {
		writeEngineError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetProjectAssignments returns live assignments for a project.
func (h *Handler) GetProjectAssignments(w http.ResponseWriter, r *http.Request) {
	id := scheduling.ProjectID(chi.URLParam(r, "id"))
	assignments, err := h.Engine.AssignmentsByProject(r.Context(), id)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	dtos := make([]AssignmentDTO, len(assignments))
	for i, a := range assignments {
		dtos[i] = toAssignmentDTO(a)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetProjectCost returns the planned vs. actual cost report.
func (h *Handler) GetProjectCost(w http.ResponseWriter, r *http.Request) {
	id := scheduling.ProjectID(chi.URLParam(r, "id"))
	impact, err := h.Engine.ProjectCostImpact(r.Context(), id)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, CostImpactDTO{
		ProjectID:   string(id),
		PlannedCost: impact.PlannedCost.String(),
		ActualCost:  impact.ActualCost.String(),
		CostOverrun: impact.CostOverrun.String(),
	})
}

// =============================================================================
// RESOURCE HANDLERS
// =============================================================================

// ListResources returns all resources.
func (h *Handler) ListResources(w http.ResponseWriter, r *http.Request) {
	resources, err := h.Engine.ListResources(r.Context())
	if err != nil {
		writeEngineError(w, err)
		return
	}
	dtos := make([]ResourceDTO, len(resources))
	for i, res := range resources {
		dtos[i] = toResourceDTO(res)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateResource creates a new resource.
func (h *Handler) CreateResource(w http.ResponseWriter, r *http.Request) {
	var req CreateResourceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	rate, ok := parseOptionalDecimal(w, req.DailyRate, "daily_rate")
	if !ok {
		return
	}

	resource, err := h.Engine.CreateResource(r.Context(), req.Name, req.Email,
		scheduling.ResourceCategory(req.Category), rate)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toResourceDTO(*resource))
}

// GetResource returns a single resource.
func (h *Handler) GetResource(w http.ResponseWriter, r *http.Request) {
	id := scheduling.ResourceID(chi.URLParam(r, "id"))
	resource, err := h.Engine.GetResource(r.Context(), id)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toResourceDTO(*resource))
}

// UpdateResource changes category and daily rate.
func (h *Handler) UpdateResource(w http.ResponseWriter, r *http.Request) {
	id := scheduling.ResourceID(chi.URLParam(r, "id"))
	var req UpdateResourceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	rate, ok := parseOptionalDecimal(w, req.DailyRate, "daily_rate")
	if !ok {
		return
	}

	resource, err := h.Engine.UpdateResource(r.Context(), id,
		scheduling.ResourceCategory(req.Category), rate)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toResourceDTO(*resource))
}

// DeleteResource deletes a resource; 409 while referenced.
func (h *Handler) DeleteResource(w http.ResponseWriter, r *http.Request) {
	id := scheduling.ResourceID(chi.URLParam(r, "id"))
	if err := h.Engine.DeleteResource(r.Context(), id); err != nil {
		writeEngineError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetResourceAvailability answers ?start=YYYY-MM-DD&end=YYYY-MM-DD.
func (h *Handler) GetResourceAvailability(w http.ResponseWriter, r *http.Request) {
	id := scheduling.ResourceID(chi.URLParam(r, "id"))
	start, end, ok := parseRange(w, r.URL.Query().Get("start"), r.URL.Query().Get("end"))
	if !ok {
		return
	}

	available, err := h.Engine.IsResourceAvailable(r.Context(), id, start, end)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, AvailabilityDTO{
		ResourceID: string(id),
		StartDate:  start.String(),
		EndDate:    end.String(),
		Available:  available,
	})
}

// GetResourceAssignments returns live assignments for a resource.
func (h *Handler) GetResourceAssignments(w http.ResponseWriter, r *http.Request) {
	id := scheduling.ResourceID(chi.URLParam(r, "id"))
	assignments, err := h.Engine.AssignmentsByResource(r.Context(), id)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	dtos := make([]AssignmentDTO, len(assignments))
	for i, a := range assignments {
		dtos[i] = toAssignmentDTO(a)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// ASSIGNMENT HANDLERS
// =============================================================================

// CreateAssignment creates an assignment, returning 409 with the full
// conflict list on collision.
func (h *Handler) CreateAssignment(w http.ResponseWriter, r *http.Request) {
	var req CreateAssignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	start, end, ok := parseRange(w, req.StartDate, req.EndDate)
	if !ok {
		return
	}

	var resourceID *scheduling.ResourceID
	if req.ResourceID != nil && *req.ResourceID != "" {
		rid := scheduling.ResourceID(*req.ResourceID)
		resourceID = &rid
	}

	assignment, err := h.Engine.CreateAssignment(r.Context(),
		scheduling.ProjectID(req.ProjectID), resourceID, start, end,
		scheduling.AssignmentParams{
			TravelOutDays:  req.TravelOutDays,
			TravelBackDays: req.TravelBackDays,
			Notes:          req.Notes,
		})
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toAssignmentDTO(*assignment))
}

// UpdateAssignment updates window, resource, travel, and notes.
func (h *Handler) UpdateAssignment(w http.ResponseWriter, r *http.Request) {
	id := scheduling.AssignmentID(chi.URLParam(r, "id"))
	var req UpdateAssignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	start, end, ok := parseRange(w, req.StartDate, req.EndDate)
	if !ok {
		return
	}

	var resourceID *scheduling.ResourceID
	if req.ResourceID != nil && *req.ResourceID != "" {
		rid := scheduling.ResourceID(*req.ResourceID)
		resourceID = &rid
	}

	assignment, err := h.Engine.UpdateAssignment(r.Context(), id, resourceID, start, end,
		scheduling.AssignmentParams{
			TravelOutDays:  req.TravelOutDays,
			TravelBackDays: req.TravelBackDays,
			Notes:          req.Notes,
		})
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAssignmentDTO(*assignment))
}

// DeleteAssignment soft-deletes an assignment.
func (h *Handler) DeleteAssignment(w http.ResponseWriter, r *http.Request) {
	id := scheduling.AssignmentID(chi.URLParam(r, "id"))
	if err := h.Engine.DeleteAssignment(r.Context(), id); err != nil {
		writeEngineError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CheckAssignmentConflicts re-evaluates an existing assignment against
// current unavailability. A true result is advisory; nothing is changed.
func (h *Handler) CheckAssignmentConflicts(w http.ResponseWriter, r *http.Request) {
	id := scheduling.AssignmentID(chi.URLParam(r, "id"))
	hasConflicts, err := h.Engine.HasConflicts(r.Context(), id)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ConflictCheckDTO{
		AssignmentID: string(id),
		HasConflicts: hasConflicts,
	})
}

// =============================================================================
// UNAVAILABILITY HANDLERS
// =============================================================================

// CreateUnavailability records a blocking period, pending by default.
func (h *Handler) CreateUnavailability(w http.ResponseWriter, r *http.Request) {
	var req CreateUnavailabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	start, end, ok := parseRange(w, req.StartDate, req.EndDate)
	if !ok {
		return
	}

	record, err := h.Engine.CreateUnavailability(r.Context(),
		scheduling.ResourceID(req.ResourceID), scheduling.UnavailabilityType(req.Type),
		start, end,
		scheduling.UnavailabilityParams{
			Reason:            req.Reason,
			RecurrencePattern: req.RecurrencePattern,
			Approved:          req.Approved,
			ApprovedBy:        req.ApprovedBy,
		})
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toUnavailabilityDTO(*record))
}

// ApproveUnavailability performs the one-way approval transition.
func (h *Handler) ApproveUnavailability(w http.ResponseWriter, r *http.Request) {
	id := scheduling.UnavailabilityID(chi.URLParam(r, "id"))
	var req ApproveUnavailabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	record, err := h.Engine.ApproveUnavailability(r.Context(), id, req.ApproverName)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUnavailabilityDTO(*record))
}

// DeleteUnavailability soft-deletes a record.
func (h *Handler) DeleteUnavailability(w http.ResponseWriter, r *http.Request) {
	id := scheduling.UnavailabilityID(chi.URLParam(r, "id"))
	if err := h.Engine.DeleteUnavailability(r.Context(), id); err != nil {
		writeEngineError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListPendingUnavailability returns records awaiting approval.
func (h *Handler) ListPendingUnavailability(w http.ResponseWriter, r *http.Request) {
	records, err := h.Engine.PendingUnavailability(r.Context())
	if err != nil {
		writeEngineError(w, err)
		return
	}
	dtos := make([]UnavailabilityDTO, len(records))
	for i, u := range records {
		dtos[i] = toUnavailabilityDTO(u)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// HELPERS
// =============================================================================

func parseRange(w http.ResponseWriter, startStr, endStr string) (scheduling.Date, scheduling.Date, bool) {
	start, err := scheduling.ParseDate(startStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid start_date", err)
		return scheduling.Date{}, scheduling.Date{}, false
	}
	end, err := scheduling.ParseDate(endStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid end_date", err)
		return scheduling.Date{}, scheduling.Date{}, false
	}
	return start, end, true
}

func parseOptionalDecimal(w http.ResponseWriter, s *string, field string) (*decimal.Decimal, bool) {
	if s == nil || *s == "" {
		return nil, true
	}
	d, err := decimal.NewFromString(*s)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid "+field, err)
		return nil, false
	}
	return &d, true
}

// writeEngineError maps engine errors onto HTTP statuses. Conflicts keep
// their full record list in the response body.
func writeEngineError(w http.ResponseWriter, err error) {
	var conflictErr *scheduling.ConflictError
	if errors.As(err, &conflictErr) {
		writeJSON(w, http.StatusConflict, ErrorResponse{
			Error:     "Resource conflict",
			Details:   conflictErr.Error(),
			Conflicts: toConflictDTOs(conflictErr.Conflicts),
		})
		return
	}

	switch {
	case scheduling.IsNotFound(err):
		writeError(w, http.StatusNotFound, "Not found", err)
	case errors.Is(err, scheduling.ErrAlreadyApproved),
		errors.Is(err, scheduling.ErrReferentialConflict):
		writeError(w, http.StatusConflict, "Conflict", err)
	case errors.Is(err, scheduling.ErrStoreUnavailable):
		writeError(w, http.StatusServiceUnavailable, "Store unavailable", err)
	case scheduling.IsClientError(err):
		writeError(w, http.StatusBadRequest, "Invalid request", err)
	default:
		writeError(w, http.StatusInternalServerError, "Internal error", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
