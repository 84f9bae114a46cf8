/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Validation is done in handlers and the engine, not in DTOs. DTOs are
  pure data carriers. Dates travel as "YYYY-MM-DD" strings; money travels
  as decimal strings to avoid float drift in clients.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"github.com/jdmdude62/SimpleProjectResourceManager-sub006/scheduling"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// ProjectDTO represents a project in API responses.
type ProjectDTO struct {
	ID          string  `json:"id"`
	Code        string  `json:"code"`
	Description string  `json:"description,omitempty"`
	StartDate   string  `json:"start_date"`
	EndDate     string  `json:"end_date"`
	Status      string  `json:"status"`
	Budget      *string `json:"budget,omitempty"`
}

type CreateProjectRequest struct {
	Code        string  `json:"code"`
	Description string  `json:"description"`
	StartDate   string  `json:"start_date"`
	EndDate     string  `json:"end_date"`
	Budget      *string `json:"budget,omitempty"`
}

type UpdateProjectStatusRequest struct {
	Status string `json:"status"`
}

type SetProjectBudgetRequest struct {
	Budget *string `json:"budget"`
}

// ResourceDTO represents a resource in API responses.
type ResourceDTO struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Email     string  `json:"email,omitempty"`
	Category  string  `json:"category"`
	DailyRate *string `json:"daily_rate,omitempty"`
}

type CreateResourceRequest struct {
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	Category  string  `json:"category"`
	DailyRate *string `json:"daily_rate,omitempty"`
}

type UpdateResourceRequest struct {
	Category  string  `json:"category"`
	DailyRate *string `json:"daily_rate,omitempty"`
}

// AssignmentDTO represents an assignment in API responses.
type AssignmentDTO struct {
	ID             string  `json:"id"`
	ProjectID      string  `json:"project_id"`
	ResourceID     *string `json:"resource_id,omitempty"`
	StartDate      string  `json:"start_date"`
	EndDate        string  `json:"end_date"`
	TravelOutDays  int     `json:"travel_out_days,omitempty"`
	TravelBackDays int     `json:"travel_back_days,omitempty"`
	Notes          string  `json:"notes,omitempty"`
}

type CreateAssignmentRequest struct {
	ProjectID      string  `json:"project_id"`
	ResourceID     *string `json:"resource_id,omitempty"`
	StartDate      string  `json:"start_date"`
	EndDate        string  `json:"end_date"`
	TravelOutDays  int     `json:"travel_out_days,omitempty"`
	TravelBackDays int     `json:"travel_back_days,omitempty"`
	Notes          string  `json:"notes,omitempty"`
}

type UpdateAssignmentRequest struct {
	ResourceID     *string `json:"resource_id,omitempty"`
	StartDate      string  `json:"start_date"`
	EndDate        string  `json:"end_date"`
	TravelOutDays  int     `json:"travel_out_days,omitempty"`
	TravelBackDays int     `json:"travel_back_days,omitempty"`
	Notes          string  `json:"notes,omitempty"`
}

// UnavailabilityDTO represents an unavailability record in API responses.
type UnavailabilityDTO struct {
	ID                string `json:"id"`
	ResourceID        string `json:"resource_id"`
	Type              string `json:"type"`
	StartDate         string `json:"start_date"`
	EndDate           string `json:"end_date"`
	Reason            string `json:"reason,omitempty"`
	Approved          bool   `json:"approved"`
	ApprovedBy        string `json:"approved_by,omitempty"`
	RecurrencePattern string `json:"recurrence_pattern,omitempty"`
}

type CreateUnavailabilityRequest struct {
	ResourceID        string `json:"resource_id"`
	Type              string `json:"type"`
	StartDate         string `json:"start_date"`
	EndDate           string `json:"end_date"`
	Reason            string `json:"reason,omitempty"`
	RecurrencePattern string `json:"recurrence_pattern,omitempty"`
	Approved          bool   `json:"approved,omitempty"`
	ApprovedBy        string `json:"approved_by,omitempty"`
}

type ApproveUnavailabilityRequest struct {
	ApproverName string `json:"approver_name"`
}

// AvailabilityDTO answers an availability query.
type AvailabilityDTO struct {
	ResourceID string `json:"resource_id"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	Available  bool   `json:"available"`
}

// ConflictCheckDTO answers a has-conflicts re-check of an existing assignment.
type ConflictCheckDTO struct {
	AssignmentID string `json:"assignment_id"`
	HasConflicts bool   `json:"has_conflicts"`
}

// ConflictDTO is one conflicting record inside a 409 response.
type ConflictDTO struct {
	Kind      string `json:"kind"` // "assignment" | "unavailability"
	ID        string `json:"id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Detail    string `json:"detail,omitempty"`
}

// CostImpactDTO is the project budget report.
type CostImpactDTO struct {
	ProjectID   string `json:"project_id"`
	PlannedCost string `json:"planned_cost"`
	ActualCost  string `json:"actual_cost"`
	CostOverrun string `json:"cost_overrun"`
}

// ErrorResponse is the uniform error envelope. Conflicts carries the full
// offending-record list on 409 responses so clients can remediate in one
// round trip.
type ErrorResponse struct {
	Error     string        `json:"error"`
	Details   string        `json:"details,omitempty"`
	Conflicts []ConflictDTO `json:"conflicts,omitempty"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func toProjectDTO(p scheduling.Project) ProjectDTO {
	dto := ProjectDTO{
		ID:          string(p.ID),
		Code:        p.Code,
		Description: p.Description,
		StartDate:   p.Window.Start.String(),
		EndDate:     p.Window.End.String(),
		Status:      string(p.Status),
	}
	if p.Budget != nil {
		s := p.Budget.String()
		dto.Budget = &s
	}
	return dto
}

func toResourceDTO(r scheduling.Resource) ResourceDTO {
	dto := ResourceDTO{
		ID:       string(r.ID),
		Name:     r.Name,
		Email:    r.Email,
		Category: string(r.Category),
	}
	if r.DailyRate != nil {
		s := r.DailyRate.String()
		dto.DailyRate = &s
	}
	return dto
}

func toAssignmentDTO(a scheduling.Assignment) AssignmentDTO {
	dto := AssignmentDTO{
		ID:             string(a.ID),
		ProjectID:      string(a.ProjectID),
		StartDate:      a.Window.Start.String(),
		EndDate:        a.Window.End.String(),
		TravelOutDays:  a.TravelOutDays,
		TravelBackDays: a.TravelBackDays,
		Notes:          a.Notes,
	}
	if a.ResourceID != nil {
		s := string(*a.ResourceID)
		dto.ResourceID = &s
	}
	return dto
}

func toUnavailabilityDTO(u scheduling.Unavailability) UnavailabilityDTO {
	dto := UnavailabilityDTO{
		ID:         string(u.ID),
		ResourceID: string(u.ResourceID),
		Type:       string(u.Type),
		StartDate:  u.Window.Start.String(),
		EndDate:    u.Window.End.String(),
		Reason:     u.Reason,
		Approved:   u.Approved,
		ApprovedBy: u.ApprovedBy,
	}
	if u.Pattern != nil {
		dto.RecurrencePattern = u.Pattern.String()
	}
	return dto
}

func toConflictDTOs(conflicts []scheduling.Conflict) []ConflictDTO {
	out := make([]ConflictDTO, len(conflicts))
	for i, c := range conflicts {
		dto := ConflictDTO{
			Kind:      string(c.Kind),
			StartDate: c.Window().Start.String(),
			EndDate:   c.Window().End.String(),
			Detail:    c.String(),
		}
		switch c.Kind {
		case scheduling.ConflictAssignment:
			dto.ID = string(c.Assignment.ID)
		case scheduling.ConflictUnavailability:
			dto.ID = string(c.Unavailability.ID)
		}
		out[i] = dto
	}
	return out
}
