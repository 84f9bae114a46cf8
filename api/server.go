/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route
  definitions. This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for frontend

ROUTE GROUPS:
  /api/projects/*        Project management and cost reports
  /api/resources/*       Resource management and availability queries
  /api/assignments/*     Assignment create/update/delete and conflict checks
  /api/unavailability/*  Unavailability records and approval workflow

SECURITY NOTE:
  No authentication middleware. All endpoints are public; front with a
  gateway in production.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Project routes
		r.Route("/projects", func(r chi.Router) {
			r.Get("/", h.ListProjects)
			r.Post("/", h.CreateProject)
			r.Get("/{id}", h.GetProject)
			r.Delete("/{id}", h.DeleteProject)
			r.Post("/{id}/status", h.UpdateProjectStatus)
			r.Put("/{id}/budget", h.SetProjectBudget)
			r.Get("/{id}/assignments", h.GetProjectAssignments)
			r.Get("/{id}/cost", h.GetProjectCost)
		})

		// Resource routes
		r.Route("/resources", func(r chi.Router) {
			r.Get("/", h.ListResources)
			r.Post("/", h.CreateResource)
			r.Get("/{id}", h.GetResource)
			r.Put("/{id}", h.UpdateResource)
			r.Delete("/{id}", h.DeleteResource)
			r.Get("/{id}/availability", h.GetResourceAvailability)
			r.Get("/{id}/assignments", h.GetResourceAssignments)
		})

		// Assignment routes
		r.Route("/assignments", func(r chi.Router) {
			r.Post("/", h.CreateAssignment)
			r.Put("/{id}", h.UpdateAssignment)
			r.Delete("/{id}", h.DeleteAssignment)
			r.Get("/{id}/conflicts", h.CheckAssignmentConflicts)
		})

		// Unavailability routes
		r.Route("/unavailability", func(r chi.Router) {
			r.Post("/", h.CreateUnavailability)
			r.Get("/pending", h.ListPendingUnavailability)
			r.Post("/{id}/approve", h.ApproveUnavailability)
			r.Delete("/{id}", h.DeleteUnavailability)
		})
	})

	return r
}
