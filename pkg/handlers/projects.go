package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/codemauri/taskify/pkg/auth"
	"github.com/codemauri/taskify/pkg/models"
	"github.com/codemauri/taskify/pkg/services"
)

// CreateProjectRequest is the body of POST /api/projects.
type CreateProjectRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
}

// UpdateProjectRequest is the body of PATCH /api/projects/{pid}. Absent keys
// are left unchanged; an explicit null description clears it.
type UpdateProjectRequest struct {
	Title       models.Optional[string] `json:"title"`
	Description models.Optional[string] `json:"description"`
}

// ProjectsHandler handles project-related HTTP requests.
type ProjectsHandler struct {
	projectService services.ProjectService
	logger         *zap.Logger
}

// NewProjectsHandler creates a new projects handler.
func NewProjectsHandler(projectService services.ProjectService, logger *zap.Logger) *ProjectsHandler {
	return &ProjectsHandler{
		projectService: projectService,
		logger:         logger,
	}
}

// RegisterRoutes registers the projects handler's routes on the given mux.
func (h *ProjectsHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("GET /api/projects", authMiddleware.RequireAuth(h.List))
	mux.HandleFunc("GET /api/projects/search", authMiddleware.RequireAuth(h.Search))
	mux.HandleFunc("POST /api/projects", authMiddleware.RequireAuth(h.Create))
	mux.HandleFunc("GET /api/projects/{pid}", authMiddleware.RequireAuth(h.Get))
	mux.HandleFunc("PATCH /api/projects/{pid}", authMiddleware.RequireAuth(h.Update))
	mux.HandleFunc("DELETE /api/projects/{pid}", authMiddleware.RequireAuth(h.Delete))
}

// List handles GET /api/projects
func (h *ProjectsHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r, h.logger)
	if !ok {
		return
	}

	projects, err := h.projectService.List(r.Context(), userID)
	if err != nil {
		writeServiceError(w, h.logger, "list_projects", err)
		return
	}
	respond(w, h.logger, http.StatusOK, projects)
}

// Search handles GET /api/projects/search?q=
func (h *ProjectsHandler) Search(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r, h.logger)
	if !ok {
		return
	}

	projects, err := h.projectService.Search(r.Context(), userID, r.URL.Query().Get("q"))
	if err != nil {
		writeServiceError(w, h.logger, "search_projects", err)
		return
	}
	respond(w, h.logger, http.StatusOK, projects)
}

// Create handles POST /api/projects
func (h *ProjectsHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r, h.logger)
	if !ok {
		return
	}

	var req CreateProjectRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeBadBody(w, h.logger, err)
		return
	}

	project, err := h.projectService.Create(r.Context(), userID, req.Title, req.Description)
	if err != nil {
		writeServiceError(w, h.logger, "create_project", err)
		return
	}
	respond(w, h.logger, http.StatusCreated, project)
}

// Get handles GET /api/projects/{pid}
func (h *ProjectsHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r, h.logger)
	if !ok {
		return
	}
	projectID, ok := ParseProjectID(w, r, h.logger)
	if !ok {
		return
	}

	project, err := h.projectService.Get(r.Context(), projectID, userID)
	if err != nil {
		writeServiceError(w, h.logger, "get_project", err)
		return
	}
	respond(w, h.logger, http.StatusOK, project)
}

// Update handles PATCH /api/projects/{pid}
func (h *ProjectsHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r, h.logger)
	if !ok {
		return
	}
	projectID, ok := ParseProjectID(w, r, h.logger)
	if !ok {
		return
	}

	var req UpdateProjectRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeBadBody(w, h.logger, err)
		return
	}

	project, err := h.projectService.Update(r.Context(), projectID, userID, models.ProjectUpdate{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		writeServiceError(w, h.logger, "update_project", err)
		return
	}
	respond(w, h.logger, http.StatusOK, project)
}

// Delete handles DELETE /api/projects/{pid}
func (h *ProjectsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r, h.logger)
	if !ok {
		return
	}
	projectID, ok := ParseProjectID(w, r, h.logger)
	if !ok {
		return
	}

	if err := h.projectService.Delete(r.Context(), projectID, userID); err != nil {
		writeServiceError(w, h.logger, "delete_project", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
