package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/codemauri/taskify/pkg/apperrors"
	"github.com/codemauri/taskify/pkg/auth"
	"github.com/codemauri/taskify/pkg/jsonutil"
	"github.com/codemauri/taskify/pkg/models"
	"github.com/codemauri/taskify/pkg/services"
)

// CreateTaskRequest is the body of POST /api/projects/{pid}/tasks.
// status_id may be sent as a number or a numeric string.
type CreateTaskRequest struct {
	Title       string               `json:"title"`
	Description *string              `json:"description"`
	StatusID    jsonutil.FlexibleInt `json:"status_id"`
}

// UpdateTaskRequest is the body of PATCH /api/tasks/{tid}.
type UpdateTaskRequest struct {
	Title       models.Optional[string]               `json:"title"`
	Description models.Optional[string]               `json:"description"`
	StatusID    models.Optional[jsonutil.FlexibleInt] `json:"status_id"`
}

func (req UpdateTaskRequest) toUpdate() models.TaskUpdate {
	update := models.TaskUpdate{Title: req.Title, Description: req.Description}
	switch {
	case !req.StatusID.Set:
	case req.StatusID.Null:
		update.StatusID = models.Null[int]()
	default:
		update.StatusID = models.Some(req.StatusID.Value.Int())
	}
	return update
}

// TasksHandler handles task and task-status HTTP requests.
type TasksHandler struct {
	taskService services.TaskService
	logger      *zap.Logger
}

// NewTasksHandler creates a new tasks handler.
func NewTasksHandler(taskService services.TaskService, logger *zap.Logger) *TasksHandler {
	return &TasksHandler{
		taskService: taskService,
		logger:      logger,
	}
}

// RegisterRoutes registers the tasks handler's routes on the given mux.
func (h *TasksHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("GET /api/projects/{pid}/tasks", authMiddleware.RequireAuth(h.ListByProject))
	mux.HandleFunc("POST /api/projects/{pid}/tasks", authMiddleware.RequireAuth(h.Create))
	mux.HandleFunc("PATCH /api/tasks/{tid}", authMiddleware.RequireAuth(h.Update))
	mux.HandleFunc("DELETE /api/tasks/{tid}", authMiddleware.RequireAuth(h.Delete))
	mux.HandleFunc("GET /api/task-statuses", authMiddleware.RequireAuth(h.ListStatuses))
}

// ListByProject handles GET /api/projects/{pid}/tasks?status=
func (h *TasksHandler) ListByProject(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r, h.logger)
	if !ok {
		return
	}
	projectID, ok := ParseProjectID(w, r, h.logger)
	if !ok {
		return
	}

	var statusID *int
	if raw := r.URL.Query().Get("status"); raw != "" {
		n, err := jsonutil.IntValue(raw)
		if err != nil {
			writeServiceError(w, h.logger, "list_tasks", apperrors.NewValidationError("status", "must be a status id"))
			return
		}
		statusID = &n
	}

	tasks, err := h.taskService.ListByProject(r.Context(), projectID, userID, statusID)
	if err != nil {
		writeServiceError(w, h.logger, "list_tasks", err)
		return
	}
	respond(w, h.logger, http.StatusOK, tasks)
}

// Create handles POST /api/projects/{pid}/tasks
func (h *TasksHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r, h.logger)
	if !ok {
		return
	}
	projectID, ok := ParseProjectID(w, r, h.logger)
	if !ok {
		return
	}

	var req CreateTaskRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeBadBody(w, h.logger, err)
		return
	}

	task, err := h.taskService.Create(r.Context(), userID, projectID, req.Title, req.StatusID.Int(), req.Description)
	if err != nil {
		writeServiceError(w, h.logger, "create_task", err)
		return
	}
	respond(w, h.logger, http.StatusCreated, task)
}

// Update handles PATCH /api/tasks/{tid}
func (h *TasksHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r, h.logger)
	if !ok {
		return
	}
	taskID, ok := ParseTaskID(w, r, h.logger)
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeBadBody(w, h.logger, err)
		return
	}

	task, err := h.taskService.Update(r.Context(), taskID, userID, req.toUpdate())
	if err != nil {
		writeServiceError(w, h.logger, "update_task", err)
		return
	}
	respond(w, h.logger, http.StatusOK, task)
}

// Delete handles DELETE /api/tasks/{tid}
func (h *TasksHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r, h.logger)
	if !ok {
		return
	}
	taskID, ok := ParseTaskID(w, r, h.logger)
	if !ok {
		return
	}

	if err := h.taskService.Delete(r.Context(), taskID, userID); err != nil {
		writeServiceError(w, h.logger, "delete_task", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListStatuses handles GET /api/task-statuses
func (h *TasksHandler) ListStatuses(w http.ResponseWriter, r *http.Request) {
	statuses, err := h.taskService.ListStatuses(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, "list_task_statuses", err)
		return
	}
	respond(w, h.logger, http.StatusOK, statuses)
}
