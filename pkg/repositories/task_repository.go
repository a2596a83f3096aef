package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/codemauri/taskify/pkg/apperrors"
	"github.com/codemauri/taskify/pkg/database"
	"github.com/codemauri/taskify/pkg/models"
)

// TaskRepository defines the interface for task data access.
// Ownership is resolved through the parent project: mutations are
// conditional on the task still belonging to the given project.
type TaskRepository interface {
	ListByProject(ctx context.Context, projectID uuid.UUID, statusID *int) ([]*models.Task, error)
	Get(ctx context.Context, taskID uuid.UUID) (*models.Task, error)
	// OwnedProjectID returns the parent project of a task owned by userID.
	OwnedProjectID(ctx context.Context, taskID, userID uuid.UUID) (uuid.UUID, error)
	Create(ctx context.Context, task *models.Task) error
	Update(ctx context.Context, taskID, projectID uuid.UUID, update models.TaskUpdate) error
	Delete(ctx context.Context, taskID, projectID uuid.UUID) error
}

type taskRepository struct {
	db *database.DB
}

var _ TaskRepository = (*taskRepository)(nil)

// NewTaskRepository creates a new task repository.
func NewTaskRepository(db *database.DB) TaskRepository {
	return &taskRepository{db: db}
}

const taskSelect = `
		SELECT t.id, t.title, t.description, t.status_id, t.project_id, t.created_at, t.updated_at,
		       s.id, s.name, s.sort_order
		FROM tasks t
		JOIN task_statuses s ON s.id = t.status_id`

// ListByProject returns the project's tasks by status precedence, newest
// first within a status. Insertion order breaks created_at ties.
func (r *taskRepository) ListByProject(ctx context.Context, projectID uuid.UUID, statusID *int) ([]*models.Task, error) {
	where := []string{"t.project_id = ?"}
	args := []any{projectID}
	if statusID != nil {
		where = append(where, "t.status_id = ?")
		args = append(args, *statusID)
	}

	query := taskSelect + `
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY s.sort_order ASC, t.created_at DESC, t.seq DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Storage("list tasks", err)
	}
	defer rows.Close()

	tasks := make([]*models.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, apperrors.Storage("list tasks", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Storage("list tasks", err)
	}
	return tasks, nil
}

func (r *taskRepository) Get(ctx context.Context, taskID uuid.UUID) (*models.Task, error) {
	task, err := scanTask(r.db.QueryRow(ctx, taskSelect+` WHERE t.id = ?`, taskID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.Storage("get task", err)
	}
	return task, nil
}

func (r *taskRepository) OwnedProjectID(ctx context.Context, taskID, userID uuid.UUID) (uuid.UUID, error) {
	query := `
		SELECT t.project_id
		FROM tasks t
		JOIN projects p ON p.id = t.project_id
		WHERE t.id = ? AND p.user_id = ?`

	var projectID uuid.UUID
	if err := r.db.QueryRow(ctx, query, taskID, userID).Scan(&projectID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return uuid.Nil, apperrors.ErrNotFound
		}
		return uuid.Nil, apperrors.Storage("resolve task owner", err)
	}
	return projectID, nil
}

// Create inserts a task, assigning its id and timestamps. The caller is
// responsible for having verified ownership of task.ProjectID.
func (r *taskRepository) Create(ctx context.Context, task *models.Task) error {
	if task.ID == uuid.Nil {
		task.ID = uuid.New()
	}
	now := database.Now()
	task.CreatedAt = now
	task.UpdatedAt = now

	query := `
		INSERT INTO tasks (id, title, description, status_id, project_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.Exec(ctx, query,
		task.ID,
		task.Title,
		nullableString(task.Description),
		task.StatusID,
		task.ProjectID,
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		return apperrors.Storage("create task", err)
	}
	return nil
}

// Update applies the supplied fields and refreshes updated_at, only if the
// task still belongs to projectID.
func (r *taskRepository) Update(ctx context.Context, taskID, projectID uuid.UUID, update models.TaskUpdate) error {
	sets := make([]string, 0, 4)
	args := make([]any, 0, 6)

	if update.Title.Set {
		sets = append(sets, "title = ?")
		args = append(args, update.Title.Value)
	}
	if update.Description.Set {
		sets = append(sets, "description = ?")
		args = append(args, nullableString(update.Description.Ptr()))
	}
	if update.StatusID.Set {
		sets = append(sets, "status_id = ?")
		args = append(args, update.StatusID.Value)
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, database.Now(), taskID, projectID)

	query := "UPDATE tasks SET " + strings.Join(sets, ", ") + " WHERE id = ? AND project_id = ?"

	result, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return apperrors.Storage("update task", err)
	}
	return requireAffected(result, "update task")
}

func (r *taskRepository) Delete(ctx context.Context, taskID, projectID uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM tasks WHERE id = ? AND project_id = ?`, taskID, projectID)
	if err != nil {
		return apperrors.Storage("delete task", err)
	}
	return requireAffected(result, "delete task")
}
