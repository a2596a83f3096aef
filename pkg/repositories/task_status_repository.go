package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/codemauri/taskify/pkg/apperrors"
	"github.com/codemauri/taskify/pkg/database"
	"github.com/codemauri/taskify/pkg/models"
)

// TaskStatusRepository reads the status lookup table.
type TaskStatusRepository interface {
	List(ctx context.Context) ([]*models.TaskStatus, error)
	Get(ctx context.Context, id int) (*models.TaskStatus, error)
}

type taskStatusRepository struct {
	db *database.DB
}

var _ TaskStatusRepository = (*taskStatusRepository)(nil)

// NewTaskStatusRepository creates a new task status repository.
func NewTaskStatusRepository(db *database.DB) TaskStatusRepository {
	return &taskStatusRepository{db: db}
}

func (r *taskStatusRepository) List(ctx context.Context) ([]*models.TaskStatus, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, sort_order FROM task_statuses ORDER BY sort_order, id`)
	if err != nil {
		return nil, apperrors.Storage("list task statuses", err)
	}
	defer rows.Close()

	statuses := make([]*models.TaskStatus, 0, 3)
	for rows.Next() {
		var s models.TaskStatus
		if err := rows.Scan(&s.ID, &s.Name, &s.SortOrder); err != nil {
			return nil, apperrors.Storage("list task statuses", err)
		}
		statuses = append(statuses, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Storage("list task statuses", err)
	}
	return statuses, nil
}

func (r *taskStatusRepository) Get(ctx context.Context, id int) (*models.TaskStatus, error) {
	var s models.TaskStatus
	err := r.db.QueryRow(ctx, `SELECT id, name, sort_order FROM task_statuses WHERE id = ?`, id).
		Scan(&s.ID, &s.Name, &s.SortOrder)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.Storage("get task status", err)
	}
	return &s, nil
}
