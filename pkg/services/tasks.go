package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/codemauri/taskify/pkg/apperrors"
	"github.com/codemauri/taskify/pkg/audit"
	"github.com/codemauri/taskify/pkg/models"
	"github.com/codemauri/taskify/pkg/repositories"
)

// TaskService defines the interface for task operations. A task's owner is
// its project's owner; every mutation refreshes the project's updated_at.
type TaskService interface {
	// ListByProject returns an owned project's tasks, optionally filtered by status.
	ListByProject(ctx context.Context, projectID, userID uuid.UUID, statusID *int) ([]*models.Task, error)
	Create(ctx context.Context, userID, projectID uuid.UUID, title string, statusID int, description *string) (*models.Task, error)
	Update(ctx context.Context, taskID, userID uuid.UUID, update models.TaskUpdate) (*models.Task, error)
	Delete(ctx context.Context, taskID, userID uuid.UUID) error
	ListStatuses(ctx context.Context) ([]*models.TaskStatus, error)
}

type taskService struct {
	tx          Transactor
	projectRepo repositories.ProjectRepository
	taskRepo    repositories.TaskRepository
	statusRepo  repositories.TaskStatusRepository
	auditor     *audit.SecurityAuditor
	logger      *zap.Logger
}

var _ TaskService = (*taskService)(nil)

// NewTaskService creates a new task service.
func NewTaskService(
	tx Transactor,
	projectRepo repositories.ProjectRepository,
	taskRepo repositories.TaskRepository,
	statusRepo repositories.TaskStatusRepository,
	auditor *audit.SecurityAuditor,
	logger *zap.Logger,
) TaskService {
	return &taskService{
		tx:          tx,
		projectRepo: projectRepo,
		taskRepo:    taskRepo,
		statusRepo:  statusRepo,
		auditor:     auditor,
		logger:      logger.Named("tasks"),
	}
}

func (s *taskService) ListByProject(ctx context.Context, projectID, userID uuid.UUID, statusID *int) ([]*models.Task, error) {
	owned, err := s.projectRepo.IsOwnedBy(ctx, projectID, userID)
	if err != nil {
		return nil, err
	}
	if !owned {
		s.auditor.LogAccessDenied(userID, "list_tasks", "project:"+projectID.String())
		return nil, apperrors.ErrNotFound
	}
	return s.taskRepo.ListByProject(ctx, projectID, statusID)
}

func (s *taskService) Create(ctx context.Context, userID, projectID uuid.UUID, title string, statusID int, description *string) (*models.Task, error) {
	title, err := requireTitle(title)
	if err != nil {
		return nil, err
	}
	if err := s.requireStatus(ctx, statusID); err != nil {
		return nil, err
	}

	task := &models.Task{
		Title:       title,
		Description: sanitizeDescription(description),
		StatusID:    statusID,
		ProjectID:   projectID,
	}

	err = s.tx.WithTx(ctx, func(ctx context.Context) error {
		// The conditional touch is the ownership check.
		if err := s.projectRepo.Touch(ctx, projectID, userID); err != nil {
			return err
		}
		if err := s.taskRepo.Create(ctx, task); err != nil {
			return err
		}
		created, err := s.taskRepo.Get(ctx, task.ID)
		if err != nil {
			return err
		}
		task = created
		return nil
	})
	if err != nil {
		return nil, s.denied(err, userID, "create_task", "project:"+projectID.String())
	}

	s.logger.Debug("Created task",
		zap.String("task_id", task.ID.String()),
		zap.String("project_id", projectID.String()))
	return task, nil
}

func (s *taskService) Update(ctx context.Context, taskID, userID uuid.UUID, update models.TaskUpdate) (*models.Task, error) {
	if update.Title.Set {
		if update.Title.Null {
			return nil, apperrors.NewValidationError("title", "cannot be null")
		}
		title, err := requireTitle(update.Title.Value)
		if err != nil {
			return nil, err
		}
		update.Title = models.Some(title)
	}
	if update.StatusID.Set {
		if update.StatusID.Null {
			return nil, apperrors.NewValidationError("status_id", "cannot be null")
		}
		if err := s.requireStatus(ctx, update.StatusID.Value); err != nil {
			return nil, err
		}
	}
	update.Description = normalizeDescriptionUpdate(update.Description)

	var task *models.Task
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		projectID, err := s.taskRepo.OwnedProjectID(ctx, taskID, userID)
		if err != nil {
			return err
		}
		if err := s.projectRepo.Touch(ctx, projectID, userID); err != nil {
			return err
		}
		if err := s.taskRepo.Update(ctx, taskID, projectID, update); err != nil {
			return err
		}
		task, err = s.taskRepo.Get(ctx, taskID)
		return err
	})
	if err != nil {
		return nil, s.denied(err, userID, "update_task", "task:"+taskID.String())
	}
	return task, nil
}

func (s *taskService) Delete(ctx context.Context, taskID, userID uuid.UUID) error {
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		projectID, err := s.taskRepo.OwnedProjectID(ctx, taskID, userID)
		if err != nil {
			return err
		}
		if err := s.projectRepo.Touch(ctx, projectID, userID); err != nil {
			return err
		}
		return s.taskRepo.Delete(ctx, taskID, projectID)
	})
	if err != nil {
		return s.denied(err, userID, "delete_task", "task:"+taskID.String())
	}
	return nil
}

func (s *taskService) ListStatuses(ctx context.Context) ([]*models.TaskStatus, error) {
	return s.statusRepo.List(ctx)
}

// requireStatus rejects missing or unknown status ids as validation errors.
func (s *taskService) requireStatus(ctx context.Context, statusID int) error {
	if statusID == 0 {
		return apperrors.NewValidationError("status_id", "is required")
	}
	if _, err := s.statusRepo.Get(ctx, statusID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NewValidationError("status_id", "is not a known status")
		}
		return err
	}
	return nil
}

func (s *taskService) denied(err error, userID uuid.UUID, op, resource string) error {
	if errors.Is(err, apperrors.ErrNotFound) {
		s.auditor.LogAccessDenied(userID, op, resource)
	}
	return err
}
