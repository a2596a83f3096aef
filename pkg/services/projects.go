package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/codemauri/taskify/pkg/apperrors"
	"github.com/codemauri/taskify/pkg/audit"
	"github.com/codemauri/taskify/pkg/models"
	"github.com/codemauri/taskify/pkg/repositories"
	sqlcheck "github.com/codemauri/taskify/pkg/sql"
)

// ProjectService defines the interface for project operations.
// Every method is scoped to userID; a project owned by someone else is
// reported as apperrors.ErrNotFound, exactly like a missing one.
type ProjectService interface {
	// List returns the user's projects with task counts, most recently updated first.
	List(ctx context.Context, userID uuid.UUID) ([]*models.ProjectSummary, error)
	// Get returns an owned project with its tasks.
	Get(ctx context.Context, projectID, userID uuid.UUID) (*models.ProjectWithTasks, error)
	Create(ctx context.Context, userID uuid.UUID, title string, description *string) (*models.Project, error)
	// Update applies a partial update and always refreshes updated_at.
	Update(ctx context.Context, projectID, userID uuid.UUID, update models.ProjectUpdate) (*models.Project, error)
	Delete(ctx context.Context, projectID, userID uuid.UUID) error
	// Search matches query as a case-insensitive title substring. A blank
	// query returns an empty result without touching storage.
	Search(ctx context.Context, userID uuid.UUID, query string) ([]*models.ProjectSummary, error)
	// VerifyOwnership queries storage on every call.
	VerifyOwnership(ctx context.Context, projectID, userID uuid.UUID) (bool, error)
}

type projectService struct {
	projectRepo repositories.ProjectRepository
	taskRepo    repositories.TaskRepository
	auditor     *audit.SecurityAuditor
	logger      *zap.Logger
}

var _ ProjectService = (*projectService)(nil)

// NewProjectService creates a new project service.
func NewProjectService(
	projectRepo repositories.ProjectRepository,
	taskRepo repositories.TaskRepository,
	auditor *audit.SecurityAuditor,
	logger *zap.Logger,
) ProjectService {
	return &projectService{
		projectRepo: projectRepo,
		taskRepo:    taskRepo,
		auditor:     auditor,
		logger:      logger.Named("projects"),
	}
}

func (s *projectService) List(ctx context.Context, userID uuid.UUID) ([]*models.ProjectSummary, error) {
	return s.projectRepo.ListByUser(ctx, userID)
}

func (s *projectService) Get(ctx context.Context, projectID, userID uuid.UUID) (*models.ProjectWithTasks, error) {
	project, err := s.projectRepo.GetOwned(ctx, projectID, userID)
	if err != nil {
		return nil, s.denied(err, userID, "get_project", projectID)
	}

	tasks, err := s.taskRepo.ListByProject(ctx, projectID, nil)
	if err != nil {
		return nil, err
	}

	return &models.ProjectWithTasks{Project: *project, Tasks: tasks}, nil
}

func (s *projectService) Create(ctx context.Context, userID uuid.UUID, title string, description *string) (*models.Project, error) {
	title, err := requireTitle(title)
	if err != nil {
		return nil, err
	}

	project := &models.Project{
		Title:       title,
		Description: sanitizeDescription(description),
		UserID:      userID,
	}
	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, err
	}

	s.logger.Debug("Created project",
		zap.String("project_id", project.ID.String()),
		zap.String("user_id", userID.String()))
	return project, nil
}

func (s *projectService) Update(ctx context.Context, projectID, userID uuid.UUID, update models.ProjectUpdate) (*models.Project, error) {
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
	update.Description = normalizeDescriptionUpdate(update.Description)

	project, err := s.projectRepo.Update(ctx, projectID, userID, update)
	if err != nil {
		return nil, s.denied(err, userID, "update_project", projectID)
	}
	return project, nil
}

func (s *projectService) Delete(ctx context.Context, projectID, userID uuid.UUID) error {
	if err := s.projectRepo.Delete(ctx, projectID, userID); err != nil {
		return s.denied(err, userID, "delete_project", projectID)
	}

	s.logger.Debug("Deleted project",
		zap.String("project_id", projectID.String()),
		zap.String("user_id", userID.String()))
	return nil
}

func (s *projectService) Search(ctx context.Context, userID uuid.UUID, query string) ([]*models.ProjectSummary, error) {
	if strings.TrimSpace(query) == "" {
		return []*models.ProjectSummary{}, nil
	}

	if result := sqlcheck.CheckForInjection("q", query); result != nil {
		s.auditor.LogInjectionAttempt(userID, audit.InjectionDetails{
			ParamName:   result.ParamName,
			ParamValue:  result.ParamValue,
			Fingerprint: result.Fingerprint,
			Operation:   "search_projects",
		})
	}

	return s.projectRepo.SearchByTitle(ctx, userID, query)
}

func (s *projectService) VerifyOwnership(ctx context.Context, projectID, userID uuid.UUID) (bool, error) {
	return s.projectRepo.IsOwnedBy(ctx, projectID, userID)
}

// denied audits ownership failures and passes err through unchanged.
func (s *projectService) denied(err error, userID uuid.UUID, op string, projectID uuid.UUID) error {
	if errors.Is(err, apperrors.ErrNotFound) {
		s.auditor.LogAccessDenied(userID, op, "project:"+projectID.String())
	}
	return err
}
