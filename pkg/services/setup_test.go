package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/codemauri/taskify/pkg/audit"
	"github.com/codemauri/taskify/pkg/database"
	"github.com/codemauri/taskify/pkg/models"
	"github.com/codemauri/taskify/pkg/repositories"
	"github.com/codemauri/taskify/pkg/testhelpers"
)

// serviceTestContext wires real services over a fresh SQLite database.
type serviceTestContext struct {
	t        *testing.T
	db       *database.DB
	projects ProjectService
	tasks    TaskService
	userRepo repositories.UserRepository
}

func setupServiceTest(t *testing.T) *serviceTestContext {
	t.Helper()
	db := testhelpers.NewSQLiteDB(t)
	logger := zap.NewNop()
	auditor := audit.NewSecurityAuditor(logger)

	projectRepo := repositories.NewProjectRepository(db)
	taskRepo := repositories.NewTaskRepository(db)
	statusRepo := repositories.NewTaskStatusRepository(db)

	return &serviceTestContext{
		t:        t,
		db:       db,
		projects: NewProjectService(projectRepo, taskRepo, auditor, logger),
		tasks:    NewTaskService(db, projectRepo, taskRepo, statusRepo, auditor, logger),
		userRepo: repositories.NewUserRepository(db),
	}
}

func (tc *serviceTestContext) createUser() uuid.UUID {
	tc.t.Helper()
	u := &models.User{Email: uuid.NewString() + "@example.com", PasswordHash: "x"}
	require.NoError(tc.t, tc.userRepo.Create(context.Background(), u))
	return u.ID
}

func (tc *serviceTestContext) createProject(userID uuid.UUID, title string) *models.Project {
	tc.t.Helper()
	p, err := tc.projects.Create(context.Background(), userID, title, nil)
	require.NoError(tc.t, err)
	return p
}

func (tc *serviceTestContext) createTask(userID, projectID uuid.UUID, title string, statusID int) *models.Task {
	tc.t.Helper()
	task, err := tc.tasks.Create(context.Background(), userID, projectID, title, statusID, nil)
	require.NoError(tc.t, err)
	return task
}

func (tc *serviceTestContext) getProject(projectID, userID uuid.UUID) models.ProjectWithTasks {
	tc.t.Helper()
	p, err := tc.projects.Get(context.Background(), projectID, userID)
	require.NoError(tc.t, err)
	return *p
}

func strPtr(s string) *string { return &s }
