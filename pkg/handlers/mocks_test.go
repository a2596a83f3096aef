package handlers

import (
	"context"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/codemauri/taskify/pkg/auth"
	"github.com/codemauri/taskify/pkg/models"
)

// withUser returns r carrying claims for userID, as RequireAuth would set.
func withUser(r *http.Request, userID uuid.UUID) *http.Request {
	claims := &auth.Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: userID.String()}}
	return r.WithContext(auth.WithClaims(r.Context(), claims))
}

// mockProjectService is a configurable mock for project handler tests.
type mockProjectService struct {
	err       error
	project   *models.Project
	detail    *models.ProjectWithTasks
	summaries []*models.ProjectSummary

	capturedUserID  uuid.UUID
	capturedID      uuid.UUID
	capturedTitle   string
	capturedDesc    *string
	capturedQuery   string
	capturedUpdate  models.ProjectUpdate
	deleteCallCount int
}

func (m *mockProjectService) List(ctx context.Context, userID uuid.UUID) ([]*models.ProjectSummary, error) {
	m.capturedUserID = userID
	return m.summaries, m.err
}

func (m *mockProjectService) Get(ctx context.Context, projectID, userID uuid.UUID) (*models.ProjectWithTasks, error) {
	m.capturedID, m.capturedUserID = projectID, userID
	if m.err != nil {
		return nil, m.err
	}
	return m.detail, nil
}

func (m *mockProjectService) Create(ctx context.Context, userID uuid.UUID, title string, description *string) (*models.Project, error) {
	m.capturedUserID, m.capturedTitle, m.capturedDesc = userID, title, description
	if m.err != nil {
		return nil, m.err
	}
	return m.project, nil
}

func (m *mockProjectService) Update(ctx context.Context, projectID, userID uuid.UUID, update models.ProjectUpdate) (*models.Project, error) {
	m.capturedID, m.capturedUserID, m.capturedUpdate = projectID, userID, update
	if m.err != nil {
		return nil, m.err
	}
	return m.project, nil
}

func (m *mockProjectService) Delete(ctx context.Context, projectID, userID uuid.UUID) error {
	m.capturedID, m.capturedUserID = projectID, userID
	m.deleteCallCount++
	return m.err
}

func (m *mockProjectService) Search(ctx context.Context, userID uuid.UUID, query string) ([]*models.ProjectSummary, error) {
	m.capturedUserID, m.capturedQuery = userID, query
	return m.summaries, m.err
}

func (m *mockProjectService) VerifyOwnership(ctx context.Context, projectID, userID uuid.UUID) (bool, error) {
	return m.err == nil, m.err
}

// mockTaskService is a configurable mock for task handler tests.
type mockTaskService struct {
	err      error
	task     *models.Task
	tasks    []*models.Task
	statuses []*models.TaskStatus

	capturedProjectID uuid.UUID
	capturedTaskID    uuid.UUID
	capturedUserID    uuid.UUID
	capturedTitle     string
	capturedStatusID  int
	capturedFilter    *int
	capturedUpdate    models.TaskUpdate
}

func (m *mockTaskService) ListByProject(ctx context.Context, projectID, userID uuid.UUID, statusID *int) ([]*models.Task, error) {
	m.capturedProjectID, m.capturedUserID, m.capturedFilter = projectID, userID, statusID
	return m.tasks, m.err
}

func (m *mockTaskService) Create(ctx context.Context, userID, projectID uuid.UUID, title string, statusID int, description *string) (*models.Task, error) {
	m.capturedUserID, m.capturedProjectID = userID, projectID
	m.capturedTitle, m.capturedStatusID = title, statusID
	if m.err != nil {
		return nil, m.err
	}
	return m.task, nil
}

func (m *mockTaskService) Update(ctx context.Context, taskID, userID uuid.UUID, update models.TaskUpdate) (*models.Task, error) {
	m.capturedTaskID, m.capturedUserID, m.capturedUpdate = taskID, userID, update
	if m.err != nil {
		return nil, m.err
	}
	return m.task, nil
}

func (m *mockTaskService) Delete(ctx context.Context, taskID, userID uuid.UUID) error {
	m.capturedTaskID, m.capturedUserID = taskID, userID
	return m.err
}

func (m *mockTaskService) ListStatuses(ctx context.Context) ([]*models.TaskStatus, error) {
	return m.statuses, m.err
}

// mockUserService is a configurable mock for auth handler tests.
type mockUserService struct {
	user *models.User
	err  error

	capturedEmail    string
	capturedPassword string
}

func (m *mockUserService) Register(ctx context.Context, email, name, password string) (*models.User, error) {
	m.capturedEmail, m.capturedPassword = email, password
	if m.err != nil {
		return nil, m.err
	}
	return m.user, nil
}

func (m *mockUserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	m.capturedEmail, m.capturedPassword = email, password
	if m.err != nil {
		return nil, m.err
	}
	return m.user, nil
}

func (m *mockUserService) Get(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.user, nil
}
