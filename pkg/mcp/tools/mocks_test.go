package tools

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/codemauri/taskify/pkg/apperrors"
	"github.com/codemauri/taskify/pkg/models"
)

var errStorage = apperrors.Storage("list projects", errors.New("disk full"))

func newMockedServer(projects *mockProjectService, tasks *mockTaskService) *server.MCPServer {
	mcpServer := server.NewMCPServer("test", "1.0.0", server.WithToolCapabilities(true))
	RegisterAll(mcpServer, &ToolDeps{Projects: projects, Tasks: tasks, Logger: zap.NewNop()}, "test")
	return mcpServer
}

type mockProjectService struct {
	err       error
	listCalls int
}

func (m *mockProjectService) List(ctx context.Context, userID uuid.UUID) ([]*models.ProjectSummary, error) {
	m.listCalls++
	if m.err != nil {
		return nil, m.err
	}
	return []*models.ProjectSummary{}, nil
}

func (m *mockProjectService) Get(ctx context.Context, projectID, userID uuid.UUID) (*models.ProjectWithTasks, error) {
	return nil, m.err
}

func (m *mockProjectService) Create(ctx context.Context, userID uuid.UUID, title string, description *string) (*models.Project, error) {
	return nil, m.err
}

func (m *mockProjectService) Update(ctx context.Context, projectID, userID uuid.UUID, update models.ProjectUpdate) (*models.Project, error) {
	return nil, m.err
}

func (m *mockProjectService) Delete(ctx context.Context, projectID, userID uuid.UUID) error {
	return m.err
}

func (m *mockProjectService) Search(ctx context.Context, userID uuid.UUID, query string) ([]*models.ProjectSummary, error) {
	return nil, m.err
}

func (m *mockProjectService) VerifyOwnership(ctx context.Context, projectID, userID uuid.UUID) (bool, error) {
	return false, m.err
}

type mockTaskService struct {
	err           error
	capturedTitle string
	capturedDesc  *string
	capturedSt    int
	capturedUpd   models.TaskUpdate
}

func (m *mockTaskService) ListByProject(ctx context.Context, projectID, userID uuid.UUID, statusID *int) ([]*models.Task, error) {
	return []*models.Task{}, m.err
}

func (m *mockTaskService) Create(ctx context.Context, userID, projectID uuid.UUID, title string, statusID int, description *string) (*models.Task, error) {
	m.capturedTitle = title
	m.capturedSt = statusID
	m.capturedDesc = description
	if m.err != nil {
		return nil, m.err
	}
	return &models.Task{ID: uuid.New(), ProjectID: projectID, Title: title, StatusID: statusID, Description: description}, nil
}

func (m *mockTaskService) Update(ctx context.Context, taskID, userID uuid.UUID, update models.TaskUpdate) (*models.Task, error) {
	m.capturedUpd = update
	if m.err != nil {
		return nil, m.err
	}
	return &models.Task{ID: taskID}, nil
}

func (m *mockTaskService) Delete(ctx context.Context, taskID, userID uuid.UUID) error {
	return m.err
}

func (m *mockTaskService) ListStatuses(ctx context.Context) ([]*models.TaskStatus, error) {
	return []*models.TaskStatus{}, m.err
}
