package tools

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codemauri/taskify/pkg/models"
)

func TestTaskTools_Lifecycle(t *testing.T) {
	tc := setupToolTest(t)
	alice := userContext(tc.createUser())
	bob := userContext(tc.createUser())

	var project models.Project
	decodeResult(t, callTool(t, tc.mcpServer, alice, "create_project", map[string]any{"title": "Launch Plan"}), &project)

	var task models.Task
	decodeResult(t, callTool(t, tc.mcpServer, alice, "create_task", map[string]any{
		"project_id": project.ID.String(),
		"title":      "Draft announcement",
		"status_id":  models.StatusIncomplete,
	}), &task)
	assert.Equal(t, project.ID, task.ProjectID)
	assert.Equal(t, models.StatusIncomplete, task.StatusID)

	// Numeric strings are accepted for status ids.
	var updated models.Task
	decodeResult(t, callTool(t, tc.mcpServer, alice, "update_task", map[string]any{
		"task_id":   task.ID.String(),
		"status_id": "2",
	}), &updated)
	assert.Equal(t, models.StatusInProgress, updated.StatusID)
	assert.Equal(t, "Draft announcement", updated.Title)

	errResp := decodeToolError(t, callTool(t, tc.mcpServer, bob, "update_task", map[string]any{
		"task_id": task.ID.String(),
		"title":   "Mine now",
	}))
	assert.Equal(t, "not_found", errResp.Code)

	errResp = decodeToolError(t, callTool(t, tc.mcpServer, bob, "create_task", map[string]any{
		"project_id": project.ID.String(),
		"title":      "Intrusion",
		"status_id":  1,
	}))
	assert.Equal(t, "not_found", errResp.Code)

	errResp = decodeToolError(t, callTool(t, tc.mcpServer, bob, "delete_task", map[string]any{"task_id": task.ID.String()}))
	assert.Equal(t, "not_found", errResp.Code)

	var deleted map[string]any
	decodeResult(t, callTool(t, tc.mcpServer, alice, "delete_task", map[string]any{"task_id": task.ID.String()}), &deleted)
	assert.Equal(t, true, deleted["deleted"])

	var remaining []models.Task
	decodeResult(t, callTool(t, tc.mcpServer, alice, "list_tasks", map[string]any{"project_id": project.ID.String()}), &remaining)
	assert.Empty(t, remaining)
}

func TestTaskTools_ListFiltersByStatus(t *testing.T) {
	tc := setupToolTest(t)
	ctx := userContext(tc.createUser())

	var project models.Project
	decodeResult(t, callTool(t, tc.mcpServer, ctx, "create_project", map[string]any{"title": "P"}), &project)
	for _, status := range []int{models.StatusDone, models.StatusIncomplete, models.StatusInProgress} {
		var task models.Task
		decodeResult(t, callTool(t, tc.mcpServer, ctx, "create_task", map[string]any{
			"project_id": project.ID.String(),
			"title":      "task",
			"status_id":  status,
		}), &task)
	}

	var all []models.Task
	decodeResult(t, callTool(t, tc.mcpServer, ctx, "list_tasks", map[string]any{"project_id": project.ID.String()}), &all)
	require.Len(t, all, 3)
	assert.Equal(t, []int{models.StatusInProgress, models.StatusIncomplete, models.StatusDone},
		[]int{all[0].StatusID, all[1].StatusID, all[2].StatusID})

	var done []models.Task
	decodeResult(t, callTool(t, tc.mcpServer, ctx, "list_tasks", map[string]any{
		"project_id": project.ID.String(),
		"status_id":  models.StatusDone,
	}), &done)
	require.Len(t, done, 1)
	assert.Equal(t, models.StatusDone, done[0].StatusID)
}

func TestTaskTools_Validation(t *testing.T) {
	tc := setupToolTest(t)
	ctx := userContext(tc.createUser())

	var project models.Project
	decodeResult(t, callTool(t, tc.mcpServer, ctx, "create_project", map[string]any{"title": "P"}), &project)

	errResp := decodeToolError(t, callTool(t, tc.mcpServer, ctx, "create_task", map[string]any{
		"project_id": project.ID.String(),
		"title":      "t",
		"status_id":  9,
	}))
	assert.Equal(t, "validation_error", errResp.Code)
	assert.Equal(t, map[string]any{"field": "status_id"}, errResp.Details)

	errResp = decodeToolError(t, callTool(t, tc.mcpServer, ctx, "create_task", map[string]any{
		"project_id": project.ID.String(),
		"title":      "t",
		"status_id":  1.5,
	}))
	assert.Equal(t, "invalid_parameters", errResp.Code)

	errResp = decodeToolError(t, callTool(t, tc.mcpServer, ctx, "update_task", map[string]any{
		"task_id": uuid.NewString(),
		"title":   "x",
	}))
	assert.Equal(t, "not_found", errResp.Code)
}

func TestTaskTools_ListStatuses(t *testing.T) {
	tc := setupToolTest(t)

	var statuses []models.TaskStatus
	decodeResult(t, callTool(t, tc.mcpServer, userContext(tc.createUser()), "list_task_statuses", nil), &statuses)
	require.Len(t, statuses, 3)
	assert.Equal(t, "In Progress", statuses[0].Name)
	assert.Equal(t, "Incomplete", statuses[1].Name)
	assert.Equal(t, "Done", statuses[2].Name)
}

func TestUpdateTaskTool_PassesOnlySuppliedFields(t *testing.T) {
	svc := &mockTaskService{}
	mcpServer := newMockedServer(&mockProjectService{}, svc)

	var task models.Task
	decodeResult(t, callTool(t, mcpServer, userContext(uuid.New()), "update_task", map[string]any{
		"task_id":     uuid.NewString(),
		"description": nil,
	}), &task)

	assert.False(t, svc.capturedUpd.Title.Set)
	assert.False(t, svc.capturedUpd.StatusID.Set)
	assert.True(t, svc.capturedUpd.Description.Set)
	assert.True(t, svc.capturedUpd.Description.Null)
}

func TestCreateTaskTool_MissingStatusReachesService(t *testing.T) {
	svc := &mockTaskService{}
	mcpServer := newMockedServer(&mockProjectService{}, svc)

	var task models.Task
	decodeResult(t, callTool(t, mcpServer, userContext(uuid.New()), "create_task", map[string]any{
		"project_id":  uuid.NewString(),
		"title":       "Write tests",
		"description": "<b>now</b>",
	}), &task)

	assert.Equal(t, "Write tests", svc.capturedTitle)
	assert.Equal(t, 0, svc.capturedSt)
	require.NotNil(t, svc.capturedDesc)
	assert.Equal(t, "<b>now</b>", *svc.capturedDesc)
}
