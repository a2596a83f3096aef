package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/codemauri/taskify/pkg/models"
)

// RegisterTaskTools registers the task and task-status MCP tools.
func RegisterTaskTools(s *server.MCPServer, deps *ToolDeps) {
	registerListTasksTool(s, deps)
	registerCreateTaskTool(s, deps)
	registerUpdateTaskTool(s, deps)
	registerDeleteTaskTool(s, deps)
	registerListTaskStatusesTool(s, deps)
}

func registerListTasksTool(s *server.MCPServer, deps *ToolDeps) {
	tool := mcp.NewTool(
		"list_tasks",
		mcp.WithDescription("Lists the tasks of one of your projects, optionally only those with a given status."),
		mcp.WithString("project_id", mcp.Required(), mcp.Description("Project UUID")),
		mcp.WithNumber("status_id", mcp.Description("Only return tasks with this status (see list_task_statuses)")),
		mcp.WithReadOnlyHintAnnotation(true),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		userID, err := callerID(ctx)
		if err != nil {
			return nil, err
		}
		projectID, bad := requireUUIDArg(req, "project_id")
		if bad != nil {
			return bad, nil
		}
		status, bad := optionalIntArg(req, "status_id")
		if bad != nil {
			return bad, nil
		}

		tasks, err := deps.Tasks.ListByProject(ctx, projectID, userID, status.Ptr())
		if err != nil {
			return serviceErrorResult(err)
		}
		return jsonResult(tasks)
	})
}

func registerCreateTaskTool(s *server.MCPServer, deps *ToolDeps) {
	tool := mcp.NewTool(
		"create_task",
		mcp.WithDescription("Adds a task to one of your projects."),
		mcp.WithString("project_id", mcp.Required(), mcp.Description("Project UUID")),
		mcp.WithString("title", mcp.Required(), mcp.Description("Task title")),
		mcp.WithNumber("status_id", mcp.Required(), mcp.Description("Status id (see list_task_statuses)")),
		mcp.WithString("description", mcp.Description("Optional description; basic HTML is allowed")),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		userID, err := callerID(ctx)
		if err != nil {
			return nil, err
		}
		projectID, bad := requireUUIDArg(req, "project_id")
		if bad != nil {
			return bad, nil
		}
		title, err := req.RequireString("title")
		if err != nil {
			return NewErrorResult("invalid_parameters", err.Error()), nil
		}
		status, bad := optionalIntArg(req, "status_id")
		if bad != nil {
			return bad, nil
		}
		description, bad := optionalStringArg(req, "description")
		if bad != nil {
			return bad, nil
		}

		// A missing status reaches the service as zero and is reported there.
		task, err := deps.Tasks.Create(ctx, userID, projectID, title, status.Value, description.Ptr())
		if err != nil {
			return serviceErrorResult(err)
		}
		return jsonResult(task)
	})
}

func registerUpdateTaskTool(s *server.MCPServer, deps *ToolDeps) {
	tool := mcp.NewTool(
		"update_task",
		mcp.WithDescription(
			"Updates a task in one of your projects. Only the arguments you pass are changed; "+
				"pass description as null to clear it.",
		),
		mcp.WithString("task_id", mcp.Required(), mcp.Description("Task UUID")),
		mcp.WithString("title", mcp.Description("New title")),
		mcp.WithString("description", mcp.Description("New description, or null to clear")),
		mcp.WithNumber("status_id", mcp.Description("New status id")),
		mcp.WithIdempotentHintAnnotation(true),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		userID, err := callerID(ctx)
		if err != nil {
			return nil, err
		}
		taskID, bad := requireUUIDArg(req, "task_id")
		if bad != nil {
			return bad, nil
		}

		var update models.TaskUpdate
		if update.Title, bad = optionalStringArg(req, "title"); bad != nil {
			return bad, nil
		}
		if update.Description, bad = optionalStringArg(req, "description"); bad != nil {
			return bad, nil
		}
		if update.StatusID, bad = optionalIntArg(req, "status_id"); bad != nil {
			return bad, nil
		}

		task, err := deps.Tasks.Update(ctx, taskID, userID, update)
		if err != nil {
			return serviceErrorResult(err)
		}
		return jsonResult(task)
	})
}

func registerDeleteTaskTool(s *server.MCPServer, deps *ToolDeps) {
	tool := mcp.NewTool(
		"delete_task",
		mcp.WithDescription("Deletes a task from one of your projects."),
		mcp.WithString("task_id", mcp.Required(), mcp.Description("Task UUID")),
		mcp.WithDestructiveHintAnnotation(true),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		userID, err := callerID(ctx)
		if err != nil {
			return nil, err
		}
		taskID, bad := requireUUIDArg(req, "task_id")
		if bad != nil {
			return bad, nil
		}

		if err := deps.Tasks.Delete(ctx, taskID, userID); err != nil {
			return serviceErrorResult(err)
		}
		return jsonResult(map[string]any{"deleted": true, "task_id": taskID})
	})
}

func registerListTaskStatusesTool(s *server.MCPServer, deps *ToolDeps) {
	tool := mcp.NewTool(
		"list_task_statuses",
		mcp.WithDescription("Lists the task statuses in display order."),
		mcp.WithReadOnlyHintAnnotation(true),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		statuses, err := deps.Tasks.ListStatuses(ctx)
		if err != nil {
			return serviceErrorResult(err)
		}
		return jsonResult(statuses)
	})
}
