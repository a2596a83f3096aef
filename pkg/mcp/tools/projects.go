package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/codemauri/taskify/pkg/models"
)

// RegisterProjectTools registers the project MCP tools.
func RegisterProjectTools(s *server.MCPServer, deps *ToolDeps) {
	registerListProjectsTool(s, deps)
	registerGetProjectTool(s, deps)
	registerSearchProjectsTool(s, deps)
	registerCreateProjectTool(s, deps)
	registerUpdateProjectTool(s, deps)
	registerDeleteProjectTool(s, deps)
}

func registerListProjectsTool(s *server.MCPServer, deps *ToolDeps) {
	tool := mcp.NewTool(
		"list_projects",
		mcp.WithDescription("Lists your projects with their task counts, most recently updated first."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		userID, err := callerID(ctx)
		if err != nil {
			return nil, err
		}

		projects, err := deps.Projects.List(ctx, userID)
		if err != nil {
			return serviceErrorResult(err)
		}
		return jsonResult(projects)
	})
}

func registerGetProjectTool(s *server.MCPServer, deps *ToolDeps) {
	tool := mcp.NewTool(
		"get_project",
		mcp.WithDescription("Returns one of your projects with its tasks, ordered In Progress, Incomplete, Done and newest first."),
		mcp.WithString("project_id", mcp.Required(), mcp.Description("Project UUID")),
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

		project, err := deps.Projects.Get(ctx, projectID, userID)
		if err != nil {
			return serviceErrorResult(err)
		}
		return jsonResult(project)
	})
}

func registerSearchProjectsTool(s *server.MCPServer, deps *ToolDeps) {
	tool := mcp.NewTool(
		"search_projects",
		mcp.WithDescription(
			"Finds your projects whose title contains the query, ignoring case. "+
				"A blank query returns no projects.",
		),
		mcp.WithString("query", mcp.Required(), mcp.Description("Text to look for in project titles")),
		mcp.WithReadOnlyHintAnnotation(true),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		userID, err := callerID(ctx)
		if err != nil {
			return nil, err
		}
		query, err := req.RequireString("query")
		if err != nil {
			return NewErrorResult("invalid_parameters", err.Error()), nil
		}

		projects, err := deps.Projects.Search(ctx, userID, query)
		if err != nil {
			return serviceErrorResult(err)
		}
		return jsonResult(projects)
	})
}

func registerCreateProjectTool(s *server.MCPServer, deps *ToolDeps) {
	tool := mcp.NewTool(
		"create_project",
		mcp.WithDescription("Creates a project owned by you."),
		mcp.WithString("title", mcp.Required(), mcp.Description("Project title")),
		mcp.WithString("description", mcp.Description("Optional description; basic HTML is allowed")),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		userID, err := callerID(ctx)
		if err != nil {
			return nil, err
		}
		title, err := req.RequireString("title")
		if err != nil {
			return NewErrorResult("invalid_parameters", err.Error()), nil
		}
		description, bad := optionalStringArg(req, "description")
		if bad != nil {
			return bad, nil
		}

		project, err := deps.Projects.Create(ctx, userID, title, description.Ptr())
		if err != nil {
			return serviceErrorResult(err)
		}
		return jsonResult(project)
	})
}

func registerUpdateProjectTool(s *server.MCPServer, deps *ToolDeps) {
	tool := mcp.NewTool(
		"update_project",
		mcp.WithDescription(
			"Updates one of your projects. Only the arguments you pass are changed; "+
				"pass description as null to clear it.",
		),
		mcp.WithString("project_id", mcp.Required(), mcp.Description("Project UUID")),
		mcp.WithString("title", mcp.Description("New title")),
		mcp.WithString("description", mcp.Description("New description, or null to clear")),
		mcp.WithIdempotentHintAnnotation(true),
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

		var update models.ProjectUpdate
		if update.Title, bad = optionalStringArg(req, "title"); bad != nil {
			return bad, nil
		}
		if update.Description, bad = optionalStringArg(req, "description"); bad != nil {
			return bad, nil
		}

		project, err := deps.Projects.Update(ctx, projectID, userID, update)
		if err != nil {
			return serviceErrorResult(err)
		}
		return jsonResult(project)
	})
}

func registerDeleteProjectTool(s *server.MCPServer, deps *ToolDeps) {
	tool := mcp.NewTool(
		"delete_project",
		mcp.WithDescription("Deletes one of your projects and all of its tasks."),
		mcp.WithString("project_id", mcp.Required(), mcp.Description("Project UUID")),
		mcp.WithDestructiveHintAnnotation(true),
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

		if err := deps.Projects.Delete(ctx, projectID, userID); err != nil {
			return serviceErrorResult(err)
		}
		return jsonResult(map[string]any{"deleted": true, "project_id": projectID})
	})
}
