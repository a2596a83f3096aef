package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/codemauri/taskify/pkg/auth"
	"github.com/codemauri/taskify/pkg/jsonutil"
	"github.com/codemauri/taskify/pkg/models"
	"github.com/codemauri/taskify/pkg/services"
)

// ToolDeps contains the services every taskify tool calls.
type ToolDeps struct {
	Projects services.ProjectService
	Tasks    services.TaskService
	Logger   *zap.Logger
}

// callerID returns the authenticated user. The MCP auth middleware
// guarantees it for HTTP calls; anything else is a wiring fault.
func callerID(ctx context.Context) (uuid.UUID, error) {
	userID, err := auth.RequireUserID(ctx)
	if err != nil {
		return uuid.Nil, fmt.Errorf("mcp tool called without an authenticated user: %w", err)
	}
	return userID, nil
}

// requireUUIDArg reads a required UUID argument. A missing or malformed
// value is a parameter error result.
func requireUUIDArg(req mcp.CallToolRequest, name string) (uuid.UUID, *mcp.CallToolResult) {
	raw, err := req.RequireString(name)
	if err != nil {
		return uuid.Nil, NewErrorResult("invalid_parameters", err.Error())
	}
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, NewErrorResult("invalid_parameters", fmt.Sprintf("%s must be a UUID", name))
	}
	return id, nil
}

// optionalStringArg distinguishes an absent argument from an explicit null.
func optionalStringArg(req mcp.CallToolRequest, name string) (models.Optional[string], *mcp.CallToolResult) {
	v, ok := req.GetArguments()[name]
	switch {
	case !ok:
		return models.Optional[string]{}, nil
	case v == nil:
		return models.Null[string](), nil
	}
	s, isString := v.(string)
	if !isString {
		return models.Optional[string]{}, NewErrorResult("invalid_parameters", fmt.Sprintf("%s must be a string", name))
	}
	return models.Some(s), nil
}

// optionalIntArg reads an integer that may arrive as a number or numeric string.
func optionalIntArg(req mcp.CallToolRequest, name string) (models.Optional[int], *mcp.CallToolResult) {
	v, ok := req.GetArguments()[name]
	switch {
	case !ok:
		return models.Optional[int]{}, nil
	case v == nil:
		return models.Null[int](), nil
	}
	n, err := jsonutil.IntValue(v)
	if err != nil {
		return models.Optional[int]{}, NewErrorResult("invalid_parameters", fmt.Sprintf("%s: %v", name, err))
	}
	return models.Some(n), nil
}

// jsonResult marshals v as the text content of a successful result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return mcp.NewToolResultText(string(b)), nil
}
