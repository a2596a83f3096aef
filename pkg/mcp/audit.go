package mcp

import (
	"context"
	"sync"
	"time"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/codemauri/taskify/pkg/auth"
	"github.com/codemauri/taskify/pkg/logging"
)

// ToolAuditor logs one structured entry per MCP tool call: who called
// which tool, how long it took and whether it failed.
type ToolAuditor struct {
	logger *zap.Logger

	// startTimes tracks when tool calls begin, keyed by request ID.
	startTimes sync.Map
}

// NewToolAuditor creates a ToolAuditor logging under "mcp_audit".
func NewToolAuditor(logger *zap.Logger) *ToolAuditor {
	return &ToolAuditor{logger: logger.Named("mcp_audit")}
}

// Hooks returns mcp-go Hooks configured to capture tool call events.
func (a *ToolAuditor) Hooks() *server.Hooks {
	hooks := &server.Hooks{}
	hooks.AddBeforeCallTool(a.beforeCallTool)
	hooks.AddAfterCallTool(a.afterCallTool)
	hooks.AddOnError(a.onError)
	return hooks
}

func (a *ToolAuditor) beforeCallTool(_ context.Context, id any, _ *mcplib.CallToolRequest) {
	a.startTimes.Store(id, time.Now())
}

func (a *ToolAuditor) afterCallTool(ctx context.Context, id any, req *mcplib.CallToolRequest, result *mcplib.CallToolResult) {
	toolError := result != nil && result.IsError
	fields := a.baseFields(ctx, id, req)
	fields = append(fields, zap.Bool("tool_error", toolError))

	if toolError {
		a.logger.Info("MCP tool call rejected", fields...)
		return
	}
	a.logger.Info("MCP tool call", fields...)
}

func (a *ToolAuditor) onError(ctx context.Context, id any, method mcplib.MCPMethod, message any, err error) {
	if method != mcplib.MethodToolsCall {
		return
	}
	req, ok := message.(*mcplib.CallToolRequest)
	if !ok {
		return
	}

	fields := a.baseFields(ctx, id, req)
	fields = append(fields, zap.String("error", logging.SanitizeError(err)))
	a.logger.Error("MCP tool call failed", fields...)
}

func (a *ToolAuditor) baseFields(ctx context.Context, id any, req *mcplib.CallToolRequest) []zap.Field {
	started := time.Now()
	if v, ok := a.startTimes.LoadAndDelete(id); ok {
		started = v.(time.Time)
	}

	return []zap.Field{
		zap.String("tool", req.Params.Name),
		zap.String("user_id", auth.GetUserIDFromContext(ctx)),
		zap.Duration("duration", time.Since(started)),
	}
}
