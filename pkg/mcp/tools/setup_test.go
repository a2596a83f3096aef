package tools

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/codemauri/taskify/pkg/audit"
	"github.com/codemauri/taskify/pkg/auth"
	"github.com/codemauri/taskify/pkg/models"
	"github.com/codemauri/taskify/pkg/repositories"
	"github.com/codemauri/taskify/pkg/services"
	"github.com/codemauri/taskify/pkg/testhelpers"
)

// toolTestContext runs the registered tools against real services backed by
// a fresh SQLite database.
type toolTestContext struct {
	t         *testing.T
	mcpServer *server.MCPServer
	userRepo  repositories.UserRepository
}

func setupToolTest(t *testing.T) *toolTestContext {
	t.Helper()
	db := testhelpers.NewSQLiteDB(t)
	logger := zap.NewNop()
	auditor := audit.NewSecurityAuditor(logger)

	projectRepo := repositories.NewProjectRepository(db)
	taskRepo := repositories.NewTaskRepository(db)
	statusRepo := repositories.NewTaskStatusRepository(db)

	deps := &ToolDeps{
		Projects: services.NewProjectService(projectRepo, taskRepo, auditor, logger),
		Tasks:    services.NewTaskService(db, projectRepo, taskRepo, statusRepo, auditor, logger),
		Logger:   logger,
	}

	mcpServer := server.NewMCPServer("test", "1.0.0", server.WithToolCapabilities(true))
	RegisterAll(mcpServer, deps, "test")

	return &toolTestContext{
		t:         t,
		mcpServer: mcpServer,
		userRepo:  repositories.NewUserRepository(db),
	}
}

func (tc *toolTestContext) createUser() uuid.UUID {
	tc.t.Helper()
	u := &models.User{Email: uuid.NewString() + "@example.com", PasswordHash: "x"}
	require.NoError(tc.t, tc.userRepo.Create(context.Background(), u))
	return u.ID
}

// toolResponse is the decoded JSON-RPC response of a tools/call.
type toolResponse struct {
	Result struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
		IsError bool `json:"isError"`
	} `json:"result"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (r toolResponse) text() string {
	if len(r.Result.Content) == 0 {
		return ""
	}
	return r.Result.Content[0].Text
}

// userContext returns a context authenticated as userID.
func userContext(userID uuid.UUID) context.Context {
	claims := &auth.Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: userID.String()}}
	return auth.WithClaims(context.Background(), claims)
}

// callTool executes an MCP tool via the server's HandleMessage method.
func callTool(t *testing.T, s *server.MCPServer, ctx context.Context, name string, args map[string]any) toolResponse {
	t.Helper()
	reqBytes, err := json.Marshal(map[string]any{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  "tools/call",
		"params":  map[string]any{"name": name, "arguments": args},
	})
	require.NoError(t, err)

	result := s.HandleMessage(ctx, reqBytes)
	resultBytes, err := json.Marshal(result)
	require.NoError(t, err)

	var resp toolResponse
	require.NoError(t, json.Unmarshal(resultBytes, &resp))
	return resp
}

// decodeResult unmarshals a successful tool result into v.
func decodeResult(t *testing.T, resp toolResponse, v any) {
	t.Helper()
	require.Nil(t, resp.Error, "unexpected protocol error")
	require.False(t, resp.Result.IsError, "unexpected tool error: %s", resp.text())
	require.NoError(t, json.Unmarshal([]byte(resp.text()), v))
}

// decodeToolError unmarshals a tool error result.
func decodeToolError(t *testing.T, resp toolResponse) ErrorResponse {
	t.Helper()
	require.Nil(t, resp.Error, "unexpected protocol error")
	require.True(t, resp.Result.IsError, "expected a tool error, got: %s", resp.text())
	var errResp ErrorResponse
	require.NoError(t, json.Unmarshal([]byte(resp.text()), &errResp))
	return errResp
}
