// Package mcp exposes taskify's project and task operations as MCP tools
// over streamable HTTP.
package mcp

import (
	"net/http"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	mcpauth "github.com/codemauri/taskify/pkg/mcp/auth"
	"github.com/codemauri/taskify/pkg/middleware"
)

// Server wraps the mcp-go MCPServer.
type Server struct {
	mcp    *server.MCPServer
	logger *zap.Logger
}

// NewServer creates a new MCP server instance. hooks may be nil.
func NewServer(name, version string, hooks *server.Hooks, logger *zap.Logger) *Server {
	opts := []server.ServerOption{
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	}
	if hooks != nil {
		opts = append(opts, server.WithHooks(hooks))
	}

	return &Server{
		mcp:    server.NewMCPServer(name, version, opts...),
		logger: logger,
	}
}

// MCP returns the underlying MCPServer for tool registration.
func (s *Server) MCP() *server.MCPServer {
	return s.mcp
}

// RegisterTool is a convenience wrapper for registering a tool.
func (s *Server) RegisterTool(tool mcp.Tool, handler server.ToolHandlerFunc) {
	s.mcp.AddTool(tool, handler)
}

// NewStreamableHTTPServer creates a stateless HTTP transport for this server.
// The request context, including the authenticated claims, is passed
// through to tool handlers.
func (s *Server) NewStreamableHTTPServer() *server.StreamableHTTPServer {
	return server.NewStreamableHTTPServer(
		s.mcp,
		server.WithStateLess(true),
	)
}

// RegisterRoutes mounts the MCP endpoint at /mcp behind bearer
// authentication and request logging.
func (s *Server) RegisterRoutes(mux *http.ServeMux, authMiddleware *mcpauth.Middleware) {
	handler := middleware.Chain(
		s.NewStreamableHTTPServer(),
		middleware.MCPRequestLogger(s.logger),
		authMiddleware.RequireAuth(),
	)
	mux.Handle("/mcp", handler)
}
