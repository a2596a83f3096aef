// Package tools provides the MCP tool implementations for taskify.
//
// Every tool acts on behalf of the authenticated caller. Unknown and
// foreign ids both come back as a not_found tool error.
package tools

import "github.com/mark3labs/mcp-go/server"

// RegisterAll registers the health, project and task tools.
func RegisterAll(s *server.MCPServer, deps *ToolDeps, version string) {
	RegisterHealthTool(s, version)
	RegisterProjectTools(s, deps)
	RegisterTaskTools(s, deps)
}
