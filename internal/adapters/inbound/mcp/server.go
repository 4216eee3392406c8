package mcp

import (
	"github.com/mark3labs/mcp-go/server"
)

// NewAnalyticsMCPServer creates a new MCP server with the analytics tools
// and resources registered. The projectPath is the repository root the
// context tools resolve against.
func NewAnalyticsMCPServer(projectPath string) *server.MCPServer {
	s := server.NewMCPServer(
		"trunk-analytics",
		"0.1.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
	)

	registerTools(s, projectPath)
	registerResources(s, projectPath)

	return s
}
