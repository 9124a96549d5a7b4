package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/openkraft/inspections/internal/application"
)

// NewInspectionsMCPServer creates a new MCP server with all inspections tools
// and resources registered. The projectPath is the root directory of the
// project whose task is run.
func NewInspectionsMCPServer(projectPath string, svc *application.RunService) *server.MCPServer {
	s := server.NewMCPServer(
		"inspections",
		"0.1.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
	)

	registerTools(s, projectPath, svc)
	registerResources(s, projectPath, svc)

	return s
}
