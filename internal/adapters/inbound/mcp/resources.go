package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/openkraft/inspections/internal/adapters/outbound/engine"
	"github.com/openkraft/inspections/internal/application"
)

// registerResources registers all inspections MCP resources on the given server.
func registerResources(s *server.MCPServer, projectPath string, svc *application.RunService) {
	// 1. inspections://classification - current severity classification
	s.AddResource(
		mcplib.NewResource(
			"inspections://classification",
			"Severity Classification",
			mcplib.WithResourceDescription("Inspection identifiers per severity tier"),
			mcplib.WithMIMEType("application/json"),
		),
		handleClassificationResource(projectPath, svc),
	)

	// 2. inspections://engine-schema - engine response contract
	s.AddResource(
		mcplib.NewResource(
			"inspections://engine-schema",
			"Engine Response Schema",
			mcplib.WithResourceDescription("JSON schema analysis engines must answer with"),
			mcplib.WithMIMEType("application/schema+json"),
		),
		handleEngineSchemaResource(),
	)
}

func handleClassificationResource(projectPath string, svc *application.RunService) server.ResourceHandlerFunc {
	return func(_ context.Context, _ mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		c, err := svc.Classification(projectPath, application.Overrides{})
		if err != nil {
			return nil, fmt.Errorf("loading classification failed: %w", err)
		}

		data, err := json.MarshalIndent(c.View(), "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshaling classification: %w", err)
		}

		return []mcplib.ResourceContents{
			mcplib.TextResourceContents{
				URI:      "inspections://classification",
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	}
}

func handleEngineSchemaResource() server.ResourceHandlerFunc {
	return func(_ context.Context, _ mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		data, err := engine.ResponseSchema()
		if err != nil {
			return nil, fmt.Errorf("generating schema: %w", err)
		}
		return []mcplib.ResourceContents{
			mcplib.TextResourceContents{
				URI:      "inspections://engine-schema",
				MIMEType: "application/schema+json",
				Text:     string(data),
			},
		}, nil
	}
}
