package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/openkraft/inspections/internal/application"
	"github.com/openkraft/inspections/internal/domain"
)

// registerTools registers all inspections MCP tools on the given server.
func registerTools(s *server.MCPServer, projectPath string, svc *application.RunService) {
	// 1. inspections_run
	s.AddTool(
		mcplib.NewTool("inspections_run",
			mcplib.WithDescription("Runs the inspection task for the project and returns the run outcome as JSON: state, counts, gate decision and written reports"),
			mcplib.WithString("max_errors", mcplib.Description("Override the error ceiling (integer or \"unbounded\")")),
			mcplib.WithString("max_warnings", mcplib.Description("Override the warning ceiling (integer or \"unbounded\")")),
			mcplib.WithBoolean("ignore_failures", mcplib.Description("Do not fail when thresholds are exceeded")),
			mcplib.WithBoolean("no_cache", mcplib.Description("Always invoke the analysis engine")),
		),
		handleRun(projectPath, svc),
	)

	// 2. inspections_classification
	s.AddTool(
		mcplib.NewTool("inspections_classification",
			mcplib.WithDescription("Returns the severity classification (error, warning and info inspection identifiers) the task uses"),
		),
		handleClassification(projectPath, svc),
	)

	// 3. inspections_history
	s.AddTool(
		mcplib.NewTool("inspections_history",
			mcplib.WithDescription("Returns the recorded inspection runs, oldest first"),
			mcplib.WithNumber("limit", mcplib.Description("Return only the most recent N runs")),
		),
		handleHistory(projectPath, svc),
	)
}

// runFailure is the error payload of a failed run.
type runFailure struct {
	Failure domain.FailureKind   `json:"failure"`
	Error   string               `json:"error"`
	Outcome *application.Outcome `json:"outcome,omitempty"`
}

func handleRun(projectPath string, svc *application.RunService) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		args := request.GetArguments()
		ov := application.Overrides{}
		ov.MaxErrors, _ = args["max_errors"].(string)
		ov.MaxWarnings, _ = args["max_warnings"].(string)
		ov.NoCache, _ = args["no_cache"].(bool)
		if v, ok := args["ignore_failures"].(bool); ok {
			ov.IgnoreFailures = &v
		}
		// Violations are part of the returned outcome; nothing is echoed.
		showViolations := false
		ov.ShowViolations = &showViolations

		outcome, err := svc.Run(ctx, projectPath, ov)
		if err != nil {
			payload := runFailure{
				Failure: domain.ClassifyFailure(err),
				Error:   err.Error(),
				Outcome: outcome,
			}
			data, mErr := json.MarshalIndent(payload, "", "  ")
			if mErr != nil {
				return nil, fmt.Errorf("marshaling result: %w", mErr)
			}
			return errorResult(string(data)), nil
		}
		return jsonResult(outcome)
	}
}

func handleClassification(projectPath string, svc *application.RunService) server.ToolHandlerFunc {
	return func(_ context.Context, _ mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		c, err := svc.Classification(projectPath, application.Overrides{})
		if err != nil {
			return errorResult(fmt.Sprintf("loading classification failed: %v", err)), nil
		}
		return jsonResult(c.View())
	}
}

func handleHistory(projectPath string, svc *application.RunService) server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		records, err := svc.History(projectPath)
		if err != nil {
			return errorResult(fmt.Sprintf("loading history failed: %v", err)), nil
		}
		if limit, ok := request.GetArguments()["limit"].(float64); ok && limit > 0 && int(limit) < len(records) {
			records = records[len(records)-int(limit):]
		}
		if records == nil {
			records = []domain.RunRecord{}
		}
		return jsonResult(records)
	}
}

// jsonResult marshals v to indented JSON and wraps it in a CallToolResult.
func jsonResult(v interface{}) (*mcplib.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(string(data))},
	}, nil
}

// errorResult returns a tool result that indicates an error occurred.
func errorResult(msg string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(msg)},
		IsError: true,
	}
}
