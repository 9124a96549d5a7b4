package mcp_test

import (
	"testing"

	mcpadapter "github.com/openkraft/inspections/internal/adapters/inbound/mcp"
	"github.com/openkraft/inspections/internal/adapters/outbound/config"
	"github.com/openkraft/inspections/internal/adapters/outbound/report"
	"github.com/openkraft/inspections/internal/adapters/outbound/scanner"
	"github.com/openkraft/inspections/internal/adapters/outbound/severity"
	"github.com/openkraft/inspections/internal/application"
	"github.com/openkraft/inspections/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService() *application.RunService {
	return application.NewRunService(
		config.New(), scanner.New(), severity.New(),
		func(domain.EngineConfig) domain.AnalysisEngine { return nil },
		report.Renderers(),
	)
}

func TestNewInspectionsMCPServer(t *testing.T) {
	s := mcpadapter.NewInspectionsMCPServer(".", newService())
	require.NotNil(t, s)
}

func TestMCPServerHasTools(t *testing.T) {
	s := mcpadapter.NewInspectionsMCPServer(".", newService())
	require.NotNil(t, s)

	tools := s.ListTools()
	require.NotNil(t, tools)

	expectedTools := []string{
		"inspections_run",
		"inspections_classification",
		"inspections_history",
	}

	for _, name := range expectedTools {
		_, exists := tools[name]
		assert.True(t, exists, "tool %q should be registered", name)
	}

	assert.Len(t, tools, len(expectedTools), "should have exactly %d tools", len(expectedTools))
}
