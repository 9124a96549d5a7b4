package tui_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/openkraft/inspections/internal/adapters/outbound/tui"
	"github.com/openkraft/inspections/internal/domain"
	"github.com/stretchr/testify/assert"
)

func sampleResult() *domain.AggregatedResult {
	return domain.Aggregate([]domain.Diagnostic{
		{InspectionID: "UnusedImport", Severity: domain.SeverityError, File: "src/main/A.java", Line: 3, Message: "unused import"},
		{InspectionID: "UnusedImport", Severity: domain.SeverityError, File: "src/main/B.java", Line: 9, Message: "unused import"},
		{InspectionID: "MagicNumber", Severity: domain.SeverityWarning, File: "src/main/A.java", Line: 12, Message: "magic number 42"},
		{InspectionID: "TodoComment", Severity: domain.SeverityInfo, File: "src/main/C.java", Line: 1, Message: "TODO found"},
	})
}

func TestRenderSummary_Counts(t *testing.T) {
	output := tui.RenderSummary("main", sampleResult(), &domain.GateDecision{}, false)
	assert.Contains(t, output, "main")
	assert.Contains(t, output, "2 errors")
	assert.Contains(t, output, "1 warning")
	assert.Contains(t, output, "1 info")
	assert.Contains(t, output, "(4 total)")
	assert.Contains(t, output, "PASSED")
}

func TestRenderSummary_Breaches(t *testing.T) {
	result := sampleResult()
	decision := domain.Gate(result, domain.RunOptions{MaxErrors: 1, MaxWarnings: domain.Unbounded})

	output := tui.RenderSummary("main", result, &decision, false)
	assert.Contains(t, output, "FAILED")
	assert.Contains(t, output, "2 errors exceed the maximum of 1")
}

func TestRenderSummary_Cached(t *testing.T) {
	output := tui.RenderSummary("main", sampleResult(), &domain.GateDecision{}, true)
	assert.Contains(t, output, "cached")
}

func TestRenderSummary_NilResult(t *testing.T) {
	output := tui.RenderSummary("main", nil, nil, false)
	assert.Contains(t, output, "No results")
}

func TestRenderViolation_SingleLine(t *testing.T) {
	d := domain.Diagnostic{InspectionID: "MagicNumber", Severity: domain.SeverityWarning, File: "/work/proj/src/main/A.java", Line: 12, Column: 5, Message: "magic number 42"}

	output := tui.RenderViolation(d)
	assert.Equal(t, 1, strings.Count(output, "\n"))
	assert.Contains(t, output, "src/main/A.java:12:5")
	assert.Contains(t, output, "magic number 42")
	assert.Contains(t, output, "MagicNumber")
}

func TestRenderReports(t *testing.T) {
	assert.Empty(t, tui.RenderReports(nil))
	output := tui.RenderReports([]string{"build/reports/inspections/main.xml"})
	assert.Contains(t, output, "build/reports/inspections/main.xml")
}

func TestRenderFailure(t *testing.T) {
	assert.Empty(t, tui.RenderFailure(domain.FailureNone, nil))
	output := tui.RenderFailure(domain.FailureConfig, errors.New("missing errors section"))
	assert.Contains(t, output, "config")
	assert.Contains(t, output, "missing errors section")
}

func TestRenderClassification(t *testing.T) {
	c := domain.NewSeverityClassification([]string{"UnusedImport"}, []string{"MagicNumber", "LongMethod"}, nil)
	output := tui.RenderClassification(c.View())
	assert.Contains(t, output, "errors")
	assert.Contains(t, output, "UnusedImport")
	assert.Contains(t, output, "LongMethod")
	assert.Contains(t, output, "infos")
}

func TestRenderHistory_Empty(t *testing.T) {
	assert.Contains(t, tui.RenderHistory(nil), "No run history found.")
}

func TestRenderHistory_Entries(t *testing.T) {
	at := time.Date(2026, 10, 1, 9, 30, 0, 0, time.UTC)
	records := []domain.RunRecord{
		{ID: "1", Timestamp: at, CommitHash: "abc1234def", Task: "main", Counts: domain.Counts{Errors: 5}, State: domain.StateFailed, Exceeded: true},
		{ID: "2", Timestamp: at.Add(time.Hour), Task: "main", Counts: domain.Counts{Errors: 2}, State: domain.StateCompleted, Cached: true},
	}

	output := tui.RenderHistory(records)
	assert.Contains(t, output, "Run History")
	assert.Contains(t, output, "abc1234")
	assert.NotContains(t, output, "abc1234d")
	assert.Contains(t, output, "2026-10-01 09:30")
	assert.Contains(t, output, "E5 W0 I0")
	assert.Contains(t, output, "↓3")
	assert.Contains(t, output, "cached")
}
