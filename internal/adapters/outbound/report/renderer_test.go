package report_test

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/openkraft/inspections/internal/adapters/outbound/report"
	"github.com/openkraft/inspections/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult() *domain.AggregatedResult {
	return domain.Aggregate([]domain.Diagnostic{
		{InspectionID: "UnusedImport", Severity: domain.SeverityError, File: "/p/src/B.java", Line: 3, Column: 1, Message: "Unused import 'java.util.List'"},
		{InspectionID: "RedundantCast", Severity: domain.SeverityWarning, File: "/p/src/A.java", Line: 10, Message: "Casting <x> is redundant"},
		{InspectionID: "UnusedImport", Severity: domain.SeverityError, File: "/p/src/B.java", Line: 4, Column: 1, Message: "Unused import 'java.util.Map'"},
		{InspectionID: "TodoComment", Severity: domain.SeverityInfo, File: "/p/src/A.java", Message: "TODO: a, b"},
	})
}

func TestTitle(t *testing.T) {
	tests := map[string]string{
		"UnusedImport":            "Unused import",
		"SpellCheckingInspection": "Spell checking inspection",
		"HTMLParserUsage":         "HTML parser usage",
		"unused_import":           "unused import",
		"X":                       "X",
	}
	for in, want := range tests {
		assert.Equal(t, want, report.Title(in), in)
	}
}

func TestRenderers_CoverEveryKind(t *testing.T) {
	renderers := report.Renderers()
	for _, k := range domain.ReportKinds {
		assert.Contains(t, renderers, k)
	}
}

func TestRenderers_Deterministic(t *testing.T) {
	for kind, r := range report.Renderers() {
		first, err := r.Render(sampleResult())
		require.NoError(t, err, kind)
		second, err := r.Render(sampleResult())
		require.NoError(t, err, kind)
		assert.True(t, bytes.Equal(first, second), "%s output differs between renders", kind)
	}
}

func TestRenderXML_GroupsByFileInDiscoveryOrder(t *testing.T) {
	out, err := report.RenderXML(sampleResult())
	require.NoError(t, err)

	var doc struct {
		Errors   int `xml:"errors,attr"`
		Warnings int `xml:"warnings,attr"`
		Infos    int `xml:"infos,attr"`
		Files    []struct {
			Path     string `xml:"path,attr"`
			Problems []struct {
				Inspection string `xml:"inspection,attr"`
				Line       int    `xml:"line,attr"`
				Message    string `xml:",chardata"`
			} `xml:"problem"`
		} `xml:"file"`
	}
	require.NoError(t, xml.Unmarshal(out, &doc))
	assert.Equal(t, 2, doc.Errors)
	assert.Equal(t, 1, doc.Warnings)
	assert.Equal(t, 1, doc.Infos)
	require.Len(t, doc.Files, 2)
	assert.Equal(t, "/p/src/B.java", doc.Files[0].Path)
	require.Len(t, doc.Files[0].Problems, 2)
	assert.Equal(t, 3, doc.Files[0].Problems[0].Line)
	assert.Equal(t, 4, doc.Files[0].Problems[1].Line)
	assert.Equal(t, "Casting <x> is redundant", doc.Files[1].Problems[0].Message)
}

func TestRenderJSON(t *testing.T) {
	out, err := report.RenderJSON(sampleResult())
	require.NoError(t, err)

	var doc struct {
		Counts domain.Counts `json:"counts"`
		Files  []struct {
			Path        string              `json:"path"`
			Diagnostics []domain.Diagnostic `json:"diagnostics"`
		} `json:"files"`
	}
	require.NoError(t, json.Unmarshal(out, &doc))
	assert.Equal(t, domain.Counts{Errors: 2, Warnings: 1, Infos: 1}, doc.Counts)
	require.Len(t, doc.Files, 2)
	assert.Equal(t, "/p/src/A.java", doc.Files[1].Path)
	assert.Len(t, doc.Files[1].Diagnostics, 2)
}

func TestRenderJSON_EmptyResultHasEmptyFiles(t *testing.T) {
	out, err := report.RenderJSON(domain.Aggregate(nil))
	require.NoError(t, err)
	assert.Contains(t, string(out), `"files": []`)
}

func TestRenderText(t *testing.T) {
	out, err := report.RenderText(sampleResult())
	require.NoError(t, err)
	text := string(out)

	assert.True(t, strings.HasPrefix(text, "Inspections: 2 errors, 1 warning, 1 info\n"))
	assert.Contains(t, text, "Unused import (UnusedImport)")
	assert.Less(t, strings.Index(text, "/p/src/B.java"), strings.Index(text, "/p/src/A.java"))
}

func TestRenderHTML_Structure(t *testing.T) {
	out, err := report.RenderHTML(sampleResult())
	require.NoError(t, err)

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(out))
	require.NoError(t, err)

	files := doc.Find("h2.file")
	require.Equal(t, 2, files.Length())
	assert.Equal(t, "/p/src/B.java", files.First().Text())

	assert.Equal(t, 2, doc.Find("tr.error").Length())
	assert.Equal(t, 1, doc.Find("tr.warning").Length())
	assert.Equal(t, 1, doc.Find("tr.info").Length())

	cast := doc.Find(`tr[data-inspection="RedundantCast"] td`).Last().Text()
	assert.Equal(t, "Casting <x> is redundant", cast)
	assert.Contains(t, doc.Find("p.summary").Text(), "2 errors")
}

func TestRenderHTML_Empty(t *testing.T) {
	out, err := report.RenderHTML(domain.Aggregate(nil))
	require.NoError(t, err)

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 1, doc.Find("p.clean").Length())
}

func TestRenderGitHub(t *testing.T) {
	out, err := report.RenderGitHub(sampleResult())
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 4)

	assert.Equal(t, "::error file=/p/src/B.java,line=3,col=1,title=Unused import::Unused import 'java.util.List'", lines[0])
	assert.True(t, strings.HasPrefix(lines[2], "::warning file=/p/src/A.java,line=10,"))
	assert.Equal(t, "::notice file=/p/src/A.java,title=Todo comment::TODO: a, b", lines[3])
}
