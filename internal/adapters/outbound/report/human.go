package report

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/openkraft/inspections/internal/domain"
)

// RenderText produces a plain-text report grouped by file.
func RenderText(result *domain.AggregatedResult) ([]byte, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Inspections: %s\n", summaryLine(result.Counts))

	for _, g := range result.ByFile() {
		fmt.Fprintf(&b, "\n%s\n", g.File)
		for _, d := range g.Diagnostics {
			fmt.Fprintf(&b, "  %-7s %-7s %s (%s): %s\n",
				d.Severity, position(d), Title(d.InspectionID), d.InspectionID, d.Message)
		}
	}
	return []byte(b.String()), nil
}

// RenderGitHub produces GitHub Actions workflow annotations, one per line.
func RenderGitHub(result *domain.AggregatedResult) ([]byte, error) {
	var b strings.Builder
	for _, g := range result.ByFile() {
		for _, d := range g.Diagnostics {
			level := "notice"
			switch d.Severity {
			case domain.SeverityError:
				level = "error"
			case domain.SeverityWarning:
				level = "warning"
			}
			props := []string{"file=" + escapeProperty(d.File)}
			if d.Line > 0 {
				props = append(props, fmt.Sprintf("line=%d", d.Line))
			}
			if d.Column > 0 {
				props = append(props, fmt.Sprintf("col=%d", d.Column))
			}
			props = append(props, "title="+escapeProperty(Title(d.InspectionID)))
			fmt.Fprintf(&b, "::%s %s::%s\n", level, strings.Join(props, ","), escapeData(d.Message))
		}
	}
	return []byte(b.String()), nil
}

func escapeData(s string) string {
	r := strings.NewReplacer("%", "%25", "\r", "%0D", "\n", "%0A")
	return r.Replace(s)
}

func escapeProperty(s string) string {
	r := strings.NewReplacer("%", "%25", "\r", "%0D", "\n", "%0A", ":", "%3A", ",", "%2C")
	return r.Replace(s)
}

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"title":    Title,
	"position": position,
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Inspection report</title>
<style>
body { font-family: sans-serif; margin: 2em; color: #1f2937; }
table { border-collapse: collapse; width: 100%; margin-bottom: 2em; }
th, td { text-align: left; padding: 4px 8px; border-bottom: 1px solid #e5e7eb; }
.error { color: #b91c1c; } .warning { color: #b45309; } .info { color: #4b5563; }
</style>
</head>
<body>
<h1>Inspection report</h1>
<p class="summary"><span class="error">{{.Counts.Errors}} errors</span>, <span class="warning">{{.Counts.Warnings}} warnings</span>, <span class="info">{{.Counts.Infos}} infos</span></p>
{{- if not .Files}}
<p class="clean">No problems found.</p>
{{- end}}
{{- range .Files}}
<h2 class="file">{{.File}}</h2>
<table>
<thead><tr><th>Severity</th><th>Position</th><th>Inspection</th><th>Message</th></tr></thead>
<tbody>
{{- range .Diagnostics}}
<tr class="{{.Severity}}" data-inspection="{{.InspectionID}}"><td>{{.Severity}}</td><td>{{position .}}</td><td title="{{.InspectionID}}">{{title .InspectionID}}</td><td>{{.Message}}</td></tr>
{{- end}}
</tbody>
</table>
{{- end}}
</body>
</html>
`))

// RenderHTML produces a standalone HTML report.
func RenderHTML(result *domain.AggregatedResult) ([]byte, error) {
	data := struct {
		Counts domain.Counts
		Files  []domain.FileGroup
	}{result.Counts, result.ByFile()}

	var buf bytes.Buffer
	if err := htmlTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("rendering HTML report: %w", err)
	}
	return buf.Bytes(), nil
}
