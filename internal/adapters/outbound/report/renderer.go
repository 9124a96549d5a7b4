package report

import (
	"fmt"
	"strings"

	"github.com/fatih/camelcase"
	"github.com/openkraft/inspections/internal/domain"
)

// RendererFunc adapts a function to domain.ReportRenderer.
type RendererFunc func(result *domain.AggregatedResult) ([]byte, error)

func (f RendererFunc) Render(result *domain.AggregatedResult) ([]byte, error) { return f(result) }

// Renderers returns the built-in renderer for every report kind.
func Renderers() map[domain.ReportKind]domain.ReportRenderer {
	return map[domain.ReportKind]domain.ReportRenderer{
		domain.ReportXML:    RendererFunc(RenderXML),
		domain.ReportHTML:   RendererFunc(RenderHTML),
		domain.ReportJSON:   RendererFunc(RenderJSON),
		domain.ReportText:   RendererFunc(RenderText),
		domain.ReportGitHub: RendererFunc(RenderGitHub),
	}
}

// Title turns an inspection identifier such as "UnusedImport" into
// "Unused import" for human-readable reports.
func Title(id string) string {
	words := camelcase.Split(id)
	parts := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.Trim(w, "_- .")
		if w == "" {
			continue
		}
		if len(parts) > 0 && !isAcronym(w) {
			w = strings.ToLower(w)
		}
		parts = append(parts, w)
	}
	if len(parts) == 0 {
		return id
	}
	return strings.Join(parts, " ")
}

func isAcronym(w string) bool {
	return len(w) > 1 && strings.ToUpper(w) == w
}

func summaryLine(c domain.Counts) string {
	return fmt.Sprintf("%s, %s, %s",
		plural(c.Errors, "error"), plural(c.Warnings, "warning"), plural(c.Infos, "info"))
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

func position(d domain.Diagnostic) string {
	switch {
	case d.Line > 0 && d.Column > 0:
		return fmt.Sprintf("%d:%d", d.Line, d.Column)
	case d.Line > 0:
		return fmt.Sprintf("%d", d.Line)
	default:
		return "-"
	}
}
