package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/openkraft/inspections/internal/domain"
)

// ── Warm palette ──
var (
	accent  = lipgloss.Color("#D97706") // amber
	fg      = lipgloss.Color("#E8E6E3") // warm light gray
	dim     = lipgloss.Color("#6B7280") // muted gray
	faint   = lipgloss.Color("#3F3F46") // very dim
	success = lipgloss.Color("#22C55E") // green
	danger  = lipgloss.Color("#EF4444") // red
	warning = lipgloss.Color("#F59E0B") // amber-yellow
	info    = lipgloss.Color("#8B949E") // soft blue-gray
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accent).
			Align(lipgloss.Center)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(1, 4).
			Align(lipgloss.Center).
			Width(68)

	dimStyle      = lipgloss.NewStyle().Foreground(dim)
	faintStyle    = lipgloss.NewStyle().Foreground(faint)
	passStyle     = lipgloss.NewStyle().Foreground(success)
	failStyle     = lipgloss.NewStyle().Foreground(danger)
	errorTagStyle = lipgloss.NewStyle().Foreground(danger).Bold(true)
	warnTagStyle  = lipgloss.NewStyle().Foreground(warning).Bold(true)
	infoTagStyle  = lipgloss.NewStyle().Foreground(info)
	fileStyle     = lipgloss.NewStyle().Foreground(dim)
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(fg)
	separatorLine = faintStyle.Render(strings.Repeat("─", 64))
)

// RenderSummary formats the end-of-run summary: tier counts, the gate
// verdict and, when the gate tripped, each breached ceiling.
func RenderSummary(task string, result *domain.AggregatedResult, decision *domain.GateDecision, cached bool) string {
	var b strings.Builder

	title := headerStyle.Render("inspections")
	subtitle := dimStyle.Render("task " + task)
	if cached {
		subtitle += dimStyle.Render(" (cached)")
	}

	verdict := passStyle.Bold(true).Render("PASSED")
	if decision != nil && decision.Exceeded {
		verdict = failStyle.Bold(true).Render("FAILED")
	}
	b.WriteString(boxStyle.Render(title + "\n" + subtitle + "\n\n" + verdict))
	b.WriteString("\n\n")

	if result == nil {
		b.WriteString("  " + dimStyle.Render("No results.") + "\n")
		return b.String()
	}

	b.WriteString("  ")
	b.WriteString(titleStyle.Render("Diagnostics"))
	for _, sev := range domain.Severities {
		b.WriteString("  ")
		b.WriteString(tierStyle(sev).Render(plural(result.Counts.Of(sev), string(sev))))
	}
	b.WriteString("  ")
	b.WriteString(dimStyle.Render(fmt.Sprintf("(%d total)", result.Counts.Total())))
	b.WriteString("\n")

	if decision != nil && len(decision.Breaches) > 0 {
		b.WriteString("\n")
		for _, br := range decision.Breaches {
			fmt.Fprintf(&b, "    %s %s\n", failStyle.Render("✗"), br.String())
		}
	}

	b.WriteString("\n")
	return b.String()
}

// RenderViolation formats one diagnostic for the live echo. It is a single
// line so it can be streamed as results arrive.
func RenderViolation(d domain.Diagnostic) string {
	return fmt.Sprintf("  %s %s  %s %s\n",
		severityTag(d.Severity),
		fileStyle.Render(shortenPath(d.Location())),
		d.Message,
		faintStyle.Render("["+d.InspectionID+"]"),
	)
}

// RenderReports lists the report files that were written.
func RenderReports(paths []string) string {
	if len(paths) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("  " + separatorLine + "\n\n")
	b.WriteString("  " + titleStyle.Render("Reports") + "\n")
	for _, p := range paths {
		fmt.Fprintf(&b, "    %s %s\n", dimStyle.Render("→"), p)
	}
	b.WriteString("\n")
	return b.String()
}

// RenderFailure formats a build failure with its cause category.
func RenderFailure(kind domain.FailureKind, err error) string {
	if err == nil {
		return ""
	}
	label := string(kind)
	if label == "" {
		label = string(domain.FailureOther)
	}
	return fmt.Sprintf("  %s %s\n         %s\n",
		errorTagStyle.Render("FAILED"),
		dimStyle.Render("("+label+")"),
		err.Error(),
	)
}

// RenderClassification shows each tier with its inspection identifiers.
func RenderClassification(view domain.ClassificationView) string {
	var b strings.Builder
	b.WriteString("\n")
	tiers := []struct {
		name string
		tag  string
		ids  []string
	}{
		{"errors", severityTag(domain.SeverityError), view.Errors},
		{"warnings", severityTag(domain.SeverityWarning), view.Warnings},
		{"infos", severityTag(domain.SeverityInfo), view.Infos},
	}
	for _, tier := range tiers {
		fmt.Fprintf(&b, "  %s %s\n", titleStyle.Render(padRight(tier.name, 10)), dimStyle.Render(fmt.Sprintf("%d", len(tier.ids))))
		for _, id := range tier.ids {
			fmt.Fprintf(&b, "    %s %s\n", tier.tag, id)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func severityTag(severity domain.Severity) string {
	switch severity {
	case domain.SeverityError:
		return errorTagStyle.Render("error")
	case domain.SeverityWarning:
		return warnTagStyle.Render("warn ")
	default:
		return infoTagStyle.Render("info ")
	}
}

func tierStyle(sev domain.Severity) lipgloss.Style {
	switch sev {
	case domain.SeverityError:
		return errorTagStyle
	case domain.SeverityWarning:
		return warnTagStyle
	default:
		return infoTagStyle
	}
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

func shortenPath(path string) string {
	if idx := strings.Index(path, "src/"); idx >= 0 {
		return path[idx:]
	}
	parts := strings.Split(filepath.ToSlash(path), "/")
	if len(parts) > 3 {
		return strings.Join(parts[len(parts)-3:], "/")
	}
	return path
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

// RenderHistory formats the run history for terminal output.
func RenderHistory(records []domain.RunRecord) string {
	if len(records) == 0 {
		return "  " + dimStyle.Render("No run history found.") + "\n"
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString("  " + titleStyle.Render("Run History") + "\n")
	b.WriteString("  " + faintStyle.Render(strings.Repeat("─", 50)) + "\n\n")

	for i, r := range records {
		hash := r.CommitHash
		if len(hash) > 7 {
			hash = hash[:7]
		}
		if hash == "" {
			hash = "·······"
		}

		status := passStyle.Render("pass")
		switch {
		case r.State == domain.StateFailed:
			status = failStyle.Render("fail")
		case r.Exceeded:
			status = lipgloss.NewStyle().Foreground(warning).Render("over")
		}

		line := fmt.Sprintf("  %s  %s  %s  %s  %s",
			dimStyle.Render(r.Timestamp.Format("2006-01-02 15:04")),
			faintStyle.Render(hash),
			padRight(r.Task, 12),
			status,
			fmt.Sprintf("E%d W%d I%d", r.Counts.Errors, r.Counts.Warnings, r.Counts.Infos),
		)
		if r.Cached {
			line += " " + dimStyle.Render("(cached)")
		}

		if i > 0 && records[i-1].Task == r.Task {
			diff := r.Counts.Errors - records[i-1].Counts.Errors
			if diff < 0 {
				line += "  " + passStyle.Render(fmt.Sprintf("↓%d", -diff))
			} else if diff > 0 {
				line += "  " + failStyle.Render(fmt.Sprintf("↑%d", diff))
			}
		}

		b.WriteString(line)
		b.WriteString("\n")
	}

	return b.String()
}
