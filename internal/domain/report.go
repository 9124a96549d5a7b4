package domain

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ReportKind identifies a report format.
type ReportKind string

const (
	ReportXML    ReportKind = "xml"
	ReportHTML   ReportKind = "html"
	ReportJSON   ReportKind = "json"
	ReportText   ReportKind = "text"
	ReportGitHub ReportKind = "github"
)

// ReportKinds lists every format in emission order.
var ReportKinds = []ReportKind{ReportXML, ReportHTML, ReportJSON, ReportText, ReportGitHub}

// ParseReportKind accepts a format name in any case.
func ParseReportKind(s string) (ReportKind, error) {
	k := ReportKind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range ReportKinds {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown report kind %q (valid: xml, html, json, text, github)", s)
}

// Extension is the file extension used for default report paths.
func (k ReportKind) Extension() string {
	switch k {
	case ReportText:
		return "txt"
	case ReportGitHub:
		return "github.txt"
	default:
		return string(k)
	}
}

// ReportDestination says whether a format is produced and where.
// Path is relative to the project root unless absolute.
type ReportDestination struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path,omitempty"`
}

// ReportDestinations maps each format to its destination.
type ReportDestinations map[ReportKind]ReportDestination

// DefaultReportDir is where reports land when no path is configured.
const DefaultReportDir = "build/reports/inspections"

// DefaultReportPath returns the relative default location for a format.
func DefaultReportPath(task string, kind ReportKind) string {
	return filepath.Join(DefaultReportDir, task+"."+kind.Extension())
}

// DefaultReportDestinations enables the XML and HTML reports.
func DefaultReportDestinations(task string) ReportDestinations {
	return ReportDestinations{
		ReportXML:  {Enabled: true, Path: DefaultReportPath(task, ReportXML)},
		ReportHTML: {Enabled: true, Path: DefaultReportPath(task, ReportHTML)},
	}
}

// Enabled returns the enabled formats in emission order.
func (d ReportDestinations) Enabled() []ReportKind {
	var kinds []ReportKind
	for _, k := range ReportKinds {
		if dest, ok := d[k]; ok && dest.Enabled {
			kinds = append(kinds, k)
		}
	}
	return kinds
}

// Clone copies the map so a task can freeze it.
func (d ReportDestinations) Clone() ReportDestinations {
	out := make(ReportDestinations, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// WithDefaultPaths fills empty paths with the task's default locations.
func (d ReportDestinations) WithDefaultPaths(task string) ReportDestinations {
	out := d.Clone()
	for k, v := range out {
		if v.Path == "" {
			v.Path = DefaultReportPath(task, k)
			out[k] = v
		}
	}
	return out
}

// Resolve returns the location for a format, joined onto root when the
// configured path is relative. It returns "" when no path is configured.
func (d ReportDestinations) Resolve(root string, kind ReportKind) string {
	p := d[kind].Path
	if p == "" {
		return ""
	}
	if filepath.IsAbs(p) || root == "" {
		return p
	}
	return filepath.Join(root, p)
}
