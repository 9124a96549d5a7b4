package domain

import (
	"fmt"
	"strings"
)

// Severity is the tier an inspection reports at.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Severities lists all tiers in reporting order.
var Severities = []Severity{SeverityError, SeverityWarning, SeverityInfo}

// ParseSeverity accepts a tier name in any case.
func ParseSeverity(s string) (Severity, error) {
	switch Severity(strings.ToLower(strings.TrimSpace(s))) {
	case SeverityError:
		return SeverityError, nil
	case SeverityWarning:
		return SeverityWarning, nil
	case SeverityInfo:
		return SeverityInfo, nil
	}
	return "", fmt.Errorf("unknown severity %q (valid: error, warning, info)", s)
}

// Valid reports whether s is one of the known tiers.
func (s Severity) Valid() bool {
	switch s {
	case SeverityError, SeverityWarning, SeverityInfo:
		return true
	}
	return false
}

// Diagnostic is one issue reported by the analysis engine.
type Diagnostic struct {
	InspectionID string   `json:"inspection_id" xml:"inspection,attr"`
	Severity     Severity `json:"severity"      xml:"severity,attr"`
	File         string   `json:"file"          xml:"file,attr"`
	Line         int      `json:"line,omitempty"   xml:"line,attr,omitempty"`
	Column       int      `json:"column,omitempty" xml:"column,attr,omitempty"`
	Message      string   `json:"message"       xml:",chardata"`
}

// Location renders file:line:col, omitting absent parts.
func (d Diagnostic) Location() string {
	switch {
	case d.Line > 0 && d.Column > 0:
		return fmt.Sprintf("%s:%d:%d", d.File, d.Line, d.Column)
	case d.Line > 0:
		return fmt.Sprintf("%s:%d", d.File, d.Line)
	default:
		return d.File
	}
}

// Counts holds the number of diagnostics per tier.
type Counts struct {
	Errors   int `json:"errors"   xml:"errors,attr"`
	Warnings int `json:"warnings" xml:"warnings,attr"`
	Infos    int `json:"infos"    xml:"infos,attr"`
}

// Of returns the count for a single tier.
func (c Counts) Of(sev Severity) int {
	switch sev {
	case SeverityError:
		return c.Errors
	case SeverityWarning:
		return c.Warnings
	case SeverityInfo:
		return c.Infos
	}
	return 0
}

// Total is the number of diagnostics across all tiers.
func (c Counts) Total() int { return c.Errors + c.Warnings + c.Infos }

// AggregatedResult is the outcome of one analysis run. It must not be
// mutated once built; readers may share it freely.
type AggregatedResult struct {
	Counts      Counts       `json:"counts"`
	Diagnostics []Diagnostic `json:"diagnostics"`
}

// Aggregate counts diagnostics by tier and keeps them in discovery order.
// Diagnostics with an unrecognised severity are retained but not counted.
func Aggregate(diagnostics []Diagnostic) *AggregatedResult {
	result := &AggregatedResult{
		Diagnostics: make([]Diagnostic, len(diagnostics)),
	}
	copy(result.Diagnostics, diagnostics)

	for _, d := range diagnostics {
		switch d.Severity {
		case SeverityError:
			result.Counts.Errors++
		case SeverityWarning:
			result.Counts.Warnings++
		case SeverityInfo:
			result.Counts.Infos++
		}
	}
	return result
}

// FileGroup is the diagnostics reported against a single source file.
type FileGroup struct {
	File        string
	Diagnostics []Diagnostic
}

// ByFile groups diagnostics by source file. Files appear in the order they
// were first seen; diagnostics keep their discovery order within a file.
func (r *AggregatedResult) ByFile() []FileGroup {
	index := make(map[string]int)
	var groups []FileGroup
	for _, d := range r.Diagnostics {
		i, ok := index[d.File]
		if !ok {
			i = len(groups)
			index[d.File] = i
			groups = append(groups, FileGroup{File: d.File})
		}
		groups[i].Diagnostics = append(groups[i].Diagnostics, d)
	}
	return groups
}
