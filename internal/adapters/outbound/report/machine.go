package report

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"fmt"

	"github.com/openkraft/inspections/internal/domain"
)

type xmlReport struct {
	XMLName  xml.Name  `xml:"inspections"`
	Errors   int       `xml:"errors,attr"`
	Warnings int       `xml:"warnings,attr"`
	Infos    int       `xml:"infos,attr"`
	Files    []xmlFile `xml:"file"`
}

type xmlFile struct {
	Path     string       `xml:"path,attr"`
	Problems []xmlProblem `xml:"problem"`
}

type xmlProblem struct {
	Inspection string `xml:"inspection,attr"`
	Severity   string `xml:"severity,attr"`
	Line       int    `xml:"line,attr,omitempty"`
	Column     int    `xml:"column,attr,omitempty"`
	Message    string `xml:",chardata"`
}

// RenderXML produces the machine-readable XML report.
func RenderXML(result *domain.AggregatedResult) ([]byte, error) {
	doc := xmlReport{
		Errors:   result.Counts.Errors,
		Warnings: result.Counts.Warnings,
		Infos:    result.Counts.Infos,
	}
	for _, g := range result.ByFile() {
		f := xmlFile{Path: g.File}
		for _, d := range g.Diagnostics {
			f.Problems = append(f.Problems, xmlProblem{
				Inspection: d.InspectionID,
				Severity:   string(d.Severity),
				Line:       d.Line,
				Column:     d.Column,
				Message:    d.Message,
			})
		}
		doc.Files = append(doc.Files, f)
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encoding XML report: %w", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

type jsonReport struct {
	Counts domain.Counts `json:"counts"`
	Files  []jsonFile    `json:"files"`
}

type jsonFile struct {
	Path        string              `json:"path"`
	Diagnostics []domain.Diagnostic `json:"diagnostics"`
}

// RenderJSON produces the machine-readable JSON report.
func RenderJSON(result *domain.AggregatedResult) ([]byte, error) {
	doc := jsonReport{Counts: result.Counts, Files: []jsonFile{}}
	for _, g := range result.ByFile() {
		doc.Files = append(doc.Files, jsonFile{Path: g.File, Diagnostics: g.Diagnostics})
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encoding JSON report: %w", err)
	}
	return buf.Bytes(), nil
}
