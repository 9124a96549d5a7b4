package domain

import (
	"context"
	"time"
)

// SeveritySource points at a severity document and the properties to
// substitute into it before parsing.
type SeveritySource struct {
	Path       string
	Properties map[string]string
}

// ClassificationLoader parses a severity document into a classification.
// Failures are *ConfigParseError.
type ClassificationLoader interface {
	Load(src SeveritySource) (SeverityClassification, error)
}

// AnalysisRequest is everything the engine needs for one run.
type AnalysisRequest struct {
	ProjectRoot    string
	SourceFiles    []string
	Classpath      []string
	Classification SeverityClassification
	ShowViolations bool
}

// AnalysisEngine runs inspections and returns the complete diagnostic
// sequence. Order must be deterministic for a fixed engine and input.
type AnalysisEngine interface {
	Analyze(ctx context.Context, req AnalysisRequest) ([]Diagnostic, error)
}

// ReportRenderer turns a result into the bytes of one report format.
// Equal input must yield byte-identical output.
type ReportRenderer interface {
	Render(result *AggregatedResult) ([]byte, error)
}

// SourceScanner collects the source file set for a task.
type SourceScanner interface {
	Scan(root string, dirs, extensions, excludes []string) ([]string, error)
}

// ConfigLoader reads the task configuration for a project.
type ConfigLoader interface {
	Load(projectPath string) (TaskConfig, error)
}

// CacheStore persists results keyed by an inputs fingerprint.
type CacheStore interface {
	Load(projectPath, task string) (*RunCache, error)
	Save(projectPath string, cache *RunCache) error
	Invalidate(projectPath, task string) error
}

// RunHistory records completed runs.
type RunHistory interface {
	Save(projectPath string, record RunRecord) error
	Load(projectPath string) ([]RunRecord, error)
}

// GitInfo reads repository metadata.
type GitInfo interface {
	IsGitRepo(projectPath string) bool
	CommitHash(projectPath string) (string, error)
}

// RunRecord is one entry of the run history.
type RunRecord struct {
	ID         string    `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	CommitHash string    `json:"commit_hash,omitempty"`
	Task       string    `json:"task"`
	Counts     Counts    `json:"counts"`
	Exceeded   bool      `json:"exceeded"`
	State      RunState  `json:"state"`
	Failure    string    `json:"failure,omitempty"`
	Cached     bool      `json:"cached"`
}
