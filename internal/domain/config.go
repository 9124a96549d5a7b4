package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Defaults applied when .inspections.yaml is absent or leaves a field empty.
const (
	DefaultTaskName       = "main"
	DefaultSeverityConfig = "config/inspections.xml"
)

var (
	DefaultSourceDirs        = []string{"src"}
	DefaultIncludeExtensions = []string{".java", ".kt"}
)

var taskNamePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]*$`)

// TaskConfig is the user-facing configuration of an inspection task,
// loaded from .inspections.yaml and overridden by CLI flags.
type TaskConfig struct {
	Task                   string                  `yaml:"task"                     json:"task"                         validate:"required,max=64"`
	SeverityConfig         string                  `yaml:"severity_config"          json:"severity_config"              validate:"required"`
	Properties             map[string]string       `yaml:"properties"               json:"properties,omitempty"`
	EnvFile                string                  `yaml:"env_file"                 json:"env_file,omitempty"`
	SourceDirs             []string                `yaml:"source_dirs"              json:"source_dirs"                  validate:"min=1,dive,required"`
	IncludeExtensions      []string                `yaml:"include_extensions"       json:"include_extensions"           validate:"dive,startswith=."`
	ExcludePaths           []string                `yaml:"exclude_paths"            json:"exclude_paths,omitempty"`
	Classpath              []string                `yaml:"classpath"                json:"classpath,omitempty"          validate:"dive,required"`
	MaxErrors              string                  `yaml:"max_errors"               json:"max_errors,omitempty"`
	MaxWarnings            string                  `yaml:"max_warnings"             json:"max_warnings,omitempty"`
	ShowViolations         bool                    `yaml:"show_violations"          json:"show_violations"`
	IgnoreFailures         bool                    `yaml:"ignore_failures"          json:"ignore_failures"`
	TolerateReportFailures bool                    `yaml:"tolerate_report_failures" json:"tolerate_report_failures"`
	Cache                  *bool                   `yaml:"cache"                    json:"cache,omitempty"`
	Engine                 EngineConfig            `yaml:"engine"                   json:"engine"`
	Reports                map[string]ReportConfig `yaml:"reports"                  json:"reports,omitempty"`
}

// EngineConfig selects and tunes the external analysis engine.
type EngineConfig struct {
	Command     []string `yaml:"command"     json:"command,omitempty"`
	Parallelism int      `yaml:"parallelism" json:"parallelism,omitempty" validate:"gte=0,lte=64"`
	Timeout     string   `yaml:"timeout"     json:"timeout,omitempty"`
}

// ReportConfig configures one report format. A listed format is enabled
// unless enabled: false is given.
type ReportConfig struct {
	Enabled *bool  `yaml:"enabled" json:"enabled,omitempty"`
	Path    string `yaml:"path"    json:"path,omitempty"`
}

// DefaultTaskConfig returns the configuration used when no file exists.
func DefaultTaskConfig() TaskConfig {
	return TaskConfig{
		Task:              DefaultTaskName,
		SeverityConfig:    DefaultSeverityConfig,
		SourceDirs:        cloneStrings(DefaultSourceDirs),
		IncludeExtensions: cloneStrings(DefaultIncludeExtensions),
	}
}

// WithDefaults fills empty fields from DefaultTaskConfig.
func (c TaskConfig) WithDefaults() TaskConfig {
	d := DefaultTaskConfig()
	if c.Task == "" {
		c.Task = d.Task
	}
	if c.SeverityConfig == "" {
		c.SeverityConfig = d.SeverityConfig
	}
	if len(c.SourceDirs) == 0 {
		c.SourceDirs = d.SourceDirs
	}
	if len(c.IncludeExtensions) == 0 {
		c.IncludeExtensions = d.IncludeExtensions
	}
	return c
}

var validate = validator.New()

// Validate checks the config and returns a descriptive error.
func (c TaskConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return fmt.Errorf("invalid %s: failed %q check (value %v)", fe.Namespace(), fe.Tag(), fe.Value())
		}
		return err
	}

	if !taskNamePattern.MatchString(c.Task) {
		return fmt.Errorf("invalid task name %q (letters, digits, '.', '_' and '-' only)", c.Task)
	}
	if _, err := ParseLimit(c.MaxErrors); err != nil {
		return fmt.Errorf("max_errors: %w", err)
	}
	if _, err := ParseLimit(c.MaxWarnings); err != nil {
		return fmt.Errorf("max_warnings: %w", err)
	}
	if _, err := c.EngineTimeout(); err != nil {
		return err
	}
	for name := range c.Reports {
		if _, err := ParseReportKind(name); err != nil {
			return fmt.Errorf("reports: %w", err)
		}
	}
	return nil
}

// RunOptions derives the frozen per-run options.
func (c TaskConfig) RunOptions() (RunOptions, error) {
	maxErrors, err := ParseLimit(c.MaxErrors)
	if err != nil {
		return RunOptions{}, fmt.Errorf("max_errors: %w", err)
	}
	maxWarnings, err := ParseLimit(c.MaxWarnings)
	if err != nil {
		return RunOptions{}, fmt.Errorf("max_warnings: %w", err)
	}
	return RunOptions{
		MaxErrors:              maxErrors,
		MaxWarnings:            maxWarnings,
		ShowViolations:         c.ShowViolations,
		IgnoreFailures:         c.IgnoreFailures,
		TolerateReportFailures: c.TolerateReportFailures,
	}, nil
}

// ReportDestinations derives the report map. With no reports configured the
// XML and HTML reports are enabled at their default locations.
func (c TaskConfig) ReportDestinations() (ReportDestinations, error) {
	if len(c.Reports) == 0 {
		return DefaultReportDestinations(c.Task), nil
	}
	dests := make(ReportDestinations, len(c.Reports))
	for name, rc := range c.Reports {
		kind, err := ParseReportKind(name)
		if err != nil {
			return nil, err
		}
		enabled := rc.Enabled == nil || *rc.Enabled
		path := strings.TrimSpace(rc.Path)
		if path == "" {
			path = DefaultReportPath(c.Task, kind)
		}
		dests[kind] = ReportDestination{Enabled: enabled, Path: path}
	}
	return dests, nil
}

// CacheEnabled defaults to true.
func (c TaskConfig) CacheEnabled() bool {
	return c.Cache == nil || *c.Cache
}

// EngineTimeout parses engine.timeout; zero means no timeout.
func (c TaskConfig) EngineTimeout() (time.Duration, error) {
	if strings.TrimSpace(c.Engine.Timeout) == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Engine.Timeout)
	if err != nil {
		return 0, fmt.Errorf("engine.timeout: %w", err)
	}
	if d < 0 {
		return 0, fmt.Errorf("engine.timeout must be >= 0 (got %s)", d)
	}
	return d, nil
}
