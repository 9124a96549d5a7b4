package application

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/openkraft/inspections/internal/domain"
)

// EngineFactory builds the analysis engine described by a task config.
type EngineFactory func(cfg domain.EngineConfig) domain.AnalysisEngine

// Overrides are per-invocation values that take precedence over the
// task config file. Empty strings and nil pointers leave the file value.
type Overrides struct {
	SeverityConfig string
	MaxErrors      string
	MaxWarnings    string
	ShowViolations *bool
	IgnoreFailures *bool
	NoCache        bool
}

// RunService orchestrates a task run for a project:
// load config → apply overrides → scan sources → run task → record history.
type RunService struct {
	configLoader domain.ConfigLoader
	scanner      domain.SourceScanner
	loader       domain.ClassificationLoader
	engines      EngineFactory
	renderers    map[domain.ReportKind]domain.ReportRenderer
	cache        domain.CacheStore
	history      domain.RunHistory
	git          domain.GitInfo
	logger       *slog.Logger
	now          func() time.Time
}

// ServiceOption customises a RunService.
type ServiceOption func(*RunService)

// WithServiceLogger sets the logger handed to every task.
func WithServiceLogger(l *slog.Logger) ServiceOption {
	return func(s *RunService) { s.logger = l }
}

// WithCache enables incremental re-runs backed by store.
func WithCache(store domain.CacheStore) ServiceOption {
	return func(s *RunService) { s.cache = store }
}

// WithHistory records every run in h.
func WithHistory(h domain.RunHistory, git domain.GitInfo) ServiceOption {
	return func(s *RunService) {
		s.history = h
		s.git = git
	}
}

// WithClock replaces time.Now for run records.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *RunService) { s.now = now }
}

func NewRunService(
	configLoader domain.ConfigLoader,
	scanner domain.SourceScanner,
	loader domain.ClassificationLoader,
	engines EngineFactory,
	renderers map[domain.ReportKind]domain.ReportRenderer,
	opts ...ServiceOption,
) *RunService {
	s := &RunService{
		configLoader: configLoader,
		scanner:      scanner,
		loader:       loader,
		engines:      engines,
		renderers:    renderers,
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Prepare resolves the task config for projectPath into a frozen TaskSpec
// and the engine settings. Errors are *domain.ConfigParseError.
func (s *RunService) Prepare(projectPath string, ov Overrides) (TaskSpec, domain.EngineConfig, error) {
	root, err := filepath.Abs(projectPath)
	if err != nil {
		return TaskSpec{}, domain.EngineConfig{}, fmt.Errorf("resolving path: %w", err)
	}

	cfg, err := s.configLoader.Load(root)
	if err != nil {
		return TaskSpec{}, domain.EngineConfig{}, err
	}
	cfg = applyOverrides(cfg, ov)
	if err := cfg.Validate(); err != nil {
		return TaskSpec{}, domain.EngineConfig{}, &domain.ConfigParseError{Source: "command line", Msg: "invalid override", Err: err}
	}

	opts, err := cfg.RunOptions()
	if err != nil {
		return TaskSpec{}, domain.EngineConfig{}, &domain.ConfigParseError{Source: "command line", Err: err}
	}
	dests, err := cfg.ReportDestinations()
	if err != nil {
		return TaskSpec{}, domain.EngineConfig{}, &domain.ConfigParseError{Source: "reports", Err: err}
	}
	timeout, err := cfg.EngineTimeout()
	if err != nil {
		return TaskSpec{}, domain.EngineConfig{}, &domain.ConfigParseError{Source: "engine", Err: err}
	}

	sources, err := s.scanner.Scan(root, cfg.SourceDirs, cfg.IncludeExtensions, cfg.ExcludePaths)
	if err != nil {
		return TaskSpec{}, domain.EngineConfig{}, fmt.Errorf("scanning sources: %w", err)
	}

	classpath := make([]string, 0, len(cfg.Classpath))
	for _, entry := range cfg.Classpath {
		classpath = append(classpath, resolve(root, entry))
	}

	spec := TaskSpec{
		Name:        cfg.Task,
		ProjectRoot: root,
		SourceFiles: sources,
		Classpath:   classpath,
		Severity: domain.SeveritySource{
			Path:       resolve(root, cfg.SeverityConfig),
			Properties: cfg.Properties,
		},
		Options:        opts,
		Reports:        dests,
		EngineIdentity: cfg.Engine.Command,
		EngineTimeout:  timeout,
		UseCache:       cfg.CacheEnabled() && !ov.NoCache,
	}
	return spec, cfg.Engine, nil
}

// Run prepares and executes one task for projectPath. The outcome is
// recorded in the run history when one is configured; recording is
// best-effort. A nil outcome means the task never started.
func (s *RunService) Run(ctx context.Context, projectPath string, ov Overrides, opts ...Option) (*Outcome, error) {
	spec, engineCfg, err := s.Prepare(projectPath, ov)
	if err != nil {
		s.logger.Error("preparing task failed", "path", projectPath, "error", err)
		return nil, err
	}

	// --no-cache drops the stored result so later runs start from the engine.
	if ov.NoCache && s.cache != nil {
		if err := s.cache.Invalidate(spec.ProjectRoot, spec.Name); err != nil {
			s.logger.Warn("invalidating cache failed", "task", spec.Name, "error", err)
		}
	}

	deps := Deps{
		Loader:    s.loader,
		Engine:    s.engines(engineCfg),
		Renderers: s.renderers,
		Cache:     s.cache,
	}

	taskOpts := append([]Option{WithLogger(s.logger)}, opts...)
	task := NewTask(spec, deps, taskOpts...)
	outcome, runErr := task.Run(ctx)

	s.record(spec.ProjectRoot, outcome)
	return outcome, runErr
}

// Classification loads the severity classification the project's task
// would use.
func (s *RunService) Classification(projectPath string, ov Overrides) (domain.SeverityClassification, error) {
	root, err := filepath.Abs(projectPath)
	if err != nil {
		return domain.SeverityClassification{}, fmt.Errorf("resolving path: %w", err)
	}
	cfg, err := s.configLoader.Load(root)
	if err != nil {
		return domain.SeverityClassification{}, err
	}
	cfg = applyOverrides(cfg, ov)
	return s.loader.Load(domain.SeveritySource{
		Path:       resolve(root, cfg.SeverityConfig),
		Properties: cfg.Properties,
	})
}

// History returns the recorded runs, oldest first.
func (s *RunService) History(projectPath string) ([]domain.RunRecord, error) {
	if s.history == nil {
		return nil, nil
	}
	root, err := filepath.Abs(projectPath)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}
	return s.history.Load(root)
}

func (s *RunService) record(root string, out *Outcome) {
	if s.history == nil || out == nil {
		return
	}
	rec := domain.RunRecord{
		ID:        uuid.NewString(),
		Timestamp: s.now().UTC(),
		Task:      out.Task,
		State:     out.State,
		Failure:   string(out.Failure),
		Cached:    out.Cached,
	}
	if out.Result != nil {
		rec.Counts = out.Result.Counts
	}
	if out.Decision != nil {
		rec.Exceeded = out.Decision.Exceeded
	}
	if s.git != nil && s.git.IsGitRepo(root) {
		if hash, err := s.git.CommitHash(root); err == nil {
			rec.CommitHash = hash
		}
	}
	if err := s.history.Save(root, rec); err != nil {
		s.logger.Warn("recording run history failed", "error", err)
	}
}

func applyOverrides(cfg domain.TaskConfig, ov Overrides) domain.TaskConfig {
	if v := strings.TrimSpace(ov.SeverityConfig); v != "" {
		cfg.SeverityConfig = v
	}
	if v := strings.TrimSpace(ov.MaxErrors); v != "" {
		cfg.MaxErrors = v
	}
	if v := strings.TrimSpace(ov.MaxWarnings); v != "" {
		cfg.MaxWarnings = v
	}
	if ov.ShowViolations != nil {
		cfg.ShowViolations = *ov.ShowViolations
	}
	if ov.IgnoreFailures != nil {
		cfg.IgnoreFailures = *ov.IgnoreFailures
	}
	return cfg
}

func resolve(root, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}
