package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/openkraft/inspections/internal/domain"
)

// TaskSpec is the frozen configuration surface of one inspection task.
type TaskSpec struct {
	Name           string
	ProjectRoot    string
	SourceFiles    []string
	Classpath      []string
	Severity       domain.SeveritySource
	Options        domain.RunOptions
	Reports        domain.ReportDestinations
	EngineIdentity []string
	EngineTimeout  time.Duration
	UseCache       bool
}

// Deps are the collaborators a task drives.
type Deps struct {
	Loader    domain.ClassificationLoader
	Engine    domain.AnalysisEngine
	Renderers map[domain.ReportKind]domain.ReportRenderer
	// Cache is optional; without it every run invokes the engine.
	Cache domain.CacheStore
}

// Outcome is the observable record of a finished run.
type Outcome struct {
	Task        string                   `json:"task"`
	State       domain.RunState          `json:"state"`
	Result      *domain.AggregatedResult `json:"result,omitempty"`
	Decision    *domain.GateDecision     `json:"decision,omitempty"`
	Reports     []string                 `json:"reports,omitempty"`
	Cached      bool                     `json:"cached"`
	Fingerprint string                   `json:"fingerprint,omitempty"`
	Failure     domain.FailureKind       `json:"failure,omitempty"`
	Error       string                   `json:"error,omitempty"`
}

// Option customises a Task.
type Option func(*Task)

// WithLogger sets the structured logger. The default discards output.
func WithLogger(l *slog.Logger) Option {
	return func(t *Task) { t.logger = l }
}

// WithViolationSink receives each diagnostic as soon as it is available
// when ShowViolations is set.
func WithViolationSink(sink func(domain.Diagnostic)) Option {
	return func(t *Task) { t.sink = sink }
}

// Task runs the inspection pipeline once:
// load classification -> analyze -> aggregate -> report -> decide.
type Task struct {
	spec    TaskSpec
	loader  domain.ClassificationLoader
	invoker *Invoker
	emitter *Emitter
	cache   domain.CacheStore
	logger  *slog.Logger
	sink    func(domain.Diagnostic)

	mu      sync.Mutex
	state   domain.RunState
	started bool
}

// NewTask freezes spec. Later changes to the caller's slices or maps do
// not reach the task.
func NewTask(spec TaskSpec, deps Deps, opts ...Option) *Task {
	spec.SourceFiles = append([]string(nil), spec.SourceFiles...)
	spec.Classpath = append([]string(nil), spec.Classpath...)
	spec.EngineIdentity = append([]string(nil), spec.EngineIdentity...)
	spec.Reports = spec.Reports.WithDefaultPaths(spec.Name)
	props := make(map[string]string, len(spec.Severity.Properties))
	for k, v := range spec.Severity.Properties {
		props[k] = v
	}
	spec.Severity.Properties = props

	t := &Task{
		spec:    spec,
		loader:  deps.Loader,
		invoker: NewInvoker(deps.Engine, spec.EngineTimeout),
		emitter: NewEmitter(deps.Renderers),
		cache:   deps.Cache,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		state:   domain.StateConfigured,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Name returns the task name.
func (t *Task) Name() string { return t.spec.Name }

// State returns the current lifecycle state.
func (t *Task) State() domain.RunState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Run executes the pipeline. It may be called once; a failed run must be
// retried with a new Task. On failure the returned error is a
// *domain.BuildError wrapping the typed cause, and the Outcome is still
// populated with whatever the run produced.
func (t *Task) Run(ctx context.Context) (*Outcome, error) {
	t.mu.Lock()
	if t.started {
		t.mu.Unlock()
		return nil, fmt.Errorf("task %s: %w", t.spec.Name, domain.ErrAlreadyRun)
	}
	t.started = true
	t.mu.Unlock()

	out := &Outcome{Task: t.spec.Name, State: domain.StateConfigured}
	log := t.logger.With("task", t.spec.Name)

	if err := t.advance(out, domain.StateRunning); err != nil {
		return out, err
	}

	classification, err := t.loader.Load(t.spec.Severity)
	if err != nil {
		return t.fail(out, err)
	}
	log.Debug("severity classification loaded",
		"inspections", classification.Len(),
		"errors", len(classification.Errors()),
		"warnings", len(classification.Warnings()),
		"infos", len(classification.Infos()))

	result, err := t.analyze(ctx, out, classification)
	if err != nil {
		return t.fail(out, err)
	}
	out.Result = result

	if t.spec.Options.ShowViolations && t.sink != nil {
		for _, d := range result.Diagnostics {
			t.sink(d)
		}
	}

	if err := t.advance(out, domain.StateAggregated); err != nil {
		return out, err
	}

	decision := domain.Gate(result, t.spec.Options)
	out.Decision = &decision
	log.Info("inspection results",
		"errors", result.Counts.Errors,
		"warnings", result.Counts.Warnings,
		"infos", result.Counts.Infos,
		"exceeded", decision.Exceeded,
		"cached", out.Cached)

	var failures []error

	written, reportErr := t.emitter.Emit(result, t.spec.Reports, t.spec.ProjectRoot)
	out.Reports = written
	log.Debug("reports emitted", "kinds", enabledKinds(t.spec.Reports), "written", len(written))
	if reportErr != nil {
		if t.spec.Options.TolerateReportFailures {
			log.Warn("some reports could not be written", "error", reportErr)
		} else {
			failures = append(failures, reportErr)
		}
	}

	if decision.Exceeded {
		gateErr := &domain.GateExceededError{Decision: decision}
		if t.spec.Options.IgnoreFailures {
			log.Warn("ignoring threshold failure", "error", gateErr)
		} else {
			failures = append(failures, gateErr)
		}
	}

	if reportErr == nil || t.spec.Options.TolerateReportFailures {
		if err := t.advance(out, domain.StateReported); err != nil {
			return out, err
		}
	}
	if len(failures) > 0 {
		return t.fail(out, errors.Join(failures...))
	}
	if err := t.advance(out, domain.StateCompleted); err != nil {
		return out, err
	}
	return out, nil
}

// analyze returns the aggregated result, from the cache when the inputs
// fingerprint matches and from the engine otherwise.
func (t *Task) analyze(ctx context.Context, out *Outcome, c domain.SeverityClassification) (*domain.AggregatedResult, error) {
	log := t.logger.With("task", t.spec.Name)

	useCache := t.spec.UseCache && t.cache != nil
	if useCache {
		fp, err := Fingerprint(FingerprintInput{
			Root:           t.spec.ProjectRoot,
			SourceFiles:    t.spec.SourceFiles,
			Classpath:      t.spec.Classpath,
			Severity:       t.spec.Severity,
			Options:        t.spec.Options,
			Reports:        t.spec.Reports.Enabled(),
			EngineIdentity: t.spec.EngineIdentity,
		})
		if err != nil {
			log.Warn("cannot fingerprint inputs, cache disabled for this run", "error", err)
			useCache = false
		} else {
			out.Fingerprint = fp
		}
	}

	if useCache {
		cached, err := t.cache.Load(t.spec.ProjectRoot, t.spec.Name)
		if err != nil {
			log.Warn("reading cache failed", "error", err)
		} else if !cached.IsInvalidated(out.Fingerprint) {
			log.Info("inputs unchanged, reusing cached result", "fingerprint", out.Fingerprint)
			out.Cached = true
			return cached.Result, nil
		}
	}

	log.Debug("invoking analysis engine", "sources", len(t.spec.SourceFiles), "classpath", len(t.spec.Classpath))
	diags, err := t.invoker.Analyze(ctx, domain.AnalysisRequest{
		ProjectRoot:    t.spec.ProjectRoot,
		SourceFiles:    t.spec.SourceFiles,
		Classpath:      t.spec.Classpath,
		Classification: c,
		ShowViolations: t.spec.Options.ShowViolations,
	})
	if err != nil {
		return nil, err
	}
	result := domain.Aggregate(diags)

	if useCache {
		entry := &domain.RunCache{Task: t.spec.Name, Fingerprint: out.Fingerprint, Result: result}
		if err := t.cache.Save(t.spec.ProjectRoot, entry); err != nil {
			log.Warn("writing cache failed", "error", err)
		}
	}
	return result, nil
}

func (t *Task) advance(out *Outcome, to domain.RunState) error {
	t.mu.Lock()
	from := t.state
	if err := domain.Transition(from, to); err != nil {
		t.mu.Unlock()
		return err
	}
	t.state = to
	t.mu.Unlock()

	out.State = to
	t.logger.Debug("state transition", "task", t.spec.Name, "from", from, "to", to)
	return nil
}

func (t *Task) fail(out *Outcome, cause error) (*Outcome, error) {
	t.mu.Lock()
	at := t.state
	t.mu.Unlock()

	buildErr := &domain.BuildError{Task: t.spec.Name, State: at, Err: cause}
	if err := t.advance(out, domain.StateFailed); err != nil {
		return out, errors.Join(buildErr, err)
	}
	out.Failure = domain.ClassifyFailure(cause)
	out.Error = cause.Error()
	t.logger.Error("task failed", "task", t.spec.Name, "state", at, "failure", out.Failure, "error", cause)
	return out, buildErr
}
