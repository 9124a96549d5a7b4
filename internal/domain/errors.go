package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrAlreadyRun is returned when a task is triggered a second time.
	ErrAlreadyRun = errors.New("task has already run")
	// ErrInvalidTransition signals a state machine violation.
	ErrInvalidTransition = errors.New("invalid run state transition")
)

// ConfigParseError means a configuration document (the severity
// classification or .inspections.yaml) is missing, malformed or incomplete.
// Analysis never starts when it occurs.
type ConfigParseError struct {
	Source string
	Msg    string
	Err    error
}

func (e *ConfigParseError) Error() string {
	var b strings.Builder
	b.WriteString("config")
	if e.Source != "" {
		fmt.Fprintf(&b, " %s", e.Source)
	}
	if e.Msg != "" {
		fmt.Fprintf(&b, ": %s", e.Msg)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *ConfigParseError) Unwrap() error { return e.Err }

// AnalysisEngineError wraps a failure raised by the external engine.
type AnalysisEngineError struct {
	Err error
}

func (e *AnalysisEngineError) Error() string {
	return fmt.Sprintf("analysis engine failed: %v", e.Err)
}

func (e *AnalysisEngineError) Unwrap() error { return e.Err }

// ReportWriteError is a failure to produce one report destination.
type ReportWriteError struct {
	Kind ReportKind
	Path string
	Err  error
}

func (e *ReportWriteError) Error() string {
	return fmt.Sprintf("writing %s report to %s: %v", e.Kind, e.Path, e.Err)
}

func (e *ReportWriteError) Unwrap() error { return e.Err }

// GateExceededError reports that the aggregated counts breached a ceiling.
type GateExceededError struct {
	Decision GateDecision
}

func (e *GateExceededError) Error() string {
	parts := make([]string, 0, len(e.Decision.Breaches))
	for _, b := range e.Decision.Breaches {
		parts = append(parts, b.String())
	}
	return "inspection thresholds exceeded: " + strings.Join(parts, "; ")
}

// BuildError is the build-breaking failure surfaced by a task. The typed
// cause stays reachable through errors.As.
type BuildError struct {
	Task  string
	State RunState
	Err   error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("task %s failed while %s: %v", e.Task, e.State, e.Err)
}

func (e *BuildError) Unwrap() error { return e.Err }

// FailureKind names the cause of a build failure for callers that render
// or map it, such as exit codes.
type FailureKind string

const (
	FailureNone   FailureKind = ""
	FailureConfig FailureKind = "config"
	FailureEngine FailureKind = "engine"
	FailureReport FailureKind = "report"
	FailureGate   FailureKind = "gate"
	FailureOther  FailureKind = "other"
)

// ClassifyFailure finds the most specific cause in err. Configuration and
// engine errors win over report errors, which win over the gate.
func ClassifyFailure(err error) FailureKind {
	if err == nil {
		return FailureNone
	}
	var (
		cfgErr    *ConfigParseError
		engineErr *AnalysisEngineError
		reportErr *ReportWriteError
		gateErr   *GateExceededError
	)
	switch {
	case errors.As(err, &cfgErr):
		return FailureConfig
	case errors.As(err, &engineErr):
		return FailureEngine
	case errors.As(err, &reportErr):
		return FailureReport
	case errors.As(err, &gateErr):
		return FailureGate
	}
	return FailureOther
}
