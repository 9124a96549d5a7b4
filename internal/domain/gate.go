package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Limit is a ceiling on the number of diagnostics of one tier.
// Unbounded never trips the gate.
type Limit int

// Unbounded disables a ceiling.
const Unbounded Limit = -1

// ParseLimit accepts a non-negative integer, "unbounded", or -1.
// An empty string yields Unbounded.
func ParseLimit(s string) (Limit, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "unbounded") {
		return Unbounded, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid limit %q (expected a non-negative integer or \"unbounded\")", s)
	}
	if n == -1 {
		return Unbounded, nil
	}
	if n < 0 {
		return 0, fmt.Errorf("invalid limit %d (must be >= 0)", n)
	}
	return Limit(n), nil
}

// Bounded reports whether the limit is an actual ceiling.
func (l Limit) Bounded() bool { return l >= 0 }

// Exceeded reports whether count is strictly greater than the ceiling.
func (l Limit) Exceeded(count int) bool {
	return l.Bounded() && count > int(l)
}

func (l Limit) String() string {
	if !l.Bounded() {
		return "unbounded"
	}
	return strconv.Itoa(int(l))
}

func (l Limit) MarshalJSON() ([]byte, error) {
	if !l.Bounded() {
		return []byte(`"unbounded"`), nil
	}
	return []byte(strconv.Itoa(int(l))), nil
}

func (l *Limit) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		s = string(data)
	}
	parsed, err := ParseLimit(s)
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// RunOptions is the frozen per-run configuration. It is passed by value.
type RunOptions struct {
	MaxErrors              Limit `json:"max_errors"`
	MaxWarnings            Limit `json:"max_warnings"`
	ShowViolations         bool  `json:"show_violations"`
	IgnoreFailures         bool  `json:"ignore_failures"`
	TolerateReportFailures bool  `json:"tolerate_report_failures"`
}

// DefaultRunOptions leaves both ceilings unbounded.
func DefaultRunOptions() RunOptions {
	return RunOptions{MaxErrors: Unbounded, MaxWarnings: Unbounded}
}

// Breach records one tier that went over its ceiling.
type Breach struct {
	Severity Severity `json:"severity"`
	Count    int      `json:"count"`
	Limit    Limit    `json:"limit"`
}

func (b Breach) String() string {
	if b.Count == 1 {
		return fmt.Sprintf("1 %s exceeds the maximum of %s", b.Severity, b.Limit)
	}
	return fmt.Sprintf("%d %ss exceed the maximum of %s", b.Count, b.Severity, b.Limit)
}

// GateDecision is the threshold verdict for a run.
type GateDecision struct {
	Exceeded bool     `json:"exceeded"`
	Breaches []Breach `json:"breaches,omitempty"`
}

// Gate decides whether a result breaches the configured ceilings.
// It does not consider IgnoreFailures; that is applied by the task.
func Gate(result *AggregatedResult, opts RunOptions) GateDecision {
	var d GateDecision
	if opts.MaxErrors.Exceeded(result.Counts.Errors) {
		d.Breaches = append(d.Breaches, Breach{
			Severity: SeverityError,
			Count:    result.Counts.Errors,
			Limit:    opts.MaxErrors,
		})
	}
	if opts.MaxWarnings.Exceeded(result.Counts.Warnings) {
		d.Breaches = append(d.Breaches, Breach{
			Severity: SeverityWarning,
			Count:    result.Counts.Warnings,
			Limit:    opts.MaxWarnings,
		})
	}
	d.Exceeded = len(d.Breaches) > 0
	return d
}
