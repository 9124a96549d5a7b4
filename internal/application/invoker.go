package application

import (
	"context"
	"fmt"
	"time"

	"github.com/openkraft/inspections/internal/domain"
)

// Invoker is the boundary to the external analysis engine. Any failure it
// returns is a *domain.AnalysisEngineError.
type Invoker struct {
	engine  domain.AnalysisEngine
	timeout time.Duration
}

// NewInvoker wraps engine. A zero timeout leaves the call unbounded.
func NewInvoker(engine domain.AnalysisEngine, timeout time.Duration) *Invoker {
	return &Invoker{engine: engine, timeout: timeout}
}

// Analyze hands the request to the engine and returns its diagnostics
// unmodified.
func (i *Invoker) Analyze(ctx context.Context, req domain.AnalysisRequest) ([]domain.Diagnostic, error) {
	if i.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, i.timeout)
		defer cancel()
	}

	diags, err := i.engine.Analyze(ctx, req)
	if err != nil {
		return nil, &domain.AnalysisEngineError{Err: err}
	}

	for n, d := range diags {
		if !d.Severity.Valid() {
			return nil, &domain.AnalysisEngineError{
				Err: fmt.Errorf("diagnostic %d (%s) has unknown severity %q", n, d.InspectionID, d.Severity),
			}
		}
	}
	return diags, nil
}
