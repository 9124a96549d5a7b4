package application

import (
	"errors"
	"fmt"

	"github.com/openkraft/inspections/internal/domain"
	"github.com/openkraft/inspections/internal/fsutil"
)

// Emitter writes every enabled report for a result.
type Emitter struct {
	renderers map[domain.ReportKind]domain.ReportRenderer
}

// NewEmitter creates an Emitter backed by one renderer per report kind.
func NewEmitter(renderers map[domain.ReportKind]domain.ReportRenderer) *Emitter {
	return &Emitter{renderers: renderers}
}

// Emit renders and writes each enabled destination, relative paths being
// resolved under root. A failing destination does not stop the others; all
// failures are returned joined, each as a *domain.ReportWriteError.
func (e *Emitter) Emit(result *domain.AggregatedResult, dests domain.ReportDestinations, root string) ([]string, error) {
	var (
		written []string
		errs    []error
	)
	for _, kind := range dests.Enabled() {
		path := dests.Resolve(root, kind)
		if err := e.emitOne(result, kind, path); err != nil {
			errs = append(errs, &domain.ReportWriteError{Kind: kind, Path: path, Err: err})
			continue
		}
		written = append(written, path)
	}
	return written, errors.Join(errs...)
}

func (e *Emitter) emitOne(result *domain.AggregatedResult, kind domain.ReportKind, path string) error {
	if path == "" {
		return errors.New("no output path configured")
	}
	r, ok := e.renderers[kind]
	if !ok {
		return fmt.Errorf("no renderer registered for %s", kind)
	}
	data, err := r.Render(result)
	if err != nil {
		return err
	}
	return fsutil.WriteFileAtomic(path, data, 0644)
}
