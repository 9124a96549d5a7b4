package application_test

import (
	"context"
	"errors"
	"sync"

	"github.com/openkraft/inspections/internal/domain"
)

// fakeEngine returns scripted diagnostics and counts invocations.
type fakeEngine struct {
	mu    sync.Mutex
	diags []domain.Diagnostic
	err   error
	calls int
	last  domain.AnalysisRequest
}

func (e *fakeEngine) Analyze(ctx context.Context, req domain.AnalysisRequest) ([]domain.Diagnostic, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls++
	e.last = req
	if e.err != nil {
		return nil, e.err
	}
	return e.diags, nil
}

func (e *fakeEngine) Calls() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.calls
}

// blockingEngine waits for the context to end.
type blockingEngine struct{}

func (blockingEngine) Analyze(ctx context.Context, _ domain.AnalysisRequest) ([]domain.Diagnostic, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

// fakeLoader returns a fixed classification or error.
type fakeLoader struct {
	classification domain.SeverityClassification
	err            error
}

func (l fakeLoader) Load(domain.SeveritySource) (domain.SeverityClassification, error) {
	return l.classification, l.err
}

// memCache is an in-memory domain.CacheStore.
type memCache struct {
	mu      sync.Mutex
	entries map[string]*domain.RunCache
	saveErr error
}

func newMemCache() *memCache {
	return &memCache{entries: make(map[string]*domain.RunCache)}
}

func (c *memCache) Load(projectPath, task string) (*domain.RunCache, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries[projectPath+"|"+task], nil
}

func (c *memCache) Save(projectPath string, rc *domain.RunCache) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.saveErr != nil {
		return c.saveErr
	}
	c.entries[projectPath+"|"+rc.Task] = rc
	return nil
}

func (c *memCache) Invalidate(projectPath, task string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, projectPath+"|"+task)
	return nil
}

// failingRenderer always fails.
type failingRenderer struct{}

func (failingRenderer) Render(*domain.AggregatedResult) ([]byte, error) {
	return nil, errors.New("render failed")
}

func errorDiag(id, file string, line int) domain.Diagnostic {
	return domain.Diagnostic{InspectionID: id, Severity: domain.SeverityError, File: file, Line: line, Message: "problem in " + file}
}

func warningDiag(id, file string, line int) domain.Diagnostic {
	return domain.Diagnostic{InspectionID: id, Severity: domain.SeverityWarning, File: file, Line: line, Message: "suspicious code in " + file}
}
