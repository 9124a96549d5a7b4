package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/openkraft/inspections/internal/domain"
	"golang.org/x/sync/errgroup"
)

// Request is the JSON document written to the engine's stdin.
type Request struct {
	ProjectRoot    string                    `json:"project_root"`
	SourceFiles    []string                  `json:"source_files"`
	Classpath      []string                  `json:"classpath"`
	Classification domain.ClassificationView `json:"classification"`
	ShowViolations bool                      `json:"show_violations"`
}

// Response is the JSON document the engine must print on stdout.
type Response struct {
	Diagnostics []WireDiagnostic `json:"diagnostics"`
}

// WireDiagnostic is a diagnostic as the engine reports it.
type WireDiagnostic struct {
	InspectionID string `json:"inspection_id" jsonschema:"minLength=1"`
	Severity     string `json:"severity"      jsonschema:"enum=error,enum=warning,enum=info"`
	File         string `json:"file"`
	Line         int    `json:"line,omitempty"   jsonschema:"minimum=0"`
	Column       int    `json:"column,omitempty" jsonschema:"minimum=0"`
	Message      string `json:"message"`
}

// ExecEngine implements domain.AnalysisEngine by running an external
// analyzer command once per batch of source files.
type ExecEngine struct {
	command     []string
	parallelism int
}

// NewExec creates an ExecEngine. A parallelism below 1 runs one batch.
func NewExec(command []string, parallelism int) *ExecEngine {
	if parallelism < 1 {
		parallelism = 1
	}
	return &ExecEngine{
		command:     append([]string(nil), command...),
		parallelism: parallelism,
	}
}

// Analyze splits the source files into contiguous batches, runs them
// concurrently and concatenates the diagnostics in batch order.
func (e *ExecEngine) Analyze(ctx context.Context, req domain.AnalysisRequest) ([]domain.Diagnostic, error) {
	if len(e.command) == 0 {
		return nil, errors.New("no engine command configured (set engine.command in .inspections.yaml)")
	}
	if len(req.SourceFiles) == 0 {
		return nil, nil
	}

	batches := splitBatches(req.SourceFiles, e.parallelism)
	results := make([][]domain.Diagnostic, len(batches))

	g, gctx := errgroup.WithContext(ctx)
	for i, batch := range batches {
		g.Go(func() error {
			diags, err := e.runBatch(gctx, req, batch)
			if err != nil {
				if len(batches) > 1 {
					return fmt.Errorf("batch %d/%d: %w", i+1, len(batches), err)
				}
				return err
			}
			results[i] = diags
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []domain.Diagnostic
	for _, r := range results {
		all = append(all, r...)
	}
	return all, nil
}

func (e *ExecEngine) runBatch(ctx context.Context, req domain.AnalysisRequest, files []string) ([]domain.Diagnostic, error) {
	payload, err := json.Marshal(Request{
		ProjectRoot:    req.ProjectRoot,
		SourceFiles:    files,
		Classpath:      nonNil(req.Classpath),
		Classification: req.Classification.View(),
		ShowViolations: req.ShowViolations,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding engine request: %w", err)
	}

	cmd := exec.CommandContext(ctx, e.command[0], e.command[1:]...)
	cmd.Dir = req.ProjectRoot
	cmd.Stdin = bytes.NewReader(payload)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("running %s: %w: %s", e.command[0], err, msg)
		}
		return nil, fmt.Errorf("running %s: %w", e.command[0], err)
	}

	return DecodeResponse(stdout.Bytes())
}

// DecodeResponse validates raw engine output against the response schema
// and converts it into domain diagnostics.
func DecodeResponse(data []byte) ([]domain.Diagnostic, error) {
	if err := validateResponse(data); err != nil {
		return nil, err
	}
	var resp Response
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decoding engine response: %w", err)
	}

	diags := make([]domain.Diagnostic, 0, len(resp.Diagnostics))
	for i, w := range resp.Diagnostics {
		sev, err := domain.ParseSeverity(w.Severity)
		if err != nil {
			return nil, fmt.Errorf("diagnostic %d (%s): %w", i, w.InspectionID, err)
		}
		diags = append(diags, domain.Diagnostic{
			InspectionID: w.InspectionID,
			Severity:     sev,
			File:         w.File,
			Line:         w.Line,
			Column:       w.Column,
			Message:      w.Message,
		})
	}
	return diags, nil
}

// splitBatches cuts files into at most n contiguous, near-equal batches.
func splitBatches(files []string, n int) [][]string {
	if n > len(files) {
		n = len(files)
	}
	batches := make([][]string, 0, n)
	size, rem := len(files)/n, len(files)%n
	start := 0
	for i := 0; i < n; i++ {
		end := start + size
		if i < rem {
			end++
		}
		batches = append(batches, files[start:end])
		start = end
	}
	return batches
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
