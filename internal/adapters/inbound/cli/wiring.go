package cli

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/openkraft/inspections/internal/adapters/outbound/cache"
	"github.com/openkraft/inspections/internal/adapters/outbound/config"
	"github.com/openkraft/inspections/internal/adapters/outbound/engine"
	"github.com/openkraft/inspections/internal/adapters/outbound/gitinfo"
	"github.com/openkraft/inspections/internal/adapters/outbound/history"
	"github.com/openkraft/inspections/internal/adapters/outbound/report"
	"github.com/openkraft/inspections/internal/adapters/outbound/scanner"
	"github.com/openkraft/inspections/internal/adapters/outbound/severity"
	"github.com/openkraft/inspections/internal/application"
	"github.com/openkraft/inspections/internal/domain"
)

// newRunService wires the outbound adapters. An empty configFile selects
// the project's .inspections.yaml.
func newRunService(configFile string, log *slog.Logger) *application.RunService {
	var loader domain.ConfigLoader = config.New()
	if configFile != "" {
		loader = config.NewFile(configFile)
	}
	return application.NewRunService(
		loader,
		scanner.New(),
		severity.New(),
		func(cfg domain.EngineConfig) domain.AnalysisEngine {
			return engine.NewExec(cfg.Command, cfg.Parallelism)
		},
		report.Renderers(),
		application.WithServiceLogger(log),
		application.WithCache(cache.New()),
		application.WithHistory(history.New(), gitinfo.New()),
	)
}

// projectPath picks the positional path argument, then --path, then ".".
func projectPath(args []string, flag string) (string, error) {
	path := "."
	switch {
	case len(args) > 0:
		path = args[0]
	case flag != "":
		path = flag
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}
	return abs, nil
}

// absOrEmpty makes a user-supplied file path absolute relative to the
// working directory.
func absOrEmpty(p string) (string, error) {
	if p == "" {
		return "", nil
	}
	return filepath.Abs(p)
}
