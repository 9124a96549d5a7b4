package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/openkraft/inspections/internal/adapters/outbound/tui"
	"github.com/openkraft/inspections/internal/application"
	"github.com/openkraft/inspections/internal/domain"
	"github.com/spf13/cobra"
)

func newRunCmd(g *globalFlags) *cobra.Command {
	var (
		path           string
		configFile     string
		severityConfig string
		maxErrors      string
		maxWarnings    string
		showViolations bool
		ignoreFailures bool
		noCache        bool
		jsonOutput     bool
	)

	cmd := &cobra.Command{
		Use:   "run [path]",
		Short: "Run the inspection task",
		Long:  "Load the severity classification, analyze the project's sources, write the configured reports and fail when the error or warning ceilings are exceeded.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			absPath, err := projectPath(args, path)
			if err != nil {
				return err
			}
			cfgPath, err := absOrEmpty(configFile)
			if err != nil {
				return fmt.Errorf("resolving config: %w", err)
			}
			sevPath, err := absOrEmpty(severityConfig)
			if err != nil {
				return fmt.Errorf("resolving severity config: %w", err)
			}

			log, err := g.logger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			ov := application.Overrides{
				SeverityConfig: sevPath,
				MaxErrors:      maxErrors,
				MaxWarnings:    maxWarnings,
				NoCache:        noCache,
			}
			if cmd.Flags().Changed("show-violations") {
				ov.ShowViolations = &showViolations
			}
			if cmd.Flags().Changed("ignore-failures") {
				ov.IgnoreFailures = &ignoreFailures
			}

			// Live violations go to stderr when stdout carries JSON.
			echo := cmd.OutOrStdout()
			if jsonOutput {
				echo = cmd.ErrOrStderr()
			}
			sink := application.WithViolationSink(func(d domain.Diagnostic) {
				fmt.Fprint(echo, tui.RenderViolation(d))
			})

			svc := newRunService(cfgPath, log)
			outcome, runErr := svc.Run(cmd.Context(), absPath, ov, sink)
			if outcome == nil {
				return runErr
			}

			if jsonOutput {
				if err := renderJSON(cmd.OutOrStdout(), outcome); err != nil {
					return err
				}
			} else {
				out := cmd.OutOrStdout()
				fmt.Fprint(out, tui.RenderSummary(outcome.Task, outcome.Result, outcome.Decision, outcome.Cached))
				fmt.Fprint(out, tui.RenderReports(outcome.Reports))
				fmt.Fprint(out, tui.RenderFailure(outcome.Failure, runErr))
			}

			if runErr != nil {
				return &renderedError{err: runErr}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "path", "", "Project path (defaults to current working directory)")
	cmd.Flags().StringVar(&configFile, "config", "", "Task config file (defaults to <path>/.inspections.yaml)")
	cmd.Flags().StringVar(&severityConfig, "severity-config", "", "Severity classification document (XML or YAML)")
	cmd.Flags().StringVar(&maxErrors, "max-errors", "", "Maximum tolerated errors, or \"unbounded\"")
	cmd.Flags().StringVar(&maxWarnings, "max-warnings", "", "Maximum tolerated warnings, or \"unbounded\"")
	cmd.Flags().BoolVar(&showViolations, "show-violations", false, "Print each violation as it is found")
	cmd.Flags().BoolVar(&ignoreFailures, "ignore-failures", false, "Do not fail when thresholds are exceeded")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "Always invoke the analysis engine")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the run outcome as JSON")

	return cmd
}

func renderJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
