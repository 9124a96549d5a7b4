package cli

import (
	"fmt"

	"github.com/openkraft/inspections/internal/adapters/outbound/tui"
	"github.com/openkraft/inspections/internal/application"
	"github.com/spf13/cobra"
)

func newClassificationCmd(g *globalFlags) *cobra.Command {
	var (
		path           string
		configFile     string
		severityConfig string
		jsonOutput     bool
	)

	cmd := &cobra.Command{
		Use:   "classification [path]",
		Short: "Show the severity classification the task would use",
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

			c, err := newRunService(cfgPath, log).Classification(absPath, application.Overrides{SeverityConfig: sevPath})
			if err != nil {
				return err
			}

			if jsonOutput {
				return renderJSON(cmd.OutOrStdout(), c.View())
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderClassification(c.View()))
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "path", "", "Project path (defaults to current working directory)")
	cmd.Flags().StringVar(&configFile, "config", "", "Task config file (defaults to <path>/.inspections.yaml)")
	cmd.Flags().StringVar(&severityConfig, "severity-config", "", "Severity classification document (XML or YAML)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the classification as JSON")

	return cmd
}
