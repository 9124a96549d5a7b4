package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/openkraft/inspections/internal/adapters/outbound/config"
	"github.com/openkraft/inspections/internal/domain"
	"github.com/spf13/cobra"
)

func newInitCmd() *cobra.Command {
	var (
		task  string
		force bool
	)

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Generate .inspections.yaml and a starter severity document",
		Long:  "Create a .inspections.yaml with sensible defaults and an empty severity classification at config/inspections.xml.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			absPath, err := projectPath(args, "")
			if err != nil {
				return err
			}

			files := []struct {
				rel     string
				content string
			}{
				{config.FileName, generateConfig(task)},
				{domain.DefaultSeverityConfig, severityTemplate},
			}

			if !force {
				for _, f := range files {
					if _, err := os.Stat(filepath.Join(absPath, f.rel)); err == nil {
						return fmt.Errorf("%s already exists (use --force to overwrite)", f.rel)
					}
				}
			}

			for _, f := range files {
				dest := filepath.Join(absPath, f.rel)
				if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
					return fmt.Errorf("creating %s: %w", filepath.Dir(f.rel), err)
				}
				if err := os.WriteFile(dest, []byte(f.content), 0644); err != nil {
					return fmt.Errorf("writing %s: %w", f.rel, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", f.rel)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&task, "task", domain.DefaultTaskName, "Task name")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing files")

	return cmd
}

func generateConfig(task string) string {
	return fmt.Sprintf(`# inspections task configuration
task: %s
severity_config: %s
source_dirs: [src]
include_extensions: [.java, .kt]

# Ceilings; "unbounded" disables a limit. The build fails when a count
# is strictly greater than its ceiling.
max_errors: 0
max_warnings: unbounded

show_violations: false
ignore_failures: false

engine:
  # Receives a JSON request on stdin and prints diagnostics as JSON.
  # See: inspections engine-schema
  command: []
  parallelism: 1

reports:
  xml: {}
  html: {}
`, task, domain.DefaultSeverityConfig)
}

const severityTemplate = `<?xml version="1.0" encoding="UTF-8"?>
<inspections>
  <errors>
  </errors>
  <warnings>
  </warnings>
  <infos>
  </infos>
</inspections>
`
