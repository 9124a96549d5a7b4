package cli

import (
	"fmt"

	"github.com/openkraft/inspections/internal/adapters/outbound/engine"
	"github.com/spf13/cobra"
)

func newEngineSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "engine-schema",
		Short: "Print the JSON schema analysis engines must answer with",
		Long:  "The analysis engine receives a JSON request on stdin and must print a JSON document matching this schema on stdout.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, err := engine.ResponseSchema()
			if err != nil {
				return fmt.Errorf("generating schema: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(schema))
			return nil
		},
	}
}
