package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/openkraft/inspections/internal/adapters/outbound/logger"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
)

type globalFlags struct {
	logLevel  string
	logFormat string
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}

	cmd := &cobra.Command{
		Use:           "inspections",
		Short:         "Run static-analysis inspections as a build gate",
		Long:          "inspections runs an analysis engine over a project's sources, classifies findings by a severity document, writes reports and fails the build when thresholds are exceeded.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&g.logFormat, "log-format", logger.FormatText, "Log format (text, json)")

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newRunCmd(g))
	cmd.AddCommand(newHistoryCmd(g))
	cmd.AddCommand(newClassificationCmd(g))
	cmd.AddCommand(newEngineSchemaCmd())
	cmd.AddCommand(newInitCmd())
	cmd.AddCommand(newMCPCmd(g))
	return cmd
}

func (g *globalFlags) logger(w io.Writer) (*slog.Logger, error) {
	return logger.New(w, g.logLevel, g.logFormat)
}

// NewRootCmdForTest returns the root command for testing.
func NewRootCmdForTest() *cobra.Command {
	return newRootCmd()
}

// Execute runs the CLI. Errors the run command has already rendered are
// returned without being printed again.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := newRootCmd().ExecuteContext(ctx)
	var shown *renderedError
	if err != nil && !errors.As(err, &shown) {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return err
}

// renderedError marks a failure whose details were already written to the
// command output.
type renderedError struct {
	err error
}

func (e *renderedError) Error() string { return e.err.Error() }

func (e *renderedError) Unwrap() error { return e.err }
