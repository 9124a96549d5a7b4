package cli

import (
	mcpadapter "github.com/openkraft/inspections/internal/adapters/inbound/mcp"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
)

func newMCPCmd(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "MCP server commands",
		Long:  "Commands for running the inspections MCP (Model Context Protocol) server.",
	}
	cmd.AddCommand(newMCPServeCmd(g))
	return cmd
}

func newMCPServeCmd(g *globalFlags) *cobra.Command {
	var projectPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start inspections MCP server (stdio)",
		Long:  "Start the inspections MCP server using stdio transport. This lets coding assistants run the inspection task and read its classification and history.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if projectPath == "" {
				projectPath = "."
			}
			// stdout carries the protocol, so logs always go to stderr.
			log, err := g.logger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			s := mcpadapter.NewInspectionsMCPServer(projectPath, newRunService("", log))
			return server.ServeStdio(s)
		},
	}

	cmd.Flags().StringVar(&projectPath, "path", "", "Project path (defaults to current working directory)")

	return cmd
}
