package main

import (
	"os"

	"github.com/aretw0/mbt"
	"github.com/aretw0/mbt/internal/cli"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp [model]",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Exposes the engine as MCP tools so agents can drive the generation.

Supported Transports:
- stdio (default): Uses Standard Input/Output.
- sse: Uses Server-Sent Events over HTTP.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := loadOptions(args)
		if err != nil {
			return err
		}
		// stdout carries JSON-RPC
		opts.Pretty = false
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")
		return cli.ServeMCP(cmd.Context(), opts, transport, port, mbt.Version, os.Stderr)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().Int("port", 8080, "Port to listen on (only for SSE)")
}
