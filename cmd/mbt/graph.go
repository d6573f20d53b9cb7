package main

import (
	"os"

	"github.com/aretw0/mbt/internal/cli"
	"github.com/spf13/cobra"
)

var graphCmd = &cobra.Command{
	Use:   "graph [model]",
	Short: "Export the model as a Mermaid diagram",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := loadOptions(args)
		if err != nil {
			return err
		}
		return cli.Graph(cmd.Context(), opts.ModelPath, os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
