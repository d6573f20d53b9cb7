package main

import (
	"os"

	"github.com/aretw0/mbt/internal/cli"
	"github.com/spf13/cobra"
)

var offlineCmd = &cobra.Command{
	Use:   "offline [model]",
	Short: "Generate a whole test sequence",
	Long: `Walks the model until the stop conditions are met and prints one transition
label per line, followed by the coverage statistics.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := loadOptions(args)
		if err != nil {
			return err
		}
		return cli.Offline(cmd.Context(), opts, os.Stdout, os.Stderr)
	},
}

func init() {
	rootCmd.AddCommand(offlineCmd)
}
