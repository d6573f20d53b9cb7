package main

import (
	"fmt"
	"os"

	"github.com/aretw0/mbt/internal/cli"
	"github.com/spf13/cobra"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect recorded runs (requires --store)",
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded run IDs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := loadOptions(nil)
		if err != nil {
			return err
		}
		return cli.ListRuns(cmd.Context(), opts, os.Stdout)
	},
}

var runsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print the steps of a recorded run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := loadOptions(nil)
		if err != nil {
			return err
		}
		return cli.ShowRun(cmd.Context(), opts, args[0], os.Stdout)
	},
}

var runsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a recorded run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := loadOptions(nil)
		if err != nil {
			return err
		}
		if err := cli.DeleteRun(cmd.Context(), opts, args[0]); err != nil {
			return err
		}
		fmt.Printf("Deleted run %s\n", args[0])
		return nil
	},
}

func init() {
	runsCmd.AddCommand(runsListCmd, runsShowCmd, runsDeleteCmd)
	rootCmd.AddCommand(runsCmd)
}
