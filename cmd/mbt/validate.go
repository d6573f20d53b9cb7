package main

import (
	"fmt"
	"os"

	"github.com/aretw0/mbt/internal/cli"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [model]",
	Short: "Check the model for consistency",
	Long:  `Reports transitions to undeclared states and states unreachable from the initial state.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := loadOptions(args)
		if err != nil {
			return err
		}
		if err := cli.Validate(opts.ModelPath, os.Stdout); err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
