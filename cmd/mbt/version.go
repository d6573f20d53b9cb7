package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/mbt"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of mbt",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("mbt version %s\n", strings.TrimSpace(mbt.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
