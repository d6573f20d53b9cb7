package main

import (
	"os"

	"github.com/aretw0/mbt"
	"github.com/aretw0/mbt/internal/cli"
	"github.com/spf13/cobra"
)

var onlineCmd = &cobra.Command{
	Use:   "online [model]",
	Short: "Serve the engine over HTTP, one step per request",
	Long: `Starts an HTTP server driving a single engine. Clients ask for the next step,
backtrack, inspect the data space and read statistics; steps are also streamed
over Server-Sent Events on /events.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := loadOptions(args)
		if err != nil {
			return err
		}
		addr, _ := cmd.Flags().GetString("addr")
		return cli.Online(cmd.Context(), opts, addr, mbt.Version, os.Stdout, os.Stderr)
	},
}

func init() {
	rootCmd.AddCommand(onlineCmd)
	onlineCmd.Flags().StringP("addr", "a", ":8887", "address to listen on")
}
