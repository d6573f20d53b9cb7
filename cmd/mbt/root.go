package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/aretw0/mbt/internal/cli"
	"github.com/aretw0/mbt/internal/presentation/tui"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "mbt",
	Short: "mbt generates test sequences from state machine models",
	Long: `mbt walks a model of the system under test (states, transitions, optional
guards and actions) and emits a test sequence until the stop conditions are met.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
}

// Execute adds all child commands to the root command and runs it under ctx.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default ./mbt.yaml)")
	flags.StringP("model", "m", "", "model file (YAML or JSON)")
	flags.StringP("generator", "g", "random", "path generator: random or shortest_path")
	flags.StringSliceP("stop", "s", nil, "stop condition kind=value, repeatable (default edge_coverage=100)")
	flags.BoolP("extended", "e", false, "evaluate guards and actions in a Lua data space")
	flags.BoolP("backtrack", "b", false, "backtrack out of dead ends instead of failing")
	flags.Int64("seed", -1, "seed for the random generator (negative picks one)")
	flags.Int("max-steps", 0, "abort after this many steps (0 means no limit)")
	flags.Bool("json", false, "emit NDJSON events instead of text")
	flags.Bool("states", false, "print the reached state after each step")
	flags.String("statistics", "plain", "statistics format: plain, compact or verbose")
	flags.String("store", "", "record runs in: memory, redis or sqlite")
	flags.String("redis-url", "localhost:6379", "redis address or redis:// URL")
	flags.String("sqlite-path", "mbt.db", "sqlite database file")
	flags.String("log-level", "warn", "log level: debug, info, warn or error")
	flags.Bool("debug", false, "log every generation event")

	flags.VisitAll(func(f *pflag.Flag) {
		if f.Name == "config" {
			return
		}
		if err := viper.BindPFlag(f.Name, f); err != nil {
			fmt.Fprintf(os.Stderr, "Error binding %s flag: %v\n", f.Name, err)
		}
	})
}

func initConfig() error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName("mbt")
		viper.SetConfigType("yaml")
	}
	viper.SetEnvPrefix("MBT")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}
	return nil
}

// loadOptions merges flags, MBT_* variables and the config file.
// A positional argument overrides the model path.
func loadOptions(args []string) (cli.RunOptions, error) {
	opts, err := cli.DecodeOptions(viper.AllSettings())
	if err != nil {
		return opts, err
	}
	if len(args) > 0 {
		opts.ModelPath = args[0]
	}
	opts.Pretty = !opts.JSON && tui.IsTerminal(os.Stdout)
	return opts, nil
}
