package cli

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// RunOptions contains all the configuration for building and running an engine.
// Keys match the CLI flags and the mbt.yaml config file.
type RunOptions struct {
	ModelPath  string   `mapstructure:"model"`
	Generator  string   `mapstructure:"generator"`
	Stop       []string `mapstructure:"stop"`
	Extended   bool     `mapstructure:"extended"`
	Backtrack  bool     `mapstructure:"backtrack"`
	Seed       int64    `mapstructure:"seed"` // negative means random
	MaxSteps   int      `mapstructure:"max-steps"`
	JSON       bool     `mapstructure:"json"`
	States     bool     `mapstructure:"states"`
	Statistics string   `mapstructure:"statistics"`
	Store      string   `mapstructure:"store"`
	RedisURL   string   `mapstructure:"redis-url"`
	SQLitePath string   `mapstructure:"sqlite-path"`
	LogLevel   string   `mapstructure:"log-level"`
	Debug      bool     `mapstructure:"debug"`
	Pretty     bool     `mapstructure:"-"`
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() RunOptions {
	return RunOptions{
		Generator:  "random",
		Seed:       -1,
		Statistics: "plain",
		SQLitePath: "mbt.db",
		RedisURL:   "localhost:6379",
		LogLevel:   "warn",
	}
}

// DecodeOptions overlays settings (e.g. viper.AllSettings()) on the defaults.
// Values may be strings, as read from environment variables.
func DecodeOptions(settings map[string]any) (RunOptions, error) {
	opts := DefaultOptions()
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &opts,
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.StringToSliceHookFunc(","),
	})
	if err != nil {
		return opts, err
	}
	if err := decoder.Decode(settings); err != nil {
		return opts, fmt.Errorf("invalid configuration: %w", err)
	}
	return opts, nil
}
