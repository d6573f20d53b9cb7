package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/aretw0/mbt"
	"github.com/aretw0/mbt/pkg/adapters/file"
	"github.com/aretw0/mbt/pkg/adapters/lua"
	"github.com/aretw0/mbt/pkg/condition"
	"github.com/aretw0/mbt/pkg/domain"
	"github.com/aretw0/mbt/pkg/generator"
)

// DefaultStop is used when no stop condition is configured.
const DefaultStop = "edge_coverage=100"

// ParseStop parses a "kind=value" stop condition.
func ParseStop(s string) (condition.Kind, string, error) {
	name, value, ok := strings.Cut(s, "=")
	if !ok || strings.TrimSpace(value) == "" {
		return 0, "", fmt.Errorf("%w: expected kind=value, got '%s'", domain.ErrUnsupportedCondition, s)
	}
	kind, err := condition.ParseKind(name)
	if err != nil {
		return 0, "", err
	}
	return kind, strings.TrimSpace(value), nil
}

// BuildEngine loads the model and configures an engine with standard CLI conventions.
// Unsupported configuration fails here, before any step is generated.
func BuildEngine(ctx context.Context, opts RunOptions, logger *slog.Logger, hooks domain.Hooks) (*mbt.Engine, error) {
	if opts.ModelPath == "" {
		return nil, fmt.Errorf("no model given (use --model)")
	}
	genKind, err := generator.ParseKind(opts.Generator)
	if err != nil {
		return nil, err
	}

	model, err := file.New(opts.ModelPath).Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("error loading model: %w", err)
	}

	engineOpts := []mbt.Option{
		mbt.WithLogger(logger),
		mbt.WithBacktrack(opts.Backtrack),
		mbt.WithHooks(hooks),
	}
	if opts.Seed >= 0 {
		engineOpts = append(engineOpts, mbt.WithSeed(uint64(opts.Seed)))
	}
	if opts.Extended {
		// stdout carries the sequence (or JSON-RPC for mcp)
		env, err := lua.New(lua.WithOutput(os.Stderr))
		if err != nil {
			return nil, fmt.Errorf("error initializing data space: %w", err)
		}
		engineOpts = append(engineOpts, mbt.WithExtended(env))
	}

	engine, err := mbt.New(model, engineOpts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing engine: %w", err)
	}

	stops := opts.Stop
	if len(stops) == 0 {
		logger.Info("no stop condition given, using default", "stop", DefaultStop)
		stops = []string{DefaultStop}
	}
	for _, s := range stops {
		kind, value, err := ParseStop(s)
		if err == nil {
			err = engine.AddCondition(kind, value)
		}
		if err != nil {
			engine.Close()
			return nil, err
		}
	}

	if err := engine.SetGenerator(genKind); err != nil {
		engine.Close()
		return nil, err
	}
	return engine, nil
}
