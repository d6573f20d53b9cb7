package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/mbt/internal/logging"
	"github.com/aretw0/mbt/internal/presentation/tui"
	"github.com/aretw0/mbt/pkg/domain"
	"github.com/aretw0/mbt/pkg/observability"
	"github.com/aretw0/mbt/pkg/runner"
)

// CreateLogger configures the application logger from the options.
// Logs go to stderr so stdout only carries the generated sequence.
func CreateLogger(opts RunOptions, stderr io.Writer) (*slog.Logger, error) {
	level, err := logging.ParseLevel(opts.LogLevel)
	if err != nil {
		return nil, err
	}
	if opts.Debug {
		level = slog.LevelDebug
	}
	if opts.Pretty {
		return logging.NewPretty(stderr, level), nil
	}
	return logging.NewWithWriter(stderr, level), nil
}

// debugHooks logs every generation event when debugging.
func debugHooks(opts RunOptions, logger *slog.Logger) domain.Hooks {
	if !opts.Debug {
		return domain.Hooks{}
	}
	return observability.NewLoggingHooks(logger)
}

// Offline generates the whole test sequence and prints it to stdout.
func Offline(ctx context.Context, opts RunOptions, stdout, stderr io.Writer) error {
	logger, err := CreateLogger(opts, stderr)
	if err != nil {
		return err
	}
	format, err := runner.ParseStatisticsFormat(opts.Statistics)
	if err != nil {
		return err
	}

	engine, err := BuildEngine(ctx, opts, logger, debugHooks(opts, logger))
	if err != nil {
		return err
	}
	defer engine.Close()

	store, closeStore, err := OpenStore(opts)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Warn("failed to close store", "err", err)
		}
	}()

	var handler runner.Handler
	if opts.JSON {
		handler = runner.NewJSONHandler(stdout)
	} else {
		textOpts := []runner.TextHandlerOption{runner.WithStates(opts.States)}
		if opts.Pretty {
			render := tui.NewRenderer()
			title := engine.Model().Name
			textOpts = append(textOpts, runner.WithTextHandlerRenderer(func(stats string) (string, error) {
				return render(tui.StatisticsMarkdown(title, stats))
			}))
		}
		handler = runner.NewTextHandler(stdout, textOpts...)
	}

	r := runner.NewRunner(
		runner.WithHandler(handler),
		runner.WithLogger(logger),
		runner.WithStore(store),
		runner.WithStatisticsFormat(format),
		runner.WithMaxSteps(opts.MaxSteps),
	)
	run, err := r.Run(ctx, engine)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return fmt.Errorf("interrupted after %d steps (run %s)", len(run.Steps), run.ID)
		}
		return err
	}
	if store != nil {
		logger.Info("run recorded", "run_id", run.ID, "store", opts.Store)
	}
	return nil
}
