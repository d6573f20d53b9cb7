package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/mbt/internal/logging"
	"github.com/aretw0/mbt/pkg/domain"
	"github.com/aretw0/mbt/pkg/ports"
	"github.com/google/uuid"
)

// Runner drives an engine until its stop conditions are fulfilled.
type Runner struct {
	// Handler presents the steps. If nil, a TextHandler on stdout is used.
	Handler Handler

	// Logger is used for internal debug logging.
	// If nil, a no-op logger is used.
	Logger *slog.Logger

	// Store records the finished (or interrupted) run.
	// If nil, runs are not recorded.
	Store ports.RunStore

	// Format selects the statistics report attached to the run.
	Format StatisticsFormat

	// MaxSteps aborts generation after that many steps when positive.
	MaxSteps int

	now func() time.Time
}

// ErrStepLimit is returned when MaxSteps is reached before the stop conditions.
var ErrStepLimit = errors.New("step limit reached")

// Option configures a Runner.
type Option func(*Runner)

func WithHandler(h Handler) Option {
	return func(r *Runner) { r.Handler = h }
}

func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) { r.Logger = logger }
}

func WithStore(store ports.RunStore) Option {
	return func(r *Runner) { r.Store = store }
}

func WithStatisticsFormat(format StatisticsFormat) Option {
	return func(r *Runner) { r.Format = format }
}

// WithMaxSteps bounds the generation, guarding against stop conditions that
// can never be fulfilled.
func WithMaxSteps(n int) Option {
	return func(r *Runner) { r.MaxSteps = n }
}

// NewRunner creates a Runner printing text to stdout.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		Handler: NewTextHandler(nil),
		Logger:  logging.NewNop(),
		Format:  StatisticsPlain,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run generates the whole sequence. The returned run is populated even when an
// error interrupts generation, and is recorded in the store in both cases.
func (r *Runner) Run(ctx context.Context, engine ports.Engine) (*domain.Run, error) {
	handler := r.Handler
	if handler == nil {
		handler = NewTextHandler(nil)
	}
	logger := r.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	now := r.now
	if now == nil {
		now = time.Now
	}

	run := &domain.Run{
		ID:        uuid.NewString(),
		Generator: engine.GeneratorName(),
		StartedAt: now(),
		Steps:     []domain.Step{},
	}
	if m := engine.Model(); m != nil {
		run.Model = m.Name
	}
	logger = logger.With("run_id", run.ID)
	logger.Info("generation started", "model", run.Model, "generator", run.Generator)

	genErr := r.generate(ctx, engine, handler, run)

	run.FinishedAt = now()
	run.Statistics = Statistics(engine, r.Format)

	if r.Store != nil {
		// The caller's context may be the reason generation stopped.
		if err := r.Store.Save(context.WithoutCancel(ctx), run); err != nil {
			return run, errors.Join(genErr, fmt.Errorf("failed to save run: %w", err))
		}
		logger.Debug("run saved")
	}

	if genErr != nil {
		logger.Error("generation failed", "steps", len(run.Steps), "err", genErr)
		return run, genErr
	}

	logger.Info("generation finished", "steps", len(run.Steps))
	if err := handler.Summary(ctx, run); err != nil {
		return run, fmt.Errorf("output error: %w", err)
	}
	return run, nil
}

func (r *Runner) generate(ctx context.Context, engine ports.Engine, handler Handler, run *domain.Run) error {
	for engine.HasNextStep() {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("generation interrupted: %w", err)
		}
		if r.MaxSteps > 0 && len(run.Steps) >= r.MaxSteps {
			return fmt.Errorf("%w: %d", ErrStepLimit, r.MaxSteps)
		}

		step, err := engine.NextStep()
		if err != nil {
			return err
		}
		run.Steps = append(run.Steps, step)

		if err := handler.Step(ctx, len(run.Steps), step); err != nil {
			return fmt.Errorf("output error: %w", err)
		}
	}
	return nil
}
