package mbt

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/mbt/internal/logging"
	"github.com/aretw0/mbt/pkg/condition"
	"github.com/aretw0/mbt/pkg/domain"
	"github.com/aretw0/mbt/pkg/generator"
	"github.com/aretw0/mbt/pkg/machine"
	"github.com/aretw0/mbt/pkg/ports"
)

// Engine is the high-level entry point of the library.
// It wires a model, a machine, the stop conditions and a generator together and
// exposes the stepping API used by the offline runner and the online adapters.
//
// An Engine is not safe for concurrent use.
type Engine struct {
	model   *domain.Model
	env     ports.Environment
	machine machine.Machine
	efsm    *machine.EFSM

	stop    condition.StopCondition
	gen     generator.PathGenerator
	genKind generator.Kind

	backtrack bool
	seed      *uint64
	hooks     domain.Hooks
	logger    *slog.Logger
	Name      string
}

var _ ports.Engine = (*Engine)(nil)

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithExtended evaluates guards and actions against env.
// Without it, guards and actions are ignored and the model is walked as a plain FSM.
func WithExtended(env ports.Environment) Option {
	return func(e *Engine) {
		e.env = env
	}
}

// WithBacktrack lets generators back out of dead ends and enables Engine.Backtrack.
func WithBacktrack(enabled bool) Option {
	return func(e *Engine) {
		e.backtrack = enabled
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithHooks registers observability hooks.
func WithHooks(hooks domain.Hooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithSeed makes the random generator reproducible.
func WithSeed(seed uint64) Option {
	return func(e *Engine) {
		e.seed = &seed
	}
}

// New validates the model and builds the machine walking it.
// With an extended environment the model's init script runs here.
func New(model *domain.Model, opts ...Option) (*Engine, error) {
	if err := model.Validate(); err != nil {
		return nil, err
	}

	eng := &Engine{model: model, Name: model.Name}
	for _, opt := range opts {
		opt(eng)
	}

	// Ensure logger is initialized so the machine never receives nil
	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}
	if eng.Name != "" {
		eng.logger = eng.logger.With("model", eng.Name)
	}

	machineOpts := []machine.Option{
		machine.WithLogger(eng.logger),
		machine.WithBacktrack(eng.backtrack),
	}
	if eng.env != nil {
		efsm, err := machine.NewEFSM(model, eng.env, machineOpts...)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize data space: %w", err)
		}
		eng.efsm = efsm
		eng.machine = efsm
	} else {
		eng.machine = machine.NewFSM(model, machineOpts...)
	}
	return eng, nil
}

// AddCondition adds a stop condition. Several conditions stop the generation as
// soon as any of them is fulfilled. Conditions must be added before SetGenerator.
func (e *Engine) AddCondition(kind condition.Kind, value string) error {
	c, err := condition.New(kind, e.machine, value)
	if err != nil {
		return err
	}
	return e.AddStopCondition(c)
}

// AddStopCondition adds an already built stop condition.
func (e *Engine) AddStopCondition(c condition.StopCondition) error {
	if e.gen != nil {
		return fmt.Errorf("%w: the generator is already configured", domain.ErrUnsupportedCondition)
	}
	e.stop = condition.Fold(e.stop, c)
	e.logger.Debug("stop condition added", "condition", fmt.Sprintf("%T", c))
	return nil
}

// SetGenerator selects the generation strategy. It fails if no stop condition was added.
func (e *Engine) SetGenerator(kind generator.Kind) error {
	opts := []generator.Option{
		generator.WithLogger(e.logger),
		generator.WithHooks(e.hooks),
	}
	if e.seed != nil {
		opts = append(opts, generator.WithSeed(*e.seed))
	}
	gen, err := generator.New(kind, e.machine, e.stop, opts...)
	if err != nil {
		return err
	}
	e.gen = gen
	e.genKind = kind
	e.logger.Info("generator configured", "generator", kind.String())
	return nil
}

// HasNextStep reports whether the generator will produce another step.
func (e *Engine) HasNextStep() bool {
	return e.gen != nil && e.gen.HasNext()
}

// NextStep walks one transition and returns it as a test step.
func (e *Engine) NextStep() (domain.Step, error) {
	if e.gen == nil {
		return domain.Step{}, fmt.Errorf("%w: no generator configured", domain.ErrUnsupportedGenerator)
	}
	return e.gen.Next()
}

// Backtrack undoes the most recent step (and its data changes in extended mode).
// The harness calls it when the system under test could not perform the step.
func (e *Engine) Backtrack() error {
	if err := e.machine.Backtrack(); err != nil {
		return err
	}
	if aware, ok := e.gen.(generator.BacktrackAware); ok {
		aware.Backtracked()
	}
	e.logger.Debug("backtracked", "state", e.machine.StateLabel())
	if e.hooks.OnBacktrack != nil {
		e.hooks.OnBacktrack(&domain.BacktrackEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventBacktrack},
			State:     e.machine.StateLabel(),
		})
	}
	return nil
}

func (e *Engine) Statistics() string        { return e.machine.Statistics() }
func (e *Engine) StatisticsCompact() string { return e.machine.StatisticsCompact() }
func (e *Engine) StatisticsVerbose() string { return e.machine.StatisticsVerbose() }

// Fulfillment returns the progress of the stop conditions, in [0, 1].
func (e *Engine) Fulfillment() float64 {
	if e.stop == nil {
		return 0
	}
	return e.stop.Fulfillment()
}

// DataValue returns the value of a data space variable.
// It fails with ErrInvalidData if the engine is not extended or the variable is unbound.
func (e *Engine) DataValue(name string) (string, error) {
	if e.efsm == nil {
		return "", fmt.Errorf("%w: the model has no data space", domain.ErrInvalidData)
	}
	return e.efsm.Lookup(name)
}

// ExecAction evaluates a script in the data space and returns its value, if any.
func (e *Engine) ExecAction(script string) (string, error) {
	if e.efsm == nil {
		return "", fmt.Errorf("%w: the model has no data space", domain.ErrInvalidData)
	}
	return e.efsm.Evaluate(script)
}

// CurrentState returns the extended label of the current State.
func (e *Engine) CurrentState() string { return e.machine.StateLabel() }

// Extended reports whether guards and actions are evaluated.
func (e *Engine) Extended() bool { return e.efsm != nil }

// GeneratorName returns the configured strategy, or "" before SetGenerator.
func (e *Engine) GeneratorName() string {
	if e.gen == nil {
		return ""
	}
	return e.genKind.String()
}

func (e *Engine) Machine() machine.Machine { return e.machine }

func (e *Engine) Model() *domain.Model { return e.model }

// Close releases the environment if it holds resources.
func (e *Engine) Close() {
	if c, ok := e.env.(interface{ Close() }); ok {
		c.Close()
	}
}
