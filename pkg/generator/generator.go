package generator

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/aretw0/mbt/internal/logging"
	"github.com/aretw0/mbt/pkg/condition"
	"github.com/aretw0/mbt/pkg/domain"
	"github.com/aretw0/mbt/pkg/machine"
)

// ErrExhausted is returned by Next once the generator has nothing more to produce.
var ErrExhausted = errors.New("generator exhausted")

// PathGenerator produces a test sequence one step at a time.
type PathGenerator interface {
	HasNext() bool
	Next() (domain.Step, error)
}

// BacktrackAware is implemented by generators that keep state tied to the machine's
// position. Backtracked is called after the machine was backtracked from outside the generator.
type BacktrackAware interface {
	Backtracked()
}

type config struct {
	logger *slog.Logger
	hooks  domain.Hooks
	rng    *rand.Rand
}

// Option configures a generator.
type Option func(*config)

// WithLogger sets a custom logger for the generator.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithHooks registers lifecycle callbacks fired on each step, dead end and recovery backtrack.
func WithHooks(hooks domain.Hooks) Option {
	return func(c *config) {
		c.hooks = hooks
	}
}

// WithSeed makes random choices reproducible.
func WithSeed(seed uint64) Option {
	return func(c *config) {
		c.rng = rand.New(rand.NewPCG(seed, seed))
	}
}

// WithRand sets the source of random choices.
func WithRand(rng *rand.Rand) Option {
	return func(c *config) {
		c.rng = rng
	}
}

func newConfig(opts []Option) config {
	c := config{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(&c)
	}
	if c.rng == nil {
		c.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return c
}

// walker holds what every strategy shares: stepping, dead-end recovery and hooks.
type walker struct {
	m      machine.Machine
	stop   condition.StopCondition
	cfg    config
	index  int
	failed bool
}

func newWalker(m machine.Machine, stop condition.StopCondition, opts []Option) walker {
	return walker{m: m, stop: stop, cfg: newConfig(opts)}
}

// HasNext reports whether another step will be produced.
// It is false once the stop condition is fulfilled or after a fatal error.
func (w *walker) HasNext() bool {
	return !w.failed && !w.stop.Fulfilled()
}

func (w *walker) fail(err error) error {
	w.failed = true
	return err
}

// accessible returns the transitions that can be walked now, backtracking out of
// dead ends when the machine allows it. backtracked reports whether the position changed.
func (w *walker) accessible() ([]*domain.Transition, bool, error) {
	backtracked := false
	for {
		edges, err := w.m.OutgoingTransitions()
		if err != nil && !machine.IsDeadEnd(err) {
			return nil, backtracked, w.fail(err)
		}
		if err == nil && len(edges) > 0 {
			return edges, backtracked, nil
		}
		if err == nil {
			err = fmt.Errorf("%w: cul-de-sac in '%s'", domain.ErrDeadEnd, w.m.StateLabel())
		}

		w.cfg.logger.Debug("dead end", "state", w.m.StateLabel())
		if w.cfg.hooks.OnDeadEnd != nil {
			w.cfg.hooks.OnDeadEnd(&domain.DeadEndEvent{
				EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventDeadEnd},
				State:     w.m.StateLabel(),
			})
		}

		if !w.m.BacktrackEnabled() {
			return nil, backtracked, w.fail(err)
		}
		if berr := w.m.Backtrack(); berr != nil {
			return nil, backtracked, w.fail(fmt.Errorf("%w (%v)", err, berr))
		}
		backtracked = true
		w.cfg.logger.Debug("backtracked out of dead end", "state", w.m.StateLabel())
		if w.cfg.hooks.OnBacktrack != nil {
			w.cfg.hooks.OnBacktrack(&domain.BacktrackEvent{
				EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventBacktrack},
				State:     w.m.StateLabel(),
			})
		}
	}
}

func (w *walker) walk(t *domain.Transition) (domain.Step, error) {
	source := w.m.CurrentState()
	if err := w.m.WalkEdge(t); err != nil {
		return domain.Step{}, w.fail(err)
	}

	step := domain.Step{
		Label:        t.Label,
		TransitionID: t.ID,
		Source:       source.ID,
		Target:       t.Target.ID,
		State:        w.m.StateLabel(),
		Data:         w.m.Data(),
	}
	w.index++
	w.cfg.logger.Debug("step", "index", w.index, "transition", t.ID, "state", step.State)

	if w.cfg.hooks.OnStep != nil {
		cov := w.m.Coverage()
		w.cfg.hooks.OnStep(&domain.StepEvent{
			EventBase:     domain.EventBase{Timestamp: time.Now(), Type: domain.EventStep},
			Index:         w.index,
			Step:          step,
			EdgeCoverage:  cov.EdgeRatio(),
			StateCoverage: cov.StateRatio(),
		})
	}
	return step, nil
}
