package machine

import (
	"fmt"
	"log/slog"

	"github.com/aretw0/mbt/internal/logging"
	"github.com/aretw0/mbt/pkg/domain"
)

// FSM walks a model, one transition at a time.
type FSM struct {
	model     *domain.Model
	current   *domain.State
	coverage  *Coverage
	history   []*domain.Transition
	backtrack bool
	planning  bool
	outgoing  map[*domain.State][]*domain.Transition
	logger    *slog.Logger
}

// NewFSM creates a machine positioned on the model's initial State.
// The model must have passed Validate.
func NewFSM(model *domain.Model, opts ...Option) *FSM {
	m := &FSM{
		model:    model,
		current:  model.Initial,
		coverage: newCoverage(model),
		outgoing: make(map[*domain.State][]*domain.Transition, len(model.States)),
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}

	for _, t := range model.Transitions {
		m.outgoing[t.Source] = append(m.outgoing[t.Source], t)
	}
	m.coverage.states[model.Initial]++
	return m
}

func (m *FSM) Model() *domain.Model { return m.model }

func (m *FSM) CurrentState() *domain.State { return m.current }

func (m *FSM) Coverage() *Coverage { return m.coverage }

// StateLabel returns the current State ID.
func (m *FSM) StateLabel() string { return m.current.ID }

// Data returns nil: a plain FSM has no data space.
func (m *FSM) Data() map[string]string { return nil }

// Outgoing returns every transition leaving s, guarded or not, in model order.
func (m *FSM) Outgoing(s *domain.State) []*domain.Transition {
	return m.outgoing[s]
}

// OutgoingTransitions returns the transitions leaving the current State.
// An empty result is a dead end, not an error.
func (m *FSM) OutgoingTransitions() ([]*domain.Transition, error) {
	return append([]*domain.Transition(nil), m.outgoing[m.current]...), nil
}

// WalkEdge moves the machine along t.
// It fails with ErrIllegalWalk, leaving the machine untouched, if t does not start at the current State.
func (m *FSM) WalkEdge(t *domain.Transition) error {
	if t == nil || t.Source != m.current {
		return fmt.Errorf("%w: '%s' does not leave '%s'", domain.ErrIllegalWalk, t, m.current)
	}

	m.current = t.Target
	m.coverage.visit(t)
	if m.backtrack {
		m.history = append(m.history, t)
	}
	return nil
}

// Backtrack undoes the most recent recorded walk. Visit counters are kept.
func (m *FSM) Backtrack() error {
	_, err := m.pop()
	return err
}

func (m *FSM) pop() (*domain.Transition, error) {
	if !m.backtrack {
		return nil, fmt.Errorf("%w: backtracking is disabled", domain.ErrBacktrack)
	}
	if len(m.history) == 0 {
		return nil, fmt.Errorf("%w: history is empty", domain.ErrBacktrack)
	}

	last := m.history[len(m.history)-1]
	m.history = m.history[:len(m.history)-1]
	m.current = last.Source
	m.logger.Debug("backtracked", "transition", last.ID, "state", m.current.ID)
	return last, nil
}

// unpop reverts a pop.
func (m *FSM) unpop(t *domain.Transition) {
	m.history = append(m.history, t)
	m.current = t.Target
}

// EnableBacktrack toggles history recording. Disabling keeps the recorded history.
func (m *FSM) EnableBacktrack(enabled bool) {
	m.backtrack = enabled
}

func (m *FSM) BacktrackEnabled() bool { return m.backtrack }

// Depth returns the number of walks that can currently be undone.
func (m *FSM) Depth() int { return len(m.history) }

// SetPlanning marks the machine as being explored by a planner rather than walked for real.
func (m *FSM) SetPlanning(enabled bool) {
	m.planning = enabled
}

func (m *FSM) Planning() bool { return m.planning }
