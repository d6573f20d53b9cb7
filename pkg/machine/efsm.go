package machine

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/aretw0/mbt/pkg/domain"
	"github.com/aretw0/mbt/pkg/ports"
)

// EFSM is an FSM whose transitions are gated by guards and carry actions,
// both evaluated against a data space held by a ports.Environment.
type EFSM struct {
	*FSM
	env       ports.Environment
	snapshots []ports.Snapshot

	// saved is the output sink replaced while planning.
	saved io.Writer
}

// NewEFSM creates an extended machine on the model's initial State and runs the
// model's init script against env.
func NewEFSM(model *domain.Model, env ports.Environment, opts ...Option) (*EFSM, error) {
	m := &EFSM{
		FSM: NewFSM(model, opts...),
		env: env,
	}
	if model.Init != "" {
		if err := m.run(model.Init, ""); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Environment returns the data space of the machine.
func (m *EFSM) Environment() ports.Environment { return m.env }

// OutgoingTransitions returns the transitions leaving the current State whose guard holds.
// If every candidate is filtered out it returns ErrNoAccessibleEdge.
func (m *EFSM) OutgoingTransitions() ([]*domain.Transition, error) {
	candidates, err := m.FSM.OutgoingTransitions()
	if err != nil {
		return nil, err
	}

	label := m.StateLabel()
	accessible := make([]*domain.Transition, 0, len(candidates))
	for _, t := range candidates {
		ok, err := m.accessible(t)
		if err != nil {
			return nil, err
		}
		if !ok {
			m.logger.Debug("not accessible", "transition", t.ID, "state", label)
			continue
		}
		m.logger.Debug("accessible", "transition", t.ID, "state", label)
		accessible = append(accessible, t)
	}

	if len(accessible) == 0 {
		return nil, fmt.Errorf("%w: cul-de-sac in '%s'", domain.ErrNoAccessibleEdge, label)
	}
	return accessible, nil
}

func (m *EFSM) accessible(t *domain.Transition) (bool, error) {
	if !t.HasGuard() {
		return true, nil
	}
	prev := m.env.SetOutput(io.Discard)
	ok, err := m.env.Test(t.Guard)
	m.env.SetOutput(prev)
	if err != nil {
		return false, &domain.ScriptError{Kind: domain.ErrMalformedGuard, Transition: t.ID, Script: t.Guard, Cause: err}
	}
	return ok, nil
}

// WalkEdge walks t and then runs its action.
// The data space is snapshotted before the action so Backtrack can restore it.
func (m *EFSM) WalkEdge(t *domain.Transition) error {
	depth := m.Depth()
	if err := m.FSM.WalkEdge(t); err != nil {
		return err
	}
	if m.Depth() > depth {
		m.snapshots = append(m.snapshots, m.env.Snapshot())
	}
	if !t.HasAction() {
		return nil
	}
	return m.run(t.Action, t.ID)
}

func (m *EFSM) run(script, transition string) error {
	prev := m.env.SetOutput(io.Discard)
	defer m.env.SetOutput(prev)
	if err := m.env.Exec(script); err != nil {
		return &domain.ScriptError{Kind: domain.ErrMalformedAction, Transition: transition, Script: script, Cause: err}
	}
	return nil
}

// Backtrack undoes the most recent recorded walk and restores the data space it started from.
// A failed restore leaves both the position and the data space unchanged.
func (m *EFSM) Backtrack() error {
	last, err := m.pop()
	if err != nil {
		return err
	}
	snap := m.snapshots[len(m.snapshots)-1]
	if err := m.env.Restore(snap); err != nil {
		m.unpop(last)
		return fmt.Errorf("failed to restore data space: %w", err)
	}
	m.snapshots = m.snapshots[:len(m.snapshots)-1]
	return nil
}

// StateLabel returns the State ID followed by the data space, e.g. "B/x=1;y=2;".
func (m *EFSM) StateLabel() string {
	data := m.env.Bindings()
	if len(data) == 0 {
		return m.current.ID
	}
	names := make([]string, 0, len(data))
	for name := range data {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString(m.current.ID)
	b.WriteByte('/')
	for _, name := range names {
		b.WriteString(name + "=" + data[name] + ";")
	}
	return b.String()
}

// Data returns a copy of the current bindings.
func (m *EFSM) Data() map[string]string {
	return m.env.Bindings()
}

// Lookup returns the value of a single variable, or ErrInvalidData if it is unbound.
func (m *EFSM) Lookup(name string) (string, error) {
	v, ok := m.env.Lookup(name)
	if !ok {
		return "", fmt.Errorf("%w: '%s' is not bound", domain.ErrInvalidData, name)
	}
	return v, nil
}

// Evaluate runs expr against the live data space and returns its value.
func (m *EFSM) Evaluate(expr string) (string, error) {
	v, err := m.env.Eval(expr)
	if err != nil {
		return "", &domain.ScriptError{Kind: domain.ErrInvalidData, Script: expr, Cause: err}
	}
	return v, nil
}

// SetPlanning silences the environment output while enabled.
// Repeated calls with the same value have no further effect.
func (m *EFSM) SetPlanning(enabled bool) {
	if enabled == m.planning {
		return
	}
	m.FSM.SetPlanning(enabled)
	if enabled {
		m.saved = m.env.SetOutput(io.Discard)
		return
	}
	m.env.SetOutput(m.saved)
	m.saved = nil
}
