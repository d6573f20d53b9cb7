package machine

import (
	"errors"
	"log/slog"

	"github.com/aretw0/mbt/pkg/domain"
)

// Machine is the surface shared by FSM and EFSM.
// Stop conditions and path generators are written against it.
type Machine interface {
	Model() *domain.Model
	CurrentState() *domain.State

	// OutgoingTransitions returns the transitions that may be walked from the current State.
	OutgoingTransitions() ([]*domain.Transition, error)
	WalkEdge(t *domain.Transition) error
	Backtrack() error
	BacktrackEnabled() bool

	Coverage() *Coverage

	// StateLabel is the current State ID, extended with the data space if any.
	StateLabel() string
	Data() map[string]string

	SetPlanning(enabled bool)
	Planning() bool

	Statistics() string
	StatisticsCompact() string
	StatisticsVerbose() string
}

var (
	_ Machine = (*FSM)(nil)
	_ Machine = (*EFSM)(nil)
)

// Option configures a machine.
type Option func(*FSM)

// WithLogger sets a custom logger for the machine.
func WithLogger(logger *slog.Logger) Option {
	return func(m *FSM) {
		m.logger = logger
	}
}

// WithBacktrack enables history recording from the first walk.
func WithBacktrack(enabled bool) Option {
	return func(m *FSM) {
		m.backtrack = enabled
	}
}

// IsDeadEnd reports whether err signals that no transition can be walked.
func IsDeadEnd(err error) bool {
	return errors.Is(err, domain.ErrDeadEnd)
}
