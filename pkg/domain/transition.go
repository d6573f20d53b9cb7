package domain

import "fmt"

// Transition is a directed edge of the model.
type Transition struct {
	// ID uniquely identifies the transition. Labels may repeat, IDs may not.
	ID string `json:"id" yaml:"id"`

	// Label is the name emitted as a test step (usually the action to perform on the SUT).
	Label string `json:"label" yaml:"label"`

	Source *State `json:"-" yaml:"-"`
	Target *State `json:"-" yaml:"-"`

	// Guard is an expression that must evaluate to true for the transition to be accessible.
	// If empty, the transition is always accessible.
	Guard string `json:"guard,omitempty" yaml:"guard,omitempty"`

	// Action is a script executed against the data space when the transition is walked.
	Action string `json:"action,omitempty" yaml:"action,omitempty"`
}

// HasGuard reports whether the transition is gated by a guard expression.
func (t *Transition) HasGuard() bool {
	return t != nil && t.Guard != ""
}

// HasAction reports whether walking the transition executes a script.
func (t *Transition) HasAction() bool {
	return t != nil && t.Action != ""
}

func (t *Transition) String() string {
	if t == nil {
		return "<nil>"
	}
	label := t.Label
	if label == "" {
		label = t.ID
	}
	return fmt.Sprintf("%s (%s -> %s)", label, t.Source, t.Target)
}
