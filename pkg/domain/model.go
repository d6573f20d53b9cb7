package domain

import (
	"fmt"
	"strings"
)

// Model is the directed multigraph a test sequence is generated from.
// It is immutable for the duration of a generation run; coverage counters
// are kept by the machine walking it.
type Model struct {
	Name        string        `json:"name,omitempty" yaml:"name,omitempty"`
	States      []*State      `json:"states" yaml:"states"`
	Transitions []*Transition `json:"transitions" yaml:"transitions"`

	// Initial is the State every walk starts from.
	Initial *State `json:"-" yaml:"-"`

	// Init is an optional script evaluated once against the data space
	// before the first step (e.g. "x = 0").
	Init string `json:"init,omitempty" yaml:"init,omitempty"`
}

// State returns the state with the given ID, or nil.
func (m *Model) State(id string) *State {
	for _, s := range m.States {
		if s.ID == id {
			return s
		}
	}
	return nil
}

// Transition returns the transition with the given ID, or nil.
func (m *Model) Transition(id string) *Transition {
	for _, t := range m.Transitions {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// TransitionsLabeled returns every transition carrying the label, in model order.
func (m *Model) TransitionsLabeled(label string) []*Transition {
	var found []*Transition
	for _, t := range m.Transitions {
		if t.Label == label {
			found = append(found, t)
		}
	}
	return found
}

// Validate checks the structural integrity of the model: a designated initial
// state, unique identifiers and no transition pointing outside the model.
// It does not check reachability (see internal/validator).
func (m *Model) Validate() error {
	if m == nil {
		return fmt.Errorf("%w: nil model", ErrModelInvalid)
	}

	var problems []string
	owned := make(map[*State]bool, len(m.States))
	ids := make(map[string]bool, len(m.States))
	for _, s := range m.States {
		if s == nil || s.ID == "" {
			problems = append(problems, "state without ID")
			continue
		}
		if ids[s.ID] {
			problems = append(problems, fmt.Sprintf("duplicate state '%s'", s.ID))
		}
		ids[s.ID] = true
		owned[s] = true
	}

	if m.Initial == nil {
		problems = append(problems, "no initial state")
	} else if !owned[m.Initial] {
		problems = append(problems, fmt.Sprintf("initial state '%s' is not part of the model", m.Initial.ID))
	}

	edgeIDs := make(map[string]bool, len(m.Transitions))
	for _, t := range m.Transitions {
		if t == nil || t.ID == "" {
			problems = append(problems, "transition without ID")
			continue
		}
		if edgeIDs[t.ID] {
			problems = append(problems, fmt.Sprintf("duplicate transition '%s'", t.ID))
		}
		edgeIDs[t.ID] = true
		if !owned[t.Source] {
			problems = append(problems, fmt.Sprintf("transition '%s' has an unknown source", t.ID))
		}
		if !owned[t.Target] {
			problems = append(problems, fmt.Sprintf("transition '%s' has an unknown target", t.ID))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrModelInvalid, strings.Join(problems, "; "))
	}
	return nil
}
