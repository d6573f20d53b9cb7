package dsl

type edge struct {
	label  string
	target string
	guard  string
	action string
}

// StateBuilder provides a fluent API for configuring a state and its outgoing transitions.
type StateBuilder struct {
	id      string
	labels  []string
	edges   []*edge
	builder *Builder
}

// Start marks the state as the initial state of the model.
func (s *StateBuilder) Start() *StateBuilder {
	s.builder.initial = s.id
	return s
}

// Tag attaches free-form labels (e.g. requirement IDs) to the state.
func (s *StateBuilder) Tag(labels ...string) *StateBuilder {
	s.labels = append(s.labels, labels...)
	return s
}

// Go adds an unconditional transition to the target state.
func (s *StateBuilder) Go(label, target string) *StateBuilder {
	s.edges = append(s.edges, &edge{label: label, target: target})
	return s
}

// Branch adds a guarded transition to the target state.
func (s *StateBuilder) Branch(label, guard, target string) *StateBuilder {
	s.edges = append(s.edges, &edge{label: label, target: target, guard: guard})
	return s
}

// Then sets the action of the most recently added transition.
func (s *StateBuilder) Then(action string) *StateBuilder {
	if len(s.edges) > 0 {
		s.edges[len(s.edges)-1].action = action
	}
	return s
}

// Add switches to another state of the same builder.
func (s *StateBuilder) Add(id string) *StateBuilder {
	return s.builder.Add(id)
}
