package domain

// State is a vertex of the model.
// States are owned by their Model and referenced by pointer; two States are
// the same State only if they are the same pointer.
type State struct {
	// ID is the unique name of the state within its model.
	ID string `json:"id" yaml:"id"`

	// Labels are free-form tags carried from the model file (e.g. requirement IDs).
	Labels []string `json:"labels,omitempty" yaml:"labels,omitempty"`
}

func (s *State) String() string {
	if s == nil {
		return "<nil>"
	}
	return s.ID
}
