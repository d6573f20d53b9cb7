package dto

// ModelFile is the on-disk representation of a model (YAML or JSON).
// It uses "mapstructure" tags so both formats decode through the same path,
// and accepts from/to as well as source/target for transition endpoints.
type ModelFile struct {
	Name        string             `json:"name,omitempty" yaml:"name,omitempty" mapstructure:"name"`
	Initial     string             `json:"initial,omitempty" yaml:"initial,omitempty" mapstructure:"initial"`
	Init        string             `json:"init,omitempty" yaml:"init,omitempty" mapstructure:"init"`
	States      []LoaderState      `json:"states" yaml:"states" mapstructure:"states"`
	Transitions []LoaderTransition `json:"transitions" yaml:"transitions" mapstructure:"transitions"`
}

type LoaderState struct {
	ID     string   `json:"id" yaml:"id" mapstructure:"id"`
	Labels []string `json:"labels,omitempty" yaml:"labels,omitempty" mapstructure:"labels"`
}

type LoaderTransition struct {
	ID     string `json:"id,omitempty" yaml:"id,omitempty" mapstructure:"id"`
	Label  string `json:"label" yaml:"label" mapstructure:"label"`
	From   string `json:"from" yaml:"from" mapstructure:"from"`
	Source string `json:"source,omitempty" yaml:"source,omitempty" mapstructure:"source"`
	To     string `json:"to" yaml:"to" mapstructure:"to"`
	Target string `json:"target,omitempty" yaml:"target,omitempty" mapstructure:"target"`
	Guard  string `json:"guard,omitempty" yaml:"guard,omitempty" mapstructure:"guard"`
	Action string `json:"action,omitempty" yaml:"action,omitempty" mapstructure:"action"`
}

// SourceID returns the source state, whichever key was used.
func (t LoaderTransition) SourceID() string {
	if t.From != "" {
		return t.From
	}
	return t.Source
}

// TargetID returns the target state, whichever key was used.
func (t LoaderTransition) TargetID() string {
	if t.To != "" {
		return t.To
	}
	return t.Target
}

// InitialID returns the declared initial state, defaulting to the first state.
func (f *ModelFile) InitialID() string {
	if f.Initial != "" {
		return f.Initial
	}
	if len(f.States) > 0 {
		return f.States[0].ID
	}
	return ""
}
