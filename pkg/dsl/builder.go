package dsl

import (
	"fmt"

	"github.com/aretw0/mbt/pkg/adapters/memory"
	"github.com/aretw0/mbt/pkg/domain"
)

// Builder manages the model construction.
type Builder struct {
	name    string
	init    string
	order   []string
	states  map[string]*StateBuilder
	initial string
}

// New creates a new model builder.
func New(name string) *Builder {
	return &Builder{
		name:   name,
		states: make(map[string]*StateBuilder),
	}
}

// Init sets the script run against the data space before the first step.
func (b *Builder) Init(script string) *Builder {
	b.init = script
	return b
}

// Add creates a new state in the model.
// If the state already exists, it returns the existing builder.
// The first state added is the initial state unless another one calls Start.
func (b *Builder) Add(id string) *StateBuilder {
	if sb, ok := b.states[id]; ok {
		return sb
	}
	sb := &StateBuilder{id: id, builder: b}
	b.states[id] = sb
	b.order = append(b.order, id)
	return sb
}

// Build compiles the builder into a validated model.
// Transition IDs are assigned in declaration order ("e0", "e1", ...).
func (b *Builder) Build() (*domain.Model, error) {
	// Targets that were never added become plain states.
	for i := 0; i < len(b.order); i++ {
		for _, e := range b.states[b.order[i]].edges {
			b.Add(e.target)
		}
	}

	model := &domain.Model{Name: b.name, Init: b.init}
	byID := make(map[string]*domain.State, len(b.order))
	for _, id := range b.order {
		s := &domain.State{ID: id, Labels: b.states[id].labels}
		byID[id] = s
		model.States = append(model.States, s)
	}

	for _, id := range b.order {
		for _, e := range b.states[id].edges {
			model.Transitions = append(model.Transitions, &domain.Transition{
				ID:     fmt.Sprintf("e%d", len(model.Transitions)),
				Label:  e.label,
				Source: byID[id],
				Target: byID[e.target],
				Guard:  e.guard,
				Action: e.action,
			})
		}
	}

	initial := b.initial
	if initial == "" && len(b.order) > 0 {
		initial = b.order[0]
	}
	model.Initial = byID[initial]

	if err := model.Validate(); err != nil {
		return nil, fmt.Errorf("failed to build model %s: %w", b.name, err)
	}
	return model, nil
}

// Loader builds the model and wraps it in an in-memory ports.ModelLoader.
func (b *Builder) Loader() (*memory.Loader, error) {
	model, err := b.Build()
	if err != nil {
		return nil, err
	}
	return memory.NewLoader(model), nil
}

// MustBuild is like Build but panics on error. Intended for tests and static models.
func (b *Builder) MustBuild() *domain.Model {
	model, err := b.Build()
	if err != nil {
		panic(err)
	}
	return model
}
