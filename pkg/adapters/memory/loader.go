package memory

import (
	"context"
	"fmt"

	"github.com/aretw0/mbt/pkg/domain"
)

// Loader implements ports.ModelLoader around a model already held in memory.
type Loader struct {
	model *domain.Model
}

// NewLoader creates a new Loader serving the given model.
func NewLoader(model *domain.Model) *Loader {
	return &Loader{model: model}
}

// Load validates and returns the model.
// Every call returns the same model; machines keep their counters apart from it.
func (l *Loader) Load(ctx context.Context) (*domain.Model, error) {
	if err := l.model.Validate(); err != nil {
		return nil, fmt.Errorf("memory loader: %w", err)
	}
	return l.model, nil
}
