package ports

import (
	"context"

	"github.com/aretw0/mbt/pkg/domain"
)

// ModelLoader defines how the generator retrieves the model to traverse.
// This allows the model source (YAML/JSON files, the DSL builder, memory) to be decoupled.
type ModelLoader interface {
	// Load returns a model. Implementations validate the model before returning it.
	Load(ctx context.Context) (*domain.Model, error)
}
