package ports

import (
	"context"

	"github.com/aretw0/mbt/pkg/domain"
)

// RunStore defines the interface for persisting recorded runs.
// This allows generated test sequences to be replayed or inspected after the fact.
type RunStore interface {
	// Save persists the run under its ID, replacing any previous record.
	Save(ctx context.Context, run *domain.Run) error

	// Load retrieves a run by ID.
	// Returns domain.ErrRunNotFound if the run does not exist.
	Load(ctx context.Context, id string) (*domain.Run, error)

	// Delete removes a run. Deleting a missing run is not an error.
	Delete(ctx context.Context, id string) error

	// List returns the IDs of all recorded runs.
	List(ctx context.Context) ([]string, error)
}
