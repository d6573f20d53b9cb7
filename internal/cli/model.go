package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/aretw0/mbt/internal/presentation/graph"
	"github.com/aretw0/mbt/internal/validator"
	"github.com/aretw0/mbt/pkg/adapters/file"
)

// Graph writes the model at path as a Mermaid flowchart.
func Graph(ctx context.Context, path string, w io.Writer) error {
	model, err := file.New(path).Load(ctx)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(w, graph.GenerateMermaid(model, nil))
	return err
}

// Validate checks the model file at path for dangling references and unreachable states.
func Validate(path string, w io.Writer) error {
	f, err := file.New(path).Decode()
	if err != nil {
		return err
	}
	if err := validator.ValidateModel(f); err != nil {
		return err
	}
	name := f.Name
	if name == "" {
		name = filepath.Base(path)
	}
	_, err = fmt.Fprintf(w, "Model '%s' is valid: %d states, %d transitions\n", name, len(f.States), len(f.Transitions))
	return err
}
