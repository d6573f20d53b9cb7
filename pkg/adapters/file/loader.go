package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/mbt/internal/dto"
	"github.com/aretw0/mbt/pkg/domain"
	"github.com/aretw0/mbt/pkg/ports"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Loader implements ports.ModelLoader for YAML and JSON model files.
// The format is chosen by extension (.yaml, .yml or .json).
type Loader struct {
	path string
}

var _ ports.ModelLoader = (*Loader)(nil)

// New creates a loader for the model file at path.
func New(path string) *Loader {
	return &Loader{path: path}
}

// Path returns the model file location.
func (l *Loader) Path() string { return l.path }

// Load reads, decodes and converts the model file.
func (l *Loader) Load(ctx context.Context) (*domain.Model, error) {
	f, err := l.Decode()
	if err != nil {
		return nil, err
	}
	model, err := ToModel(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", l.path, err)
	}
	if model.Name == "" {
		model.Name = strings.TrimSuffix(filepath.Base(l.path), filepath.Ext(l.path))
	}
	return model, nil
}

// Decode reads the model file into its loader representation without converting it.
func (l *Loader) Decode() (*dto.ModelFile, error) {
	raw, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model: %w", err)
	}

	var generic map[string]any
	switch ext := strings.ToLower(filepath.Ext(l.path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(raw, &generic)
	case ".json":
		err = json.Unmarshal(raw, &generic)
	default:
		return nil, fmt.Errorf("unsupported model format '%s' (want .yaml, .yml or .json)", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", l.path, err)
	}

	var f dto.ModelFile
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &f,
		ErrorUnused: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create decoder: %w", err)
	}
	if err := decoder.Decode(generic); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", l.path, err)
	}
	return &f, nil
}

// ToModel converts a decoded file into a validated model.
// Transitions without an ID are numbered "e0", "e1", ... by position.
func ToModel(f *dto.ModelFile) (*domain.Model, error) {
	model := &domain.Model{Name: f.Name, Init: f.Init}
	byID := make(map[string]*domain.State, len(f.States))
	for _, s := range f.States {
		state := &domain.State{ID: s.ID, Labels: s.Labels}
		model.States = append(model.States, state)
		byID[s.ID] = state
	}
	model.Initial = byID[f.InitialID()]

	for i, t := range f.Transitions {
		id := t.ID
		if id == "" {
			id = fmt.Sprintf("e%d", i)
		}
		src, dst := byID[t.SourceID()], byID[t.TargetID()]
		if src == nil || dst == nil {
			return nil, fmt.Errorf("%w: transition '%s' links '%s' to '%s', which is not declared",
				domain.ErrModelInvalid, id, t.SourceID(), t.TargetID())
		}
		model.Transitions = append(model.Transitions, &domain.Transition{
			ID:     id,
			Label:  t.Label,
			Source: src,
			Target: dst,
			Guard:  t.Guard,
			Action: t.Action,
		})
	}

	if err := model.Validate(); err != nil {
		return nil, err
	}
	return model, nil
}

// FromModel converts a model into its file representation.
func FromModel(model *domain.Model) *dto.ModelFile {
	f := &dto.ModelFile{Name: model.Name, Init: model.Init}
	if model.Initial != nil {
		f.Initial = model.Initial.ID
	}
	for _, s := range model.States {
		f.States = append(f.States, dto.LoaderState{ID: s.ID, Labels: s.Labels})
	}
	for _, t := range model.Transitions {
		f.Transitions = append(f.Transitions, dto.LoaderTransition{
			ID:     t.ID,
			Label:  t.Label,
			From:   t.Source.ID,
			To:     t.Target.ID,
			Guard:  t.Guard,
			Action: t.Action,
		})
	}
	return f
}

// Save writes the model to path, as YAML or JSON depending on the extension.
func Save(model *domain.Model, path string) error {
	f := FromModel(model)

	var data []byte
	var err error
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(f)
	case ".json":
		data, err = json.MarshalIndent(f, "", "  ")
	default:
		return fmt.Errorf("unsupported model format '%s' (want .yaml, .yml or .json)", ext)
	}
	if err != nil {
		return fmt.Errorf("failed to encode model: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write model: %w", err)
	}
	return nil
}
