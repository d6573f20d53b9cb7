package generator

import (
	"fmt"
	"strings"

	"github.com/aretw0/mbt/pkg/condition"
	"github.com/aretw0/mbt/pkg/domain"
	"github.com/aretw0/mbt/pkg/machine"
)

// Kind selects a generation strategy in configuration.
type Kind int

const (
	KindRandom Kind = iota + 1
	KindShortestPath
)

func (k Kind) String() string {
	switch k {
	case KindRandom:
		return "random"
	case KindShortestPath:
		return "shortest_path"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind maps a configuration name to a Kind.
func ParseKind(name string) (Kind, error) {
	switch strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_") {
	case "random":
		return KindRandom, nil
	case "shortest", "shortest_path", "a_star":
		return KindShortestPath, nil
	}
	return 0, fmt.Errorf("%w: unknown kind '%s'", domain.ErrUnsupportedGenerator, name)
}

// New creates a generator of the given kind.
// It fails before producing anything if the kind is unknown or stop is missing.
func New(kind Kind, m machine.Machine, stop condition.StopCondition, opts ...Option) (PathGenerator, error) {
	if stop == nil {
		return nil, fmt.Errorf("%w: %s needs a stop condition", domain.ErrUnsupportedGenerator, kind)
	}
	switch kind {
	case KindRandom:
		return NewRandom(m, stop, opts...), nil
	case KindShortestPath:
		return NewShortestPath(m, stop, opts...), nil
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedGenerator, kind)
}
