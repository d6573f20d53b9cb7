package condition

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aretw0/mbt/pkg/domain"
	"github.com/aretw0/mbt/pkg/machine"
)

// Kind selects a stop condition in configuration.
type Kind int

const (
	KindEdgeCoverage Kind = iota + 1
	KindStateCoverage
	KindReachedEdge
	KindReachedState
	KindTestLength
	KindTestDuration
)

var kindNames = map[Kind]string{
	KindEdgeCoverage:  "edge_coverage",
	KindStateCoverage: "state_coverage",
	KindReachedEdge:   "reached_edge",
	KindReachedState:  "reached_state",
	KindTestLength:    "test_length",
	KindTestDuration:  "test_duration",
}

var kindAliases = map[string]Kind{
	"vertex_coverage": KindStateCoverage,
	"reached_vertex":  KindReachedState,
	"length":          KindTestLength,
	"duration":        KindTestDuration,
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind maps a configuration name (case insensitive, '-' or '_') to a Kind.
func ParseKind(name string) (Kind, error) {
	norm := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_")
	for k, n := range kindNames {
		if n == norm {
			return k, nil
		}
	}
	if k, ok := kindAliases[norm]; ok {
		return k, nil
	}
	return 0, fmt.Errorf("%w: unknown kind '%s'", domain.ErrUnsupportedCondition, name)
}

// New builds a condition from its textual configuration value:
// a percentage for coverage kinds, a label or state ID for reached kinds,
// a step count for test_length and seconds (or a Go duration) for test_duration.
func New(kind Kind, m machine.Machine, value string) (StopCondition, error) {
	value = strings.TrimSpace(value)
	switch kind {
	case KindEdgeCoverage, KindStateCoverage:
		pct, err := strconv.ParseFloat(strings.TrimSuffix(value, "%"), 64)
		if err != nil || pct <= 0 || pct > 100 {
			return nil, fmt.Errorf("%w: %s expects a percentage in (0, 100], got '%s'", domain.ErrUnsupportedCondition, kind, value)
		}
		if kind == KindEdgeCoverage {
			return NewEdgeCoverage(m, pct/100), nil
		}
		return NewStateCoverage(m, pct/100), nil

	case KindReachedEdge:
		if len(m.Model().TransitionsLabeled(value)) == 0 {
			return nil, fmt.Errorf("%w: no transition labeled '%s'", domain.ErrUnsupportedCondition, value)
		}
		return NewReachedEdge(m, value), nil

	case KindReachedState:
		if m.Model().State(value) == nil {
			return nil, fmt.Errorf("%w: no state '%s'", domain.ErrUnsupportedCondition, value)
		}
		return NewReachedState(m, value), nil

	case KindTestLength:
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("%w: %s expects a positive step count, got '%s'", domain.ErrUnsupportedCondition, kind, value)
		}
		return NewTestCaseLength(m, n), nil

	case KindTestDuration:
		d, err := parseSeconds(value)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", domain.ErrUnsupportedCondition, kind, err)
		}
		return NewTimeDuration(d), nil
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedCondition, kind)
}

func parseSeconds(value string) (time.Duration, error) {
	if secs, err := strconv.ParseFloat(value, 64); err == nil {
		if secs <= 0 {
			return 0, fmt.Errorf("duration must be positive, got '%s'", value)
		}
		return time.Duration(secs * float64(time.Second)), nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid duration '%s'", value)
	}
	if d <= 0 {
		return 0, fmt.Errorf("duration must be positive, got '%s'", value)
	}
	return d, nil
}
