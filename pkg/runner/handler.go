package runner

import (
	"context"
	"fmt"

	"github.com/aretw0/mbt/pkg/domain"
	"github.com/aretw0/mbt/pkg/ports"
)

// Handler defines how a generated sequence is presented.
// This allows switching between Text (CLI) and JSON (structured) modes.
type Handler interface {
	// Step presents one generated step. index starts at 1.
	Step(ctx context.Context, index int, step domain.Step) error

	// Summary presents the finished run, statistics included.
	Summary(ctx context.Context, run *domain.Run) error
}

// StatisticsFormat selects one of the three statistics reports.
type StatisticsFormat string

const (
	StatisticsPlain   StatisticsFormat = "plain"
	StatisticsCompact StatisticsFormat = "compact"
	StatisticsVerbose StatisticsFormat = "verbose"
)

// ParseStatisticsFormat maps a name to a format. The empty string means plain.
func ParseStatisticsFormat(name string) (StatisticsFormat, error) {
	switch StatisticsFormat(name) {
	case "", StatisticsPlain:
		return StatisticsPlain, nil
	case StatisticsCompact, StatisticsVerbose:
		return StatisticsFormat(name), nil
	}
	return "", fmt.Errorf("unknown statistics format %q", name)
}

// Statistics renders the engine statistics in the given format.
func Statistics(engine ports.Engine, format StatisticsFormat) string {
	switch format {
	case StatisticsCompact:
		return engine.StatisticsCompact()
	case StatisticsVerbose:
		return engine.StatisticsVerbose()
	default:
		return engine.Statistics()
	}
}
