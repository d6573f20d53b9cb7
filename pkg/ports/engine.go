package ports

import "github.com/aretw0/mbt/pkg/domain"

// Engine defines the stepping surface of a configured generator.
// This is the interface used by driving adapters (HTTP, MCP) in online mode,
// where the test harness pulls one step at a time.
type Engine interface {
	HasNextStep() bool
	NextStep() (domain.Step, error)
	Backtrack() error

	Statistics() string
	StatisticsCompact() string
	StatisticsVerbose() string

	// DataValue returns the rendered value of a data space variable.
	DataValue(name string) (string, error)

	// ExecAction evaluates a script in the data space and returns its result.
	ExecAction(script string) (string, error)

	Model() *domain.Model

	// GeneratorName identifies the configured strategy.
	GeneratorName() string
}
