package observability

import (
	"log/slog"

	"github.com/aretw0/mbt/pkg/domain"
)

// NewLoggingHooks writes one record per event: steps at Info, recovery at Warn.
func NewLoggingHooks(logger *slog.Logger) domain.Hooks {
	return domain.Hooks{
		OnStep: func(e *domain.StepEvent) {
			logger.Info("step",
				"index", e.Index,
				"transition", e.Step.Label,
				"state", e.Step.State,
				"edge_coverage", e.EdgeCoverage,
			)
		},
		OnBacktrack: func(e *domain.BacktrackEvent) {
			logger.Warn("backtrack", "state", e.State)
		},
		OnDeadEnd: func(e *domain.DeadEndEvent) {
			logger.Warn("dead_end", "state", e.State)
		},
	}
}
