package observability

import (
	"context"

	"github.com/aretw0/mbt/pkg/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Span names.
const (
	SpanStep      = "mbt.step"
	SpanBacktrack = "mbt.backtrack"
	SpanDeadEnd   = "mbt.dead_end"
)

// NewTracingHooks creates one span per event. Events are instants, so each span
// is started and ended at the event timestamp.
func NewTracingHooks(tracer trace.Tracer) domain.Hooks {
	emit := func(name string, e domain.EventBase, attrs ...attribute.KeyValue) trace.Span {
		_, span := tracer.Start(context.Background(), name,
			trace.WithTimestamp(e.Timestamp),
			trace.WithAttributes(attrs...),
		)
		return span
	}

	return domain.Hooks{
		OnStep: func(e *domain.StepEvent) {
			span := emit(SpanStep, e.EventBase,
				attribute.Int("mbt.step.index", e.Index),
				attribute.String("mbt.transition.id", e.Step.TransitionID),
				attribute.String("mbt.transition.label", e.Step.Label),
				attribute.String("mbt.source", e.Step.Source),
				attribute.String("mbt.target", e.Step.Target),
				attribute.String("mbt.state", e.Step.State),
				attribute.Float64("mbt.coverage.edges", e.EdgeCoverage),
				attribute.Float64("mbt.coverage.states", e.StateCoverage),
			)
			span.End(trace.WithTimestamp(e.Timestamp))
		},
		OnBacktrack: func(e *domain.BacktrackEvent) {
			span := emit(SpanBacktrack, e.EventBase, attribute.String("mbt.state", e.State))
			span.End(trace.WithTimestamp(e.Timestamp))
		},
		OnDeadEnd: func(e *domain.DeadEndEvent) {
			span := emit(SpanDeadEnd, e.EventBase, attribute.String("mbt.state", e.State))
			span.SetStatus(codes.Error, "no accessible transition")
			span.End(trace.WithTimestamp(e.Timestamp))
		},
	}
}
