package observability_test

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/aretw0/mbt"
	"github.com/aretw0/mbt/internal/testutils"
	"github.com/aretw0/mbt/pkg/condition"
	"github.com/aretw0/mbt/pkg/domain"
	"github.com/aretw0/mbt/pkg/generator"
	"github.com/aretw0/mbt/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// runLine walks A -> B -> C with backtracking until five steps were taken:
// a_b, b_c, then three times (dead end, backtrack, b_c).
func runLine(t *testing.T, hooks domain.Hooks) {
	t.Helper()
	engine, err := mbt.New(testutils.LineModel(t), mbt.WithBacktrack(true), mbt.WithHooks(hooks), mbt.WithSeed(1))
	require.NoError(t, err)
	require.NoError(t, engine.AddCondition(condition.KindTestLength, "5"))
	require.NoError(t, engine.SetGenerator(generator.KindRandom))

	for engine.HasNextStep() {
		_, err := engine.NextStep()
		require.NoError(t, err)
	}
}

func TestMetrics_Hooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg)

	runLine(t, metrics.Hooks())

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.Len(t, families, 5)

	expected := `
# HELP mbt_steps_total Total number of walked transitions
# TYPE mbt_steps_total counter
mbt_steps_total{transition="a_b"} 1
mbt_steps_total{transition="b_c"} 4
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "mbt_steps_total"))

	names := map[string]float64{}
	for _, f := range families {
		if len(f.GetMetric()) == 1 {
			m := f.GetMetric()[0]
			if m.GetCounter() != nil {
				names[f.GetName()] = m.GetCounter().GetValue()
			}
			if m.GetGauge() != nil {
				names[f.GetName()] = m.GetGauge().GetValue()
			}
		}
	}
	assert.Equal(t, 3.0, names["mbt_backtracks_total"])
	assert.Equal(t, 3.0, names["mbt_dead_ends_total"])
	assert.Equal(t, 1.0, names["mbt_edge_coverage_ratio"])
	assert.Equal(t, 1.0, names["mbt_state_coverage_ratio"])
}

func TestTracingHooks(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	runLine(t, observability.NewTracingHooks(tp.Tracer("test")))

	counts := map[string]int{}
	for _, span := range exporter.GetSpans() {
		counts[span.Name]++
		if span.Name == observability.SpanDeadEnd {
			assert.Equal(t, codes.Error, span.Status.Code)
		}
	}
	assert.Equal(t, 5, counts[observability.SpanStep])
	assert.Equal(t, 3, counts[observability.SpanBacktrack])
	assert.Equal(t, 3, counts[observability.SpanDeadEnd])

	first := exporter.GetSpans()[0]
	require.Equal(t, observability.SpanStep, first.Name)
	attrs := map[string]string{}
	for _, kv := range first.Attributes {
		attrs[string(kv.Key)] = kv.Value.Emit()
	}
	assert.Equal(t, "a_b", attrs["mbt.transition.label"])
	assert.Equal(t, "A", attrs["mbt.source"])
	assert.Equal(t, "B", attrs["mbt.target"])
	assert.Equal(t, "1", attrs["mbt.step.index"])
}

func TestLoggingHooks(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := slog.New(slog.NewTextHandler(buf, nil))

	runLine(t, observability.NewLoggingHooks(logger))

	out := buf.String()
	assert.Equal(t, 5, strings.Count(out, "msg=step"))
	assert.Equal(t, 3, strings.Count(out, "msg=backtrack"))
	assert.Equal(t, 3, strings.Count(out, "msg=dead_end"))
}

func TestChainHooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg)
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	runLine(t, domain.ChainHooks(metrics.Hooks(), observability.NewTracingHooks(tp.Tracer("test"))))

	assert.Len(t, exporter.GetSpans(), 11)
	n, err := testutil.GatherAndCount(reg, "mbt_steps_total")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
