package condition_test

import (
	"testing"
	"time"

	"github.com/aretw0/mbt/internal/testutils"
	"github.com/aretw0/mbt/pkg/condition"
	"github.com/aretw0/mbt/pkg/domain"
	"github.com/aretw0/mbt/pkg/machine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func walk(t *testing.T, m *machine.FSM, ids ...string) {
	t.Helper()
	for _, id := range ids {
		require.NoError(t, m.WalkEdge(m.Model().Transition(id)))
	}
}

func TestEdgeCoverage(t *testing.T) {
	model := testutils.RingModel(t)
	m := machine.NewFSM(model)

	full := condition.NewEdgeCoverage(m, 1.0)
	half := condition.NewEdgeCoverage(m, 0.5)

	walk(t, m, "e0", "e2") // S0 -> S1 -> S2
	assert.False(t, half.Fulfilled())
	assert.InDelta(t, 0.8, half.Fulfillment(), 1e-9)

	walk(t, m, "e3") // S2 -> S3
	assert.True(t, half.Fulfilled())
	assert.Equal(t, 1.0, half.Fulfillment())
	assert.False(t, full.Fulfilled())

	walk(t, m, "e4", "e1") // S3 -> S0 -> S2
	assert.True(t, full.Fulfilled(), "every transition walked")
	assert.Equal(t, 1.0, full.Fulfillment())
}

func TestStateCoverage(t *testing.T) {
	model := testutils.RingModel(t)
	m := machine.NewFSM(model)

	c := condition.NewStateCoverage(m, 1.0)
	assert.InDelta(t, 0.25, c.Fulfillment(), 1e-9)

	walk(t, m, "e1", "e3") // S0 -> S2 -> S3
	assert.False(t, c.Fulfilled())
	walk(t, m, "e4", "e0") // S3 -> S0 -> S1
	assert.True(t, c.Fulfilled())
}

func TestReachedEdgeAndState(t *testing.T) {
	model := testutils.RingModel(t)
	m := machine.NewFSM(model)

	edge := condition.NewReachedEdge(m, "s2_s3")
	state := condition.NewReachedState(m, "S3")
	missing := condition.NewReachedState(m, "nowhere")

	assert.Equal(t, 0.0, edge.Fulfillment())
	assert.Equal(t, 0.0, state.Fulfillment())

	walk(t, m, "e1", "e3")
	assert.True(t, edge.Fulfilled())
	assert.True(t, state.Fulfilled())
	assert.Equal(t, 1.0, state.Fulfillment())
	assert.False(t, missing.Fulfilled())
}

func TestTestCaseLength(t *testing.T) {
	model := testutils.RingModel(t)
	m := machine.NewFSM(model, machine.WithBacktrack(true))
	c := condition.NewTestCaseLength(m, 4)

	walk(t, m, "e0", "e2")
	require.NoError(t, m.Backtrack())
	assert.InDelta(t, 0.5, c.Fulfillment(), 1e-9, "backtracking does not undo progress")

	walk(t, m, "e2", "e3", "e4")
	assert.True(t, c.Fulfilled())
	assert.Equal(t, 1.0, c.Fulfillment())
}

func TestTimeDuration(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	c := condition.NewTimeDurationWithClock(10*time.Second, clock)
	assert.False(t, c.Fulfilled())
	assert.Equal(t, 0.0, c.Fulfillment())

	now = now.Add(4 * time.Second)
	assert.InDelta(t, 0.4, c.Fulfillment(), 1e-9)

	now = now.Add(6 * time.Second)
	assert.True(t, c.Fulfilled())
	now = now.Add(time.Minute)
	assert.Equal(t, 1.0, c.Fulfillment())
}

func TestCombination(t *testing.T) {
	model := testutils.RingModel(t)

	t.Run("Length first", func(t *testing.T) {
		m := machine.NewFSM(model)
		c := condition.NewCombination(condition.NewTestCaseLength(m, 5), condition.NewReachedState(m, "S3"))

		walk(t, m, "e0", "e2") // S1, S2
		assert.False(t, c.Fulfilled())
		assert.InDelta(t, 0.4, c.Fulfillment(), 1e-9)

		walk(t, m, "e3") // S3
		assert.True(t, c.Fulfilled())
		assert.Equal(t, 1.0, c.Fulfillment())
	})

	t.Run("Fulfillment is the max", func(t *testing.T) {
		m := machine.NewFSM(model)
		c := condition.NewCombination(condition.NewTestCaseLength(m, 5), condition.NewReachedState(m, "S1"))
		walk(t, m, "e1") // S2, never S1
		assert.InDelta(t, 0.2, c.Fulfillment(), 1e-9)
	})

	t.Run("Empty", func(t *testing.T) {
		c := condition.NewCombination()
		assert.False(t, c.Fulfilled())
		assert.Equal(t, 0.0, c.Fulfillment())
	})
}

func TestFold(t *testing.T) {
	m := machine.NewFSM(testutils.RingModel(t))
	first := condition.NewTestCaseLength(m, 1)

	var stop condition.StopCondition
	stop = condition.Fold(stop, first)
	assert.Same(t, first, stop, "a single condition is kept as is")

	stop = condition.Fold(stop, condition.NewReachedState(m, "S1"))
	combo, ok := stop.(*condition.Combination)
	require.True(t, ok)
	assert.Len(t, combo.Conditions(), 2)

	stop = condition.Fold(stop, condition.NewEdgeCoverage(m, 1))
	grown, ok := stop.(*condition.Combination)
	require.True(t, ok)
	assert.Len(t, grown.Conditions(), 3)
	assert.NotSame(t, combo, grown)
	assert.Len(t, combo.Conditions(), 2, "a shared combination is not modified")
}

func TestParseKind(t *testing.T) {
	cases := map[string]condition.Kind{
		"edge_coverage":   condition.KindEdgeCoverage,
		"EDGE-COVERAGE":   condition.KindEdgeCoverage,
		"vertex_coverage": condition.KindStateCoverage,
		"reached_vertex":  condition.KindReachedState,
		"reached_edge":    condition.KindReachedEdge,
		"length":          condition.KindTestLength,
		"test_duration":   condition.KindTestDuration,
	}
	for name, want := range cases {
		got, err := condition.ParseKind(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}

	_, err := condition.ParseKind("never")
	assert.ErrorIs(t, err, domain.ErrUnsupportedCondition)
	assert.Equal(t, "reached_state", condition.KindReachedState.String())
}

func TestNew(t *testing.T) {
	m := machine.NewFSM(testutils.RingModel(t))

	valid := []struct {
		kind  condition.Kind
		value string
	}{
		{condition.KindEdgeCoverage, "100"},
		{condition.KindStateCoverage, "50%"},
		{condition.KindReachedEdge, "s2_s3"},
		{condition.KindReachedState, "S3"},
		{condition.KindTestLength, "10"},
		{condition.KindTestDuration, "30"},
		{condition.KindTestDuration, "1m30s"},
	}
	for _, tc := range valid {
		c, err := condition.New(tc.kind, m, tc.value)
		require.NoError(t, err, "%s=%s", tc.kind, tc.value)
		assert.NotNil(t, c)
	}

	invalid := []struct {
		kind  condition.Kind
		value string
	}{
		{condition.KindEdgeCoverage, "0"},
		{condition.KindEdgeCoverage, "101"},
		{condition.KindEdgeCoverage, "all"},
		{condition.KindReachedEdge, "missing"},
		{condition.KindReachedState, "missing"},
		{condition.KindTestLength, "-1"},
		{condition.KindTestDuration, "soon"},
		{condition.Kind(99), "1"},
	}
	for _, tc := range invalid {
		_, err := condition.New(tc.kind, m, tc.value)
		assert.ErrorIs(t, err, domain.ErrUnsupportedCondition, "%s=%s", tc.kind, tc.value)
	}

	c, err := condition.New(condition.KindEdgeCoverage, m, "50")
	require.NoError(t, err)
	ec, ok := c.(*condition.EdgeCoverage)
	require.True(t, ok)
	assert.InDelta(t, 0.0, ec.Fulfillment(), 1e-9)
}

func TestGoalsOf(t *testing.T) {
	model := testutils.RingModel(t)
	m := machine.NewFSM(model)

	t.Run("Reached state", func(t *testing.T) {
		goals := condition.GoalsOf(condition.NewReachedState(m, "S3"), m)
		require.Len(t, goals, 1)
		assert.Same(t, model.State("S3"), goals[0].State)
	})

	t.Run("Length falls back to unvisited edges", func(t *testing.T) {
		goals := condition.GoalsOf(condition.NewTestCaseLength(m, 3), m)
		assert.Len(t, goals, len(model.Transitions))
	})

	t.Run("Combination skips fulfilled members and duplicates", func(t *testing.T) {
		c := condition.NewCombination(
			condition.NewReachedEdge(m, "s0_s1"),
			condition.NewEdgeCoverage(m, 1),
			condition.NewReachedState(m, "S0"), // initial state, already fulfilled
		)
		goals := condition.GoalsOf(c, m)
		assert.Len(t, goals, len(model.Transitions))
		assert.Equal(t, "edge e0", goals[0].String())
	})
}
