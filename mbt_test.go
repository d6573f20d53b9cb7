package mbt_test

import (
	"testing"

	"github.com/aretw0/mbt"
	"github.com/aretw0/mbt/internal/testutils"
	"github.com/aretw0/mbt/pkg/condition"
	"github.com/aretw0/mbt/pkg/domain"
	"github.com/aretw0/mbt/pkg/dsl"
	"github.com/aretw0/mbt/pkg/generator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_Offline(t *testing.T) {
	engine, err := mbt.New(testutils.RingModel(t), mbt.WithSeed(7))
	require.NoError(t, err)
	assert.False(t, engine.Extended())

	require.NoError(t, engine.AddCondition(condition.KindEdgeCoverage, "100"))
	require.NoError(t, engine.SetGenerator(generator.KindRandom))
	assert.Equal(t, "random", engine.GeneratorName())

	steps := 0
	for engine.HasNextStep() {
		_, err := engine.NextStep()
		require.NoError(t, err)
		steps++
		require.Less(t, steps, 1000)
	}
	assert.Equal(t, 1.0, engine.Fulfillment())
	assert.Contains(t, engine.Statistics(), "Coverage Edges: 5/5 => 100%")
}

func TestEngine_FailsFast(t *testing.T) {
	t.Run("Invalid model", func(t *testing.T) {
		_, err := mbt.New(&domain.Model{})
		assert.ErrorIs(t, err, domain.ErrModelInvalid)
	})

	t.Run("Generator without condition", func(t *testing.T) {
		engine, err := mbt.New(testutils.RingModel(t))
		require.NoError(t, err)
		assert.ErrorIs(t, engine.SetGenerator(generator.KindRandom), domain.ErrUnsupportedGenerator)
		assert.False(t, engine.HasNextStep())

		_, err = engine.NextStep()
		assert.ErrorIs(t, err, domain.ErrUnsupportedGenerator)
	})

	t.Run("Unknown generator", func(t *testing.T) {
		engine, err := mbt.New(testutils.RingModel(t))
		require.NoError(t, err)
		require.NoError(t, engine.AddCondition(condition.KindTestLength, "3"))
		assert.ErrorIs(t, engine.SetGenerator(generator.Kind(42)), domain.ErrUnsupportedGenerator)
	})

	t.Run("Bad condition", func(t *testing.T) {
		engine, err := mbt.New(testutils.RingModel(t))
		require.NoError(t, err)
		assert.ErrorIs(t, engine.AddCondition(condition.KindReachedState, "S9"), domain.ErrUnsupportedCondition)
	})

	t.Run("Condition after generator", func(t *testing.T) {
		engine, err := mbt.New(testutils.RingModel(t))
		require.NoError(t, err)
		require.NoError(t, engine.AddCondition(condition.KindTestLength, "3"))
		require.NoError(t, engine.SetGenerator(generator.KindRandom))
		assert.ErrorIs(t, engine.AddCondition(condition.KindTestLength, "4"), domain.ErrUnsupportedCondition)
	})

	t.Run("Malformed init script", func(t *testing.T) {
		model := testutils.CounterModel(t)
		model.Init = "x = = 0"
		_, err := mbt.New(model, mbt.WithExtended(testutils.NewEnvironment(t)))
		assert.ErrorIs(t, err, domain.ErrMalformedAction)
	})
}

func TestEngine_ConditionsCombine(t *testing.T) {
	engine, err := mbt.New(testutils.RingModel(t))
	require.NoError(t, err)

	require.NoError(t, engine.AddCondition(condition.KindTestLength, "5"))
	require.NoError(t, engine.AddCondition(condition.KindReachedState, "S3"))
	require.NoError(t, engine.SetGenerator(generator.KindShortestPath))

	var labels []string
	for engine.HasNextStep() {
		step, err := engine.NextStep()
		require.NoError(t, err)
		labels = append(labels, step.Label)
	}
	// S3 is reached after three steps, before the length is
	assert.Equal(t, []string{"s0_s1", "s1_s2", "s2_s3"}, labels)
}

func TestEngine_OnlineBacktrack(t *testing.T) {
	var backtracks int
	engine, err := mbt.New(testutils.CounterModel(t),
		mbt.WithExtended(testutils.NewEnvironment(t)),
		mbt.WithBacktrack(true),
		mbt.WithHooks(domain.Hooks{OnBacktrack: func(*domain.BacktrackEvent) { backtracks++ }}),
	)
	require.NoError(t, err)
	require.NoError(t, engine.AddCondition(condition.KindReachedState, "C"))
	require.NoError(t, engine.SetGenerator(generator.KindShortestPath))

	_, err = engine.NextStep() // e_enter
	require.NoError(t, err)
	step, err := engine.NextStep() // e_back, x = 1
	require.NoError(t, err)
	assert.Equal(t, "A/x=1;", step.State)

	// The harness could not perform e_back: undo it
	require.NoError(t, engine.Backtrack())
	assert.Equal(t, "B/x=0;", engine.CurrentState())
	assert.Equal(t, 1, backtracks)

	v, err := engine.DataValue("x")
	require.NoError(t, err)
	assert.Equal(t, "0", v)
}

func TestEngine_Data(t *testing.T) {
	t.Run("Extended", func(t *testing.T) {
		engine, err := mbt.New(testutils.CounterModel(t), mbt.WithExtended(testutils.NewEnvironment(t)))
		require.NoError(t, err)

		_, err = engine.DataValue("missing")
		assert.ErrorIs(t, err, domain.ErrInvalidData)

		v, err := engine.ExecAction("x = 41")
		require.NoError(t, err)
		assert.Empty(t, v)

		v, err = engine.ExecAction("x + 1")
		require.NoError(t, err)
		assert.Equal(t, "42", v)
	})

	t.Run("Plain", func(t *testing.T) {
		engine, err := mbt.New(testutils.CounterModel(t))
		require.NoError(t, err)
		_, err = engine.DataValue("x")
		assert.ErrorIs(t, err, domain.ErrInvalidData)
		_, err = engine.ExecAction("x = 1")
		assert.ErrorIs(t, err, domain.ErrInvalidData)
		assert.ErrorIs(t, engine.Backtrack(), domain.ErrBacktrack)
	})
}

func TestEngine_BacktrackKeepsShortestPath(t *testing.T) {
	b := dsl.New("detour")
	b.Add("A").Go("ab", "B")
	b.Add("B").Go("bx", "X").Go("bc", "C")
	b.Add("X").Go("xb", "B")
	b.Add("C").Go("cd", "D")
	b.Add("D")

	engine, err := mbt.New(b.MustBuild(), mbt.WithBacktrack(true))
	require.NoError(t, err)
	require.NoError(t, engine.AddCondition(condition.KindReachedState, "D"))
	require.NoError(t, engine.SetGenerator(generator.KindShortestPath))

	// The system under test refuses the first step a few times
	for range 3 {
		step, err := engine.NextStep()
		require.NoError(t, err)
		require.Equal(t, "ab", step.Label)
		require.NoError(t, engine.Backtrack())
	}

	var labels []string
	for engine.HasNextStep() {
		step, err := engine.NextStep()
		require.NoError(t, err)
		labels = append(labels, step.Label)
		require.Less(t, len(labels), 20)
	}
	assert.Equal(t, []string{"ab", "bc", "cd"}, labels)
}
