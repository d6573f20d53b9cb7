package testutils

import (
	"testing"

	"github.com/aretw0/mbt/pkg/adapters/lua"
	"github.com/aretw0/mbt/pkg/domain"
	"github.com/aretw0/mbt/pkg/dsl"
	"github.com/stretchr/testify/require"
)

// CounterModel is the canonical guarded loop:
//
//	A --e_enter--> B --e_finish [x > 0]--> C
//	B --e_back / x = x + 1--> A
//
// with the data space initialised to x = 0. C is a dead end.
func CounterModel(t testing.TB) *domain.Model {
	t.Helper()
	b := dsl.New("counter")
	b.Init("x = 0")
	b.Add("A").Go("e_enter", "B")
	b.Add("B").
		Branch("e_finish", "x > 0", "C").
		Go("e_back", "A").Then("x = x + 1")
	b.Add("C")

	model, err := b.Build()
	require.NoError(t, err, "Failed to build counter model")
	return model
}

// LineModel is A -> B -> C with no way back; C is a dead end.
func LineModel(t testing.TB) *domain.Model {
	t.Helper()
	b := dsl.New("line")
	b.Add("A").Go("a_b", "B")
	b.Add("B").Go("b_c", "C")

	model, err := b.Build()
	require.NoError(t, err, "Failed to build line model")
	return model
}

// RingModel is a strongly connected model with a shortcut:
//
//	S0 -> S1 -> S2 -> S3 -> S0, S0 -> S2
func RingModel(t testing.TB) *domain.Model {
	t.Helper()
	b := dsl.New("ring")
	b.Add("S0").Go("s0_s1", "S1").Go("s0_s2", "S2")
	b.Add("S1").Go("s1_s2", "S2")
	b.Add("S2").Go("s2_s3", "S3")
	b.Add("S3").Go("s3_s0", "S0")

	model, err := b.Build()
	require.NoError(t, err, "Failed to build ring model")
	return model
}

// NewEnvironment returns a Lua environment closed with the test.
func NewEnvironment(t testing.TB) *lua.Environment {
	t.Helper()
	env, err := lua.New()
	require.NoError(t, err, "Failed to create lua environment")
	t.Cleanup(env.Close)
	return env
}
