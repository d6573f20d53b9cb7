package tests

import (
	"bytes"
	"context"
	"testing"

	"github.com/aretw0/mbt/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ModelLoaderContractTest is a reusable test suite that verifies if an adapter complies with ports.ModelLoader.
// The loader must describe a model with the given initial state and the given number of transitions.
func ModelLoaderContractTest(t *testing.T, loader ports.ModelLoader, initial string, transitions int) {
	t.Helper()

	t.Run("Load", func(t *testing.T) {
		model, err := loader.Load(context.Background())
		require.NoError(t, err)
		require.NotNil(t, model.Initial)
		assert.Equal(t, initial, model.Initial.ID)
		assert.Len(t, model.Transitions, transitions)
		assert.NoError(t, model.Validate())
	})

	t.Run("Transitions reference owned states", func(t *testing.T) {
		model, err := loader.Load(context.Background())
		require.NoError(t, err)
		for _, tr := range model.Transitions {
			assert.Same(t, model.State(tr.Source.ID), tr.Source, "source of %s", tr.ID)
			assert.Same(t, model.State(tr.Target.ID), tr.Target, "target of %s", tr.ID)
		}
	})
}

// EnvironmentContractTest is a reusable test suite that verifies if a scripting adapter complies with ports.Environment.
// The factory must return a fresh environment; scripts use Lua-compatible syntax ("x = 1", "x > 0").
func EnvironmentContractTest(t *testing.T, factory func() ports.Environment) {
	t.Helper()

	t.Run("Exec and Lookup", func(t *testing.T) {
		env := factory()
		require.NoError(t, env.Exec("x = 1"))
		v, ok := env.Lookup("x")
		assert.True(t, ok)
		assert.Equal(t, "1", v)

		_, ok = env.Lookup("undefined_variable")
		assert.False(t, ok)
	})

	t.Run("Test", func(t *testing.T) {
		env := factory()
		require.NoError(t, env.Exec("x = 0"))
		ok, err := env.Test("x > 0")
		require.NoError(t, err)
		assert.False(t, ok)

		require.NoError(t, env.Exec("x = x + 1"))
		ok, err = env.Test("x > 0")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("Malformed script", func(t *testing.T) {
		env := factory()
		assert.Error(t, env.Exec("x = = 1"))
		_, err := env.Test("x >")
		assert.Error(t, err)
	})

	t.Run("Lookup sees only user bindings", func(t *testing.T) {
		env := factory()
		require.NoError(t, env.Exec("x = 1; f = function() return 1 end"))

		v, ok := env.Lookup("x")
		assert.True(t, ok)
		assert.Equal(t, "1", v)

		for _, name := range []string{"print", "string", "math", "f"} {
			_, ok := env.Lookup(name)
			assert.False(t, ok, name)
		}
	})

	t.Run("Bindings hide bookkeeping", func(t *testing.T) {
		env := factory()
		assert.Empty(t, env.Bindings())
		require.NoError(t, env.Exec("a = 1; b = 'two'"))
		assert.Equal(t, map[string]string{"a": "1", "b": "two"}, env.Bindings())
	})

	t.Run("Snapshot is independent", func(t *testing.T) {
		env := factory()
		require.NoError(t, env.Exec("x = 1"))
		snap := env.Snapshot()

		require.NoError(t, env.Exec("x = 2; y = 3"))
		require.NoError(t, env.Restore(snap))

		assert.Equal(t, map[string]string{"x": "1"}, env.Bindings())

		// Restoring twice yields the same data space
		require.NoError(t, env.Exec("x = 5"))
		require.NoError(t, env.Restore(snap))
		assert.Equal(t, map[string]string{"x": "1"}, env.Bindings())
	})

	t.Run("SetOutput", func(t *testing.T) {
		env := factory()
		var buf bytes.Buffer
		prev := env.SetOutput(&buf)
		require.NoError(t, env.Exec("print('hello')"))
		env.SetOutput(prev)
		assert.Contains(t, buf.String(), "hello")
	})

	t.Run("Eval", func(t *testing.T) {
		env := factory()
		require.NoError(t, env.Exec("x = 20"))
		v, err := env.Eval("x + 22")
		require.NoError(t, err)
		assert.Equal(t, "42", v)
	})
}

