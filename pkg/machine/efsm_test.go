package machine_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/aretw0/mbt/internal/testutils"
	"github.com/aretw0/mbt/pkg/adapters/lua"
	"github.com/aretw0/mbt/pkg/domain"
	"github.com/aretw0/mbt/pkg/dsl"
	"github.com/aretw0/mbt/pkg/machine"
	"github.com/aretw0/mbt/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCounter(t *testing.T, opts ...machine.Option) (*machine.EFSM, *domain.Model) {
	t.Helper()
	model := testutils.CounterModel(t)
	m, err := machine.NewEFSM(model, testutils.NewEnvironment(t), opts...)
	require.NoError(t, err)
	return m, model
}

func TestEFSM_InitScript(t *testing.T) {
	m, _ := newCounter(t)

	assert.Equal(t, "A/x=0;", m.StateLabel())
	assert.Equal(t, map[string]string{"x": "0"}, m.Data())
}

func TestEFSM_GuardFiltering(t *testing.T) {
	m, model := newCounter(t)
	require.NoError(t, m.WalkEdge(model.Transition("e0")))

	edges, err := m.OutgoingTransitions()
	require.NoError(t, err)
	require.Len(t, edges, 1, "e_finish is guarded by x > 0")
	assert.Equal(t, "e_back", edges[0].Label)

	// The filtered set is a subset of the structural one
	base, err := m.FSM.OutgoingTransitions()
	require.NoError(t, err)
	assert.Subset(t, base, edges)

	require.NoError(t, m.WalkEdge(model.Transition("e2"))) // x = 1
	require.NoError(t, m.WalkEdge(model.Transition("e0")))

	edges, err = m.OutgoingTransitions()
	require.NoError(t, err)
	assert.Len(t, edges, 2)
	assert.Equal(t, "B/x=1;", m.StateLabel())
}

func TestEFSM_DeadEnd(t *testing.T) {
	b := dsl.New("blocked")
	b.Init("open = false")
	b.Add("A").Branch("e_open", "open", "B")
	model := b.MustBuild()

	m, err := machine.NewEFSM(model, testutils.NewEnvironment(t))
	require.NoError(t, err)

	_, err = m.OutgoingTransitions()
	assert.ErrorIs(t, err, domain.ErrNoAccessibleEdge)
	assert.True(t, machine.IsDeadEnd(err))
}

func TestEFSM_MalformedScripts(t *testing.T) {
	t.Run("Guard", func(t *testing.T) {
		b := dsl.New("bad-guard")
		b.Add("A").Branch("e", "y >", "B")
		m, err := machine.NewEFSM(b.MustBuild(), testutils.NewEnvironment(t))
		require.NoError(t, err)

		_, err = m.OutgoingTransitions()
		assert.ErrorIs(t, err, domain.ErrMalformedGuard)
		assert.False(t, machine.IsDeadEnd(err))

		var scriptErr *domain.ScriptError
		require.ErrorAs(t, err, &scriptErr)
		assert.Equal(t, "e0", scriptErr.Transition)
	})

	t.Run("Action", func(t *testing.T) {
		b := dsl.New("bad-action")
		b.Add("A").Go("e", "B").Then("x = = 1")
		model := b.MustBuild()
		m, err := machine.NewEFSM(model, testutils.NewEnvironment(t))
		require.NoError(t, err)

		err = m.WalkEdge(model.Transition("e0"))
		assert.ErrorIs(t, err, domain.ErrMalformedAction)
	})

	t.Run("Init", func(t *testing.T) {
		b := dsl.New("bad-init")
		b.Init("x = ")
		b.Add("A").Go("e", "B")
		_, err := machine.NewEFSM(b.MustBuild(), testutils.NewEnvironment(t))
		assert.ErrorIs(t, err, domain.ErrMalformedAction)
	})
}

func TestEFSM_BacktrackRestoresData(t *testing.T) {
	m, model := newCounter(t, machine.WithBacktrack(true))

	path := []string{"e0", "e2", "e0", "e2", "e0", "e1"}
	labels := []string{m.StateLabel()}
	for _, id := range path {
		require.NoError(t, m.WalkEdge(model.Transition(id)))
		labels = append(labels, m.StateLabel())
	}
	assert.Equal(t, "C/x=2;", m.StateLabel())

	for i := len(path) - 1; i >= 0; i-- {
		require.NoError(t, m.Backtrack())
		assert.Equal(t, labels[i], m.StateLabel(), "after undoing step %d", i)
	}
	assert.Equal(t, "A/x=0;", m.StateLabel())
	assert.ErrorIs(t, m.Backtrack(), domain.ErrBacktrack)
}

func TestEFSM_LookupAndEvaluate(t *testing.T) {
	m, _ := newCounter(t)

	v, err := m.Lookup("x")
	require.NoError(t, err)
	assert.Equal(t, "0", v)

	_, err = m.Lookup("nope")
	assert.ErrorIs(t, err, domain.ErrInvalidData)

	v, err = m.Evaluate("x + 40 + 2")
	require.NoError(t, err)
	assert.Equal(t, "42", v)

	_, err = m.Evaluate("x +")
	assert.ErrorIs(t, err, domain.ErrInvalidData)
}

func TestEFSM_OutputIsSilenced(t *testing.T) {
	var out bytes.Buffer
	env, err := lua.New(lua.WithOutput(&out))
	require.NoError(t, err)
	defer env.Close()

	b := dsl.New("chatty")
	b.Init("print('init')")
	b.Add("A").Branch("e", "print('guard') or true", "B").Then("print('action')")
	model := b.MustBuild()

	m, err := machine.NewEFSM(model, env)
	require.NoError(t, err)
	edges, err := m.OutgoingTransitions()
	require.NoError(t, err)
	require.NoError(t, m.WalkEdge(edges[0]))

	assert.Empty(t, out.String())

	// The caller's sink is back in place
	require.NoError(t, env.Exec("print('caller')"))
	assert.Equal(t, "caller\n", out.String())
}

func TestEFSM_Planning(t *testing.T) {
	var out bytes.Buffer
	env, err := lua.New(lua.WithOutput(&out))
	require.NoError(t, err)
	defer env.Close()

	m, err := machine.NewEFSM(testutils.CounterModel(t), env)
	require.NoError(t, err)

	m.SetPlanning(true)
	m.SetPlanning(true)
	assert.True(t, m.Planning())
	require.NoError(t, env.Exec("print('hidden')"))

	m.SetPlanning(false)
	m.SetPlanning(false)
	assert.False(t, m.Planning())
	require.NoError(t, env.Exec("print('shown')"))

	assert.Equal(t, "shown\n", out.String())
}

type failingRestore struct {
	*lua.Environment
}

func (failingRestore) Restore(ports.Snapshot) error {
	return errors.New("restore failed")
}

func TestEFSM_FailedRestoreKeepsPosition(t *testing.T) {
	model := testutils.CounterModel(t)
	m, err := machine.NewEFSM(model, failingRestore{testutils.NewEnvironment(t)}, machine.WithBacktrack(true))
	require.NoError(t, err)

	require.NoError(t, m.WalkEdge(model.Transition("e0")))
	require.NoError(t, m.WalkEdge(model.Transition("e2")))
	require.Equal(t, "A/x=1;", m.StateLabel())

	for range 2 {
		err := m.Backtrack()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "restore failed")
		assert.Equal(t, "A/x=1;", m.StateLabel())
		assert.Equal(t, 2, m.Depth())
	}
}

func TestEFSM_LookupIgnoresBuiltins(t *testing.T) {
	m, _ := newCounter(t)

	v, err := m.Lookup("x")
	require.NoError(t, err)
	assert.Equal(t, "0", v)

	for _, name := range []string{"print", "string", "tostring"} {
		_, err := m.Lookup(name)
		assert.ErrorIs(t, err, domain.ErrInvalidData, name)
	}
}
