package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/mbt/internal/testutils"
	"github.com/aretw0/mbt/pkg/adapters/file"
	"github.com/aretw0/mbt/pkg/domain"
	contract "github.com/aretw0/mbt/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoader_Contract(t *testing.T) {
	t.Run("YAML", func(t *testing.T) {
		contract.ModelLoaderContractTest(t, file.New("testdata/counter.yaml"), "A", 3)
	})
	t.Run("JSON", func(t *testing.T) {
		contract.ModelLoaderContractTest(t, file.New("testdata/ring.json"), "S0", 3)
	})
}

func TestLoader_YAML(t *testing.T) {
	model, err := file.New("testdata/counter.yaml").Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "counter", model.Name)
	assert.Equal(t, "x = 0", model.Init)
	assert.Equal(t, []string{"REQ-1"}, model.State("A").Labels)

	back := model.Transition("e2")
	require.NotNil(t, back, "transitions without ID are numbered by position")
	assert.Equal(t, "e_back", back.Label)
	assert.Equal(t, "B", back.Source.ID)
	assert.Equal(t, "A", back.Target.ID)
	assert.Equal(t, "x = x + 1", back.Action)
	assert.Equal(t, "x > 0", model.Transition("e1").Guard)
}

func TestLoader_NameFromFile(t *testing.T) {
	model, err := file.New("testdata/ring.json").Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ring", model.Name)
}

func TestLoader_Errors(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		return path
	}

	t.Run("Missing file", func(t *testing.T) {
		_, err := file.New(filepath.Join(dir, "nope.yaml")).Load(context.Background())
		assert.Error(t, err)
	})

	t.Run("Unknown extension", func(t *testing.T) {
		_, err := file.New(write("model.graphml", "<graphml/>")).Load(context.Background())
		assert.ErrorContains(t, err, "unsupported model format")
	})

	t.Run("Unknown key", func(t *testing.T) {
		_, err := file.New(write("typo.yaml", "statez: []\n")).Load(context.Background())
		assert.Error(t, err)
	})

	t.Run("Dangling transition", func(t *testing.T) {
		path := write("dangling.yaml", "states: [{id: A}]\ntransitions: [{label: x, from: A, to: Z}]\n")
		_, err := file.New(path).Load(context.Background())
		assert.ErrorIs(t, err, domain.ErrModelInvalid)
	})
}

func TestSave_RoundTrip(t *testing.T) {
	model := testutils.CounterModel(t)

	for _, name := range []string{"model.yaml", "model.json"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			require.NoError(t, file.Save(model, path))

			loaded, err := file.New(path).Load(context.Background())
			require.NoError(t, err)
			assert.Equal(t, model.Name, loaded.Name)
			assert.Equal(t, model.Init, loaded.Init)
			assert.Equal(t, model.Initial.ID, loaded.Initial.ID)
			require.Len(t, loaded.Transitions, len(model.Transitions))
			for i, tr := range model.Transitions {
				assert.Equal(t, tr.String(), loaded.Transitions[i].String())
				assert.Equal(t, tr.Guard, loaded.Transitions[i].Guard)
				assert.Equal(t, tr.Action, loaded.Transitions[i].Action)
			}
		})
	}

	assert.Error(t, file.Save(model, filepath.Join(t.TempDir(), "model.txt")))
}
