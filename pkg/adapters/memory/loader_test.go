package memory_test

import (
	"context"
	"testing"

	"github.com/aretw0/mbt/internal/testutils"
	"github.com/aretw0/mbt/pkg/adapters/memory"
	"github.com/aretw0/mbt/pkg/domain"
	contract "github.com/aretw0/mbt/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
)

func TestInMemoryLoader_Contract(t *testing.T) {
	loader := memory.NewLoader(testutils.CounterModel(t))

	contract.ModelLoaderContractTest(t, loader, "A", 3)
}

func TestInMemoryLoader_InvalidModel(t *testing.T) {
	loader := memory.NewLoader(&domain.Model{Name: "broken"})

	_, err := loader.Load(context.Background())
	assert.ErrorIs(t, err, domain.ErrModelInvalid)
}
