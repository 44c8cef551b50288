package memory_test

import (
	"context"
	"testing"

	"github.com/aretw0/formwork/pkg/adapters/memory"
	"github.com/aretw0/formwork/pkg/domain"
	contract "github.com/aretw0/formwork/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryLoader_Contract(t *testing.T) {
	loader := memory.NewLoader(map[string][]domain.Content{
		"signup": {
			&domain.Control{Base: domain.Base{ID: "name", Type: "text"}},
			&domain.Group{Base: domain.Base{ID: "address"}},
		},
		"contact": {
			&domain.Control{Base: domain.Base{ID: "email", Type: "email"}},
		},
	})

	contract.ContentLoaderContractTest(t, loader, map[string][]string{
		"signup":  {"name", "address"},
		"contact": {"email"},
	})
}

func TestInMemoryLoader_Put(t *testing.T) {
	loader := memory.NewLoader(nil)

	_, err := loader.Load(context.Background(), "late")
	require.ErrorIs(t, err, domain.ErrFormNotFound)

	loader.Put("late", []domain.Content{&domain.Control{Base: domain.Base{ID: "a"}}})
	content, err := loader.Load(context.Background(), "late")
	require.NoError(t, err)
	assert.Len(t, content, 1)
}
