package registry_test

import (
	"sync"
	"testing"

	"github.com/aretw0/formwork/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	r := registry.New[int]()
	r.Register("b", 2)
	r.Register("a", 1)
	r.Register("a", 10) // overwrite

	v, err := r.Get("a")
	require.NoError(t, err)
	assert.Equal(t, 10, v)

	_, err = r.Get("missing")
	assert.ErrorContains(t, err, "not registered: missing")

	assert.True(t, r.Has("b"))
	assert.Equal(t, []string{"a", "b"}, r.Keys())
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	r := registry.New[string]()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			r.Register("k", "v")
		}()
		go func() {
			defer wg.Done()
			_, _ = r.Lookup("k")
		}()
	}
	wg.Wait()
	assert.True(t, r.Has("k"))
}
