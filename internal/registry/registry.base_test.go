package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_RegisterAndGet(t *testing.T) {
	r := NewRegistry[int]()

	isNew, err := r.Register("alpha", 1)
	require.NoError(t, err)
	assert.True(t, isNew)

	v, ok := r.Get("alpha")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	_, ok = r.Get("missing")
	assert.False(t, ok)
}

func TestRegistry_RegisterExistingOverwrites(t *testing.T) {
	r := NewRegistry[string]()

	_, err := r.Register("key", "first")
	require.NoError(t, err)
	isNew, err := r.Register("key", "second")
	require.NoError(t, err)
	assert.False(t, isNew)

	v, _ := r.Get("key")
	assert.Equal(t, "second", v)
	assert.Equal(t, 1, r.Count())
}

func TestRegistry_EmptyNameRejected(t *testing.T) {
	r := NewRegistry[int]()
	_, err := r.Register("", 1)
	assert.Error(t, err)
}

func TestRegistry_Unregister(t *testing.T) {
	r := NewRegistry[int]()
	_, _ = r.Register("alpha", 1)
	_, _ = r.Register("beta", 2)

	r.Unregister("alpha")

	_, ok := r.Get("alpha")
	assert.False(t, ok)
	assert.Equal(t, 1, r.Count())
	assert.Equal(t, []string{"beta"}, r.Names())
}
