package binding_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ByLCY/litelayout/binding"
)

func sampleData() map[string]any {
	return map[string]any{
		"user": map[string]any{"name": "Ada"},
		"items": []any{
			map[string]any{"title": "first"},
			map[string]any{"title": "second"},
		},
		"count": float64(3),
	}
}

func TestInterpolate(t *testing.T) {
	data := sampleData()
	assert.Equal(t, "Hello, Ada!", binding.Interpolate("Hello, ${user.name}!", data))
	assert.Equal(t, "second", binding.Interpolate("${items[1].title}", data))
	assert.Equal(t, "${user.age}", binding.Interpolate("${user.age}", data), "missing paths stay verbatim")
	assert.Equal(t, "${x}", binding.Interpolate("${x}", nil))
}

func TestScopeLoopVariablesShadowData(t *testing.T) {
	root := binding.NewScope(sampleData())
	inner := root.With("user", map[string]any{"name": "Grace"}).With("index", 4)

	assert.Equal(t, "Grace #4", inner.Interpolate("${user.name} #${index}"))
	assert.Equal(t, "Ada", root.Interpolate("${user.name}"))

	v, ok := inner.Lookup("data.items[0].title")
	require.True(t, ok)
	assert.Equal(t, "first", v)
}

func TestScopeItems(t *testing.T) {
	s := binding.NewScope(sampleData())

	items, err := s.Items("items")
	require.NoError(t, err)
	assert.Len(t, items, 2)

	items, err = s.Items("5")
	require.NoError(t, err)
	assert.Equal(t, []any{0, 1, 2, 3, 4}, items)

	items, err = s.Items("count")
	require.NoError(t, err)
	assert.Len(t, items, 3)

	_, err = s.Items("user")
	assert.Error(t, err)
	_, err = s.Items("missing")
	assert.Error(t, err)
	_, err = s.Items("-1")
	assert.Error(t, err)
}
