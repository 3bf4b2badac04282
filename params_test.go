package mapq

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParamsOrder(t *testing.T) {
	p := NewParams().
		Set("b", 1).
		Set("a", 2).
		Set("c", 3)
	assert.Equal(t, []string{"b", "a", "c"}, p.Keys())

	// Overwriting keeps the original position.
	p.Set("b", 9)
	assert.Equal(t, []string{"b", "a", "c"}, p.Keys())
	assert.Equal(t, 9, p.Get("b").MustGet())

	p.Delete("a")
	assert.Equal(t, []string{"b", "c"}, p.Keys())
	assert.False(t, p.Get("a").IsPresent())
	assert.Equal(t, 2, p.Len())
}

func TestParamsClone(t *testing.T) {
	p := NewParams().Set("a", 1).Set("b", 2)
	q := p.Clone()
	q.Set("c", 3)
	q.Delete("a")
	q.Set("b", 9)

	assert.Equal(t, []string{"a", "b"}, p.Keys())
	assert.Equal(t, 1, p.Get("a").MustGet())
	assert.Equal(t, 2, p.Get("b").MustGet())
	assert.Equal(t, []string{"b", "c"}, q.Keys())
}

func TestParamsFromJSON(t *testing.T) {
	t.Run("object", func(t *testing.T) {
		res := ParamsFromJSON(`{"origin":[38.5,-120.2],"mode":"driving","alternatives":true,"components":{"country":"US"}}`)
		require.False(t, res.IsError())
		p := res.MustGet()
		assert.Equal(t, []string{"origin", "mode", "alternatives", "components"}, p.Keys())
		assert.Equal(t, "driving", p.Get("mode").MustGet())
		assert.Equal(t, true, p.Get("alternatives").MustGet())
		assert.Equal(t, []any{38.5, -120.2}, p.Get("origin").MustGet())
		assert.Equal(t, map[string]any{"country": "US"}, p.Get("components").MustGet())
	})

	t.Run("not_an_object", func(t *testing.T) {
		assert.True(t, ParamsFromJSON(`[1,2]`).IsError())
	})

	t.Run("invalid", func(t *testing.T) {
		assert.True(t, ParamsFromJSON(`{"a":`).IsError())
	})
}
