package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	t.Run("defaults invalid values", func(t *testing.T) {
		p := New(0, -5)
		assert.Equal(t, 1, p.Page)
		assert.Equal(t, DefaultLimit, p.Limit)
		assert.Equal(t, 0, p.Offset)
	})

	t.Run("caps limit", func(t *testing.T) {
		p := New(1, 500)
		assert.Equal(t, MaxLimit, p.Limit)
	})

	t.Run("computes offset", func(t *testing.T) {
		p := New(3, 10)
		assert.Equal(t, 20, p.Offset)
	})
}

func TestGetMeta(t *testing.T) {
	t.Run("partial last page", func(t *testing.T) {
		meta := GetMeta(New(1, 10), 25)
		assert.Equal(t, 3, meta.Pages)
		assert.True(t, meta.HasNext)
		assert.False(t, meta.HasPrev)
	})

	t.Run("middle page", func(t *testing.T) {
		meta := GetMeta(New(2, 10), 25)
		assert.True(t, meta.HasNext)
		assert.True(t, meta.HasPrev)
	})

	t.Run("last page", func(t *testing.T) {
		meta := GetMeta(New(3, 10), 25)
		assert.False(t, meta.HasNext)
		assert.True(t, meta.HasPrev)
	})

	t.Run("empty result", func(t *testing.T) {
		meta := GetMeta(New(1, 10), 0)
		assert.Equal(t, 0, meta.Pages)
		assert.False(t, meta.HasNext)
	})
}
