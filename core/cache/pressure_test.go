package cache_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/lrucache/core/cache"
	"github.com/dmitrymomot/lrucache/pkg/pressure"
)

func TestLRUCache_OnMemoryPressure(t *testing.T) {
	t.Parallel()

	c := cache.MustNewLRUCache[string, int](3)
	c.Put("a", 1)
	c.Put("b", 2)

	c.OnMemoryPressure()

	assert.Empty(t, c.Snapshot())
	_, ok := c.Get("a")
	assert.False(t, ok)
	assert.Equal(t, int64(1), c.Stats().PressureClears)
	require.NoError(t, cache.Verify(c))
}

func TestLRUCache_PressureSource(t *testing.T) {
	t.Parallel()

	t.Run("notification clears the cache", func(t *testing.T) {
		b := pressure.NewBroadcaster()
		c, err := cache.NewLRUCache[string, int](4, cache.WithPressureSource(b))
		require.NoError(t, err)
		defer c.Close()

		c.Put("a", 1)
		c.Put("b", 2)
		require.Equal(t, 1, b.Len())

		assert.Equal(t, 1, b.Notify(pressure.Event{UsedPercent: 97, At: time.Now()}))
		assert.Equal(t, 0, c.Len())
		assert.Equal(t, int64(1), c.Stats().PressureClears)
	})

	t.Run("close revokes the subscription", func(t *testing.T) {
		b := pressure.NewBroadcaster()
		c, err := cache.NewLRUCache[string, int](4, cache.WithPressureSource(b))
		require.NoError(t, err)

		require.NoError(t, c.Close())
		assert.Equal(t, 0, b.Len())

		c.Put("a", 1)
		b.Notify(pressure.Event{})
		assert.Equal(t, 1, c.Len(), "closed cache keeps working but ignores pressure")
		assert.Equal(t, int64(0), c.Stats().PressureClears)

		assert.NoError(t, c.Close(), "close is idempotent")
	})

	t.Run("several caches share one source", func(t *testing.T) {
		b := pressure.NewBroadcaster()
		c1 := cache.MustNewLRUCache[string, int](2, cache.WithPressureSource(b))
		c2 := cache.MustNewLRUCache[int, string](2, cache.WithPressureSource(b))
		defer c1.Close()
		defer c2.Close()

		c1.Put("a", 1)
		c2.Put(1, "a")

		assert.Equal(t, 2, b.Notify(pressure.Event{}))
		assert.Equal(t, 0, c1.Len())
		assert.Equal(t, 0, c2.Len())
	})

	t.Run("close without source", func(t *testing.T) {
		c := cache.MustNewLRUCache[string, int](2)
		assert.NoError(t, c.Close())
	})
}
