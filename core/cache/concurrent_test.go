package cache_test

import (
	"fmt"
	"math/rand/v2"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/lrucache/core/cache"
)

func TestLRUCache_ConcurrentSafety(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping race condition test in short mode")
	}

	t.Parallel()

	const (
		capacity   = 16
		goroutines = 32
		opsPerG    = 2000
		keySpace   = 64
	)

	c := cache.MustNewLRUCache[string, int](capacity)

	var evicted atomic.Int64
	c.SetEvictCallback(func(string, int) {
		evicted.Add(1)
	})

	var g errgroup.Group
	for id := range goroutines {
		g.Go(func() error {
			r := rand.New(rand.NewPCG(uint64(id), 42))
			for i := range opsPerG {
				key := fmt.Sprintf("k%d", r.IntN(keySpace))
				switch r.IntN(10) {
				case 0:
					c.Remove(key)
				case 1, 2, 3:
					if v, ok := c.Get(key); ok && v < 0 {
						return fmt.Errorf("corrupted value %d for %s", v, key)
					}
				case 4:
					_ = c.Snapshot()
				default:
					c.Put(key, i)
				}
				if n := c.Len(); n > capacity {
					return fmt.Errorf("len %d exceeds capacity %d", n, capacity)
				}
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	require.NoError(t, cache.Verify(c))
	assert.LessOrEqual(t, c.Len(), capacity)
	assert.Equal(t, evicted.Load(), c.Stats().Evictions)

	seen := make(map[string]bool)
	for _, e := range c.Snapshot() {
		assert.False(t, seen[e.Key], "duplicate key %s", e.Key)
		seen[e.Key] = true
	}
}

func TestLRUCache_ConcurrentDistinctKeys(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping race condition test in short mode")
	}

	t.Parallel()

	const (
		capacity   = 100
		goroutines = 10
		perG       = 10
	)

	c := cache.MustNewLRUCache[string, int](capacity)

	var g errgroup.Group
	for id := range goroutines {
		g.Go(func() error {
			for i := range perG {
				c.Put(fmt.Sprintf("g%d-%d", id, i), id*perG+i)
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	// Exactly capacity distinct keys were written: nothing lost, nothing evicted.
	assert.Equal(t, capacity, c.Len())
	assert.Equal(t, int64(0), c.Stats().Evictions)
	for id := range goroutines {
		for i := range perG {
			v, ok := c.Peek(fmt.Sprintf("g%d-%d", id, i))
			require.True(t, ok)
			assert.Equal(t, id*perG+i, v)
		}
	}
	require.NoError(t, cache.Verify(c))
}
