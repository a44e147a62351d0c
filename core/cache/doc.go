// Package cache provides a thread-safe, fixed-capacity LRU cache with
// constant-time Get, Put, and Remove.
//
// # Features
//
//   - Generic type parameters for compile-time type safety
//   - LRU (Least Recently Used) eviction, at most one entry per Put
//   - Capacity fixed at construction (at least 2)
//   - Point-in-time snapshots in recency order
//   - Memory-pressure hook that empties the cache
//   - Optional eviction callback and event observer, both called outside the lock
//   - Hit, miss, eviction, and pressure counters
//
// # Usage
//
//	import "github.com/dmitrymomot/lrucache/core/cache"
//
//	// Create a cache with capacity of 100 items
//	c, err := cache.NewLRUCache[string, *User](100)
//	if err != nil {
//		return err
//	}
//
//	// Store values
//	c.Put("user:123", &User{ID: 123, Name: "John"})
//	c.Put("user:456", &User{ID: 456, Name: "Jane"})
//
//	// Retrieve values; a hit marks the entry most recently used
//	if user, found := c.Get("user:123"); found {
//		fmt.Printf("Found user: %s\n", user.Name)
//	}
//
//	// Remove values
//	if user, found := c.Remove("user:123"); found {
//		fmt.Printf("Removed user: %s\n", user.Name)
//	}
//
// A capacity below 2 is rejected with ErrInvalidCapacity. MustNewLRUCache
// panics instead, which suits package-level variables.
//
// # Recency Order
//
// Entries are kept from least to most recently used. Get and Put both
// count as use; Peek and Contains do not.
//
//	c := cache.MustNewLRUCache[string, int](3)
//	c.Put("a", 1)
//	c.Put("b", 2)
//	c.Put("c", 3)
//	c.Get("a")    // order: b, c, a
//	c.Put("d", 4) // evicts b; order: c, a, d
//
//	for _, e := range c.Snapshot() {
//		fmt.Println(e.Key, e.Value) // c 3, a 1, d 4
//	}
//
// Snapshot, Keys, Values, and All copy the entries under the lock, so the
// cache may be modified while the copy is being consumed.
//
// # Eviction Callbacks
//
// Set up callbacks to handle resource cleanup when items are evicted:
//
//	connections := cache.MustNewLRUCache[string, net.Conn](50)
//	connections.SetEvictCallback(func(key string, conn net.Conn) {
//		conn.Close()
//	})
//
// The callback runs after the cache lock is released and may call back
// into the cache. Remove and Clear do not invoke it.
//
// # Observers
//
// An Observer receives hit, miss, eviction, and clear events. NopObserver
// is the default. LogObserver writes them to a slog.Logger at debug level,
// and the cachemetrics package exports them to Prometheus:
//
//	c.SetObserver(cache.MultiObserver[string](
//		cache.NewLogObserver[string](log),
//		metrics,
//	))
//
// # Memory Pressure
//
// OnMemoryPressure empties the cache. Instead of calling it by hand, pass
// a pressure.Source at construction; the cache subscribes and Close
// revokes the subscription:
//
//	w, _ := pressure.NewWatcher(pressure.DefaultWatcherConfig())
//	c, err := cache.NewLRUCache[string, []byte](1000,
//		cache.WithPressureSource(w),
//		cache.WithLogger(log),
//	)
//	if err != nil {
//		return err
//	}
//	defer c.Close()
//
// After Close returns, no pressure callback is running or will run.
//
// # Thread Safety
//
// All cache operations are safe to call concurrently. Readers and writers
// share one exclusive lock, because Get reorders entries.
//
// # Performance Characteristics
//
//   - Get: O(1) average case
//   - Put: O(1) average case
//   - Remove: O(1) average case
//   - Snapshot, Keys, Values: O(n)
//   - Memory: O(capacity)
//
// Entries live in a dense arena and link to their neighbours by index,
// with a map from key to arena slot. Freed slots are reused, so the arena
// never grows past capacity+1.
package cache
