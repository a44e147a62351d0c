package cache

import (
	"fmt"
	"io"
	"iter"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/dmitrymomot/lrucache/core/logger"
	"github.com/dmitrymomot/lrucache/pkg/pressure"
)

// Entry is a key/value pair copied out of the cache.
type Entry[K comparable, V any] struct {
	Key   K
	Value V
}

// Stats provides observability metrics for monitoring and debugging.
type Stats struct {
	Hits           int64 // Get calls that found the key
	Misses         int64 // Get calls that did not
	Evictions      int64 // Entries dropped to stay within capacity
	PressureClears int64 // Clears triggered by memory pressure
	Len            int   // Current number of entries
	Capacity       int   // Maximum number of entries
}

// LRUCache is a fixed-capacity cache that evicts the least recently used
// entry when a new key would exceed capacity. It is safe for concurrent use.
//
// Every operation that reads or reorders entries runs under one mutex.
// The critical section only does map and link bookkeeping; observers and
// the evict callback are called after the lock is released.
type LRUCache[K comparable, V any] struct {
	mu       sync.Mutex
	capacity int
	index    *index[K]
	list     *recencyList[K, V]
	observer Observer[K]
	onEvict  func(K, V)

	logger      *slog.Logger
	unsubscribe func()
	closeOnce   sync.Once

	hits           atomic.Int64
	misses         atomic.Int64
	evictions      atomic.Int64
	pressureClears atomic.Int64
}

// NewLRUCache creates a cache holding at most capacity entries.
// Capacity must be at least 2.
func NewLRUCache[K comparable, V any](capacity int, opts ...Option) (*LRUCache[K, V], error) {
	if capacity <= 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCapacity, capacity)
	}

	o := options{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(&o)
	}

	c := &LRUCache[K, V]{
		capacity: capacity,
		index:    newIndex[K](capacity),
		list:     newRecencyList[K, V](capacity),
		observer: NopObserver[K]{},
		logger:   o.logger.With(logger.Component("lrucache")),
	}

	if o.source != nil {
		c.unsubscribe = o.source.Subscribe(c.handlePressure)
	}

	return c, nil
}

// MustNewLRUCache is like NewLRUCache but panics on error.
func MustNewLRUCache[K comparable, V any](capacity int, opts ...Option) *LRUCache[K, V] {
	c, err := NewLRUCache[K, V](capacity, opts...)
	if err != nil {
		panic(err)
	}
	return c
}

// SetEvictCallback registers fn to receive every entry evicted for capacity.
// Pass nil to remove it.
func (c *LRUCache[K, V]) SetEvictCallback(fn func(key K, value V)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onEvict = fn
}

// SetObserver replaces the event observer. Pass nil to restore the no-op default.
func (c *LRUCache[K, V]) SetObserver(o Observer[K]) {
	if o == nil {
		o = NopObserver[K]{}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observer = o
}

// Get returns the value for key and marks it most recently used.
func (c *LRUCache[K, V]) Get(key K) (V, bool) {
	value, ok, obs := c.get(key)
	if ok {
		c.hits.Add(1)
		obs.Hit(key)
	} else {
		c.misses.Add(1)
		obs.Miss(key)
	}
	return value, ok
}

func (c *LRUCache[K, V]) get(key K) (V, bool, Observer[K]) {
	c.mu.Lock()
	defer c.mu.Unlock()

	h, ok := c.index.lookup(key)
	if !ok {
		var zero V
		return zero, false, c.observer
	}
	c.list.moveToTail(h)
	return c.list.at(h).value, true, c.observer
}

// Put stores value under key and marks it most recently used.
// Updating an existing key never evicts. Inserting a new key into a full
// cache evicts exactly one entry, the least recently used, and reports true.
func (c *LRUCache[K, V]) Put(key K, value V) bool {
	ev, evicted := c.put(key, value)
	if !evicted {
		return false
	}

	c.evictions.Add(1)
	ev.observer.Evicted(ev.key)
	if ev.onEvict != nil {
		ev.onEvict(ev.key, ev.value)
	}
	return true
}

// eviction carries what Put needs to report after unlocking.
type eviction[K comparable, V any] struct {
	key      K
	value    V
	observer Observer[K]
	onEvict  func(K, V)
}

func (c *LRUCache[K, V]) put(key K, value V) (eviction[K, V], bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if h, ok := c.index.lookup(key); ok {
		c.list.at(h).value = value
		c.list.moveToTail(h)
		return eviction[K, V]{}, false
	}

	h := c.list.alloc(key, value)
	c.index.insert(key, h)
	c.list.append(h)

	// One new key per call, so one eviction restores the bound.
	if c.index.count() <= c.capacity {
		return eviction[K, V]{}, false
	}

	old, ok := c.list.popFront()
	if !ok {
		return eviction[K, V]{}, false
	}
	e := c.list.at(old)
	ev := eviction[K, V]{
		key:      e.key,
		value:    e.value,
		observer: c.observer,
		onEvict:  c.onEvict,
	}
	c.index.erase(e.key)
	c.list.release(old)
	return ev, true
}

// Remove deletes key and returns its value. Removing an absent key is a no-op.
func (c *LRUCache[K, V]) Remove(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	h, ok := c.index.lookup(key)
	if !ok {
		var zero V
		return zero, false
	}
	value := c.list.at(h).value
	c.list.detach(h)
	c.index.erase(key)
	c.list.release(h)
	return value, true
}

// Peek returns the value for key without changing its recency.
func (c *LRUCache[K, V]) Peek(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	h, ok := c.index.lookup(key)
	if !ok {
		var zero V
		return zero, false
	}
	return c.list.at(h).value, true
}

// Contains reports whether key is cached without changing its recency.
func (c *LRUCache[K, V]) Contains(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, ok := c.index.lookup(key)
	return ok
}

// Clear removes every entry.
func (c *LRUCache[K, V]) Clear() {
	n, obs := c.clear()
	obs.Cleared(n, ClearExplicit)
}

func (c *LRUCache[K, V]) clear() (int, Observer[K]) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := c.index.count()
	c.index.clear()
	c.list.clear()
	return n, c.observer
}

// OnMemoryPressure empties the cache. Hosts call it when the system is
// low on memory; a cache built WithPressureSource calls it automatically.
func (c *LRUCache[K, V]) OnMemoryPressure() {
	n, obs := c.clear()
	c.pressureClears.Add(1)
	obs.Cleared(n, ClearMemoryPressure)

	c.logger.Info("cache cleared on memory pressure",
		logger.Event("memory_pressure"),
		logger.Count("entries", n))
}

func (c *LRUCache[K, V]) handlePressure(ev pressure.Event) {
	c.logger.Debug("memory pressure received",
		slog.Float64("used_percent", ev.UsedPercent),
		slog.Time("at", ev.At))
	c.OnMemoryPressure()
}

// Snapshot copies every entry, least recently used first.
// The result does not share memory with the cache.
func (c *LRUCache[K, V]) Snapshot() []Entry[K, V] {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Entry[K, V], 0, c.list.len())
	for h := range c.list.all() {
		e := c.list.at(h)
		out = append(out, Entry[K, V]{Key: e.key, Value: e.value})
	}
	return out
}

// Keys returns the cached keys, least recently used first.
func (c *LRUCache[K, V]) Keys() []K {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]K, 0, c.list.len())
	for h := range c.list.all() {
		out = append(out, c.list.at(h).key)
	}
	return out
}

// Values returns the cached values, least recently used first.
func (c *LRUCache[K, V]) Values() []V {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]V, 0, c.list.len())
	for h := range c.list.all() {
		out = append(out, c.list.at(h).value)
	}
	return out
}

// All ranges over a Snapshot taken when iteration starts.
// The cache may be used freely inside the loop body.
func (c *LRUCache[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for _, e := range c.Snapshot() {
			if !yield(e.Key, e.Value) {
				return
			}
		}
	}
}

// Len returns the number of cached entries.
func (c *LRUCache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.index.count()
}

// Cap returns the maximum number of entries.
func (c *LRUCache[K, V]) Cap() int {
	return c.capacity
}

// Stats returns current cache statistics.
func (c *LRUCache[K, V]) Stats() Stats {
	return Stats{
		Hits:           c.hits.Load(),
		Misses:         c.misses.Load(),
		Evictions:      c.evictions.Load(),
		PressureClears: c.pressureClears.Load(),
		Len:            c.Len(),
		Capacity:       c.capacity,
	}
}

// Close revokes the memory-pressure subscription, if any. After Close
// returns no pressure callback is running or will run. The cache itself
// stays usable. Close is safe to call multiple times.
func (c *LRUCache[K, V]) Close() error {
	c.closeOnce.Do(func() {
		if c.unsubscribe != nil {
			c.unsubscribe()
		}
	})
	return nil
}

// verify checks that the index and recency list agree.
// Tests call it after mutation sequences.
func (c *LRUCache[K, V]) verify() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	l := c.list
	if (l.head == nilHandle) != (l.tail == nilHandle) {
		return fmt.Errorf("%w: head %d and tail %d disagree on emptiness", errInvariant, l.head, l.tail)
	}
	if l.size != c.index.count() {
		return fmt.Errorf("%w: list has %d entries, index has %d", errInvariant, l.size, c.index.count())
	}
	if l.size > c.capacity {
		return fmt.Errorf("%w: %d entries exceed capacity %d", errInvariant, l.size, c.capacity)
	}

	seen := 0
	prev := nilHandle
	for h := l.head; h != nilHandle; h = l.arena[h].next {
		if seen >= l.size {
			return fmt.Errorf("%w: cycle after %d entries", errInvariant, seen)
		}
		e := l.arena[h]
		if e.prev != prev {
			return fmt.Errorf("%w: entry %d prev is %d, want %d", errInvariant, h, e.prev, prev)
		}
		if ih, ok := c.index.lookup(e.key); !ok || ih != h {
			return fmt.Errorf("%w: entry %d key not indexed to it", errInvariant, h)
		}
		prev = h
		seen++
	}
	if prev != l.tail {
		return fmt.Errorf("%w: walk ended at %d, tail is %d", errInvariant, prev, l.tail)
	}
	if seen != l.size {
		return fmt.Errorf("%w: walked %d entries, size is %d", errInvariant, seen, l.size)
	}
	return nil
}
