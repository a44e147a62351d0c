package cache

// Verify exposes the internal consistency check to external tests.
func Verify[K comparable, V any](c *LRUCache[K, V]) error {
	return c.verify()
}

// ArenaLen reports how many slots the entry arena holds.
func ArenaLen[K comparable, V any](c *LRUCache[K, V]) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.list.arena)
}
