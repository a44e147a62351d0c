package cache

// index resolves keys to list handles.
type index[K comparable] struct {
	m map[K]handle
}

func newIndex[K comparable](capacity int) *index[K] {
	return &index[K]{m: make(map[K]handle, capacity+1)}
}

func (ix *index[K]) lookup(key K) (handle, bool) {
	h, ok := ix.m[key]
	return h, ok
}

// insert records key. The key must not already be present.
func (ix *index[K]) insert(key K, h handle) {
	ix.m[key] = h
}

// erase drops key. The key must be present.
func (ix *index[K]) erase(key K) {
	delete(ix.m, key)
}

func (ix *index[K]) count() int {
	return len(ix.m)
}

func (ix *index[K]) clear() {
	clear(ix.m)
}
