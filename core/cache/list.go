package cache

import "iter"

// handle identifies an entry slot in the list arena.
// Handles carry no ownership and are recycled after release.
type handle int32

const nilHandle handle = -1

// entry is one key/value pair plus its recency links.
type entry[K comparable, V any] struct {
	key   K
	value V
	prev  handle
	next  handle
}

// recencyList orders live entries from least-recently-used (head)
// to most-recently-used (tail). Entries are stored in a dense arena
// and link to each other by handle.
type recencyList[K comparable, V any] struct {
	arena []entry[K, V]
	free  []handle
	head  handle
	tail  handle
	size  int
}

func newRecencyList[K comparable, V any](capacity int) *recencyList[K, V] {
	// One extra slot: a new key is linked before the head is evicted.
	return &recencyList[K, V]{
		arena: make([]entry[K, V], 0, capacity+1),
		head:  nilHandle,
		tail:  nilHandle,
	}
}

// alloc places key and value in an unlinked slot.
func (l *recencyList[K, V]) alloc(key K, value V) handle {
	e := entry[K, V]{key: key, value: value, prev: nilHandle, next: nilHandle}
	if n := len(l.free); n > 0 {
		h := l.free[n-1]
		l.free = l.free[:n-1]
		l.arena[h] = e
		return h
	}
	l.arena = append(l.arena, e)
	return handle(len(l.arena) - 1)
}

// release returns a detached slot to the free list. The slot is zeroed
// so the arena does not keep caller values reachable.
func (l *recencyList[K, V]) release(h handle) {
	l.arena[h] = entry[K, V]{prev: nilHandle, next: nilHandle}
	l.free = append(l.free, h)
}

func (l *recencyList[K, V]) at(h handle) *entry[K, V] {
	return &l.arena[h]
}

func (l *recencyList[K, V]) len() int {
	return l.size
}

// append links h at the tail. h must not be linked.
func (l *recencyList[K, V]) append(h handle) {
	e := &l.arena[h]
	e.prev = l.tail
	e.next = nilHandle
	if l.tail == nilHandle {
		l.head = h
	} else {
		l.arena[l.tail].next = h
	}
	l.tail = h
	l.size++
}

// detach unlinks h from wherever it sits and resets its links.
// h must be linked.
func (l *recencyList[K, V]) detach(h handle) {
	e := &l.arena[h]
	if e.prev == nilHandle {
		l.head = e.next
	} else {
		l.arena[e.prev].next = e.next
	}
	if e.next == nilHandle {
		l.tail = e.prev
	} else {
		l.arena[e.next].prev = e.prev
	}
	e.prev = nilHandle
	e.next = nilHandle
	l.size--
}

// popFront detaches and returns the head.
func (l *recencyList[K, V]) popFront() (handle, bool) {
	h := l.head
	if h == nilHandle {
		return nilHandle, false
	}
	l.detach(h)
	return h, true
}

// moveToTail promotes h to most-recently-used.
func (l *recencyList[K, V]) moveToTail(h handle) {
	if h == l.tail {
		return
	}
	l.detach(h)
	l.append(h)
}

// clear drops every entry at once. Callers must drop their index
// at the same time: all handles become invalid.
func (l *recencyList[K, V]) clear() {
	clear(l.arena)
	l.arena = l.arena[:0]
	l.free = l.free[:0]
	l.head = nilHandle
	l.tail = nilHandle
	l.size = 0
}

// all walks the list from head to tail. It must not be used while the
// list is being mutated.
func (l *recencyList[K, V]) all() iter.Seq[handle] {
	return func(yield func(handle) bool) {
		for h := l.head; h != nilHandle; h = l.arena[h].next {
			if !yield(h) {
				return
			}
		}
	}
}
