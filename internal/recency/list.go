// Package recency provides the ordered entry store behind the LRU cache.
//
// Entries live in an arena and are addressed by a [Handle]. Links between
// entries are handles as well, so the cache index can hold a handle to the same
// entry the list links to without sharing pointers.
//
// Two slots of the arena are permanent sentinels: the front sentinel precedes
// the least recently used entry and the back sentinel follows the most recently
// used one. Every real entry always has two neighbours, so linking and
// unlinking never branch on empty or single-element lists.
//
// A List is not safe for concurrent use.
package recency

import (
	"fmt"
	"iter"
)

// Handle addresses one slot of a List's arena.
type Handle int

const (
	front Handle = iota
	back

	firstEntry
)

// maxPrealloc bounds the number of entry slots New reserves up front. Larger
// lists grow their arena on demand.
const maxPrealloc = 1024

type node[K comparable, V any] struct {
	key        K
	value      V
	prev, next Handle
	linked     bool
	allocated  bool
}

// List is a doubly linked sequence of entries ordered from least recently used
// (front) to most recently used (back).
//
// The zero value is not usable; create instances with [New].
type List[K comparable, V any] struct {
	nodes []node[K, V]
	free  []Handle
	len   int
}

// New creates an empty list whose arena has room for sizeHint entries, up to
// maxPrealloc, before it has to grow.
func New[K comparable, V any](sizeHint int) *List[K, V] {
	sizeHint = max(0, min(sizeHint, maxPrealloc))

	l := &List[K, V]{
		nodes: make([]node[K, V], firstEntry, int(firstEntry)+sizeHint),
	}
	l.link()

	return l
}

// link joins the two sentinels to each other.
func (l *List[K, V]) link() {
	l.nodes[front].next = back
	l.nodes[back].prev = front
}

// Alloc claims a slot for key and value and returns its handle. The entry is
// not part of the order until it is passed to [List.AppendMostRecent].
func (l *List[K, V]) Alloc(key K, value V) Handle {
	var h Handle

	if n := len(l.free); n > 0 {
		h = l.free[n-1]
		l.free = l.free[:n-1]
	} else {
		h = Handle(len(l.nodes))
		l.nodes = append(l.nodes, node[K, V]{})
	}

	l.nodes[h] = node[K, V]{key: key, value: value, allocated: true}

	return h
}

// Release returns an unlinked slot to the arena. The slot's key and value are
// cleared so the arena does not retain them.
func (l *List[K, V]) Release(h Handle) {
	n := l.entry(h)
	if n.linked {
		panic(fmt.Sprintf("recency: release of linked entry %d", h))
	}

	l.nodes[h] = node[K, V]{}
	l.free = append(l.free, h)
}

// AppendMostRecent inserts h immediately before the back sentinel.
func (l *List[K, V]) AppendMostRecent(h Handle) {
	n := l.entry(h)
	if n.linked {
		panic(fmt.Sprintf("recency: append of linked entry %d", h))
	}

	last := l.nodes[back].prev

	n.prev = last
	n.next = back
	n.linked = true
	l.nodes[last].next = h
	l.nodes[back].prev = h

	l.len++
}

// MoveToMostRecent relinks an entry already in the list immediately before the
// back sentinel.
func (l *List[K, V]) MoveToMostRecent(h Handle) {
	if n := l.entry(h); n.linked && l.nodes[back].prev == h {
		return
	}

	l.Remove(h)
	l.AppendMostRecent(h)
}

// Remove unlinks h by joining its neighbours. The slot stays allocated; call
// [List.Release] to free it.
func (l *List[K, V]) Remove(h Handle) {
	n := l.entry(h)
	if !n.linked {
		panic(fmt.Sprintf("recency: remove of unlinked entry %d", h))
	}

	l.nodes[n.prev].next = n.next
	l.nodes[n.next].prev = n.prev
	n.prev, n.next = front, front
	n.linked = false

	l.len--
}

// LeastRecent returns the entry right after the front sentinel.
func (l *List[K, V]) LeastRecent() (Handle, bool) {
	h := l.nodes[front].next
	if h == back {
		return 0, false
	}

	return h, true
}

// MostRecent returns the entry right before the back sentinel.
func (l *List[K, V]) MostRecent() (Handle, bool) {
	h := l.nodes[back].prev
	if h == front {
		return 0, false
	}

	return h, true
}

// Key returns the key stored at h.
func (l *List[K, V]) Key(h Handle) K {
	return l.entry(h).key
}

// Value returns the value stored at h.
func (l *List[K, V]) Value(h Handle) V {
	return l.entry(h).value
}

// SetValue replaces the value stored at h.
func (l *List[K, V]) SetValue(h Handle, value V) {
	l.entry(h).value = value
}

// Len returns the number of linked entries.
func (l *List[K, V]) Len() int {
	return l.len
}

// All yields linked entries from least to most recently used.
func (l *List[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for h := l.nodes[front].next; h != back; h = l.nodes[h].next {
			if !yield(l.nodes[h].key, l.nodes[h].value) {
				return
			}
		}
	}
}

// Backward yields linked entries from most to least recently used.
func (l *List[K, V]) Backward() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for h := l.nodes[back].prev; h != front; h = l.nodes[h].prev {
			if !yield(l.nodes[h].key, l.nodes[h].value) {
				return
			}
		}
	}
}

// Handles yields the handles of linked entries from least to most recently
// used.
func (l *List[K, V]) Handles() iter.Seq[Handle] {
	return func(yield func(Handle) bool) {
		for h := l.nodes[front].next; h != back; h = l.nodes[h].next {
			if !yield(h) {
				return
			}
		}
	}
}

// Reset drops every entry and releases the arena's slots, keeping its
// allocated capacity.
func (l *List[K, V]) Reset() {
	clear(l.nodes)
	l.nodes = l.nodes[:firstEntry]
	l.free = l.free[:0]
	l.len = 0
	l.link()
}

// entry returns the allocated slot at h. Sentinels and free slots are never
// valid entries.
func (l *List[K, V]) entry(h Handle) *node[K, V] {
	if h < firstEntry || int(h) >= len(l.nodes) || !l.nodes[h].allocated {
		panic(fmt.Sprintf("recency: invalid entry handle %d", h))
	}

	return &l.nodes[h]
}
