// Package lru provides a thread-safe, capacity-bounded LRU (Least Recently Used)
// cache implementation.
//
// # How LRU Works
//
// The cache pairs two structures:
//   - An index mapping each key to the handle of its entry
//   - A recency list ordering entries from least to most recently used
//
// Every [Cache.Get] hit and every [Cache.Put] moves the touched entry to the
// most recently used end of the list. When a new key arrives while the cache
// holds capacity entries, the entry at the least recently used end is evicted
// first, so the size never exceeds the capacity.
//
// # Thread Safety
//
// All methods are safe for concurrent use. A single mutex guards the index and
// the list together: Get reorders the list, so there is no read-only path.
//
// # Performance
//
// Get, Put, Peek, Delete and Len are O(1) expected time.
//
// # Example Usage
//
//	cache, err := lru.New[string, int](2)
//	if err != nil {
//	    return err
//	}
//	cache.Put("a", 1)
//	cache.Put("b", 2)
//	cache.Get("a")      // "a" becomes most recently used
//	cache.Put("c", 3)   // evicts "b"
package lru

import (
	"errors"
	"fmt"
	"iter"
	"sync"

	"github.com/lightningnetwork/lnd/fn/v2"
	"github.com/serroba/lrucache/internal/recency"
)

// ErrInvalidCapacity is returned by [New] when the requested capacity is not
// positive.
var ErrInvalidCapacity = errors.New("lru: capacity must be at least 1")

// EvictCallback is called for every entry removed to make room for a new key.
type EvictCallback[K comparable, V any] func(key K, value V)

// Option configures a [Cache] at construction time.
type Option[K comparable, V any] func(*Cache[K, V])

// WithEvictCallback registers cb to be called after an entry has been evicted
// by capacity pressure. Entries removed with [Cache.Delete] or [Cache.Purge]
// are not reported.
//
// The callback runs after the cache lock is released, so it may call back into
// the cache.
func WithEvictCallback[K comparable, V any](cb EvictCallback[K, V]) Option[K, V] {
	return func(c *Cache[K, V]) {
		c.onEvict = cb
	}
}

type pair[K comparable, V any] struct {
	key   K
	value V
}

// Cache implements a fixed-capacity LRU cache.
//
// Only the Cache mutates its index and recency list, and it always mutates
// both under the same lock, so a key is indexed if and only if its entry is
// linked in the list.
//
// The zero value is not usable; create instances with [New].
type Cache[K comparable, V any] struct {
	mu       sync.Mutex
	capacity int
	items    map[K]recency.Handle
	list     *recency.List[K, V]
	onEvict  EvictCallback[K, V]
	stats    counters
}

// New creates a new LRU cache holding at most capacity entries.
//
// A capacity below 1 is a configuration error: New returns an error wrapping
// [ErrInvalidCapacity] and no cache.
//
// Example:
//
//	cache, err := lru.New[string, *Session](1000,
//	    lru.WithEvictCallback(func(id string, s *Session) { s.Close() }),
//	)
func New[K comparable, V any](capacity int, opts ...Option[K, V]) (*Cache[K, V], error) {
	if capacity < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCapacity, capacity)
	}

	c := &Cache[K, V]{
		capacity: capacity,
		items:    make(map[K]recency.Handle),
		list:     recency.New[K, V](capacity),
	}

	for _, opt := range opts {
		opt(c)
	}

	log.Debugf("Created LRU cache with capacity=%d", capacity)

	return c, nil
}

// Put adds or updates a key-value pair in the cache.
//
// Behavior:
//   - If the key exists: overwrites the value and marks it most recently used
//   - If the key is new and the cache has room: inserts it as most recently used
//   - If the key is new and the cache is full: evicts the least recently used
//     entry first, then inserts
//
// Example:
//
//	cache.Put("config", configData)
//	cache.Put("config", newConfig)  // Updates, no eviction
func (c *Cache[K, V]) Put(key K, value V) {
	c.mu.Lock()

	if h, ok := c.items[key]; ok {
		c.list.SetValue(h, value)
		c.list.MoveToMostRecent(h)
		c.stats.updates++
		c.mu.Unlock()

		return
	}

	var (
		evictedKey   K
		evictedValue V
		evicted      bool
	)

	if len(c.items) >= c.capacity {
		evictedKey, evictedValue = c.evict()
		evicted = true
	}

	h := c.list.Alloc(key, value)
	c.items[key] = h
	c.list.AppendMostRecent(h)
	c.stats.insertions++

	c.mu.Unlock()

	if evicted && c.onEvict != nil {
		c.onEvict(evictedKey, evictedValue)
	}
}

// Get retrieves a value from the cache and marks it most recently used.
//
// Returns:
//   - (value, true) if the key exists
//   - (zero value, false) if the key does not exist
//
// A miss does not change the recency order. Use [Cache.Peek] to read a value
// without affecting eviction.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	h, ok := c.items[key]
	if !ok {
		c.stats.misses++

		var zero V

		return zero, false
	}

	c.list.MoveToMostRecent(h)
	c.stats.hits++

	return c.list.Value(h), true
}

// Lookup is [Cache.Get] with an explicit present/absent result.
//
// Example:
//
//	port := cache.Lookup("port").UnwrapOr(8080)
func (c *Cache[K, V]) Lookup(key K) fn.Option[V] {
	v, ok := c.Get(key)
	if !ok {
		return fn.None[V]()
	}

	return fn.Some(v)
}

// Peek retrieves a value without changing its recency.
func (c *Cache[K, V]) Peek(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if h, ok := c.items[key]; ok {
		return c.list.Value(h), true
	}

	var zero V

	return zero, false
}

// Contains reports whether key is cached, without changing its recency.
func (c *Cache[K, V]) Contains(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, ok := c.items[key]

	return ok
}

// Delete removes a key from the cache.
//
// Returns true if the key existed and was removed, false if the key was not
// found. The eviction callback is not invoked.
func (c *Cache[K, V]) Delete(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	h, ok := c.items[key]
	if !ok {
		return false
	}

	c.removeEntry(key, h)
	c.stats.deletes++

	return true
}

// Oldest returns the least recently used entry without changing its recency.
func (c *Cache[K, V]) Oldest() (K, V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	h, ok := c.list.LeastRecent()
	if !ok {
		var (
			zeroK K
			zeroV V
		)

		return zeroK, zeroV, false
	}

	return c.list.Key(h), c.list.Value(h), true
}

// Keys returns the cached keys from least to most recently used.
func (c *Cache[K, V]) Keys() []K {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := make([]K, 0, c.list.Len())
	for k := range c.list.All() {
		keys = append(keys, k)
	}

	return keys
}

// All returns an iterator over a snapshot of the cache's entries, from least
// to most recently used. Iterating does not change recency.
func (c *Cache[K, V]) All() iter.Seq2[K, V] {
	c.mu.Lock()

	snapshot := make([]pair[K, V], 0, c.list.Len())
	for k, v := range c.list.All() {
		snapshot = append(snapshot, pair[K, V]{key: k, value: v})
	}

	c.mu.Unlock()

	return func(yield func(K, V) bool) {
		for _, e := range snapshot {
			if !yield(e.key, e.value) {
				return
			}
		}
	}
}

// Len returns the current number of entries in the cache.
//
// This value is always <= the capacity passed to [New].
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.items)
}

// Cap returns the capacity the cache was created with.
func (c *Cache[K, V]) Cap() int {
	return c.capacity
}

// Purge removes every entry. Statistics are kept.
func (c *Cache[K, V]) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()

	log.Tracef("Purging %d entries: %v", len(c.items),
		spewClosure(c.items))

	clear(c.items)
	c.list.Reset()
}

// evict removes the least recently used entry and returns it.
// Must be called with lock held and with the cache non-empty.
func (c *Cache[K, V]) evict() (K, V) {
	h, ok := c.list.LeastRecent()
	if !ok {
		panic(fmt.Sprintf("lru: evicting from empty list with %d "+
			"indexed keys", len(c.items)))
	}

	key, value := c.list.Key(h), c.list.Value(h)
	c.removeEntry(key, h)
	c.stats.evictions++

	log.Tracef("Evicted least recently used entry (capacity=%d): %v",
		c.capacity, spewClosure(pair[K, V]{key: key, value: value}))

	return key, value
}

// removeEntry drops key from the index and its entry from the list.
// Must be called with lock held.
func (c *Cache[K, V]) removeEntry(key K, h recency.Handle) {
	delete(c.items, key)
	c.list.Remove(h)
	c.list.Release(h)
}

// verify walks the index and the list and reports the first disagreement.
// Must be called with lock held.
func (c *Cache[K, V]) verify() error {
	if len(c.items) > c.capacity {
		return fmt.Errorf("size %d exceeds capacity %d", len(c.items),
			c.capacity)
	}

	if len(c.items) != c.list.Len() {
		return fmt.Errorf("index holds %d keys, list links %d entries",
			len(c.items), c.list.Len())
	}

	seen := 0
	for h := range c.list.Handles() {
		key := c.list.Key(h)

		indexed, ok := c.items[key]
		if !ok {
			return fmt.Errorf("listed key %v is not indexed", key)
		}

		if indexed != h {
			return fmt.Errorf("key %v indexed at %d but listed at %d",
				key, indexed, h)
		}

		seen++
	}

	if seen != len(c.items) {
		return fmt.Errorf("list walk saw %d entries, index holds %d",
			seen, len(c.items))
	}

	return nil
}
