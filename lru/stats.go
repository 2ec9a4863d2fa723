package lru

// counters tracks cache activity. Guarded by Cache.mu.
type counters struct {
	hits       uint64
	misses     uint64
	evictions  uint64
	insertions uint64
	updates    uint64
	deletes    uint64
}

// Stats is a point-in-time snapshot of a cache's activity counters.
type Stats struct {
	// Hits counts Get calls that found their key.
	Hits uint64

	// Misses counts Get calls that did not find their key.
	Misses uint64

	// Evictions counts entries removed to make room for a new key.
	Evictions uint64

	// Insertions counts Put calls that added a new key.
	Insertions uint64

	// Updates counts Put calls that overwrote an existing key.
	Updates uint64

	// Deletes counts successful Delete calls.
	Deletes uint64

	// Len is the number of entries at snapshot time.
	Len int

	// Capacity is the maximum number of entries.
	Capacity int
}

// HitRatio returns Hits / (Hits + Misses), or 0 when Get was never called.
func (s Stats) HitRatio() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}

	return float64(s.Hits) / float64(total)
}

// Stats returns a snapshot of the cache's counters.
func (c *Cache[K, V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Stats{
		Hits:       c.stats.hits,
		Misses:     c.stats.misses,
		Evictions:  c.stats.evictions,
		Insertions: c.stats.insertions,
		Updates:    c.stats.updates,
		Deletes:    c.stats.deletes,
		Len:        len(c.items),
		Capacity:   c.capacity,
	}
}
