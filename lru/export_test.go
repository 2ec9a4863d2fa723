package lru

// Verify checks that the index and the recency list agree.
func (c *Cache[K, V]) Verify() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.verify()
}
