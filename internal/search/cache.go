package search

import "github.com/atomicstack/cmd-palette/internal/command"

const resultCacheCapacity = 50

// resultCache memoises ranked result lists by their (query, algorithm,
// maxResults) key. Capacity is bounded; when full, the oldest inserted entry
// is evicted first.
type resultCache struct {
	capacity int
	entries  map[string][]*command.Command
	order    []string
}

func newResultCache(capacity int) *resultCache {
	if capacity <= 0 {
		capacity = resultCacheCapacity
	}
	return &resultCache{
		capacity: capacity,
		entries:  make(map[string][]*command.Command, capacity),
	}
}

func (c *resultCache) get(key string) ([]*command.Command, bool) {
	results, ok := c.entries[key]
	return results, ok
}

func (c *resultCache) put(key string, results []*command.Command) {
	if _, ok := c.entries[key]; ok {
		c.entries[key] = results
		return
	}
	if len(c.order) >= c.capacity {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
	c.entries[key] = results
	c.order = append(c.order, key)
}

func (c *resultCache) len() int {
	return len(c.entries)
}
