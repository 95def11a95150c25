package grf

import (
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
)

// extractionCache wraps an LRU cache of decoded entry bytes keyed by exact
// name, tracking hit/miss counts for Stats.
type extractionCache struct {
	lru  *lru.Cache[string, []byte]
	hits atomic.Int64
	miss atomic.Int64
}

// newExtractionCache builds a cache holding up to capacity entries. A
// capacity <= 0 disables caching: get always misses and put is a no-op.
func newExtractionCache(capacity int) *extractionCache {
	if capacity <= 0 {
		return &extractionCache{}
	}
	c, _ := lru.New[string, []byte](capacity)
	return &extractionCache{lru: c}
}

func (c *extractionCache) get(name string) ([]byte, bool) {
	if c.lru == nil {
		c.miss.Add(1)
		return nil, false
	}
	v, ok := c.lru.Get(name)
	if ok {
		c.hits.Add(1)
	} else {
		c.miss.Add(1)
	}
	return v, ok
}

func (c *extractionCache) put(name string, data []byte) {
	if c.lru == nil {
		return
	}
	c.lru.Add(name, data)
}

func (c *extractionCache) clear() {
	if c.lru == nil {
		return
	}
	c.lru.Purge()
}

func (c *extractionCache) len() int {
	if c.lru == nil {
		return 0
	}
	return c.lru.Len()
}
