package probe

import (
	"sync"
	"time"
)

type cacheEntry struct {
	reachable bool
	at        time.Time
}

// resultCache memoizes probe results per address. An entry expires ttl after
// it was stored; expiry is checked on read.
type resultCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]cacheEntry
}

func newResultCache(ttl time.Duration, now func() time.Time) *resultCache {
	if now == nil {
		now = time.Now
	}
	return &resultCache{ttl: ttl, now: now, entries: make(map[string]cacheEntry)}
}

func (c *resultCache) get(addr string) (reachable, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[addr]
	if !ok {
		return false, false
	}
	if c.now().Sub(e.at) >= c.ttl {
		delete(c.entries, addr)
		return false, false
	}
	return e.reachable, true
}

func (c *resultCache) put(addr string, reachable bool) {
	c.mu.Lock()
	c.entries[addr] = cacheEntry{reachable: reachable, at: c.now()}
	c.mu.Unlock()
}
