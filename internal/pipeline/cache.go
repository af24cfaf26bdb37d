package pipeline

import (
	"context"
	"fmt"
	"sync"

	"github.com/couchcryptid/satveg-series/satveg"
)

// CachedLookup wraps a SeriesLookup with an in-memory LRU cache keyed by
// coordinate. The client's profile and filter are fixed for its lifetime,
// so coordinates alone identify a query.
type CachedLookup struct {
	inner SeriesLookup
	cache *lruCache
}

// NewCachedLookup creates a cache decorator around a lookup. Cached
// envelopes go stale as new composites are published, so this suits
// short-lived processes rather than long-running deployments.
func NewCachedLookup(inner SeriesLookup, maxEntries int) *CachedLookup {
	return &CachedLookup{
		inner: inner,
		cache: newLRUCache(maxEntries),
	}
}

func (c *CachedLookup) FetchSeries(ctx context.Context, lat, lon float64) (satveg.SeriesResponse, error) {
	key := fmt.Sprintf("%.6f|%.6f", lat, lon)
	if resp, ok := c.cache.get(key); ok {
		return resp, nil
	}
	resp, err := c.inner.FetchSeries(ctx, lat, lon)
	if err != nil {
		return resp, err
	}
	// Only cache successful envelopes so failures can be retried.
	if resp.Success {
		c.cache.put(key, resp)
	}
	return resp, nil
}

// lruCache is a simple thread-safe LRU cache for series envelopes.
type lruCache struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[string]*entry
	head       *entry // most recently used
	tail       *entry // least recently used
}

type entry struct {
	key   string
	value satveg.SeriesResponse
	prev  *entry
	next  *entry
}

func newLRUCache(maxEntries int) *lruCache {
	return &lruCache{
		maxEntries: maxEntries,
		entries:    make(map[string]*entry),
	}
}

func (c *lruCache) get(key string) (satveg.SeriesResponse, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return satveg.SeriesResponse{}, false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *lruCache) put(key string, value satveg.SeriesResponse) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		c.moveToFront(e)
		return
	}

	e := &entry{key: key, value: value}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

func (c *lruCache) moveToFront(e *entry) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *lruCache) addToFront(e *entry) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *lruCache) remove(e *entry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
}

func (c *lruCache) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.remove(c.tail)
}
