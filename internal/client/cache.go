// Package client mediates between UI code and the HTTP API: cached reads
// with a fixed freshness window, in-flight request deduplication, and
// mutations that invalidate the caches they touch.
package client

import (
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Cache holds fetched data keyed by logical resource name. Entries are
// fresh for a fixed window after fetch; Invalidate marks them stale and
// notifies subscribers. Every update replaces the entry wholesale.
type Cache struct {
	ttl   time.Duration
	group singleflight.Group

	mu      sync.Mutex
	entries map[string]cacheEntry
	subs    map[string]map[int]func(key string)
	nextSub int
}

type cacheEntry struct {
	data      any
	fetchedAt time.Time
	stale     bool
}

func NewCache(ttl time.Duration) *Cache {
	return &Cache{
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
		subs:    make(map[string]map[int]func(key string)),
	}
}

// fresh returns the cached value if it exists, is not stale, and is within
// the freshness window.
func (c *Cache) fresh(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok || e.stale || time.Since(e.fetchedAt) > c.ttl {
		return nil, false
	}
	return e.data, true
}

func (c *Cache) set(key string, data any) {
	c.mu.Lock()
	c.entries[key] = cacheEntry{data: data, fetchedAt: time.Now()}
	c.mu.Unlock()
}

// flight runs fn once per key no matter how many callers arrive while it is
// in progress; every caller shares the one result.
func (c *Cache) flight(key string, fn func() (any, error)) (any, error) {
	v, err, _ := c.group.Do(key, fn)
	return v, err
}

// Invalidate marks the entry stale so the next read refetches, then
// notifies subscribers.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	if e, ok := c.entries[key]; ok {
		e.stale = true
		c.entries[key] = e
	}
	var fns []func(key string)
	for _, fn := range c.subs[key] {
		fns = append(fns, fn)
	}
	c.mu.Unlock()

	for _, fn := range fns {
		fn(key)
	}
}

// Subscribe registers fn to run whenever key is invalidated. The returned
// function removes the subscription.
func (c *Cache) Subscribe(key string, fn func(key string)) (unsubscribe func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.subs[key] == nil {
		c.subs[key] = make(map[int]func(key string))
	}
	id := c.nextSub
	c.nextSub++
	c.subs[key][id] = fn

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.subs[key], id)
	}
}
