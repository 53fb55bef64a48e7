package frequency

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

type cachedCount struct {
	count uint64
	known bool
}

// Cached memoizes another provider in an LRU. Failed lookups are not cached.
type Cached struct {
	next  Provider
	cache *lru.Cache[string, cachedCount]
}

// NewCached wraps next with an LRU of the given size.
func NewCached(next Provider, size int) (*Cached, error) {
	cache, err := lru.New[string, cachedCount](size)
	if err != nil {
		return nil, err
	}
	return &Cached{next: next, cache: cache}, nil
}

func (c *Cached) Frequency(text string) (uint64, bool, error) {
	if v, ok := c.cache.Get(text); ok {
		return v.count, v.known, nil
	}
	n, known, err := c.next.Frequency(text)
	if err != nil {
		return 0, false, err
	}
	c.cache.Add(text, cachedCount{count: n, known: known})
	return n, known, nil
}

// Len returns the number of cached lookups.
func (c *Cached) Len() int {
	return c.cache.Len()
}

// Purge drops every cached lookup.
func (c *Cached) Purge() {
	c.cache.Purge()
}
