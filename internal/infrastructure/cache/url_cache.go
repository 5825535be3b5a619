package cache

import (
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// URLCache holds short code to long URL lookups. A nil *URLCache is a
// valid, always-missing cache.
//
// Every Remove bumps a generation counter. Readers take the generation
// before loading from storage and pass it to Add, which drops the entry
// when a Remove happened in between.
type URLCache struct {
	mu  sync.Mutex
	gen uint64
	lru *expirable.LRU[string, string]
}

// NewURLCache returns nil when size or ttl disables caching
func NewURLCache(size int, ttl time.Duration) *URLCache {
	if size <= 0 || ttl <= 0 {
		return nil
	}
	return &URLCache{lru: expirable.NewLRU[string, string](size, nil, ttl)}
}

func (c *URLCache) Get(code string) (string, bool) {
	if c == nil {
		return "", false
	}
	return c.lru.Get(code)
}

// Generation returns the current invalidation generation
func (c *URLCache) Generation() uint64 {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen
}

// Add stores code unless a Remove ran since gen was read. It reports
// whether the entry was stored.
func (c *URLCache) Add(code, longURL string, gen uint64) bool {
	if c == nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return false
	}
	c.lru.Add(code, longURL)
	return true
}

// Remove evicts code, e.g. after the mapping was renamed or deleted
func (c *URLCache) Remove(code string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.lru.Remove(code)
}

func (c *URLCache) Len() int {
	if c == nil {
		return 0
	}
	return c.lru.Len()
}
