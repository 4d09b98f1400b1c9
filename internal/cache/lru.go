package cache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// LRUCache is the in-process fallback when no Redis is configured
type LRUCache struct {
	lru *expirable.LRU[string, []byte]
}

// NewLRUCache creates a cache holding at most size entries for ttl each.
// A zero ttl keeps entries until evicted.
func NewLRUCache(size int, ttl time.Duration) *LRUCache {
	return &LRUCache{
		lru: expirable.NewLRU[string, []byte](size, nil, ttl),
	}
}

func (c *LRUCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	val, ok := c.lru.Get(key)
	return val, ok, nil
}

func (c *LRUCache) Set(_ context.Context, key string, value []byte) error {
	c.lru.Add(key, value)
	return nil
}

func (c *LRUCache) Ping(context.Context) error { return nil }

func (c *LRUCache) Close() error {
	c.lru.Purge()
	return nil
}

// Len reports the number of live entries
func (c *LRUCache) Len() int {
	return c.lru.Len()
}
