package contract

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize bounds the cache generously; contracts are small and the
// intent is "never refetch within a process lifetime", not memory pressure.
const DefaultCacheSize = 1024

// Key identifies a cached contract. The rendering preset participates even
// though derivation ignores it, so generation-time consumers can treat the
// pair as one identity.
type Key struct {
	DocType string
	Preset  string
}

// Cache memoizes built contracts for the process lifetime. It is an explicit,
// injected component rather than ambient package state, and it exposes
// invalidation so callers own the staleness tradeoff.
//
// Concurrent GetOrBuild calls for the same key before the first completes are
// not deduplicated; both pipelines run and the last result wins. Results are
// idempotent, so the race wastes work without corrupting anything.
type Cache struct {
	entries *lru.Cache[Key, *UIContract]
}

// NewCache constructs a cache holding up to size contracts. A non-positive
// size falls back to DefaultCacheSize.
func NewCache(size int) (*Cache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	entries, err := lru.New[Key, *UIContract](size)
	if err != nil {
		return nil, fmt.Errorf("contract: create cache: %w", err)
	}
	return &Cache{entries: entries}, nil
}

// GetOrBuild returns the cached contract for key, invoking build on a miss
// and storing the result. Build errors are returned without caching.
func (c *Cache) GetOrBuild(key Key, build func() (*UIContract, error)) (*UIContract, error) {
	if cached, ok := c.entries.Get(key); ok {
		return cached, nil
	}
	built, err := build()
	if err != nil {
		return nil, err
	}
	c.entries.Add(key, built)
	return built, nil
}

// Get returns the cached contract without building.
func (c *Cache) Get(key Key) (*UIContract, bool) {
	return c.entries.Get(key)
}

// Invalidate drops one cached contract.
func (c *Cache) Invalidate(key Key) {
	c.entries.Remove(key)
}

// InvalidateDocType drops every cached preset of a doctype.
func (c *Cache) InvalidateDocType(docType string) {
	for _, key := range c.entries.Keys() {
		if key.DocType == docType {
			c.entries.Remove(key)
		}
	}
}

// Purge empties the cache.
func (c *Cache) Purge() {
	c.entries.Purge()
}

// Len reports the number of cached contracts.
func (c *Cache) Len() int {
	return c.entries.Len()
}
