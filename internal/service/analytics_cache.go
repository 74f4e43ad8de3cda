package service

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

const cacheTTL = 5 * time.Minute

type cacheEntry struct {
	value    interface{}
	storedAt time.Time
}

// queryCache memoizes analytics results for a short window. Entries are
// keyed on the operation name plus the serialized filter parameters, so
// identical queries within the window skip recomputation entirely.
type queryCache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
	now     func() time.Time
}

func newQueryCache() *queryCache {
	return &queryCache{
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

// key builds the cache key from an operation name and its parameters
func cacheKey(operation string, params interface{}) string {
	encoded, err := json.Marshal(params)
	if err != nil {
		// Unserializable params fall back to an uncacheable unique key
		return fmt.Sprintf("%s_%p", operation, &params)
	}
	return fmt.Sprintf("%s_%s", operation, encoded)
}

func (c *queryCache) get(key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(entry.storedAt) >= cacheTTL {
		delete(c.entries, key)
		return nil, false
	}
	return entry.value, true
}

func (c *queryCache) set(key string, value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{value: value, storedAt: c.now()}
}

func (c *queryCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry)
}
