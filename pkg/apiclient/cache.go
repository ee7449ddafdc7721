package apiclient

import (
	"slices"
	"sync"
)

type cacheEntry struct {
	body []byte
	tags []Tag
}

// tagCache holds raw response bodies keyed by request, dropping them by tag
type tagCache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
}

func newTagCache() *tagCache {
	return &tagCache{entries: make(map[string]cacheEntry)}
}

func (c *tagCache) get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	return e.body, ok
}

func (c *tagCache) put(key string, body []byte, tags []Tag) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{body: body, tags: tags}
}

// invalidate removes every entry carrying at least one of tags
func (c *tagCache) invalidate(tags ...Tag) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, e := range c.entries {
		if slices.ContainsFunc(e.tags, func(t Tag) bool { return slices.Contains(tags, t) }) {
			delete(c.entries, key)
		}
	}
}

func (c *tagCache) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.entries)
}

func (c *tagCache) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
