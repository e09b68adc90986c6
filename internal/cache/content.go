// Package cache implements the bounded, invalidation-aware caches shared by
// the TUI and the review engine: file contents, highlighted documents,
// incremental search results, and the consumer-side event debouncer.
//
// None of these types synchronize internally. They are owned and mutated by
// the single consumer goroutine; a multi-threaded consumer would need to add
// its own locking.
package cache

import (
	"hash/fnv"
	"os"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// HashContent returns a 64-bit FNV-1a hash of content, used for diff cache
// and syntax cache keys.
func HashContent(content string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(content))
	return h.Sum64()
}

// CachedFileContent is a file's content plus the metadata used to decide
// staleness.
type CachedFileContent struct {
	Content      string
	LastModified time.Time
	Size         int64
}

// FileContentCache memoizes file reads, re-validating by modification time.
// Callers never invalidate for staleness themselves; a changed mtime forces
// a re-read transparently. Explicit Invalidate exists for external signals
// (the pipeline reporting a change).
type FileContentCache struct {
	cache    *lru.Cache[string, CachedFileContent]
	capacity int
}

// NewFileContentCache builds a cache holding up to capacity files.
func NewFileContentCache(capacity int) *FileContentCache {
	c, err := lru.New[string, CachedFileContent](capacity)
	if err != nil {
		panic(err) // only fails for capacity <= 0, rejected by config validation
	}
	return &FileContentCache{cache: c, capacity: capacity}
}

// GetContent returns the file's content, serving from cache when the on-disk
// modification time is not newer than the cached one, re-reading otherwise.
func (c *FileContentCache) GetContent(path string) (string, error) {
	if cached, ok := c.cache.Get(path); ok {
		if info, err := os.Stat(path); err == nil {
			if !info.ModTime().After(cached.LastModified) {
				return cached.Content, nil
			}
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}

	c.cache.Add(path, CachedFileContent{
		Content:      string(data),
		LastModified: info.ModTime(),
		Size:         info.Size(),
	})
	return string(data), nil
}

// Invalidate drops the entry for path, if any.
func (c *FileContentCache) Invalidate(path string) {
	c.cache.Remove(path)
}

// Stats returns current occupancy and capacity.
func (c *FileContentCache) Stats() (entries, capacity int) {
	return c.cache.Len(), c.capacity
}
