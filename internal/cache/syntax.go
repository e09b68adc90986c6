package cache

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/sprite-ai/watchdiff/internal/diff"
)

// SyntaxKey identifies one highlighted document version.
type SyntaxKey struct {
	Path        string
	Language    string
	ContentHash uint64
}

// HighlightFunc computes full-document highlighting on a cache miss.
type HighlightFunc func(content, language, path string) []diff.HighlightedLine

// SyntaxHighlightCache memoizes highlighted documents. Invalidation is
// explicit and path-wide: when a file changes, every cached version of it is
// purged, whatever its content hash, since an old hash never recurs usefully.
type SyntaxHighlightCache struct {
	cache     *lru.Cache[SyntaxKey, []diff.HighlightedLine]
	capacity  int
	highlight HighlightFunc
}

// NewSyntaxHighlightCache builds a cache of up to capacity documents filled
// by the given highlight function (diff.Highlight in production).
func NewSyntaxHighlightCache(capacity int, highlight HighlightFunc) *SyntaxHighlightCache {
	c, err := lru.New[SyntaxKey, []diff.HighlightedLine](capacity)
	if err != nil {
		panic(err)
	}
	if highlight == nil {
		highlight = diff.Highlight
	}
	return &SyntaxHighlightCache{cache: c, capacity: capacity, highlight: highlight}
}

// GetHighlighted returns the highlighted form of content, computing and
// caching it on a miss.
func (c *SyntaxHighlightCache) GetHighlighted(path, language, content string) []diff.HighlightedLine {
	key := SyntaxKey{Path: path, Language: language, ContentHash: HashContent(content)}

	if lines, ok := c.cache.Get(key); ok {
		return lines
	}

	lines := c.highlight(content, language, path)
	c.cache.Add(key, lines)
	return lines
}

// InvalidateFile purges every cached version of path.
func (c *SyntaxHighlightCache) InvalidateFile(path string) {
	for _, key := range c.cache.Keys() {
		if key.Path == path {
			c.cache.Remove(key)
		}
	}
}

// Stats returns current occupancy and capacity.
func (c *SyntaxHighlightCache) Stats() (entries, capacity int) {
	return c.cache.Len(), c.capacity
}
