package cache

// SearchResult is one scored match from a file search.
type SearchResult struct {
	Path  string
	Score int
}

// SearchResultCache remembers the last query and its results so a narrower
// query can filter the previous result set instead of rescanning every file.
type SearchResultCache struct {
	lastQuery       string
	lastResults     []SearchResult
	lastFileSetHash uint64
}

// NewSearchResultCache returns an empty cache.
func NewSearchResultCache() *SearchResultCache {
	return &SearchResultCache{}
}

// CanUseIncremental reports whether the cached results can seed the search
// for query: the file set must be unchanged and the new query must extend
// the cached one. Anything else forces a full rescan.
func (c *SearchResultCache) CanUseIncremental(query string, fileSetHash uint64) bool {
	return c.lastQuery != "" &&
		len(query) >= len(c.lastQuery) &&
		query[:len(c.lastQuery)] == c.lastQuery &&
		fileSetHash == c.lastFileSetHash
}

// IncrementalBase returns the cached result list to filter from.
func (c *SearchResultCache) IncrementalBase() []SearchResult {
	return c.lastResults
}

// Update replaces the cached query, results, and file-set hash.
func (c *SearchResultCache) Update(query string, results []SearchResult, fileSetHash uint64) {
	c.lastQuery = query
	c.lastResults = results
	c.lastFileSetHash = fileSetHash
}

// Active reports whether the cache currently holds a query.
func (c *SearchResultCache) Active() bool {
	return c.lastQuery != ""
}

// Clear forgets the cached query and results.
func (c *SearchResultCache) Clear() {
	c.lastQuery = ""
	c.lastResults = nil
	c.lastFileSetHash = 0
}
