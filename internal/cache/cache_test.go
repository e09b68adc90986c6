package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sprite-ai/watchdiff/internal/config"
	"github.com/sprite-ai/watchdiff/internal/diff"
	"github.com/sprite-ai/watchdiff/internal/event"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestFileContentCacheServesUnchangedFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.txt", "hello")

	c := NewFileContentCache(10)
	got, err := c.GetContent(path)
	require.NoError(t, err)
	assert.Equal(t, "hello", got)

	// Rewrite behind the cache's back but keep the mtime old. The cached
	// copy must be served because the mtime is not newer.
	require.NoError(t, os.WriteFile(path, []byte("changed"), 0o644))
	old := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(path, old, old))

	got, err = c.GetContent(path)
	require.NoError(t, err)
	assert.Equal(t, "hello", got)
}

func TestFileContentCacheRereadsOnNewerMtime(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.txt", "hello")
	old := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(path, old, old))

	c := NewFileContentCache(10)
	_, err := c.GetContent(path)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("hello world"), 0o644))

	got, err := c.GetContent(path)
	require.NoError(t, err)
	assert.Equal(t, "hello world", got, "newer mtime must force a re-read")
}

func TestFileContentCacheInvalidate(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.txt", "hello")

	c := NewFileContentCache(10)
	_, err := c.GetContent(path)
	require.NoError(t, err)

	entries, capacity := c.Stats()
	assert.Equal(t, 1, entries)
	assert.Equal(t, 10, capacity)

	c.Invalidate(path)
	entries, _ = c.Stats()
	assert.Equal(t, 0, entries)
}

func TestFileContentCacheEvictsAtCapacity(t *testing.T) {
	dir := t.TempDir()
	c := NewFileContentCache(2)

	for _, name := range []string{"a.txt", "b.txt", "c.txt"} {
		path := writeFile(t, dir, name, name)
		_, err := c.GetContent(path)
		require.NoError(t, err)
	}

	entries, _ := c.Stats()
	assert.Equal(t, 2, entries, "oldest entry must be evicted")
}

func TestSyntaxCacheMemoizes(t *testing.T) {
	calls := 0
	c := NewSyntaxHighlightCache(10, func(content, language, path string) []diff.HighlightedLine {
		calls++
		return diff.Highlight(content, language, path)
	})

	first := c.GetHighlighted("main.go", "go", "package main\n")
	second := c.GetHighlighted("main.go", "go", "package main\n")

	assert.Equal(t, 1, calls, "second lookup must hit the cache")
	assert.Equal(t, first, second)
}

func TestSyntaxCacheDistinguishesContent(t *testing.T) {
	calls := 0
	c := NewSyntaxHighlightCache(10, func(content, language, path string) []diff.HighlightedLine {
		calls++
		return nil
	})

	c.GetHighlighted("main.go", "go", "package main\n")
	c.GetHighlighted("main.go", "go", "package other\n")

	assert.Equal(t, 2, calls, "different content must miss")
}

func TestSyntaxCacheInvalidateFilePurgesAllVersions(t *testing.T) {
	c := NewSyntaxHighlightCache(10, func(content, language, path string) []diff.HighlightedLine {
		return nil
	})

	c.GetHighlighted("main.go", "go", "v1")
	c.GetHighlighted("main.go", "go", "v2")
	c.GetHighlighted("other.go", "go", "v1")

	c.InvalidateFile("main.go")

	entries, _ := c.Stats()
	assert.Equal(t, 1, entries, "only other.go should survive")
}

func TestSearchCacheIncrementalOnPrefixExtension(t *testing.T) {
	c := NewSearchResultCache()
	results := []SearchResult{{Path: "test.go", Score: 90}}
	c.Update("te", results, 42)

	assert.True(t, c.CanUseIncremental("tes", 42))
	assert.Equal(t, results, c.IncrementalBase())
}

func TestSearchCacheFullRescanCases(t *testing.T) {
	c := NewSearchResultCache()
	c.Update("te", nil, 42)

	assert.False(t, c.CanUseIncremental("tes", 99), "changed file set")
	assert.False(t, c.CanUseIncremental("t", 42), "shorter query")
	assert.False(t, c.CanUseIncremental("xy", 42), "non-extension")

	c.Clear()
	assert.False(t, c.Active())
	assert.False(t, c.CanUseIncremental("te", 42), "cleared cache never matches")
}

func TestDebouncerLastWriteWins(t *testing.T) {
	d := NewEventDebouncer(100 * time.Millisecond)
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	now := base
	d.now = func() time.Time { return now }

	d.AddEvent(event.New("a.go", event.Created))
	d.AddEvent(event.New("a.go", event.Modified))
	assert.Equal(t, 1, d.PendingCount())

	now = base.Add(150 * time.Millisecond)
	ready := d.ReadyEvents()
	require.Len(t, ready, 1)
	assert.Equal(t, event.Modified, ready[0].Kind)
	assert.Equal(t, 0, d.PendingCount())
}

func TestDebouncerHoldsYoungEvents(t *testing.T) {
	d := NewEventDebouncer(100 * time.Millisecond)
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	now := base
	d.now = func() time.Time { return now }

	d.AddEvent(event.New("a.go", event.Modified))
	now = base.Add(50 * time.Millisecond)
	d.AddEvent(event.New("b.go", event.Modified))

	now = base.Add(120 * time.Millisecond)
	ready := d.ReadyEvents()
	require.Len(t, ready, 1)
	assert.Equal(t, "a.go", ready[0].Path)
	assert.Equal(t, 1, d.PendingCount())

	d.Clear()
	assert.Equal(t, 0, d.PendingCount())
}

func TestManagerInvalidateAndSnapshot(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.go", "package a\n")

	m := NewManager(config.Default().Cache, 300*time.Millisecond)
	_, err := m.Content.GetContent(path)
	require.NoError(t, err)
	m.Syntax.GetHighlighted(path, "go", "package a\n")

	s := m.Snapshot()
	assert.Equal(t, 1, s.FileContentEntries)
	assert.Equal(t, 1, s.SyntaxEntries)
	assert.False(t, s.SearchCacheActive)

	m.InvalidateFile(path)
	s = m.Snapshot()
	assert.Equal(t, 0, s.FileContentEntries)
	assert.Equal(t, 0, s.SyntaxEntries)
}
