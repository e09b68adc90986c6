package cache

import (
	"time"

	"github.com/sprite-ai/watchdiff/internal/config"
)

// Stats is a point-in-time snapshot of every cache the manager owns.
type Stats struct {
	FileContentEntries  int
	FileContentCapacity int
	SyntaxEntries       int
	SyntaxCapacity      int
	PendingEvents       int
	SearchCacheActive   bool
}

// Manager bundles the caches the TUI consumes so wiring and invalidation
// happen in one place.
type Manager struct {
	Content   *FileContentCache
	Syntax    *SyntaxHighlightCache
	Search    *SearchResultCache
	Debouncer *EventDebouncer
}

// NewManager builds the cache set from config.
func NewManager(cfg config.CacheConfig, searchDebounce time.Duration) *Manager {
	return &Manager{
		Content:   NewFileContentCache(cfg.FileContentSize),
		Syntax:    NewSyntaxHighlightCache(cfg.SyntaxCacheSize, nil),
		Search:    NewSearchResultCache(),
		Debouncer: NewEventDebouncer(searchDebounce),
	}
}

// InvalidateFile drops everything cached for path. Search results are left
// alone; the file-set hash check catches staleness there.
func (m *Manager) InvalidateFile(path string) {
	m.Content.Invalidate(path)
	m.Syntax.InvalidateFile(path)
}

// Snapshot returns current occupancy across all caches.
func (m *Manager) Snapshot() Stats {
	var s Stats
	s.FileContentEntries, s.FileContentCapacity = m.Content.Stats()
	s.SyntaxEntries, s.SyntaxCapacity = m.Syntax.Stats()
	s.PendingEvents = m.Debouncer.PendingCount()
	s.SearchCacheActive = m.Search.Active()
	return s
}
