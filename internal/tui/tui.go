// Package tui implements the Bubble Tea terminal interface: the live event
// feed, the hunk-level review mode, and incremental file search.
package tui

import (
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sprite-ai/watchdiff/internal/cache"
	"github.com/sprite-ai/watchdiff/internal/config"
	"github.com/sprite-ai/watchdiff/internal/event"
	"github.com/sprite-ai/watchdiff/internal/review"
)

type mode int

const (
	modeFeed mode = iota
	modeReview
	modeSearch
)

// eventMsg carries one pipeline event into the Bubble Tea loop.
type eventMsg event.FileEvent

// flushMsg triggers the UI-side debouncer sweep.
type flushMsg time.Time

// Model is the top-level Bubble Tea model for watchdiff.
type Model struct {
	cfg    config.Config
	root   string
	events <-chan event.FileEvent
	caches *cache.Manager

	session *review.Session
	presets []review.FilterPreset

	// Watchable files, kept current for search and the file-set hash.
	files       map[string]bool
	fileSetHash uint64

	feed      []event.FileEvent
	feedIndex int

	mode        mode
	searchInput textinput.Model
	searchHits  []cache.SearchResult
	searchIndex int

	width      int
	height     int
	viewHeight int
	showHelp   bool
	statusMsg  string
}

// New builds the model around a running pipeline's event channel and the
// files present at startup.
func New(cfg config.Config, root string, events <-chan event.FileEvent, initialFiles []string) Model {
	ti := textinput.New()
	ti.Placeholder = "search files"
	ti.CharLimit = 128

	files := make(map[string]bool, len(initialFiles))
	for _, f := range initialFiles {
		files[f] = true
	}

	m := Model{
		cfg:         cfg,
		root:        root,
		events:      events,
		caches:      cache.NewManager(cfg.Cache, cfg.UI.SearchDebounce()),
		session:     review.NewSession(),
		presets:     review.DefaultPresets(),
		files:       files,
		searchInput: ti,
	}
	m.fileSetHash = hashFileSet(files)
	return m
}

// Session exposes the review session, mainly for saving on exit.
func (m Model) Session() *review.Session { return m.session }

func hashFileSet(files map[string]bool) uint64 {
	paths := make([]string, 0, len(files))
	for p := range files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return cache.HashContent(strings.Join(paths, "\x00"))
}

func (m Model) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		fe, ok := <-m.events
		if !ok {
			return tea.Quit()
		}
		return eventMsg(fe)
	}
}

func (m Model) scheduleFlush() tea.Cmd {
	return tea.Tick(m.cfg.UI.SearchDebounce(), func(t time.Time) tea.Msg {
		return flushMsg(t)
	})
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.waitForEvent(), m.scheduleFlush())
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewHeight = m.height - 4
		return m, nil

	case eventMsg:
		m.ingest(event.FileEvent(msg))
		return m, m.waitForEvent()

	case flushMsg:
		for _, fe := range m.caches.Debouncer.ReadyEvents() {
			m.appendToFeed(fe)
		}
		return m, m.scheduleFlush()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

// ingest routes one pipeline event: caches are invalidated immediately, the
// feed sees it only after the debouncer releases it.
func (m *Model) ingest(fe event.FileEvent) {
	m.caches.InvalidateFile(fe.Path)
	m.caches.Debouncer.AddEvent(fe)

	switch fe.Kind {
	case event.Created:
		m.files[fe.Path] = true
	case event.Deleted:
		delete(m.files, fe.Path)
	case event.Moved:
		delete(m.files, fe.MovedFrom)
		m.files[fe.Path] = true
	}
	m.fileSetHash = hashFileSet(m.files)
}

func (m *Model) appendToFeed(fe event.FileEvent) {
	m.feed = append(m.feed, fe)
	if over := len(m.feed) - m.cfg.Watcher.MaxEvents; over > 0 {
		m.feed = m.feed[over:]
		if m.feedIndex >= over {
			m.feedIndex -= over
		} else {
			m.feedIndex = 0
		}
	}
	m.session.AddChange(fe)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.mode == modeSearch {
		return m.handleSearchKey(msg)
	}

	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, keys.Help):
		m.showHelp = !m.showHelp

	case key.Matches(msg, keys.Search):
		m.mode = modeSearch
		m.searchInput.Focus()
		return m, textinput.Blink

	case key.Matches(msg, keys.Review):
		if m.mode == modeFeed {
			if len(m.feed) > 0 {
				m.session.Navigate(review.JumpToFile, m.feed[m.feedIndex].Path)
			}
			m.mode = modeReview
		} else {
			m.mode = modeFeed
		}

	case key.Matches(msg, keys.Save):
		if path, err := m.session.Save(m.root); err != nil {
			m.statusMsg = "save failed: " + err.Error()
		} else {
			m.statusMsg = "session saved to " + path
		}

	default:
		if m.mode == modeReview {
			m.handleReviewKey(msg)
		} else {
			m.handleFeedKey(msg)
		}
	}

	return m, nil
}

func (m *Model) handleFeedKey(msg tea.KeyMsg) {
	switch {
	case key.Matches(msg, keys.Down):
		if m.feedIndex < len(m.feed)-1 {
			m.feedIndex++
		}
	case key.Matches(msg, keys.Up):
		if m.feedIndex > 0 {
			m.feedIndex--
		}
	}
}

func (m *Model) handleReviewKey(msg tea.KeyMsg) {
	change := m.session.CurrentChange()
	hunk := m.session.CurrentHunk()

	switch {
	case key.Matches(msg, keys.Down), key.Matches(msg, keys.NextHunk):
		m.session.Navigate(review.NextHunk, "")
	case key.Matches(msg, keys.Up), key.Matches(msg, keys.PrevHunk):
		m.session.Navigate(review.PreviousHunk, "")
	case key.Matches(msg, keys.NextChange):
		m.session.Navigate(review.NextChange, "")
	case key.Matches(msg, keys.PrevChange):
		m.session.Navigate(review.PreviousChange, "")
	case key.Matches(msg, keys.NextRisky):
		m.session.Navigate(review.NextRiskyChange, "")
	case key.Matches(msg, keys.Unreviewed):
		m.session.Navigate(review.FirstUnreviewed, "")
	case key.Matches(msg, keys.Accept):
		if change != nil && hunk != nil {
			change.AcceptHunk(hunk.ID)
			m.session.Navigate(review.NextHunk, "")
		}
	case key.Matches(msg, keys.Reject):
		if change != nil && hunk != nil {
			change.RejectHunk(hunk.ID)
			m.session.Navigate(review.NextHunk, "")
		}
	case key.Matches(msg, keys.Skip):
		if change != nil && hunk != nil {
			change.SkipHunk(hunk.ID)
			m.session.Navigate(review.NextHunk, "")
		}
	case key.Matches(msg, keys.AcceptAll):
		if change != nil {
			change.AcceptAll()
			m.session.Navigate(review.NextChange, "")
		}
	case key.Matches(msg, keys.RejectAll):
		if change != nil {
			change.RejectAll()
			m.session.Navigate(review.NextChange, "")
		}
	default:
		m.applyPresetKey(msg)
	}
}

// applyPresetKey binds the number-key filter presets.
func (m *Model) applyPresetKey(msg tea.KeyMsg) {
	if len(msg.Runes) != 1 {
		return
	}
	for _, p := range m.presets {
		if p.ShortcutKey == msg.Runes[0] {
			m.session.ApplyPreset(p)
			m.statusMsg = "filter: " + p.Name
			return
		}
	}
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = modeFeed
		m.searchInput.Reset()
		m.caches.Search.Clear()
		m.searchHits = nil
		return m, nil
	case tea.KeyEnter:
		if len(m.searchHits) > 0 {
			target := m.searchHits[m.searchIndex].Path
			m.session.Navigate(review.JumpToFile, target)
			m.mode = modeReview
		}
		return m, nil
	case tea.KeyDown:
		if m.searchIndex < len(m.searchHits)-1 {
			m.searchIndex++
		}
		return m, nil
	case tea.KeyUp:
		if m.searchIndex > 0 {
			m.searchIndex--
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	m.runSearch(m.searchInput.Value())
	return m, cmd
}

// runSearch scores files for the query, filtering the previous result set
// when the query merely extends the last one.
func (m *Model) runSearch(query string) {
	m.searchIndex = 0
	if query == "" {
		m.searchHits = nil
		m.caches.Search.Clear()
		return
	}

	var candidates []string
	if m.caches.Search.CanUseIncremental(query, m.fileSetHash) {
		for _, r := range m.caches.Search.IncrementalBase() {
			candidates = append(candidates, r.Path)
		}
	} else {
		for p := range m.files {
			candidates = append(candidates, p)
		}
		sort.Strings(candidates)
	}

	var hits []cache.SearchResult
	for _, path := range candidates {
		if score := scoreMatch(path, query); score > 0 {
			hits = append(hits, cache.SearchResult{Path: path, Score: score})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	if len(hits) > m.cfg.UI.MaxSearchResults {
		hits = hits[:m.cfg.UI.MaxSearchResults]
	}

	m.searchHits = hits
	m.caches.Search.Update(query, hits, m.fileSetHash)
}

// scoreMatch ranks base-name prefix matches above base-name substring
// matches above full-path matches.
func scoreMatch(path, query string) int {
	q := strings.ToLower(query)
	base := strings.ToLower(baseName(path))
	switch {
	case strings.HasPrefix(base, q):
		return 100
	case strings.Contains(base, q):
		return 50
	case strings.Contains(strings.ToLower(path), q):
		return 10
	}
	return 0
}

func baseName(path string) string {
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		return path[i+1:]
	}
	return path
}

// Run starts the TUI over a live event channel.
func Run(cfg config.Config, root string, events <-chan event.FileEvent, initialFiles []string) error {
	m := New(cfg, root, events, initialFiles)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
