package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sprite-ai/watchdiff/internal/config"
	"github.com/sprite-ai/watchdiff/internal/event"
	"github.com/sprite-ai/watchdiff/internal/review"
)

const testDiff = `--- a/main.go
+++ b/main.go
@@ -1,3 +1,4 @@
 package main
+import "fmt"

 func main() {
`

func testEvent(path string, kind event.Kind) event.FileEvent {
	fe := event.New(path, kind)
	if kind == event.Modified {
		fe.Diff = testDiff
	}
	return fe
}

func setupModel(t *testing.T) Model {
	t.Helper()
	cfg := config.Default()
	cfg.UI.SearchDebounceMS = 0 // release debounced events immediately
	m := New(cfg, t.TempDir(), nil, []string{"/w/main.go", "/w/util.go"})
	newM, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return newM.(Model)
}

func push(t *testing.T, m Model, fe event.FileEvent) Model {
	t.Helper()
	newM, _ := m.Update(eventMsg(fe))
	newM, _ = newM.(Model).Update(flushMsg{})
	return newM.(Model)
}

func TestEventsFlowThroughDebouncerToFeed(t *testing.T) {
	m := setupModel(t)

	m = push(t, m, testEvent("/w/main.go", event.Modified))

	if len(m.feed) != 1 {
		t.Fatalf("feed length = %d, want 1", len(m.feed))
	}
	if got := m.session.ReviewStats().Total; got != 1 {
		t.Errorf("session changes = %d, want 1", got)
	}
}

func TestFeedWaitsOutUIDebounceWindow(t *testing.T) {
	cfg := config.Default() // UI debounce window at its 300ms default
	m := New(cfg, t.TempDir(), nil, nil)
	newM, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = newM.(Model)

	newM, _ = m.Update(eventMsg(testEvent("/w/a.go", event.Modified)))
	m = newM.(Model)
	newM, _ = m.Update(flushMsg{})
	m = newM.(Model)

	if len(m.feed) != 0 {
		t.Fatalf("event released before the UI debounce window elapsed (feed=%d)", len(m.feed))
	}
	if got := m.caches.Debouncer.PendingCount(); got != 1 {
		t.Errorf("pending = %d, want 1", got)
	}
}

func TestFeedIsBounded(t *testing.T) {
	m := setupModel(t)
	m.cfg.Watcher.MaxEvents = 2

	for i := 0; i < 3; i++ {
		m = push(t, m, testEvent(fmt.Sprintf("/w/f%d.go", i), event.Modified))
	}

	if len(m.feed) != 2 {
		t.Fatalf("feed length = %d, want 2", len(m.feed))
	}
	if m.feed[0].Path != "/w/f1.go" {
		t.Errorf("oldest event not dropped, feed starts at %s", m.feed[0].Path)
	}
}

func TestFileSetHashTracksCreateDelete(t *testing.T) {
	m := setupModel(t)
	before := m.fileSetHash

	m = push(t, m, testEvent("/w/new.go", event.Created))
	if m.fileSetHash == before {
		t.Error("hash unchanged after create")
	}

	after := m.fileSetHash
	m = push(t, m, testEvent("/w/new.go", event.Deleted))
	if m.fileSetHash == after {
		t.Error("hash unchanged after delete")
	}
	if m.fileSetHash != before {
		t.Error("hash should return to the original value")
	}
}

func TestReviewModeToggleAndDecisions(t *testing.T) {
	m := setupModel(t)
	m = push(t, m, testEvent("/w/main.go", event.Modified))

	newM, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	m = newM.(Model)
	if m.mode != modeReview {
		t.Fatal("expected review mode after toggle")
	}

	newM, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}})
	m = newM.(Model)

	change := m.session.Changes[0]
	if change.ReviewActions["hunk_0"] != review.Accept {
		t.Errorf("hunk action = %s, want accept", change.ReviewActions["hunk_0"])
	}
	if change.OverallAction != review.Accept {
		t.Errorf("overall action = %s, want accept for a single-hunk change", change.OverallAction)
	}
}

func TestPresetShortcut(t *testing.T) {
	m := setupModel(t)
	m = push(t, m, testEvent("/w/main.go", event.Modified))

	newM, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	m = newM.(Model)
	newM, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'1'}})
	m = newM.(Model)

	if !m.session.Filters.ShowOnlyRisky {
		t.Error("preset 1 should enable the risky-only filter")
	}
}

func TestSearchIncrementalReuse(t *testing.T) {
	m := setupModel(t)

	m.runSearch("ma")
	if len(m.searchHits) != 1 || m.searchHits[0].Path != "/w/main.go" {
		t.Fatalf("unexpected hits: %+v", m.searchHits)
	}
	if !m.caches.Search.CanUseIncremental("mai", m.fileSetHash) {
		t.Error("extending the query should allow incremental reuse")
	}
	if m.caches.Search.CanUseIncremental("mai", m.fileSetHash+1) {
		t.Error("a changed file set must force a full rescan")
	}

	m.runSearch("")
	if m.caches.Search.Active() {
		t.Error("clearing the query should clear the cache")
	}
}

func TestSearchScoring(t *testing.T) {
	if scoreMatch("/w/main.go", "main") <= scoreMatch("/w/domain.go", "main") {
		t.Error("base-name prefix should outrank substring")
	}
	if scoreMatch("/w/util.go", "zzz") != 0 {
		t.Error("non-match must score zero")
	}
}

func TestReviewPreviewReadsThroughCaches(t *testing.T) {
	m := setupModel(t)
	path := filepath.Join(m.root, "main.go")
	if err := os.WriteFile(path, []byte("package main\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	m = push(t, m, testEvent(path, event.Created))
	newM, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	m = newM.(Model)

	view := m.View()
	if !strings.Contains(view, "package") {
		t.Error("review preview should show the file body for a diff-less change")
	}

	snap := m.caches.Snapshot()
	if snap.FileContentEntries != 1 {
		t.Errorf("content cache entries = %d, want 1 after rendering the preview", snap.FileContentEntries)
	}
	if snap.SyntaxEntries != 1 {
		t.Errorf("syntax cache entries = %d, want 1 after rendering the preview", snap.SyntaxEntries)
	}
}

func TestViewRendersFeedAndReview(t *testing.T) {
	m := setupModel(t)
	m = push(t, m, testEvent("/w/main.go", event.Modified))

	view := m.View()
	if !strings.Contains(view, "main.go") {
		t.Error("feed view should contain the changed path")
	}

	newM, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	m = newM.(Model)
	view = m.View()
	if !strings.Contains(view, "@@ -1,3 +1,4 @@") {
		t.Error("review view should contain the hunk header")
	}
}

func TestHelpToggle(t *testing.T) {
	m := setupModel(t)

	newM, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'?'}})
	m = newM.(Model)
	if !m.showHelp {
		t.Fatal("expected help to be shown")
	}
	if !strings.Contains(m.View(), "Keyboard Shortcuts") {
		t.Error("expected help view to contain shortcuts")
	}
}
