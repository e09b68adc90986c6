package review

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sprite-ai/watchdiff/internal/event"
)

// sessionsDir is the fixed location under the watched root.
const sessionsDir = ".watchdiff/sessions"

// NavigationAction selects one movement through the session's changes and
// hunks.
type NavigationAction int

const (
	NextChange NavigationAction = iota
	PreviousChange
	NextHunk
	PreviousHunk
	NextRiskyChange
	FirstUnreviewed
	JumpToFile
)

// Session is a navigable review over an ordered list of changes. Indices are
// kept in bounds by construction; navigation past an edge returns false
// instead of moving.
type Session struct {
	ID                 string              `json:"id"`
	StartedAt          time.Time           `json:"started_at"`
	Changes            []*ReviewableChange `json:"changes"`
	CurrentChangeIndex int                 `json:"current_change_index"`
	CurrentHunkIndex   int                 `json:"current_hunk_index"`
	Filters            ReviewFilters       `json:"filters"`
	SnapshotPath       string              `json:"snapshot_path,omitempty"`
}

// Stats summarizes review progress over a session.
type Stats struct {
	Total    int `json:"total"`
	Accepted int `json:"accepted"`
	Rejected int `json:"rejected"`
	Skipped  int `json:"skipped"`
	Pending  int `json:"pending"`
}

// CompletionPercentage is the share of changes that have left Pending. An
// empty session counts as complete.
func (s Stats) CompletionPercentage() float64 {
	if s.Total == 0 {
		return 100.0
	}
	return float64(s.Total-s.Pending) / float64(s.Total) * 100.0
}

// NewSession starts an empty session with a fresh id.
func NewSession() *Session {
	return &Session{
		ID:        uuid.NewString(),
		StartedAt: time.Now(),
	}
}

// AddChange parses the event into a reviewable change and appends it.
func (s *Session) AddChange(fe event.FileEvent) {
	s.Changes = append(s.Changes, NewReviewableChange(fe))
}

// CurrentChange returns the change under the cursor, or nil when the session
// is empty.
func (s *Session) CurrentChange() *ReviewableChange {
	if s.CurrentChangeIndex < 0 || s.CurrentChangeIndex >= len(s.Changes) {
		return nil
	}
	return s.Changes[s.CurrentChangeIndex]
}

// CurrentHunk returns the hunk under the cursor, or nil.
func (s *Session) CurrentHunk() *DiffHunk {
	c := s.CurrentChange()
	if c == nil || s.CurrentHunkIndex < 0 || s.CurrentHunkIndex >= len(c.Hunks) {
		return nil
	}
	return &c.Hunks[s.CurrentHunkIndex]
}

// Navigate moves the cursor and reports whether it moved. JumpToFile uses
// the target argument; every other action ignores it.
func (s *Session) Navigate(action NavigationAction, target string) bool {
	switch action {
	case NextChange:
		if s.CurrentChangeIndex+1 < len(s.Changes) {
			s.CurrentChangeIndex++
			s.CurrentHunkIndex = 0
			return true
		}
		return false
	case PreviousChange:
		if s.CurrentChangeIndex > 0 {
			s.CurrentChangeIndex--
			s.CurrentHunkIndex = 0
			return true
		}
		return false
	case NextHunk:
		if c := s.CurrentChange(); c != nil {
			if s.CurrentHunkIndex+1 < len(c.Hunks) {
				s.CurrentHunkIndex++
				return true
			}
			return s.Navigate(NextChange, "")
		}
		return false
	case PreviousHunk:
		if s.CurrentHunkIndex > 0 {
			s.CurrentHunkIndex--
			return true
		}
		if s.CurrentChangeIndex > 0 {
			s.CurrentChangeIndex--
			if c := s.CurrentChange(); c != nil && len(c.Hunks) > 0 {
				s.CurrentHunkIndex = len(c.Hunks) - 1
			} else {
				s.CurrentHunkIndex = 0
			}
			return true
		}
		return false
	case NextRiskyChange:
		for i := s.CurrentChangeIndex + 1; i < len(s.Changes); i++ {
			if s.Changes[i].IsHighRisk() {
				s.CurrentChangeIndex = i
				s.CurrentHunkIndex = 0
				return true
			}
		}
		return false
	case FirstUnreviewed:
		for i, c := range s.Changes {
			if c.OverallAction == Pending {
				s.CurrentChangeIndex = i
				s.CurrentHunkIndex = 0
				return true
			}
		}
		return false
	case JumpToFile:
		for i, c := range s.Changes {
			if c.Event.Path == target {
				s.CurrentChangeIndex = i
				s.CurrentHunkIndex = 0
				return true
			}
		}
		return false
	}
	return false
}

// FilteredChange pairs a change with its index in the unfiltered list, so
// callers can navigate to it.
type FilteredChange struct {
	Index  int
	Change *ReviewableChange
}

// FilteredChanges returns the changes passing the session's filters.
func (s *Session) FilteredChanges() []FilteredChange {
	var out []FilteredChange
	for i, c := range s.Changes {
		if c.MatchesFilter(s.Filters) {
			out = append(out, FilteredChange{Index: i, Change: c})
		}
	}
	return out
}

// ApplyPreset swaps the session's filters for the preset's.
func (s *Session) ApplyPreset(preset FilterPreset) {
	s.Filters = preset.Filters
}

// ReviewStats tallies the overall actions across all changes.
func (s *Session) ReviewStats() Stats {
	st := Stats{Total: len(s.Changes)}
	for _, c := range s.Changes {
		switch c.OverallAction {
		case Accept:
			st.Accepted++
		case Reject:
			st.Rejected++
		case Skip:
			st.Skipped++
		}
	}
	st.Pending = st.Total - st.Accepted - st.Rejected - st.Skipped
	return st
}

// GeneratePatch renders the accepted hunks of every change as one unified
// patch, grouped per file in session order.
func (s *Session) GeneratePatch() string {
	var b strings.Builder
	for _, c := range s.Changes {
		accepted := c.AcceptedHunks()
		if len(accepted) == 0 {
			continue
		}
		fmt.Fprintf(&b, "--- a/%s\n", c.Event.Path)
		fmt.Fprintf(&b, "+++ b/%s\n", c.Event.Path)
		for _, h := range accepted {
			b.WriteString(h.Header)
			b.WriteByte('\n')
			for _, line := range h.Lines {
				b.WriteString(line)
				b.WriteByte('\n')
			}
		}
	}
	return b.String()
}

func sessionFile(root, id string) string {
	return filepath.Join(root, sessionsDir, id+".json")
}

// Save writes the session under root and records the snapshot path.
func (s *Session) Save(root string) (string, error) {
	dir := filepath.Join(root, sessionsDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating sessions directory: %w", err)
	}

	path := sessionFile(root, s.ID)
	s.SnapshotPath = path
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding session %s: %w", s.ID, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing session %s: %w", s.ID, err)
	}
	return path, nil
}

// LoadSession reads a saved session by id.
func LoadSession(root, id string) (*Session, error) {
	data, err := os.ReadFile(sessionFile(root, id))
	if err != nil {
		return nil, fmt.Errorf("reading session %s: %w", id, err)
	}
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decoding session %s: %w", id, err)
	}
	return &s, nil
}

// ListSessions returns the ids of every saved session under root.
func ListSessions(root string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(root, sessionsDir))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}

	var ids []string
	for _, e := range entries {
		if name := e.Name(); strings.HasSuffix(name, ".json") {
			ids = append(ids, strings.TrimSuffix(name, ".json"))
		}
	}
	return ids, nil
}

// DeleteSession removes a saved session. Deleting a session that does not
// exist is not an error.
func DeleteSession(root, id string) error {
	err := os.Remove(sessionFile(root, id))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
