package review

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/sprite-ai/watchdiff/internal/event"
)

// ReviewFilters is a conjunction of optional sub-filters. A change must pass
// every configured sub-filter; there is no OR composition.
type ReviewFilters struct {
	ConfidenceLevel     *event.ConfidenceLevel `json:"confidence_level,omitempty"`
	ConfidenceThreshold *float64               `json:"confidence_threshold,omitempty"`
	ShowOnlyRisky       bool                   `json:"show_only_risky"`
	ShowOnlyAIChanges   bool                   `json:"show_only_ai_changes"`
	OriginFilter        *event.OriginType      `json:"origin_filter,omitempty"`
	FilePattern         string                 `json:"file_pattern,omitempty"`
	FileRegex           string                 `json:"file_regex,omitempty"`
	BatchFilter         string                 `json:"batch_filter,omitempty"`
	MinHunks            *int                   `json:"min_hunks,omitempty"`
	MaxHunks            *int                   `json:"max_hunks,omitempty"`
	ExcludeReviewed     bool                   `json:"exclude_reviewed"`
	ShowOnlyPending     bool                   `json:"show_only_pending"`
}

// FilterPreset is a named, reusable filter configuration.
type FilterPreset struct {
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Filters     ReviewFilters `json:"filters"`
	ShortcutKey rune          `json:"shortcut_key,omitempty"`
}

// MatchesFilter evaluates the conjunction, short-circuiting on the first
// failing sub-filter. A threshold or level filter fails outright when the
// change carries no confidence.
func (c *ReviewableChange) MatchesFilter(f ReviewFilters) bool {
	if f.ConfidenceLevel != nil {
		if c.Event.Confidence == nil || c.Event.Confidence.Level != *f.ConfidenceLevel {
			return false
		}
	}
	if f.ConfidenceThreshold != nil {
		if c.Event.Confidence == nil || c.Event.Confidence.Score < *f.ConfidenceThreshold {
			return false
		}
	}
	if f.ShowOnlyRisky && !c.IsHighRisk() {
		return false
	}
	if f.ShowOnlyAIChanges && !c.IsAIGenerated() {
		return false
	}
	if f.OriginFilter != nil && c.Event.Origin.Type != *f.OriginFilter {
		return false
	}
	if f.FilePattern != "" {
		if !strings.Contains(filepath.Base(c.Event.Path), f.FilePattern) {
			return false
		}
	}
	if f.FileRegex != "" {
		// An invalid pattern is ignored rather than rejecting everything.
		if re, err := regexp.Compile(f.FileRegex); err == nil && !re.MatchString(c.Event.Path) {
			return false
		}
	}
	if f.BatchFilter != "" {
		if c.Event.BatchID == "" || !strings.Contains(c.Event.BatchID, f.BatchFilter) {
			return false
		}
	}
	if f.MinHunks != nil && len(c.Hunks) < *f.MinHunks {
		return false
	}
	if f.MaxHunks != nil && len(c.Hunks) > *f.MaxHunks {
		return false
	}
	if f.ExcludeReviewed && c.OverallAction != Pending {
		return false
	}
	if f.ShowOnlyPending && c.OverallAction != Pending {
		return false
	}
	return true
}

// DefaultPresets returns the built-in filter presets, bound to number keys.
func DefaultPresets() []FilterPreset {
	threshold := 0.5
	minHunks := 5
	return []FilterPreset{
		{
			Name:        "Risky Changes",
			Description: "Show only high-risk changes that need careful review",
			Filters:     ReviewFilters{ShowOnlyRisky: true, ExcludeReviewed: true},
			ShortcutKey: '1',
		},
		{
			Name:        "AI Changes",
			Description: "Show only changes made by AI agents",
			Filters:     ReviewFilters{ShowOnlyAIChanges: true, ExcludeReviewed: true},
			ShortcutKey: '2',
		},
		{
			Name:        "Pending Review",
			Description: "Show only changes that haven't been reviewed yet",
			Filters:     ReviewFilters{ShowOnlyPending: true},
			ShortcutKey: '3',
		},
		{
			Name:        "Low Confidence",
			Description: "Show changes with confidence below 50%",
			Filters:     ReviewFilters{ConfidenceThreshold: &threshold, ExcludeReviewed: true},
			ShortcutKey: '4',
		},
		{
			Name:        "Large Changes",
			Description: "Show changes with many hunks (>5)",
			Filters:     ReviewFilters{MinHunks: &minHunks, ExcludeReviewed: true},
			ShortcutKey: '5',
		},
	}
}
