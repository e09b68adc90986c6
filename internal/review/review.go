// Package review turns FileEvents into hunk-addressable review decisions:
// parsing diffs into hunks, evaluating filters, and driving the navigable,
// persistable review session.
package review

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sprite-ai/watchdiff/internal/event"
)

// Action is a review decision on a hunk or a whole change.
type Action string

const (
	Accept  Action = "accept"
	Reject  Action = "reject"
	Skip    Action = "skip"
	Pending Action = "pending"
)

// HunkType classifies a hunk by the kinds of lines it carries.
type HunkType string

const (
	Addition     HunkType = "addition"
	Deletion     HunkType = "deletion"
	Modification HunkType = "modification"
	Context      HunkType = "context"
)

// DiffHunk is one addressable unit of a parsed diff. Hunks are parsed fresh
// from the event's diff text and never mutated afterwards; decisions live in
// the change's action map.
type DiffHunk struct {
	ID       string   `json:"id"`
	Type     HunkType `json:"type"`
	OldStart int      `json:"old_start"`
	OldCount int      `json:"old_count"`
	NewStart int      `json:"new_start"`
	NewCount int      `json:"new_count"`
	Lines    []string `json:"lines"`
	Header   string   `json:"header"`
}

// ReviewableChange wraps one FileEvent with its parsed hunks and the
// per-hunk decisions taken so far.
type ReviewableChange struct {
	Event         event.FileEvent   `json:"event"`
	Hunks         []DiffHunk        `json:"hunks"`
	ReviewActions map[string]Action `json:"review_actions"`
	OverallAction Action            `json:"overall_action"`
	ReviewedAt    *time.Time        `json:"reviewed_at,omitempty"`
}

// NewReviewableChange parses the event's diff into hunks, all starting
// Pending.
func NewReviewableChange(fe event.FileEvent) *ReviewableChange {
	hunks := parseHunks(fe.Diff)
	actions := make(map[string]Action, len(hunks))
	for _, h := range hunks {
		actions[h.ID] = Pending
	}
	return &ReviewableChange{
		Event:         fe,
		Hunks:         hunks,
		ReviewActions: actions,
		OverallAction: Pending,
	}
}

// AcceptHunk records an accept decision for the hunk.
func (c *ReviewableChange) AcceptHunk(hunkID string) { c.setAction(hunkID, Accept) }

// RejectHunk records a reject decision for the hunk.
func (c *ReviewableChange) RejectHunk(hunkID string) { c.setAction(hunkID, Reject) }

// SkipHunk records a skip decision for the hunk.
func (c *ReviewableChange) SkipHunk(hunkID string) { c.setAction(hunkID, Skip) }

// AcceptAll accepts every hunk at once.
func (c *ReviewableChange) AcceptAll() {
	for _, h := range c.Hunks {
		c.ReviewActions[h.ID] = Accept
	}
	c.recomputeOverall()
}

// RejectAll rejects every hunk at once.
func (c *ReviewableChange) RejectAll() {
	for _, h := range c.Hunks {
		c.ReviewActions[h.ID] = Reject
	}
	c.recomputeOverall()
}

func (c *ReviewableChange) setAction(hunkID string, a Action) {
	if _, known := c.ReviewActions[hunkID]; !known {
		return
	}
	c.ReviewActions[hunkID] = a
	c.recomputeOverall()
}

// recomputeOverall derives the overall action from the per-hunk map. The
// overall action is non-Pending only when every hunk agrees; a change with no
// hunks stays Pending forever. ReviewedAt is set the first time the change
// leaves Pending and never cleared.
func (c *ReviewableChange) recomputeOverall() {
	if len(c.Hunks) == 0 {
		c.OverallAction = Pending
		return
	}

	unanimous := c.ReviewActions[c.Hunks[0].ID]
	for _, h := range c.Hunks[1:] {
		if c.ReviewActions[h.ID] != unanimous {
			c.OverallAction = Pending
			return
		}
	}
	if unanimous == Pending {
		c.OverallAction = Pending
		return
	}

	c.OverallAction = unanimous
	if c.ReviewedAt == nil {
		now := time.Now()
		c.ReviewedAt = &now
	}
}

// IsHighRisk reports whether the underlying event scored Risky.
func (c *ReviewableChange) IsHighRisk() bool { return c.Event.IsHighRisk() }

// IsAIGenerated reports whether the underlying event came from an AI agent.
func (c *ReviewableChange) IsAIGenerated() bool { return c.Event.IsAIGenerated() }

// AcceptedHunks returns the hunks currently marked Accept, in parse order.
func (c *ReviewableChange) AcceptedHunks() []DiffHunk {
	var out []DiffHunk
	for _, h := range c.Hunks {
		if c.ReviewActions[h.ID] == Accept {
			out = append(out, h)
		}
	}
	return out
}

// parseHunks splits unified diff text into hunks. Malformed headers degrade
// to per-field defaults rather than failing the whole parse.
func parseHunks(diff string) []DiffHunk {
	if diff == "" {
		return nil
	}

	var hunks []DiffHunk
	var current *DiffHunk
	counter := 0

	flush := func() {
		if current != nil {
			current.Type = classifyHunk(current.Lines)
			hunks = append(hunks, *current)
			current = nil
		}
	}

	for _, line := range strings.Split(diff, "\n") {
		if strings.HasPrefix(line, "@@") {
			flush()
			oldStart, oldCount, newStart, newCount := parseHunkHeader(line)
			current = &DiffHunk{
				ID:       fmt.Sprintf("hunk_%d", counter),
				OldStart: oldStart,
				OldCount: oldCount,
				NewStart: newStart,
				NewCount: newCount,
				Header:   line,
			}
			counter++
			continue
		}
		if current != nil {
			current.Lines = append(current.Lines, line)
		}
	}
	flush()
	return hunks
}

// classifyHunk derives the hunk type from its line markers: both signs mean
// Modification, one sign alone means Addition or Deletion, neither means
// Context.
func classifyHunk(lines []string) HunkType {
	var hasAdd, hasDel bool
	for _, line := range lines {
		switch {
		case strings.HasPrefix(line, "+") && !strings.HasPrefix(line, "+++"):
			hasAdd = true
		case strings.HasPrefix(line, "-") && !strings.HasPrefix(line, "---"):
			hasDel = true
		}
	}
	switch {
	case hasAdd && hasDel:
		return Modification
	case hasAdd:
		return Addition
	case hasDel:
		return Deletion
	default:
		return Context
	}
}

// parseHunkHeader reads "@@ -oldStart,oldCount +newStart,newCount @@",
// defaulting each field to 1 when it cannot be parsed.
func parseHunkHeader(header string) (oldStart, oldCount, newStart, newCount int) {
	oldStart, oldCount, newStart, newCount = 1, 1, 1, 1

	for _, part := range strings.Fields(header) {
		switch {
		case strings.HasPrefix(part, "-"):
			oldStart, oldCount = parseRange(part[1:])
		case strings.HasPrefix(part, "+") && !strings.HasPrefix(part, "+++"):
			newStart, newCount = parseRange(part[1:])
		}
	}
	return oldStart, oldCount, newStart, newCount
}

func parseRange(s string) (start, count int) {
	start, count = 1, 1
	numStart, numCount, found := strings.Cut(s, ",")
	if n, err := strconv.Atoi(numStart); err == nil {
		start = n
	}
	if found {
		if n, err := strconv.Atoi(numCount); err == nil {
			count = n
		}
	}
	return start, count
}
