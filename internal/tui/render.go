package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sprite-ai/watchdiff/internal/diff"
	"github.com/sprite-ai/watchdiff/internal/event"
	"github.com/sprite-ai/watchdiff/internal/review"
)

// View implements tea.Model.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}

	var body string
	switch m.mode {
	case modeSearch:
		body = m.renderSearch()
	case modeReview:
		body = m.renderReview()
	default:
		body = m.renderFeed()
	}

	return lipgloss.JoinVertical(lipgloss.Left, body, m.renderStatusBar())
}

func kindStyleFor(k event.Kind) lipgloss.Style {
	switch k {
	case event.Created:
		return kindCreatedStyle
	case event.Deleted:
		return kindDeletedStyle
	case event.Moved:
		return kindMovedStyle
	default:
		return kindModifiedStyle
	}
}

func originBadge(o event.ChangeOrigin) string {
	switch o.Type {
	case event.OriginAIAgent:
		return originAIStyle.Render("[" + o.ToolName + "]")
	case event.OriginHuman:
		return originHumanStyle.Render("[human]")
	case event.OriginTool:
		return originHumanStyle.Render("[" + o.ToolName + "]")
	default:
		return originUnknownStyle.Render("[?]")
	}
}

func confidenceBadge(c *event.ChangeConfidence) string {
	if c == nil {
		return ""
	}
	label := fmt.Sprintf("%s %.0f%%", c.Level, c.Score*100)
	switch c.Level {
	case event.LevelSafe:
		return confidenceSafeStyle.Render(label)
	case event.LevelReview:
		return confidenceReviewStyle.Render(label)
	default:
		return confidenceRiskyStyle.Render(label)
	}
}

func (m Model) renderFeed() string {
	if len(m.feed) == 0 {
		return feedStyle.Width(m.width - 2).Height(m.height - 3).Render("Watching for changes...")
	}

	visible := m.viewHeight
	if visible < 1 {
		visible = 1
	}
	start := 0
	if m.feedIndex >= visible {
		start = m.feedIndex - visible + 1
	}
	end := start + visible
	if end > len(m.feed) {
		end = len(m.feed)
	}

	var b strings.Builder
	for i := start; i < end; i++ {
		fe := m.feed[i]

		parts := []string{
			fe.Timestamp.Format("15:04:05"),
			kindStyleFor(fe.Kind).Render(fe.Kind.String()),
			fe.Path,
		}
		if fe.Kind == event.Moved {
			parts[2] = fe.MovedFrom + " → " + fe.Path
		}
		parts = append(parts, originBadge(fe.Origin))
		if badge := confidenceBadge(fe.Confidence); badge != "" {
			parts = append(parts, badge)
		}
		if fe.BatchID != "" {
			parts = append(parts, batchStyle.Render(fe.BatchID))
		}

		line := strings.Join(parts, "  ")
		if i == m.feedIndex {
			line = feedItemSelectedStyle.Render(line)
		} else {
			line = feedItemStyle.Render(line)
		}
		b.WriteString(line)
		if i < end-1 {
			b.WriteByte('\n')
		}
	}

	return feedStyle.Width(m.width - 2).Height(m.height - 3).Render(b.String())
}

func (m Model) renderReview() string {
	change := m.session.CurrentChange()
	if change == nil {
		return reviewViewStyle.Width(m.width - 2).Height(m.height - 3).Render("No changes to review")
	}

	var b strings.Builder

	header := change.Event.Path
	if stats, err := diff.Stat(change.Event.Diff); err == nil && len(stats) > 0 {
		added, deleted := diff.Totals(stats)
		header += fmt.Sprintf("  +%d -%d", added, deleted)
	}
	b.WriteString(changeHeaderStyle.Render(header))
	b.WriteString("  ")
	b.WriteString(originBadge(change.Event.Origin))
	if badge := confidenceBadge(change.Event.Confidence); badge != "" {
		b.WriteString("  ")
		b.WriteString(badge)
	}
	b.WriteByte('\n')

	if len(change.Hunks) == 0 {
		b.WriteString(m.renderPreview(change.Event))
	}

	for i, h := range change.Hunks {
		marker := actionMarker(change.ReviewActions[h.ID])
		head := marker + " " + h.Header
		if i == m.session.CurrentHunkIndex {
			b.WriteString(hunkSelectedStyle.Render(head))
		} else {
			b.WriteString(hunkHeaderStyle.Render(head))
		}
		b.WriteByte('\n')

		for _, line := range h.Lines {
			b.WriteString(styleDiffLine(line))
			b.WriteByte('\n')
		}
	}

	content := clampLines(b.String(), m.viewHeight)
	return reviewViewStyle.Width(m.width - 2).Height(m.height - 3).Render(content)
}

// renderPreview shows the file body for changes that carry no diff, reading
// through the content cache and highlighting through the syntax cache. When
// the file cannot be read (deleted, binary, gone again) the event's inline
// preview is the fallback.
func (m Model) renderPreview(fe event.FileEvent) string {
	content, err := m.caches.Content.GetContent(fe.Path)
	if err != nil {
		if fe.ContentPreview != "" {
			return contextLineStyle.Render(fe.ContentPreview)
		}
		return helpBarStyle.Render("no diff for this change")
	}

	lines := m.caches.Syntax.GetHighlighted(fe.Path, diff.LanguageForPath(fe.Path), content)
	limit := len(lines)
	if m.viewHeight > 2 && limit > m.viewHeight-2 {
		limit = m.viewHeight - 2
	}

	var b strings.Builder
	for _, line := range lines[:limit] {
		b.WriteString(renderTokens(line))
		b.WriteByte('\n')
	}
	return b.String()
}

func renderTokens(line diff.HighlightedLine) string {
	var b strings.Builder
	for _, tok := range line.Tokens {
		if tok.Color == "" {
			b.WriteString(tok.Text)
			continue
		}
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(tok.Color)).Render(tok.Text))
	}
	return b.String()
}

func actionMarker(a review.Action) string {
	switch a {
	case review.Accept:
		return actionAcceptStyle.Render("✓")
	case review.Reject:
		return actionRejectStyle.Render("✗")
	case review.Skip:
		return actionSkipStyle.Render("→")
	default:
		return actionPendingStyle.Render("·")
	}
}

func styleDiffLine(line string) string {
	switch {
	case strings.HasPrefix(line, "+"):
		return addedLineStyle.Render(line)
	case strings.HasPrefix(line, "-"):
		return deletedLineStyle.Render(line)
	default:
		return contextLineStyle.Render(line)
	}
}

// clampLines trims overflowing content to the viewport height.
func clampLines(content string, height int) string {
	if height < 1 {
		return content
	}
	lines := strings.Split(content, "\n")
	if len(lines) <= height {
		return content
	}
	return strings.Join(lines[:height], "\n")
}

func (m Model) renderSearch() string {
	var b strings.Builder
	b.WriteString(m.searchInput.View())
	b.WriteString("\n\n")

	for i, hit := range m.searchHits {
		if i >= m.viewHeight-2 {
			break
		}
		line := hit.Path
		if i == m.searchIndex {
			line = searchResultSelectedStyle.Render(line)
		} else {
			line = searchResultStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	if len(m.searchHits) == 0 && m.searchInput.Value() != "" {
		b.WriteString(helpBarStyle.Render("no matches"))
	}

	return searchBoxStyle.Width(m.width - 2).Height(m.height - 3).Render(b.String())
}

func (m Model) renderStatusBar() string {
	stats := m.session.ReviewStats()
	snap := m.caches.Snapshot()

	left := fmt.Sprintf(" %d events  review %d/%d (%.0f%%)",
		len(m.feed), stats.Total-stats.Pending, stats.Total, stats.CompletionPercentage())
	if m.statusMsg != "" {
		left += "  " + m.statusMsg
	}

	right := fmt.Sprintf("cache %d/%d  pending %d  ? help ",
		snap.FileContentEntries, snap.FileContentCapacity, snap.PendingEvents)

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}
	return statusBarStyle.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}

func (m Model) renderHelp() string {
	var b strings.Builder

	b.WriteString(changeHeaderStyle.Render("watchdiff — Keyboard Shortcuts"))
	b.WriteString("\n\n")

	helpItems := []struct{ key, desc string }{
		{"↑/k ↓/j", "Move"},
		{"r/enter", "Toggle review mode"},
		{"n/tab", "Next change"},
		{"N/S-tab", "Previous change"},
		{"]/[", "Next / previous hunk"},
		{"!", "Next risky change"},
		{"u", "First unreviewed change"},
		{"a / x / s", "Accept / reject / skip hunk"},
		{"A / X", "Accept / reject whole change"},
		{"1-5", "Filter presets"},
		{"/", "Search files"},
		{"C-s", "Save session"},
		{"?", "Toggle this help"},
		{"q", "Quit"},
	}

	for _, item := range helpItems {
		b.WriteString(fmt.Sprintf("  %s  %s\n",
			helpKeyStyle.Width(12).Render(item.key),
			item.desc,
		))
	}

	b.WriteString("\n")
	b.WriteString(helpBarStyle.Render("Press ? to close help"))

	return b.String()
}
