package diff

import (
	"fmt"
	"strings"
)

// DefaultContext is the number of context lines around each hunk.
const DefaultContext = 3

// Generator produces unified diff text from content pairs using a fixed
// engine. It carries no per-call state and is safe to share.
type Generator struct {
	engine  Engine
	context int
}

// NewGenerator builds a Generator around the named engine.
func NewGenerator(engineName string) *Generator {
	return &Generator{
		engine:  NewEngine(engineName),
		context: DefaultContext,
	}
}

// EngineName reports which diff engine backs this generator.
func (g *Generator) EngineName() string { return g.engine.Name() }

// Unified diffs old against new and renders git-style unified diff text.
// Returns the empty string when the contents are identical.
func (g *Generator) Unified(path, oldContent, newContent string) string {
	if oldContent == newContent {
		return ""
	}

	oldLines := SplitLines(oldContent)
	newLines := SplitLines(newContent)
	chunks := g.engine.Diff(oldLines, newLines)

	var b strings.Builder
	fmt.Fprintf(&b, "--- a/%s\n", path)
	fmt.Fprintf(&b, "+++ b/%s\n", path)

	for _, group := range groupChunks(chunks, g.context) {
		writeHunk(&b, group, oldLines, newLines)
	}
	return b.String()
}

// Chunks exposes the raw engine output for callers that need the grouped
// operations rather than the rendered text.
func (g *Generator) Chunks(oldContent, newContent string) ([]string, []string, []Chunk) {
	oldLines := SplitLines(oldContent)
	newLines := SplitLines(newContent)
	return oldLines, newLines, g.engine.Diff(oldLines, newLines)
}

// groupChunks splits a chunk list into hunk groups, trimming equal runs to
// the context width the way unified diffs do.
func groupChunks(chunks []Chunk, context int) [][]Chunk {
	// Drop leading/trailing noise when there are no changes at all.
	hasChange := false
	for _, c := range chunks {
		if c.Op != OpEqual {
			hasChange = true
			break
		}
	}
	if !hasChange {
		return nil
	}

	work := make([]Chunk, len(chunks))
	copy(work, chunks)

	// Trim the outermost equal chunks to the context width.
	if len(work) > 0 && work[0].Op == OpEqual {
		c := &work[0]
		if c.OldEnd-c.OldStart > context {
			c.OldStart = c.OldEnd - context
			c.NewStart = c.NewEnd - context
		}
	}
	if n := len(work) - 1; n >= 0 && work[n].Op == OpEqual {
		c := &work[n]
		if c.OldEnd-c.OldStart > context {
			c.OldEnd = c.OldStart + context
			c.NewEnd = c.NewStart + context
		}
	}

	var groups [][]Chunk
	var current []Chunk
	for _, c := range work {
		// A long equal run in the middle closes the current group.
		if c.Op == OpEqual && c.OldEnd-c.OldStart > 2*context && len(current) > 0 {
			tail := c
			tail.OldEnd = tail.OldStart + context
			tail.NewEnd = tail.NewStart + context
			current = append(current, tail)
			groups = append(groups, current)

			head := c
			head.OldStart = head.OldEnd - context
			head.NewStart = head.NewEnd - context
			current = []Chunk{head}
			continue
		}
		current = append(current, c)
	}
	if len(current) > 0 {
		groups = append(groups, current)
	}
	return groups
}

func writeHunk(b *strings.Builder, group []Chunk, oldLines, newLines []string) {
	first, last := group[0], group[len(group)-1]
	oldStart, oldCount := first.OldStart+1, last.OldEnd-first.OldStart
	newStart, newCount := first.NewStart+1, last.NewEnd-first.NewStart
	if oldCount == 0 {
		oldStart--
	}
	if newCount == 0 {
		newStart--
	}

	fmt.Fprintf(b, "@@ -%d,%d +%d,%d @@\n", oldStart, oldCount, newStart, newCount)

	for _, c := range group {
		switch c.Op {
		case OpEqual:
			for _, line := range oldLines[c.OldStart:c.OldEnd] {
				b.WriteByte(' ')
				b.WriteString(line)
				b.WriteByte('\n')
			}
		case OpDelete:
			for _, line := range oldLines[c.OldStart:c.OldEnd] {
				b.WriteByte('-')
				b.WriteString(line)
				b.WriteByte('\n')
			}
		case OpInsert:
			for _, line := range newLines[c.NewStart:c.NewEnd] {
				b.WriteByte('+')
				b.WriteString(line)
				b.WriteByte('\n')
			}
		}
	}
}
