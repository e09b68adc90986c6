// Package diff turns pairs of file contents into unified diffs and back.
//
// The line-diff computation itself is delegated to pluggable engines backed
// by third-party implementations; this package owns the chunk model, the
// unified-diff formatting, and the inverse apply operation.
package diff

import (
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// Op classifies a chunk of a line diff.
type Op int

const (
	OpEqual Op = iota
	OpDelete
	OpInsert
)

// Chunk is one grouped change operation over line ranges. Ranges are
// half-open indexes into the old and new line slices. Equal chunks span both
// sides; delete chunks span only the old side, insert chunks only the new.
type Chunk struct {
	Op       Op
	OldStart int
	OldEnd   int
	NewStart int
	NewEnd   int
}

// Engine computes a line diff between two documents.
type Engine interface {
	Name() string
	Diff(oldLines, newLines []string) []Chunk
}

// NewEngine returns the engine registered under name. Unknown names fall
// back to the default difflib engine.
func NewEngine(name string) Engine {
	switch name {
	case "dmp":
		return dmpEngine{}
	default:
		return difflibEngine{}
	}
}

// difflibEngine diffs with pmezard/go-difflib's sequence matcher.
type difflibEngine struct{}

func (difflibEngine) Name() string { return "difflib" }

func (difflibEngine) Diff(oldLines, newLines []string) []Chunk {
	m := difflib.NewMatcher(oldLines, newLines)

	var chunks []Chunk
	for _, oc := range m.GetOpCodes() {
		switch oc.Tag {
		case 'e':
			chunks = append(chunks, Chunk{OpEqual, oc.I1, oc.I2, oc.J1, oc.J2})
		case 'd':
			chunks = append(chunks, Chunk{OpDelete, oc.I1, oc.I2, oc.J1, oc.J1})
		case 'i':
			chunks = append(chunks, Chunk{OpInsert, oc.I1, oc.I1, oc.J1, oc.J2})
		case 'r':
			chunks = append(chunks,
				Chunk{OpDelete, oc.I1, oc.I2, oc.J1, oc.J1},
				Chunk{OpInsert, oc.I2, oc.I2, oc.J1, oc.J2})
		}
	}
	return chunks
}

// dmpEngine diffs with sergi/go-diff. Lines are interned to runes so the
// character diff operates on whole lines, then mapped back to line ranges.
type dmpEngine struct{}

func (dmpEngine) Name() string { return "dmp" }

func (dmpEngine) Diff(oldLines, newLines []string) []Chunk {
	intern := make(map[string]rune)
	next := rune(1)
	encode := func(lines []string) []rune {
		out := make([]rune, len(lines))
		for i, l := range lines {
			r, ok := intern[l]
			if !ok {
				r = next
				intern[l] = r
				next++
				// Surrogates are invalid in UTF-8 and would be mangled
				// by the string conversion below.
				if next == 0xD800 {
					next = 0xE000
				}
			}
			out[i] = r
		}
		return out
	}

	a := encode(oldLines)
	b := encode(newLines)

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(string(a), string(b), false)

	var chunks []Chunk
	oldPos, newPos := 0, 0
	for _, d := range diffs {
		n := len([]rune(d.Text))
		if n == 0 {
			continue
		}
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			chunks = append(chunks, Chunk{OpEqual, oldPos, oldPos + n, newPos, newPos + n})
			oldPos += n
			newPos += n
		case diffmatchpatch.DiffDelete:
			chunks = append(chunks, Chunk{OpDelete, oldPos, oldPos + n, newPos, newPos})
			oldPos += n
		case diffmatchpatch.DiffInsert:
			chunks = append(chunks, Chunk{OpInsert, oldPos, oldPos, newPos, newPos + n})
			newPos += n
		}
	}
	return chunks
}

// SplitLines splits content for diffing. Splitting on "\n" and rejoining is
// an exact inverse, which the apply round trip depends on.
func SplitLines(content string) []string {
	return strings.Split(content, "\n")
}

// Apply replays a chunk list against the old lines, producing the new
// document: equal chunks copy old lines, inserts pull from newLines, deletes
// drop their range.
func Apply(oldLines, newLines []string, chunks []Chunk) []string {
	var out []string
	for _, c := range chunks {
		switch c.Op {
		case OpEqual:
			out = append(out, oldLines[c.OldStart:c.OldEnd]...)
		case OpInsert:
			out = append(out, newLines[c.NewStart:c.NewEnd]...)
		}
	}
	return out
}

// Stats counts inserted and deleted lines in a chunk list.
func Stats(chunks []Chunk) (added, deleted int) {
	for _, c := range chunks {
		switch c.Op {
		case OpInsert:
			added += c.NewEnd - c.NewStart
		case OpDelete:
			deleted += c.OldEnd - c.OldStart
		}
	}
	return added, deleted
}

func (op Op) String() string {
	switch op {
	case OpEqual:
		return "equal"
	case OpDelete:
		return "delete"
	case OpInsert:
		return "insert"
	default:
		return fmt.Sprintf("op(%d)", int(op))
	}
}
