package diff

import (
	"strconv"
	"strings"
	"testing"
)

var engines = []string{"difflib", "dmp"}

func TestEngineSelection(t *testing.T) {
	if NewEngine("difflib").Name() != "difflib" {
		t.Error("difflib engine not selected")
	}
	if NewEngine("dmp").Name() != "dmp" {
		t.Error("dmp engine not selected")
	}
	if NewEngine("bogus").Name() != "difflib" {
		t.Error("unknown engine name should fall back to difflib")
	}
}

func TestApplyRoundTrip(t *testing.T) {
	pairs := []struct{ name, old, new string }{
		{"single line change", "a\nb\nc", "a\nx\nc"},
		{"append", "a\nb", "a\nb\nc\nd"},
		{"prepend", "b\nc", "a\nb\nc"},
		{"delete middle", "a\nb\nc\nd", "a\nd"},
		{"full rewrite", "one\ntwo", "three\nfour\nfive"},
		{"empty to content", "", "hello\nworld"},
		{"content to empty", "hello\nworld", ""},
		{"identical", "same\nsame", "same\nsame"},
		{"trailing newline", "a\nb\n", "a\nc\n"},
		{"interleaved", "a\nb\nc\nd\ne\nf", "a\nx\nc\ny\ne\nz"},
	}

	for _, engineName := range engines {
		engine := NewEngine(engineName)
		for _, p := range pairs {
			oldLines := SplitLines(p.old)
			newLines := SplitLines(p.new)
			chunks := engine.Diff(oldLines, newLines)

			got := strings.Join(Apply(oldLines, newLines, chunks), "\n")
			if got != p.new {
				t.Errorf("%s/%s: apply(old, chunks) = %q, want %q",
					engineName, p.name, got, p.new)
			}
		}
	}
}

func TestChunkRangesCoverInputs(t *testing.T) {
	for _, engineName := range engines {
		engine := NewEngine(engineName)
		oldLines := SplitLines("a\nb\nc\nd")
		newLines := SplitLines("a\nx\nc")

		oldPos, newPos := 0, 0
		for _, c := range engine.Diff(oldLines, newLines) {
			if c.OldStart != oldPos || c.NewStart != newPos {
				t.Fatalf("%s: chunk %+v does not continue from (%d,%d)",
					engineName, c, oldPos, newPos)
			}
			oldPos = c.OldEnd
			newPos = c.NewEnd
		}
		if oldPos != len(oldLines) || newPos != len(newLines) {
			t.Errorf("%s: chunks end at (%d,%d), want (%d,%d)",
				engineName, oldPos, newPos, len(oldLines), len(newLines))
		}
	}
}

func TestDmpEngineHandlesManyUniqueLines(t *testing.T) {
	// Enough unique lines to push the interned rune values past the
	// surrogate block, which string conversion would mangle.
	const n = 60000
	oldLines := make([]string, n)
	for i := range oldLines {
		oldLines[i] = "line-" + strconv.Itoa(i)
	}
	newLines := make([]string, n)
	copy(newLines, oldLines)
	newLines[n-1] = "replacement"

	engine := NewEngine("dmp")
	chunks := engine.Diff(oldLines, newLines)
	got := Apply(oldLines, newLines, chunks)

	if len(got) != n {
		t.Fatalf("applied result has %d lines, want %d", len(got), n)
	}
	for i := range got {
		if got[i] != newLines[i] {
			t.Fatalf("line %d = %q, want %q", i, got[i], newLines[i])
		}
	}
}

func TestStats(t *testing.T) {
	engine := NewEngine("difflib")
	chunks := engine.Diff(SplitLines("a\nb\nc"), SplitLines("a\nx\ny\nc"))
	added, deleted := Stats(chunks)
	if added != 2 || deleted != 1 {
		t.Errorf("stats = +%d -%d, want +2 -1", added, deleted)
	}
}

func TestUnifiedOutput(t *testing.T) {
	g := NewGenerator("difflib")
	out := g.Unified("a.txt", "hello", "hello world")

	if !strings.Contains(out, "--- a/a.txt") || !strings.Contains(out, "+++ b/a.txt") {
		t.Errorf("missing file headers:\n%s", out)
	}
	if !strings.Contains(out, "-hello\n") {
		t.Errorf("missing deletion of old content:\n%s", out)
	}
	if !strings.Contains(out, "+hello world\n") {
		t.Errorf("missing insertion of new content:\n%s", out)
	}
}

func TestUnifiedIdenticalContent(t *testing.T) {
	g := NewGenerator("difflib")
	if out := g.Unified("a.txt", "same", "same"); out != "" {
		t.Errorf("identical content should produce no diff, got:\n%s", out)
	}
}

func TestUnifiedHunkGrouping(t *testing.T) {
	// Two edits far apart should land in separate hunks.
	var oldB, newB strings.Builder
	for i := 0; i < 30; i++ {
		line := "line"
		oldB.WriteString(line + "\n")
		if i == 2 {
			newB.WriteString("changed-first\n")
		} else if i == 27 {
			newB.WriteString("changed-second\n")
		} else {
			newB.WriteString(line + "\n")
		}
	}

	g := NewGenerator("difflib")
	out := g.Unified("big.txt", oldB.String(), newB.String())

	if n := strings.Count(out, "@@ -"); n != 2 {
		t.Errorf("expected 2 hunks, got %d:\n%s", n, out)
	}
}

func TestUnifiedParsesBackWithGitdiff(t *testing.T) {
	g := NewGenerator("difflib")
	out := g.Unified("src/lib.go", "a\nb\nc\n", "a\nB\nc\n")

	stats, err := Stat(out)
	if err != nil {
		t.Fatalf("generated diff must be parseable: %v", err)
	}
	if len(stats) != 1 {
		t.Fatalf("expected 1 file stat, got %d", len(stats))
	}
	if stats[0].AddedLines != 1 || stats[0].DeletedLines != 1 {
		t.Errorf("stat = +%d -%d, want +1 -1", stats[0].AddedLines, stats[0].DeletedLines)
	}
}

func TestStatEmpty(t *testing.T) {
	stats, err := Stat("  \n")
	if err != nil || stats != nil {
		t.Errorf("blank diff should yield no stats, got %v, %v", stats, err)
	}
}
