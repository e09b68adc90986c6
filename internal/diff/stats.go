package diff

import (
	"fmt"
	"strings"

	"github.com/bluekeyes/go-gitdiff/gitdiff"
)

// FileStat summarizes one file's share of a unified diff.
type FileStat struct {
	Path         string
	AddedLines   int
	DeletedLines int
	Hunks        int
}

// Stat parses unified diff text and returns per-file line statistics. Used
// for status bars and session exports, where the raw text has already been
// produced by the pipeline.
func Stat(unified string) ([]FileStat, error) {
	if strings.TrimSpace(unified) == "" {
		return nil, nil
	}

	files, _, err := gitdiff.Parse(strings.NewReader(unified))
	if err != nil {
		return nil, fmt.Errorf("parsing diff: %w", err)
	}

	stats := make([]FileStat, 0, len(files))
	for _, f := range files {
		fs := FileStat{Path: f.NewName}
		if fs.Path == "" {
			fs.Path = f.OldName
		}
		for _, frag := range f.TextFragments {
			fs.Hunks++
			for _, line := range frag.Lines {
				switch line.Op {
				case gitdiff.OpAdd:
					fs.AddedLines++
				case gitdiff.OpDelete:
					fs.DeletedLines++
				}
			}
		}
		stats = append(stats, fs)
	}
	return stats, nil
}

// Totals sums a stat list.
func Totals(stats []FileStat) (added, deleted int) {
	for _, s := range stats {
		added += s.AddedLines
		deleted += s.DeletedLines
	}
	return added, deleted
}
