package watcher

import (
	"io/fs"
	"path/filepath"
	"strings"
)

// ignoredDirs are directory names skipped entirely, both for watching and
// for the initial file listing.
var ignoredDirs = map[string]bool{
	".git":         true,
	".hg":          true,
	".svn":         true,
	".idea":        true,
	".watchdiff":   true,
	"node_modules": true,
	"target":       true,
	"vendor":       true,
	"dist":         true,
	"__pycache__":  true,
}

// textExtensions classifies files worth reading for previews and diffs.
var textExtensions = map[string]bool{
	".rs": true, ".py": true, ".js": true, ".ts": true, ".jsx": true,
	".tsx": true, ".html": true, ".css": true, ".scss": true,
	".json": true, ".toml": true, ".yaml": true, ".yml": true,
	".xml": true, ".md": true, ".txt": true, ".log": true,
	".c": true, ".cpp": true, ".h": true, ".hpp": true,
	".java": true, ".kt": true, ".swift": true, ".go": true,
	".php": true, ".rb": true, ".sh": true, ".bash": true,
	".zsh": true, ".fish": true, ".sql": true, ".conf": true,
	".ini": true, ".env": true, ".cfg": true,
}

// extensionlessText covers well-known text files without an extension.
var extensionlessText = map[string]bool{
	"dockerfile": true, "makefile": true, "readme": true, "license": true,
	"changelog": true, "authors": true, "contributors": true, "todo": true,
	"news": true, "install": true, "copying": true,
}

// FileFilter decides which paths under a root are watched and which of those
// are treated as text.
type FileFilter struct {
	root string
}

// NewFileFilter builds a filter rooted at root.
func NewFileFilter(root string) *FileFilter {
	return &FileFilter{root: root}
}

// ShouldWatch reports whether path belongs to the watched set. Paths inside
// ignored directories and hidden swap/temp files are rejected.
func (f *FileFilter) ShouldWatch(path string) bool {
	rel, err := filepath.Rel(f.root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return false
	}
	for _, part := range strings.Split(rel, string(filepath.Separator)) {
		if ignoredDirs[part] {
			return false
		}
	}
	base := filepath.Base(path)
	if strings.HasSuffix(base, ".swp") || strings.HasSuffix(base, ".tmp") || strings.HasSuffix(base, "~") {
		return false
	}
	return true
}

// IsTextFile reports whether path looks like a text file worth diffing.
func (f *FileFilter) IsTextFile(path string) bool {
	if ext := strings.ToLower(filepath.Ext(path)); ext != "" {
		return textExtensions[ext]
	}
	return extensionlessText[strings.ToLower(filepath.Base(path))]
}

// WatchableFiles walks the root and returns every watchable regular file.
func (f *FileFilter) WatchableFiles() ([]string, error) {
	var files []string
	err := filepath.WalkDir(f.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // unreadable entries are skipped, not fatal
		}
		if d.IsDir() {
			if ignoredDirs[d.Name()] && path != f.root {
				return filepath.SkipDir
			}
			return nil
		}
		if f.ShouldWatch(path) {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}
