// Package watcher turns raw filesystem notifications into classified
// FileEvents: filtered, debounced, diffed, and tagged with origin,
// confidence, and batch information.
package watcher

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/sprite-ai/watchdiff/internal/ai"
	"github.com/sprite-ai/watchdiff/internal/cache"
	"github.com/sprite-ai/watchdiff/internal/config"
	"github.com/sprite-ai/watchdiff/internal/diff"
	"github.com/sprite-ai/watchdiff/internal/event"
)

// previewLimit bounds the content preview attached to first-seen files.
const previewLimit = 200

// renameWindow is how long a rename waits for its companion create before it
// degrades into a plain Deleted event.
const renameWindow = 250 * time.Millisecond

type diffKey struct {
	oldHash uint64
	newHash uint64
}

type pendingRename struct {
	path string
	at   time.Time
}

// EventPipeline owns the fsnotify source and the per-path state needed to
// produce FileEvents. All state is confined to the run goroutine; consumers
// interact only through the Events channel.
type EventPipeline struct {
	root   string
	cfg    config.Config
	filter *FileFilter
	source *fsnotify.Watcher
	logger *slog.Logger

	gen     *diff.Generator
	origins *ai.OriginDetector
	batches *ai.BatchDetector
	scorer  *ai.ConfidenceScorer

	out      chan event.FileEvent
	done     chan struct{}
	stopOnce sync.Once

	// run-goroutine state, never touched elsewhere
	prevContents map[string]string
	lastAccepted map[string]time.Time
	diffCache    map[diffKey]string
	rename       *pendingRename

	now func() time.Time
}

// New builds a pipeline watching root recursively. Start must be called
// before events flow.
func New(root string, cfg config.Config) (*EventPipeline, error) {
	source, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating filesystem watcher: %w", err)
	}

	p := &EventPipeline{
		root:         root,
		cfg:          cfg,
		filter:       NewFileFilter(root),
		source:       source,
		logger:       slog.Default().With("component", "pipeline"),
		gen:          diff.NewGenerator(cfg.Watcher.DiffEngine),
		origins:      ai.NewOriginDetector(),
		batches:      ai.NewBatchDetector(cfg.AI.BatchTimeGap(), cfg.AI.BatchMaxAge()),
		scorer:       ai.NewConfidenceScorer(),
		out:          make(chan event.FileEvent, cfg.Watcher.ChannelBuffer),
		done:         make(chan struct{}),
		prevContents: make(map[string]string),
		lastAccepted: make(map[string]time.Time),
		diffCache:    make(map[diffKey]string),
		now:          time.Now,
	}

	if err := p.addRecursive(root); err != nil {
		source.Close()
		return nil, err
	}
	return p, nil
}

// addRecursive registers root and every non-ignored subdirectory with the
// notification source. fsnotify watches are not recursive on their own.
func (p *EventPipeline) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if ignoredDirs[d.Name()] && path != root {
			return filepath.SkipDir
		}
		if err := p.source.Add(path); err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
		return nil
	})
}

// Events returns the outbound channel. It is closed when the pipeline stops.
func (p *EventPipeline) Events() <-chan event.FileEvent {
	return p.out
}

// InitialFiles returns the watchable files present at startup, feeding the
// UI's search index and file-set hash.
func (p *EventPipeline) InitialFiles() ([]string, error) {
	return p.filter.WatchableFiles()
}

// Start launches the processing loop.
func (p *EventPipeline) Start() {
	go p.run()
}

// Stop shuts the pipeline down and closes the Events channel.
func (p *EventPipeline) Stop() {
	p.stopOnce.Do(func() {
		close(p.done)
		p.source.Close()
	})
}

func (p *EventPipeline) run() {
	defer close(p.out)

	flush := time.NewTicker(renameWindow)
	defer flush.Stop()

	for {
		select {
		case <-p.done:
			p.drainRename()
			return
		case raw, ok := <-p.source.Events:
			if !ok {
				p.drainRename()
				return
			}
			p.handleRaw(raw)
		case err, ok := <-p.source.Errors:
			if !ok {
				p.drainRename()
				return
			}
			p.logger.Error("notification source error", "error", err)
		case <-flush.C:
			p.flushRename()
		}
	}
}

// handleRaw applies the filter and debounce gate, resolves content by kind,
// classifies, and emits.
func (p *EventPipeline) handleRaw(raw fsnotify.Event) {
	path := raw.Name
	if !p.filter.ShouldWatch(path) {
		return
	}

	// New directories must be registered to keep the watch recursive. No
	// event is emitted for the directory itself.
	if raw.Op.Has(fsnotify.Create) {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if err := p.source.Add(path); err != nil {
				p.logger.Error("watching new directory", "path", path, "error", err)
			}
			return
		}
	}

	now := p.now()
	if last, ok := p.lastAccepted[path]; ok && now.Sub(last) < p.cfg.Watcher.EventDebounce() {
		return
	}
	p.lastAccepted[path] = now

	var fe event.FileEvent
	switch {
	case raw.Op.Has(fsnotify.Rename):
		// A rename arrives as Rename on the old path, then Create on the
		// new one. Hold the old path briefly to correlate the pair.
		p.flushRename()
		p.rename = &pendingRename{path: path, at: now}
		return
	case raw.Op.Has(fsnotify.Create):
		if moved, ok := p.takeRename(now); ok {
			fe = event.New(path, event.Moved)
			fe.MovedFrom = moved
			if content, ok := p.prevContents[moved]; ok {
				delete(p.prevContents, moved)
				p.prevContents[path] = content
			}
			break
		}
		fe = p.created(path)
	case raw.Op.Has(fsnotify.Write):
		var ok bool
		fe, ok = p.modified(path)
		if !ok {
			return
		}
	case raw.Op.Has(fsnotify.Remove):
		delete(p.prevContents, path)
		fe = event.New(path, event.Deleted)
	default:
		return
	}

	p.classify(&fe)
	p.emit(fe)
}

// flushRename degrades an expired pending rename into a Deleted event.
func (p *EventPipeline) flushRename() {
	if p.rename == nil || p.now().Sub(p.rename.at) < renameWindow {
		return
	}
	p.renameToDeleted()
}

// drainRename converts any pending rename on shutdown, expired or not, so
// the stashed path is not silently lost.
func (p *EventPipeline) drainRename() {
	if p.rename == nil {
		return
	}
	p.renameToDeleted()
}

func (p *EventPipeline) renameToDeleted() {
	path := p.rename.path
	p.rename = nil
	delete(p.prevContents, path)

	fe := event.New(path, event.Deleted)
	p.classify(&fe)
	p.emit(fe)
}

// takeRename claims the pending rename when a create follows it in time.
func (p *EventPipeline) takeRename(now time.Time) (string, bool) {
	if p.rename == nil || now.Sub(p.rename.at) >= renameWindow {
		return "", false
	}
	path := p.rename.path
	p.rename = nil
	return path, true
}

func (p *EventPipeline) created(path string) event.FileEvent {
	fe := event.New(path, event.Created)
	if !p.filter.IsTextFile(path) {
		return fe
	}
	content, err := os.ReadFile(path)
	if err != nil {
		// Non-fatal: the event still goes out, just without a preview.
		return fe
	}
	fe.ContentPreview = preview(string(content))
	p.prevContents[path] = string(content)
	return fe
}

// modified returns ok=false when the notification should be dropped
// entirely, which happens only for no-op writes.
func (p *EventPipeline) modified(path string) (event.FileEvent, bool) {
	fe := event.New(path, event.Modified)
	if !p.filter.IsTextFile(path) {
		return fe, true
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fe, true
	}
	newContent := string(data)

	oldContent, seen := p.prevContents[path]
	if !seen {
		// First sight of this file: preview instead of an empty diff.
		fe.ContentPreview = preview(newContent)
		p.prevContents[path] = newContent
		return fe, true
	}
	if oldContent == newContent {
		return fe, false
	}

	fe.Diff = p.cachedDiff(path, oldContent, newContent)
	p.prevContents[path] = newContent
	return fe, true
}

// cachedDiff memoizes unified diffs by content-hash pair. The cache is
// cleared wholesale past the cleanup threshold; diff pairs rarely recur, so
// per-entry eviction buys nothing.
func (p *EventPipeline) cachedDiff(path, oldContent, newContent string) string {
	key := diffKey{cache.HashContent(oldContent), cache.HashContent(newContent)}
	if d, ok := p.diffCache[key]; ok {
		return d
	}

	d := p.gen.Unified(path, oldContent, newContent)
	if len(p.diffCache) >= int(float64(p.cfg.Cache.DiffCacheSize)*p.cfg.Cache.CleanupThreshold) {
		clear(p.diffCache)
	}
	p.diffCache[key] = d
	return d
}

func (p *EventPipeline) classify(fe *event.FileEvent) {
	origin := p.origins.DetectChangeOrigin()
	fe.Origin = origin
	fe.BatchID = p.batches.ProcessChange(fe.Path, origin)
	if fe.Diff != "" {
		c := p.scorer.ScoreChange(fe.Diff, fe.Path)
		fe.Confidence = &c
	}
}

// emit sends on the outbound channel. Buffer space is used even during
// shutdown so the drain path still delivers; only a full buffer blocks, and
// then a closed done releases the send.
func (p *EventPipeline) emit(fe event.FileEvent) {
	select {
	case p.out <- fe:
		return
	default:
	}
	select {
	case p.out <- fe:
	case <-p.done:
	}
}

func preview(content string) string {
	if len(content) > previewLimit {
		return content[:previewLimit] + "..."
	}
	return content
}
