package ai

import (
	"fmt"
	"time"

	"github.com/sprite-ai/watchdiff/internal/event"
)

// recordedChange is one entry in the batch detector's rolling window.
type recordedChange struct {
	at     time.Time
	origin event.ChangeOrigin
}

// BatchDetector groups consecutive AI-attributed changes into batches. A
// batch starts when an AI agent change arrives with no active batch (or
// after the time gap lapses) and grows while same-tagged changes keep
// arriving within the gap. Human changes never batch: they are assumed
// independent edits.
type BatchDetector struct {
	window         []recordedChange
	currentBatchID string
	lastBatchTime  time.Time
	timeGap        time.Duration
	maxAge         time.Duration

	now func() time.Time // injectable clock for tests
}

// NewBatchDetector builds a detector with the given gap and window age.
func NewBatchDetector(timeGap, maxAge time.Duration) *BatchDetector {
	return &BatchDetector{
		timeGap: timeGap,
		maxAge:  maxAge,
		now:     time.Now,
	}
}

// ProcessChange records one change and returns the batch id it belongs to,
// or "" when the change is not part of any batch. Every change enters the
// rolling window regardless of the batching outcome, because the next call
// compares against the most recent recorded origin.
func (d *BatchDetector) ProcessChange(path string, origin event.ChangeOrigin) string {
	now := d.now()

	// Prune entries past the window age.
	kept := d.window[:0]
	for _, c := range d.window {
		if now.Sub(c.at) < d.maxAge {
			kept = append(kept, c)
		}
	}
	d.window = kept

	change := recordedChange{at: now, origin: origin}

	if d.shouldStartBatch(change) {
		d.currentBatchID = fmt.Sprintf("batch_%d", now.UnixMilli())
		d.lastBatchTime = now
		d.window = []recordedChange{change}
		return d.currentBatchID
	}

	if d.joinsCurrentBatch(change) {
		d.window = append(d.window, change)
		d.lastBatchTime = now
		return d.currentBatchID
	}

	d.window = append(d.window, change)
	return ""
}

func (d *BatchDetector) shouldStartBatch(change recordedChange) bool {
	if d.currentBatchID == "" {
		return change.origin.Type == event.OriginAIAgent
	}
	// The active batch lapses after the gap; only an AI agent restarts one.
	if change.at.Sub(d.lastBatchTime) > d.timeGap {
		return change.origin.Type == event.OriginAIAgent
	}
	return false
}

func (d *BatchDetector) joinsCurrentBatch(change recordedChange) bool {
	if d.currentBatchID == "" {
		return false
	}
	if change.at.Sub(d.lastBatchTime) > d.timeGap {
		return false
	}
	if len(d.window) == 0 {
		return false
	}
	last := d.window[len(d.window)-1]
	// Same tag joins; humans never batch with anything.
	if change.origin.Type == event.OriginHuman {
		return false
	}
	return change.origin.SameType(last.origin) && change.origin.Type == event.OriginAIAgent
}
