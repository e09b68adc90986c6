package cache

import (
	"time"

	"github.com/sprite-ai/watchdiff/internal/event"
)

// pendingEvent is an event waiting out its quiet period.
type pendingEvent struct {
	ev      event.FileEvent
	arrived time.Time
}

// EventDebouncer coalesces bursts of events per path on the consumer side:
// the newest event for a path replaces any pending one, and an event is
// released only after its path has been quiet for the debounce window. This
// is distinct from the pipeline's own debounce gate, which drops
// notifications before any disk read happens.
type EventDebouncer struct {
	pending  map[string]pendingEvent
	duration time.Duration

	now func() time.Time
}

// NewEventDebouncer builds a debouncer with the given quiet period.
func NewEventDebouncer(duration time.Duration) *EventDebouncer {
	return &EventDebouncer{
		pending:  make(map[string]pendingEvent),
		duration: duration,
		now:      time.Now,
	}
}

// AddEvent records ev as the pending event for its path, replacing any
// earlier one. Last write wins within the window.
func (d *EventDebouncer) AddEvent(ev event.FileEvent) {
	d.pending[ev.Path] = pendingEvent{ev: ev, arrived: d.now()}
}

// ReadyEvents removes and returns every pending event whose quiet period has
// elapsed. Younger entries stay pending.
func (d *EventDebouncer) ReadyEvents() []event.FileEvent {
	now := d.now()
	var ready []event.FileEvent
	for path, p := range d.pending {
		if now.Sub(p.arrived) >= d.duration {
			ready = append(ready, p.ev)
			delete(d.pending, path)
		}
	}
	return ready
}

// PendingCount returns the number of paths still waiting.
func (d *EventDebouncer) PendingCount() int {
	return len(d.pending)
}

// Clear drops all pending events.
func (d *EventDebouncer) Clear() {
	clear(d.pending)
}
