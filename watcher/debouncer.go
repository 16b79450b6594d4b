package watcher

import (
	"sync"
	"time"
)

// Event is a coalesced file system event, emitted once a path has been quiet
// for the stability window.
type Event struct {
	Path string
	Op   EventOp
}

// EventOp is the kind of file system operation.
type EventOp int

const (
	OpCreate EventOp = iota
	OpWrite
	OpRemove
	OpRename
)

// Debouncer coalesces rapid event bursts per path: an event is held until no
// further event arrives for that path within the interval. Each path has its
// own timer, so a hot file cannot delay dispatch of others.
type Debouncer struct {
	interval time.Duration

	mu      sync.Mutex
	pending map[string]Event
	timers  map[string]*time.Timer
	stopped bool

	output chan Event
}

// NewDebouncer creates a debouncer with the given stability window.
func NewDebouncer(interval time.Duration) *Debouncer {
	return &Debouncer{
		interval: interval,
		pending:  make(map[string]Event),
		timers:   make(map[string]*time.Timer),
		output:   make(chan Event, 64),
	}
}

// Output returns the channel receiving stabilized events. It is closed by
// Stop after all timers are cancelled.
func (d *Debouncer) Output() <-chan Event {
	return d.output
}

// Add records an event and restarts the path's quiet-period timer. A create
// followed by writes stays a create, so consumers count it as an addition;
// any later remove wins because the file is gone.
func (d *Debouncer) Add(path string, op EventOp) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	if prev, ok := d.pending[path]; ok {
		if prev.Op == OpCreate && op == OpWrite {
			op = OpCreate
		}
	}
	d.pending[path] = Event{Path: path, Op: op}

	if timer, ok := d.timers[path]; ok {
		timer.Stop()
	}
	d.timers[path] = time.AfterFunc(d.interval, func() { d.fire(path) })
}

// fire dispatches the pending event for one path. The send happens under the
// mutex so Stop cannot close the output channel mid-send.
func (d *Debouncer) fire(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	event, ok := d.pending[path]
	delete(d.pending, path)
	delete(d.timers, path)

	if ok {
		d.output <- event
	}
}

// Stop cancels all timers, drops pending events, and closes the output
// channel. Safe to call more than once.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.stopped = true
	for _, timer := range d.timers {
		timer.Stop()
	}
	d.timers = make(map[string]*time.Timer)
	d.pending = make(map[string]Event)
	d.mu.Unlock()

	close(d.output)
}
