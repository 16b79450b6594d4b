package watcher

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/lexandro/lexindex-mcp/indexer"
	"github.com/lexandro/lexindex-mcp/match"
)

// State is the watcher lifecycle: Stopped → Starting → Watching → Stopped.
type State int32

const (
	StateStopped State = iota
	StateStarting
	StateWatching
)

// Counters are the running totals of a watch session. Errors never stop the
// session; they are counted and logged.
type Counters struct {
	FilesAdded   int64
	FilesChanged int64
	FilesRemoved int64
	Errors       int64
}

// Options configures a Watcher.
type Options struct {
	Root     string
	Indexer  *indexer.Indexer
	Debounce time.Duration
	Logger   *slog.Logger
}

// Watcher keeps a project's index consistent with live filesystem events. It
// subscribes recursively under the root (excluding pruned directories and the
// index directory itself), coalesces bursts per path, and routes stabilized
// events into the indexing pipeline one at a time.
type Watcher struct {
	root      string
	indexer   *indexer.Indexer
	debouncer *Debouncer
	logger    *slog.Logger

	fsWatcher *fsnotify.Watcher
	state     atomic.Int32
	wg        sync.WaitGroup

	filesAdded   atomic.Int64
	filesChanged atomic.Int64
	filesRemoved atomic.Int64
	errors       atomic.Int64
}

// New creates a watcher. Call Start to begin watching.
func New(opts Options) *Watcher {
	if opts.Debounce <= 0 {
		opts.Debounce = 500 * time.Millisecond
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Watcher{
		root:      opts.Root,
		indexer:   opts.Indexer,
		debouncer: NewDebouncer(opts.Debounce),
		logger:    opts.Logger,
	}
}

// State returns the current lifecycle state.
func (w *Watcher) State() State {
	return State(w.state.Load())
}

// Counters returns a snapshot of the session counters.
func (w *Watcher) Counters() Counters {
	return Counters{
		FilesAdded:   w.filesAdded.Load(),
		FilesChanged: w.filesChanged.Load(),
		FilesRemoved: w.filesRemoved.Load(),
		Errors:       w.errors.Load(),
	}
}

// Start subscribes to filesystem events under the root and begins routing
// them into the pipeline. It is an error to start a watcher twice.
func (w *Watcher) Start() error {
	if !w.state.CompareAndSwap(int32(StateStopped), int32(StateStarting)) {
		return fmt.Errorf("watcher already running")
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		w.state.Store(int32(StateStopped))
		return fmt.Errorf("creating filesystem watcher: %w", err)
	}
	w.fsWatcher = fsWatcher

	// Register every non-pruned directory. Entries that cannot be read are
	// skipped; a directory that cannot be watched is logged and counted.
	err = filepath.WalkDir(w.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.root && match.ShouldPruneDir(d.Name()) {
			return filepath.SkipDir
		}
		if watchErr := fsWatcher.Add(path); watchErr != nil {
			w.errors.Add(1)
			w.logger.Warn("failed to watch directory", "path", path, "error", watchErr)
		}
		return nil
	})
	if err != nil {
		fsWatcher.Close()
		w.state.Store(int32(StateStopped))
		return fmt.Errorf("registering watch directories: %w", err)
	}

	w.wg.Add(2)
	go w.receiveLoop()
	go w.dispatchLoop()

	w.state.Store(int32(StateWatching))
	w.logger.Info("watching", "root", w.root)
	return nil
}

// Stop closes the subscription, waits for in-flight events to finish, and
// flushes the store. Stopping a watcher that is not running is a no-op.
func (w *Watcher) Stop() {
	prev := w.state.Swap(int32(StateStopped))
	if State(prev) == StateStopped {
		return
	}

	if w.fsWatcher != nil {
		_ = w.fsWatcher.Close()
	}
	w.debouncer.Stop()
	w.wg.Wait()

	if err := w.indexer.Flush(); err != nil {
		w.errors.Add(1)
		w.logger.Error("flush on stop failed", "error", err)
	}
	w.logger.Info("watcher stopped",
		"added", w.filesAdded.Load(),
		"changed", w.filesChanged.Load(),
		"removed", w.filesRemoved.Load(),
		"errors", w.errors.Load(),
	)
}

// receiveLoop reads raw fsnotify events until the subscription closes.
func (w *Watcher) receiveLoop() {
	defer w.wg.Done()
	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			w.handleRawEvent(event)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.errors.Add(1)
			w.logger.Warn("watch subscription error", "error", err)
		}
	}
}

// handleRawEvent classifies one fsnotify event and feeds the debouncer.
func (w *Watcher) handleRawEvent(event fsnotify.Event) {
	path := event.Name

	// New directories join the subscription; directory events themselves are
	// not indexed.
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if !match.ShouldPruneDir(filepath.Base(path)) {
				if err := w.fsWatcher.Add(path); err != nil {
					w.errors.Add(1)
					w.logger.Warn("failed to watch new directory", "path", path, "error", err)
				}
			}
			return
		}
	}

	var op EventOp
	switch {
	case event.Has(fsnotify.Create):
		op = OpCreate
	case event.Has(fsnotify.Write):
		op = OpWrite
	case event.Has(fsnotify.Remove):
		op = OpRemove
	case event.Has(fsnotify.Rename):
		op = OpRename
	default:
		return
	}

	w.debouncer.Add(path, op)
}

// dispatchLoop processes stabilized events one at a time, in arrival order
// per path. An event already dispatched runs to completion even if Stop is
// called meanwhile.
func (w *Watcher) dispatchLoop() {
	defer w.wg.Done()
	for event := range w.debouncer.Output() {
		w.dispatch(event)
	}
}

// dispatch routes one stabilized event into the pipeline.
func (w *Watcher) dispatch(event Event) {
	switch event.Op {
	case OpRemove, OpRename:
		// Removal bypasses the pattern check: files indexed under an older
		// pattern set must still be removable.
		existed, err := w.indexer.RemoveFile(event.Path)
		if err != nil {
			w.errors.Add(1)
			w.logger.Error("remove failed", "path", event.Path, "error", err)
			return
		}
		if existed {
			w.filesRemoved.Add(1)
			w.logger.Debug("removed from index", "path", event.Path)
		}

	case OpCreate, OpWrite:
		relPath, err := filepath.Rel(w.root, event.Path)
		if err != nil {
			return
		}
		relPath = filepath.ToSlash(relPath)
		if !w.indexer.Candidate(relPath) {
			return
		}

		info, err := os.Stat(event.Path)
		if err != nil || info.IsDir() {
			return // vanished or directory: nothing to index
		}
		if info.Size() > w.indexer.MaxFileSize() {
			return
		}

		res := w.indexer.IndexFile(event.Path)
		switch res.Status {
		case indexer.StatusIndexed:
			if event.Op == OpCreate {
				w.filesAdded.Add(1)
			} else {
				w.filesChanged.Add(1)
			}
			w.logger.Debug("updated index", "path", res.Path)
		case indexer.StatusError:
			w.errors.Add(1)
			w.logger.Warn("index update failed", "path", res.Path, "error", res.Err)
		}
	}
}
