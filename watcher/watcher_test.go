package watcher

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/lexandro/lexindex-mcp/indexer"
	"github.com/lexandro/lexindex-mcp/match"
	"github.com/lexandro/lexindex-mcp/store"
)

// newTestWatcher wires a real pipeline over a temp project with a short
// stability window so tests complete quickly.
func newTestWatcher(t *testing.T) (*Watcher, *indexer.Indexer, string) {
	t.Helper()
	root := t.TempDir()

	patterns, err := match.Compile([]string{"**"}, nil)
	if err != nil {
		t.Fatalf("compiling patterns: %v", err)
	}
	st := store.Open(filepath.Join(root, match.IndexDirName, "index.json"))
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	ix, err := indexer.New(indexer.Options{
		Root:        root,
		Store:       st,
		Patterns:    patterns,
		IgnoreFiles: match.LoadIgnoreFiles(root),
		Logger:      logger,
	})
	if err != nil {
		t.Fatalf("creating indexer: %v", err)
	}
	t.Cleanup(func() { ix.Close() })

	w := New(Options{
		Root:     root,
		Indexer:  ix,
		Debounce: 50 * time.Millisecond,
		Logger:   logger,
	})
	t.Cleanup(w.Stop)
	return w, ix, root
}

// waitFor polls until cond holds or the deadline passes.
func waitFor(t *testing.T, timeout time.Duration, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal(msg)
}

func Test_Watcher_IndexesNewFile(t *testing.T) {
	w, ix, root := newTestWatcher(t)
	if err := w.Start(); err != nil {
		t.Fatalf("starting watcher: %v", err)
	}
	if w.State() != StateWatching {
		t.Fatalf("expected StateWatching after start, got %d", w.State())
	}

	if err := os.WriteFile(filepath.Join(root, "main.go"), []byte("package main\n"), 0644); err != nil {
		t.Fatalf("writing file: %v", err)
	}

	waitFor(t, 2*time.Second, func() bool {
		_, ok := ix.Store().Get("main.go")
		return ok
	}, "expected main.go to be indexed after the stability window")

	if added := w.Counters().FilesAdded; added != 1 {
		t.Errorf("expected FilesAdded 1, got %d", added)
	}
}

func Test_Watcher_CoalescesRapidWrites(t *testing.T) {
	w, ix, root := newTestWatcher(t)
	if err := w.Start(); err != nil {
		t.Fatalf("starting watcher: %v", err)
	}

	// Three writes inside one stability window must resolve as a single
	// create, not one create plus two changes.
	path := filepath.Join(root, "burst.go")
	for i := 0; i < 3; i++ {
		if err := os.WriteFile(path, []byte("package burst\n"), 0644); err != nil {
			t.Fatalf("writing file: %v", err)
		}
		time.Sleep(5 * time.Millisecond)
	}

	waitFor(t, 2*time.Second, func() bool {
		_, ok := ix.Store().Get("burst.go")
		return ok
	}, "expected burst.go to be indexed")

	// Give any stray second resolution a chance to land before asserting.
	time.Sleep(150 * time.Millisecond)

	counters := w.Counters()
	if counters.FilesAdded != 1 {
		t.Errorf("expected FilesAdded 1, got %d", counters.FilesAdded)
	}
	if counters.FilesChanged != 0 {
		t.Errorf("expected FilesChanged 0, got %d", counters.FilesChanged)
	}
}

func Test_Watcher_ChangeAfterStability(t *testing.T) {
	w, ix, root := newTestWatcher(t)
	path := filepath.Join(root, "app.go")
	if err := os.WriteFile(path, []byte("package app\n"), 0644); err != nil {
		t.Fatalf("writing file: %v", err)
	}
	if res := ix.IndexFile(path); res.Status != indexer.StatusIndexed {
		t.Fatalf("expected initial index, got %s", res.Status)
	}

	if err := w.Start(); err != nil {
		t.Fatalf("starting watcher: %v", err)
	}

	if err := os.WriteFile(path, []byte("package app // v2\n"), 0644); err != nil {
		t.Fatalf("rewriting file: %v", err)
	}

	waitFor(t, 2*time.Second, func() bool {
		return w.Counters().FilesChanged == 1
	}, "expected the rewrite to count as a change")

	rec, ok := ix.Store().Get("app.go")
	if !ok {
		t.Fatal("expected app.go to remain indexed")
	}
	if rec.Content != "package app // v2\n" {
		t.Errorf("expected updated content, got %q", rec.Content)
	}
}

func Test_Watcher_RemovesDeletedFile(t *testing.T) {
	w, ix, root := newTestWatcher(t)
	path := filepath.Join(root, "gone.go")
	if err := os.WriteFile(path, []byte("package gone\n"), 0644); err != nil {
		t.Fatalf("writing file: %v", err)
	}
	if res := ix.IndexFile(path); res.Status != indexer.StatusIndexed {
		t.Fatalf("expected initial index, got %s", res.Status)
	}

	if err := w.Start(); err != nil {
		t.Fatalf("starting watcher: %v", err)
	}
	if err := os.Remove(path); err != nil {
		t.Fatalf("removing file: %v", err)
	}

	waitFor(t, 2*time.Second, func() bool {
		_, ok := ix.Store().Get("gone.go")
		return !ok
	}, "expected gone.go to be removed from the index")

	if removed := w.Counters().FilesRemoved; removed != 1 {
		t.Errorf("expected FilesRemoved 1, got %d", removed)
	}
}

func Test_Watcher_SkipsNonCandidates(t *testing.T) {
	w, ix, root := newTestWatcher(t)
	if err := w.Start(); err != nil {
		t.Fatalf("starting watcher: %v", err)
	}

	if err := os.WriteFile(filepath.Join(root, "logo.png"), []byte("png bytes"), 0644); err != nil {
		t.Fatalf("writing file: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, "main.go"), []byte("package main\n"), 0644); err != nil {
		t.Fatalf("writing file: %v", err)
	}

	waitFor(t, 2*time.Second, func() bool {
		_, ok := ix.Store().Get("main.go")
		return ok
	}, "expected main.go to be indexed")

	if _, ok := ix.Store().Get("logo.png"); ok {
		t.Error("expected binary extension to be skipped")
	}
}

func Test_Watcher_StartTwiceFails(t *testing.T) {
	w, _, _ := newTestWatcher(t)
	if err := w.Start(); err != nil {
		t.Fatalf("starting watcher: %v", err)
	}
	if err := w.Start(); err == nil {
		t.Error("expected second start to fail while watching")
	}
}

func Test_Watcher_StopIsIdempotent(t *testing.T) {
	w, _, _ := newTestWatcher(t)
	if err := w.Start(); err != nil {
		t.Fatalf("starting watcher: %v", err)
	}

	w.Stop()
	if w.State() != StateStopped {
		t.Errorf("expected StateStopped after stop, got %d", w.State())
	}
	w.Stop() // must not panic or block
}

func Test_Watcher_StopBeforeStart(t *testing.T) {
	w, _, _ := newTestWatcher(t)
	w.Stop() // no-op on a watcher that never started
	if w.State() != StateStopped {
		t.Errorf("expected StateStopped, got %d", w.State())
	}
}
