package indexer

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"github.com/lexandro/lexindex-mcp/fingerprint"
	"github.com/lexandro/lexindex-mcp/match"
	"github.com/lexandro/lexindex-mcp/store"
)

// defaultSaveBatch is how many mutations accumulate during a bulk scan before
// the store is flushed. Single-event operations save immediately.
const defaultSaveBatch = 200

// Status is the outcome of indexing one file.
type Status int

const (
	// StatusIndexed means the record was created or replaced.
	StatusIndexed Status = iota
	// StatusUnchanged means the content hash matched the existing record and
	// nothing was written.
	StatusUnchanged
	// StatusError means the file could not be indexed; the store was not
	// mutated.
	StatusError
)

// String returns the status name for logs and summaries.
func (s Status) String() string {
	switch s {
	case StatusIndexed:
		return "indexed"
	case StatusUnchanged:
		return "unchanged"
	default:
		return "error"
	}
}

// Result reports the outcome of one IndexFile call.
type Result struct {
	Status Status
	Path   string // project-relative
	Err    error
}

// Options configures an Indexer.
type Options struct {
	Root        string
	Store       *store.Store
	Patterns    *match.PatternSet
	IgnoreFiles *match.IgnoreFiles
	MaxFileSize int64
	Workers     int
	SaveBatch   int
	Logger      *slog.Logger
}

// Indexer is the pipeline that keeps one project's store consistent with its
// tree. Exactly one Indexer may be open per project at a time; the file lock
// under the index directory enforces that across processes.
type Indexer struct {
	root        string
	store       *store.Store
	patterns    *match.PatternSet
	ignores     *match.IgnoreFiles
	maxFileSize int64
	workers     int
	saveBatch   int
	logger      *slog.Logger

	lock *flock.Flock

	mu      sync.Mutex
	pending int // mutations since last save
}

// New opens an Indexer and takes the project lock. It fails when another
// process already holds the lock for this project.
func New(opts Options) (*Indexer, error) {
	if opts.Store == nil || opts.Patterns == nil {
		return nil, fmt.Errorf("indexer requires a store and a pattern set")
	}
	if opts.MaxFileSize <= 0 {
		opts.MaxFileSize = 1024 * 1024
	}
	if opts.Workers <= 0 {
		opts.Workers = 8
	}
	if opts.SaveBatch <= 0 {
		opts.SaveBatch = defaultSaveBatch
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	lockPath := filepath.Join(opts.Root, match.IndexDirName, "index.lock")
	if err := os.MkdirAll(filepath.Dir(lockPath), 0755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}
	lock := flock.New(lockPath)
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquiring project lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("project %s is locked by another lexindex process", opts.Root)
	}

	return &Indexer{
		root:        opts.Root,
		store:       opts.Store,
		patterns:    opts.Patterns,
		ignores:     opts.IgnoreFiles,
		maxFileSize: opts.MaxFileSize,
		workers:     opts.Workers,
		saveBatch:   opts.SaveBatch,
		logger:      opts.Logger,
		lock:        lock,
	}, nil
}

// Close flushes pending mutations and releases the project lock.
func (ix *Indexer) Close() error {
	flushErr := ix.Flush()
	if ix.lock != nil {
		if err := ix.lock.Unlock(); err != nil && flushErr == nil {
			flushErr = fmt.Errorf("releasing project lock: %w", err)
		}
	}
	return flushErr
}

// Store exposes the underlying store for read-side consumers.
func (ix *Indexer) Store() *store.Store {
	return ix.store
}

// Root returns the project root.
func (ix *Indexer) Root() string {
	return ix.root
}

// IndexFile indexes a single file and persists the store when a record was
// written. Used for watcher events and targeted updates.
func (ix *Indexer) IndexFile(absPath string) Result {
	res := ix.indexFile(absPath)
	if res.Status == StatusIndexed {
		if err := ix.saveNow(); err != nil {
			ix.logger.Error("persisting index failed", "path", res.Path, "error", err)
			return Result{Status: StatusError, Path: res.Path, Err: err}
		}
	}
	return res
}

// indexFile reads, fingerprints, and upserts one file without persisting.
func (ix *Indexer) indexFile(absPath string) Result {
	relPath, err := ix.relativize(absPath)
	if err != nil {
		return Result{Status: StatusError, Path: absPath, Err: err}
	}

	content, err := readFileWithRetry(absPath)
	if err != nil {
		return Result{Status: StatusError, Path: relPath, Err: fmt.Errorf("reading file: %w", err)}
	}
	if fingerprint.IsBinary(content) {
		return Result{Status: StatusError, Path: relPath, Err: fmt.Errorf("binary content")}
	}

	fp := fingerprint.Compute(content)

	if existing, ok := ix.store.Get(relPath); ok && existing.Hash == fp.Hash {
		return Result{Status: StatusUnchanged, Path: relPath}
	}

	var modTime time.Time
	if info, statErr := os.Stat(absPath); statErr == nil {
		modTime = info.ModTime()
	}

	text := string(content)
	ix.store.Upsert(&store.FileRecord{
		Path:       relPath,
		Content:    text,
		Hash:       fp.Hash,
		Size:       int64(len(content)),
		LineCount:  store.CountLines(text),
		Extension:  store.NormalizeExtension(relPath),
		Keywords:   fp.Keywords,
		ModifiedAt: modTime,
		IndexedAt:  time.Now().UTC(),
	})

	return Result{Status: StatusIndexed, Path: relPath}
}

// RemoveFile deletes the record for a path, reporting whether it existed.
// The store is persisted only when a deletion actually happened. Removal
// ignores the pattern set: a file indexed under an older pattern set must
// still be removable.
func (ix *Indexer) RemoveFile(absPath string) (bool, error) {
	relPath, err := ix.relativize(absPath)
	if err != nil {
		return false, err
	}
	if !ix.store.Delete(relPath) {
		return false, nil
	}
	if err := ix.saveNow(); err != nil {
		return true, fmt.Errorf("persisting after delete: %w", err)
	}
	return true, nil
}

// Clear resets the store to empty and persists.
func (ix *Indexer) Clear() error {
	ix.store.Clear()
	return ix.saveNow()
}

// Flush persists any batched mutations.
func (ix *Indexer) Flush() error {
	ix.mu.Lock()
	dirty := ix.pending > 0
	ix.pending = 0
	ix.mu.Unlock()

	if !dirty {
		return nil
	}
	return ix.store.Save()
}

// saveNow persists immediately and resets the batch counter.
func (ix *Indexer) saveNow() error {
	ix.mu.Lock()
	ix.pending = 0
	ix.mu.Unlock()
	return ix.store.Save()
}

// noteMutation records one batched mutation and saves when the batch is full.
func (ix *Indexer) noteMutation() error {
	ix.mu.Lock()
	ix.pending++
	full := ix.pending >= ix.saveBatch
	if full {
		ix.pending = 0
	}
	ix.mu.Unlock()

	if full {
		return ix.store.Save()
	}
	return nil
}

// relativize converts an absolute path to the project-relative,
// forward-slash-normalized form used as the store key.
func (ix *Indexer) relativize(absPath string) (string, error) {
	relPath, err := filepath.Rel(ix.root, absPath)
	if err != nil {
		return "", fmt.Errorf("resolving %s against project root: %w", absPath, err)
	}
	relPath = filepath.ToSlash(relPath)
	if relPath == ".." || strings.HasPrefix(relPath, "../") {
		return "", fmt.Errorf("path %s is outside the project root", absPath)
	}
	return relPath, nil
}

// Candidate reports whether a project-relative path passes every inclusion
// gate: binary hard exclusion, the pattern set, and the ignore files.
func (ix *Indexer) Candidate(relPath string) bool {
	if match.IsBinaryPath(relPath) {
		return false
	}
	if !ix.patterns.Matches(relPath) {
		return false
	}
	if ix.ignores.Ignored(relPath, false) {
		return false
	}
	return true
}

// MaxFileSize returns the configured per-file size limit.
func (ix *Indexer) MaxFileSize() int64 {
	return ix.maxFileSize
}

// readFileWithRetry reads a file, retrying once after a short delay for
// editor save locks on Windows.
func readFileWithRetry(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		time.Sleep(50 * time.Millisecond)
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, err
		}
	}
	return data, nil
}
