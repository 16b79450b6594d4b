package indexer

import (
	"context"
	"io/fs"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lexandro/lexindex-mcp/match"
)

// ScanSummary aggregates the outcome of one bulk scan.
type ScanSummary struct {
	Indexed   int
	Unchanged int
	Errors    int
	TotalSize int64
	Duration  time.Duration
}

// Scan walks the project tree, filters candidates through the pattern set,
// and indexes every survivor. Reading and hashing run on a bounded worker
// pool; store writes are serialized by the store itself. Unreadable directory
// entries are skipped, per-file errors are counted, and neither aborts the
// scan. The store is saved in batches and flushed once at the end.
func (ix *Indexer) Scan(ctx context.Context) (ScanSummary, error) {
	start := time.Now()

	var summary ScanSummary
	var mu sync.Mutex

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(ix.workers)

	walkErr := filepath.WalkDir(ix.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // permission errors etc: skip, keep walking
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			if path != ix.root && ix.shouldSkipDir(path, d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}

		relPath, relErr := ix.relativize(path)
		if relErr != nil {
			return nil
		}
		if !ix.Candidate(relPath) {
			return nil
		}
		info, infoErr := d.Info()
		if infoErr != nil {
			return nil
		}
		if info.Size() > ix.maxFileSize {
			return nil
		}

		absPath := path
		size := info.Size()
		group.Go(func() error {
			res := ix.indexFile(absPath)

			mu.Lock()
			switch res.Status {
			case StatusIndexed:
				summary.Indexed++
				summary.TotalSize += size
			case StatusUnchanged:
				summary.Unchanged++
			case StatusError:
				summary.Errors++
			}
			mu.Unlock()

			if res.Status == StatusError {
				ix.logger.Debug("scan: skipped file", "path", res.Path, "error", res.Err)
				return nil
			}
			if res.Status == StatusIndexed {
				if saveErr := ix.noteMutation(); saveErr != nil {
					ix.logger.Error("scan: batched save failed", "error", saveErr)
				}
			}
			return nil
		})
		return nil
	})

	groupErr := group.Wait()

	if err := ix.Flush(); err != nil {
		ix.logger.Error("scan: final flush failed", "error", err)
		mu.Lock()
		summary.Errors++
		mu.Unlock()
	}

	summary.Duration = time.Since(start)
	if walkErr != nil && walkErr != ctx.Err() {
		return summary, walkErr
	}
	if groupErr != nil {
		return summary, groupErr
	}
	return summary, ctx.Err()
}

// shouldSkipDir applies the structural prune (well-known heavy directories
// and the index directory) plus the ignore files. Pattern evaluation never
// sees pruned subtrees.
func (ix *Indexer) shouldSkipDir(absPath string, name string) bool {
	if match.ShouldPruneDir(name) {
		return true
	}
	relPath, err := ix.relativize(absPath)
	if err != nil {
		return true
	}
	return ix.ignores.Ignored(relPath, true)
}
