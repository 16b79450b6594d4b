package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

// documentVersion is the on-disk format version.
const documentVersion = 1

// Store is the durable path → FileRecord mapping for one project. It is safe
// for concurrent readers and serialized writers within one process; callers
// must not open two writing stores on the same document (the indexer holds a
// file lock for that).
type Store struct {
	mu          sync.RWMutex
	docPath     string
	files       map[string]*FileRecord
	sortedPaths []string
}

// document is the serialized form: a single JSON blob per project.
type document struct {
	Metadata metadata               `json:"metadata"`
	Files    map[string]*FileRecord `json:"files"`
}

type metadata struct {
	Version   int       `json:"version"`
	FileCount int       `json:"fileCount"`
	TotalSize int64     `json:"totalSize"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Stats summarizes the store contents.
type Stats struct {
	FileCount   int
	TotalSize   int64
	ByExtension []ExtensionCount
}

// ExtensionCount is one entry of the per-extension breakdown, ordered by
// descending count.
type ExtensionCount struct {
	Extension string
	Count     int
}

// Open creates a store bound to the given document path without touching
// disk. Call Load to read any existing document.
func Open(docPath string) *Store {
	return &Store{
		docPath: docPath,
		files:   make(map[string]*FileRecord),
	}
}

// DocPath returns the path of the backing document.
func (s *Store) DocPath() string {
	return s.docPath
}

// Load reads the document from disk. A missing, unreadable, or corrupt
// document yields an empty store rather than an error: the next scan simply
// re-populates everything as new.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.files = make(map[string]*FileRecord)
	s.sortedPaths = nil

	data, err := os.ReadFile(s.docPath)
	if err != nil {
		return nil
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil
	}

	for path, rec := range doc.Files {
		if rec == nil {
			continue
		}
		rec.Path = path
		s.files[path] = rec
		s.sortedPaths = append(s.sortedPaths, path)
	}
	sort.Strings(s.sortedPaths)
	return nil
}

// Save writes the document atomically: marshal, write to a temp file in the
// same directory, then rename over the old document. A crash mid-save leaves
// the previous document intact.
func (s *Store) Save() error {
	s.mu.RLock()
	doc := document{
		Metadata: metadata{
			Version:   documentVersion,
			FileCount: len(s.files),
			TotalSize: s.totalSizeLocked(),
			UpdatedAt: time.Now().UTC(),
		},
		Files: s.files,
	}
	data, err := json.Marshal(doc)
	s.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("marshaling index document: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.docPath), 0755); err != nil {
		return fmt.Errorf("creating index directory: %w", err)
	}

	tmpPath := s.docPath + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("writing index document: %w", err)
	}
	if err := os.Rename(tmpPath, s.docPath); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("replacing index document: %w", err)
	}
	return nil
}

// Upsert adds or replaces the record for its path.
func (s *Store) Upsert(rec *FileRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, exists := s.files[rec.Path]
	s.files[rec.Path] = rec
	if !exists {
		idx := sort.SearchStrings(s.sortedPaths, rec.Path)
		s.sortedPaths = append(s.sortedPaths, "")
		copy(s.sortedPaths[idx+1:], s.sortedPaths[idx:])
		s.sortedPaths[idx] = rec.Path
	}
}

// Delete removes the record for a path, reporting whether it existed.
func (s *Store) Delete(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.files[path]; !exists {
		return false
	}
	delete(s.files, path)

	idx := sort.SearchStrings(s.sortedPaths, path)
	if idx < len(s.sortedPaths) && s.sortedPaths[idx] == path {
		s.sortedPaths = append(s.sortedPaths[:idx], s.sortedPaths[idx+1:]...)
	}
	return true
}

// Get returns the record for a path, if present.
func (s *Store) Get(path string) (*FileRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.files[path]
	return rec, ok
}

// All returns every record in sorted path order.
func (s *Store) All() []*FileRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*FileRecord, 0, len(s.sortedPaths))
	for _, path := range s.sortedPaths {
		if rec, ok := s.files[path]; ok {
			result = append(result, rec)
		}
	}
	return result
}

// Paths returns all indexed paths in sorted order.
func (s *Store) Paths() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.sortedPaths...)
}

// FileCount returns the number of indexed files.
func (s *Store) FileCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.files)
}

// Stats aggregates file count, total size, and the extension breakdown
// ordered by descending count (ties alphabetical, for stable output).
func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byExt := make(map[string]int)
	for _, rec := range s.files {
		byExt[rec.Extension]++
	}

	entries := make([]ExtensionCount, 0, len(byExt))
	for ext, count := range byExt {
		entries = append(entries, ExtensionCount{Extension: ext, Count: count})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].Extension < entries[j].Extension
	})

	return Stats{
		FileCount:   len(s.files),
		TotalSize:   s.totalSizeLocked(),
		ByExtension: entries,
	}
}

// Clear drops every record. The caller persists with Save.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files = make(map[string]*FileRecord)
	s.sortedPaths = nil
}

func (s *Store) totalSizeLocked() int64 {
	var total int64
	for _, rec := range s.files {
		total += rec.Size
	}
	return total
}
