package store

import (
	"path/filepath"
	"strings"
	"time"
)

// FileRecord is one indexed file. The relative path (forward slashes) is the
// unique key within a project's store. The hash is authoritative for change
// detection; the timestamps are diagnostics only.
type FileRecord struct {
	Path       string         `json:"path"`
	Content    string         `json:"content"`
	Hash       string         `json:"hash"`
	Size       int64          `json:"size"`
	LineCount  int            `json:"lineCount"`
	Extension  string         `json:"extension"`
	Keywords   map[string]int `json:"keywords"`
	ModifiedAt time.Time      `json:"modifiedAt"`
	IndexedAt  time.Time      `json:"indexedAt"`
}

// NormalizeExtension returns the lower-cased suffix of a path including the
// leading dot, or the empty string when there is none.
func NormalizeExtension(path string) string {
	return strings.ToLower(filepath.Ext(path))
}

// CountLines counts lines in content the way editors do: a trailing newline
// does not start an extra line, but empty content is still one line.
func CountLines(content string) int {
	return strings.Count(content, "\n") + 1
}
