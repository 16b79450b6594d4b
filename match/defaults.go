package match

import (
	"path/filepath"
	"strings"
)

// IndexDirName is the per-project directory holding the index document and
// lock file. It is always excluded from scanning and watching so that index
// writes never trigger re-indexing.
const IndexDirName = ".lexindex"

// prunedDirs are directory names skipped structurally, before any pattern
// evaluation. These are version-control metadata, dependency caches, and
// build output that are never useful index candidates.
var prunedDirs = map[string]struct{}{
	".git":          {},
	".svn":          {},
	".hg":           {},
	"node_modules":  {},
	"vendor":        {},
	"bower_components": {},
	"__pycache__":   {},
	".venv":         {},
	"venv":          {},
	".idea":         {},
	".vscode":       {},
	".vs":           {},
	".next":         {},
	".nuxt":         {},
	".cache":        {},
	".parcel-cache": {},
	"coverage":      {},
	".nyc_output":   {},
	"htmlcov":       {},
	"dist":          {},
	"target":        {},
	IndexDirName:    {},
}

// binaryExtensions are file suffixes excluded from indexing regardless of the
// configured patterns: their content never reaches the fingerprinter.
var binaryExtensions = map[string]struct{}{
	// Executables / compiled objects
	".exe": {}, ".dll": {}, ".so": {}, ".dylib": {}, ".o": {}, ".a": {},
	".lib": {}, ".class": {}, ".jar": {}, ".war": {}, ".wasm": {}, ".pyc": {},
	// Archives
	".zip": {}, ".tar": {}, ".gz": {}, ".tgz": {}, ".bz2": {}, ".xz": {},
	".rar": {}, ".7z": {},
	// Images
	".png": {}, ".jpg": {}, ".jpeg": {}, ".gif": {}, ".bmp": {}, ".ico": {},
	".webp": {}, ".tiff": {},
	// Fonts
	".woff": {}, ".woff2": {}, ".ttf": {}, ".eot": {}, ".otf": {},
	// Media
	".mp3": {}, ".mp4": {}, ".avi": {}, ".mov": {}, ".mkv": {}, ".wav": {},
	".flac": {}, ".ogg": {},
	// Documents
	".pdf": {}, ".doc": {}, ".docx": {}, ".xls": {}, ".xlsx": {}, ".ppt": {},
	".pptx": {},
	// Databases
	".sqlite": {}, ".sqlite3": {}, ".db": {}, ".mdb": {},
}

// ShouldPruneDir reports whether a directory should be skipped entirely
// during traversal, by name alone.
func ShouldPruneDir(name string) bool {
	_, ok := prunedDirs[strings.ToLower(name)]
	return ok
}

// IsBinaryPath reports whether a path has a well-known binary extension.
// This is a hard exclusion applied before pattern matching.
func IsBinaryPath(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	_, ok := binaryExtensions[ext]
	return ok
}
