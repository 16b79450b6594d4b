package indexer

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexandro/lexindex-mcp/match"
	"github.com/lexandro/lexindex-mcp/store"
)

// newTestIndexer builds a pipeline over a temp project with the given
// include patterns.
func newTestIndexer(t *testing.T, root string, includes []string, excludes []string) *Indexer {
	t.Helper()

	patterns, err := match.Compile(includes, excludes)
	require.NoError(t, err)

	st := store.Open(filepath.Join(root, match.IndexDirName, "index.json"))
	require.NoError(t, st.Load())

	ix, err := New(Options{
		Root:        root,
		Store:       st,
		Patterns:    patterns,
		IgnoreFiles: match.LoadIgnoreFiles(root),
		Logger:      slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})),
	})
	require.NoError(t, err)
	t.Cleanup(func() { ix.Close() })
	return ix
}

func writeFile(t *testing.T, root string, rel string, content string) string {
	t.Helper()
	abs := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(abs), 0755))
	require.NoError(t, os.WriteFile(abs, []byte(content), 0644))
	return abs
}

func Test_Indexer_IndexFile(t *testing.T) {
	root := t.TempDir()
	ix := newTestIndexer(t, root, []string{"**"}, nil)
	abs := writeFile(t, root, "src/main.go", "package main\n\nfunc main() {}\n")

	res := ix.IndexFile(abs)
	require.Equal(t, StatusIndexed, res.Status)
	assert.Equal(t, "src/main.go", res.Path)

	rec, ok := ix.Store().Get("src/main.go")
	require.True(t, ok)
	assert.Equal(t, ".go", rec.Extension)
	assert.Equal(t, 4, rec.LineCount)
	assert.NotEmpty(t, rec.Hash)
	assert.Contains(t, rec.Keywords, "package")
}

func Test_Indexer_UnchangedOnIdenticalContent(t *testing.T) {
	root := t.TempDir()
	ix := newTestIndexer(t, root, []string{"**"}, nil)
	abs := writeFile(t, root, "a.go", "package a\n")

	require.Equal(t, StatusIndexed, ix.IndexFile(abs).Status)

	first, _ := ix.Store().Get("a.go")
	res := ix.IndexFile(abs)
	assert.Equal(t, StatusUnchanged, res.Status)

	second, _ := ix.Store().Get("a.go")
	assert.Same(t, first, second, "unchanged status must not rewrite the record")
}

func Test_Indexer_SingleByteChangeReindexes(t *testing.T) {
	root := t.TempDir()
	ix := newTestIndexer(t, root, []string{"**"}, nil)
	abs := writeFile(t, root, "a.go", "package a\n")

	require.Equal(t, StatusIndexed, ix.IndexFile(abs).Status)

	writeFile(t, root, "a.go", "package b\n")
	assert.Equal(t, StatusIndexed, ix.IndexFile(abs).Status,
		"any content change must re-index, never report unchanged")
}

func Test_Indexer_ReadFailureDoesNotMutateStore(t *testing.T) {
	root := t.TempDir()
	ix := newTestIndexer(t, root, []string{"**"}, nil)

	res := ix.IndexFile(filepath.Join(root, "missing.go"))
	assert.Equal(t, StatusError, res.Status)
	assert.Error(t, res.Err)
	assert.Equal(t, 0, ix.Store().FileCount())
}

func Test_Indexer_BinaryContentRejected(t *testing.T) {
	root := t.TempDir()
	ix := newTestIndexer(t, root, []string{"**"}, nil)
	abs := filepath.Join(root, "blob.dat")
	require.NoError(t, os.WriteFile(abs, []byte{0x00, 0x01, 0x02}, 0644))

	res := ix.IndexFile(abs)
	assert.Equal(t, StatusError, res.Status)
	assert.Equal(t, 0, ix.Store().FileCount())
}

func Test_Indexer_RemoveFile(t *testing.T) {
	root := t.TempDir()
	ix := newTestIndexer(t, root, []string{"**"}, nil)
	abs := writeFile(t, root, "a.go", "package a\n")
	require.Equal(t, StatusIndexed, ix.IndexFile(abs).Status)

	existed, err := ix.RemoveFile(abs)
	require.NoError(t, err)
	assert.True(t, existed)
	assert.Equal(t, 0, ix.Store().FileCount())

	existed, err = ix.RemoveFile(filepath.Join(root, "never-indexed.go"))
	require.NoError(t, err)
	assert.False(t, existed, "removing an unindexed file must report it did not exist")
}

func Test_Indexer_RemoveWithoutMatchCheck(t *testing.T) {
	root := t.TempDir()
	ix := newTestIndexer(t, root, []string{"**/*.go"}, nil)
	abs := writeFile(t, root, "a.go", "package a\n")
	require.Equal(t, StatusIndexed, ix.IndexFile(abs).Status)

	// Even a path the current pattern set would reject must be removable.
	existed, err := ix.RemoveFile(abs)
	require.NoError(t, err)
	assert.True(t, existed)
}

func Test_Indexer_Scan(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/app.py", "def run(): pass\n")
	writeFile(t, root, "src/util.py", "def helper(): pass\n")
	writeFile(t, root, "README.md", "# readme\n")
	writeFile(t, root, "node_modules/dep/index.js", "module.exports = {}\n")
	writeFile(t, root, ".git/config", "[core]\n")

	ix := newTestIndexer(t, root, []string{"**/*.py"}, nil)

	summary, err := ix.Scan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Indexed)
	assert.Equal(t, 0, summary.Unchanged)
	assert.Equal(t, 0, summary.Errors)
	assert.Equal(t, 2, ix.Store().FileCount())

	_, ok := ix.Store().Get("src/app.py")
	assert.True(t, ok)
	_, ok = ix.Store().Get("README.md")
	assert.False(t, ok, "non-matching files must not be indexed")
}

func Test_Indexer_RescanSkipsUnchanged(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.py", "a = 1\n")
	writeFile(t, root, "b.py", "b = 2\n")

	ix := newTestIndexer(t, root, []string{"**/*.py"}, nil)

	first, err := ix.Scan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, first.Indexed)

	writeFile(t, root, "a.py", "a = 99\n")

	second, err := ix.Scan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, second.Indexed, "only the changed file re-indexes")
	assert.Equal(t, 1, second.Unchanged)
}

func Test_Indexer_ScanSkipsOversizedFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "small.py", "ok\n")
	writeFile(t, root, "big.py", string(make([]byte, 4096)))

	patterns, err := match.Compile([]string{"**/*.py"}, nil)
	require.NoError(t, err)
	st := store.Open(filepath.Join(root, match.IndexDirName, "index.json"))
	ix, err := New(Options{
		Root:        root,
		Store:       st,
		Patterns:    patterns,
		IgnoreFiles: match.LoadIgnoreFiles(root),
		MaxFileSize: 1024,
	})
	require.NoError(t, err)
	defer ix.Close()

	summary, err := ix.Scan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Indexed)
	_, ok := st.Get("big.py")
	assert.False(t, ok)
}

func Test_Indexer_ScanPersists(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.py", "a = 1\n")

	ix := newTestIndexer(t, root, []string{"**/*.py"}, nil)
	_, err := ix.Scan(context.Background())
	require.NoError(t, err)
	require.NoError(t, ix.Close())

	reloaded := store.Open(filepath.Join(root, match.IndexDirName, "index.json"))
	require.NoError(t, reloaded.Load())
	assert.Equal(t, 1, reloaded.FileCount())
}

func Test_Indexer_Clear(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.py", "a = 1\n")

	ix := newTestIndexer(t, root, []string{"**"}, nil)
	_, err := ix.Scan(context.Background())
	require.NoError(t, err)
	require.NoError(t, ix.Clear())

	assert.Equal(t, 0, ix.Store().FileCount())

	reloaded := store.Open(ix.Store().DocPath())
	require.NoError(t, reloaded.Load())
	assert.Equal(t, 0, reloaded.FileCount(), "clear must persist the empty store")
}

func Test_Indexer_SecondPipelineOnSameProjectFails(t *testing.T) {
	root := t.TempDir()
	_ = newTestIndexer(t, root, []string{"**"}, nil)

	patterns, err := match.Compile([]string{"**"}, nil)
	require.NoError(t, err)
	_, err = New(Options{
		Root:     root,
		Store:    store.Open(filepath.Join(root, match.IndexDirName, "index.json")),
		Patterns: patterns,
	})
	assert.Error(t, err, "the project lock must reject a second writer")
}

func Test_Indexer_ScanIgnoresBinaryExtensions(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "logo.png", "not really a png")
	writeFile(t, root, "main.py", "x = 1\n")

	ix := newTestIndexer(t, root, []string{"**"}, nil)
	summary, err := ix.Scan(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Indexed)
	_, ok := ix.Store().Get("logo.png")
	assert.False(t, ok, "binary extensions are excluded regardless of patterns")
}
