package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRecord(path string, content string) *FileRecord {
	return &FileRecord{
		Path:      path,
		Content:   content,
		Hash:      "hash-" + path,
		Size:      int64(len(content)),
		LineCount: CountLines(content),
		Extension: NormalizeExtension(path),
		Keywords:  map[string]int{"keyword": 1},
	}
}

func Test_Store_UpsertGetDelete(t *testing.T) {
	st := Open(filepath.Join(t.TempDir(), "index.json"))

	st.Upsert(testRecord("src/main.go", "package main\n"))

	rec, ok := st.Get("src/main.go")
	require.True(t, ok)
	assert.Equal(t, "package main\n", rec.Content)
	assert.Equal(t, ".go", rec.Extension)

	assert.True(t, st.Delete("src/main.go"))
	assert.False(t, st.Delete("src/main.go"), "second delete should report not existed")

	_, ok = st.Get("src/main.go")
	assert.False(t, ok)
}

func Test_Store_AllSortedByPath(t *testing.T) {
	st := Open(filepath.Join(t.TempDir(), "index.json"))
	st.Upsert(testRecord("b.go", "b"))
	st.Upsert(testRecord("a.go", "a"))
	st.Upsert(testRecord("c/d.go", "d"))

	var paths []string
	for _, rec := range st.All() {
		paths = append(paths, rec.Path)
	}
	assert.Equal(t, []string{"a.go", "b.go", "c/d.go"}, paths)
}

func Test_Store_SaveAndLoadRoundTrip(t *testing.T) {
	docPath := filepath.Join(t.TempDir(), "index.json")

	st := Open(docPath)
	st.Upsert(testRecord("main.py", "def login(): pass\n"))
	st.Upsert(testRecord("util.py", "def helper(): pass\n"))
	require.NoError(t, st.Save())

	reloaded := Open(docPath)
	require.NoError(t, reloaded.Load())
	assert.Equal(t, 2, reloaded.FileCount())

	rec, ok := reloaded.Get("main.py")
	require.True(t, ok)
	assert.Equal(t, "def login(): pass\n", rec.Content)
	assert.Equal(t, map[string]int{"keyword": 1}, rec.Keywords)
}

func Test_Store_LoadMissingDocumentIsEmpty(t *testing.T) {
	st := Open(filepath.Join(t.TempDir(), "does-not-exist.json"))
	require.NoError(t, st.Load())
	assert.Equal(t, 0, st.FileCount())
}

func Test_Store_LoadCorruptDocumentIsEmpty(t *testing.T) {
	docPath := filepath.Join(t.TempDir(), "index.json")
	require.NoError(t, os.WriteFile(docPath, []byte("{not json"), 0644))

	st := Open(docPath)
	require.NoError(t, st.Load(), "corrupt document must degrade to empty, not fail")
	assert.Equal(t, 0, st.FileCount())
}

func Test_Store_SaveLeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	st := Open(filepath.Join(dir, "index.json"))
	st.Upsert(testRecord("a.go", "a"))
	require.NoError(t, st.Save())

	_, err := os.Stat(filepath.Join(dir, "index.json.tmp"))
	assert.True(t, os.IsNotExist(err), "temp file should be renamed away")
}

func Test_Store_Stats(t *testing.T) {
	st := Open(filepath.Join(t.TempDir(), "index.json"))
	st.Upsert(testRecord("a.go", "aaaa"))
	st.Upsert(testRecord("b.go", "bb"))
	st.Upsert(testRecord("c.py", "c"))

	stats := st.Stats()
	assert.Equal(t, 3, stats.FileCount)
	assert.Equal(t, int64(7), stats.TotalSize)

	require.Len(t, stats.ByExtension, 2)
	assert.Equal(t, ExtensionCount{Extension: ".go", Count: 2}, stats.ByExtension[0])
	assert.Equal(t, ExtensionCount{Extension: ".py", Count: 1}, stats.ByExtension[1])
}

func Test_Store_Clear(t *testing.T) {
	st := Open(filepath.Join(t.TempDir(), "index.json"))
	st.Upsert(testRecord("a.go", "a"))

	st.Clear()
	assert.Equal(t, 0, st.FileCount())
	assert.Empty(t, st.All())
}

func Test_CountLines(t *testing.T) {
	assert.Equal(t, 1, CountLines(""))
	assert.Equal(t, 1, CountLines("one line no newline"))
	assert.Equal(t, 3, CountLines("a\nb\nc"))
}
