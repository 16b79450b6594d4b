package match

import (
	"os"
	"path/filepath"
	"testing"
)

func Test_IgnoreFiles_Gitignore(t *testing.T) {
	tmpDir := t.TempDir()
	os.WriteFile(filepath.Join(tmpDir, ".gitignore"), []byte("*.generated.go\nsecret/\n"), 0644)

	ignores := LoadIgnoreFiles(tmpDir)

	if !ignores.Ignored("models.generated.go", false) {
		t.Error("expected .gitignore pattern to ignore *.generated.go")
	}
	if ignores.Ignored("main.go", false) {
		t.Error("expected normal files to pass")
	}
	if !ignores.Ignored("secret", true) {
		t.Error("expected secret/ directory to be ignored")
	}
}

func Test_IgnoreFiles_Lexignore(t *testing.T) {
	tmpDir := t.TempDir()
	os.WriteFile(filepath.Join(tmpDir, ".lexignore"), []byte("*.draft.md\n"), 0644)

	ignores := LoadIgnoreFiles(tmpDir)

	if !ignores.Ignored("notes.draft.md", false) {
		t.Error("expected .lexignore pattern to ignore *.draft.md")
	}
}

func Test_IgnoreFiles_MissingFiles(t *testing.T) {
	ignores := LoadIgnoreFiles(t.TempDir())

	if ignores.Ignored("main.go", false) {
		t.Error("expected no rules when neither ignore file exists")
	}
}
