package match

import (
	"os"
	"path/filepath"

	gitignore "github.com/denormal/go-gitignore"
)

// IgnoreFiles layers .gitignore and .lexignore rules from the project root on
// top of a PatternSet. Both files are optional; a missing file contributes no
// rules. Rules are read once per session.
type IgnoreFiles struct {
	gitIgnore gitignore.GitIgnore
	lexIgnore gitignore.GitIgnore
}

// LoadIgnoreFiles reads .gitignore and .lexignore from the project root.
func LoadIgnoreFiles(rootDir string) *IgnoreFiles {
	return &IgnoreFiles{
		gitIgnore: loadIgnoreFile(filepath.Join(rootDir, ".gitignore"), rootDir),
		lexIgnore: loadIgnoreFile(filepath.Join(rootDir, ".lexignore"), rootDir),
	}
}

// Ignored reports whether a project-relative path is excluded by either
// ignore file.
func (f *IgnoreFiles) Ignored(relPath string, isDir bool) bool {
	if f == nil {
		return false
	}
	if f.gitIgnore != nil {
		if m := f.gitIgnore.Relative(relPath, isDir); m != nil && m.Ignore() {
			return true
		}
	}
	if f.lexIgnore != nil {
		if m := f.lexIgnore.Relative(relPath, isDir); m != nil && m.Ignore() {
			return true
		}
	}
	return false
}

// loadIgnoreFile parses one ignore file, returning nil if it does not exist.
// Reads through an open handle so the file is released promptly on Windows.
func loadIgnoreFile(filePath string, baseDir string) gitignore.GitIgnore {
	f, err := os.Open(filePath)
	if err != nil {
		return nil
	}
	defer f.Close()

	return gitignore.New(f, baseDir, nil)
}
