package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
)

// registryFileName lives under ~/.lexindex.
const registryFileName = "projects.json"

// validNamePattern matches letters, numbers, hyphens, and underscores.
var validNamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// Registry maps project names to absolute root paths. It is CLI glue: the
// engine itself only ever sees a resolved root.
type Registry struct {
	path     string
	Projects map[string]string `json:"projects"`
}

// Entry is one registered project.
type Entry struct {
	Name string
	Root string
}

// DefaultPath returns the registry location under the user home.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".lexindex", registryFileName), nil
}

// Load reads the registry, returning an empty one when the file does not
// exist yet.
func Load(path string) (*Registry, error) {
	reg := &Registry{path: path, Projects: make(map[string]string)}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return reg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading registry: %w", err)
	}
	if err := json.Unmarshal(data, reg); err != nil {
		return nil, fmt.Errorf("parsing registry %s: %w", path, err)
	}
	if reg.Projects == nil {
		reg.Projects = make(map[string]string)
	}
	return reg, nil
}

// Save writes the registry atomically (temp file + rename).
func (r *Registry) Save() error {
	if err := os.MkdirAll(filepath.Dir(r.path), 0755); err != nil {
		return fmt.Errorf("creating registry directory: %w", err)
	}
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling registry: %w", err)
	}

	tmpPath := r.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("writing registry: %w", err)
	}
	if err := os.Rename(tmpPath, r.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("replacing registry: %w", err)
	}
	return nil
}

// Add registers a project root under a name.
func (r *Registry) Add(name string, root string) error {
	if !validNamePattern.MatchString(name) {
		return fmt.Errorf("project name %q: only letters, numbers, hyphens, and underscores allowed", name)
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("resolving project root: %w", err)
	}
	info, err := os.Stat(absRoot)
	if err != nil {
		return fmt.Errorf("project root %s: %w", absRoot, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("project root %s is not a directory", absRoot)
	}
	r.Projects[name] = absRoot
	return nil
}

// Remove unregisters a project, reporting whether it was present.
func (r *Registry) Remove(name string) bool {
	if _, ok := r.Projects[name]; !ok {
		return false
	}
	delete(r.Projects, name)
	return true
}

// Resolve returns the root for a registered name.
func (r *Registry) Resolve(name string) (string, bool) {
	root, ok := r.Projects[name]
	return root, ok
}

// List returns all entries sorted by name.
func (r *Registry) List() []Entry {
	entries := make([]Entry, 0, len(r.Projects))
	for name, root := range r.Projects {
		entries = append(entries, Entry{Name: name, Root: root})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries
}
