package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lexandro/lexindex-mcp/match"
)

// ProjectFileName is the optional per-project override file.
const ProjectFileName = ".lexindex.yaml"

// Config is the merged, read-only configuration snapshot for one session.
// It is resolved once (defaults → global file → project file) and passed
// explicitly to the indexer and watcher; nothing re-reads it mid-operation.
type Config struct {
	Include     []string      `yaml:"include"`
	Exclude     []string      `yaml:"exclude"`
	MaxFileSize int64         `yaml:"max_file_size"`
	Debounce    time.Duration `yaml:"debounce"`
	Workers     int           `yaml:"workers"`
	Search      SearchConfig  `yaml:"search"`
}

// SearchConfig holds query-side defaults.
type SearchConfig struct {
	MaxResults   int     `yaml:"max_results"`
	MinScore     float64 `yaml:"min_score"`
	ContextLines int     `yaml:"context_lines"`
}

// overrides mirrors Config with pointer fields so absent keys leave defaults
// untouched during merging.
type overrides struct {
	Include     []string       `yaml:"include"`
	Exclude     []string       `yaml:"exclude"`
	MaxFileSize *int64  `yaml:"max_file_size"`
	Debounce    *string `yaml:"debounce"` // Go duration string, e.g. "500ms"
	Workers     *int    `yaml:"workers"`
	Search      struct {
		MaxResults   *int     `yaml:"max_results"`
		MinScore     *float64 `yaml:"min_score"`
		ContextLines *int     `yaml:"context_lines"`
	} `yaml:"search"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Include:     []string{"**"},
		Exclude:     nil,
		MaxFileSize: 1024 * 1024,
		Debounce:    500 * time.Millisecond,
		Workers:     8,
		Search: SearchConfig{
			MaxResults:   10,
			MinScore:     0.3,
			ContextLines: 2,
		},
	}
}

// Load resolves the session configuration for a project root: built-in
// defaults, then the global file (~/.lexindex/config.yaml), then the
// project's .lexindex.yaml. The result is validated; malformed patterns are
// fatal for the session.
func Load(rootDir string) (Config, error) {
	cfg := Default()

	if home, err := os.UserHomeDir(); err == nil {
		if err := applyFile(&cfg, filepath.Join(home, match.IndexDirName, "config.yaml")); err != nil {
			return Config{}, err
		}
	}
	if err := applyFile(&cfg, filepath.Join(rootDir, ProjectFileName)); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate compiles the pattern set once to surface malformed globs at
// session start instead of mid-scan.
func (c Config) Validate() error {
	if _, err := match.Compile(c.Include, c.Exclude); err != nil {
		return fmt.Errorf("invalid pattern configuration: %w", err)
	}
	if c.MaxFileSize <= 0 {
		return fmt.Errorf("max_file_size must be positive, got %d", c.MaxFileSize)
	}
	return nil
}

// Patterns compiles the include/exclude lists. Call after Validate (or Load,
// which validates).
func (c Config) Patterns() (*match.PatternSet, error) {
	return match.Compile(c.Include, c.Exclude)
}

// applyFile merges one YAML file into cfg. A missing file is fine; an
// unparseable one is a configuration error.
func applyFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading config %s: %w", path, err)
	}

	var over overrides
	if err := yaml.Unmarshal(data, &over); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}

	if over.Include != nil {
		cfg.Include = over.Include
	}
	if over.Exclude != nil {
		cfg.Exclude = over.Exclude
	}
	if over.MaxFileSize != nil {
		cfg.MaxFileSize = *over.MaxFileSize
	}
	if over.Debounce != nil {
		d, err := time.ParseDuration(*over.Debounce)
		if err != nil {
			return fmt.Errorf("parsing debounce in %s: %w", path, err)
		}
		cfg.Debounce = d
	}
	if over.Workers != nil {
		cfg.Workers = *over.Workers
	}
	if over.Search.MaxResults != nil {
		cfg.Search.MaxResults = *over.Search.MaxResults
	}
	if over.Search.MinScore != nil {
		cfg.Search.MinScore = *over.Search.MinScore
	}
	if over.Search.ContextLines != nil {
		cfg.Search.ContextLines = *over.Search.ContextLines
	}
	return nil
}
