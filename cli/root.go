package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lexandro/lexindex-mcp/config"
	"github.com/lexandro/lexindex-mcp/indexer"
	"github.com/lexandro/lexindex-mcp/match"
	"github.com/lexandro/lexindex-mcp/project"
	"github.com/lexandro/lexindex-mcp/store"
)

var (
	flagProject  string
	flagRoot     string
	flagLogLevel string
	flagLogFile  string
)

var rootCmd = &cobra.Command{
	Use:   "lexindex",
	Short: "Per-project lexical index with relevance-ranked search",
	Long: `lexindex maintains a lexical index of a project's source files and answers
relevance-ranked search queries against it, updating incrementally as files
change. It runs as a CLI, a live watcher, or an MCP stdio server.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagProject, "project", "p", "", "Registered project name (see 'lexindex projects')")
	rootCmd.PersistentFlags().StringVarP(&flagRoot, "root", "r", "", "Project root directory (default: current directory)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug|info|warn|error")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Log file path (default: stderr)")
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// resolveRoot determines the project root from --project, --root, or the
// current directory, in that order.
func resolveRoot() (string, error) {
	if flagProject != "" {
		regPath, err := project.DefaultPath()
		if err != nil {
			return "", err
		}
		reg, err := project.Load(regPath)
		if err != nil {
			return "", err
		}
		root, ok := reg.Resolve(flagProject)
		if !ok {
			return "", fmt.Errorf("unknown project %q (register it with 'lexindex projects add')", flagProject)
		}
		return root, nil
	}

	root := flagRoot
	if root == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("getting working directory: %w", err)
		}
		root = cwd
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("resolving root: %w", err)
	}
	return absRoot, nil
}

// indexDocPath is where a project's index document lives.
func indexDocPath(root string) string {
	return filepath.Join(root, match.IndexDirName, "index.json")
}

// session bundles everything one command invocation needs. Read-only commands
// leave Indexer nil and take no project lock.
type session struct {
	Root    string
	Config  config.Config
	Store   *store.Store
	Indexer *indexer.Indexer
	Logger  *slog.Logger
}

// openSession resolves the root, loads config and store, and (for writable
// sessions) opens the indexing pipeline, which takes the project lock.
func openSession(writable bool) (*session, error) {
	root, err := resolveRoot()
	if err != nil {
		return nil, err
	}

	logger := newLogger()

	cfg, err := config.Load(root)
	if err != nil {
		return nil, err
	}

	st := store.Open(indexDocPath(root))
	if err := st.Load(); err != nil {
		return nil, err
	}

	sess := &session{Root: root, Config: cfg, Store: st, Logger: logger}
	if !writable {
		return sess, nil
	}

	patterns, err := cfg.Patterns()
	if err != nil {
		return nil, err
	}
	ix, err := indexer.New(indexer.Options{
		Root:        root,
		Store:       st,
		Patterns:    patterns,
		IgnoreFiles: match.LoadIgnoreFiles(root),
		MaxFileSize: cfg.MaxFileSize,
		Workers:     cfg.Workers,
		Logger:      logger,
	})
	if err != nil {
		return nil, err
	}
	sess.Indexer = ix
	return sess, nil
}

// Close releases the session's pipeline, if any.
func (s *session) Close() error {
	if s.Indexer == nil {
		return nil
	}
	return s.Indexer.Close()
}

// newLogger builds the slog logger from the global flags. Output goes to a
// file or stderr, never stdout: stdout carries MCP stdio traffic.
func newLogger() *slog.Logger {
	var level slog.Level
	switch strings.ToLower(flagLogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	writer := os.Stderr
	if flagLogFile != "" {
		f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: cannot open log file %s: %v, falling back to stderr\n", flagLogFile, err)
		} else {
			writer = f
		}
	}

	handler := slog.NewTextHandler(writer, &slog.HandlerOptions{Level: level})
	return slog.New(handler)
}
