package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/lexandro/lexindex-mcp/indexer"
	"github.com/lexandro/lexindex-mcp/server"
	"github.com/lexandro/lexindex-mcp/tools"
	"github.com/lexandro/lexindex-mcp/watcher"
)

var serveNoWatch bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP server on stdio",
	Long: `Index the project, start the filesystem watcher, and serve MCP tools over
stdio. Logs go to the log file or stderr; stdout carries the protocol.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&serveNoWatch, "no-watch", false, "Serve without live index updates")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	startTime := time.Now()

	sess, err := openSession(true)
	if err != nil {
		return err
	}
	defer sess.Close()

	summary, err := sess.Indexer.Scan(cmd.Context())
	if err != nil {
		return fmt.Errorf("initial scan: %w", err)
	}
	sess.Logger.Info("initial indexing complete",
		"indexed", summary.Indexed,
		"unchanged", summary.Unchanged,
		"errors", summary.Errors,
		"duration", summary.Duration,
	)

	var w *watcher.Watcher
	if !serveNoWatch {
		w = watcher.New(watcher.Options{
			Root:     sess.Root,
			Indexer:  sess.Indexer,
			Debounce: sess.Config.Debounce,
			Logger:   sess.Logger,
		})
		if err := w.Start(); err != nil {
			sess.Logger.Warn("watcher unavailable, serving without live updates", "error", err)
			w = nil
		} else {
			defer w.Stop()
		}
	}

	searchHandler := &tools.SearchHandler{
		Store:    sess.Store,
		Defaults: sess.Config.Search,
		Logger:   sess.Logger,
	}
	filesHandler := &tools.FilesHandler{Store: sess.Store, Logger: sess.Logger}
	readHandler := &tools.ReadHandler{Store: sess.Store, Logger: sess.Logger}
	statusHandler := &tools.StatusHandler{
		Store:     sess.Store,
		Watcher:   w,
		StartTime: startTime,
		RootDir:   sess.Root,
		Logger:    sess.Logger,
	}
	reindexHandler := &tools.ReindexHandler{
		Logger: sess.Logger,
		DoReindex: func(ctx context.Context) (indexer.ScanSummary, error) {
			if err := sess.Indexer.Clear(); err != nil {
				return indexer.ScanSummary{}, fmt.Errorf("clearing index: %w", err)
			}
			return sess.Indexer.Scan(ctx)
		},
	}

	mcpServer := server.Setup(searchHandler, filesHandler, readHandler, statusHandler, reindexHandler)

	sess.Logger.Info("MCP server starting on stdio", "root", sess.Root)
	if err := mcpServer.Run(cmd.Context(), &mcp.StdioTransport{}); err != nil {
		return fmt.Errorf("MCP server: %w", err)
	}
	return nil
}
