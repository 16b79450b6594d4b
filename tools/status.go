package tools

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/lexandro/lexindex-mcp/store"
	"github.com/lexandro/lexindex-mcp/watcher"
)

// StatusArgs defines the input parameters for the lexindex_status tool (none).
type StatusArgs struct{}

// StatusHandler holds the dependencies for the status tool.
type StatusHandler struct {
	Store     *store.Store
	Watcher   *watcher.Watcher // nil when watching is disabled
	StartTime time.Time
	RootDir   string
	Logger    *slog.Logger
}

// Handle processes a lexindex_status request.
func (h *StatusHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args StatusArgs) (*mcp.CallToolResult, any, error) {
	stats := h.Store.Stats()
	uptime := time.Since(h.StartTime)

	h.Logger.Info("lexindex_status",
		"files", stats.FileCount,
		"totalSize", stats.TotalSize,
		"uptime", uptime,
	)

	var builder strings.Builder
	builder.WriteString("=== lexindex Status ===\n\n")
	builder.WriteString(fmt.Sprintf("Project root: %s\n", h.RootDir))
	builder.WriteString(fmt.Sprintf("Uptime: %s\n", FormatDuration(uptime)))
	builder.WriteString(fmt.Sprintf("Indexed files: %d\n", stats.FileCount))
	builder.WriteString(fmt.Sprintf("Total indexed size: %s\n", FormatFileSize(stats.TotalSize)))

	if h.Watcher != nil {
		counters := h.Watcher.Counters()
		builder.WriteString(fmt.Sprintf("Watcher: %s (added %d, changed %d, removed %d, errors %d)\n",
			watcherStateName(h.Watcher.State()),
			counters.FilesAdded, counters.FilesChanged, counters.FilesRemoved, counters.Errors,
		))
	}

	builder.WriteString(formatExtensionBreakdown(stats.ByExtension))

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: builder.String()}},
	}, nil, nil
}

// formatExtensionBreakdown renders the per-extension counts, already ordered
// by descending count.
func formatExtensionBreakdown(entries []store.ExtensionCount) string {
	if len(entries) == 0 {
		return ""
	}
	var builder strings.Builder
	builder.WriteString("\nExtensions:\n")
	for _, entry := range entries {
		ext := entry.Extension
		if ext == "" {
			ext = "(none)"
		}
		builder.WriteString(fmt.Sprintf("  %-12s %d files\n", ext, entry.Count))
	}
	return builder.String()
}

func watcherStateName(s watcher.State) string {
	switch s {
	case watcher.StateWatching:
		return "watching"
	case watcher.StateStarting:
		return "starting"
	default:
		return "stopped"
	}
}
