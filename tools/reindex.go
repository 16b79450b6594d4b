package tools

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/lexandro/lexindex-mcp/indexer"
)

// ReindexArgs defines the input parameters for the lexindex_reindex tool.
type ReindexArgs struct{}

// ReindexFunc clears the index and rebuilds it from scratch. Provided by the
// serve command, which owns the pipeline.
type ReindexFunc func(ctx context.Context) (indexer.ScanSummary, error)

// ReindexHandler holds the dependencies for the reindex tool.
type ReindexHandler struct {
	DoReindex ReindexFunc
	Logger    *slog.Logger
}

// Handle processes a lexindex_reindex request.
func (h *ReindexHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args ReindexArgs) (*mcp.CallToolResult, any, error) {
	h.Logger.Info("lexindex_reindex started")

	summary, err := h.DoReindex(ctx)
	if err != nil {
		h.Logger.Error("lexindex_reindex failed", "error", err)
		return errorResult("Reindex error: %v", err), nil, nil
	}

	h.Logger.Info("lexindex_reindex complete",
		"indexed", summary.Indexed,
		"unchanged", summary.Unchanged,
		"errors", summary.Errors,
		"elapsed", summary.Duration,
	)

	output := fmt.Sprintf("reindexed: %d files (%s) in %s, %d errors",
		summary.Indexed,
		FormatFileSize(summary.TotalSize),
		summary.Duration.Round(time.Millisecond),
		summary.Errors,
	)

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: output}},
	}, nil, nil
}
