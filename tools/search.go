package tools

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/lexandro/lexindex-mcp/config"
	"github.com/lexandro/lexindex-mcp/query"
	"github.com/lexandro/lexindex-mcp/store"
)

// SearchArgs defines the input parameters for the lexindex_search tool.
type SearchArgs struct {
	Query      string  `json:"query" jsonschema:"Free-text search query. Files are ranked by keyword and content relevance"`
	MaxResults int     `json:"maxResults,omitempty" jsonschema:"Maximum number of results (default 10)"`
	MinScore   float64 `json:"minScore,omitempty" jsonschema:"Minimum relevance score in [0,1] (default 0.3)"`
	Context    int     `json:"contextLines,omitempty" jsonschema:"Context lines around the matched line in each snippet (default 2)"`
}

// SearchHandler holds the dependencies for the search tool.
type SearchHandler struct {
	Store    *store.Store
	Defaults config.SearchConfig
	Logger   *slog.Logger
}

// Handle processes a lexindex_search request.
func (h *SearchHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args SearchArgs) (*mcp.CallToolResult, any, error) {
	start := time.Now()

	if args.Query == "" {
		h.Logger.Warn("lexindex_search called with empty query")
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: "Error: query parameter is required"}},
			IsError: true,
		}, nil, nil
	}

	opts := query.Options{
		MaxResults:   h.Defaults.MaxResults,
		MinScore:     h.Defaults.MinScore,
		ContextLines: h.Defaults.ContextLines,
	}
	if args.MaxResults > 0 {
		opts.MaxResults = args.MaxResults
	}
	if args.MinScore > 0 {
		opts.MinScore = args.MinScore
	}
	if args.Context > 0 {
		opts.ContextLines = args.Context
	}

	results := query.Search(h.Store, args.Query, opts)

	h.Logger.Info("lexindex_search",
		"query", args.Query,
		"results", len(results),
		"elapsed", time.Since(start),
	)

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: FormatSearchResults(results)}},
	}, nil, nil
}

// errorResult builds a failed tool result with a formatted message.
func errorResult(format string, args ...any) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf(format, args...)}},
		IsError: true,
	}
}
