package tools

import (
	"context"
	"log/slog"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/lexandro/lexindex-mcp/store"
)

// FilesArgs defines the input parameters for the lexindex_files tool.
type FilesArgs struct {
	Pattern    string `json:"pattern" jsonschema:"Glob pattern matched against project-relative paths (e.g. **/*.go)"`
	MaxResults int    `json:"maxResults,omitempty" jsonschema:"Maximum number of files to return (default 50)"`
	NameOnly   bool   `json:"nameOnly,omitempty" jsonschema:"Return bare paths without size and line details"`
}

// FilesHandler holds the dependencies for the files tool.
type FilesHandler struct {
	Store  *store.Store
	Logger *slog.Logger
}

// Handle processes a lexindex_files request: a glob search over indexed
// paths, no filesystem access.
func (h *FilesHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args FilesArgs) (*mcp.CallToolResult, any, error) {
	if args.Pattern == "" {
		return errorResult("Error: pattern parameter is required"), nil, nil
	}

	maxResults := args.MaxResults
	if maxResults <= 0 {
		maxResults = 50
	}

	pattern := strings.ReplaceAll(args.Pattern, "\\", "/")
	if !doublestar.ValidatePattern(pattern) {
		return errorResult("Error: invalid glob pattern: %s", pattern), nil, nil
	}

	var matches []*store.FileRecord
	for _, rec := range h.Store.All() {
		if len(matches) >= maxResults {
			break
		}
		if ok, err := doublestar.Match(pattern, rec.Path); err == nil && ok {
			matches = append(matches, rec)
		}
	}

	h.Logger.Info("lexindex_files", "pattern", pattern, "files", len(matches))

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: FormatFileList(matches, args.NameOnly)}},
	}, nil, nil
}
