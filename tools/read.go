package tools

import (
	"context"
	"log/slog"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/lexandro/lexindex-mcp/store"
)

// ReadArgs defines the input parameters for the lexindex_read tool.
type ReadArgs struct {
	Path string `json:"path" jsonschema:"Project-relative path of the file to read"`
}

// ReadHandler holds the dependencies for the read tool.
type ReadHandler struct {
	Store  *store.Store
	Logger *slog.Logger
}

// Handle processes a lexindex_read request, serving content from the index
// with zero disk I/O.
func (h *ReadHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args ReadArgs) (*mcp.CallToolResult, any, error) {
	if args.Path == "" {
		return errorResult("Error: path parameter is required"), nil, nil
	}

	path := strings.ReplaceAll(args.Path, "\\", "/")
	rec, ok := h.Store.Get(path)
	if !ok {
		h.Logger.Warn("lexindex_read miss", "path", path)
		return errorResult("File not indexed: %s", path), nil, nil
	}

	h.Logger.Info("lexindex_read", "path", path, "lines", rec.LineCount)

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: FormatFileContent(rec.Path, rec.Content)}},
	}, nil, nil
}
