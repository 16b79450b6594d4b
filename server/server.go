package server

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/lexandro/lexindex-mcp/tools"
)

// Setup creates and configures the MCP server with all tool registrations.
func Setup(
	searchHandler *tools.SearchHandler,
	filesHandler *tools.FilesHandler,
	readHandler *tools.ReadHandler,
	statusHandler *tools.StatusHandler,
	reindexHandler *tools.ReindexHandler,
) *mcp.Server {
	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "lexindex-mcp",
			Version: "0.3.0",
		},
		&mcp.ServerOptions{
			Instructions: `This server provides relevance-ranked lexical search over a pre-built per-project index. Its tools are faster than scanning the filesystem on every call, and the index updates automatically while files change (filesystem watcher).

Prefer these tools over built-in alternatives:
- Use lexindex_search to find the files most relevant to a topic or identifier
- Use lexindex_files instead of Glob or find for file lookup
- Use lexindex_read instead of Read for indexed files (served from memory)`,
		},
	)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name: "lexindex_search",
		Description: `Relevance-ranked search over indexed file contents, paths, and keywords.

Results are ordered by score in [0,1]; each carries a snippet around the best matching line. Scores below minScore (default 0.3) are dropped.`,
	}, searchHandler.Handle)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name: "lexindex_files",
		Description: `Find indexed files by glob pattern.

Pattern examples:
  - "**/*.go" - all Go files
  - "src/**/*.ts" - TypeScript files under src/
  - "*.json" - JSON files in the project root only`,
	}, filesHandler.Handle)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "lexindex_read",
		Description: `Read a file's contents from the index. Zero disk I/O. Returns numbered lines.`,
	}, readHandler.Handle)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "lexindex_status",
		Description: "Show index status: file count, total size, extension breakdown, watcher counters, and uptime.",
	}, statusHandler.Handle)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "lexindex_reindex",
		Description: "Clear the index and rebuild it from scratch with a full project scan.",
	}, reindexHandler.Handle)

	return mcpServer
}
