package tools

import (
	"fmt"
	"strings"
	"time"

	"github.com/lexandro/lexindex-mcp/query"
	"github.com/lexandro/lexindex-mcp/store"
)

// FormatSearchResults renders ranked search results as human-readable text:
// one block per file with score, matched line number, and snippet.
func FormatSearchResults(results []query.Result) string {
	if len(results) == 0 {
		return "No matches found."
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("Found %d results:\n\n", len(results)))

	for i, result := range results {
		if i > 0 {
			builder.WriteString("\n")
		}
		builder.WriteString(fmt.Sprintf("── %s (score %.2f, line %d, %s) ──\n",
			result.Path, result.Score, result.Line, result.Kind))
		for _, line := range strings.Split(result.Snippet, "\n") {
			builder.WriteString("  ")
			builder.WriteString(line)
			builder.WriteString("\n")
		}
	}

	return builder.String()
}

// FormatFileList renders file records matched by a glob search.
func FormatFileList(records []*store.FileRecord, nameOnly bool) string {
	if len(records) == 0 {
		return "No files matched."
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("Found %d files:\n\n", len(records)))

	for _, rec := range records {
		if nameOnly {
			builder.WriteString(rec.Path)
			builder.WriteString("\n")
		} else {
			builder.WriteString(fmt.Sprintf("  %s  (%s, %d lines)\n",
				rec.Path, FormatFileSize(rec.Size), rec.LineCount))
		}
	}

	return builder.String()
}

// FormatFileContent renders a file with numbered lines, Read-tool style.
func FormatFileContent(path string, content string) string {
	lines := strings.Split(content, "\n")
	lineCount := len(lines)

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("── %s (%d lines) ──\n", path, lineCount))

	width := len(fmt.Sprintf("%d", lineCount))
	for i, line := range lines {
		builder.WriteString(fmt.Sprintf("%*d│ %s\n", width, i+1, line))
	}

	return builder.String()
}

// FormatFileSize converts bytes to a human-readable string.
func FormatFileSize(bytes int64) string {
	switch {
	case bytes >= 1024*1024:
		return fmt.Sprintf("%.1f MB", float64(bytes)/(1024*1024))
	case bytes >= 1024:
		return fmt.Sprintf("%.1f KB", float64(bytes)/1024)
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

// FormatDuration formats an uptime-style duration.
func FormatDuration(d time.Duration) string {
	totalSeconds := int(d.Seconds())
	if totalSeconds < 60 {
		return fmt.Sprintf("%ds", totalSeconds)
	}
	totalMinutes := totalSeconds / 60
	remainderSeconds := totalSeconds % 60
	if totalMinutes < 60 {
		return fmt.Sprintf("%dm%ds", totalMinutes, remainderSeconds)
	}
	hours := totalMinutes / 60
	remainderMinutes := totalMinutes % 60
	return fmt.Sprintf("%dh%dm", hours, remainderMinutes)
}
