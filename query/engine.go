package query

import (
	"sort"
	"strings"

	"github.com/lexandro/lexindex-mcp/store"
)

// Defaults for search options.
const (
	DefaultMaxResults   = 10
	DefaultMinScore     = 0.3
	DefaultContextLines = 2

	// keywordFrequencyCap bounds the keyword-term contribution: occurrences
	// beyond this add nothing.
	keywordFrequencyCap = 5

	// minWordLength filters query words; shorter words carry no signal.
	minWordLength = 3
)

// MatchKind tells the consumer how the snippet was located.
type MatchKind string

const (
	// KindContent means the query string occurs verbatim on the snippet line.
	KindContent MatchKind = "content"
	// KindKeyword means the file matched through keywords or path only; the
	// snippet is the head of the file.
	KindKeyword MatchKind = "keyword"
)

// Options configures one search.
type Options struct {
	MaxResults   int
	MinScore     float64
	ContextLines int
}

// Result is one ranked match. Results are ephemeral; they are produced fresh
// from a point-in-time read of the store.
type Result struct {
	Path    string
	Score   float64
	Snippet string
	Line    int
	Kind    MatchKind
}

// Search scores every indexed file against a free-text query and returns the
// highest-scoring files, capped at MaxResults. Files below MinScore are
// excluded. Ties keep store order (sorted paths) via the stable sort, which
// keeps fixtures reproducible.
//
// The score is a fixed additive formula, clamped to [0,1] after summing. It
// is deliberately not a normalized relevance model: downstream consumers
// threshold on absolute scores, so the arithmetic must stay as is.
func Search(st *store.Store, rawQuery string, opts Options) []Result {
	if opts.MaxResults <= 0 {
		opts.MaxResults = DefaultMaxResults
	}
	if opts.MinScore <= 0 {
		opts.MinScore = DefaultMinScore
	}
	if opts.ContextLines < 0 {
		opts.ContextLines = DefaultContextLines
	}

	queryLower := strings.ToLower(strings.TrimSpace(rawQuery))
	if queryLower == "" {
		return nil
	}
	words := queryWords(queryLower)

	var results []Result
	for _, rec := range st.All() {
		contentLower := strings.ToLower(rec.Content)
		score := scoreFile(rec, contentLower, queryLower, words)
		if score < opts.MinScore {
			continue
		}

		snippet, line, kind := extractSnippet(rec.Content, queryLower, opts.ContextLines)
		results = append(results, Result{
			Path:    rec.Path,
			Score:   score,
			Snippet: snippet,
			Line:    line,
			Kind:    kind,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > opts.MaxResults {
		results = results[:opts.MaxResults]
	}
	return results
}

// queryWords splits a lowercased query on whitespace, keeping words longer
// than two characters.
func queryWords(queryLower string) []string {
	var words []string
	for _, w := range strings.Fields(queryLower) {
		if len(w) >= minWordLength {
			words = append(words, w)
		}
	}
	return words
}

// scoreFile accumulates the per-file score:
//
//	+0.5               full query occurs verbatim in the content
//	+0.2 per word      word occurs in the content
//	+0.3 per word      word occurs in the path
//	+0.3 × min(f,5)/5  word is in the keyword histogram with frequency f
//
// The sum is clamped to [0,1].
func scoreFile(rec *store.FileRecord, contentLower string, queryLower string, words []string) float64 {
	var score float64

	if strings.Contains(contentLower, queryLower) {
		score += 0.5
	}

	pathLower := strings.ToLower(rec.Path)
	for _, word := range words {
		if strings.Contains(contentLower, word) {
			score += 0.2
		}
		if strings.Contains(pathLower, word) {
			score += 0.3
		}
		if freq, ok := rec.Keywords[word]; ok {
			capped := freq
			if capped > keywordFrequencyCap {
				capped = keywordFrequencyCap
			}
			score += 0.3 * float64(capped) / float64(keywordFrequencyCap)
		}
	}

	if score > 1 {
		score = 1
	}
	return score
}

// extractSnippet finds the first line containing the query (case-insensitive)
// and returns it with context lines on each side plus its 1-based number.
// When no line contains the query, it falls back to the first five lines at
// line 1.
func extractSnippet(content string, queryLower string, contextLines int) (string, int, MatchKind) {
	lines := strings.Split(content, "\n")

	for i, line := range lines {
		if !strings.Contains(strings.ToLower(line), queryLower) {
			continue
		}
		start := i - contextLines
		if start < 0 {
			start = 0
		}
		end := i + contextLines + 1
		if end > len(lines) {
			end = len(lines)
		}
		return strings.Join(lines[start:end], "\n"), i + 1, KindContent
	}

	end := 5
	if end > len(lines) {
		end = len(lines)
	}
	return strings.Join(lines[:end], "\n"), 1, KindKeyword
}
