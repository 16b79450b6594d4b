package fingerprint

import (
	"crypto/md5"
	"encoding/hex"
	"sort"
	"strings"
)

// MaxKeywords caps the keyword histogram per file.
const MaxKeywords = 20

// minTokenLength filters out short tokens before counting.
const minTokenLength = 4

// Result holds the content fingerprint of one file: a change-detection hash
// and the keyword histogram used for relevance scoring.
type Result struct {
	Hash     string
	Keywords map[string]int
}

// Compute fingerprints raw text content. The hash is an MD5 digest of the
// full bytes; it detects change, it is not a security boundary.
func Compute(content []byte) Result {
	return Result{
		Hash:     Hash(content),
		Keywords: Keywords(string(content)),
	}
}

// Hash returns the hex MD5 digest of content.
func Hash(content []byte) string {
	sum := md5.Sum(content)
	return hex.EncodeToString(sum[:])
}

// Keywords extracts the top keywords from text: lowercase, strip everything
// outside [a-z0-9 ], split on whitespace, keep tokens longer than three
// characters, drop stop words, count, and keep the MaxKeywords most frequent.
// Ties are broken by first appearance so identical input always yields the
// same histogram.
func Keywords(text string) map[string]int {
	normalized := normalize(text)

	counts := make(map[string]int)
	var firstSeen []string

	for _, token := range strings.Fields(normalized) {
		if len(token) < minTokenLength {
			continue
		}
		if _, stop := stopWords[token]; stop {
			continue
		}
		if _, seen := counts[token]; !seen {
			firstSeen = append(firstSeen, token)
		}
		counts[token]++
	}

	// Sort by descending frequency; the stable sort over first-seen order
	// keeps ties deterministic.
	sort.SliceStable(firstSeen, func(i, j int) bool {
		return counts[firstSeen[i]] > counts[firstSeen[j]]
	})

	if len(firstSeen) > MaxKeywords {
		firstSeen = firstSeen[:MaxKeywords]
	}

	top := make(map[string]int, len(firstSeen))
	for _, token := range firstSeen {
		top[token] = counts[token]
	}
	return top
}

// normalize lowercases text and replaces every character outside [a-z0-9 ]
// with a space.
func normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte(' ')
		}
	}
	return b.String()
}
