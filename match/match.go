package match

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// PatternSet evaluates project-relative paths against include and exclude
// glob lists. A path is a candidate when it matches at least one include
// pattern and no exclude pattern. The set is immutable once compiled; config
// changes require a new session.
type PatternSet struct {
	includes []matcher
	excludes []matcher
}

// matcher is one compiled pattern.
type matcher struct {
	pattern string
	match   func(relPath string) bool
}

// extensionPattern recognizes patterns of the exact shape "**/*.<ext>".
// These get suffix matching on the final path segment only, so "**/*.log"
// cannot match a file inside a directory named "access.log".
var extensionPattern = regexp.MustCompile(`^\*\*/\*\.([A-Za-z0-9_.-]+)$`)

// Compile validates and compiles the include and exclude glob lists.
// Malformed patterns are fatal for the session.
func Compile(includes []string, excludes []string) (*PatternSet, error) {
	set := &PatternSet{}
	for _, p := range includes {
		m, err := compilePattern(p)
		if err != nil {
			return nil, fmt.Errorf("include pattern %q: %w", p, err)
		}
		set.includes = append(set.includes, m)
	}
	for _, p := range excludes {
		m, err := compilePattern(p)
		if err != nil {
			return nil, fmt.Errorf("exclude pattern %q: %w", p, err)
		}
		set.excludes = append(set.excludes, m)
	}
	return set, nil
}

// Matches reports whether a project-relative path (forward slashes) is an
// index candidate under this pattern set.
func (s *PatternSet) Matches(relPath string) bool {
	relPath = strings.ReplaceAll(relPath, "\\", "/")

	included := false
	for _, m := range s.includes {
		if m.match(relPath) {
			included = true
			break
		}
	}
	if !included {
		return false
	}

	for _, m := range s.excludes {
		if m.match(relPath) {
			return false
		}
	}
	return true
}

// compilePattern builds a matcher for one glob pattern.
func compilePattern(pattern string) (matcher, error) {
	pattern = strings.ReplaceAll(pattern, "\\", "/")

	if !doublestar.ValidatePattern(pattern) {
		return matcher{}, fmt.Errorf("invalid glob syntax")
	}

	// Extension patterns check the suffix of the final segment only.
	if sub := extensionPattern.FindStringSubmatch(pattern); sub != nil {
		suffix := "." + strings.ToLower(sub[1])
		return matcher{pattern: pattern, match: func(relPath string) bool {
			base := relPath
			if idx := strings.LastIndex(relPath, "/"); idx >= 0 {
				base = relPath[idx+1:]
			}
			return strings.HasSuffix(strings.ToLower(base), suffix)
		}}, nil
	}

	re, err := compileGlobRegexp(pattern)
	if err != nil {
		return matcher{}, err
	}
	return matcher{pattern: pattern, match: re.MatchString}, nil
}

// compileGlobRegexp translates a glob into an anchored regular expression:
// "**" matches any sequence, "*" any sequence without a separator, "?" one
// character; everything else is literal.
func compileGlobRegexp(pattern string) (*regexp.Regexp, error) {
	var b strings.Builder
	b.WriteString("^")
	for i := 0; i < len(pattern); {
		switch {
		case strings.HasPrefix(pattern[i:], "**"):
			b.WriteString(".*")
			i += 2
		case pattern[i] == '*':
			b.WriteString("[^/]*")
			i++
		case pattern[i] == '?':
			b.WriteString(".")
			i++
		default:
			b.WriteString(regexp.QuoteMeta(string(pattern[i])))
			i++
		}
	}
	b.WriteString("$")

	re, err := regexp.Compile(b.String())
	if err != nil {
		return nil, fmt.Errorf("compiling glob: %w", err)
	}
	return re, nil
}
