// Package summarize produces cheap per-file descriptors for the summary
// tier. No parsing, no model calls: the point is that indexing stays
// offline-capable.
package summarize

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

const firstLineLimit = 140

var (
	classPattern  = regexp.MustCompile(`(?m)(?:^\s*(?:export\s+)?(?:public\s+|abstract\s+)*class\s+\w+|^\s*type\s+\w+\s+(?:struct|interface)\b)`)
	fnPattern     = regexp.MustCompile(`(?m)^\s*(?:export\s+)?(?:static\s+|public\s+|private\s+|async\s+)*(?:def|func|function)\s+\w+`)
	importPattern = regexp.MustCompile(`(?m)^\s*(?:import\s|from\s+\S+\s+import\s|#include\s|require\s*\()`)
)

// File returns a one-paragraph heuristic descriptor of a file's content.
// Pure function: same inputs always yield the same summary.
func File(filePath, content string) string {
	first := firstCodeLine(content)

	classes := len(classPattern.FindAllString(content, -1))
	fns := len(fnPattern.FindAllString(content, -1))
	imports := len(importPattern.FindAllString(content, -1))

	return fmt.Sprintf(
		"%s appears to define core logic around: %s. It contains approximately %d classes, %d functions, and %d import statements.",
		filePath, first, classes, fns, imports,
	)
}

// firstCodeLine returns the first non-blank, non-comment line, trimmed and
// truncated for use as a headline.
func firstCodeLine(content string) string {
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || isComment(trimmed) {
			continue
		}
		if utf8.RuneCountInString(trimmed) > firstLineLimit {
			runes := []rune(trimmed)
			trimmed = string(runes[:firstLineLimit])
		}
		return trimmed
	}
	return ""
}

func isComment(line string) bool {
	for _, prefix := range []string{"#", "//", "/*", "*", "--", "\"\"\"", "'''"} {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return false
}
