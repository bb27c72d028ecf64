package chunk

import (
	"regexp"
	"strings"

	"github.com/archimind/archimind/internal/parser"
)

const (
	splitterLines   = 120
	splitterOverlap = 20
	splitterMaxChar = 3200
)

// declPattern matches a declaration name on a chunk's leading lines, for a
// best-effort function_name on splitter chunks.
var declPattern = regexp.MustCompile(`^\s*(?:export\s+)?(?:default\s+)?(?:async\s+)?(?:def|func|function|class|type)\s+(\w+)`)

// splitterStrategy produces overlapping line-bounded chunks for files in a
// recognized language whose AST yielded no top-level definitions. Windows
// are ~120 lines with 20 lines of overlap, capped at 3200 characters. Line
// numbers are tracked from the window offsets directly rather than
// re-derived by substring search.
type splitterStrategy struct {
	lines    int
	overlap  int
	maxChars int
}

func newSplitterStrategy() *splitterStrategy {
	return &splitterStrategy{
		lines:    splitterLines,
		overlap:  splitterOverlap,
		maxChars: splitterMaxChar,
	}
}

func (s *splitterStrategy) Tag() string { return "splitter" }

func (s *splitterStrategy) Split(filePath, content string) ([]Piece, error) {
	if _, ok := parser.DetectLanguage(filePath); !ok {
		return nil, nil
	}

	lines := strings.Split(content, "\n")

	var pieces []Piece
	for start := 0; start < len(lines); {
		end := start + s.lines
		if end > len(lines) {
			end = len(lines)
		}

		kept := s.capChars(lines[start:end])
		text := strings.Join(kept, "\n")
		if strings.TrimSpace(text) != "" {
			pieces = append(pieces, Piece{
				Text:         text,
				FunctionName: leadingDeclName(kept),
				StartLine:    start + 1,
				EndLine:      start + len(kept),
			})
		}

		if start+len(kept) >= len(lines) {
			break
		}

		// Advance relative to what was actually kept, so lines trimmed by
		// the character cap land in the next window instead of vanishing.
		step := len(kept) - s.overlap
		if step < 1 {
			step = 1
		}
		start += step
	}

	return pieces, nil
}

// capChars trims trailing lines until the window fits the character cap,
// always keeping at least one line.
func (s *splitterStrategy) capChars(window []string) []string {
	total := 0
	for i, line := range window {
		total += len(line) + 1
		if total > s.maxChars && i > 0 {
			return window[:i]
		}
	}
	return window
}

func leadingDeclName(lines []string) string {
	limit := 5
	if len(lines) < limit {
		limit = len(lines)
	}
	for _, line := range lines[:limit] {
		if m := declPattern.FindStringSubmatch(line); m != nil {
			return m[1]
		}
	}
	return ""
}
