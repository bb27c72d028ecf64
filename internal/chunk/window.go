package chunk

import "strings"

const windowLines = 80

// lineWindowStrategy is the universal fallback: fixed 80-line windows with
// no overlap. It never fails for non-empty content.
type lineWindowStrategy struct {
	size int
}

func (s *lineWindowStrategy) Tag() string { return "window" }

func (s *lineWindowStrategy) Split(filePath, content string) ([]Piece, error) {
	lines := strings.Split(content, "\n")

	var pieces []Piece
	for start := 0; start < len(lines); start += s.size {
		end := start + s.size
		if end > len(lines) {
			end = len(lines)
		}

		text := strings.Join(lines[start:end], "\n")
		if strings.TrimSpace(text) == "" {
			continue
		}

		pieces = append(pieces, Piece{
			Text:      text,
			StartLine: start + 1,
			EndLine:   end,
		})
	}

	return pieces, nil
}
