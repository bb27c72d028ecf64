package chunk

import (
	"strings"

	"github.com/archimind/archimind/internal/parser"
)

// astStrategy chunks a file by its top-level definitions: one chunk per
// function or class, spanning declaration through last statement. It yields
// nothing for languages without a grammar or for files with zero top-level
// definitions, letting the extractor fall through.
type astStrategy struct{}

func (s *astStrategy) Tag() string { return "ast" }

func (s *astStrategy) Split(filePath, content string) ([]Piece, error) {
	lang, ok := parser.DetectLanguage(filePath)
	if !ok {
		return nil, nil
	}

	p, err := parser.NewParser(lang)
	if err != nil {
		return nil, err
	}

	defs, err := p.TopLevel([]byte(content))
	if err != nil {
		return nil, err
	}

	lines := strings.Split(content, "\n")

	pieces := make([]Piece, 0, len(defs))
	for _, d := range defs {
		if d.StartLine < 1 || d.EndLine > len(lines) || d.StartLine > d.EndLine {
			continue
		}
		pieces = append(pieces, Piece{
			Text:         strings.Join(lines[d.StartLine-1:d.EndLine], "\n"),
			FunctionName: d.Name,
			StartLine:    d.StartLine,
			EndLine:      d.EndLine,
		})
	}

	return pieces, nil
}
