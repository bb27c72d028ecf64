package chunk

import (
	"log/slog"
	"strings"
)

// Piece is a span of file text produced by one extraction strategy, before
// it is wrapped into a Record.
type Piece struct {
	Text         string
	FunctionName string
	StartLine    int
	EndLine      int
}

// Strategy splits a file's content into pieces. A strategy fails only by
// yielding zero pieces; the extractor treats returned errors (parse errors
// and the like) as failure too, never propagating them.
type Strategy interface {
	Tag() string
	Split(filePath, content string) ([]Piece, error)
}

// Extractor runs an ordered list of strategies; the first one that yields at
// least one non-empty piece wins.
type Extractor struct {
	strategies []Strategy
	logger     *slog.Logger
}

// NewExtractor creates an extractor with the default strategy chain:
// AST definitions, structural splitter, then the line-window fallback.
func NewExtractor() *Extractor {
	return NewExtractorWith(
		&astStrategy{},
		newSplitterStrategy(),
		&lineWindowStrategy{size: windowLines},
	)
}

// NewExtractorWith creates an extractor with an explicit strategy chain.
func NewExtractorWith(strategies ...Strategy) *Extractor {
	return &Extractor{
		strategies: strategies,
		logger:     slog.Default(),
	}
}

// Extract splits content into ordered chunk records. Deterministic for a
// fixed (filePath, content) pair. Returns nil when every strategy yields
// nothing, which only happens for empty or whitespace-only content.
func (e *Extractor) Extract(filePath, content string) []Record {
	language := InferLanguage(filePath)

	for _, s := range e.strategies {
		pieces, err := s.Split(filePath, content)
		if err != nil {
			e.logger.Debug("chunk strategy failed", "strategy", s.Tag(), "path", filePath, "error", err)
			continue
		}

		records := make([]Record, 0, len(pieces))
		for _, p := range pieces {
			if strings.TrimSpace(p.Text) == "" {
				continue
			}
			records = append(records, Record{
				ID:           RecordID(filePath, s.Tag(), len(records)),
				Text:         p.Text,
				FilePath:     filePath,
				Language:     language,
				FunctionName: p.FunctionName,
				StartLine:    p.StartLine,
				EndLine:      p.EndLine,
			})
		}

		if len(records) > 0 {
			return records
		}
	}

	return nil
}
