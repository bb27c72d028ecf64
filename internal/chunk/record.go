// Package chunk provides types and extraction for indexable code chunks.
package chunk

import (
	"crypto/sha256"
	"fmt"
)

// Record represents one retrievable unit of a source file.
type Record struct {
	// Identity. Deterministically derived from (file path, strategy, index)
	// so re-indexing unchanged content yields identical IDs.
	ID string `json:"id"`

	// Content
	Text string `json:"text"`

	// Metadata
	FilePath     string `json:"file_path"`
	Language     string `json:"language"`
	FunctionName string `json:"function_name"`
	StartLine    int    `json:"start_line"`
	EndLine      int    `json:"end_line"`
	SourceURL    string `json:"source_url"`
}

// RecordID returns the deterministic chunk ID for a file path, extraction
// strategy tag, and chunk index.
func RecordID(filePath, strategy string, index int) string {
	return shortHash(fmt.Sprintf("%s:%s:%d", filePath, strategy, index))
}

// SummaryID returns the deterministic ID for a file's summary record.
func SummaryID(filePath string) string {
	return shortHash("summary:" + filePath)
}

func shortHash(data string) string {
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash[:8])
}
