// Package store provides the storage backends for chunk and summary records.
package store

import (
	"context"
	"strconv"
	"strings"
)

// Meta carries the retrieval metadata shared by chunk and summary records.
type Meta struct {
	FilePath     string `json:"file_path"`
	Language     string `json:"language"`
	FunctionName string `json:"function_name"`
	StartLine    int    `json:"start_line"`
	EndLine      int    `json:"end_line"`
	SourceURL    string `json:"source_url"`
}

// Value returns the metadata value for a filter key. Unknown keys report
// ok=false, so a filter naming them never matches.
func (m Meta) Value(key string) (string, bool) {
	switch key {
	case "file_path":
		return m.FilePath, true
	case "language":
		return m.Language, true
	case "function_name":
		return m.FunctionName, true
	case "source_url":
		return m.SourceURL, true
	case "start_line":
		return strconv.Itoa(m.StartLine), true
	case "end_line":
		return strconv.Itoa(m.EndLine), true
	}
	return "", false
}

// Matches reports whether every filter entry matches exactly.
func (m Meta) Matches(where map[string]string) bool {
	for key, want := range where {
		got, ok := m.Value(key)
		if !ok || got != want {
			return false
		}
	}
	return true
}

// Record is a stored document with metadata and an optional embedding.
type Record struct {
	ID        string    `json:"id"`
	Document  string    `json:"document"`
	Meta      Meta      `json:"meta"`
	Embedding []float32 `json:"embedding,omitempty"`
}

// Query describes one ranked retrieval against a collection. When Embedding
// is set, records are ranked by cosine similarity; otherwise by token
// overlap against Text. Where is an exact-match metadata predicate applied
// before ranking.
type Query struct {
	Text      string
	Embedding []float32
	Limit     int
	Where     map[string]string
}

// Result is one ranked record.
type Result struct {
	Record Record
	Score  float64
}

// Store is the capability set shared by both backends. Ranking semantics
// must be observably equivalent across implementations: last write wins per
// ID, results ranked descending by relevance and truncated to the limit.
type Store interface {
	Add(ctx context.Context, records []Record) error
	Count(ctx context.Context) (int, error)
	Query(ctx context.Context, q Query) ([]Result, error)
	DeleteWhere(ctx context.Context, key, value string) error
}

// SanitizeCollection makes a collection name filesystem- and backend-safe.
func SanitizeCollection(name string) string {
	return strings.NewReplacer("-", "_", ".", "_", "/", "_").Replace(name)
}

func clampLimit(n int) int {
	if n < 1 {
		return 1
	}
	return n
}
