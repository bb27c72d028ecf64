package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// JSONStore is the dependency-free fallback backend. The full record set for
// one (directory, collection) pair lives in a single JSON document that is
// rewritten on every mutation. Index sizes are bounded by one repository's
// chunk count, so the whole-document rewrite is a scale ceiling, not a
// bottleneck in practice.
type JSONStore struct {
	path string

	mu      sync.Mutex
	records map[string]Record
}

type jsonDocument struct {
	Records []Record `json:"records"`
}

// NewJSONStore opens (or creates) the JSON-backed collection under dir.
// Failure to create the directory or read an existing document is a
// configuration error and fatal to construction.
func NewJSONStore(dir, collection string) (*JSONStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}

	s := &JSONStore{
		path:    filepath.Join(dir, SanitizeCollection(collection)+".json"),
		records: make(map[string]Record),
	}

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read collection %s: %w", s.path, err)
	}

	var doc jsonDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode collection %s: %w", s.path, err)
	}
	for _, r := range doc.Records {
		s.records[r.ID] = r
	}

	return s, nil
}

// Add upserts records; the last write for a given ID wins.
func (s *JSONStore) Add(ctx context.Context, records []Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range records {
		s.records[r.ID] = r
	}
	return s.persist()
}

// Count returns the number of live records.
func (s *JSONStore) Count(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records), nil
}

// Query ranks the filtered record set and returns at most q.Limit results.
func (s *JSONStore) Query(ctx context.Context, q Query) ([]Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var results []Result
	for _, r := range s.records {
		if q.Where != nil && !r.Meta.Matches(q.Where) {
			continue
		}

		var score float64
		if len(q.Embedding) > 0 {
			score = cosineScore(q.Embedding, r.Embedding)
		} else {
			score = tokenOverlapScore(q.Text, r.Document)
		}
		results = append(results, Result{Record: r, Score: score})
	}

	// Ties broken by ID for deterministic ordering.
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Record.ID < results[j].Record.ID
	})

	limit := clampLimit(q.Limit)
	if limit > len(results) {
		limit = len(results)
	}
	return results[:limit], nil
}

// DeleteWhere removes every record whose metadata key equals value.
func (s *JSONStore) DeleteWhere(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := false
	for id, r := range s.records {
		if got, ok := r.Meta.Value(key); ok && got == value {
			delete(s.records, id)
			removed = true
		}
	}
	if !removed {
		return nil
	}
	return s.persist()
}

// persist rewrites the whole document via a temp file and rename, so a
// crashed write never leaves a truncated collection behind.
func (s *JSONStore) persist() error {
	doc := jsonDocument{Records: make([]Record, 0, len(s.records))}
	for _, r := range s.records {
		doc.Records = append(doc.Records, r)
	}
	sort.Slice(doc.Records, func(i, j int) bool {
		return doc.Records[i].ID < doc.Records[j].ID
	})

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode collection: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write collection: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace collection: %w", err)
	}
	return nil
}
