// Package index drives the chunk extractor, summarizer, and storage backend
// over a file set to build the two-tier retrieval index.
package index

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/archimind/archimind/internal/chunk"
	"github.com/archimind/archimind/internal/embedding"
	"github.com/archimind/archimind/internal/metrics"
	"github.com/archimind/archimind/internal/store"
	"github.com/archimind/archimind/internal/summarize"
)

// Indexer populates the summary and chunk tiers from a file mapping.
type Indexer struct {
	summaries store.Store
	chunks    store.Store
	extractor *chunk.Extractor

	collection string
	repoURL    string
	branch     string

	embedder embedding.Embedder
	metrics  *metrics.Logger
	logger   *slog.Logger
}

// Options configures an Indexer beyond its two stores.
type Options struct {
	Collection string
	RepoURL    string // optional web URL for source_url links
	Branch     string
	Embedder   embedding.Embedder // nil disables embeddings
	Metrics    *metrics.Logger    // nil disables event logging
	Logger     *slog.Logger
}

// New creates an indexer writing to the given summary and chunk stores.
func New(summaries, chunks store.Store, opts Options) *Indexer {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Indexer{
		summaries:  summaries,
		chunks:     chunks,
		extractor:  chunk.NewExtractor(),
		collection: opts.Collection,
		repoURL:    opts.RepoURL,
		branch:     opts.Branch,
		embedder:   opts.Embedder,
		metrics:    opts.Metrics,
		logger:     logger,
	}
}

// Result contains statistics from an indexing run.
type Result struct {
	FilesProcessed   int
	SummariesCreated int
	ChunksCreated    int
	Errors           []error
}

// BuildIndex indexes every non-empty file. Idempotent: re-running with the
// same contents reproduces the same stored state. Prior chunk records for a
// file are pruned before its new chunks are added, so a shrunk file leaves
// no orphans behind. Errors are collected per file; the run always covers
// every file it can.
func (idx *Indexer) BuildIndex(ctx context.Context, files map[string]string) (*Result, error) {
	start := time.Now()
	result := &Result{}

	paths := make([]string, 0, len(files))
	for path := range files {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	for _, path := range paths {
		content := files[path]
		if content == "" {
			idx.logger.Debug("skipping empty file", "path", path)
			continue
		}

		created, err := idx.indexFile(ctx, path, content)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("index %s: %w", path, err))
			if idx.metrics != nil {
				idx.metrics.LogError("index_file", err.Error())
			}
			continue
		}

		result.FilesProcessed++
		result.SummariesCreated++
		result.ChunksCreated += created
		if idx.metrics != nil {
			idx.metrics.LogIndexFile(idx.collection, path, created)
		}
	}

	if idx.metrics != nil {
		idx.metrics.LogIndexComplete(
			idx.collection,
			result.FilesProcessed,
			result.ChunksCreated,
			len(result.Errors),
			time.Since(start).Milliseconds(),
		)
	}

	idx.logger.Info("index build complete",
		"collection", idx.collection,
		"files", result.FilesProcessed,
		"chunks", result.ChunksCreated,
		"errors", len(result.Errors),
	)

	return result, nil
}

// indexFile upserts one file's summary and chunk records, returning the
// chunk count.
func (idx *Indexer) indexFile(ctx context.Context, path, content string) (int, error) {
	summaryText := summarize.File(path, content)
	summaryRec := store.Record{
		ID:       chunk.SummaryID(path),
		Document: summaryText,
		Meta: store.Meta{
			FilePath:  path,
			Language:  chunk.InferLanguage(path),
			SourceURL: idx.sourceURL(path, 0, 0),
		},
		Embedding: idx.embed(ctx, path, summaryText),
	}
	if err := idx.summaries.Add(ctx, []store.Record{summaryRec}); err != nil {
		return 0, fmt.Errorf("store summary: %w", err)
	}

	// Prune before checking the extraction result: a file re-indexed down to
	// whitespace must still shed its old chunk records.
	if err := idx.chunks.DeleteWhere(ctx, "file_path", path); err != nil {
		return 0, fmt.Errorf("prune chunks: %w", err)
	}

	records := idx.extractor.Extract(path, content)
	if len(records) == 0 {
		// Whitespace-only content contributes only its summary.
		return 0, nil
	}

	stored := make([]store.Record, len(records))
	for i, r := range records {
		stored[i] = store.Record{
			ID:       r.ID,
			Document: r.Text,
			Meta: store.Meta{
				FilePath:     r.FilePath,
				Language:     r.Language,
				FunctionName: r.FunctionName,
				StartLine:    r.StartLine,
				EndLine:      r.EndLine,
				SourceURL:    idx.sourceURL(path, r.StartLine, r.EndLine),
			},
			Embedding: idx.embed(ctx, path, r.Text),
		}
	}

	if err := idx.chunks.Add(ctx, stored); err != nil {
		return 0, fmt.Errorf("store chunks: %w", err)
	}

	return len(stored), nil
}

// embed returns the text's embedding or nil when no embedder is configured
// or the call fails. One file's embedding failure never aborts the run.
func (idx *Indexer) embed(ctx context.Context, path, text string) []float32 {
	if idx.embedder == nil {
		return nil
	}
	vec, err := idx.embedder.Embed(ctx, text)
	if err != nil {
		idx.logger.Warn("embedding failed, storing without vector", "path", path, "error", err)
		return nil
	}
	return vec
}

func (idx *Indexer) sourceURL(path string, startLine, endLine int) string {
	if idx.repoURL == "" {
		return ""
	}
	branch := idx.branch
	if branch == "" {
		branch = "main"
	}
	url := fmt.Sprintf("%s/blob/%s/%s", strings.TrimSuffix(idx.repoURL, "/"), branch, path)
	if startLine > 0 && endLine > 0 {
		url += fmt.Sprintf("#L%d-L%d", startLine, endLine)
	}
	return url
}
