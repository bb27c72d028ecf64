// Package retrieve implements two-tier context retrieval: a summary-tier
// shortlist of candidate files, then targeted chunk-tier queries within
// them. Querying every chunk of a large repository directly dilutes
// relevance; narrowing to a handful of likely files first keeps the context
// both relevant and small enough for a bounded prompt.
package retrieve

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/archimind/archimind/internal/cache"
	"github.com/archimind/archimind/internal/embedding"
	"github.com/archimind/archimind/internal/metrics"
	"github.com/archimind/archimind/internal/store"
)

const (
	// summaryShortlist caps how many summaries the first tier considers.
	summaryShortlist = 8
	// maxCandidateFiles caps how many shortlisted files the chunk tier
	// searches within.
	maxCandidateFiles = 5

	cacheTTL = time.Hour
)

// Retriever answers free-text questions with a rendered context string.
type Retriever struct {
	summaries store.Store
	chunks    store.Store

	collection string
	embedder   embedding.Embedder
	cache      *cache.RedisCache
	metrics    *metrics.Logger
	logger     *slog.Logger
}

// Options configures a Retriever beyond its two stores.
type Options struct {
	Collection string
	Embedder   embedding.Embedder // nil means text-only ranking
	Cache      *cache.RedisCache  // nil disables context caching
	Metrics    *metrics.Logger
	Logger     *slog.Logger
}

// New creates a retriever over the given summary and chunk stores.
func New(summaries, chunks store.Store, opts Options) *Retriever {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Retriever{
		summaries:  summaries,
		chunks:     chunks,
		collection: opts.Collection,
		embedder:   opts.Embedder,
		cache:      opts.Cache,
		metrics:    opts.Metrics,
		logger:     logger,
	}
}

// Context retrieves up to nResults chunks relevant to the question and
// renders them into a single context string. Fail-soft: an empty chunk
// store or a backend failure yields the empty string, never an error.
func (r *Retriever) Context(ctx context.Context, question string, nResults int) string {
	start := time.Now()

	if cached, ok := r.cachedContext(ctx, question); ok {
		if r.metrics != nil {
			r.metrics.LogRetrieval(r.collection, question, 0, 0, time.Since(start).Milliseconds(), true)
		}
		return cached
	}

	total, err := r.chunks.Count(ctx)
	if err != nil {
		r.logger.Warn("chunk store unavailable", "error", err)
		return ""
	}
	if total == 0 {
		return ""
	}

	if nResults < 1 {
		nResults = 1
	}

	queryVec := r.embedQuestion(ctx, question)

	candidates := r.selectFiles(ctx, question, queryVec)
	hits := r.collectChunks(ctx, question, queryVec, candidates, nResults, total)
	rendered := renderContext(hits)

	r.storeContext(ctx, question, rendered)
	if r.metrics != nil {
		r.metrics.LogRetrieval(r.collection, question, len(candidates), len(hits), time.Since(start).Milliseconds(), false)
	}

	return rendered
}

// selectFiles queries the summary tier and returns distinct candidate file
// paths in first-seen order.
func (r *Retriever) selectFiles(ctx context.Context, question string, queryVec []float32) []string {
	count, err := r.summaries.Count(ctx)
	if err != nil || count == 0 {
		return nil
	}

	limit := summaryShortlist
	if count < limit {
		limit = count
	}

	results, err := r.summaries.Query(ctx, store.Query{
		Text:      question,
		Embedding: queryVec,
		Limit:     limit,
	})
	if err != nil {
		r.logger.Warn("summary tier query failed", "error", err)
		return nil
	}

	seen := make(map[string]struct{})
	var files []string
	for _, res := range results {
		// A summary with no affinity to the question at all would only
		// dilute the chunk tier; leave such files out of the shortlist.
		if res.Score <= 0 {
			continue
		}
		path := res.Record.Meta.FilePath
		if path == "" {
			continue
		}
		if _, ok := seen[path]; ok {
			continue
		}
		seen[path] = struct{}{}
		files = append(files, path)
	}
	return files
}

// collectChunks queries the chunk tier, either unfiltered (no useful
// candidates) or split evenly across the first candidate files.
func (r *Retriever) collectChunks(ctx context.Context, question string, queryVec []float32, candidates []string, nResults, total int) []store.Result {
	if len(candidates) == 0 {
		limit := nResults
		if total < limit {
			limit = total
		}
		hits, err := r.chunks.Query(ctx, store.Query{
			Text:      question,
			Embedding: queryVec,
			Limit:     limit,
		})
		if err != nil {
			r.logger.Warn("chunk tier query failed", "error", err)
			return nil
		}
		return hits
	}

	if len(candidates) > maxCandidateFiles {
		candidates = candidates[:maxCandidateFiles]
	}
	perFile := (nResults + len(candidates) - 1) / len(candidates)

	var hits []store.Result
	for _, path := range candidates {
		fileHits, err := r.chunks.Query(ctx, store.Query{
			Text:      question,
			Embedding: queryVec,
			Limit:     perFile,
			Where:     map[string]string{"file_path": path},
		})
		if err != nil {
			r.logger.Warn("chunk tier query failed", "file", path, "error", err)
			continue
		}
		hits = append(hits, fileHits...)
	}

	if len(hits) > nResults {
		hits = hits[:nResults]
	}
	return hits
}

// renderContext renders retrieved chunks into the fixed block format handed
// to the generation step.
func renderContext(hits []store.Result) string {
	if len(hits) == 0 {
		return ""
	}

	blocks := make([]string, 0, len(hits))
	for _, hit := range hits {
		meta := hit.Record.Meta
		block := strings.Join([]string{
			fmt.Sprintf("--- File: %s ---", meta.FilePath),
			"language=" + meta.Language,
			"function_name=" + meta.FunctionName,
			"source_url=" + meta.SourceURL,
			"",
			hit.Record.Document,
			"",
		}, "\n")
		blocks = append(blocks, block)
	}

	return strings.Join(blocks, "\n")
}

// embedQuestion returns the question embedding, or nil so ranking degrades
// to token overlap.
func (r *Retriever) embedQuestion(ctx context.Context, question string) []float32 {
	if r.embedder == nil {
		return nil
	}
	vec, err := r.embedder.Embed(ctx, question)
	if err != nil {
		r.logger.Warn("question embedding failed, using text ranking", "error", err)
		return nil
	}
	return vec
}

func (r *Retriever) cachedContext(ctx context.Context, question string) (string, bool) {
	if r.cache == nil {
		return "", false
	}
	version, err := r.cache.GetIndexVersion(ctx, r.collection)
	if err != nil {
		return "", false
	}
	val, err := r.cache.Get(ctx, cache.ContextCacheKey(r.collection, question, version))
	if err != nil || val == "" {
		return "", false
	}
	return val, true
}

func (r *Retriever) storeContext(ctx context.Context, question, rendered string) {
	if r.cache == nil || rendered == "" {
		return
	}
	version, err := r.cache.GetIndexVersion(ctx, r.collection)
	if err != nil {
		return
	}
	key := cache.ContextCacheKey(r.collection, question, version)
	if err := r.cache.Set(ctx, key, rendered, cacheTTL); err != nil {
		r.logger.Warn("context cache write failed", "error", err)
	}
}
