package retrieve

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/archimind/archimind/internal/cache"
	"github.com/archimind/archimind/internal/index"
	"github.com/archimind/archimind/internal/store"
)

func newTestStores(t *testing.T) (store.Store, store.Store) {
	t.Helper()
	dir := t.TempDir()
	summaries, err := store.NewJSONStore(dir, "summaries")
	require.NoError(t, err)
	chunks, err := store.NewJSONStore(dir, "chunks")
	require.NoError(t, err)
	return summaries, chunks
}

func TestContextEmptyStore(t *testing.T) {
	ctx := context.Background()
	summaries, chunks := newTestStores(t)
	r := New(summaries, chunks, Options{Collection: "repo"})

	assert.Equal(t, "", r.Context(ctx, "anything at all", 5))
}

func TestContextEndToEnd(t *testing.T) {
	ctx := context.Background()
	summaries, chunks := newTestStores(t)

	idx := index.New(summaries, chunks, index.Options{
		Collection: "repo",
		RepoURL:    "https://github.com/acme/app",
		Branch:     "main",
	})
	_, err := idx.BuildIndex(ctx, map[string]string{
		"app.py": "def verify_token(token):\n    return token is not None\n",
	})
	require.NoError(t, err)

	r := New(summaries, chunks, Options{Collection: "repo"})
	got := r.Context(ctx, "how does auth work?", 3)

	require.NotEmpty(t, got)
	assert.Contains(t, got, "--- File: app.py ---")
	assert.Contains(t, got, "language=python")
	assert.Contains(t, got, "function_name=verify_token")
	assert.Contains(t, got, "source_url=https://github.com/acme/app/blob/main/app.py#L1-L2")
	assert.Contains(t, got, "def verify_token(token):")
	assert.NotContains(t, got, "file_path=")
}

func TestContextNarrowsToMatchingFile(t *testing.T) {
	ctx := context.Background()
	summaries, chunks := newTestStores(t)

	require.NoError(t, summaries.Add(ctx, []store.Record{
		{ID: "sa", Document: "authentication token verification logic", Meta: store.Meta{FilePath: "auth.py"}},
		{ID: "sb", Document: "database schema migration", Meta: store.Meta{FilePath: "db.py"}},
	}))
	require.NoError(t, chunks.Add(ctx, []store.Record{
		{ID: "a1", Document: "def verify_token(): ...", Meta: store.Meta{FilePath: "auth.py"}},
		{ID: "a2", Document: "def refresh_token(): ...", Meta: store.Meta{FilePath: "auth.py"}},
		{ID: "a3", Document: "def hash_password(): ...", Meta: store.Meta{FilePath: "auth.py"}},
		{ID: "b1", Document: "def migrate(): ...", Meta: store.Meta{FilePath: "db.py"}},
		{ID: "b2", Document: "def rollback(): ...", Meta: store.Meta{FilePath: "db.py"}},
	}))

	r := New(summaries, chunks, Options{Collection: "repo"})
	got := r.Context(ctx, "how does token verification work", 2)

	require.NotEmpty(t, got)
	assert.Contains(t, got, "--- File: auth.py ---")
	assert.NotContains(t, got, "db.py")
	assert.Equal(t, 2, strings.Count(got, "--- File:"))
}

func TestContextFallsBackWhenNoSummaryMatches(t *testing.T) {
	ctx := context.Background()
	summaries, chunks := newTestStores(t)

	require.NoError(t, summaries.Add(ctx, []store.Record{
		{ID: "s", Document: "miscellaneous helpers", Meta: store.Meta{FilePath: "util.py"}},
	}))
	require.NoError(t, chunks.Add(ctx, []store.Record{
		{ID: "c", Document: "def helper(): ...", Meta: store.Meta{FilePath: "util.py"}},
	}))

	r := New(summaries, chunks, Options{Collection: "repo"})
	got := r.Context(ctx, "zzz qqq", 3)

	// No summary overlaps the question; the chunk tier still answers with an
	// unfiltered query instead of returning nothing.
	assert.Contains(t, got, "--- File: util.py ---")
}

func TestContextTruncatesToRequestedCount(t *testing.T) {
	ctx := context.Background()
	summaries, chunks := newTestStores(t)

	records := make([]store.Record, 0, 12)
	for _, id := range []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l"} {
		records = append(records, store.Record{
			ID:       id,
			Document: "shared topic " + id,
			Meta:     store.Meta{FilePath: id + ".py"},
		})
	}
	require.NoError(t, chunks.Add(ctx, records))

	r := New(summaries, chunks, Options{Collection: "repo"})

	got := r.Context(ctx, "shared topic", 4)
	assert.Equal(t, 4, strings.Count(got, "--- File:"))

	// A non-positive count is clamped to one result.
	got = r.Context(ctx, "shared topic", 0)
	assert.Equal(t, 1, strings.Count(got, "--- File:"))
}

func TestContextCacheHit(t *testing.T) {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379"
	}
	redisCache, err := cache.NewRedisCache(redisURL)
	if err != nil {
		t.Skip("Redis not available")
	}
	defer redisCache.Close()

	ctx := context.Background()
	summaries, chunks := newTestStores(t)
	collection := fmt.Sprintf("cache-test-%d", time.Now().UnixNano())

	require.NoError(t, chunks.Add(ctx, []store.Record{
		{ID: "c1", Document: "def original(): ...", Meta: store.Meta{FilePath: "a.py"}},
	}))

	r := New(summaries, chunks, Options{Collection: collection, Cache: redisCache})

	first := r.Context(ctx, "original", 3)
	require.NotEmpty(t, first)

	// A store mutation must not show through a cache hit.
	require.NoError(t, chunks.Add(ctx, []store.Record{
		{ID: "c2", Document: "def original_too(): ...", Meta: store.Meta{FilePath: "b.py"}},
	}))

	second := r.Context(ctx, "original", 3)
	assert.Equal(t, first, second)

	// Bumping the index version invalidates the cached context.
	_, err = redisCache.IncrIndexVersion(ctx, collection)
	require.NoError(t, err)

	third := r.Context(ctx, "original", 3)
	assert.Contains(t, third, "b.py")
}

func TestRenderContextFormat(t *testing.T) {
	hits := []store.Result{
		{Record: store.Record{
			Document: "def f():\n    pass",
			Meta: store.Meta{
				FilePath:     "a.py",
				Language:     "python",
				FunctionName: "f",
				SourceURL:    "https://example.com/a.py#L1-L2",
			},
		}},
		{Record: store.Record{
			Document: "body two",
			Meta:     store.Meta{FilePath: "b.py"},
		}},
	}

	got := renderContext(hits)
	want := "--- File: a.py ---\n" +
		"language=python\n" +
		"function_name=f\n" +
		"source_url=https://example.com/a.py#L1-L2\n" +
		"\n" +
		"def f():\n    pass\n" +
		"\n" +
		"--- File: b.py ---\n" +
		"language=\n" +
		"function_name=\n" +
		"source_url=\n" +
		"\n" +
		"body two\n"

	assert.Equal(t, want, got)
	assert.Empty(t, renderContext(nil))
}
