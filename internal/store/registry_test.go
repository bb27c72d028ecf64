package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryReturnsSharedInstance(t *testing.T) {
	ctx := context.Background()
	reg := NewRegistry(Options{Backend: BackendJSON, Path: t.TempDir()}, nil)

	first, err := reg.Open(ctx, "repo")
	require.NoError(t, err)
	second, err := reg.Open(ctx, "repo")
	require.NoError(t, err)

	assert.Same(t, first, second)
}

func TestRegistrySanitizedNamesShareAnInstance(t *testing.T) {
	ctx := context.Background()
	reg := NewRegistry(Options{Backend: BackendJSON, Path: t.TempDir()}, nil)

	// "my-repo" and "my_repo" sanitize to the same collection, so they must
	// not get divergent handles over the same file.
	first, err := reg.Open(ctx, "my-repo")
	require.NoError(t, err)
	second, err := reg.Open(ctx, "my_repo")
	require.NoError(t, err)

	assert.Same(t, first, second)
}

func TestRegistryDistinctCollections(t *testing.T) {
	ctx := context.Background()
	reg := NewRegistry(Options{Backend: BackendJSON, Path: t.TempDir()}, nil)

	a, err := reg.Open(ctx, "alpha")
	require.NoError(t, err)
	b, err := reg.Open(ctx, "beta")
	require.NoError(t, err)

	assert.NotSame(t, a, b)
}

func TestRegistrySharedViewAcrossOpens(t *testing.T) {
	ctx := context.Background()
	reg := NewRegistry(Options{Backend: BackendJSON, Path: t.TempDir()}, nil)

	writer, err := reg.Open(ctx, "shared")
	require.NoError(t, err)
	require.NoError(t, writer.Add(ctx, []Record{{ID: "1", Document: "hello"}}))

	reader, err := reg.Open(ctx, "shared")
	require.NoError(t, err)

	count, err := reader.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestRegistryUnknownBackend(t *testing.T) {
	ctx := context.Background()
	reg := NewRegistry(Options{Backend: Backend("bogus"), Path: t.TempDir()}, nil)

	_, err := reg.Open(ctx, "repo")
	assert.Error(t, err)
}
