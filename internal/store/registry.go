package store

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// Backend selects the storage implementation.
type Backend string

const (
	// BackendAuto probes Qdrant and falls back to the JSON store.
	BackendAuto Backend = "auto"
	// BackendJSON forces the JSON-file fallback.
	BackendJSON Backend = "json"
	// BackendQdrant requires a reachable Qdrant instance.
	BackendQdrant Backend = "qdrant"
)

// Options configures how the registry constructs backends.
type Options struct {
	Backend    Backend
	Path       string // directory holding JSON collections
	QdrantHost string
	VectorSize int
}

// Registry hands out store handles keyed by (path, collection). Two opens of
// the same identity key within one process return the same instance, so all
// callers share a consistent view. There is no cross-process locking: one
// indexing job per collection at a time is the caller's responsibility.
type Registry struct {
	opts   Options
	logger *slog.Logger

	mu     sync.Mutex
	stores map[string]Store
}

// NewRegistry creates a registry for the given backend options.
func NewRegistry(opts Options, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Backend == "" {
		opts.Backend = BackendAuto
	}
	return &Registry{
		opts:   opts,
		logger: logger,
		stores: make(map[string]Store),
	}
}

// Open returns the shared store for a collection, constructing it on first
// use.
func (r *Registry) Open(ctx context.Context, collection string) (Store, error) {
	key := r.opts.Path + ":" + SanitizeCollection(collection)

	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.stores[key]; ok {
		return s, nil
	}

	s, err := r.construct(ctx, collection)
	if err != nil {
		return nil, err
	}
	r.stores[key] = s
	return s, nil
}

func (r *Registry) construct(ctx context.Context, collection string) (Store, error) {
	switch r.opts.Backend {
	case BackendQdrant:
		return NewQdrantStore(ctx, r.opts.QdrantHost, collection, r.opts.VectorSize)

	case BackendJSON:
		return NewJSONStore(r.opts.Path, collection)

	case BackendAuto:
		s, err := NewQdrantStore(ctx, r.opts.QdrantHost, collection, r.opts.VectorSize)
		if err == nil {
			return s, nil
		}
		r.logger.Warn("Qdrant unavailable, falling back to JSON store", "error", err)
		return NewJSONStore(r.opts.Path, collection)

	default:
		return nil, fmt.Errorf("unknown storage backend: %s", r.opts.Backend)
	}
}
