package main

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/archimind/archimind/internal/cache"
	"github.com/archimind/archimind/internal/config"
	"github.com/archimind/archimind/internal/embedding"
	"github.com/archimind/archimind/internal/metrics"
	"github.com/archimind/archimind/internal/store"
)

func getConfigPath() string {
	if cfgPath != "" {
		return cfgPath
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".archimind.yaml"
	}
	return filepath.Join(homeDir, ".config", "archimind", "config.yaml")
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(getConfigPath())
	if err != nil {
		return nil, err
	}
	configureLogging(cfg.Logging.Level)
	return cfg, nil
}

func configureLogging(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
}

// openStores returns the summary- and chunk-tier stores for a collection,
// shared through one registry.
func openStores(ctx context.Context, cfg *config.Config, collection string) (summaries, chunks store.Store, err error) {
	registry := store.NewRegistry(store.Options{
		Backend:    store.Backend(cfg.Storage.Backend),
		Path:       cfg.Storage.Path,
		QdrantHost: cfg.Storage.QdrantHost,
		VectorSize: newEmbedder(cfg).Dimension(),
	}, slog.Default())

	summaries, err = registry.Open(ctx, collection+"_summaries")
	if err != nil {
		return nil, nil, err
	}
	chunks, err = registry.Open(ctx, collection+"_chunks")
	if err != nil {
		return nil, nil, err
	}
	return summaries, chunks, nil
}

func newEmbedder(cfg *config.Config) *embedding.OllamaClient {
	return embedding.NewOllamaClient(cfg.Embedding.BaseURL, cfg.Embedding.Model)
}

// openCache returns the Redis retrieval cache, or nil when unconfigured or
// unreachable.
func openCache(cfg *config.Config) *cache.RedisCache {
	if cfg.Storage.RedisURL == "" {
		return nil
	}
	c, err := cache.NewRedisCache(cfg.Storage.RedisURL)
	if err != nil {
		slog.Warn("Redis cache unavailable, continuing without cache", "error", err)
		return nil
	}
	return c
}

// openMetrics returns the JSONL metrics logger, or nil when it cannot be
// created.
func openMetrics(cfg *config.Config) *metrics.Logger {
	if err := os.MkdirAll(cfg.Storage.Path, 0o755); err != nil {
		return nil
	}
	m, err := metrics.NewLogger(filepath.Join(cfg.Storage.Path, "metrics.jsonl"))
	if err != nil {
		slog.Warn("metrics logger unavailable", "error", err)
		return nil
	}
	return m
}

// defaultCollection names the index after the working directory.
func defaultCollection() string {
	wd, err := os.Getwd()
	if err != nil {
		return "default"
	}
	return filepath.Base(wd)
}
