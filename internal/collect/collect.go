package collect

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

const (
	// DefaultMaxFileSize caps individual file reads.
	DefaultMaxFileSize = 200_000
	// DefaultMaxFiles caps how many files one collection run returns.
	DefaultMaxFiles = 500
)

// Options configures a Collector.
type Options struct {
	Include     []string
	Exclude     []string
	MaxFileSize int64
	MaxFiles    int
}

// Collector reads the indexable files of a repository directory and returns
// them as a path-to-content mapping, the shape the indexing pipeline
// consumes.
type Collector struct {
	walker      *Walker
	maxFileSize int64
	maxFiles    int
	logger      *slog.Logger
}

// New creates a collector with the given options.
func New(opts Options) *Collector {
	if opts.MaxFileSize <= 0 {
		opts.MaxFileSize = DefaultMaxFileSize
	}
	if opts.MaxFiles <= 0 {
		opts.MaxFiles = DefaultMaxFiles
	}
	return &Collector{
		walker:      NewWalker(opts.Include, opts.Exclude),
		maxFileSize: opts.MaxFileSize,
		maxFiles:    opts.MaxFiles,
		logger:      slog.Default(),
	}
}

// Files walks root and returns relative path -> content for every allowed
// file. Unreadable files are skipped with a warning, never fatal.
func (c *Collector) Files(root string) (map[string]string, error) {
	if _, err := os.Stat(root); err != nil {
		return nil, fmt.Errorf("repository path: %w", err)
	}

	contents := make(map[string]string)

	err := c.walker.Walk(root, func(path string) error {
		if len(contents) >= c.maxFiles {
			return filepath.SkipAll
		}

		info, err := os.Stat(path)
		if err != nil {
			c.logger.Warn("could not stat file", "path", path, "error", err)
			return nil
		}
		if info.Size() > c.maxFileSize {
			c.logger.Debug("skipping oversized file", "path", path, "size", info.Size())
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			c.logger.Warn("could not read file", "path", path, "error", err)
			return nil
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		contents[filepath.ToSlash(relPath)] = string(data)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}

	c.logger.Info("collected repository files", "root", root, "files", len(contents))
	return contents, nil
}
