// cmd/archimind/index.go
package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/archimind/archimind/internal/collect"
	"github.com/archimind/archimind/internal/index"
	"github.com/spf13/cobra"
)

var indexCmd = &cobra.Command{
	Use:   "index [repo-path]",
	Short: "Index a repository directory",
	Args:  cobra.ExactArgs(1),
	RunE:  runIndex,
}

var (
	indexCollection string
	indexRepoURL    string
	indexBranch     string
	indexInclude    []string
	indexExclude    []string
)

func init() {
	indexCmd.Flags().StringVar(&indexCollection, "collection", "", "collection name (default: repo directory name)")
	indexCmd.Flags().StringVar(&indexRepoURL, "repo-url", "", "repository web URL for source links")
	indexCmd.Flags().StringVar(&indexBranch, "branch", "main", "branch used in source links")
	indexCmd.Flags().StringSliceVar(&indexInclude, "include", nil, "include glob patterns")
	indexCmd.Flags().StringSliceVar(&indexExclude, "exclude", nil, "exclude glob patterns")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	absPath, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("invalid path: %w", err)
	}

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	collection := indexCollection
	if collection == "" {
		collection = filepath.Base(absPath)
	}

	collector := collect.New(collect.Options{
		Include: indexInclude,
		Exclude: indexExclude,
	})
	files, err := collector.Files(absPath)
	if err != nil {
		return fmt.Errorf("failed to collect files: %w", err)
	}

	ctx := context.Background()
	summaries, chunks, err := openStores(ctx, cfg, collection)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}

	m := openMetrics(cfg)
	if m != nil {
		defer m.Close()
	}

	idx := index.New(summaries, chunks, index.Options{
		Collection: collection,
		RepoURL:    indexRepoURL,
		Branch:     indexBranch,
		Embedder:   newEmbedder(cfg),
		Metrics:    m,
	})

	fmt.Printf("Indexing %s into collection %q...\n", absPath, collection)

	result, err := idx.BuildIndex(ctx, files)
	if err != nil {
		return fmt.Errorf("indexing failed: %w", err)
	}

	// Any cached contexts for this collection are now stale.
	if c := openCache(cfg); c != nil {
		if _, err := c.IncrIndexVersion(ctx, collection); err != nil {
			fmt.Printf("warning: cache invalidation failed: %v\n", err)
		}
		c.Close()
	}

	fmt.Printf("\nIndexing complete:\n")
	fmt.Printf("  Files processed: %d\n", result.FilesProcessed)
	fmt.Printf("  Summaries:       %d\n", result.SummariesCreated)
	fmt.Printf("  Chunks created:  %d\n", result.ChunksCreated)

	if len(result.Errors) > 0 {
		fmt.Printf("  Errors: %d\n", len(result.Errors))
		for _, e := range result.Errors {
			fmt.Printf("    - %v\n", e)
		}
	}

	return nil
}
