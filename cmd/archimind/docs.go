// cmd/archimind/docs.go
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/archimind/archimind/internal/docs"
	"github.com/archimind/archimind/internal/llm"
	"github.com/archimind/archimind/internal/retrieve"
	"github.com/spf13/cobra"
)

// docsQuestion steers retrieval toward the files a documentation pass needs.
const docsQuestion = "overall architecture, main components, entry points, data flow, storage, and external integrations"

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Generate architecture documentation from an indexed repository",
	RunE:  runDocs,
}

var (
	docsCollection string
	docsOutDir     string
)

func init() {
	docsCmd.Flags().StringVar(&docsCollection, "collection", "", "collection name (default: current directory name)")
	docsCmd.Flags().StringVar(&docsOutDir, "out", "archimind-docs", "output directory")
	rootCmd.AddCommand(docsCmd)
}

func runDocs(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	collection := docsCollection
	if collection == "" {
		collection = defaultCollection()
	}

	ctx := context.Background()
	summaries, chunks, err := openStores(ctx, cfg, collection)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}

	retriever := retrieve.New(summaries, chunks, retrieve.Options{
		Collection: collection,
		Embedder:   newEmbedder(cfg),
	})

	contextStr := retriever.Context(ctx, docsQuestion, cfg.Retrieval.MaxResults)
	if contextStr == "" {
		return fmt.Errorf("no indexed context for collection %q; run 'archimind index' first", collection)
	}

	generator := docs.NewGenerator(llm.NewOllamaClient(cfg.LLM.BaseURL, cfg.LLM.Model))

	fmt.Printf("Generating documentation for %q...\n", collection)
	bundle, err := generator.All(ctx, collection, contextStr)
	if err != nil {
		fmt.Printf("warning: some artifacts failed: %v\n", err)
	}

	if err := os.MkdirAll(docsOutDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	outputs := map[string]string{
		"handbook.md": bundle.Handbook,
		"hld.json":    bundle.HLD,
		"lld.json":    bundle.LLD,
	}
	for name, content := range outputs {
		if content == "" {
			continue
		}
		path := filepath.Join(docsOutDir, name)
		if err := os.WriteFile(path, []byte(content+"\n"), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		fmt.Printf("  wrote %s\n", path)
	}

	return nil
}
