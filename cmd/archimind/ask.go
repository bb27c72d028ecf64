// cmd/archimind/ask.go
package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/archimind/archimind/internal/llm"
	"github.com/archimind/archimind/internal/retrieve"
	"github.com/spf13/cobra"
)

const chatPrompt = `You are a code intelligence assistant answering questions about a codebase. Use ONLY the retrieved source context below. Reference file paths when relevant. If the context does not contain enough information to answer, say so.

--- CONTEXT ---
%s
---

Question: %s`

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about an indexed repository",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAsk,
}

var (
	askCollection  string
	askResults     int
	askContextOnly bool
)

func init() {
	askCmd.Flags().StringVar(&askCollection, "collection", "", "collection name (default: current directory name)")
	askCmd.Flags().IntVarP(&askResults, "results", "n", 0, "maximum chunks to retrieve")
	askCmd.Flags().BoolVar(&askContextOnly, "context-only", false, "print the retrieved context instead of an answer")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := strings.Join(args, " ")

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	collection := askCollection
	if collection == "" {
		collection = defaultCollection()
	}

	nResults := askResults
	if nResults <= 0 {
		nResults = cfg.Retrieval.MaxResults
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
	queryCache := openCache(cfg)
	if queryCache != nil {
		defer queryCache.Close()
	}

	retriever := retrieve.New(summaries, chunks, retrieve.Options{
		Collection: collection,
		Embedder:   newEmbedder(cfg),
		Cache:      queryCache,
		Metrics:    m,
	})

	contextStr := retriever.Context(ctx, question, nResults)
	if contextStr == "" {
		fmt.Printf("No indexed context available for collection %q. Run 'archimind index' first.\n", collection)
		return nil
	}

	if askContextOnly {
		fmt.Println(contextStr)
		return nil
	}

	completer := llm.NewOllamaClient(cfg.LLM.BaseURL, cfg.LLM.Model)
	answer, err := completer.Complete(ctx, fmt.Sprintf(chatPrompt, contextStr, question))
	if err != nil {
		return fmt.Errorf("completion failed: %w", err)
	}

	fmt.Println(strings.TrimSpace(answer))
	return nil
}
