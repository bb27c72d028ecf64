// cmd/archimind/status.go
package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show index status for a collection",
	RunE:  runStatus,
}

var statusCollection string

func init() {
	statusCmd.Flags().StringVar(&statusCollection, "collection", "", "collection name (default: current directory name)")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	collection := statusCollection
	if collection == "" {
		collection = defaultCollection()
	}

	ctx := context.Background()
	summaries, chunks, err := openStores(ctx, cfg, collection)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}

	summaryCount, err := summaries.Count(ctx)
	if err != nil {
		return fmt.Errorf("summary tier: %w", err)
	}
	chunkCount, err := chunks.Count(ctx)
	if err != nil {
		return fmt.Errorf("chunk tier: %w", err)
	}

	fmt.Printf("Collection: %s\n", collection)
	fmt.Printf("  Summaries (files): %d\n", summaryCount)
	fmt.Printf("  Chunks:            %d\n", chunkCount)

	return nil
}
