// cmd/archimind/main.go
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "archimind",
	Short: "Repository indexing and architecture Q&A",
	Long:  `Index a source repository into a two-tier retrieval index and ask questions or generate architecture documentation from it.`,
}

var cfgPath string

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("archimind v0.1.0")
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to config file")
	rootCmd.AddCommand(versionCmd)
}

func main() {
	// Optional .env for Ollama/storage overrides.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
