package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaultsWhenAbsent(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "auto", cfg.Storage.Backend)
	assert.Equal(t, ".archimind", cfg.Storage.Path)
	assert.Equal(t, "nomic-embed-text", cfg.Embedding.Model)
	assert.Equal(t, 15, cfg.Retrieval.MaxResults)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `storage:
  backend: json
  path: /tmp/index
retrieval:
  max_results: 5
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "json", cfg.Storage.Backend)
	assert.Equal(t, "/tmp/index", cfg.Storage.Path)
	assert.Equal(t, 5, cfg.Retrieval.MaxResults)
	assert.Equal(t, "debug", cfg.Logging.Level)

	// Sections the file omits keep their defaults.
	assert.Equal(t, "nomic-embed-text", cfg.Embedding.Model)
	assert.Equal(t, "deepseek-r1:1.5b", cfg.LLM.Model)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("ARCHIMIND_BACKEND", "qdrant")
	t.Setenv("ARCHIMIND_QDRANT_HOST", "qdrant.internal")
	t.Setenv("OLLAMA_BASE_URL", "http://ollama:11434")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "qdrant", cfg.Storage.Backend)
	assert.Equal(t, "qdrant.internal", cfg.Storage.QdrantHost)
	assert.Equal(t, "http://ollama:11434", cfg.Embedding.BaseURL)
	assert.Equal(t, "http://ollama:11434", cfg.LLM.BaseURL)
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("storage: [not a map"), 0o644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}
