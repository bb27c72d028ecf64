// Package config loads tool configuration from YAML with environment
// overrides.
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds global configuration
type Config struct {
	Storage   StorageConfig   `yaml:"storage"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	LLM       LLMConfig       `yaml:"llm"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
	Logging   LoggingConfig   `yaml:"logging"`
}

type StorageConfig struct {
	Backend    string `yaml:"backend"` // auto|json|qdrant
	Path       string `yaml:"path"`    // directory for JSON collections
	QdrantHost string `yaml:"qdrant_host"`
	RedisURL   string `yaml:"redis_url"` // empty disables the retrieval cache
}

type EmbeddingConfig struct {
	Provider string `yaml:"provider"` // "ollama"
	Model    string `yaml:"model"`
	BaseURL  string `yaml:"base_url"`
}

type LLMConfig struct {
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url"`
}

type RetrievalConfig struct {
	MaxResults int `yaml:"max_results"`
}

type LoggingConfig struct {
	Level string `yaml:"level"` // error|warn|info|debug
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			Backend:    "auto",
			Path:       ".archimind",
			QdrantHost: "localhost",
		},
		Embedding: EmbeddingConfig{
			Provider: "ollama",
			Model:    "nomic-embed-text",
			BaseURL:  "http://localhost:11434",
		},
		LLM: LLMConfig{
			Model:   "deepseek-r1:1.5b",
			BaseURL: "http://localhost:11434",
		},
		Retrieval: RetrievalConfig{
			MaxResults: 15,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadConfig loads config from file (defaults when absent), then applies
// environment overrides.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	override(&c.Storage.Backend, "ARCHIMIND_BACKEND")
	override(&c.Storage.Path, "ARCHIMIND_STORE_PATH")
	override(&c.Storage.QdrantHost, "ARCHIMIND_QDRANT_HOST")
	override(&c.Storage.RedisURL, "ARCHIMIND_REDIS_URL")
	override(&c.Embedding.BaseURL, "OLLAMA_BASE_URL")
	override(&c.Embedding.Model, "OLLAMA_EMBEDDING_MODEL")
	override(&c.LLM.BaseURL, "OLLAMA_BASE_URL")
	override(&c.LLM.Model, "OLLAMA_LLM_MODEL")
}

func override(target *string, key string) {
	if v := os.Getenv(key); v != "" {
		*target = v
	}
}
