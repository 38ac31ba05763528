package ai

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "http://localhost:11434/v1", cfg.EmbeddingHost)
	assert.Equal(t, "http://localhost:11434/v1", cfg.GeneratorHost)
	assert.Equal(t, "http://localhost:11434/v1", cfg.ExtractorHost)
	assert.Equal(t, "nomic-embed-text", cfg.EmbeddingModel)
	assert.Equal(t, "llama3", cfg.GeneratorModel)
	assert.Equal(t, "llama3.1", cfg.ExtractorModel)
	assert.Equal(t, 16, cfg.BatchSize)
	assert.Equal(t, 200*time.Millisecond, cfg.BatchPause)
	require.NoError(t, cfg.Validate())
}

func TestNewConfig(t *testing.T) {
	cfg := NewConfig(
		WithHost("http://inference:8080"),
		WithEmbeddingModel("text-embedding-3-small"),
		WithGeneratorModel("gpt-4o-mini"),
		WithExtractorModel("qwen2.5:7b"),
		WithBatchSize(32),
		WithBatchPause(0),
	)

	require.NoError(t, cfg.Validate())
	assert.Equal(t, "http://inference:8080/v1", cfg.EmbeddingHost)
	assert.Equal(t, "http://inference:8080/v1", cfg.GeneratorHost)
	assert.Equal(t, "text-embedding-3-small", cfg.EmbeddingModel)
	assert.Equal(t, "gpt-4o-mini", cfg.GeneratorModel)
	assert.Equal(t, "qwen2.5:7b", cfg.ExtractorModel)
	assert.Equal(t, 32, cfg.BatchSize)
	assert.Equal(t, time.Duration(0), cfg.BatchPause)
}

func TestConfigNormalize(t *testing.T) {
	tests := []struct {
		name string
		host string
		want string
	}{
		{"bare host", "http://localhost:11434", "http://localhost:11434/v1"},
		{"trailing slash", "http://localhost:11434/", "http://localhost:11434/v1"},
		{"already normalized", "http://localhost:11434/v1", "http://localhost:11434/v1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig(WithHost(tt.host))
			cfg.Normalize()
			assert.Equal(t, tt.want, cfg.EmbeddingHost)
			assert.Equal(t, tt.want, cfg.GeneratorHost)
			assert.Equal(t, tt.want, cfg.ExtractorHost)
		})
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing embedding host", func(c *Config) { c.EmbeddingHost = "" }},
		{"missing generator host", func(c *Config) { c.GeneratorHost = "" }},
		{"missing embedding model", func(c *Config) { c.EmbeddingModel = "" }},
		{"missing generator model", func(c *Config) { c.GeneratorModel = "" }},
		{"missing extractor host", func(c *Config) { c.ExtractorHost = "" }},
		{"missing extractor model", func(c *Config) { c.ExtractorModel = "" }},
		{"zero batch size", func(c *Config) { c.BatchSize = 0 }},
		{"negative batch pause", func(c *Config) { c.BatchPause = -time.Second }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
