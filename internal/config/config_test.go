package config

import (
	"strings"
	"testing"
)

func TestDefaultsValid(t *testing.T) {
	if err := Defaults().Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"empty addr", func(c *Config) { c.Server.Addr = " " }, "server.addr"},
		{"negative body", func(c *Config) { c.Server.MaxBodyBytes = -1 }, "max_body_bytes"},
		{"negative timeout", func(c *Config) { c.Server.RAGTimeoutSeconds = -1 }, "rag_timeout_seconds"},
		{"unknown generator", func(c *Config) { c.Engine.Generator = "gpt" }, "engine.generator"},
		{"llama without model", func(c *Config) { c.Engine.Generator = GeneratorLlama }, "model_path"},
		{"zero chunk", func(c *Config) { c.Engine.ChunkSize = 0; c.Engine.ChunkOverlap = 0 }, "chunk_size"},
		{"overlap too big", func(c *Config) { c.Engine.ChunkOverlap = c.Engine.ChunkSize }, "chunk_overlap"},
		{"zero top_k", func(c *Config) { c.Engine.TopK = 0 }, "top_k"},
		{"negative concurrency", func(c *Config) { c.Engine.MaxConcurrent = -1 }, "admission"},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Defaults()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("err=%v, want mention of %q", err, tc.want)
			}
		})
	}
}

func TestValidate_ReportsAll(t *testing.T) {
	cfg := Defaults()
	cfg.Server.Addr = ""
	cfg.Engine.TopK = 0
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "server.addr") || !strings.Contains(err.Error(), "top_k") {
		t.Fatalf("expected both errors, got %v", err)
	}
}
