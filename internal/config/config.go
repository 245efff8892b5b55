package config

import (
	"errors"
	"fmt"
	"strings"
)

// Generator backends understood by the builder.
const (
	GeneratorExtractive = "extractive"
	GeneratorLlama      = "llama"
)

// DefaultName is the configuration used when neither a value nor a name is given.
const DefaultName = "default"

// Config holds runtime parameters for a ragd instance.
type Config struct {
	// Name is the symbolic name the config was loaded under. Set by LoadNamed.
	Name   string       `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty"`
	Server ServerConfig `json:"server" yaml:"server" toml:"server"`
	Engine EngineConfig `json:"engine" yaml:"engine" toml:"engine"`
	Log    LogConfig    `json:"log" yaml:"log" toml:"log"`
}

// ServerConfig holds HTTP settings.
type ServerConfig struct {
	Addr                   string     `json:"addr" yaml:"addr" toml:"addr"`
	MaxBodyBytes           int64      `json:"max_body_bytes" yaml:"max_body_bytes" toml:"max_body_bytes"`
	RAGTimeoutSeconds      int64      `json:"rag_timeout_seconds" yaml:"rag_timeout_seconds" toml:"rag_timeout_seconds"`
	ShutdownTimeoutSeconds int        `json:"shutdown_timeout_seconds" yaml:"shutdown_timeout_seconds" toml:"shutdown_timeout_seconds"`
	CORS                   CORSConfig `json:"cors" yaml:"cors" toml:"cors"`
}

// CORSConfig is opt-in; when disabled no CORS middleware is installed.
type CORSConfig struct {
	Enabled        bool     `json:"enabled" yaml:"enabled" toml:"enabled"`
	AllowedOrigins []string `json:"allowed_origins" yaml:"allowed_origins" toml:"allowed_origins"`
	AllowedMethods []string `json:"allowed_methods" yaml:"allowed_methods" toml:"allowed_methods"`
	AllowedHeaders []string `json:"allowed_headers" yaml:"allowed_headers" toml:"allowed_headers"`
}

// EngineConfig holds retrieval and generation settings.
type EngineConfig struct {
	Generator      string      `json:"generator" yaml:"generator" toml:"generator"`
	ChunkSize      int         `json:"chunk_size" yaml:"chunk_size" toml:"chunk_size"`
	ChunkOverlap   int         `json:"chunk_overlap" yaml:"chunk_overlap" toml:"chunk_overlap"`
	TopK           int         `json:"top_k" yaml:"top_k" toml:"top_k"`
	MaxConcurrent  int         `json:"max_concurrent" yaml:"max_concurrent" toml:"max_concurrent"`
	MaxQueueDepth  int         `json:"max_queue_depth" yaml:"max_queue_depth" toml:"max_queue_depth"`
	MaxWaitSeconds int         `json:"max_wait_seconds" yaml:"max_wait_seconds" toml:"max_wait_seconds"`
	PromptTemplate string      `json:"prompt_template,omitempty" yaml:"prompt_template,omitempty" toml:"prompt_template,omitempty"`
	SeedDir        string      `json:"seed_dir,omitempty" yaml:"seed_dir,omitempty" toml:"seed_dir,omitempty"`
	Llama          LlamaConfig `json:"llama" yaml:"llama" toml:"llama"`
}

// LlamaConfig configures the in-process llama.cpp generator.
type LlamaConfig struct {
	ModelPath   string `json:"model_path" yaml:"model_path" toml:"model_path"`
	ContextSize int    `json:"context_size" yaml:"context_size" toml:"context_size"`
	Threads     int    `json:"threads" yaml:"threads" toml:"threads"`
}

// LogConfig selects the log level (debug|info|warn|error).
type LogConfig struct {
	Level string `json:"level" yaml:"level" toml:"level"`
}

// Defaults returns a Config with every field populated.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Addr:                   ":8080",
			MaxBodyBytes:           8 << 20,
			RAGTimeoutSeconds:      120,
			ShutdownTimeoutSeconds: 10,
			CORS: CORSConfig{
				AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
				AllowedHeaders: []string{"Content-Type", "X-Log-Level"},
			},
		},
		Engine: EngineConfig{
			Generator:      GeneratorExtractive,
			ChunkSize:      200,
			ChunkOverlap:   40,
			TopK:           5,
			MaxConcurrent:  4,
			MaxQueueDepth:  32,
			MaxWaitSeconds: 30,
			Llama: LlamaConfig{
				ContextSize: 2048,
				Threads:     4,
			},
		},
		Log: LogConfig{Level: "info"},
	}
}

// Validate reports every invalid field at once.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Server.Addr) == "" {
		errs = append(errs, errors.New("server.addr is required"))
	}
	if c.Server.MaxBodyBytes < 0 {
		errs = append(errs, errors.New("server.max_body_bytes must not be negative"))
	}
	if c.Server.RAGTimeoutSeconds < 0 {
		errs = append(errs, errors.New("server.rag_timeout_seconds must not be negative"))
	}
	switch c.Engine.Generator {
	case GeneratorExtractive:
	case GeneratorLlama:
		if strings.TrimSpace(c.Engine.Llama.ModelPath) == "" {
			errs = append(errs, errors.New("engine.llama.model_path is required for the llama generator"))
		}
	default:
		errs = append(errs, fmt.Errorf("engine.generator: unsupported value %q", c.Engine.Generator))
	}
	if c.Engine.ChunkSize <= 0 {
		errs = append(errs, errors.New("engine.chunk_size must be positive"))
	}
	if c.Engine.ChunkOverlap < 0 || c.Engine.ChunkOverlap >= c.Engine.ChunkSize {
		errs = append(errs, errors.New("engine.chunk_overlap must be in [0, chunk_size)"))
	}
	if c.Engine.MaxConcurrent < 0 || c.Engine.MaxQueueDepth < 0 || c.Engine.MaxWaitSeconds < 0 {
		errs = append(errs, errors.New("engine admission limits must not be negative"))
	}
	if c.Engine.TopK <= 0 {
		errs = append(errs, errors.New("engine.top_k must be positive"))
	}
	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level: unsupported value %q", c.Log.Level))
	}
	return errors.Join(errs...)
}
