package engine

import (
	"time"

	"github.com/rs/zerolog"
)

// Defaults applied when corresponding Config fields are unset.
const (
	defaultChunkSize     = 200
	defaultChunkOverlap  = 40
	defaultTopK          = 5
	defaultMaxConcurrent = 4
	defaultMaxQueueDepth = 32
	defaultMaxWait       = 30 * time.Second
)

// Config encapsulates all tunables for Engine construction.
type Config struct {
	// ConfigName is reported in Status; informational only.
	ConfigName string
	ChunkSize  int
	// ChunkOverlap must be below ChunkSize. Zero selects the default, which
	// drops to no overlap when ChunkSize is too small for it.
	ChunkOverlap  int
	TopK          int
	MaxConcurrent int
	MaxQueueDepth int
	MaxWait       time.Duration
	// PromptTemplate is a text/template rendered with .Query and .Sources.
	// Empty selects DefaultPromptTemplate.
	PromptTemplate string
	// Generator produces answers for RAG. Nil selects the extractive generator.
	Generator Generator
	// Publisher receives lifecycle events. Nil drops them.
	Publisher EventPublisher
	Logger    *zerolog.Logger
}

func (c *Config) applyDefaults() {
	if c.ChunkSize <= 0 {
		c.ChunkSize = defaultChunkSize
	}
	if c.ChunkOverlap <= 0 || c.ChunkOverlap >= c.ChunkSize {
		c.ChunkOverlap = 0
		if defaultChunkOverlap < c.ChunkSize {
			c.ChunkOverlap = defaultChunkOverlap
		}
	}
	if c.TopK <= 0 {
		c.TopK = defaultTopK
	}
	if c.MaxConcurrent <= 0 {
		c.MaxConcurrent = defaultMaxConcurrent
	}
	if c.MaxQueueDepth <= 0 {
		c.MaxQueueDepth = defaultMaxQueueDepth
	}
	if c.MaxQueueDepth < c.MaxConcurrent {
		c.MaxQueueDepth = c.MaxConcurrent
	}
	if c.MaxWait <= 0 {
		c.MaxWait = defaultMaxWait
	}
	if c.PromptTemplate == "" {
		c.PromptTemplate = DefaultPromptTemplate
	}
	if c.Generator == nil {
		c.Generator = NewExtractiveGenerator()
	}
	if c.Publisher == nil {
		c.Publisher = noopPublisher{}
	}
	if c.Logger == nil {
		l := zerolog.Nop()
		c.Logger = &l
	}
}
