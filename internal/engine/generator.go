package engine

import (
	"context"

	"ragd/pkg/types"
)

// Generator abstracts the text-generation backend used by RAG.
// Concrete implementations (extractive, llama.cpp) satisfy this interface.
type Generator interface {
	// Name identifies the backend in status and metrics.
	Name() string
	// Start prepares a session for one generation with the given parameters.
	Start(params GenerateParams) (Session, error)
}

// Session represents a single generation.
type Session interface {
	// Generate streams tokens for in. onToken is invoked for each token.
	// Implementations must return when the context is canceled.
	Generate(ctx context.Context, in GenerateInput, onToken func(string) error) (FinalResult, error)
	// Close releases any resources associated with the session.
	Close() error
}

// GenerateParams captures sampling parameters passed to the generator.
type GenerateParams struct {
	Temperature float32
	TopP        float32
	MaxTokens   int
	Stop        []string
	Seed        int
}

// GenerateInput is what a session answers: the rendered prompt plus the
// raw query and retrieved sources for backends that work on them directly.
type GenerateInput struct {
	Prompt  string
	Query   string
	Sources []types.SearchResult
}

// FinalResult summarizes the generation after streaming.
type FinalResult struct {
	Content      string
	Usage        types.Usage
	FinishReason string
}

// LlamaSupported reports whether this binary was built with -tags=llama.
func LlamaSupported() bool { return llamaBuilt }
