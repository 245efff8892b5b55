//go:build !llama

package engine

// This file provides a no-CGO stub for the llama generator. It is compiled when
// the 'llama' build tag is NOT set, keeping default builds and CI CGO-free.
// The real generator lives in generator_llama.go (tagged 'llama').

// llamaBuilt indicates this binary was compiled with real llama support.
const llamaBuilt = false

// NewLlamaGenerator fails fast: llama runtime not available in this build.
func NewLlamaGenerator(modelPath string, ctxSize, threads int) (Generator, error) {
	return nil, ErrDependencyUnavailable("llama support not built (missing 'llama' build tag)")
}
