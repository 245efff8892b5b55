//go:build llama

package engine

import (
	"context"
	"errors"
	"strings"
	"sync"

	llama "github.com/go-skynet/go-llama.cpp"
)

// llamaBuilt indicates this binary was compiled with real llama support.
const llamaBuilt = true

// llamaGenerator owns one loaded model. Predict calls are serialized because
// the token callback is model-wide state.
type llamaGenerator struct {
	mu      sync.Mutex
	model   *llama.LLama
	threads int
}

// NewLlamaGenerator loads the GGUF model at modelPath.
func NewLlamaGenerator(modelPath string, ctxSize, threads int) (Generator, error) {
	if strings.TrimSpace(modelPath) == "" {
		return nil, errors.New("model path is empty")
	}
	m, err := llama.New(modelPath, llama.SetContext(ctxSize))
	if err != nil {
		return nil, ErrDependencyUnavailable("load llama model: " + err.Error())
	}
	return &llamaGenerator{model: m, threads: threads}, nil
}

func (g *llamaGenerator) Name() string { return "llama" }

func (g *llamaGenerator) Start(params GenerateParams) (Session, error) {
	if g.model == nil {
		return nil, errors.New("llama model not initialized")
	}
	return &llamaSession{gen: g, params: params}, nil
}

// Close frees the model.
func (g *llamaGenerator) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.model != nil {
		g.model.Free()
		g.model = nil
	}
	return nil
}

type llamaSession struct {
	gen    *llamaGenerator
	params GenerateParams
}

func (s *llamaSession) Generate(ctx context.Context, in GenerateInput, onToken func(string) error) (FinalResult, error) {
	g := s.gen
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.model == nil {
		return FinalResult{}, errors.New("llama model not initialized")
	}

	completion := 0
	var cbErr error
	// Bridge token streaming to onToken and respect cancellation
	g.model.SetTokenCallback(func(tok string) bool {
		select {
		case <-ctx.Done():
			return false
		default:
		}
		if err := onToken(tok); err != nil {
			cbErr = err
			return false
		}
		completion++
		return true
	})
	defer g.model.SetTokenCallback(nil)

	text, err := g.model.Predict(in.Prompt, predictOptions(s.params, g.threads)...)
	if ctx.Err() != nil {
		return FinalResult{}, ctx.Err()
	}
	if cbErr != nil {
		return FinalResult{}, cbErr
	}
	if err != nil {
		return FinalResult{}, err
	}
	finish := "stop"
	if s.params.MaxTokens > 0 && completion >= s.params.MaxTokens {
		finish = "length"
	}
	return FinalResult{
		Content:      text,
		FinishReason: finish,
		Usage:        usage(len(strings.Fields(in.Prompt)), completion),
	}, nil
}

func (s *llamaSession) Close() error { return nil }

func zn(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}

func zf(v, def float32) float32 {
	if v > 0 {
		return v
	}
	return def
}

// predictOptions converts generation params into go-llama.cpp options.
func predictOptions(params GenerateParams, threads int) []llama.PredictOption {
	po := []llama.PredictOption{
		llama.SetTokens(max(1, zn(params.MaxTokens, 256))),
		llama.SetThreads(max(1, threads)),
		llama.SetTopP(zf(params.TopP, llama.DefaultOptions.TopP)),
		llama.SetTemperature(zf(params.Temperature, llama.DefaultOptions.Temperature)),
	}
	if params.Seed != 0 {
		po = append(po, llama.SetSeed(params.Seed))
	}
	if len(params.Stop) > 0 {
		po = append(po, llama.SetStopWords(params.Stop...))
	}
	return po
}
