package engine

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"ragd/pkg/types"
)

func newTestEngine(t *testing.T, cfg Config) *Engine {
	t.Helper()
	e, err := New(cfg)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return e
}

func ingest(t *testing.T, e *Engine, docs ...types.Document) types.IngestResponse {
	t.Helper()
	resp, err := e.Ingest(context.Background(), docs)
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	return resp
}

// parseStream splits NDJSON output into token lines and the final line.
func parseStream(t *testing.T, out []byte) ([]string, types.RAGFinal) {
	t.Helper()
	var toks []string
	var final types.RAGFinal
	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		line := sc.Bytes()
		var probe map[string]any
		if err := json.Unmarshal(line, &probe); err != nil {
			t.Fatalf("bad line %q: %v", line, err)
		}
		if tok, ok := probe["token"].(string); ok {
			toks = append(toks, tok)
			continue
		}
		if err := json.Unmarshal(line, &final); err != nil {
			t.Fatalf("bad final %q: %v", line, err)
		}
	}
	return toks, final
}

// fakeGenerator is a lightweight in-memory generator used for tests.
type fakeGenerator struct {
	startErr error
	genErr   error
	tokens   []string
	final    FinalResult
	block    chan struct{}
	started  chan struct{}
	gotInput GenerateInput
	gotParam GenerateParams
}

func (f *fakeGenerator) Name() string { return "fake" }

func (f *fakeGenerator) Start(params GenerateParams) (Session, error) {
	f.gotParam = params
	if f.startErr != nil {
		return nil, f.startErr
	}
	return &fakeSession{f: f}, nil
}

type fakeSession struct{ f *fakeGenerator }

func (s *fakeSession) Generate(ctx context.Context, in GenerateInput, onToken func(string) error) (FinalResult, error) {
	s.f.gotInput = in
	if s.f.started != nil {
		close(s.f.started)
	}
	if s.f.block != nil {
		select {
		case <-s.f.block:
		case <-ctx.Done():
			return FinalResult{}, ctx.Err()
		}
	}
	for _, tok := range s.f.tokens {
		if err := onToken(tok); err != nil {
			return FinalResult{}, err
		}
	}
	if s.f.genErr != nil {
		return FinalResult{}, s.f.genErr
	}
	return s.f.final, nil
}

func (s *fakeSession) Close() error { return nil }
