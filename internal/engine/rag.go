package engine

import (
	"context"
	"encoding/json"
	"io"
	"strings"
	"time"

	"ragd/pkg/types"
)

// RAG retrieves context for req.Query, generates an answer and streams it
// to w as NDJSON: one {"token":...} line per token, then a final line
// carrying the full content, finish reason, sources and usage.
func (e *Engine) RAG(ctx context.Context, req types.RAGRequest, w io.Writer, flusher func()) error {
	if strings.TrimSpace(req.Query) == "" {
		return ErrInvalidRequest("query is required")
	}
	sreq := req.Search
	sreq.Query = req.Query
	res, err := e.Search(ctx, sreq)
	if err != nil {
		return err
	}
	prompt, err := e.renderPrompt(req.Query, res.Results)
	if err != nil {
		e.recordErr(err)
		return err
	}

	release, err := e.beginGeneration(ctx)
	if err != nil {
		if IsTooBusy(err) {
			generationsTotal.WithLabelValues(e.generator.Name(), "busy").Inc()
		}
		return err
	}
	defer release()

	start := time.Now()
	final, err := e.generate(ctx, req, GenerateInput{Prompt: prompt, Query: req.Query, Sources: res.Results}, w, flusher)
	generationDuration.WithLabelValues(e.generator.Name()).Observe(time.Since(start).Seconds())
	if err != nil {
		generationsTotal.WithLabelValues(e.generator.Name(), "error").Inc()
		if ctx.Err() == nil {
			e.recordErr(err)
		}
		return err
	}
	generationsTotal.WithLabelValues(e.generator.Name(), "ok").Inc()

	end := types.RAGFinal{
		Done:         true,
		Content:      final.Content,
		FinishReason: final.FinishReason,
		Sources:      res.Results,
		Usage:        final.Usage,
	}
	jb, err := json.Marshal(end)
	if err != nil {
		return err
	}
	if _, err := w.Write(append(jb, '\n')); err != nil {
		return err
	}
	if flusher != nil {
		flusher()
	}
	e.publisher.Publish(Event{Name: EventRAGCompleted, Fields: map[string]any{
		"sources":       len(res.Results),
		"finish_reason": final.FinishReason,
		"duration":      time.Since(start),
	}})
	return nil
}

func (e *Engine) generate(ctx context.Context, req types.RAGRequest, in GenerateInput, w io.Writer, flusher func()) (FinalResult, error) {
	sess, err := e.generator.Start(GenerateParams{
		Temperature: float32(req.Temperature),
		TopP:        float32(req.TopP),
		MaxTokens:   req.MaxTokens,
		Stop:        req.Stop,
		Seed:        int(req.Seed),
	})
	if err != nil {
		return FinalResult{}, err
	}
	defer func() { _ = sess.Close() }()

	var b strings.Builder
	onTok := func(tok string) error {
		if _, err := w.Write(tokenLineJSON(tok)); err != nil {
			return err
		}
		b.WriteString(tok)
		if flusher != nil {
			flusher()
		}
		return nil
	}
	final, err := sess.Generate(ctx, in, onTok)
	if err != nil {
		return FinalResult{}, err
	}
	if final.Content == "" {
		final.Content = b.String()
	}
	return final, nil
}

// tokenLineJSON formats a token NDJSON line using json.Marshal for correctness.
func tokenLineJSON(tok string) []byte {
	type tokenMsg struct {
		Token string `json:"token"`
	}
	b, _ := json.Marshal(tokenMsg{Token: tok})
	return append(b, '\n')
}
