package engine

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"ragd/pkg/types"
)

// noContextAnswer is produced when retrieval returned nothing.
const noContextAnswer = "I could not find relevant context to answer the question."

// extractiveGenerator answers by quoting the retrieved sentences that share
// the most terms with the query, citing their source numbers. It needs no
// model and is deterministic.
type extractiveGenerator struct {
	maxSentences int
}

// NewExtractiveGenerator returns the default pure-Go generator.
func NewExtractiveGenerator() Generator {
	return &extractiveGenerator{maxSentences: 3}
}

func (g *extractiveGenerator) Name() string { return "extractive" }

func (g *extractiveGenerator) Start(params GenerateParams) (Session, error) {
	return &extractiveSession{params: params, maxSentences: g.maxSentences}, nil
}

type extractiveSession struct {
	params       GenerateParams
	maxSentences int
}

type candidate struct {
	text   string
	source int // 1-based source number
	pos    int
	score  int
}

func (s *extractiveSession) Generate(ctx context.Context, in GenerateInput, onToken func(string) error) (FinalResult, error) {
	answer := s.compose(in)
	words := strings.Fields(answer)

	var b strings.Builder
	finish := "stop"
	n := 0
	for i, w := range words {
		if err := ctx.Err(); err != nil {
			return FinalResult{}, err
		}
		if s.params.MaxTokens > 0 && n >= s.params.MaxTokens {
			finish = "length"
			break
		}
		tok := w
		if i > 0 {
			tok = " " + w
		}
		if hitsStop(b.String()+tok, s.params.Stop) {
			break
		}
		if err := onToken(tok); err != nil {
			return FinalResult{}, err
		}
		b.WriteString(tok)
		n++
	}
	prompt := len(strings.Fields(in.Prompt))
	return FinalResult{
		Content:      b.String(),
		FinishReason: finish,
		Usage:        usage(prompt, n),
	}, nil
}

func (s *extractiveSession) Close() error { return nil }

// compose picks the best sentences and appends [n] citations.
func (s *extractiveSession) compose(in GenerateInput) string {
	if len(in.Sources) == 0 {
		return noContextAnswer
	}
	query := map[string]struct{}{}
	for _, t := range tokenize(in.Query) {
		query[t] = struct{}{}
	}
	var cands []candidate
	for i, src := range in.Sources {
		for j, sent := range splitSentences(src.Text) {
			seen := map[string]struct{}{}
			score := 0
			for _, t := range tokenize(sent) {
				if _, ok := query[t]; !ok {
					continue
				}
				if _, dup := seen[t]; dup {
					continue
				}
				seen[t] = struct{}{}
				score++
			}
			cands = append(cands, candidate{text: sent, source: i + 1, pos: j, score: score})
		}
	}
	sort.SliceStable(cands, func(i, j int) bool { return cands[i].score > cands[j].score })
	var picked []candidate
	for _, c := range cands {
		if c.score == 0 || len(picked) == s.maxSentences {
			break
		}
		picked = append(picked, c)
	}
	if len(picked) == 0 && len(cands) > 0 {
		picked = cands[:1]
	}
	sort.SliceStable(picked, func(i, j int) bool {
		if picked[i].source != picked[j].source {
			return picked[i].source < picked[j].source
		}
		return picked[i].pos < picked[j].pos
	})
	parts := make([]string, 0, len(picked))
	for _, c := range picked {
		parts = append(parts, fmt.Sprintf("%s [%d]", c.text, c.source))
	}
	return strings.Join(parts, " ")
}

// splitSentences cuts text after '.', '!' or '?' followed by whitespace.
func splitSentences(text string) []string {
	var out []string
	var b strings.Builder
	runes := []rune(text)
	for i, r := range runes {
		b.WriteRune(r)
		end := r == '.' || r == '!' || r == '?'
		if end && (i+1 == len(runes) || runes[i+1] == ' ' || runes[i+1] == '\n' || runes[i+1] == '\t') {
			if s := strings.TrimSpace(b.String()); s != "" {
				out = append(out, s)
			}
			b.Reset()
		}
	}
	if s := strings.TrimSpace(b.String()); s != "" {
		out = append(out, s)
	}
	return out
}

func hitsStop(text string, stop []string) bool {
	for _, s := range stop {
		if s != "" && strings.Contains(text, s) {
			return true
		}
	}
	return false
}

func usage(prompt, completion int) types.Usage {
	return types.Usage{PromptTokens: prompt, CompletionTokens: completion, TotalTokens: prompt + completion}
}
