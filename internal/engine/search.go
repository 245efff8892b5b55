package engine

import (
	"context"
	"strings"

	"ragd/pkg/types"
)

// Search ranks chunks against req.Query with BM25.
func (e *Engine) Search(ctx context.Context, req types.SearchRequest) (types.SearchResponse, error) {
	if strings.TrimSpace(req.Query) == "" {
		return types.SearchResponse{}, ErrInvalidRequest("query is required")
	}
	if req.TopK < 0 {
		return types.SearchResponse{}, ErrInvalidRequest("top_k must not be negative")
	}
	if err := ctx.Err(); err != nil {
		return types.SearchResponse{}, err
	}
	searchesTotal.Inc()
	return types.SearchResponse{Results: e.search(req)}, nil
}

func (e *Engine) search(req types.SearchRequest) []types.SearchResult {
	k := req.TopK
	if k == 0 {
		k = e.cfg.TopK
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	var keep func(*chunk) bool
	if len(req.Filters) > 0 {
		keep = func(c *chunk) bool {
			d := e.docs[c.DocID]
			if d == nil {
				return false
			}
			for key, want := range req.Filters {
				if d.Metadata[key] != want {
					return false
				}
			}
			return true
		}
	}
	hits := e.idx.query(tokenize(req.Query), keep)
	out := make([]types.SearchResult, 0, min(k, len(hits)))
	for _, h := range hits {
		if len(out) == k {
			break
		}
		if h.score < req.MinScore {
			break
		}
		var meta map[string]string
		if d := e.docs[h.chunk.DocID]; d != nil {
			meta = copyMeta(d.Metadata)
		}
		out = append(out, types.SearchResult{
			ChunkID:    h.chunk.ID,
			DocumentID: h.chunk.DocID,
			Index:      h.chunk.Index,
			Text:       h.chunk.Text,
			Score:      h.score,
			Metadata:   meta,
		})
	}
	return out
}
