package engine

import (
	"math"
	"sort"
)

// BM25 parameters.
const (
	bm25K1 = 1.2
	bm25B  = 0.75
)

// index is a BM25 index over chunks. Not safe for concurrent use; the
// Engine guards it.
type index struct {
	chunks   map[string]*chunk
	df       map[string]int
	totalLen int
}

func newIndex() *index {
	return &index{chunks: make(map[string]*chunk), df: make(map[string]int)}
}

func (ix *index) add(c *chunk) {
	ix.chunks[c.ID] = c
	ix.totalLen += c.Length
	for t := range c.Terms {
		ix.df[t]++
	}
}

func (ix *index) remove(id string) {
	c, ok := ix.chunks[id]
	if !ok {
		return
	}
	delete(ix.chunks, id)
	ix.totalLen -= c.Length
	for t := range c.Terms {
		if ix.df[t] <= 1 {
			delete(ix.df, t)
		} else {
			ix.df[t]--
		}
	}
}

func (ix *index) len() int { return len(ix.chunks) }

type scored struct {
	chunk *chunk
	score float64
}

// query scores every chunk accepted by keep against terms and returns
// positive scores ordered by score desc, then document id, then chunk index.
func (ix *index) query(terms []string, keep func(*chunk) bool) []scored {
	n := len(ix.chunks)
	if n == 0 || len(terms) == 0 {
		return nil
	}
	avg := float64(ix.totalLen) / float64(n)
	if avg == 0 {
		avg = 1
	}
	qtf := termFreq(terms)
	var out []scored
	for _, c := range ix.chunks {
		if keep != nil && !keep(c) {
			continue
		}
		var s float64
		for t, qn := range qtf {
			f := float64(c.Terms[t])
			if f == 0 {
				continue
			}
			df := float64(ix.df[t])
			idf := math.Log(1 + (float64(n)-df+0.5)/(df+0.5))
			norm := f * (bm25K1 + 1) / (f + bm25K1*(1-bm25B+bm25B*float64(c.Length)/avg))
			s += idf * norm * float64(qn)
		}
		if s > 0 {
			out = append(out, scored{chunk: c, score: s})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].score != out[j].score {
			return out[i].score > out[j].score
		}
		if out[i].chunk.DocID != out[j].chunk.DocID {
			return out[i].chunk.DocID < out[j].chunk.DocID
		}
		return out[i].chunk.Index < out[j].chunk.Index
	})
	return out
}
