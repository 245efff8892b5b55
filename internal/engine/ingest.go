package engine

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"ragd/pkg/types"
)

// Ingest chunks and indexes docs. A document whose ID is already stored is
// replaced. Validation happens before anything is stored, so a bad document
// rejects the whole batch.
func (e *Engine) Ingest(ctx context.Context, docs []types.Document) (types.IngestResponse, error) {
	if len(docs) == 0 {
		return types.IngestResponse{}, ErrInvalidRequest("documents are required")
	}
	for i, d := range docs {
		if strings.TrimSpace(d.Text) == "" {
			return types.IngestResponse{}, ErrInvalidRequest(fmt.Sprintf("documents[%d]: text is required", i))
		}
	}
	if err := ctx.Err(); err != nil {
		return types.IngestResponse{}, err
	}

	// Build chunks outside the lock.
	type prepared struct {
		doc    *document
		chunks []*chunk
	}
	now := time.Now()
	batch := make([]prepared, 0, len(docs))
	for _, d := range docs {
		id := strings.TrimSpace(d.ID)
		if id == "" {
			id = uuid.NewString()
		}
		doc := &document{ID: id, Title: d.Title, Metadata: copyMeta(d.Metadata), IngestedAt: now}
		var chunks []*chunk
		for i, text := range splitWords(d.Text, e.cfg.ChunkSize, e.cfg.ChunkOverlap) {
			terms := tokenize(text)
			c := &chunk{
				ID:     uuid.NewString(),
				DocID:  id,
				Index:  i,
				Text:   text,
				Terms:  termFreq(terms),
				Length: len(terms),
			}
			doc.ChunkIDs = append(doc.ChunkIDs, c.ID)
			chunks = append(chunks, c)
		}
		batch = append(batch, prepared{doc: doc, chunks: chunks})
	}

	resp := types.IngestResponse{DocumentIDs: make([]string, 0, len(batch))}
	e.mu.Lock()
	for _, p := range batch {
		e.removeLocked(p.doc.ID)
		e.docs[p.doc.ID] = p.doc
		for _, c := range p.chunks {
			e.idx.add(c)
		}
		resp.DocumentIDs = append(resp.DocumentIDs, p.doc.ID)
		resp.Chunks += len(p.chunks)
	}
	e.mu.Unlock()

	documentsIngestedTotal.Add(float64(len(batch)))
	chunksIndexedTotal.Add(float64(resp.Chunks))
	for _, p := range batch {
		e.publisher.Publish(Event{Name: EventDocumentIngested, DocumentID: p.doc.ID, Fields: map[string]any{"chunks": len(p.chunks)}})
	}
	e.log.Debug().Int("documents", len(batch)).Int("chunks", resp.Chunks).Msg("ingested")
	return resp, nil
}

// Documents lists stored documents ordered by id.
func (e *Engine) Documents() []types.DocumentInfo {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]types.DocumentInfo, 0, len(e.docs))
	for _, d := range e.docs {
		out = append(out, d.info())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Document returns a single stored document.
func (e *Engine) Document(id string) (types.DocumentInfo, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	d, ok := e.docs[id]
	if !ok {
		return types.DocumentInfo{}, ErrDocumentNotFound(id)
	}
	return d.info(), nil
}

// DeleteDocument removes a document and its chunks.
func (e *Engine) DeleteDocument(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	e.mu.Lock()
	ok := e.removeLocked(id)
	e.mu.Unlock()
	if !ok {
		return ErrDocumentNotFound(id)
	}
	e.publisher.Publish(Event{Name: EventDocumentDeleted, DocumentID: id})
	return nil
}

// removeLocked drops a document and its chunks; e.mu must be held.
func (e *Engine) removeLocked(id string) bool {
	d, ok := e.docs[id]
	if !ok {
		return false
	}
	for _, cid := range d.ChunkIDs {
		e.idx.remove(cid)
	}
	delete(e.docs, id)
	return true
}

func (d *document) info() types.DocumentInfo {
	return types.DocumentInfo{
		ID:         d.ID,
		Title:      d.Title,
		Chunks:     len(d.ChunkIDs),
		IngestedAt: d.IngestedAt.Unix(),
		Metadata:   copyMeta(d.Metadata),
	}
}

func copyMeta(m map[string]string) map[string]string {
	if len(m) == 0 {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
