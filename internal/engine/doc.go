// Package engine provides ingestion, retrieval and retrieval-augmented
// generation over an in-memory document index. It is structured into small
// files by concern:
//
//   - engine.go: core Engine type, constructor, Ready/Status/Close.
//   - config.go: Config and package defaults; New applies defaults.
//   - types.go: internal state types (State, document, chunk).
//   - errors.go: error types and helpers (IsTooBusy, IsDocumentNotFound, ...).
//   - chunk.go: tokenization and word-window chunking.
//   - index.go: BM25 index over chunks.
//   - ingest.go: Ingest, Documents, Document, DeleteDocument.
//   - search.go: Search.
//   - rag.go: RAG entry point and NDJSON streaming.
//   - prompt.go: prompt template rendering.
//   - admission.go: bounded generation queue.
//   - generator.go: Generator/Session interfaces.
//   - generator_extractive.go: pure-Go extractive generator (default).
//   - generator_llama.go: go-llama.cpp generator, built with `-tags=llama`.
//     A stub that fails fast exists when the tag is not set.
//   - events.go: lifecycle events and publishers.
//   - metrics.go: Prometheus collectors.
//
// External packages should use public methods only (New, Ingest, Search,
// RAG, Documents, Document, DeleteDocument, Status, Ready, Close).
package engine
