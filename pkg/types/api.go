package types

// Document is an ingestible unit of text.
type Document struct {
	// Optional stable identifier. Generated when empty; re-ingesting an
	// existing ID replaces the previous document.
	// example: handbook-ch1
	ID string `json:"id,omitempty" example:"handbook-ch1"`
	// Human-friendly title.
	// example: Employee Handbook, Chapter 1
	Title string `json:"title,omitempty" example:"Employee Handbook, Chapter 1"`
	// Raw text content. Required.
	// example: Vacation requests must be filed two weeks in advance.
	Text string `json:"text" example:"Vacation requests must be filed two weeks in advance."`
	// Free-form metadata used by search filters.
	Metadata map[string]string `json:"metadata,omitempty"`
}

// IngestRequest is the payload for POST /v1/documents.
type IngestRequest struct {
	// Documents to ingest.
	Documents []Document `json:"documents"`
}

// IngestResponse reports what was stored.
type IngestResponse struct {
	// IDs of the ingested documents, in request order.
	DocumentIDs []string `json:"document_ids"`
	// Number of chunks created across all documents.
	// example: 12
	Chunks int `json:"chunks" example:"12"`
}

// DocumentInfo summarizes a stored document.
type DocumentInfo struct {
	// example: handbook-ch1
	ID string `json:"id" example:"handbook-ch1"`
	// example: Employee Handbook, Chapter 1
	Title string `json:"title,omitempty" example:"Employee Handbook, Chapter 1"`
	// Number of chunks the document was split into.
	// example: 3
	Chunks int `json:"chunks" example:"3"`
	// Ingestion time in unix seconds.
	// example: 1700000000
	IngestedAt int64             `json:"ingested_at_unix" example:"1700000000"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// DocumentsResponse wraps the list returned by GET /v1/documents.
type DocumentsResponse struct {
	Documents []DocumentInfo `json:"documents"`
}

// SearchRequest is the payload for POST /v1/search.
type SearchRequest struct {
	// Query text. Required.
	// example: how early must vacation be requested
	Query string `json:"query" example:"how early must vacation be requested"`
	// Maximum number of results; 0 uses the server default.
	// example: 5
	TopK int `json:"top_k,omitempty" example:"5"`
	// Metadata equality filters; all must match.
	Filters map[string]string `json:"filters,omitempty"`
	// Results scoring below this value are dropped.
	// example: 0.1
	MinScore float64 `json:"min_score,omitempty" example:"0.1"`
}

// SearchResult is one retrieved chunk.
type SearchResult struct {
	// example: 4c1b0a52-2a0e-4c9e-8f40-9b1f3c1d2e7a
	ChunkID string `json:"chunk_id" example:"4c1b0a52-2a0e-4c9e-8f40-9b1f3c1d2e7a"`
	// example: handbook-ch1
	DocumentID string `json:"document_id" example:"handbook-ch1"`
	// Position of the chunk within its document.
	// example: 0
	Index int `json:"index" example:"0"`
	// example: Vacation requests must be filed two weeks in advance.
	Text string `json:"text" example:"Vacation requests must be filed two weeks in advance."`
	// BM25 relevance score.
	// example: 2.31
	Score    float64           `json:"score" example:"2.31"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// SearchResponse is returned by POST /v1/search.
type SearchResponse struct {
	Results []SearchResult `json:"results"`
}

// RAGRequest is the payload for POST /v1/rag.
type RAGRequest struct {
	// Question to answer. Required.
	// example: How early must vacation be requested?
	Query string `json:"query" example:"How early must vacation be requested?"`
	// Retrieval settings; Query is taken from the outer request.
	Search SearchRequest `json:"search,omitempty"`
	// Maximum number of new tokens to generate.
	// example: 256
	MaxTokens int `json:"max_tokens,omitempty" example:"256"`
	// Sampling temperature (higher = more random).
	// example: 0.2
	Temperature float64 `json:"temperature,omitempty" example:"0.2"`
	// Nucleus sampling probability.
	// example: 0.9
	TopP float64 `json:"top_p,omitempty" example:"0.9"`
	// Optional stop sequences.
	Stop []string `json:"stop,omitempty"`
	// Random seed for reproducibility; 0 lets the backend choose.
	// example: 42
	Seed int64 `json:"seed,omitempty" example:"42"`
}

// Usage contains token accounting for a generation.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// RAGFinal is the last NDJSON line of a /v1/rag stream.
type RAGFinal struct {
	Done         bool           `json:"done"`
	Content      string         `json:"content"`
	FinishReason string         `json:"finish_reason,omitempty"`
	Sources      []SearchResult `json:"sources"`
	Usage        Usage          `json:"usage"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: invalid JSON body
	Error string `json:"error" example:"invalid JSON body"`
	// HTTP status code.
	// example: 400
	Code int `json:"code" example:"400"`
}

// StatusResponse is returned by GET /v1/status.
type StatusResponse struct {
	// Overall engine state (ready, error, closed).
	// example: ready
	State string `json:"state" example:"ready"`
	// Name of the configuration the engine was built from.
	// example: default
	ConfigName string `json:"config_name,omitempty" example:"default"`
	// Generator backend in use.
	// example: extractive
	Generator string `json:"generator" example:"extractive"`
	// example: 42
	Documents int `json:"documents" example:"42"`
	// example: 310
	Chunks int `json:"chunks" example:"310"`
	// Generations currently running.
	// example: 1
	Inflight int `json:"inflight" example:"1"`
	// Requests waiting for a generation slot.
	// example: 0
	QueueLen int `json:"queue_len" example:"0"`
	// example: 32
	MaxQueueDepth int `json:"max_queue_depth" example:"32"`
	// Uptime of the engine in seconds.
	// example: 3600
	UptimeSeconds int64 `json:"uptime_seconds" example:"3600"`
	// Last error observed by the engine (if any).
	LastError string `json:"last_error,omitempty"`
}

// VersionResponse is returned by GET /version.
type VersionResponse struct {
	// example: 0.3.1
	Version string `json:"version" example:"0.3.1"`
}
