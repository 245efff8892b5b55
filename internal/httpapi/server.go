package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"ragd/pkg/types"
)

// Service defines the methods required by the HTTP API layer.
type Service interface {
	Ingest(ctx context.Context, docs []types.Document) (types.IngestResponse, error)
	Search(ctx context.Context, req types.SearchRequest) (types.SearchResponse, error)
	RAG(ctx context.Context, req types.RAGRequest, w io.Writer, flush func()) error
	Documents() []types.DocumentInfo
	Document(id string) (types.DocumentInfo, error)
	DeleteDocument(ctx context.Context, id string) error
	Status() types.StatusResponse
	Ready() bool
}

// api holds the per-router state shared by the handlers.
type api struct {
	svc Service
	cfg Config
	log zerolog.Logger
	// base is canceled when the owning server gives up on in-flight work.
	base context.Context
}

// NewMux builds the HTTP router for svc.
func NewMux(svc Service, cfg Config) http.Handler {
	return newAPI(svc, cfg, context.Background()).routes()
}

func newAPI(svc Service, cfg Config, base context.Context) *api {
	cfg.applyDefaults()
	return &api{
		svc:  svc,
		cfg:  cfg,
		log:  cfg.Logger.With().Str("component", "httpapi").Logger(),
		base: base,
	}
}

func (a *api) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(MetricsMiddleware)
	// Basic middlewares: request id, real ip, recoverer
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	// Compression for JSON endpoints; NDJSON streams are left alone
	r.Use(middleware.Compress(5, "application/json"))
	// Security headers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})
	if a.cfg.CORS.Enabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: a.cfg.CORS.AllowedOrigins,
			AllowedMethods: a.cfg.CORS.AllowedMethods,
			AllowedHeaders: a.cfg.CORS.AllowedHeaders,
			MaxAge:         300,
		}))
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if a.svc.Ready() {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ready"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("not ready"))
	})

	r.Get("/version", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, types.VersionResponse{Version: a.cfg.Version})
	})

	// Prometheus metrics endpoint
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/status", a.handleStatus)
		r.Get("/documents", a.handleListDocuments)
		r.Post("/documents", a.handleIngest)
		r.Get("/documents/{id}", a.handleGetDocument)
		r.Delete("/documents/{id}", a.handleDeleteDocument)
		r.Post("/search", a.handleSearch)
		r.Post("/rag", a.handleRAG)
	})

	MountSwagger(r)
	return r
}

// handleStatus godoc
// @Summary      Engine status
// @Tags         status
// @Produce      json
// @Success      200  {object}  types.StatusResponse
// @Router       /v1/status [get]
func (a *api) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.svc.Status())
}

// handleListDocuments godoc
// @Summary      List documents
// @Tags         documents
// @Produce      json
// @Success      200  {object}  types.DocumentsResponse
// @Router       /v1/documents [get]
func (a *api) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	docs := a.svc.Documents()
	if docs == nil {
		docs = []types.DocumentInfo{}
	}
	writeJSON(w, http.StatusOK, types.DocumentsResponse{Documents: docs})
}

// handleIngest godoc
// @Summary      Ingest documents
// @Tags         documents
// @Accept       json
// @Produce      json
// @Param        request  body      types.IngestRequest  true  "Documents"
// @Success      201      {object}  types.IngestResponse
// @Failure      400      {object}  types.ErrorResponse
// @Failure      413      {object}  types.ErrorResponse
// @Failure      415      {object}  types.ErrorResponse
// @Router       /v1/documents [post]
func (a *api) handleIngest(w http.ResponseWriter, r *http.Request) {
	var req types.IngestRequest
	if !a.decode(w, r, &req) {
		return
	}
	start, lvl := time.Now(), requestLogLevel(r)
	resp, err := a.svc.Ingest(r.Context(), req.Documents)
	if err != nil {
		a.fail(w, r, lvl, start, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
	logEnd(a.log, r, lvl, http.StatusCreated, start, nil)
}

// handleGetDocument godoc
// @Summary      Get a document
// @Tags         documents
// @Produce      json
// @Param        id   path      string  true  "Document ID"
// @Success      200  {object}  types.DocumentInfo
// @Failure      404  {object}  types.ErrorResponse
// @Router       /v1/documents/{id} [get]
func (a *api) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	info, err := a.svc.Document(chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, r, requestLogLevel(r), time.Now(), err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

// handleDeleteDocument godoc
// @Summary      Delete a document
// @Tags         documents
// @Param        id   path      string  true  "Document ID"
// @Success      204
// @Failure      404  {object}  types.ErrorResponse
// @Router       /v1/documents/{id} [delete]
func (a *api) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	start, lvl := time.Now(), requestLogLevel(r)
	if err := a.svc.DeleteDocument(r.Context(), chi.URLParam(r, "id")); err != nil {
		a.fail(w, r, lvl, start, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
	logEnd(a.log, r, lvl, http.StatusNoContent, start, nil)
}

// handleSearch godoc
// @Summary      Search chunks
// @Tags         search
// @Accept       json
// @Produce      json
// @Param        request  body      types.SearchRequest  true  "Search request"
// @Success      200      {object}  types.SearchResponse
// @Failure      400      {object}  types.ErrorResponse
// @Router       /v1/search [post]
func (a *api) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req types.SearchRequest
	if !a.decode(w, r, &req) {
		return
	}
	start, lvl := time.Now(), requestLogLevel(r)
	resp, err := a.svc.Search(r.Context(), req)
	if err != nil {
		a.fail(w, r, lvl, start, err)
		return
	}
	if resp.Results == nil {
		resp.Results = []types.SearchResult{}
	}
	writeJSON(w, http.StatusOK, resp)
	logEnd(a.log, r, lvl, http.StatusOK, start, nil)
}

// handleRAG godoc
// @Summary      Retrieval-augmented answer (streaming)
// @Description  Streams NDJSON lines of the form {"token": "..."} followed by a final object with done=true.
// @Tags         rag
// @Accept       json
// @Produce      application/x-ndjson
// @Param        request  body      types.RAGRequest  true  "RAG request"
// @Success      200      {object}  types.RAGFinal
// @Failure      400      {object}  types.ErrorResponse
// @Failure      429      {object}  types.ErrorResponse
// @Failure      503      {object}  types.ErrorResponse
// @Router       /v1/rag [post]
func (a *api) handleRAG(w http.ResponseWriter, r *http.Request) {
	var req types.RAGRequest
	if !a.decode(w, r, &req) {
		return
	}
	// Basic validation
	if strings.TrimSpace(req.Query) == "" {
		writeJSONError(w, http.StatusBadRequest, "query is required")
		return
	}

	w.Header().Set("Content-Type", "application/x-ndjson")
	var flush func()
	if f, ok := w.(http.Flusher); ok {
		flush = f.Flush
	}
	start, lvl := time.Now(), requestLogLevel(r)
	tw := &trackingWriter{w: w}
	writer := io.Writer(tw)
	if lvl >= LevelDebug {
		writer = io.MultiWriter(tw, &loggingLineWriter{log: a.log})
	}
	if lvl >= LevelInfo {
		z := a.log.Info().Str("path", r.URL.Path).Int("top_k", req.Search.TopK)
		if rid := middleware.GetReqID(r.Context()); rid != "" {
			z = z.Str("request_id", rid)
		}
		z.Msg("rag start")
	}

	// Join server base context with request context so shutdown cancels work too.
	ctx, cancel := joinContexts(a.base, r.Context())
	defer cancel()
	if a.cfg.RAGTimeout > 0 {
		var tcancel context.CancelFunc
		ctx, tcancel = context.WithTimeout(ctx, a.cfg.RAGTimeout)
		defer tcancel()
	}

	err := a.svc.RAG(ctx, req, writer, flush)
	if err == nil {
		logEnd(a.log, r, lvl, http.StatusOK, start, nil)
		return
	}
	// If context was canceled (client disconnect), just return.
	if r.Context().Err() != nil || a.base.Err() != nil {
		return
	}
	if tw.n > 0 {
		// the stream has started; report in-band
		status := statusFor(err)
		_ = json.NewEncoder(w).Encode(types.ErrorResponse{Error: err.Error(), Code: status})
		if flush != nil {
			flush()
		}
		logEnd(a.log, r, lvl, status, start, err)
		return
	}
	a.fail(w, r, lvl, start, err)
}

// decode enforces a JSON content type and a bounded body, then decodes into v.
// It writes the error response itself and reports whether decoding succeeded.
func (a *api) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	ct := r.Header.Get("Content-Type")
	if ct == "" || !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return false
	}
	r.Body = http.MaxBytesReader(w, r.Body, a.cfg.MaxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			writeJSONError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("request body exceeds %d bytes", mbe.Limit))
			return false
		}
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

// fail maps err to a status code, writes the JSON error and logs the outcome.
func (a *api) fail(w http.ResponseWriter, r *http.Request, lvl LogLevel, start time.Time, err error) {
	status := statusFor(err)
	if status == http.StatusTooManyRequests {
		IncrementBackpressure("generation_queue")
	}
	writeJSONError(w, status, err.Error())
	logEnd(a.log, r, lvl, status, start, err)
}

// trackingWriter counts bytes so the RAG handler knows whether the
// response has already started.
type trackingWriter struct {
	w io.Writer
	n int64
}

func (t *trackingWriter) Write(p []byte) (int, error) {
	n, err := t.w.Write(p)
	t.n += int64(n)
	return n, err
}
