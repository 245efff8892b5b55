package engine

import (
	"fmt"
	"io"
	"sync"
	"text/template"
	"time"

	"github.com/rs/zerolog"

	"ragd/pkg/types"
)

// Engine stores documents, answers searches and runs retrieval-augmented
// generation. All methods are safe for concurrent use.
type Engine struct {
	mu      sync.RWMutex
	state   State
	lastErr string
	docs    map[string]*document
	idx     *index

	cfg       Config
	prompt    *template.Template
	generator Generator
	publisher EventPublisher
	log       zerolog.Logger

	// generation admission
	genCh   chan struct{}
	queueCh chan struct{}

	startTime time.Time
}

// New constructs an Engine from cfg, applying defaults to unset fields.
// It fails only when the prompt template does not parse.
func New(cfg Config) (*Engine, error) {
	cfg.applyDefaults()
	tmpl, err := parsePrompt(cfg.PromptTemplate)
	if err != nil {
		return nil, fmt.Errorf("engine: prompt template: %w", err)
	}
	e := &Engine{
		state:     StateReady,
		docs:      make(map[string]*document),
		idx:       newIndex(),
		cfg:       cfg,
		prompt:    tmpl,
		generator: cfg.Generator,
		publisher: cfg.Publisher,
		log:       cfg.Logger.With().Str("component", "engine").Logger(),
		genCh:     make(chan struct{}, cfg.MaxConcurrent),
		queueCh:   make(chan struct{}, cfg.MaxQueueDepth),
		startTime: time.Now(),
	}
	return e, nil
}

// Close releases generator resources such as a loaded model. The engine
// keeps answering searches but reports not ready; RAG calls after Close
// fail in the generator.
func (e *Engine) Close() error {
	e.mu.Lock()
	e.state = StateClosed
	e.mu.Unlock()
	if c, ok := e.generator.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Ready reports whether the engine can serve requests.
func (e *Engine) Ready() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state == StateReady
}

// Status builds a status snapshot for /v1/status.
func (e *Engine) Status() types.StatusResponse {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return types.StatusResponse{
		State:         string(e.state),
		ConfigName:    e.cfg.ConfigName,
		Generator:     e.generator.Name(),
		Documents:     len(e.docs),
		Chunks:        e.idx.len(),
		Inflight:      len(e.genCh),
		QueueLen:      len(e.queueCh),
		MaxQueueDepth: cap(e.queueCh),
		UptimeSeconds: int64(time.Since(e.startTime).Seconds()),
		LastError:     e.lastErr,
	}
}

// recordErr keeps err for Status and marks the engine failed when the
// generator backend is unavailable.
func (e *Engine) recordErr(err error) {
	e.mu.Lock()
	e.lastErr = err.Error()
	if IsDependencyUnavailable(err) && e.state == StateReady {
		e.state = StateError
	}
	e.mu.Unlock()
}
