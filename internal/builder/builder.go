// Package builder assembles a matched engine and HTTP server from a
// configuration value or a configuration name.
package builder

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"ragd/internal/common/fsutil"
	"ragd/internal/config"
	"ragd/internal/engine"
	"ragd/internal/httpapi"
	"ragd/internal/registry"
	"ragd/internal/version"
)

// Builder resolves configuration and wires the engine to its server.
type Builder struct {
	cfg       *config.Config
	name      string
	log       zerolog.Logger
	generator engine.Generator
	publisher engine.EventPublisher
	version   string
}

// Option customizes a Builder.
type Option func(*Builder)

// WithLogger sets the logger handed to every component.
func WithLogger(l zerolog.Logger) Option {
	return func(b *Builder) { b.log = l }
}

// WithGenerator bypasses engine.generator and uses g directly.
func WithGenerator(g engine.Generator) Option {
	return func(b *Builder) { b.generator = g }
}

// WithPublisher sets the engine's event publisher.
func WithPublisher(p engine.EventPublisher) Option {
	return func(b *Builder) { b.publisher = p }
}

// WithVersion sets the version reported by GET /version. Defaults to version.Get().
func WithVersion(v string) Option {
	return func(b *Builder) { b.version = v }
}

// New returns a Builder. An explicit cfg wins over name; with neither, the
// "default" configuration is used.
func New(cfg *config.Config, name string, opts ...Option) *Builder {
	b := &Builder{cfg: cfg, name: name, log: zerolog.Nop()}
	for _, o := range opts {
		o(b)
	}
	return b
}

// Built is the matched pair produced by Build.
type Built struct {
	Engine *engine.Engine
	App    *httpapi.Server
	Config config.Config
}

// Config resolves the configuration Build would use.
func (b *Builder) Config() (config.Config, error) {
	if b.cfg != nil {
		cfg := *b.cfg
		if cfg.Name == "" {
			cfg.Name = b.name
		}
		if err := cfg.Validate(); err != nil {
			return cfg, fmt.Errorf("invalid config: %w", err)
		}
		return cfg, nil
	}
	name := b.name
	if name == "" {
		name = config.DefaultName
	}
	return config.LoadNamed(name)
}

// Build resolves the configuration, then creates the generator, the engine
// (seeded from engine.seed_dir when set) and the HTTP server.
func (b *Builder) Build() (*Built, error) {
	cfg, err := b.Config()
	if err != nil {
		return nil, fmt.Errorf("builder: %w", err)
	}
	log := b.log.With().Str("config", cfg.Name).Logger()

	gen, err := b.buildGenerator(cfg.Engine)
	if err != nil {
		return nil, fmt.Errorf("builder: generator: %w", err)
	}
	eng, err := engine.New(engine.Config{
		ConfigName:     cfg.Name,
		ChunkSize:      cfg.Engine.ChunkSize,
		ChunkOverlap:   cfg.Engine.ChunkOverlap,
		TopK:           cfg.Engine.TopK,
		MaxConcurrent:  cfg.Engine.MaxConcurrent,
		MaxQueueDepth:  cfg.Engine.MaxQueueDepth,
		MaxWait:        time.Duration(cfg.Engine.MaxWaitSeconds) * time.Second,
		PromptTemplate: cfg.Engine.PromptTemplate,
		Generator:      gen,
		Publisher:      b.publisher,
		Logger:         &log,
	})
	if err != nil {
		if c, ok := gen.(io.Closer); ok {
			_ = c.Close()
		}
		return nil, fmt.Errorf("builder: %w", err)
	}
	if cfg.Engine.SeedDir != "" {
		if err := seed(eng, cfg.Engine.SeedDir, log); err != nil {
			_ = eng.Close()
			return nil, fmt.Errorf("builder: seed: %w", err)
		}
	}

	ver := b.version
	if ver == "" {
		ver = version.Get()
	}
	srv := httpapi.New(eng, httpapi.Config{
		Addr:            cfg.Server.Addr,
		MaxBodyBytes:    cfg.Server.MaxBodyBytes,
		RAGTimeout:      time.Duration(cfg.Server.RAGTimeoutSeconds) * time.Second,
		ShutdownTimeout: time.Duration(cfg.Server.ShutdownTimeoutSeconds) * time.Second,
		CORS: httpapi.CORSOptions{
			Enabled:        cfg.Server.CORS.Enabled,
			AllowedOrigins: cfg.Server.CORS.AllowedOrigins,
			AllowedMethods: cfg.Server.CORS.AllowedMethods,
			AllowedHeaders: cfg.Server.CORS.AllowedHeaders,
		},
		Version: ver,
		Logger:  &log,
	})
	log.Debug().Str("generator", gen.Name()).Str("addr", cfg.Server.Addr).Msg("instance built")
	return &Built{Engine: eng, App: srv, Config: cfg}, nil
}

func (b *Builder) buildGenerator(ec config.EngineConfig) (engine.Generator, error) {
	if b.generator != nil {
		return b.generator, nil
	}
	switch ec.Generator {
	case config.GeneratorExtractive, "":
		return engine.NewExtractiveGenerator(), nil
	case config.GeneratorLlama:
		path, err := fsutil.ExpandHome(ec.Llama.ModelPath)
		if err != nil {
			return nil, err
		}
		if !fsutil.PathExists(path) {
			return nil, engine.ErrDependencyUnavailable("llama model not found: " + path)
		}
		return engine.NewLlamaGenerator(path, ec.Llama.ContextSize, ec.Llama.Threads)
	default:
		return nil, fmt.Errorf("unsupported generator %q", ec.Generator)
	}
}

func seed(eng *engine.Engine, dir string, log zerolog.Logger) error {
	docs, err := registry.LoadDir(dir)
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		log.Warn().Str("dir", dir).Msg("seed directory has no documents")
		return nil
	}
	resp, err := eng.Ingest(context.Background(), docs)
	if err != nil {
		return err
	}
	log.Info().Str("dir", dir).Int("documents", len(resp.DocumentIDs)).Int("chunks", resp.Chunks).Msg("seeded documents")
	return nil
}
