// Package instance is the composition root of ragd.
//
// An Instance is assembled either from a pre-built Engine and ServingLayer
// or from a configuration (value or name) handed to a BuildFunc. Once built
// it is immutable: App, Serve and UnderlyingApp reach the serving layer and
// every Engine method is forwarded to the engine unchanged.
package instance

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"ragd/internal/builder"
	"ragd/internal/config"
	"ragd/internal/httpapi"
	"ragd/internal/version"
	"ragd/pkg/types"
)

// ErrConstruction is returned when no valid engine/serving-layer pair can
// be produced.
var ErrConstruction = errors.New("instance: construction failed")

// Engine is the capability set forwarded by an Instance.
type Engine interface {
	Ingest(ctx context.Context, docs []types.Document) (types.IngestResponse, error)
	Search(ctx context.Context, req types.SearchRequest) (types.SearchResponse, error)
	RAG(ctx context.Context, req types.RAGRequest, w io.Writer, flush func()) error
	Documents() []types.DocumentInfo
	Document(id string) (types.DocumentInfo, error)
	DeleteDocument(ctx context.Context, id string) error
	Status() types.StatusResponse
	Ready() bool
}

// ServingLayer exposes an Engine over HTTP.
type ServingLayer interface {
	Serve(ctx context.Context) error
	App() http.Handler
}

// BuildFunc turns a configuration value or name into a matched pair.
type BuildFunc func(cfg *config.Config, name string) (Engine, ServingLayer, error)

// Options are the construction inputs. Every field is optional.
type Options struct {
	Engine     Engine
	App        ServingLayer
	Config     *config.Config
	ConfigName string

	// Build replaces the default builder.
	Build BuildFunc
	// VersionSource, when set, is resolved instead of the process-wide version.
	VersionSource version.Source
	Logger        *zerolog.Logger
}

// Instance is the unified handle over an Engine and its ServingLayer.
type Instance struct {
	engine Engine
	app    ServingLayer
}

var (
	_ Engine          = (*Instance)(nil)
	_ httpapi.Service = (*Instance)(nil)
)

// New assembles an Instance. A supplied Engine and App are adopted as is and
// configuration inputs are ignored. Otherwise the pair is built from Config,
// or from ConfigName ("default" when both are empty). A partially supplied
// pair is ignored in favor of a fresh build.
func New(opts Options) (*Instance, error) {
	logger := log.Logger
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	var ver string
	if opts.VersionSource != nil {
		ver = version.Resolve(opts.VersionSource, logger).Value
	} else {
		ver = version.Get()
	}
	logger.Info().Str("version", ver).Msg("starting ragd")

	hasEngine, hasApp := !isNil(opts.Engine), !isNil(opts.App)
	if hasEngine && hasApp {
		return &Instance{engine: opts.Engine, app: opts.App}, nil
	}
	if hasEngine || hasApp {
		ignored := "engine"
		if hasApp {
			ignored = "app"
		}
		logger.Warn().Str("ignored", ignored).Msg("partial engine/app pair supplied; building a new instance")
	}

	build := opts.Build
	if build == nil {
		build = DefaultBuild(builder.WithLogger(logger), builder.WithVersion(ver))
	}
	name := opts.ConfigName
	if opts.Config == nil && name == "" {
		name = config.DefaultName
	}
	eng, app, err := build(opts.Config, name)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConstruction, err)
	}
	if isNil(eng) || isNil(app) {
		return nil, fmt.Errorf("%w: builder returned an incomplete pair", ErrConstruction)
	}
	return &Instance{engine: eng, app: app}, nil
}

// DefaultBuild returns a BuildFunc backed by the builder package.
func DefaultBuild(opts ...builder.Option) BuildFunc {
	return func(cfg *config.Config, name string) (Engine, ServingLayer, error) {
		built, err := builder.New(cfg, name, opts...).Build()
		if err != nil {
			return nil, nil, err
		}
		return built.Engine, built.App, nil
	}
}

// App returns the adopted serving layer.
func (i *Instance) App() ServingLayer { return i.app }

// Serve runs the serving layer until ctx is done.
func (i *Instance) Serve(ctx context.Context) error { return i.app.Serve(ctx) }

// UnderlyingApp returns the serving layer's mountable handler.
func (i *Instance) UnderlyingApp() http.Handler { return i.app.App() }

// Engine returns the adopted engine.
func (i *Instance) Engine() Engine { return i.engine }

func (i *Instance) Ingest(ctx context.Context, docs []types.Document) (types.IngestResponse, error) {
	return i.engine.Ingest(ctx, docs)
}

func (i *Instance) Search(ctx context.Context, req types.SearchRequest) (types.SearchResponse, error) {
	return i.engine.Search(ctx, req)
}

func (i *Instance) RAG(ctx context.Context, req types.RAGRequest, w io.Writer, flush func()) error {
	return i.engine.RAG(ctx, req, w, flush)
}

func (i *Instance) Documents() []types.DocumentInfo { return i.engine.Documents() }

func (i *Instance) Document(id string) (types.DocumentInfo, error) { return i.engine.Document(id) }

func (i *Instance) DeleteDocument(ctx context.Context, id string) error {
	return i.engine.DeleteDocument(ctx, id)
}

func (i *Instance) Status() types.StatusResponse { return i.engine.Status() }

func (i *Instance) Ready() bool { return i.engine.Ready() }

// isNil also catches interfaces holding a typed nil pointer.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
