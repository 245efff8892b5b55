package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
)

// Server binds a Service to an HTTP listener.
type Server struct {
	cfg     Config
	handler http.Handler

	base       context.Context
	cancelBase context.CancelFunc
}

// New builds a Server for svc. The handler is ready immediately; nothing
// listens until Serve is called.
func New(svc Service, cfg Config) *Server {
	cfg.applyDefaults()
	base, cancel := context.WithCancel(context.Background())
	a := newAPI(svc, cfg, base)
	return &Server{cfg: cfg, handler: a.routes(), base: base, cancelBase: cancel}
}

// App returns the request handler.
func (s *Server) App() http.Handler { return s.handler }

// Addr returns the configured listen address.
func (s *Server) Addr() string { return s.cfg.Addr }

// Serve listens on the configured address until ctx is canceled, then
// shuts down gracefully.
func (s *Server) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.Addr, err)
	}
	return s.ServeListener(ctx, ln)
}

// ServeListener serves on ln until ctx is canceled. A clean shutdown returns
// nil. Requests still running after the shutdown timeout are canceled.
func (s *Server) ServeListener(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	log := s.cfg.Logger.With().Str("component", "httpapi").Logger()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", ln.Addr().String()).Msg("listening")
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")
		shCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()
		err := srv.Shutdown(shCtx)
		// whatever is still streaming gets canceled now
		s.cancelBase()
		if err != nil && !errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})
	return g.Wait()
}
