// Package server exposes the designer over HTTP: design CRUD, rendering,
// validation, submission, option search, and a websocket canvas session.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/hashicorp/go-hclog"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/goliatone/go-formdesigner/pkg/binding"
	"github.com/goliatone/go-formdesigner/pkg/model"
	"github.com/goliatone/go-formdesigner/pkg/orchestrator"
	"github.com/goliatone/go-formdesigner/pkg/palette"
	"github.com/goliatone/go-formdesigner/pkg/search"
)

// ErrNoOrchestrator is returned by New without an orchestrator.
var ErrNoOrchestrator = errors.New("server: orchestrator is required")

const defaultSearchers = 64

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(logger hclog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithPalette replaces the default palette catalog.
func WithPalette(catalog *palette.Catalog) Option {
	return func(s *Server) {
		if catalog != nil {
			s.palette = catalog
		}
	}
}

// WithModels exposes a binding catalog under /api/models and to canvas
// sessions.
func WithModels(models *binding.Catalog) Option {
	return func(s *Server) {
		s.models = models
	}
}

// WithSearchOptions configures the searchers backing the field search
// endpoint.
func WithSearchOptions(opts ...search.Option) Option {
	return func(s *Server) {
		s.searchOpts = append(s.searchOpts, opts...)
	}
}

// WithSubmitHandler receives clean submissions. Without one submissions are
// only logged.
func WithSubmitHandler(fn orchestrator.SubmitFunc) Option {
	return func(s *Server) {
		s.submit = fn
	}
}

// WithMetricsRegistry registers request metrics on reg instead of a private
// registry.
func WithMetricsRegistry(reg *prometheus.Registry) Option {
	return func(s *Server) {
		s.registry = reg
	}
}

// WithOriginPatterns sets the websocket origin patterns accepted for canvas
// sessions.
func WithOriginPatterns(patterns ...string) Option {
	return func(s *Server) {
		s.origins = append([]string{}, patterns...)
	}
}

// Server is the designer HTTP API.
type Server struct {
	orch       *orchestrator.Orchestrator
	palette    *palette.Catalog
	models     *binding.Catalog
	logger     hclog.Logger
	searchOpts []search.Option
	submit     orchestrator.SubmitFunc
	registry   *prometheus.Registry
	metrics    *metrics
	origins    []string
	searchers  *lru.Cache[string, *search.Searcher]
	router     chi.Router
}

// New builds a server around orch.
func New(orch *orchestrator.Orchestrator, opts ...Option) (*Server, error) {
	if orch == nil {
		return nil, ErrNoOrchestrator
	}
	s := &Server{
		orch:    orch,
		palette: palette.NewDefaultCatalog(),
		logger:  hclog.NewNullLogger(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.registry == nil {
		s.registry = prometheus.NewRegistry()
	}
	m, err := newMetrics(s.registry)
	if err != nil {
		return nil, err
	}
	s.metrics = m

	searchers, err := lru.NewWithEvict[string, *search.Searcher](defaultSearchers, func(_ string, searcher *search.Searcher) {
		searcher.Close()
	})
	if err != nil {
		return nil, err
	}
	s.searchers = searchers
	if s.submit == nil {
		s.submit = s.logSubmission
	}
	s.router = s.routes()
	return s, nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.instrument)

	r.Get("/metrics", s.metricsHandler())
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/palette", s.handlePalette)
		r.Get("/models", s.handleModels)
		r.Get("/models/{modelID}/scaffold", s.handleScaffold)

		r.Get("/designs", s.handleListDesigns)
		r.Route("/designs/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetDesign)
			r.Put("/", s.handlePutDesign)
			r.Delete("/", s.handleDeleteDesign)
			r.Get("/lint", s.handleLint)
			r.Get("/render", s.handleRender)
			r.Post("/validate", s.handleValidate)
			r.Post("/submit", s.handleSubmit)
			r.Get("/fields/{fieldID}/search", s.handleSearch)
			r.Get("/canvas", s.handleCanvas)
		})
	})
	return r
}

// ListenAndServe runs the server on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		s.Close()
		return nil
	}
}

// Close stops pending searches.
func (s *Server) Close() {
	s.searchers.Purge()
}

func (s *Server) logSubmission(_ context.Context, design model.Design, values model.Values) error {
	s.logger.Info("submission accepted", "design", design.ID, "fields", len(values))
	return nil
}
