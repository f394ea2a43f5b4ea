// Package api exposes the graph builder over HTTP for investigation
// frontends: query parsing, payload caching, focus publishing and case
// archiving behind one mux.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/dmorval/linkscope/pkg/archive"
	"github.com/dmorval/linkscope/pkg/auth"
	"github.com/dmorval/linkscope/pkg/events"
	"github.com/dmorval/linkscope/pkg/focusbus"
	"github.com/dmorval/linkscope/pkg/graph"
	"github.com/dmorval/linkscope/pkg/graphql"
	"github.com/dmorval/linkscope/pkg/logging"
	"github.com/dmorval/linkscope/pkg/metrics"
)

// Server is the HTTP API server
type Server struct {
	store      events.Store
	builder    *graph.Builder
	cache      *graph.PayloadCache
	metrics    *metrics.Registry
	logger     logging.Logger
	jwt        *auth.JWTManager
	focus      *focusbus.Publisher
	archiver   *archive.Archiver
	gqlHandler *graphql.Handler
	startTime  time.Time
	version    string
}

// Option configures the server
type Option func(*Server)

// WithAuth enables bearer-token authentication on the API routes
func WithAuth(m *auth.JWTManager) Option {
	return func(s *Server) { s.jwt = m }
}

// WithFocusPublisher enables the POST /api/v1/focus endpoint
func WithFocusPublisher(p *focusbus.Publisher) Option {
	return func(s *Server) { s.focus = p }
}

// WithArchiver enables the POST /api/v1/archive endpoint
func WithArchiver(a *archive.Archiver) Option {
	return func(s *Server) { s.archiver = a }
}

// WithCache sets the payload cache; without it every request builds fresh
func WithCache(c *graph.PayloadCache) Option {
	return func(s *Server) { s.cache = c }
}

// NewServer creates an API server over an event store
func NewServer(store events.Store, builder *graph.Builder, reg *metrics.Registry, logger logging.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if reg == nil {
		reg = metrics.DefaultRegistry()
	}

	s := &Server{
		store:     store,
		builder:   builder,
		metrics:   reg,
		logger:    logger.With(logging.Component("api")),
		startTime: time.Now(),
		version:   "1.0.0",
	}
	for _, opt := range opts {
		opt(s)
	}

	schema, err := graphql.NewSchema(s)
	if err != nil {
		s.logger.Warn("graphql schema unavailable", logging.Error(err))
	} else {
		s.gqlHandler = graphql.NewHandler(schema, s.logger)
	}
	return s
}

// Graph builds (or serves from cache) the payload for a query. Shared by
// the REST handler and the GraphQL resolvers.
func (s *Server) Graph(ctx context.Context, q graph.Query) (*graph.Payload, bool, error) {
	q = q.WithDefaults()

	if s.cache != nil {
		if p := s.cache.Get(q); p != nil {
			s.metrics.BuildCacheHits.Inc()
			return p, true, nil
		}
		s.metrics.BuildCacheMisses.Inc()
	}

	start := time.Now()
	p, err := s.builder.Build(ctx, q)
	if err != nil {
		s.metrics.RecordBuild("error", time.Since(start), 0, 0, false)
		return nil, false, err
	}
	s.metrics.RecordBuild("ok", time.Since(start), len(p.Graph.Nodes), len(p.Graph.Edges), p.Truncated)

	if s.cache != nil {
		if err := s.cache.Put(q, p); err != nil {
			s.logger.Warn("payload cache store failed", logging.Error(err))
		}
	}
	return p, false, nil
}

// Datasets lists the dataset scopes known to the event store
func (s *Server) Datasets(ctx context.Context) ([]string, error) {
	return s.store.Datasets(ctx)
}

// Handler returns the fully wired HTTP handler
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", s.handleHealth)
	mux.Handle("/metrics", s.metrics.Handler())

	mux.HandleFunc("/api/v1/graph", s.requireAuth(s.handleGraph))
	mux.HandleFunc("/api/v1/datasets", s.requireAuth(s.handleDatasets))
	mux.HandleFunc("/api/v1/focus", s.requireAuth(s.handleFocus))
	mux.HandleFunc("/api/v1/archive", s.requireAuth(s.handleArchive))

	mux.HandleFunc("/graphql", s.handleGraphQL)

	return s.metricsMiddleware(mux)
}

func (s *Server) handleGraphQL(w http.ResponseWriter, r *http.Request) {
	if s.gqlHandler == nil {
		s.respondError(w, http.StatusServiceUnavailable, "graphql is not available")
		return
	}
	s.gqlHandler.ServeHTTP(w, r)
}
