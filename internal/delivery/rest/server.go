// Path: internal/delivery/rest/server.go
package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Server is the HTTP server for the gene catalog API.
type Server struct {
	httpServer *http.Server
}

// NewServer creates and configures a new API server.
// gatherer may be nil, in which case /metrics is not mounted.
func NewServer(port string, service dataService, gatherer prometheus.Gatherer, logger zerolog.Logger) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:         ":" + port,
			Handler:      NewRouter(service, gatherer, logger),
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  15 * time.Second,
		},
	}
}

// NewRouter builds the route table.
func NewRouter(service dataService, gatherer prometheus.Gatherer, logger zerolog.Logger) http.Handler {
	logger = logger.With().Str("component", "http").Logger()
	geneHandlers := NewGeneHandlers(service, logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", geneHandlers.Health)
	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/genes", func(r chi.Router) {
			r.Get("/", geneHandlers.SearchGenes)
			r.Post("/", geneHandlers.CreateGene)
			r.Get("/{id}", geneHandlers.GetGeneByID)
			r.Put("/{id}", geneHandlers.UpdateGene)
			r.Delete("/{id}", geneHandlers.DeleteGene)
		})
		r.Get("/stats/enzymes", geneHandlers.EnzymeStats)
		r.Get("/stats/domains", geneHandlers.DomainStats)
	})

	return r
}

// requestLogger logs one line per request with zerolog.
func requestLogger(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				logger.Debug().
					Str("request_id", middleware.GetReqID(r.Context())).
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Int("status", ww.Status()).
					Int("bytes", ww.BytesWritten()).
					Dur("duration", time.Since(start)).
					Msg("HTTP request")
			}()
			next.ServeHTTP(ww, r)
		})
	}
}

// Start runs the HTTP server.
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
