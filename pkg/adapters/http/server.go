package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/surligne"
	"github.com/aretw0/surligne/api"
	"github.com/aretw0/surligne/internal/logging"
	"github.com/aretw0/surligne/internal/metrics"
	"github.com/aretw0/surligne/pkg/highlight"
	"github.com/aretw0/surligne/pkg/ports"
	"github.com/aretw0/surligne/pkg/workspace"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/routers/legacy"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server serves the highlighter and the workspaces over HTTP.
type Server struct {
	Workspaces *workspace.Manager
	Streams    *StreamManager

	engine  ports.Highlighter
	metrics *metrics.Metrics
	logger  *slog.Logger
	doc     *openapi3.T
}

// Option configures the Server.
type Option func(*Server)

// WithMetrics sets the collectors served on /metrics and fed by render handlers.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// WithHighlighter replaces the engine used by the stateless /highlight route.
func WithHighlighter(h ports.Highlighter) Option {
	return func(s *Server) {
		s.engine = h
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewHandler creates the HTTP handler. Requests on documented routes are validated
// against the embedded OpenAPI document before reaching the handlers.
func NewHandler(workspaces *workspace.Manager, opts ...Option) (http.Handler, error) {
	doc, err := api.Load()
	if err != nil {
		return nil, err
	}
	router, err := legacy.NewRouter(doc)
	if err != nil {
		return nil, fmt.Errorf("invalid openapi document: %w", err)
	}

	s := &Server{
		Workspaces: workspaces,
		logger:     logging.NewNop(),
		doc:        doc,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.engine == nil {
		s.engine = highlight.New(highlight.WithLogger(s.logger))
	}
	if s.metrics == nil {
		s.metrics = metrics.New()
	}
	s.Streams = NewStreamManager(s.logger)
	workspaces.Observe(s.Streams.Publish)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(validateRequests(router))

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(api.Spec)
	})
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(swaggerHTML))
	})
	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	r.Post("/highlight", s.Highlight)

	r.Route("/workspaces/{id}", func(r chi.Router) {
		r.Get("/", s.GetWorkspace)
		r.Delete("/", s.DeleteWorkspace)
		r.Put("/text", s.SetText)
		r.Get("/diagram", s.GetDiagram)
		r.Get("/events", s.SubscribeEvents)
		r.Post("/zones", s.AddZone)
		r.Route("/zones/{zone}", func(r chi.Router) {
			r.Delete("/", s.RemoveZone)
			r.Post("/keywords", s.AddKeyword)
			r.Delete("/keywords/{keyword}", s.RemoveKeyword)
			r.Put("/color", s.SetZoneColor)
			r.Put("/shape", s.SetZoneShape)
			r.Put("/palette", s.ApplyPalette)
		})
	})

	return enableCORS(r), nil
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Custom-Header")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

const swaggerHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>Surligne API Documentation</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui-bundle.js" crossorigin></script>
<script>
    window.onload = () => {
    window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui',
    });
    };
</script>
</body>
</html>
`

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"}, s.logger)
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if s.doc.Info != nil {
		apiVersion = s.doc.Info.Version
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"app":         "surligne-http",
		"version":     strings.TrimSpace(surligne.Version),
		"api_version": apiVersion,
	}, s.logger)
}

func writeJSON(w http.ResponseWriter, status int, v any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("response encode failed", "error", err)
	}
}
