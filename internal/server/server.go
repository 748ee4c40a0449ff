// Package server exposes the rendering engine and template store over HTTP.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/cardpress/cardpress/pkg/assets"
	"github.com/cardpress/cardpress/pkg/cache"
	"github.com/cardpress/cardpress/pkg/engine/sink"
	"github.com/cardpress/cardpress/pkg/errors"
	"github.com/cardpress/cardpress/pkg/store"
)

// Server wires the engine, store, cache, and uploader behind a chi router.
type Server struct {
	logger   *log.Logger
	manager  *store.Manager
	cache    cache.Cache
	keyer    cache.Keyer
	uploader assets.Uploader
	fetcher  sink.ImageFetcher
	cacheTTL time.Duration
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *log.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// WithCache enables render-output caching.
func WithCache(c cache.Cache, ttl time.Duration) Option {
	return func(s *Server) {
		s.cache = c
		s.cacheTTL = ttl
	}
}

// WithUploader enables the asset upload endpoint.
func WithUploader(u assets.Uploader) Option {
	return func(s *Server) { s.uploader = u }
}

// WithImageFetcher replaces the raster path's remote image loader.
func WithImageFetcher(f sink.ImageFetcher) Option {
	return func(s *Server) { s.fetcher = f }
}

// renderKeyScope namespaces the API's render-cache entries, so a future
// incompatible render path can change the scope instead of flushing the
// shared backend.
const renderKeyScope = "v1:"

// New creates a Server around a template store manager.
func New(manager *store.Manager, opts ...Option) *Server {
	s := &Server{
		manager: manager,
		logger:  log.Default(),
		cache:   cache.NewNullCache(),
		keyer:   cache.NewScopedKeyer(cache.NewDefaultKeyer(), renderKeyScope),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router builds the HTTP handler.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/healthz", s.handleHealth)
	r.Post("/v1/render", s.handleRender)

	r.Route("/v1/orgs/{orgID}", func(r chi.Router) {
		r.Route("/templates", func(r chi.Router) {
			r.Get("/", s.handleListTemplates)
			r.Post("/", s.handleCreateTemplate)
			r.Get("/{templateID}", s.handleGetTemplate)
			r.Put("/{templateID}", s.handleUpdateTemplate)
			r.Delete("/{templateID}", s.handleDeleteTemplate)
		})
		r.Post("/assets", s.handleUpload)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// logRequests logs every request through the application logger.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
		)
	})
}

// writeJSON writes a JSON response body.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// errorResponse is the wire shape of an error.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeError maps an error code to an HTTP status and writes the body.
func writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	status := http.StatusInternalServerError
	switch code {
	case errors.ErrCodeTemplateNotFound, errors.ErrCodeLayerNotFound, errors.ErrCodeFileNotFound:
		status = http.StatusNotFound
	case errors.ErrCodeInvalidConfig, errors.ErrCodeInvalidLayout, errors.ErrCodeInvalidElement,
		errors.ErrCodeInvalidDimensions, errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidInput:
		status = http.StatusBadRequest
	case errors.ErrCodeUnsupported:
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, errorResponse{Code: string(code), Message: errors.UserMessage(err)})
}
