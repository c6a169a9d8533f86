// Package server implements the kintree HTTP API.
//
// The API serves the browser editor: person listing and saving, photo
// uploads, the rendered family diagram, and the persisted pan/zoom view
// state. Diagram responses are cached keyed by a hash of the population
// snapshot, so any save invalidates naturally.
package server

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/kintreehq/kintree/pkg/blob"
	"github.com/kintreehq/kintree/pkg/cache"
	"github.com/kintreehq/kintree/pkg/layout"
	"github.com/kintreehq/kintree/pkg/store"
	"github.com/kintreehq/kintree/pkg/viewstate"
)

// Config wires the server's collaborators. Store, Blob, and Views are
// required; Cache defaults to a no-op cache and Logger to log.Default().
type Config struct {
	Store  store.Store
	Blob   blob.Store
	Views  viewstate.Store
	Cache  cache.Cache
	Logger *log.Logger

	// Layout overrides diagram geometry; zero fields use the defaults.
	Layout layout.Options

	// CacheTTL bounds how long rendered diagrams stay cached.
	CacheTTL time.Duration

	// UploadsDir, when set, is served under /uploads/ for the local blob
	// backend.
	UploadsDir string

	// MaxUploadBytes caps photo upload size (default 10 MiB).
	MaxUploadBytes int64
}

// Server is the kintree HTTP API server.
type Server struct {
	cfg    Config
	router chi.Router
}

// New builds the server and its route table.
func New(cfg Config) *Server {
	if cfg.Cache == nil {
		cfg.Cache = cache.NewNullCache()
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 10 << 20
	}

	s := &Server{cfg: cfg}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(cfg.Logger))

	r.Route("/api", func(r chi.Router) {
		r.Get("/people", s.handleListPeople)
		r.Post("/people", s.handleSavePerson)
		r.Post("/people/{id}/photo", s.handleUploadPhoto)

		r.Get("/diagram.svg", s.handleDiagramSVG)
		r.Get("/diagram.json", s.handleDiagramJSON)
		r.Get("/diagram.dot", s.handleDiagramDOT)

		r.Get("/view", s.handleGetView)
		r.Put("/view", s.handlePutView)
		r.Delete("/view", s.handleResetView)
	})

	if cfg.UploadsDir != "" {
		fs := http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadsDir)))
		r.Get("/uploads/*", fs.ServeHTTP)
	}

	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// requestLogger logs one line per request with method, path, status, and
// duration.
func requestLogger(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Debug("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration", time.Since(start).Round(time.Millisecond),
			)
		})
	}
}
