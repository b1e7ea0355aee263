// Package http serves the subscription ledger as an HTML page and a small
// JSON API.
package http

import (
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"subledger/internal/aggregate"
	"subledger/internal/ledger"
	"subledger/internal/log"
	"subledger/internal/middleware/ratelimit"
	"subledger/internal/middleware/security"
	"subledger/internal/middleware/trace"
	appweb "subledger/web"
)

type Server struct {
	http.Server
	store     *ledger.Store
	window    aggregate.RenewalWindow
	templates *template.Template
	limiter   *ratelimit.Limiter
	now       func() time.Time
	logger    *log.Logger

	rateLimit    ratelimit.Config
	corsOrigins  []string
	shutdownOnce sync.Once
}

type Option func(*Server)

// WithClock overrides the time source used for renewal alerts.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

func WithRateLimit(cfg ratelimit.Config) Option {
	return func(s *Server) { s.rateLimit = cfg }
}

// WithAllowedOrigins enables CORS on /api for the given origins.
func WithAllowedOrigins(origins []string) Option {
	return func(s *Server) { s.corsOrigins = origins }
}

// NewServer configures routes and templates, returning a ready-to-run http.Server.
func NewServer(addr string, store *ledger.Store, window aggregate.RenewalWindow, logger *log.Logger, opts ...Option) (*Server, error) {
	s := &Server{
		Server: http.Server{
			Addr:           addr,
			ReadTimeout:    10 * time.Second,
			WriteTimeout:   10 * time.Second,
			IdleTimeout:    60 * time.Second,
			MaxHeaderBytes: 1 << 16,
		},
		store:     store,
		window:    window,
		now:       time.Now,
		logger:    logger.WithComponent(log.ComponentHTTP),
		rateLimit: ratelimit.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(s)
	}

	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	s.templates = t

	static, err := fs.Sub(appweb.StaticFS, "static")
	if err != nil {
		return nil, fmt.Errorf("mount static assets: %w", err)
	}

	ips, err := security.NewClientIPResolver()
	if err != nil {
		return nil, err
	}
	s.limiter = ratelimit.NewLimiter(s.rateLimit)

	r := chi.NewRouter()
	r.Use(trace.RequestID)
	r.Use(log.Middleware(s.logger, trace.FromRequest))
	r.Use(trace.AccessLog(ips.ClientIP))
	r.Use(chimw.Recoverer)
	r.Use(security.Headers(security.DefaultHeadersConfig()))
	r.Use(s.limiter.Middleware(ips.ClientIP))

	r.Get("/healthz", handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	r.With(security.StaticAssetMiddleware(3600)).
		Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))

	r.Get("/", s.handleIndex)
	r.Post("/subscriptions", s.handleCreate)
	r.Post("/subscriptions/{id}/delete", s.handleDeleteForm)

	r.Route("/api", func(r chi.Router) {
		if len(s.corsOrigins) > 0 {
			r.Use(cors.Handler(cors.Options{
				AllowedOrigins: s.corsOrigins,
				AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
				AllowedHeaders: []string{"Accept", "Content-Type", trace.RequestIDHeader},
				ExposedHeaders: []string{trace.RequestIDHeader},
				MaxAge:         300,
			}))
		}
		r.Get("/subscriptions", s.handleListJSON)
		r.Post("/subscriptions", s.handleCreate)
		r.Get("/subscriptions/{id}", s.handleGetJSON)
		r.Delete("/subscriptions/{id}", s.handleDeleteJSON)
		r.Get("/summary", s.handleSummaryJSON)
		r.Get("/catalog", s.handleCatalogJSON)
	})

	s.Handler = r
	return s, nil
}

// Close stops background goroutines owned by the server.
func (s *Server) Close() {
	s.shutdownOnce.Do(s.limiter.Stop)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.store == nil || s.templates == nil {
		http.Error(w, "not ready", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
