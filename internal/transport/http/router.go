// Package httptransport assembles the public router: check-in, printer
// status, static pages, operator endpoints and observability.
package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	adminmw "welcome/pkg/platform/middleware/admin"
	request "welcome/pkg/platform/middleware/request"
)

const (
	// LandingPage is where / redirects.
	LandingPage = "/static/welcome.html"

	defaultMaxBodyBytes   = 1 << 20
	defaultRequestTimeout = 30 * time.Second
)

// Registrar mounts a group of routes.
type Registrar interface {
	Register(r chi.Router)
}

// Config carries everything the router mounts. Nil registrars are skipped.
type Config struct {
	Logger *slog.Logger

	Attendance Registrar
	Printing   Registrar
	Health     Registrar
	Hooks      Registrar

	// AdminTokenHash guards Hooks; empty disables the admin routes.
	AdminTokenHash string
	StaticDir      string

	Metrics        *request.Metrics
	Gatherer       prometheus.Gatherer
	MaxBodyBytes   int64
	RequestTimeout time.Duration
}

// NewRouter wires every endpoint with the shared middleware chain.
func NewRouter(cfg Config) http.Handler {
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = defaultMaxBodyBytes
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaultRequestTimeout
	}

	r := chi.NewRouter()
	r.Use(request.RequestID)
	r.Use(request.Recovery(cfg.Logger))
	r.Use(request.Logger(cfg.Logger))
	r.Use(request.LatencyMiddleware(cfg.Metrics))
	r.Use(request.Timeout(cfg.RequestTimeout))
	r.Use(request.BodyLimit(cfg.MaxBodyBytes))
	r.Use(request.ContentTypeFields)

	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, LandingPage, http.StatusFound)
	})
	if cfg.StaticDir != "" {
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticDir))))
	}
	if cfg.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}

	for _, reg := range []Registrar{cfg.Health, cfg.Attendance, cfg.Printing} {
		if reg != nil {
			reg.Register(r)
		}
	}

	if cfg.Hooks != nil {
		r.Group(func(admin chi.Router) {
			admin.Use(adminmw.RequireAdminToken(cfg.AdminTokenHash, cfg.Logger))
			cfg.Hooks.Register(admin)
		})
	}

	return r
}

// NewBootstrapRouter serves dir as a plain file tree. It is mounted on the
// insecure listener that hands out the CA certificate and setup pages.
func NewBootstrapRouter(dir string, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(request.RequestID)
	r.Use(request.Recovery(logger))
	r.Use(request.Logger(logger))
	r.Handle("/*", http.FileServer(http.Dir(dir)))
	return r
}
