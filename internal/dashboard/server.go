// Package dashboard serves the cancer patient dashboard over HTTP.
package dashboard

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/KaramelBytes/cancerlens/internal/analysis"
	"github.com/KaramelBytes/cancerlens/internal/pipeline"
)

//go:embed templates/*.html
var templateFS embed.FS

// Options configures a Server.
type Options struct {
	Pipeline      pipeline.Options
	HistogramBins int
	Palette       Palette
	Logger        zerolog.Logger
	// Registry receives the dashboard metrics; nil creates a private registry.
	Registry *prometheus.Registry
}

// Server renders the dashboard. Every request rebuilds the report from disk.
type Server struct {
	opt       Options
	router    *chi.Mux
	templates *template.Template
	metrics   *metrics
	registry  *prometheus.Registry
}

// New builds a Server and its routes.
func New(opt Options) (*Server, error) {
	if opt.HistogramBins <= 0 {
		opt.HistogramBins = 10
	}
	if opt.Palette.Colors == nil {
		opt.Palette = DefaultPalette()
	}
	reg := opt.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	funcMap := template.FuncMap{
		"heading": func(label, accent, textColor string) template.HTML {
			return opt.Palette.Render(Heading{Label: label, Accent: accent, TextColor: textColor})
		},
		"stat": analysis.FormatStat,
		"pct":  func(share float64) string { return fmt.Sprintf("%.1f%%", share*100) },
		"inc":  func(i int) int { return i + 1 },
		"width": func(n, max int) int {
			if max <= 0 {
				return 0
			}
			return n * 100 / max
		},
	}
	tmpl, err := template.New("").Funcs(funcMap).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	s := &Server{
		opt:       opt,
		router:    chi.NewRouter(),
		templates: tmpl,
		metrics:   newMetrics(reg),
		registry:  reg,
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s, nil
}

func (s *Server) setupMiddleware() {
	s.router.Use(requestLogger(s.opt.Logger))
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
}

func (s *Server) setupRoutes() {
	s.router.Get("/", s.handleIndex)
	s.router.Get("/healthz", s.handleHealth)
	s.router.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/summary", s.handleSummary)
		r.Get("/preview", s.handlePreview)
		r.Get("/encoding", s.handleEncoding)
		r.Get("/charts/histogram", s.handleHistogram)
		r.Get("/charts/counts", s.handleCounts)
		r.Get("/charts/box", s.handleBox)
		r.Get("/charts/crosstab", s.handleCrossTab)
		r.Get("/charts/pair", s.handlePair)
	})
}

// ServeHTTP lets the Server act as an http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully
// within shutdownTimeout.
func (s *Server) Run(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.opt.Logger.Info().Str("addr", addr).Msg("dashboard listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.opt.Logger.Info().Msg("dashboard shutting down")
		return srv.Shutdown(sctx)
	})
	return g.Wait()
}

// build runs one render and records its outcome.
func (s *Server) build(r *http.Request) (*pipeline.Report, error) {
	start := time.Now()
	rep, err := pipeline.Build(r.Context(), s.opt.Pipeline)
	s.metrics.duration.Observe(time.Since(start).Seconds())
	s.metrics.renders.WithLabelValues(pipeline.Outcome(err)).Inc()
	return rep, err
}
