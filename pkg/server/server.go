// Package server serves the node-list form over HTTP.
//
// Each browser session owns one drawing surface. A POST to /render consumes
// the submitted text, runs a pass on the session's surface and redirects back
// to the page, so reloading never re-submits. The surface size grows with the
// drawings and is carried into every later submission of the same session.
//
// Routes:
//
//	GET  /            form page with the current drawing inlined
//	POST /render      form field "nodes"; redirects to /
//	GET  /render.svg  stateless drawing of ?nodes= (the startup example when absent)
//	GET  /healthz     build information as JSON
//	GET  /metrics     Prometheus metrics, when configured
package server

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/bddview/pkg/observability"
	"github.com/matzehuels/bddview/pkg/pipeline"
)

//go:embed templates/index.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

const (
	// DefaultAddr is the listen address used when none is configured.
	DefaultAddr = "localhost:8080"

	shutdownTimeout = 5 * time.Second
	cleanupInterval = 10 * time.Minute
)

// Server is the HTTP form server.
type Server struct {
	runner   *pipeline.Runner
	logger   *log.Logger
	base     pipeline.Options
	maxInput int
	metrics  *observability.Metrics
	sessions *sessionStore
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithOptions sets the pass options every request starts from. Formats are
// always replaced with svg.
func WithOptions(opts pipeline.Options) Option {
	return func(s *Server) { s.base = opts }
}

// WithMaxInput caps the size of a submitted node list in bytes.
func WithMaxInput(n int) Option {
	return func(s *Server) { s.maxInput = n }
}

// WithMetrics exposes m on /metrics.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

// WithSessionTTL sets how long idle sessions are kept.
func WithSessionTTL(ttl time.Duration) Option {
	return func(s *Server) { s.sessions = newSessionStore(ttl) }
}

// New creates a server that runs passes on runner.
func New(runner *pipeline.Runner, opts ...Option) *Server {
	s := &Server{
		runner:   runner,
		logger:   log.NewWithOptions(io.Discard, log.Options{}),
		sessions: newSessionStore(DefaultSessionTTL),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/", s.handleIndex)
	r.Post("/render", s.handleSubmit)
	r.Get("/render.svg", s.handleSVG)
	r.Get("/healthz", s.handleHealth)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", metricsHandler(s.metrics))
	}
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully. Expired sessions are swept periodically while serving.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	if addr == "" {
		addr = DefaultAddr
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go s.sweep(ctx)

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
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) sweep(ctx context.Context) {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.sessions.cleanup(); n > 0 {
				s.logger.Debug("expired sessions", "count", n)
			}
		}
	}
}

// observe reports every request to the HTTP hooks and the debug log.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx := r.Context()
		observability.HTTP().OnRequest(ctx, r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(ctx); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		dur := time.Since(start)
		observability.HTTP().OnResponse(ctx, r.Method, route, status, dur)
		s.logger.Debug("request",
			"method", r.Method,
			"route", route,
			"status", status,
			"duration", dur)
	})
}
