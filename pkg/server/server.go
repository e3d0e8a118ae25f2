package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/toast/pkg/toast"
)

// defaultTracerName is the tracer used when Config.TracerName is empty.
const defaultTracerName = "toastd"

// Config holds configuration for the HTTP surface.
type Config struct {
	// Address is the listen address (e.g., "localhost:3100").
	Address string

	// ShutdownTimeout bounds graceful shutdown.
	// Default: 10 seconds.
	ShutdownTimeout time.Duration

	// AllowedOrigins lists origins accepted for WebSocket upgrades.
	// Empty means same-origin only; "*" accepts any origin.
	AllowedOrigins []string

	// Gatherer serves /metrics when non-nil.
	Gatherer prometheus.Gatherer

	// Logger receives request and lifecycle logs.
	// Default: discard.
	Logger *slog.Logger

	// TracerName is the OpenTelemetry tracer name (default: "toastd").
	TracerName string

	// TracerProvider supplies the tracer.
	// Default: the global provider.
	TracerProvider trace.TracerProvider
}

// Server exposes one toast.Manager over HTTP and WebSocket.
type Server struct {
	manager    *toast.Manager
	config     Config
	logger     *slog.Logger
	tracer     trace.Tracer
	hub        *Hub
	router     chi.Router
	httpServer *http.Server
}

// New creates a Server for m. The server owns m from here on: Close and
// the end of ListenAndServe tear it down.
func New(m *toast.Manager, config Config) *Server {
	if config.ShutdownTimeout <= 0 {
		config.ShutdownTimeout = 10 * time.Second
	}
	if config.Logger == nil {
		config.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if config.TracerName == "" {
		config.TracerName = defaultTracerName
	}
	if config.TracerProvider == nil {
		config.TracerProvider = otel.GetTracerProvider()
	}

	s := &Server{
		manager: m,
		config:  config,
		logger:  config.Logger.With("component", "server"),
		tracer:  config.TracerProvider.Tracer(config.TracerName),
	}
	s.hub = NewHub(m, HubConfig{
		AllowedOrigins: config.AllowedOrigins,
		Logger:         s.logger,
	})
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)

	r.Route("/toasts", func(r chi.Router) {
		r.Get("/", s.handleList)
		r.Post("/", s.handleCreate)
		r.Get("/stream", s.hub.ServeHTTP)
		r.Get("/{id}", s.handleGet)
		r.Delete("/{id}", s.handleDismiss)
		r.Post("/{id}/pause", s.handlePause)
		r.Post("/{id}/resume", s.handleResume)
	})

	if s.config.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.config.Gatherer, promhttp.HandlerOpts{}))
	}

	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Manager returns the served manager.
func (s *Server) Manager() *toast.Manager {
	return s.manager
}

// Hub returns the WebSocket hub.
func (s *Server) Hub() *Hub {
	return s.hub
}

// ListenAndServe serves until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:              s.config.Address,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "address", s.config.Address)
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		s.Close()
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil

	case <-ctx.Done():
		s.logger.Info("shutting down...")
		return s.Shutdown(context.Background())
	}
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	// Close the queue first so no timer fires into a closing hub.
	s.Close()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.logger.Error("shutdown error", "error", err)
			return err
		}
	}

	s.logger.Info("server shutdown complete")
	return nil
}

// Close tears down the manager and disconnects every stream client.
func (s *Server) Close() {
	s.manager.Close()
	s.hub.Close()
}

// logRequests logs one line per request.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
