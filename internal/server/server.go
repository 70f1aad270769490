package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"
)

// Server is the aura HTTP server.
type Server struct {
	addr      string
	staticDir string
	version   string
	startTime time.Time
	router    ChatRouter
	sseHub    *SSEHub
	metrics   *Metrics
	logger    *slog.Logger
}

// New creates a Server. hub and metrics should already be observing router.
func New(addr, staticDir, version string, router ChatRouter, hub *SSEHub, metrics *Metrics, logger *slog.Logger) *Server {
	return &Server{
		addr:      addr,
		staticDir: staticDir,
		version:   version,
		startTime: time.Now(),
		router:    router,
		sseHub:    hub,
		metrics:   metrics,
		logger:    logger,
	}
}

// Handler builds the full route tree.
func (s *Server) Handler(ctx context.Context) (http.Handler, error) {
	doc, err := LoadSpec(ctx)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()

	h := &Handlers{
		Router:    s.router,
		Metrics:   s.metrics,
		Version:   s.version,
		StartTime: s.startTime,
		Logger:    s.logger,
	}
	strictHandler := NewStrictHandler(h, []StrictMiddlewareFunc{RequestIDMiddleware(s.logger)})
	HandlerFromMuxWithBaseURL(strictHandler, mux, "/api")

	// Streaming endpoints sit outside the strict handler.
	mux.Handle("GET /api/events", s.sseHub)
	mux.Handle("GET /api/ws", NewWSHandler(s.router, s.metrics, s.logger))
	mux.Handle("GET /metrics", s.metrics.Handler())

	mux.Handle("/", SPAHandler(os.DirFS(s.staticDir)))

	return CORS(ValidateBodies(doc, "/api", mux)), nil
}

// Run starts the HTTP server and blocks until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	if err := EnsureStaticDir(s.staticDir); err != nil {
		return err
	}

	handler, err := s.Handler(ctx)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              s.addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start listener so we can log the actual port.
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.addr, err)
	}

	s.logger.Info("aura server started", "addr", ln.Addr().String(), "static_dir", s.staticDir)

	// Graceful shutdown on context cancellation.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}
