// Package web serves the local introspection endpoints of a running
// dashboard: prometheus metrics, live status and the run journal.
package web

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/user/sentineldash/internal/util"
)

// Server is the introspection server.
type Server struct {
	addr     string
	handlers *Handlers
	gatherer prometheus.Gatherer
	srv      *http.Server
}

// NewServer creates a server for addr. gatherer may be nil to leave
// /metrics out.
func NewServer(addr string, handlers *Handlers, gatherer prometheus.Gatherer) *Server {
	return &Server{
		addr:     addr,
		handlers: handlers,
		gatherer: gatherer,
	}
}

// Handler returns the routed mux.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/status", s.handlers.APIGetStatus)
	mux.HandleFunc("/api/runs", s.handlers.APIGetRuns)
	if s.gatherer != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	return mux
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is Start on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.srv = &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.srv.Shutdown(shutdownCtx)
	}()

	util.Info("Introspection server listening on %s", ln.Addr())

	if err := s.srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
