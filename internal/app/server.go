// Package app wires handlers into listeners and runs them.
package app

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
)

// Server wraps an HTTP server with a name for logs.
type Server struct {
	name       string
	httpServer *http.Server
	logger     *slog.Logger
}

// NewServer creates a server on addr. writeTimeout must outlast the
// downstream deadline so a 504 can still be written.
func NewServer(name, addr string, handler http.Handler, writeTimeout time.Duration, logger *slog.Logger) *Server {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       120 * time.Second,
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
	}

	return &Server{name: name, httpServer: srv, logger: logger}
}

// Serve accepts connections on ln until Shutdown.
func (s *Server) Serve(ln net.Listener) error {
	s.logger.Info("listening", "server", s.name, "addr", ln.Addr().String())

	if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Start listens on the configured address and serves until Shutdown.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down", "server", s.name)
	return s.httpServer.Shutdown(ctx)
}

// Run starts every server and blocks until ctx is done or one of them fails,
// then shuts all of them down within grace.
func Run(ctx context.Context, grace time.Duration, servers ...*Server) error {
	g, gctx := errgroup.WithContext(ctx)

	for _, s := range servers {
		g.Go(s.Start)
	}

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
		defer cancel()

		var errs []error
		for _, s := range servers {
			if err := s.Shutdown(shutdownCtx); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	})

	return g.Wait()
}
