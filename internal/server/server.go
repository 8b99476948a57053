// Package server runs the API over HTTPS and shuts it down gracefully.
package server

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

// ShutdownGrace is how long in-flight requests get to finish on shutdown
const ShutdownGrace = 10 * time.Second

var ErrMissingCertificate = errors.New("TLS certificate or key file not found")

// Server is an HTTPS server for the API handler
type Server struct {
	srv   *http.Server
	grace time.Duration
}

// New loads the certificate pair and prepares the server. It fails when
// either file is missing or unreadable; the API never serves plain HTTP.
func New(addr, certFile, keyFile string, handler http.Handler) (*Server, error) {
	for _, f := range []string{certFile, keyFile} {
		if _, err := os.Stat(f); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrMissingCertificate, f)
		}
	}
	cert, err := tls.LoadX509KeyPair(certFile, keyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load TLS key pair: %w", err)
	}

	return &Server{
		srv: &http.Server{
			Addr:    addr,
			Handler: handler,
			TLSConfig: &tls.Config{
				MinVersion:   tls.VersionTLS12,
				Certificates: []tls.Certificate{cert},
			},
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       10 * time.Second,
			WriteTimeout:      10 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
		grace: ShutdownGrace,
	}, nil
}

// WithGrace overrides the shutdown grace period
func (s *Server) WithGrace(d time.Duration) *Server {
	s.grace = d
	return s
}

// Run listens on the configured address and serves until ctx is cancelled
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.srv.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts TLS connections on ln until ctx is cancelled, then stops
// accepting new connections and waits up to the grace period for in-flight
// requests.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		// Certificates are already in TLSConfig
		errCh <- s.srv.ServeTLS(ln, "", "")
	}()
	logrus.WithField("addr", ln.Addr().String()).Info("HTTPS server listening")

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logrus.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.grace)
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		_ = s.srv.Close()
		return fmt.Errorf("forced shutdown after %s: %w", s.grace, err)
	}
	logrus.Info("Server stopped")
	return nil
}
