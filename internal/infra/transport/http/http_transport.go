package http

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/mkrupp/smart-interviewer/internal/infra/logging"
)

// HTTPTransportConfig contains configuration parameters for HTTP servers.
type HTTPTransportConfig struct {
	// ServerAddr is the network address to listen on
	ServerAddr string `env:"SERVER_ADDR" envDefault:":8080"`
	// ReadHeaderTimeout is the timeout for reading request headers
	ReadHeaderTimeout time.Duration `env:"READ_HEADER_TIMEOUT" envDefault:"5s"`

	ReadTimeout  time.Duration `env:"READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout time.Duration `env:"WRITE_TIMEOUT" envDefault:"60s"`

	// ShutdownTimeout bounds the graceful shutdown once the context is cancelled
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// MaxBodySize caps request bodies in bytes; zero disables the cap
	MaxBodySize int64 `env:"MAX_BODY_SIZE" envDefault:"8388608"`

	// ProtectAPI gates the interview, speech and resume APIs behind a session
	ProtectAPI bool `env:"PROTECT_API" envDefault:"true"`

	// WebDir is an optional directory of pre-built static pages
	WebDir string `env:"WEB_DIR" envDefault:""`
}

// HTTPTransport defines the interface for HTTP handlers that can serve requests.
type HTTPTransport interface {
	http.Handler
}

// Handler wraps the given handler in the standard middleware chain:
// body limiting, panic recovery, logging and tracing.
func Handler(handler HTTPTransport, cfg HTTPTransportConfig) http.Handler {
	log := logging.GetLogger("infra.transport.http")

	handler = MaxBodyMiddleware(handler, cfg.MaxBodySize)
	handler = RescueingMiddleware(handler, log)
	handler = LoggingMiddleware(handler, log)
	handler = TracingMiddleware(handler)

	return handler
}

// ListenAndServe starts an HTTP server with the given handler and configuration.
// It sets up standard middleware for logging, tracing, and panic recovery.
// The server shuts down gracefully when ctx is cancelled.
// Returns an error if the server fails to start or encounters an error while running.
func ListenAndServe(ctx context.Context, handler HTTPTransport, cfg HTTPTransportConfig) (err error) {
	log := logging.GetLogger("infra.transport.http")

	sock, err := net.Listen("tcp", cfg.ServerAddr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}

	return Serve(ctx, sock, handler, cfg, log)
}

// Serve runs the server on an existing listener until ctx is cancelled.
func Serve(
	ctx context.Context,
	sock net.Listener,
	handler HTTPTransport,
	cfg HTTPTransportConfig,
	log logging.Logger,
) error {
	//nolint:exhaustruct
	server := &http.Server{
		Handler:           Handler(handler, cfg),
		ErrorLog:          logging.GetLogLogger(log, logging.LevelError),
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	errCh := make(chan error, 1)

	go func() {
		log.InfoContext(ctx, "listening", "addr", sock.Addr().String())

		errCh <- server.Serve(sock)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	log.InfoContext(ctx, "shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		_ = server.Close()

		return fmt.Errorf("shutdown: %w", err)
	}

	return nil
}

// MaxBodyMiddleware limits the size of request bodies. A limit <= 0 disables it.
func MaxBodyMiddleware(next http.Handler, limit int64) http.Handler {
	if limit <= 0 {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, limit)
		}

		next.ServeHTTP(w, r)
	})
}
