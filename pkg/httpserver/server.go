package httpserver

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/dmitrymomot/formrules/pkg/logger"
)

type options struct {
	addr            string
	readTimeout     time.Duration
	writeTimeout    time.Duration
	idleTimeout     time.Duration
	shutdownTimeout time.Duration
	logger          *slog.Logger
	onListen        func(addr string)
}

// Server runs an http.Server until its context is cancelled, then drains it.
type Server struct {
	opts options

	mu  sync.Mutex
	srv *http.Server
}

func New(opts ...Option) *Server {
	o := options{
		addr:            ":8080",
		shutdownTimeout: 5 * time.Second,
		logger:          logger.Discard(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &Server{opts: o}
}

// Run serves handler and blocks until ctx is done or the listener fails.
// Cancelling ctx triggers a graceful shutdown bounded by the shutdown
// timeout. A clean shutdown returns nil.
func (s *Server) Run(ctx context.Context, handler http.Handler) error {
	if handler == nil {
		handler = http.NotFoundHandler()
	}

	s.mu.Lock()
	if s.srv != nil {
		s.mu.Unlock()
		return ErrAlreadyRunning
	}
	srv := &http.Server{
		Addr:         s.opts.addr,
		Handler:      handler,
		ReadTimeout:  s.opts.readTimeout,
		WriteTimeout: s.opts.writeTimeout,
		IdleTimeout:  s.opts.idleTimeout,
	}
	s.srv = srv
	s.mu.Unlock()

	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return errors.Join(ErrStart, err)
	}

	addr := ln.Addr().String()
	s.opts.logger.InfoContext(ctx, "http server listening", slog.String("addr", addr))
	if s.opts.onListen != nil {
		s.opts.onListen(addr)
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return errors.Join(ErrStart, err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.opts.shutdownTimeout)
	defer cancel()

	start := time.Now()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.opts.logger.ErrorContext(shutdownCtx, "http server shutdown", logger.Error(err))
		return errors.Join(ErrShutdown, err)
	}
	s.opts.logger.InfoContext(shutdownCtx, "http server stopped", logger.Duration(time.Since(start)))

	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Join(ErrShutdown, err)
	}
	return nil
}
