package httpserver

import (
	"log/slog"
	"time"
)

// Option configures a Server.
type Option func(*options)

func WithAddr(addr string) Option {
	return func(o *options) {
		if addr != "" {
			o.addr = addr
		}
	}
}

func WithReadTimeout(d time.Duration) Option {
	return func(o *options) { o.readTimeout = d }
}

func WithWriteTimeout(d time.Duration) Option {
	return func(o *options) { o.writeTimeout = d }
}

func WithIdleTimeout(d time.Duration) Option {
	return func(o *options) { o.idleTimeout = d }
}

// WithShutdownTimeout bounds how long in-flight requests may take to finish
// once shutdown starts.
func WithShutdownTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.shutdownTimeout = d
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithListenNotify receives the bound address once the server listens.
func WithListenNotify(fn func(addr string)) Option {
	return func(o *options) { o.onListen = fn }
}
