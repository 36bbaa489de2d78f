// Package httpserver runs an http.Server tied to a context: cancelling the
// context drains in-flight requests within the shutdown timeout.
//
//	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
//	defer stop()
//
//	srv := httpserver.NewFromConfig(cfg.HTTP, httpserver.WithLogger(log))
//	if err := srv.Run(ctx, router); err != nil {
//	    log.Error("server", logger.Error(err))
//	}
//
// HealthCheckHandler provides a plain-text liveness and readiness endpoint.
package httpserver
