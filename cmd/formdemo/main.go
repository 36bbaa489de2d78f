// Command formdemo serves the formrules validation engine over HTTP.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrymomot/formrules/pkg/config"
	"github.com/dmitrymomot/formrules/pkg/httpserver"
	"github.com/dmitrymomot/formrules/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var cfg Config
	config.MustLoad(&cfg)

	log := newLogger(cfg)
	logger.SetAsDefault(log)

	handler, err := newHandler(ctx, cfg, log)
	if err != nil {
		log.Error("startup failed", logger.Error(err))
		os.Exit(1)
	}

	srv := httpserver.NewFromConfig(cfg.HTTP, httpserver.WithLogger(log))
	if err := srv.Run(ctx, handler); err != nil {
		log.Error("server stopped", logger.Error(err))
		os.Exit(1)
	}
}
