package server

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	xhttp "FxSignals/pkg/http"
	applogger "FxSignals/pkg/logger"
)

// Resource is an infrastructure client closed on shutdown.
type Resource struct {
	Name   string
	Closer io.Closer
}

// App encapsulates the API server lifecycle.
type App struct {
	logger     *applogger.Logger
	httpServer *xhttp.Server
	resources  []Resource
}

// New creates a new App. Nil closers are ignored; the rest are closed in reverse order.
func New(l *applogger.Logger, srv *xhttp.Server, resources ...Resource) *App {
	app := &App{logger: l, httpServer: srv}
	for _, r := range resources {
		if r.Closer != nil {
			app.resources = append(app.resources, r)
		}
	}
	return app
}

// Server returns the HTTP server.
func (a *App) Server() *xhttp.Server { return a.httpServer }

// Run starts the HTTP server and blocks until ctx is done or SIGINT/SIGTERM arrives.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.httpServer.Start(); err != nil {
		a.logger.Error("http server start error", applogger.Error(err))
		return err
	}

	<-ctx.Done()
	a.logger.Info("shutdown signal received")
	return a.Shutdown(context.Background())
}

// Shutdown stops the HTTP server and closes every resource.
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("shutting down...")

	var firstErr error
	if err := a.httpServer.Stop(ctx); err != nil {
		a.logger.Error("http shutdown error", applogger.Error(err))
		firstErr = err
	}

	for i := len(a.resources) - 1; i >= 0; i-- {
		r := a.resources[i]
		if err := r.Closer.Close(); err != nil {
			a.logger.Warn("close error", applogger.String("resource", r.Name), applogger.Error(err))
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	a.logger.Info("shutdown complete")
	return firstErr
}
