package server

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	xhttp "FinScore/pkg/http"
	pkgkafka "FinScore/pkg/kafka"
	applogger "FinScore/pkg/logger"
)

// Scheduler is a background job runner started with the app.
type Scheduler interface {
	Start()
	Stop(ctx context.Context) error
}

// Option configures App.
type Option func(*App)

// WithConsumer starts consumer with handlers registered on it.
func WithConsumer(consumer *pkgkafka.Consumer, handlers ...pkgkafka.MessageHandler) Option {
	return func(a *App) {
		a.consumer = consumer
		a.handlers = append(a.handlers, handlers...)
	}
}

// WithScheduler runs s alongside the HTTP server.
func WithScheduler(s Scheduler) Option {
	return func(a *App) { a.scheduler = s }
}

// WithClosers registers resources closed last on shutdown, in order.
func WithClosers(c ...io.Closer) Option {
	return func(a *App) { a.closers = append(a.closers, c...) }
}

// WithShutdownTimeout bounds the whole shutdown sequence.
func WithShutdownTimeout(d time.Duration) Option {
	return func(a *App) {
		if d > 0 {
			a.shutdownTimeout = d
		}
	}
}

// App encapsulates the entire application lifecycle.
type App struct {
	log             *applogger.Logger
	httpServer      *xhttp.Server
	consumer        *pkgkafka.Consumer
	handlers        []pkgkafka.MessageHandler
	scheduler       Scheduler
	closers         []io.Closer
	shutdownTimeout time.Duration
}

// New creates a new App around an HTTP server.
func New(log *applogger.Logger, httpServer *xhttp.Server, opts ...Option) *App {
	if log == nil {
		log = applogger.Nop()
	}
	a := &App{log: log, httpServer: httpServer, shutdownTimeout: 15 * time.Second}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run starts every component and blocks until SIGINT/SIGTERM or ctx is done.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.Start(); err != nil {
		_ = a.Shutdown(context.Background())
		return err
	}

	<-ctx.Done()
	a.log.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
	defer cancel()
	return a.Shutdown(shutdownCtx)
}

// Start launches the consumer, the scheduler and the HTTP server.
func (a *App) Start() error {
	if a.consumer != nil && len(a.handlers) > 0 {
		for _, h := range a.handlers {
			a.consumer.RegisterHandler(h)
		}
		if err := a.consumer.Start(); err != nil {
			a.log.Error("kafka consumer start error", applogger.Error(err))
			return err
		}
		for _, h := range a.handlers {
			a.log.Info("kafka consumer started", applogger.String("topic", h.Topic()))
		}
	}

	if a.scheduler != nil {
		a.scheduler.Start()
	}

	if a.httpServer != nil {
		if err := a.httpServer.Start(); err != nil {
			a.log.Error("http server start error", applogger.Error(err))
			return err
		}
	}
	return nil
}

// Shutdown stops intake first, then background work, then closes resources.
func (a *App) Shutdown(ctx context.Context) error {
	a.log.Info("shutting down...")
	var errs []error

	if a.httpServer != nil {
		if err := a.httpServer.Stop(ctx); err != nil {
			a.log.Error("http shutdown error", applogger.Error(err))
			errs = append(errs, err)
		}
	}

	if a.scheduler != nil {
		if err := a.scheduler.Stop(ctx); err != nil {
			a.log.Warn("scheduler stop error", applogger.Error(err))
			errs = append(errs, err)
		}
	}

	if a.consumer != nil {
		if err := a.consumer.Stop(ctx); err != nil {
			a.log.Warn("kafka consumer stop error", applogger.Error(err))
			errs = append(errs, err)
		}
	}

	for _, c := range a.closers {
		if c == nil {
			continue
		}
		if err := c.Close(); err != nil {
			a.log.Warn("close error", applogger.Error(err))
			errs = append(errs, err)
		}
	}

	a.log.Info("shutdown complete")
	return errors.Join(errs...)
}
