package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"MarketPulse/internal/usecase"
	"MarketPulse/pkg/cache"
	pkgch "MarketPulse/pkg/clickhouse"
	"MarketPulse/pkg/config"
	xhttp "MarketPulse/pkg/http"
	pkgkafka "MarketPulse/pkg/kafka"
	applogger "MarketPulse/pkg/logger"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	log        *applogger.Logger
	collectors []*usecase.TickCollector
	scheduler  *usecase.SignalScheduler
	handler    xhttp.Handler
	httpServer *xhttp.Server

	producer   *pkgkafka.Producer
	chClient   *pkgch.Client
	cacheStore cache.Store
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	log *applogger.Logger,
	collectors []*usecase.TickCollector,
	scheduler *usecase.SignalScheduler,
	handler xhttp.Handler,
	producer *pkgkafka.Producer,
	chClient *pkgch.Client,
	cacheStore cache.Store,
) *App {
	return &App{
		cfg:        cfg,
		log:        log,
		collectors: collectors,
		scheduler:  scheduler,
		handler:    handler,
		producer:   producer,
		chClient:   chClient,
		cacheStore: cacheStore,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a.httpServer = xhttp.NewServer(a.handler, a.log,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	)

	for _, c := range a.collectors {
		c.Start(ctx)
	}
	a.log.Info("feed collectors started", applogger.Strings("symbols", a.cfg.Feed.Symbols))

	go a.scheduler.Run(ctx)

	if err := a.httpServer.Start(); err != nil {
		a.log.Error("http server start error", applogger.Error(err))
		return err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.log.Info("shutdown signal received")
	cancel()
	return a.shutdown()
}

// shutdown gracefully stops all services. Collectors stop with the
// run context.
func (a *App) shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
	}

	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.log.Warn("kafka producer close error", applogger.Error(err))
		}
	}
	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			a.log.Warn("clickhouse close error", applogger.Error(err))
		}
	}
	if a.cacheStore != nil {
		if err := a.cacheStore.Close(); err != nil {
			a.log.Warn("cache close error", applogger.Error(err))
		}
	}

	a.log.Info("shutdown complete")
	return nil
}
