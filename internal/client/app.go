package client

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/go-offline-sync/internal/adapter"
	"github.com/MKhiriev/go-offline-sync/internal/config"
	"github.com/MKhiriev/go-offline-sync/internal/handler"
	"github.com/MKhiriev/go-offline-sync/internal/logger"
	"github.com/MKhiriev/go-offline-sync/internal/metrics"
	"github.com/MKhiriev/go-offline-sync/internal/network"
	"github.com/MKhiriev/go-offline-sync/internal/server"
	"github.com/MKhiriev/go-offline-sync/internal/service"
	"github.com/MKhiriev/go-offline-sync/internal/store"
	"github.com/MKhiriev/go-offline-sync/internal/utils"
	"github.com/MKhiriev/go-offline-sync/internal/workers"
	"github.com/MKhiriev/go-offline-sync/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// App is the offline sync agent: storage, connectivity monitor, sync engine
// and the local control API wired into one process.
type App struct {
	storages *store.Storages
	monitor  *network.Monitor
	engine   *service.SyncEngine
	workers  *workers.Workers
	server   server.Server
	logger   *logger.Logger
}

// NewApp builds every component from cfg. Storage connections opened here
// are released by Run, or immediately if a later step fails.
func NewApp(ctx context.Context, cfg *config.StructuredConfig, buildInfo models.AppBuildInfo, log *logger.Logger) (*App, error) {
	clock := utils.NewSystemClock()
	ids := utils.NewUUIDGenerator()

	storages, err := store.NewStorages(ctx, cfg.Storage, cfg.Engine, clock, ids, log.Component("store"))
	if err != nil {
		return nil, fmt.Errorf("create storages: %w", err)
	}

	app, err := wire(storages, cfg, buildInfo, clock, ids, log)
	if err != nil {
		return nil, errors.Join(err, storages.Close())
	}
	return app, nil
}

func wire(storages *store.Storages, cfg *config.StructuredConfig, buildInfo models.AppBuildInfo, clock utils.Clock, ids utils.IDGenerator, log *logger.Logger) (*App, error) {
	transport, err := adapter.NewHTTPTransport(cfg.Adapter, log.Component("adapter"))
	if err != nil {
		return nil, fmt.Errorf("create transport: %w", err)
	}

	checker := network.AllOf(
		network.NewLinkChecker(),
		network.NewProbeChecker(cfg.Network.ProbeURL, cfg.Adapter.RequestTimeout),
	)
	monitor := network.NewMonitor(checker, cfg.Network, log.Component("network"))

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	recorder, err := metrics.New(registry)
	if err != nil {
		return nil, fmt.Errorf("register metrics: %w", err)
	}

	engine := service.NewSyncEngine(storages, transport, monitor, cfg.Engine, log.Component("engine"),
		service.WithClock(clock),
		service.WithIDGenerator(ids),
		service.WithMetrics(recorder),
	)

	handlers, err := handler.NewHandlers(engine, buildInfo, registry, cfg.Server, cfg.Engine.StrictOptions, log.Component("api"))
	if err != nil {
		return nil, fmt.Errorf("create handlers: %w", err)
	}

	srv, err := server.NewServer(handlers, cfg.Server, log.Component("server"))
	if err != nil {
		return nil, fmt.Errorf("create server: %w", err)
	}

	return &App{
		storages: storages,
		monitor:  monitor,
		engine:   engine,
		// the engine subscribes to the monitor, so it starts after it
		workers: workers.New(monitor, engine),
		server:  srv,
		logger:  log,
	}, nil
}

// Run serves until SIGTERM, SIGINT or SIGQUIT.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
		syscall.SIGQUIT,
	)
	defer stop()

	return a.run(ctx)
}

func (a *App) run(ctx context.Context) error {
	a.workers.Start(ctx)
	a.logger.Info().Bool("online", a.monitor.IsOnline()).Msg("agent started")

	serveErr := a.server.Run(ctx)

	a.workers.Stop()
	closeErr := a.storages.Close()

	if serveErr != nil {
		a.logger.Err(serveErr).Msg("server stopped with error")
	}
	a.logger.Info().Msg("agent stopped")

	return errors.Join(serveErr, closeErr)
}
