package main

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"wayfind/application/ports"
	"wayfind/application/services"
	"wayfind/infrastructure/api"
	"wayfind/infrastructure/config"
	"wayfind/infrastructure/connectivity"
	"wayfind/infrastructure/persistence/memory"
	"wayfind/infrastructure/persistence/sqlite"
	"wayfind/pkg/observability"
)

// app wires configuration, storage, transport and the client core together
// for the CLI. The session and caches live for one command invocation.
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	store   ports.KVStore
	client  *api.Client
	monitor *services.ConnectivityMonitor
	cache   *services.LocationCache
	session *services.NavigationSession
	search  *services.SearchIndex
	scanner *services.ScanResolver
	syncer  *services.OfflineSyncManager

	closers []func() error
}

// buildApp assembles the dependency graph by hand; it is small enough that
// generated wiring would add more ceremony than it removes.
func buildApp(ctx context.Context) (*app, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	logger, err := provideLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	a := &app{cfg: cfg, logger: logger}

	var metrics *observability.Metrics
	if cfg.EnableMetrics {
		metrics = observability.NewMetrics(prometheus.DefaultRegisterer)
	}

	if cfg.StoragePath != "" {
		store, err := sqlite.Open(cfg.StoragePath, logger)
		if err != nil {
			return nil, err
		}
		a.store = store
		a.closers = append(a.closers, store.Close)
	} else {
		logger.Warn("No storage path configured, cache will not survive restart")
		a.store = memory.NewStore()
	}

	a.client = api.NewClient(cfg.APIBaseURL, cfg.RequestTimeout, logger)

	probe := connectivity.NewHTTPProbe(cfg.APIBaseURL, cfg.RequestTimeout)
	a.monitor = services.NewConnectivityMonitor(logger, probe.Check(ctx))

	a.cache = services.NewLocationCache(a.store, logger, metrics)
	a.session = services.NewNavigationSession(a.client.Routes, a.cache, a.monitor, logger, metrics)
	a.search = services.NewSearchIndex(a.client.Nodes, a.cache, a.monitor, logger, metrics, services.SearchConfig{
		Debounce:   cfg.SearchDebounce(),
		MaxResults: cfg.SearchMaxResults,
	})
	a.scanner = services.NewScanResolver(a.client.Nodes, a.session, logger, metrics, services.ScanTargetEnd)
	a.syncer = services.NewOfflineSyncManager(
		a.client.Buildings,
		a.client.Floors,
		a.client.Nodes,
		a.client.Edges,
		a.cache,
		logger,
		metrics,
	)

	return a, nil
}

// Close releases resources in reverse acquisition order.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Warn("Failed to close resource", zap.Error(err))
		}
	}
	a.logger.Sync()
}

// provideLogger builds the zap logger for the configured environment.
func provideLogger(cfg *config.Config) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.IsDevelopment() {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zap.ParseAtomicLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	zapCfg.Level = level

	return zapCfg.Build()
}
