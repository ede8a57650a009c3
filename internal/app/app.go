package app

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/yungbote/coursejobs/internal/data/repos"
	"github.com/yungbote/coursejobs/internal/data/repos/jobs"
	"github.com/yungbote/coursejobs/internal/http"
	"github.com/yungbote/coursejobs/internal/jobs/dispatcher"
	"github.com/yungbote/coursejobs/internal/observability"
	"github.com/yungbote/coursejobs/internal/platform/logger"
)

type App struct {
	Log        *logger.Logger
	Cfg        *Config
	Clients    Clients
	Repos      repos.Repos
	Services   Services
	Metrics    *observability.Metrics
	Dispatcher *dispatcher.Dispatcher
	Router     *gin.Engine

	shutdownOTel func(context.Context) error
}

func New(ctx context.Context, cfg *Config, version string) (*App, error) {
	log, err := logger.NewWithOptions(logger.Options{Mode: cfg.Log.Mode, File: cfg.Log.File})
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	otelCfg := cfg.Otel
	otelCfg.Version = version
	shutdownOTel := observability.InitOTel(ctx, log, otelCfg)
	metrics := observability.Init(log)

	clients, err := wireClients(ctx, log, cfg, metrics)
	if err != nil {
		_ = shutdownOTel(context.Background())
		log.Sync()
		return nil, err
	}

	reposet := repos.NewRepos(clients.Postgres.DB(), clients.Redis, log, jobs.Options{
		KeyPrefix:  cfg.Redis.KeyPrefix,
		JobTTL:     cfg.Jobs.TTL,
		PayloadTTL: cfg.Jobs.PayloadTTL,
	})
	serviceset := wireServices(log, cfg, clients, reposet)

	disp, err := wireDispatcher(log, cfg, reposet, serviceset, metrics)
	if err != nil {
		clients.Close()
		_ = shutdownOTel(context.Background())
		log.Sync()
		return nil, err
	}

	handlerset := wireHandlers(log, serviceset, clients.Redis)
	middleware := wireMiddleware(log, serviceset)
	router := wireRouter(log, cfg, handlerset, middleware, metrics)

	return &App{
		Log:          log,
		Cfg:          cfg,
		Clients:      clients,
		Repos:        reposet,
		Services:     serviceset,
		Metrics:      metrics,
		Dispatcher:   disp,
		Router:       router,
		shutdownOTel: shutdownOTel,
	}, nil
}

// Serve runs the HTTP API and the job dispatcher until ctx is done.
func (a *App) Serve(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	a.startCollectors(ctx)
	g.Go(func() error {
		a.Log.Info("HTTP server listening", "addr", a.Cfg.Server.Address())
		srv := &http.Server{Engine: a.Router}
		return srv.Run(ctx, a.Cfg.Server.Address())
	})
	g.Go(func() error { return a.Dispatcher.Run(ctx) })
	err := g.Wait()
	a.Dispatcher.Wait()
	return err
}

// Work runs only the job dispatcher until ctx is done.
func (a *App) Work(ctx context.Context) error {
	a.startCollectors(ctx)
	err := a.Dispatcher.Run(ctx)
	a.Dispatcher.Wait()
	return err
}

func (a *App) startCollectors(ctx context.Context) {
	if a.Metrics == nil {
		return
	}
	a.Metrics.StartServer(ctx, a.Log, a.Cfg.Metrics.Addr)
	a.Metrics.StartQueueCollector(ctx, a.Log, a.Repos.Queues)
	a.Metrics.StartRedisCollector(ctx, a.Log, a.Clients.Redis)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	a.Clients.Close()
	if a.shutdownOTel != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.shutdownOTel(ctx); err != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
	}
	a.Log.Sync()
}
