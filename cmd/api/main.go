package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	httptransport "github.com/spec-kit/convodocs/internal/api/http"
	"github.com/spec-kit/convodocs/internal/api/http/handlers"
	"github.com/spec-kit/convodocs/internal/config"
	"github.com/spec-kit/convodocs/internal/events"
	"github.com/spec-kit/convodocs/internal/observability"
	"github.com/spec-kit/convodocs/internal/persistence"
	"github.com/spec-kit/convodocs/internal/repository"
	"github.com/spec-kit/convodocs/internal/service"
	"github.com/spec-kit/convodocs/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if pg.Enabled() && cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	var (
		documentRepo repository.DocumentRepository
		teamRepo     repository.TeamRepository
	)
	if pg.Enabled() {
		documentRepo = repository.NewDocumentRepository(pg.PoolHandle())
		teamRepo = repository.NewTeamRepository(pg.PoolHandle())
	} else {
		store := repository.NewMemoryStore()
		documentRepo = store.Documents()
		teamRepo = store.Teams()
	}
	if redis.Available() {
		documentRepo = repository.NewCachedDocumentRepository(documentRepo, redis.Client, cfg.Redis.CacheTTL(), logger)
	}

	dispatcher := events.NewInMemoryDispatcher(logger)
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	documentService := service.NewDocumentService(service.DocumentDependencies{
		DocumentRepo: documentRepo,
		TeamRepo:     teamRepo,
		Dispatcher:   dispatcher,
		Logger:       logger,
	})
	teamService := service.NewTeamService(service.TeamDependencies{
		TeamRepo:     teamRepo,
		DocumentRepo: documentRepo,
		Dispatcher:   dispatcher,
		Logger:       logger,
	})

	metrics := observability.NewMetrics()
	app := httptransport.NewApp(cfg.App.Name, logger, metrics, httptransport.MiddlewareConfig{
		Timeout:      cfg.App.RequestTimeout(),
		AllowOrigins: cfg.App.AllowedOrigins(),
	}, httptransport.RouteConfig{
		Health:    handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis, metrics),
		Documents: handlers.NewDocumentsHandler(documentService),
		Teams:     handlers.NewTeamsHandler(teamService),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()
	logger.Info("listening", zap.String("addr", cfg.App.Addr()))

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
