package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"cafechain/internal/adapters/http/middleware"
	"cafechain/internal/adapters/http/routes"
	"cafechain/internal/adapters/persistence"
	"cafechain/internal/adapters/persistence/models"
	"cafechain/internal/adapters/persistence/repositories"
	"cafechain/internal/config"
	"cafechain/internal/core/fixtures"
	"cafechain/internal/core/services"
	"cafechain/internal/pkg/logger"
	"cafechain/internal/pkg/metrics"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load configuration
	cfg, warning, err := config.Load()
	if err != nil {
		logrus.Fatalf("❌ Failed to load configuration: %v", err)
	}

	base := logger.New(cfg.AppMode)
	log := logger.Component(base, "server")
	if warning != "" {
		log.Warn(warning)
	}
	log.WithFields(logrus.Fields{
		"mode":    cfg.AppMode,
		"variant": cfg.AppVariant,
		"driver":  cfg.Storage.Driver,
	}).Info("✅ Configuration loaded")

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Snapshot storage
	repo, pruner, closeStorage := openStorage(ctx, cfg, log)
	defer closeStorage()

	adapter := persistence.NewAdapter(repo, cfg.Storage.Key, logger.Component(base, "persistence"), m)
	var persister services.SnapshotPersister = adapter
	var writer *persistence.AsyncWriter
	if cfg.Storage.AsyncWrites {
		writer = persistence.NewAsyncWriter(adapter, cfg.Storage.WriteTimeout)
		persister = writer
	}

	// Store
	data, err := fixtures.Demo()
	if err != nil {
		log.Fatalf("❌ Failed to load fixtures: %v", err)
	}
	store := services.NewStore(services.NewReducer(data), persister, logger.Component(base, "store"), m)
	store.Init(ctx)

	redemption := services.NewRedemptionService(store, logger.Component(base, "redemption"))

	notifier := services.NewNotificationService(cfg.Notify.URL, cfg.Notify.Token, logger.Component(base, "notify"))
	if notifier.IsEnabled() {
		notifier.Prime(store.GetState())
		defer store.Subscribe(notifier.Observe)()
		log.Info("✅ Owner notifications enabled")
	}

	// Snapshot retention (mysql keeps revisions)
	if pruner != nil {
		retention := services.NewRetentionService(pruner, cfg.Storage.Key, cfg.Retention.Keep, cfg.Retention.Schedule, logger.Component(base, "retention"))
		if err := retention.Start(); err != nil {
			log.Fatalf("❌ Failed to start snapshot retention: %v", err)
		}
		defer retention.Stop()
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "CafeChain API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	middleware.Setup(app, cfg, logger.Component(base, "http"))
	routes.Setup(app, routes.Deps{
		Config:     cfg,
		Store:      store,
		Redemption: redemption,
		Storage:    adapter,
		Gatherer:   registry,
	})

	go gracefulShutdown(ctx, app, log)

	log.Infof("🚀 Server starting on port %s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}

	// Drain queued snapshot writes before storage closes
	if writer != nil {
		flushCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := writer.Close(flushCtx); err != nil {
			log.WithError(err).Warn("Snapshot writes not fully drained")
		}
	}
	log.Info("✅ Server stopped gracefully")
}

// openStorage connects the configured snapshot backend. The pruner is only
// set for backends that keep revisions.
func openStorage(ctx context.Context, cfg *config.Config, log *logrus.Entry) (repositories.SnapshotRepository, services.SnapshotPruner, func()) {
	switch cfg.Storage.Driver {
	case config.DriverMySQL:
		db, err := config.ConnectDatabase(cfg)
		if err != nil {
			log.Fatalf("❌ Failed to connect to database: %v", err)
		}
		if err := models.AutoMigrate(db); err != nil {
			log.Fatalf("❌ Failed to auto migrate: %v", err)
		}
		log.WithFields(logrus.Fields{
			"host": cfg.Database.Host,
			"db":   cfg.Database.DBName,
		}).Info("✅ Database connected")
		repo := repositories.NewSQLSnapshotRepository(db)
		return repo, repo, func() {
			if err := config.CloseDatabase(db); err != nil {
				log.WithError(err).Warn("Error closing database")
			}
		}

	case config.DriverRedis:
		client, err := config.ConnectRedis(ctx, cfg)
		if err != nil {
			log.Fatalf("❌ Failed to connect to redis: %v", err)
		}
		log.WithField("addr", cfg.Redis.Addr).Info("✅ Redis connected")
		return repositories.NewRedisSnapshotRepository(client), nil, func() {
			if err := client.Close(); err != nil {
				log.WithError(err).Warn("Error closing redis")
			}
		}

	case config.DriverFile:
		repo := repositories.NewFileSnapshotRepository(cfg.Storage.Dir)
		log.WithField("path", repo.Path(cfg.Storage.Key)).Info("✅ File snapshots enabled")
		return repo, nil, func() {}

	default:
		log.Warn("⚠️ In-memory snapshots: state is lost on restart")
		return repositories.NewMemorySnapshotRepository(), nil, func() {}
	}
}

// gracefulShutdown stops the server on SIGINT/SIGTERM
func gracefulShutdown(ctx context.Context, app *fiber.App, log *logrus.Entry) {
	<-ctx.Done()

	log.Info("🛑 Shutting down server...")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.WithError(err).Error("❌ Error during shutdown")
	}
}
