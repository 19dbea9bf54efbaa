package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"storyapi/docs"
	"storyapi/internal/config"
	"storyapi/internal/database"
	"storyapi/internal/database/migration"
	handlers "storyapi/internal/http/handler"
	"storyapi/internal/http/middleware"
	"storyapi/internal/logger"
	"storyapi/internal/otel"
	"storyapi/internal/repository"
	"storyapi/internal/repository/memory"
	"storyapi/internal/repository/mongodb"
	"storyapi/internal/repository/objectstore"
	"storyapi/internal/repository/postgres"
	"storyapi/internal/service"
	"storyapi/internal/storage"
)

const shutdownTimeout = 10 * time.Second

// @title Story API
// @version 1.0
// @description Create and list children's stories.
// @BasePath /
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zl, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	if err := run(cfg, zl); err != nil {
		zl.Fatal("server_exit", zap.Error(err))
	}
}

func run(cfg *config.AppConfig, zl *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, cfg.OTel, zl)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			zl.Warn("tracing_shutdown_failed", zap.Error(err))
		}
	}()

	store, closeStore, err := openStore(ctx, cfg, zl)
	if err != nil {
		return fmt.Errorf("open %s story store: %w", cfg.StoreDriver, err)
	}
	defer closeStore()

	reg := prometheus.NewRegistry()
	app, err := newApp(cfg, zl, store, reg)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		addr := ":" + cfg.Port
		zl.Info("server_start", zap.String("addr", addr), zap.String("store_driver", cfg.StoreDriver))
		errCh <- app.Listen(addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	zl.Info("server_shutdown")
	return app.ShutdownWithTimeout(shutdownTimeout)
}

// newApp builds the Fiber app with middleware, metrics, docs and story routes.
func newApp(cfg *config.AppConfig, zl *zap.Logger, store repository.StoryStore, reg *prometheus.Registry) (*fiber.App, error) {
	if err := reg.Register(collectors.NewGoCollector()); err != nil {
		return nil, fmt.Errorf("register go collector: %w", err)
	}
	if err := reg.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})); err != nil {
		return nil, fmt.Errorf("register process collector: %w", err)
	}
	metrics, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		return nil, fmt.Errorf("register http metrics: %w", err)
	}

	storySvc := service.NewStoryService(store, zl)

	app := fiber.New(fiber.Config{
		ErrorHandler:          handlers.ErrorHandler(),
		DisableStartupMessage: true,
	})

	app.Use(otelfiber.Middleware(otelfiber.WithNext(func(c *fiber.Ctx) bool {
		return c.Path() == "/metrics"
	})))
	// RequestID must run before Logger so every access line carries the id.
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(zl))
	app.Use(metrics.Handler())

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	handlers.RegisterRoutes(app, store, storySvc, cfg.CORSAllowOrigins)

	// SwaggerInfo is package-global; it is written once here, never per request.
	docs.SwaggerInfo.Host = cfg.AppHost
	app.Get("/swagger/*", swagger.HandlerDefault)

	return app, nil
}

// openStore connects the backend selected by STORE_DRIVER.
// The returned close func releases the backend's connections.
func openStore(ctx context.Context, cfg *config.AppConfig, zl *zap.Logger) (repository.StoryStore, func(), error) {
	switch cfg.StoreDriver {
	case config.StoreDriverPostgres:
		db, err := database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		if err := migration.EnsureMigrated(ctx, db, zl, cfg.Database.Host); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return postgres.NewStoryPostgres(db), func() { _ = db.Close() }, nil

	case config.StoreDriverMongo:
		client, err := database.NewMongo(ctx, cfg.Mongo)
		if err != nil {
			return nil, nil, err
		}
		coll := client.Database(cfg.Mongo.Database).Collection(cfg.Mongo.Collection)
		closeFn := func() {
			dctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := client.Disconnect(dctx); err != nil {
				zl.Warn("mongo_disconnect_failed", zap.Error(err))
			}
		}
		return mongodb.NewStoryMongo(coll), closeFn, nil

	case config.StoreDriverMinIO:
		objStore, err := storage.NewMinIO(cfg.MinIO)
		if err != nil {
			return nil, nil, err
		}
		return objectstore.NewStoryObjectStore(objStore), func() {}, nil

	case config.StoreDriverMemory:
		zl.Warn("memory story store in use; stories are lost on restart")
		return memory.NewStoryMemory(), func() {}, nil
	}
	return nil, nil, errors.New("unsupported store driver " + cfg.StoreDriver)
}
