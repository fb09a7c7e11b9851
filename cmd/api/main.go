package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"riskapi/docs"
	"riskapi/internal/catalog"
	"riskapi/internal/config"
	"riskapi/internal/database"
	"riskapi/internal/database/migration"
	handlers "riskapi/internal/http/handler"
	"riskapi/internal/http/middleware"
	"riskapi/internal/otel"
	"riskapi/internal/render"
	"riskapi/internal/repository"
	"riskapi/internal/repository/memory"
	"riskapi/internal/repository/postgres"
	"riskapi/internal/service"
	"riskapi/internal/storage"
)

// @title Risk API
// @version 1.0
// @description Weighted risk scores, assessment snapshots, and archived HTML reports.
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()
	loc := time.UTC
	ctx := context.Background()

	shutdownTracing, err := otel.Init(ctx, loc)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}
	defer shutdownTracing(context.Background())

	// Without DB_HOST the service runs standalone: the built-in catalog
	// backs the risk table and assessments live in memory.
	var (
		db          *sql.DB
		catalogRepo repository.CatalogRepository
		assessRepo  repository.AssessmentRepository
	)
	if cfg.Database.Host == "" {
		store := memory.NewStore(catalog.Factors())
		catalogRepo = store
		assessRepo = store
	} else {
		db, err = database.NewPostgres(cfg.Database)
		if err != nil {
			log.Fatalf("failed to connect to database: %v", err)
		}
		defer db.Close()

		if err := migration.EnsureMigrated(ctx, db, loc, cfg.Database.Host); err != nil {
			log.Fatalf("failed to migrate database: %v", err)
		}

		catalogRepo = postgres.NewCatalogPostgres(db)
		assessRepo = postgres.NewAssessmentPostgres(db)
	}

	// Object storage is optional; without it report archival answers 503
	var objStore storage.Storage
	if cfg.MinIO.Endpoint != "" {
		objStore, err = storage.NewMinIO(cfg.MinIO)
		if err != nil {
			log.Fatalf("failed to initialize object storage: %v", err)
		}
	}

	renderer, err := render.New()
	if err != nil {
		log.Fatalf("failed to load templates: %v", err)
	}

	riskSvc := service.NewRiskService(catalogRepo, assessRepo, objStore, renderer)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
	})

	// Register global middleware
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	// JSON Logger middleware for structured request logs
	app.Use(middleware.Logger(loc))
	app.Use(otelfiber.Middleware())

	reg := prometheus.NewRegistry()
	promMw, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		log.Fatalf("failed to register metrics: %v", err)
	}
	app.Use(promMw.Handler())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	// Register HTTP routes with injected service
	handlers.RegisterRoutes(app, db, riskSvc)

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		_ = app.Shutdown()
	}()

	if err := app.Listen(cfg.Addr()); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
