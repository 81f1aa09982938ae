package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"codepad/internal/config"
	"codepad/internal/database"
	"codepad/internal/database/migration"
	"codepad/internal/highlight"
	handlers "codepad/internal/http/handler"
	"codepad/internal/http/middleware"
	"codepad/internal/language"
	"codepad/internal/otel"
	"codepad/internal/repository"
	"codepad/internal/repository/postgres"
	"codepad/internal/service"
	"codepad/internal/shell"
	"codepad/internal/storage"
)

func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()
	loc := cfg.Location()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, loc)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}

	registry := language.Default()

	store, err := newStorage(cfg)
	if err != nil {
		log.Fatalf("failed to initialize storage: %v", err)
	}

	// The save journal is optional; without DB_HOST saves only touch storage.
	var db *sql.DB
	var snippetRepo repository.SnippetRepository = repository.NopSnippetRepository{}
	if cfg.Database.Enabled() {
		db, err = database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			log.Fatalf("failed to connect to database: %v", err)
		}
		defer db.Close()

		if err := migration.EnsureMigrated(ctx, db, loc, cfg.Database.Host); err != nil {
			log.Fatalf("failed to migrate database: %v", err)
		}
		snippetRepo = postgres.NewSnippetPostgres(db)
	}

	renderer, err := highlight.New(cfg.Highlight.Style)
	if err != nil {
		log.Fatalf("failed to initialize highlighter: %v", err)
	}

	snippetSvc := service.NewSnippetService(store, snippetRepo, registry, service.WithLocation(loc))
	highlightSvc := service.NewHighlightService(renderer, registry)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	dispatchMetrics, err := shell.NewMetrics(reg)
	if err != nil {
		log.Fatalf("failed to register dispatch metrics: %v", err)
	}
	httpMetrics, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		log.Fatalf("failed to register http metrics: %v", err)
	}

	page, err := handlers.NewPage(registry)
	if err != nil {
		log.Fatalf("failed to load page: %v", err)
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
	})

	// Register global middleware
	app.Use(otelfiber.Middleware())
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	// JSON Logger middleware for structured request logs
	app.Use(middleware.LoggerWithWriter(os.Stdout, loc))
	app.Use(httpMetrics.Handler())

	handlers.RegisterRoutes(app, handlers.Deps{
		DB:         db,
		Dispatcher: shell.New(snippetSvc, highlightSvc, registry, dispatchMetrics),
		Page:       page,
		Gatherer:   reg,
	})

	addr := ":" + cfg.Port
	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(addr)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("server shutdown: %v", err)
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Printf("tracing shutdown: %v", err)
	}
}

func newStorage(cfg *config.AppConfig) (storage.Storage, error) {
	switch cfg.Storage.Backend {
	case config.BackendMinIO:
		// Reusable S3-compatible object storage client (MinIO-supported)
		return storage.NewMinIO(cfg.MinIO)
	case config.BackendLocal, "":
		return storage.NewLocal(cfg.Storage.SaveFolder)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}
