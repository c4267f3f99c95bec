package main

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ishaan2692/matchify/internal/config"
	"github.com/ishaan2692/matchify/internal/database"
	"github.com/ishaan2692/matchify/internal/database/migration"
	"github.com/ishaan2692/matchify/internal/extract"
	handlers "github.com/ishaan2692/matchify/internal/http/handler"
	"github.com/ishaan2692/matchify/internal/http/middleware"
	"github.com/ishaan2692/matchify/internal/llm"
	"github.com/ishaan2692/matchify/internal/otel"
	"github.com/ishaan2692/matchify/internal/repository/postgres"
	"github.com/ishaan2692/matchify/internal/service"
	"github.com/ishaan2692/matchify/internal/session"
	"github.com/ishaan2692/matchify/internal/storage"
)

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

	// Initialize PostgreSQL connection (with pooling via database/sql)
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, loc, cfg.Database.Host); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	// Initialize reusable S3-compatible object storage client (MinIO-supported)
	objStore, err := storage.NewMinIO(cfg.MinIO)
	if err != nil {
		log.Fatalf("failed to initialize object storage: %v", err)
	}

	extractor := extract.NewExtractor()

	// A missing API key disables generation but never blocks startup:
	// uploads, listing and history keep working, generation answers with
	// the chat fallback or a GENERATION_UNAVAILABLE error.
	var generator llm.Generator
	if gen, genErr := llm.NewGemini(ctx, llm.Config{APIKey: cfg.Gemini.APIKey, Model: cfg.Gemini.Model}); genErr != nil {
		logWarn(loc, "generation_disabled", genErr)
		generator = llm.Unconfigured{}
	} else {
		generator = gen
	}

	// Initialize repositories and services
	docRepo := postgres.NewDocumentPostgres(db)
	docSvc := service.NewDocumentService(objStore, docRepo, extractor)
	analysisSvc := service.NewAnalysisService(docRepo, objStore, extractor, generator)
	chatSvc := service.NewChatService(generator)

	sessions := session.NewManager()
	janitor := service.NewSessionJanitor(sessions, docSvc, cfg.Session.SweepInterval(), cfg.Session.IdleTimeout(), loc)
	go janitor.Run(ctx)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
		BodyLimit:    cfg.UploadLimitMB * 1024 * 1024,
	})

	// Register global middleware
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	// JSON Logger middleware for structured request logs
	app.Use(middleware.Logger(loc))
	app.Use(otelfiber.Middleware())

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	promMW, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		log.Fatalf("failed to register metrics: %v", err)
	}
	app.Use(promMW.Handler())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	// Register HTTP routes with injected services
	handlers.RegisterRoutes(app, db, docSvc, analysisSvc, chatSvc, sessions)

	addr := ":" + cfg.Port

	if err := app.Listen(addr); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}

func logWarn(loc *time.Location, msg string, err error) {
	entry := map[string]any{
		"ts":    time.Now().In(loc).Format(time.RFC3339Nano),
		"level": "warn",
		"msg":   msg,
	}
	if err != nil {
		entry["error"] = err.Error()
	}
	if b, jsonErr := json.Marshal(entry); jsonErr == nil {
		log.SetFlags(0)
		log.Println(string(b))
	}
}
