package main

import (
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"

	"github.com/lithofield/geodescribe/internal/config"
	"github.com/lithofield/geodescribe/internal/database"
	"github.com/lithofield/geodescribe/internal/describe"
	"github.com/lithofield/geodescribe/internal/handlers"
	"github.com/lithofield/geodescribe/internal/logger"
	"github.com/lithofield/geodescribe/internal/middleware"
	"github.com/lithofield/geodescribe/internal/services"
	"github.com/lithofield/geodescribe/internal/store"
	"github.com/lithofield/geodescribe/internal/types"
	"github.com/lithofield/geodescribe/web"

	_ "github.com/lithofield/geodescribe/docs/api" // Swagger docs
)

// @title GeoDescribe API
// @version 1.0.0
// @description Field data-collection backend for geological observations
// @host localhost:3000
// @BasePath /api
// @schemes http https

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zlog, err := logger.New(cfg.LogMode)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer zlog.Sync()

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		zlog.Fatal("Failed to connect to database", "error", err)
	}
	defer database.Close(db)

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		zlog.Fatal("Failed to run migrations", "error", err)
	}

	recordStore := store.New(db)

	// The AI client is optional: without a key the service still stores,
	// analyses, and exports; only /api/describe degrades.
	var describer handlers.Describer
	if cfg.OpenAIKey != "" {
		client, err := describe.New(zlog, describe.Config{
			APIKey:      cfg.OpenAIKey,
			BaseURL:     cfg.OpenAIBaseURL,
			Models:      candidateModels(cfg),
			Temperature: cfg.OpenAITemperature,
			Timeout:     time.Duration(cfg.DescribeTimeoutSec) * time.Second,
		})
		if err != nil {
			zlog.Fatal("Failed to build describe client", "error", err)
		}
		describer = client
	} else {
		zlog.Warn("OPENAI_API_KEY not set; /api/describe will report the missing key")
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
		BodyLimit:    32 * 1024 * 1024, // photo uploads
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(compress.New())

	// Prometheus metrics
	prometheus := fiberprometheus.New("geodescribe")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// Plain health probe plus the rich health document
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	// API routes under /api
	api := app.Group("/api")
	api.Use(middleware.VersionMiddleware())

	api.Get("/health", func(c *fiber.Ctx) error {
		result := services.HealthCheck(cfg, db, describer != nil)
		status := fiber.StatusOK
		if result.Status != "healthy" {
			status = fiber.StatusServiceUnavailable
		}
		return c.Status(status).JSON(result)
	})

	// Create handlers
	recordsHandler := &handlers.RecordsHandler{Store: recordStore, Log: zlog.With("handler", "records")}
	boreholesHandler := &handlers.BoreholesHandler{Store: recordStore, Log: zlog.With("handler", "boreholes")}
	describeHandler := &handlers.DescribeHandler{
		Client:  describer,
		Timeout: time.Duration(cfg.DescribeTimeoutSec) * time.Second,
		Log:     zlog.With("handler", "describe"),
	}

	// Sample record routes
	records := api.Group("/records")
	records.Post("/", recordsHandler.CreateRecord)
	records.Get("/", recordsHandler.ListRecords)
	records.Get("/:id", recordsHandler.GetRecord)
	records.Delete("/:id", recordsHandler.DeleteRecord)
	records.Patch("/:id/form", recordsHandler.PatchForm)
	records.Post("/:id/photos", recordsHandler.UploadPhotos)
	records.Post("/:id/photos/:index/primary", recordsHandler.SetPrimaryPhoto)
	records.Delete("/:id/photos/:index", recordsHandler.DeletePhoto)
	records.Get("/:id/color", recordsHandler.ColorSummary)
	records.Post("/:id/pxrf", recordsHandler.ImportPXRF)
	records.Get("/:id/export/markdown", recordsHandler.ExportMarkdown)
	records.Get("/:id/export/json", recordsHandler.ExportJSON)
	records.Get("/:id/draft", recordsHandler.Draft)

	// Borehole routes
	boreholes := api.Group("/boreholes")
	boreholes.Post("/", boreholesHandler.CreateBorehole)
	boreholes.Get("/", boreholesHandler.ListBoreholes)
	boreholes.Get("/:id", boreholesHandler.GetBorehole)
	boreholes.Patch("/:id", boreholesHandler.UpdateCollar)
	boreholes.Delete("/:id", boreholesHandler.DeleteBorehole)
	boreholes.Post("/:id/intervals", boreholesHandler.AddInterval)
	boreholes.Delete("/:id/intervals/:intervalId", boreholesHandler.DeleteInterval)
	boreholes.Get("/:id/export/csv", boreholesHandler.ExportCSV)

	// AI description
	api.Post("/describe", describeHandler.Describe)

	// JSON 404 for anything else under /api
	api.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"status":    fiber.StatusNotFound,
			"message":   "[404] Resource Not Found",
			"ok":        false,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"url":       c.OriginalURL(),
		})
	})

	// Static app shell on unmatched routes
	app.Use(filesystem.New(filesystem.Config{
		Root:         http.FS(web.App),
		PathPrefix:   "app",
		NotFoundFile: "app/index.html",
	}))

	// Graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		zlog.Info("Gracefully shutting down...")
		_ = app.Shutdown()
	}()

	zlog.Info("Starting server", "port", cfg.Port, "db", cfg.DBType)
	if err := app.Listen(":" + cfg.Port); err != nil {
		zlog.Fatal("Failed to start server", "error", err)
	}

	zlog.Info("Server stopped")
}

// candidateModels assembles the ordered model fallback list.
func candidateModels(cfg *config.Config) []string {
	models := []string{cfg.OpenAIModel}
	for _, m := range strings.Split(cfg.OpenAIFallbackModels, ",") {
		m = strings.TrimSpace(m)
		if m != "" && m != cfg.OpenAIModel {
			models = append(models, m)
		}
	}
	return models
}

// customErrorHandler handles errors globally
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := err.Error()
	errorType := "unknown"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	var custom *types.CustomError
	if errors.As(err, &custom) {
		code = custom.Code
		message = custom.Message
		errorType = custom.Type
	}

	return c.Status(code).JSON(fiber.Map{
		"status":    code,
		"message":   message,
		"ok":        false,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"url":       c.OriginalURL(),
		"type":      errorType,
	})
}
