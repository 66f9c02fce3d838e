package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"alfredoptarigan/hiring-pipeline/internal/config"
	"alfredoptarigan/hiring-pipeline/internal/handlers"
	"alfredoptarigan/hiring-pipeline/internal/logger"
	"alfredoptarigan/hiring-pipeline/internal/models"
	"alfredoptarigan/hiring-pipeline/internal/pipeline"
	"alfredoptarigan/hiring-pipeline/internal/repositories"
	"alfredoptarigan/hiring-pipeline/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	if err := logger.Initialize(cfg.JSONLogs()); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Cleanup()
	logger.Infof("✅ Config loaded successfully")

	if err := pipeline.ValidateTable(pipeline.Stages()); err != nil {
		logger.Fatalf("❌ Invalid stage table: %v", err)
	}

	// Initialize database
	db, err := config.InitDatabase(cfg)
	if err != nil {
		logger.Fatalf("❌ Failed to initialize database: %v", err)
	}

	// Initialize repositories
	docRepo := repositories.NewDocumentRepository(db)
	careerRepo := repositories.NewCareerRepository(db)
	interviewRepo := repositories.NewInterviewRepository(db)
	screeningRepo := repositories.NewScreeningRepository(db)
	logger.Infof("✅ Repositories initialized successfully")

	// Initialize services
	storageService := services.NewStorageService(cfg.Storage.UploadPath, cfg.Storage.MaxFileSize)
	if err := storageService.EnsureUploadDir(); err != nil {
		logger.Fatalf("❌ Failed to create upload directory: %v", err)
	}

	pdfParser := services.NewPDFParserService()

	geminiService, err := services.NewGeminiService(cfg.Gemini.APIKey, cfg.Worker.RetryInitialDelay)
	if err != nil {
		logger.Fatalf("❌ Failed to initialize Gemini AI: %v", err)
	}
	logger.Infof("✅ Gemini AI initialized successfully")

	qdrantService, err := services.NewQdrantService(
		cfg.Qdrant.URL,
		cfg.Qdrant.APIKey,
		cfg.Qdrant.Collection,
	)
	if err != nil {
		logger.Fatalf("❌ Failed to initialize Qdrant: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := qdrantService.InitCollection(ctx); err != nil {
		logger.Fatalf("❌ Failed to initialize Qdrant collection: %v", err)
	}
	logger.Infof("✅ Qdrant initialized successfully")

	ingestService := services.NewIngestService(geminiService, qdrantService, pdfParser, services.NewTextChunker())

	pipelineService := services.NewPipelineService(interviewRepo, pipeline.NewEngine(), services.ScreeningPolicy{
		PassThreshold: cfg.Screening.PassThreshold,
		Actor: models.Actor{
			Name:  cfg.Screening.ActorName,
			Email: cfg.Screening.ActorEmail,
		},
	})

	screeningService := services.NewScreeningService(
		screeningRepo,
		docRepo,
		careerRepo,
		pipelineService,
		geminiService,
		qdrantService,
		pdfParser,
		cfg.Worker.RetryMaxAttempts,
	)

	worker := services.NewWorker(
		screeningRepo,
		screeningService,
		cfg.Worker.Concurrency,
		cfg.Worker.PollInterval,
	)
	worker.Start(ctx)
	logger.Infof("✅ Worker started successfully")

	careerService := services.NewCareerService(
		careerRepo,
		interviewRepo,
		docRepo,
		screeningRepo,
		storageService,
		ingestService,
		worker,
	)
	logger.Infof("✅ Services initialized successfully")

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Hiring Pipeline API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		BodyLimit:    int(cfg.Storage.MaxFileSize) + 1<<20,
		ErrorHandler: handlers.ErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// Routes
	api := app.Group("/api/v1")
	handlers.RegisterRoutes(
		api,
		handlers.NewCareerHandler(careerService),
		handlers.NewScreeningHandler(screeningService),
		handlers.NewInterviewHandler(pipelineService),
	)

	// Root route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Hiring Pipeline API",
			"version": "1.0.0",
			"endpoints": []string{
				"GET /api/v1/stages",
				"POST /api/v1/careers",
				"GET /api/v1/careers/:careerId",
				"POST /api/v1/careers/:careerId/apply",
				"GET /api/v1/careers/:careerId/interviews",
				"GET /api/v1/careers/:careerId/pipeline",
				"GET /api/v1/careers/:careerId/history",
				"GET /api/v1/screenings/:id",
				"POST /api/v1/interviews/:id/update",
				"POST /api/v1/interviews/:id/reset-interview-data",
				"POST /api/v1/interviews/:id/actions",
				"GET /api/v1/interviews/:id/history",
			},
		})
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		logger.Infof("🛑 Shutting down server...")
		cancel()
		worker.Stop()
		if err := app.Shutdown(); err != nil {
			logger.Errorf("❌ Server forced to shutdown: %v", err)
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	logger.Infof("🚀 Server starting on %s", addr)

	if err := app.Listen(addr); err != nil {
		logger.Fatalf("❌ Failed to start server: %v", err)
	}
}
