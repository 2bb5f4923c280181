package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"smarthire/internal/config"
	"smarthire/internal/handlers"
	"smarthire/internal/models"
	"smarthire/internal/repositories"
	"smarthire/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log.Println("✅ Config loaded successfully")

	// Initialize database
	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	// Initialize repositories
	candidateRepo := repositories.NewCandidateRepository(db)
	positionRepo := repositories.NewPositionRepository(db)
	questionRepo := repositories.NewQuestionRepository(db)
	interviewRepo := repositories.NewInterviewRepository(db)
	responseRepo := repositories.NewResponseRepository(db)
	taskRepo := repositories.NewTaskRepository(db)
	log.Println("✅ Repositories initialized successfully")

	// Initialize storage
	storageService := services.NewStorageService(cfg.Storage.UploadPath)
	if err := storageService.EnsureDirs(); err != nil {
		log.Fatalf("❌ Failed to create upload directories: %v", err)
	}

	// Initialize Gemini AI
	geminiService, err := services.NewGeminiService(cfg.Gemini.APIKey)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Gemini AI: %v", err)
	}

	// Initialize providers
	transcriber := services.NewHTTPTranscriber(
		cfg.Transcribe.BaseURL,
		cfg.Transcribe.APIKey,
		cfg.Transcribe.PollInterval,
		cfg.Transcribe.Timeout,
		storageService,
	)
	toneAnalyzer := services.NewGeminiToneAnalyzer(geminiService, cfg.Worker.RetryMaxAttempts)
	personality := services.NewGeminiPersonalityPredictor(geminiService, cfg.Worker.RetryMaxAttempts)
	resumeParser := services.NewResumeParser()
	chartRenderer := services.NewToneChartRenderer()
	notifier := services.NewSMTPNotifier(
		cfg.Mail.Host,
		cfg.Mail.Port,
		cfg.Mail.Username,
		cfg.Mail.Password,
		cfg.Mail.From,
	)
	log.Println("✅ Services initialized successfully")

	// Initialize transcript search when a vector store is configured
	var transcriptIndex services.TranscriptIndex
	if cfg.Qdrant.URL != "" {
		index, err := services.NewQdrantTranscriptIndex(
			cfg.Qdrant.URL,
			cfg.Qdrant.APIKey,
			cfg.Qdrant.Collection,
			geminiService,
		)
		if err != nil {
			log.Fatalf("❌ Failed to initialize Qdrant: %v", err)
		}
		if err := index.InitCollection(); err != nil {
			log.Fatalf("❌ Failed to initialize Qdrant collection: %v", err)
		}
		transcriptIndex = index
		log.Println("✅ Qdrant initialized successfully")
	} else {
		log.Println("⚠️  QDRANT_URL not set, transcript search disabled")
	}

	// Initialize the processing pipeline
	worker := services.NewWorker(
		taskRepo,
		cfg.Worker.Concurrency,
		cfg.Worker.QueueSize,
		cfg.Worker.PollInterval,
		cfg.Worker.RetryBackoff,
	)
	completion := services.NewCompletionDetector(interviewRepo, responseRepo, worker, cfg.Worker.RetryMaxAttempts)
	processor := services.NewResponseProcessor(responseRepo, transcriber, toneAnalyzer, completion)
	aggregator := services.NewInterviewAggregator(interviewRepo, responseRepo, chartRenderer, storageService, transcriptIndex)
	worker.RegisterHandler(models.TaskProcessResponse, processor.Process)
	worker.RegisterHandler(models.TaskAggregateInterview, aggregator.Aggregate)
	log.Println("✅ Pipeline initialized successfully")

	submissionService := services.NewSubmissionService(
		interviewRepo,
		responseRepo,
		candidateRepo,
		questionRepo,
		positionRepo,
		storageService,
		worker,
		cfg.Worker.RetryMaxAttempts,
	)
	decisionService := services.NewDecisionService(interviewRepo, notifier)
	reportService := services.NewReportService(interviewRepo, candidateRepo)

	// Start worker
	ctx := context.Background()
	worker.Start(ctx)

	// Initialize handlers
	candidateHandler := handlers.NewCandidateHandler(
		candidateRepo,
		storageService,
		resumeParser,
		personality,
		cfg.Storage.MaxFileSize,
	)
	catalogHandler := handlers.NewCatalogHandler(questionRepo, positionRepo)
	interviewHandler := handlers.NewInterviewHandler(interviewRepo, responseRepo, submissionService, storageService)
	responseHandler := handlers.NewResponseHandler(submissionService, cfg.Storage.MaxFileSize)
	decisionHandler := handlers.NewDecisionHandler(decisionService)
	searchHandler := handlers.NewSearchHandler(transcriptIndex)
	reportHandler := handlers.NewReportHandler(reportService)
	log.Println("✅ Handlers initialized")

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "SmartHire API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		BodyLimit:    int(cfg.Storage.MaxFileSize),
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
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

	// Health check
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	// Candidates
	api.Post("/candidates", candidateHandler.HandleCreate)
	api.Get("/candidates/:id/profile", candidateHandler.HandleGetProfile)
	api.Post("/candidates/:id/profile", candidateHandler.HandleUpdateProfile)

	// Catalog
	api.Get("/questions", catalogHandler.HandleListQuestions)
	api.Get("/positions", catalogHandler.HandleListPositions)
	api.Post("/positions", catalogHandler.HandleCreatePosition)

	// Interviews
	api.Post("/interviews", interviewHandler.HandleStart)
	api.Get("/interviews/:id", interviewHandler.HandleGetSummary)
	api.Get("/interviews/:id/chart", interviewHandler.HandleGetChart)
	api.Post("/interviews/:id/responses", responseHandler.HandleSubmit)
	api.Post("/responses/:id/retry", responseHandler.HandleRetry)

	// HR actions
	api.Post("/interviews/:id/evaluation", decisionHandler.HandleEvaluate)
	api.Post("/interviews/:id/decision", decisionHandler.HandleDecide)

	// Search and reporting
	api.Get("/search/transcripts", searchHandler.HandleSearch)
	api.Get("/reports/interviews", reportHandler.HandleDownload)

	// Root route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "SmartHire API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/v1/candidates",
				"POST /api/v1/candidates/:id/profile",
				"GET /api/v1/questions",
				"POST /api/v1/interviews",
				"POST /api/v1/interviews/:id/responses",
				"GET /api/v1/interviews/:id",
				"GET /api/v1/interviews/:id/chart",
				"POST /api/v1/interviews/:id/evaluation",
				"POST /api/v1/interviews/:id/decision",
				"GET /api/v1/search/transcripts",
				"GET /api/v1/reports/interviews",
			},
		})
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("\n🛑 Shutting down server...")
		worker.Stop()
		if err := app.Shutdown(); err != nil {
			log.Printf("❌ Server forced to shutdown: %v", err)
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("🚀 Server starting on %s\n", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
