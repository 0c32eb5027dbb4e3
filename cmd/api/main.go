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
	"go.uber.org/zap"

	"alfredoptarigan/interview-copilot/internal/catalog"
	"alfredoptarigan/interview-copilot/internal/config"
	"alfredoptarigan/interview-copilot/internal/handlers"
	"alfredoptarigan/interview-copilot/internal/interview"
	"alfredoptarigan/interview-copilot/internal/logger"
	"alfredoptarigan/interview-copilot/internal/repositories"
	"alfredoptarigan/interview-copilot/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	log, err := logger.New(cfg.Logging.JSON, cfg.Logging.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	log.Info("✅ Config loaded successfully", zap.Strings("env_files", cfg.EnvFiles))

	// Initialize database
	db, err := config.InitDatabase(cfg, log)
	if err != nil {
		log.Fatal("❌ Failed to initialize database", zap.Error(err))
	}

	// Initialize repositories
	resumeRepo := repositories.NewResumeRepository(db)
	docRepo := repositories.NewDocumentRepository(db)
	interviewRepo := repositories.NewInterviewRepository(db)
	log.Info("✅ Repositories initialized successfully")

	cat, err := catalog.Load(cfg.Interview.CatalogPath)
	if err != nil {
		log.Fatal("❌ Failed to load question catalog", zap.Error(err))
	}
	log.Info("✅ Question catalog loaded",
		zap.Int("questions", len(cat.Questions())),
		zap.Strings("categories", cat.Categories()),
	)

	// Initialize services
	storageService := services.NewStorageService(cfg.Storage.UploadPath)
	if err := storageService.EnsureUploadDir(); err != nil {
		log.Fatal("❌ Failed to create upload directory", zap.Error(err))
	}
	pdfParser := services.NewPDFParserService()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	geminiService, err := services.NewGeminiService(ctx, services.GeminiOptions{
		APIKey:     cfg.Gemini.APIKey,
		Model:      cfg.Gemini.Model,
		EmbedModel: cfg.Gemini.EmbedModel,
	}, log)
	if err != nil {
		log.Fatal("❌ Failed to initialize Gemini AI", zap.Error(err))
	}
	log.Info("✅ Gemini AI initialized successfully")

	qdrantService, err := services.NewQdrantService(
		cfg.Qdrant.URL,
		cfg.Qdrant.APIKey,
		cfg.Qdrant.Collection,
		cfg.Qdrant.VectorSize,
		log,
	)
	if err != nil {
		log.Fatal("❌ Failed to initialize Qdrant", zap.Error(err))
	}
	if err := qdrantService.InitCollection(ctx); err != nil {
		log.Fatal("❌ Failed to initialize Qdrant collection", zap.Error(err))
	}
	log.Info("✅ Qdrant initialized successfully")

	publisher := services.NewNoopPublisher()
	if cfg.Redis.Enabled() {
		publisher, err = services.NewRedisPublisher(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatal("❌ Failed to initialize transcript feed", zap.Error(err))
		}
		log.Info("✅ Live transcript feed enabled", zap.String("redis", cfg.Redis.Addr))
	}
	defer publisher.Close()

	interviewer := services.NewLLMInterviewer(geminiService, log)
	sink := services.MultiSink{
		services.NewFileSink(cfg.Storage.TranscriptDir),
		services.NewDatabaseSink(interviewRepo),
		services.NewTranscriptIndexSink(services.NewIngestor(geminiService, qdrantService, log)),
	}

	manager := services.NewInterviewManager(services.ManagerDeps{
		Planner: services.NewRetrievalPlanner(
			services.NewQuestionIndex(geminiService, qdrantService, cat),
			cfg.Interview.QuestionsPerCategory,
			log,
		),
		Writer:    interviewer,
		Evaluator: interviewer,
		Sink:      sink,
		Publisher: publisher,
		Session: interview.Config{
			Policy: interview.FollowUpPolicy{
				MinAnswerWords:     cfg.Interview.FollowUpMinWords,
				MinKeywordCoverage: cfg.Interview.FollowUpMinCoverage,
			},
			TimeLimit: cfg.Interview.TimeLimit,
		},
		PerCategory: cfg.Interview.QuestionsPerCategory,
		Log:         log,
	})
	log.Info("✅ Services initialized successfully")

	// Start worker
	worker := services.NewWorker(manager, cfg.Worker.PollInterval, log)
	worker.Start(ctx)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Interview Copilot API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 2 * time.Minute,
		BodyLimit:    int(cfg.Storage.MaxFileSize),
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

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":            "healthy",
			"time":              time.Now(),
			"active_interviews": manager.Active(),
			"media":             cfg.Media.Configured(),
		})
	})

	handlers.Register(api, db, handlers.Handlers{
		Resume: handlers.NewResumeHandler(resumeRepo),
		Interview: handlers.NewInterviewHandler(handlers.InterviewHandlerDeps{
			Manager:        manager,
			Catalog:        cat,
			ResumeRepo:     resumeRepo,
			DocRepo:        docRepo,
			InterviewRepo:  interviewRepo,
			StorageService: storageService,
			PDFParser:      pdfParser,
			MaxFileSize:    cfg.Storage.MaxFileSize,
			Log:            log,
		}),
		Catalog: handlers.NewCatalogHandler(cat),
		Upload:  handlers.NewUploadHandler(docRepo, storageService, cfg.Storage.MaxFileSize),
		Result:  handlers.NewResultHandler(interviewRepo),
		StudyPlan: handlers.NewStudyPlanHandler(handlers.StudyPlanHandlerDeps{
			Planner:    services.NewStudyPlanner(geminiService, cat, log),
			Catalog:    cat,
			ResumeRepo: resumeRepo,
			DocRepo:    docRepo,
			PDFParser:  pdfParser,
			Log:        log,
		}),
	})

	// Root route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Interview Copilot API",
			"version": "1.0.0",
			"endpoints": []string{
				"GET|POST /api/v1/resumes",
				"GET /api/v1/resumes/:id/full",
				"POST /api/v1/interviews",
				"POST /api/v1/interviews/:id/turns",
				"POST /api/v1/interviews/:id/finalize",
				"GET /api/v1/catalog/questions",
				"POST /api/v1/upload",
				"GET /api/v1/results/:id",
				"POST /api/v1/study-plans",
			},
		})
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Info("🛑 Shutting down server...")
		worker.Stop()
		cancel()
		if err := app.Shutdown(); err != nil {
			log.Error("❌ Server forced to shutdown", zap.Error(err))
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Info("🚀 Server starting", zap.String("addr", addr))

	if err := app.Listen(addr); err != nil {
		log.Fatal("❌ Failed to start server", zap.Error(err))
	}
}
