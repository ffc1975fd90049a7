package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"evaluno/interview-api/internal/config"
	"evaluno/interview-api/internal/handlers"
	"evaluno/interview-api/internal/repositories"
	"evaluno/interview-api/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}
	log.Println("✅ Config loaded successfully")

	ctx := context.Background()

	// Initialize database
	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("❌ Failed to get database handle: %v", err)
	}

	// Initializes repositories
	docRepo := repositories.NewDocumentRepository(db)
	resultRepo := repositories.NewResultRepository(db)
	userRepo := repositories.NewUserRepository(db)
	log.Println("✅ Repositories initialized successfully")

	// Initialize services
	storageService, err := services.NewStorageService(ctx, cfg.Storage)
	if err != nil {
		log.Fatalf("❌ Failed to initialize CV archive: %v", err)
	}
	log.Printf("✅ CV archive backend: %s", storageService.Backend())

	llmClient, geminiService, err := services.NewLLMClient(ctx, cfg.LLM)
	if err != nil {
		log.Fatalf("❌ Failed to initialize LLM client: %v", err)
	}
	log.Printf("✅ LLM provider %s initialized (model %s)", cfg.LLM.Provider, cfg.LLM.Model)

	var questionBank services.QuestionBank
	switch {
	case cfg.Qdrant.URL == "":
		log.Println("⚠️ QDRANT_URL not set, question bank disabled")
	case geminiService == nil:
		log.Println("⚠️ GEMINI_API_KEY not set, question bank disabled")
	default:
		bank, err := services.NewQuestionBank(cfg.Qdrant.URL, cfg.Qdrant.APIKey, cfg.Qdrant.Collection, geminiService)
		if err != nil {
			log.Fatalf("❌ Failed to initialize Qdrant: %v", err)
		}
		if err := bank.InitCollection(ctx); err != nil {
			log.Printf("⚠️ Qdrant unavailable, question bank disabled: %v", err)
		} else {
			questionBank = bank
			log.Println("✅ Qdrant initialized successfully")
		}
	}

	settings := services.SettingsFromConfig(cfg.LLM)
	prompts := services.NewPromptBuilder()
	extractor := services.NewTextExtractor()

	interviewService := services.NewInterviewService(
		llmClient,
		prompts,
		settings,
		cfg.LLM.Timeout,
		resultRepo,
		docRepo,
		storageService,
		questionBank,
	)
	comparator := services.NewComparator(llmClient, prompts, settings, cfg.LLM.Timeout)

	authService, err := services.NewAuthService(
		userRepo,
		services.NewPasswordHasher(cfg.Auth.BcryptCost),
		services.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.JWTExpiry),
	)
	if err != nil {
		log.Fatalf("❌ Failed to initialize auth service: %v", err)
	}
	log.Println("✅ Services initialized successfully")

	// Initialize Handlers
	app := handlers.NewApp(handlers.Handlers{
		Interview: handlers.NewInterviewHandler(extractor, interviewService, cfg.Storage.MaxFileSize),
		Results:   handlers.NewResultHandler(resultRepo, docRepo),
		Search:    handlers.NewSearchHandler(questionBank),
		Compare:   handlers.NewCompareHandler(comparator, extractor, cfg.Storage.MaxFileSize),
		Auth:      handlers.NewAuthHandler(authService),
		Health:    handlers.NewHealthHandler(sqlDB),
	}, handlers.AppConfig{
		// Compare accepts several files in one request.
		BodyLimit:    int(cfg.Storage.MaxFileSize) * 5,
		AllowOrigins: cfg.Server.AllowOrigins,
		AllowMethods: cfg.Server.AllowMethods,
		AllowHeaders: cfg.Server.AllowHeaders,
		WriteTimeout: cfg.LLM.Timeout + cfg.Database.ConnectTimeout,
	})
	log.Println("✅ Handlers initialized")

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("🛑 Shutting down server...")
		if err := app.Shutdown(); err != nil {
			log.Printf("❌ Server forced to shutdown: %v", err)
		}
		if err := sqlDB.Close(); err != nil {
			log.Printf("❌ Failed to close database: %v", err)
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("🚀 Server starting on %s", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}
