package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

type Handlers struct {
	Interview *InterviewHandler
	Results   *ResultHandler
	Search    *SearchHandler
	Compare   *CompareHandler
	Auth      *AuthHandler
	Health    *HealthHandler
}

type AppConfig struct {
	BodyLimit    int
	AllowOrigins string
	AllowMethods string
	AllowHeaders string
	// Must exceed the LLM deadline.
	WriteTimeout time.Duration
}

// NewApp builds the fiber app with middleware and every route mounted.
func NewApp(h Handlers, cfg AppConfig) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "Interview Q&A API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.WriteTimeout,
		BodyLimit:    cfg.BodyLimit,
		ErrorHandler: ErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowOrigins,
		AllowMethods: cfg.AllowMethods,
		AllowHeaders: cfg.AllowHeaders,
	}))

	// Root route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Welcome to the Interview Q&A API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /auth/register",
				"POST /auth/login",
				"GET /auth/me",
				"POST /interview/upload",
				"POST /interview/generate-type",
				"GET /interview/results/:id",
				"GET /interview/results?user_id=",
				"GET /interview/similar?q=",
				"POST /compare",
			},
		})
	})

	app.Get("/health", h.Health.HandleHealth)
	app.Get("/check-db", h.Health.HandleCheckDB)

	auth := app.Group("/auth")
	auth.Post("/register", h.Auth.HandleRegister)
	auth.Post("/login", h.Auth.HandleLogin)
	auth.Get("/me", h.Auth.HandleMe)

	interview := app.Group("/interview")
	interview.Post("/upload", h.Interview.HandleUpload)
	interview.Post("/generate-type", h.Interview.HandleGenerateType)
	interview.Get("/results", h.Results.HandleListResults)
	interview.Get("/results/:id", h.Results.HandleGetResult)
	interview.Get("/similar", h.Search.HandleSimilar)

	app.Post("/compare", h.Compare.HandleCompare)

	return app
}
