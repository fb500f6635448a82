// @title Quiz Builder API
// @version 1.0
// @description Builds multiple-choice quizzes from uploaded documents and runs quiz sessions.
// @host localhost:8090
// @BasePath /api
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type 'Bearer YOUR_SESSION_TOKEN' to authorize.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"quiz-builder/internal/adapter"
	"quiz-builder/internal/adapter/embedding"
	"quiz-builder/internal/adapter/extractor"
	"quiz-builder/internal/adapter/quizgen"
	"quiz-builder/internal/adapter/vectorstore"
	"quiz-builder/internal/cache"
	"quiz-builder/internal/config"
	"quiz-builder/internal/database"
	"quiz-builder/internal/domain"
	"quiz-builder/internal/handler"
	"quiz-builder/internal/logger"
	"quiz-builder/internal/middleware"
	"quiz-builder/internal/repository"
	"quiz-builder/internal/service"

	_ "quiz-builder/cmd/api/docs"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
)

// requestLogger is a middleware that logs HTTP requests
func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		path := c.Path()
		method := c.Method()

		err := c.Next()

		duration := time.Since(start)
		status := c.Response().StatusCode()

		logger.Get().Info("HTTP Request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("duration", duration),
			zap.String("ip", c.IP()),
		)

		return err
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	// Cache: redis when configured, in-process otherwise.
	var cacheAdapter domain.Cache
	if cfg.Redis.Address != "" {
		redisClient, err := cache.NewRedisClient(cfg.Redis)
		if err != nil {
			appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer redisClient.Close()
		cacheAdapter = adapter.NewRedisCacheAdapter(redisClient)
		appLogger.Info("Redis cache initialized", zap.String("address", cfg.Redis.Address))
	} else {
		cacheAdapter = adapter.NewMemoryCacheAdapter()
		appLogger.Info("In-memory cache initialized")
	}

	var embeddingService domain.EmbeddingService
	switch cfg.Embedding.Source {
	case "ollama":
		appLogger.Info("Initializing Ollama Embedding Service",
			zap.String("server_url", cfg.Embedding.Ollama.ServerURL),
			zap.String("model", cfg.Embedding.Ollama.Model))
		embeddingService, err = embedding.NewOllamaEmbeddingService(cfg.Embedding.Ollama.ServerURL, cfg.Embedding.Ollama.Model)
		if err != nil {
			appLogger.Fatal("Failed to create Ollama Embedding Service", zap.Error(err))
		}
	case "openai":
		appLogger.Info("Initializing OpenAI Embedding Service", zap.String("model", cfg.Embedding.OpenAI.Model))
		embeddingService, err = embedding.NewOpenAIEmbeddingService(cfg.Embedding.OpenAI.APIKey, cfg.Embedding.OpenAI.Model, cacheAdapter, cfg)
		if err != nil {
			appLogger.Fatal("Failed to create OpenAI Embedding Service", zap.Error(err))
		}
	default:
		appLogger.Fatal(fmt.Sprintf("Unsupported embedding source: %s", cfg.Embedding.Source))
	}

	generator, err := quizgen.NewOpenAIQuizGenerator(cfg.Generator.APIKey, cfg.Generator.Model, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to create quiz generator", zap.Error(err))
	}

	var index domain.VectorIndex
	switch cfg.Vector.Store {
	case "qdrant":
		appLogger.Info("Initializing Qdrant vector index",
			zap.String("host", cfg.Vector.QdrantHost),
			zap.Int("port", cfg.Vector.QdrantPort),
			zap.String("collection", cfg.Vector.Collection))
		index, err = vectorstore.NewQdrantIndex(context.Background(), cfg.Vector.QdrantHost, cfg.Vector.QdrantPort, cfg.Vector.Collection)
		if err != nil {
			appLogger.Fatal("Failed to connect to Qdrant", zap.Error(err))
		}
	case "memory":
		index = vectorstore.NewMemoryIndex()
		appLogger.Info("In-memory vector index initialized")
	default:
		appLogger.Fatal(fmt.Sprintf("Unsupported vector store: %s", cfg.Vector.Store))
	}
	defer index.Close()

	db, err := database.NewSQLXSQLiteDB(cfg)
	if err != nil {
		appLogger.Fatal("Failed to open database", zap.Error(err))
	}
	defer db.Close()
	if err := database.RunMigrations(db, "file://migrations"); err != nil {
		appLogger.Fatal("Failed to run migrations", zap.Error(err))
	}

	quizRepo := repository.NewQuizDatabaseAdapter(db)
	retriever := service.NewRetriever(embeddingService)
	builder := service.NewQuizBuilderService(
		extractor.New(extractor.DefaultChunkConfig()),
		embeddingService, generator, retriever, index, quizRepo, cfg,
	)
	sessions := service.NewSessionService(cacheAdapter, quizRepo, cfg)
	authService, err := service.NewAuthService(cfg)
	if err != nil {
		appLogger.Fatal("Failed to create auth service", zap.Error(err))
	}

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		ErrorHandler: middleware.ErrorHandler(),
		BodyLimit:    25 << 20,
	})
	app.Use(recover.New())
	app.Use(cors.New())
	app.Use(requestLogger())

	app.Get("/swagger/*", swagger.HandlerDefault)

	api := app.Group("/api")
	api.Post("/documents", handler.NewDocumentHandler(builder).IngestDocument)
	api.Post("/quizzes", handler.NewQuizHandler(builder, sessions, authService, cfg).BuildQuiz)

	sessionHandler := handler.NewSessionHandler(sessions)
	guarded := api.Group("/sessions/:id", middleware.SessionGuard(authService))
	guarded.Post("/answer", sessionHandler.Answer)
	guarded.Post("/advance", sessionHandler.Advance)
	guarded.Get("/result", sessionHandler.Result)

	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		appLogger.Info("Starting server", zap.String("address", addr))
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		appLogger.Error("Forced shutdown", zap.Error(err))
	}
	appLogger.Info("Server exited")
}
