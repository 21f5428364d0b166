package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rag-api/cmd/configs"
	"rag-api/internal/extractor"
	"rag-api/internal/handlers"
	"rag-api/internal/middleware"
	"rag-api/internal/services"
	"rag-api/pkg/llm"
	"rag-api/pkg/memorydb"
	"rag-api/pkg/weaviate"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file
	envPaths := []string{
		"../../.env", // From cmd/api/ to rag-api/.env
		".env",       // Current directory
	}

	envLoaded := false
	for _, path := range envPaths {
		if err := godotenv.Load(path); err == nil {
			log.Printf("Loaded .env from: %s", path)
			envLoaded = true
			break
		}
	}

	if !envLoaded {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg := configs.LoadConfig()

	ctx := context.Background()

	// Initialize Weaviate client
	weaviateClient, err := weaviate.NewWeaviateClient(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to connect to Weaviate: %v", err)
	}
	if err := weaviateClient.EnsureSchema(ctx); err != nil {
		log.Fatalf("Failed to ensure Weaviate schema: %v", err)
	}

	// Initialize Redis client
	redisClient, err := memorydb.NewRedisClient(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	// Initialize OpenAI client
	llmClient, err := llm.NewClient(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize LLM client: %v", err)
	}

	// Initialize the content extractor (lazy browser launch)
	contentExtractor := extractor.NewExtractor(cfg)

	// Initialize services (starts the ingestion workers)
	baseService := services.NewBaseService(weaviateClient, redisClient, llmClient, contentExtractor)
	svcs := services.NewServices(baseService, cfg)
	defer svcs.Close()

	// Initialize handlers
	h := handlers.NewHandlers(svcs)

	// Setup router
	router := setupRouter(cfg, h)

	// Create HTTP server
	srv := &http.Server{
		Addr:        fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:     router,
		ReadTimeout: time.Duration(cfg.Server.ReadTimeout) * time.Second,
		// Query responses stream; WriteTimeout would cut long
		// generations off, so only the idle timeout is bounded.
		IdleTimeout: time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on %s:%s", cfg.Server.Host, cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}

func setupRouter(cfg *configs.Config, h *handlers.Handlers) *gin.Engine {
	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.ErrorMiddleware())

	// Health check
	router.GET("/health", h.Health.Check())

	v1 := router.Group("/api/v1")
	{
		ingest := v1.Group("/ingest")
		{
			ingest.POST("", h.Ingest.SubmitJob())
			ingest.GET("/jobs/:job_id", h.Ingest.GetJobStatus())
		}

		v1.POST("/query", h.Query.Ask())
	}

	return router
}
