package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"news-rag-backend/internal/ai"
	"news-rag-backend/internal/config"
	"news-rag-backend/internal/logger"
	"news-rag-backend/internal/news"
	"news-rag-backend/internal/scheduler"
	"news-rag-backend/internal/store"
	"news-rag-backend/internal/telemetry"
	"news-rag-backend/internal/vectordb"
	"news-rag-backend/middleware"
	"news-rag-backend/routes"
	"news-rag-backend/services"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger.InitLogger(cfg)

	if cfg.TracingEnabled {
		shutdown, err := telemetry.InitTracer("news-rag-backend", cfg.OTLPEndpoint)
		if err != nil {
			logger.Warn("Tracing disabled", "error", err)
		} else {
			defer shutdown()
		}
	}

	// Connect to Redis
	rdb, err := config.NewRedisClient(cfg)
	if err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}
	defer rdb.Close()

	// Build clients and services
	gemini, err := ai.NewGeminiClient(context.Background(), cfg)
	if err != nil {
		log.Fatal("Failed to create Gemini client:", err)
	}
	defer gemini.Close()

	feed := news.NewClient(cfg)
	index := vectordb.NewClient(cfg)
	sessions := store.NewSessionStore(rdb)

	ingestor := services.NewIngestor(feed, gemini, index, sessions,
		cfg.IngestTarget, cfg.IngestMaxAttempts, cfg.VectorDimensions)
	chat := services.NewChat(gemini, index, gemini, sessions, cfg.SearchTopK)

	// Schedule ingestion: one immediate run, then on the interval.
	sched := scheduler.NewScheduler()
	err = sched.ScheduleInterval("ingest-news", cfg.IngestInterval, func() {
		if err := ingestor.RunOnce(context.Background()); err != nil {
			if !errors.Is(err, services.ErrRunInProgress) {
				logger.Error("Scheduled ingestion run failed", "error", err)
			}
		}
	})
	if err != nil {
		log.Fatal("Failed to schedule ingestion:", err)
	}
	sched.Start()
	defer sched.Stop()

	// Initialize Gin router
	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware("news-rag-backend"))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.RateLimitMiddleware(rdb, cfg))

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "X-Requested-With"}
	router.Use(cors.New(corsConfig))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "timestamp": time.Now()})
	})

	// Setup routes
	routes.SetupChatRoutes(router, chat)
	routes.SetupNewsRoutes(router, chat, ingestor)

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	logger.Info("Server exited")
}
