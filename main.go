package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"clausevault/config"
	"clausevault/handler"
	"clausevault/middleware"
	"clausevault/pkg/logger"
	"clausevault/service"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	logger.Init(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})

	slog.Info("configuration loaded successfully")

	if cfg.Auth.JWTSecret == "" {
		slog.Error("auth.jwt_secret is required")
		os.Exit(1)
	}
	if cfg.OpenAI.APIKey == "" {
		slog.Warn("openai.api_key is not set, analyze requests will fail")
	}

	ctx := context.Background()

	// Pick the persistence backend
	var store service.Store
	switch cfg.Store.Driver {
	case "mongo":
		mongoStore, err := service.NewMongoStore(ctx, &cfg.Mongo)
		if err != nil {
			slog.Error("failed to connect to mongodb", "error", err)
			os.Exit(1)
		}
		defer mongoStore.Close(context.Background())
		store = mongoStore
		slog.Info("using mongodb store", "database", cfg.Mongo.Database)
	case "memory":
		store = service.NewMemoryStore()
		slog.Warn("using in-memory store, data is lost on restart")
	default:
		slog.Error("unknown store driver", "driver", cfg.Store.Driver)
		os.Exit(1)
	}

	// Pick the upload artifact backend
	var files service.FileStore
	var localFiles *service.LocalFileStore
	switch cfg.Files.Driver {
	case "minio":
		minioFiles, err := service.NewMinioFileStore(&cfg.Minio)
		if err != nil {
			slog.Error("failed to initialize minio file store", "error", err)
			os.Exit(1)
		}
		if err := minioFiles.EnsureBucket(ctx); err != nil {
			slog.Error("failed to ensure minio bucket", "error", err)
			os.Exit(1)
		}
		files = minioFiles
		slog.Info("using minio file store", "bucket", cfg.Minio.Bucket)
	case "local":
		localFiles, err = service.NewLocalFileStore(cfg.Files.Dir)
		if err != nil {
			slog.Error("failed to initialize upload dir", "error", err)
			os.Exit(1)
		}
		files = localFiles
		slog.Info("using local file store", "dir", cfg.Files.Dir)
	default:
		slog.Error("unknown files driver", "driver", cfg.Files.Driver)
		os.Exit(1)
	}

	analyzer := service.NewAnalyzer(&cfg.OpenAI)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(store, &cfg.Auth)
	settingsHandler := handler.NewSettingsHandler(store)
	contractHandler := handler.NewContractHandler(store, files, analyzer, cfg.Server.MaxUploadSize)

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New() // Use New() instead of Default() to avoid default middleware

	router.MaxMultipartMemory = cfg.Server.MaxUploadSize

	// Add custom middleware
	router.Use(middleware.RequestID())     // Request ID for tracing
	router.Use(middleware.Recovery())      // Panic recovery
	router.Use(middleware.RequestLogger()) // Access logging
	router.Use(corsMiddleware())           // CORS

	// Serve uploaded artifacts read-only when stored on local disk
	if localFiles != nil {
		router.Static("/uploads", localFiles.Dir())
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})

	// Public routes
	api := router.Group("/api")
	{
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)
	}

	// Protected routes
	protected := api.Group("/")
	protected.Use(middleware.Auth(&cfg.Auth))
	{
		protected.GET("/settings", settingsHandler.Get)
		protected.PUT("/settings", settingsHandler.Update)
		protected.GET("/contracts", contractHandler.List)
		protected.POST("/contracts", contractHandler.Create)
		protected.DELETE("/contracts/:id", contractHandler.Delete)
		protected.POST("/contracts/upload", contractHandler.Upload)
		protected.POST("/contracts/:id/analyze", contractHandler.Analyze)
	}

	// Create server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		slog.Info("server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server exited gracefully")
}

// corsMiddleware handles CORS headers
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "X-Request-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
