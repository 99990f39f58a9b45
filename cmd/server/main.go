package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/matchday/terrace/internal/api"
	"github.com/matchday/terrace/internal/cache"
	"github.com/matchday/terrace/internal/comments"
	"github.com/matchday/terrace/internal/db"
	"github.com/matchday/terrace/internal/ratelimit"
	"github.com/matchday/terrace/pkg/config"
	"github.com/matchday/terrace/pkg/logging"
	"github.com/matchday/terrace/pkg/telemetry"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logging.InitLogger(&cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logging.GetLogger().Sync()

	logger := logging.GetLogger()
	logger.Info("Starting Terrace Comment API Server")

	// Initialize telemetry
	telemetryShutdown, err := telemetry.Init(&cfg.Telemetry)
	if err != nil {
		logger.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer telemetryShutdown()

	// Connect to database
	database, err := db.New(&cfg.Database, cfg.Logging.Level)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close()

	// Connect to Redis (optional)
	redisCache, err := cache.New(&cfg.Redis)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisCache.Close()

	// Wire the comment service
	repo := db.NewRepository(database.DB)
	window := cfg.Comments.RateLimitWindow()

	var limiter ratelimit.Limiter
	if redisCache != nil {
		limiter = cache.NewLimiter(redisCache, window)
		logger.Info("Using redis rate limiter")
	} else {
		limiter = db.NewRateLimitRepository(repo, window)
		logger.Info("Using database rate limiter")
	}

	gate := comments.NewGate(limiter, comments.GateConfig{
		RateLimitMax:     int64(cfg.Comments.RateLimitMaxActions),
		MinAccountAge:    cfg.Comments.MinAccountAge(),
		MaxContentLength: cfg.Comments.MaxContentLength,
	})
	svc := comments.NewService(
		gate,
		comments.NewClassifier(),
		db.NewCommentRepository(repo),
		db.NewReactionRepository(repo),
		db.NewReportRepository(repo),
		comments.ServiceConfig{ApprovalThreshold: cfg.Comments.SpamApprovalThreshold},
	)

	// Create Gin router
	if cfg.Logging.Level == "DEBUG" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	apiRouter := api.NewRouter(database, redisCache, svc)
	apiRouter.SetupRoutes(router)

	// Create HTTP server
	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		logger.Info("Server starting", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
