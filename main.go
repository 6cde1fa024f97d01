package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/text-analyzer/backend/api"
	"github.com/text-analyzer/backend/config"
	"github.com/text-analyzer/backend/logging"
	"github.com/text-analyzer/backend/metrics"
	"github.com/text-analyzer/backend/middleware"
	"github.com/text-analyzer/backend/service"
	"github.com/text-analyzer/backend/stats"
)

func main() {
	// Load environment configuration
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel, cfg.LogFormat)
	for _, w := range cfg.Warnings {
		logger.Warn("config", "err", w)
	}

	gin.SetMode(cfg.GinMode)

	// Initialize services
	storage, err := stats.NewStorage(cfg.DataDir, cfg.StatsRetainMonths)
	if err != nil {
		logger.Fatal("failed to initialize stats storage", "err", err)
	}
	statistics, err := logging.NewStatistics(filepath.Join(cfg.DataDir, "statistics.json"))
	if err != nil {
		logger.Warn("could not load existing statistics", "err", err)
	}
	collector := metrics.New()
	analysisService := service.New(service.Options{
		CacheSize:    cfg.CacheSize,
		CacheTTL:     cfg.CacheTTL,
		MaxTextBytes: cfg.MaxTextBytes,
	}, storage, collector, logger)
	rateLimiter := middleware.NewRateLimiter(cfg.RateLimit, cfg.RateBurst)

	r := gin.New()
	r.Use(gin.Logger())
	r.Use(middleware.ErrorHandler(logger))

	// CORS middleware
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Accept, Origin, Cache-Control, X-Requested-With")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	r.GET("/metrics", gin.WrapH(collector.Handler()))

	limited := r.Group("/")
	limited.Use(rateLimiter.RateLimit())
	limited.Use(middleware.StatsMiddleware(statistics, collector, logger, api.AnalyzePath, api.AnalyzeViewPath))
	api.New(analysisService, statistics, cfg.DevMode, logger).Register(limited)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server starting", "addr", "http://localhost:"+cfg.Port, "mode", cfg.GinMode)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("failed to start server", "err", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown", "err", err)
	}
	if err := statistics.Save(); err != nil {
		logger.Error("could not save statistics", "err", err)
	}
	if err := analysisService.Shutdown(); err != nil {
		logger.Error("service shutdown", "err", err)
	}
}
