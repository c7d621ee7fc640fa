package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/phambaophuc/image-toolkit/internal/config"
	"github.com/phambaophuc/image-toolkit/internal/http/handlers"
	"github.com/phambaophuc/image-toolkit/internal/http/routes"
	"github.com/phambaophuc/image-toolkit/internal/services/processor"
	"github.com/phambaophuc/image-toolkit/internal/services/queue"
	"github.com/phambaophuc/image-toolkit/internal/services/ratelimit"
	"github.com/phambaophuc/image-toolkit/internal/services/storage"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration: ", err)
	}

	// Initialize logger
	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		log.Fatal("Failed to initialize logger: ", err)
	}
	defer logger.Sync()

	if cfg.LogLevel == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize services
	imageProcessor := processor.NewImageProcessor(cfg.Processor.Workers, cfg.Processor.Timeout)

	storageService, err := storage.NewStorageService(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize storage service", zap.Error(err))
	}

	quotaStore, err := ratelimit.NewStore(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize quota store", zap.Error(err))
	}
	defer quotaStore.Close()
	limiter := ratelimit.NewLimiter(cfg.Auth.APIKeys, cfg.Auth.RateLimit, quotaStore)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	var events queue.Publisher = queue.NoopPublisher{}
	if cfg.RabbitMQ.URL != "" {
		queueService, err := queue.NewQueueService(cfg.RabbitMQ.URL, cfg.RabbitMQ.Queue, logger)
		if err != nil {
			// Continue without events; transforms do not depend on the broker.
			logger.Warn("Failed to initialize queue service", zap.Error(err))
		} else {
			defer queueService.Close()
			events = queueService

			if cfg.RabbitMQ.Consume {
				if err := queueService.StartConsumer(ctx, 1, queue.LogEvents(logger)); err != nil {
					logger.Warn("Failed to start event consumer", zap.Error(err))
				}
			}
		}
	}

	// Initialize handlers
	imageHandler := handlers.NewImageHandler(imageProcessor, storageService, quotaStore, events, logger, cfg)

	router := routes.NewRouter(imageHandler, limiter, storageService.Backend(), cfg, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		Handler:      router.SetupRoutes(),
	}

	// Start server
	go func() {
		logger.Info("Starting server",
			zap.String("addr", server.Addr),
			zap.Int("workers", cfg.Processor.Workers),
			zap.String("rate_limit_backend", quotaStore.Name()))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	stop()

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}

	zapCfg := zap.NewProductionConfig()
	zapCfg.Level = zap.NewAtomicLevelAt(lvl)
	return zapCfg.Build()
}
