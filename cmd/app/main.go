package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "vocab-progress-backend/docs"
	"vocab-progress-backend/internal/bootstrap"
	"vocab-progress-backend/internal/common/config"
	"vocab-progress-backend/internal/common/logger"
	"vocab-progress-backend/internal/common/middleware"
	contenthttp "vocab-progress-backend/internal/features/content/delivery/http"
	contentmodels "vocab-progress-backend/internal/features/content/models"
	contentservice "vocab-progress-backend/internal/features/content/service"
	progresshttp "vocab-progress-backend/internal/features/progress/delivery/http"
	"vocab-progress-backend/internal/features/progress/models"
	progressservice "vocab-progress-backend/internal/features/progress/service"
	"vocab-progress-backend/internal/workers"
)

const serviceName = "vocab-progress-backend"

// @title           Vocab Progress API
// @version         1.0
// @description     Progress, rewards and cosmetics for the vocabulary game client.

// @BasePath  /api/v1

// @securityDefinitions.apikey TelegramInitData
// @in header
// @name init_data
// @description Telegram Mini App init_data string. Without it the learner is identified by X-Learner-ID or the learner_id cookie.

// @tag.name progress
// @tag.description Coins, unlocked levels and best scores

// @tag.name shop
// @tag.description Cosmetic catalog, purchases and the avatar

// @tag.name content
// @tag.description Question rounds and the exam countdown

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(serviceName, cfg.Debug)
	logger.Info().Bool("debug", cfg.Debug).Str("durable_backend", cfg.Storage.Durable).Msg("Starting vocab progress backend")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	storage, err := bootstrap.OpenStorage(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to open storage")
	}
	defer storage.Close()

	policy := progressservice.NewRewardPolicy(cfg.Rewards)
	registry := progressservice.NewRegistry(storage.StoreFactory(policy, models.DefaultCatalog), progressservice.DefaultRegistrySize)
	progressSvc := progressservice.NewProgressService(registry, policy, models.DefaultCatalog)

	bank, err := contentmodels.DefaultBank()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load question bank")
	}
	contentSvc := contentservice.NewContentService(bank, cfg.Content)

	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()

	workerDone := make(chan struct{})
	if cfg.Events.Enabled {
		eventWorker := workers.NewEventStreamWorker(storage.Redis, cfg.Events)
		registry.Subscribe(eventWorker.Publish)
		go func() {
			eventWorker.Start(workerCtx)
			close(workerDone)
		}()
	} else {
		close(workerDone)
	}

	logger.Info().Msg("Services initialized")

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.ErrorHandler())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.Server.Origins
	corsConfig.AllowCredentials = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Content-Type", "Accept", "init_data", "X-Telegram-Init-Data", middleware.LearnerHeader, "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{middleware.LearnerHeader, "X-Request-ID"}
	router.Use(cors.New(corsConfig))

	setupRoutes(router, cfg, storage, progressSvc, contentSvc)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Int("port", cfg.Server.Port).Msg("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	shutdown(shutdownCtx, server, stopWorker, workerDone)

	logger.Info().Msg("Server exited")
}

type shutdowner interface {
	Shutdown(ctx context.Context) error
}

// shutdown stops the HTTP server first and the event worker after it, so
// transitions committed by draining requests are still streamed.
func shutdown(ctx context.Context, server shutdowner, stopWorker context.CancelFunc, workerDone <-chan struct{}) {
	if err := server.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}
	stopWorker()
	<-workerDone
}

func setupRoutes(
	router *gin.Engine,
	cfg *config.Config,
	storage *bootstrap.Storage,
	progressSvc progressservice.ProgressService,
	contentSvc contentservice.ContentService,
) {
	v1 := router.Group("/api/v1")
	contenthttp.NewContentHandler(contentSvc).RegisterRoutes(v1)

	learner := v1.Group("")
	learner.Use(middleware.HandleErrorWrapper(middleware.Learner(cfg.Telegram)))
	progresshttp.NewProgressHandler(progressSvc).RegisterRoutes(learner)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().UTC(),
			"service":   serviceName,
		})
	})

	// Liveness probe
	router.GET("/live", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	// Readiness probe
	router.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := storage.HealthCheck(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "unready",
				"details": err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "ready",
			"timestamp": time.Now().UTC(),
			"service":   serviceName,
		})
	})
}
