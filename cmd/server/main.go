package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/recallcode/recallcode/internal/api"
	"github.com/recallcode/recallcode/internal/config"
	"github.com/recallcode/recallcode/internal/db"
	"github.com/recallcode/recallcode/internal/logger"
	"github.com/recallcode/recallcode/internal/repository/sqlite"
	"github.com/recallcode/recallcode/internal/services"
	"github.com/recallcode/recallcode/internal/srs"
	"github.com/recallcode/recallcode/internal/worker"
)

func main() {
	cfg := config.Load()

	// Initialize logger
	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("RecallCode Server Starting")
	log.Info("===========================================")
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration: %v", err)
		os.Exit(1)
	}
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("batch_worker_count=%d", cfg.BatchWorkerCount)
	log.Debug("batch_queue_size=%d", cfg.BatchQueueSize)
	log.Debug("batch_interval_minutes=%d", cfg.BatchIntervalMinutes)
	log.Debug("batch_user_timeout_seconds=%d", cfg.BatchUserTimeoutSecs)
	log.Debug("plan_due_limit=%d", cfg.PlanDueLimit)
	log.Debug("plan_new_limit=%d", cfg.PlanNewLimit)

	// Open database
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	// Initialize repositories
	reviewRepo := sqlite.NewReviewRepository(database.DB)
	planRepo := sqlite.NewPlanRepository(database.DB)
	attemptProvider := sqlite.NewAttemptProvider(database.DB)
	problemCatalog := sqlite.NewProblemCatalog(database.DB)
	userDirectory := sqlite.NewUserDirectory(database.DB)

	// Initialize services
	reviewService := services.NewReviewService(reviewRepo, attemptProvider, userDirectory, srs.DefaultParams(), cfg.RatingRetryLimit)
	planService := services.NewPlanService(planRepo, reviewRepo, problemCatalog, services.PlanSizing{
		DueLimit: cfg.PlanDueLimit,
		NewLimit: cfg.PlanNewLimit,
	})
	batchService := services.NewBatchService(
		userDirectory,
		planService,
		cfg.BatchWorkerCount,
		time.Duration(cfg.BatchUserTimeoutSecs)*time.Second,
	)

	// Initialize worker pool
	jobPool := worker.NewPool(cfg.BatchWorkerCount, cfg.BatchQueueSize)

	srv := &api.Server{
		DB:       database.DB,
		Reviews:  reviewService,
		Plans:    planService,
		Batch:    batchService,
		JobPool:  jobPool,
		DueLimit: 10,
	}

	ctx, cancel := context.WithCancel(context.Background())
	jobPool.Start(ctx)

	// Periodic batch plan generation
	ticker := time.NewTicker(time.Duration(cfg.BatchIntervalMinutes) * time.Minute)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := jobPool.Submit(&worker.GeneratePlansJob{Batch: batchService}); err != nil {
					log.Warn("failed to queue scheduled plan generation: %v", err)
				}
			}
		}
	}()

	// Configure HTTP server
	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start HTTP server
	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("stopping scheduled plan generation")
	ticker.Stop()
	cancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	log.Debug("stopping worker pool")
	jobPool.Stop()

	log.Info("===========================================")
	log.Info("RecallCode Server Stopped")
	log.Info("===========================================")
}
