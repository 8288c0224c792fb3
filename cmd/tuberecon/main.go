package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"tuberecon/internal/amqp"
	"tuberecon/internal/backend"
	"tuberecon/internal/cache"
	"tuberecon/internal/config"
	"tuberecon/internal/core"
	apphttp "tuberecon/internal/http"
	applog "tuberecon/internal/log"
	"tuberecon/internal/services"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	// Setup structured logging
	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load the static trend dataset once at startup. It is immutable
	// for the process lifetime.
	trendResult, err := backend.LoadTrendData(ctx, cfg)
	if err != nil {
		logger.Error("Failed to load trend data", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	defer trendResult.Cleanup()
	logger.Info("Trend data loaded",
		"backend", cfg.DataBackend,
		"months", len(trendResult.Series.Months()),
		"points", trendResult.Series.Len())

	// Session report cache: merged reports live here between the upload
	// response and the CSV download, nothing is persisted.
	reports := cache.NewLRUCache[core.MergedReport](cfg.ReportCacheSize, cfg.ReportCacheTTL)
	cacheManager := cache.NewManager()
	cacheManager.Register(reports)
	cacheManager.StartCleanup(10 * time.Minute)
	defer cacheManager.Stop()

	// AMQP merge audit pipeline is optional.
	var publisher services.AuditPublisher
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		defer amqpClient.Close()
		publisher = amqpClient
		logger.Info("Merge audit publishing enabled", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	} else {
		logger.Info("Merge audit publishing disabled - no AMQP_URL provided")
	}

	merger := services.NewMergeService(reports, publisher)

	srv := apphttp.NewServer(":"+cfg.Port, merger, trendResult.Series)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 30 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Starting tuberecon server", "port", cfg.Port, "backend", cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
