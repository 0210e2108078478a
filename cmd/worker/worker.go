package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"TourCore/config"
	"TourCore/internal/cache"
	"TourCore/internal/queue"
	"TourCore/internal/service"
	"TourCore/pkg/logger"
	"TourCore/pkg/metrics"
	"TourCore/pkg/otel"
	"TourCore/pkg/snowflake"
	"TourCore/storage"
)

func main() {
	logger.Init()
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		logger.Logger.Info("Received shutdown signal",
			zap.String("signal", sig.String()),
		)
		cancel()
	}()

	if err := storage.Init(); err != nil {
		logger.Logger.Fatal("Failed to initialize storage", zap.Error(err))
	}
	defer storage.Close()

	// worker 与 server 使用不同的 machine ID，避免 ID 冲突
	if err := snowflake.Init(config.Cfg.SnowflakeMachineID+1, config.Cfg.SnowflakeDataCenter); err != nil {
		logger.Logger.Fatal("Failed to initialize snowflake", zap.Error(err))
	}

	if config.Cfg.OTelEnabled {
		shutdown, err := otel.InitOpenTelemetry(ctx, otel.ConfigFromEnv("worker"))
		if err != nil {
			logger.Logger.Fatal("Failed to initialize OpenTelemetry", zap.Error(err))
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = shutdown(shutdownCtx)
		}()
		if err := metrics.InitMetrics(); err != nil {
			logger.Logger.Warn("Failed to initialize metrics", zap.Error(err))
		}
	}

	handler := &queue.EventHandler{
		Dedup:    cache.MessageDeduper{},
		Stats:    cache.NewStatsCache(time.Duration(config.Cfg.StatsCacheTTLSeconds) * time.Second),
		Capacity: service.Booking(),
	}

	logger.Logger.Info("Worker service starting",
		zap.String("queue", queue.BookingEventsQueue),
		zap.String("environment", config.Cfg.Environment),
	)

	if err := queue.StartBookingEventConsumer(ctx, handler); err != nil && ctx.Err() == nil {
		logger.Logger.Fatal("Booking event consumer stopped", zap.Error(err))
	}

	logger.Logger.Info("Worker service shutting down gracefully")
}
