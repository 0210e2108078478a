package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"TourCore/config"
	"TourCore/internal/schedule"
	"TourCore/internal/service"
	"TourCore/pkg/logger"
	"TourCore/storage"
)

func main() {
	logger.Init()
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.Logger.Info("Scheduler received shutdown signal",
			zap.String("signal", sig.String()),
		)
		cancel()
	}()

	if err := storage.Init(); err != nil {
		logger.Logger.Fatal("Failed to initialize storage for scheduler", zap.Error(err))
	}
	defer storage.Close()

	s := schedule.NewBookingScheduler(service.Booking())
	if err := s.Start(ctx, schedule.Specs{
		StatsRefresh: config.Cfg.StatsRefreshCron,
		PendingSweep: config.Cfg.PendingSweepCron,
	}); err != nil {
		logger.Logger.Fatal("Failed to start scheduler", zap.Error(err))
	}

	logger.Logger.Info("Scheduler service starting",
		zap.String("environment", config.Cfg.Environment),
	)

	// 启动时先刷新一次统计
	_ = s.RefreshStats(ctx)

	<-ctx.Done()
	s.Stop()

	logger.Logger.Info("Scheduler service shutting down gracefully")
}
