package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/config"
	"go.uber.org/zap"

	appconfig "TourCore/config"
	"TourCore/internal/cache"
	"TourCore/internal/handler"
	"TourCore/internal/middleware"
	"TourCore/internal/router"
	"TourCore/internal/service"
	"TourCore/pkg/logger"
	"TourCore/pkg/metrics"
	"TourCore/pkg/otel"
	"TourCore/pkg/snowflake"
	"TourCore/storage"
)

func main() {
	// 日志部分
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

	if err := snowflake.Init(appconfig.Cfg.SnowflakeMachineID, appconfig.Cfg.SnowflakeDataCenter); err != nil {
		logger.Logger.Fatal("Failed to initialize snowflake", zap.Error(err))
	}

	var serverOpts []config.Option
	if appconfig.Cfg.OTelEnabled {
		shutdown, err := otel.InitOpenTelemetry(ctx, otel.ConfigFromEnv("server"))
		if err != nil {
			logger.Logger.Fatal("Failed to initialize OpenTelemetry", zap.Error(err))
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(shutdownCtx); err != nil {
				logger.Logger.Error("Failed to shutdown OpenTelemetry", zap.Error(err))
			}
		}()

		if err := metrics.InitMetrics(); err != nil {
			logger.Logger.Warn("Failed to initialize metrics", zap.Error(err))
		}
	}

	var (
		hd         *handler.Handler
		routerOpts []router.Option
	)
	if appconfig.Cfg.UseMemoryStorage() {
		logger.Logger.Warn("Using in-memory storage, data will not survive a restart")
		hd = handler.NewInMemory(service.Deps{})
	} else {
		// 初始化存储层，记得关闭外部连接
		if err := storage.Init(); err != nil {
			logger.Logger.Fatal("Failed to initialize storage", zap.Error(err))
		}
		defer storage.Close()

		hd = handler.Default()
		if n := appconfig.Cfg.BookingCreatePerMinute; n > 0 {
			routerOpts = append(routerOpts, router.WithBookingRateLimit(cache.SlidingWindowLimiter{
				Prefix: "booking:create",
				Window: time.Minute,
				Max:    n,
			}))
		}
	}

	addr := net.JoinHostPort(appconfig.Cfg.ServerHost, appconfig.Cfg.ServerPort)
	serverOpts = append(serverOpts, server.WithHostPorts(addr))

	var tracerMW app.HandlerFunc
	if appconfig.Cfg.OTelEnabled {
		var tracerOpt config.Option
		tracerOpt, tracerMW = middleware.NewServerTracerConfig()
		serverOpts = append(serverOpts, tracerOpt)
	}

	h := server.Default(serverOpts...)
	if tracerMW != nil {
		h.Use(tracerMW)
	}
	router.Register(h, hd, routerOpts...)

	logger.Logger.Info("Server starting",
		zap.String("service", appconfig.Cfg.ServiceName),
		zap.String("addr", addr),
		zap.String("environment", appconfig.Cfg.Environment),
		zap.String("storage", appconfig.Cfg.StorageDriver),
	)

	// 优雅关闭：在单独的 goroutine 中监听关闭信号并调用 Shutdown
	go func() {
		<-ctx.Done()
		logger.Logger.Info("Initiating graceful shutdown...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := h.Shutdown(shutdownCtx); err != nil {
			logger.Logger.Error("Failed to shutdown HTTP server", zap.Error(err))
		}
	}()

	h.Spin()

	logger.Logger.Info("Server shutting down gracefully")
}
