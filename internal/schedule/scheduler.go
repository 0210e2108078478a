package schedule

// 预订调度器：定时刷新供应商统计缓存，扫描长时间未确认的预订

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"TourCore/internal/model"
	"TourCore/pkg/logger"
)

// BookingJobs 调度器依赖的服务能力
type BookingJobs interface {
	RefreshAllStats(ctx context.Context) (int, error)
	StalePending(ctx context.Context) ([]model.Booking, error)
}

// Specs cron 表达式（5 段）
type Specs struct {
	StatsRefresh string
	PendingSweep string
}

type BookingScheduler struct {
	jobs    BookingJobs
	cron    *cron.Cron
	logger  *zap.Logger
	running map[string]bool
	mu      sync.Mutex
}

func NewBookingScheduler(jobs BookingJobs) *BookingScheduler {
	return &BookingScheduler{
		jobs:    jobs,
		cron:    cron.New(),
		logger:  logger.Named("scheduler"),
		running: make(map[string]bool),
	}
}

// Start 注册任务并启动 cron，ctx 取消后任务内的调用会尽快返回
func (s *BookingScheduler) Start(ctx context.Context, specs Specs) error {
	if _, err := s.cron.AddFunc(specs.StatsRefresh, func() { _ = s.RefreshStats(ctx) }); err != nil {
		return fmt.Errorf("invalid stats refresh spec %q: %w", specs.StatsRefresh, err)
	}
	if _, err := s.cron.AddFunc(specs.PendingSweep, func() { _, _ = s.SweepStalePending(ctx) }); err != nil {
		return fmt.Errorf("invalid pending sweep spec %q: %w", specs.PendingSweep, err)
	}

	s.cron.Start()
	s.logger.Info("Booking scheduler started",
		zap.String("stats_refresh", specs.StatsRefresh),
		zap.String("pending_sweep", specs.PendingSweep),
	)
	return nil
}

// Stop 停止调度并等待正在执行的任务结束
func (s *BookingScheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("Booking scheduler stopped")
}

// guard 同名任务不并发执行，已在运行时返回 false
func (s *BookingScheduler) guard(name string) (func(), bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running[name] {
		return nil, false
	}
	s.running[name] = true
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.running, name)
	}, true
}

// RefreshStats 重新计算所有供应商统计
func (s *BookingScheduler) RefreshStats(ctx context.Context) error {
	done, ok := s.guard("stats_refresh")
	if !ok {
		s.logger.Info("Stats refresh already running, skipping")
		return nil
	}
	defer done()

	start := time.Now()
	n, err := s.jobs.RefreshAllStats(ctx)
	if err != nil {
		s.logger.Error("Stats refresh failed", zap.Int("refreshed", n), zap.Error(err))
		return err
	}

	s.logger.Info("Stats refresh finished",
		zap.Int("providers", n),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}

// SweepStalePending 汇总长时间未确认的预订，按供应商输出
func (s *BookingScheduler) SweepStalePending(ctx context.Context) (map[string]int, error) {
	done, ok := s.guard("pending_sweep")
	if !ok {
		s.logger.Info("Pending sweep already running, skipping")
		return nil, nil
	}
	defer done()

	stale, err := s.jobs.StalePending(ctx)
	if err != nil {
		s.logger.Error("Pending sweep failed", zap.Error(err))
		return nil, err
	}

	byProvider := make(map[string]int)
	for _, b := range stale {
		byProvider[b.ProviderID]++
	}
	for providerID, count := range byProvider {
		s.logger.Warn("Provider has stale pending bookings",
			zap.String("provider_id", providerID),
			zap.Int("count", count),
		)
	}
	return byProvider, nil
}
