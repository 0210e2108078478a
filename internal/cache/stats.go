package cache

import (
	"context"
	"time"

	"TourCore/internal/booking"
)

// StatsCache 供应商维度的预订统计缓存
type StatsCache struct {
	cache *ProtectedCache
}

func NewStatsCache(ttl time.Duration) *StatsCache {
	return &StatsCache{cache: NewProtectedCache("stats:provider", ttl)}
}

func (c *StatsCache) GetStats(ctx context.Context, providerID string) (booking.Statistics, bool, error) {
	var stats booking.Statistics
	hit, err := c.cache.Get(ctx, providerID, &stats)
	return stats, hit, err
}

func (c *StatsCache) SetStats(ctx context.Context, providerID string, stats booking.Statistics) error {
	return c.cache.Set(ctx, providerID, stats)
}

func (c *StatsCache) InvalidateStats(ctx context.Context, providerID string) error {
	return c.cache.Delete(ctx, providerID)
}
