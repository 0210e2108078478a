package cache

import (
	"context"
	"strconv"
	"time"
)

// ItineraryCache 按 id+version 缓存行程逐日视图，版本变化后旧 key 自然过期
type ItineraryCache struct {
	cache *ProtectedCache
}

func NewItineraryCache(ttl time.Duration) *ItineraryCache {
	return &ItineraryCache{cache: NewProtectedCache("itinerary:days", ttl)}
}

func viewKey(id string, version int64) string {
	return id + ":" + strconv.FormatInt(version, 10)
}

func (c *ItineraryCache) GetDays(ctx context.Context, id string, version int64, dest interface{}) (bool, error) {
	return c.cache.Get(ctx, viewKey(id, version), dest)
}

func (c *ItineraryCache) SetDays(ctx context.Context, id string, version int64, view interface{}) error {
	return c.cache.Set(ctx, viewKey(id, version), view)
}
