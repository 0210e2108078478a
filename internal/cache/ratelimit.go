package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	ri "github.com/redis/go-redis/v9"

	"TourCore/storage/redis"
)

const rateLimitPrefix = "rate"

// SlidingWindowLimiter 基于 zset 的滑动窗口限流
type SlidingWindowLimiter struct {
	Prefix string
	Window time.Duration
	Max    int
}

// Allow 记录一次请求并返回窗口内的请求数
func (l SlidingWindowLimiter) Allow(ctx context.Context, identifier string) (bool, int, error) {
	key := redis.Key(rateLimitPrefix, l.Prefix, identifier)
	now := time.Now()
	windowStart := now.Add(-l.Window)

	pipe := redis.Client().Pipeline()
	// 先清掉窗口之外的记录
	pipe.ZRemRangeByScore(ctx, key, "0", strconv.FormatInt(windowStart.UnixNano(), 10))
	pipe.ZAdd(ctx, key, ri.Z{
		Score:  float64(now.UnixNano()),
		Member: now.UnixNano(),
	})
	card := pipe.ZCard(ctx, key)
	pipe.Expire(ctx, key, l.Window+10*time.Second)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, fmt.Errorf("rate limit pipeline: %w", err)
	}

	count := int(card.Val())
	return count <= l.Max, count, nil
}

func (l SlidingWindowLimiter) Limit() int {
	return l.Max
}
