package cache

import (
	"context"
	"time"

	"TourCore/storage/redis"
)

const messageProcessingPrefix = "mq:processed"

// MessageDeduper 基于 SETNX 的消息去重
type MessageDeduper struct{}

// TryMarkProcessing 首次标记成功返回 true，已被处理或正在处理返回 false
func (MessageDeduper) TryMarkProcessing(ctx context.Context, messageID string, ttl time.Duration) (bool, error) {
	return redis.Client().SetNX(ctx, redis.Key(messageProcessingPrefix, messageID), "1", ttl).Result()
}

// UnmarkProcessing 处理失败时清除标记，允许重投后再次处理
func (MessageDeduper) UnmarkProcessing(ctx context.Context, messageID string) error {
	return redis.Client().Del(ctx, redis.Key(messageProcessingPrefix, messageID)).Err()
}
