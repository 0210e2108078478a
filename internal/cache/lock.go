package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	ri "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"TourCore/pkg/logger"
	"TourCore/storage/redis"
)

const lockPrefix = "lock"

// releaseScript 只删除自己持有的锁
var releaseScript = ri.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// TryLock 通过 SETNX 获取分布式锁，返回释放函数；锁被占用时 ok 为 false
func TryLock(ctx context.Context, key string, ttl time.Duration) (release func(context.Context), ok bool, err error) {
	fullKey := redis.Key(lockPrefix, key)
	token := uuid.NewString()

	ok, err = redis.Client().SetNX(ctx, fullKey, token, ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("failed to acquire lock %s: %w", key, err)
	}
	if !ok {
		return nil, false, nil
	}

	return func(ctx context.Context) {
		if err := releaseScript.Run(ctx, redis.Client(), []string{fullKey}, token).Err(); err != nil {
			logger.Logger.Warn("Failed to release lock", zap.String("key", fullKey), zap.Error(err))
		}
	}, true, nil
}

// RedisLocker 以 redis 锁实现 service.Locker
type RedisLocker struct {
	TTL time.Duration
}

func (l RedisLocker) Acquire(ctx context.Context, key string) (func(context.Context), bool, error) {
	return TryLock(ctx, key, l.TTL)
}
