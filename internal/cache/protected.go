package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	ri "github.com/redis/go-redis/v9"

	"TourCore/storage/redis"
)

// ttlJitterMax 过期时间随机延长，避免同一批 key 同时失效
const ttlJitterMax = 30 * time.Second

// ProtectedCache JSON 缓存，经熔断器访问 redis
type ProtectedCache struct {
	client    func() ri.Cmdable
	breaker   *CircuitBreaker
	keyPrefix string
	ttl       time.Duration
}

// NewProtectedCache 创建受保护的缓存实例
func NewProtectedCache(keyPrefix string, ttl time.Duration) *ProtectedCache {
	return &ProtectedCache{
		client:    func() ri.Cmdable { return redis.Client() },
		breaker:   RedisBreaker,
		keyPrefix: keyPrefix,
		ttl:       ttl,
	}
}

func (pc *ProtectedCache) key(key string) string {
	return redis.Key(pc.keyPrefix, key)
}

// Set 写入缓存
func (pc *ProtectedCache) Set(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}

	ttl := pc.ttl + time.Duration(rand.Int63n(int64(ttlJitterMax)))
	return pc.breaker.Call(func() error {
		return pc.client().Set(ctx, pc.key(key), data, ttl).Err()
	})
}

// Get 读取缓存，未命中返回 false
func (pc *ProtectedCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	var data []byte
	err := pc.breaker.Call(func() error {
		b, err := pc.client().Get(ctx, pc.key(key)).Bytes()
		if errors.Is(err, ri.Nil) {
			return nil
		}
		data = b
		return err
	})
	if err != nil {
		return false, err
	}
	if data == nil {
		return false, nil
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal cache value: %w", err)
	}
	return true, nil
}

// Delete 删除缓存
func (pc *ProtectedCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = pc.key(k)
	}
	return pc.breaker.Call(func() error {
		return pc.client().Del(ctx, full...).Err()
	})
}
