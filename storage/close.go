package storage

import (
	"context"
	"time"

	"go.uber.org/zap"

	"TourCore/pkg/logger"
	"TourCore/storage/database"
	"TourCore/storage/mq"
	"TourCore/storage/redis"
)

const closeTimeout = 15 * time.Second

type closer struct {
	name  string
	close func(context.Context) error
}

// MQ 先停，不再投递事件；数据库最后关，等待在途的版本更新落盘
var closers = []closer{
	{name: "rabbitmq", close: mq.Close},
	{name: "redis", close: redis.Close},
	{name: "postgres", close: database.Close},
}

// Close 按固定顺序关闭全部外部连接，单个失败不影响后续
func Close() {
	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()

	log := logger.Named("storage")
	log.Info("Closing storage connections...")

	failed := 0
	for _, c := range closers {
		if err := c.close(ctx); err != nil {
			failed++
			log.Error("Failed to close connection", zap.String("backend", c.name), zap.Error(err))
			continue
		}
		log.Info("Connection closed", zap.String("backend", c.name))
	}

	log.Info("Storage shutdown finished", zap.Int("failed", failed))
}
