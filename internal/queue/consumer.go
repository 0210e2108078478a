package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"TourCore/internal/model"
	"TourCore/pkg/logger"
	"TourCore/pkg/metrics"
	"TourCore/storage/mq"
)

const processedTTL = 24 * time.Hour

// Deduper 消息去重，首次处理时返回 true
type Deduper interface {
	TryMarkProcessing(ctx context.Context, messageID string, ttl time.Duration) (bool, error)
	UnmarkProcessing(ctx context.Context, messageID string) error
}

// StatsInvalidator 失效供应商统计缓存
type StatsInvalidator interface {
	InvalidateStats(ctx context.Context, providerID string) error
}

// CapacityReleaser 归还名额
type CapacityReleaser interface {
	ReleaseCapacity(ctx context.Context, evt model.BookingEvent) error
}

// EventHandler 处理 booking.# 事件
type EventHandler struct {
	Dedup    Deduper
	Stats    StatsInvalidator
	Capacity CapacityReleaser
}

// Handle 返回错误时消息会被重新投递
func (h *EventHandler) Handle(ctx context.Context, routingKey string, body []byte) error {
	var evt model.BookingEvent
	if err := json.Unmarshal(body, &evt); err != nil {
		// 格式错误的消息重试也没有意义
		logger.Logger.Error("Dropping malformed booking event",
			zap.String("routing_key", routingKey),
			zap.Error(err),
		)
		return nil
	}

	log := logger.Named("booking-consumer").With(
		zap.String("message_id", evt.MessageID),
		zap.String("event", string(evt.Event)),
		zap.String("booking_id", evt.BookingID),
	)

	if h.Dedup != nil && evt.MessageID != "" {
		first, err := h.Dedup.TryMarkProcessing(ctx, evt.MessageID, processedTTL)
		if err != nil {
			log.Warn("Failed to check message processed status", zap.Error(err))
		} else if !first {
			log.Info("Message already processed, skipping")
			return nil
		}
	}

	if err := h.process(ctx, evt); err != nil {
		metrics.RecordEvent(ctx, "consumed", string(evt.Event), "error")
		if h.Dedup != nil && evt.MessageID != "" {
			if uerr := h.Dedup.UnmarkProcessing(ctx, evt.MessageID); uerr != nil {
				log.Warn("Failed to unmark message", zap.Error(uerr))
			}
		}
		return err
	}

	metrics.RecordEvent(ctx, "consumed", string(evt.Event), "success")
	log.Info("Booking event processed")
	return nil
}

func (h *EventHandler) process(ctx context.Context, evt model.BookingEvent) error {
	if evt.Event.ReleasesCapacity() && h.Capacity != nil {
		if err := h.Capacity.ReleaseCapacity(ctx, evt); err != nil {
			return fmt.Errorf("release capacity for booking %s: %w", evt.BookingID, err)
		}
	}

	if h.Stats != nil && evt.ProviderID != "" {
		if err := h.Stats.InvalidateStats(ctx, evt.ProviderID); err != nil {
			// 缓存有 TTL 兜底，不重试
			logger.Logger.Warn("Failed to invalidate provider stats",
				zap.String("provider_id", evt.ProviderID),
				zap.Error(err),
			)
		}
	}
	return nil
}

// StartBookingEventConsumer 声明队列并阻塞消费，直到 ctx 取消
func StartBookingEventConsumer(ctx context.Context, h *EventHandler) error {
	if err := mq.DeclareQueue(BookingEventsQueue, mq.BookingExchange, bookingBindingKey); err != nil {
		return err
	}

	return mq.Consume(ctx, mq.ConsumeOptions{
		Queue:         BookingEventsQueue,
		ConsumerTag:   consumerTag,
		PrefetchCount: prefetchCount,
		Handler:       h.Handle,
	})
}
