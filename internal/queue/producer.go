package queue

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"TourCore/internal/model"
	"TourCore/pkg/logger"
	"TourCore/pkg/metrics"
	"TourCore/pkg/snowflake"
	"TourCore/storage/mq"
)

// Producer 把预订事件发布到 booking.events
type Producer struct{}

func NewProducer() *Producer {
	return &Producer{}
}

// PublishBookingEvent 发布预订事件，MessageID 为空时自动生成
func (p *Producer) PublishBookingEvent(ctx context.Context, evt model.BookingEvent) error {
	if evt.MessageID == "" {
		id, err := snowflake.NextID()
		if err != nil {
			return fmt.Errorf("failed to generate message ID: %w", err)
		}
		evt.MessageID = fmt.Sprintf("bk_%s_%d", evt.Event, id)
	}

	if err := mq.PublishMessage(ctx, mq.BookingExchange, evt.Event.RoutingKey(), evt.MessageID, evt); err != nil {
		metrics.RecordEvent(ctx, "published", string(evt.Event), "error")
		logger.Logger.Error("Failed to publish booking event",
			zap.String("message_id", evt.MessageID),
			zap.String("event", string(evt.Event)),
			zap.String("booking_id", evt.BookingID),
			zap.Error(err),
		)
		return err
	}

	metrics.RecordEvent(ctx, "published", string(evt.Event), "success")
	logger.Logger.Debug("Published booking event",
		zap.String("message_id", evt.MessageID),
		zap.String("event", string(evt.Event)),
		zap.String("booking_id", evt.BookingID),
	)
	return nil
}
