package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"TourCore/internal/model"
	"TourCore/pkg/metrics"
)

// LocalPublisher 进程内同步投递给 EventHandler，不经过 RabbitMQ。
// 用于 memory 存储模式，此时没有 worker 进程。
type LocalPublisher struct {
	Handler *EventHandler
}

func NewLocalPublisher(h *EventHandler) *LocalPublisher {
	return &LocalPublisher{Handler: h}
}

func (p *LocalPublisher) PublishBookingEvent(ctx context.Context, evt model.BookingEvent) error {
	if p.Handler == nil {
		return nil
	}

	body, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal booking event: %w", err)
	}

	metrics.RecordEvent(ctx, "published", string(evt.Event), "local")
	return p.Handler.Handle(ctx, evt.Event.RoutingKey(), body)
}
