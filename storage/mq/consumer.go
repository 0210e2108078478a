package mq

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"TourCore/config"
	"TourCore/pkg/logger"
	mqotel "TourCore/pkg/mq"
)

type MessageHandler func(ctx context.Context, routingKey string, body []byte) error

type ConsumeOptions struct {
	Handler       MessageHandler
	Queue         string
	ConsumerTag   string
	PrefetchCount int
}

// Consume 阻塞消费直到 ctx 取消或 channel 关闭。处理失败的消息重新入队。
func Consume(ctx context.Context, opts ConsumeOptions) error {
	conn := Connection()
	if conn == nil {
		return fmt.Errorf("RabbitMQ connection is nil")
	}

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	if opts.PrefetchCount > 0 {
		if err := ch.Qos(opts.PrefetchCount, 0, false); err != nil {
			return fmt.Errorf("failed to set QoS: %w", err)
		}
	}

	msgs, err := ch.Consume(
		opts.Queue,
		opts.ConsumerTag,
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	logger.Logger.Info("Started consuming messages",
		zap.String("queue", opts.Queue),
		zap.String("consumer_tag", opts.ConsumerTag),
		zap.Int("prefetch_count", opts.PrefetchCount),
	)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-msgs:
			if !ok {
				return fmt.Errorf("consumer channel closed: %s", opts.Queue)
			}

			msgCtx, span := mqotel.StartConsumeSpan(ctx, config.Cfg.ServiceName, opts.Queue, msg)
			if err := opts.Handler(msgCtx, msg.RoutingKey, msg.Body); err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
				span.End()

				logger.Logger.Error("Failed to process message",
					zap.String("queue", opts.Queue),
					zap.String("routing_key", msg.RoutingKey),
					zap.String("message_id", msg.MessageId),
					zap.Bool("redelivered", msg.Redelivered),
					zap.Error(err),
				)
				// 只重投一次，再失败则丢弃
				_ = msg.Nack(false, !msg.Redelivered)
				continue
			}
			span.End()
			_ = msg.Ack(false)
		}
	}
}
