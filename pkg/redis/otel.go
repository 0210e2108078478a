package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
)

// TracingHook 为每条命令生成 client span，并记录命令耗时
type TracingHook struct {
	tracer   trace.Tracer
	duration metric.Float64Histogram
	attrs    []attribute.KeyValue
}

var _ redis.Hook = (*TracingHook)(nil)

// NewTracingHook 创建追踪 Hook
func NewTracingHook(serviceName string, db int) *TracingHook {
	duration, _ := otel.Meter(serviceName+".redis").Float64Histogram(
		"redis.command.duration",
		metric.WithDescription("Redis command duration"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0),
	)

	return &TracingHook{
		tracer:   otel.Tracer(serviceName + ".redis"),
		duration: duration,
		attrs: []attribute.KeyValue{
			semconv.DBSystemRedis,
			semconv.DBRedisDBIndex(db),
		},
	}
}

// DialHook 实现 redis.Hook 接口
func (th *TracingHook) DialHook(next redis.DialHook) redis.DialHook {
	return next
}

// ProcessHook 实现 redis.Hook 接口
func (th *TracingHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		ctx, span := th.tracer.Start(ctx, "redis."+cmd.Name(),
			trace.WithSpanKind(trace.SpanKindClient),
			trace.WithAttributes(th.attrs...),
		)
		defer span.End()

		start := time.Now()
		err := next(ctx, cmd)
		th.record(ctx, span, cmd.Name(), start, err)
		return err
	}
}

// ProcessPipelineHook 实现 redis.Hook 接口
func (th *TracingHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		ctx, span := th.tracer.Start(ctx, "redis.pipeline",
			trace.WithSpanKind(trace.SpanKindClient),
			trace.WithAttributes(th.attrs...),
			trace.WithAttributes(attribute.Int("db.redis.num_cmd", len(cmds))),
		)
		defer span.End()

		start := time.Now()
		err := next(ctx, cmds)
		th.record(ctx, span, "pipeline", start, err)
		return err
	}
}

func (th *TracingHook) record(ctx context.Context, span trace.Span, name string, start time.Time, err error) {
	status := "success"
	// redis.Nil 是缓存未命中，不算错误
	if err != nil && err != redis.Nil {
		status = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}

	if th.duration != nil {
		th.duration.Record(ctx, time.Since(start).Seconds(), metric.WithAttributes(
			attribute.String("db.operation", name),
			attribute.String("status", status),
		))
	}
}
