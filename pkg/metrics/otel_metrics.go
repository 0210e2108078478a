package metrics

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// OTelMetrics 业务指标集合
type OTelMetrics struct {
	// 预订相关指标
	BookingTransitions metric.Int64Counter
	BookingRejections  metric.Int64Counter
	BookingRevenue     metric.Float64Counter
	LockContention     metric.Int64Counter

	// 行程相关指标
	ItineraryMutations metric.Int64Counter

	// 事件相关指标
	EventsPublished metric.Int64Counter
	EventsConsumed  metric.Int64Counter

	// HTTP 相关指标
	HTTPServerRequestTotal   metric.Int64Counter
	HTTPServerDuration       metric.Float64Histogram
	HTTPServerActiveRequests metric.Int64UpDownCounter
}

var (
	metrics  *OTelMetrics
	initOnce sync.Once
	initErr  error
)

// InitMetrics 在 otel 初始化之后调用；未调用时所有 Record 方法是 no-op
func InitMetrics() error {
	initOnce.Do(func() {
		meter := otel.Meter("tourcore")
		m := &OTelMetrics{}

		counters := []struct {
			dst  *metric.Int64Counter
			name string
			desc string
			unit string
		}{
			{&m.BookingTransitions, "booking_transitions_total", "Booking lifecycle transitions", "{transition}"},
			{&m.BookingRejections, "booking_rejections_total", "Rejected booking operations by error code", "{error}"},
			{&m.LockContention, "booking_lock_contention_total", "Booking lock acquisition failures", "{attempt}"},
			{&m.ItineraryMutations, "itinerary_mutations_total", "Itinerary edits by operation", "{mutation}"},
			{&m.EventsPublished, "booking_events_published_total", "Booking events published", "{message}"},
			{&m.EventsConsumed, "booking_events_consumed_total", "Booking events consumed", "{message}"},
			{&m.HTTPServerRequestTotal, "http_server_requests_total", "Total HTTP requests", "{request}"},
		}
		for _, c := range counters {
			*c.dst, initErr = meter.Int64Counter(c.name, metric.WithDescription(c.desc), metric.WithUnit(c.unit))
			if initErr != nil {
				return
			}
		}

		m.BookingRevenue, initErr = meter.Float64Counter(
			"booking_revenue_total",
			metric.WithDescription("Revenue from completed payments"),
			metric.WithUnit("{currency}"),
		)
		if initErr != nil {
			return
		}

		m.HTTPServerDuration, initErr = meter.Float64Histogram(
			"http_server_duration_seconds",
			metric.WithDescription("HTTP request duration in seconds"),
			metric.WithUnit("s"),
		)
		if initErr != nil {
			return
		}

		m.HTTPServerActiveRequests, initErr = meter.Int64UpDownCounter(
			"http_server_active_requests",
			metric.WithDescription("In-flight HTTP requests"),
			metric.WithUnit("{request}"),
		)
		if initErr != nil {
			return
		}

		metrics = m
	})
	return initErr
}

// GetMetrics 获取全局指标实例，可能为 nil
func GetMetrics() *OTelMetrics {
	return metrics
}

// RecordBookingTransition 记录一次成功的状态流转
func RecordBookingTransition(ctx context.Context, operation, from, to string) {
	if metrics == nil {
		return
	}
	metrics.BookingTransitions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("from", from),
		attribute.String("to", to),
	))
}

// RecordBookingRejected 记录被拒绝的操作
func RecordBookingRejected(ctx context.Context, operation, code string) {
	if metrics == nil {
		return
	}
	metrics.BookingRejections.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("code", code),
	))
}

// RecordRevenue 记录支付完成的金额
func RecordRevenue(ctx context.Context, currency string, amount float64) {
	if metrics == nil {
		return
	}
	metrics.BookingRevenue.Add(ctx, amount, metric.WithAttributes(attribute.String("currency", currency)))
}

// RecordLockContention 记录锁竞争
func RecordLockContention(ctx context.Context, resource string) {
	if metrics == nil {
		return
	}
	metrics.LockContention.Add(ctx, 1, metric.WithAttributes(attribute.String("resource", resource)))
}

// RecordItineraryMutation 记录行程编辑
func RecordItineraryMutation(ctx context.Context, operation, status string) {
	if metrics == nil {
		return
	}
	metrics.ItineraryMutations.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("status", status),
	))
}

// RecordEvent 记录事件发布或消费，direction 为 published / consumed
func RecordEvent(ctx context.Context, direction, event, status string) {
	if metrics == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("event", event),
		attribute.String("status", status),
	)
	if direction == "consumed" {
		metrics.EventsConsumed.Add(ctx, 1, attrs)
		return
	}
	metrics.EventsPublished.Add(ctx, 1, attrs)
}

// RecordHTTPRequest 记录一次 HTTP 请求，route 使用注册的路由模板
func RecordHTTPRequest(ctx context.Context, method, route string, status int, seconds float64) {
	if metrics == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("http.method", method),
		attribute.String("http.route", route),
		attribute.Int("http.status_code", status),
	)
	metrics.HTTPServerRequestTotal.Add(ctx, 1, attrs)
	metrics.HTTPServerDuration.Record(ctx, seconds, attrs)
}

// AddActiveRequests 调整在途请求数
func AddActiveRequests(ctx context.Context, delta int64) {
	if metrics == nil {
		return
	}
	metrics.HTTPServerActiveRequests.Add(ctx, delta)
}
