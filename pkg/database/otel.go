package database

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
)

const (
	spanKey  = "otel:span"
	startKey = "otel:start_time"
)

var (
	instrumentsOnce sync.Once
	queriesTotal    metric.Int64Counter
	queryDuration   metric.Float64Histogram
)

func initInstruments(serviceName string) {
	instrumentsOnce.Do(func() {
		meter := otel.Meter(serviceName + ".gorm")
		queriesTotal, _ = meter.Int64Counter(
			"db.queries.total",
			metric.WithDescription("Total number of database queries"),
			metric.WithUnit("{query}"),
		)
		queryDuration, _ = meter.Float64Histogram(
			"db.query.duration",
			metric.WithDescription("Database query duration"),
			metric.WithUnit("s"),
			metric.WithExplicitBucketBoundaries(0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5),
		)
	})
}

// PluginConfig 插件配置
type PluginConfig struct {
	ServiceName   string
	MaxSQLLength  int
	EnableMetrics bool
}

// OTELPlugin GORM OpenTelemetry 插件，每条语句一个 client span
type OTELPlugin struct {
	tracer trace.Tracer
	config PluginConfig
}

func NewOTELPlugin(config PluginConfig) *OTELPlugin {
	if config.ServiceName == "" {
		config.ServiceName = "tourcore"
	}
	if config.MaxSQLLength <= 0 {
		config.MaxSQLLength = 500
	}
	if config.EnableMetrics {
		initInstruments(config.ServiceName)
	}

	return &OTELPlugin{
		tracer: otel.Tracer(config.ServiceName + ".gorm"),
		config: config,
	}
}

// Name 实现 gorm.Plugin 接口
func (p *OTELPlugin) Name() string {
	return "otel_plugin"
}

// Initialize 注册回调
func (p *OTELPlugin) Initialize(db *gorm.DB) error {
	cb := db.Callback()

	if err := cb.Query().Before("gorm:query").Register("otel:before_query", p.before("select")); err != nil {
		return err
	}
	if err := cb.Query().After("gorm:query").Register("otel:after_query", p.after("select")); err != nil {
		return err
	}
	if err := cb.Create().Before("gorm:create").Register("otel:before_create", p.before("insert")); err != nil {
		return err
	}
	if err := cb.Create().After("gorm:create").Register("otel:after_create", p.after("insert")); err != nil {
		return err
	}
	if err := cb.Update().Before("gorm:update").Register("otel:before_update", p.before("update")); err != nil {
		return err
	}
	if err := cb.Update().After("gorm:update").Register("otel:after_update", p.after("update")); err != nil {
		return err
	}
	if err := cb.Raw().Before("gorm:raw").Register("otel:before_raw", p.before("raw")); err != nil {
		return err
	}
	return cb.Raw().After("gorm:raw").Register("otel:after_raw", p.after("raw"))
}

func (p *OTELPlugin) before(operation string) func(*gorm.DB) {
	return func(db *gorm.DB) {
		ctx, span := p.tracer.Start(db.Statement.Context, "db."+operation,
			trace.WithSpanKind(trace.SpanKindClient),
			trace.WithAttributes(
				semconv.DBSystemPostgreSQL,
				attribute.String("db.operation", operation),
				attribute.String("db.table", db.Statement.Table),
			),
		)
		db.InstanceSet(startKey, time.Now())
		db.InstanceSet(spanKey, span)
		db.Statement.Context = ctx
	}
}

func (p *OTELPlugin) after(operation string) func(*gorm.DB) {
	return func(db *gorm.DB) {
		v, ok := db.InstanceGet(spanKey)
		if !ok {
			return
		}
		span, ok := v.(trace.Span)
		if !ok {
			return
		}
		defer span.End()

		sql := db.Statement.SQL.String()
		if len(sql) > p.config.MaxSQLLength {
			sql = sql[:p.config.MaxSQLLength] + "..."
		}
		span.SetAttributes(
			attribute.String("db.statement", strings.TrimSpace(sql)),
			attribute.Int64("db.rows_affected", db.Statement.RowsAffected),
		)

		status := "success"
		switch {
		case db.Error == nil, db.Error == gorm.ErrRecordNotFound:
			span.SetStatus(codes.Ok, "")
		default:
			status = "error"
			span.SetStatus(codes.Error, db.Error.Error())
			span.RecordError(db.Error)
		}

		if !p.config.EnableMetrics || queriesTotal == nil {
			return
		}
		var elapsed float64
		if start, ok := db.InstanceGet(startKey); ok {
			if t, ok := start.(time.Time); ok {
				elapsed = time.Since(t).Seconds()
			}
		}
		attrs := metric.WithAttributes(
			attribute.String("db.operation", operation),
			attribute.String("db.table", db.Statement.Table),
			attribute.String("db.status", status),
		)
		queriesTotal.Add(context.Background(), 1, attrs)
		queryDuration.Record(context.Background(), elapsed, attrs)
	}
}

// WithDefaultOTELPlugin 使用默认配置添加 OpenTelemetry 插件
func WithDefaultOTELPlugin(db *gorm.DB, serviceName string) error {
	return db.Use(NewOTELPlugin(PluginConfig{ServiceName: serviceName, EnableMetrics: true}))
}
