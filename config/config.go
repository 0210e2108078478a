package config

import (
	"log"
	"strings"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

var Cfg Config

type Config struct {
	// 服务配置
	ServerPort     string `env:"SERVER_PORT" envDefault:"8888"`
	ServerHost     string `env:"SERVER_HOST" envDefault:"0.0.0.0"`
	Environment    string `env:"ENVIRONMENT" envDefault:"development"` // development, staging, production
	ServiceName    string `env:"SERVICE_NAME" envDefault:"tourcore"`
	ServiceVersion string `env:"SERVICE_VERSION" envDefault:"v1"`
	// 允许跨域的来源，为空时回显请求的 Origin
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
	// postgres 或 memory，memory 仅用于本地调试，不连接任何外部依赖
	StorageDriver string `env:"STORAGE_DRIVER" envDefault:"postgres"`

	// PostgreSQL 配置
	PostgreSQLHost     string `env:"POSTGRESQL_HOST" envDefault:"localhost"`
	PostgreSQLPort     string `env:"POSTGRESQL_PORT" envDefault:"5432"`
	PostgreSQLUser     string `env:"POSTGRESQL_USER" envDefault:"postgres"`
	PostgreSQLPassword string `env:"POSTGRESQL_PASSWORD" envDefault:"postgres"`
	PostgreSQLDatabase string `env:"POSTGRESQL_DATABASE" envDefault:"tourcore"`
	PostgreSQLSchema   string `env:"POSTGRESQL_SCHEMA" envDefault:"public"`
	PostgreSQLSSLMode  string `env:"POSTGRESQL_SSLMODE" envDefault:"disable"`
	PostgreSQLMaxIdle  int    `env:"POSTGRESQL_MAX_IDLE" envDefault:"30"`
	PostgreSQLMaxOpen  int    `env:"POSTGRESQL_MAX_OPEN" envDefault:"200"`
	// 只读副本 DSN，逗号分隔，为空时不启用读写分离
	PostgreSQLReplicaDSNs string `env:"POSTGRESQL_REPLICA_DSNS" envDefault:""`

	// Redis 配置
	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
	RedisPrefix   string `env:"REDIS_PREFIX" envDefault:"tour"`
	RedisPoolSize int    `env:"REDIS_POOL_SIZE" envDefault:"20"`

	// RabbitMQ 配置
	RabbitMQAddr     string `env:"RABBITMQ_ADDR" envDefault:"localhost"`
	RabbitMQPort     string `env:"RABBITMQ_PORT" envDefault:"5672"`
	RabbitMQUsername string `env:"RABBITMQ_USERNAME" envDefault:"guest"`
	RabbitMQPassword string `env:"RABBITMQ_PASSWORD" envDefault:"guest"`
	RabbitMQVhost    string `env:"RABBITMQ_VHOST" envDefault:"/"`

	// Snowflake ID 生成器配置
	SnowflakeMachineID  int64 `env:"SNOWFLAKE_MACHINE_ID" envDefault:"1"`
	SnowflakeDataCenter int64 `env:"SNOWFLAKE_DATACENTER_ID" envDefault:"1"`

	// 日志配置
	LoggerLevel      string `env:"LOGGER_LEVEL" envDefault:"INFO"`
	LoggerFormat     string `env:"LOGGER_FORMAT" envDefault:"text"` // json, text
	LoggerOutputPath string `env:"LOGGER_OUTPUT_PATH" envDefault:"stdout"`

	// OpenTelemetry 配置
	OTelEnabled     bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTelEndpoint    string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4317"`
	OTelSampleRatio float64 `env:"OTEL_SAMPLE_RATIO" envDefault:"0.1"`

	// 预订配置
	BookingLockTTLSeconds   int     `env:"BOOKING_LOCK_TTL_SECONDS" envDefault:"10"`
	BookingNumberPrefix     string  `env:"BOOKING_NUMBER_PREFIX" envDefault:"TB"`
	BookingCreatePerMinute  int     `env:"BOOKING_CREATE_PER_MINUTE" envDefault:"30"` // 0 关闭限流
	DefaultCurrency         string  `env:"DEFAULT_CURRENCY" envDefault:"USD"`
	StatsCacheTTLSeconds    int     `env:"STATS_CACHE_TTL_SECONDS" envDefault:"300"`
	ItineraryCacheTTLSecond int     `env:"ITINERARY_CACHE_TTL_SECONDS" envDefault:"600"`
	PendingStaleHours       float64 `env:"PENDING_STALE_HOURS" envDefault:"48"`

	// 定时任务配置（cron 表达式）
	StatsRefreshCron string `env:"STATS_REFRESH_CRON" envDefault:"*/10 * * * *"`
	PendingSweepCron string `env:"PENDING_SWEEP_CRON" envDefault:"5 * * * *"`
}

func init() {
	if err := godotenv.Load(); err != nil {
		log.Printf("WARN: Cannot load .env file: %v, using environment variables", err)
	}

	Cfg = Config{}
	if err := env.Parse(&Cfg); err != nil {
		log.Fatalf("Failed to parse environment variables: %v", err)
	}

	validateConfig()
}

func validateConfig() {
	if Cfg.SnowflakeMachineID < 0 || Cfg.SnowflakeMachineID > 31 {
		log.Fatal("SNOWFLAKE_MACHINE_ID must be within [0, 31]")
	}

	if Cfg.SnowflakeDataCenter < 0 || Cfg.SnowflakeDataCenter > 31 {
		log.Fatal("SNOWFLAKE_DATACENTER_ID must be within [0, 31]")
	}

	if len(Cfg.DefaultCurrency) != 3 {
		log.Fatal("DEFAULT_CURRENCY must be a 3-letter ISO 4217 code")
	}

	if Cfg.BookingLockTTLSeconds <= 0 {
		log.Printf("WARN: BOOKING_LOCK_TTL_SECONDS <= 0, falling back to 10s")
		Cfg.BookingLockTTLSeconds = 10
	}
}

func (c *Config) GetDSN() string {
	return "host=" + c.PostgreSQLHost +
		" port=" + c.PostgreSQLPort +
		" user=" + c.PostgreSQLUser +
		" password=" + c.PostgreSQLPassword +
		" dbname=" + c.PostgreSQLDatabase +
		" sslmode=" + c.PostgreSQLSSLMode +
		" search_path=" + c.PostgreSQLSchema
}

// ReplicaDSNs 返回配置的只读副本列表
func (c *Config) ReplicaDSNs() []string {
	if strings.TrimSpace(c.PostgreSQLReplicaDSNs) == "" {
		return nil
	}

	var dsns []string
	for _, dsn := range strings.Split(c.PostgreSQLReplicaDSNs, ",") {
		if dsn = strings.TrimSpace(dsn); dsn != "" {
			dsns = append(dsns, dsn)
		}
	}
	return dsns
}

func (c *Config) GetRabbitMQURL() string {
	return "amqp://" + c.RabbitMQUsername + ":" + c.RabbitMQPassword + "@" + c.RabbitMQAddr + ":" + c.RabbitMQPort + c.RabbitMQVhost
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// UseMemoryStorage 是否使用进程内存储
func (c *Config) UseMemoryStorage() bool {
	return strings.EqualFold(c.StorageDriver, "memory")
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}
