// Package service 编排层：加载快照、调用核心模型、带版本号持久化、发布事件。
// 业务规则全部在 internal/itinerary 与 internal/booking 中，这里不做任何判断。
package service

import (
	"context"
	"time"

	"TourCore/config"
	"TourCore/internal/booking"
	"TourCore/internal/cache"
	"TourCore/internal/model"
	"TourCore/internal/queue"
	"TourCore/internal/repository"
	"TourCore/pkg/snowflake"
	"TourCore/storage/database"
)

// TourStore tour 持久化
type TourStore interface {
	GetTour(ctx context.Context, id string) (model.Tour, error)
	CreateTour(ctx context.Context, t model.Tour) (model.Tour, error)
	UpdateTour(ctx context.Context, t model.Tour) (model.Tour, error)
}

// ItineraryStore 行程持久化，UpdateItinerary 按 Version 做乐观锁
type ItineraryStore interface {
	GetItinerary(ctx context.Context, id string) (model.Itinerary, error)
	CreateItinerary(ctx context.Context, it model.Itinerary) (model.Itinerary, error)
	UpdateItinerary(ctx context.Context, it model.Itinerary) (model.Itinerary, error)
	ListItinerariesByTour(ctx context.Context, tourID string, status model.ItineraryStatus) ([]model.Itinerary, error)
	ListForks(ctx context.Context, sourceID string) ([]model.Itinerary, error)
}

// BookingStore 预订持久化
type BookingStore interface {
	GetBooking(ctx context.Context, id string) (model.Booking, error)
	GetBookingByNumber(ctx context.Context, number string) (model.Booking, error)
	CreateBooking(ctx context.Context, b model.Booking) (model.Booking, error)
	UpdateBooking(ctx context.Context, b model.Booking) (model.Booking, error)
	ListBookings(ctx context.Context, f repository.BookingFilter) ([]model.Booking, error)
	ListStalePending(ctx context.Context, before time.Time, limit int) ([]model.Booking, error)
	ListProviderIDs(ctx context.Context) ([]string, error)
}

// Locker 分布式锁，ok 为 false 表示被占用
type Locker interface {
	Acquire(ctx context.Context, key string) (release func(context.Context), ok bool, err error)
}

// EventPublisher 发布预订事件
type EventPublisher interface {
	PublishBookingEvent(ctx context.Context, evt model.BookingEvent) error
}

// StatsStore 供应商统计缓存
type StatsStore interface {
	GetStats(ctx context.Context, providerID string) (booking.Statistics, bool, error)
	SetStats(ctx context.Context, providerID string, stats booking.Statistics) error
	InvalidateStats(ctx context.Context, providerID string) error
}

// DayViewCache 行程逐日视图缓存
type DayViewCache interface {
	GetDays(ctx context.Context, id string, version int64, dest interface{}) (bool, error)
	SetDays(ctx context.Context, id string, version int64, view interface{}) error
}

// Deps 服务依赖，测试中替换为内存实现
type Deps struct {
	Tours       TourStore
	Itineraries ItineraryStore
	Bookings    BookingStore
	Locker      Locker
	Events      EventPublisher
	Stats       StatsStore
	DayViews    DayViewCache
	Now         func() time.Time
	NewID       func() (string, error)
	NewNumber   func() (string, error)
	Location    *time.Location
}

func (d Deps) withDefaults() Deps {
	if d.Now == nil {
		d.Now = func() time.Time { return time.Now().UTC() }
	}
	if d.NewID == nil {
		d.NewID = snowflake.NextStringID
	}
	if d.NewNumber == nil {
		prefix := config.Cfg.BookingNumberPrefix
		d.NewNumber = func() (string, error) { return snowflake.BookingNumber(prefix) }
	}
	if d.Location == nil {
		d.Location = time.UTC
	}
	return d
}

// defaultDeps 生产依赖：postgres + redis + rabbitmq
func defaultDeps() Deps {
	db := database.DB()
	return Deps{
		Tours:       repository.NewTourRepository(db),
		Itineraries: repository.NewItineraryRepository(db),
		Bookings:    repository.NewBookingRepository(db),
		Locker:      cache.RedisLocker{TTL: time.Duration(config.Cfg.BookingLockTTLSeconds) * time.Second},
		Events:      queue.NewProducer(),
		Stats:       cache.NewStatsCache(time.Duration(config.Cfg.StatsCacheTTLSeconds) * time.Second),
		DayViews:    cache.NewItineraryCache(time.Duration(config.Cfg.ItineraryCacheTTLSecond) * time.Second),
	}.withDefaults()
}
