package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"TourCore/config"
	"TourCore/internal/booking"
	"TourCore/internal/model"
	"TourCore/internal/repository"
	pkgerrors "TourCore/pkg/errors"
	"TourCore/pkg/logger"
	"TourCore/pkg/metrics"
)

const (
	capacityRetries = 3
	staleBatchSize  = 500
)

// CreateBookingInput 新建预订
type CreateBookingInput struct {
	CustomerID         string
	TourDate           string
	SpecialRequests    string
	Resource           model.ResourceRef
	Contact            model.ContactInfo
	Participants       model.Participants
	ParticipantDetails []model.ParticipantDetail
}

type BookingService struct {
	deps Deps
}

var (
	bookingService *BookingService
	bookingOnce    sync.Once
)

func Booking() *BookingService {
	bookingOnce.Do(func() {
		bookingService = NewBookingService(defaultDeps())
	})
	return bookingService
}

func NewBookingService(d Deps) *BookingService {
	return &BookingService{deps: d.withDefaults()}
}

func (s *BookingService) GetBooking(ctx context.Context, id string) (model.Booking, error) {
	return s.deps.Bookings.GetBooking(ctx, id)
}

// GetBookingByNumber 按对外展示的预订编号查询
func (s *BookingService) GetBookingByNumber(ctx context.Context, number string) (model.Booking, error) {
	if strings.TrimSpace(number) == "" {
		return model.Booking{}, pkgerrors.Validation("booking", "", "booking_number", "booking number is required", nil, number)
	}
	return s.deps.Bookings.GetBookingByNumber(ctx, number)
}

func (s *BookingService) ListBookings(ctx context.Context, f repository.BookingFilter) ([]model.Booking, error) {
	if f.Status != "" && !f.Status.IsValid() {
		return nil, pkgerrors.Validation("booking", "", "status", "unknown booking status", nil, string(f.Status))
	}
	return s.deps.Bookings.ListBookings(ctx, f)
}

// withLock 持有 key 对应的分布式锁执行 fn
func (s *BookingService) withLock(ctx context.Context, entity, id string, fn func() error) error {
	if s.deps.Locker == nil {
		return fn()
	}

	release, ok, err := s.deps.Locker.Acquire(ctx, entity+":"+id)
	if err != nil {
		return err
	}
	if !ok {
		metrics.RecordLockContention(ctx, entity)
		return pkgerrors.Locked(entity, id)
	}
	defer release(context.WithoutCancel(ctx))

	return fn()
}

// CreateBooking 占用 tour 名额并生成 pending 预订
func (s *BookingService) CreateBooking(ctx context.Context, in CreateBookingInput) (model.Booking, error) {
	if in.Resource.Kind != model.ResourceTour {
		// 其他资源类型的库存不在本服务维护
		return model.Booking{}, pkgerrors.Validation("booking", "", "resource.kind", "only tour resources can be booked here",
			string(model.ResourceTour), string(in.Resource.Kind))
	}

	id, err := s.deps.NewID()
	if err != nil {
		return model.Booking{}, fmt.Errorf("failed to generate booking ID: %w", err)
	}
	number, err := s.deps.NewNumber()
	if err != nil {
		return model.Booking{}, fmt.Errorf("failed to generate booking number: %w", err)
	}

	draft := booking.Draft{
		ID:                 id,
		BookingNumber:      number,
		CustomerID:         in.CustomerID,
		TourDate:           in.TourDate,
		SpecialRequests:    in.SpecialRequests,
		Resource:           in.Resource,
		Contact:            in.Contact,
		Participants:       in.Participants,
		ParticipantDetails: in.ParticipantDetails,
	}

	var created model.Booking
	err = s.withLock(ctx, "tour", in.Resource.ID, func() error {
		tour, err := s.deps.Tours.GetTour(ctx, in.Resource.ID)
		if err != nil {
			return err
		}

		b, err := booking.Create(draft, booking.InventoryFromTour(tour), s.deps.Now())
		if err != nil {
			return err
		}

		reserved, err := s.deps.Tours.UpdateTour(ctx, booking.Reserve(tour, b))
		if err != nil {
			return err
		}

		created, err = s.deps.Bookings.CreateBooking(ctx, b)
		if err != nil {
			// 归还刚占用的名额
			if _, rerr := s.deps.Tours.UpdateTour(ctx, booking.Release(reserved, b)); rerr != nil {
				logger.ForBooking(b.ID, "create").Error("Failed to roll back tour reservation",
					zap.String("tour_id", tour.ID),
					zap.Error(rerr),
				)
			}
			return err
		}
		return nil
	})
	if err != nil {
		s.recordRejected(ctx, "create", err)
		return model.Booking{}, err
	}

	metrics.RecordBookingTransition(ctx, "create", "", string(created.Status))
	s.publish(ctx, model.NewBookingEvent(model.EventBookingCreated, "", created, s.deps.Now()))
	logger.ForBooking(created.ID, "create").Info("Booking created",
		zap.String("booking_number", created.BookingNumber),
		zap.String("tour_id", in.Resource.ID),
		zap.Int("participants", created.Participants.Total()),
	)
	return created, nil
}

// transition 加锁、加载、执行核心操作、按版本写回、发布事件
func (s *BookingService) transition(
	ctx context.Context,
	id string,
	op booking.Operation,
	fn func(model.Booking) (model.Booking, error),
) (model.Booking, error) {
	var (
		before model.Booking
		after  model.Booking
	)
	err := s.withLock(ctx, "booking", id, func() error {
		current, err := s.deps.Bookings.GetBooking(ctx, id)
		if err != nil {
			return err
		}
		before = current

		next, err := fn(current)
		if err != nil {
			return err
		}

		after, err = s.deps.Bookings.UpdateBooking(ctx, next)
		return err
	})
	if err != nil {
		s.recordRejected(ctx, string(op), err)
		return model.Booking{}, err
	}

	metrics.RecordBookingTransition(ctx, string(op), string(before.Status), string(after.Status))
	if after.Status == model.BookingPaid && before.Status != model.BookingPaid {
		metrics.RecordRevenue(ctx, after.Pricing.Currency, after.Pricing.TotalAmount)
	}
	if evt, ok := eventFor(op, before, after); ok {
		s.publish(ctx, model.NewBookingEvent(evt, before.Status, after, s.deps.Now()))
	}
	return after, nil
}

// eventFor 操作对应的事件，支付仍为 pending 时不发布
func eventFor(op booking.Operation, before, after model.Booking) (model.BookingEventType, bool) {
	switch op {
	case booking.OpConfirm:
		return model.EventBookingConfirmed, true
	case booking.OpPayment:
		switch after.Payment.Status {
		case model.PaymentCompleted:
			return model.EventBookingPaid, before.Status != after.Status
		case model.PaymentFailed:
			return model.EventPaymentFailed, true
		}
		return "", false
	case booking.OpStart:
		return model.EventBookingStarted, true
	case booking.OpCancel:
		return model.EventBookingCancelled, true
	case booking.OpComplete:
		return model.EventBookingCompleted, true
	case booking.OpRefund:
		return model.EventBookingRefunded, true
	case booking.OpNoShow:
		return model.EventBookingNoShow, true
	}
	return "", false
}

func (s *BookingService) Confirm(ctx context.Context, id string) (model.Booking, error) {
	return s.transition(ctx, id, booking.OpConfirm, func(b model.Booking) (model.Booking, error) {
		return booking.Confirm(b, s.deps.Now())
	})
}

func (s *BookingService) RecordPayment(ctx context.Context, id string, info booking.PaymentInfo) (model.Booking, error) {
	return s.transition(ctx, id, booking.OpPayment, func(b model.Booking) (model.Booking, error) {
		return booking.RecordPayment(b, info, s.deps.Now())
	})
}

func (s *BookingService) Start(ctx context.Context, id string) (model.Booking, error) {
	return s.transition(ctx, id, booking.OpStart, func(b model.Booking) (model.Booking, error) {
		return booking.Start(b, s.deps.Now())
	})
}

// Cancel 按 tour 的取消策略估算退款后取消
func (s *BookingService) Cancel(ctx context.Context, id, reason string) (model.Booking, error) {
	return s.transition(ctx, id, booking.OpCancel, func(b model.Booking) (model.Booking, error) {
		now := s.deps.Now()
		var quote booking.RefundQuote
		if booking.CanApply(booking.OpCancel, b.Status) {
			q, err := s.quoteRefund(ctx, b, now)
			if err != nil {
				return b, err
			}
			quote = q
		}
		return booking.Cancel(b, reason, quote, now)
	})
}

func (s *BookingService) Complete(ctx context.Context, id string) (model.Booking, error) {
	return s.transition(ctx, id, booking.OpComplete, func(b model.Booking) (model.Booking, error) {
		return booking.Complete(b, s.deps.Now())
	})
}

func (s *BookingService) Refund(ctx context.Context, id string) (model.Booking, error) {
	return s.transition(ctx, id, booking.OpRefund, func(b model.Booking) (model.Booking, error) {
		return booking.Refund(b, s.deps.Now())
	})
}

func (s *BookingService) MarkNoShow(ctx context.Context, id string) (model.Booking, error) {
	return s.transition(ctx, id, booking.OpNoShow, func(b model.Booking) (model.Booking, error) {
		return booking.MarkNoShow(b, s.deps.Now())
	})
}

func (s *BookingService) quoteRefund(ctx context.Context, b model.Booking, now time.Time) (booking.RefundQuote, error) {
	if b.Resource.Kind != model.ResourceTour {
		return booking.RefundQuote{}, nil
	}

	tour, err := s.deps.Tours.GetTour(ctx, b.Resource.ID)
	if err != nil {
		if pkgerrors.Is(err, pkgerrors.NotFound) {
			// tour 已下架时按无策略处理
			return booking.RefundQuote{}, nil
		}
		return booking.RefundQuote{}, err
	}

	departure, ok := booking.DepartureTime(b, s.deps.Location)
	if !ok {
		// 没有出团日期时视为远未出发
		departure = now.AddDate(100, 0, 0)
	}
	return booking.EvaluateRefund(tour.CancellationPolicy, b, departure, now), nil
}

// ReleaseCapacity 取消、退款、未到场后把名额还给 tour，版本冲突时重试
func (s *BookingService) ReleaseCapacity(ctx context.Context, evt model.BookingEvent) error {
	if evt.Resource.Kind != model.ResourceTour {
		return nil
	}

	b, err := s.deps.Bookings.GetBooking(ctx, evt.BookingID)
	if err != nil {
		return err
	}

	for attempt := 1; ; attempt++ {
		tour, err := s.deps.Tours.GetTour(ctx, evt.Resource.ID)
		if err != nil {
			if pkgerrors.Is(err, pkgerrors.NotFound) {
				logger.Logger.Warn("Tour missing, capacity not released",
					zap.String("tour_id", evt.Resource.ID),
					zap.String("booking_id", evt.BookingID),
				)
				return nil
			}
			return err
		}

		_, err = s.deps.Tours.UpdateTour(ctx, booking.Release(tour, b))
		if err == nil {
			logger.ForBooking(b.ID, "release").Info("Tour capacity released",
				zap.String("tour_id", tour.ID),
				zap.Int("participants", b.Participants.Total()),
			)
			return nil
		}
		if !pkgerrors.Is(err, pkgerrors.VersionConflict) || attempt >= capacityRetries {
			return err
		}
	}
}

// ProviderStats 供应商统计，先读缓存
func (s *BookingService) ProviderStats(ctx context.Context, providerID string) (booking.Statistics, error) {
	if s.deps.Stats != nil {
		stats, hit, err := s.deps.Stats.GetStats(ctx, providerID)
		if err != nil {
			logger.Logger.Debug("Stats cache unavailable", zap.String("provider_id", providerID), zap.Error(err))
		} else if hit {
			return stats, nil
		}
	}
	return s.refreshStats(ctx, providerID)
}

func (s *BookingService) refreshStats(ctx context.Context, providerID string) (booking.Statistics, error) {
	bookings, err := s.deps.Bookings.ListBookings(ctx, repository.BookingFilter{ProviderID: providerID})
	if err != nil {
		return booking.Statistics{}, err
	}

	stats := booking.ComputeStatistics(bookings)
	if s.deps.Stats != nil {
		if err := s.deps.Stats.SetStats(ctx, providerID, stats); err != nil {
			logger.Logger.Debug("Failed to cache stats", zap.String("provider_id", providerID), zap.Error(err))
		}
	}
	return stats, nil
}

// RefreshAllStats 重新计算所有供应商的统计缓存，返回刷新数量
func (s *BookingService) RefreshAllStats(ctx context.Context) (int, error) {
	providers, err := s.deps.Bookings.ListProviderIDs(ctx)
	if err != nil {
		return 0, err
	}

	refreshed := 0
	for _, providerID := range providers {
		if err := ctx.Err(); err != nil {
			return refreshed, err
		}
		if _, err := s.refreshStats(ctx, providerID); err != nil {
			logger.Logger.Warn("Failed to refresh provider stats",
				zap.String("provider_id", providerID),
				zap.Error(err),
			)
			continue
		}
		refreshed++
	}
	return refreshed, nil
}

// StalePending 超过配置时长仍未确认的预订，仅用于提醒供应商
func (s *BookingService) StalePending(ctx context.Context) ([]model.Booking, error) {
	age := time.Duration(config.Cfg.PendingStaleHours * float64(time.Hour))
	return s.deps.Bookings.ListStalePending(ctx, s.deps.Now().Add(-age), staleBatchSize)
}

// AvailableActions 当前状态下可执行的操作
func (s *BookingService) AvailableActions(b model.Booking) []booking.Operation {
	return booking.AvailableActions(b.Status)
}

func (s *BookingService) publish(ctx context.Context, evt model.BookingEvent) {
	if s.deps.Events == nil {
		return
	}
	if err := s.deps.Events.PublishBookingEvent(ctx, evt); err != nil {
		logger.ForBooking(evt.BookingID, "publish").Error("Booking event not published",
			zap.String("event", string(evt.Event)),
			zap.Error(err),
		)
	}
}

func (s *BookingService) recordRejected(ctx context.Context, op string, err error) {
	code := "INTERNAL_ERROR"
	if def, ok := pkgerrors.DefinitionOf(err); ok {
		code = def.Code
	}
	metrics.RecordBookingRejected(ctx, op, code)
}
