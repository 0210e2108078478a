package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"TourCore/internal/model"
	pkgerrors "TourCore/pkg/errors"
)

// BookingFilter 列表查询条件，零值字段不参与过滤
type BookingFilter struct {
	ProviderID string
	CustomerID string
	Status     model.BookingStatus
	Limit      int
	Offset     int
}

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

func (r *BookingRepository) GetBooking(ctx context.Context, id string) (model.Booking, error) {
	pk, err := ParseID("booking", id)
	if err != nil {
		return model.Booking{}, err
	}

	var rec model.BookingRecord
	if err := first(ctx, r.db, "booking", id, &rec, pk); err != nil {
		return model.Booking{}, err
	}
	return bookingFromRecord(rec)
}

// GetBookingByNumber 按预订编号查询，编号唯一
func (r *BookingRepository) GetBookingByNumber(ctx context.Context, number string) (model.Booking, error) {
	var rec model.BookingRecord
	err := r.db.WithContext(ctx).
		Where("booking_number = ?", number).
		Take(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Booking{}, pkgerrors.NotFoundError("booking", number)
	}
	if err != nil {
		return model.Booking{}, fmt.Errorf("load booking by number %s: %w", number, err)
	}
	return bookingFromRecord(rec)
}

func (r *BookingRepository) CreateBooking(ctx context.Context, b model.Booking) (model.Booking, error) {
	rec, err := bookingToRecord(b)
	if err != nil {
		return model.Booking{}, err
	}
	rec.Version = 1

	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return model.Booking{}, fmt.Errorf("create booking: %w", err)
	}
	b.Version = rec.Version
	return b, nil
}

func (r *BookingRepository) UpdateBooking(ctx context.Context, b model.Booking) (model.Booking, error) {
	rec, err := bookingToRecord(b)
	if err != nil {
		return model.Booking{}, err
	}
	expected := b.Version
	rec.Version = expected + 1

	if err := updateVersioned(ctx, r.db, "booking", b.ID, &rec, expected); err != nil {
		return model.Booking{}, err
	}
	b.Version = rec.Version
	return b, nil
}

// ListBookings 按创建时间倒序；Limit <= 0 时返回全部
func (r *BookingRepository) ListBookings(ctx context.Context, f BookingFilter) ([]model.Booking, error) {
	q := r.db.WithContext(ctx).Model(&model.BookingRecord{})
	if f.ProviderID != "" {
		q = q.Where("provider_id = ?", f.ProviderID)
	}
	if f.CustomerID != "" {
		q = q.Where("customer_id = ?", f.CustomerID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", string(f.Status))
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	if f.Offset > 0 {
		q = q.Offset(f.Offset)
	}

	var recs []model.BookingRecord
	if err := q.Order("created_at DESC").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return bookingsFromRecords(recs)
}

// ListStalePending 创建时间早于 before 仍处于 pending 的预订
func (r *BookingRepository) ListStalePending(ctx context.Context, before time.Time, limit int) ([]model.Booking, error) {
	var recs []model.BookingRecord
	err := r.db.WithContext(ctx).
		Where("status = ? AND created_at < ?", string(model.BookingPending), before).
		Order("created_at ASC").
		Limit(limit).
		Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("list stale pending bookings: %w", err)
	}
	return bookingsFromRecords(recs)
}

// ListProviderIDs 有预订记录的供应商
func (r *BookingRepository) ListProviderIDs(ctx context.Context) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&model.BookingRecord{}).
		Distinct("provider_id").
		Pluck("provider_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("list provider ids: %w", err)
	}
	return ids, nil
}

func bookingsFromRecords(recs []model.BookingRecord) ([]model.Booking, error) {
	out := make([]model.Booking, 0, len(recs))
	for _, rec := range recs {
		b, err := bookingFromRecord(rec)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}
