package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"TourCore/internal/model"
)

type ItineraryRepository struct {
	db *gorm.DB
}

func NewItineraryRepository(db *gorm.DB) *ItineraryRepository {
	return &ItineraryRepository{db: db}
}

func (r *ItineraryRepository) GetItinerary(ctx context.Context, id string) (model.Itinerary, error) {
	pk, err := ParseID("itinerary", id)
	if err != nil {
		return model.Itinerary{}, err
	}

	var rec model.ItineraryRecord
	if err := first(ctx, r.db, "itinerary", id, &rec, pk); err != nil {
		return model.Itinerary{}, err
	}
	return itineraryFromRecord(rec)
}

func (r *ItineraryRepository) CreateItinerary(ctx context.Context, it model.Itinerary) (model.Itinerary, error) {
	rec, err := itineraryToRecord(it)
	if err != nil {
		return model.Itinerary{}, err
	}
	rec.Version = 1

	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return model.Itinerary{}, fmt.Errorf("create itinerary: %w", err)
	}
	it.Version = rec.Version
	return it, nil
}

func (r *ItineraryRepository) UpdateItinerary(ctx context.Context, it model.Itinerary) (model.Itinerary, error) {
	rec, err := itineraryToRecord(it)
	if err != nil {
		return model.Itinerary{}, err
	}
	expected := it.Version
	rec.Version = expected + 1

	if err := updateVersioned(ctx, r.db, "itinerary", it.ID, &rec, expected); err != nil {
		return model.Itinerary{}, err
	}
	it.Version = rec.Version
	return it, nil
}

// ListItinerariesByTour tour 下的行程，status 为空时不过滤，按更新时间倒序
func (r *ItineraryRepository) ListItinerariesByTour(ctx context.Context, tourID string, status model.ItineraryStatus) ([]model.Itinerary, error) {
	pk, err := ParseID("tour", tourID)
	if err != nil {
		return nil, err
	}

	q := r.db.WithContext(ctx).Where("tour_id = ?", pk)
	if status != "" {
		q = q.Where("status = ?", string(status))
	}

	var recs []model.ItineraryRecord
	if err := q.Order("updated_at DESC").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("list itineraries of tour %s: %w", tourID, err)
	}
	return itinerariesFromRecords(recs)
}

// ListForks 由 sourceID 直接派生的行程
func (r *ItineraryRepository) ListForks(ctx context.Context, sourceID string) ([]model.Itinerary, error) {
	pk, err := ParseID("itinerary", sourceID)
	if err != nil {
		return nil, err
	}

	var recs []model.ItineraryRecord
	err = r.db.WithContext(ctx).
		Where("forked_from = ?", pk).
		Order("created_at ASC").
		Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("list forks of itinerary %s: %w", sourceID, err)
	}
	return itinerariesFromRecords(recs)
}

func itinerariesFromRecords(recs []model.ItineraryRecord) ([]model.Itinerary, error) {
	out := make([]model.Itinerary, 0, len(recs))
	for _, rec := range recs {
		it, err := itineraryFromRecord(rec)
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, nil
}
