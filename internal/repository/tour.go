package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"TourCore/internal/model"
)

type TourRepository struct {
	db *gorm.DB
}

func NewTourRepository(db *gorm.DB) *TourRepository {
	return &TourRepository{db: db}
}

func (r *TourRepository) GetTour(ctx context.Context, id string) (model.Tour, error) {
	pk, err := ParseID("tour", id)
	if err != nil {
		return model.Tour{}, err
	}

	var rec model.TourRecord
	if err := first(ctx, r.db, "tour", id, &rec, pk); err != nil {
		return model.Tour{}, err
	}
	return tourFromRecord(rec)
}

func (r *TourRepository) CreateTour(ctx context.Context, t model.Tour) (model.Tour, error) {
	rec, err := tourToRecord(t)
	if err != nil {
		return model.Tour{}, err
	}
	rec.Version = 1

	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return model.Tour{}, fmt.Errorf("create tour: %w", err)
	}
	t.Version = rec.Version
	return t, nil
}

// UpdateTour 以 t.Version 作为期望版本写入，返回新版本
func (r *TourRepository) UpdateTour(ctx context.Context, t model.Tour) (model.Tour, error) {
	rec, err := tourToRecord(t)
	if err != nil {
		return model.Tour{}, err
	}
	expected := t.Version
	rec.Version = expected + 1

	if err := updateVersioned(ctx, r.db, "tour", t.ID, &rec, expected); err != nil {
		return model.Tour{}, err
	}
	t.Version = rec.Version
	return t, nil
}
