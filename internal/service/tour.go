package service

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"TourCore/internal/booking"
	"TourCore/internal/model"
	"TourCore/pkg/logger"
)

type TourService struct {
	deps Deps
}

var (
	tourService *TourService
	tourOnce    sync.Once
)

func Tour() *TourService {
	tourOnce.Do(func() {
		tourService = NewTourService(defaultDeps())
	})
	return tourService
}

func NewTourService(d Deps) *TourService {
	return &TourService{deps: d.withDefaults()}
}

func (s *TourService) GetTour(ctx context.Context, id string) (model.Tour, error) {
	return s.deps.Tours.GetTour(ctx, id)
}

// CreateTour 供应商录入 tour，ID 由服务端生成
func (s *TourService) CreateTour(ctx context.Context, t model.Tour) (model.Tour, error) {
	id, err := s.deps.NewID()
	if err != nil {
		return model.Tour{}, fmt.Errorf("failed to generate tour ID: %w", err)
	}
	t.ID = id

	prepared, err := booking.PrepareTour(t, s.deps.Now())
	if err != nil {
		return model.Tour{}, err
	}

	created, err := s.deps.Tours.CreateTour(ctx, prepared)
	if err != nil {
		logger.Logger.Error("Failed to create tour",
			zap.String("provider_id", prepared.ProviderID),
			zap.Error(err),
		)
		return model.Tour{}, err
	}

	logger.Logger.Info("Tour created",
		zap.String("tour_id", created.ID),
		zap.String("provider_id", created.ProviderID),
		zap.Int("dates", len(created.AvailableDates)),
	)
	return created, nil
}
