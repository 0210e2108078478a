package service

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"TourCore/internal/itinerary"
	"TourCore/internal/model"
	pkgerrors "TourCore/pkg/errors"
	"TourCore/pkg/logger"
	"TourCore/pkg/metrics"
)

// DayPlan 某一天的活动与预算小计
type DayPlan struct {
	Activities []model.Activity `json:"activities"`
	Day        int              `json:"day"`
	Budget     float64          `json:"budget"`
}

// DayView 逐日视图
type DayView struct {
	ItineraryID string    `json:"itinerary_id"`
	Days        []DayPlan `json:"days"`
	Version     int64     `json:"version"`
}

// CreateItineraryInput 新建行程
type CreateItineraryInput struct {
	TourID   string
	Title    string
	Duration model.Duration
}

type ItineraryService struct {
	deps    Deps
	grouper *itinerary.Grouper
}

var (
	itineraryService *ItineraryService
	itineraryOnce    sync.Once
)

func Itinerary() *ItineraryService {
	itineraryOnce.Do(func() {
		itineraryService = NewItineraryService(defaultDeps())
	})
	return itineraryService
}

func NewItineraryService(d Deps) *ItineraryService {
	return &ItineraryService{
		deps:    d.withDefaults(),
		grouper: itinerary.NewGrouper(0),
	}
}

func (s *ItineraryService) GetItinerary(ctx context.Context, id string) (model.Itinerary, error) {
	return s.deps.Itineraries.GetItinerary(ctx, id)
}

// CreateItinerary 为已存在的 tour 新建草稿行程
// ListByTour tour 下的行程，status 为空时返回全部
func (s *ItineraryService) ListByTour(ctx context.Context, tourID string, status model.ItineraryStatus) ([]model.Itinerary, error) {
	if status != "" && !status.IsValid() {
		return nil, pkgerrors.Validation("itinerary", "", "status", "unknown itinerary status", nil, string(status))
	}
	return s.deps.Itineraries.ListItinerariesByTour(ctx, tourID, status)
}

// Forks 由该行程派生出的行程，源行程必须存在
func (s *ItineraryService) Forks(ctx context.Context, id string) ([]model.Itinerary, error) {
	if _, err := s.deps.Itineraries.GetItinerary(ctx, id); err != nil {
		return nil, err
	}
	return s.deps.Itineraries.ListForks(ctx, id)
}

func (s *ItineraryService) CreateItinerary(ctx context.Context, in CreateItineraryInput) (model.Itinerary, error) {
	if _, err := s.deps.Tours.GetTour(ctx, in.TourID); err != nil {
		if pkgerrors.Is(err, pkgerrors.NotFound) {
			return model.Itinerary{}, pkgerrors.Validation("itinerary", "", "tour_id", "tour does not exist", nil, in.TourID)
		}
		return model.Itinerary{}, err
	}

	id, err := s.deps.NewID()
	if err != nil {
		return model.Itinerary{}, fmt.Errorf("failed to generate itinerary ID: %w", err)
	}

	it, err := itinerary.New(id, in.TourID, in.Title, in.Duration, s.deps.Now())
	if err != nil {
		metrics.RecordItineraryMutation(ctx, "create", "rejected")
		return model.Itinerary{}, err
	}

	created, err := s.deps.Itineraries.CreateItinerary(ctx, it)
	if err != nil {
		metrics.RecordItineraryMutation(ctx, "create", "error")
		return model.Itinerary{}, err
	}
	metrics.RecordItineraryMutation(ctx, "create", "success")
	return created, nil
}

// mutate 加载、修改、按版本写回
func (s *ItineraryService) mutate(
	ctx context.Context,
	id string,
	op string,
	fn func(model.Itinerary) (model.Itinerary, error),
) (model.Itinerary, error) {
	current, err := s.deps.Itineraries.GetItinerary(ctx, id)
	if err != nil {
		return model.Itinerary{}, err
	}

	next, err := fn(current)
	if err != nil {
		metrics.RecordItineraryMutation(ctx, op, "rejected")
		return model.Itinerary{}, err
	}
	next.UpdatedAt = s.deps.Now()

	saved, err := s.deps.Itineraries.UpdateItinerary(ctx, next)
	if err != nil {
		status := "error"
		if pkgerrors.Is(err, pkgerrors.VersionConflict) {
			status = "conflict"
		}
		metrics.RecordItineraryMutation(ctx, op, status)
		logger.ForItinerary(id, op).Warn("Failed to save itinerary", zap.Error(err))
		return model.Itinerary{}, err
	}

	metrics.RecordItineraryMutation(ctx, op, "success")
	return saved, nil
}

func (s *ItineraryService) AddActivity(ctx context.Context, id string, draft itinerary.ActivityDraft) (model.Itinerary, model.Activity, error) {
	var added model.Activity
	it, err := s.mutate(ctx, id, "add_activity", func(it model.Itinerary) (model.Itinerary, error) {
		out, act, err := itinerary.AddActivity(it, draft)
		added = act
		return out, err
	})
	return it, added, err
}

func (s *ItineraryService) UpdateActivity(ctx context.Context, id, activityID string, patch itinerary.ActivityPatch) (model.Itinerary, model.Activity, error) {
	var updated model.Activity
	it, err := s.mutate(ctx, id, "update_activity", func(it model.Itinerary) (model.Itinerary, error) {
		out, act, err := itinerary.UpdateActivity(it, activityID, patch)
		updated = act
		return out, err
	})
	return it, updated, err
}

func (s *ItineraryService) DeleteActivity(ctx context.Context, id, activityID string) (model.Itinerary, error) {
	return s.mutate(ctx, id, "delete_activity", func(it model.Itinerary) (model.Itinerary, error) {
		return itinerary.DeleteActivity(it, activityID)
	})
}

func (s *ItineraryService) ReorderActivities(ctx context.Context, id string, day int, orderedIDs []string) (model.Itinerary, error) {
	return s.mutate(ctx, id, "reorder_activities", func(it model.Itinerary) (model.Itinerary, error) {
		return itinerary.ReorderActivities(it, day, orderedIDs)
	})
}

func (s *ItineraryService) AddBudgetItem(ctx context.Context, id string, draft itinerary.BudgetDraft) (model.Itinerary, model.BudgetLineItem, error) {
	var added model.BudgetLineItem
	it, err := s.mutate(ctx, id, "add_budget_item", func(it model.Itinerary) (model.Itinerary, error) {
		out, item, err := itinerary.AddBudgetItem(it, draft)
		added = item
		return out, err
	})
	return it, added, err
}

func (s *ItineraryService) UpdateBudgetItem(ctx context.Context, id, itemID string, patch itinerary.BudgetPatch) (model.Itinerary, model.BudgetLineItem, error) {
	var updated model.BudgetLineItem
	it, err := s.mutate(ctx, id, "update_budget_item", func(it model.Itinerary) (model.Itinerary, error) {
		out, item, err := itinerary.UpdateBudgetItem(it, itemID, patch)
		updated = item
		return out, err
	})
	return it, updated, err
}

func (s *ItineraryService) DeleteBudgetItem(ctx context.Context, id, itemID string) (model.Itinerary, error) {
	return s.mutate(ctx, id, "delete_budget_item", func(it model.Itinerary) (model.Itinerary, error) {
		return itinerary.DeleteBudgetItem(it, itemID)
	})
}

func (s *ItineraryService) Publish(ctx context.Context, id string) (model.Itinerary, error) {
	return s.mutate(ctx, id, "publish", func(it model.Itinerary) (model.Itinerary, error) {
		return itinerary.Publish(it, s.deps.Now())
	})
}

func (s *ItineraryService) Archive(ctx context.Context, id string) (model.Itinerary, error) {
	return s.mutate(ctx, id, "archive", func(it model.Itinerary) (model.Itinerary, error) {
		return itinerary.Archive(it, s.deps.Now())
	})
}

// Fork 复制为新的草稿行程，原行程不变
func (s *ItineraryService) Fork(ctx context.Context, id string) (model.Itinerary, error) {
	source, err := s.deps.Itineraries.GetItinerary(ctx, id)
	if err != nil {
		return model.Itinerary{}, err
	}

	newID, err := s.deps.NewID()
	if err != nil {
		return model.Itinerary{}, fmt.Errorf("failed to generate itinerary ID: %w", err)
	}

	forked, err := itinerary.Fork(source, newID, s.deps.Now())
	if err != nil {
		metrics.RecordItineraryMutation(ctx, "fork", "rejected")
		return model.Itinerary{}, err
	}

	created, err := s.deps.Itineraries.CreateItinerary(ctx, forked)
	if err != nil {
		metrics.RecordItineraryMutation(ctx, "fork", "error")
		return model.Itinerary{}, err
	}
	metrics.RecordItineraryMutation(ctx, "fork", "success")
	return created, nil
}

// Days 逐日视图，按 id+version 缓存
func (s *ItineraryService) Days(ctx context.Context, id string) (DayView, error) {
	it, err := s.deps.Itineraries.GetItinerary(ctx, id)
	if err != nil {
		return DayView{}, err
	}

	if s.deps.DayViews != nil {
		var cached DayView
		hit, err := s.deps.DayViews.GetDays(ctx, it.ID, it.Version, &cached)
		if err != nil {
			logger.Logger.Debug("Day view cache unavailable", zap.String("itinerary_id", id), zap.Error(err))
		} else if hit {
			return cached, nil
		}
	}

	view := s.buildDayView(it)

	if s.deps.DayViews != nil {
		if err := s.deps.DayViews.SetDays(ctx, it.ID, it.Version, view); err != nil {
			logger.Logger.Debug("Failed to cache day view", zap.String("itinerary_id", id), zap.Error(err))
		}
	}
	return view, nil
}

func (s *ItineraryService) buildDayView(it model.Itinerary) DayView {
	groups := s.grouper.Group(it)
	budget := itinerary.BudgetByDay(it)

	view := DayView{ItineraryID: it.ID, Version: it.Version, Days: make([]DayPlan, 0, it.Duration.Days)}
	for day := 1; day <= it.Duration.Days; day++ {
		acts := groups[day]
		if acts == nil {
			acts = []model.Activity{}
		}
		view.Days = append(view.Days, DayPlan{Day: day, Activities: acts, Budget: budget[day]})
	}
	return view
}

// Budget 预算汇总
func (s *ItineraryService) Budget(ctx context.Context, id string) (itinerary.BudgetSummary, error) {
	it, err := s.deps.Itineraries.GetItinerary(ctx, id)
	if err != nil {
		return itinerary.BudgetSummary{}, err
	}
	return itinerary.Summarize(it), nil
}
