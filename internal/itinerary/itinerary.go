// Package itinerary 维护 tour 的逐日行程与预算。
//
// 所有操作都接收一个 Itinerary 快照并返回新的快照，入参不会被修改，
// 调用方负责把结果持久化。
package itinerary

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"TourCore/internal/model"
	pkgerrors "TourCore/pkg/errors"
)

const (
	entityItinerary = "itinerary"
	entityActivity  = "activity"
	entityBudget    = "budget_item"

	forkTitlePrefix = "Forked - "
)

// newID 生成活动与预算项 ID，测试中可替换
var newID = uuid.NewString

// New 创建草稿状态的行程
func New(id, tourID, title string, duration model.Duration, now time.Time) (model.Itinerary, error) {
	if strings.TrimSpace(id) == "" {
		return model.Itinerary{}, pkgerrors.Validation(entityItinerary, id, "id", "id is required", nil, nil)
	}
	if strings.TrimSpace(tourID) == "" {
		return model.Itinerary{}, pkgerrors.Validation(entityItinerary, id, "tour_id", "tour_id is required", nil, nil)
	}
	if duration.Days < 1 {
		return model.Itinerary{}, pkgerrors.Validation(entityItinerary, id, "duration.days", "duration must be at least one day", ">= 1", duration.Days)
	}
	if duration.Nights < 0 || duration.Nights > duration.Days {
		return model.Itinerary{}, pkgerrors.Validation(entityItinerary, id, "duration.nights", "nights out of range", fmt.Sprintf("[0, %d]", duration.Days), duration.Nights)
	}

	return model.Itinerary{
		ID:          id,
		TourID:      tourID,
		Title:       strings.TrimSpace(title),
		Duration:    duration,
		Status:      model.ItineraryStatusDraft,
		Activities:  []model.Activity{},
		BudgetItems: []model.BudgetLineItem{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

func indexOfActivity(it model.Itinerary, id string) int {
	for i, a := range it.Activities {
		if a.ID == id {
			return i
		}
	}
	return -1
}

func indexOfBudgetItem(it model.Itinerary, id string) int {
	for i, b := range it.BudgetItems {
		if b.ID == id {
			return i
		}
	}
	return -1
}

func dayRange(it model.Itinerary) string {
	return fmt.Sprintf("[1, %d]", it.Duration.Days)
}

func inDayRange(it model.Itinerary, day int) bool {
	return day >= 1 && day <= it.Duration.Days
}
