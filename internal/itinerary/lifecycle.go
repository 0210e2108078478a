package itinerary

import (
	"strings"
	"time"

	"TourCore/internal/model"
	pkgerrors "TourCore/pkg/errors"
	"TourCore/utils"
)

// Publish 草稿发布，至少要有一项活动且整体校验通过
func Publish(it model.Itinerary, now time.Time) (model.Itinerary, error) {
	if it.Status != model.ItineraryStatusDraft {
		return it, pkgerrors.Transition(entityItinerary, it.ID, "publish", string(it.Status),
			[]string{string(model.ItineraryStatusDraft)})
	}
	if len(it.Activities) == 0 {
		return it, pkgerrors.Validation(entityItinerary, it.ID, "activities", "cannot publish an itinerary without activities", ">= 1", 0)
	}
	if err := Validate(it); err != nil {
		return it, err
	}

	out := it.Clone()
	out.Status = model.ItineraryStatusPublished
	out.UpdatedAt = now
	return out, nil
}

// Archive 归档，草稿与已发布均可
func Archive(it model.Itinerary, now time.Time) (model.Itinerary, error) {
	if it.Status != model.ItineraryStatusDraft && it.Status != model.ItineraryStatusPublished {
		return it, pkgerrors.Transition(entityItinerary, it.ID, "archive", string(it.Status),
			[]string{string(model.ItineraryStatusDraft), string(model.ItineraryStatusPublished)})
	}

	out := it.Clone()
	out.Status = model.ItineraryStatusArchived
	out.UpdatedAt = now
	return out, nil
}

// Fork 复制为新的草稿，活动与预算项换新 ID，预算项对活动的引用随之重映射
func Fork(it model.Itinerary, newItineraryID string, now time.Time) (model.Itinerary, error) {
	if strings.TrimSpace(newItineraryID) == "" {
		return it, pkgerrors.Validation(entityItinerary, it.ID, "id", "fork id is required", nil, nil)
	}

	out := it.Clone()
	source := it.ID
	out.ID = newItineraryID
	out.ForkedFrom = &source
	out.Status = model.ItineraryStatusDraft
	out.Version = 0
	out.CreatedAt = now
	out.UpdatedAt = now
	if !strings.HasPrefix(out.Title, forkTitlePrefix) {
		out.Title = forkTitlePrefix + out.Title
	}

	remap := make(map[string]string, len(out.Activities))
	for i := range out.Activities {
		id := newID()
		remap[out.Activities[i].ID] = id
		out.Activities[i].ID = id
	}
	for i := range out.BudgetItems {
		out.BudgetItems[i].ID = newID()
		if ref := out.BudgetItems[i].ActivityID; ref != nil {
			if mapped, ok := remap[*ref]; ok {
				out.BudgetItems[i].ActivityID = &mapped
			} else {
				out.BudgetItems[i].ActivityID = nil
			}
		}
	}
	return out, nil
}

// Validate 校验整份快照的不变量，用于发布前以及从存储加载的数据
func Validate(it model.Itinerary) error {
	if it.Duration.Days < 1 {
		return pkgerrors.Validation(entityItinerary, it.ID, "duration.days", "duration must be at least one day", ">= 1", it.Duration.Days)
	}

	ids := make(map[string]struct{}, len(it.Activities))
	orders := make(map[int]map[int]string)
	for _, a := range it.Activities {
		if _, dup := ids[a.ID]; dup {
			return pkgerrors.Validation(entityActivity, a.ID, "id", "duplicate activity id", "unique id", a.ID)
		}
		ids[a.ID] = struct{}{}

		if err := validateActivity(it, a); err != nil {
			return err
		}

		if orders[a.DayNumber] == nil {
			orders[a.DayNumber] = make(map[int]string)
		}
		if other, tie := orders[a.DayNumber][a.Order]; tie {
			return pkgerrors.Validation(entityActivity, a.ID, "order", "order ties with activity "+other, "strict order within a day", a.Order)
		}
		orders[a.DayNumber][a.Order] = a.ID
	}

	itemIDs := make(map[string]struct{}, len(it.BudgetItems))
	for _, b := range it.BudgetItems {
		if _, dup := itemIDs[b.ID]; dup {
			return pkgerrors.Validation(entityBudget, b.ID, "id", "duplicate budget item id", "unique id", b.ID)
		}
		itemIDs[b.ID] = struct{}{}

		if err := validateBudgetItem(it, b); err != nil {
			return err
		}
		if expected := lineTotal(b); utils.RoundCents(b.TotalPrice) != expected {
			return pkgerrors.Validation(entityBudget, b.ID, "total_price", "total_price must equal quantity * unit_price", expected, b.TotalPrice)
		}
	}
	return nil
}
