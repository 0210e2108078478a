package itinerary

import (
	"fmt"
	"sort"
	"strings"

	"TourCore/internal/model"
	pkgerrors "TourCore/pkg/errors"
	"TourCore/utils"
)

// ActivityDraft 新增活动的输入
type ActivityDraft struct {
	DestinationID *string
	POIID         *string
	ID            string
	Title         string
	Description   string
	Type          model.ActivityType
	StartTime     string
	EndTime       string
	Status        model.ActivityStatus
	DayNumber     int
}

// ActivityPatch 部分更新，nil 字段保持原值
type ActivityPatch struct {
	Title         *string
	Description   *string
	Type          *model.ActivityType
	StartTime     *string
	EndTime       *string
	Status        *model.ActivityStatus
	DestinationID *string
	POIID         *string
	DayNumber     *int
}

// AddActivity 把活动追加到所在天的末尾
func AddActivity(it model.Itinerary, draft ActivityDraft) (model.Itinerary, model.Activity, error) {
	act := model.Activity{
		ID:            strings.TrimSpace(draft.ID),
		Title:         strings.TrimSpace(draft.Title),
		Description:   draft.Description,
		Type:          draft.Type,
		StartTime:     draft.StartTime,
		EndTime:       draft.EndTime,
		Status:        draft.Status,
		DayNumber:     draft.DayNumber,
		DestinationID: draft.DestinationID,
		POIID:         draft.POIID,
	}

	if act.ID == "" {
		act.ID = newID()
	} else if indexOfActivity(it, act.ID) >= 0 {
		return it, model.Activity{}, pkgerrors.Validation(entityActivity, act.ID, "id", "activity id already exists", "unique id", act.ID)
	}
	if act.Status == "" {
		act.Status = model.ActivityPlanned
	}

	if err := validateActivity(it, act); err != nil {
		return it, model.Activity{}, err
	}

	act.Order = nextOrder(it.Activities, act.DayNumber)

	out := it.Clone()
	out.Activities = append(out.Activities, act.Clone())
	return out, act, nil
}

// UpdateActivity 部分更新活动。换天时活动移到目标天末尾，原来那天重新压实顺序。
func UpdateActivity(it model.Itinerary, activityID string, patch ActivityPatch) (model.Itinerary, model.Activity, error) {
	idx := indexOfActivity(it, activityID)
	if idx < 0 {
		return it, model.Activity{}, pkgerrors.NotFoundError(entityActivity, activityID)
	}

	current := it.Activities[idx]
	next := current.Clone()
	applyActivityPatch(&next, patch)

	if err := validateActivity(it, next); err != nil {
		return it, model.Activity{}, err
	}

	out := it.Clone()
	if next.DayNumber != current.DayNumber {
		next.Order = nextOrder(out.Activities, next.DayNumber)
		out.Activities[idx] = next
		repackDay(out.Activities, current.DayNumber)
	} else {
		out.Activities[idx] = next
	}

	return out, next.Clone(), nil
}

// DeleteActivity 删除活动并把同一天剩余活动压实为 0..n-1。
// 关联到该活动的预算项保留，只去掉 activity_id。
func DeleteActivity(it model.Itinerary, activityID string) (model.Itinerary, error) {
	idx := indexOfActivity(it, activityID)
	if idx < 0 {
		return it, pkgerrors.NotFoundError(entityActivity, activityID)
	}

	day := it.Activities[idx].DayNumber

	out := it.Clone()
	out.Activities = append(out.Activities[:idx], out.Activities[idx+1:]...)
	repackDay(out.Activities, day)

	for i := range out.BudgetItems {
		if ref := out.BudgetItems[i].ActivityID; ref != nil && *ref == activityID {
			out.BudgetItems[i].ActivityID = nil
		}
	}
	return out, nil
}

// ReorderActivities 按 orderedIDs 的下标重排某一天的活动，orderedIDs 必须恰好是该天活动 ID 的一个排列
func ReorderActivities(it model.Itinerary, day int, orderedIDs []string) (model.Itinerary, error) {
	if !inDayRange(it, day) {
		return it, pkgerrors.Validation(entityItinerary, it.ID, "day", "day out of range", dayRange(it), day)
	}

	positions := make(map[string]int)
	for i, a := range it.Activities {
		if a.DayNumber == day {
			positions[a.ID] = i
		}
	}

	if len(orderedIDs) != len(positions) {
		return it, pkgerrors.Validation(entityItinerary, it.ID, "activity_ids",
			"ids must be a permutation of the day's activities", len(positions), len(orderedIDs))
	}

	seen := make(map[string]struct{}, len(orderedIDs))
	for _, id := range orderedIDs {
		if _, ok := positions[id]; !ok {
			return it, pkgerrors.Validation(entityItinerary, it.ID, "activity_ids",
				fmt.Sprintf("activity %s is not scheduled on day %d", id, day), nil, id)
		}
		if _, dup := seen[id]; dup {
			return it, pkgerrors.Validation(entityItinerary, it.ID, "activity_ids",
				fmt.Sprintf("activity %s listed more than once", id), nil, id)
		}
		seen[id] = struct{}{}
	}

	out := it.Clone()
	for order, id := range orderedIDs {
		out.Activities[positions[id]].Order = order
	}
	return out, nil
}

func applyActivityPatch(a *model.Activity, p ActivityPatch) {
	if p.Title != nil {
		a.Title = strings.TrimSpace(*p.Title)
	}
	if p.Description != nil {
		a.Description = *p.Description
	}
	if p.Type != nil {
		a.Type = *p.Type
	}
	if p.StartTime != nil {
		a.StartTime = *p.StartTime
	}
	if p.EndTime != nil {
		a.EndTime = *p.EndTime
	}
	if p.Status != nil {
		a.Status = *p.Status
	}
	if p.DestinationID != nil {
		v := *p.DestinationID
		a.DestinationID = &v
	}
	if p.POIID != nil {
		v := *p.POIID
		a.POIID = &v
	}
	if p.DayNumber != nil {
		a.DayNumber = *p.DayNumber
	}
}

func validateActivity(it model.Itinerary, a model.Activity) error {
	if a.Title == "" {
		return pkgerrors.Validation(entityActivity, a.ID, "title", "title is required", "non-empty", a.Title)
	}
	if !inDayRange(it, a.DayNumber) {
		return pkgerrors.Validation(entityActivity, a.ID, "day_number", "day out of range", dayRange(it), a.DayNumber)
	}
	if !a.Type.IsValid() {
		return pkgerrors.Validation(entityActivity, a.ID, "type", "unknown activity type", model.ActivityTypes, a.Type)
	}
	if !a.Status.IsValid() {
		return pkgerrors.Validation(entityActivity, a.ID, "status", "unknown activity status", model.ActivityStatuses, a.Status)
	}

	start, err := utils.ParseClock(a.StartTime)
	if err != nil {
		return pkgerrors.Validation(entityActivity, a.ID, "start_time", "start_time must be HH:MM", "HH:MM", a.StartTime)
	}
	end, err := utils.ParseClock(a.EndTime)
	if err != nil {
		return pkgerrors.Validation(entityActivity, a.ID, "end_time", "end_time must be HH:MM", "HH:MM", a.EndTime)
	}
	if end <= start {
		return pkgerrors.Validation(entityActivity, a.ID, "end_time", "end_time must be after start_time", "> "+a.StartTime, a.EndTime)
	}
	return nil
}

// nextOrder 追加位置：当天活动数；若存量数据有空洞导致冲突，则取 max+1
func nextOrder(acts []model.Activity, day int) int {
	count, maxOrder := 0, -1
	for _, a := range acts {
		if a.DayNumber != day {
			continue
		}
		count++
		if a.Order > maxOrder {
			maxOrder = a.Order
		}
	}
	if maxOrder+1 > count {
		return maxOrder + 1
	}
	return count
}

// repackDay 将某天的活动 order 压实为 0..n-1，保持相对顺序
func repackDay(acts []model.Activity, day int) {
	var idx []int
	for i, a := range acts {
		if a.DayNumber == day {
			idx = append(idx, i)
		}
	}

	sort.SliceStable(idx, func(i, j int) bool {
		return acts[idx[i]].Order < acts[idx[j]].Order
	})

	for order, i := range idx {
		acts[i].Order = order
	}
}
