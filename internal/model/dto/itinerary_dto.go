package dto

import (
	"TourCore/internal/itinerary"
	"TourCore/internal/model"
)

// ========== Itinerary 相关 DTO ==========

// CreateItineraryRequest 创建行程请求
type CreateItineraryRequest struct {
	TourID   string         `json:"tour_id"`
	Title    string         `json:"title"`
	Duration model.Duration `json:"duration"`
}

// ActivityRequest 新增活动
type ActivityRequest struct {
	DestinationID *string              `json:"destination_id"`
	POIID         *string              `json:"poi_id"`
	Title         string               `json:"title"`
	Description   string               `json:"description"`
	Type          model.ActivityType   `json:"type"`
	StartTime     string               `json:"start_time"`
	EndTime       string               `json:"end_time"`
	Status        model.ActivityStatus `json:"status"`
	DayNumber     int                  `json:"day_number"`
}

func (r ActivityRequest) Draft() itinerary.ActivityDraft {
	return itinerary.ActivityDraft{
		DestinationID: r.DestinationID,
		POIID:         r.POIID,
		Title:         r.Title,
		Description:   r.Description,
		Type:          r.Type,
		StartTime:     r.StartTime,
		EndTime:       r.EndTime,
		Status:        r.Status,
		DayNumber:     r.DayNumber,
	}
}

// UpdateActivityRequest 部分更新活动，未出现的字段保持不变
type UpdateActivityRequest struct {
	Title         *string               `json:"title"`
	Description   *string               `json:"description"`
	Type          *model.ActivityType   `json:"type"`
	StartTime     *string               `json:"start_time"`
	EndTime       *string               `json:"end_time"`
	Status        *model.ActivityStatus `json:"status"`
	DestinationID *string               `json:"destination_id"`
	POIID         *string               `json:"poi_id"`
	DayNumber     *int                  `json:"day_number"`
}

func (r UpdateActivityRequest) Patch() itinerary.ActivityPatch {
	return itinerary.ActivityPatch{
		Title:         r.Title,
		Description:   r.Description,
		Type:          r.Type,
		StartTime:     r.StartTime,
		EndTime:       r.EndTime,
		Status:        r.Status,
		DestinationID: r.DestinationID,
		POIID:         r.POIID,
		DayNumber:     r.DayNumber,
	}
}

// ReorderRequest 某一天活动的新顺序
type ReorderRequest struct {
	ActivityIDs []string `json:"activity_ids"`
}

// BudgetItemRequest 新增预算项，total_price 由服务端计算
type BudgetItemRequest struct {
	DayNumber  *int                 `json:"day_number"`
	ActivityID *string              `json:"activity_id"`
	SupplierID *string              `json:"supplier_id"`
	Category   model.BudgetCategory `json:"category"`
	ItemName   string               `json:"item_name"`
	Currency   string               `json:"currency"`
	Notes      string               `json:"notes"`
	UnitPrice  float64              `json:"unit_price"`
	Quantity   int                  `json:"quantity"`
	IsOptional bool                 `json:"is_optional"`
	IsIncluded bool                 `json:"is_included"`
}

func (r BudgetItemRequest) Draft() itinerary.BudgetDraft {
	return itinerary.BudgetDraft{
		DayNumber:  r.DayNumber,
		ActivityID: r.ActivityID,
		SupplierID: r.SupplierID,
		Category:   r.Category,
		ItemName:   r.ItemName,
		Currency:   r.Currency,
		Notes:      r.Notes,
		UnitPrice:  r.UnitPrice,
		Quantity:   r.Quantity,
		IsOptional: r.IsOptional,
		IsIncluded: r.IsIncluded,
	}
}

// UpdateBudgetItemRequest 部分更新预算项
type UpdateBudgetItemRequest struct {
	DayNumber     *int                  `json:"day_number"`
	ActivityID    *string               `json:"activity_id"`
	SupplierID    *string               `json:"supplier_id"`
	Category      *model.BudgetCategory `json:"category"`
	ItemName      *string               `json:"item_name"`
	Currency      *string               `json:"currency"`
	Notes         *string               `json:"notes"`
	UnitPrice     *float64              `json:"unit_price"`
	Quantity      *int                  `json:"quantity"`
	IsOptional    *bool                 `json:"is_optional"`
	IsIncluded    *bool                 `json:"is_included"`
	ClearDay      bool                  `json:"clear_day"`
	ClearActivity bool                  `json:"clear_activity"`
}

func (r UpdateBudgetItemRequest) Patch() itinerary.BudgetPatch {
	return itinerary.BudgetPatch{
		DayNumber:     r.DayNumber,
		ActivityID:    r.ActivityID,
		SupplierID:    r.SupplierID,
		Category:      r.Category,
		ItemName:      r.ItemName,
		Currency:      r.Currency,
		Notes:         r.Notes,
		UnitPrice:     r.UnitPrice,
		Quantity:      r.Quantity,
		IsOptional:    r.IsOptional,
		IsIncluded:    r.IsIncluded,
		ClearDay:      r.ClearDay,
		ClearActivity: r.ClearActivity,
	}
}
