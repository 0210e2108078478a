package itinerary

import (
	"strings"

	"TourCore/internal/model"
	pkgerrors "TourCore/pkg/errors"
	"TourCore/utils"
)

const defaultCurrency = "USD"

// BudgetDraft 新增预算项的输入。总价不由调用方提供，始终按 Quantity * UnitPrice 计算。
type BudgetDraft struct {
	DayNumber  *int
	ActivityID *string
	SupplierID *string
	ID         string
	Category   model.BudgetCategory
	ItemName   string
	Currency   string
	Notes      string
	UnitPrice  float64
	Quantity   int
	IsOptional bool
	IsIncluded bool
}

// BudgetPatch 部分更新，nil 字段保持原值
type BudgetPatch struct {
	DayNumber  *int
	ActivityID *string
	SupplierID *string
	Category   *model.BudgetCategory
	ItemName   *string
	Currency   *string
	Notes      *string
	UnitPrice  *float64
	Quantity   *int
	IsOptional *bool
	IsIncluded *bool
	// ClearDay/ClearActivity 显式去掉关联
	ClearDay      bool
	ClearActivity bool
}

func AddBudgetItem(it model.Itinerary, draft BudgetDraft) (model.Itinerary, model.BudgetLineItem, error) {
	item := model.BudgetLineItem{
		ID:         strings.TrimSpace(draft.ID),
		Category:   draft.Category,
		ItemName:   strings.TrimSpace(draft.ItemName),
		Currency:   strings.ToUpper(strings.TrimSpace(draft.Currency)),
		Notes:      draft.Notes,
		UnitPrice:  draft.UnitPrice,
		Quantity:   draft.Quantity,
		IsOptional: draft.IsOptional,
		IsIncluded: draft.IsIncluded,
		DayNumber:  draft.DayNumber,
		ActivityID: draft.ActivityID,
		SupplierID: draft.SupplierID,
	}
	item = item.Clone()

	if item.ID == "" {
		item.ID = newID()
	} else if indexOfBudgetItem(it, item.ID) >= 0 {
		return it, model.BudgetLineItem{}, pkgerrors.Validation(entityBudget, item.ID, "id", "budget item id already exists", "unique id", item.ID)
	}
	if item.Currency == "" {
		item.Currency = itineraryCurrency(it)
	}

	if err := validateBudgetItem(it, item); err != nil {
		return it, model.BudgetLineItem{}, err
	}
	item.TotalPrice = lineTotal(item)

	out := it.Clone()
	out.BudgetItems = append(out.BudgetItems, item.Clone())
	return out, item, nil
}

func UpdateBudgetItem(it model.Itinerary, itemID string, patch BudgetPatch) (model.Itinerary, model.BudgetLineItem, error) {
	idx := indexOfBudgetItem(it, itemID)
	if idx < 0 {
		return it, model.BudgetLineItem{}, pkgerrors.NotFoundError(entityBudget, itemID)
	}

	next := it.BudgetItems[idx].Clone()
	applyBudgetPatch(&next, patch)

	if err := validateBudgetItem(it, next); err != nil {
		return it, model.BudgetLineItem{}, err
	}
	next.TotalPrice = lineTotal(next)

	out := it.Clone()
	out.BudgetItems[idx] = next
	return out, next.Clone(), nil
}

func DeleteBudgetItem(it model.Itinerary, itemID string) (model.Itinerary, error) {
	idx := indexOfBudgetItem(it, itemID)
	if idx < 0 {
		return it, pkgerrors.NotFoundError(entityBudget, itemID)
	}

	out := it.Clone()
	out.BudgetItems = append(out.BudgetItems[:idx], out.BudgetItems[idx+1:]...)
	return out, nil
}

// CalculateTotalBudget 所有预算项总价之和，不区分 optional/included
func CalculateTotalBudget(it model.Itinerary) float64 {
	var total float64
	for _, b := range it.BudgetItems {
		total += b.TotalPrice
	}
	return utils.RoundCents(total)
}

// CalculateConfirmedBudget 排除"可选且未包含"的预算项
func CalculateConfirmedBudget(it model.Itinerary) float64 {
	var total float64
	for _, b := range it.BudgetItems {
		if b.IsOptional && !b.IsIncluded {
			continue
		}
		total += b.TotalPrice
	}
	return utils.RoundCents(total)
}

// GroupBudgetByCategory 按分类分组，组内保持插入顺序
func GroupBudgetByCategory(it model.Itinerary) map[model.BudgetCategory][]model.BudgetLineItem {
	groups := make(map[model.BudgetCategory][]model.BudgetLineItem)
	for _, b := range it.BudgetItems {
		groups[b.Category] = append(groups[b.Category], b.Clone())
	}
	return groups
}

// BudgetByDay 每天的预算合计，未关联天的预算记在 0
func BudgetByDay(it model.Itinerary) map[int]float64 {
	totals := make(map[int]float64)
	for _, b := range it.BudgetItems {
		day := 0
		if b.DayNumber != nil {
			day = *b.DayNumber
		}
		totals[day] = utils.RoundCents(totals[day] + b.TotalPrice)
	}
	return totals
}

// BudgetSummary 预算汇总
type BudgetSummary struct {
	ByCategory map[model.BudgetCategory]float64 `json:"by_category"`
	ByDay      map[int]float64                  `json:"by_day"`
	Currency   string                           `json:"currency"`
	Total      float64                          `json:"total"`
	Confirmed  float64                          `json:"confirmed"`
	ItemCount  int                              `json:"item_count"`
}

func Summarize(it model.Itinerary) BudgetSummary {
	byCategory := make(map[model.BudgetCategory]float64)
	for category, items := range GroupBudgetByCategory(it) {
		var sum float64
		for _, b := range items {
			sum += b.TotalPrice
		}
		byCategory[category] = utils.RoundCents(sum)
	}

	return BudgetSummary{
		ByCategory: byCategory,
		ByDay:      BudgetByDay(it),
		Currency:   itineraryCurrency(it),
		Total:      CalculateTotalBudget(it),
		Confirmed:  CalculateConfirmedBudget(it),
		ItemCount:  len(it.BudgetItems),
	}
}

func applyBudgetPatch(b *model.BudgetLineItem, p BudgetPatch) {
	if p.Category != nil {
		b.Category = *p.Category
	}
	if p.ItemName != nil {
		b.ItemName = strings.TrimSpace(*p.ItemName)
	}
	if p.Currency != nil {
		b.Currency = strings.ToUpper(strings.TrimSpace(*p.Currency))
	}
	if p.Notes != nil {
		b.Notes = *p.Notes
	}
	if p.UnitPrice != nil {
		b.UnitPrice = *p.UnitPrice
	}
	if p.Quantity != nil {
		b.Quantity = *p.Quantity
	}
	if p.IsOptional != nil {
		b.IsOptional = *p.IsOptional
	}
	if p.IsIncluded != nil {
		b.IsIncluded = *p.IsIncluded
	}
	if p.SupplierID != nil {
		v := *p.SupplierID
		b.SupplierID = &v
	}

	switch {
	case p.ClearDay:
		b.DayNumber = nil
	case p.DayNumber != nil:
		v := *p.DayNumber
		b.DayNumber = &v
	}

	switch {
	case p.ClearActivity:
		b.ActivityID = nil
	case p.ActivityID != nil:
		v := *p.ActivityID
		b.ActivityID = &v
	}
}

func validateBudgetItem(it model.Itinerary, b model.BudgetLineItem) error {
	if b.ItemName == "" {
		return pkgerrors.Validation(entityBudget, b.ID, "item_name", "item_name is required", "non-empty", b.ItemName)
	}
	if !b.Category.IsValid() {
		return pkgerrors.Validation(entityBudget, b.ID, "category", "unknown budget category", model.BudgetCategories, b.Category)
	}
	if b.Quantity <= 0 {
		return pkgerrors.Validation(entityBudget, b.ID, "quantity", "quantity must be positive", "> 0", b.Quantity)
	}
	if b.UnitPrice < 0 {
		return pkgerrors.Validation(entityBudget, b.ID, "unit_price", "unit_price must not be negative", ">= 0", b.UnitPrice)
	}
	if !utils.ValidateCurrency(b.Currency) {
		return pkgerrors.Validation(entityBudget, b.ID, "currency", "currency must be an ISO 4217 code", "e.g. USD", b.Currency)
	}
	if b.DayNumber != nil && !inDayRange(it, *b.DayNumber) {
		return pkgerrors.Validation(entityBudget, b.ID, "day_number", "day out of range", dayRange(it), *b.DayNumber)
	}
	if b.ActivityID != nil && indexOfActivity(it, *b.ActivityID) < 0 {
		return pkgerrors.Validation(entityBudget, b.ID, "activity_id", "referenced activity does not exist", nil, *b.ActivityID)
	}
	return nil
}

func lineTotal(b model.BudgetLineItem) float64 {
	return utils.RoundCents(float64(b.Quantity) * b.UnitPrice)
}

func itineraryCurrency(it model.Itinerary) string {
	for _, b := range it.BudgetItems {
		if b.Currency != "" {
			return b.Currency
		}
	}
	return defaultCurrency
}
