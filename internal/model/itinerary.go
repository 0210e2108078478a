package model

import "time"

// ItineraryStatus 行程方案状态
type ItineraryStatus string

const (
	ItineraryStatusDraft     ItineraryStatus = "draft"
	ItineraryStatusPublished ItineraryStatus = "published"
	ItineraryStatusArchived  ItineraryStatus = "archived"
)

func (s ItineraryStatus) IsValid() bool {
	switch s {
	case ItineraryStatusDraft, ItineraryStatusPublished, ItineraryStatusArchived:
		return true
	}
	return false
}

// ActivityType 活动类型
type ActivityType string

const (
	ActivitySightseeing    ActivityType = "sightseeing"
	ActivityMeal           ActivityType = "meal"
	ActivityTransportation ActivityType = "transportation"
	ActivityAccommodation  ActivityType = "accommodation"
	ActivityFreeTime       ActivityType = "free_time"
	ActivityOther          ActivityType = "other"
)

// ActivityTypes 合法的活动类型
var ActivityTypes = []ActivityType{
	ActivitySightseeing,
	ActivityMeal,
	ActivityTransportation,
	ActivityAccommodation,
	ActivityFreeTime,
	ActivityOther,
}

func (t ActivityType) IsValid() bool {
	for _, v := range ActivityTypes {
		if v == t {
			return true
		}
	}
	return false
}

// ActivityStatus 活动执行状态
type ActivityStatus string

const (
	ActivityPlanned    ActivityStatus = "planned"
	ActivityInProgress ActivityStatus = "in_progress"
	ActivityCompleted  ActivityStatus = "completed"
	ActivityCancelled  ActivityStatus = "cancelled"
)

var ActivityStatuses = []ActivityStatus{
	ActivityPlanned,
	ActivityInProgress,
	ActivityCompleted,
	ActivityCancelled,
}

func (s ActivityStatus) IsValid() bool {
	for _, v := range ActivityStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// BudgetCategory 预算分类
type BudgetCategory string

const (
	BudgetTransportation BudgetCategory = "transportation"
	BudgetAccommodation  BudgetCategory = "accommodation"
	BudgetMeals          BudgetCategory = "meals"
	BudgetActivities     BudgetCategory = "activities"
	BudgetGuideFees      BudgetCategory = "guide_fees"
	BudgetEntranceFees   BudgetCategory = "entrance_fees"
	BudgetEquipment      BudgetCategory = "equipment"
	BudgetInsurance      BudgetCategory = "insurance"
	BudgetOther          BudgetCategory = "other"
)

// BudgetCategories 全部 9 个预算分类
var BudgetCategories = []BudgetCategory{
	BudgetTransportation,
	BudgetAccommodation,
	BudgetMeals,
	BudgetActivities,
	BudgetGuideFees,
	BudgetEntranceFees,
	BudgetEquipment,
	BudgetInsurance,
	BudgetOther,
}

func (c BudgetCategory) IsValid() bool {
	for _, v := range BudgetCategories {
		if v == c {
			return true
		}
	}
	return false
}

// Duration 行程天数
type Duration struct {
	Days   int `json:"days"`
	Nights int `json:"nights"`
}

// Activity 某一天中的一项安排，StartTime/EndTime 为 HH:MM
type Activity struct {
	DestinationID *string        `json:"destination_id,omitempty"`
	POIID         *string        `json:"poi_id,omitempty"`
	ID            string         `json:"id"`
	Title         string         `json:"title"`
	Description   string         `json:"description"`
	Type          ActivityType   `json:"type"`
	StartTime     string         `json:"start_time"`
	EndTime       string         `json:"end_time"`
	Status        ActivityStatus `json:"status"`
	DayNumber     int            `json:"day_number"`
	Order         int            `json:"order"`
}

// BudgetLineItem 预算明细，TotalPrice 始终等于 Quantity * UnitPrice
type BudgetLineItem struct {
	DayNumber  *int           `json:"day_number,omitempty"`
	ActivityID *string        `json:"activity_id,omitempty"`
	SupplierID *string        `json:"supplier_id,omitempty"`
	ID         string         `json:"id"`
	Category   BudgetCategory `json:"category"`
	ItemName   string         `json:"item_name"`
	Currency   string         `json:"currency"`
	Notes      string         `json:"notes,omitempty"`
	UnitPrice  float64        `json:"unit_price"`
	TotalPrice float64        `json:"total_price"`
	Quantity   int            `json:"quantity"`
	IsOptional bool           `json:"is_optional"`
	IsIncluded bool           `json:"is_included"`
}

// Itinerary 某个 tour 的逐日行程与预算
type Itinerary struct {
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
	ForkedFrom  *string          `json:"forked_from,omitempty"`
	ID          string           `json:"id"`
	TourID      string           `json:"tour_id"`
	Title       string           `json:"title"`
	Status      ItineraryStatus  `json:"status"`
	Activities  []Activity       `json:"activities"`
	BudgetItems []BudgetLineItem `json:"budget_items"`
	Duration    Duration         `json:"duration"`
	Version     int64            `json:"version"`
}

// Clone 深拷贝，返回值与原值不共享任何切片或指针
func (it Itinerary) Clone() Itinerary {
	out := it
	out.ForkedFrom = cloneString(it.ForkedFrom)

	out.Activities = make([]Activity, len(it.Activities))
	for i, a := range it.Activities {
		out.Activities[i] = a.Clone()
	}

	out.BudgetItems = make([]BudgetLineItem, len(it.BudgetItems))
	for i, b := range it.BudgetItems {
		out.BudgetItems[i] = b.Clone()
	}
	return out
}

func (a Activity) Clone() Activity {
	out := a
	out.DestinationID = cloneString(a.DestinationID)
	out.POIID = cloneString(a.POIID)
	return out
}

func (b BudgetLineItem) Clone() BudgetLineItem {
	out := b
	out.ActivityID = cloneString(b.ActivityID)
	out.SupplierID = cloneString(b.SupplierID)
	if b.DayNumber != nil {
		d := *b.DayNumber
		out.DayNumber = &d
	}
	return out
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
