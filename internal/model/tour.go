package model

import "time"

// TourDateStatus 出团日期状态
type TourDateStatus string

const (
	TourDateAvailable TourDateStatus = "available"
	TourDateFull      TourDateStatus = "full"
	TourDateCancelled TourDateStatus = "cancelled"
)

// TourPricing 每人单价
type TourPricing struct {
	Currency string  `json:"currency"`
	Adult    float64 `json:"adult"`
	Child    float64 `json:"child"`
	Infant   float64 `json:"infant"`
}

// AvailableDate 可预订日期及其名额，Date 格式 YYYY-MM-DD
type AvailableDate struct {
	Date   string         `json:"date"`
	Status TourDateStatus `json:"status"`
	Slots  int            `json:"slots"`
	Booked int            `json:"booked"`
}

// Remaining 剩余名额
func (d AvailableDate) Remaining() int {
	if d.Booked >= d.Slots {
		return 0
	}
	return d.Slots - d.Booked
}

// PolicyKind 退款策略类型
type PolicyKind string

const (
	PolicyNone   PolicyKind = "none"
	PolicyFixed  PolicyKind = "fixed"
	PolicyTiered PolicyKind = "tiered"
)

// RefundTier 距离出发至少 MinHoursBefore 小时取消时退 Percent%
type RefundTier struct {
	MinHoursBefore float64 `json:"min_hours_before"`
	Percent        float64 `json:"percent"`
}

// CancellationPolicy 结构化的取消退款策略
type CancellationPolicy struct {
	Kind    PolicyKind   `json:"kind"`
	Tiers   []RefundTier `json:"tiers,omitempty"`
	Percent float64      `json:"percent,omitempty"`
}

// Tour 只读引用实体，由供应商侧维护
type Tour struct {
	CreatedAt              time.Time          `json:"created_at"`
	UpdatedAt              time.Time          `json:"updated_at"`
	ID                     string             `json:"id"`
	ProviderID             string             `json:"provider_id"`
	Title                  string             `json:"title"`
	CancellationPolicyText string             `json:"cancellation_policy_text,omitempty"`
	Pricing                TourPricing        `json:"pricing"`
	CancellationPolicy     CancellationPolicy `json:"cancellation_policy"`
	AvailableDates         []AvailableDate    `json:"available_dates"`
	MinParticipants        int                `json:"min_participants"`
	MaxParticipants        int                `json:"max_participants"`
	CurrentBookings        int                `json:"current_bookings"`
	MinGroupSize           int                `json:"min_group_size"`
	GroupDiscountPercent   float64            `json:"group_discount_percent"`
	Version                int64              `json:"version"`
}

// FindDate 按日期查找可预订日期
func (t Tour) FindDate(date string) (AvailableDate, int, bool) {
	for i, d := range t.AvailableDates {
		if d.Date == date {
			return d, i, true
		}
	}
	return AvailableDate{}, -1, false
}
