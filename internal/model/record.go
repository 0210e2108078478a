package model

import (
	"time"

	"gorm.io/datatypes"
)

// TourRecord tours 表，嵌套结构以 jsonb 存储
type TourRecord struct {
	BaseModel
	ProviderID             string         `gorm:"type:varchar(64);not null;index:idx_tours_provider" json:"provider_id"`
	Title                  string         `gorm:"type:varchar(200);not null" json:"title"`
	CancellationPolicyText string         `gorm:"type:text" json:"cancellation_policy_text"`
	Pricing                datatypes.JSON `gorm:"type:jsonb;not null" json:"pricing"`
	CancellationPolicy     datatypes.JSON `gorm:"type:jsonb" json:"cancellation_policy"`
	AvailableDates         datatypes.JSON `gorm:"type:jsonb" json:"available_dates"`
	MinParticipants        int            `gorm:"not null;default:1" json:"min_participants"`
	MaxParticipants        int            `gorm:"not null;default:0" json:"max_participants"`
	CurrentBookings        int            `gorm:"not null;default:0" json:"current_bookings"`
	MinGroupSize           int            `gorm:"not null;default:0" json:"min_group_size"`
	GroupDiscountPercent   float64        `gorm:"type:decimal(5,2);not null;default:0" json:"group_discount_percent"`
}

// TableName 指定表名
func (TourRecord) TableName() string {
	return "tours"
}

// ItineraryRecord itineraries 表，活动与预算项随行程整体读写
type ItineraryRecord struct {
	BaseModel
	TourID      int64          `gorm:"not null;index:idx_itineraries_tour" json:"tour_id"`
	ForkedFrom  *int64         `gorm:"index" json:"forked_from,omitempty"`
	Title       string         `gorm:"type:varchar(200);not null" json:"title"`
	Status      string         `gorm:"type:varchar(16);not null;default:'draft'" json:"status"`
	Days        int            `gorm:"type:smallint;not null" json:"days"`
	Nights      int            `gorm:"type:smallint;not null;default:0" json:"nights"`
	Activities  datatypes.JSON `gorm:"type:jsonb;not null" json:"activities"`
	BudgetItems datatypes.JSON `gorm:"type:jsonb;not null" json:"budget_items"`
}

// TableName 指定表名
func (ItineraryRecord) TableName() string {
	return "itineraries"
}

// BookingRecord bookings 表，状态与金额单独成列便于统计查询
type BookingRecord struct {
	BaseModel
	BookingNumber      string         `gorm:"type:varchar(32);uniqueIndex;not null" json:"booking_number"`
	ResourceKind       string         `gorm:"type:varchar(16);not null;index:idx_bookings_resource" json:"resource_kind"`
	ResourceID         string         `gorm:"type:varchar(64);not null;index:idx_bookings_resource" json:"resource_id"`
	CustomerID         string         `gorm:"type:varchar(64);not null;index" json:"customer_id"`
	ProviderID         string         `gorm:"type:varchar(64);not null;index:idx_bookings_provider_status" json:"provider_id"`
	Status             string         `gorm:"type:varchar(16);not null;default:'pending';index:idx_bookings_provider_status" json:"status"`
	TourDate           *time.Time     `gorm:"type:date" json:"tour_date,omitempty"`
	SpecialRequests    string         `gorm:"type:text" json:"special_requests"`
	Adults             int            `gorm:"type:smallint;not null;default:0" json:"adults"`
	Children           int            `gorm:"type:smallint;not null;default:0" json:"children"`
	Infants            int            `gorm:"type:smallint;not null;default:0" json:"infants"`
	Currency           string         `gorm:"type:char(3);not null" json:"currency"`
	TotalAmount        float64        `gorm:"type:decimal(12,2);not null" json:"total_amount"`
	PaymentStatus      string         `gorm:"type:varchar(16);not null;default:'pending'" json:"payment_status"`
	PaidAt             *time.Time     `gorm:"type:timestamptz" json:"paid_at,omitempty"`
	CancelledAt        *time.Time     `gorm:"type:timestamptz" json:"cancelled_at,omitempty"`
	Pricing            datatypes.JSON `gorm:"type:jsonb;not null" json:"pricing"`
	Payment            datatypes.JSON `gorm:"type:jsonb;not null" json:"payment"`
	Contact            datatypes.JSON `gorm:"type:jsonb" json:"contact"`
	ParticipantDetails datatypes.JSON `gorm:"type:jsonb" json:"participant_details"`
	Cancellation       datatypes.JSON `gorm:"type:jsonb" json:"cancellation"`
}

// TableName 指定表名
func (BookingRecord) TableName() string {
	return "bookings"
}
