package model

import "time"

// BookingStatus 预订状态
type BookingStatus string

const (
	BookingPending    BookingStatus = "pending"
	BookingConfirmed  BookingStatus = "confirmed"
	BookingPaid       BookingStatus = "paid"
	BookingInProgress BookingStatus = "in_progress"
	BookingCompleted  BookingStatus = "completed"
	BookingCancelled  BookingStatus = "cancelled"
	BookingRefunded   BookingStatus = "refunded"
	BookingNoShow     BookingStatus = "no-show"
)

// BookingStatuses 全部预订状态，统计时按此顺序输出
var BookingStatuses = []BookingStatus{
	BookingPending,
	BookingConfirmed,
	BookingPaid,
	BookingInProgress,
	BookingCompleted,
	BookingCancelled,
	BookingRefunded,
	BookingNoShow,
}

func (s BookingStatus) IsValid() bool {
	for _, v := range BookingStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// IsTerminal 终态不再接受任何流转
func (s BookingStatus) IsTerminal() bool {
	switch s {
	case BookingCompleted, BookingCancelled, BookingRefunded, BookingNoShow:
		return true
	}
	return false
}

// PaymentStatus 支付状态
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentPending, PaymentCompleted, PaymentFailed, PaymentRefunded:
		return true
	}
	return false
}

// RefundStatus 退款处理状态
type RefundStatus string

const (
	RefundNone      RefundStatus = "none"
	RefundPending   RefundStatus = "pending"
	RefundProcessed RefundStatus = "processed"
)

// ResourceKind 可预订资源类型
type ResourceKind string

const (
	ResourceTour       ResourceKind = "tour"
	ResourceHotelRoom  ResourceKind = "hotel_room"
	ResourceFlightSeat ResourceKind = "flight_seat"
)

func (k ResourceKind) IsValid() bool {
	switch k {
	case ResourceTour, ResourceHotelRoom, ResourceFlightSeat:
		return true
	}
	return false
}

// ResourceRef 被预订的资源
type ResourceRef struct {
	Kind ResourceKind `json:"kind"`
	ID   string       `json:"id"`
}

// Participants 各类人数
type Participants struct {
	Adults   int `json:"adults"`
	Children int `json:"children"`
	Infants  int `json:"infants"`
}

func (p Participants) Total() int {
	return p.Adults + p.Children + p.Infants
}

// ParticipantDetail 单个出行人信息
type ParticipantDetail struct {
	Age            *int   `json:"age,omitempty"`
	Name           string `json:"name"`
	Type           string `json:"type"` // adult, child, infant
	DocumentNumber string `json:"document_number,omitempty"`
}

// Pricing 价格明细
type Pricing struct {
	Currency        string  `json:"currency"`
	AdultPrice      float64 `json:"adult_price"`
	ChildPrice      float64 `json:"child_price"`
	InfantPrice     float64 `json:"infant_price"`
	Subtotal        float64 `json:"subtotal"`
	DiscountPercent float64 `json:"discount_percent"`
	Discount        float64 `json:"discount"`
	TotalAmount     float64 `json:"total_amount"`
}

// Payment 支付子记录
type Payment struct {
	PaidAt        *time.Time    `json:"paid_at,omitempty"`
	Method        string        `json:"method"`
	Status        PaymentStatus `json:"status"`
	TransactionID string        `json:"transaction_id,omitempty"`
	FailureReason string        `json:"failure_reason,omitempty"`
	Amount        float64       `json:"amount"`
}

// ContactInfo 联系人
type ContactInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Cancellation 取消子记录
type Cancellation struct {
	CancelledAt   time.Time    `json:"cancelled_at"`
	Reason        string       `json:"reason"`
	RefundStatus  RefundStatus `json:"refund_status"`
	RefundPercent float64      `json:"refund_percent"`
	RefundAmount  float64      `json:"refund_amount"`
}

// Booking 一次预订，只通过生命周期操作修改，从不删除
type Booking struct {
	CreatedAt          time.Time           `json:"created_at"`
	UpdatedAt          time.Time           `json:"updated_at"`
	Cancellation       *Cancellation       `json:"cancellation,omitempty"`
	Resource           ResourceRef         `json:"resource"`
	Contact            ContactInfo         `json:"contact"`
	ID                 string              `json:"id"`
	BookingNumber      string              `json:"booking_number"`
	CustomerID         string              `json:"customer_id"`
	ProviderID         string              `json:"provider_id"`
	TourDate           string              `json:"tour_date,omitempty"`
	SpecialRequests    string              `json:"special_requests,omitempty"`
	Status             BookingStatus       `json:"status"`
	ParticipantDetails []ParticipantDetail `json:"participant_details,omitempty"`
	Payment            Payment             `json:"payment"`
	Pricing            Pricing             `json:"pricing"`
	Participants       Participants        `json:"participants"`
	Version            int64               `json:"version"`
}

// Clone 深拷贝
func (b Booking) Clone() Booking {
	out := b
	if b.Cancellation != nil {
		c := *b.Cancellation
		out.Cancellation = &c
	}
	if b.Payment.PaidAt != nil {
		t := *b.Payment.PaidAt
		out.Payment.PaidAt = &t
	}
	if b.ParticipantDetails != nil {
		out.ParticipantDetails = make([]ParticipantDetail, len(b.ParticipantDetails))
		for i, p := range b.ParticipantDetails {
			out.ParticipantDetails[i] = p
			if p.Age != nil {
				age := *p.Age
				out.ParticipantDetails[i].Age = &age
			}
		}
	}
	return out
}
