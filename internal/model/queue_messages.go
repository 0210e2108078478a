package model

import "time"

// BookingEventType 预订生命周期事件，routing key 为 booking.<event>
type BookingEventType string

const (
	EventBookingCreated   BookingEventType = "created"
	EventBookingConfirmed BookingEventType = "confirmed"
	EventBookingPaid      BookingEventType = "paid"
	EventPaymentFailed    BookingEventType = "payment_failed"
	EventBookingStarted   BookingEventType = "started"
	EventBookingCancelled BookingEventType = "cancelled"
	EventBookingCompleted BookingEventType = "completed"
	EventBookingRefunded  BookingEventType = "refunded"
	EventBookingNoShow    BookingEventType = "no_show"
)

// RoutingKey 事件对应的 routing key
func (e BookingEventType) RoutingKey() string {
	return "booking." + string(e)
}

// ReleasesCapacity 这些事件发生后名额归还给 tour
func (e BookingEventType) ReleasesCapacity() bool {
	switch e {
	case EventBookingCancelled, EventBookingRefunded, EventBookingNoShow:
		return true
	}
	return false
}

// BookingEvent 预订事件消息
type BookingEvent struct {
	OccurredAt    time.Time        `json:"occurred_at"`
	MessageID     string           `json:"message_id"`
	Event         BookingEventType `json:"event"`
	BookingID     string           `json:"booking_id"`
	BookingNumber string           `json:"booking_number"`
	ProviderID    string           `json:"provider_id"`
	Resource      ResourceRef      `json:"resource"`
	TourDate      string           `json:"tour_date,omitempty"`
	FromStatus    BookingStatus    `json:"from_status,omitempty"`
	ToStatus      BookingStatus    `json:"to_status"`
	Currency      string           `json:"currency"`
	TotalAmount   float64          `json:"total_amount"`
	RefundAmount  float64          `json:"refund_amount,omitempty"`
	Participants  int              `json:"participants"`
}

// NewBookingEvent 由流转后的预订构造事件
func NewBookingEvent(event BookingEventType, from BookingStatus, b Booking, at time.Time) BookingEvent {
	evt := BookingEvent{
		OccurredAt:    at,
		Event:         event,
		BookingID:     b.ID,
		BookingNumber: b.BookingNumber,
		ProviderID:    b.ProviderID,
		Resource:      b.Resource,
		TourDate:      b.TourDate,
		FromStatus:    from,
		ToStatus:      b.Status,
		Currency:      b.Pricing.Currency,
		TotalAmount:   b.Pricing.TotalAmount,
		Participants:  b.Participants.Total(),
	}
	if b.Cancellation != nil {
		evt.RefundAmount = b.Cancellation.RefundAmount
	}
	return evt
}
