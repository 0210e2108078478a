package dto

import (
	"TourCore/internal/booking"
	"TourCore/internal/model"
)

// ========== Booking 相关 DTO ==========

// CreateBookingRequest 创建预订请求
type CreateBookingRequest struct {
	CustomerID         string                    `json:"customer_id"`
	TourDate           string                    `json:"tour_date"`
	SpecialRequests    string                    `json:"special_requests"`
	Resource           model.ResourceRef         `json:"resource"`
	Contact            model.ContactInfo         `json:"contact"`
	Participants       model.Participants        `json:"participants"`
	ParticipantDetails []model.ParticipantDetail `json:"participant_details"`
}

// PaymentRequest 支付回调结果
type PaymentRequest struct {
	Method        string              `json:"method"`
	Status        model.PaymentStatus `json:"status"`
	TransactionID string              `json:"transaction_id"`
	FailureReason string              `json:"failure_reason"`
	Amount        float64             `json:"amount"`
}

func (r PaymentRequest) Info() booking.PaymentInfo {
	return booking.PaymentInfo{
		Method:        r.Method,
		Status:        r.Status,
		TransactionID: r.TransactionID,
		FailureReason: r.FailureReason,
		Amount:        r.Amount,
	}
}

// CancelRequest 取消预订
type CancelRequest struct {
	Reason string `json:"reason"`
}

// BookingListQuery 列表查询参数
type BookingListQuery struct {
	ProviderID string `query:"provider_id"`
	CustomerID string `query:"customer_id"`
	Status     string `query:"status"`
	Limit      int    `query:"limit"`
	Offset     int    `query:"offset"`
}

// BookingDetail 预订详情，附带当前可执行的操作
type BookingDetail struct {
	model.Booking
	AvailableActions []booking.Operation `json:"available_actions"`
}
