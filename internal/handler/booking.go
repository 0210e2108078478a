package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"TourCore/internal/model"
	"TourCore/internal/model/dto"
	"TourCore/internal/repository"
	"TourCore/internal/service"
	"TourCore/pkg/response"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

func (h *Handler) detail(b model.Booking) dto.BookingDetail {
	return dto.BookingDetail{Booking: b, AvailableActions: h.bookings.AvailableActions(b)}
}

// CreateBooking 创建预订并占用名额
func (h *Handler) CreateBooking(ctx context.Context, c *app.RequestContext) {
	var req dto.CreateBookingRequest
	if !bindJSON(ctx, c, &req) {
		return
	}

	b, err := h.bookings.CreateBooking(ctx, service.CreateBookingInput{
		CustomerID:         req.CustomerID,
		TourDate:           req.TourDate,
		SpecialRequests:    req.SpecialRequests,
		Resource:           req.Resource,
		Contact:            req.Contact,
		Participants:       req.Participants,
		ParticipantDetails: req.ParticipantDetails,
	})
	if err != nil {
		fail(ctx, c, err)
		return
	}
	response.Created(ctx, c, h.detail(b))
}

func (h *Handler) GetBooking(ctx context.Context, c *app.RequestContext) {
	b, err := h.bookings.GetBooking(ctx, c.Param("id"))
	if err != nil {
		fail(ctx, c, err)
		return
	}
	response.Success(ctx, c, h.detail(b))
}

// GetBookingByNumber 按预订编号查询
func (h *Handler) GetBookingByNumber(ctx context.Context, c *app.RequestContext) {
	b, err := h.bookings.GetBookingByNumber(ctx, c.Param("number"))
	if err != nil {
		fail(ctx, c, err)
		return
	}
	response.Success(ctx, c, h.detail(b))
}

// ListBookings 按供应商、客户、状态过滤
func (h *Handler) ListBookings(ctx context.Context, c *app.RequestContext) {
	var q dto.BookingListQuery
	if err := c.BindQuery(&q); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	limit := q.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	limit = min(limit, maxListLimit)
	offset := max(q.Offset, 0)

	bookings, err := h.bookings.ListBookings(ctx, repository.BookingFilter{
		ProviderID: q.ProviderID,
		CustomerID: q.CustomerID,
		Status:     model.BookingStatus(q.Status),
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		fail(ctx, c, err)
		return
	}

	items := make([]dto.BookingDetail, 0, len(bookings))
	for _, b := range bookings {
		items = append(items, h.detail(b))
	}
	response.SuccessWithMeta(ctx, c, items, map[string]interface{}{
		"limit":  limit,
		"offset": offset,
		"count":  len(items),
	})
}

func (h *Handler) ConfirmBooking(ctx context.Context, c *app.RequestContext) {
	h.respond(ctx, c)(h.bookings.Confirm(ctx, c.Param("id")))
}

// RecordPayment 记录支付网关结果
func (h *Handler) RecordPayment(ctx context.Context, c *app.RequestContext) {
	var req dto.PaymentRequest
	if !bindJSON(ctx, c, &req) {
		return
	}
	h.respond(ctx, c)(h.bookings.RecordPayment(ctx, c.Param("id"), req.Info()))
}

func (h *Handler) StartBooking(ctx context.Context, c *app.RequestContext) {
	h.respond(ctx, c)(h.bookings.Start(ctx, c.Param("id")))
}

// CancelBooking 取消预订，reason 必填
func (h *Handler) CancelBooking(ctx context.Context, c *app.RequestContext) {
	var req dto.CancelRequest
	if !bindJSON(ctx, c, &req) {
		return
	}
	h.respond(ctx, c)(h.bookings.Cancel(ctx, c.Param("id"), req.Reason))
}

func (h *Handler) CompleteBooking(ctx context.Context, c *app.RequestContext) {
	h.respond(ctx, c)(h.bookings.Complete(ctx, c.Param("id")))
}

func (h *Handler) RefundBooking(ctx context.Context, c *app.RequestContext) {
	h.respond(ctx, c)(h.bookings.Refund(ctx, c.Param("id")))
}

func (h *Handler) MarkNoShow(ctx context.Context, c *app.RequestContext) {
	h.respond(ctx, c)(h.bookings.MarkNoShow(ctx, c.Param("id")))
}

// GetProviderStats 供应商预订统计
func (h *Handler) GetProviderStats(ctx context.Context, c *app.RequestContext) {
	stats, err := h.bookings.ProviderStats(ctx, c.Param("provider_id"))
	if err != nil {
		fail(ctx, c, err)
		return
	}
	response.Success(ctx, c, stats)
}

func (h *Handler) respond(ctx context.Context, c *app.RequestContext) func(model.Booking, error) {
	return func(b model.Booking, err error) {
		if err != nil {
			fail(ctx, c, err)
			return
		}
		response.Success(ctx, c, h.detail(b))
	}
}
