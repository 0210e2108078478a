package handler

import (
	"context"
	"strconv"

	"github.com/cloudwego/hertz/pkg/app"

	"TourCore/internal/service"
	pkgerrors "TourCore/pkg/errors"
	"TourCore/pkg/response"
)

// Handler HTTP 入口，只做参数绑定与响应转换
type Handler struct {
	tours       *service.TourService
	itineraries *service.ItineraryService
	bookings    *service.BookingService
}

func New(tours *service.TourService, itineraries *service.ItineraryService, bookings *service.BookingService) *Handler {
	return &Handler{tours: tours, itineraries: itineraries, bookings: bookings}
}

// Default 使用服务单例
func Default() *Handler {
	return New(service.Tour(), service.Itinerary(), service.Booking())
}

// bindJSON 绑定失败时直接写 400
func bindJSON(ctx context.Context, c *app.RequestContext, dst interface{}) bool {
	if err := c.BindJSON(dst); err != nil {
		response.BindError(ctx, c, err)
		return false
	}
	return true
}

// fail 记录到 c.Errors 供 tracing 使用，再写错误响应
func fail(ctx context.Context, c *app.RequestContext, err error) {
	_ = c.Error(err)
	response.Error(ctx, c, err)
}

func dayParam(c *app.RequestContext) (int, error) {
	raw := c.Param("day")
	day, err := strconv.Atoi(raw)
	if err != nil {
		return 0, pkgerrors.Validation("itinerary", c.Param("id"), "day_number", "day must be an integer", nil, raw)
	}
	return day, nil
}
