package router

import (
	"context"
	"net/http"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"

	"TourCore/internal/handler"
	"TourCore/internal/middleware"
)

type options struct {
	bookingLimiter middleware.RateLimiter
}

type Option func(*options)

// WithBookingRateLimit 对创建预订按客户端 IP 限流
func WithBookingRateLimit(l middleware.RateLimiter) Option {
	return func(o *options) { o.bookingLimiter = l }
}

func Register(h *server.Hertz, hd *handler.Handler, opts ...Option) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	h.Use(middleware.RecoverMiddleware())
	h.Use(middleware.RequestIDMiddleware())
	h.Use(middleware.CORSMiddleware())
	h.Use(middleware.OpenTelemetryMiddleware())

	h.GET("/healthz", func(ctx context.Context, c *app.RequestContext) {
		c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	v1 := h.Group("/v1")

	// tour 由供应商侧录入
	tours := v1.Group("/tours")
	{
		tours.POST("", hd.CreateTour)
		tours.GET("/:id", hd.GetTour)
		tours.GET("/:id/itineraries", hd.ListTourItineraries)
	}

	// 行程编排路由
	itineraries := v1.Group("/itineraries")
	{
		itineraries.POST("", hd.CreateItinerary)
		itineraries.GET("/:id", hd.GetItinerary)
		itineraries.GET("/:id/days", hd.GetItineraryDays)
		itineraries.GET("/:id/budget", hd.GetItineraryBudget)
		itineraries.POST("/:id/publish", hd.PublishItinerary)
		itineraries.POST("/:id/archive", hd.ArchiveItinerary)
		itineraries.POST("/:id/fork", hd.ForkItinerary)
		itineraries.GET("/:id/forks", hd.ListForks)

		itineraries.POST("/:id/activities", hd.AddActivity)
		itineraries.PATCH("/:id/activities/:activity_id", hd.UpdateActivity)
		itineraries.DELETE("/:id/activities/:activity_id", hd.DeleteActivity)
		itineraries.PUT("/:id/days/:day/order", hd.ReorderDay)

		itineraries.POST("/:id/budget-items", hd.AddBudgetItem)
		itineraries.PATCH("/:id/budget-items/:item_id", hd.UpdateBudgetItem)
		itineraries.DELETE("/:id/budget-items/:item_id", hd.DeleteBudgetItem)
	}

	// 预订生命周期路由
	bookings := v1.Group("/bookings")
	{
		bookings.POST("", middleware.RateLimitMiddleware(o.bookingLimiter), hd.CreateBooking)
		bookings.GET("", hd.ListBookings)
		bookings.GET("/:id", hd.GetBooking)
		bookings.GET("/by-number/:number", hd.GetBookingByNumber)
		bookings.POST("/:id/confirm", hd.ConfirmBooking)
		bookings.POST("/:id/payment", hd.RecordPayment)
		bookings.POST("/:id/start", hd.StartBooking)
		bookings.POST("/:id/cancel", hd.CancelBooking)
		bookings.POST("/:id/complete", hd.CompleteBooking)
		bookings.POST("/:id/refund", hd.RefundBooking)
		bookings.POST("/:id/no-show", hd.MarkNoShow)
	}

	v1.GET("/providers/:provider_id/booking-stats", hd.GetProviderStats)
}
