package handler

import (
	"TourCore/internal/queue"
	"TourCore/internal/repository/memory"
	"TourCore/internal/service"
)

// NewInMemory 进程内存储，事件在进程内同步处理（名额归还等）
func NewInMemory(d service.Deps) *Handler {
	if d.Tours == nil {
		d.Tours = memory.NewTourStore()
	}
	if d.Itineraries == nil {
		d.Itineraries = memory.NewItineraryStore()
	}
	if d.Bookings == nil {
		d.Bookings = memory.NewBookingStore()
	}
	if d.Locker == nil {
		d.Locker = memory.NewLocker()
	}

	events := &queue.EventHandler{}
	d.Events = queue.NewLocalPublisher(events)

	bookings := service.NewBookingService(d)
	events.Capacity = bookings

	return New(
		service.NewTourService(d),
		service.NewItineraryService(d),
		bookings,
	)
}
