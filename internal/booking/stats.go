package booking

import (
	"TourCore/internal/model"
	"TourCore/utils"
)

// Statistics 供应商维度的预订统计
type Statistics struct {
	StatusCounts        map[model.BookingStatus]int `json:"status_counts"`
	TotalBookings       int                         `json:"total_bookings"`
	TotalRevenue        float64                     `json:"total_revenue"`
	AverageBookingValue float64                     `json:"average_booking_value"`
	TotalCancellations  int                         `json:"total_cancellations"`
	CancellationRate    float64                     `json:"cancellation_rate"`
	TotalParticipants   int                         `json:"total_participants"`
}

// countsAsRevenue 计入收入的状态
func countsAsRevenue(s model.BookingStatus) bool {
	return s == model.BookingConfirmed || s == model.BookingPaid || s == model.BookingCompleted
}

// ComputeStatistics 汇总一批预订，空输入时所有比率为 0
func ComputeStatistics(bookings []model.Booking) Statistics {
	stats := Statistics{StatusCounts: make(map[model.BookingStatus]int, len(model.BookingStatuses))}
	for _, s := range model.BookingStatuses {
		stats.StatusCounts[s] = 0
	}

	var revenueCount int
	for _, b := range bookings {
		stats.TotalBookings++
		stats.StatusCounts[b.Status]++

		if countsAsRevenue(b.Status) {
			stats.TotalRevenue += b.Pricing.TotalAmount
			revenueCount++
		}
		switch b.Status {
		case model.BookingCancelled:
			stats.TotalCancellations++
		case model.BookingRefunded, model.BookingNoShow:
		default:
			stats.TotalParticipants += b.Participants.Total()
		}
	}

	stats.TotalRevenue = utils.RoundCents(stats.TotalRevenue)
	if revenueCount > 0 {
		stats.AverageBookingValue = utils.RoundCents(stats.TotalRevenue / float64(revenueCount))
	}
	if stats.TotalBookings > 0 {
		stats.CancellationRate = utils.RoundCents(float64(stats.TotalCancellations) / float64(stats.TotalBookings) * 100)
	}
	return stats
}
