package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"TourCore/internal/model"
)

func withAmount(status model.BookingStatus, amount float64) model.Booking {
	b := bookingIn(status)
	b.Pricing.TotalAmount = amount
	return b
}

func TestComputeStatistics_Empty(t *testing.T) {
	stats := ComputeStatistics(nil)

	assert.Zero(t, stats.TotalBookings)
	assert.Zero(t, stats.TotalRevenue)
	assert.Zero(t, stats.AverageBookingValue)
	assert.Zero(t, stats.CancellationRate)
	assert.Len(t, stats.StatusCounts, len(model.BookingStatuses))
	for _, s := range model.BookingStatuses {
		assert.Contains(t, stats.StatusCounts, s)
	}
}

func TestComputeStatistics_RevenueInclusionSet(t *testing.T) {
	bookings := []model.Booking{
		withAmount(model.BookingConfirmed, 100),
		withAmount(model.BookingPaid, 100),
		withAmount(model.BookingCompleted, 100),
		withAmount(model.BookingPending, 100),
		withAmount(model.BookingCancelled, 100),
		withAmount(model.BookingRefunded, 100),
	}

	stats := ComputeStatistics(bookings)
	assert.Equal(t, 300.0, stats.TotalRevenue)
	assert.Equal(t, 100.0, stats.AverageBookingValue)
	assert.Equal(t, 6, stats.TotalBookings)
	assert.Equal(t, 1, stats.TotalCancellations)
	assert.Equal(t, 16.67, stats.CancellationRate)
	assert.Equal(t, 1, stats.StatusCounts[model.BookingRefunded])
	assert.Zero(t, stats.StatusCounts[model.BookingNoShow])
	// 取消与退款不计人数，每单 2 人
	assert.Equal(t, 8, stats.TotalParticipants)
}
