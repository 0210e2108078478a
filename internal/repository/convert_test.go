package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TourCore/internal/model"
	pkgerrors "TourCore/pkg/errors"
)

func TestParseID(t *testing.T) {
	id, err := ParseID("booking", "1234")
	require.NoError(t, err)
	assert.Equal(t, int64(1234), id)

	for _, bad := range []string{"", "abc", "-1", "0"} {
		_, err := ParseID("booking", bad)
		assert.True(t, pkgerrors.Is(err, pkgerrors.NotFound), bad)
	}
}

func TestBookingRecordPreservesSnapshot(t *testing.T) {
	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	b := model.Booking{
		ID:            "99",
		BookingNumber: "TB-2f",
		Resource:      model.ResourceRef{Kind: model.ResourceTour, ID: "7"},
		CustomerID:    "cust-1",
		ProviderID:    "prov-1",
		TourDate:      "2026-06-01",
		Status:        model.BookingCancelled,
		Participants:  model.Participants{Adults: 2, Children: 1},
		Pricing:       model.Pricing{Currency: "USD", Subtotal: 250, TotalAmount: 250},
		Payment:       model.Payment{Method: "card", Status: model.PaymentCompleted, PaidAt: &now, Amount: 250},
		Cancellation:  &model.Cancellation{CancelledAt: now, Reason: "weather", RefundStatus: model.RefundPending, RefundAmount: 125, RefundPercent: 50},
		Version:       3,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	rec, err := bookingToRecord(b)
	require.NoError(t, err)
	assert.Equal(t, int64(99), rec.ID)
	assert.Equal(t, "cancelled", rec.Status)
	assert.Equal(t, 250.0, rec.TotalAmount)
	require.NotNil(t, rec.CancelledAt)

	back, err := bookingFromRecord(rec)
	require.NoError(t, err)
	assert.Equal(t, b, back)
}

func TestItineraryRecordDefaultsEmptySlices(t *testing.T) {
	it := model.Itinerary{ID: "5", TourID: "7", Title: "Week", Status: model.ItineraryStatusDraft, Duration: model.Duration{Days: 2, Nights: 1}}

	rec, err := itineraryToRecord(it)
	require.NoError(t, err)
	assert.JSONEq(t, "[]", string(rec.Activities))

	back, err := itineraryFromRecord(rec)
	require.NoError(t, err)
	assert.NotNil(t, back.Activities)
	assert.Nil(t, back.ForkedFrom)
	assert.Equal(t, 2, back.Duration.Days)
}
