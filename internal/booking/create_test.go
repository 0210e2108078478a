package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TourCore/internal/model"
	pkgerrors "TourCore/pkg/errors"
)

func testTour() model.Tour {
	return model.Tour{
		ID:              "tour-1",
		ProviderID:      "prov-1",
		Title:           "Old Town Walk",
		Pricing:         model.TourPricing{Currency: "EUR", Adult: 100, Child: 50, Infant: 0},
		MaxParticipants: 10,
		CurrentBookings: 0,
		AvailableDates: []model.AvailableDate{
			{Date: "2026-06-01", Status: model.TourDateAvailable, Slots: 6, Booked: 4},
			{Date: "2026-06-02", Status: model.TourDateCancelled, Slots: 6},
		},
		MinGroupSize:         5,
		GroupDiscountPercent: 10,
	}
}

func testDraft(p model.Participants) Draft {
	return Draft{
		ID:            "bk-1",
		BookingNumber: "TB-1",
		CustomerID:    "cust-1",
		Resource:      model.ResourceRef{Kind: model.ResourceTour, ID: "tour-1"},
		Contact:       model.ContactInfo{Name: "Ana", Email: "ana@example.com"},
		Participants:  p,
	}
}

func TestCreate_Pending(t *testing.T) {
	b, err := Create(testDraft(model.Participants{Adults: 2, Children: 1, Infants: 1}), InventoryFromTour(testTour()), fixedNow)
	require.NoError(t, err)

	assert.Equal(t, model.BookingPending, b.Status)
	assert.Equal(t, model.PaymentPending, b.Payment.Status)
	assert.Equal(t, "prov-1", b.ProviderID)
	assert.Equal(t, 250.0, b.Pricing.Subtotal)
	assert.Zero(t, b.Pricing.Discount)
	assert.Equal(t, 250.0, b.Pricing.TotalAmount)
	assert.Equal(t, "EUR", b.Pricing.Currency)
	assert.Equal(t, fixedNow, b.CreatedAt)
}

func TestCreate_GroupDiscount(t *testing.T) {
	b, err := Create(testDraft(model.Participants{Adults: 4, Children: 1}), InventoryFromTour(testTour()), fixedNow)
	require.NoError(t, err)

	assert.Equal(t, 450.0, b.Pricing.Subtotal)
	assert.Equal(t, 10.0, b.Pricing.DiscountPercent)
	assert.Equal(t, 45.0, b.Pricing.Discount)
	assert.Equal(t, 405.0, b.Pricing.TotalAmount)
	assert.Equal(t, 405.0, b.Payment.Amount)
}

func TestCreate_CapacityExceeded(t *testing.T) {
	tour := testTour()
	tour.CurrentBookings = 9

	_, err := Create(testDraft(model.Participants{Adults: 2}), InventoryFromTour(tour), fixedNow)
	derr, ok := pkgerrors.As(err)
	require.True(t, ok)
	assert.Equal(t, pkgerrors.CapacityExceeded, derr.Definition)
	assert.Equal(t, "Fully booked", derr.Message)
	assert.Equal(t, 1, derr.Expected)
	assert.Equal(t, 2, derr.Actual)

	_, err = Create(testDraft(model.Participants{Adults: 1}), InventoryFromTour(tour), fixedNow)
	assert.NoError(t, err)
}

func TestCreate_Validation(t *testing.T) {
	inv := InventoryFromTour(testTour())

	cases := map[string]struct {
		mutate func(d *Draft)
		field  string
	}{
		"no participants":   {mutate: func(d *Draft) { d.Participants = model.Participants{} }, field: "participants"},
		"negative children": {mutate: func(d *Draft) { d.Participants = model.Participants{Adults: 2, Children: -1} }, field: "participants.children"},
		"missing customer":  {mutate: func(d *Draft) { d.CustomerID = "" }, field: "customer_id"},
		"unknown resource":  {mutate: func(d *Draft) { d.Resource.Kind = "car" }, field: "resource.kind"},
		"bad email":         {mutate: func(d *Draft) { d.Contact.Email = "not-an-email" }, field: "contact.email"},
		"bad date":          {mutate: func(d *Draft) { d.TourDate = "06/01/2026" }, field: "tour_date"},
		"date not offered":  {mutate: func(d *Draft) { d.TourDate = "2026-07-01" }, field: "tour_date"},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			d := testDraft(model.Participants{Adults: 1})
			tc.mutate(&d)
			_, err := Create(d, inv, fixedNow)
			derr, ok := pkgerrors.As(err)
			require.True(t, ok)
			assert.Equal(t, pkgerrors.ValidationFailed, derr.Definition)
			assert.Equal(t, tc.field, derr.Field)
		})
	}
}

func TestCreate_DateSlots(t *testing.T) {
	inv := InventoryFromTour(testTour())

	d := testDraft(model.Participants{Adults: 2})
	d.TourDate = "2026-06-01"
	_, err := Create(d, inv, fixedNow)
	require.NoError(t, err)

	d.Participants = model.Participants{Adults: 3}
	_, err = Create(d, inv, fixedNow)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CapacityExceeded))

	d.Participants = model.Participants{Adults: 1}
	d.TourDate = "2026-06-02"
	_, err = Create(d, inv, fixedNow)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CapacityExceeded))
}

func TestReserveAndRelease(t *testing.T) {
	tour := testTour()
	b := bookingIn(model.BookingPending)
	b.TourDate = "2026-06-01"

	reserved := Reserve(tour, b)
	assert.Equal(t, 2, reserved.CurrentBookings)
	assert.Equal(t, 6, reserved.AvailableDates[0].Booked)
	assert.Equal(t, model.TourDateFull, reserved.AvailableDates[0].Status)
	assert.Equal(t, 4, tour.AvailableDates[0].Booked, "input must stay untouched")

	released := Release(reserved, b)
	assert.Equal(t, 0, released.CurrentBookings)
	assert.Equal(t, 4, released.AvailableDates[0].Booked)
	assert.Equal(t, model.TourDateAvailable, released.AvailableDates[0].Status)

	assert.Equal(t, 0, Release(tour, b).CurrentBookings)
}
