package itinerary

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TourCore/internal/model"
	pkgerrors "TourCore/pkg/errors"
)

var fixedNow = time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

func newTestItinerary(t *testing.T, days int) model.Itinerary {
	t.Helper()
	it, err := New("it-1", "tour-1", "Coastal Week", model.Duration{Days: days, Nights: days - 1}, fixedNow)
	require.NoError(t, err)
	return it
}

func mustAdd(t *testing.T, it model.Itinerary, id string, day int, start, end string) model.Itinerary {
	t.Helper()
	out, _, err := AddActivity(it, ActivityDraft{
		ID:        id,
		Title:     "activity " + id,
		Type:      model.ActivitySightseeing,
		StartTime: start,
		EndTime:   end,
		DayNumber: day,
	})
	require.NoError(t, err)
	return out
}

func orderOf(t *testing.T, it model.Itinerary, id string) (day, order int) {
	t.Helper()
	idx := indexOfActivity(it, id)
	require.GreaterOrEqual(t, idx, 0, "activity %s missing", id)
	return it.Activities[idx].DayNumber, it.Activities[idx].Order
}

func TestNew(t *testing.T) {
	it := newTestItinerary(t, 3)
	assert.Equal(t, model.ItineraryStatusDraft, it.Status)
	assert.Empty(t, it.Activities)
	assert.Empty(t, it.BudgetItems)

	_, err := New("it-2", "tour-1", "", model.Duration{Days: 0}, fixedNow)
	assert.True(t, pkgerrors.Is(err, pkgerrors.ValidationFailed))

	_, err = New("it-2", "", "x", model.Duration{Days: 2}, fixedNow)
	assert.True(t, pkgerrors.Is(err, pkgerrors.ValidationFailed))

	_, err = New("it-2", "tour-1", "x", model.Duration{Days: 2, Nights: 3}, fixedNow)
	assert.True(t, pkgerrors.Is(err, pkgerrors.ValidationFailed))
}

func TestValidate(t *testing.T) {
	it := newTestItinerary(t, 2)
	it = mustAdd(t, it, "a", 1, "09:00", "10:00")
	it = mustAdd(t, it, "b", 1, "11:00", "12:00")
	require.NoError(t, Validate(it))

	tied := it.Clone()
	tied.Activities[1].Order = tied.Activities[0].Order
	err := Validate(tied)
	require.Error(t, err)
	derr, ok := pkgerrors.As(err)
	require.True(t, ok)
	assert.Equal(t, "order", derr.Field)

	badTotal, _, err := AddBudgetItem(it, BudgetDraft{Category: model.BudgetMeals, ItemName: "lunch", Quantity: 2, UnitPrice: 10})
	require.NoError(t, err)
	badTotal.BudgetItems[0].TotalPrice = 25
	err = Validate(badTotal)
	require.Error(t, err)
	derr, ok = pkgerrors.As(err)
	require.True(t, ok)
	assert.Equal(t, "total_price", derr.Field)
	assert.Equal(t, 20.0, derr.Expected)
}
