package itinerary

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TourCore/internal/model"
	pkgerrors "TourCore/pkg/errors"
)

func TestAddActivity_AppendsToEndOfDay(t *testing.T) {
	it := newTestItinerary(t, 3)
	it = mustAdd(t, it, "a", 1, "09:00", "10:00")
	it = mustAdd(t, it, "b", 1, "10:30", "12:00")
	it = mustAdd(t, it, "c", 2, "09:00", "11:00")

	_, order := orderOf(t, it, "a")
	assert.Equal(t, 0, order)
	_, order = orderOf(t, it, "b")
	assert.Equal(t, 1, order)
	_, order = orderOf(t, it, "c")
	assert.Equal(t, 0, order)
	assert.Equal(t, model.ActivityPlanned, it.Activities[0].Status)
}

func TestAddActivity_GeneratesID(t *testing.T) {
	it := newTestItinerary(t, 1)
	out, act, err := AddActivity(it, ActivityDraft{
		Title:     "Harbour walk",
		Type:      model.ActivityFreeTime,
		StartTime: "14:00",
		EndTime:   "15:30",
		DayNumber: 1,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, act.ID)
	assert.Len(t, out.Activities, 1)
	assert.Equal(t, act.ID, out.Activities[0].ID)
}

func TestAddActivity_DayOutOfRange(t *testing.T) {
	it := newTestItinerary(t, 3)

	for _, day := range []int{0, 4, -1} {
		_, _, err := AddActivity(it, ActivityDraft{
			Title: "Late arrival", Type: model.ActivityOther, StartTime: "09:00", EndTime: "10:00", DayNumber: day,
		})
		require.Error(t, err)
		assert.True(t, pkgerrors.Is(err, pkgerrors.ValidationFailed))

		derr, ok := pkgerrors.As(err)
		require.True(t, ok)
		assert.Equal(t, "day_number", derr.Field)
		assert.Equal(t, day, derr.Actual)
	}
}

func TestAddActivity_RejectsBadInput(t *testing.T) {
	it := newTestItinerary(t, 2)

	cases := map[string]struct {
		draft ActivityDraft
		field string
	}{
		"end equals start": {
			draft: ActivityDraft{Title: "x", Type: model.ActivityMeal, StartTime: "12:00", EndTime: "12:00", DayNumber: 1},
			field: "end_time",
		},
		"end before start": {
			draft: ActivityDraft{Title: "x", Type: model.ActivityMeal, StartTime: "12:00", EndTime: "11:00", DayNumber: 1},
			field: "end_time",
		},
		"bad start": {
			draft: ActivityDraft{Title: "x", Type: model.ActivityMeal, StartTime: "noon", EndTime: "13:00", DayNumber: 1},
			field: "start_time",
		},
		"unknown type": {
			draft: ActivityDraft{Title: "x", Type: "party", StartTime: "12:00", EndTime: "13:00", DayNumber: 1},
			field: "type",
		},
		"unknown status": {
			draft: ActivityDraft{Title: "x", Type: model.ActivityMeal, Status: "done", StartTime: "12:00", EndTime: "13:00", DayNumber: 1},
			field: "status",
		},
		"blank title": {
			draft: ActivityDraft{Title: "  ", Type: model.ActivityMeal, StartTime: "12:00", EndTime: "13:00", DayNumber: 1},
			field: "title",
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, _, err := AddActivity(it, tc.draft)
			require.Error(t, err)
			derr, ok := pkgerrors.As(err)
			require.True(t, ok)
			assert.Equal(t, pkgerrors.ValidationFailed, derr.Definition)
			assert.Equal(t, tc.field, derr.Field)
		})
	}
}

func TestAddActivity_DuplicateID(t *testing.T) {
	it := newTestItinerary(t, 1)
	it = mustAdd(t, it, "a", 1, "09:00", "10:00")

	_, _, err := AddActivity(it, ActivityDraft{ID: "a", Title: "again", Type: model.ActivityMeal, StartTime: "11:00", EndTime: "12:00", DayNumber: 1})
	assert.True(t, pkgerrors.Is(err, pkgerrors.ValidationFailed))
}

func TestAddActivity_DoesNotMutateInput(t *testing.T) {
	it := newTestItinerary(t, 1)
	out := mustAdd(t, it, "a", 1, "09:00", "10:00")

	assert.Empty(t, it.Activities)
	assert.Len(t, out.Activities, 1)
}

func TestAddActivity_AvoidsTieWhenStoredDayHasGaps(t *testing.T) {
	it := newTestItinerary(t, 1)
	it.Activities = []model.Activity{
		{ID: "a", Title: "a", Type: model.ActivityMeal, StartTime: "08:00", EndTime: "09:00", DayNumber: 1, Order: 0, Status: model.ActivityPlanned},
		{ID: "b", Title: "b", Type: model.ActivityMeal, StartTime: "12:00", EndTime: "13:00", DayNumber: 1, Order: 5, Status: model.ActivityPlanned},
	}

	out := mustAdd(t, it, "c", 1, "18:00", "19:00")
	_, order := orderOf(t, out, "c")
	assert.Equal(t, 6, order)
}

func TestUpdateActivity_NotFound(t *testing.T) {
	it := newTestItinerary(t, 1)
	title := "new"

	_, _, err := UpdateActivity(it, "missing", ActivityPatch{Title: &title})
	require.Error(t, err)
	assert.True(t, pkgerrors.Is(err, pkgerrors.NotFound))

	derr, ok := pkgerrors.As(err)
	require.True(t, ok)
	assert.Equal(t, "missing", derr.EntityID)
}

func TestUpdateActivity_PartialPatchKeepsOtherFields(t *testing.T) {
	it := newTestItinerary(t, 2)
	it = mustAdd(t, it, "a", 1, "09:00", "10:00")
	it = mustAdd(t, it, "b", 1, "11:00", "12:00")

	title := "Fish market breakfast"
	out, act, err := UpdateActivity(it, "b", ActivityPatch{Title: &title})
	require.NoError(t, err)

	assert.Equal(t, title, act.Title)
	assert.Equal(t, "11:00", act.StartTime)
	assert.Equal(t, "12:00", act.EndTime)
	assert.Equal(t, 1, act.Order)
	assert.Equal(t, model.ActivitySightseeing, act.Type)
	assert.Equal(t, "activity b", it.Activities[1].Title, "input must stay untouched")
	assert.Equal(t, title, out.Activities[1].Title)
}

func TestUpdateActivity_MoveDayAppendsAndRepacksSource(t *testing.T) {
	it := newTestItinerary(t, 2)
	it = mustAdd(t, it, "a", 1, "09:00", "10:00")
	it = mustAdd(t, it, "b", 1, "10:00", "11:00")
	it = mustAdd(t, it, "c", 1, "11:00", "12:00")
	it = mustAdd(t, it, "d", 2, "09:00", "10:00")

	day := 2
	out, act, err := UpdateActivity(it, "b", ActivityPatch{DayNumber: &day})
	require.NoError(t, err)
	assert.Equal(t, 2, act.DayNumber)
	assert.Equal(t, 1, act.Order)

	d, order := orderOf(t, out, "a")
	assert.Equal(t, [2]int{1, 0}, [2]int{d, order})
	d, order = orderOf(t, out, "c")
	assert.Equal(t, [2]int{1, 1}, [2]int{d, order})
	d, order = orderOf(t, out, "d")
	assert.Equal(t, [2]int{2, 0}, [2]int{d, order})
	require.NoError(t, Validate(out))
}

func TestUpdateActivity_ValidatesMergedResult(t *testing.T) {
	it := newTestItinerary(t, 2)
	it = mustAdd(t, it, "a", 1, "09:00", "10:00")

	end := "08:00"
	_, _, err := UpdateActivity(it, "a", ActivityPatch{EndTime: &end})
	assert.True(t, pkgerrors.Is(err, pkgerrors.ValidationFailed))

	day := 3
	_, _, err = UpdateActivity(it, "a", ActivityPatch{DayNumber: &day})
	assert.True(t, pkgerrors.Is(err, pkgerrors.ValidationFailed))
}

func TestDeleteActivity_RepacksDay(t *testing.T) {
	it := newTestItinerary(t, 2)
	it = mustAdd(t, it, "a", 1, "09:00", "10:00")
	it = mustAdd(t, it, "b", 1, "10:00", "11:00")
	it = mustAdd(t, it, "c", 1, "11:00", "12:00")
	it = mustAdd(t, it, "d", 2, "09:00", "10:00")

	activityID := "a"
	it, _, err := AddBudgetItem(it, BudgetDraft{
		Category: model.BudgetEntranceFees, ItemName: "museum", Quantity: 2, UnitPrice: 15, ActivityID: &activityID,
	})
	require.NoError(t, err)

	out, err := DeleteActivity(it, "a")
	require.NoError(t, err)
	assert.Len(t, out.Activities, 3)

	_, order := orderOf(t, out, "b")
	assert.Equal(t, 0, order)
	_, order = orderOf(t, out, "c")
	assert.Equal(t, 1, order)
	_, order = orderOf(t, out, "d")
	assert.Equal(t, 0, order)

	assert.Nil(t, out.BudgetItems[0].ActivityID)
	require.NotNil(t, it.BudgetItems[0].ActivityID, "input must stay untouched")
	assert.Len(t, it.Activities, 4)
}

func TestDeleteActivity_NotFound(t *testing.T) {
	it := newTestItinerary(t, 1)
	_, err := DeleteActivity(it, "ghost")
	assert.True(t, pkgerrors.Is(err, pkgerrors.NotFound))
}

func TestReorderActivities(t *testing.T) {
	it := newTestItinerary(t, 2)
	it = mustAdd(t, it, "a", 1, "09:00", "10:00")
	it = mustAdd(t, it, "b", 1, "10:00", "11:00")
	it = mustAdd(t, it, "c", 1, "11:00", "12:00")
	it = mustAdd(t, it, "d", 2, "09:00", "10:00")

	out, err := ReorderActivities(it, 1, []string{"c", "a", "b"})
	require.NoError(t, err)

	groups := GroupActivitiesByDay(out)
	var ids []string
	for _, a := range groups[1] {
		ids = append(ids, a.ID)
	}
	assert.Equal(t, []string{"c", "a", "b"}, ids)
	_, order := orderOf(t, out, "d")
	assert.Equal(t, 0, order)
}

func TestReorderActivities_RequiresExactPermutation(t *testing.T) {
	it := newTestItinerary(t, 2)
	it = mustAdd(t, it, "a", 1, "09:00", "10:00")
	it = mustAdd(t, it, "b", 1, "10:00", "11:00")
	it = mustAdd(t, it, "d", 2, "09:00", "10:00")

	cases := map[string]struct {
		ids []string
		day int
	}{
		"missing id":       {day: 1, ids: []string{"a"}},
		"extra id":         {day: 1, ids: []string{"a", "b", "d"}},
		"foreign id":       {day: 1, ids: []string{"a", "d"}},
		"duplicate id":     {day: 1, ids: []string{"a", "a"}},
		"day out of range": {day: 5, ids: nil},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			out, err := ReorderActivities(it, tc.day, tc.ids)
			assert.True(t, pkgerrors.Is(err, pkgerrors.ValidationFailed))
			assert.Equal(t, it, out)
		})
	}
}
