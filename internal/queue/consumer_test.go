package queue

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TourCore/internal/model"
)

type memDeduper struct {
	marked   map[string]bool
	unmarked []string
}

func (d *memDeduper) TryMarkProcessing(_ context.Context, id string, _ time.Duration) (bool, error) {
	if d.marked[id] {
		return false, nil
	}
	d.marked[id] = true
	return true, nil
}

func (d *memDeduper) UnmarkProcessing(_ context.Context, id string) error {
	delete(d.marked, id)
	d.unmarked = append(d.unmarked, id)
	return nil
}

type memInvalidator struct{ providers []string }

func (m *memInvalidator) InvalidateStats(_ context.Context, providerID string) error {
	m.providers = append(m.providers, providerID)
	return nil
}

type memReleaser struct {
	released []string
	err      error
}

func (m *memReleaser) ReleaseCapacity(_ context.Context, evt model.BookingEvent) error {
	if m.err != nil {
		return m.err
	}
	m.released = append(m.released, evt.BookingID)
	return nil
}

func newHandler() (*EventHandler, *memDeduper, *memInvalidator, *memReleaser) {
	d := &memDeduper{marked: make(map[string]bool)}
	s := &memInvalidator{}
	r := &memReleaser{}
	return &EventHandler{Dedup: d, Stats: s, Capacity: r}, d, s, r
}

func encode(t *testing.T, evt model.BookingEvent) []byte {
	t.Helper()
	body, err := json.Marshal(evt)
	require.NoError(t, err)
	return body
}

func TestHandleReleasesCapacityOnce(t *testing.T) {
	h, _, stats, releaser := newHandler()
	evt := model.BookingEvent{
		MessageID:  "m-1",
		Event:      model.EventBookingCancelled,
		BookingID:  "b-1",
		ProviderID: "p-1",
		Resource:   model.ResourceRef{Kind: model.ResourceTour, ID: "t-1"},
	}
	body := encode(t, evt)

	require.NoError(t, h.Handle(context.Background(), evt.Event.RoutingKey(), body))
	require.NoError(t, h.Handle(context.Background(), evt.Event.RoutingKey(), body))

	assert.Equal(t, []string{"b-1"}, releaser.released)
	assert.Equal(t, []string{"p-1"}, stats.providers)
}

func TestHandleConfirmedOnlyInvalidatesStats(t *testing.T) {
	h, _, stats, releaser := newHandler()
	evt := model.BookingEvent{MessageID: "m-2", Event: model.EventBookingConfirmed, BookingID: "b-2", ProviderID: "p-1"}

	require.NoError(t, h.Handle(context.Background(), "booking.confirmed", encode(t, evt)))

	assert.Empty(t, releaser.released)
	assert.Equal(t, []string{"p-1"}, stats.providers)
}

func TestHandleFailureAllowsRedelivery(t *testing.T) {
	h, dedup, _, releaser := newHandler()
	releaser.err = errors.New("db down")
	evt := model.BookingEvent{MessageID: "m-3", Event: model.EventBookingNoShow, BookingID: "b-3", ProviderID: "p-1"}

	err := h.Handle(context.Background(), "booking.no_show", encode(t, evt))
	require.Error(t, err)
	assert.Equal(t, []string{"m-3"}, dedup.unmarked)
	assert.False(t, dedup.marked["m-3"])
}

func TestHandleDropsMalformedBody(t *testing.T) {
	h, _, stats, _ := newHandler()

	assert.NoError(t, h.Handle(context.Background(), "booking.created", []byte("{not json")))
	assert.Empty(t, stats.providers)
}

func TestRoutingKeys(t *testing.T) {
	assert.Equal(t, "booking.no_show", model.EventBookingNoShow.RoutingKey())
	assert.True(t, model.EventBookingRefunded.ReleasesCapacity())
	assert.False(t, model.EventBookingPaid.ReleasesCapacity())
}
