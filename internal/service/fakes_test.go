package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"TourCore/internal/booking"
	"TourCore/internal/model"
	"TourCore/internal/repository"
	pkgerrors "TourCore/pkg/errors"
)

var testNow = time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)

type memTours struct {
	mu        sync.Mutex
	tours     map[string]model.Tour
	conflicts int
}

func newMemTours(tours ...model.Tour) *memTours {
	m := &memTours{tours: make(map[string]model.Tour)}
	for _, t := range tours {
		if t.Version == 0 {
			t.Version = 1
		}
		m.tours[t.ID] = t
	}
	return m
}

func (m *memTours) GetTour(_ context.Context, id string) (model.Tour, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tours[id]
	if !ok {
		return model.Tour{}, pkgerrors.NotFoundError("tour", id)
	}
	return t, nil
}

func (m *memTours) CreateTour(_ context.Context, t model.Tour) (model.Tour, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t.Version = 1
	m.tours[t.ID] = t
	return t, nil
}

func (m *memTours) UpdateTour(_ context.Context, t model.Tour) (model.Tour, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.conflicts > 0 {
		m.conflicts--
		return model.Tour{}, pkgerrors.Conflict("tour", t.ID, t.Version)
	}
	stored, ok := m.tours[t.ID]
	if !ok || stored.Version != t.Version {
		return model.Tour{}, pkgerrors.Conflict("tour", t.ID, t.Version)
	}
	t.Version++
	m.tours[t.ID] = t
	return t, nil
}

func (m *memTours) get(id string) model.Tour {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tours[id]
}

type memItineraries struct {
	mu    sync.Mutex
	items map[string]model.Itinerary
	stale bool
}

func newMemItineraries() *memItineraries {
	return &memItineraries{items: make(map[string]model.Itinerary)}
}

func (m *memItineraries) GetItinerary(_ context.Context, id string) (model.Itinerary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.items[id]
	if !ok {
		return model.Itinerary{}, pkgerrors.NotFoundError("itinerary", id)
	}
	return it.Clone(), nil
}

func (m *memItineraries) CreateItinerary(_ context.Context, it model.Itinerary) (model.Itinerary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	it.Version = 1
	m.items[it.ID] = it.Clone()
	return it, nil
}

func (m *memItineraries) UpdateItinerary(_ context.Context, it model.Itinerary) (model.Itinerary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.items[it.ID]
	if !ok || stored.Version != it.Version || m.stale {
		return model.Itinerary{}, pkgerrors.Conflict("itinerary", it.ID, it.Version)
	}
	it.Version++
	m.items[it.ID] = it.Clone()
	return it, nil
}

func (m *memItineraries) ListItinerariesByTour(_ context.Context, tourID string, status model.ItineraryStatus) ([]model.Itinerary, error) {
	return m.filter(func(it model.Itinerary) bool {
		return it.TourID == tourID && (status == "" || it.Status == status)
	}), nil
}

func (m *memItineraries) ListForks(_ context.Context, sourceID string) ([]model.Itinerary, error) {
	return m.filter(func(it model.Itinerary) bool {
		return it.ForkedFrom != nil && *it.ForkedFrom == sourceID
	}), nil
}

func (m *memItineraries) filter(keep func(model.Itinerary) bool) []model.Itinerary {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Itinerary
	for _, it := range m.items {
		if keep(it) {
			out = append(out, it.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

type memBookings struct {
	mu        sync.Mutex
	bookings  map[string]model.Booking
	order     []string
	conflicts int
}

func newMemBookings() *memBookings {
	return &memBookings{bookings: make(map[string]model.Booking)}
}

func (m *memBookings) GetBooking(_ context.Context, id string) (model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return model.Booking{}, pkgerrors.NotFoundError("booking", id)
	}
	return b.Clone(), nil
}

func (m *memBookings) GetBookingByNumber(_ context.Context, number string) (model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.bookings {
		if b.BookingNumber == number {
			return b.Clone(), nil
		}
	}
	return model.Booking{}, pkgerrors.NotFoundError("booking", number)
}

func (m *memBookings) CreateBooking(_ context.Context, b model.Booking) (model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b.Version = 1
	m.bookings[b.ID] = b.Clone()
	m.order = append(m.order, b.ID)
	return b, nil
}

func (m *memBookings) UpdateBooking(_ context.Context, b model.Booking) (model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.conflicts > 0 {
		m.conflicts--
		return model.Booking{}, pkgerrors.Conflict("booking", b.ID, b.Version)
	}
	stored, ok := m.bookings[b.ID]
	if !ok || stored.Version != b.Version {
		return model.Booking{}, pkgerrors.Conflict("booking", b.ID, b.Version)
	}
	b.Version++
	m.bookings[b.ID] = b.Clone()
	return b, nil
}

func (m *memBookings) ListBookings(_ context.Context, f repository.BookingFilter) ([]model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Booking
	for _, id := range m.order {
		b := m.bookings[id]
		if f.ProviderID != "" && b.ProviderID != f.ProviderID {
			continue
		}
		if f.Status != "" && b.Status != f.Status {
			continue
		}
		out = append(out, b.Clone())
	}
	return out, nil
}

func (m *memBookings) ListStalePending(_ context.Context, before time.Time, limit int) ([]model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Booking
	for _, id := range m.order {
		b := m.bookings[id]
		if b.Status == model.BookingPending && b.CreatedAt.Before(before) && len(out) < limit {
			out = append(out, b.Clone())
		}
	}
	return out, nil
}

func (m *memBookings) ListProviderIDs(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	seen := make(map[string]bool)
	var out []string
	for _, id := range m.order {
		p := m.bookings[id].ProviderID
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	return out, nil
}

type memLocker struct {
	mu   sync.Mutex
	held map[string]bool
}

func newMemLocker() *memLocker {
	return &memLocker{held: make(map[string]bool)}
}

func (l *memLocker) Acquire(_ context.Context, key string) (func(context.Context), bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[key] {
		return nil, false, nil
	}
	l.held[key] = true
	return func(context.Context) {
		l.mu.Lock()
		defer l.mu.Unlock()
		delete(l.held, key)
	}, true, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []model.BookingEvent
}

func (p *recordingPublisher) PublishBookingEvent(_ context.Context, evt model.BookingEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return nil
}

func (p *recordingPublisher) types() []model.BookingEventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]model.BookingEventType, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Event)
	}
	return out
}

type memStats struct {
	mu    sync.Mutex
	stats map[string]booking.Statistics
	sets  int
}

func newMemStats() *memStats {
	return &memStats{stats: make(map[string]booking.Statistics)}
}

func (m *memStats) GetStats(_ context.Context, providerID string) (booking.Statistics, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.stats[providerID]
	return s, ok, nil
}

func (m *memStats) SetStats(_ context.Context, providerID string, stats booking.Statistics) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stats[providerID] = stats
	m.sets++
	return nil
}

func (m *memStats) InvalidateStats(_ context.Context, providerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.stats, providerID)
	return nil
}

type memDayViews struct {
	mu    sync.Mutex
	views map[string]DayView
	hits  int
}

func newMemDayViews() *memDayViews {
	return &memDayViews{views: make(map[string]DayView)}
}

func (m *memDayViews) GetDays(_ context.Context, id string, version int64, dest interface{}) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.views[fmt.Sprintf("%s:%d", id, version)]
	if !ok {
		return false, nil
	}
	m.hits++
	*dest.(*DayView) = v
	return true, nil
}

func (m *memDayViews) SetDays(_ context.Context, id string, version int64, view interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.views[fmt.Sprintf("%s:%d", id, version)] = view.(DayView)
	return nil
}

func sequence(prefix string) func() (string, error) {
	var (
		mu sync.Mutex
		n  int
	)
	return func() (string, error) {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("%s%d", prefix, n), nil
	}
}

type fixture struct {
	tours       *memTours
	itineraries *memItineraries
	bookings    *memBookings
	locker      *memLocker
	events      *recordingPublisher
	stats       *memStats
	views       *memDayViews
	deps        Deps
}

func newFixture(tours ...model.Tour) *fixture {
	f := &fixture{
		tours:       newMemTours(tours...),
		itineraries: newMemItineraries(),
		bookings:    newMemBookings(),
		locker:      newMemLocker(),
		events:      &recordingPublisher{},
		stats:       newMemStats(),
		views:       newMemDayViews(),
	}
	f.deps = Deps{
		Tours:       f.tours,
		Itineraries: f.itineraries,
		Bookings:    f.bookings,
		Locker:      f.locker,
		Events:      f.events,
		Stats:       f.stats,
		DayViews:    f.views,
		Now:         func() time.Time { return testNow },
		NewID:       sequence(""),
		NewNumber:   sequence("TB-"),
	}
	return f
}

func seaTour() model.Tour {
	return model.Tour{
		ID:              "tour-1",
		ProviderID:      "prov-1",
		Title:           "Coastal Week",
		Pricing:         model.TourPricing{Currency: "USD", Adult: 100, Child: 50},
		MaxParticipants: 10,
		AvailableDates: []model.AvailableDate{
			{Date: "2026-11-02", Slots: 5, Status: model.TourDateAvailable},
		},
		CancellationPolicy: model.CancellationPolicy{
			Kind: model.PolicyTiered,
			Tiers: []model.RefundTier{
				{MinHoursBefore: 24, Percent: 50},
				{MinHoursBefore: 72, Percent: 100},
			},
		},
	}
}
