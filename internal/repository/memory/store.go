// Package memory 进程内存储，用于本地开发与接口测试，语义与 postgres 仓库一致（含版本校验）。
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"TourCore/internal/model"
	"TourCore/internal/repository"
	pkgerrors "TourCore/pkg/errors"
)

type TourStore struct {
	mu    sync.RWMutex
	tours map[string]model.Tour
}

func NewTourStore() *TourStore {
	return &TourStore{tours: make(map[string]model.Tour)}
}

func (s *TourStore) GetTour(_ context.Context, id string) (model.Tour, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tours[id]
	if !ok {
		return model.Tour{}, pkgerrors.NotFoundError("tour", id)
	}
	return cloneTour(t), nil
}

func (s *TourStore) CreateTour(_ context.Context, t model.Tour) (model.Tour, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t.Version = 1
	s.tours[t.ID] = cloneTour(t)
	return t, nil
}

func (s *TourStore) UpdateTour(_ context.Context, t model.Tour) (model.Tour, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.tours[t.ID]
	if !ok {
		return model.Tour{}, pkgerrors.NotFoundError("tour", t.ID)
	}
	if stored.Version != t.Version {
		return model.Tour{}, pkgerrors.Conflict("tour", t.ID, t.Version)
	}
	t.Version++
	s.tours[t.ID] = cloneTour(t)
	return t, nil
}

func cloneTour(t model.Tour) model.Tour {
	out := t
	out.AvailableDates = append([]model.AvailableDate(nil), t.AvailableDates...)
	out.CancellationPolicy.Tiers = append([]model.RefundTier(nil), t.CancellationPolicy.Tiers...)
	return out
}

type ItineraryStore struct {
	mu    sync.RWMutex
	items map[string]model.Itinerary
}

func NewItineraryStore() *ItineraryStore {
	return &ItineraryStore{items: make(map[string]model.Itinerary)}
}

func (s *ItineraryStore) GetItinerary(_ context.Context, id string) (model.Itinerary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	it, ok := s.items[id]
	if !ok {
		return model.Itinerary{}, pkgerrors.NotFoundError("itinerary", id)
	}
	return it.Clone(), nil
}

func (s *ItineraryStore) CreateItinerary(_ context.Context, it model.Itinerary) (model.Itinerary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	it.Version = 1
	s.items[it.ID] = it.Clone()
	return it, nil
}

func (s *ItineraryStore) UpdateItinerary(_ context.Context, it model.Itinerary) (model.Itinerary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.items[it.ID]
	if !ok {
		return model.Itinerary{}, pkgerrors.NotFoundError("itinerary", it.ID)
	}
	if stored.Version != it.Version {
		return model.Itinerary{}, pkgerrors.Conflict("itinerary", it.ID, it.Version)
	}
	it.Version++
	s.items[it.ID] = it.Clone()
	return it, nil
}

func (s *ItineraryStore) ListItinerariesByTour(_ context.Context, tourID string, status model.ItineraryStatus) ([]model.Itinerary, error) {
	return s.list(func(it model.Itinerary) bool {
		return it.TourID == tourID && (status == "" || it.Status == status)
	}, func(a, b model.Itinerary) bool { return a.UpdatedAt.After(b.UpdatedAt) }), nil
}

func (s *ItineraryStore) ListForks(_ context.Context, sourceID string) ([]model.Itinerary, error) {
	return s.list(func(it model.Itinerary) bool {
		return it.ForkedFrom != nil && *it.ForkedFrom == sourceID
	}, func(a, b model.Itinerary) bool { return a.CreatedAt.Before(b.CreatedAt) }), nil
}

func (s *ItineraryStore) list(keep func(model.Itinerary) bool, less func(a, b model.Itinerary) bool) []model.Itinerary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Itinerary, 0)
	for _, it := range s.items {
		if keep(it) {
			out = append(out, it.Clone())
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if less(out[i], out[j]) {
			return true
		}
		if less(out[j], out[i]) {
			return false
		}
		return out[i].ID < out[j].ID
	})
	return out
}

type BookingStore struct {
	mu       sync.RWMutex
	bookings map[string]model.Booking
}

func NewBookingStore() *BookingStore {
	return &BookingStore{bookings: make(map[string]model.Booking)}
}

func (s *BookingStore) GetBooking(_ context.Context, id string) (model.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.bookings[id]
	if !ok {
		return model.Booking{}, pkgerrors.NotFoundError("booking", id)
	}
	return b.Clone(), nil
}

func (s *BookingStore) GetBookingByNumber(_ context.Context, number string) (model.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, b := range s.bookings {
		if b.BookingNumber == number {
			return b.Clone(), nil
		}
	}
	return model.Booking{}, pkgerrors.NotFoundError("booking", number)
}

func (s *BookingStore) CreateBooking(_ context.Context, b model.Booking) (model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b.Version = 1
	s.bookings[b.ID] = b.Clone()
	return b, nil
}

func (s *BookingStore) UpdateBooking(_ context.Context, b model.Booking) (model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.bookings[b.ID]
	if !ok {
		return model.Booking{}, pkgerrors.NotFoundError("booking", b.ID)
	}
	if stored.Version != b.Version {
		return model.Booking{}, pkgerrors.Conflict("booking", b.ID, b.Version)
	}
	b.Version++
	s.bookings[b.ID] = b.Clone()
	return b, nil
}

// sorted 按创建时间倒序，与 postgres 仓库一致
func (s *BookingStore) sorted() []model.Booking {
	out := make([]model.Booking, 0, len(s.bookings))
	for _, b := range s.bookings {
		out = append(out, b.Clone())
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (s *BookingStore) ListBookings(_ context.Context, f repository.BookingFilter) ([]model.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.Booking
	for _, b := range s.sorted() {
		if f.ProviderID != "" && b.ProviderID != f.ProviderID {
			continue
		}
		if f.CustomerID != "" && b.CustomerID != f.CustomerID {
			continue
		}
		if f.Status != "" && b.Status != f.Status {
			continue
		}
		out = append(out, b)
	}

	if f.Offset > 0 {
		if f.Offset >= len(out) {
			return []model.Booking{}, nil
		}
		out = out[f.Offset:]
	}
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (s *BookingStore) ListStalePending(_ context.Context, before time.Time, limit int) ([]model.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := s.sorted()
	var out []model.Booking
	for i := len(all) - 1; i >= 0; i-- {
		b := all[i]
		if b.Status == model.BookingPending && b.CreatedAt.Before(before) {
			out = append(out, b)
			if limit > 0 && len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (s *BookingStore) ListProviderIDs(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]bool)
	var out []string
	for _, b := range s.bookings {
		if !seen[b.ProviderID] {
			seen[b.ProviderID] = true
			out = append(out, b.ProviderID)
		}
	}
	sort.Strings(out)
	return out, nil
}

// Locker 进程内互斥锁，单实例部署时替代 redis 锁
type Locker struct {
	mu   sync.Mutex
	held map[string]bool
}

func NewLocker() *Locker {
	return &Locker{held: make(map[string]bool)}
}

func (l *Locker) Acquire(_ context.Context, key string) (func(context.Context), bool, error) {
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
