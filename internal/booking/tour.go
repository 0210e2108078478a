package booking

import (
	"strings"
	"time"

	"TourCore/internal/model"
	pkgerrors "TourCore/pkg/errors"
	"TourCore/utils"
)

const entityTour = "tour"

// PrepareTour 校验并规范化供应商提交的 tour，新建时名额计数归零
func PrepareTour(t model.Tour, now time.Time) (model.Tour, error) {
	out := t
	out.Title = strings.TrimSpace(t.Title)
	out.Pricing.Currency = strings.ToUpper(strings.TrimSpace(t.Pricing.Currency))
	if out.Pricing.Currency == "" {
		out.Pricing.Currency = defaultCurrency
	}

	if out.Title == "" {
		return t, pkgerrors.Validation(entityTour, t.ID, "title", "title is required", nil, nil)
	}
	if strings.TrimSpace(t.ProviderID) == "" {
		return t, pkgerrors.Validation(entityTour, t.ID, "provider_id", "provider_id is required", nil, nil)
	}
	if !utils.ValidateCurrency(out.Pricing.Currency) {
		return t, pkgerrors.Validation(entityTour, t.ID, "pricing.currency", "currency must be a 3-letter code", "ISO 4217", out.Pricing.Currency)
	}
	prices := []struct {
		field string
		v     float64
	}{
		{"pricing.adult", t.Pricing.Adult},
		{"pricing.child", t.Pricing.Child},
		{"pricing.infant", t.Pricing.Infant},
	}
	for _, p := range prices {
		if p.v < 0 {
			return t, pkgerrors.Validation(entityTour, t.ID, p.field, "price must not be negative", ">= 0", p.v)
		}
	}

	if t.MinParticipants < 0 || t.MaxParticipants < 0 {
		return t, pkgerrors.Validation(entityTour, t.ID, "max_participants", "participant limits must not be negative", ">= 0", t.MaxParticipants)
	}
	if t.MaxParticipants > 0 && t.MinParticipants > t.MaxParticipants {
		return t, pkgerrors.Validation(entityTour, t.ID, "min_participants", "min_participants exceeds max_participants", t.MaxParticipants, t.MinParticipants)
	}
	if t.MinGroupSize < 0 {
		return t, pkgerrors.Validation(entityTour, t.ID, "min_group_size", "must not be negative", ">= 0", t.MinGroupSize)
	}
	if t.GroupDiscountPercent < 0 || t.GroupDiscountPercent > 100 {
		return t, pkgerrors.Validation(entityTour, t.ID, "group_discount_percent", "percent out of range", "[0, 100]", t.GroupDiscountPercent)
	}

	if err := ValidatePolicy(t.CancellationPolicy); err != nil {
		return t, err
	}
	out.CancellationPolicy = NormalizePolicy(t.CancellationPolicy)

	out.AvailableDates = make([]model.AvailableDate, 0, len(t.AvailableDates))
	seen := make(map[string]bool, len(t.AvailableDates))
	for _, d := range t.AvailableDates {
		if _, err := utils.ParseDate(d.Date, time.UTC); err != nil {
			return t, pkgerrors.Validation(entityTour, t.ID, "available_dates.date", "date must be YYYY-MM-DD", utils.DateLayout, d.Date)
		}
		if seen[d.Date] {
			return t, pkgerrors.Validation(entityTour, t.ID, "available_dates.date", "duplicate date", "unique", d.Date)
		}
		seen[d.Date] = true
		if d.Slots < 0 {
			return t, pkgerrors.Validation(entityTour, t.ID, "available_dates.slots", "slots must not be negative", ">= 0", d.Slots)
		}
		if d.Status == "" {
			d.Status = model.TourDateAvailable
		}
		switch d.Status {
		case model.TourDateAvailable, model.TourDateFull, model.TourDateCancelled:
		default:
			return t, pkgerrors.Validation(entityTour, t.ID, "available_dates.status", "unknown date status",
				[]string{string(model.TourDateAvailable), string(model.TourDateFull), string(model.TourDateCancelled)}, string(d.Status))
		}
		d.Booked = 0
		out.AvailableDates = append(out.AvailableDates, d)
	}

	out.CurrentBookings = 0
	out.CreatedAt = now
	out.UpdatedAt = now
	return out, nil
}
