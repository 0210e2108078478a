package repository

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"gorm.io/datatypes"

	"TourCore/internal/model"
	pkgerrors "TourCore/pkg/errors"
	"TourCore/utils"
)

// ParseID 对外 ID 为十进制字符串，非法输入等同于不存在
func ParseID(entity, id string) (int64, error) {
	v, err := strconv.ParseInt(id, 10, 64)
	if err != nil || v <= 0 {
		return 0, pkgerrors.NotFoundError(entity, id)
	}
	return v, nil
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func jsonFrom(v any) (datatypes.JSON, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal json column: %w", err)
	}
	return datatypes.JSON(b), nil
}

func jsonInto(j datatypes.JSON, dst any) error {
	if len(j) == 0 || string(j) == "null" {
		return nil
	}
	if err := json.Unmarshal(j, dst); err != nil {
		return fmt.Errorf("unmarshal json column: %w", err)
	}
	return nil
}

func tourToRecord(t model.Tour) (model.TourRecord, error) {
	id, err := ParseID("tour", t.ID)
	if err != nil {
		return model.TourRecord{}, err
	}

	rec := model.TourRecord{
		BaseModel:              model.BaseModel{ID: id, Version: t.Version, CreatedAt: t.CreatedAt, UpdatedAt: t.UpdatedAt},
		ProviderID:             t.ProviderID,
		Title:                  t.Title,
		CancellationPolicyText: t.CancellationPolicyText,
		MinParticipants:        t.MinParticipants,
		MaxParticipants:        t.MaxParticipants,
		CurrentBookings:        t.CurrentBookings,
		MinGroupSize:           t.MinGroupSize,
		GroupDiscountPercent:   t.GroupDiscountPercent,
	}
	if rec.Pricing, err = jsonFrom(t.Pricing); err != nil {
		return rec, err
	}
	if rec.CancellationPolicy, err = jsonFrom(t.CancellationPolicy); err != nil {
		return rec, err
	}
	if rec.AvailableDates, err = jsonFrom(t.AvailableDates); err != nil {
		return rec, err
	}
	return rec, nil
}

func tourFromRecord(rec model.TourRecord) (model.Tour, error) {
	t := model.Tour{
		ID:                     formatID(rec.ID),
		ProviderID:             rec.ProviderID,
		Title:                  rec.Title,
		CancellationPolicyText: rec.CancellationPolicyText,
		MinParticipants:        rec.MinParticipants,
		MaxParticipants:        rec.MaxParticipants,
		CurrentBookings:        rec.CurrentBookings,
		MinGroupSize:           rec.MinGroupSize,
		GroupDiscountPercent:   rec.GroupDiscountPercent,
		Version:                rec.Version,
		CreatedAt:              rec.CreatedAt,
		UpdatedAt:              rec.UpdatedAt,
	}
	if err := jsonInto(rec.Pricing, &t.Pricing); err != nil {
		return t, err
	}
	if err := jsonInto(rec.CancellationPolicy, &t.CancellationPolicy); err != nil {
		return t, err
	}
	if err := jsonInto(rec.AvailableDates, &t.AvailableDates); err != nil {
		return t, err
	}
	return t, nil
}

func itineraryToRecord(it model.Itinerary) (model.ItineraryRecord, error) {
	id, err := ParseID("itinerary", it.ID)
	if err != nil {
		return model.ItineraryRecord{}, err
	}
	tourID, err := ParseID("tour", it.TourID)
	if err != nil {
		return model.ItineraryRecord{}, err
	}

	rec := model.ItineraryRecord{
		BaseModel: model.BaseModel{ID: id, Version: it.Version, CreatedAt: it.CreatedAt, UpdatedAt: it.UpdatedAt},
		TourID:    tourID,
		Title:     it.Title,
		Status:    string(it.Status),
		Days:      it.Duration.Days,
		Nights:    it.Duration.Nights,
	}
	if it.ForkedFrom != nil {
		if from, err := ParseID("itinerary", *it.ForkedFrom); err == nil {
			rec.ForkedFrom = &from
		}
	}
	activities := it.Activities
	if activities == nil {
		activities = []model.Activity{}
	}
	items := it.BudgetItems
	if items == nil {
		items = []model.BudgetLineItem{}
	}
	if rec.Activities, err = jsonFrom(activities); err != nil {
		return rec, err
	}
	if rec.BudgetItems, err = jsonFrom(items); err != nil {
		return rec, err
	}
	return rec, nil
}

func itineraryFromRecord(rec model.ItineraryRecord) (model.Itinerary, error) {
	it := model.Itinerary{
		ID:          formatID(rec.ID),
		TourID:      formatID(rec.TourID),
		Title:       rec.Title,
		Status:      model.ItineraryStatus(rec.Status),
		Duration:    model.Duration{Days: rec.Days, Nights: rec.Nights},
		Activities:  []model.Activity{},
		BudgetItems: []model.BudgetLineItem{},
		Version:     rec.Version,
		CreatedAt:   rec.CreatedAt,
		UpdatedAt:   rec.UpdatedAt,
	}
	if rec.ForkedFrom != nil {
		from := formatID(*rec.ForkedFrom)
		it.ForkedFrom = &from
	}
	if err := jsonInto(rec.Activities, &it.Activities); err != nil {
		return it, err
	}
	if err := jsonInto(rec.BudgetItems, &it.BudgetItems); err != nil {
		return it, err
	}
	return it, nil
}

func bookingToRecord(b model.Booking) (model.BookingRecord, error) {
	id, err := ParseID("booking", b.ID)
	if err != nil {
		return model.BookingRecord{}, err
	}

	rec := model.BookingRecord{
		BaseModel:       model.BaseModel{ID: id, Version: b.Version, CreatedAt: b.CreatedAt, UpdatedAt: b.UpdatedAt},
		BookingNumber:   b.BookingNumber,
		ResourceKind:    string(b.Resource.Kind),
		ResourceID:      b.Resource.ID,
		CustomerID:      b.CustomerID,
		ProviderID:      b.ProviderID,
		Status:          string(b.Status),
		SpecialRequests: b.SpecialRequests,
		Adults:          b.Participants.Adults,
		Children:        b.Participants.Children,
		Infants:         b.Participants.Infants,
		Currency:        b.Pricing.Currency,
		TotalAmount:     b.Pricing.TotalAmount,
		PaymentStatus:   string(b.Payment.Status),
		PaidAt:          b.Payment.PaidAt,
	}
	if b.TourDate != "" {
		if d, err := utils.ParseDate(b.TourDate, time.UTC); err == nil {
			rec.TourDate = &d
		}
	}
	if b.Cancellation != nil {
		at := b.Cancellation.CancelledAt
		rec.CancelledAt = &at
	}
	if rec.Pricing, err = jsonFrom(b.Pricing); err != nil {
		return rec, err
	}
	if rec.Payment, err = jsonFrom(b.Payment); err != nil {
		return rec, err
	}
	if rec.Contact, err = jsonFrom(b.Contact); err != nil {
		return rec, err
	}
	if rec.ParticipantDetails, err = jsonFrom(b.ParticipantDetails); err != nil {
		return rec, err
	}
	if rec.Cancellation, err = jsonFrom(b.Cancellation); err != nil {
		return rec, err
	}
	return rec, nil
}

func bookingFromRecord(rec model.BookingRecord) (model.Booking, error) {
	b := model.Booking{
		ID:              formatID(rec.ID),
		BookingNumber:   rec.BookingNumber,
		Resource:        model.ResourceRef{Kind: model.ResourceKind(rec.ResourceKind), ID: rec.ResourceID},
		CustomerID:      rec.CustomerID,
		ProviderID:      rec.ProviderID,
		Status:          model.BookingStatus(rec.Status),
		SpecialRequests: rec.SpecialRequests,
		Participants:    model.Participants{Adults: rec.Adults, Children: rec.Children, Infants: rec.Infants},
		Version:         rec.Version,
		CreatedAt:       rec.CreatedAt,
		UpdatedAt:       rec.UpdatedAt,
	}
	if rec.TourDate != nil {
		b.TourDate = rec.TourDate.Format(utils.DateLayout)
	}
	if err := jsonInto(rec.Pricing, &b.Pricing); err != nil {
		return b, err
	}
	if err := jsonInto(rec.Payment, &b.Payment); err != nil {
		return b, err
	}
	if err := jsonInto(rec.Contact, &b.Contact); err != nil {
		return b, err
	}
	if err := jsonInto(rec.ParticipantDetails, &b.ParticipantDetails); err != nil {
		return b, err
	}
	if err := jsonInto(rec.Cancellation, &b.Cancellation); err != nil {
		return b, err
	}
	return b, nil
}
