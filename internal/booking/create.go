package booking

import (
	"fmt"
	"strings"
	"time"

	"TourCore/internal/model"
	pkgerrors "TourCore/pkg/errors"
	"TourCore/utils"
)

const defaultCurrency = "USD"

// Inventory 创建预订时需要的资源快照
type Inventory struct {
	ResourceID           string
	ProviderID           string
	Pricing              model.TourPricing
	Dates                []model.AvailableDate
	MaxParticipants      int
	CurrentBookings      int
	MinGroupSize         int
	GroupDiscountPercent float64
}

func InventoryFromTour(t model.Tour) Inventory {
	dates := make([]model.AvailableDate, len(t.AvailableDates))
	copy(dates, t.AvailableDates)
	return Inventory{
		ResourceID:           t.ID,
		ProviderID:           t.ProviderID,
		Pricing:              t.Pricing,
		Dates:                dates,
		MaxParticipants:      t.MaxParticipants,
		CurrentBookings:      t.CurrentBookings,
		MinGroupSize:         t.MinGroupSize,
		GroupDiscountPercent: t.GroupDiscountPercent,
	}
}

// Draft 新预订的请求内容，ID 与编号由调用方生成
type Draft struct {
	ID                 string
	BookingNumber      string
	CustomerID         string
	TourDate           string
	SpecialRequests    string
	Resource           model.ResourceRef
	Contact            model.ContactInfo
	Participants       model.Participants
	ParticipantDetails []model.ParticipantDetail
}

// Create 校验人数、容量与日期名额后生成 pending 预订
func Create(draft Draft, inv Inventory, now time.Time) (model.Booking, error) {
	if err := validateDraft(draft); err != nil {
		return model.Booking{}, err
	}

	requested := draft.Participants.Total()
	if inv.MaxParticipants > 0 && inv.CurrentBookings+requested > inv.MaxParticipants {
		return model.Booking{}, pkgerrors.Capacity(entityBooking, draft.ID,
			fmt.Sprintf("%d of %d places already booked", inv.CurrentBookings, inv.MaxParticipants),
			inv.MaxParticipants-inv.CurrentBookings, requested)
	}
	if draft.TourDate != "" {
		if err := checkDate(draft, inv, requested); err != nil {
			return model.Booking{}, err
		}
	}

	b := model.Booking{
		ID:                 draft.ID,
		BookingNumber:      draft.BookingNumber,
		CustomerID:         draft.CustomerID,
		ProviderID:         inv.ProviderID,
		Resource:           draft.Resource,
		TourDate:           draft.TourDate,
		SpecialRequests:    strings.TrimSpace(draft.SpecialRequests),
		Contact:            draft.Contact,
		Participants:       draft.Participants,
		ParticipantDetails: draft.ParticipantDetails,
		Pricing:            Price(draft.Participants, inv),
		Status:             model.BookingPending,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	b.Payment = model.Payment{Status: model.PaymentPending, Amount: b.Pricing.TotalAmount}
	return b.Clone(), nil
}

// Price 单价乘人数，达到成团人数时按比例打折
func Price(p model.Participants, inv Inventory) model.Pricing {
	currency := inv.Pricing.Currency
	if currency == "" {
		currency = defaultCurrency
	}

	pricing := model.Pricing{
		Currency:    currency,
		AdultPrice:  inv.Pricing.Adult,
		ChildPrice:  inv.Pricing.Child,
		InfantPrice: inv.Pricing.Infant,
	}
	pricing.Subtotal = utils.RoundCents(float64(p.Adults)*inv.Pricing.Adult +
		float64(p.Children)*inv.Pricing.Child +
		float64(p.Infants)*inv.Pricing.Infant)

	if inv.MinGroupSize > 0 && inv.GroupDiscountPercent > 0 && p.Total() >= inv.MinGroupSize {
		pricing.DiscountPercent = inv.GroupDiscountPercent
		pricing.Discount = utils.Percent(pricing.Subtotal, inv.GroupDiscountPercent)
	}
	pricing.TotalAmount = utils.RoundCents(pricing.Subtotal - pricing.Discount)
	return pricing
}

// Reserve 把预订占用的名额记到 tour 上
func Reserve(t model.Tour, b model.Booking) model.Tour {
	return adjust(t, b.TourDate, b.Participants.Total())
}

// Release 归还名额，用于取消、退款与未到场
func Release(t model.Tour, b model.Booking) model.Tour {
	return adjust(t, b.TourDate, -b.Participants.Total())
}

func adjust(t model.Tour, date string, delta int) model.Tour {
	out := t
	out.AvailableDates = make([]model.AvailableDate, len(t.AvailableDates))
	copy(out.AvailableDates, t.AvailableDates)

	out.CurrentBookings = max(0, t.CurrentBookings+delta)
	if _, idx, ok := out.FindDate(date); ok {
		d := &out.AvailableDates[idx]
		d.Booked = max(0, d.Booked+delta)
		switch {
		case d.Status == model.TourDateAvailable && d.Slots > 0 && d.Booked >= d.Slots:
			d.Status = model.TourDateFull
		case d.Status == model.TourDateFull && d.Booked < d.Slots:
			d.Status = model.TourDateAvailable
		}
	}
	return out
}

func validateDraft(d Draft) error {
	if strings.TrimSpace(d.ID) == "" {
		return pkgerrors.Validation(entityBooking, d.ID, "id", "id is required", nil, nil)
	}
	if strings.TrimSpace(d.CustomerID) == "" {
		return pkgerrors.Validation(entityBooking, d.ID, "customer_id", "customer_id is required", nil, nil)
	}
	if !d.Resource.Kind.IsValid() {
		return pkgerrors.Validation(entityBooking, d.ID, "resource.kind", "unknown resource kind",
			[]string{string(model.ResourceTour), string(model.ResourceHotelRoom), string(model.ResourceFlightSeat)}, string(d.Resource.Kind))
	}
	if strings.TrimSpace(d.Resource.ID) == "" {
		return pkgerrors.Validation(entityBooking, d.ID, "resource.id", "resource id is required", nil, nil)
	}

	p := d.Participants
	counts := []struct {
		field string
		n     int
	}{
		{"participants.adults", p.Adults},
		{"participants.children", p.Children},
		{"participants.infants", p.Infants},
	}
	for _, c := range counts {
		if c.n < 0 {
			return pkgerrors.Validation(entityBooking, d.ID, c.field, "count must not be negative", ">= 0", c.n)
		}
	}
	if p.Total() < 1 {
		return pkgerrors.Validation(entityBooking, d.ID, "participants", "at least one participant is required", ">= 1", p.Total())
	}

	if d.Contact.Email != "" && !utils.ValidateEmail(d.Contact.Email) {
		return pkgerrors.Validation(entityBooking, d.ID, "contact.email", "invalid email", nil, d.Contact.Email)
	}
	return nil
}

func checkDate(d Draft, inv Inventory, requested int) error {
	if _, err := utils.ParseDate(d.TourDate, time.UTC); err != nil {
		return pkgerrors.Validation(entityBooking, d.ID, "tour_date", "tour_date must be YYYY-MM-DD", utils.DateLayout, d.TourDate)
	}

	for _, date := range inv.Dates {
		if date.Date != d.TourDate {
			continue
		}
		if date.Status != model.TourDateAvailable {
			return pkgerrors.Capacity(entityBooking, d.ID, "date "+d.TourDate+" is "+string(date.Status), 0, requested)
		}
		if date.Slots > 0 && date.Booked+requested > date.Slots {
			return pkgerrors.Capacity(entityBooking, d.ID, "not enough places left on "+d.TourDate, date.Remaining(), requested)
		}
		return nil
	}
	return pkgerrors.Validation(entityBooking, d.ID, "tour_date", "date is not offered for this tour", nil, d.TourDate)
}
