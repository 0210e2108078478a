package booking

import (
	"sort"
	"time"

	"TourCore/internal/model"
	pkgerrors "TourCore/pkg/errors"
	"TourCore/utils"
)

// RefundQuote 按取消策略估算的退款
type RefundQuote struct {
	Percent float64 `json:"percent"`
	Amount  float64 `json:"amount"`
}

// EvaluateRefund 计算在 now 取消、出发时间为 scheduledAt 时可退金额。
// 未完成支付的预订不退款。
func EvaluateRefund(policy model.CancellationPolicy, b model.Booking, scheduledAt, now time.Time) RefundQuote {
	if b.Payment.Status != model.PaymentCompleted {
		return RefundQuote{}
	}

	var percent float64
	switch policy.Kind {
	case model.PolicyFixed:
		percent = policy.Percent
	case model.PolicyTiered:
		hours := scheduledAt.Sub(now).Hours()
		best := -1.0
		for _, tier := range policy.Tiers {
			if tier.MinHoursBefore <= hours && tier.MinHoursBefore > best {
				best = tier.MinHoursBefore
				percent = tier.Percent
			}
		}
	}
	percent = min(max(percent, 0), 100)

	return RefundQuote{Percent: percent, Amount: utils.Percent(paidAmount(b), percent)}
}

// ValidatePolicy 校验策略结构，写入 tour 前调用
func ValidatePolicy(p model.CancellationPolicy) error {
	const entity = "cancellation_policy"

	switch p.Kind {
	case model.PolicyNone, "":
		return nil
	case model.PolicyFixed:
		if p.Percent < 0 || p.Percent > 100 {
			return pkgerrors.Validation(entity, "", "percent", "percent out of range", "[0, 100]", p.Percent)
		}
		return nil
	case model.PolicyTiered:
		if len(p.Tiers) == 0 {
			return pkgerrors.Validation(entity, "", "tiers", "tiered policy needs at least one tier", ">= 1", 0)
		}
		seen := make(map[float64]bool, len(p.Tiers))
		for _, tier := range p.Tiers {
			if tier.MinHoursBefore < 0 {
				return pkgerrors.Validation(entity, "", "tiers.min_hours_before", "must not be negative", ">= 0", tier.MinHoursBefore)
			}
			if tier.Percent < 0 || tier.Percent > 100 {
				return pkgerrors.Validation(entity, "", "tiers.percent", "percent out of range", "[0, 100]", tier.Percent)
			}
			if seen[tier.MinHoursBefore] {
				return pkgerrors.Validation(entity, "", "tiers.min_hours_before", "duplicate tier", "unique", tier.MinHoursBefore)
			}
			seen[tier.MinHoursBefore] = true
		}
		return nil
	}
	return pkgerrors.Validation(entity, "", "kind", "unknown policy kind",
		[]string{string(model.PolicyNone), string(model.PolicyFixed), string(model.PolicyTiered)}, string(p.Kind))
}

// NormalizePolicy 档位按 MinHoursBefore 升序排列
func NormalizePolicy(p model.CancellationPolicy) model.CancellationPolicy {
	if p.Kind == "" {
		p.Kind = model.PolicyNone
	}
	if len(p.Tiers) > 0 {
		tiers := make([]model.RefundTier, len(p.Tiers))
		copy(tiers, p.Tiers)
		sort.SliceStable(tiers, func(i, j int) bool { return tiers[i].MinHoursBefore < tiers[j].MinHoursBefore })
		p.Tiers = tiers
	}
	return p
}

// DepartureTime 预订对应的出发时刻（出团日零点），没有日期时返回 false
func DepartureTime(b model.Booking, loc *time.Location) (time.Time, bool) {
	if b.TourDate == "" {
		return time.Time{}, false
	}
	t, err := utils.ParseDate(b.TourDate, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
