// Package booking 实现预订状态机、定价与统计。
//
// 与 itinerary 包一样，这里只处理快照：入参不被修改，
// 非法流转返回 INVALID_TRANSITION 且返回值等于入参。
package booking

import (
	"strings"
	"time"

	"TourCore/internal/model"
	pkgerrors "TourCore/pkg/errors"
	"TourCore/utils"
)

const entityBooking = "booking"

// Operation 生命周期操作
type Operation string

const (
	OpConfirm  Operation = "confirm"
	OpPayment  Operation = "record_payment"
	OpStart    Operation = "start"
	OpCancel   Operation = "cancel"
	OpComplete Operation = "complete"
	OpRefund   Operation = "refund"
	OpNoShow   Operation = "mark_no_show"
)

// Operations 按界面展示顺序排列
var Operations = []Operation{OpConfirm, OpPayment, OpStart, OpComplete, OpCancel, OpRefund, OpNoShow}

// validTransitions 操作 -> 允许的源状态
var validTransitions = map[Operation][]model.BookingStatus{
	OpConfirm:  {model.BookingPending},
	OpPayment:  {model.BookingConfirmed},
	OpStart:    {model.BookingPaid},
	OpCancel:   {model.BookingPending, model.BookingConfirmed, model.BookingPaid},
	OpComplete: {model.BookingPaid, model.BookingInProgress},
	OpRefund:   {model.BookingPaid, model.BookingInProgress},
	OpNoShow:   {model.BookingConfirmed, model.BookingPaid},
}

// CanApply 判断 op 在 status 下是否合法
func CanApply(op Operation, status model.BookingStatus) bool {
	for _, s := range validTransitions[op] {
		if s == status {
			return true
		}
	}
	return false
}

// AvailableActions 返回当前状态下可执行的操作，终态返回空切片
func AvailableActions(status model.BookingStatus) []Operation {
	actions := make([]Operation, 0, len(Operations))
	for _, op := range Operations {
		if CanApply(op, status) {
			actions = append(actions, op)
		}
	}
	return actions
}

func checkTransition(b model.Booking, op Operation) error {
	if CanApply(op, b.Status) {
		return nil
	}
	allowed := make([]string, 0, len(validTransitions[op]))
	for _, s := range validTransitions[op] {
		allowed = append(allowed, string(s))
	}
	return pkgerrors.Transition(entityBooking, b.ID, string(op), string(b.Status), allowed)
}

func moveTo(b model.Booking, status model.BookingStatus, now time.Time) model.Booking {
	out := b.Clone()
	out.Status = status
	out.UpdatedAt = now
	return out
}

// Confirm pending -> confirmed
func Confirm(b model.Booking, now time.Time) (model.Booking, error) {
	if err := checkTransition(b, OpConfirm); err != nil {
		return b, err
	}
	return moveTo(b, model.BookingConfirmed, now), nil
}

// PaymentInfo 支付网关回传的结果
type PaymentInfo struct {
	Method        string
	Status        model.PaymentStatus
	TransactionID string
	FailureReason string
	// Amount 为 0 时按订单总额记账
	Amount float64
}

// RecordPayment 记录支付结果。只有 completed 会把预订推进到 paid，
// failed 与 pending 只更新支付子记录。
func RecordPayment(b model.Booking, info PaymentInfo, now time.Time) (model.Booking, error) {
	if err := checkTransition(b, OpPayment); err != nil {
		return b, err
	}

	method := strings.TrimSpace(info.Method)
	if method == "" {
		return b, pkgerrors.Validation(entityBooking, b.ID, "payment.method", "payment method is required", nil, nil)
	}
	switch info.Status {
	case model.PaymentPending, model.PaymentCompleted, model.PaymentFailed:
	default:
		return b, pkgerrors.Validation(entityBooking, b.ID, "payment.status", "unsupported payment status",
			[]string{string(model.PaymentPending), string(model.PaymentCompleted), string(model.PaymentFailed)}, string(info.Status))
	}
	if info.Amount < 0 {
		return b, pkgerrors.Validation(entityBooking, b.ID, "payment.amount", "amount must not be negative", ">= 0", info.Amount)
	}
	// 金额为 0 表示全额；已完成的支付不接受部分到账
	if info.Status == model.PaymentCompleted && info.Amount > 0 && utils.RoundCents(info.Amount) < b.Pricing.TotalAmount {
		return b, pkgerrors.Validation(entityBooking, b.ID, "payment.amount", "completed payment must cover the total amount",
			b.Pricing.TotalAmount, utils.RoundCents(info.Amount))
	}

	out := b.Clone()
	out.UpdatedAt = now
	out.Payment.Method = method
	out.Payment.Status = info.Status
	out.Payment.TransactionID = info.TransactionID
	out.Payment.FailureReason = ""
	out.Payment.Amount = b.Pricing.TotalAmount
	if info.Amount > 0 {
		out.Payment.Amount = utils.RoundCents(info.Amount)
	}

	switch info.Status {
	case model.PaymentCompleted:
		paidAt := now
		out.Payment.PaidAt = &paidAt
		out.Status = model.BookingPaid
	case model.PaymentFailed:
		out.Payment.FailureReason = info.FailureReason
	}
	return out, nil
}

// Start paid -> in_progress
func Start(b model.Booking, now time.Time) (model.Booking, error) {
	if err := checkTransition(b, OpStart); err != nil {
		return b, err
	}
	return moveTo(b, model.BookingInProgress, now), nil
}

// Cancel 取消预订。退款额度由调用方按取消策略算好后传入，
// 只有已完成支付的预订才会记录退款。
func Cancel(b model.Booking, reason string, quote RefundQuote, now time.Time) (model.Booking, error) {
	if err := checkTransition(b, OpCancel); err != nil {
		return b, err
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return b, pkgerrors.Reason(entityBooking, b.ID)
	}

	out := moveTo(b, model.BookingCancelled, now)
	cancellation := &model.Cancellation{
		CancelledAt:  now,
		Reason:       reason,
		RefundStatus: model.RefundNone,
	}
	if b.Payment.Status == model.PaymentCompleted {
		amount := quote.Amount
		if paid := paidAmount(b); amount > paid {
			amount = paid
		}
		if amount < 0 {
			amount = 0
		}
		cancellation.RefundPercent = quote.Percent
		cancellation.RefundAmount = utils.RoundCents(amount)
		if cancellation.RefundAmount > 0 {
			cancellation.RefundStatus = model.RefundPending
		}
	}
	out.Cancellation = cancellation
	return out, nil
}

// Complete paid|in_progress -> completed
func Complete(b model.Booking, now time.Time) (model.Booking, error) {
	if err := checkTransition(b, OpComplete); err != nil {
		return b, err
	}
	return moveTo(b, model.BookingCompleted, now), nil
}

// Refund 全额退款，支付状态同步为 refunded
func Refund(b model.Booking, now time.Time) (model.Booking, error) {
	if err := checkTransition(b, OpRefund); err != nil {
		return b, err
	}

	out := moveTo(b, model.BookingRefunded, now)
	out.Payment.Status = model.PaymentRefunded
	out.Cancellation = &model.Cancellation{
		CancelledAt:   now,
		RefundStatus:  model.RefundProcessed,
		RefundPercent: 100,
		RefundAmount:  paidAmount(b),
	}
	return out, nil
}

// MarkNoShow confirmed|paid -> no-show
func MarkNoShow(b model.Booking, now time.Time) (model.Booking, error) {
	if err := checkTransition(b, OpNoShow); err != nil {
		return b, err
	}
	return moveTo(b, model.BookingNoShow, now), nil
}

func paidAmount(b model.Booking) float64 {
	if b.Payment.Amount > 0 {
		return b.Payment.Amount
	}
	return b.Pricing.TotalAmount
}
