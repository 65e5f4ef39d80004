package finance

import (
	"strings"

	"backoffice/internal/domain"
)

type CancellationInput struct {
	Received float64
	ProdCost float64
	// SupplierPaid is what the suppliers were actually paid; nil when the
	// booking has no cost breakdown, in which case prodCost is assumed paid.
	SupplierPaid *float64

	SupplierCancellationFee float64
	AdminFee                float64
	RefundToPassenger       float64
	RefundMethod            domain.TransactionMethod
}

// CancellationOutcome lists the records a cancellation produces. Zero amounts mean "none".
type CancellationOutcome struct {
	PassengerDue      float64 `json:"passengerDue"`
	RefundToPassenger float64 `json:"refundToPassenger"`
	CustomerPayable   float64 `json:"customerPayable"`
	SupplierPaid      float64 `json:"supplierPaid"`
	CreditNoteAmount  float64 `json:"creditNoteAmount"`
	SupplierPayable   float64 `json:"supplierPayable"`
}

func ComputeCancellation(in CancellationInput) (CancellationOutcome, error) {
	if !validAmount(in.SupplierCancellationFee) {
		return CancellationOutcome{}, domain.Invalid("supplierCancellationFee", "must be a non-negative number")
	}
	if !validAmount(in.AdminFee) {
		return CancellationOutcome{}, domain.Invalid("adminFee", "must be a non-negative number")
	}
	if !validAmount(in.RefundToPassenger) {
		return CancellationOutcome{}, domain.Invalid("refundToPassenger", "must be a non-negative number")
	}
	if Exceeds(in.RefundToPassenger, in.Received) {
		return CancellationOutcome{}, domain.Invalid("refundToPassenger", "cannot exceed the %.2f received from the passenger", in.Received)
	}

	out := CancellationOutcome{PassengerDue: Sum(in.SupplierCancellationFee, in.AdminFee)}
	shortfall := Sub(out.PassengerDue, in.Received)
	refund := Round2(in.RefundToPassenger)

	switch {
	case refund > 0 && !IsZero(refund):
		if shortfall > 0 && !IsZero(shortfall) {
			return CancellationOutcome{}, domain.Invalid("refundToPassenger", "passenger still owes %.2f, no refund is due", shortfall)
		}
		if !in.RefundMethod.Valid() {
			return CancellationOutcome{}, domain.Invalid("refundTransactionMethod", "is required when refunding the passenger")
		}
		out.RefundToPassenger = refund
	case shortfall > 0 && !IsZero(shortfall):
		out.CustomerPayable = shortfall
	}

	paid := Round2(in.ProdCost)
	if in.SupplierPaid != nil {
		paid = Round2(*in.SupplierPaid)
	}
	out.SupplierPaid = paid
	if Exceeds(in.SupplierCancellationFee, paid) {
		out.SupplierPayable = Sub(in.SupplierCancellationFee, paid)
		return out, nil
	}
	if leftover := Sub(paid, in.SupplierCancellationFee); leftover > 0 && !IsZero(leftover) {
		out.CreditNoteAmount = leftover
	}
	return out, nil
}

type SupplierShare struct {
	Supplier   string
	PaidAmount float64
}

// CreditNoteSupplier picks who the credit note is issued to: the requested
// supplier when given, otherwise the one holding the largest paid amount.
func CreditNoteSupplier(requested string, shares []SupplierShare, fallback string) string {
	if s := strings.TrimSpace(requested); s != "" {
		return s
	}
	best := ""
	bestPaid := -1.0
	for _, sh := range shares {
		if sh.PaidAmount > bestPaid {
			best, bestPaid = strings.TrimSpace(sh.Supplier), sh.PaidAmount
		}
	}
	if best == "" {
		return strings.TrimSpace(fallback)
	}
	return best
}

// CreditNoteRemaining is initial minus every usage, floored at zero.
func CreditNoteRemaining(initial float64, usages ...float64) float64 {
	remaining := Sub(initial, Sum(usages...))
	if remaining < 0 {
		return 0
	}
	return remaining
}
