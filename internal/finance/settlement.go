package finance

import "backoffice/internal/domain"

// Totals is a parent's recomputed paid/pending pair.
type Totals struct {
	Amount        float64                 `json:"amount"`
	PaidAmount    float64                 `json:"paidAmount"`
	PendingAmount float64                 `json:"pendingAmount"`
	Status        domain.SettlementStatus `json:"status"`
}

// CheckSettlement rejects amounts that are not positive or exceed pending by more than 0.01.
func CheckSettlement(field string, amount, pending float64) error {
	if !validAmount(amount) || IsZero(amount) {
		return domain.Invalid(field, "must be greater than 0")
	}
	if Exceeds(amount, pending) {
		return domain.Invalid(field, "%.2f exceeds the outstanding %.2f", amount, pending)
	}
	return nil
}

// RecomputeTotals rebuilds paid/pending from the base paid amount and the
// full list of settlements. pending never drops below zero.
func RecomputeTotals(amount, basePaid float64, settlements []float64) Totals {
	paid := Sum(append([]float64{basePaid}, settlements...)...)
	pending := Sub(amount, paid)
	if pending < 0 {
		pending = 0
	}
	status := domain.SettlementPending
	switch {
	case IsZero(pending):
		status = domain.SettlementPaid
	case paid > 0 && !IsZero(paid):
		status = domain.SettlementPartial
	}
	return Totals{Amount: Round2(amount), PaidAmount: paid, PendingAmount: pending, Status: status}
}

// RecomputeReceived is initialDeposit plus every instalment and settlement payment.
func RecomputeReceived(initialDeposit float64, instalmentPayments, settlementPayments []float64) float64 {
	all := make([]float64, 0, 1+len(instalmentPayments)+len(settlementPayments))
	all = append(all, initialDeposit)
	all = append(all, instalmentPayments...)
	all = append(all, settlementPayments...)
	return Sum(all...)
}

// BackComputeDeposit recovers the deposit of a booking stored before the
// deposit was tracked separately.
func BackComputeDeposit(firstReceived float64, paidInstalments []float64) float64 {
	return Sub(firstReceived, Sum(paidInstalments...))
}
