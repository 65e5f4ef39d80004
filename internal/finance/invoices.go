package finance

import "backoffice/internal/domain"

// InvoiceCeiling returns the commission still available for invoicing.
func InvoiceCeiling(commission float64, invoiced []float64) float64 {
	left := Sub(commission, Sum(invoiced...))
	if left < 0 {
		return 0
	}
	return left
}

// CheckInternalInvoice validates a new commission invoice. commission is the
// booking's fixed commission, or the one supplied by the first invoice.
func CheckInternalInvoice(amount, commission float64, invoiced []float64) error {
	if !validAmount(commission) || IsZero(commission) {
		return domain.Invalid("commissionAmount", "must be greater than 0")
	}
	if !validAmount(amount) || IsZero(amount) {
		return domain.Invalid("amount", "must be greater than 0")
	}
	if left := InvoiceCeiling(commission, invoiced); Exceeds(amount, left) {
		return domain.Invalid("amount", "%.2f exceeds the %.2f commission left to invoice", amount, left)
	}
	return nil
}
