package domain

import "strings"

// PaymentMethod is how the passenger pays for a booking.
type PaymentMethod string

const (
	PaymentFull         PaymentMethod = "FULL"
	PaymentInternal     PaymentMethod = "INTERNAL"
	PaymentRefund       PaymentMethod = "REFUND"
	PaymentHumm         PaymentMethod = "HUMM"
	PaymentFullHumm     PaymentMethod = "FULL_HUMM"
	PaymentInternalHumm PaymentMethod = "INTERNAL_HUMM"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentFull, PaymentInternal, PaymentRefund, PaymentHumm, PaymentFullHumm, PaymentInternalHumm:
		return true
	}
	return false
}

// HasInstalments reports whether the method is repaid through an internal instalment plan.
func (m PaymentMethod) HasInstalments() bool {
	return m == PaymentInternal || m == PaymentInternalHumm
}

type BookingType string

const (
	BookingFresh        BookingType = "FRESH"
	BookingDateChange   BookingType = "DATE_CHANGE"
	BookingCancellation BookingType = "CANCELLATION"
)

func (t BookingType) Valid() bool {
	return t == BookingFresh || t == BookingDateChange || t == BookingCancellation
}

type BookingStatus string

const (
	BookingConfirmed BookingStatus = "CONFIRMED"
	BookingCancelled BookingStatus = "CANCELLED"
)

// SupplierMethod is the funding method of one supplier allocation.
type SupplierMethod string

const (
	SupplierBankTransfer              SupplierMethod = "BANK_TRANSFER"
	SupplierCredit                    SupplierMethod = "CREDIT"
	SupplierCreditNotes               SupplierMethod = "CREDIT_NOTES"
	SupplierBankTransferAndCredit     SupplierMethod = "BANK_TRANSFER_AND_CREDIT"
	SupplierBankTransferAndCreditNote SupplierMethod = "BANK_TRANSFER_AND_CREDIT_NOTES"
	SupplierCreditAndCreditNotes      SupplierMethod = "CREDIT_AND_CREDIT_NOTES"
)

// Components splits a method into its funding parts. Single methods return one part.
func (m SupplierMethod) Components() []SupplierMethod {
	switch m {
	case SupplierBankTransfer, SupplierCredit, SupplierCreditNotes:
		return []SupplierMethod{m}
	case SupplierBankTransferAndCredit:
		return []SupplierMethod{SupplierBankTransfer, SupplierCredit}
	case SupplierBankTransferAndCreditNote:
		return []SupplierMethod{SupplierBankTransfer, SupplierCreditNotes}
	case SupplierCreditAndCreditNotes:
		return []SupplierMethod{SupplierCredit, SupplierCreditNotes}
	}
	return nil
}

func (m SupplierMethod) Valid() bool { return len(m.Components()) > 0 }

func (m SupplierMethod) Combined() bool { return len(m.Components()) == 2 }

// PaidAtBooking reports whether a single funding part settles the supplier immediately.
// CREDIT is deferred and stays pending until settled.
func (m SupplierMethod) PaidAtBooking() bool {
	return m == SupplierBankTransfer || m == SupplierCreditNotes
}

func (m SupplierMethod) UsesCreditNotes() bool {
	for _, c := range m.Components() {
		if c == SupplierCreditNotes {
			return true
		}
	}
	return false
}

type InstalmentStatus string

const (
	InstalmentPending    InstalmentStatus = "PENDING"
	InstalmentPaid       InstalmentStatus = "PAID"
	InstalmentOverdue    InstalmentStatus = "OVERDUE"
	InstalmentSettlement InstalmentStatus = "SETTLEMENT"
)

// Closed reports whether no further payment can be applied.
func (s InstalmentStatus) Closed() bool {
	return s == InstalmentPaid || s == InstalmentSettlement
}

type PaymentKind string

const (
	KindInstalment PaymentKind = "INSTALMENT"
	KindSettlement PaymentKind = "SETTLEMENT"
)

type PlanPeriod string

const (
	PeriodWithin30 PlanPeriod = "within30days"
	PeriodBeyond30 PlanPeriod = "beyond30"
)

type PlanStrategy string

const (
	StrategyWeekly  PlanStrategy = "weekly"
	StrategyMonthly PlanStrategy = "monthly"
	StrategyCustom  PlanStrategy = "custom"
)

// TransactionMethod is how money moves when a settlement or refund is recorded.
type TransactionMethod string

const (
	TransactionBankTransfer TransactionMethod = "BANK_TRANSFER"
	TransactionCash         TransactionMethod = "CASH"
	TransactionCard         TransactionMethod = "CARD"
	TransactionCreditNotes  TransactionMethod = "CREDIT_NOTES"
)

func (m TransactionMethod) Valid() bool {
	switch m {
	case TransactionBankTransfer, TransactionCash, TransactionCard, TransactionCreditNotes:
		return true
	}
	return false
}

type SettlementStatus string

const (
	SettlementPending SettlementStatus = "PENDING"
	SettlementPartial SettlementStatus = "PARTIAL"
	SettlementPaid    SettlementStatus = "PAID"
)

type CreditNoteStatus string

const (
	CreditNoteAvailable CreditNoteStatus = "AVAILABLE"
	CreditNoteExhausted CreditNoteStatus = "EXHAUSTED"
)

// NormalizeCode upper-cases and trims enum-like user input.
func NormalizeCode(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// SameSupplier compares supplier names the way credit-note lookups do.
func SameSupplier(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
