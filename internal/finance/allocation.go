package finance

import (
	"fmt"
	"strings"

	"backoffice/internal/domain"
)

type CreditNoteUse struct {
	CreditNoteID int64   `json:"creditNoteId"`
	AmountToUse  float64 `json:"amountToUse"`
}

// SupplierAllocation is one supplier's share of a cost item.
type SupplierAllocation struct {
	Supplier           string                `json:"supplier"`
	Amount             float64               `json:"amount"`
	PaymentMethod      domain.SupplierMethod `json:"paymentMethod"`
	FirstMethodAmount  float64               `json:"firstMethodAmount"`
	SecondMethodAmount float64               `json:"secondMethodAmount"`
	CreditNotes        []CreditNoteUse       `json:"creditNotes,omitempty"`
}

type AllocatedSupplier struct {
	SupplierAllocation
	PaidAmount    float64 `json:"paidAmount"`
	PendingAmount float64 `json:"pendingAmount"`
}

type CostItemAllocation struct {
	Category  string               `json:"category"`
	Amount    float64              `json:"amount"`
	Suppliers []SupplierAllocation `json:"suppliers"`
}

type AllocatedCostItem struct {
	Category  string              `json:"category"`
	Amount    float64             `json:"amount"`
	Suppliers []AllocatedSupplier `json:"suppliers"`
}

// MethodSplit returns the part of amount paid at booking time and the part left pending.
// For combined methods first and second are the per-method amounts.
func MethodSplit(method domain.SupplierMethod, amount, first, second float64) (paid, pending float64) {
	parts := method.Components()
	switch len(parts) {
	case 1:
		if parts[0].PaidAtBooking() {
			return Round2(amount), 0
		}
		return 0, Round2(amount)
	case 2:
		var p []float64
		if parts[0].PaidAtBooking() {
			p = append(p, first)
		}
		if parts[1].PaidAtBooking() {
			p = append(p, second)
		}
		paid = Sum(p...)
		return paid, Sub(amount, paid)
	}
	return 0, Round2(amount)
}

// CreditNoteComponent is the part of the allocation funded by credit notes.
func CreditNoteComponent(a SupplierAllocation) float64 {
	parts := a.PaymentMethod.Components()
	switch {
	case len(parts) == 1 && parts[0] == domain.SupplierCreditNotes:
		return Round2(a.Amount)
	case len(parts) == 2 && parts[0] == domain.SupplierCreditNotes:
		return Round2(a.FirstMethodAmount)
	case len(parts) == 2 && parts[1] == domain.SupplierCreditNotes:
		return Round2(a.SecondMethodAmount)
	}
	return 0
}

// ValidateCreditNoteCoverage requires the selected notes to cover amountToCover exactly.
func ValidateCreditNoteCoverage(field string, uses []CreditNoteUse, amountToCover float64) error {
	if len(uses) == 0 {
		return domain.Invalid(field, "select credit notes covering %.2f", amountToCover)
	}
	seen := make(map[int64]bool, len(uses))
	amounts := make([]float64, 0, len(uses))
	for _, u := range uses {
		if u.CreditNoteID <= 0 {
			return domain.Invalid(field, "creditNoteId is required")
		}
		if seen[u.CreditNoteID] {
			return domain.Invalid(field, "credit note %d selected twice", u.CreditNoteID)
		}
		seen[u.CreditNoteID] = true
		if !validAmount(u.AmountToUse) || IsZero(u.AmountToUse) {
			return domain.Invalid(field, "amountToUse for credit note %d must be greater than 0", u.CreditNoteID)
		}
		amounts = append(amounts, u.AmountToUse)
	}
	if used := Sum(amounts...); !Equal(used, amountToCover) {
		return domain.Invalid(field, "credit notes cover %.2f, expected %.2f", used, amountToCover)
	}
	return nil
}

// AllocateSupplier validates one allocation and derives its paid/pending split.
func AllocateSupplier(field string, a SupplierAllocation) (AllocatedSupplier, error) {
	a.Supplier = strings.TrimSpace(a.Supplier)
	if a.Supplier == "" {
		return AllocatedSupplier{}, domain.Invalid(field+".supplier", "is required")
	}
	if !a.PaymentMethod.Valid() {
		return AllocatedSupplier{}, domain.Invalid(field+".paymentMethod", "unknown method %q", a.PaymentMethod)
	}
	if !validAmount(a.Amount) || IsZero(a.Amount) {
		return AllocatedSupplier{}, domain.Invalid(field+".amount", "must be greater than 0")
	}

	if a.PaymentMethod.Combined() {
		if !validAmount(a.FirstMethodAmount) || IsZero(a.FirstMethodAmount) {
			return AllocatedSupplier{}, domain.Invalid(field+".firstMethodAmount", "must be greater than 0")
		}
		if !validAmount(a.SecondMethodAmount) || IsZero(a.SecondMethodAmount) {
			return AllocatedSupplier{}, domain.Invalid(field+".secondMethodAmount", "must be greater than 0")
		}
		if sum := Sum(a.FirstMethodAmount, a.SecondMethodAmount); !Equal(sum, a.Amount) {
			return AllocatedSupplier{}, domain.Invalid(field, "method amounts add up to %.2f, expected %.2f", sum, a.Amount)
		}
	} else if a.FirstMethodAmount != 0 || a.SecondMethodAmount != 0 {
		return AllocatedSupplier{}, domain.Invalid(field, "method amounts are only allowed for combined payment methods")
	}

	if a.PaymentMethod.UsesCreditNotes() {
		if err := ValidateCreditNoteCoverage(field+".creditNotes", a.CreditNotes, CreditNoteComponent(a)); err != nil {
			return AllocatedSupplier{}, err
		}
	} else if len(a.CreditNotes) > 0 {
		return AllocatedSupplier{}, domain.Invalid(field+".creditNotes", "only allowed when paying with credit notes")
	}

	paid, pending := MethodSplit(a.PaymentMethod, a.Amount, a.FirstMethodAmount, a.SecondMethodAmount)
	a.Amount = Round2(a.Amount)
	return AllocatedSupplier{SupplierAllocation: a, PaidAmount: paid, PendingAmount: pending}, nil
}

// AllocateCostItem checks that the suppliers add up to the cost item amount.
func AllocateCostItem(field string, item CostItemAllocation) (AllocatedCostItem, error) {
	category := strings.TrimSpace(item.Category)
	if category == "" {
		return AllocatedCostItem{}, domain.Invalid(field+".category", "is required")
	}
	if !validAmount(item.Amount) {
		return AllocatedCostItem{}, domain.Invalid(field+".amount", "must be a non-negative number")
	}
	if len(item.Suppliers) == 0 {
		return AllocatedCostItem{}, domain.Invalid(field+".suppliers", "at least one supplier is required")
	}
	out := AllocatedCostItem{Category: category, Amount: Round2(item.Amount), Suppliers: make([]AllocatedSupplier, 0, len(item.Suppliers))}
	amounts := make([]float64, 0, len(item.Suppliers))
	for i, s := range item.Suppliers {
		allocated, err := AllocateSupplier(fmt.Sprintf("%s.suppliers[%d]", field, i), s)
		if err != nil {
			return AllocatedCostItem{}, err
		}
		amounts = append(amounts, allocated.Amount)
		out.Suppliers = append(out.Suppliers, allocated)
	}
	if sum := Sum(amounts...); !Equal(sum, item.Amount) {
		return AllocatedCostItem{}, domain.Invalid(field+".suppliers", "supplier amounts add up to %.2f, expected %.2f", sum, item.Amount)
	}
	return out, nil
}

// AllocateCostItems validates a booking's whole cost breakdown against prodCost.
// An empty breakdown is accepted as-is.
func AllocateCostItems(prodCost float64, items []CostItemAllocation) ([]AllocatedCostItem, error) {
	if len(items) == 0 {
		return []AllocatedCostItem{}, nil
	}
	out := make([]AllocatedCostItem, 0, len(items))
	amounts := make([]float64, 0, len(items))
	for i, item := range items {
		allocated, err := AllocateCostItem(fmt.Sprintf("costItems[%d]", i), item)
		if err != nil {
			return nil, err
		}
		amounts = append(amounts, allocated.Amount)
		out = append(out, allocated)
	}
	if sum := Sum(amounts...); !Equal(sum, prodCost) {
		return nil, domain.Invalid("costItems", "cost items add up to %.2f, expected prodCost %.2f", sum, prodCost)
	}
	return out, nil
}

// CreditNoteDemand totals the amount requested per credit note across a breakdown.
func CreditNoteDemand(items []AllocatedCostItem) map[int64]float64 {
	out := map[int64]float64{}
	for _, item := range items {
		for _, s := range item.Suppliers {
			for _, u := range s.CreditNotes {
				out[u.CreditNoteID] = Sum(out[u.CreditNoteID], u.AmountToUse)
			}
		}
	}
	return out
}
