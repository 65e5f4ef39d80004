package models

import (
	"time"

	"backoffice/internal/domain"
	"backoffice/internal/utils"
)

type CostItem struct {
	ID        int64              `json:"id"`
	BookingID int64              `json:"bookingId"`
	Category  string             `json:"category"`
	Amount    float64            `json:"amount"`
	Suppliers []CostItemSupplier `json:"suppliers"`
}

// CostItemSupplier is one supplier's share of a cost item.
// BasePaid is the part paid at booking time; PaidAmount adds every settlement.
type CostItemSupplier struct {
	ID                 int64                   `json:"id"`
	CostItemID         int64                   `json:"costItemId"`
	BookingID          int64                   `json:"bookingId"`
	Supplier           string                  `json:"supplier"`
	Amount             float64                 `json:"amount"`
	PaymentMethod      domain.SupplierMethod   `json:"paymentMethod"`
	FirstMethodAmount  float64                 `json:"firstMethodAmount"`
	SecondMethodAmount float64                 `json:"secondMethodAmount"`
	BasePaid           float64                 `json:"basePaid"`
	PaidAmount         float64                 `json:"paidAmount"`
	PendingAmount      float64                 `json:"pendingAmount"`
	Status             domain.SettlementStatus `json:"status"`
	CreditNoteUsages   []CreditNoteUsage       `json:"creditNoteUsages,omitempty"`
	Settlements        []Settlement            `json:"settlements,omitempty"`
}

// Settlement is an append-only payment against an outstanding parent.
type Settlement struct {
	ID                int64                    `json:"id"`
	ParentID          int64                    `json:"parentId"`
	Amount            float64                  `json:"amount"`
	TransactionMethod domain.TransactionMethod `json:"transactionMethod"`
	SettlementDate    utils.Date               `json:"settlementDate"`
	Reference         string                   `json:"reference"`
	Notes             string                   `json:"notes"`
	CreatedBy         string                   `json:"createdBy"`
	CreatedAt         time.Time                `json:"createdAt"`
}

type CreditNote struct {
	ID              int64                   `json:"id"`
	ReferenceNo     string                  `json:"referenceNo"`
	Supplier        string                  `json:"supplier"`
	BookingID       int64                   `json:"bookingId"`
	CancellationID  int64                   `json:"cancellationId"`
	InitialAmount   float64                 `json:"initialAmount"`
	RemainingAmount float64                 `json:"remainingAmount"`
	Status          domain.CreditNoteStatus `json:"status"`
	IssuedDate      utils.Date              `json:"issuedDate"`
	CreatedAt       time.Time               `json:"createdAt"`
	Usages          []CreditNoteUsage       `json:"usages,omitempty"`
}

type CreditNoteUsage struct {
	ID                 int64     `json:"id"`
	CreditNoteID       int64     `json:"creditNoteId"`
	CostItemSupplierID int64     `json:"costItemSupplierId"`
	BookingID          int64     `json:"bookingId"`
	AmountUsed         float64   `json:"amountUsed"`
	CreatedAt          time.Time `json:"createdAt"`
}
