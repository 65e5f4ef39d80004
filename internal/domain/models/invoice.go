package models

import (
	"time"

	"backoffice/internal/utils"
)

// InternalInvoice is one commission instalment invoiced to accounting.
type InternalInvoice struct {
	ID          int64      `json:"id"`
	BookingID   int64      `json:"bookingId"`
	InvoiceNo   string     `json:"invoiceNo"`
	Amount      float64    `json:"amount"`
	InvoiceDate utils.Date `json:"invoiceDate"`
	Notes       string     `json:"notes"`
	CreatedBy   string     `json:"createdBy"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// InvoiceSummary is the commission position of a booking after its invoices.
type InvoiceSummary struct {
	BookingID        int64             `json:"bookingId"`
	CommissionAmount float64           `json:"commissionAmount"`
	TotalInvoiced    float64           `json:"totalInvoiced"`
	Remaining        float64           `json:"remaining"`
	Invoices         []InternalInvoice `json:"invoices"`
}
