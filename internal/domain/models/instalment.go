package models

import (
	"time"

	"backoffice/internal/domain"
	"backoffice/internal/utils"
)

type Instalment struct {
	ID         int64                   `json:"id"`
	BookingID  int64                   `json:"bookingId"`
	DueDate    utils.Date              `json:"dueDate"`
	Amount     float64                 `json:"amount"`
	PaidAmount float64                 `json:"paidAmount"`
	Status     domain.InstalmentStatus `json:"status"`
}

func (i Instalment) Outstanding() float64 {
	if i.PaidAmount >= i.Amount {
		return 0
	}
	return i.Amount - i.PaidAmount
}

// InstalmentPayment rows are never updated. Settlement payments have no instalment.
type InstalmentPayment struct {
	ID                int64                    `json:"id"`
	BookingID         int64                    `json:"bookingId"`
	InstalmentID      *int64                   `json:"instalmentId,omitempty"`
	Kind              domain.PaymentKind       `json:"kind"`
	Amount            float64                  `json:"amount"`
	TransactionMethod domain.TransactionMethod `json:"transactionMethod"`
	PaymentDate       utils.Date               `json:"paymentDate"`
	Reference         string                   `json:"reference"`
	CreatedBy         string                   `json:"createdBy"`
	CreatedAt         time.Time                `json:"createdAt"`
}
