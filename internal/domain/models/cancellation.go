package models

import (
	"time"

	"backoffice/internal/domain"
)

type Cancellation struct {
	ID                      int64                    `json:"id"`
	BookingID               int64                    `json:"bookingId"`
	SupplierCancellationFee float64                  `json:"supplierCancellationFee"`
	AdminFee                float64                  `json:"adminFee"`
	RefundToPassenger       float64                  `json:"refundToPassenger"`
	RefundTransactionMethod domain.TransactionMethod `json:"refundTransactionMethod,omitempty"`
	SupplierPaid            float64                  `json:"supplierPaid"`
	Supplier                string                   `json:"supplier"`
	Notes                   string                   `json:"notes"`
	CreatedBy               string                   `json:"createdBy"`
	CreatedAt               time.Time                `json:"createdAt"`
}

// ObligationKind names the three outstanding balances a cancellation can leave behind.
type ObligationKind string

const (
	CustomerPayable ObligationKind = "customer_payable"
	SupplierPayable ObligationKind = "supplier_payable"
	PassengerRefund ObligationKind = "passenger_refund"
)

func (k ObligationKind) Valid() bool {
	return k == CustomerPayable || k == SupplierPayable || k == PassengerRefund
}

// Obligation is a CustomerPayable, SupplierPayable or PassengerRefund.
type Obligation struct {
	ID                int64                    `json:"id"`
	Kind              ObligationKind           `json:"kind"`
	BookingID         int64                    `json:"bookingId"`
	CancellationID    int64                    `json:"cancellationId"`
	Party             string                   `json:"party"`
	Amount            float64                  `json:"amount"`
	PaidAmount        float64                  `json:"paidAmount"`
	PendingAmount     float64                  `json:"pendingAmount"`
	Status            domain.SettlementStatus  `json:"status"`
	TransactionMethod domain.TransactionMethod `json:"transactionMethod,omitempty"`
	CreatedAt         time.Time                `json:"createdAt"`
	Settlements       []Settlement             `json:"settlements,omitempty"`
}

type CancellationDetail struct {
	Cancellation
	CreditNote      *CreditNote `json:"creditNote,omitempty"`
	CustomerPayable *Obligation `json:"customerPayable,omitempty"`
	SupplierPayable *Obligation `json:"supplierPayable,omitempty"`
	PassengerRefund *Obligation `json:"passengerRefund,omitempty"`
}
