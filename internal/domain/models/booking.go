package models

import (
	"time"

	"backoffice/internal/domain"
	"backoffice/internal/utils"
)

// Financial holds the stored quintet plus the derived profit and balance.
type Financial struct {
	Revenue   float64 `json:"revenue"`
	ProdCost  float64 `json:"prodCost"`
	TransFee  float64 `json:"transFee"`
	Surcharge float64 `json:"surcharge"`
	Received  float64 `json:"received"`
	Profit    float64 `json:"profit"`
	Balance   float64 `json:"balance"`
}

// BookingHeader carries the descriptive fields shared by pending and confirmed bookings.
type BookingHeader struct {
	RefNo             string               `json:"refNo"`
	PaxName           string               `json:"paxName"`
	AgentName         string               `json:"agentName"`
	TeamName          string               `json:"teamName"`
	PNR               string               `json:"pnr"`
	Airline           string               `json:"airline"`
	FromTo            string               `json:"fromTo"`
	TravelDate        utils.Date           `json:"travelDate"`
	IssuedDate        utils.Date           `json:"issuedDate"`
	PCDate            utils.Date           `json:"pcDate"`
	PaymentMethod     domain.PaymentMethod `json:"paymentMethod"`
	BookingType       domain.BookingType   `json:"bookingType"`
	OriginalBookingID *int64               `json:"originalBookingId,omitempty"`
	Notes             string               `json:"notes"`
}

type Booking struct {
	ID int64 `json:"id"`
	BookingHeader
	Financial
	BookingStatus    domain.BookingStatus `json:"bookingStatus"`
	InitialDeposit   *float64             `json:"initialDeposit,omitempty"`
	CommissionAmount *float64             `json:"commissionAmount,omitempty"`
	CreatedBy        string               `json:"createdBy"`
	ApprovedBy       string               `json:"approvedBy"`
	CreatedAt        time.Time            `json:"createdAt"`
	UpdatedAt        time.Time            `json:"updatedAt"`
}

func (b Booking) Cancelled() bool { return b.BookingStatus == domain.BookingCancelled }

// BookingDetail is a booking with every child record used by the detail view.
type BookingDetail struct {
	Booking
	CostItems        []CostItem          `json:"costItems"`
	Instalments      []Instalment        `json:"instalments"`
	Payments         []InstalmentPayment `json:"payments"`
	Cancellation     *CancellationDetail `json:"cancellation,omitempty"`
	InternalInvoices []InternalInvoice   `json:"internalInvoices"`
}

type BookingFilter struct {
	Status     domain.BookingStatus
	Type       domain.BookingType
	Search     string
	TravelFrom utils.Date
	TravelTo   utils.Date
	Limit      int
	Offset     int
}
