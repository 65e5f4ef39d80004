package models

import (
	"time"

	"backoffice/internal/finance"
)

// PendingBooking waits for admin approval. Cost items and the instalment plan
// are stored as submitted and re-validated on approval.
type PendingBooking struct {
	ID int64 `json:"id"`
	BookingHeader
	Financial
	CostItems      []finance.CostItemAllocation `json:"costItems"`
	InstalmentPlan *finance.PlanRequest         `json:"instalmentPlan,omitempty"`
	Plan           *finance.Plan                `json:"plan,omitempty"`
	InitialDeposit *float64                     `json:"initialDeposit,omitempty"`
	CreatedBy      string                       `json:"createdBy"`
	CreatedAt      time.Time                    `json:"createdAt"`
}
