package models

import (
	"backoffice/internal/domain"
	"backoffice/internal/finance"
	"backoffice/internal/utils"
)

type CreditNoteUseInput struct {
	CreditNoteID int64        `json:"creditNoteId"`
	AmountToUse  utils.Amount `json:"amountToUse"`
}

type SupplierInput struct {
	Supplier           string               `json:"supplier"`
	Amount             utils.Amount         `json:"amount"`
	PaymentMethod      string               `json:"paymentMethod"`
	FirstMethodAmount  utils.Amount         `json:"firstMethodAmount"`
	SecondMethodAmount utils.Amount         `json:"secondMethodAmount"`
	CreditNotes        []CreditNoteUseInput `json:"creditNotes"`
}

type CostItemInput struct {
	Category  string          `json:"category"`
	Amount    utils.Amount    `json:"amount"`
	Suppliers []SupplierInput `json:"suppliers"`
}

type CustomInstalmentInput struct {
	DueDate utils.Date   `json:"dueDate"`
	Amount  utils.Amount `json:"amount"`
}

type InstalmentPlanInput struct {
	Period   string                  `json:"period"`
	Strategy string                  `json:"strategy"`
	Count    int                     `json:"count"`
	Custom   []CustomInstalmentInput `json:"custom"`
}

// FinancialInput is the editable part of the quintet. Null fields read as 0.
type FinancialInput struct {
	Revenue   utils.Amount `json:"revenue"`
	ProdCost  utils.Amount `json:"prodCost"`
	TransFee  utils.Amount `json:"transFee"`
	Surcharge utils.Amount `json:"surcharge"`
	Received  utils.Amount `json:"received"`
}

// BookingInput is the body of POST /api/pending-bookings. Which optional parts
// are required depends on paymentMethod and bookingType, see Validate.
type BookingInput struct {
	RefNo             string     `json:"refNo" binding:"required"`
	PaxName           string     `json:"paxName" binding:"required"`
	AgentName         string     `json:"agentName"`
	TeamName          string     `json:"teamName"`
	PNR               string     `json:"pnr"`
	Airline           string     `json:"airline"`
	FromTo            string     `json:"fromTo"`
	TravelDate        utils.Date `json:"travelDate"`
	IssuedDate        utils.Date `json:"issuedDate"`
	PCDate            utils.Date `json:"pcDate"`
	PaymentMethod     string     `json:"paymentMethod" binding:"required"`
	BookingType       string     `json:"bookingType"`
	OriginalBookingID *int64     `json:"originalBookingId"`
	Notes             string     `json:"notes"`
	FinancialInput
	CostItems      []CostItemInput      `json:"costItems"`
	InstalmentPlan *InstalmentPlanInput `json:"instalmentPlan"`
}

// Validate applies the per-variant rules: instalment methods need a plan and
// the others must not send one; DATE_CHANGE needs the original booking.
func (r *BookingInput) Validate() error {
	r.RefNo = utils.UpperCode(r.RefNo)
	r.PaxName = utils.NormalizeSpace(r.PaxName)
	if r.RefNo == "" {
		return domain.Invalid("refNo", "is required")
	}
	if r.PaxName == "" {
		return domain.Invalid("paxName", "is required")
	}
	method := domain.PaymentMethod(domain.NormalizeCode(r.PaymentMethod))
	if !method.Valid() {
		return domain.Invalid("paymentMethod", "unknown payment method %q", r.PaymentMethod)
	}
	r.PaymentMethod = string(method)

	kind := domain.BookingType(domain.NormalizeCode(r.BookingType))
	if kind == "" {
		kind = domain.BookingFresh
	}
	switch kind {
	case domain.BookingFresh:
		if r.OriginalBookingID != nil {
			return domain.Invalid("originalBookingId", "only allowed for DATE_CHANGE bookings")
		}
	case domain.BookingDateChange:
		if r.OriginalBookingID == nil || *r.OriginalBookingID <= 0 {
			return domain.Invalid("originalBookingId", "is required for DATE_CHANGE bookings")
		}
	case domain.BookingCancellation:
		return domain.Invalid("bookingType", "CANCELLATION bookings are created by cancelling a booking")
	default:
		return domain.Invalid("bookingType", "unknown booking type %q", r.BookingType)
	}
	r.BookingType = string(kind)

	if err := r.FinancialInput.Validate(); err != nil {
		return err
	}

	if method.HasInstalments() {
		if r.InstalmentPlan == nil {
			return domain.Invalid("instalmentPlan", "is required for %s bookings", method)
		}
		if err := r.InstalmentPlan.Validate(); err != nil {
			return err
		}
	} else if r.InstalmentPlan != nil {
		return domain.Invalid("instalmentPlan", "not allowed for %s bookings", method)
	}
	return nil
}

func (r BookingInput) Header() BookingHeader {
	return BookingHeader{
		RefNo:             r.RefNo,
		PaxName:           r.PaxName,
		AgentName:         utils.TrimOrEmpty(r.AgentName),
		TeamName:          utils.TrimOrEmpty(r.TeamName),
		PNR:               utils.UpperCode(r.PNR),
		Airline:           utils.TrimOrEmpty(r.Airline),
		FromTo:            utils.TrimOrEmpty(r.FromTo),
		TravelDate:        r.TravelDate,
		IssuedDate:        r.IssuedDate,
		PCDate:            r.PCDate,
		PaymentMethod:     domain.PaymentMethod(r.PaymentMethod),
		BookingType:       domain.BookingType(r.BookingType),
		OriginalBookingID: r.OriginalBookingID,
		Notes:             utils.TrimOrEmpty(r.Notes),
	}
}

func (r BookingInput) Allocations() []finance.CostItemAllocation {
	return CostItemAllocations(r.CostItems)
}

func (f FinancialInput) Validate() error {
	fields := []struct {
		name string
		v    utils.Amount
	}{
		{"revenue", f.Revenue},
		{"prodCost", f.ProdCost},
		{"transFee", f.TransFee},
		{"surcharge", f.Surcharge},
		{"received", f.Received},
	}
	for _, fl := range fields {
		if fl.v < 0 {
			return domain.Invalid(fl.name, "must not be negative")
		}
	}
	return nil
}

func (f FinancialInput) Financial() Financial {
	out := Financial{
		Revenue:   finance.Round2(f.Revenue.Float()),
		ProdCost:  finance.Round2(f.ProdCost.Float()),
		TransFee:  finance.Round2(f.TransFee.Float()),
		Surcharge: finance.Round2(f.Surcharge.Float()),
		Received:  finance.Round2(f.Received.Float()),
	}
	return out.Derive()
}

// Derive recomputes profit and balance from the quintet.
func (f Financial) Derive() Financial {
	d := finance.DeriveFinancials(f.Revenue, f.ProdCost, f.TransFee, f.Surcharge, f.Received)
	f.Profit, f.Balance = d.Profit, d.Balance
	return f
}

func (p *InstalmentPlanInput) Validate() error {
	period := domain.PlanPeriod(p.Period)
	if period != domain.PeriodWithin30 && period != domain.PeriodBeyond30 {
		return domain.Invalid("instalmentPlan.period", "must be within30days or beyond30")
	}
	switch domain.PlanStrategy(p.Strategy) {
	case domain.StrategyWeekly, domain.StrategyMonthly:
		if p.Count < 1 {
			return domain.Invalid("instalmentPlan.count", "must be at least 1")
		}
		if len(p.Custom) > 0 {
			return domain.Invalid("instalmentPlan.custom", "only allowed for the custom strategy")
		}
	case domain.StrategyCustom:
		if len(p.Custom) == 0 {
			return domain.Invalid("instalmentPlan.custom", "at least one instalment is required")
		}
	default:
		return domain.Invalid("instalmentPlan.strategy", "must be weekly, monthly or custom")
	}
	return nil
}

func (p InstalmentPlanInput) PlanRequest() finance.PlanRequest {
	out := finance.PlanRequest{
		Period:   domain.PlanPeriod(p.Period),
		Strategy: domain.PlanStrategy(p.Strategy),
		Count:    p.Count,
	}
	for _, c := range p.Custom {
		out.Custom = append(out.Custom, finance.CustomInstalment{DueDate: c.DueDate.Time, Amount: c.Amount.Float()})
	}
	return out
}

func CostItemAllocations(items []CostItemInput) []finance.CostItemAllocation {
	out := make([]finance.CostItemAllocation, 0, len(items))
	for _, item := range items {
		alloc := finance.CostItemAllocation{Category: item.Category, Amount: item.Amount.Float()}
		for _, s := range item.Suppliers {
			sa := finance.SupplierAllocation{
				Supplier:           s.Supplier,
				Amount:             s.Amount.Float(),
				PaymentMethod:      domain.SupplierMethod(domain.NormalizeCode(s.PaymentMethod)),
				FirstMethodAmount:  s.FirstMethodAmount.Float(),
				SecondMethodAmount: s.SecondMethodAmount.Float(),
			}
			for _, cn := range s.CreditNotes {
				sa.CreditNotes = append(sa.CreditNotes, finance.CreditNoteUse{CreditNoteID: cn.CreditNoteID, AmountToUse: cn.AmountToUse.Float()})
			}
			alloc.Suppliers = append(alloc.Suppliers, sa)
		}
		out = append(out, alloc)
	}
	return out
}

// PreviewRequest is a stateless financial preview of an unsaved booking.
type PreviewRequest struct {
	PaymentMethod string `json:"paymentMethod"`
	FinancialInput
	CostItems      []CostItemInput      `json:"costItems"`
	InstalmentPlan *InstalmentPlanInput `json:"instalmentPlan"`
}

// Validate checks the amounts and, when a payment method is given, applies the
// same plan rule as BookingInput. Without a method any plan is previewed.
func (r *PreviewRequest) Validate() error {
	if err := r.FinancialInput.Validate(); err != nil {
		return err
	}
	if r.PaymentMethod != "" {
		method := domain.PaymentMethod(domain.NormalizeCode(r.PaymentMethod))
		if !method.Valid() {
			return domain.Invalid("paymentMethod", "unknown payment method %q", r.PaymentMethod)
		}
		r.PaymentMethod = string(method)
		if !method.HasInstalments() && r.InstalmentPlan != nil {
			return domain.Invalid("instalmentPlan", "not allowed for %s bookings", method)
		}
	}
	if r.InstalmentPlan != nil {
		return r.InstalmentPlan.Validate()
	}
	return nil
}

// DateChangeRequest re-issues a booking for a new travel date. Passenger,
// PNR, airline and route are copied from the original booking.
type DateChangeRequest struct {
	RefNo         string     `json:"refNo" binding:"required"`
	TravelDate    utils.Date `json:"travelDate"`
	IssuedDate    utils.Date `json:"issuedDate"`
	PCDate        utils.Date `json:"pcDate"`
	PaymentMethod string     `json:"paymentMethod" binding:"required"`
	Notes         string     `json:"notes"`
	FinancialInput
	CostItems      []CostItemInput      `json:"costItems"`
	InstalmentPlan *InstalmentPlanInput `json:"instalmentPlan"`
}

func (r DateChangeRequest) BookingInput(original Booking) BookingInput {
	id := original.ID
	return BookingInput{
		RefNo:             r.RefNo,
		PaxName:           original.PaxName,
		AgentName:         original.AgentName,
		TeamName:          original.TeamName,
		PNR:               original.PNR,
		Airline:           original.Airline,
		FromTo:            original.FromTo,
		TravelDate:        r.TravelDate,
		IssuedDate:        r.IssuedDate,
		PCDate:            r.PCDate,
		PaymentMethod:     r.PaymentMethod,
		BookingType:       string(domain.BookingDateChange),
		OriginalBookingID: &id,
		Notes:             r.Notes,
		FinancialInput:    r.FinancialInput,
		CostItems:         r.CostItems,
		InstalmentPlan:    r.InstalmentPlan,
	}
}

// UpdateBookingRequest is the admin edit of a confirmed booking. Received is
// only honoured when the booking has no recorded payments.
type UpdateBookingRequest struct {
	PaxName    string        `json:"paxName" binding:"required"`
	AgentName  string        `json:"agentName"`
	TeamName   string        `json:"teamName"`
	PNR        string        `json:"pnr"`
	Airline    string        `json:"airline"`
	FromTo     string        `json:"fromTo"`
	TravelDate utils.Date    `json:"travelDate"`
	IssuedDate utils.Date    `json:"issuedDate"`
	PCDate     utils.Date    `json:"pcDate"`
	Notes      string        `json:"notes"`
	Revenue    utils.Amount  `json:"revenue"`
	ProdCost   utils.Amount  `json:"prodCost"`
	TransFee   utils.Amount  `json:"transFee"`
	Surcharge  utils.Amount  `json:"surcharge"`
	Received   *utils.Amount `json:"received"`
}

func (r *UpdateBookingRequest) Validate() error {
	r.PaxName = utils.NormalizeSpace(r.PaxName)
	if r.PaxName == "" {
		return domain.Invalid("paxName", "is required")
	}
	in := FinancialInput{Revenue: r.Revenue, ProdCost: r.ProdCost, TransFee: r.TransFee, Surcharge: r.Surcharge}
	if r.Received != nil {
		in.Received = *r.Received
	}
	return in.Validate()
}

type CancelBookingRequest struct {
	SupplierCancellationFee utils.Amount `json:"supplierCancellationFee"`
	AdminFee                utils.Amount `json:"adminFee"`
	RefundToPassenger       utils.Amount `json:"refundToPassenger"`
	RefundTransactionMethod string       `json:"refundTransactionMethod"`
	Supplier                string       `json:"supplier"`
	Notes                   string       `json:"notes"`
}

func (r *CancelBookingRequest) Validate() error {
	if r.RefundTransactionMethod != "" {
		m := domain.TransactionMethod(domain.NormalizeCode(r.RefundTransactionMethod))
		if !m.Valid() {
			return domain.Invalid("refundTransactionMethod", "unknown transaction method %q", r.RefundTransactionMethod)
		}
		r.RefundTransactionMethod = string(m)
	}
	return nil
}

// PaymentRequest records an instalment payment, a final settlement or a
// settlement against a supplier, payable or refund.
type PaymentRequest struct {
	Amount            utils.Amount `json:"amount"`
	TransactionMethod string       `json:"transactionMethod"`
	PaymentDate       utils.Date   `json:"paymentDate"`
	Reference         string       `json:"reference"`
	Notes             string       `json:"notes"`
}

func (r *PaymentRequest) Validate() error {
	if r.Amount <= 0 {
		return domain.Invalid("amount", "must be greater than 0")
	}
	m := domain.TransactionMethod(domain.NormalizeCode(r.TransactionMethod))
	if m == "" {
		m = domain.TransactionBankTransfer
	}
	if !m.Valid() {
		return domain.Invalid("transactionMethod", "unknown transaction method %q", r.TransactionMethod)
	}
	r.TransactionMethod = string(m)
	r.Reference = utils.TrimOrEmpty(r.Reference)
	return nil
}

type InternalInvoiceRequest struct {
	Amount           utils.Amount `json:"amount"`
	CommissionAmount utils.Amount `json:"commissionAmount"`
	InvoiceDate      utils.Date   `json:"invoiceDate"`
	Notes            string       `json:"notes"`
}

func (r InternalInvoiceRequest) Validate() error {
	if r.Amount <= 0 {
		return domain.Invalid("amount", "must be greater than 0")
	}
	if r.CommissionAmount < 0 {
		return domain.Invalid("commissionAmount", "must not be negative")
	}
	return nil
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}
