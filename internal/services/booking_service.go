package services

import (
	"context"
	"database/sql"
	"fmt"

	"backoffice/internal/domain"
	"backoffice/internal/domain/models"
	"backoffice/internal/finance"
	"backoffice/internal/repositories"
	"backoffice/internal/utils"
)

// BookingService runs the pending booking lifecycle and confirmed booking edits.
type BookingService struct {
	Deps
}

// Preview is the stateless financial view of an unsaved booking.
type Preview struct {
	models.Financial
	Plan      *finance.Plan               `json:"plan,omitempty"`
	CostItems []finance.AllocatedCostItem `json:"costItems"`
}

func (s BookingService) Preview(req models.PreviewRequest) (Preview, error) {
	if err := req.Validate(); err != nil {
		return Preview{}, err
	}
	fin := req.Financial()
	items, err := finance.AllocateCostItems(fin.ProdCost, models.CostItemAllocations(req.CostItems))
	if err != nil {
		return Preview{}, err
	}
	out := Preview{Financial: fin, CostItems: items}
	if req.InstalmentPlan != nil {
		plan, err := finance.BuildPlan(fin.Revenue, fin.Received, req.InstalmentPlan.PlanRequest(), s.today())
		if err != nil {
			return Preview{}, err
		}
		if plan.Interest != nil {
			out.Revenue = plan.Interest.FinalRevenue
			out.Financial = out.Financial.Derive()
		}
		out.Plan = &plan
	}
	return out, nil
}

// prepare validates a booking request and derives everything stored on the pending row.
func (s BookingService) prepare(ctx context.Context, in models.BookingInput) (models.PendingBooking, error) {
	if err := in.Validate(); err != nil {
		return models.PendingBooking{}, err
	}
	fin := in.Financial()
	allocs := in.Allocations()
	items, err := finance.AllocateCostItems(fin.ProdCost, allocs)
	if err != nil {
		return models.PendingBooking{}, err
	}
	if _, err := checkCreditNotes(ctx, repositories.CreditNoteRepository{DB: s.handle()}, items, false); err != nil {
		return models.PendingBooking{}, err
	}

	p := models.PendingBooking{
		BookingHeader: in.Header(),
		CostItems:     allocs,
		CreatedBy:     s.Actor,
	}
	if in.InstalmentPlan != nil {
		req := in.InstalmentPlan.PlanRequest()
		plan, err := finance.BuildPlan(fin.Revenue, fin.Received, req, s.today())
		if err != nil {
			return models.PendingBooking{}, err
		}
		if plan.Interest != nil {
			fin.Revenue = plan.Interest.FinalRevenue
			fin = fin.Derive()
		}
		p.InstalmentPlan = &req
		p.Plan = &plan
	}
	deposit := fin.Received
	p.InitialDeposit = &deposit
	p.Financial = fin
	return p, nil
}

func (s BookingService) CreatePending(ctx context.Context, in models.BookingInput) (models.PendingBooking, error) {
	p, err := s.prepare(ctx, in)
	if err != nil {
		return models.PendingBooking{}, err
	}
	return s.insertPending(ctx, p)
}

func (s BookingService) insertPending(ctx context.Context, p models.PendingBooking) (models.PendingBooking, error) {
	bookings := repositories.BookingRepository{DB: s.handle()}
	exists, err := bookings.ExistsByRefNo(ctx, p.RefNo)
	if err != nil {
		return models.PendingBooking{}, domain.Internal("failed to check ref no", err)
	}
	if exists {
		return models.PendingBooking{}, domain.ConflictError{Resource: "booking", Msg: fmt.Sprintf("ref no %s already confirmed", p.RefNo)}
	}
	id, err := repositories.PendingBookingRepository{DB: s.handle()}.Insert(ctx, p)
	if err != nil {
		return models.PendingBooking{}, domain.Internal("failed to save pending booking", err)
	}
	p.ID = id
	s.log("booking", "create_pending", "pending_id=%d ref=%s type=%s method=%s", id, p.RefNo, p.BookingType, p.PaymentMethod)
	return p, nil
}

// DateChange re-issues a confirmed booking for a new date as a pending booking.
func (s BookingService) DateChange(ctx context.Context, bookingID int64, req models.DateChangeRequest) (models.PendingBooking, error) {
	original, err := repositories.BookingRepository{DB: s.handle()}.GetByID(ctx, bookingID)
	if err != nil {
		return models.PendingBooking{}, domain.Internal("failed to load booking", err)
	}
	if original.Cancelled() {
		return models.PendingBooking{}, cancelledConflict(original)
	}
	if req.TravelDate.IsZero() {
		return models.PendingBooking{}, domain.Invalid("travelDate", "is required for a date change")
	}
	p, err := s.prepare(ctx, req.BookingInput(original))
	if err != nil {
		return models.PendingBooking{}, err
	}
	return s.insertPending(ctx, p)
}

func (s BookingService) ListPending(ctx context.Context) ([]models.PendingBooking, error) {
	out, err := repositories.PendingBookingRepository{DB: s.handle()}.List(ctx)
	return out, domain.Internal("failed to list pending bookings", err)
}

func (s BookingService) GetPending(ctx context.Context, id int64) (models.PendingBooking, error) {
	p, err := repositories.PendingBookingRepository{DB: s.handle()}.GetByID(ctx, id)
	return p, domain.Internal("failed to load pending booking", err)
}

// Approve confirms a pending booking in one transaction and deletes the pending row.
func (s BookingService) Approve(ctx context.Context, pendingID int64) (models.Booking, error) {
	var (
		out       models.Booking
		suppliers []string
	)
	err := s.tx(ctx, func(tx *sql.Tx) error {
		pendings := repositories.PendingBookingRepository{DB: tx}
		bookings := repositories.BookingRepository{DB: tx}
		notesRepo := repositories.CreditNoteRepository{DB: tx}
		costs := repositories.CostItemRepository{DB: tx}
		instalments := repositories.InstalmentRepository{DB: tx}

		p, err := pendings.GetForUpdate(ctx, pendingID)
		if err != nil {
			return err
		}
		exists, err := bookings.ExistsByRefNo(ctx, p.RefNo)
		if err != nil {
			return err
		}
		if exists {
			return domain.ConflictError{Resource: "booking", Msg: fmt.Sprintf("ref no %s already confirmed", p.RefNo)}
		}
		if p.BookingType == domain.BookingDateChange && p.OriginalBookingID != nil {
			original, err := bookings.GetForUpdate(ctx, *p.OriginalBookingID)
			if err != nil {
				return err
			}
			if original.Cancelled() {
				return cancelledConflict(original)
			}
		}

		fin := p.Financial.Derive()
		items, err := finance.AllocateCostItems(fin.ProdCost, p.CostItems)
		if err != nil {
			return err
		}
		notes, err := checkCreditNotes(ctx, notesRepo, items, true)
		if err != nil {
			return err
		}

		b := models.Booking{
			BookingHeader:  p.BookingHeader,
			Financial:      fin,
			BookingStatus:  domain.BookingConfirmed,
			InitialDeposit: p.InitialDeposit,
			CreatedBy:      p.CreatedBy,
			ApprovedBy:     s.Actor,
		}
		if b.InitialDeposit == nil {
			deposit := fin.Received
			b.InitialDeposit = &deposit
		}
		b.ID, err = bookings.Insert(ctx, b)
		if err != nil {
			return err
		}

		for _, item := range items {
			itemID, err := costs.InsertItem(ctx, b.ID, item.Category, item.Amount)
			if err != nil {
				return err
			}
			for _, sup := range item.Suppliers {
				totals := finance.RecomputeTotals(sup.Amount, sup.PaidAmount, nil)
				supID, err := costs.InsertSupplier(ctx, models.CostItemSupplier{
					CostItemID:         itemID,
					BookingID:          b.ID,
					Supplier:           sup.Supplier,
					Amount:             sup.Amount,
					PaymentMethod:      sup.PaymentMethod,
					FirstMethodAmount:  sup.FirstMethodAmount,
					SecondMethodAmount: sup.SecondMethodAmount,
					BasePaid:           sup.PaidAmount,
					PaidAmount:         totals.PaidAmount,
					PendingAmount:      totals.PendingAmount,
					Status:             totals.Status,
				})
				if err != nil {
					return err
				}
				for _, use := range sup.CreditNotes {
					if _, err := notesRepo.InsertUsage(ctx, models.CreditNoteUsage{
						CreditNoteID:       use.CreditNoteID,
						CostItemSupplierID: supID,
						BookingID:          b.ID,
						AmountUsed:         finance.Round2(use.AmountToUse),
					}); err != nil {
						return err
					}
				}
			}
		}
		for id, n := range notes {
			if err := refreshCreditNote(ctx, notesRepo, id, n.InitialAmount); err != nil {
				return err
			}
		}

		if p.Plan != nil {
			for _, planned := range p.Plan.Instalments {
				if _, err := instalments.Insert(ctx, models.Instalment{
					BookingID: b.ID,
					DueDate:   utils.NewDate(planned.DueDate),
					Amount:    planned.Amount,
					Status:    domain.InstalmentPending,
				}); err != nil {
					return err
				}
			}
		}

		if err := pendings.Delete(ctx, p.ID); err != nil {
			return err
		}
		out = b
		suppliers = noteSuppliers(notes)
		return nil
	})
	if err != nil {
		return models.Booking{}, domain.Internal("failed to approve booking", err)
	}
	s.invalidateSuppliers(ctx, suppliers...)
	s.log("booking", "approve", "pending_id=%d booking_id=%d ref=%s", pendingID, out.ID, out.RefNo)
	return out, nil
}

// refreshCreditNote recomputes remaining from every usage of the note.
func refreshCreditNote(ctx context.Context, repo repositories.CreditNoteRepository, id int64, initial float64) error {
	usages, err := repo.ListUsages(ctx, id)
	if err != nil {
		return err
	}
	used := make([]float64, 0, len(usages))
	for _, u := range usages {
		used = append(used, u.AmountUsed)
	}
	remaining := finance.CreditNoteRemaining(initial, used...)
	status := domain.CreditNoteAvailable
	if finance.IsZero(remaining) {
		status = domain.CreditNoteExhausted
	}
	return repo.UpdateRemaining(ctx, id, remaining, status)
}

func (s BookingService) Reject(ctx context.Context, pendingID int64) error {
	if err := (repositories.PendingBookingRepository{DB: s.handle()}).Delete(ctx, pendingID); err != nil {
		return domain.Internal("failed to reject pending booking", err)
	}
	s.log("booking", "reject", "pending_id=%d", pendingID)
	return nil
}

func (s BookingService) List(ctx context.Context, f models.BookingFilter) ([]models.Booking, error) {
	out, err := repositories.BookingRepository{DB: s.handle()}.List(ctx, f)
	return out, domain.Internal("failed to list bookings", err)
}

// Get loads a booking with its cost breakdown, instalments, payments,
// cancellation outcome and commission invoices.
func (s BookingService) Get(ctx context.Context, id int64) (models.BookingDetail, error) {
	h := s.handle()
	b, err := repositories.BookingRepository{DB: h}.GetByID(ctx, id)
	if err != nil {
		return models.BookingDetail{}, domain.Internal("failed to load booking", err)
	}
	detail := models.BookingDetail{Booking: b}

	costs := repositories.CostItemRepository{DB: h}
	if detail.CostItems, err = costs.ListByBooking(ctx, id); err != nil {
		return models.BookingDetail{}, domain.Internal("failed to load cost items", err)
	}
	usages, err := repositories.CreditNoteRepository{DB: h}.ListUsagesByBooking(ctx, id)
	if err != nil {
		return models.BookingDetail{}, domain.Internal("failed to load credit note usages", err)
	}
	for i := range detail.CostItems {
		for j := range detail.CostItems[i].Suppliers {
			sup := &detail.CostItems[i].Suppliers[j]
			for _, u := range usages {
				if u.CostItemSupplierID == sup.ID {
					sup.CreditNoteUsages = append(sup.CreditNoteUsages, u)
				}
			}
			if sup.Settlements, err = costs.ListSettlements(ctx, sup.ID); err != nil {
				return models.BookingDetail{}, domain.Internal("failed to load supplier settlements", err)
			}
		}
	}

	instalments := InstalmentService{Deps: s.Deps}
	if detail.Instalments, err = instalments.List(ctx, id); err != nil {
		return models.BookingDetail{}, err
	}
	if detail.Payments, err = (repositories.InstalmentRepository{DB: h}).ListPayments(ctx, id); err != nil {
		return models.BookingDetail{}, domain.Internal("failed to load payments", err)
	}
	if b.Cancelled() {
		c, err := CancellationService{Deps: s.Deps}.Detail(ctx, id)
		if err != nil && !domain.IsNotFound(err) {
			return models.BookingDetail{}, err
		}
		if err == nil {
			detail.Cancellation = &c
		}
	}
	if detail.InternalInvoices, err = (repositories.InternalInvoiceRepository{DB: h}).ListByBooking(ctx, id); err != nil {
		return models.BookingDetail{}, domain.Internal("failed to load internal invoices", err)
	}
	return detail, nil
}

// Update edits a confirmed booking and re-derives profit and balance.
func (s BookingService) Update(ctx context.Context, id int64, req models.UpdateBookingRequest) (models.Booking, error) {
	if err := req.Validate(); err != nil {
		return models.Booking{}, err
	}
	var out models.Booking
	err := s.tx(ctx, func(tx *sql.Tx) error {
		bookings := repositories.BookingRepository{DB: tx}
		b, err := bookings.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if b.Cancelled() {
			return cancelledConflict(b)
		}
		payments, err := repositories.InstalmentRepository{DB: tx}.ListPayments(ctx, id)
		if err != nil {
			return err
		}
		if req.Received != nil {
			received := finance.Round2(req.Received.Float())
			if len(payments) > 0 && !finance.Equal(received, b.Received) {
				return domain.Invalid("received", "is recomputed from recorded payments and cannot be edited")
			}
			if len(payments) == 0 {
				b.Received = received
				b.InitialDeposit = &received
			}
		}

		prodCost := finance.Round2(req.ProdCost.Float())
		items, err := repositories.CostItemRepository{DB: tx}.ListByBooking(ctx, id)
		if err != nil {
			return err
		}
		if len(items) > 0 {
			amounts := make([]float64, 0, len(items))
			for _, it := range items {
				amounts = append(amounts, it.Amount)
			}
			if sum := finance.Sum(amounts...); !finance.Equal(sum, prodCost) {
				return domain.Invalid("prodCost", "cost items add up to %.2f, prodCost %.2f does not match", sum, prodCost)
			}
		}

		b.PaxName = req.PaxName
		b.AgentName = req.AgentName
		b.TeamName = req.TeamName
		b.PNR = req.PNR
		b.Airline = req.Airline
		b.FromTo = req.FromTo
		b.TravelDate = req.TravelDate
		b.IssuedDate = req.IssuedDate
		b.PCDate = req.PCDate
		b.Notes = req.Notes
		b.Revenue = finance.Round2(req.Revenue.Float())
		b.ProdCost = prodCost
		b.TransFee = finance.Round2(req.TransFee.Float())
		b.Surcharge = finance.Round2(req.Surcharge.Float())
		b.Financial = b.Financial.Derive()
		if err := bookings.UpdateDetails(ctx, b); err != nil {
			return err
		}
		if len(payments) == 0 && b.InitialDeposit != nil {
			if err := bookings.SetInitialDeposit(ctx, b.ID, *b.InitialDeposit); err != nil {
				return err
			}
		}
		out = b
		return nil
	})
	if err != nil {
		return models.Booking{}, domain.Internal("failed to update booking", err)
	}
	s.log("booking", "update", "booking_id=%d profit=%.2f balance=%.2f", out.ID, out.Profit, out.Balance)
	return out, nil
}
