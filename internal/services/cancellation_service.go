package services

import (
	"context"
	"database/sql"
	"strings"

	"backoffice/internal/domain"
	"backoffice/internal/domain/models"
	"backoffice/internal/finance"
	"backoffice/internal/repositories"
	"backoffice/internal/utils"

	"github.com/google/uuid"
)

// CancellationService cancels bookings and settles what a cancellation leaves open.
type CancellationService struct {
	Deps
}

func creditNoteRef() string {
	return "CN-" + strings.ToUpper(uuid.NewString()[:8])
}

// Cancel records the cancellation of a booking once. Depending on the fees it
// opens a passenger refund or a customer payable, and a supplier payable or a
// credit note for the supplier.
func (s CancellationService) Cancel(ctx context.Context, bookingID int64, req models.CancelBookingRequest) (models.CancellationDetail, error) {
	if err := req.Validate(); err != nil {
		return models.CancellationDetail{}, err
	}
	var out models.CancellationDetail
	err := s.tx(ctx, func(tx *sql.Tx) error {
		bookings := repositories.BookingRepository{DB: tx}
		obligations := repositories.ObligationRepository{DB: tx}

		b, err := bookings.GetForUpdate(ctx, bookingID)
		if err != nil {
			return err
		}
		if b.Cancelled() {
			return domain.ConflictError{Resource: "cancellation", Msg: "booking " + b.RefNo + " is already cancelled"}
		}

		suppliers, err := repositories.CostItemRepository{DB: tx}.ListSuppliersByBooking(ctx, b.ID)
		if err != nil {
			return err
		}
		var (
			supplierPaid *float64
			shares       []finance.SupplierShare
		)
		if len(suppliers) > 0 {
			paid := make([]float64, 0, len(suppliers))
			for _, sup := range suppliers {
				paid = append(paid, sup.PaidAmount)
				shares = append(shares, finance.SupplierShare{Supplier: sup.Supplier, PaidAmount: sup.PaidAmount})
			}
			total := finance.Sum(paid...)
			supplierPaid = &total
		}

		outcome, err := finance.ComputeCancellation(finance.CancellationInput{
			Received:                b.Received,
			ProdCost:                b.ProdCost,
			SupplierPaid:            supplierPaid,
			SupplierCancellationFee: finance.Round2(req.SupplierCancellationFee.Float()),
			AdminFee:                finance.Round2(req.AdminFee.Float()),
			RefundToPassenger:       finance.Round2(req.RefundToPassenger.Float()),
			RefundMethod:            domain.TransactionMethod(req.RefundTransactionMethod),
		})
		if err != nil {
			return err
		}

		supplier := finance.CreditNoteSupplier(req.Supplier, shares, b.Airline)
		c := models.Cancellation{
			BookingID:               b.ID,
			SupplierCancellationFee: finance.Round2(req.SupplierCancellationFee.Float()),
			AdminFee:                finance.Round2(req.AdminFee.Float()),
			RefundToPassenger:       outcome.RefundToPassenger,
			SupplierPaid:            outcome.SupplierPaid,
			Supplier:                supplier,
			Notes:                   utils.TrimOrEmpty(req.Notes),
			CreatedBy:               s.Actor,
		}
		if outcome.RefundToPassenger > 0 {
			c.RefundTransactionMethod = domain.TransactionMethod(req.RefundTransactionMethod)
		}
		if c.ID, err = (repositories.CancellationRepository{DB: tx}).Insert(ctx, c); err != nil {
			return err
		}
		out = models.CancellationDetail{Cancellation: c}

		open := func(kind models.ObligationKind, party string, amount float64, method domain.TransactionMethod) (*models.Obligation, error) {
			totals := finance.RecomputeTotals(amount, 0, nil)
			o := models.Obligation{
				Kind:              kind,
				BookingID:         b.ID,
				CancellationID:    c.ID,
				Party:             party,
				Amount:            totals.Amount,
				PaidAmount:        totals.PaidAmount,
				PendingAmount:     totals.PendingAmount,
				Status:            totals.Status,
				TransactionMethod: method,
			}
			id, err := obligations.Insert(ctx, o)
			if err != nil {
				return nil, err
			}
			o.ID = id
			return &o, nil
		}

		switch {
		case outcome.RefundToPassenger > 0:
			if out.PassengerRefund, err = open(models.PassengerRefund, b.PaxName, outcome.RefundToPassenger, c.RefundTransactionMethod); err != nil {
				return err
			}
		case outcome.CustomerPayable > 0:
			if out.CustomerPayable, err = open(models.CustomerPayable, b.PaxName, outcome.CustomerPayable, ""); err != nil {
				return err
			}
		}

		switch {
		case outcome.SupplierPayable > 0:
			if out.SupplierPayable, err = open(models.SupplierPayable, supplier, outcome.SupplierPayable, ""); err != nil {
				return err
			}
		case outcome.CreditNoteAmount > 0:
			if supplier == "" {
				return domain.Invalid("supplier", "is required to issue a credit note")
			}
			note := models.CreditNote{
				ReferenceNo:     creditNoteRef(),
				Supplier:        supplier,
				BookingID:       b.ID,
				CancellationID:  c.ID,
				InitialAmount:   outcome.CreditNoteAmount,
				RemainingAmount: outcome.CreditNoteAmount,
				Status:          domain.CreditNoteAvailable,
				IssuedDate:      utils.NewDate(s.today()),
			}
			if note.ID, err = (repositories.CreditNoteRepository{DB: tx}).Insert(ctx, note); err != nil {
				return err
			}
			out.CreditNote = &note
		}

		return bookings.MarkCancelled(ctx, b.ID)
	})
	if err != nil {
		return models.CancellationDetail{}, domain.Internal("failed to cancel booking", err)
	}
	if out.CreditNote != nil {
		s.invalidateSuppliers(ctx, out.CreditNote.Supplier)
	}
	s.log("cancellation", "cancel", "booking_id=%d cancellation_id=%d fee=%.2f supplier_paid=%.2f refund=%.2f",
		bookingID, out.ID, out.SupplierCancellationFee, out.SupplierPaid, out.RefundToPassenger)
	return out, nil
}

// Detail returns the cancellation of a booking and everything it produced.
func (s CancellationService) Detail(ctx context.Context, bookingID int64) (models.CancellationDetail, error) {
	h := s.handle()
	c, err := repositories.CancellationRepository{DB: h}.GetByBooking(ctx, bookingID)
	if err != nil {
		return models.CancellationDetail{}, domain.Internal("failed to load cancellation", err)
	}
	out := models.CancellationDetail{Cancellation: c}
	if out.CreditNote, err = (repositories.CreditNoteRepository{DB: h}).GetByCancellation(ctx, c.ID); err != nil {
		return models.CancellationDetail{}, domain.Internal("failed to load credit note", err)
	}
	obligations := repositories.ObligationRepository{DB: h}
	for _, slot := range []struct {
		kind models.ObligationKind
		dst  **models.Obligation
	}{
		{models.CustomerPayable, &out.CustomerPayable},
		{models.SupplierPayable, &out.SupplierPayable},
		{models.PassengerRefund, &out.PassengerRefund},
	} {
		o, err := obligations.GetByCancellation(ctx, slot.kind, c.ID)
		if err != nil {
			return models.CancellationDetail{}, domain.Internal("failed to load "+string(slot.kind), err)
		}
		if o != nil {
			if o.Settlements, err = obligations.ListSettlements(ctx, slot.kind, o.ID); err != nil {
				return models.CancellationDetail{}, domain.Internal("failed to load settlements", err)
			}
		}
		*slot.dst = o
	}
	return out, nil
}

// ObligationSettlementResult is the recorded settlement and the recomputed obligation.
type ObligationSettlementResult struct {
	Settlement models.Settlement `json:"settlement"`
	Obligation models.Obligation `json:"obligation"`
}

// SettleObligation records money against a customer payable, a supplier
// payable or a passenger refund.
func (s CancellationService) SettleObligation(ctx context.Context, kind models.ObligationKind, id int64, req models.PaymentRequest) (ObligationSettlementResult, error) {
	if !kind.Valid() {
		return ObligationSettlementResult{}, domain.Invalid("kind", "unknown obligation %q", kind)
	}
	if err := req.Validate(); err != nil {
		return ObligationSettlementResult{}, err
	}
	var out ObligationSettlementResult
	err := s.tx(ctx, func(tx *sql.Tx) error {
		repo := repositories.ObligationRepository{DB: tx}
		o, err := repo.GetForUpdate(ctx, kind, id)
		if err != nil {
			return err
		}
		settlement := s.settlementRow(o.ID, req)
		if err := finance.CheckSettlement("amount", settlement.Amount, o.PendingAmount); err != nil {
			return err
		}
		if settlement.ID, err = repo.InsertSettlement(ctx, kind, o.ID, settlement); err != nil {
			return err
		}
		all, err := repo.ListSettlements(ctx, kind, o.ID)
		if err != nil {
			return err
		}
		totals := finance.RecomputeTotals(o.Amount, 0, repositories.SettlementAmounts(all))
		if err := repo.UpdateTotals(ctx, kind, o.ID, totals); err != nil {
			return err
		}
		o.PaidAmount, o.PendingAmount, o.Status = totals.PaidAmount, totals.PendingAmount, totals.Status
		o.Settlements = all
		out = ObligationSettlementResult{Settlement: settlement, Obligation: o}
		return nil
	})
	if err != nil {
		return ObligationSettlementResult{}, domain.Internal("failed to record settlement", err)
	}
	s.log("cancellation", "settle_"+string(kind), "id=%d amount=%.2f pending=%.2f status=%s",
		id, out.Settlement.Amount, out.Obligation.PendingAmount, out.Obligation.Status)
	return out, nil
}
