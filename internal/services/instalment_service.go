package services

import (
	"context"
	"database/sql"

	"backoffice/internal/domain"
	"backoffice/internal/domain/models"
	"backoffice/internal/finance"
	"backoffice/internal/repositories"
	"backoffice/internal/utils"
)

type InstalmentService struct {
	Deps
}

// PaymentResult is what a recorded payment leaves behind.
type PaymentResult struct {
	Payment    models.InstalmentPayment `json:"payment"`
	Instalment *models.Instalment       `json:"instalment,omitempty"`
	Booking    models.Booking           `json:"booking"`
}

// List returns the schedule of a booking with overdue instalments flagged.
func (s InstalmentService) List(ctx context.Context, bookingID int64) ([]models.Instalment, error) {
	h := s.handle()
	if _, err := (repositories.BookingRepository{DB: h}).GetByID(ctx, bookingID); err != nil {
		return nil, domain.Internal("failed to load booking", err)
	}
	list, err := repositories.InstalmentRepository{DB: h}.ListByBooking(ctx, bookingID)
	if err != nil {
		return nil, domain.Internal("failed to load instalments", err)
	}
	today := s.today()
	for i := range list {
		list[i].Status = finance.InstalmentStatusFor(list[i].Status, list[i].Amount, list[i].PaidAmount, list[i].DueDate.Time, today)
	}
	return list, nil
}

func (s InstalmentService) paymentRow(bookingID int64, instalmentID *int64, kind domain.PaymentKind, req models.PaymentRequest) models.InstalmentPayment {
	date := req.PaymentDate
	if date.IsZero() {
		date = utils.NewDate(s.today())
	}
	return models.InstalmentPayment{
		BookingID:         bookingID,
		InstalmentID:      instalmentID,
		Kind:              kind,
		Amount:            finance.Round2(req.Amount.Float()),
		TransactionMethod: domain.TransactionMethod(req.TransactionMethod),
		PaymentDate:       date,
		Reference:         req.Reference,
		CreatedBy:         s.Actor,
	}
}

// RecordPayment applies a payment to one instalment and recomputes the
// instalment progress and the booking received amount.
func (s InstalmentService) RecordPayment(ctx context.Context, instalmentID int64, req models.PaymentRequest) (PaymentResult, error) {
	if err := req.Validate(); err != nil {
		return PaymentResult{}, err
	}
	target, err := repositories.InstalmentRepository{DB: s.handle()}.GetByID(ctx, instalmentID)
	if err != nil {
		return PaymentResult{}, domain.Internal("failed to load instalment", err)
	}

	var out PaymentResult
	err = s.tx(ctx, func(tx *sql.Tx) error {
		bookings := repositories.BookingRepository{DB: tx}
		instalments := repositories.InstalmentRepository{DB: tx}

		b, err := bookings.GetForUpdate(ctx, target.BookingID)
		if err != nil {
			return err
		}
		if b.Cancelled() {
			return cancelledConflict(b)
		}
		in, err := instalments.GetForUpdate(ctx, instalmentID)
		if err != nil {
			return err
		}
		if in.Status.Closed() {
			return domain.ConflictError{Resource: "instalment", Msg: "instalment is already " + string(in.Status)}
		}
		amount := finance.Round2(req.Amount.Float())
		if err := finance.CheckSettlement("amount", amount, in.Outstanding()); err != nil {
			return err
		}

		before, err := instalments.ListPayments(ctx, b.ID)
		if err != nil {
			return err
		}
		deposit, err := initialDeposit(ctx, bookings, b, before)
		if err != nil {
			return err
		}
		payment := s.paymentRow(b.ID, &in.ID, domain.KindInstalment, req)
		if payment.ID, err = instalments.InsertPayment(ctx, payment); err != nil {
			return err
		}

		all, err := instalments.ListPayments(ctx, b.ID)
		if err != nil {
			return err
		}
		var paid []float64
		for _, p := range all {
			if p.InstalmentID != nil && *p.InstalmentID == in.ID {
				paid = append(paid, p.Amount)
			}
		}
		in.PaidAmount = finance.Sum(paid...)
		in.Status = finance.InstalmentStatusFor(in.Status, in.Amount, in.PaidAmount, in.DueDate.Time, s.today())
		if err := instalments.UpdateProgress(ctx, in.ID, in.PaidAmount, in.Status); err != nil {
			return err
		}
		if b, err = recomputeReceived(ctx, bookings, b, deposit, all); err != nil {
			return err
		}
		out = PaymentResult{Payment: payment, Instalment: &in, Booking: b}
		return nil
	})
	if err != nil {
		return PaymentResult{}, domain.Internal("failed to record instalment payment", err)
	}
	s.log("instalment", "payment", "instalment_id=%d booking_id=%d amount=%.2f status=%s balance=%.2f",
		instalmentID, out.Booking.ID, out.Payment.Amount, out.Instalment.Status, out.Booking.Balance)
	return out, nil
}

// Settle records a final settlement against the booking balance. Once the
// balance is cleared every open instalment is closed as SETTLEMENT.
func (s InstalmentService) Settle(ctx context.Context, bookingID int64, req models.PaymentRequest) (PaymentResult, error) {
	if err := req.Validate(); err != nil {
		return PaymentResult{}, err
	}
	var out PaymentResult
	err := s.tx(ctx, func(tx *sql.Tx) error {
		bookings := repositories.BookingRepository{DB: tx}
		instalments := repositories.InstalmentRepository{DB: tx}

		b, err := bookings.GetForUpdate(ctx, bookingID)
		if err != nil {
			return err
		}
		if b.Cancelled() {
			return cancelledConflict(b)
		}
		amount := finance.Round2(req.Amount.Float())
		if err := finance.CheckSettlement("amount", amount, b.Balance); err != nil {
			return err
		}

		before, err := instalments.ListPayments(ctx, b.ID)
		if err != nil {
			return err
		}
		deposit, err := initialDeposit(ctx, bookings, b, before)
		if err != nil {
			return err
		}
		payment := s.paymentRow(b.ID, nil, domain.KindSettlement, req)
		if payment.ID, err = instalments.InsertPayment(ctx, payment); err != nil {
			return err
		}
		all, err := instalments.ListPayments(ctx, b.ID)
		if err != nil {
			return err
		}
		if b, err = recomputeReceived(ctx, bookings, b, deposit, all); err != nil {
			return err
		}

		if finance.IsZero(b.Balance) || b.Balance < 0 {
			open, err := instalments.ListByBooking(ctx, b.ID)
			if err != nil {
				return err
			}
			for _, in := range open {
				if in.Status.Closed() {
					continue
				}
				if err := instalments.UpdateProgress(ctx, in.ID, in.PaidAmount, domain.InstalmentSettlement); err != nil {
					return err
				}
			}
		}
		out = PaymentResult{Payment: payment, Booking: b}
		return nil
	})
	if err != nil {
		return PaymentResult{}, domain.Internal("failed to record settlement", err)
	}
	s.log("booking", "settle", "booking_id=%d amount=%.2f balance=%.2f", bookingID, out.Payment.Amount, out.Booking.Balance)
	return out, nil
}
