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

// InternalInvoiceService invoices a booking's commission to accounting in parts.
type InternalInvoiceService struct {
	Deps
}

// Create records one commission invoice. The first invoice fixes the
// booking's commission; later ones can only use what is left of it.
func (s InternalInvoiceService) Create(ctx context.Context, bookingID int64, req models.InternalInvoiceRequest) (models.InternalInvoice, error) {
	if err := req.Validate(); err != nil {
		return models.InternalInvoice{}, err
	}
	var out models.InternalInvoice
	err := s.tx(ctx, func(tx *sql.Tx) error {
		bookings := repositories.BookingRepository{DB: tx}
		invoices := repositories.InternalInvoiceRepository{DB: tx}

		b, err := bookings.GetForUpdate(ctx, bookingID)
		if err != nil {
			return err
		}
		if b.Cancelled() {
			return cancelledConflict(b)
		}
		existing, err := invoices.ListByBooking(ctx, b.ID)
		if err != nil {
			return err
		}
		invoiced := invoiceAmounts(existing)

		requested := finance.Round2(req.CommissionAmount.Float())
		commission := requested
		first := b.CommissionAmount == nil || len(existing) == 0 && finance.IsZero(*b.CommissionAmount)
		if !first {
			commission = *b.CommissionAmount
			if requested > 0 && !finance.Equal(requested, commission) {
				return domain.Invalid("commissionAmount", "is fixed at %.2f by the first invoice", commission)
			}
		}
		amount := finance.Round2(req.Amount.Float())
		if err := finance.CheckInternalInvoice(amount, commission, invoiced); err != nil {
			return err
		}
		if first {
			if err := bookings.SetCommission(ctx, b.ID, commission); err != nil {
				return err
			}
		}

		date := req.InvoiceDate
		if date.IsZero() {
			date = utils.NewDate(s.today())
		}
		out = models.InternalInvoice{
			BookingID:   b.ID,
			InvoiceNo:   fmt.Sprintf("II-%d-%d", b.ID, len(existing)+1),
			Amount:      amount,
			InvoiceDate: date,
			Notes:       utils.TrimOrEmpty(req.Notes),
			CreatedBy:   s.Actor,
		}
		out.ID, err = invoices.Insert(ctx, out)
		return err
	})
	if err != nil {
		return models.InternalInvoice{}, domain.Internal("failed to create internal invoice", err)
	}
	s.log("internal_invoice", "create", "booking_id=%d invoice_no=%s amount=%.2f", bookingID, out.InvoiceNo, out.Amount)
	return out, nil
}

// Summary lists a booking's invoices with the commission still open.
func (s InternalInvoiceService) Summary(ctx context.Context, bookingID int64) (models.InvoiceSummary, error) {
	h := s.handle()
	b, err := repositories.BookingRepository{DB: h}.GetByID(ctx, bookingID)
	if err != nil {
		return models.InvoiceSummary{}, domain.Internal("failed to load booking", err)
	}
	list, err := repositories.InternalInvoiceRepository{DB: h}.ListByBooking(ctx, bookingID)
	if err != nil {
		return models.InvoiceSummary{}, domain.Internal("failed to load internal invoices", err)
	}
	return summarize(b, list), nil
}

// Receipt loads one invoice together with the summary of its booking.
func (s InternalInvoiceService) Receipt(ctx context.Context, invoiceID int64) (models.InternalInvoice, models.Booking, models.InvoiceSummary, error) {
	h := s.handle()
	inv, err := repositories.InternalInvoiceRepository{DB: h}.GetByID(ctx, invoiceID)
	if err != nil {
		return models.InternalInvoice{}, models.Booking{}, models.InvoiceSummary{}, domain.Internal("failed to load internal invoice", err)
	}
	b, err := repositories.BookingRepository{DB: h}.GetByID(ctx, inv.BookingID)
	if err != nil {
		return models.InternalInvoice{}, models.Booking{}, models.InvoiceSummary{}, domain.Internal("failed to load booking", err)
	}
	list, err := repositories.InternalInvoiceRepository{DB: h}.ListByBooking(ctx, inv.BookingID)
	if err != nil {
		return models.InternalInvoice{}, models.Booking{}, models.InvoiceSummary{}, domain.Internal("failed to load internal invoices", err)
	}
	return inv, b, summarize(b, list), nil
}

func invoiceAmounts(list []models.InternalInvoice) []float64 {
	out := make([]float64, 0, len(list))
	for _, inv := range list {
		out = append(out, inv.Amount)
	}
	return out
}

func summarize(b models.Booking, list []models.InternalInvoice) models.InvoiceSummary {
	var commission float64
	if b.CommissionAmount != nil {
		commission = *b.CommissionAmount
	}
	invoiced := invoiceAmounts(list)
	return models.InvoiceSummary{
		BookingID:        b.ID,
		CommissionAmount: commission,
		TotalInvoiced:    finance.Sum(invoiced...),
		Remaining:        finance.InvoiceCeiling(commission, invoiced),
		Invoices:         list,
	}
}
