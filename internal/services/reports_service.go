package services

import (
	"context"

	"backoffice/internal/domain"
	"backoffice/internal/domain/models"
	"backoffice/internal/finance"
	"backoffice/internal/repositories"
	"backoffice/internal/utils"
)

type FinanceReportFilter struct {
	Status    domain.BookingStatus
	Type      domain.BookingType
	StartDate utils.Date
	EndDate   utils.Date
}

// FinanceReport totals the booking quintet over a travel date range.
type FinanceReport struct {
	Bookings  int                              `json:"bookings"`
	Totals    models.Financial                 `json:"totals"`
	ByMethod  map[domain.PaymentMethod]float64 `json:"revenueByPaymentMethod"`
	Cancelled int                              `json:"cancelled"`
}

type ReportsService struct {
	Deps
}

const reportPage = 500

// GetFinanceReport pages through every matching booking and sums its financials.
func (s ReportsService) GetFinanceReport(ctx context.Context, f FinanceReportFilter) (FinanceReport, error) {
	if !f.StartDate.IsZero() && !f.EndDate.IsZero() && f.EndDate.Before(f.StartDate.Time) {
		return FinanceReport{}, domain.Invalid("endDate", "must not be before startDate")
	}
	repo := repositories.BookingRepository{DB: s.handle()}
	filter := models.BookingFilter{
		Status:     f.Status,
		Type:       f.Type,
		TravelFrom: f.StartDate,
		TravelTo:   f.EndDate,
		Limit:      reportPage,
	}

	var (
		revenue, prodCost, transFee, surcharge, received []float64
		out                                               = FinanceReport{ByMethod: map[domain.PaymentMethod]float64{}}
	)
	for {
		page, err := repo.List(ctx, filter)
		if err != nil {
			return FinanceReport{}, domain.Internal("failed to load bookings", err)
		}
		for _, b := range page {
			out.Bookings++
			if b.Cancelled() {
				out.Cancelled++
			}
			revenue = append(revenue, b.Revenue)
			prodCost = append(prodCost, b.ProdCost)
			transFee = append(transFee, b.TransFee)
			surcharge = append(surcharge, b.Surcharge)
			received = append(received, b.Received)
			out.ByMethod[b.PaymentMethod] = finance.Sum(out.ByMethod[b.PaymentMethod], b.Revenue)
		}
		if len(page) < reportPage {
			break
		}
		filter.Offset += reportPage
	}

	out.Totals = models.Financial{
		Revenue:   finance.Sum(revenue...),
		ProdCost:  finance.Sum(prodCost...),
		TransFee:  finance.Sum(transFee...),
		Surcharge: finance.Sum(surcharge...),
		Received:  finance.Sum(received...),
	}.Derive()
	s.log("reports", "finance", "bookings=%d revenue=%.2f profit=%.2f", out.Bookings, out.Totals.Revenue, out.Totals.Profit)
	return out, nil
}
