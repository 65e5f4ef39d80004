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
)

// SupplierService settles what is still owed to suppliers and serves their credit notes.
type SupplierService struct {
	Deps
}

// SupplierSettlementResult is the recorded settlement and the recomputed supplier row.
type SupplierSettlementResult struct {
	Settlement models.Settlement       `json:"settlement"`
	Supplier   models.CostItemSupplier `json:"supplier"`
}

func (d Deps) settlementRow(parentID int64, req models.PaymentRequest) models.Settlement {
	date := req.PaymentDate
	if date.IsZero() {
		date = utils.NewDate(d.today())
	}
	return models.Settlement{
		ParentID:          parentID,
		Amount:            finance.Round2(req.Amount.Float()),
		TransactionMethod: domain.TransactionMethod(req.TransactionMethod),
		SettlementDate:    date,
		Reference:         req.Reference,
		Notes:             utils.TrimOrEmpty(req.Notes),
		CreatedBy:         d.Actor,
	}
}

// SettleCostItemSupplier pays down a supplier's pending amount.
func (s SupplierService) SettleCostItemSupplier(ctx context.Context, supplierID int64, req models.PaymentRequest) (SupplierSettlementResult, error) {
	if err := req.Validate(); err != nil {
		return SupplierSettlementResult{}, err
	}
	target, err := repositories.CostItemRepository{DB: s.handle()}.GetSupplier(ctx, supplierID)
	if err != nil {
		return SupplierSettlementResult{}, domain.Internal("failed to load supplier", err)
	}

	var out SupplierSettlementResult
	err = s.tx(ctx, func(tx *sql.Tx) error {
		costs := repositories.CostItemRepository{DB: tx}
		b, err := repositories.BookingRepository{DB: tx}.GetForUpdate(ctx, target.BookingID)
		if err != nil {
			return err
		}
		if b.Cancelled() {
			return cancelledConflict(b)
		}
		sup, err := costs.GetSupplierForUpdate(ctx, supplierID)
		if err != nil {
			return err
		}
		settlement := s.settlementRow(sup.ID, req)
		if err := finance.CheckSettlement("amount", settlement.Amount, sup.PendingAmount); err != nil {
			return err
		}
		if settlement.ID, err = costs.InsertSettlement(ctx, sup.ID, settlement); err != nil {
			return err
		}
		all, err := costs.ListSettlements(ctx, sup.ID)
		if err != nil {
			return err
		}
		totals := finance.RecomputeTotals(sup.Amount, sup.BasePaid, repositories.SettlementAmounts(all))
		if err := costs.UpdateSupplierTotals(ctx, sup.ID, totals); err != nil {
			return err
		}
		sup.PaidAmount, sup.PendingAmount, sup.Status = totals.PaidAmount, totals.PendingAmount, totals.Status
		sup.Settlements = all
		out = SupplierSettlementResult{Settlement: settlement, Supplier: sup}
		return nil
	})
	if err != nil {
		return SupplierSettlementResult{}, domain.Internal("failed to record supplier settlement", err)
	}
	s.log("supplier", "settle", "supplier_id=%d booking_id=%d amount=%.2f pending=%.2f status=%s",
		supplierID, target.BookingID, out.Settlement.Amount, out.Supplier.PendingAmount, out.Supplier.Status)
	return out, nil
}

// AvailableCreditNotes lists a supplier's notes that still hold money.
// Results are cached per supplier and dropped whenever a note is issued or used.
func (s SupplierService) AvailableCreditNotes(ctx context.Context, supplier string) ([]models.CreditNote, error) {
	supplier = strings.TrimSpace(supplier)
	if supplier == "" {
		return nil, domain.Invalid("supplier", "is required")
	}
	c := s.cache()
	if notes, ok, err := c.Get(ctx, supplier); err != nil {
		s.log("credit_note", "cache_get", "warning: %v", err)
	} else if ok {
		return notes, nil
	}

	notes, err := repositories.CreditNoteRepository{DB: s.handle()}.ListAvailable(ctx, supplier)
	if err != nil {
		return nil, domain.Internal("failed to list credit notes", err)
	}
	if err := c.Set(ctx, supplier, notes, s.CacheTTL); err != nil {
		s.log("credit_note", "cache_set", "warning: %v", err)
	}
	return notes, nil
}

// GetCreditNote returns a note with its usage history.
func (s SupplierService) GetCreditNote(ctx context.Context, id int64) (models.CreditNote, error) {
	repo := repositories.CreditNoteRepository{DB: s.handle()}
	n, err := repo.GetByID(ctx, id)
	if err != nil {
		return models.CreditNote{}, domain.Internal("failed to load credit note", err)
	}
	if n.Usages, err = repo.ListUsages(ctx, id); err != nil {
		return models.CreditNote{}, domain.Internal("failed to load credit note usages", err)
	}
	return n, nil
}
