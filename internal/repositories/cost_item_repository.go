package repositories

import (
	"context"

	intdb "backoffice/internal/db"
	"backoffice/internal/domain"
	"backoffice/internal/domain/models"
	"backoffice/internal/finance"
)

const supplierColumns = `id, cost_item_id, booking_id, supplier, amount, payment_method,
	first_method_amount, second_method_amount, base_paid, paid_amount, pending_amount, status`

type CostItemRepository struct {
	DB intdb.DBTX
}

func scanSupplier(row rowScanner) (models.CostItemSupplier, error) {
	var s models.CostItemSupplier
	err := row.Scan(&s.ID, &s.CostItemID, &s.BookingID, &s.Supplier, &s.Amount, &s.PaymentMethod,
		&s.FirstMethodAmount, &s.SecondMethodAmount, &s.BasePaid, &s.PaidAmount, &s.PendingAmount, &s.Status)
	return s, err
}

func (r CostItemRepository) InsertItem(ctx context.Context, bookingID int64, category string, amount float64) (int64, error) {
	db, err := conn(r.DB)
	if err != nil {
		return 0, err
	}
	res, err := db.ExecContext(ctx, `INSERT INTO cost_items (booking_id, category, amount) VALUES (?,?,?)`, bookingID, category, amount)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r CostItemRepository) InsertSupplier(ctx context.Context, s models.CostItemSupplier) (int64, error) {
	db, err := conn(r.DB)
	if err != nil {
		return 0, err
	}
	res, err := db.ExecContext(ctx, `
		INSERT INTO cost_item_suppliers (
			cost_item_id, booking_id, supplier, amount, payment_method,
			first_method_amount, second_method_amount, base_paid, paid_amount, pending_amount, status
		) VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		s.CostItemID, s.BookingID, s.Supplier, s.Amount, string(s.PaymentMethod),
		s.FirstMethodAmount, s.SecondMethodAmount, s.BasePaid, s.PaidAmount, s.PendingAmount, string(s.Status),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListByBooking returns the cost items of a booking with their suppliers attached.
func (r CostItemRepository) ListByBooking(ctx context.Context, bookingID int64) ([]models.CostItem, error) {
	db, err := conn(r.DB)
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, `SELECT id, booking_id, category, amount FROM cost_items WHERE booking_id=? ORDER BY id`, bookingID)
	if err != nil {
		return nil, err
	}
	items := []models.CostItem{}
	index := map[int64]int{}
	for rows.Next() {
		var it models.CostItem
		if err := rows.Scan(&it.ID, &it.BookingID, &it.Category, &it.Amount); err != nil {
			rows.Close()
			return nil, err
		}
		it.Suppliers = []models.CostItemSupplier{}
		index[it.ID] = len(items)
		items = append(items, it)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	suppliers, err := r.ListSuppliersByBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	for _, s := range suppliers {
		if i, ok := index[s.CostItemID]; ok {
			items[i].Suppliers = append(items[i].Suppliers, s)
		}
	}
	return items, nil
}

func (r CostItemRepository) ListSuppliersByBooking(ctx context.Context, bookingID int64) ([]models.CostItemSupplier, error) {
	db, err := conn(r.DB)
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, `SELECT `+supplierColumns+` FROM cost_item_suppliers WHERE booking_id=? ORDER BY id`, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []models.CostItemSupplier{}
	for rows.Next() {
		s, err := scanSupplier(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r CostItemRepository) GetSupplier(ctx context.Context, id int64) (models.CostItemSupplier, error) {
	return r.getSupplier(ctx, id, false)
}

func (r CostItemRepository) GetSupplierForUpdate(ctx context.Context, id int64) (models.CostItemSupplier, error) {
	return r.getSupplier(ctx, id, true)
}

func (r CostItemRepository) getSupplier(ctx context.Context, id int64, forUpdate bool) (models.CostItemSupplier, error) {
	if id <= 0 {
		return models.CostItemSupplier{}, domain.Invalid("id", "must be a positive id")
	}
	db, err := conn(r.DB)
	if err != nil {
		return models.CostItemSupplier{}, err
	}
	s, err := scanSupplier(db.QueryRowContext(ctx, `SELECT `+supplierColumns+` FROM cost_item_suppliers WHERE id=? LIMIT 1`+lockClause(forUpdate), id))
	if err != nil {
		return models.CostItemSupplier{}, notFound("cost item supplier", err)
	}
	return s, nil
}

func (r CostItemRepository) UpdateSupplierTotals(ctx context.Context, id int64, t finance.Totals) error {
	db, err := conn(r.DB)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, `UPDATE cost_item_suppliers SET paid_amount=?, pending_amount=?, status=? WHERE id=?`,
		t.PaidAmount, t.PendingAmount, string(t.Status), id)
	return err
}

func (r CostItemRepository) InsertSettlement(ctx context.Context, supplierID int64, s models.Settlement) (int64, error) {
	db, err := conn(r.DB)
	if err != nil {
		return 0, err
	}
	res, err := db.ExecContext(ctx, `
		INSERT INTO supplier_payment_settlements
			(cost_item_supplier_id, amount, transaction_method, settlement_date, reference, notes, created_by)
		VALUES (?,?,?,?,?,?,?)`,
		supplierID, s.Amount, string(s.TransactionMethod), s.SettlementDate,
		intdb.NullIfEmpty(s.Reference), intdb.NullIfEmpty(s.Notes), intdb.NullIfEmpty(s.CreatedBy),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r CostItemRepository) ListSettlements(ctx context.Context, supplierID int64) ([]models.Settlement, error) {
	db, err := conn(r.DB)
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, `
		SELECT id, cost_item_supplier_id, amount, transaction_method, settlement_date,
		       COALESCE(reference,''), COALESCE(notes,''), COALESCE(created_by,''), created_at
		FROM supplier_payment_settlements
		WHERE cost_item_supplier_id=? ORDER BY id`, supplierID)
	if err != nil {
		return nil, err
	}
	return scanSettlements(rows)
}
