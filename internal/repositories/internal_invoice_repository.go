package repositories

import (
	"context"

	intdb "backoffice/internal/db"
	"backoffice/internal/domain"
	"backoffice/internal/domain/models"
)

const invoiceColumns = `id, booking_id, invoice_no, amount, invoice_date, COALESCE(notes,''), COALESCE(created_by,''), created_at`

type InternalInvoiceRepository struct {
	DB intdb.DBTX
}

func scanInvoice(row rowScanner) (models.InternalInvoice, error) {
	var inv models.InternalInvoice
	err := row.Scan(&inv.ID, &inv.BookingID, &inv.InvoiceNo, &inv.Amount, &inv.InvoiceDate, &inv.Notes, &inv.CreatedBy, &inv.CreatedAt)
	return inv, err
}

func (r InternalInvoiceRepository) Insert(ctx context.Context, inv models.InternalInvoice) (int64, error) {
	db, err := conn(r.DB)
	if err != nil {
		return 0, err
	}
	res, err := db.ExecContext(ctx, `
		INSERT INTO internal_invoices (booking_id, invoice_no, amount, invoice_date, notes, created_by)
		VALUES (?,?,?,?,?,?)`,
		inv.BookingID, inv.InvoiceNo, inv.Amount, inv.InvoiceDate, intdb.NullIfEmpty(inv.Notes), intdb.NullIfEmpty(inv.CreatedBy),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r InternalInvoiceRepository) ListByBooking(ctx context.Context, bookingID int64) ([]models.InternalInvoice, error) {
	db, err := conn(r.DB)
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, `SELECT `+invoiceColumns+` FROM internal_invoices WHERE booking_id=? ORDER BY id`, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []models.InternalInvoice{}
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

func (r InternalInvoiceRepository) GetByID(ctx context.Context, id int64) (models.InternalInvoice, error) {
	if id <= 0 {
		return models.InternalInvoice{}, domain.Invalid("id", "must be a positive id")
	}
	db, err := conn(r.DB)
	if err != nil {
		return models.InternalInvoice{}, err
	}
	inv, err := scanInvoice(db.QueryRowContext(ctx, `SELECT `+invoiceColumns+` FROM internal_invoices WHERE id=? LIMIT 1`, id))
	if err != nil {
		return models.InternalInvoice{}, notFound("internal invoice", err)
	}
	return inv, nil
}
