package repositories

import (
	"context"
	"database/sql"
	"errors"

	intdb "backoffice/internal/db"
	"backoffice/internal/domain"
	"backoffice/internal/domain/models"
)

const creditNoteColumns = `id, reference_no, supplier, booking_id, cancellation_id,
	initial_amount, remaining_amount, status, issued_date, created_at`

type CreditNoteRepository struct {
	DB intdb.DBTX
}

func scanCreditNote(row rowScanner) (models.CreditNote, error) {
	var n models.CreditNote
	err := row.Scan(&n.ID, &n.ReferenceNo, &n.Supplier, &n.BookingID, &n.CancellationID,
		&n.InitialAmount, &n.RemainingAmount, &n.Status, &n.IssuedDate, &n.CreatedAt)
	return n, err
}

func (r CreditNoteRepository) Insert(ctx context.Context, n models.CreditNote) (int64, error) {
	db, err := conn(r.DB)
	if err != nil {
		return 0, err
	}
	res, err := db.ExecContext(ctx, `
		INSERT INTO credit_notes
			(reference_no, supplier, booking_id, cancellation_id, initial_amount, remaining_amount, status, issued_date)
		VALUES (?,?,?,?,?,?,?,?)`,
		n.ReferenceNo, n.Supplier, n.BookingID, n.CancellationID, n.InitialAmount, n.RemainingAmount, string(n.Status), n.IssuedDate,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r CreditNoteRepository) get(ctx context.Context, id int64, forUpdate bool) (models.CreditNote, error) {
	if id <= 0 {
		return models.CreditNote{}, domain.Invalid("creditNoteId", "must be a positive id")
	}
	db, err := conn(r.DB)
	if err != nil {
		return models.CreditNote{}, err
	}
	n, err := scanCreditNote(db.QueryRowContext(ctx, `SELECT `+creditNoteColumns+` FROM credit_notes WHERE id=? LIMIT 1`+lockClause(forUpdate), id))
	if err != nil {
		return models.CreditNote{}, notFound("credit note", err)
	}
	return n, nil
}

func (r CreditNoteRepository) GetByID(ctx context.Context, id int64) (models.CreditNote, error) {
	return r.get(ctx, id, false)
}

func (r CreditNoteRepository) GetForUpdate(ctx context.Context, id int64) (models.CreditNote, error) {
	return r.get(ctx, id, true)
}

// GetByCancellation returns the note issued by a cancellation, or nil.
func (r CreditNoteRepository) GetByCancellation(ctx context.Context, cancellationID int64) (*models.CreditNote, error) {
	db, err := conn(r.DB)
	if err != nil {
		return nil, err
	}
	n, err := scanCreditNote(db.QueryRowContext(ctx, `SELECT `+creditNoteColumns+` FROM credit_notes WHERE cancellation_id=? LIMIT 1`, cancellationID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &n, nil
}

// ListAvailable returns the supplier's notes with something left to use.
// Supplier names match case-insensitively.
func (r CreditNoteRepository) ListAvailable(ctx context.Context, supplier string) ([]models.CreditNote, error) {
	db, err := conn(r.DB)
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, `
		SELECT `+creditNoteColumns+` FROM credit_notes
		WHERE LOWER(TRIM(supplier)) = LOWER(TRIM(?)) AND remaining_amount > 0
		ORDER BY issued_date, id`, supplier)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []models.CreditNote{}
	for rows.Next() {
		n, err := scanCreditNote(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r CreditNoteRepository) InsertUsage(ctx context.Context, u models.CreditNoteUsage) (int64, error) {
	db, err := conn(r.DB)
	if err != nil {
		return 0, err
	}
	res, err := db.ExecContext(ctx, `
		INSERT INTO credit_note_usages (credit_note_id, cost_item_supplier_id, booking_id, amount_used)
		VALUES (?,?,?,?)`, u.CreditNoteID, u.CostItemSupplierID, u.BookingID, u.AmountUsed)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r CreditNoteRepository) ListUsages(ctx context.Context, creditNoteID int64) ([]models.CreditNoteUsage, error) {
	return r.listUsages(ctx, `credit_note_id=?`, creditNoteID)
}

func (r CreditNoteRepository) ListUsagesByBooking(ctx context.Context, bookingID int64) ([]models.CreditNoteUsage, error) {
	return r.listUsages(ctx, `booking_id=?`, bookingID)
}

func (r CreditNoteRepository) listUsages(ctx context.Context, where string, arg int64) ([]models.CreditNoteUsage, error) {
	db, err := conn(r.DB)
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, `
		SELECT id, credit_note_id, cost_item_supplier_id, booking_id, amount_used, created_at
		FROM credit_note_usages WHERE `+where+` ORDER BY id`, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []models.CreditNoteUsage{}
	for rows.Next() {
		var u models.CreditNoteUsage
		if err := rows.Scan(&u.ID, &u.CreditNoteID, &u.CostItemSupplierID, &u.BookingID, &u.AmountUsed, &u.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r CreditNoteRepository) UpdateRemaining(ctx context.Context, id int64, remaining float64, status domain.CreditNoteStatus) error {
	db, err := conn(r.DB)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, `UPDATE credit_notes SET remaining_amount=?, status=? WHERE id=?`, remaining, string(status), id)
	return err
}
