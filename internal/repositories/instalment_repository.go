package repositories

import (
	"context"
	"database/sql"

	intdb "backoffice/internal/db"
	"backoffice/internal/domain"
	"backoffice/internal/domain/models"
)

const instalmentColumns = `id, booking_id, due_date, amount, paid_amount, status`

type InstalmentRepository struct {
	DB intdb.DBTX
}

func scanInstalment(row rowScanner) (models.Instalment, error) {
	var in models.Instalment
	err := row.Scan(&in.ID, &in.BookingID, &in.DueDate, &in.Amount, &in.PaidAmount, &in.Status)
	return in, err
}

func (r InstalmentRepository) Insert(ctx context.Context, in models.Instalment) (int64, error) {
	db, err := conn(r.DB)
	if err != nil {
		return 0, err
	}
	res, err := db.ExecContext(ctx, `INSERT INTO instalments (booking_id, due_date, amount, paid_amount, status) VALUES (?,?,?,?,?)`,
		in.BookingID, in.DueDate, in.Amount, in.PaidAmount, string(in.Status))
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r InstalmentRepository) ListByBooking(ctx context.Context, bookingID int64) ([]models.Instalment, error) {
	db, err := conn(r.DB)
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, `SELECT `+instalmentColumns+` FROM instalments WHERE booking_id=? ORDER BY due_date, id`, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []models.Instalment{}
	for rows.Next() {
		in, err := scanInstalment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, in)
	}
	return out, rows.Err()
}

func (r InstalmentRepository) GetByID(ctx context.Context, id int64) (models.Instalment, error) {
	return r.get(ctx, id, false)
}

func (r InstalmentRepository) GetForUpdate(ctx context.Context, id int64) (models.Instalment, error) {
	return r.get(ctx, id, true)
}

func (r InstalmentRepository) get(ctx context.Context, id int64, forUpdate bool) (models.Instalment, error) {
	if id <= 0 {
		return models.Instalment{}, domain.Invalid("id", "must be a positive id")
	}
	db, err := conn(r.DB)
	if err != nil {
		return models.Instalment{}, err
	}
	in, err := scanInstalment(db.QueryRowContext(ctx, `SELECT `+instalmentColumns+` FROM instalments WHERE id=? LIMIT 1`+lockClause(forUpdate), id))
	if err != nil {
		return models.Instalment{}, notFound("instalment", err)
	}
	return in, nil
}

func (r InstalmentRepository) UpdateProgress(ctx context.Context, id int64, paid float64, status domain.InstalmentStatus) error {
	db, err := conn(r.DB)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, `UPDATE instalments SET paid_amount=?, status=? WHERE id=?`, paid, string(status), id)
	return err
}

func (r InstalmentRepository) InsertPayment(ctx context.Context, p models.InstalmentPayment) (int64, error) {
	db, err := conn(r.DB)
	if err != nil {
		return 0, err
	}
	res, err := db.ExecContext(ctx, `
		INSERT INTO instalment_payments
			(booking_id, instalment_id, kind, amount, transaction_method, payment_date, reference, created_by)
		VALUES (?,?,?,?,?,?,?,?)`,
		p.BookingID, nullInt64(p.InstalmentID), string(p.Kind), p.Amount, string(p.TransactionMethod),
		p.PaymentDate, intdb.NullIfEmpty(p.Reference), intdb.NullIfEmpty(p.CreatedBy),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r InstalmentRepository) ListPayments(ctx context.Context, bookingID int64) ([]models.InstalmentPayment, error) {
	db, err := conn(r.DB)
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, `
		SELECT id, booking_id, instalment_id, kind, amount, transaction_method, payment_date,
		       COALESCE(reference,''), COALESCE(created_by,''), created_at
		FROM instalment_payments WHERE booking_id=? ORDER BY id`, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []models.InstalmentPayment{}
	for rows.Next() {
		var (
			p          models.InstalmentPayment
			instalment sql.NullInt64
		)
		if err := rows.Scan(&p.ID, &p.BookingID, &instalment, &p.Kind, &p.Amount, &p.TransactionMethod,
			&p.PaymentDate, &p.Reference, &p.CreatedBy, &p.CreatedAt); err != nil {
			return nil, err
		}
		p.InstalmentID = int64Ptr(instalment)
		out = append(out, p)
	}
	return out, rows.Err()
}
