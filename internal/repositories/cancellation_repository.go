package repositories

import (
	"context"
	"fmt"

	intdb "backoffice/internal/db"
	"backoffice/internal/domain"
	"backoffice/internal/domain/models"
)

type CancellationRepository struct {
	DB intdb.DBTX
}

func (r CancellationRepository) Insert(ctx context.Context, c models.Cancellation) (int64, error) {
	db, err := conn(r.DB)
	if err != nil {
		return 0, err
	}
	res, err := db.ExecContext(ctx, `
		INSERT INTO cancellations (
			booking_id, supplier_cancellation_fee, admin_fee, refund_to_passenger,
			refund_transaction_method, supplier_paid, supplier, notes, created_by
		) VALUES (?,?,?,?,?,?,?,?,?)`,
		c.BookingID, c.SupplierCancellationFee, c.AdminFee, c.RefundToPassenger,
		intdb.NullIfEmpty(string(c.RefundTransactionMethod)), c.SupplierPaid,
		intdb.NullIfEmpty(c.Supplier), intdb.NullIfEmpty(c.Notes), intdb.NullIfEmpty(c.CreatedBy),
	)
	if err != nil {
		if intdb.IsDuplicateKey(err) {
			return 0, domain.ConflictError{Resource: "cancellation", Msg: fmt.Sprintf("booking %d is already cancelled", c.BookingID), Err: err}
		}
		return 0, err
	}
	return res.LastInsertId()
}

func (r CancellationRepository) GetByBooking(ctx context.Context, bookingID int64) (models.Cancellation, error) {
	db, err := conn(r.DB)
	if err != nil {
		return models.Cancellation{}, err
	}
	var c models.Cancellation
	err = db.QueryRowContext(ctx, `
		SELECT id, booking_id, supplier_cancellation_fee, admin_fee, refund_to_passenger,
		       COALESCE(refund_transaction_method,''), supplier_paid, COALESCE(supplier,''),
		       COALESCE(notes,''), COALESCE(created_by,''), created_at
		FROM cancellations WHERE booking_id=? LIMIT 1`, bookingID).Scan(
		&c.ID, &c.BookingID, &c.SupplierCancellationFee, &c.AdminFee, &c.RefundToPassenger,
		&c.RefundTransactionMethod, &c.SupplierPaid, &c.Supplier,
		&c.Notes, &c.CreatedBy, &c.CreatedAt,
	)
	if err != nil {
		return models.Cancellation{}, notFound("cancellation", err)
	}
	return c, nil
}
