package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	intdb "backoffice/internal/db"
	"backoffice/internal/domain"
	"backoffice/internal/domain/models"
	"backoffice/internal/finance"
)

const obligationColumns = `id, booking_id, cancellation_id, COALESCE(party,''), amount,
	paid_amount, pending_amount, status, COALESCE(transaction_method,''), created_at`

// ObligationRepository stores customer payables, supplier payables and
// passenger refunds. They share one layout in three tables.
type ObligationRepository struct {
	DB intdb.DBTX
}

func obligationTable(kind models.ObligationKind) (string, error) {
	switch kind {
	case models.CustomerPayable:
		return "customer_payables", nil
	case models.SupplierPayable:
		return "supplier_payables", nil
	case models.PassengerRefund:
		return "passenger_refunds", nil
	}
	return "", fmt.Errorf("unknown obligation kind %q", kind)
}

func scanObligation(kind models.ObligationKind, row rowScanner) (models.Obligation, error) {
	o := models.Obligation{Kind: kind}
	err := row.Scan(&o.ID, &o.BookingID, &o.CancellationID, &o.Party, &o.Amount,
		&o.PaidAmount, &o.PendingAmount, &o.Status, &o.TransactionMethod, &o.CreatedAt)
	return o, err
}

func (r ObligationRepository) Insert(ctx context.Context, o models.Obligation) (int64, error) {
	table, err := obligationTable(o.Kind)
	if err != nil {
		return 0, err
	}
	db, err := conn(r.DB)
	if err != nil {
		return 0, err
	}
	res, err := db.ExecContext(ctx, `
		INSERT INTO `+table+`
			(booking_id, cancellation_id, party, amount, paid_amount, pending_amount, status, transaction_method)
		VALUES (?,?,?,?,?,?,?,?)`,
		o.BookingID, o.CancellationID, intdb.NullIfEmpty(o.Party), o.Amount, o.PaidAmount, o.PendingAmount,
		string(o.Status), intdb.NullIfEmpty(string(o.TransactionMethod)),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r ObligationRepository) GetForUpdate(ctx context.Context, kind models.ObligationKind, id int64) (models.Obligation, error) {
	if id <= 0 {
		return models.Obligation{}, domain.Invalid("id", "must be a positive id")
	}
	table, err := obligationTable(kind)
	if err != nil {
		return models.Obligation{}, err
	}
	db, err := conn(r.DB)
	if err != nil {
		return models.Obligation{}, err
	}
	o, err := scanObligation(kind, db.QueryRowContext(ctx, `SELECT `+obligationColumns+` FROM `+table+` WHERE id=? LIMIT 1 FOR UPDATE`, id))
	if err != nil {
		return models.Obligation{}, notFound(string(kind), err)
	}
	return o, nil
}

// GetByCancellation returns the obligation a cancellation produced, or nil.
func (r ObligationRepository) GetByCancellation(ctx context.Context, kind models.ObligationKind, cancellationID int64) (*models.Obligation, error) {
	table, err := obligationTable(kind)
	if err != nil {
		return nil, err
	}
	db, err := conn(r.DB)
	if err != nil {
		return nil, err
	}
	o, err := scanObligation(kind, db.QueryRowContext(ctx, `SELECT `+obligationColumns+` FROM `+table+` WHERE cancellation_id=? LIMIT 1`, cancellationID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r ObligationRepository) UpdateTotals(ctx context.Context, kind models.ObligationKind, id int64, t finance.Totals) error {
	table, err := obligationTable(kind)
	if err != nil {
		return err
	}
	db, err := conn(r.DB)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, `UPDATE `+table+` SET paid_amount=?, pending_amount=?, status=? WHERE id=?`,
		t.PaidAmount, t.PendingAmount, string(t.Status), id)
	return err
}

func (r ObligationRepository) InsertSettlement(ctx context.Context, kind models.ObligationKind, id int64, s models.Settlement) (int64, error) {
	db, err := conn(r.DB)
	if err != nil {
		return 0, err
	}
	res, err := db.ExecContext(ctx, `
		INSERT INTO obligation_settlements
			(obligation_kind, obligation_id, amount, transaction_method, settlement_date, reference, notes, created_by)
		VALUES (?,?,?,?,?,?,?,?)`,
		string(kind), id, s.Amount, string(s.TransactionMethod), s.SettlementDate,
		intdb.NullIfEmpty(s.Reference), intdb.NullIfEmpty(s.Notes), intdb.NullIfEmpty(s.CreatedBy),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r ObligationRepository) ListSettlements(ctx context.Context, kind models.ObligationKind, id int64) ([]models.Settlement, error) {
	db, err := conn(r.DB)
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, `
		SELECT id, obligation_id, amount, transaction_method, settlement_date,
		       COALESCE(reference,''), COALESCE(notes,''), COALESCE(created_by,''), created_at
		FROM obligation_settlements
		WHERE obligation_kind=? AND obligation_id=? ORDER BY id`, string(kind), id)
	if err != nil {
		return nil, err
	}
	return scanSettlements(rows)
}

func scanSettlements(rows *sql.Rows) ([]models.Settlement, error) {
	defer rows.Close()
	out := []models.Settlement{}
	for rows.Next() {
		var s models.Settlement
		if err := rows.Scan(&s.ID, &s.ParentID, &s.Amount, &s.TransactionMethod, &s.SettlementDate,
			&s.Reference, &s.Notes, &s.CreatedBy, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// SettlementAmounts extracts the amounts for recomputation.
func SettlementAmounts(list []models.Settlement) []float64 {
	out := make([]float64, 0, len(list))
	for _, s := range list {
		out = append(out, s.Amount)
	}
	return out
}
