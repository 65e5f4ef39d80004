package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	intdb "backoffice/internal/db"
	"backoffice/internal/domain"
	"backoffice/internal/domain/models"
)

const bookingColumns = `id, ref_no, pax_name,
	COALESCE(agent_name,''), COALESCE(team_name,''), COALESCE(pnr,''),
	COALESCE(airline,''), COALESCE(from_to,''),
	travel_date, issued_date, pc_date,
	payment_method, booking_type, booking_status, original_booking_id, COALESCE(notes,''),
	revenue, prod_cost, trans_fee, surcharge, received, profit, balance,
	initial_deposit, commission_amount,
	COALESCE(created_by,''), COALESCE(approved_by,''), created_at, updated_at`

type BookingRepository struct {
	DB intdb.DBTX
}

func scanBooking(row rowScanner) (models.Booking, error) {
	var (
		b          models.Booking
		original   sql.NullInt64
		deposit    sql.NullFloat64
		commission sql.NullFloat64
	)
	err := row.Scan(
		&b.ID, &b.RefNo, &b.PaxName,
		&b.AgentName, &b.TeamName, &b.PNR,
		&b.Airline, &b.FromTo,
		&b.TravelDate, &b.IssuedDate, &b.PCDate,
		&b.PaymentMethod, &b.BookingType, &b.BookingStatus, &original, &b.Notes,
		&b.Revenue, &b.ProdCost, &b.TransFee, &b.Surcharge, &b.Received, &b.Profit, &b.Balance,
		&deposit, &commission,
		&b.CreatedBy, &b.ApprovedBy, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return models.Booking{}, err
	}
	b.OriginalBookingID = int64Ptr(original)
	b.InitialDeposit = floatPtr(deposit)
	b.CommissionAmount = floatPtr(commission)
	return b, nil
}

func (r BookingRepository) get(ctx context.Context, id int64, forUpdate bool) (models.Booking, error) {
	if id <= 0 {
		return models.Booking{}, domain.Invalid("id", "must be a positive id")
	}
	db, err := conn(r.DB)
	if err != nil {
		return models.Booking{}, err
	}
	row := db.QueryRowContext(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id=? LIMIT 1`+lockClause(forUpdate), id)
	b, err := scanBooking(row)
	if err != nil {
		return models.Booking{}, notFound("booking", err)
	}
	return b, nil
}

func (r BookingRepository) GetByID(ctx context.Context, id int64) (models.Booking, error) {
	return r.get(ctx, id, false)
}

// GetForUpdate locks the booking row until the surrounding transaction ends.
func (r BookingRepository) GetForUpdate(ctx context.Context, id int64) (models.Booking, error) {
	return r.get(ctx, id, true)
}

func (r BookingRepository) List(ctx context.Context, f models.BookingFilter) ([]models.Booking, error) {
	db, err := conn(r.DB)
	if err != nil {
		return nil, err
	}
	where := []string{"1=1"}
	args := []any{}
	if f.Status != "" {
		where = append(where, "booking_status=?")
		args = append(args, string(f.Status))
	}
	if f.Type != "" {
		where = append(where, "booking_type=?")
		args = append(args, string(f.Type))
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		where = append(where, "(ref_no LIKE ? OR pax_name LIKE ? OR pnr LIKE ?)")
		like := "%" + s + "%"
		args = append(args, like, like, like)
	}
	if !f.TravelFrom.IsZero() {
		where = append(where, "travel_date >= ?")
		args = append(args, f.TravelFrom)
	}
	if !f.TravelTo.IsZero() {
		where = append(where, "travel_date <= ?")
		args = append(args, f.TravelTo)
	}
	limit := f.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	query := fmt.Sprintf(`SELECT %s FROM bookings WHERE %s ORDER BY id DESC LIMIT %d OFFSET %d`,
		bookingColumns, strings.Join(where, " AND "), limit, max(f.Offset, 0))

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r BookingRepository) ExistsByRefNo(ctx context.Context, refNo string) (bool, error) {
	db, err := conn(r.DB)
	if err != nil {
		return false, err
	}
	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM bookings WHERE ref_no=?`, refNo).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r BookingRepository) Insert(ctx context.Context, b models.Booking) (int64, error) {
	db, err := conn(r.DB)
	if err != nil {
		return 0, err
	}
	res, err := db.ExecContext(ctx, `
		INSERT INTO bookings (
			ref_no, pax_name, agent_name, team_name, pnr, airline, from_to,
			travel_date, issued_date, pc_date, payment_method, booking_type, booking_status,
			original_booking_id, notes,
			revenue, prod_cost, trans_fee, surcharge, received, profit, balance,
			initial_deposit, commission_amount, created_by, approved_by
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		b.RefNo, b.PaxName, intdb.NullIfEmpty(b.AgentName), intdb.NullIfEmpty(b.TeamName),
		intdb.NullIfEmpty(b.PNR), intdb.NullIfEmpty(b.Airline), intdb.NullIfEmpty(b.FromTo),
		b.TravelDate, b.IssuedDate, b.PCDate,
		string(b.PaymentMethod), string(b.BookingType), string(b.BookingStatus),
		nullInt64(b.OriginalBookingID), intdb.NullIfEmpty(b.Notes),
		b.Revenue, b.ProdCost, b.TransFee, b.Surcharge, b.Received, b.Profit, b.Balance,
		intdb.NullFloat(b.InitialDeposit), intdb.NullFloat(b.CommissionAmount),
		intdb.NullIfEmpty(b.CreatedBy), intdb.NullIfEmpty(b.ApprovedBy),
	)
	if err != nil {
		if intdb.IsDuplicateKey(err) {
			return 0, domain.ConflictError{Resource: "booking", Msg: fmt.Sprintf("ref no %s already confirmed", b.RefNo), Err: err}
		}
		return 0, err
	}
	return res.LastInsertId()
}

// UpdateDetails overwrites the descriptive fields and the financial quintet.
func (r BookingRepository) UpdateDetails(ctx context.Context, b models.Booking) error {
	db, err := conn(r.DB)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, `
		UPDATE bookings SET
			pax_name=?, agent_name=?, team_name=?, pnr=?, airline=?, from_to=?,
			travel_date=?, issued_date=?, pc_date=?, notes=?,
			revenue=?, prod_cost=?, trans_fee=?, surcharge=?, received=?, profit=?, balance=?
		WHERE id=?`,
		b.PaxName, intdb.NullIfEmpty(b.AgentName), intdb.NullIfEmpty(b.TeamName),
		intdb.NullIfEmpty(b.PNR), intdb.NullIfEmpty(b.Airline), intdb.NullIfEmpty(b.FromTo),
		b.TravelDate, b.IssuedDate, b.PCDate, intdb.NullIfEmpty(b.Notes),
		b.Revenue, b.ProdCost, b.TransFee, b.Surcharge, b.Received, b.Profit, b.Balance,
		b.ID,
	)
	return err
}

// UpdateReceived stores a recomputed received and the balance derived from it.
func (r BookingRepository) UpdateReceived(ctx context.Context, id int64, received, balance float64) error {
	db, err := conn(r.DB)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, `UPDATE bookings SET received=?, balance=? WHERE id=?`, received, balance, id)
	return err
}

// MarkCancelled flags the booking as a cancellation. The row itself is kept for history.
func (r BookingRepository) MarkCancelled(ctx context.Context, id int64) error {
	db, err := conn(r.DB)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, `UPDATE bookings SET booking_status=?, booking_type=? WHERE id=?`,
		string(domain.BookingCancelled), string(domain.BookingCancellation), id)
	return err
}

func (r BookingRepository) SetInitialDeposit(ctx context.Context, id int64, deposit float64) error {
	db, err := conn(r.DB)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, `UPDATE bookings SET initial_deposit=? WHERE id=?`, deposit, id)
	return err
}

func (r BookingRepository) SetCommission(ctx context.Context, id int64, commission float64) error {
	db, err := conn(r.DB)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, `UPDATE bookings SET commission_amount=? WHERE id=?`, commission, id)
	return err
}
