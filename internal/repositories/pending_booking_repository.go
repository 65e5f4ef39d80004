package repositories

import (
	"context"
	"database/sql"
	"encoding/json"

	intdb "backoffice/internal/db"
	"backoffice/internal/domain"
	"backoffice/internal/domain/models"
)

const pendingColumns = `id, ref_no, pax_name,
	COALESCE(agent_name,''), COALESCE(team_name,''), COALESCE(pnr,''),
	COALESCE(airline,''), COALESCE(from_to,''),
	travel_date, issued_date, pc_date,
	payment_method, booking_type, original_booking_id, COALESCE(notes,''),
	revenue, prod_cost, trans_fee, surcharge, received, profit, balance,
	initial_deposit, cost_items, instalment_plan, plan,
	COALESCE(created_by,''), created_at`

type PendingBookingRepository struct {
	DB intdb.DBTX
}

func scanPending(row rowScanner) (models.PendingBooking, error) {
	var (
		p                       models.PendingBooking
		original                sql.NullInt64
		deposit                 sql.NullFloat64
		costItems, reqPlan, pln []byte
	)
	err := row.Scan(
		&p.ID, &p.RefNo, &p.PaxName,
		&p.AgentName, &p.TeamName, &p.PNR,
		&p.Airline, &p.FromTo,
		&p.TravelDate, &p.IssuedDate, &p.PCDate,
		&p.PaymentMethod, &p.BookingType, &original, &p.Notes,
		&p.Revenue, &p.ProdCost, &p.TransFee, &p.Surcharge, &p.Received, &p.Profit, &p.Balance,
		&deposit, &costItems, &reqPlan, &pln,
		&p.CreatedBy, &p.CreatedAt,
	)
	if err != nil {
		return models.PendingBooking{}, err
	}
	p.OriginalBookingID = int64Ptr(original)
	p.InitialDeposit = floatPtr(deposit)
	if len(costItems) > 0 {
		if err := json.Unmarshal(costItems, &p.CostItems); err != nil {
			return models.PendingBooking{}, err
		}
	}
	if len(reqPlan) > 0 && string(reqPlan) != "null" {
		if err := json.Unmarshal(reqPlan, &p.InstalmentPlan); err != nil {
			return models.PendingBooking{}, err
		}
	}
	if len(pln) > 0 && string(pln) != "null" {
		if err := json.Unmarshal(pln, &p.Plan); err != nil {
			return models.PendingBooking{}, err
		}
	}
	return p, nil
}

func (r PendingBookingRepository) get(ctx context.Context, id int64, forUpdate bool) (models.PendingBooking, error) {
	if id <= 0 {
		return models.PendingBooking{}, domain.Invalid("id", "must be a positive id")
	}
	db, err := conn(r.DB)
	if err != nil {
		return models.PendingBooking{}, err
	}
	row := db.QueryRowContext(ctx, `SELECT `+pendingColumns+` FROM pending_bookings WHERE id=? LIMIT 1`+lockClause(forUpdate), id)
	p, err := scanPending(row)
	if err != nil {
		return models.PendingBooking{}, notFound("pending booking", err)
	}
	return p, nil
}

func (r PendingBookingRepository) GetByID(ctx context.Context, id int64) (models.PendingBooking, error) {
	return r.get(ctx, id, false)
}

func (r PendingBookingRepository) GetForUpdate(ctx context.Context, id int64) (models.PendingBooking, error) {
	return r.get(ctx, id, true)
}

func (r PendingBookingRepository) List(ctx context.Context) ([]models.PendingBooking, error) {
	db, err := conn(r.DB)
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, `SELECT `+pendingColumns+` FROM pending_bookings ORDER BY id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.PendingBooking{}
	for rows.Next() {
		p, err := scanPending(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r PendingBookingRepository) Insert(ctx context.Context, p models.PendingBooking) (int64, error) {
	db, err := conn(r.DB)
	if err != nil {
		return 0, err
	}
	costItems, err := json.Marshal(p.CostItems)
	if err != nil {
		return 0, err
	}
	reqPlan, err := json.Marshal(p.InstalmentPlan)
	if err != nil {
		return 0, err
	}
	pln, err := json.Marshal(p.Plan)
	if err != nil {
		return 0, err
	}
	res, err := db.ExecContext(ctx, `
		INSERT INTO pending_bookings (
			ref_no, pax_name, agent_name, team_name, pnr, airline, from_to,
			travel_date, issued_date, pc_date, payment_method, booking_type,
			original_booking_id, notes,
			revenue, prod_cost, trans_fee, surcharge, received, profit, balance,
			initial_deposit, cost_items, instalment_plan, plan, created_by
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		p.RefNo, p.PaxName, intdb.NullIfEmpty(p.AgentName), intdb.NullIfEmpty(p.TeamName),
		intdb.NullIfEmpty(p.PNR), intdb.NullIfEmpty(p.Airline), intdb.NullIfEmpty(p.FromTo),
		p.TravelDate, p.IssuedDate, p.PCDate,
		string(p.PaymentMethod), string(p.BookingType),
		nullInt64(p.OriginalBookingID), intdb.NullIfEmpty(p.Notes),
		p.Revenue, p.ProdCost, p.TransFee, p.Surcharge, p.Received, p.Profit, p.Balance,
		intdb.NullFloat(p.InitialDeposit), string(costItems), string(reqPlan), string(pln),
		intdb.NullIfEmpty(p.CreatedBy),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r PendingBookingRepository) Delete(ctx context.Context, id int64) error {
	db, err := conn(r.DB)
	if err != nil {
		return err
	}
	res, err := db.ExecContext(ctx, `DELETE FROM pending_bookings WHERE id=?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundError{Resource: "pending booking"}
	}
	return nil
}
