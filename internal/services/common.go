package services

import (
	"context"
	"database/sql"
	"sort"
	"time"

	"backoffice/internal/cache"
	intconfig "backoffice/internal/config"
	intdb "backoffice/internal/db"
	"backoffice/internal/domain"
	"backoffice/internal/domain/models"
	"backoffice/internal/finance"
	"backoffice/internal/repositories"
	"backoffice/internal/utils"
)

// Deps is what every service needs: the pool, the credit-note cache,
// the request id for logs and the acting user.
type Deps struct {
	DB        *sql.DB
	Cache     cache.CreditNoteCache
	CacheTTL  time.Duration
	RequestID string
	Actor     string
	Now       func() time.Time
}

func (d Deps) db() *sql.DB {
	if d.DB != nil {
		return d.DB
	}
	return intconfig.DB
}

// handle returns the pool as a DBTX, keeping a nil pool a nil interface.
func (d Deps) handle() intdb.DBTX {
	if db := d.db(); db != nil {
		return db
	}
	return nil
}

func (d Deps) today() time.Time {
	if d.Now != nil {
		return finance.DateOnly(d.Now())
	}
	return finance.DateOnly(utils.NowUTC())
}

func (d Deps) cache() cache.CreditNoteCache {
	if d.Cache != nil {
		return d.Cache
	}
	return cache.NoopCreditNoteCache{}
}

func (d Deps) tx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	return intdb.WithTx(ctx, d.db(), fn)
}

func (d Deps) log(module, action, format string, args ...any) {
	utils.LogEventf(d.RequestID, module, action, format, args...)
}

// invalidateSuppliers drops cached credit-note lists after notes changed.
func (d Deps) invalidateSuppliers(ctx context.Context, suppliers ...string) {
	if len(suppliers) == 0 {
		return
	}
	if err := d.cache().Invalidate(ctx, suppliers...); err != nil {
		d.log("credit_note", "cache_invalidate", "warning: %v", err)
	}
}

func cancelledConflict(b models.Booking) error {
	return domain.ConflictError{Resource: "booking", Msg: "booking " + b.RefNo + " is cancelled"}
}

// checkCreditNotes verifies every selected note belongs to the supplier using
// it and still holds enough. With lock set the notes are read FOR UPDATE.
func checkCreditNotes(ctx context.Context, repo repositories.CreditNoteRepository, items []finance.AllocatedCostItem, lock bool) (map[int64]models.CreditNote, error) {
	demand := finance.CreditNoteDemand(items)
	owner := map[int64]string{}
	for _, item := range items {
		for _, s := range item.Suppliers {
			for _, u := range s.CreditNotes {
				if prev, ok := owner[u.CreditNoteID]; ok && !domain.SameSupplier(prev, s.Supplier) {
					return nil, domain.Invalid("costItems", "credit note %d used by two suppliers", u.CreditNoteID)
				}
				owner[u.CreditNoteID] = s.Supplier
			}
		}
	}

	ids := make([]int64, 0, len(demand))
	for id := range demand {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	notes := make(map[int64]models.CreditNote, len(ids))
	for _, id := range ids {
		var (
			n   models.CreditNote
			err error
		)
		if lock {
			n, err = repo.GetForUpdate(ctx, id)
		} else {
			n, err = repo.GetByID(ctx, id)
		}
		if err != nil {
			if domain.IsNotFound(err) {
				return nil, domain.Invalid("creditNotes", "credit note %d does not exist", id)
			}
			return nil, err
		}
		if !domain.SameSupplier(n.Supplier, owner[id]) {
			return nil, domain.Invalid("creditNotes", "credit note %s belongs to %s, not %s", n.ReferenceNo, n.Supplier, owner[id])
		}
		if finance.Exceeds(demand[id], n.RemainingAmount) {
			return nil, domain.Invalid("creditNotes", "credit note %s has %.2f left, %.2f requested", n.ReferenceNo, n.RemainingAmount, demand[id])
		}
		notes[id] = n
	}
	return notes, nil
}

func noteSuppliers(notes map[int64]models.CreditNote) []string {
	out := make([]string, 0, len(notes))
	for _, n := range notes {
		out = append(out, n.Supplier)
	}
	return out
}

// recomputeReceived rebuilds booking.received from the initial deposit and
// every payment row, then stores it with the derived balance.
func recomputeReceived(ctx context.Context, bookings repositories.BookingRepository, b models.Booking, deposit float64, payments []models.InstalmentPayment) (models.Booking, error) {
	var instalments, settlements []float64
	for _, p := range payments {
		if p.Kind == domain.KindSettlement {
			settlements = append(settlements, p.Amount)
		} else {
			instalments = append(instalments, p.Amount)
		}
	}
	b.Received = finance.RecomputeReceived(deposit, instalments, settlements)
	b.Financial = b.Financial.Derive()
	if err := bookings.UpdateReceived(ctx, b.ID, b.Received, b.Balance); err != nil {
		return models.Booking{}, err
	}
	return b, nil
}

// initialDeposit returns the stored deposit, back-computing and storing it for
// rows created before the deposit was tracked. payments must not yet include
// the payment being recorded.
func initialDeposit(ctx context.Context, bookings repositories.BookingRepository, b models.Booking, payments []models.InstalmentPayment) (float64, error) {
	if b.InitialDeposit != nil {
		return *b.InitialDeposit, nil
	}
	paid := make([]float64, 0, len(payments))
	for _, p := range payments {
		paid = append(paid, p.Amount)
	}
	deposit := finance.BackComputeDeposit(b.Received, paid)
	if err := bookings.SetInitialDeposit(ctx, b.ID, deposit); err != nil {
		return 0, err
	}
	return deposit, nil
}
