package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"backoffice/internal/domain"
	"backoffice/internal/domain/models"
	"backoffice/internal/finance"
	"backoffice/internal/utils"

	"github.com/DATA-DOG/go-sqlmock"
)

var (
	fixedNow = time.Date(2025, 3, 1, 15, 30, 0, 0, time.UTC)

	bookingCols = []string{
		"id", "ref_no", "pax_name", "agent_name", "team_name", "pnr", "airline", "from_to",
		"travel_date", "issued_date", "pc_date",
		"payment_method", "booking_type", "booking_status", "original_booking_id", "notes",
		"revenue", "prod_cost", "trans_fee", "surcharge", "received", "profit", "balance",
		"initial_deposit", "commission_amount", "created_by", "approved_by", "created_at", "updated_at",
	}
	supplierCols = []string{
		"id", "cost_item_id", "booking_id", "supplier", "amount", "payment_method",
		"first_method_amount", "second_method_amount", "base_paid", "paid_amount", "pending_amount", "status",
	}
	settlementCols = []string{
		"id", "parent_id", "amount", "transaction_method", "settlement_date", "reference", "notes", "created_by", "created_at",
	}
	paymentCols = []string{
		"id", "booking_id", "instalment_id", "kind", "amount", "transaction_method", "payment_date", "reference", "created_by", "created_at",
	}
	pendingCols = []string{
		"id", "ref_no", "pax_name", "agent_name", "team_name", "pnr", "airline", "from_to",
		"travel_date", "issued_date", "pc_date", "payment_method", "booking_type", "original_booking_id", "notes",
		"revenue", "prod_cost", "trans_fee", "surcharge", "received", "profit", "balance",
		"initial_deposit", "cost_items", "instalment_plan", "plan", "created_by", "created_at",
	}
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn, mock
}

func testDeps(conn *sql.DB) Deps {
	return Deps{DB: conn, RequestID: "test", Actor: "tester", Now: func() time.Time { return fixedNow }}
}

// bookingRow is a confirmed FULL booking with the given quintet.
func bookingRow(id int64, status domain.BookingStatus, revenue, prodCost, received float64, deposit, commission any) *sqlmock.Rows {
	return sqlmock.NewRows(bookingCols).AddRow(
		id, "REF-1", "Jane Doe", "", "", "ABC123", "QF", "SYD-MEL",
		"2025-04-01", nil, nil,
		"FULL", "FRESH", string(status), nil, "",
		revenue, prodCost, 0.0, 0.0, received, revenue-prodCost, revenue-received,
		deposit, commission, "agent", "admin", fixedNow, fixedNow,
	)
}

func TestSettleSupplierRejectsOverpayment(t *testing.T) {
	conn, mock := newMock(t)
	supplier := func() *sqlmock.Rows {
		return sqlmock.NewRows(supplierCols).AddRow(5, 2, 1, "QF", 300.0, "BANK_TRANSFER_AND_CREDIT", 200.0, 100.0, 200.0, 200.0, 100.0, "PARTIAL")
	}
	mock.ExpectQuery("FROM cost_item_suppliers WHERE id=").WithArgs(5).WillReturnRows(supplier())
	mock.ExpectBegin()
	mock.ExpectQuery("FROM bookings WHERE id=.* FOR UPDATE").WithArgs(1).
		WillReturnRows(bookingRow(1, domain.BookingConfirmed, 1000, 300, 1000, 1000.0, nil))
	mock.ExpectQuery("FROM cost_item_suppliers WHERE id=.* FOR UPDATE").WithArgs(5).WillReturnRows(supplier())
	mock.ExpectRollback()

	_, err := SupplierService{Deps: testDeps(conn)}.SettleCostItemSupplier(context.Background(), 5, models.PaymentRequest{Amount: 150})
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSettleSupplierRecomputesFromAllSettlements(t *testing.T) {
	conn, mock := newMock(t)
	supplier := func() *sqlmock.Rows {
		return sqlmock.NewRows(supplierCols).AddRow(5, 2, 1, "QF", 300.0, "BANK_TRANSFER_AND_CREDIT", 200.0, 100.0, 200.0, 200.0, 100.0, "PARTIAL")
	}
	mock.ExpectQuery("FROM cost_item_suppliers WHERE id=").WithArgs(5).WillReturnRows(supplier())
	mock.ExpectBegin()
	mock.ExpectQuery("FROM bookings WHERE id=.* FOR UPDATE").WithArgs(1).
		WillReturnRows(bookingRow(1, domain.BookingConfirmed, 1000, 300, 1000, 1000.0, nil))
	mock.ExpectQuery("FROM cost_item_suppliers WHERE id=.* FOR UPDATE").WithArgs(5).WillReturnRows(supplier())
	mock.ExpectExec("INSERT INTO supplier_payment_settlements").
		WithArgs(5, 60.0, "BANK_TRANSFER", sqlmock.AnyArg(), nil, nil, "tester").
		WillReturnResult(sqlmock.NewResult(41, 1))
	mock.ExpectQuery("FROM supplier_payment_settlements").WithArgs(5).
		WillReturnRows(sqlmock.NewRows(settlementCols).
			AddRow(40, 5, 15.0, "CASH", "2025-02-01", "", "", "tester", fixedNow).
			AddRow(41, 5, 60.0, "BANK_TRANSFER", "2025-03-01", "", "", "tester", fixedNow))
	mock.ExpectExec("UPDATE cost_item_suppliers SET paid_amount").
		WithArgs(275.0, 25.0, "PARTIAL", 5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	out, err := SupplierService{Deps: testDeps(conn)}.SettleCostItemSupplier(context.Background(), 5, models.PaymentRequest{Amount: 60})
	if err != nil {
		t.Fatalf("SettleCostItemSupplier error: %v", err)
	}
	if out.Supplier.PaidAmount != 275 || out.Supplier.PendingAmount != 25 || out.Supplier.Status != domain.SettlementPartial {
		t.Fatalf("unexpected totals %+v", out.Supplier)
	}
	if out.Settlement.ID != 41 || out.Settlement.SettlementDate.String() != "2025-03-01" {
		t.Fatalf("unexpected settlement %+v", out.Settlement)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSettleSupplierOnCancelledBookingConflicts(t *testing.T) {
	conn, mock := newMock(t)
	row := sqlmock.NewRows(supplierCols).AddRow(5, 2, 1, "QF", 300.0, "CREDIT", 0.0, 0.0, 0.0, 0.0, 300.0, "PENDING")
	mock.ExpectQuery("FROM cost_item_suppliers WHERE id=").WithArgs(5).WillReturnRows(row)
	mock.ExpectBegin()
	mock.ExpectQuery("FROM bookings WHERE id=.* FOR UPDATE").WithArgs(1).
		WillReturnRows(bookingRow(1, domain.BookingCancelled, 1000, 300, 1000, 1000.0, nil))
	mock.ExpectRollback()

	_, err := SupplierService{Deps: testDeps(conn)}.SettleCostItemSupplier(context.Background(), 5, models.PaymentRequest{Amount: 10})
	if !domain.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRecordInstalmentPayment(t *testing.T) {
	conn, mock := newMock(t)
	instalment := func() *sqlmock.Rows {
		return sqlmock.NewRows([]string{"id", "booking_id", "due_date", "amount", "paid_amount", "status"}).
			AddRow(9, 1, "2025-03-08", 400.0, 0.0, "PENDING")
	}
	mock.ExpectQuery("FROM instalments WHERE id=").WithArgs(9).WillReturnRows(instalment())
	mock.ExpectBegin()
	mock.ExpectQuery("FROM bookings WHERE id=.* FOR UPDATE").WithArgs(1).
		WillReturnRows(bookingRow(1, domain.BookingConfirmed, 1000, 700, 200, 200.0, nil))
	mock.ExpectQuery("FROM instalments WHERE id=.* FOR UPDATE").WithArgs(9).WillReturnRows(instalment())
	mock.ExpectQuery("FROM instalment_payments WHERE booking_id").WithArgs(1).
		WillReturnRows(sqlmock.NewRows(paymentCols))
	mock.ExpectExec("INSERT INTO instalment_payments").
		WithArgs(1, 9, "INSTALMENT", 400.0, "BANK_TRANSFER", sqlmock.AnyArg(), nil, "tester").
		WillReturnResult(sqlmock.NewResult(70, 1))
	mock.ExpectQuery("FROM instalment_payments WHERE booking_id").WithArgs(1).
		WillReturnRows(sqlmock.NewRows(paymentCols).
			AddRow(70, 1, 9, "INSTALMENT", 400.0, "BANK_TRANSFER", "2025-03-01", "", "tester", fixedNow))
	mock.ExpectExec("UPDATE instalments SET paid_amount").WithArgs(400.0, "PAID", 9).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE bookings SET received").WithArgs(600.0, 400.0, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	out, err := InstalmentService{Deps: testDeps(conn)}.RecordPayment(context.Background(), 9, models.PaymentRequest{Amount: 400})
	if err != nil {
		t.Fatalf("RecordPayment error: %v", err)
	}
	if out.Instalment.Status != domain.InstalmentPaid {
		t.Fatalf("instalment status = %s, want PAID", out.Instalment.Status)
	}
	if out.Booking.Received != 600 || out.Booking.Balance != 400 {
		t.Fatalf("booking received/balance = %.2f/%.2f", out.Booking.Received, out.Booking.Balance)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRecordInstalmentPaymentRejectsMoreThanOutstanding(t *testing.T) {
	conn, mock := newMock(t)
	instalment := func() *sqlmock.Rows {
		return sqlmock.NewRows([]string{"id", "booking_id", "due_date", "amount", "paid_amount", "status"}).
			AddRow(9, 1, "2025-03-08", 400.0, 100.0, "PENDING")
	}
	mock.ExpectQuery("FROM instalments WHERE id=").WithArgs(9).WillReturnRows(instalment())
	mock.ExpectBegin()
	mock.ExpectQuery("FROM bookings WHERE id=.* FOR UPDATE").WithArgs(1).
		WillReturnRows(bookingRow(1, domain.BookingConfirmed, 1000, 700, 300, 200.0, nil))
	mock.ExpectQuery("FROM instalments WHERE id=.* FOR UPDATE").WithArgs(9).WillReturnRows(instalment())
	mock.ExpectRollback()

	_, err := InstalmentService{Deps: testDeps(conn)}.RecordPayment(context.Background(), 9, models.PaymentRequest{Amount: 300.02})
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCancelIssuesCreditNoteForLeftover(t *testing.T) {
	conn, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectQuery("FROM bookings WHERE id=.* FOR UPDATE").WithArgs(1).
		WillReturnRows(bookingRow(1, domain.BookingConfirmed, 600, 500, 600, 600.0, nil))
	mock.ExpectQuery("FROM cost_item_suppliers WHERE booking_id").WithArgs(1).
		WillReturnRows(sqlmock.NewRows(supplierCols))
	mock.ExpectExec("INSERT INTO cancellations").WillReturnResult(sqlmock.NewResult(5, 1))
	mock.ExpectExec("INSERT INTO credit_notes").
		WithArgs(sqlmock.AnyArg(), "QF", 1, 5, 350.0, 350.0, "AVAILABLE", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(8, 1))
	mock.ExpectExec("UPDATE bookings SET booking_status").WithArgs("CANCELLED", "CANCELLATION", 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	fake := &recordingCache{}
	deps := testDeps(conn)
	deps.Cache = fake
	out, err := CancellationService{Deps: deps}.Cancel(context.Background(), 1, models.CancelBookingRequest{SupplierCancellationFee: 150})
	if err != nil {
		t.Fatalf("Cancel error: %v", err)
	}
	if out.CreditNote == nil || out.CreditNote.InitialAmount != 350 || out.CreditNote.RemainingAmount != 350 {
		t.Fatalf("unexpected credit note %+v", out.CreditNote)
	}
	if len(out.CreditNote.ReferenceNo) != len("CN-")+8 {
		t.Fatalf("unexpected reference %q", out.CreditNote.ReferenceNo)
	}
	if out.CustomerPayable != nil || out.SupplierPayable != nil || out.PassengerRefund != nil {
		t.Fatalf("no obligations expected, got %+v", out)
	}
	if len(fake.invalidated) != 1 || fake.invalidated[0] != "QF" {
		t.Fatalf("expected cache invalidation for QF, got %v", fake.invalidated)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCancelOpensCustomerAndSupplierPayables(t *testing.T) {
	conn, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectQuery("FROM bookings WHERE id=.* FOR UPDATE").WithArgs(1).
		WillReturnRows(bookingRow(1, domain.BookingConfirmed, 600, 500, 100, 100.0, nil))
	mock.ExpectQuery("FROM cost_item_suppliers WHERE booking_id").WithArgs(1).
		WillReturnRows(sqlmock.NewRows(supplierCols).
			AddRow(5, 2, 1, "Acme Tours", 500.0, "CREDIT", 0.0, 0.0, 0.0, 100.0, 400.0, "PARTIAL"))
	mock.ExpectExec("INSERT INTO cancellations").WillReturnResult(sqlmock.NewResult(6, 1))
	mock.ExpectExec("INSERT INTO customer_payables").
		WithArgs(1, 6, "Jane Doe", 100.0, 0.0, 100.0, "PENDING", nil).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO supplier_payables").
		WithArgs(1, 6, "Acme Tours", 100.0, 0.0, 100.0, "PENDING", nil).
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectExec("UPDATE bookings SET booking_status").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	out, err := CancellationService{Deps: testDeps(conn)}.Cancel(context.Background(), 1, models.CancelBookingRequest{SupplierCancellationFee: 200})
	if err != nil {
		t.Fatalf("Cancel error: %v", err)
	}
	if out.CustomerPayable == nil || out.CustomerPayable.Amount != 100 {
		t.Fatalf("unexpected customer payable %+v", out.CustomerPayable)
	}
	if out.SupplierPayable == nil || out.SupplierPayable.Amount != 100 || out.CreditNote != nil {
		t.Fatalf("unexpected supplier side %+v / %+v", out.SupplierPayable, out.CreditNote)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCancelTwiceConflicts(t *testing.T) {
	conn, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectQuery("FROM bookings WHERE id=.* FOR UPDATE").WithArgs(1).
		WillReturnRows(bookingRow(1, domain.BookingCancelled, 600, 500, 600, 600.0, nil))
	mock.ExpectRollback()

	_, err := CancellationService{Deps: testDeps(conn)}.Cancel(context.Background(), 1, models.CancelBookingRequest{SupplierCancellationFee: 150})
	if !domain.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func pendingRow(costItems string) *sqlmock.Rows {
	return sqlmock.NewRows(pendingCols).AddRow(
		3, "REF-9", "Jane Doe", "", "", "", "QF", "SYD-MEL",
		"2025-04-01", nil, nil, "FULL", "FRESH", nil, "",
		1000.0, 800.0, 0.0, 0.0, 1000.0, 200.0, 0.0,
		1000.0, costItems, "null", "null", "agent", fixedNow,
	)
}

func TestApprovePendingBooking(t *testing.T) {
	conn, mock := newMock(t)
	items := `[{"category":"Flight","amount":800,"suppliers":[{"supplier":"QF","amount":800,"paymentMethod":"BANK_TRANSFER"}]}]`
	mock.ExpectBegin()
	mock.ExpectQuery("FROM pending_bookings WHERE id=.* FOR UPDATE").WithArgs(3).WillReturnRows(pendingRow(items))
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM bookings WHERE ref_no").WithArgs("REF-9").
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(0))
	mock.ExpectExec("INSERT INTO bookings").WillReturnResult(sqlmock.NewResult(11, 1))
	mock.ExpectExec("INSERT INTO cost_items").WithArgs(11, "Flight", 800.0).WillReturnResult(sqlmock.NewResult(21, 1))
	mock.ExpectExec("INSERT INTO cost_item_suppliers").
		WithArgs(21, 11, "QF", 800.0, "BANK_TRANSFER", 0.0, 0.0, 800.0, 800.0, 0.0, "PAID").
		WillReturnResult(sqlmock.NewResult(31, 1))
	mock.ExpectExec("DELETE FROM pending_bookings").WithArgs(3).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	b, err := BookingService{Deps: testDeps(conn)}.Approve(context.Background(), 3)
	if err != nil {
		t.Fatalf("Approve error: %v", err)
	}
	if b.ID != 11 || b.BookingStatus != domain.BookingConfirmed || b.ApprovedBy != "tester" {
		t.Fatalf("unexpected booking %+v", b)
	}
	if b.Profit != 200 || b.Balance != 0 {
		t.Fatalf("profit/balance = %.2f/%.2f", b.Profit, b.Balance)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestApproveConflictsWhenRefAlreadyConfirmed(t *testing.T) {
	conn, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectQuery("FROM pending_bookings WHERE id=.* FOR UPDATE").WithArgs(3).WillReturnRows(pendingRow("[]"))
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM bookings WHERE ref_no").WithArgs("REF-9").
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(1))
	mock.ExpectRollback()

	_, err := BookingService{Deps: testDeps(conn)}.Approve(context.Background(), 3)
	if !domain.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestApproveMissingPendingIsNotFound(t *testing.T) {
	conn, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectQuery("FROM pending_bookings WHERE id=.* FOR UPDATE").WithArgs(3).WillReturnRows(sqlmock.NewRows(pendingCols))
	mock.ExpectRollback()

	_, err := BookingService{Deps: testDeps(conn)}.Approve(context.Background(), 3)
	if !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreatePendingBuildsPlan(t *testing.T) {
	conn, mock := newMock(t)
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM bookings WHERE ref_no").WithArgs("REF-2").
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(0))
	mock.ExpectExec("INSERT INTO pending_bookings").WillReturnResult(sqlmock.NewResult(4, 1))

	in := models.BookingInput{
		RefNo:          " ref-2 ",
		PaxName:        "Jane  Doe",
		PaymentMethod:  "internal",
		FinancialInput: models.FinancialInput{Revenue: 1000, ProdCost: 800, Received: 200},
		CostItems: []models.CostItemInput{{
			Category:  "Flight",
			Amount:    800,
			Suppliers: []models.SupplierInput{{Supplier: "QF", Amount: 800, PaymentMethod: "BANK_TRANSFER"}},
		}},
		InstalmentPlan: &models.InstalmentPlanInput{Period: "within30days", Strategy: "weekly", Count: 2},
	}
	p, err := BookingService{Deps: testDeps(conn)}.CreatePending(context.Background(), in)
	if err != nil {
		t.Fatalf("CreatePending error: %v", err)
	}
	if p.ID != 4 || p.RefNo != "REF-2" || p.PaxName != "Jane Doe" {
		t.Fatalf("unexpected pending %+v", p)
	}
	if p.Plan == nil || len(p.Plan.Instalments) != 2 || p.Plan.Instalments[0].Amount != 400 {
		t.Fatalf("unexpected plan %+v", p.Plan)
	}
	if p.InitialDeposit == nil || *p.InitialDeposit != 200 || p.Balance != 800 {
		t.Fatalf("deposit/balance wrong: %+v", p.Financial)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreatePendingRejectsShortCreditNote(t *testing.T) {
	conn, mock := newMock(t)
	mock.ExpectQuery("FROM credit_notes WHERE id=").WithArgs(8).
		WillReturnRows(sqlmock.NewRows([]string{"id", "reference_no", "supplier", "booking_id", "cancellation_id",
			"initial_amount", "remaining_amount", "status", "issued_date", "created_at"}).
			AddRow(8, "CN-ABCDEF12", "qf", 1, 5, 350.0, 200.0, "AVAILABLE", "2025-02-01", fixedNow))

	in := models.BookingInput{
		RefNo:          "REF-3",
		PaxName:        "Jane",
		PaymentMethod:  "FULL",
		FinancialInput: models.FinancialInput{Revenue: 400, ProdCost: 300, Received: 400},
		CostItems: []models.CostItemInput{{
			Category: "Flight",
			Amount:   300,
			Suppliers: []models.SupplierInput{{
				Supplier:      "QF",
				Amount:        300,
				PaymentMethod: "CREDIT_NOTES",
				CreditNotes:   []models.CreditNoteUseInput{{CreditNoteID: 8, AmountToUse: 300}},
			}},
		}},
	}
	_, err := BookingService{Deps: testDeps(conn)}.CreatePending(context.Background(), in)
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreatePendingValidatesBeforeTouchingDB(t *testing.T) {
	svc := BookingService{Deps: Deps{Now: func() time.Time { return fixedNow }}}
	cases := map[string]models.BookingInput{
		"instalment method without plan": {
			RefNo: "R", PaxName: "P", PaymentMethod: "INTERNAL",
		},
		"plan on full payment": {
			RefNo: "R", PaxName: "P", PaymentMethod: "FULL",
			InstalmentPlan: &models.InstalmentPlanInput{Period: "within30days", Strategy: "weekly", Count: 1},
		},
		"date change without original": {
			RefNo: "R", PaxName: "P", PaymentMethod: "FULL", BookingType: "DATE_CHANGE",
		},
		"cancellation type": {
			RefNo: "R", PaxName: "P", PaymentMethod: "FULL", BookingType: "CANCELLATION",
		},
		"cost items off prodCost": {
			RefNo: "R", PaxName: "P", PaymentMethod: "FULL",
			FinancialInput: models.FinancialInput{ProdCost: 100},
			CostItems: []models.CostItemInput{{
				Category:  "Hotel",
				Amount:    90,
				Suppliers: []models.SupplierInput{{Supplier: "H", Amount: 90, PaymentMethod: "CREDIT"}},
			}},
		},
	}
	for name, in := range cases {
		if _, err := svc.CreatePending(context.Background(), in); !domain.IsValidation(err) {
			t.Fatalf("%s: expected validation error, got %v", name, err)
		}
	}
}

func TestInternalInvoiceFirstNeedsCommission(t *testing.T) {
	conn, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectQuery("FROM bookings WHERE id=.* FOR UPDATE").WithArgs(1).
		WillReturnRows(bookingRow(1, domain.BookingConfirmed, 1000, 700, 1000, 1000.0, nil))
	mock.ExpectQuery("FROM internal_invoices WHERE booking_id").WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "booking_id", "invoice_no", "amount", "invoice_date", "notes", "created_by", "created_at"}))
	mock.ExpectRollback()

	_, err := InternalInvoiceService{Deps: testDeps(conn)}.Create(context.Background(), 1, models.InternalInvoiceRequest{Amount: 50})
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestInternalInvoiceWithinCommission(t *testing.T) {
	conn, mock := newMock(t)
	invoiceCols := []string{"id", "booking_id", "invoice_no", "amount", "invoice_date", "notes", "created_by", "created_at"}
	mock.ExpectBegin()
	mock.ExpectQuery("FROM bookings WHERE id=.* FOR UPDATE").WithArgs(1).
		WillReturnRows(bookingRow(1, domain.BookingConfirmed, 1000, 700, 1000, 1000.0, 300.0))
	mock.ExpectQuery("FROM internal_invoices WHERE booking_id").WithArgs(1).
		WillReturnRows(sqlmock.NewRows(invoiceCols).AddRow(1, 1, "II-1-1", 200.0, "2025-02-01", "", "tester", fixedNow))
	mock.ExpectExec("INSERT INTO internal_invoices").
		WithArgs(1, "II-1-2", 100.0, sqlmock.AnyArg(), nil, "tester").
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	inv, err := InternalInvoiceService{Deps: testDeps(conn)}.Create(context.Background(), 1, models.InternalInvoiceRequest{Amount: 100})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if inv.ID != 2 || inv.InvoiceNo != "II-1-2" || inv.InvoiceDate.String() != "2025-03-01" {
		t.Fatalf("unexpected invoice %+v", inv)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPreviewAppliesInterest(t *testing.T) {
	svc := BookingService{Deps: Deps{Now: func() time.Time { return fixedNow }}}
	out, err := svc.Preview(models.PreviewRequest{
		PaymentMethod:  "INTERNAL",
		FinancialInput: models.FinancialInput{Revenue: 1000, ProdCost: 700, Received: 200},
		InstalmentPlan: &models.InstalmentPlanInput{Period: "beyond30", Strategy: "monthly", Count: 2},
	})
	if err != nil {
		t.Fatalf("Preview error: %v", err)
	}
	if out.Plan == nil || out.Plan.Interest == nil {
		t.Fatalf("expected an interest quote, got %+v", out.Plan)
	}
	if out.Revenue != out.Plan.Interest.FinalRevenue || out.Revenue <= 1000 {
		t.Fatalf("revenue %.2f should carry interest (%+v)", out.Revenue, out.Plan.Interest)
	}
	if !finance.Equal(out.Balance, out.Revenue-200) {
		t.Fatalf("balance %.2f not derived from revenue %.2f", out.Balance, out.Revenue)
	}
}

type recordingCache struct {
	invalidated []string
}

func (c *recordingCache) Get(context.Context, string) ([]models.CreditNote, bool, error) {
	return nil, false, nil
}

func (c *recordingCache) Set(context.Context, string, []models.CreditNote, time.Duration) error {
	return nil
}

func (c *recordingCache) Invalidate(_ context.Context, suppliers ...string) error {
	c.invalidated = append(c.invalidated, suppliers...)
	return nil
}

var (
	instalmentCols = []string{"id", "booking_id", "due_date", "amount", "paid_amount", "status"}
	obligationCols = []string{
		"id", "booking_id", "cancellation_id", "party", "amount",
		"paid_amount", "pending_amount", "status", "transaction_method", "created_at",
	}
)

func TestRecordInstalmentPaymentBackComputesLegacyDeposit(t *testing.T) {
	conn, mock := newMock(t)
	instalment := func() *sqlmock.Rows {
		return sqlmock.NewRows(instalmentCols).AddRow(9, 1, "2025-03-15", 400.0, 0.0, "PENDING")
	}
	mock.ExpectQuery("FROM instalments WHERE id=").WithArgs(9).WillReturnRows(instalment())
	mock.ExpectBegin()
	mock.ExpectQuery("FROM bookings WHERE id=.* FOR UPDATE").WithArgs(1).
		WillReturnRows(bookingRow(1, domain.BookingConfirmed, 1000, 700, 500, nil, nil))
	mock.ExpectQuery("FROM instalments WHERE id=.* FOR UPDATE").WithArgs(9).WillReturnRows(instalment())
	mock.ExpectQuery("FROM instalment_payments WHERE booking_id").WithArgs(1).
		WillReturnRows(sqlmock.NewRows(paymentCols).
			AddRow(60, 1, 8, "INSTALMENT", 300.0, "CASH", "2025-02-20", "", "tester", fixedNow))
	mock.ExpectExec("UPDATE bookings SET initial_deposit").WithArgs(200.0, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO instalment_payments").
		WithArgs(1, 9, "INSTALMENT", 400.0, "BANK_TRANSFER", sqlmock.AnyArg(), nil, "tester").
		WillReturnResult(sqlmock.NewResult(61, 1))
	mock.ExpectQuery("FROM instalment_payments WHERE booking_id").WithArgs(1).
		WillReturnRows(sqlmock.NewRows(paymentCols).
			AddRow(60, 1, 8, "INSTALMENT", 300.0, "CASH", "2025-02-20", "", "tester", fixedNow).
			AddRow(61, 1, 9, "INSTALMENT", 400.0, "BANK_TRANSFER", "2025-03-01", "", "tester", fixedNow))
	mock.ExpectExec("UPDATE instalments SET paid_amount").WithArgs(400.0, "PAID", 9).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE bookings SET received").WithArgs(900.0, 100.0, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	out, err := InstalmentService{Deps: testDeps(conn)}.RecordPayment(context.Background(), 9, models.PaymentRequest{Amount: 400})
	if err != nil {
		t.Fatalf("RecordPayment error: %v", err)
	}
	if out.Booking.Received != 900 || out.Booking.Balance != 100 {
		t.Fatalf("booking received/balance = %.2f/%.2f", out.Booking.Received, out.Booking.Balance)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSettleBookingClosesOpenInstalments(t *testing.T) {
	conn, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectQuery("FROM bookings WHERE id=.* FOR UPDATE").WithArgs(1).
		WillReturnRows(bookingRow(1, domain.BookingConfirmed, 1000, 700, 500, 200.0, nil))
	mock.ExpectQuery("FROM instalment_payments WHERE booking_id").WithArgs(1).
		WillReturnRows(sqlmock.NewRows(paymentCols).
			AddRow(60, 1, 8, "INSTALMENT", 300.0, "CASH", "2025-02-20", "", "tester", fixedNow))
	mock.ExpectExec("INSERT INTO instalment_payments").
		WithArgs(1, nil, "SETTLEMENT", 500.0, "BANK_TRANSFER", sqlmock.AnyArg(), nil, "tester").
		WillReturnResult(sqlmock.NewResult(62, 1))
	mock.ExpectQuery("FROM instalment_payments WHERE booking_id").WithArgs(1).
		WillReturnRows(sqlmock.NewRows(paymentCols).
			AddRow(60, 1, 8, "INSTALMENT", 300.0, "CASH", "2025-02-20", "", "tester", fixedNow).
			AddRow(62, 1, nil, "SETTLEMENT", 500.0, "BANK_TRANSFER", "2025-03-01", "", "tester", fixedNow))
	mock.ExpectExec("UPDATE bookings SET received").WithArgs(1000.0, 0.0, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("FROM instalments WHERE booking_id").WithArgs(1).
		WillReturnRows(sqlmock.NewRows(instalmentCols).
			AddRow(8, 1, "2025-02-20", 300.0, 300.0, "PAID").
			AddRow(9, 1, "2025-02-27", 400.0, 0.0, "OVERDUE").
			AddRow(10, 1, "2025-03-06", 100.0, 0.0, "PENDING"))
	mock.ExpectExec("UPDATE instalments SET paid_amount").WithArgs(0.0, "SETTLEMENT", 9).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE instalments SET paid_amount").WithArgs(0.0, "SETTLEMENT", 10).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	out, err := InstalmentService{Deps: testDeps(conn)}.Settle(context.Background(), 1, models.PaymentRequest{Amount: 500})
	if err != nil {
		t.Fatalf("Settle error: %v", err)
	}
	if out.Booking.Received != 1000 || out.Booking.Balance != 0 || out.Payment.Kind != domain.KindSettlement {
		t.Fatalf("unexpected settlement result %+v", out)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSettleBookingPartialLeavesInstalmentsOpen(t *testing.T) {
	conn, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectQuery("FROM bookings WHERE id=.* FOR UPDATE").WithArgs(1).
		WillReturnRows(bookingRow(1, domain.BookingConfirmed, 1000, 700, 500, 200.0, nil))
	mock.ExpectQuery("FROM instalment_payments WHERE booking_id").WithArgs(1).
		WillReturnRows(sqlmock.NewRows(paymentCols).
			AddRow(60, 1, 8, "INSTALMENT", 300.0, "CASH", "2025-02-20", "", "tester", fixedNow))
	mock.ExpectExec("INSERT INTO instalment_payments").
		WithArgs(1, nil, "SETTLEMENT", 200.0, "BANK_TRANSFER", sqlmock.AnyArg(), nil, "tester").
		WillReturnResult(sqlmock.NewResult(62, 1))
	mock.ExpectQuery("FROM instalment_payments WHERE booking_id").WithArgs(1).
		WillReturnRows(sqlmock.NewRows(paymentCols).
			AddRow(60, 1, 8, "INSTALMENT", 300.0, "CASH", "2025-02-20", "", "tester", fixedNow).
			AddRow(62, 1, nil, "SETTLEMENT", 200.0, "BANK_TRANSFER", "2025-03-01", "", "tester", fixedNow))
	mock.ExpectExec("UPDATE bookings SET received").WithArgs(700.0, 300.0, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	out, err := InstalmentService{Deps: testDeps(conn)}.Settle(context.Background(), 1, models.PaymentRequest{Amount: 200})
	if err != nil {
		t.Fatalf("Settle error: %v", err)
	}
	if out.Booking.Balance != 300 {
		t.Fatalf("balance = %.2f, want 300", out.Booking.Balance)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSettleBookingRejectsMoreThanBalance(t *testing.T) {
	conn, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectQuery("FROM bookings WHERE id=.* FOR UPDATE").WithArgs(1).
		WillReturnRows(bookingRow(1, domain.BookingConfirmed, 1000, 700, 500, 200.0, nil))
	mock.ExpectRollback()

	_, err := InstalmentService{Deps: testDeps(conn)}.Settle(context.Background(), 1, models.PaymentRequest{Amount: 500.02})
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSettleObligationMovesThroughPartialToPaid(t *testing.T) {
	kinds := map[models.ObligationKind]string{
		models.CustomerPayable: "customer_payables",
		models.SupplierPayable: "supplier_payables",
		models.PassengerRefund: "passenger_refunds",
	}
	for kind, table := range kinds {
		conn, mock := newMock(t)

		// first 100 of 300
		mock.ExpectBegin()
		mock.ExpectQuery("FROM "+table+" WHERE id=.* FOR UPDATE").WithArgs(4).
			WillReturnRows(sqlmock.NewRows(obligationCols).AddRow(4, 1, 2, "QF", 300.0, 0.0, 300.0, "PENDING", "", fixedNow))
		mock.ExpectExec("INSERT INTO obligation_settlements").
			WithArgs(string(kind), 4, 100.0, "BANK_TRANSFER", sqlmock.AnyArg(), nil, nil, "tester").
			WillReturnResult(sqlmock.NewResult(20, 1))
		mock.ExpectQuery("FROM obligation_settlements").WithArgs(string(kind), 4).
			WillReturnRows(sqlmock.NewRows(settlementCols).
				AddRow(20, 4, 100.0, "BANK_TRANSFER", "2025-03-01", "", "", "tester", fixedNow))
		mock.ExpectExec("UPDATE "+table+" SET paid_amount").WithArgs(100.0, 200.0, "PARTIAL", 4).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		// the remaining 200
		mock.ExpectBegin()
		mock.ExpectQuery("FROM "+table+" WHERE id=.* FOR UPDATE").WithArgs(4).
			WillReturnRows(sqlmock.NewRows(obligationCols).AddRow(4, 1, 2, "QF", 300.0, 100.0, 200.0, "PARTIAL", "", fixedNow))
		mock.ExpectExec("INSERT INTO obligation_settlements").
			WithArgs(string(kind), 4, 200.0, "CASH", sqlmock.AnyArg(), nil, nil, "tester").
			WillReturnResult(sqlmock.NewResult(21, 1))
		mock.ExpectQuery("FROM obligation_settlements").WithArgs(string(kind), 4).
			WillReturnRows(sqlmock.NewRows(settlementCols).
				AddRow(20, 4, 100.0, "BANK_TRANSFER", "2025-03-01", "", "", "tester", fixedNow).
				AddRow(21, 4, 200.0, "CASH", "2025-03-01", "", "", "tester", fixedNow))
		mock.ExpectExec("UPDATE "+table+" SET paid_amount").WithArgs(300.0, 0.0, "PAID", 4).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		svc := CancellationService{Deps: testDeps(conn)}
		first, err := svc.SettleObligation(context.Background(), kind, 4, models.PaymentRequest{Amount: 100})
		if err != nil {
			t.Fatalf("%s: first settlement error: %v", kind, err)
		}
		if first.Obligation.Status != domain.SettlementPartial || first.Obligation.PendingAmount != 200 {
			t.Fatalf("%s: unexpected obligation after first settlement %+v", kind, first.Obligation)
		}
		second, err := svc.SettleObligation(context.Background(), kind, 4, models.PaymentRequest{Amount: 200, TransactionMethod: "cash"})
		if err != nil {
			t.Fatalf("%s: second settlement error: %v", kind, err)
		}
		if second.Obligation.Status != domain.SettlementPaid || second.Obligation.PaidAmount != 300 || second.Obligation.PendingAmount != 0 {
			t.Fatalf("%s: unexpected obligation after second settlement %+v", kind, second.Obligation)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Fatalf("%s: unmet expectations: %v", kind, err)
		}
	}
}

func TestSettleObligationRejectsMoreThanPending(t *testing.T) {
	conn, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectQuery("FROM supplier_payables WHERE id=.* FOR UPDATE").WithArgs(4).
		WillReturnRows(sqlmock.NewRows(obligationCols).AddRow(4, 1, 2, "QF", 300.0, 100.0, 200.0, "PARTIAL", "", fixedNow))
	mock.ExpectRollback()

	_, err := CancellationService{Deps: testDeps(conn)}.SettleObligation(context.Background(), models.SupplierPayable, 4, models.PaymentRequest{Amount: 250})
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSettleObligationUnknownKind(t *testing.T) {
	_, err := CancellationService{}.SettleObligation(context.Background(), "loan", 4, models.PaymentRequest{Amount: 10})
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateBookingLocksReceivedOncePaymentsExist(t *testing.T) {
	conn, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectQuery("FROM bookings WHERE id=.* FOR UPDATE").WithArgs(1).
		WillReturnRows(bookingRow(1, domain.BookingConfirmed, 1000, 700, 600, 200.0, nil))
	mock.ExpectQuery("FROM instalment_payments WHERE booking_id").WithArgs(1).
		WillReturnRows(sqlmock.NewRows(paymentCols).
			AddRow(60, 1, 8, "INSTALMENT", 400.0, "CASH", "2025-02-20", "", "tester", fixedNow))
	mock.ExpectRollback()

	received := utils.Amount(700)
	req := models.UpdateBookingRequest{PaxName: "Jane Doe", Revenue: 1000, ProdCost: 700, Received: &received}
	_, err := BookingService{Deps: testDeps(conn)}.Update(context.Background(), 1, req)
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUpdateBookingChecksCostItemsAgainstProdCost(t *testing.T) {
	conn, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectQuery("FROM bookings WHERE id=.* FOR UPDATE").WithArgs(1).
		WillReturnRows(bookingRow(1, domain.BookingConfirmed, 1000, 700, 0, 0.0, nil))
	mock.ExpectQuery("FROM instalment_payments WHERE booking_id").WithArgs(1).
		WillReturnRows(sqlmock.NewRows(paymentCols))
	mock.ExpectQuery("FROM cost_items WHERE booking_id").WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "booking_id", "category", "amount"}).AddRow(2, 1, "Flight", 700.0))
	mock.ExpectQuery("FROM cost_item_suppliers WHERE booking_id").WithArgs(1).
		WillReturnRows(sqlmock.NewRows(supplierCols))
	mock.ExpectRollback()

	req := models.UpdateBookingRequest{PaxName: "Jane Doe", Revenue: 1000, ProdCost: 800}
	_, err := BookingService{Deps: testDeps(conn)}.Update(context.Background(), 1, req)
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUpdateBookingWithoutPaymentsSetsReceived(t *testing.T) {
	conn, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectQuery("FROM bookings WHERE id=.* FOR UPDATE").WithArgs(1).
		WillReturnRows(bookingRow(1, domain.BookingConfirmed, 1000, 700, 0, nil, nil))
	mock.ExpectQuery("FROM instalment_payments WHERE booking_id").WithArgs(1).
		WillReturnRows(sqlmock.NewRows(paymentCols))
	mock.ExpectQuery("FROM cost_items WHERE booking_id").WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "booking_id", "category", "amount"}).AddRow(2, 1, "Flight", 700.0))
	mock.ExpectQuery("FROM cost_item_suppliers WHERE booking_id").WithArgs(1).
		WillReturnRows(sqlmock.NewRows(supplierCols))
	mock.ExpectExec("UPDATE bookings SET\\s+pax_name").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE bookings SET initial_deposit").WithArgs(300.0, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	received := utils.Amount(300)
	req := models.UpdateBookingRequest{PaxName: "Jane  Roe", Revenue: 1000, ProdCost: 700, TransFee: 20, Received: &received}
	out, err := BookingService{Deps: testDeps(conn)}.Update(context.Background(), 1, req)
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if out.PaxName != "Jane Roe" || out.Received != 300 || out.Balance != 700 || out.Profit != 280 {
		t.Fatalf("unexpected booking %+v", out.Financial)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDateChangeOfCancelledBookingConflicts(t *testing.T) {
	conn, mock := newMock(t)
	mock.ExpectQuery("FROM bookings WHERE id=").WithArgs(1).
		WillReturnRows(bookingRow(1, domain.BookingCancelled, 1000, 700, 1000, 1000.0, nil))

	req := models.DateChangeRequest{RefNo: "REF-2", PaymentMethod: "FULL", TravelDate: utils.NewDate(fixedNow.AddDate(0, 1, 0))}
	_, err := BookingService{Deps: testDeps(conn)}.DateChange(context.Background(), 1, req)
	if !domain.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRejectPendingBooking(t *testing.T) {
	conn, mock := newMock(t)
	mock.ExpectExec("DELETE FROM pending_bookings WHERE id").WithArgs(3).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM pending_bookings WHERE id").WithArgs(77).WillReturnResult(sqlmock.NewResult(0, 0))

	svc := BookingService{Deps: testDeps(conn)}
	if err := svc.Reject(context.Background(), 3); err != nil {
		t.Fatalf("Reject error: %v", err)
	}
	if err := svc.Reject(context.Background(), 77); !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
