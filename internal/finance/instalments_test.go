package finance

import (
	"math"
	"testing"
	"time"

	"backoffice/internal/domain"
)

var today = time.Date(2025, 3, 1, 15, 30, 0, 0, time.UTC)

func TestBuildPlanWeeklyWithin30(t *testing.T) {
	plan, err := BuildPlan(1000, 200, PlanRequest{Period: domain.PeriodWithin30, Strategy: domain.StrategyWeekly, Count: 4}, today)
	if err != nil {
		t.Fatalf("BuildPlan returned error: %v", err)
	}
	if plan.Total != 800 || plan.Interest != nil {
		t.Fatalf("unexpected plan totals %+v", plan)
	}
	if len(plan.Instalments) != 4 {
		t.Fatalf("expected 4 instalments, got %d", len(plan.Instalments))
	}
	for i, in := range plan.Instalments {
		want := DateOnly(today).AddDate(0, 0, 7*(i+1))
		if !in.DueDate.Equal(want) {
			t.Fatalf("instalment %d due %s, want %s", i, in.DueDate, want)
		}
		if in.Amount != 200 || in.Status != domain.InstalmentPending {
			t.Fatalf("instalment %d = %+v", i, in)
		}
	}
}

func TestWeeklyWithin30RejectsOutOfRange(t *testing.T) {
	if got := WeeklyWithin30(800, 5, today); len(got) != 0 {
		t.Fatalf("expected empty list for 5 weekly instalments, got %d", len(got))
	}
	if got := WeeklyWithin30(800, 0, today); len(got) != 0 {
		t.Fatalf("expected empty list for 0 instalments")
	}
	_, err := BuildPlan(1000, 200, PlanRequest{Period: domain.PeriodWithin30, Strategy: domain.StrategyWeekly, Count: 5}, today)
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestMonthlyWithin30OnlyOneInstalment(t *testing.T) {
	plan, err := BuildPlan(500, 100, PlanRequest{Period: domain.PeriodWithin30, Strategy: domain.StrategyMonthly, Count: 1}, today)
	if err != nil {
		t.Fatalf("BuildPlan returned error: %v", err)
	}
	if len(plan.Instalments) != 1 || plan.Instalments[0].Amount != 400 {
		t.Fatalf("unexpected plan %+v", plan)
	}
	if _, err := BuildPlan(500, 100, PlanRequest{Period: domain.PeriodWithin30, Strategy: domain.StrategyMonthly, Count: 2}, today); !domain.IsValidation(err) {
		t.Fatalf("expected validation error for 2 monthly instalments, got %v", err)
	}
}

func TestQuoteInterest(t *testing.T) {
	q, err := QuoteInterest(2000, 500, 6)
	if err != nil {
		t.Fatalf("QuoteInterest returned error: %v", err)
	}
	if q.BalanceAfterDeposit != 1500 || q.Interest != 82.5 || q.TotalPayable != 1582.5 || q.FinalRevenue != 2082.5 {
		t.Fatalf("unexpected quote %+v", q)
	}
	if _, err := QuoteInterest(math.NaN(), 0, 6); !domain.IsValidation(err) {
		t.Fatalf("NaN revenue should be rejected, got %v", err)
	}
	if _, err := QuoteInterest(2000, -1, 6); !domain.IsValidation(err) {
		t.Fatalf("negative deposit should be rejected, got %v", err)
	}
}

func TestBuildPlanMonthlyBeyond30(t *testing.T) {
	plan, err := BuildPlan(2000, 500, PlanRequest{Period: domain.PeriodBeyond30, Strategy: domain.StrategyMonthly, Count: 6}, today)
	if err != nil {
		t.Fatalf("BuildPlan returned error: %v", err)
	}
	if plan.Interest == nil || plan.Interest.RepaymentMonths != 6 {
		t.Fatalf("expected a 6 month interest quote, got %+v", plan.Interest)
	}
	if plan.Total != 1582.5 || plan.Interest.FinalRevenue != 2082.5 {
		t.Fatalf("unexpected totals %+v", plan.Interest)
	}
	amounts := make([]float64, 0, len(plan.Instalments))
	for _, in := range plan.Instalments {
		amounts = append(amounts, in.Amount)
	}
	if Sum(amounts...) != plan.Total {
		t.Fatalf("instalments sum to %v, want %v", Sum(amounts...), plan.Total)
	}
}

func TestRepaymentMonthsRoundsUp(t *testing.T) {
	if got := RepaymentMonths(today, today.AddDate(0, 0, 31)); got != 2 {
		t.Fatalf("31 days should be 2 months, got %d", got)
	}
	if got := RepaymentMonths(today, today.AddDate(0, 0, 30)); got != 1 {
		t.Fatalf("30 days should be 1 month, got %d", got)
	}
}

func TestCustomSchedule(t *testing.T) {
	entries := []CustomInstalment{
		{DueDate: today.AddDate(0, 0, 20), Amount: 300},
		{DueDate: today.AddDate(0, 0, 10), Amount: 500},
	}
	out, err := CustomSchedule(800, entries, domain.PeriodWithin30, today)
	if err != nil {
		t.Fatalf("CustomSchedule returned error: %v", err)
	}
	if out[0].Amount != 500 || out[1].Amount != 300 {
		t.Fatalf("entries not sorted by due date: %+v", out)
	}

	cases := []struct {
		name    string
		total   float64
		entries []CustomInstalment
	}{
		{"sum mismatch", 800, []CustomInstalment{{DueDate: today.AddDate(0, 0, 5), Amount: 700}}},
		{"past date", 800, []CustomInstalment{{DueDate: today.AddDate(0, 0, -1), Amount: 800}}},
		{"beyond 30", 800, []CustomInstalment{{DueDate: today.AddDate(0, 0, 31), Amount: 800}}},
		{"zero amount", 800, []CustomInstalment{{DueDate: today.AddDate(0, 0, 5), Amount: 0}, {DueDate: today.AddDate(0, 0, 6), Amount: 800}}},
		{"empty", 800, nil},
	}
	for _, tc := range cases {
		if _, err := CustomSchedule(tc.total, tc.entries, domain.PeriodWithin30, today); !domain.IsValidation(err) {
			t.Fatalf("%s: expected validation error, got %v", tc.name, err)
		}
	}
}

func TestInstalmentStatusFor(t *testing.T) {
	due := today.AddDate(0, 0, -1)
	if got := InstalmentStatusFor(domain.InstalmentPending, 200, 50, due, today); got != domain.InstalmentOverdue {
		t.Fatalf("expected OVERDUE, got %s", got)
	}
	if got := InstalmentStatusFor(domain.InstalmentOverdue, 200, 199.995, due, today); got != domain.InstalmentPaid {
		t.Fatalf("expected PAID, got %s", got)
	}
	if got := InstalmentStatusFor(domain.InstalmentSettlement, 200, 0, due, today); got != domain.InstalmentSettlement {
		t.Fatalf("SETTLEMENT must be terminal, got %s", got)
	}
	if got := InstalmentStatusFor(domain.InstalmentPending, 200, 0, today, today); got != domain.InstalmentPending {
		t.Fatalf("expected PENDING on the due date, got %s", got)
	}
}

func TestBuildPlanRejectsNonPositiveInstalments(t *testing.T) {
	cases := []struct {
		name     string
		revenue  float64
		received float64
		req      PlanRequest
	}{
		{"within30 weekly tiny balance", 0.02, 0, PlanRequest{Period: domain.PeriodWithin30, Strategy: domain.StrategyWeekly, Count: 4}},
		{"beyond30 weekly too many", 110, 100, PlanRequest{Period: domain.PeriodBeyond30, Strategy: domain.StrategyWeekly, Count: 600}},
	}
	for _, tc := range cases {
		plan, err := BuildPlan(tc.revenue, tc.received, tc.req, today)
		if !domain.IsValidation(err) {
			t.Fatalf("%s: expected validation error, got %v (plan %+v)", tc.name, err, plan.Instalments)
		}
	}
}

func TestBuildPlanBeyond30MustEndAfter30Days(t *testing.T) {
	short := []PlanRequest{
		{Period: domain.PeriodBeyond30, Strategy: domain.StrategyWeekly, Count: 4},
		{Period: domain.PeriodBeyond30, Strategy: domain.StrategyMonthly, Count: 1},
		{Period: domain.PeriodBeyond30, Strategy: domain.StrategyCustom, Custom: []CustomInstalment{{DueDate: today.AddDate(0, 0, 20), Amount: 500}}},
	}
	for _, req := range short {
		if _, err := BuildPlan(1000, 500, req, today); !domain.IsValidation(err) {
			t.Fatalf("%s/%d: expected validation error, got %v", req.Strategy, req.Count, err)
		}
	}
	plan, err := BuildPlan(1000, 500, PlanRequest{Period: domain.PeriodBeyond30, Strategy: domain.StrategyWeekly, Count: 5}, today)
	if err != nil {
		t.Fatalf("5 weekly instalments run past 30 days: %v", err)
	}
	if plan.Interest == nil || plan.Interest.RepaymentMonths != 2 {
		t.Fatalf("expected 2 months of interest, got %+v", plan.Interest)
	}
}
