package finance

import (
	"sort"
	"time"

	"backoffice/internal/domain"

	"github.com/shopspring/decimal"
)

const (
	// AnnualInterestRate applies to plans repaid beyond 30 days.
	AnnualInterestRate = 0.11
	within30Limit      = 30
	maxWeeklyWithin30  = 4
)

type PlannedInstalment struct {
	DueDate time.Time               `json:"dueDate"`
	Amount  float64                 `json:"amount"`
	Status  domain.InstalmentStatus `json:"status"`
}

type CustomInstalment struct {
	DueDate time.Time `json:"dueDate"`
	Amount  float64   `json:"amount"`
}

type PlanRequest struct {
	Period   domain.PlanPeriod   `json:"period"`
	Strategy domain.PlanStrategy `json:"strategy"`
	Count    int                 `json:"count"`
	Custom   []CustomInstalment  `json:"custom,omitempty"`
}

// InterestQuote is the simple-interest breakdown of a beyond-30 plan.
type InterestQuote struct {
	DepositPaid         float64 `json:"depositPaid"`
	BalanceAfterDeposit float64 `json:"balanceAfterDeposit"`
	MonthlyRate         float64 `json:"monthlyRate"`
	RepaymentMonths     int     `json:"repaymentMonths"`
	Interest            float64 `json:"interest"`
	TotalPayable        float64 `json:"totalPayable"`
	FinalRevenue        float64 `json:"finalRevenue"`
}

type Plan struct {
	Period      domain.PlanPeriod   `json:"period"`
	Strategy    domain.PlanStrategy `json:"strategy"`
	Instalments []PlannedInstalment `json:"instalments"`
	Interest    *InterestQuote      `json:"interest,omitempty"`
	Total       float64             `json:"total"`
}

// DateOnly drops the clock part, keeping the calendar date.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween counts calendar days from a to b.
func DaysBetween(a, b time.Time) int {
	return int(DateOnly(b).Sub(DateOnly(a)).Hours() / 24)
}

// WeeklyWithin30 schedules n weekly instalments. It returns an empty list when
// n is out of range or any due date lands after today+30.
func WeeklyWithin30(total float64, n int, today time.Time) []PlannedInstalment {
	if n < 1 || n > maxWeeklyWithin30 {
		return []PlannedInstalment{}
	}
	out := Spaced(total, n, 7, today)
	limit := DateOnly(today).AddDate(0, 0, within30Limit)
	for _, in := range out {
		if in.DueDate.After(limit) {
			return []PlannedInstalment{}
		}
	}
	return out
}

// Spaced schedules n instalments every spacingDays starting one period from today.
func Spaced(total float64, n, spacingDays int, today time.Time) []PlannedInstalment {
	amounts := SplitEvenly(total, n)
	start := DateOnly(today)
	out := make([]PlannedInstalment, 0, n)
	for i, amt := range amounts {
		out = append(out, PlannedInstalment{
			DueDate: start.AddDate(0, 0, spacingDays*(i+1)),
			Amount:  amt,
			Status:  domain.InstalmentPending,
		})
	}
	return out
}

// CustomSchedule validates caller supplied instalments against the expected total.
func CustomSchedule(total float64, entries []CustomInstalment, period domain.PlanPeriod, today time.Time) ([]PlannedInstalment, error) {
	if len(entries) == 0 {
		return nil, domain.Invalid("instalmentPlan.custom", "at least one instalment is required")
	}
	start := DateOnly(today)
	limit := start.AddDate(0, 0, within30Limit)
	out := make([]PlannedInstalment, 0, len(entries))
	amounts := make([]float64, 0, len(entries))
	for i, e := range entries {
		if e.DueDate.IsZero() {
			return nil, domain.Invalid("instalmentPlan.custom", "instalment %d has no due date", i+1)
		}
		due := DateOnly(e.DueDate)
		if due.Before(start) {
			return nil, domain.Invalid("instalmentPlan.custom", "instalment %d is due in the past", i+1)
		}
		if period == domain.PeriodWithin30 && due.After(limit) {
			return nil, domain.Invalid("instalmentPlan.custom", "instalment %d is due after %s", i+1, limit.Format("2006-01-02"))
		}
		if !validAmount(e.Amount) || IsZero(e.Amount) {
			return nil, domain.Invalid("instalmentPlan.custom", "instalment %d amount must be greater than 0", i+1)
		}
		amounts = append(amounts, e.Amount)
		out = append(out, PlannedInstalment{DueDate: due, Amount: Round2(e.Amount), Status: domain.InstalmentPending})
	}
	if sum := Sum(amounts...); !Equal(sum, total) {
		return nil, domain.Invalid("instalmentPlan.custom", "instalments add up to %.2f, expected %.2f", sum, total)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DueDate.Before(out[j].DueDate) })
	return out, nil
}

// RepaymentMonths is ceil(days until the last instalment / 30).
func RepaymentMonths(today, lastDue time.Time) int {
	days := DaysBetween(today, lastDue)
	if days <= 0 {
		return 0
	}
	return (days + 29) / 30
}

// QuoteInterest applies 11% a year as simple monthly interest on the balance after deposit.
func QuoteInterest(totalSellingPrice, depositPaid float64, months int) (InterestQuote, error) {
	if !validAmount(totalSellingPrice) {
		return InterestQuote{}, domain.Invalid("revenue", "must be a non-negative number")
	}
	if !validAmount(depositPaid) {
		return InterestQuote{}, domain.Invalid("received", "must be a non-negative number")
	}
	if months < 1 {
		return InterestQuote{}, domain.Invalid("instalmentPlan", "repayment period must be at least one month")
	}
	balance := dec(totalSellingPrice).Sub(dec(depositPaid))
	if balance.LessThanOrEqual(decimal.Zero) {
		return InterestQuote{}, domain.Invalid("instalmentPlan", "nothing left to repay after deposit")
	}
	rate := dec(AnnualInterestRate).Div(decimal.NewFromInt(12))
	interest := balance.Mul(rate).Mul(decimal.NewFromInt(int64(months))).Round(2)
	payable := balance.Add(interest)
	return InterestQuote{
		DepositPaid:         Round2(depositPaid),
		BalanceAfterDeposit: balance.Round(2).InexactFloat64(),
		MonthlyRate:         rate.InexactFloat64(),
		RepaymentMonths:     months,
		Interest:            interest.InexactFloat64(),
		TotalPayable:        payable.Round(2).InexactFloat64(),
		FinalRevenue:        dec(depositPaid).Add(payable).Round(2).InexactFloat64(),
	}, nil
}

// BuildPlan produces the instalment schedule for a booking repaid internally.
// revenue is the selling price before interest and received is the deposit.
func BuildPlan(revenue, received float64, req PlanRequest, today time.Time) (Plan, error) {
	if !validAmount(revenue) {
		return Plan{}, domain.Invalid("revenue", "must be a non-negative number")
	}
	if !validAmount(received) {
		return Plan{}, domain.Invalid("received", "must be a non-negative number")
	}
	plan := Plan{Period: req.Period, Strategy: req.Strategy}

	switch req.Period {
	case domain.PeriodWithin30:
		total := Sub(revenue, received)
		if total <= 0 || IsZero(total) {
			return Plan{}, domain.Invalid("instalmentPlan", "balance must be greater than 0")
		}
		var items []PlannedInstalment
		switch req.Strategy {
		case domain.StrategyWeekly:
			items = WeeklyWithin30(total, req.Count, today)
		case domain.StrategyMonthly:
			if req.Count == 1 {
				items = Spaced(total, 1, within30Limit, today)
			}
		case domain.StrategyCustom:
			custom, err := CustomSchedule(total, req.Custom, req.Period, today)
			if err != nil {
				return Plan{}, err
			}
			items = custom
		default:
			return Plan{}, domain.Invalid("instalmentPlan.strategy", "unknown strategy %q", req.Strategy)
		}
		if len(items) == 0 {
			return Plan{}, domain.Invalid("instalmentPlan", "%s plan with %d instalments does not fit within 30 days", req.Strategy, req.Count)
		}
		plan.Instalments = items
		plan.Total = total

	case domain.PeriodBeyond30:
		var last time.Time
		switch req.Strategy {
		case domain.StrategyWeekly, domain.StrategyMonthly:
			if req.Count < 1 {
				return Plan{}, domain.Invalid("instalmentPlan.count", "must be at least 1")
			}
			last = DateOnly(today).AddDate(0, 0, spacing(req.Strategy)*req.Count)
		case domain.StrategyCustom:
			if len(req.Custom) == 0 {
				return Plan{}, domain.Invalid("instalmentPlan.custom", "at least one instalment is required")
			}
			for _, c := range req.Custom {
				if d := DateOnly(c.DueDate); d.After(last) {
					last = d
				}
			}
		default:
			return Plan{}, domain.Invalid("instalmentPlan.strategy", "unknown strategy %q", req.Strategy)
		}
		if limit := DateOnly(today).AddDate(0, 0, within30Limit); !last.After(limit) {
			return Plan{}, domain.Invalid("instalmentPlan", "beyond30 plan must end after %s, use within30", limit.Format("2006-01-02"))
		}
		quote, err := QuoteInterest(revenue, received, RepaymentMonths(today, last))
		if err != nil {
			return Plan{}, err
		}
		if req.Strategy == domain.StrategyCustom {
			items, err := CustomSchedule(quote.TotalPayable, req.Custom, req.Period, today)
			if err != nil {
				return Plan{}, err
			}
			plan.Instalments = items
		} else {
			plan.Instalments = Spaced(quote.TotalPayable, req.Count, spacing(req.Strategy), today)
		}
		plan.Interest = &quote
		plan.Total = quote.TotalPayable

	default:
		return Plan{}, domain.Invalid("instalmentPlan.period", "unknown period %q", req.Period)
	}
	for i, in := range plan.Instalments {
		if in.Amount <= 0 || IsZero(in.Amount) {
			return Plan{}, domain.Invalid("instalmentPlan.count", "%d instalments leave instalment %d at %.2f, use fewer instalments", len(plan.Instalments), i+1, in.Amount)
		}
	}
	return plan, nil
}

func spacing(s domain.PlanStrategy) int {
	if s == domain.StrategyMonthly {
		return 30
	}
	return 7
}

// InstalmentStatusFor derives the current status of an instalment from what
// has been paid against it. PAID and SETTLEMENT never change back.
func InstalmentStatusFor(current domain.InstalmentStatus, amount, paid float64, due, today time.Time) domain.InstalmentStatus {
	if current.Closed() {
		return current
	}
	if !Exceeds(amount, paid) {
		return domain.InstalmentPaid
	}
	if DateOnly(due).Before(DateOnly(today)) {
		return domain.InstalmentOverdue
	}
	return domain.InstalmentPending
}
