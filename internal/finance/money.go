// Package finance holds the booking money rules: derived totals, instalment
// plans, supplier allocation, cancellation outcomes and settlement recomputation.
// Nothing here touches the database.
package finance

import (
	"math"

	"github.com/shopspring/decimal"
)

// Epsilon is the tolerance used for every sum and limit comparison.
const Epsilon = 0.01

var epsilon = decimal.NewFromFloat(Epsilon)

func dec(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

// Round2 rounds half away from zero to two decimals.
func Round2(v float64) float64 {
	return dec(v).Round(2).InexactFloat64()
}

// Sum adds amounts without accumulating binary float drift.
func Sum(values ...float64) float64 {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(dec(v))
	}
	return total.Round(2).InexactFloat64()
}

// Sub returns a-b rounded to two decimals.
func Sub(a, b float64) float64 {
	return dec(a).Sub(dec(b)).Round(2).InexactFloat64()
}

// Equal reports |a-b| <= 0.01.
func Equal(a, b float64) bool {
	return dec(a).Sub(dec(b)).Abs().LessThanOrEqual(epsilon)
}

// Exceeds reports amount > limit + 0.01.
func Exceeds(amount, limit float64) bool {
	return dec(amount).GreaterThan(dec(limit).Add(epsilon))
}

// IsZero reports |v| <= 0.01.
func IsZero(v float64) bool { return Equal(v, 0) }

// SplitEvenly divides total into n parts of round2(total/n); the last part
// takes the rounding remainder so the parts always add back to total.
func SplitEvenly(total float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	t := dec(total).Round(2)
	part := t.Div(decimal.NewFromInt(int64(n))).Round(2)
	out := make([]float64, n)
	for i := 0; i < n-1; i++ {
		out[i] = part.InexactFloat64()
	}
	out[n-1] = t.Sub(part.Mul(decimal.NewFromInt(int64(n - 1)))).InexactFloat64()
	return out
}

func validAmount(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}
