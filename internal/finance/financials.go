package finance

// Financials are the values derived from a booking's financial quintet.
type Financials struct {
	Profit  float64 `json:"profit"`
	Balance float64 `json:"balance"`
}

// DeriveFinancials computes profit = revenue - prodCost - transFee - surcharge
// and balance = revenue - received. Results may be negative.
func DeriveFinancials(revenue, prodCost, transFee, surcharge, received float64) Financials {
	profit := dec(revenue).Sub(dec(prodCost)).Sub(dec(transFee)).Sub(dec(surcharge))
	balance := dec(revenue).Sub(dec(received))
	return Financials{
		Profit:  profit.Round(2).InexactFloat64(),
		Balance: balance.Round(2).InexactFloat64(),
	}
}
