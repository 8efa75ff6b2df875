package salary

import "github.com/shopspring/decimal"

// IncreasePercentage computes the raise as a percentage of the current
// salary, rounded half-up to two decimals. The stored value is always
// derived here; client-supplied values are ignored.
func IncreasePercentage(current, proposed float64) float64 {
	if current <= 0 {
		return 0
	}
	cur := decimal.NewFromFloat(current)
	prop := decimal.NewFromFloat(proposed)
	pct := prop.Sub(cur).Div(cur).Mul(decimal.NewFromInt(100))
	out, _ := pct.Round(2).Float64()
	return out
}

// ValidProposal enforces the create-time invariant that a review must
// propose a strictly higher salary.
func ValidProposal(current, proposed float64) bool {
	return current > 0 && proposed > current
}
