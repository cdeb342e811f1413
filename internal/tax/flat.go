package tax

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// FlatResult is the outcome of a flat-rate calculation.
type FlatResult struct {
	TaxAmount   decimal.Decimal
	TotalAmount decimal.Decimal
}

// CalculateFlat applies ratePercent to amount. Results keep full precision;
// round only for display.
func CalculateFlat(amount, ratePercent decimal.Decimal) (FlatResult, error) {
	if amount.IsNegative() {
		return FlatResult{}, invalidAmount("amount %s is negative", amount)
	}
	if ratePercent.IsNegative() {
		return FlatResult{}, invalidAmount("rate %s%% is negative", ratePercent)
	}

	tax := amount.Mul(ratePercent).Div(hundred)
	return FlatResult{
		TaxAmount:   tax,
		TotalAmount: amount.Add(tax),
	}, nil
}
