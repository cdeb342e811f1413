package tax

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ledgerbook/ledgerbook/internal/model"
)

// Band is the part of an income taxed within one slab.
type Band struct {
	Slab    model.TaxSlab
	Taxable decimal.Decimal
	Tax     decimal.Decimal
}

// ProgressiveResult is the outcome of a slab calculation.
type ProgressiveResult struct {
	TaxAmount            decimal.Decimal
	EffectiveRatePercent decimal.Decimal
	Explanation          string
	Bands                []Band
}

// CalculateProgressive taxes each portion of income at the marginal rate of
// the slab it falls in.
func CalculateProgressive(income decimal.Decimal, schedule Schedule) (ProgressiveResult, error) {
	if income.IsNegative() {
		return ProgressiveResult{}, invalidAmount("income %s is negative", income)
	}
	if err := schedule.Validate(); err != nil {
		return ProgressiveResult{}, err
	}

	total := decimal.Zero
	var bands []Band
	for _, slab := range schedule {
		if income.LessThanOrEqual(slab.Lower) {
			break
		}
		top := income
		if !slab.Contains(income) {
			top = slab.Upper.Decimal
		}
		taxable := top.Sub(slab.Lower)
		tax := taxable.Mul(slab.Rate).Div(hundred)
		total = total.Add(tax)
		bands = append(bands, Band{Slab: slab, Taxable: taxable, Tax: tax})
	}

	effective := decimal.Zero
	if income.IsPositive() {
		effective = total.Div(income).Mul(hundred)
	}

	return ProgressiveResult{
		TaxAmount:            total,
		EffectiveRatePercent: effective,
		Explanation:          explain(bands, total),
		Bands:                bands,
	}, nil
}

func explain(bands []Band, total decimal.Decimal) string {
	if len(bands) == 0 {
		return "No taxable income"
	}
	if total.IsZero() {
		return fmt.Sprintf("No tax for income up to %s", bandTop(bands[len(bands)-1]))
	}

	parts := make([]string, 0, len(bands))
	for _, b := range bands {
		if b.Slab.Rate.IsZero() {
			parts = append(parts, fmt.Sprintf("first %s tax-free", b.Taxable.StringFixed(2)))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s%% on %s = %s",
			b.Slab.Rate.String(), b.Taxable.StringFixed(2), b.Tax.StringFixed(2)))
	}
	return strings.Join(parts, "; ") + fmt.Sprintf("; total %s", total.StringFixed(2))
}

func bandTop(b Band) string {
	return b.Slab.Lower.Add(b.Taxable).StringFixed(2)
}
