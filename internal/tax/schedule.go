package tax

import (
	"github.com/shopspring/decimal"

	"github.com/ledgerbook/ledgerbook/internal/model"
)

// Schedule is an ordered slab table covering [0, ∞).
type Schedule []model.TaxSlab

// Validate checks that the schedule starts at 0, is contiguous and ascending,
// ends with an unbounded slab and has no negative rates.
func (s Schedule) Validate() error {
	if len(s) == 0 {
		return ErrEmptySlabTable
	}
	if !s[0].Lower.IsZero() {
		return invalidSlabs("first slab starts at %s, not 0", s[0].Lower)
	}

	for i, slab := range s {
		if slab.Rate.IsNegative() {
			return invalidSlabs("slab %d has negative rate %s%%", i+1, slab.Rate)
		}
		last := i == len(s)-1
		if !slab.Upper.Valid {
			if !last {
				return invalidSlabs("slab %d is unbounded but is not the last slab", i+1)
			}
			continue
		}
		if last {
			return invalidSlabs("last slab must be unbounded")
		}
		if !slab.Upper.Decimal.GreaterThan(slab.Lower) {
			return invalidSlabs("slab %d upper bound %s is not above %s", i+1, slab.Upper.Decimal, slab.Lower)
		}
		if next := s[i+1].Lower; !next.Equal(slab.Upper.Decimal) {
			return invalidSlabs("slab %d starts at %s, expected %s", i+2, next, slab.Upper.Decimal)
		}
	}
	return nil
}

// Slab builds a bounded slab [lower, upper) at rate percent.
func Slab(lower, upper, rate int64) model.TaxSlab {
	return model.TaxSlab{
		Lower: decimal.NewFromInt(lower),
		Upper: decimal.NewNullDecimal(decimal.NewFromInt(upper)),
		Rate:  decimal.NewFromInt(rate),
	}
}

// TopSlab builds the final unbounded slab [lower, ∞).
func TopSlab(lower, rate int64) model.TaxSlab {
	return model.TaxSlab{
		Lower: decimal.NewFromInt(lower),
		Rate:  decimal.NewFromInt(rate),
	}
}

// ReferenceSchedule is the Bangladesh personal income tax table for
// 2024-2025.
func ReferenceSchedule() Schedule {
	return Schedule{
		Slab(0, 300000, 0),
		Slab(300000, 400000, 5),
		Slab(400000, 700000, 10),
		Slab(700000, 1000000, 15),
		TopSlab(1000000, 20),
	}
}

// FlatSchedule is a single unbounded slab at ratePercent, so flat taxes can
// run through CalculateProgressive.
func FlatSchedule(ratePercent decimal.Decimal) Schedule {
	return Schedule{{Lower: decimal.Zero, Rate: ratePercent}}
}
