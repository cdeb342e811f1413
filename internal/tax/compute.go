package tax

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerbook/ledgerbook/internal/id"
	"github.com/ledgerbook/ledgerbook/internal/model"
)

// Basis is how a calculation is rated: FlatRate or Progressive.
type Basis interface {
	isBasis()
}

// FlatRate taxes the whole amount at Percent.
type FlatRate struct {
	Percent decimal.Decimal
}

// Progressive taxes the amount through a slab Schedule.
type Progressive struct {
	TaxYear  string
	Schedule Schedule
}

func (FlatRate) isBasis()    {}
func (Progressive) isBasis() {}

// Calculator produces TaxCalculation records.
type Calculator struct {
	now func() time.Time
}

// NewCalculator creates a Calculator. A nil clock uses time.Now.
func NewCalculator(now func() time.Time) *Calculator {
	if now == nil {
		now = time.Now
	}
	return &Calculator{now: now}
}

// Compute calculates tax on amount for kind and returns a new record.
func (c *Calculator) Compute(kind model.TaxKind, amount decimal.Decimal, basis Basis) (model.TaxCalculation, error) {
	if !validKind(kind) {
		return model.TaxCalculation{}, Error{Kind: KindInvalidKind, Detail: fmt.Sprintf("%q", kind)}
	}

	rec := model.TaxCalculation{
		Kind:        kind,
		GrossAmount: amount,
	}

	switch b := basis.(type) {
	case FlatRate:
		res, err := CalculateFlat(amount, b.Percent)
		if err != nil {
			return model.TaxCalculation{}, err
		}
		rate := b.Percent
		rec.AppliedRate = &rate
		rec.TaxAmount = res.TaxAmount
		rec.Explanation = fmt.Sprintf("%s at %s%% on %s", kind.Label(), b.Percent, amount.StringFixed(2))
	case Progressive:
		res, err := CalculateProgressive(amount, b.Schedule)
		if err != nil {
			return model.TaxCalculation{}, err
		}
		rec.TaxYear = b.TaxYear
		rec.TaxAmount = res.TaxAmount
		rec.Explanation = res.Explanation
	default:
		return model.TaxCalculation{}, fmt.Errorf("unsupported tax basis %T", basis)
	}

	now := c.now()
	y, m, d := now.Date()
	rec.ID = id.New()
	rec.Date = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	rec.TotalAmount = rec.GrossAmount.Add(rec.TaxAmount)
	return rec, nil
}

func validKind(kind model.TaxKind) bool {
	for _, k := range model.TaxKinds {
		if k == kind {
			return true
		}
	}
	return false
}
