package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TaxKind is the closed set of tax calculations the engine performs.
type TaxKind string

const (
	TaxVAT       TaxKind = "vat"
	TaxIncome    TaxKind = "income_tax"
	TaxCorporate TaxKind = "corporate_tax"
)

// TaxKinds lists every tax kind in display order.
var TaxKinds = []TaxKind{TaxVAT, TaxIncome, TaxCorporate}

// Label returns the human-readable name, e.g. "Income Tax".
func (k TaxKind) Label() string {
	switch k {
	case TaxVAT:
		return "VAT"
	case TaxIncome:
		return "Income Tax"
	case TaxCorporate:
		return "Corporate Tax"
	}
	return string(k)
}

// ParseTaxKind accepts "vat", "Income Tax", "income-tax" or "corporate_tax".
func ParseTaxKind(s string) (TaxKind, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer(" ", "_", "-", "_").Replace(norm)
	for _, k := range TaxKinds {
		if norm == string(k) {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown tax kind %q", s)
}

// TaxSlab is one band of a progressive schedule. An invalid Upper means the
// band is unbounded.
type TaxSlab struct {
	Lower decimal.Decimal
	Upper decimal.NullDecimal
	Rate  decimal.Decimal // percent
}

// Contains reports whether amount falls in [Lower, Upper).
func (s TaxSlab) Contains(amount decimal.Decimal) bool {
	if amount.LessThan(s.Lower) {
		return false
	}
	return !s.Upper.Valid || amount.LessThan(s.Upper.Decimal)
}

// TaxCalculation is an immutable record of one tax computation.
type TaxCalculation struct {
	ID          string
	Date        time.Time
	Kind        TaxKind
	GrossAmount decimal.Decimal
	AppliedRate *decimal.Decimal // nil for progressive calculations
	TaxAmount   decimal.Decimal
	TotalAmount decimal.Decimal
	TaxYear     string
	Explanation string
}
