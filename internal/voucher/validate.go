package voucher

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ledgerbook/ledgerbook/internal/model"
)

// DefaultTolerance is the largest |ΣDebit − ΣCredit| still considered balanced.
var DefaultTolerance = decimal.New(1, -2)

// AccountChecker tests whether an account head exists in the chart of accounts.
type AccountChecker interface {
	Exists(name string) bool
}

// Totals are the summed sides of a draft.
type Totals struct {
	Debit      decimal.Decimal
	Credit     decimal.Decimal
	Difference decimal.Decimal // Debit − Credit
}

// Balanced reports whether the difference is within tolerance.
func (t Totals) Balanced(tolerance decimal.Decimal) bool {
	return t.Difference.Abs().LessThanOrEqual(tolerance)
}

// Check validates a draft without side effects. Checks run in a fixed order
// and the first failure is returned. accounts may be nil to skip the chart
// lookup. For an unbalanced draft the computed totals are returned alongside
// the error.
func Check(d model.VoucherDraft, accounts AccountChecker, tolerance decimal.Decimal) (Totals, error) {
	if strings.TrimSpace(d.Narration) == "" {
		return Totals{}, ValidationError{Kind: KindEmptyNarration, Line: NoLine}
	}
	if !d.Type.Valid() {
		return Totals{}, ValidationError{Kind: KindInvalidType, Line: NoLine}
	}
	if len(d.Lines) == 0 {
		return Totals{}, ValidationError{Kind: KindNoLines, Line: NoLine}
	}

	totals := Totals{Debit: decimal.Zero, Credit: decimal.Zero}
	for i, line := range d.Lines {
		account := strings.TrimSpace(line.Account)
		if account == "" {
			return Totals{}, ValidationError{Kind: KindMissingAccount, Line: i}
		}
		if accounts != nil && !accounts.Exists(account) {
			return Totals{}, ValidationError{Kind: KindUnknownAccount, Line: i, Account: account}
		}
		if line.Debit.IsNegative() || line.Credit.IsNegative() {
			return Totals{}, ValidationError{Kind: KindInvalidAmount, Line: i, Account: account}
		}
		totals.Debit = totals.Debit.Add(line.Debit)
		totals.Credit = totals.Credit.Add(line.Credit)
	}

	totals.Difference = totals.Debit.Sub(totals.Credit)
	if !totals.Balanced(tolerance) {
		return totals, ValidationError{Kind: KindUnbalanced, Line: NoLine, Difference: totals.Difference}
	}
	return totals, nil
}
