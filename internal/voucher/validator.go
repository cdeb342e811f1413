package voucher

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerbook/ledgerbook/internal/id"
	"github.com/ledgerbook/ledgerbook/internal/model"
)

// Validator checks drafts and numbers the ones that pass.
type Validator struct {
	seq       Sequencer
	accounts  AccountChecker
	tolerance decimal.Decimal
	prefixes  map[model.VoucherType]string
	now       func() time.Time
}

// Option configures a Validator.
type Option func(*Validator)

// WithAccounts restricts line accounts to the given chart.
func WithAccounts(accounts AccountChecker) Option {
	return func(v *Validator) {
		v.accounts = accounts
	}
}

// WithTolerance overrides DefaultTolerance.
func WithTolerance(tolerance decimal.Decimal) Option {
	return func(v *Validator) {
		v.tolerance = tolerance.Abs()
	}
}

// WithPrefixes overrides the number prefix per voucher type. Types missing
// from the map keep their default prefix.
func WithPrefixes(prefixes map[model.VoucherType]string) Option {
	return func(v *Validator) {
		for t, p := range prefixes {
			if p = strings.TrimSpace(p); p != "" {
				v.prefixes[t] = p
			}
		}
	}
}

// WithClock sets the time source used for default dates and CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(v *Validator) {
		v.now = now
	}
}

// NewValidator creates a Validator that draws numbers from seq.
func NewValidator(seq Sequencer, opts ...Option) *Validator {
	v := &Validator{
		seq:       seq,
		tolerance: DefaultTolerance,
		prefixes:  make(map[model.VoucherType]string, len(model.VoucherTypes)),
		now:       time.Now,
	}
	for _, t := range model.VoucherTypes {
		v.prefixes[t] = t.Prefix()
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Check runs Check with the validator's chart and tolerance.
func (v *Validator) Check(d model.VoucherDraft) (Totals, error) {
	return Check(d, v.accounts, v.tolerance)
}

// Prefix returns the number prefix used for t.
func (v *Validator) Prefix(t model.VoucherType) string {
	return v.prefixes[t]
}

// Validate checks d and, if it passes, returns it as a Saved voucher with the
// next number of its ledger. A zero draft date means today. Rejected drafts
// consume no number.
func (v *Validator) Validate(ctx context.Context, d model.VoucherDraft) (model.Voucher, error) {
	totals, err := v.Check(d)
	if err != nil {
		return model.Voucher{}, err
	}

	now := v.now()
	date := d.Date
	if date.IsZero() {
		y, m, day := now.Date()
		date = time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
	}

	prefix := v.Prefix(d.Type)
	seq, err := v.seq.Next(ctx, id.FormatLedger(prefix, date.Year()))
	if err != nil {
		return model.Voucher{}, fmt.Errorf("assigning voucher number: %w", err)
	}

	lines := make([]model.VoucherLine, len(d.Lines))
	for i, line := range d.Lines {
		lines[i] = model.VoucherLine{
			Account: strings.TrimSpace(line.Account),
			Debit:   line.Debit,
			Credit:  line.Credit,
		}
	}

	return model.Voucher{
		ID:          id.New(),
		Number:      id.FormatVoucherNumber(prefix, date.Year(), seq),
		Date:        date,
		Type:        d.Type,
		Narration:   strings.TrimSpace(d.Narration),
		Lines:       lines,
		TotalDebit:  totals.Debit,
		TotalCredit: totals.Credit,
		Status:      model.StatusSaved,
		CreatedAt:   now.UTC(),
	}, nil
}
