package api

import (
	"github.com/shopspring/decimal"

	"github.com/ledgerbook/ledgerbook/internal/model"
	"github.com/ledgerbook/ledgerbook/internal/tax"
	"github.com/ledgerbook/ledgerbook/internal/voucher"
)

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

type accountResponse struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	ParentID    int    `json:"parent_id,omitempty"`
	Description string `json:"description,omitempty"`
}

func newAccountResponse(a model.Account) accountResponse {
	return accountResponse{
		ID:          a.ID,
		Name:        a.Name,
		Type:        string(a.Type),
		ParentID:    a.ParentID,
		Description: a.Description,
	}
}

type lineResponse struct {
	Account string `json:"account"`
	Debit   string `json:"debit"`
	Credit  string `json:"credit"`
}

type voucherResponse struct {
	ID          string         `json:"id"`
	Number      string         `json:"number"`
	Date        string         `json:"date"`
	Type        string         `json:"type"`
	TypeLabel   string         `json:"type_label"`
	Narration   string         `json:"narration"`
	Lines       []lineResponse `json:"lines"`
	TotalDebit  string         `json:"total_debit"`
	TotalCredit string         `json:"total_credit"`
	Status      string         `json:"status"`
	CreatedAt   string         `json:"created_at"`
}

func newVoucherResponse(v model.Voucher) voucherResponse {
	lines := make([]lineResponse, len(v.Lines))
	for i, l := range v.Lines {
		lines[i] = lineResponse{Account: l.Account, Debit: money(l.Debit), Credit: money(l.Credit)}
	}
	return voucherResponse{
		ID:          v.ID,
		Number:      v.Number,
		Date:        v.Date.Format(voucher.DateFormat),
		Type:        string(v.Type),
		TypeLabel:   v.Type.Label(),
		Narration:   v.Narration,
		Lines:       lines,
		TotalDebit:  money(v.TotalDebit),
		TotalCredit: money(v.TotalCredit),
		Status:      string(v.Status),
		CreatedAt:   v.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

type totalsResponse struct {
	Balanced    bool   `json:"balanced"`
	TotalDebit  string `json:"total_debit"`
	TotalCredit string `json:"total_credit"`
	Difference  string `json:"difference"`
}

func newTotalsResponse(t voucher.Totals) totalsResponse {
	return totalsResponse{
		Balanced:    true,
		TotalDebit:  money(t.Debit),
		TotalCredit: money(t.Credit),
		Difference:  money(t.Difference),
	}
}

// computeRequest is the body of POST /tax/compute. Amount is a string so
// "৳ 20,000" style input is accepted.
type computeRequest struct {
	Kind    string           `json:"kind" validate:"required,oneof=vat income_tax corporate_tax"`
	Amount  string           `json:"amount" validate:"required"`
	Basis   string           `json:"basis" validate:"omitempty,oneof=flat progressive"`
	Rate    *decimal.Decimal `json:"rate"`
	TaxYear string           `json:"tax_year"`
}

type taxRecordResponse struct {
	ID          string  `json:"id"`
	Date        string  `json:"date"`
	Kind        string  `json:"kind"`
	KindLabel   string  `json:"kind_label"`
	GrossAmount string  `json:"gross_amount"`
	AppliedRate *string `json:"applied_rate"`
	TaxAmount   string  `json:"tax_amount"`
	TotalAmount string  `json:"total_amount"`
	TaxYear     string  `json:"tax_year,omitempty"`
	Explanation string  `json:"explanation"`
}

func newTaxRecordResponse(rec model.TaxCalculation) taxRecordResponse {
	out := taxRecordResponse{
		ID:          rec.ID,
		Date:        rec.Date.Format(voucher.DateFormat),
		Kind:        string(rec.Kind),
		KindLabel:   rec.Kind.Label(),
		GrossAmount: money(rec.GrossAmount),
		TaxAmount:   money(rec.TaxAmount),
		TotalAmount: money(rec.TotalAmount),
		TaxYear:     rec.TaxYear,
		Explanation: rec.Explanation,
	}
	if rec.AppliedRate != nil {
		rate := rec.AppliedRate.String()
		out.AppliedRate = &rate
	}
	return out
}

type summaryResponse struct {
	Kind        string `json:"kind"`
	Label       string `json:"label"`
	Count       int    `json:"count"`
	TotalTax    string `json:"total_tax"`
	AverageRate string `json:"average_rate"`
}

func newSummaryResponse(s tax.KindSummary) summaryResponse {
	return summaryResponse{
		Kind:        string(s.Kind),
		Label:       s.Kind.Label(),
		Count:       s.Count,
		TotalTax:    money(s.TotalTax),
		AverageRate: s.AverageRate.StringFixed(2),
	}
}

type slabResponse struct {
	From string  `json:"from"`
	To   *string `json:"to"`
	Rate string  `json:"rate"`
}

type scheduleResponse struct {
	TaxYear string         `json:"tax_year"`
	Slabs   []slabResponse `json:"slabs"`
}

func newScheduleResponse(year string, schedule tax.Schedule) scheduleResponse {
	out := scheduleResponse{TaxYear: year, Slabs: make([]slabResponse, len(schedule))}
	for i, slab := range schedule {
		sr := slabResponse{From: money(slab.Lower), Rate: slab.Rate.String()}
		if slab.Upper.Valid {
			to := money(slab.Upper.Decimal)
			sr.To = &to
		}
		out.Slabs[i] = sr
	}
	return out
}
