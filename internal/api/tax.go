package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/ledgerbook/ledgerbook/internal/audit"
	"github.com/ledgerbook/ledgerbook/internal/config"
	"github.com/ledgerbook/ledgerbook/internal/model"
	"github.com/ledgerbook/ledgerbook/internal/tax"
)

func (s *Server) computeTax(w http.ResponseWriter, r *http.Request) {
	var in computeRequest
	if !s.decode(w, r, &in) {
		return
	}

	kind, err := model.ParseTaxKind(in.Kind)
	if err != nil {
		s.writeError(w, r, "computeTax", tax.Error{Kind: tax.KindInvalidKind, Detail: in.Kind})
		return
	}
	amount, err := tax.ParseAmount(in.Amount)
	if err != nil {
		s.writeError(w, r, "computeTax", err)
		return
	}
	basis, err := s.basisFor(kind, in)
	if err != nil {
		s.writeError(w, r, "computeTax", err)
		return
	}

	rec, err := s.calc.Compute(kind, amount, basis)
	if err != nil {
		s.writeError(w, r, "computeTax", err)
		return
	}
	s.history.Append(rec)
	s.record("computeTax", audit.ActionTaxComputed, rec.ID, money(rec.TaxAmount), rec.Kind.Label())
	s.log.WithFields(logrus.Fields{
		"module": "tax",
		"kind":   rec.Kind,
		"gross":  money(rec.GrossAmount),
		"tax":    money(rec.TaxAmount),
	}).Info("tax computed")
	writeJSON(w, http.StatusCreated, newTaxRecordResponse(rec))
}

// basisFor picks the rating basis. Income tax defaults to the configured slab
// table, VAT and corporate tax to their configured flat rate.
func (s *Server) basisFor(kind model.TaxKind, in computeRequest) (tax.Basis, error) {
	basis := in.Basis
	if basis == "" {
		basis = "flat"
		if kind == model.TaxIncome {
			basis = "progressive"
		}
	}

	if basis == "progressive" {
		year := strings.TrimSpace(in.TaxYear)
		if year == "" {
			year = s.cfg.Tax.DefaultIncomeYear
		}
		slabs, err := s.cfg.IncomeSchedule(year)
		if err != nil {
			return nil, tax.Error{Kind: tax.KindEmptySlabTable, Detail: err.Error()}
		}
		return tax.Progressive{TaxYear: year, Schedule: slabs}, nil
	}

	def, allowed := s.cfg.Tax.VATRate, s.cfg.Tax.VATRates
	if kind == model.TaxCorporate {
		def, allowed = s.cfg.Tax.CorporateRate, s.cfg.Tax.CorporateRates
	}
	if in.Rate == nil {
		if kind == model.TaxIncome {
			return nil, tax.Error{Kind: tax.KindInvalidAmount, Detail: "rate is required for flat income tax"}
		}
		return tax.FlatRate{Percent: decimal.NewFromFloat(def)}, nil
	}
	if kind != model.TaxIncome && !config.RateAllowed(*in.Rate, allowed) {
		return nil, tax.Error{Kind: tax.KindInvalidAmount, Detail: fmt.Sprintf("rate %s%% is not an allowed %s rate", in.Rate, kind.Label())}
	}
	return tax.FlatRate{Percent: *in.Rate}, nil
}

func (s *Server) listHistory(w http.ResponseWriter, r *http.Request) {
	list := s.history.List()
	out := make([]taxRecordResponse, len(list))
	for i, rec := range list {
		out[i] = newTaxRecordResponse(rec)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) deleteHistory(w http.ResponseWriter, r *http.Request) {
	recordID := chi.URLParam(r, "id")
	if err := s.history.Delete(recordID); err != nil {
		s.writeError(w, r, "deleteHistory", err)
		return
	}
	s.record("deleteHistory", audit.ActionTaxDeleted, recordID, "", "")
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) summary(w http.ResponseWriter, r *http.Request) {
	sums := s.history.Summary()
	out := make([]summaryResponse, len(sums))
	for i, sum := range sums {
		out[i] = newSummaryResponse(sum)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) schedule(w http.ResponseWriter, r *http.Request) {
	year := chi.URLParam(r, "year")
	slabs, err := s.cfg.IncomeSchedule(year)
	if err != nil {
		writeErrorDetail(w, http.StatusNotFound, errorDetail{Kind: kindNotFound, Message: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, newScheduleResponse(year, slabs))
}
