package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ledgerbook/ledgerbook/internal/audit"
	"github.com/ledgerbook/ledgerbook/internal/id"
	"github.com/ledgerbook/ledgerbook/internal/voucher"
)

func (s *Server) validateVoucher(w http.ResponseWriter, r *http.Request) {
	var in voucher.DraftInput
	if !s.decode(w, r, &in) {
		return
	}
	d, err := in.Draft()
	if err != nil {
		s.writeError(w, r, "validateVoucher", err)
		return
	}
	totals, err := s.vouchers.Check(d)
	if err != nil {
		s.writeError(w, r, "validateVoucher", err)
		return
	}
	writeJSON(w, http.StatusOK, newTotalsResponse(totals))
}

func (s *Server) createVoucher(w http.ResponseWriter, r *http.Request) {
	var in voucher.DraftInput
	if !s.decode(w, r, &in) {
		return
	}
	d, err := in.Draft()
	if err != nil {
		s.writeError(w, r, "createVoucher", err)
		return
	}
	v, err := s.vouchers.Save(r.Context(), d)
	if err != nil {
		s.writeError(w, r, "createVoucher", err)
		return
	}
	s.record("createVoucher", audit.ActionVoucherSaved, v.Number, money(v.TotalDebit), v.Narration)
	w.Header().Set("Location", "/vouchers/"+v.ID)
	writeJSON(w, http.StatusCreated, newVoucherResponse(v))
}

// listVouchers returns the book in insertion order. ?ledger=JV-2024 keeps
// only vouchers numbered in that ledger.
func (s *Server) listVouchers(w http.ResponseWriter, r *http.Request) {
	ledger := r.URL.Query().Get("ledger")
	out := make([]voucherResponse, 0)
	for _, v := range s.vouchers.List() {
		if ledger != "" {
			prefix, year, _, err := id.ParseVoucherNumber(v.Number)
			if err != nil || id.FormatLedger(prefix, year) != ledger {
				continue
			}
		}
		out = append(out, newVoucherResponse(v))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) getVoucher(w http.ResponseWriter, r *http.Request) {
	v, ok := s.vouchers.Get(chi.URLParam(r, "id"))
	if !ok {
		s.writeError(w, r, "getVoucher", voucher.ErrNotFound)
		return
	}
	writeJSON(w, http.StatusOK, newVoucherResponse(v))
}

func (s *Server) postVoucher(w http.ResponseWriter, r *http.Request) {
	v, err := s.vouchers.Post(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, "postVoucher", err)
		return
	}
	s.record("postVoucher", audit.ActionVoucherPosted, v.Number, money(v.TotalDebit), "")
	writeJSON(w, http.StatusOK, newVoucherResponse(v))
}

func (s *Server) deleteVoucher(w http.ResponseWriter, r *http.Request) {
	voucherID := chi.URLParam(r, "id")
	v, _ := s.vouchers.Get(voucherID)
	if err := s.vouchers.Delete(voucherID); err != nil {
		s.writeError(w, r, "deleteVoucher", err)
		return
	}
	s.record("deleteVoucher", audit.ActionVoucherDeleted, v.Number, money(v.TotalDebit), "")
	w.WriteHeader(http.StatusNoContent)
}
