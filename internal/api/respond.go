package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/ledgerbook/ledgerbook/internal/logging"
	"github.com/ledgerbook/ledgerbook/internal/tax"
	"github.com/ledgerbook/ledgerbook/internal/voucher"
)

const (
	kindInvalidRequest = "InvalidRequest"
	kindNotFound       = "NotFound"
	kindConflict       = "Conflict"
	kindInternal       = "Internal"
)

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Kind       string            `json:"kind"`
	Message    string            `json:"message"`
	Line       *int              `json:"line,omitempty"` // 1-based
	Difference string            `json:"difference,omitempty"`
	Fields     map[string]string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErrorDetail(w http.ResponseWriter, status int, d errorDetail) {
	writeJSON(w, status, errorBody{Error: d})
}

// writeError maps domain errors to status codes. Anything unrecognized is
// logged and reported as 500.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, funcName string, err error) {
	var ve voucher.ValidationError
	var te tax.Error
	switch {
	case errors.As(err, &ve):
		d := errorDetail{Kind: string(ve.Kind), Message: ve.Error()}
		if ve.Line != voucher.NoLine {
			line := ve.Line + 1
			d.Line = &line
		}
		if ve.Kind == voucher.KindUnbalanced {
			d.Difference = ve.Difference.StringFixed(2)
		}
		writeErrorDetail(w, http.StatusUnprocessableEntity, d)
	case errors.As(err, &te):
		writeErrorDetail(w, http.StatusUnprocessableEntity, errorDetail{Kind: string(te.Kind), Message: te.Error()})
	case errors.Is(err, voucher.ErrNotFound), errors.Is(err, tax.ErrRecordNotFound):
		writeErrorDetail(w, http.StatusNotFound, errorDetail{Kind: kindNotFound, Message: err.Error()})
	case errors.Is(err, voucher.ErrAlreadyPosted), errors.Is(err, voucher.ErrPostedImmutable):
		writeErrorDetail(w, http.StatusConflict, errorDetail{Kind: kindConflict, Message: err.Error()})
	default:
		logging.LogError(s.log, "api", funcName, r.URL.Path, nil, err)
		writeErrorDetail(w, http.StatusInternalServerError, errorDetail{Kind: kindInternal, Message: "internal server error"})
	}
}

// decode reads a JSON body into dst and runs its validate tags. It writes
// the 400 response itself and reports whether the handler should continue.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeErrorDetail(w, http.StatusBadRequest, errorDetail{Kind: kindInvalidRequest, Message: "malformed JSON body: " + err.Error()})
		return false
	}
	if err := s.validate.Struct(dst); err != nil {
		writeErrorDetail(w, http.StatusBadRequest, errorDetail{
			Kind:    kindInvalidRequest,
			Message: "request failed validation",
			Fields:  validationFields(err),
		})
		return false
	}
	return true
}

func validationFields(err error) map[string]string {
	out := make(map[string]string)
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		out["_"] = err.Error()
		return out
	}
	for _, fe := range verrs {
		out[fe.Field()] = fe.Tag()
	}
	return out
}
