package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/ledgerbook/ledgerbook/internal/accounts"
	"github.com/ledgerbook/ledgerbook/internal/config"
	"github.com/ledgerbook/ledgerbook/internal/logging"
	"github.com/ledgerbook/ledgerbook/internal/tax"
	"github.com/ledgerbook/ledgerbook/internal/voucher"
)

// Deps are the services the API serves.
type Deps struct {
	Config     *config.Config
	Accounts   *accounts.Service
	Vouchers   *voucher.Service
	Calculator *tax.Calculator
	History    *tax.History
	Logger     *logrus.Logger
	// Audit, if set, records every change made through the API.
	Audit Auditor
}

// Auditor records changes made through the API.
type Auditor interface {
	Record(action, reference, amount, details string) error
}

// Server is the ledgerbook HTTP API.
type Server struct {
	cfg      *config.Config
	accounts *accounts.Service
	vouchers *voucher.Service
	calc     *tax.Calculator
	history  *tax.History
	log      *logrus.Logger
	audit    Auditor
	validate *validator.Validate
}

// New creates a Server.
func New(d Deps) *Server {
	return &Server{
		cfg:      d.Config,
		accounts: d.Accounts,
		vouchers: d.Vouchers,
		calc:     d.Calculator,
		history:  d.History,
		log:      d.Logger,
		audit:    d.Audit,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Handler returns the routed API.
func (s *Server) Handler() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(requestLogger(s.log))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(30 * time.Second))

	router.Get("/health", s.health)
	router.Get("/accounts", s.listAccounts)

	router.Route("/vouchers", func(r chi.Router) {
		r.Post("/validate", s.validateVoucher)
		r.Post("/", s.createVoucher)
		r.Get("/", s.listVouchers)
		r.Get("/{id}", s.getVoucher)
		r.Post("/{id}/post", s.postVoucher)
		r.Delete("/{id}", s.deleteVoucher)
	})

	router.Route("/tax", func(r chi.Router) {
		r.Post("/compute", s.computeTax)
		r.Get("/history", s.listHistory)
		r.Delete("/history/{id}", s.deleteHistory)
		r.Get("/summary", s.summary)
		r.Get("/schedules/{year}", s.schedule)
	})

	return router
}

func (s *Server) record(funcName, action, reference, amount, details string) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Record(action, reference, amount, details); err != nil {
		logging.LogError(s.log, "api", funcName, "writing audit log", action, err)
	}
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) listAccounts(w http.ResponseWriter, r *http.Request) {
	all := s.accounts.All()
	out := make([]accountResponse, len(all))
	for i, a := range all {
		out[i] = newAccountResponse(a)
	}
	writeJSON(w, http.StatusOK, out)
}
