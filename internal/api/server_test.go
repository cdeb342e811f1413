package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerbook/ledgerbook/internal/accounts"
	"github.com/ledgerbook/ledgerbook/internal/audit"
	"github.com/ledgerbook/ledgerbook/internal/config"
	"github.com/ledgerbook/ledgerbook/internal/tax"
	"github.com/ledgerbook/ledgerbook/internal/voucher"
)

var fixedNow = time.Date(2024, 7, 1, 10, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T) (http.Handler, *test.Hook) {
	t.Helper()
	logger, hook := test.NewNullLogger()
	cfg := config.Default("Test Biz", "private_limited")
	chart := accounts.NewService(accounts.DefaultChart("private_limited"))

	clock := func() time.Time { return fixedNow }
	v := voucher.NewValidator(voucher.NewMemorySequencer(),
		voucher.WithAccounts(chart),
		voucher.WithClock(clock),
	)

	srv := New(Deps{
		Config:     cfg,
		Accounts:   chart,
		Vouchers:   voucher.NewService(v, voucher.NewBook(), logger),
		Calculator: tax.NewCalculator(clock),
		History:    tax.NewHistory(),
		Logger:     logger,
	})
	return srv.Handler(), hook
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

const openingBalance = `{
	"date": "2024-07-01",
	"type": "journal",
	"narration": "Opening balance",
	"lines": [
		{"account": "Cash", "debit": "500000"},
		{"account": "Capital", "credit": "500000"}
	]
}`

func TestHealth(t *testing.T) {
	h, hook := newTestServer(t)
	rec := do(t, h, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "request", entry.Message)
	assert.Equal(t, "/health", entry.Data["path"])
	assert.Equal(t, http.StatusOK, entry.Data["status"])
	assert.NotEmpty(t, entry.Data["request_id"])
}

func TestListAccounts(t *testing.T) {
	h, _ := newTestServer(t)
	rec := do(t, h, http.MethodGet, "/accounts", "")
	require.Equal(t, http.StatusOK, rec.Code)

	got := decodeBody[[]accountResponse](t, rec)
	require.Len(t, got, 12)
	assert.Equal(t, "Cash", got[0].Name)
	assert.Equal(t, "asset", got[0].Type)
}

func TestAuditTrail(t *testing.T) {
	logger, _ := test.NewNullLogger()
	dir := t.TempDir()
	chart := accounts.NewService(accounts.DefaultChart("private_limited"))
	v := voucher.NewValidator(voucher.NewMemorySequencer(), voucher.WithAccounts(chart))
	h := New(Deps{
		Config:     config.Default("Test Biz", "private_limited"),
		Accounts:   chart,
		Vouchers:   voucher.NewService(v, voucher.NewBook(), logger),
		Calculator: tax.NewCalculator(nil),
		History:    tax.NewHistory(),
		Logger:     logger,
		Audit:      audit.NewLog(dir, "api"),
	}).Handler()

	rec := do(t, h, http.MethodPost, "/vouchers", openingBalance)
	require.Equal(t, http.StatusCreated, rec.Code)
	saved := decodeBody[voucherResponse](t, rec)
	rec = do(t, h, http.MethodPost, "/vouchers/"+saved.ID+"/post", "")
	require.Equal(t, http.StatusOK, rec.Code)
	rec = do(t, h, http.MethodPost, "/tax/compute", `{"kind":"vat","amount":"1000"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	entries, err := audit.Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, audit.ActionVoucherSaved, entries[0].Action)
	assert.Equal(t, saved.Number, entries[0].Reference)
	assert.Equal(t, "500000.00", entries[0].Amount)
	assert.Equal(t, audit.ActionVoucherPosted, entries[1].Action)
	assert.Equal(t, audit.ActionTaxComputed, entries[2].Action)
	assert.Equal(t, "150.00", entries[2].Amount)
}
