package commands

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerbook/ledgerbook/internal/accounts"
	"github.com/ledgerbook/ledgerbook/internal/config"
	"github.com/ledgerbook/ledgerbook/internal/model"
	"github.com/ledgerbook/ledgerbook/internal/voucher"
)

func rentDraft(account string) model.VoucherDraft {
	return model.VoucherDraft{
		Date:      time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
		Type:      model.VoucherPayment,
		Narration: "Office rent",
		Lines: []model.VoucherLine{
			{Account: account, Debit: decimal.NewFromInt(25000), Credit: decimal.Zero},
			{Account: "Cash", Debit: decimal.Zero, Credit: decimal.NewFromInt(25000)},
		},
	}
}

func TestNewValidator_NilChartSkipsLookup(t *testing.T) {
	v := newValidator(config.Default("", ""), nil, voucher.NewMemorySequencer())

	require.NotPanics(t, func() {
		_, err := v.Check(rentDraft("Anything Goes"))
		assert.NoError(t, err)
	})
}

func TestNewValidator_ChartRejectsUnknownAccount(t *testing.T) {
	chart := accounts.NewService(accounts.DefaultChart("private_limited"))
	v := newValidator(config.Default("", ""), chart, voucher.NewMemorySequencer())

	_, err := v.Check(rentDraft("Anything Goes"))
	assert.ErrorIs(t, err, voucher.ErrUnknownAccount)
}
