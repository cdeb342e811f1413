package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerbook/ledgerbook/internal/model"
)

func TestRoundTrip(t *testing.T) {
	cfg := Default("Test Biz", "private_limited")
	cfg.Vouchers.Prefixes = map[string]string{"journal": "JNL"}

	path := filepath.Join(t.TempDir(), FileName)
	err := Save(path, cfg)
	require.NoError(t, err)

	got, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, cfg.Business, got.Business)
	assert.InDelta(t, cfg.Vouchers.Tolerance, got.Vouchers.Tolerance, 0.0001)
	assert.Equal(t, cfg.Vouchers.Sequence, got.Vouchers.Sequence)
	assert.Equal(t, "JNL", got.Vouchers.Prefixes["journal"])
	assert.Equal(t, cfg.Tax.DefaultIncomeYear, got.Tax.DefaultIncomeYear)
	assert.Equal(t, cfg.Tax.VATRates, got.Tax.VATRates)
	assert.Equal(t, cfg.Server.Addr, got.Server.Addr)
	assert.Equal(t, cfg.Log, got.Log)

	slabs, err := got.IncomeSchedule("2024-2025")
	require.NoError(t, err)
	require.Len(t, slabs, 5)
	assert.False(t, slabs[4].Upper.Valid, "top slab stays unbounded after a round trip")
}

func TestDefaults(t *testing.T) {
	cfg := Default("My Company", "private_limited")

	assert.Equal(t, "My Company", cfg.Business.Name)
	assert.Equal(t, "private_limited", cfg.Business.EntityType)
	assert.Equal(t, "BDT", cfg.Business.Currency)
	assert.Equal(t, BackendFile, cfg.Vouchers.Sequence.Backend)
	assert.True(t, cfg.Tolerance().Equal(decimal.New(1, -2)))
	assert.InDelta(t, 15, cfg.Tax.VATRate, 0.001)
	assert.Equal(t, []string{"2022-2023", "2023-2024", "2024-2025"}, cfg.TaxYears())
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Empty(t, cfg.Prefixes())
}

func TestIncomeSchedule(t *testing.T) {
	cfg := Default("Biz", "private_limited")

	slabs, err := cfg.IncomeSchedule("")
	require.NoError(t, err)
	require.Len(t, slabs, 5)
	assert.True(t, slabs[0].Lower.IsZero())
	assert.True(t, slabs[1].Lower.Equal(decimal.NewFromInt(300000)))
	assert.True(t, slabs[1].Upper.Decimal.Equal(decimal.NewFromInt(400000)))
	assert.True(t, slabs[1].Rate.Equal(decimal.NewFromInt(5)))

	_, err = cfg.IncomeSchedule("1999-2000")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2024-2025")
}

func TestPrefixes(t *testing.T) {
	cfg := Default("Biz", "private_limited")
	cfg.Vouchers.Prefixes = map[string]string{
		"Payment Voucher": "PAY",
		"rv":              "RCV",
		"contra":          "CV",
	}

	got := cfg.Prefixes()
	assert.Equal(t, map[model.VoucherType]string{
		model.VoucherPayment: "PAY",
		model.VoucherReceipt: "RCV",
	}, got)
}

func TestSequencePath(t *testing.T) {
	cfg := Default("Biz", "private_limited")
	assert.Equal(t, filepath.Join("/repo", "state", "sequences.json"), cfg.SequencePath("/repo"))

	cfg.Vouchers.Sequence.Path = "/var/lib/ledgerbook/seq.json"
	assert.Equal(t, "/var/lib/ledgerbook/seq.json", cfg.SequencePath("/repo"))
}

func TestRateAllowed(t *testing.T) {
	allowed := []float64{5, 7.5, 15}
	assert.True(t, RateAllowed(decimal.RequireFromString("7.5"), allowed))
	assert.False(t, RateAllowed(decimal.NewFromInt(12), allowed))
	assert.True(t, RateAllowed(decimal.NewFromInt(12), nil))
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvAddr, "127.0.0.1:9000")
	t.Setenv(EnvLogLevel, "debug")
	t.Setenv(EnvSequenceBackend, BackendRedis)
	t.Setenv(EnvRedisAddr, "redis:6379")

	cfg := Default("Biz", "private_limited")
	ApplyEnv(cfg)

	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format, "unset variables leave the config alone")
	assert.Equal(t, BackendRedis, cfg.Vouchers.Sequence.Backend)
	assert.Equal(t, "redis:6379", cfg.Vouchers.Sequence.RedisAddr)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, LoadDotEnv(filepath.Join(dir, ".env")), "missing file is fine")

	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("LEDGERBOOK_LOG_FORMAT=json\n"), 0o644))
	t.Setenv(EnvLogFormat, "")
	require.NoError(t, os.Unsetenv(EnvLogFormat))

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "json", os.Getenv(EnvLogFormat))
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), FileName))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_MinimalFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	minimal := `business:
  name: Corner Shop
vouchers:
  sequence:
    backend: memory
`
	require.NoError(t, os.WriteFile(path, []byte(minimal), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "Corner Shop", cfg.Business.Name)
	assert.Equal(t, "BDT", cfg.Business.Currency)
	assert.Equal(t, BackendMemory, cfg.Vouchers.Sequence.Backend)
	assert.True(t, cfg.Tolerance().Equal(decimal.New(1, -2)), "tolerance %s", cfg.Tolerance())
	assert.InDelta(t, 15, cfg.Tax.VATRate, 0.001)
	assert.InDelta(t, 27.5, cfg.Tax.CorporateRate, 0.001)
	assert.Equal(t, []float64{5, 7.5, 10, 15}, cfg.Tax.VATRates)
	assert.Equal(t, "2024-2025", cfg.Tax.DefaultIncomeYear)
	assert.Equal(t, ":8080", cfg.Server.Addr)
}

func TestLoad_ExplicitValuesWin(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	content := `vouchers:
  tolerance: 0
tax:
  vat_rates: [15]
  income_tax_schedules:
    2025-2026:
      - {from: 0, to: 375000, rate: 0}
      - {from: 375000, rate: 10}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.True(t, cfg.Tolerance().IsZero(), "an explicit zero tolerance is kept")
	assert.Equal(t, []float64{15}, cfg.Tax.VATRates)
	assert.Equal(t, []string{"2022-2023", "2023-2024", "2024-2025", "2025-2026"}, cfg.TaxYears())

	slabs, err := cfg.IncomeSchedule("2025-2026")
	require.NoError(t, err)
	require.Len(t, slabs, 2)
	assert.True(t, slabs[1].Lower.Equal(decimal.NewFromInt(375000)))
}
