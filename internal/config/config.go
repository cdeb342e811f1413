package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/ledgerbook/ledgerbook/internal/model"
)

// FileName is the project config file at the repo root.
const FileName = "ledgerbook.yaml"

// Sequence backends.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
)

// Config represents the top-level ledgerbook.yaml configuration.
type Config struct {
	Business BusinessConfig `yaml:"business"`
	Vouchers VoucherConfig  `yaml:"vouchers"`
	Tax      TaxConfig      `yaml:"tax"`
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
}

// BusinessConfig identifies the business entity.
type BusinessConfig struct {
	Name       string `yaml:"name"`
	EntityType string `yaml:"entity_type"`
	Currency   string `yaml:"currency"`
}

// VoucherConfig controls validation and numbering.
type VoucherConfig struct {
	Tolerance float64           `yaml:"tolerance"`
	Prefixes  map[string]string `yaml:"prefixes,omitempty"` // voucher type -> prefix
	Sequence  SequenceConfig    `yaml:"sequence"`
}

// SequenceConfig selects where voucher counters live.
type SequenceConfig struct {
	Backend   string `yaml:"backend"`              // memory, file or redis
	Path      string `yaml:"path,omitempty"`       // file backend, relative to the repo
	RedisAddr string `yaml:"redis_addr,omitempty"` // redis backend
	KeyPrefix string `yaml:"key_prefix,omitempty"`
}

// TaxConfig holds rates and slab tables.
type TaxConfig struct {
	VATRate            float64                 `yaml:"vat_rate"`
	VATRates           []float64               `yaml:"vat_rates"`
	CorporateRate      float64                 `yaml:"corporate_rate"`
	CorporateRates     []float64               `yaml:"corporate_rates"`
	DefaultIncomeYear  string                  `yaml:"default_income_year"`
	IncomeTaxSchedules map[string][]SlabConfig `yaml:"income_tax_schedules"`
}

// SlabConfig is one slab of an income tax schedule. A nil To is unbounded.
type SlabConfig struct {
	From float64  `yaml:"from"`
	To   *float64 `yaml:"to,omitempty"`
	Rate float64  `yaml:"rate"`
}

// ServerConfig controls the HTTP API.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// LogConfig controls logrus output.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text or json
}

// Load reads a ledgerbook.yaml file from disk. Keys the file leaves out keep
// their Default values; income tax schedules in the file replace the built-in
// table for the years they name.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default("", "")
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new project.
func Default(businessName, entityType string) *Config {
	return &Config{
		Business: BusinessConfig{
			Name:       businessName,
			EntityType: entityType,
			Currency:   "BDT",
		},
		Vouchers: VoucherConfig{
			Tolerance: 0.01,
			Sequence: SequenceConfig{
				Backend: BackendFile,
				Path:    filepath.Join("state", "sequences.json"),
			},
		},
		Tax: TaxConfig{
			VATRate:           15,
			VATRates:          []float64{5, 7.5, 10, 15},
			CorporateRate:     27.5,
			CorporateRates:    []float64{20, 22.5, 25, 27.5, 30},
			DefaultIncomeYear: "2024-2025",
			IncomeTaxSchedules: map[string][]SlabConfig{
				"2022-2023": {
					{From: 0, To: bound(300000), Rate: 0},
					{From: 300000, To: bound(400000), Rate: 5},
					{From: 400000, To: bound(700000), Rate: 10},
					{From: 700000, To: bound(1100000), Rate: 15},
					{From: 1100000, To: bound(1600000), Rate: 20},
					{From: 1600000, Rate: 25},
				},
				"2023-2024": {
					{From: 0, To: bound(350000), Rate: 0},
					{From: 350000, To: bound(450000), Rate: 5},
					{From: 450000, To: bound(750000), Rate: 10},
					{From: 750000, To: bound(1150000), Rate: 15},
					{From: 1150000, To: bound(1650000), Rate: 20},
					{From: 1650000, Rate: 25},
				},
				"2024-2025": {
					{From: 0, To: bound(300000), Rate: 0},
					{From: 300000, To: bound(400000), Rate: 5},
					{From: 400000, To: bound(700000), Rate: 10},
					{From: 700000, To: bound(1000000), Rate: 15},
					{From: 1000000, Rate: 20},
				},
			},
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

func bound(v float64) *float64 {
	return &v
}

// Tolerance returns the balance tolerance as a decimal.
func (c *Config) Tolerance() decimal.Decimal {
	return decimal.NewFromFloat(c.Vouchers.Tolerance)
}

// Prefixes returns the configured number prefixes keyed by voucher type.
// Unknown type names are skipped.
func (c *Config) Prefixes() map[model.VoucherType]string {
	out := make(map[model.VoucherType]string, len(c.Vouchers.Prefixes))
	for name, prefix := range c.Vouchers.Prefixes {
		t, err := model.ParseVoucherType(name)
		if err != nil {
			continue
		}
		out[t] = prefix
	}
	return out
}

// SequencePath resolves the file backend path against repoRoot.
func (c *Config) SequencePath(repoRoot string) string {
	p := c.Vouchers.Sequence.Path
	if p == "" {
		p = filepath.Join("state", "sequences.json")
	}
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(repoRoot, p)
}

// TaxYears lists the configured income tax years in ascending order.
func (c *Config) TaxYears() []string {
	years := make([]string, 0, len(c.Tax.IncomeTaxSchedules))
	for y := range c.Tax.IncomeTaxSchedules {
		years = append(years, y)
	}
	sort.Strings(years)
	return years
}

// IncomeSchedule returns the slab table for year. An empty year uses
// DefaultIncomeYear.
func (c *Config) IncomeSchedule(year string) ([]model.TaxSlab, error) {
	if year == "" {
		year = c.Tax.DefaultIncomeYear
	}
	slabs, ok := c.Tax.IncomeTaxSchedules[year]
	if !ok {
		return nil, fmt.Errorf("no income tax schedule for %q (configured: %s)",
			year, strings.Join(c.TaxYears(), ", "))
	}

	out := make([]model.TaxSlab, len(slabs))
	for i, s := range slabs {
		out[i] = model.TaxSlab{
			Lower: decimal.NewFromFloat(s.From),
			Rate:  decimal.NewFromFloat(s.Rate),
		}
		if s.To != nil {
			out[i].Upper = decimal.NewNullDecimal(decimal.NewFromFloat(*s.To))
		}
	}
	return out, nil
}

// RateAllowed reports whether rate is one of allowed. An empty list allows
// any rate.
func RateAllowed(rate decimal.Decimal, allowed []float64) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, a := range allowed {
		if decimal.NewFromFloat(a).Equal(rate) {
			return true
		}
	}
	return false
}
