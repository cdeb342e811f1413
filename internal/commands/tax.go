package commands

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/ledgerbook/ledgerbook/internal/audit"
	"github.com/ledgerbook/ledgerbook/internal/config"
	"github.com/ledgerbook/ledgerbook/internal/model"
	"github.com/ledgerbook/ledgerbook/internal/tax"
)

func newTaxCommand() *cobra.Command {
	var repoDir string

	taxCmd := &cobra.Command{
		Use:   "tax",
		Short: "Tax calculations",
	}
	taxCmd.PersistentFlags().StringVar(&repoDir, "repo", ".", "repository directory (for configured rates and slabs)")

	load := func() (*taxEnv, error) {
		absDir, err := filepath.Abs(repoDir)
		if err != nil {
			return nil, fmt.Errorf("resolving path: %w", err)
		}
		cfg, err := loadConfig(absDir)
		if errors.Is(err, fs.ErrNotExist) {
			return &taxEnv{cfg: config.Default("", "")}, nil
		}
		if err != nil {
			return nil, err
		}
		return &taxEnv{cfg: cfg, audit: audit.NewLog(absDir, "cli")}, nil
	}

	taxCmd.AddCommand(newFlatTaxCommand(model.TaxVAT, "vat", load))
	taxCmd.AddCommand(newFlatTaxCommand(model.TaxCorporate, "corporate", load))
	taxCmd.AddCommand(newIncomeTaxCommand(load))
	taxCmd.AddCommand(newSlabsCommand(load))
	return taxCmd
}

// taxEnv is the configuration a tax command runs with. audit is nil outside a
// ledgerbook project, where nothing is recorded.
type taxEnv struct {
	cfg   *config.Config
	audit *audit.Log
}

func (e *taxEnv) record(rec model.TaxCalculation) error {
	if e.audit == nil {
		return nil
	}
	if err := e.audit.Record(audit.ActionTaxComputed, rec.ID, rec.TaxAmount.StringFixed(2), rec.Kind.Label()); err != nil {
		return fmt.Errorf("recording audit entry: %w", err)
	}
	return nil
}

func newFlatTaxCommand(kind model.TaxKind, use string, load func() (*taxEnv, error)) *cobra.Command {
	var rate string

	cmd := &cobra.Command{
		Use:   use + " <amount>",
		Short: "Calculate " + kind.Label() + " at a flat rate",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := load()
			if err != nil {
				return err
			}
			cfg := env.cfg
			amount, err := tax.ParseAmount(args[0])
			if err != nil {
				return err
			}

			def, allowed := cfg.Tax.VATRate, cfg.Tax.VATRates
			if kind == model.TaxCorporate {
				def, allowed = cfg.Tax.CorporateRate, cfg.Tax.CorporateRates
			}
			pct := decimal.NewFromFloat(def)
			if rate != "" {
				pct, err = decimal.NewFromString(rate)
				if err != nil {
					return fmt.Errorf("parsing --rate: %w", err)
				}
				if !config.RateAllowed(pct, allowed) {
					return fmt.Errorf("%s%% is not an allowed %s rate (allowed: %v)", pct, kind.Label(), allowed)
				}
			}

			rec, err := tax.NewCalculator(nil).Compute(kind, amount, tax.FlatRate{Percent: pct})
			if err != nil {
				return err
			}
			printRecord(cmd.OutOrStdout(), rec)
			return env.record(rec)
		},
	}

	cmd.Flags().StringVar(&rate, "rate", "", "rate in percent (default from config)")
	return cmd
}

func newIncomeTaxCommand(load func() (*taxEnv, error)) *cobra.Command {
	var year string

	cmd := &cobra.Command{
		Use:   "income <income>",
		Short: "Calculate income tax through the slab table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := load()
			if err != nil {
				return err
			}
			cfg := env.cfg
			income, err := tax.ParseAmount(args[0])
			if err != nil {
				return err
			}
			if year == "" {
				year = cfg.Tax.DefaultIncomeYear
			}
			slabs, err := cfg.IncomeSchedule(year)
			if err != nil {
				return err
			}

			res, err := tax.CalculateProgressive(income, slabs)
			if err != nil {
				return err
			}
			rec, err := tax.NewCalculator(nil).Compute(model.TaxIncome, income, tax.Progressive{TaxYear: year, Schedule: slabs})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Income Tax %s\n", year)
			fmt.Fprintf(out, "  Income:         %s\n", income.StringFixed(2))
			for _, b := range res.Bands {
				fmt.Fprintf(out, "  %-14s %s on %s = %s\n", slabRange(b.Slab), b.Slab.Rate.String()+"%", b.Taxable.StringFixed(2), b.Tax.StringFixed(2))
			}
			fmt.Fprintf(out, "  Tax:            %s\n", res.TaxAmount.StringFixed(2))
			fmt.Fprintf(out, "  Effective rate: %s%%\n", res.EffectiveRatePercent.StringFixed(2))
			fmt.Fprintf(out, "  %s\n", res.Explanation)
			return env.record(rec)
		},
	}

	cmd.Flags().StringVar(&year, "year", "", "tax year, e.g. 2024-2025 (default from config)")
	return cmd
}

func newSlabsCommand(load func() (*taxEnv, error)) *cobra.Command {
	var year string

	cmd := &cobra.Command{
		Use:   "slabs",
		Short: "Show the income tax slab table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := load()
			if err != nil {
				return err
			}
			if year == "" {
				year = env.cfg.Tax.DefaultIncomeYear
			}
			slabs, err := env.cfg.IncomeSchedule(year)
			if err != nil {
				return err
			}
			if err := tax.Schedule(slabs).Validate(); err != nil {
				return fmt.Errorf("schedule %s: %w", year, err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Income tax slabs %s\n", year)
			for _, s := range slabs {
				fmt.Fprintf(out, "  %-24s %s%%\n", slabRange(s), s.Rate.String())
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&year, "year", "", "tax year (default from config)")
	return cmd
}

func slabRange(s model.TaxSlab) string {
	if !s.Upper.Valid {
		return "above " + s.Lower.StringFixed(0)
	}
	return s.Lower.StringFixed(0) + "-" + s.Upper.Decimal.StringFixed(0)
}

func printRecord(out io.Writer, rec model.TaxCalculation) {
	fmt.Fprintf(out, "%s\n", rec.Kind.Label())
	fmt.Fprintf(out, "  Amount: %s\n", rec.GrossAmount.StringFixed(2))
	if rec.AppliedRate != nil {
		fmt.Fprintf(out, "  Rate:   %s%%\n", rec.AppliedRate.String())
	}
	fmt.Fprintf(out, "  Tax:    %s\n", rec.TaxAmount.StringFixed(2))
	fmt.Fprintf(out, "  Total:  %s\n", rec.TotalAmount.StringFixed(2))
}
